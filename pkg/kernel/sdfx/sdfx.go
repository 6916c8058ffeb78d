// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultAreaCells controls the sampling grid used by Area.
const defaultAreaCells = 128

// sdfxRegion wraps an sdf.SDF2 with its own bounding box. Booleans keep a
// tight box so that Area samples only where the result can be non-empty.
type sdfxRegion struct {
	s  sdf.SDF2
	bb sdf.Box2
}

// BoundingBox returns the axis-aligned bounding box.
func (r *sdfxRegion) BoundingBox() (min, max [2]float64) {
	return [2]float64{r.bb.Min.X, r.bb.Min.Y}, [2]float64{r.bb.Max.X, r.bb.Max.Y}
}

// Contains reports whether (x, y) lies inside the region by more than
// geom.Epsilon. Points on the boundary are outside.
func (r *sdfxRegion) Contains(x, y float64) bool {
	return r.s.Evaluate(v2.Vec{X: x, Y: y}) < -geom.Epsilon
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	cells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{cells: defaultAreaCells}
}

// NewWithResolution returns a kernel sampling Area on a cells×cells grid.
func NewWithResolution(cells int) *SdfxKernel {
	if cells < 1 {
		cells = defaultAreaCells
	}
	return &SdfxKernel{cells: cells}
}

func unwrap(r kernel.Region) *sdfxRegion {
	return r.(*sdfxRegion)
}

func wrap(s sdf.SDF2) kernel.Region {
	return &sdfxRegion{s: s, bb: s.BoundingBox()}
}

// Polygon builds a region from a closed polyline. Repeated vertices,
// including a repeated closing vertex, are dropped.
func (k *SdfxKernel) Polygon(p *kernel.Polyline) (kernel.Region, error) {
	vs := make([]v2.Vec, 0, p.VertexCount())
	for i := 0; i < p.VertexCount(); i++ {
		x, y := p.At(i)
		v := v2.Vec{X: x, Y: y}
		if len(vs) > 0 && geom.NearPoint(vs[len(vs)-1], v) {
			continue
		}
		vs = append(vs, v)
	}
	if len(vs) > 1 && geom.NearPoint(vs[0], vs[len(vs)-1]) {
		vs = vs[:len(vs)-1]
	}
	if len(vs) < 3 {
		return nil, errors.Errorf("polygon %q needs at least 3 vertices, got %d", p.PartName, len(vs))
	}
	s, err := sdf.Polygon2D(vs)
	if err != nil {
		return nil, errors.Wrapf(err, "polygon %q", p.PartName)
	}
	return wrap(s), nil
}

// Rect creates a w×h rectangle with its minimum corner at the origin. Both
// sides must be positive.
func (k *SdfxKernel) Rect(w, h float64) (kernel.Region, error) {
	if !(w > 0) || !(h > 0) {
		return nil, errors.Errorf("rect %gx%g must have positive sides", w, h)
	}
	s, err := sdf.Polygon2D([]v2.Vec{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}})
	if err != nil {
		return nil, errors.Wrap(err, "rect")
	}
	return wrap(s), nil
}

// Union returns the union of two regions.
func (k *SdfxKernel) Union(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	return &sdfxRegion{s: sdf.Union2D(ra.s, rb.s), bb: geom.Union(ra.bb, rb.bb)}
}

// Difference returns a - b.
func (k *SdfxKernel) Difference(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	return &sdfxRegion{s: sdf.Difference2D(ra.s, rb.s), bb: ra.bb}
}

// Intersection returns the overlap of two regions. Its bounding box may be
// empty (Min beyond Max).
func (k *SdfxKernel) Intersection(a, b kernel.Region) kernel.Region {
	ra, rb := unwrap(a), unwrap(b)
	bb := sdf.Box2{
		Min: v2.Vec{X: max(ra.bb.Min.X, rb.bb.Min.X), Y: max(ra.bb.Min.Y, rb.bb.Min.Y)},
		Max: v2.Vec{X: min(ra.bb.Max.X, rb.bb.Max.X), Y: min(ra.bb.Max.Y, rb.bb.Max.Y)},
	}
	return &sdfxRegion{s: sdf.Intersect2D(ra.s, rb.s), bb: bb}
}

// Translate moves a region by (x, y).
func (k *SdfxKernel) Translate(r kernel.Region, x, y float64) kernel.Region {
	rr := unwrap(r)
	d := v2.Vec{X: x, Y: y}
	return &sdfxRegion{
		s:  sdf.Transform2D(rr.s, sdf.Translate2d(d)),
		bb: geom.Offset(rr.bb, d),
	}
}

// Area estimates the region's area by sampling cell centers over its
// bounding box.
func (k *SdfxKernel) Area(r kernel.Region) float64 {
	rr := unwrap(r)
	w := rr.bb.Max.X - rr.bb.Min.X
	h := rr.bb.Max.Y - rr.bb.Min.Y
	if !(w > 0) || !(h > 0) {
		return 0
	}

	dx, dy := w/float64(k.cells), h/float64(k.cells)
	inside := 0
	for i := 0; i < k.cells; i++ {
		x := rr.bb.Min.X + (float64(i)+0.5)*dx
		for j := 0; j < k.cells; j++ {
			y := rr.bb.Min.Y + (float64(j)+0.5)*dy
			if rr.s.Evaluate(v2.Vec{X: x, Y: y}) < 0 {
				inside++
			}
		}
	}
	return float64(inside) * dx * dy
}
