package shape

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Face is the flat rectangular face of a hyperbolic slice in calculation
// coordinates: x ∈ [Inner, Waist], y ∈ [-HalfHeight, HalfHeight]. The inner
// edge is the vertical line x = Inner; the outer edge is the union of the
// right, top and bottom sides.
type Face struct {
	Inner      float64
	Waist      float64
	HalfHeight float64
}

func (f Face) contains(p geom.Point) bool {
	return p.X >= f.Inner-geom.Epsilon && p.X <= f.Waist+geom.Epsilon &&
		p.Y >= -f.HalfHeight-geom.Epsilon && p.Y <= f.HalfHeight+geom.Epsilon
}

// vertical intersects the wall y = tan·x + dy with the line x = vx.
func (f Face) vertical(vx, angle, dy float64) geom.Opt {
	p := geom.Pt(vx, math.Tan(angle)*vx+dy)
	if !f.contains(p) {
		return geom.None()
	}
	return geom.Some(p)
}

// horizontal intersects the wall with the line y = hy. A horizontal wall
// never crosses a horizontal side.
func (f Face) horizontal(hy, angle, dy float64) geom.Opt {
	tan := math.Tan(angle)
	if tan == 0 {
		return geom.None()
	}
	p := geom.Pt((hy-dy)/tan, hy)
	if !f.contains(p) {
		return geom.None()
	}
	return geom.Some(p)
}

// Corner returns where one slot wall, offset dy from the origin, crosses
// edge e. The outer search tries the right side, then the top (+HalfHeight),
// then the bottom (-HalfHeight); a wall that crosses none of them is absent.
func (f Face) Corner(angle, dy float64, e slot.Edge) geom.Opt {
	if e == slot.Inner {
		return f.vertical(f.Inner, angle, dy)
	}
	if p := f.vertical(f.Waist, angle, dy); p.Valid() {
		return p
	}
	if p := f.horizontal(f.HalfHeight, angle, dy); p.Valid() {
		return p
	}
	return f.horizontal(-f.HalfHeight, angle, dy)
}

// Corners returns both wall crossings of a slot with edge e; either may be
// absent.
func (f Face) Corners(angle, width float64, e slot.Edge) (geom.Pair, error) {
	if !(f.Waist > f.Inner) {
		return geom.Pair{}, errors.Wrapf(slot.ErrInvalidConfig, "face waist %g not beyond inner %g", f.Waist, f.Inner)
	}
	if err := checkAngle(angle); err != nil {
		return geom.Pair{}, err
	}
	offs := slot.WallOffsets(angle, width)
	return geom.Pair{
		First:  f.Corner(angle, offs[0], e),
		Second: f.Corner(angle, offs[1], e),
	}, nil
}

// Hyperbola is a hyperboloid of one sheet cut from straight slices: every
// slice is a flat rectangle tilted so its outer corners trace the edge
// radius and its middle touches the waist.
type Hyperbola struct {
	OuterEdgeRadius  float64 `yaml:"outer_edge_radius"`
	OuterWaistRadius float64 `yaml:"outer_waist_radius"`
	InnerRadius      float64 `yaml:"inner_radius"`
	Height           float64 `yaml:"height"`
}

var _ Shape = Hyperbola{}

// Kind returns KindHyperbola.
func (h Hyperbola) Kind() Kind { return KindHyperbola }

// Validate requires edge > waist > inner ≥ 0 and a positive height.
func (h Hyperbola) Validate() error {
	if err := positive("height", h.Height); err != nil {
		return err
	}
	if h.InnerRadius < 0 {
		return errors.Wrapf(slot.ErrInvalidConfig, "inner radius must not be negative, got %g", h.InnerRadius)
	}
	if err := greater("outer edge radius", h.OuterEdgeRadius, "outer waist radius", h.OuterWaistRadius); err != nil {
		return err
	}
	return greater("outer waist radius", h.OuterWaistRadius, "inner radius", h.InnerRadius)
}

// sliceBase is the horizontal projection of the slice's diagonal.
func (h Hyperbola) sliceBase() float64 {
	return math.Sqrt(h.OuterEdgeRadius*h.OuterEdgeRadius - h.OuterWaistRadius*h.OuterWaistRadius)
}

// LoxodromicAngle is atan((height/2) / sliceBase).
func (h Hyperbola) LoxodromicAngle() float64 {
	return math.Atan((h.Height / 2) / h.sliceBase())
}

// HalfSliceHeight is half the length of the slice's long side.
func (h Hyperbola) HalfSliceHeight() float64 {
	half := h.Height / 2
	return math.Sqrt(h.OuterEdgeRadius*h.OuterEdgeRadius + half*half - h.OuterWaistRadius*h.OuterWaistRadius)
}

// SliceWidth is the distance between the inner edge and the waist.
func (h Hyperbola) SliceWidth() float64 {
	return h.OuterWaistRadius - h.InnerRadius
}

// Face returns the slice face in calculation coordinates.
func (h Hyperbola) Face() Face {
	return Face{Inner: h.InnerRadius, Waist: h.OuterWaistRadius, HalfHeight: h.HalfSliceHeight()}
}

// SlotCorners intersects both walls with the face's edge e.
func (h Hyperbola) SlotCorners(angle, width float64, e slot.Edge) (geom.Pair, error) {
	return h.Face().Corners(angle, width, e)
}

// Intersections returns the slot records with the face's top-left corner at
// the origin.
func (h Hyperbola) Intersections(angles []float64, width float64) ([]contour.Intersection, error) {
	dx, dy := -h.InnerRadius, h.HalfSliceHeight()
	return collect(angles, width, h.SlotCorners, func(p geom.Point) geom.Point {
		return geom.Translate(p, dx, dy)
	})
}

func (h Hyperbola) rect() contour.Rect {
	return contour.Rect{Left: 0, Right: h.SliceWidth(), Bottom: 2 * h.HalfSliceHeight(), Top: 0}
}

// Outline builds the slotted rectangle.
func (h Hyperbola) Outline(xs []contour.Intersection, e slot.Edge) (*contour.Path, error) {
	p, err := contour.RectOutline(xs, h.rect(), e)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s edge", h.Kind(), e)
	}
	return p, nil
}

// Footprint: rectangles sit side by side without nesting.
func (h Hyperbola) Footprint() (Footprint, error) {
	w := h.SliceWidth()
	return Footprint{
		FirstWidth:      w,
		AdditionalWidth: w,
		Height:          2 * h.HalfSliceHeight(),
	}, nil
}

// Hyperboloid has the same slices as Hyperbola but keeps the calculation
// frame: the outline is centered vertically on the x-axis and sits at its
// true distance from the axis of revolution.
type Hyperboloid struct {
	Hyperbola `yaml:",inline"`
}

var _ Shape = Hyperboloid{}

// Kind returns KindHyperboloid.
func (h Hyperboloid) Kind() Kind { return KindHyperboloid }

// Intersections returns untranslated slot records.
func (h Hyperboloid) Intersections(angles []float64, width float64) ([]contour.Intersection, error) {
	return collect(angles, width, h.SlotCorners, identity)
}

func (h Hyperboloid) rect() contour.Rect {
	hh := h.HalfSliceHeight()
	return contour.Rect{Left: h.InnerRadius, Right: h.OuterWaistRadius, Bottom: hh, Top: -hh}
}

// Outline builds the slotted rectangle in the calculation frame.
func (h Hyperboloid) Outline(xs []contour.Intersection, e slot.Edge) (*contour.Path, error) {
	p, err := contour.RectOutline(xs, h.rect(), e)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s edge", h.Kind(), e)
	}
	return p, nil
}
