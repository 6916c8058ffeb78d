package shape

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Cylinder is a hollow cylinder. Each slice is a backwards "C": two
// concentric half-ellipses joined by short vertical lines on the left.
type Cylinder struct {
	OuterRadius float64 `yaml:"outer_radius"`
	InnerRadius float64 `yaml:"inner_radius"`
	Height      float64 `yaml:"height"`
}

var _ Shape = Cylinder{}

// Kind returns KindCylinder.
func (c Cylinder) Kind() Kind { return KindCylinder }

// Validate requires positive dimensions and outer > inner.
func (c Cylinder) Validate() error {
	if err := positive("outer radius", c.OuterRadius); err != nil {
		return err
	}
	if err := positive("inner radius", c.InnerRadius); err != nil {
		return err
	}
	if err := positive("height", c.Height); err != nil {
		return err
	}
	return greater("outer radius", c.OuterRadius, "inner radius", c.InnerRadius)
}

// LoxodromicAngle is the angle of the diagonal of the cylinder's vertical
// cross-section: atan((height/2) / radius).
func (c Cylinder) LoxodromicAngle() float64 {
	return math.Atan((c.Height / 2) / c.OuterRadius)
}

// radii returns the horizontal and vertical radius of the ellipse forming
// edge e.
func (c Cylinder) radii(e slot.Edge) (rx, ry float64) {
	if e == slot.Inner {
		return c.InnerRadius, c.InnerRadius / math.Cos(c.LoxodromicAngle())
	}
	half := c.Height / 2
	return c.OuterRadius, math.Sqrt(c.OuterRadius*c.OuterRadius + half*half)
}

// SliceHeight is the full height of one slice.
func (c Cylinder) SliceHeight() float64 {
	_, ry := c.radii(slot.Outer)
	return 2 * ry
}

// SlotCorners intersects both slot walls with the ellipse of edge e. The
// ellipse is centered at the midpoint of the slice's left side.
func (c Cylinder) SlotCorners(angle, width float64, e slot.Edge) (geom.Pair, error) {
	if err := checkAngle(angle); err != nil {
		return geom.Pair{}, err
	}
	rx, ry := c.radii(e)
	offs := slot.WallOffsets(angle, width)
	first, err := IntersectEllipseLine(rx, ry, angle, offs[0])
	if err != nil {
		return geom.Pair{}, err
	}
	second, err := IntersectEllipseLine(rx, ry, angle, offs[1])
	if err != nil {
		return geom.Pair{}, err
	}
	return geom.PairOf(first, second), nil
}

// Intersections returns the slot records in display coordinates, with the
// origin moved to the top of the left side.
func (c Cylinder) Intersections(angles []float64, width float64) ([]contour.Intersection, error) {
	_, ry := c.radii(slot.Outer)
	return collect(angles, width, c.SlotCorners, func(p geom.Point) geom.Point {
		return geom.Translate(p, 0, ry)
	})
}

// Outline draws the backwards "C". The outer arc runs counterclockwise from
// the bottom left corner to the top left corner; a vertical line drops to the
// inner arc, which runs clockwise back down before the path closes.
func (c Cylinder) Outline(xs []contour.Intersection, e slot.Edge) (*contour.Path, error) {
	orx, ory := c.radii(slot.Outer)
	irx, iry := c.radii(slot.Inner)
	gap := ory - iry

	p := contour.NewPath(geom.Pt(0, 2*ory))

	if e == slot.Outer {
		arc := contour.Arc{RX: orx, RY: ory, Winding: contour.CCW}
		if err := p.SlottedArc(xs, slot.Outer, arc, geom.Pt(0, 0), contour.SkipNone); err != nil {
			return nil, errors.Wrap(err, "cylinder outer edge")
		}
	} else {
		p.ArcTo(orx, ory, contour.Large, contour.CCW, geom.Pt(0, 0))
	}

	p.VLineRel(gap)

	innerEnd := geom.Pt(0, gap+2*iry)
	if e == slot.Inner {
		arc := contour.Arc{RX: irx, RY: iry, Winding: contour.CW}
		if err := p.SlottedArc(contour.Reverse(xs), slot.Inner, arc, innerEnd, contour.SkipNone); err != nil {
			return nil, errors.Wrap(err, "cylinder inner edge")
		}
	} else {
		p.ArcTo(irx, iry, contour.Small, contour.CW, innerEnd)
	}

	p.Close()
	return p, nil
}

// Footprint: the first slice needs the full outer radius; each further slice
// advances by the outer ellipse's width at the inner arc's tip, so the slices
// nest.
func (c Cylinder) Footprint() (Footprint, error) {
	orx, ory := c.radii(slot.Outer)
	_, iry := c.radii(slot.Inner)
	tip, err := IntersectEllipseLine(orx, ory, 0, iry)
	if err != nil {
		return Footprint{}, errors.Wrap(err, "cylinder footprint")
	}
	return Footprint{
		FirstWidth:      orx,
		AdditionalWidth: tip.X,
		Height:          2 * ory,
		Nested:          true,
	}, nil
}

// IntersectEllipseLine intersects the ellipse x²/rx² + y²/ry² = 1 with the
// line y = tan(angle)·x + dy and returns the intersection with positive x.
func IntersectEllipseLine(rx, ry, angle, dy float64) (geom.Point, error) {
	tan := math.Tan(angle)
	rx2, ry2 := rx*rx, ry*ry
	a := ry2 + rx2*tan*tan
	b := rx2 * 2 * tan * dy
	c := rx2 * (dy*dy - ry2)
	x, err := slot.SolveQuadratic(a, b, c)
	if err != nil {
		return geom.Point{}, errors.Wrapf(err, "ellipse (%g, %g) angle %g offset %g", rx, ry, angle, dy)
	}
	return geom.Pt(x, tan*x+dy), nil
}
