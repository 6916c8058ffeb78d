package shape

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Torus is a ring torus. Each slice is a crescent bounded by two circles of
// the major radius, centered at (±minor, 0), with its tips on the y-axis.
type Torus struct {
	MajorRadius float64 `yaml:"major_radius"`
	MinorRadius float64 `yaml:"minor_radius"`
}

var _ Shape = Torus{}

// Kind returns KindTorus.
func (t Torus) Kind() Kind { return KindTorus }

// Validate requires a positive minor radius smaller than the major radius.
func (t Torus) Validate() error {
	if err := positive("minor radius", t.MinorRadius); err != nil {
		return err
	}
	return greater("major radius", t.MajorRadius, "minor radius", t.MinorRadius)
}

// LoxodromicAngle is asin(minor/major): slice edges are tangent to the torus.
func (t Torus) LoxodromicAngle() float64 {
	return math.Asin(t.MinorRadius / t.MajorRadius)
}

// center returns the x of the circle forming edge e.
func (t Torus) center(e slot.Edge) float64 {
	if e == slot.Inner {
		return -t.MinorRadius
	}
	return t.MinorRadius
}

// Tip is the lower crescent tip in display coordinates, (0, √(R² − r²)).
// The upper tip is its reflection.
func (t Torus) Tip() geom.Point {
	return geom.Pt(0, math.Sqrt(t.MajorRadius*t.MajorRadius-t.MinorRadius*t.MinorRadius))
}

// SlotCorners intersects both slot walls with the circle of edge e.
func (t Torus) SlotCorners(angle, width float64, e slot.Edge) (geom.Pair, error) {
	if err := checkAngle(angle); err != nil {
		return geom.Pair{}, err
	}
	dx := t.center(e)
	offs := slot.WallOffsets(angle, width)
	first, err := IntersectCircleLine(t.MajorRadius, dx, angle, offs[0])
	if err != nil {
		return geom.Pair{}, err
	}
	second, err := IntersectCircleLine(t.MajorRadius, dx, angle, offs[1])
	if err != nil {
		return geom.Pair{}, err
	}
	return geom.PairOf(first, second), nil
}

// Intersections returns the slot records; the torus frame needs no
// translation.
func (t Torus) Intersections(angles []float64, width float64) ([]contour.Intersection, error) {
	return collect(angles, width, t.SlotCorners, identity)
}

// Outline draws the crescent: counterclockwise along the outer circle from
// the bottom tip to the top tip, then clockwise along the inner circle back
// to the bottom tip.
func (t Torus) Outline(xs []contour.Intersection, e slot.Edge) (*contour.Path, error) {
	r := t.MajorRadius
	bottom := t.Tip()
	top := geom.Pt(0, -bottom.Y)

	p := contour.NewPath(bottom)

	if e == slot.Outer {
		arc := contour.Arc{RX: r, RY: r, Winding: contour.CCW}
		if err := p.SlottedArc(xs, slot.Outer, arc, top, contour.SkipNone); err != nil {
			return nil, errors.Wrap(err, "torus outer edge")
		}
	} else {
		p.ArcTo(r, r, contour.Large, contour.CCW, top)
	}

	skip := contour.SkipAll
	if e == slot.Inner {
		skip = contour.SkipNone
	}
	arc := contour.Arc{RX: r, RY: r, Winding: contour.CW}
	if err := p.SlottedArc(contour.Reverse(xs), slot.Inner, arc, bottom, skip); err != nil {
		return nil, errors.Wrap(err, "torus inner edge")
	}

	p.Close()
	return p, nil
}

// Footprint: the first slice is as wide as the outer circle's rightmost
// point; further slices advance by the outer circle's width at tip height.
func (t Torus) Footprint() (Footprint, error) {
	first, err := IntersectCircleLine(t.MajorRadius, t.MinorRadius, 0, 0)
	if err != nil {
		return Footprint{}, errors.Wrap(err, "torus footprint")
	}
	additional, err := IntersectCircleLine(t.MajorRadius, t.MinorRadius, 0, t.Tip().Y)
	if err != nil {
		return Footprint{}, errors.Wrap(err, "torus footprint")
	}
	return Footprint{
		FirstWidth:      first.X,
		AdditionalWidth: additional.X,
		Height:          2 * t.MajorRadius,
		Nested:          true,
	}, nil
}

// IntersectCircleLine intersects the circle (x − dx)² + y² = radius² with the
// line y = tan(angle)·x + dy and returns the intersection with the larger x.
func IntersectCircleLine(radius, dx, angle, dy float64) (geom.Point, error) {
	tan := math.Tan(angle)
	a := 1 + tan*tan
	b := -2*dx + 2*tan*dy
	c := dx*dx + dy*dy - radius*radius
	x, err := slot.SolveQuadratic(a, b, c)
	if err != nil {
		return geom.Point{}, errors.Wrapf(err, "circle (r %g, center %g) angle %g offset %g", radius, dx, angle, dy)
	}
	return geom.Pt(x, tan*x+dy), nil
}
