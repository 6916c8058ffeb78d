// Package tessellate flattens slice outlines into polylines and hands them to
// a geometry kernel. One region is produced per placed slice.
package tessellate

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/kernel"
)

// DefaultSegments is the number of chords used per arc.
const DefaultSegments = 32

// Part is one outline placed on the sheet.
type Part struct {
	Name   string
	Path   *contour.Path
	Offset geom.Point
}

// Flatten converts a closed path into a polyline. Lines are kept as is and
// every arc is replaced by segments chords.
func Flatten(p *contour.Path, segments int) (*kernel.Polyline, error) {
	if p == nil || p.Len() == 0 {
		return nil, errors.New("tessellate: empty path")
	}
	if segments < 1 {
		segments = DefaultSegments
	}

	out := &kernel.Polyline{}
	var pen geom.Point
	for i, c := range p.Commands {
		switch c.Op {
		case contour.OpMove:
			if i != 0 {
				return nil, errors.Errorf("tessellate: move at command %d; only single-loop paths can be flattened", i)
			}
			pen = c.To
			out.Append(pen.X, pen.Y)

		case contour.OpLine:
			pen = c.To
			out.Append(pen.X, pen.Y)

		case contour.OpVLineRel:
			pen = geom.Pt(pen.X, pen.Y+c.DY)
			out.Append(pen.X, pen.Y)

		case contour.OpArc:
			for _, q := range arcPoints(pen, c, segments) {
				out.Append(q.X, q.Y)
			}
			pen = c.To

		case contour.OpClose:
			// The polyline is implicitly closed.

		default:
			return nil, errors.Errorf("tessellate: unknown op %v", c.Op)
		}
	}
	return out, nil
}

// arcPoints converts an endpoint-parameterised elliptical arc (no rotation)
// to its center form and samples it. The start point is not included; the
// last point is exactly c.To.
func arcPoints(from geom.Point, c contour.Command, segments int) []geom.Point {
	rx, ry := math.Abs(c.RX), math.Abs(c.RY)
	if rx == 0 || ry == 0 || geom.NearPoint(from, c.To) {
		return []geom.Point{c.To}
	}

	// Half chord in the arc's frame.
	x1 := (from.X - c.To.X) / 2
	y1 := (from.Y - c.To.Y) / 2

	// Grow radii that are too small to span the chord.
	if lambda := x1*x1/(rx*rx) + y1*y1/(ry*ry); lambda > 1 {
		s := math.Sqrt(lambda)
		rx, ry = rx*s, ry*s
	}

	large := c.Size == contour.Large
	sweep := c.Winding == contour.CW

	num := rx*rx*ry*ry - rx*rx*y1*y1 - ry*ry*x1*x1
	den := rx*rx*y1*y1 + ry*ry*x1*x1
	coef := math.Sqrt(math.Max(0, num/den))
	if large == sweep {
		coef = -coef
	}
	cx1 := coef * rx * y1 / ry
	cy1 := -coef * ry * x1 / rx
	cx := cx1 + (from.X+c.To.X)/2
	cy := cy1 + (from.Y+c.To.Y)/2

	theta1 := math.Atan2((y1-cy1)/ry, (x1-cx1)/rx)
	theta2 := math.Atan2((-y1-cy1)/ry, (-x1-cx1)/rx)
	delta := theta2 - theta1
	if sweep && delta < 0 {
		delta += 2 * math.Pi
	} else if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	}

	pts := make([]geom.Point, 0, segments)
	for i := 1; i < segments; i++ {
		t := theta1 + delta*float64(i)/float64(segments)
		pts = append(pts, geom.Pt(cx+rx*math.Cos(t), cy+ry*math.Sin(t)))
	}
	return append(pts, c.To)
}

// Tessellate flattens every part and returns one kernel region per part,
// moved to its offset. Parts are never modified.
func Tessellate(parts []Part, k kernel.Kernel, segments int) ([]kernel.Region, error) {
	regions := make([]kernel.Region, 0, len(parts))
	for _, part := range parts {
		pl, err := Flatten(part.Path, segments)
		if err != nil {
			return nil, errors.Wrapf(err, "part %s", part.Name)
		}
		pl.PartName = part.Name

		r, err := k.Polygon(pl)
		if err != nil {
			return nil, errors.Wrapf(err, "tessellate: part %s", part.Name)
		}
		if part.Offset.X != 0 || part.Offset.Y != 0 {
			r = k.Translate(r, part.Offset.X, part.Offset.Y)
		}
		regions = append(regions, r)
	}
	return regions, nil
}
