package contour

import (
	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Arc describes the curved edge a slotted walk follows between slots.
type Arc struct {
	RX, RY  float64
	Winding Winding
}

// SkipNone renders every slot.
func SkipNone(int) bool { return false }

// SkipAll renders no slot.
func SkipAll(int) bool { return true }

// SlottedArc appends a curved edge with slots cut into it. For each slot i
// not skipped it draws a small arc to the first wall point on edge e, a line
// to each floor point and a line to the second wall point. It ends with a
// small arc to end.
func (p *Path) SlottedArc(xs []Intersection, e slot.Edge, arc Arc, end geom.Point, skip func(int) bool) error {
	for i, x := range xs {
		if skip(i) {
			continue
		}
		c, err := x.slotCorners(e)
		if err != nil {
			return errors.Wrapf(err, "slot %d", i)
		}
		p.ArcTo(arc.RX, arc.RY, Small, arc.Winding, c[0])
		p.LineTo(c[1])
		p.LineTo(c[2])
		p.LineTo(c[3])
	}
	p.ArcTo(arc.RX, arc.RY, Small, arc.Winding, end)
	return nil
}

// slottedLines appends a straight-edged slot for every record: wall point on
// edge e, both floor points, second wall point.
func (p *Path) slottedLines(xs []Intersection, e slot.Edge) error {
	for i, x := range xs {
		c, err := x.slotCorners(e)
		if err != nil {
			return errors.Wrapf(err, "slot %d", i)
		}
		for _, pt := range c {
			p.LineTo(pt)
		}
	}
	return nil
}
