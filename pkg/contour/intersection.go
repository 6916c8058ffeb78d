package contour

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Intersection records where one slot crosses a slice: the wall points on the
// outer edge, the slot floor points halfway between outer and inner, and the
// wall points on the inner edge.
type Intersection struct {
	Outer  geom.Pair
	Middle geom.Pair
	Inner  geom.Pair
}

// NewIntersection pairs the outer and inner wall points of one slot and
// computes the floor midpoints. A wall that reaches only one of the two edges
// has no floor point and is rejected with slot.ErrIncomplete.
func NewIntersection(outer, inner geom.Pair) (Intersection, error) {
	for i := 0; i < 2; i++ {
		if outer.At(i).Valid() != inner.At(i).Valid() {
			return Intersection{}, errors.Wrapf(slot.ErrIncomplete,
				"wall %d: outer %s, inner %s", i, outer.At(i), inner.At(i))
		}
	}
	return Intersection{
		Outer: outer,
		Middle: geom.Pair{
			First:  geom.OptMidpoint(inner.First, outer.First),
			Second: geom.OptMidpoint(inner.Second, outer.Second),
		},
		Inner: inner,
	}, nil
}

// Edge returns the wall points on the selected edge.
func (x Intersection) Edge(e slot.Edge) geom.Pair {
	if e == slot.Inner {
		return x.Inner
	}
	return x.Outer
}

// Complete reports whether every point of the record is present.
func (x Intersection) Complete() bool {
	return x.Outer.Complete() && x.Middle.Complete() && x.Inner.Complete()
}

// Map applies f to every present point.
func (x Intersection) Map(f func(geom.Point) geom.Point) Intersection {
	return Intersection{
		Outer:  x.Outer.Map(f),
		Middle: x.Middle.Map(f),
		Inner:  x.Inner.Map(f),
	}
}

// Swap exchanges the two walls of every pair.
func (x Intersection) Swap() Intersection {
	return Intersection{
		Outer:  x.Outer.Reverse(),
		Middle: x.Middle.Reverse(),
		Inner:  x.Inner.Reverse(),
	}
}

// slotCorners returns the four points of a slot drawn on edge e: the first
// wall point, both floor points and the second wall point.
func (x Intersection) slotCorners(e slot.Edge) ([4]geom.Point, error) {
	wall := x.Edge(e)
	ordered := [4]geom.Opt{wall.First, x.Middle.First, x.Middle.Second, wall.Second}
	var out [4]geom.Point
	for i, o := range ordered {
		p, ok := o.Get()
		if !ok {
			return out, errors.Wrapf(slot.ErrIncomplete, "%s slot corner %d is absent", e, i)
		}
		out[i] = p
	}
	return out, nil
}

// Reverse reverses both the list and the wall order inside every record, so
// a walk over the result traces the same slots in the opposite direction.
func Reverse(xs []Intersection) []Intersection {
	out := lo.Map(xs, func(x Intersection, _ int) Intersection { return x.Swap() })
	return lo.Reverse(out)
}

// Mirror reflects every point about the y-axis.
func Mirror(xs []Intersection) []Intersection {
	return lo.Map(xs, func(x Intersection, _ int) Intersection { return x.Map(geom.MirrorX) })
}

// Translate moves every point by (dx, dy).
func Translate(xs []Intersection, dx, dy float64) []Intersection {
	return lo.Map(xs, func(x Intersection, _ int) Intersection {
		return x.Map(func(p geom.Point) geom.Point { return geom.Translate(p, dx, dy) })
	})
}
