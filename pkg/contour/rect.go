package contour

import (
	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Rect is the frame of a rectangular slice face. Left is the inner edge.
// Bottom is the y of the horizontal edge walked first; Top the other one.
// Which of the two is numerically larger depends on the frame.
type Rect struct {
	Left, Right float64
	Bottom, Top float64
}

func (r Rect) bottomLeft() geom.Point  { return geom.Pt(r.Left, r.Bottom) }
func (r Rect) bottomRight() geom.Point { return geom.Pt(r.Right, r.Bottom) }
func (r Rect) topRight() geom.Point    { return geom.Pt(r.Right, r.Top) }
func (r Rect) topLeft() geom.Point     { return geom.Pt(r.Left, r.Top) }

// corners is the outcome of the first/last hand-off: the outline's two
// outer-left corners, and the inner-edge corners when the first and last
// slots clip the left corners.
type corners struct {
	bottomLeft, topLeft geom.Point
	innerEdge           *[2]geom.Point
	slots               []Intersection
}

// handOff inspects the first and last records. When the first slot only hits
// the slice with its second wall, it and the last slot (which must hit only
// with its first wall) supply the left corners and are removed from the
// slot list. Any other partial record is rejected.
func handOff(xs []Intersection, r Rect) (corners, error) {
	c := corners{bottomLeft: r.bottomLeft(), topLeft: r.topLeft(), slots: xs}
	if len(xs) == 0 {
		return c, nil
	}

	first, last := xs[0], xs[len(xs)-1]
	if first.Complete() && last.Complete() {
		return c, checkComplete(xs)
	}
	if len(xs) < 2 || !onlySecond(first) || !onlyFirst(last) {
		return c, errors.Wrapf(slot.ErrCornerHandOff,
			"first outer %s/%s, last outer %s/%s",
			first.Outer.First, first.Outer.Second, last.Outer.First, last.Outer.Second)
	}

	c.bottomLeft, _ = first.Outer.Second.Get()
	c.topLeft, _ = last.Outer.First.Get()
	lastInner, _ := last.Inner.First.Get()
	firstInner, _ := first.Inner.Second.Get()
	c.innerEdge = &[2]geom.Point{lastInner, firstInner}
	c.slots = xs[1 : len(xs)-1]
	return c, checkComplete(c.slots)
}

func onlySecond(x Intersection) bool {
	return !x.Outer.First.Valid() && !x.Middle.First.Valid() && !x.Inner.First.Valid() &&
		x.Outer.Second.Valid() && x.Middle.Second.Valid() && x.Inner.Second.Valid()
}

func onlyFirst(x Intersection) bool {
	return x.Outer.First.Valid() && x.Middle.First.Valid() && x.Inner.First.Valid() &&
		!x.Outer.Second.Valid() && !x.Middle.Second.Valid() && !x.Inner.Second.Valid()
}

func checkComplete(xs []Intersection) error {
	for i, x := range xs {
		if !x.Complete() {
			return errors.Wrapf(slot.ErrIncomplete, "slot %d", i)
		}
	}
	return nil
}

// RectOutline builds the closed outline of a rectangular slice face with
// slots on edge e. Every record must be complete except for the first/last
// corner hand-off described on handOff.
//
// The outer walk follows the bottom edge, the right edge and the top edge,
// emitting the slots that land on each. A slot whose second wall leaves an
// edge has clipped that edge's end corner, so the corner is omitted. The
// inner walk follows the left edge upwards through the reversed slot list.
func RectOutline(xs []Intersection, r Rect, e slot.Edge) (*Path, error) {
	c, err := handOff(xs, r)
	if err != nil {
		return nil, err
	}
	slots := c.slots

	p := NewPath(c.bottomLeft)

	if e == slot.Outer {
		if err := walkOuter(p, slots, r); err != nil {
			return nil, err
		}
		p.LineTo(c.topLeft)
	} else {
		p.LineTo(r.bottomRight())
		p.LineTo(r.topRight())
		p.LineTo(c.topLeft)
	}

	if c.innerEdge != nil {
		p.LineTo(c.innerEdge[0])
	}
	if e == slot.Inner {
		if err := p.slottedLines(Reverse(slots), slot.Inner); err != nil {
			return nil, err
		}
	}
	if c.innerEdge != nil {
		p.LineTo(c.innerEdge[1])
	}
	p.LineTo(c.bottomLeft)
	p.Close()
	return p, nil
}

func outerAt(x Intersection, i int) geom.Point {
	pt, _ := x.Outer.At(i).Get()
	return pt
}

func walkOuter(p *Path, slots []Intersection, r Rect) error {
	// Bottom edge.
	omitBottomRight := false
	for _, x := range slots {
		if !geom.Near(outerAt(x, 0).Y, r.Bottom) {
			break
		}
		if err := p.slottedLines([]Intersection{x}, slot.Outer); err != nil {
			return err
		}
		if !geom.Near(outerAt(x, 1).Y, r.Bottom) {
			omitBottomRight = true
			break
		}
	}
	if !omitBottomRight {
		p.LineTo(r.bottomRight())
	}

	// Right edge.
	found := false
	omitTopRight := false
	for _, x := range slots {
		onRight := geom.Near(outerAt(x, 0).X, r.Right)
		if !found {
			if !onRight {
				continue
			}
			found = true
		}
		if !onRight {
			break
		}
		if err := p.slottedLines([]Intersection{x}, slot.Outer); err != nil {
			return err
		}
		if !geom.Near(outerAt(x, 1).X, r.Right) {
			omitTopRight = true
			break
		}
	}
	if !omitTopRight {
		p.LineTo(r.topRight())
	}

	// Top edge: every slot from the first one that lands on it.
	for i, x := range slots {
		if geom.Near(outerAt(x, 0).Y, r.Top) {
			return p.slottedLines(slots[i:], slot.Outer)
		}
	}
	return nil
}
