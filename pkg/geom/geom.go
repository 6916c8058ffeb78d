// Package geom provides the 2-D value types shared by the slot geometry:
// points, optional points for edges a slot wall may miss, wall pairs and
// bounding boxes. Points are sdfx vectors so they can be handed straight to
// the sdfx kernel.
package geom

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Epsilon is the tolerance used when deciding whether a point lies on an edge.
const Epsilon = 1e-6

// Point is an immutable 2-D coordinate.
type Point = v2.Vec

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Near reports whether a and b differ by less than Epsilon.
func Near(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}

// NearPoint reports whether both coordinates of a and b are Near.
func NearPoint(a, b Point) bool {
	return Near(a.X, b.X) && Near(a.Y, b.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return a.Add(b).MulScalar(0.5)
}

// Translate returns p moved by (dx, dy).
func Translate(p Point, dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// MirrorX reflects p about the y-axis.
func MirrorX(p Point) Point {
	return Point{X: -p.X, Y: p.Y}
}

// ---------------------------------------------------------------------------
// Optional points
// ---------------------------------------------------------------------------

// Opt is a point that may be absent. Absence means "no intersection on this
// edge" and is never encoded as a coordinate.
type Opt struct {
	p  Point
	ok bool
}

// Some wraps a present point.
func Some(p Point) Opt {
	return Opt{p: p, ok: true}
}

// None returns an absent point.
func None() Opt {
	return Opt{}
}

// Get returns the point and whether it is present.
func (o Opt) Get() (Point, bool) {
	return o.p, o.ok
}

// Valid reports whether the point is present.
func (o Opt) Valid() bool {
	return o.ok
}

// Map applies f to a present point and leaves an absent one absent.
func (o Opt) Map(f func(Point) Point) Opt {
	if !o.ok {
		return o
	}
	return Some(f(o.p))
}

func (o Opt) String() string {
	if !o.ok {
		return "none"
	}
	return fmt.Sprintf("(%g, %g)", o.p.X, o.p.Y)
}

// OptMidpoint returns the midpoint of a and b when both are present.
func OptMidpoint(a, b Opt) Opt {
	if !a.ok || !b.ok {
		return None()
	}
	return Some(Midpoint(a.p, b.p))
}

// ---------------------------------------------------------------------------
// Wall pairs
// ---------------------------------------------------------------------------

// Pair holds the two wall points of one slot on one edge. First belongs to the
// wall with intercept +dy, Second to the wall with intercept -dy.
type Pair struct {
	First  Opt
	Second Opt
}

// PairOf builds a pair from two present points.
func PairOf(first, second Point) Pair {
	return Pair{First: Some(first), Second: Some(second)}
}

// At returns First for i == 0 and Second otherwise.
func (p Pair) At(i int) Opt {
	if i == 0 {
		return p.First
	}
	return p.Second
}

// Reverse swaps the two walls.
func (p Pair) Reverse() Pair {
	return Pair{First: p.Second, Second: p.First}
}

// Map applies f to every present point.
func (p Pair) Map(f func(Point) Point) Pair {
	return Pair{First: p.First.Map(f), Second: p.Second.Map(f)}
}

// Complete reports whether both walls are present.
func (p Pair) Complete() bool {
	return p.First.ok && p.Second.ok
}

// Empty reports whether both walls are absent.
func (p Pair) Empty() bool {
	return !p.First.ok && !p.Second.ok
}

// ---------------------------------------------------------------------------
// Bounds
// ---------------------------------------------------------------------------

// Bounds returns the axis-aligned bounding box of pts. The zero box is
// returned for an empty slice.
func Bounds(pts []Point) sdf.Box2 {
	if len(pts) == 0 {
		return sdf.Box2{}
	}
	bb := sdf.Box2{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		bb.Min.X = math.Min(bb.Min.X, p.X)
		bb.Min.Y = math.Min(bb.Min.Y, p.Y)
		bb.Max.X = math.Max(bb.Max.X, p.X)
		bb.Max.Y = math.Max(bb.Max.Y, p.Y)
	}
	return bb
}

// Union returns the smallest box containing a and b.
func Union(a, b sdf.Box2) sdf.Box2 {
	return sdf.Box2{
		Min: Point{X: math.Min(a.Min.X, b.Min.X), Y: math.Min(a.Min.Y, b.Min.Y)},
		Max: Point{X: math.Max(a.Max.X, b.Max.X), Y: math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Offset returns bb moved by d.
func Offset(bb sdf.Box2, d Point) sdf.Box2 {
	return sdf.Box2{Min: bb.Min.Add(d), Max: bb.Max.Add(d)}
}
