package shape

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

const tol = 1e-3

var (
	defaultCylinder    = Cylinder{OuterRadius: 35, InnerRadius: 26, Height: 40}
	defaultTorus       = Torus{MajorRadius: 40, MinorRadius: 17.5}
	defaultHyperbola   = Hyperbola{OuterEdgeRadius: 40, OuterWaistRadius: 30, InnerRadius: 15, Height: 15}
	defaultHyperboloid = Hyperboloid{Hyperbola{OuterEdgeRadius: 60, OuterWaistRadius: 30, InnerRadius: 20, Height: 60}}
)

func constants(t *testing.T, s Shape, n int) slot.Constants {
	t.Helper()
	c, err := slot.Derive(s.LoxodromicAngle(), 0.25, n)
	require.NoError(t, err)
	return c
}

func intersections(t *testing.T, s Shape, n int) []contour.Intersection {
	t.Helper()
	c := constants(t, s, n)
	xs, err := s.Intersections(c.Angles, c.Width)
	require.NoError(t, err)
	return xs
}

func point(t *testing.T, o geom.Opt) geom.Point {
	t.Helper()
	p, ok := o.Get()
	require.True(t, ok, "expected a point, got none")
	return p
}

func assertPoint(t *testing.T, want geom.Point, got geom.Opt) {
	t.Helper()
	p := point(t, got)
	assert.InDelta(t, want.X, p.X, tol, "x")
	assert.InDelta(t, want.Y, p.Y, tol, "y")
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindCylinder, KindTorus, KindHyperbola, KindHyperboloid} {
		got, err := ParseKind(" " + k.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("TORUS")
	require.NoError(t, err)
	assert.Equal(t, KindTorus, got)

	_, err = ParseKind("cone")
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		ok    bool
	}{
		{"cylinder", defaultCylinder, true},
		{"cylinder inner too large", Cylinder{OuterRadius: 20, InnerRadius: 20, Height: 10}, false},
		{"cylinder zero height", Cylinder{OuterRadius: 20, InnerRadius: 10}, false},
		{"cylinder negative inner", Cylinder{OuterRadius: 20, InnerRadius: -1, Height: 10}, false},
		{"torus", defaultTorus, true},
		{"torus minor too large", Torus{MajorRadius: 10, MinorRadius: 12}, false},
		{"torus zero minor", Torus{MajorRadius: 10}, false},
		{"hyperbola", defaultHyperbola, true},
		{"hyperbola waist beyond edge", Hyperbola{OuterEdgeRadius: 30, OuterWaistRadius: 40, InnerRadius: 15, Height: 15}, false},
		{"hyperbola inner beyond waist", Hyperbola{OuterEdgeRadius: 40, OuterWaistRadius: 30, InnerRadius: 30, Height: 15}, false},
		{"hyperbola negative inner", Hyperbola{OuterEdgeRadius: 40, OuterWaistRadius: 30, InnerRadius: -1, Height: 15}, false},
		{"hyperboloid", defaultHyperboloid, true},
		{"hyperboloid zero height", Hyperboloid{Hyperbola{OuterEdgeRadius: 60, OuterWaistRadius: 30, InnerRadius: 20}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, slot.ErrInvalidConfig)
		})
	}
}

func TestLoxodromicAngle(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  float64
	}{
		{"cylinder", defaultCylinder, math.Atan(20.0 / 35)},
		{"torus", defaultTorus, math.Asin(17.5 / 40)},
		{"hyperbola", defaultHyperbola, math.Atan(7.5 / math.Sqrt(700))},
		{"hyperboloid", defaultHyperboloid, math.Pi / 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.shape.LoxodromicAngle(), 1e-12)
		})
	}
}

func TestIntersectEllipseLine(t *testing.T) {
	for _, deg := range []float64{-60, -30, 0, 15, 45, 80} {
		a := deg * math.Pi / 180
		p, err := IntersectEllipseLine(2, 3, a, 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 1, p.X*p.X/4+p.Y*p.Y/9, 1e-9, "on ellipse at %v°", deg)
		assert.InDelta(t, math.Tan(a)*p.X+0.5, p.Y, 1e-9, "on line at %v°", deg)
		assert.Greater(t, p.X, 0.0)
	}

	_, err := IntersectEllipseLine(2, 3, 0, 4)
	assert.ErrorIs(t, err, slot.ErrNoIntersection)
}

func TestIntersectCircleLine(t *testing.T) {
	p, err := IntersectCircleLine(5, 1, 0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 6, p.X, 1e-12)
	assert.InDelta(t, 0, p.Y, 1e-12)

	p, err = IntersectCircleLine(5, -1, math.Pi/5, 1)
	require.NoError(t, err)
	assert.InDelta(t, 25, (p.X+1)*(p.X+1)+p.Y*p.Y, 1e-9)

	_, err = IntersectCircleLine(1, 0, 0, 2)
	assert.ErrorIs(t, err, slot.ErrNoIntersection)
}

func TestFaceEdgeSelection(t *testing.T) {
	tall := Face{Inner: 1, Waist: 2, HalfHeight: 3}
	short := Face{Inner: 1, Waist: 2, HalfHeight: 1.5}
	q := math.Pi / 4

	tests := []struct {
		name  string
		face  Face
		angle float64
		edge  slot.Edge
		want  geom.Point
	}{
		{"inner up", tall, q, slot.Inner, geom.Pt(1, 1)},
		{"inner down", tall, -q, slot.Inner, geom.Pt(1, -1)},
		{"right up", tall, q, slot.Outer, geom.Pt(2, 2)},
		{"right down", tall, -q, slot.Outer, geom.Pt(2, -2)},
		{"falls to top", short, q, slot.Outer, geom.Pt(1.5, 1.5)},
		{"falls to bottom", short, -q, slot.Outer, geom.Pt(1.5, -1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := tt.face.Corners(tt.angle, 0, tt.edge)
			require.NoError(t, err)
			assertPoint(t, tt.want, pair.First)
			assertPoint(t, tt.want, pair.Second)
		})
	}
}

func TestFaceNoIntersectionIsAbsent(t *testing.T) {
	f := Face{Inner: 1, Waist: 2, HalfHeight: 3}
	pair, err := f.Corners(80*math.Pi/180, 0, slot.Outer)
	require.NoError(t, err)
	assert.False(t, pair.First.Valid())
	assert.False(t, pair.Second.Valid())
	assert.True(t, pair.Empty())
	assert.Equal(t, "none", pair.First.String())

	// A horizontal wall never crosses the top or bottom.
	assert.False(t, f.horizontal(3, 0, 0).Valid())
}

func TestFaceRejectsBadInput(t *testing.T) {
	f := Face{Inner: 1, Waist: 2, HalfHeight: 3}
	_, err := f.Corners(math.Pi/2, 0.1, slot.Outer)
	assert.ErrorIs(t, err, slot.ErrDegenerate)

	_, err = Face{Inner: 2, Waist: 2, HalfHeight: 3}.Corners(0, 0.1, slot.Outer)
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)
}

// Every wall pair sits at ±width/2 from the slot's center line.
func TestWallsAreEquidistantFromCenterLine(t *testing.T) {
	shapes := []struct {
		shape Shape
		n     int
	}{
		{defaultCylinder, 14},
		{defaultTorus, 10},
		{defaultHyperbola, 6},
		{defaultHyperboloid, 18},
	}
	for _, s := range shapes {
		t.Run(s.shape.Kind().String(), func(t *testing.T) {
			c := constants(t, s.shape, s.n)
			for _, a := range c.Angles {
				for _, e := range slot.Edges {
					pair, err := s.shape.SlotCorners(a, c.Width, e)
					require.NoError(t, err)
					if !pair.Complete() {
						continue
					}
					dist := func(o geom.Opt) float64 {
						p := point(t, o)
						return (p.Y - math.Tan(a)*p.X) * math.Cos(a)
					}
					assert.InDelta(t, c.Width/2, dist(pair.First), 1e-9)
					assert.InDelta(t, -c.Width/2, dist(pair.Second), 1e-9)
				}
			}
		})
	}
}

func TestIntersectionsAreDeterministic(t *testing.T) {
	for _, s := range []Shape{defaultCylinder, defaultTorus, defaultHyperbola, defaultHyperboloid} {
		t.Run(s.Kind().String(), func(t *testing.T) {
			a := intersections(t, s, 16)
			b := intersections(t, s, 16)
			assert.Equal(t, a, b)
		})
	}
}

func TestCylinderIntersections(t *testing.T) {
	xs := intersections(t, defaultCylinder, 14)
	require.Len(t, xs, 13)
	for i, x := range xs {
		assert.True(t, x.Complete(), "slot %d", i)
	}

	ory := math.Sqrt(35*35 + 20*20)
	assertPoint(t, geom.Pt(7.5761, 39.3556+ory), xs[0].Outer.First)
	assertPoint(t, geom.Pt(34.9995, 0.21875+ory), xs[6].Outer.First)
	assertPoint(t, geom.Pt(25.9993, -0.21875+ory), xs[6].Inner.Second)
}

func TestCylinderOutline(t *testing.T) {
	xs := intersections(t, defaultCylinder, 14)
	ory := math.Sqrt(35*35 + 20*20)
	iry := 26 / math.Cos(defaultCylinder.LoxodromicAngle())

	for _, e := range slot.Edges {
		t.Run(e.String(), func(t *testing.T) {
			p, err := defaultCylinder.Outline(xs, e)
			require.NoError(t, err)
			require.Equal(t, 57, p.Len())
			assert.True(t, p.Closed())

			first := p.Commands[0]
			assert.Equal(t, contour.OpMove, first.Op)
			assert.InDelta(t, 2*ory, first.To.Y, 1e-9)

			var vline contour.Command
			for _, c := range p.Commands {
				if c.Op == contour.OpVLineRel {
					vline = c
				}
			}
			assert.InDelta(t, ory-iry, vline.DY, 1e-9)
		})
	}

	p, err := defaultCylinder.Outline(xs, slot.Inner)
	require.NoError(t, err)
	assert.Equal(t, contour.Large, p.Commands[1].Size)
	assert.Equal(t, contour.CCW, p.Commands[1].Winding)
	// The inner walk starts at the slot nearest the top.
	assertPoint(t, point(t, xs[len(xs)-1].Inner.Second), geom.Some(p.Commands[3].To))
}

func TestCylinderOutlineRejectsIncomplete(t *testing.T) {
	xs := intersections(t, defaultCylinder, 6)
	xs[1].Outer.First = geom.None()
	_, err := defaultCylinder.Outline(xs, slot.Outer)
	assert.ErrorIs(t, err, slot.ErrIncomplete)
}

func TestTorusOutline(t *testing.T) {
	xs := intersections(t, defaultTorus, 10)
	require.Len(t, xs, 9)
	tip := defaultTorus.Tip()
	assert.InDelta(t, math.Sqrt(40*40-17.5*17.5), tip.Y, 1e-12)

	for _, e := range slot.Edges {
		t.Run(e.String(), func(t *testing.T) {
			p, err := defaultTorus.Outline(xs, e)
			require.NoError(t, err)
			require.Equal(t, 40, p.Len())
			assert.True(t, p.Closed())

			vs := p.Vertices()
			assert.True(t, geom.NearPoint(tip, vs[0]))
			assert.True(t, geom.NearPoint(tip, vs[len(vs)-1]))
		})
	}
}

func TestHyperbolaIntersectionsHandOff(t *testing.T) {
	xs := intersections(t, defaultHyperbola, 6)
	require.Len(t, xs, 5)

	assert.False(t, xs[0].Outer.First.Valid())
	assertPoint(t, geom.Pt(0.7797, 55), xs[0].Outer.Second)
	assertPoint(t, geom.Pt(15.7797-15, -27.5+27.5), xs[4].Outer.First)
	assert.False(t, xs[4].Outer.Second.Valid())
	for _, x := range xs[1:4] {
		assert.True(t, x.Complete())
	}
}

func TestHyperbolaOutline(t *testing.T) {
	xs := intersections(t, defaultHyperbola, 6)

	for _, e := range slot.Edges {
		t.Run(e.String(), func(t *testing.T) {
			p, err := defaultHyperbola.Outline(xs, e)
			require.NoError(t, err)
			require.Equal(t, 20, p.Len())
			assert.True(t, p.Closed())

			vs := p.Vertices()
			assertPoint(t, geom.Pt(0.7797, 55), geom.Some(vs[0]))
			assert.Equal(t, vs[0], vs[len(vs)-1])
			for _, v := range vs {
				assert.GreaterOrEqual(t, v.X, -geom.Epsilon)
				assert.LessOrEqual(t, v.X, 15+geom.Epsilon)
				assert.GreaterOrEqual(t, v.Y, -geom.Epsilon)
				assert.LessOrEqual(t, v.Y, 55+geom.Epsilon)
			}
		})
	}
}

func TestHyperboloidDropsSlotsOffTheFace(t *testing.T) {
	xs := intersections(t, defaultHyperboloid, 18)
	require.Len(t, xs, 13)
	assertPoint(t, geom.Pt(29.7579, 60), xs[0].Outer.First)
	assertPoint(t, geom.Pt(30, 59.5159), xs[0].Outer.Second)
	assertPoint(t, geom.Pt(20, 40.4841), xs[0].Inner.First)
	for _, x := range xs {
		assert.True(t, x.Complete())
	}
}

func TestHyperboloidOutline(t *testing.T) {
	xs := intersections(t, defaultHyperboloid, 18)

	p, err := defaultHyperboloid.Outline(xs, slot.Outer)
	require.NoError(t, err)
	assert.Equal(t, 56, p.Len())
	assert.Equal(t, geom.Pt(20, 60), p.Commands[0].To)

	p, err = defaultHyperboloid.Outline(xs, slot.Inner)
	require.NoError(t, err)
	assert.Equal(t, 58, p.Len())
	vs := p.Vertices()
	assert.Equal(t, geom.Pt(30, 60), vs[1])
	assert.Equal(t, geom.Pt(30, -60), vs[2])
	assert.Equal(t, geom.Pt(20, -60), vs[3])
}

func TestFootprint(t *testing.T) {
	ory := math.Sqrt(35*35 + 20*20)
	tests := []struct {
		name  string
		shape Shape
		want  Footprint
	}{
		{"cylinder", defaultCylinder, Footprint{FirstWidth: 35, AdditionalWidth: 23.4307, Height: 2 * ory, Nested: true}},
		{"torus", defaultTorus, Footprint{FirstWidth: 57.5, AdditionalWidth: 35, Height: 80, Nested: true}},
		{"hyperbola", defaultHyperbola, Footprint{FirstWidth: 15, AdditionalWidth: 15, Height: 55}},
		{"hyperboloid", defaultHyperboloid, Footprint{FirstWidth: 10, AdditionalWidth: 10, Height: 120}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.shape.Footprint()
			require.NoError(t, err)
			assert.InDelta(t, tt.want.FirstWidth, got.FirstWidth, tol)
			assert.InDelta(t, tt.want.AdditionalWidth, got.AdditionalWidth, tol)
			assert.InDelta(t, tt.want.Height, got.Height, tol)
			assert.Equal(t, tt.want.Nested, got.Nested)
		})
	}
}

func TestSizing(t *testing.T) {
	assert.InDelta(t, 40, CylinderHeight(35, defaultCylinder.LoxodromicAngle()), 1e-9)
	assert.InDelta(t, 2*30*math.Tan(0.3), HyperbolaHeight(30, 0.3), 1e-12)

	h, lox, err := TruncatedSphere(10, 5, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, lox, 1e-12)
	assert.InDelta(t, 20, h, 1e-9)

	h, lox, err = TruncatedSphere(10, 5, 2.5)
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/3, lox, 1e-12)
	assert.InDelta(t, 20*math.Sin(math.Pi/3), h, 1e-9)

	_, _, err = TruncatedSphere(10, 5, 6)
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)
	_, _, err = TruncatedSphere(4, 5, 1)
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)
}
