package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/sliceform/pkg/kernel"
)

func square(t *testing.T, k *SdfxKernel, x, y, size float64) kernel.Region {
	t.Helper()
	p := &kernel.Polyline{PartName: "square"}
	p.Append(x, y)
	p.Append(x+size, y)
	p.Append(x+size, y+size)
	p.Append(x, y+size)
	p.Append(x, y) // closing vertex, dropped
	r, err := k.Polygon(p)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	return r
}

func TestPolygonArea(t *testing.T) {
	k := New()
	r := square(t, k, 0, 0, 10)
	if got := k.Area(r); math.Abs(got-100) > 1e-6 {
		t.Fatalf("Area = %f, expected 100", got)
	}
	if !r.Contains(5, 5) {
		t.Error("expected (5, 5) inside")
	}
	if r.Contains(11, 5) {
		t.Error("expected (11, 5) outside")
	}
}

func TestPolygonNeedsThreeVertices(t *testing.T) {
	k := New()
	p := &kernel.Polyline{Points: []float64{0, 0, 1, 1}}
	if _, err := k.Polygon(p); err == nil {
		t.Fatal("expected an error for a two-vertex polygon")
	}
}

func TestRect(t *testing.T) {
	k := New()
	r, err := k.Rect(20, 5)
	if err != nil {
		t.Fatalf("Rect: %v", err)
	}
	min, max := r.BoundingBox()
	if min != [2]float64{0, 0} || max != [2]float64{20, 5} {
		t.Fatalf("bounding box = %v..%v, expected [0 0]..[20 5]", min, max)
	}
	if got := k.Area(r); math.Abs(got-100) > 1e-6 {
		t.Fatalf("Area = %f, expected 100", got)
	}
}

func TestRectRejectsEmptySides(t *testing.T) {
	k := New()
	tests := []struct {
		name string
		w, h float64
	}{
		{"zero width", 0, 5},
		{"zero height", 20, 0},
		{"negative", -1, 5},
		{"NaN", math.NaN(), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := k.Rect(tt.w, tt.h)
			if err == nil {
				t.Fatalf("expected an error, got region %v", r)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	k := New()
	r := k.Translate(square(t, k, 0, 0, 10), 100, 200)

	min, max := r.BoundingBox()
	const tol = 1e-9
	expectMin := [2]float64{100, 200}
	expectMax := [2]float64{110, 210}
	for i := 0; i < 2; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
	if !r.Contains(105, 205) {
		t.Error("expected translated center inside")
	}
}

func TestBooleans(t *testing.T) {
	k := New()
	a := square(t, k, 0, 0, 10)
	b := square(t, k, 5, 0, 10)

	tests := []struct {
		name   string
		region kernel.Region
		want   float64
	}{
		{"union", k.Union(a, b), 150},
		{"intersection", k.Intersection(a, b), 50},
		{"difference", k.Difference(a, b), 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := k.Area(tt.region); math.Abs(got-tt.want) > 0.5 {
				t.Fatalf("Area = %f, expected %f", got, tt.want)
			}
		})
	}
}

func TestDisjointIntersectionIsEmpty(t *testing.T) {
	k := NewWithResolution(32)
	a := square(t, k, 0, 0, 10)
	b := square(t, k, 20, 0, 10)
	if got := k.Area(k.Intersection(a, b)); got != 0 {
		t.Fatalf("Area = %f, expected 0", got)
	}
}

func TestPolygonDropsRepeatedVertices(t *testing.T) {
	k := New()
	p := &kernel.Polyline{Points: []float64{0, 0, 10, 0, 10, 0, 10, 10, 0, 10, 0, 10}}
	r, err := k.Polygon(p)
	if err != nil {
		t.Fatalf("Polygon failed: %v", err)
	}
	if got := k.Area(r); math.Abs(got-100) > 1e-6 {
		t.Fatalf("Area = %f, expected 100", got)
	}
}

func TestContainsExcludesBoundary(t *testing.T) {
	k := New()
	r := square(t, k, 0, 0, 10)
	for _, pt := range [][2]float64{{0, 0}, {10, 5}, {5, 10}} {
		if r.Contains(pt[0], pt[1]) {
			t.Errorf("boundary point %v reported inside", pt)
		}
	}
}
