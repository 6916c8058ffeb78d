// Package slot implements the shape-independent slot math: the quadratic
// solver used by every conic intersection, slot width from material thickness,
// the loxodromic slot angle distribution and the slot wall offset.
//
// All functions are pure. Angles are radians.
package slot

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Edge selects which boundary of a slice carries the slots.
type Edge int

const (
	Outer Edge = iota // slots cut into the outer edge
	Inner             // slots cut into the inner edge
)

func (e Edge) String() string {
	switch e {
	case Outer:
		return "outer"
	case Inner:
		return "inner"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// MarshalText renders the edge name.
func (e Edge) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// Edges lists both edges in rendering order.
var Edges = []Edge{Outer, Inner}

// SolveQuadratic returns the positive-branch root (-b + sqrt(b²-4ac)) / 2a of
// a·x² + b·x + c = 0. A negative discriminant means the line misses the curve
// and yields ErrNoIntersection.
func SolveQuadratic(a, b, c float64) (float64, error) {
	if a == 0 {
		return 0, errors.Wrap(ErrDegenerate, "quadratic coefficient a is zero")
	}
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, errors.Wrapf(ErrNoIntersection, "discriminant %g", disc)
	}
	return (-b + math.Sqrt(disc)) / (2 * a), nil
}

// Width returns the slot width needed for material of the given thickness
// when two slices cross at lieFlatAngle:
//
//	thickness/tan(lieFlatAngle) + thickness/sin(lieFlatAngle)
//
// lieFlatAngle is twice the loxodromic angle. It must lie strictly between 0
// and π.
func Width(thickness, lieFlatAngle float64) (float64, error) {
	if thickness < 0 {
		return 0, errors.Wrapf(ErrInvalidConfig, "thickness %g is negative", thickness)
	}
	if !(lieFlatAngle > 0 && lieFlatAngle < math.Pi) {
		return 0, errors.Wrapf(ErrDegenerate, "lie-flat angle %g outside (0, π)", lieFlatAngle)
	}
	return thickness/math.Tan(lieFlatAngle) + thickness/math.Sin(lieFlatAngle), nil
}

// Angles returns the numSlices-1 slot angles of one slice. For k = 1..N-1
// with t = 2πk/N the raw angle is
//
//	acos( sin(t/2) / sqrt(1 + tan²(lox)·cos²(t/2)) )
//
// and every angle whose zero-based index is at least ⌊N/2⌋ is negated.
func Angles(numSlices int, loxodromicAngle float64) ([]float64, error) {
	if numSlices <= 0 {
		return nil, errors.Wrapf(ErrInvalidConfig, "slice count %d must be positive", numSlices)
	}
	tanLox := math.Tan(loxodromicAngle)
	half := numSlices / 2
	angles := make([]float64, 0, numSlices-1)
	for k := 1; k < numSlices; k++ {
		t := float64(k) * 2 * math.Pi / float64(numSlices)
		cos := math.Cos(t / 2)
		a := math.Acos(math.Sin(t/2) / math.Sqrt(1+tanLox*tanLox*cos*cos))
		if k-1 >= half {
			a = -a
		}
		angles = append(angles, a)
	}
	return angles, nil
}

// WallOffset returns dy, the y-intercept of the upper wall of a slot of the
// given width whose centerline passes through the origin at angle. The walls
// are y = tan(angle)·x ± dy.
func WallOffset(angle, width float64) float64 {
	return (width / 2) / math.Sin(math.Pi/2-angle)
}

// WallOffsets returns the intercepts of both walls, upper wall first.
func WallOffsets(angle, width float64) [2]float64 {
	dy := WallOffset(angle, width)
	return [2]float64{dy, -dy}
}
