package shape

import (
	"math"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/slot"
)

// Sizing helpers work backwards from a desired loxodromic angle to the
// dimension that produces it.

// CylinderHeight is the height of a cylinder of the given radius whose slices
// cross at lox.
func CylinderHeight(radius, lox float64) float64 {
	return math.Tan(lox) * 2 * radius
}

// HyperbolaHeight is the height of a hyperbola whose slices cross at lox for
// the given waist radius.
func HyperbolaHeight(waist, lox float64) float64 {
	return math.Tan(lox) * 2 * waist
}

// TruncatedSphere sizes a sphere of radius outer with a hole of radius inner,
// truncated where the hole meets a cap of radius top. It returns the
// resulting height and loxodromic angle.
func TruncatedSphere(outer, inner, top float64) (height, lox float64, err error) {
	if !(inner > 0) || !(outer > inner) {
		return 0, 0, errors.Wrapf(slot.ErrInvalidConfig, "sphere radii outer %g inner %g", outer, inner)
	}
	if top < 0 || top > inner {
		return 0, 0, errors.Wrapf(slot.ErrInvalidConfig, "cap radius %g outside [0, %g]", top, inner)
	}
	lox = math.Acos(top / inner)
	return math.Sin(lox) * 2 * outer, lox, nil
}
