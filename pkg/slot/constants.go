package slot

import (
	"math"

	"github.com/pkg/errors"
)

// Constants is the read-only set derived once per model and shared by every
// slice of that model.
type Constants struct {
	LoxodromicAngle float64   `yaml:"loxodromic_angle"`
	Width           float64   `yaml:"slot_width"`
	Angles          []float64 `yaml:"slot_angles"`
}

// Derive computes the slot width (at a lie-flat angle of twice the
// loxodromic angle) and the slot angles for a model.
func Derive(loxodromicAngle, thickness float64, numSlices int) (Constants, error) {
	if !(loxodromicAngle > 0 && loxodromicAngle < math.Pi/2) {
		return Constants{}, errors.Wrapf(ErrDegenerate,
			"loxodromic angle %g outside (0, π/2)", loxodromicAngle)
	}
	width, err := Width(thickness, 2*loxodromicAngle)
	if err != nil {
		return Constants{}, err
	}
	angles, err := Angles(numSlices, loxodromicAngle)
	if err != nil {
		return Constants{}, err
	}
	return Constants{
		LoxodromicAngle: loxodromicAngle,
		Width:           width,
		Angles:          angles,
	}, nil
}

// LieFlatAngle is the crossing angle the slot width was sized for.
func (c Constants) LieFlatAngle() float64 {
	return 2 * c.LoxodromicAngle
}
