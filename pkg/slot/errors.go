package slot

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig marks a model configuration that must be rejected before
	// any slot geometry runs: non-positive slice count, radius ordering
	// violations, non-positive dimensions.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDegenerate marks a lie-flat or loxodromic angle at a tan/sin singularity.
	ErrDegenerate = errors.New("degenerate angle")

	// ErrNoIntersection marks a slot wall that does not cross a curve it is
	// required to cross (negative discriminant).
	ErrNoIntersection = errors.New("slot wall does not intersect edge")

	// ErrIncomplete marks an absent wall point where a full slot is required.
	ErrIncomplete = errors.New("incomplete slot intersection")

	// ErrCornerHandOff marks a first/last slot whose absence pattern cannot
	// supply the slice's corner points.
	ErrCornerHandOff = errors.New("unsupported corner hand-off")
)
