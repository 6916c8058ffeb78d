// Package shape implements the per-solid slot geometry: the loxodromic angle
// of each solid, the intersection of slot walls with a slice's edges, and the
// outline of one slice with its slots cut into either edge.
//
// Every shape works in its own local frame:
//
//   - Cylinder: origin at the top of the slice's left edge (y grows down).
//   - Torus: origin on the axis, halfway between the crescent tips.
//   - Hyperbola: origin at the top-left corner of the rectangular face.
//   - Hyperboloid: origin on the axis at mid-height; the face spans
//     x ∈ [inner, waist], y ∈ [-h/2, h/2].
package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/slot"
)

// Kind identifies a solid.
type Kind int

const (
	KindCylinder Kind = iota
	KindTorus
	KindHyperbola
	KindHyperboloid
)

var kindNames = map[Kind]string{
	KindCylinder:    "cylinder",
	KindTorus:       "torus",
	KindHyperbola:   "hyperbola",
	KindHyperboloid: "hyperboloid",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a shape name to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return 0, errors.Wrapf(slot.ErrInvalidConfig, "unknown shape %q", s)
}

// Shape is a solid of revolution approximated by radial slices.
type Shape interface {
	Kind() Kind

	// Validate checks the shape's dimensions. It must pass before any other
	// method is called.
	Validate() error

	// LoxodromicAngle is the angle at which two crossing slices meet.
	LoxodromicAngle() float64

	// SlotCorners returns where the two walls of a slot at angle with the
	// given width cross edge e, in the shape's calculation frame.
	SlotCorners(angle, width float64, e slot.Edge) (geom.Pair, error)

	// Intersections computes the slot records for every angle, in the
	// shape's local frame. Slots that miss the slice entirely are dropped.
	Intersections(angles []float64, width float64) ([]contour.Intersection, error)

	// Outline builds the closed slice outline with slots cut into edge e.
	Outline(xs []contour.Intersection, e slot.Edge) (*contour.Path, error)

	// Footprint reports how much sheet one slice occupies.
	Footprint() (Footprint, error)
}

// Footprint describes the sheet space taken by a shape's slices.
type Footprint struct {
	// FirstWidth is the width of the first slice in a row.
	FirstWidth float64 `yaml:"first_width"`
	// AdditionalWidth is the advance for each further slice in a row.
	AdditionalWidth float64 `yaml:"additional_width"`
	// Height of one slice.
	Height float64 `yaml:"height"`
	// Nested slices slide into the open side of their neighbour.
	Nested bool `yaml:"nested"`
}

func checkAngle(angle float64) error {
	if !(angle > -math.Pi/2 && angle < math.Pi/2) {
		return errors.Wrapf(slot.ErrDegenerate, "slot angle %g outside (-π/2, π/2)", angle)
	}
	return nil
}

func positive(name string, v float64) error {
	if !(v > 0) {
		return errors.Wrapf(slot.ErrInvalidConfig, "%s must be positive, got %g", name, v)
	}
	return nil
}

func greater(a string, av float64, b string, bv float64) error {
	if !(av > bv) {
		return errors.Wrapf(slot.ErrInvalidConfig, "%s (%g) must be larger than %s (%g)", a, av, b, bv)
	}
	return nil
}

// collect builds intersection records from per-edge corner functions.
// Records whose outer pair is empty are dropped; every point is mapped
// through toLocal.
func collect(angles []float64, width float64,
	corners func(angle, width float64, e slot.Edge) (geom.Pair, error),
	toLocal func(geom.Point) geom.Point,
) ([]contour.Intersection, error) {
	xs := make([]contour.Intersection, 0, len(angles))
	for i, a := range angles {
		outer, err := corners(a, width, slot.Outer)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d outer edge", i)
		}
		if outer.Empty() {
			continue
		}
		inner, err := corners(a, width, slot.Inner)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d inner edge", i)
		}
		x, err := contour.NewIntersection(outer.Map(toLocal), inner.Map(toLocal))
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		xs = append(xs, x)
	}
	return xs, nil
}

func identity(p geom.Point) geom.Point { return p }
