// Package model defines sliceform models: a solid, the sheet material it is
// cut from and the number of slices. Models are plain values built by the
// DSL, by flags or by configuration, and validated before any geometry runs.
package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/chazu/sliceform/pkg/shape"
	"github.com/chazu/sliceform/pkg/slot"
)

// ---------------------------------------------------------------------------
// Material
// ---------------------------------------------------------------------------

// MaterialSpec describes the sheet the slices are cut from.
type MaterialSpec struct {
	Name      string  `json:"name,omitempty" yaml:"name,omitempty"`
	Thickness float64 `json:"thickness" yaml:"thickness"`
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

// Model is one sliceform: N radial slices of a solid.
type Model struct {
	Name     string       `json:"name"`
	Shape    shape.Shape  `json:"-"`
	Slices   int          `json:"slices"`
	Material MaterialSpec `json:"material"`
}

// Kind returns the shape kind name, or "" without a shape.
func (m Model) Kind() string {
	if m.Shape == nil {
		return ""
	}
	return m.Shape.Kind().String()
}

// MarshalJSON adds the shape kind and its dimensions.
func (m Model) MarshalJSON() ([]byte, error) {
	type plain Model
	return json.Marshal(struct {
		plain
		Kind   string      `json:"shape"`
		Params shape.Shape `json:"params"`
	}{plain(m), m.Kind(), m.Shape})
}

// MarshalYAML writes the shape kind next to its dimensions.
func (m Model) MarshalYAML() (any, error) {
	return struct {
		Name     string       `yaml:"name"`
		Kind     string       `yaml:"shape"`
		Params   shape.Shape  `yaml:"params"`
		Slices   int          `yaml:"slices"`
		Material MaterialSpec `yaml:"material"`
	}{m.Name, m.Kind(), m.Shape, m.Slices, m.Material}, nil
}

// Key identifies the model's geometry: two models with equal keys derive the
// same slot constants.
func (m Model) Key() string {
	return fmt.Sprintf("%s/%+v/t=%g/n=%d", m.Kind(), m.Shape, m.Material.Thickness, m.Slices)
}

// ---------------------------------------------------------------------------
// Shape construction
// ---------------------------------------------------------------------------

// shapeParams lists the parameters each shape takes, in kebab case.
var shapeParams = map[shape.Kind][]string{
	shape.KindCylinder:    {"outer-radius", "inner-radius", "height"},
	shape.KindTorus:       {"major-radius", "minor-radius"},
	shape.KindHyperbola:   {"outer-edge-radius", "outer-waist-radius", "inner-radius", "height"},
	shape.KindHyperboloid: {"outer-edge-radius", "outer-waist-radius", "inner-radius", "height"},
}

// ShapeParams returns the parameter names of a shape kind.
func ShapeParams(k shape.Kind) []string {
	return append([]string(nil), shapeParams[k]...)
}

// NormalizeKey converts snake_case and :keyword spellings to kebab case.
func NormalizeKey(k string) string {
	k = strings.TrimPrefix(strings.TrimSpace(k), ":")
	return strings.ToLower(strings.ReplaceAll(k, "_", "-"))
}

// NewShape builds a shape from a kind name and its parameters. Values may be
// any type cast can read as a float. Every parameter is required and unknown
// parameters are rejected.
func NewShape(kind string, params map[string]any) (shape.Shape, error) {
	k, err := shape.ParseKind(kind)
	if err != nil {
		return nil, err
	}

	names := shapeParams[k]
	vals := make(map[string]float64, len(params))
	for raw, v := range params {
		key := NormalizeKey(raw)
		if !lo.Contains(names, key) {
			return nil, errors.Wrapf(slot.ErrInvalidConfig, "%s: unknown parameter %q (want %s)",
				k, raw, strings.Join(names, ", "))
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, errors.Wrapf(slot.ErrInvalidConfig, "%s: parameter %s: %v", k, key, err)
		}
		vals[key] = f
	}

	var missing []string
	for _, n := range names {
		if _, ok := vals[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return nil, errors.Wrapf(slot.ErrInvalidConfig, "%s: missing %s", k, strings.Join(missing, ", "))
	}

	switch k {
	case shape.KindCylinder:
		return shape.Cylinder{
			OuterRadius: vals["outer-radius"],
			InnerRadius: vals["inner-radius"],
			Height:      vals["height"],
		}, nil
	case shape.KindTorus:
		return shape.Torus{
			MajorRadius: vals["major-radius"],
			MinorRadius: vals["minor-radius"],
		}, nil
	}

	h := shape.Hyperbola{
		OuterEdgeRadius:  vals["outer-edge-radius"],
		OuterWaistRadius: vals["outer-waist-radius"],
		InnerRadius:      vals["inner-radius"],
		Height:           vals["height"],
	}
	if k == shape.KindHyperboloid {
		return shape.Hyperboloid{Hyperbola: h}, nil
	}
	return h, nil
}
