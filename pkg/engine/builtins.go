package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/shape"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpMaterial wraps a model.MaterialSpec so it can be passed between builtins.
type sexpMaterial struct {
	spec model.MaterialSpec
}

func (m *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material :thickness %g)", m.spec.Thickness)
}
func (m *sexpMaterial) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a shape returned from a shape builtin and consumed by
// `sliceform`.
type sexpShape struct {
	shape shape.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %+v)", s.shape.Kind(), s.shape)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

// sexpModel refers to a declared model by name.
type sexpModel struct {
	name string
}

func (m *sexpModel) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(sliceform %q)", m.name)
}
func (m *sexpModel) Type() *zygo.RegisteredType { return nil }

// registry collects the models declared during one evaluation.
type registry struct {
	models []model.Model
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

// only rejects keywords outside allowed.
func (a kwArgs) only(allowed ...string) error {
	unknown := lo.Without(lo.Keys(a.kw), allowed...)
	if len(unknown) == 0 {
		return nil
	}
	slices.Sort(unknown)
	return fmt.Errorf("unknown keyword :%s (want :%s)",
		strings.Join(unknown, ", :"), strings.Join(allowed, ", :"))
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toValue extracts a number or a plain string from a Sexp.
func toValue(s zygo.Sexp) (any, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpStr:
		if kw, ok := isKW(v); ok {
			return nil, fmt.Errorf("expected value, got keyword :%s", kw)
		}
		return v.S, nil
	}
	return nil, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toFloat64 extracts a float64 from a number, or from a string holding one.
func toFloat64(s zygo.Sexp) (float64, error) {
	v, err := toValue(s)
	if err != nil {
		return 0, err
	}
	return cast.ToFloat64E(v)
}

// toInt extracts a whole number.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected whole number, got %g", f)
	}
	return cast.ToIntE(f)
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toMaterial extracts a MaterialSpec from a sexpMaterial.
func toMaterial(s zygo.Sexp) (model.MaterialSpec, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.spec, nil
	}
	return model.MaterialSpec{}, fmt.Errorf("expected material, got %T (%s)", s, s.SexpString(nil))
}

// toShape extracts a shape from a sexpShape.
func toShape(s zygo.Sexp) (shape.Shape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// kwFloats reads every keyword value as a number.
func kwFloats(pa kwArgs, names ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	for _, n := range names {
		v, ok := pa.kw[n]
		if !ok {
			return nil, fmt.Errorf("missing :%s", n)
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n, err)
		}
		out[n] = f
	}
	return out, pa.only(names...)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the sliceform DSL builtins into a zygomys
// environment. Declared models are appended to reg.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, reg *registry) {

	// -----------------------------------------------------------------------
	// (material :thickness 0.25 :name "card")
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.only("thickness", "name"); err != nil {
			return zygo.SexpNull, fmt.Errorf("material: %w", err)
		}
		spec := model.MaterialSpec{}

		if v, ok := pa.kw["thickness"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: thickness: %w", err)
			}
			spec.Thickness = f
		}
		if v, ok := pa.kw["name"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
			}
			spec.Name = s
		}

		return &sexpMaterial{spec: spec}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :outer-radius 35 :inner-radius 26 :height 40)
	// (torus :major-radius 40 :minor-radius 17.5)
	// (hyperbola :outer-edge-radius 40 :outer-waist-radius 30 :inner-radius 15 :height 15)
	// (hyperboloid ...same keywords as hyperbola...)
	// -----------------------------------------------------------------------
	for _, k := range []shape.Kind{shape.KindCylinder, shape.KindTorus, shape.KindHyperbola, shape.KindHyperboloid} {
		kind := k.String()
		env.AddFunction(kind, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) > 0 {
				return zygo.SexpNull, fmt.Errorf("%s: takes keyword arguments only", kind)
			}

			params := make(map[string]any, len(pa.kw))
			for key, v := range pa.kw {
				val, err := toValue(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %s: %w", kind, key, err)
				}
				params[key] = val
			}

			s, err := model.NewShape(kind, params)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", kind, err)
			}
			return &sexpShape{shape: s}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (sliceform "name" (cylinder ...) :slices 14 :material m)
	// -----------------------------------------------------------------------
	env.AddFunction("sliceform", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("sliceform requires a name and a shape expression")
		}
		if err := pa.only("slices", "material"); err != nil {
			return zygo.SexpNull, fmt.Errorf("sliceform: %w", err)
		}

		modelName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sliceform: name: %w", err)
		}
		s, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sliceform %q: %w", modelName, err)
		}
		m := model.Model{Name: modelName, Shape: s}

		if v, ok := pa.kw["slices"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sliceform %q: slices: %w", modelName, err)
			}
			m.Slices = n
		}
		if v, ok := pa.kw["material"]; ok {
			mat, err := toMaterial(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("sliceform %q: material: %w", modelName, err)
			}
			m.Material = mat
		}

		reg.models = append(reg.models, m)
		return &sexpModel{name: modelName}, nil
	})

	// -----------------------------------------------------------------------
	// Sizing helpers. Angles are in degrees.
	//
	// (cylinder-height :radius 40 :angle 35)
	// (hyperbola-height :waist-radius 22 :angle 45)
	// (sphere-height :outer-radius 50 :inner-radius 40 :top-radius 20)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder_height", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := kwFloats(parseArgs(args), "radius", "angle")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder-height: %w", err)
		}
		return &zygo.SexpFloat{Val: shape.CylinderHeight(v["radius"], radians(v["angle"]))}, nil
	})

	env.AddFunction("hyperbola_height", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := kwFloats(parseArgs(args), "waist-radius", "angle")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("hyperbola-height: %w", err)
		}
		return &zygo.SexpFloat{Val: shape.HyperbolaHeight(v["waist-radius"], radians(v["angle"]))}, nil
	})

	env.AddFunction("sphere_height", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := kwFloats(parseArgs(args), "outer-radius", "inner-radius", "top-radius")
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere-height: %w", err)
		}
		h, _, err := shape.TruncatedSphere(v["outer-radius"], v["inner-radius"], v["top-radius"])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere-height: %w", err)
		}
		return &zygo.SexpFloat{Val: h}, nil
	})
}
