package model

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/chazu/sliceform/pkg/shape"
	"github.com/chazu/sliceform/pkg/slot"
)

// MinLieFlatAngle is the smallest crossing angle that does not draw a
// warning. Below it slots become very wide and the model wobbles.
const MinLieFlatAngle = 20 * math.Pi / 180

// ValidationSeverity indicates whether a validation finding blocks generation
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks generation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Field    string             // which input has the problem ("" if model-level)
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Severity, e.Field, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	if w.Field == "" {
		return w.Message
	}
	return w.Field + ": " + w.Message
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether generation may proceed.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err folds the blocking findings into one error wrapping
// slot.ErrInvalidConfig, or returns nil.
func (r ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Error()
	}
	return errors.Wrap(slot.ErrInvalidConfig, strings.Join(msgs, "; "))
}

// Validate runs both validation tiers on a model. Tier 1 (configuration)
// findings are errors. Tier 2 (buildability) findings are warnings and only
// run when tier 1 passes. Validate never computes slot corners.
func Validate(m Model) ValidationResult {
	var result ValidationResult
	result.Errors = validateConfig(m)
	if len(result.Errors) == 0 {
		result.Warnings = validateBuildability(m)
	}
	return result
}

// ValidateAll validates several models and additionally rejects duplicate
// names. Findings are prefixed with the model name.
func ValidateAll(models []Model) ValidationResult {
	var result ValidationResult
	seen := make(map[string]bool)
	for i, m := range models {
		label := m.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i)
		}
		if m.Name != "" && seen[m.Name] {
			result.Errors = append(result.Errors, ValidationError{
				Field:    "name",
				Message:  fmt.Sprintf("duplicate model name %q", m.Name),
				Severity: SeverityError,
			})
		}
		seen[m.Name] = true

		r := Validate(m)
		for _, e := range r.Errors {
			e.Field = qualify(label, e.Field)
			result.Errors = append(result.Errors, e)
		}
		for _, w := range r.Warnings {
			w.Field = qualify(label, w.Field)
			result.Warnings = append(result.Warnings, w)
		}
	}
	return result
}

func qualify(model, field string) string {
	if field == "" {
		return model
	}
	return model + "." + field
}

// ---------------------------------------------------------------------------
// Tier 1: configuration errors
// ---------------------------------------------------------------------------

func validateConfig(m Model) []ValidationError {
	var errs []ValidationError
	fail := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:    field,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	if m.Slices <= 0 {
		fail("slices", "slice count is %d, must be positive", m.Slices)
	}
	if !(m.Material.Thickness > 0) {
		fail("material.thickness", "thickness is %.4f, must be positive", m.Material.Thickness)
	}
	if m.Shape == nil {
		fail("shape", "no shape given")
		return errs
	}
	if err := m.Shape.Validate(); err != nil {
		fail("shape", "%v", err)
		return errs
	}
	if lox := m.Shape.LoxodromicAngle(); !(lox > 0 && lox < math.Pi/2) {
		fail("shape", "loxodromic angle %.4f rad outside (0, π/2)", lox)
	}
	return errs
}

// ---------------------------------------------------------------------------
// Tier 2: buildability warnings
// ---------------------------------------------------------------------------

func validateBuildability(m Model) []ValidationWarning {
	var warnings []ValidationWarning
	warn := func(field, format string, args ...any) {
		warnings = append(warnings, ValidationWarning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	lox := m.Shape.LoxodromicAngle()
	lieFlat := 2 * lox
	if lieFlat < MinLieFlatAngle {
		warn("shape", "lie-flat angle %.1f° is below %.0f°; slots will be very loose",
			degrees(lieFlat), degrees(MinLieFlatAngle))
	}
	if w, err := slot.Width(m.Material.Thickness, lieFlat); err == nil && w > 2*m.Material.Thickness {
		warn("material.thickness", "slot width %.4f is more than twice the thickness %.4f",
			w, m.Material.Thickness)
	}
	if m.Slices < 3 {
		warn("slices", "%d slices cannot hold the solid's shape", m.Slices)
	}
	if m.Shape.Kind() == shape.KindTorus && m.Slices%2 != 0 {
		warn("slices", "odd slice count %d on a torus leaves unpaired crescent tips", m.Slices)
	}
	return warnings
}

func degrees(r float64) float64 { return r * 180 / math.Pi }
