// Package sliceform turns DSL scripts describing sliceform models into cut
// patterns. App is the entry point shared by the CLI and any editor front end.
package sliceform

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/sgostarter/i/l"

	"github.com/chazu/sliceform/pkg/config"
	"github.com/chazu/sliceform/pkg/engine"
	"github.com/chazu/sliceform/pkg/export"
	"github.com/chazu/sliceform/pkg/layout"
	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/pattern"
)

// colorPalette is a default palette used to assign distinct colors to models.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

type options struct {
	cfg     config.Config
	logger  l.Wrapper
	pattern []pattern.Option
}

// Option configures an App.
type Option func(o *options)

// WithConfig sets the configuration for sheet, style and output.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger shared by every component. A nil logger
// discards output.
func WithLogger(logger l.Wrapper) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithPatternOptions passes extra options to the pattern generator. They are
// applied after the ones derived from the configuration.
func WithPatternOptions(opts ...pattern.Option) Option {
	return func(o *options) {
		o.pattern = append(o.pattern, opts...)
	}
}

// App wires the DSL engine, the pattern generator and the exporters
// together under one configuration.
type App struct {
	cfg       config.Config
	engine    *engine.Engine
	generator *pattern.Generator
	exporter  *export.Exporter
	logger    l.Wrapper
}

// ModelData is the JSON-serializable pattern of one model.
type ModelData struct {
	Name         string             `json:"name"`
	Shape        string             `json:"shape"`
	Color        string             `json:"color"`
	Slices       int                `json:"slices"`
	Thickness    float64            `json:"thickness"`
	SlotWidth    float64            `json:"slotWidth"`
	LieFlatAngle float64            `json:"lieFlatAngle"` // degrees
	Outer        string             `json:"outer"`        // SVG path data
	Inner        string             `json:"inner"`        // SVG path data
	Placements   []layout.Placement `json:"placements"`
	Width        float64            `json:"width"`
	Height       float64            `json:"height"`
	MaterialArea float64            `json:"materialArea"`
}

// EvalErrorData is a JSON-serializable error or warning. Model is empty for
// findings about the script as a whole.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Model   string `json:"model,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result of evaluating a script.
type EvalResult struct {
	Models   []ModelData     `json:"models"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates an App. Without options it uses config.Default().
func NewApp(opts ...Option) *App {
	o := &options{cfg: config.Default()}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = l.NewNopLoggerWrapper()
	}

	popts := append([]pattern.Option{
		pattern.WithLogger(o.logger),
		pattern.WithSheet(o.cfg.LayoutSheet()),
	}, o.pattern...)

	return &App{
		cfg:       o.cfg,
		engine:    engine.NewEngine(),
		generator: pattern.NewGenerator(popts...),
		exporter:  export.NewExporter(o.cfg.Style, o.cfg.Output.Units, o.logger),
		logger:    o.logger.WithFields(l.StringField(l.ClsKey, "app")),
	}
}

// Config returns the configuration the App was built with.
func (a *App) Config() config.Config {
	return a.cfg
}

// Models evaluates a script and returns its models with the configured
// material filled in where the script names none.
func (a *App) Models(source string) ([]model.Model, []engine.EvalError, error) {
	models, evalErrs, err := a.engine.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		return nil, evalErrs, err
	}

	return a.withDefaults(models), nil, nil
}

func (a *App) withDefaults(models []model.Model) []model.Model {
	return lo.Map(models, func(m model.Model, _ int) model.Model {
		if m.Material.Thickness == 0 {
			name := m.Material.Name
			m.Material = a.cfg.Material()
			m.Material.Name = name
		}

		return m
	})
}

// Generate lays out the patterns of models. Any invalid model fails the
// whole batch.
func (a *App) Generate(ctx context.Context, models []model.Model) ([]*pattern.Pattern, error) {
	ps, err := a.generator.GenerateAll(ctx, a.withDefaults(models))
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	return ps, nil
}

// Evaluate takes DSL source and returns the patterns it describes, or the
// errors that stopped it.
func (a *App) Evaluate(source string) EvalResult {
	return a.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with a context that can cancel generation.
func (a *App) EvaluateContext(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Models:   []ModelData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the script into models.
	models, evalErrs, err := a.Models(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.WithFields(l.ErrorField(err)).Error("evaluate failed")
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})

		return result
	}

	// Step 2: Convert eval errors.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}

		return result
	}

	// Step 3: Configuration errors block every model.
	if r := model.ValidateAll(models); !r.OK() {
		for _, e := range r.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Error()})
		}

		return result
	}

	// Step 4: Generate each pattern.
	ps := make([]*pattern.Pattern, 0, len(models))

	for _, m := range models {
		p, err := a.generator.Generate(ctx, m)
		if err != nil {
			a.logger.WithFields(l.StringField("model", m.Name), l.ErrorField(err)).Error("generate failed")
			result.Errors = append(result.Errors, EvalErrorData{Model: m.Name, Message: err.Error()})

			continue
		}

		ps = append(ps, p)
	}

	if len(result.Errors) > 0 {
		return result
	}

	// Step 5: Convert patterns and their warnings.
	for i, p := range ps {
		result.Models = append(result.Models, modelData(p, colorPalette[i%len(colorPalette)]))

		for _, w := range p.Warnings {
			result.Warnings = append(result.Warnings, EvalErrorData{Model: p.Model.Name, Message: w.String()})
		}
	}

	a.logger.WithFields(l.IntField("models", len(result.Models)),
		l.IntField("warnings", len(result.Warnings))).Debug("evaluated")

	return result
}

func modelData(p *pattern.Pattern, color string) ModelData {
	w, h := p.Plan.Size()

	return ModelData{
		Name:         p.Model.Name,
		Shape:        p.Model.Kind(),
		Color:        color,
		Slices:       p.Model.Slices,
		Thickness:    p.Model.Material.Thickness,
		SlotWidth:    p.Constants.Width,
		LieFlatAngle: p.Constants.LieFlatAngle() * 180 / math.Pi,
		Outer:        p.Outer.SVG(),
		Inner:        p.Inner.SVG(),
		Placements:   p.Placements,
		Width:        w,
		Height:       h,
		MaterialArea: p.MaterialArea,
	}
}

// OutputPath is where Write puts a file named after base, with the extension
// of the configured format.
func (a *App) OutputPath(base string) string {
	name := strings.TrimSuffix(filepath.Base(base), filepath.Ext(base)) + "." + a.cfg.Output.Format
	return filepath.Join(a.cfg.Output.Dir, name)
}

// Write exports patterns to path in the configured format.
func (a *App) Write(path string, ps []*pattern.Pattern) error {
	if a.cfg.Output.Format == "dxf" {
		return a.exporter.DXF(path, ps)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch a.cfg.Output.Format {
	case "yaml":
		err = a.exporter.YAML(f, ps)
	default:
		err = a.exporter.SVG(f, ps)
	}

	if err != nil {
		return err
	}

	return f.Close()
}
