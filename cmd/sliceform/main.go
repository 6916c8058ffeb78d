// sliceform computes the slotted slice templates of a sliceform model and
// writes them laid out on sheet stock as SVG, DXF or a YAML summary.
//
// A model comes either from a DSL script:
//
//	sliceform -script examples/sliceforms.sf
//
// or from flags:
//
//	sliceform -shape cylinder -outer-radius 35 -inner-radius 26 -height 40 -slices 14
//
// Settings are read from -config (YAML) and adjusted with repeated
// -set key=value flags, e.g. -set sheet.width=300.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libeasygo/pathutils"

	"github.com/chazu/sliceform"
	"github.com/chazu/sliceform/pkg/config"
	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/shape"
)

type overrides []string

func (o *overrides) String() string { return strings.Join(*o, ",") }

func (o *overrides) Set(v string) error {
	*o = append(*o, v)
	return nil
}

var (
	configPath = flag.String("config", "", "YAML configuration file")
	script     = flag.String("script", "", "DSL script describing one or more models")
	output     = flag.String("o", "", "Output file (default is <name>.<format> in output.dir)")
	format     = flag.String("format", "", "Output format: svg, dxf or yaml (overrides output.format)")
	verbose    = flag.Bool("v", false, "Log progress")

	shapeKind = flag.String("shape", "", "Shape: cylinder, torus, hyperbola or hyperboloid")
	name      = flag.String("name", "", "Model name (default is the shape)")
	slices    = flag.Int("slices", 14, "Number of slices")
	thickness = flag.Float64("thickness", 0, "Material thickness (default is sheet.thickness)")

	settings overrides
)

func init() {
	flag.Var(&settings, "set", "Override a setting as key=value (repeatable)")

	// One flag per shape parameter, shared by the shapes that use it.
	seen := map[string]bool{}
	for _, k := range []shape.Kind{shape.KindCylinder, shape.KindTorus, shape.KindHyperbola} {
		for _, p := range model.ShapeParams(k) {
			if !seen[p] {
				seen[p] = true
				flag.Float64(p, 0, fmt.Sprintf("%s parameter", p))
			}
		}
	}
}

func main() {
	flag.Parse()

	logger := l.NewConsoleLoggerWrapper()
	if !*verbose {
		logger = l.NewNopLoggerWrapper()
	}

	cfg, err := loadConfig()
	check(err)

	app := sliceform.NewApp(sliceform.WithConfig(cfg), sliceform.WithLogger(logger))

	models, base, err := readModels(app)
	check(err)

	ps, err := app.Generate(context.Background(), models)
	check(err)

	for _, p := range ps {
		for _, w := range p.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", p.Model.Name, w)
		}
	}

	path := *output
	if path == "" {
		path = app.OutputPath(base)
	}

	check(pathutils.MustDirExists(filepath.Dir(path)))
	check(app.Write(path, ps))

	fmt.Println(path)
}

func loadConfig() (config.Config, error) {
	cfg := config.Default()

	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}

	sets := settings
	if *format != "" {
		sets = append(sets, "output.format="+*format)
	}

	return cfg, cfg.Apply(sets)
}

// readModels returns the models to cut and the base name of the output file.
func readModels(app *sliceform.App) ([]model.Model, string, error) {
	if *script != "" {
		src, err := os.ReadFile(*script)
		if err != nil {
			return nil, "", err
		}

		models, evalErrs, err := app.Models(string(src))
		if err != nil {
			return nil, "", err
		}

		if len(evalErrs) > 0 {
			for _, e := range evalErrs {
				fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", *script, e.Line, e.Col, e.Message)
			}

			return nil, "", fmt.Errorf("%s: %d errors", *script, len(evalErrs))
		}

		return models, *script, nil
	}

	if *shapeKind == "" {
		return nil, "", fmt.Errorf("one of -script or -shape is required")
	}

	kind, err := shape.ParseKind(*shapeKind)
	if err != nil {
		return nil, "", err
	}

	params := map[string]any{}
	for _, p := range model.ShapeParams(kind) {
		params[p] = flag.Lookup(p).Value.String()
	}

	s, err := model.NewShape(kind.String(), params)
	if err != nil {
		return nil, "", err
	}

	m := model.Model{
		Name:     *name,
		Shape:    s,
		Slices:   *slices,
		Material: model.MaterialSpec{Thickness: *thickness},
	}
	if m.Name == "" {
		m.Name = kind.String()
	}

	return []model.Model{m}, m.Name, nil
}

func check(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "sliceform: %v\n", err)
		os.Exit(1)
	}
}
