// Package config holds the settings shared by every model of a run: the
// sheet stock, the drawing style and the output format.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sliceform/pkg/layout"
	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/slot"
)

// Formats lists the supported output formats.
var Formats = []string{"svg", "dxf", "yaml"}

// Sheet is the stock the templates are cut from.
type Sheet struct {
	Width     float64 `yaml:"width"`
	Spacing   float64 `yaml:"spacing"`
	Thickness float64 `yaml:"thickness"` // default material thickness
}

// Style is the drawing style of exported cut lines.
type Style struct {
	StrokeWidth float64 `yaml:"stroke_width"`
	CutColor    string  `yaml:"cut_color"`
	FillOuter   string  `yaml:"fill_outer"`
	FillInner   string  `yaml:"fill_inner"`
}

// Output selects the export format, units and directory.
type Output struct {
	Format string `yaml:"format"`
	Units  string `yaml:"units"`
	Dir    string `yaml:"dir"`
}

// Config is the full set of run settings.
type Config struct {
	Sheet  Sheet  `yaml:"sheet"`
	Style  Style  `yaml:"style"`
	Output Output `yaml:"output"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sheet: Sheet{Width: 203, Spacing: 2, Thickness: 0.25},
		Style: Style{
			StrokeWidth: 0.25,
			CutColor:    "#ff0000",
			FillOuter:   "#c0c0ff",
			FillInner:   "#ffc0c0",
		},
		Output: Output{Format: "svg", Units: "mm", Dir: "."},
	}
}

// Load reads a YAML file over the defaults. Fields missing from the file
// keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	d, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}

	if err = yaml.Unmarshal(d, &cfg); err != nil {
		return cfg, errors.Wrapf(slot.ErrInvalidConfig, "%s: %v", filepath.Base(path), err)
	}

	return cfg, cfg.Validate()
}

// Save writes cfg as YAML.
func Save(path string, cfg Config) error {
	d, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, d, 0600)
}

// Set applies one dotted override such as sheet.width=300.
func (c *Config) Set(key, value string) error {
	var err error

	switch strings.ToLower(strings.TrimSpace(key)) {
	case "sheet.width":
		c.Sheet.Width, err = cast.ToFloat64E(value)
	case "sheet.spacing":
		c.Sheet.Spacing, err = cast.ToFloat64E(value)
	case "sheet.thickness":
		c.Sheet.Thickness, err = cast.ToFloat64E(value)
	case "style.stroke_width":
		c.Style.StrokeWidth, err = cast.ToFloat64E(value)
	case "style.cut_color":
		c.Style.CutColor, err = cast.ToStringE(value)
	case "style.fill_outer":
		c.Style.FillOuter, err = cast.ToStringE(value)
	case "style.fill_inner":
		c.Style.FillInner, err = cast.ToStringE(value)
	case "output.format":
		c.Output.Format, err = cast.ToStringE(strings.ToLower(value))
	case "output.units":
		c.Output.Units, err = cast.ToStringE(value)
	case "output.dir":
		c.Output.Dir, err = cast.ToStringE(value)
	default:
		return errors.Wrapf(slot.ErrInvalidConfig, "unknown setting %q", key)
	}

	if err != nil {
		return errors.Wrapf(slot.ErrInvalidConfig, "%s: %v", key, err)
	}

	return nil
}

// Apply applies key=value overrides in order.
func (c *Config) Apply(overrides []string) error {
	for _, o := range overrides {
		key, value, ok := strings.Cut(o, "=")
		if !ok {
			return errors.Wrapf(slot.ErrInvalidConfig, "override %q is not key=value", o)
		}

		if err := c.Set(key, value); err != nil {
			return err
		}
	}

	return c.Validate()
}

// Validate rejects settings no layout can use.
func (c Config) Validate() error {
	switch {
	case !(c.Sheet.Width > 0):
		return errors.Wrapf(slot.ErrInvalidConfig, "sheet.width %g must be positive", c.Sheet.Width)
	case c.Sheet.Spacing < 0:
		return errors.Wrapf(slot.ErrInvalidConfig, "sheet.spacing %g must not be negative", c.Sheet.Spacing)
	case !(c.Sheet.Thickness > 0):
		return errors.Wrapf(slot.ErrInvalidConfig, "sheet.thickness %g must be positive", c.Sheet.Thickness)
	case c.Style.StrokeWidth < 0:
		return errors.Wrapf(slot.ErrInvalidConfig, "style.stroke_width %g must not be negative", c.Style.StrokeWidth)
	case !lo.Contains(Formats, c.Output.Format):
		return errors.Wrapf(slot.ErrInvalidConfig, "output.format %q (want %s)",
			c.Output.Format, strings.Join(Formats, ", "))
	}

	return nil
}

// LayoutSheet is the sheet the generator tiles templates on.
func (c Config) LayoutSheet() layout.Sheet {
	return layout.Sheet{Width: c.Sheet.Width, Spacing: c.Sheet.Spacing}
}

// Material is the material used by models that name none.
func (c Config) Material() model.MaterialSpec {
	return model.MaterialSpec{Thickness: c.Sheet.Thickness}
}
