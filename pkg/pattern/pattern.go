// Package pattern turns a model into cuttable templates: it derives the slot
// constants, assembles the outer- and inner-slotted outlines, lays both sets
// out on a sheet and checks the layout with a geometry kernel.
package pattern

import (
	"context"
	"fmt"
	"slices"

	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sgostarter/i/l"

	"github.com/chazu/sliceform/pkg/contour"
	"github.com/chazu/sliceform/pkg/geom"
	"github.com/chazu/sliceform/pkg/kernel"
	"github.com/chazu/sliceform/pkg/layout"
	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/slot"
	"github.com/chazu/sliceform/pkg/tessellate"
)

// Pattern is everything needed to cut one model.
type Pattern struct {
	Model        model.Model               `yaml:"model"`
	Constants    slot.Constants            `yaml:"constants"`
	Slots        []contour.Intersection    `yaml:"-"`
	Outer        *contour.Path             `yaml:"-"`
	Inner        *contour.Path             `yaml:"-"`
	Plan         layout.Plan               `yaml:"plan"`
	Placements   []layout.Placement        `yaml:"placements"`
	MaterialArea float64                   `yaml:"material_area"`
	Warnings     []model.ValidationWarning `yaml:"warnings,omitempty"`
}

// Template returns the outline cut for edge e.
func (p *Pattern) Template(e slot.Edge) *contour.Path {
	if e == slot.Inner {
		return p.Inner
	}
	return p.Outer
}

// Generator builds patterns. It is safe for concurrent use.
type Generator struct {
	opts   *Options
	logger l.Wrapper
	cache  *cache.Cache
}

// NewGenerator creates a Generator with DefaultSheet and the sdfx kernel
// unless options say otherwise.
func NewGenerator(opts ...Option) *Generator {
	o := optionNew(opts...)

	return &Generator{
		opts:   o,
		logger: o.logger.WithFields(l.StringField(l.ClsKey, "pattern")),
		cache:  cache.New(o.cacheTTL, 2*o.cacheTTL),
	}
}

// Sheet returns the stock the generator lays templates out on.
func (g *Generator) Sheet() layout.Sheet {
	return g.opts.sheet
}

// Generate validates m and builds its pattern. Validation errors abort
// generation and wrap slot.ErrInvalidConfig; warnings are carried on the
// pattern.
func (g *Generator) Generate(ctx context.Context, m model.Model) (*Pattern, error) {
	logger := g.logger.WithFields(l.StringField("model", m.Name), l.StringField("shape", m.Kind()))

	r := model.Validate(m)
	if err := r.Err(); err != nil {
		logger.WithFields(l.ErrorField(err)).Error("model rejected")

		return nil, err
	}

	c, err := g.constants(m, logger)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: slot constants", m.Name)
	}

	xs, err := m.Shape.Intersections(c.Angles, c.Width)
	if err != nil {
		logger.WithFields(l.ErrorField(err)).Error("intersections failed")

		return nil, errors.Wrapf(err, "%s: intersections", m.Name)
	}

	p := &Pattern{
		Model:     m,
		Constants: c,
		Slots:     xs,
		Warnings:  r.Warnings,
	}

	if p.Outer, err = m.Shape.Outline(xs, slot.Outer); err != nil {
		return nil, errors.Wrapf(err, "%s: outer outline", m.Name)
	}

	if p.Inner, err = m.Shape.Outline(xs, slot.Inner); err != nil {
		return nil, errors.Wrapf(err, "%s: inner outline", m.Name)
	}

	fp, err := m.Shape.Footprint()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: footprint", m.Name)
	}

	if p.Plan, err = layout.NewPlan(fp, g.opts.sheet, m.Slices); err != nil {
		return nil, errors.Wrapf(err, "%s: layout", m.Name)
	}

	p.Placements = slices.Collect(p.Plan.Placements())

	if !g.opts.noChecks {
		if err = g.check(ctx, p); err != nil {
			return nil, errors.Wrapf(err, "%s: layout check", m.Name)
		}
	}

	logger.WithFields(
		l.IntField("slots", len(xs)),
		l.IntField("perRow", p.Plan.PerRow),
		l.IntField("rows", p.Plan.Rows),
		l.IntField("warnings", len(p.Warnings)),
	).Debug("pattern generated")

	return p, nil
}

// GenerateAll validates the models together, rejecting duplicate names, and
// generates each in order. The first failure stops generation.
func (g *Generator) GenerateAll(ctx context.Context, models []model.Model) ([]*Pattern, error) {
	if err := model.ValidateAll(models).Err(); err != nil {
		return nil, err
	}

	out := make([]*Pattern, 0, len(models))

	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := g.Generate(ctx, m)
		if err != nil {
			return nil, err
		}

		out = append(out, p)
	}

	return out, nil
}

// constants derives the slot constants for m, reusing a cached set when a
// model with the same geometry was generated recently.
func (g *Generator) constants(m model.Model, logger l.Wrapper) (slot.Constants, error) {
	key := m.Key()
	if v, ok := g.cache.Get(key); ok {
		logger.Debug("slot constants cached")

		c, _ := v.(slot.Constants)

		return c, nil
	}

	c, err := slot.Derive(m.Shape.LoxodromicAngle(), m.Material.Thickness, m.Slices)
	if err != nil {
		return slot.Constants{}, err
	}

	g.cache.SetDefault(key, c)

	return c, nil
}

// ---------------------------------------------------------------------------
// Layout checks
// ---------------------------------------------------------------------------

// check runs the kernel over the laid-out templates. Neighbours in a row
// must not reach into each other, no template may leave the sheet, and the
// total cut area is recorded.
func (g *Generator) check(ctx context.Context, p *Pattern) error {
	k := g.opts.kernel

	parts := lo.Map(p.Placements, func(pl layout.Placement, _ int) tessellate.Part {
		return tessellate.Part{
			Name:   fmt.Sprintf("%s/%s/%d", p.Model.Name, pl.Edge, pl.Index),
			Path:   p.Template(pl.Edge),
			Offset: pl.Offset,
		}
	})

	regions, err := tessellate.Tessellate(parts, k, g.opts.segments)
	if err != nil {
		return err
	}

	outlines := make(map[slot.Edge]*kernel.Polyline, len(slot.Edges))
	for _, e := range slot.Edges {
		if outlines[e], err = tessellate.Flatten(p.Template(e), g.opts.segments); err != nil {
			return err
		}
	}

	for i := 1; i < len(p.Placements); i++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		prev, cur := p.Placements[i-1], p.Placements[i]
		if prev.Edge != cur.Edge || prev.Row != cur.Row {
			continue
		}

		if n := inside(regions[i-1], outlines[cur.Edge], cur.Offset); n > 0 {
			overlap := k.Area(k.Intersection(regions[i-1], regions[i]))
			p.Warnings = append(p.Warnings, model.ValidationWarning{
				Field: "layout",
				Message: fmt.Sprintf("%s template %d reaches %d points into template %d (about %.2f overlap)",
					cur.Edge, cur.Index, n, prev.Index, overlap),
			})
		}
	}

	sheet, err := k.Rect(p.Plan.Sheet.Width, 2*p.Plan.SetHeight())
	if err != nil {
		return errors.Wrap(err, "sheet")
	}
	for i, r := range regions {
		if _, hi := r.BoundingBox(); hi[0] <= p.Plan.Sheet.Width+geom.Epsilon {
			continue
		}

		if a := k.Area(k.Difference(r, sheet)); a > geom.Epsilon {
			pl := p.Placements[i]
			p.Warnings = append(p.Warnings, model.ValidationWarning{
				Field:   "sheet.width",
				Message: fmt.Sprintf("%s template %d runs %.2f past the sheet edge", pl.Edge, pl.Index, a),
			})
		}
	}

	// Every template of a set is the same outline, so one region per set
	// gives the area.
	for _, e := range slot.Edges {
		if _, i, ok := lo.FindIndexOf(p.Placements, func(pl layout.Placement) bool { return pl.Edge == e }); ok {
			p.MaterialArea += float64(p.Plan.Count) * k.Area(regions[i])
		}
	}

	return nil
}

// inside counts the vertices of pl, moved by offset, that lie inside r.
func inside(r kernel.Region, pl *kernel.Polyline, offset geom.Point) int {
	n := 0
	for i := 0; i < pl.VertexCount(); i++ {
		x, y := pl.At(i)
		if r.Contains(x+offset.X, y+offset.Y) {
			n++
		}
	}

	return n
}
