// Package export writes laid-out patterns as cut files. SVG keeps the arcs
// as path data; DXF receives the flattened outlines as line segments.
package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo/float"
	"github.com/pkg/errors"
	"github.com/sgostarter/i/l"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sliceform/pkg/config"
	"github.com/chazu/sliceform/pkg/pattern"
	"github.com/chazu/sliceform/pkg/slot"
	"github.com/chazu/sliceform/pkg/tessellate"
)

type Exporter struct {
	style    config.Style
	units    string
	segments int
	logger   l.Wrapper
}

func NewExporter(style config.Style, units string, logger l.Wrapper) *Exporter {
	if logger == nil {
		logger = l.NewNopLoggerWrapper()
	}

	if units == "" {
		units = "mm"
	}

	return &Exporter{
		style:    style,
		units:    units,
		segments: tessellate.DefaultSegments,
		logger:   logger.WithFields(l.StringField(l.ClsKey, "export")),
	}
}

// SheetSize returns the extent of the patterns stacked top to bottom and the
// vertical origin of each.
func SheetSize(ps []*pattern.Pattern) (w, h float64, origins []float64) {
	origins = make([]float64, len(ps))

	for i, p := range ps {
		if i > 0 {
			h += p.Plan.Sheet.Spacing
		}

		origins[i] = h
		pw, ph := p.Plan.Size()
		w = max(w, pw, p.Plan.Sheet.Width)
		h += ph
	}

	return w, h, origins
}

// ---------------------------------------------------------------------------
// SVG
// ---------------------------------------------------------------------------

func (e *Exporter) pathStyle(edge slot.Edge) string {
	fill := e.style.FillOuter
	if edge == slot.Inner {
		fill = e.style.FillInner
	}

	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:%g", fill, e.style.CutColor, e.style.StrokeWidth)
}

// SVG draws every placement of every pattern on one sheet. Each model is a
// group named after it; each placement is a translated path.
func (e *Exporter) SVG(w io.Writer, ps []*pattern.Pattern) error {
	ew := &errWriter{w: w}
	sw, sh, origins := SheetSize(ps)

	canvas := svg.New(ew)
	canvas.Decimals = 4
	canvas.StartviewUnit(sw, sh, e.units, 0, 0, sw, sh)

	for i, p := range ps {
		canvas.Gid(p.Model.Name)

		for _, pl := range p.Placements {
			canvas.Translate(pl.Offset.X, pl.Offset.Y+origins[i])
			canvas.Path(p.Template(pl.Edge).SVG(), e.pathStyle(pl.Edge))
			canvas.Gend()
		}

		canvas.Gend()
	}

	canvas.End()

	if ew.err != nil {
		e.logger.WithFields(l.ErrorField(ew.err)).Error("svg write failed")

		return errors.Wrap(ew.err, "write svg")
	}

	e.logger.WithFields(l.IntField("models", len(ps)), l.IntField("bytes", ew.n)).Debug("svg written")

	return nil
}

type errWriter struct {
	w   io.Writer
	n   int
	err error
}

func (ew *errWriter) Write(b []byte) (int, error) {
	if ew.err != nil {
		return len(b), nil
	}

	n, err := ew.w.Write(b)
	ew.n += n
	ew.err = err

	return len(b), nil
}

// ---------------------------------------------------------------------------
// DXF
// ---------------------------------------------------------------------------

// Layer names used in DXF output, one per slotted edge.
const (
	LayerOuter = "OUTER_SLOTTED"
	LayerInner = "INNER_SLOTTED"
)

func layerName(edge slot.Edge) string {
	if edge == slot.Inner {
		return LayerInner
	}

	return LayerOuter
}

// DXF writes every placement as closed line loops on the layer of its edge.
func (e *Exporter) DXF(path string, ps []*pattern.Pattern) error {
	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerOuter, color.ColorNumber(5), dxf.DefaultLineType, false); err != nil {
		return errors.Wrap(err, "dxf layer")
	}

	if _, err := d.AddLayer(LayerInner, color.ColorNumber(1), dxf.DefaultLineType, false); err != nil {
		return errors.Wrap(err, "dxf layer")
	}

	_, _, origins := SheetSize(ps)

	for i, p := range ps {
		for _, edge := range slot.Edges {
			pl, err := tessellate.Flatten(p.Template(edge), e.segments)
			if err != nil {
				return errors.Wrapf(err, "%s %s template", p.Model.Name, edge)
			}

			if err = d.ChangeLayer(layerName(edge)); err != nil {
				return errors.Wrap(err, "dxf layer")
			}

			for _, place := range p.Placements {
				if place.Edge != edge {
					continue
				}

				n := pl.VertexCount()
				for j := 0; j < n; j++ {
					x1, y1 := pl.At(j)
					x2, y2 := pl.At((j + 1) % n)
					dx, dy := place.Offset.X, place.Offset.Y+origins[i]

					// DXF's y axis points up.
					if _, err = d.Line(x1+dx, -(y1 + dy), 0, x2+dx, -(y2 + dy), 0); err != nil {
						return errors.Wrap(err, "dxf line")
					}
				}
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		e.logger.WithFields(l.ErrorField(err), l.StringField("path", path)).Error("dxf write failed")

		return errors.Wrap(err, "write dxf")
	}

	e.logger.WithFields(l.IntField("models", len(ps)), l.StringField("path", path)).Debug("dxf written")

	return nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

// YAML writes a summary of each pattern: model, slot constants, layout and
// warnings.
func (e *Exporter) YAML(w io.Writer, ps []*pattern.Pattern) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(ps); err != nil {
		return errors.Wrap(err, "write yaml")
	}

	return enc.Close()
}
