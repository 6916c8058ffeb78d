package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/chazu/sliceform/pkg/config"
	"github.com/chazu/sliceform/pkg/model"
	"github.com/chazu/sliceform/pkg/pattern"
	"github.com/chazu/sliceform/pkg/shape"
)

func patterns(t *testing.T) []*pattern.Pattern {
	t.Helper()
	mat := model.MaterialSpec{Thickness: 0.25}
	ps, err := pattern.NewGenerator(pattern.WithoutChecks()).GenerateAll(context.Background(), []model.Model{
		{
			Name:     "vase",
			Shape:    shape.Cylinder{OuterRadius: 35, InnerRadius: 26, Height: 40},
			Slices:   14,
			Material: mat,
		},
		{
			Name:     "lamp",
			Shape:    shape.Hyperbola{OuterEdgeRadius: 40, OuterWaistRadius: 30, InnerRadius: 15, Height: 15},
			Slices:   6,
			Material: mat,
		},
	})
	require.NoError(t, err)
	return ps
}

func newExporter() *Exporter {
	return NewExporter(config.Default().Style, "mm", nil)
}

func TestSheetSize(t *testing.T) {
	ps := patterns(t)
	w, h, origins := SheetSize(ps)

	_, vaseH := ps[0].Plan.Size()
	_, lampH := ps[1].Plan.Size()
	assert.Equal(t, 203.0, w)
	assert.InDelta(t, vaseH+2+lampH, h, 1e-9)
	assert.Equal(t, []float64{0, vaseH + 2}, origins)
}

func TestSVG(t *testing.T) {
	ps := patterns(t)
	var buf bytes.Buffer
	require.NoError(t, newExporter().SVG(&buf, ps))

	out := buf.String()
	_, h, _ := SheetSize(ps)
	assert.Contains(t, out, `width="203.0000mm"`)
	assert.Contains(t, out, fmt.Sprintf(`height="%.4fmm"`, h))
	assert.Contains(t, out, fmt.Sprintf(`viewBox="0.0000 0.0000 203.0000 %.4f"`, h))
	assert.Equal(t, 28+12, strings.Count(out, `<g transform="translate(`))
	assert.Contains(t, out, `<g transform="translate(0.0000,0.0000)">`)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "<?xml"))
	assert.Contains(t, out, `id="vase"`)
	assert.Contains(t, out, `id="lamp"`)
	assert.Equal(t, 28+12, strings.Count(out, "<path d=\"M "))
	assert.Contains(t, out, "fill:#c0c0ff;stroke:#ff0000;stroke-width:0.25")
	assert.Contains(t, out, "fill:#ffc0c0")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestSVGUnits(t *testing.T) {
	tests := []struct {
		units string
		want  string
	}{
		{"", `width="203.0000mm"`},
		{"in", `width="203.0000in"`},
		{"px", `width="203.0000px"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewExporter(config.Default().Style, tt.units, nil).SVG(&buf, patterns(t)))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	err := newExporter().SVG(failingWriter{}, patterns(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestDXF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.dxf")
	require.NoError(t, newExporter().DXF(path, patterns(t)))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, LayerOuter)
	assert.Contains(t, out, LayerInner)
	assert.Contains(t, out, "LINE")
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newExporter().YAML(&buf, patterns(t)))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	placements, ok := got[1]["placements"].([]any)
	require.True(t, ok)
	assert.Len(t, placements, 12)

	first, ok := placements[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "outer", first["edge"])

	m, ok := got[0]["model"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cylinder", m["shape"])
	assert.NotContains(t, got[0], "slots")
}
