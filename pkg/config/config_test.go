package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/sliceform/pkg/layout"
	"github.com/chazu/sliceform/pkg/slot"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, layout.Sheet{Width: 203, Spacing: 2}, cfg.LayoutSheet())
	assert.Equal(t, 0.25, cfg.Material().Thickness)
}

func TestLoadKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sliceform.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sheet:\n  width: 300\noutput:\n  format: dxf\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.Sheet.Width)
	assert.Equal(t, 2.0, cfg.Sheet.Spacing)
	assert.Equal(t, "dxf", cfg.Output.Format)
	assert.Equal(t, "#ff0000", cfg.Style.CutColor)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("sheet: [1, 2"), 0600))
	_, err = Load(bad)
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("sheet:\n  width: -1\n"), 0600))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, slot.ErrInvalidConfig)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Style.FillInner = "#00ff00"
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestApply(t *testing.T) {
	tests := []struct {
		name      string
		overrides []string
		check     func(t *testing.T, c Config)
	}{
		{"sheet width", []string{"sheet.width=300"}, func(t *testing.T, c Config) {
			assert.Equal(t, 300.0, c.Sheet.Width)
		}},
		{"colour and format", []string{"style.cut_color=#000", "output.format=DXF"}, func(t *testing.T, c Config) {
			assert.Equal(t, "#000", c.Style.CutColor)
			assert.Equal(t, "dxf", c.Output.Format)
		}},
		{"later wins", []string{"sheet.spacing=1", "Sheet.Spacing=4"}, func(t *testing.T, c Config) {
			assert.Equal(t, 4.0, c.Sheet.Spacing)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			require.NoError(t, cfg.Apply(tt.overrides))
			tt.check(t, cfg)
		})
	}
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name     string
		override string
	}{
		{"not key=value", "sheet.width"},
		{"unknown key", "sheet.colour=red"},
		{"not a number", "sheet.width=wide"},
		{"invalid result", "sheet.thickness=0"},
		{"unknown format", "output.format=pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			assert.ErrorIs(t, cfg.Apply([]string{tt.override}), slot.ErrInvalidConfig)
		})
	}
}
