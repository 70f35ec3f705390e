package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gompdf/pagedoc/internal/pagination"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pagedoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *cfg)

	g := cfg.Geometry()
	assert.Equal(t, pagination.PageSizeA4, g.PageSize)
	assert.Equal(t, 43, g.MaxLines())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
page:
  size: letter
  orientation: landscape
  margins:
    top: 36
    right: 36
    bottom: 36
    left: 36
text:
  measurer: monospace
  line_height: 12
  char_width: 6
  color: "rgb(20, 40, 60)"
editor:
  debounce: 150ms
export:
  title: Report
  page_numbers: true
  debug_boxes: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, MeasurerMonospace, cfg.Text.Measurer)
	assert.Equal(t, 150*time.Millisecond, cfg.Editor.Debounce)
	assert.Equal(t, DefaultConfig().Editor.CacheTTL, cfg.Editor.CacheTTL)
	assert.Equal(t, "Helvetica", cfg.Font().Family)
	assert.True(t, cfg.Export.PageNumbers)
	assert.True(t, cfg.Export.DebugBoxes)
	assert.Equal(t, "rgb(20, 40, 60)", cfg.Text.Color)

	g := cfg.Geometry()
	assert.True(t, g.PageSize.IsLandscape())
	assert.Equal(t, 792.0, g.PageSize.Width)
	assert.InDelta(t, 720.0, g.ContentWidth(), 1e-9)
	assert.Equal(t, 45, g.MaxLines())
}

func TestLoadCustomSize(t *testing.T) {
	path := writeConfig(t, `
page:
  width: 300
  height: 400
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pagination.PageSize{Width: 300, Height: 400, Name: "Custom"}, cfg.Geometry().PageSize)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad yaml", "page: [", "parse config file"},
		{"unknown size", "page:\n  size: B7\n", "page.size"},
		{"bad orientation", "page:\n  orientation: sideways\n", "page.orientation"},
		{"bad measurer", "text:\n  measurer: magic\n", "text.measurer"},
		{"bad color", "text:\n  color: teal\n", "text.color"},
		{"negative debounce", "editor:\n  debounce: -1s\n", "editor.debounce"},
		{"margins swallow page", "page:\n  margins:\n    top: 500\n    bottom: 500\n", "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
