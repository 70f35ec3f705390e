// Package config handles configuration loading and validation for pagedoc.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"

	"github.com/gompdf/pagedoc/internal/frame"
	"github.com/gompdf/pagedoc/internal/pagination"
	"github.com/gompdf/pagedoc/internal/render/pdf"
	"github.com/gompdf/pagedoc/internal/text"
)

// Measurer kinds
const (
	MeasurerFont      = "font"
	MeasurerMonospace = "monospace"
)

// Orientations
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Config holds the application configuration.
type Config struct {
	Page   PageConfig   `yaml:"page"`
	Text   TextConfig   `yaml:"text"`
	Editor EditorConfig `yaml:"editor"`
	Export ExportConfig `yaml:"export"`
}

// PageConfig describes the physical page
type PageConfig struct {
	// Size is a standard size name. Width and Height override it when both
	// are set.
	Size        string  `yaml:"size"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Orientation string  `yaml:"orientation"`
	Margins     Margins `yaml:"margins"`
}

// Margins in points. All four zero means the default margins.
type Margins struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

// TextConfig selects how content is measured
type TextConfig struct {
	Measurer   string  `yaml:"measurer"`
	FontFamily string  `yaml:"font_family"`
	FontStyle  string  `yaml:"font_style"`
	FontSize   float64 `yaml:"font_size"`
	LineHeight float64 `yaml:"line_height"`
	CharWidth  float64 `yaml:"char_width"`
	// Color of exported text, CSS hex or rgb()
	Color string `yaml:"color"`
}

// EditorConfig tunes the edit pipeline
type EditorConfig struct {
	Debounce time.Duration `yaml:"debounce"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ExportConfig holds PDF metadata and print options
type ExportConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Subject     string `yaml:"subject"`
	Keywords    string `yaml:"keywords"`
	PageNumbers bool   `yaml:"page_numbers"`
	// DebugBoxes outlines the content area of every exported page
	DebugBoxes bool `yaml:"debug_boxes"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() Config {
	return Config{
		Page: PageConfig{
			Size:        pagination.PageSizeA4.Name,
			Orientation: OrientationPortrait,
			Margins:     Margins{Top: 72, Right: 72, Bottom: 72, Left: 72},
		},
		Text: TextConfig{
			Measurer:   MeasurerFont,
			FontFamily: text.DefaultFont.Family,
			FontSize:   text.DefaultFont.Size,
			LineHeight: 16,
			CharWidth:  7,
			Color:      "#000000",
		},
		Editor: EditorConfig{
			Debounce: frame.DefaultDebounce,
			CacheTTL: text.DefaultCacheExpiration,
		},
	}
}

// Load reads configuration from the given path.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Page.Size == "" {
		c.Page.Size = defaults.Page.Size
	}
	if c.Page.Orientation == "" {
		c.Page.Orientation = defaults.Page.Orientation
	}
	if c.Page.Margins == (Margins{}) {
		c.Page.Margins = defaults.Page.Margins
	}
	if c.Text.Measurer == "" {
		c.Text.Measurer = defaults.Text.Measurer
	}
	if c.Text.FontFamily == "" {
		c.Text.FontFamily = defaults.Text.FontFamily
	}
	if c.Text.FontSize == 0 {
		c.Text.FontSize = defaults.Text.FontSize
	}
	if c.Text.LineHeight == 0 {
		c.Text.LineHeight = defaults.Text.LineHeight
	}
	if c.Text.CharWidth == 0 {
		c.Text.CharWidth = defaults.Text.CharWidth
	}
	if c.Text.Color == "" {
		c.Text.Color = defaults.Text.Color
	}
	if c.Editor.Debounce == 0 {
		c.Editor.Debounce = defaults.Editor.Debounce
	}
	if c.Editor.CacheTTL == 0 {
		c.Editor.CacheTTL = defaults.Editor.CacheTTL
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if _, err := c.PageSize(); err != nil {
		errs = errs.Append("page.size", err)
	}
	switch c.Page.Orientation {
	case OrientationPortrait, OrientationLandscape:
	default:
		errs = errs.Append("page.orientation", fmt.Errorf("must be %q or %q, got %q", OrientationPortrait, OrientationLandscape, c.Page.Orientation))
	}
	m := c.Page.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		errs = errs.Append("page.margins", fmt.Errorf("margins cannot be negative"))
	}

	switch c.Text.Measurer {
	case MeasurerFont, MeasurerMonospace:
	default:
		errs = errs.Append("text.measurer", fmt.Errorf("must be %q or %q, got %q", MeasurerFont, MeasurerMonospace, c.Text.Measurer))
	}
	if c.Text.FontSize <= 0 {
		errs = errs.Append("text.font_size", fmt.Errorf("must be positive"))
	}
	if c.Text.LineHeight <= 0 {
		errs = errs.Append("text.line_height", fmt.Errorf("must be positive"))
	}
	if c.Text.CharWidth <= 0 {
		errs = errs.Append("text.char_width", fmt.Errorf("must be positive"))
	}
	if _, err := pdf.ParseColor(c.Text.Color); err != nil {
		errs = errs.Append("text.color", err)
	}

	if c.Editor.Debounce < 0 {
		errs = errs.Append("editor.debounce", fmt.Errorf("cannot be negative"))
	}
	if c.Editor.CacheTTL < 0 {
		errs = errs.Append("editor.cache_ttl", fmt.Errorf("cannot be negative"))
	}

	if err := errs.ToError(); err != nil {
		return err
	}
	if err := c.Geometry().Validate(); err != nil {
		return criterio.NewFieldErrors("page", err)
	}
	return nil
}

// PageSize resolves the configured page size, before orientation
func (c *Config) PageSize() (pagination.PageSize, error) {
	if c.Page.Width > 0 && c.Page.Height > 0 {
		return pagination.PageSize{Width: c.Page.Width, Height: c.Page.Height, Name: "Custom"}, nil
	}
	return pagination.LookupPageSize(c.Page.Size)
}

// Geometry returns the page geometry the configuration describes
func (c *Config) Geometry() pagination.Geometry {
	size, err := c.PageSize()
	if err != nil {
		size = pagination.PageSizeA4
	}
	if strings.EqualFold(c.Page.Orientation, OrientationLandscape) {
		size = size.Landscape()
	} else {
		size = size.Portrait()
	}
	return pagination.Geometry{
		PageSize: size,
		Margins: pagination.Margins{
			Top:    c.Page.Margins.Top,
			Right:  c.Page.Margins.Right,
			Bottom: c.Page.Margins.Bottom,
			Left:   c.Page.Margins.Left,
		},
		LineHeight: c.Text.LineHeight,
	}
}

// Font returns the configured measurement and export font
func (c *Config) Font() text.Font {
	return text.Font{Family: c.Text.FontFamily, Style: c.Text.FontStyle, Size: c.Text.FontSize}
}
