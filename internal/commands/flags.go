// Package commands implements the pagedoc command line.
package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gompdf/pagedoc/internal/config"
	"github.com/gompdf/pagedoc/internal/logging"
	"github.com/gompdf/pagedoc/internal/res"
	"github.com/gompdf/pagedoc/pkg/api"
)

// Flags holds the global flags shared by every command.
type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the root Before hook
	Config *config.Config
}

// config returns the loaded configuration, loading it on first use
func (f *Flags) config() (*config.Config, error) {
	if f.Config != nil {
		return f.Config, nil
	}
	cfg, err := config.Load(f.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	f.Config = cfg
	return cfg, nil
}

// editorOptions maps the configuration onto editor options
func editorOptions(cfg *config.Config) []api.Option {
	g := cfg.Geometry()
	orientation := api.PageOrientationPortrait
	if g.PageSize.IsLandscape() {
		orientation = api.PageOrientationLandscape
	}

	opts := []api.Option{
		api.WithPageSize(g.PageSize.Width, g.PageSize.Height),
		api.WithPageOrientation(orientation),
		api.WithMargins(g.Margins.Top, g.Margins.Right, g.Margins.Bottom, g.Margins.Left),
		api.WithLineHeight(g.LineHeight),
		api.WithCacheTTL(cfg.Editor.CacheTTL),
		api.WithTitle(cfg.Export.Title),
		api.WithAuthor(cfg.Export.Author),
		api.WithSubject(cfg.Export.Subject),
		api.WithKeywords(cfg.Export.Keywords),
		api.WithPageNumbers(cfg.Export.PageNumbers),
		api.WithDebugBoxes(cfg.Export.DebugBoxes),
		api.WithTextColor(cfg.Text.Color),
		api.WithLogger(log.Logger),
		// one-shot commands have nobody typing, check immediately
		api.WithDebounce(-1),
	}

	font := cfg.Font()
	opts = append(opts, api.WithFont(font.Family, font.Style, font.Size))
	if cfg.Text.Measurer == config.MeasurerMonospace {
		opts = append(opts, api.WithMonospace(cfg.Text.CharWidth))
	}
	return opts
}

// openDocument paginates the document at location: a file, an http(s) URL,
// a data URL or "-" for stdin
func openDocument(ctx context.Context, cfg *config.Config, location string, stdin io.Reader) (*api.Editor, error) {
	loader := res.NewLoader("")
	loader.SetLogger(logging.Component("res"))
	if stdin != nil {
		loader.Stdin = stdin
	}
	doc, err := loader.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	editor, err := api.New(editorOptions(cfg)...)
	if err != nil {
		return nil, err
	}
	if err := editor.SetContent(doc.Content()); err != nil {
		_ = editor.Close()
		return nil, err
	}
	frames := editor.Flush()
	log.Debug().Str("input", doc.URL).Str("mime", doc.MimeType).Int("frames", frames).Int("pages", editor.PageCount()).Msg("paginated document")
	return editor, nil
}

// defaultOutput replaces the input's extension with .pdf
func defaultOutput(input string) string {
	if input == res.Stdin || strings.Contains(input, "://") || strings.HasPrefix(input, "data:") {
		return "document.pdf"
	}
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".pdf"
}
