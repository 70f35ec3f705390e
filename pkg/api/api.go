package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gompdf/pagedoc/internal/frame"
	"github.com/gompdf/pagedoc/internal/logging"
	"github.com/gompdf/pagedoc/internal/pagination"
	"github.com/gompdf/pagedoc/internal/parser/html"
	"github.com/gompdf/pagedoc/internal/render/pdf"
	"github.com/gompdf/pagedoc/internal/text"
)

// Cursor is the edit position: a page id and a character offset into its text
type Cursor = pagination.Cursor

// Page is one page of the document
type Page = pagination.Page

var (
	// ErrPageNotFound is returned for operations on a page that no longer exists
	ErrPageNotFound = pagination.ErrPageNotFound
	// ErrNoSaver is returned by Save when no Saver was configured
	ErrNoSaver = errors.New("no saver configured")
	// ErrClosed is returned by operations on a closed editor
	ErrClosed = pagination.ErrClosed
)

// Editor is the control surface of a paginated document. It is safe for
// concurrent use. Deferred work runs when the host calls Flush or Run.
//
// OnChange is called with the editor locked and must not call back into
// the Editor.
type Editor struct {
	mu       sync.Mutex
	options  Options
	geometry pagination.Geometry
	store    *pagination.Store
	engine   *pagination.Engine
	cache    *text.Cached
	renderer *pdf.Renderer
	log      zerolog.Logger
	closed   bool
}

// Stats is a snapshot of the editor's internals
type Stats struct {
	Pages        int
	Frames       uint64
	PendingWork  int
	Busy         bool
	Measurements int
}

// New creates an editor with default options modified by opts
func New(opts ...Option) (*Editor, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return NewWithOptions(options)
}

// NewWithOptions creates an editor with the specified options
func NewWithOptions(options Options) (*Editor, error) {
	geometry := geometryFromOptions(options)
	if err := geometry.Validate(); err != nil {
		return nil, fmt.Errorf("invalid page geometry: %w", err)
	}

	logger := logging.Component("editor")
	if options.Logger != nil {
		logger = logging.With(*options.Logger, "editor")
	}

	font := text.Font{Family: options.FontFamily, Style: options.FontStyle, Size: options.FontSize}
	if font.Size <= 0 {
		font.Size = text.DefaultFont.Size
	}

	var measurer text.Measurer
	switch options.Measurer {
	case MeasurerMonospace:
		measurer = text.NewMonospace(options.CharWidth, geometry.LineHeight)
	case MeasurerFont, "":
		measurer = text.NewFontMeasurer(font, geometry.LineHeight)
	default:
		return nil, fmt.Errorf("unknown measurer %q", options.Measurer)
	}
	cache := text.NewCached(measurer, options.CacheTTL)

	store := pagination.NewStore(options.OnChange)
	engine := pagination.NewEngine(store, pagination.Options{
		Geometry: geometry,
		Measurer: cache,
		Loop:     options.Loop,
		Clock:    options.Clock,
		Debounce: options.Debounce,
		Logger:   logging.With(logger, "pagination"),
	})

	renderer := pdf.NewRenderer()
	renderer.Font = font
	renderer.PageNumbers = options.PageNumbers
	renderer.DebugDrawBoxes = options.DebugBoxes
	if options.TextColor != "" {
		if _, err := pdf.ParseColor(options.TextColor); err != nil {
			return nil, fmt.Errorf("invalid text color: %w", err)
		}
		renderer.TextColor = options.TextColor
	}
	renderer.Logger = logging.With(logger, "pdf")

	return &Editor{
		options:  options,
		geometry: geometry,
		store:    store,
		engine:   engine,
		cache:    cache,
		renderer: renderer,
		log:      logger,
	}, nil
}

func geometryFromOptions(o Options) pagination.Geometry {
	size := pagination.PageSize{Width: o.PageWidth, Height: o.PageHeight, Name: "Custom"}
	switch o.PageOrientation {
	case PageOrientationLandscape:
		size = size.Landscape()
	case PageOrientationPortrait, "":
		size = size.Portrait()
	}
	return pagination.Geometry{
		PageSize: size,
		Margins: pagination.Margins{
			Top:    o.MarginTop,
			Right:  o.MarginRight,
			Bottom: o.MarginBottom,
			Left:   o.MarginLeft,
		},
		LineHeight: o.LineHeight,
	}
}

// Geometry returns the page geometry the editor paginates against
func (e *Editor) Geometry() pagination.Geometry {
	return e.geometry
}

// GetContent returns the whole document with page break markers between
// pages
func (e *Editor) GetContent() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.TotalContent()
}

// SetContent replaces the document. Page break markers in content start new
// pages; every page is then checked for overflow.
func (e *Editor) SetContent(content string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.engine.Load(pagination.SplitContent(content))
	return nil
}

// Focus returns the cursor, moving it to the end of the document when its
// page is gone
func (e *Editor) Focus() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Focus()
}

// Save hands the joined document to the configured Saver
func (e *Editor) Save(ctx context.Context) error {
	if e.options.Saver == nil {
		return ErrNoSaver
	}
	content := e.GetContent()
	if err := e.options.Saver.Save(ctx, content); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// Edit replaces a page's content as typed by the user, with the cursor at
// cursorOffset characters into it
func (e *Editor) Edit(pageID, content string, cursorOffset int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.engine.Edit(pageID, content, cursorOffset)
}

// Type inserts s at the cursor and moves the cursor past it
func (e *Editor) Type(s string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	c := e.engine.Focus()
	page, ok := e.store.Get(c.PageID)
	if !ok {
		return ErrPageNotFound
	}
	at := html.IndexOf(page.Content, c.Offset)
	content := page.Content[:at] + s + page.Content[at:]
	return e.engine.Edit(c.PageID, content, html.Len(page.Content[:at]+s))
}

// Paste inserts blob at the cursor, creating pages as needed
func (e *Editor) Paste(blob string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	c := e.engine.Focus()
	return e.engine.Paste(c.PageID, c.Offset, blob)
}

// PasteAt inserts blob into a page at a character offset
func (e *Editor) PasteAt(pageID string, offset int, blob string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return e.engine.Paste(pageID, offset, blob)
}

// Pages returns a copy of the pages in order
func (e *Editor) Pages() []Page {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Pages()
}

// PageCount returns the number of pages
func (e *Editor) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Len()
}

// Cursor returns the edit position
func (e *Editor) Cursor() Cursor {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Cursor()
}

// SetCursor moves the edit position
func (e *Editor) SetCursor(c Cursor) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.SetCursor(c)
}

// Flush runs frames until no deferred work is left and returns how many ran.
// Checks still waiting on their debounce are not forced.
func (e *Editor) Flush() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Loop().RunUntilIdle(0)
}

// Run drives the editor with one frame every interval until ctx is done or
// the editor is closed
func (e *Editor) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = frame.DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.mu.Lock()
			if e.closed {
				e.mu.Unlock()
				return nil
			}
			e.engine.Loop().RunFrame()
			e.mu.Unlock()
		}
	}
}

// Stats returns a snapshot of the editor's internals
func (e *Editor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	loop := e.engine.Loop()
	return Stats{
		Pages:        e.store.Len(),
		Frames:       loop.Frames(),
		PendingWork:  loop.Pending(),
		Busy:         e.engine.Busy(),
		Measurements: e.cache.Len(),
	}
}

// Export writes the document as a PDF with one physical page per page
func (e *Editor) Export(w io.Writer) error {
	pages := e.Pages()
	if err := e.renderer.Render(pages, e.geometry, w, e.renderOptions()); err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}
	return nil
}

// ExportFile writes the document as a PDF file
func (e *Editor) ExportFile(outputPath string) error {
	pages := e.Pages()
	if err := e.renderer.RenderFile(pages, e.geometry, outputPath, e.renderOptions()); err != nil {
		return fmt.Errorf("failed to export PDF: %w", err)
	}
	return nil
}

func (e *Editor) renderOptions() pdf.RenderOptions {
	return pdf.RenderOptions{
		Title:    e.options.Title,
		Author:   e.options.Author,
		Subject:  e.options.Subject,
		Keywords: e.options.Keywords,
		Creator:  "pagedoc",
		Producer: "pagedoc",
	}
}

// Close cancels pending checks and discards deferred work. Content stays
// readable.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.engine.Close()
	e.cache.Flush()
	e.log.Debug().Int("pages", e.store.Len()).Msg("editor closed")
	return nil
}
