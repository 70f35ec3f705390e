package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/gompdf/pagedoc/internal/frame"
)

// Options represents configuration options for the editor
type Options struct {
	// Page dimensions
	PageWidth  float64
	PageHeight float64
	// Page orientation: portrait or landscape
	PageOrientation PageOrientation

	// Page margins
	MarginTop    float64
	MarginRight  float64
	MarginBottom float64
	MarginLeft   float64

	// Text measurement
	LineHeight float64
	Measurer   MeasurerKind
	// CharWidth is the advance of one character for the monospace measurer
	CharWidth  float64
	FontFamily string
	FontStyle  string
	FontSize   float64

	// Debounce is the quiet period after an edit before the page is checked
	// for overflow. Negative checks in the next frame.
	Debounce time.Duration
	// CacheTTL is how long a measurement is remembered
	CacheTTL time.Duration

	// OnChange receives the joined document after every change
	OnChange func(content string, pageCount int)
	// Saver persists the document on Save
	Saver Saver

	Logger *zerolog.Logger

	// Document metadata
	Title    string
	Author   string
	Subject  string
	Keywords string
	// PageNumbers prints page numbers on export
	PageNumbers bool
	// TextColor is the exported text color, CSS hex or rgb()
	TextColor string
	// DebugBoxes outlines the content area of every exported page
	DebugBoxes bool

	// Clock and Loop replace the real timer and frame loop, mostly for tests
	Clock frame.Clock
	Loop  *frame.Loop
}

// Option is a function that modifies Options
type Option func(*Options)

// PageOrientation represents page orientation
type PageOrientation string

const (
	// PageOrientationPortrait sets the page to portrait orientation
	PageOrientationPortrait PageOrientation = "portrait"
	// PageOrientationLandscape sets the page to landscape orientation
	PageOrientationLandscape PageOrientation = "landscape"
)

// MeasurerKind selects how page content is measured
type MeasurerKind string

const (
	// MeasurerFont measures with the export font's metrics
	MeasurerFont MeasurerKind = "font"
	// MeasurerMonospace measures every character as CharWidth wide
	MeasurerMonospace MeasurerKind = "monospace"
)

// Saver persists the joined document content
type Saver interface {
	Save(ctx context.Context, content string) error
}

// SaverFunc adapts a function to Saver
type SaverFunc func(ctx context.Context, content string) error

// Save calls f
func (f SaverFunc) Save(ctx context.Context, content string) error {
	return f(ctx, content)
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		// A4, 1 inch margins
		PageWidth:       PageSizeA4Width,
		PageHeight:      PageSizeA4Height,
		PageOrientation: PageOrientationPortrait,

		MarginTop:    72,
		MarginRight:  72,
		MarginBottom: 72,
		MarginLeft:   72,

		LineHeight: 16,
		Measurer:   MeasurerFont,
		CharWidth:  7,
		FontFamily: "Helvetica",
		FontSize:   12,

		Debounce: frame.DefaultDebounce,
		CacheTTL: 10 * time.Minute,

		TextColor: "#000000",
	}
}

// WithPageSize sets the page size
func WithPageSize(width, height float64) Option {
	return func(o *Options) {
		o.PageWidth = width
		o.PageHeight = height
	}
}

// WithMargins sets the page margins
func WithMargins(top, right, bottom, left float64) Option {
	return func(o *Options) {
		o.MarginTop = top
		o.MarginRight = right
		o.MarginBottom = bottom
		o.MarginLeft = left
	}
}

// WithPageOrientation sets the page orientation
func WithPageOrientation(orientation PageOrientation) Option {
	return func(o *Options) {
		o.PageOrientation = orientation
	}
}

// WithLineHeight sets the height of one line of text
func WithLineHeight(h float64) Option {
	return func(o *Options) {
		o.LineHeight = h
	}
}

// WithFont sets the font used to measure and export text
func WithFont(family, style string, size float64) Option {
	return func(o *Options) {
		o.Measurer = MeasurerFont
		o.FontFamily = family
		o.FontStyle = style
		o.FontSize = size
	}
}

// WithMonospace measures text as a fixed-width grid
func WithMonospace(charWidth float64) Option {
	return func(o *Options) {
		o.Measurer = MeasurerMonospace
		o.CharWidth = charWidth
	}
}

// WithDebounce sets the edit debounce
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// WithCacheTTL sets how long measurements are cached
func WithCacheTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.CacheTTL = ttl
	}
}

// WithOnChange sets the host change callback
func WithOnChange(fn func(content string, pageCount int)) Option {
	return func(o *Options) {
		o.OnChange = fn
	}
}

// WithSaver sets the persistence collaborator
func WithSaver(s Saver) Option {
	return func(o *Options) {
		o.Saver = s
	}
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = &l
	}
}

// WithTitle sets the document title
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// WithAuthor sets the document author
func WithAuthor(author string) Option {
	return func(o *Options) {
		o.Author = author
	}
}

// WithSubject sets the document subject
func WithSubject(subject string) Option {
	return func(o *Options) {
		o.Subject = subject
	}
}

// WithKeywords sets the document keywords
func WithKeywords(keywords string) Option {
	return func(o *Options) {
		o.Keywords = keywords
	}
}

// WithPageNumbers prints page numbers on export
func WithPageNumbers(on bool) Option {
	return func(o *Options) {
		o.PageNumbers = on
	}
}

// WithTextColor sets the exported text color
func WithTextColor(color string) Option {
	return func(o *Options) {
		o.TextColor = color
	}
}

// WithDebugBoxes outlines the content area of exported pages
func WithDebugBoxes(on bool) Option {
	return func(o *Options) {
		o.DebugBoxes = on
	}
}

// WithClock replaces the debounce clock
func WithClock(c frame.Clock) Option {
	return func(o *Options) {
		o.Clock = c
	}
}

// Standard page sizes in points (1/72 inch)
const (
	// A series
	PageSizeA3Width  = 841.89
	PageSizeA3Height = 1190.55
	PageSizeA4Width  = 595.28
	PageSizeA4Height = 841.89
	PageSizeA5Width  = 419.53
	PageSizeA5Height = 595.28

	// US Letter and Legal
	PageSizeLetterWidth  = 612
	PageSizeLetterHeight = 792
	PageSizeLegalWidth   = 612
	PageSizeLegalHeight  = 1008
)

// WithPageSizeA4 sets the page size to A4
func WithPageSizeA4() Option {
	return WithPageSize(PageSizeA4Width, PageSizeA4Height)
}

// WithPageSizeLetter sets the page size to US Letter
func WithPageSizeLetter() Option {
	return WithPageSize(PageSizeLetterWidth, PageSizeLetterHeight)
}

// WithPageSizeLegal sets the page size to US Legal
func WithPageSizeLegal() Option {
	return WithPageSize(PageSizeLegalWidth, PageSizeLegalHeight)
}
