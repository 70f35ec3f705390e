package pagedoc

import (
	"github.com/gompdf/pagedoc/pkg/api"
)

type Editor = api.Editor
type Options = api.Options
type Option = api.Option
type Cursor = api.Cursor
type Page = api.Page
type Stats = api.Stats
type Saver = api.Saver
type SaverFunc = api.SaverFunc
type PageOrientation = api.PageOrientation
type MeasurerKind = api.MeasurerKind

func New(opts ...Option) (*Editor, error)             { return api.New(opts...) }
func NewWithOptions(options Options) (*Editor, error) { return api.NewWithOptions(options) }
func DefaultOptions() Options                         { return api.DefaultOptions() }

var (
	ErrPageNotFound = api.ErrPageNotFound
	ErrNoSaver      = api.ErrNoSaver
	ErrClosed       = api.ErrClosed
)

var (
	WithPageSize        = api.WithPageSize
	WithMargins         = api.WithMargins
	WithPageOrientation = api.WithPageOrientation
	WithLineHeight      = api.WithLineHeight
	WithFont            = api.WithFont
	WithMonospace       = api.WithMonospace
	WithDebounce        = api.WithDebounce
	WithCacheTTL        = api.WithCacheTTL
	WithOnChange        = api.WithOnChange
	WithSaver           = api.WithSaver
	WithLogger          = api.WithLogger
	WithTitle           = api.WithTitle
	WithAuthor          = api.WithAuthor
	WithSubject         = api.WithSubject
	WithKeywords        = api.WithKeywords
	WithPageNumbers     = api.WithPageNumbers
	WithTextColor       = api.WithTextColor
	WithDebugBoxes      = api.WithDebugBoxes
	WithClock           = api.WithClock
	WithPageSizeA4      = api.WithPageSizeA4
	WithPageSizeLetter  = api.WithPageSizeLetter
	WithPageSizeLegal   = api.WithPageSizeLegal
)

const (
	PageSizeA3Width  = api.PageSizeA3Width
	PageSizeA3Height = api.PageSizeA3Height
	PageSizeA4Width  = api.PageSizeA4Width
	PageSizeA4Height = api.PageSizeA4Height
	PageSizeA5Width  = api.PageSizeA5Width
	PageSizeA5Height = api.PageSizeA5Height

	PageSizeLetterWidth  = api.PageSizeLetterWidth
	PageSizeLetterHeight = api.PageSizeLetterHeight
	PageSizeLegalWidth   = api.PageSizeLegalWidth
	PageSizeLegalHeight  = api.PageSizeLegalHeight

	PageOrientationPortrait  = api.PageOrientationPortrait
	PageOrientationLandscape = api.PageOrientationLandscape

	MeasurerFont      = api.MeasurerFont
	MeasurerMonospace = api.MeasurerMonospace
)
