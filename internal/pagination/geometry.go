package pagination

import (
	"fmt"
	"math"
	"strings"
)

// PageSize represents standard page sizes
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

// Standard page sizes in points (1/72 inch)
var (
	PageSizeA4     = PageSize{Width: 595.28, Height: 841.89, Name: "A4"}
	PageSizeLetter = PageSize{Width: 612.00, Height: 792.00, Name: "Letter"}
	PageSizeLegal  = PageSize{Width: 612.00, Height: 1008.00, Name: "Legal"}
	PageSizeA3     = PageSize{Width: 841.89, Height: 1190.55, Name: "A3"}
	PageSizeA5     = PageSize{Width: 419.53, Height: 595.28, Name: "A5"}
)

var standardSizes = []PageSize{PageSizeA3, PageSizeA4, PageSizeA5, PageSizeLetter, PageSizeLegal}

// LookupPageSize finds a standard page size by name, case-insensitively
func LookupPageSize(name string) (PageSize, error) {
	for _, size := range standardSizes {
		if strings.EqualFold(size.Name, name) {
			return size, nil
		}
	}
	return PageSize{}, fmt.Errorf("unknown page size %q", name)
}

// Landscape returns the size with width and height swapped so that the page
// is wider than it is tall.
func (s PageSize) Landscape() PageSize {
	if s.Width >= s.Height {
		return s
	}
	return PageSize{Width: s.Height, Height: s.Width, Name: s.Name}
}

// Portrait returns the size with the longer side vertical.
func (s PageSize) Portrait() PageSize {
	if s.Height >= s.Width {
		return s
	}
	return PageSize{Width: s.Height, Height: s.Width, Name: s.Name}
}

// IsLandscape reports whether the page is wider than it is tall
func (s PageSize) IsLandscape() bool {
	return s.Width > s.Height
}

// Margins represents page margins
type Margins struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// UniformMargins returns margins of m on every side
func UniformMargins(m float64) Margins {
	return Margins{Top: m, Right: m, Bottom: m, Left: m}
}

// Geometry is the fixed physical layout every page of a document shares.
// It is a plain value passed to whatever needs it.
type Geometry struct {
	PageSize   PageSize
	Margins    Margins
	LineHeight float64
}

// DefaultGeometry is A4 portrait with one-inch margins and 16pt lines
func DefaultGeometry() Geometry {
	return Geometry{
		PageSize:   PageSizeA4,
		Margins:    UniformMargins(72),
		LineHeight: 16,
	}
}

// ContentWidth is the page width inside the left and right margins
func (g Geometry) ContentWidth() float64 {
	return g.PageSize.Width - g.Margins.Left - g.Margins.Right
}

// UsableHeight is the page height inside the top and bottom margins
func (g Geometry) UsableHeight() float64 {
	return g.PageSize.Height - g.Margins.Top - g.Margins.Bottom
}

// MaxLines is the number of whole lines that fit in the usable height
func (g Geometry) MaxLines() int {
	if g.LineHeight <= 0 || g.UsableHeight() <= 0 {
		return 0
	}
	// tolerate float noise such as 720/16 landing a hair under 45
	return int(math.Floor(g.UsableHeight()/g.LineHeight + 1e-9))
}

// CapacityHeight is the height of MaxLines lines, the most a page may hold
func (g Geometry) CapacityHeight() float64 {
	return float64(g.MaxLines()) * g.LineHeight
}

// Validate checks that the geometry leaves room for at least one line
func (g Geometry) Validate() error {
	switch {
	case g.PageSize.Width <= 0 || g.PageSize.Height <= 0:
		return fmt.Errorf("page size must be positive, got %.2fx%.2f", g.PageSize.Width, g.PageSize.Height)
	case g.LineHeight <= 0:
		return fmt.Errorf("line height must be positive, got %.2f", g.LineHeight)
	case g.ContentWidth() <= 0:
		return fmt.Errorf("margins leave no content width")
	case g.MaxLines() < 1:
		return fmt.Errorf("usable height %.2f holds no line of height %.2f", g.UsableHeight(), g.LineHeight)
	}
	return nil
}
