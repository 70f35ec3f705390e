package pdf

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/gompdf/pagedoc/internal/pagination"
	"github.com/gompdf/pagedoc/internal/text"
)

// Renderer handles rendering to PDF. Every document page becomes exactly one
// physical page.
type Renderer struct {
	Font text.Font
	// TextColor is a CSS hex or rgb() color
	TextColor string
	// PageNumbers prints "n / total" in the bottom margin
	PageNumbers bool
	// DebugDrawBoxes outlines the content area of every page
	DebugDrawBoxes bool

	Logger zerolog.Logger
}

// RenderOptions contains options for rendering
type RenderOptions struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string
}

// NewRenderer creates a new PDF renderer
func NewRenderer() *Renderer {
	return &Renderer{
		Font:      text.DefaultFont,
		TextColor: "#000000",
		Logger:    zerolog.Nop(),
	}
}

// Render writes pages laid out with geometry to w as a PDF document
func (r *Renderer) Render(pages []pagination.Page, geometry pagination.Geometry, w io.Writer, options RenderOptions) error {
	if err := geometry.Validate(); err != nil {
		return fmt.Errorf("invalid page geometry: %w", err)
	}

	orient := "P"
	if geometry.PageSize.IsLandscape() {
		orient = "L"
	}
	portrait := geometry.PageSize.Portrait()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: portrait.Width, Ht: portrait.Height},
	})

	// a page must never spill onto a second sheet
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(geometry.Margins.Left, geometry.Margins.Top, geometry.Margins.Right)
	pdf.SetTitle(options.Title, true)
	pdf.SetAuthor(options.Author, true)
	pdf.SetSubject(options.Subject, true)
	pdf.SetKeywords(options.Keywords, true)
	pdf.SetCreator(options.Creator, true)
	pdf.SetProducer(options.Producer, true)

	font := r.Font
	if font.Size <= 0 {
		font = text.DefaultFont
	}
	pdf.SetFont(text.ResolveFamily(font.Family), text.ResolveStyle(font.Style), font.Size)
	color, err := ParseColor(r.TextColor)
	if err != nil {
		r.Logger.Debug().Err(err).Msg("falling back to black text")
	}
	pdf.SetTextColor(color[0], color[1], color[2])

	translate := pdf.UnicodeTranslatorFromDescriptor("")
	widthOf := func(s string) float64 {
		if s == "" {
			return 0
		}
		return pdf.GetStringWidth(translate(s))
	}

	r.Logger.Debug().Int("pages", len(pages)).Msg("rendering pages")
	for i, page := range pages {
		pdf.AddPage()
		r.renderPage(pdf, page, geometry, font, widthOf, translate)
		if r.PageNumbers {
			r.renderPageNumber(pdf, i+1, len(pages), geometry, translate)
		}
	}
	if len(pages) == 0 {
		pdf.AddPage()
	}

	if pdf.Err() {
		return fmt.Errorf("failed to render pdf: %w", pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// RenderFile renders pages to a PDF file, creating its directory if needed
func (r *Renderer) RenderFile(pages []pagination.Page, geometry pagination.Geometry, outputPath string, options RenderOptions) error {
	outputDir := filepath.Dir(outputPath)
	if _, err := os.Stat(outputDir); os.IsNotExist(err) {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := r.Render(pages, geometry, f, options); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// renderPage prints the page's text inside the margins. Lines past the
// page's capacity are clipped rather than continued on another sheet.
func (r *Renderer) renderPage(pdf *fpdf.Fpdf, page pagination.Page, g pagination.Geometry, font text.Font, widthOf text.WidthFunc, translate func(string) string) {
	var lines []string
	if visible := text.Visible(page.Content); visible != "" {
		lines = text.Wrap(visible, g.ContentWidth(), widthOf)
	}
	if limit := g.MaxLines(); len(lines) > limit {
		r.Logger.Debug().Str("page", page.ID).Int("lines", len(lines)).Int("max", limit).Msg("clipping page")
		lines = lines[:limit]
	}

	baseline := baselineOffset(font.Size, g.LineHeight)
	for i, line := range lines {
		if line == "" {
			continue
		}
		y := g.Margins.Top + float64(i)*g.LineHeight + baseline
		pdf.Text(g.Margins.Left, y, translate(line))
	}

	if r.DebugDrawBoxes {
		pdf.SetDrawColor(200, 0, 0)
		pdf.SetLineWidth(0.5)
		pdf.Rect(g.Margins.Left, g.Margins.Top, g.ContentWidth(), g.UsableHeight(), "D")
	}
}

func (r *Renderer) renderPageNumber(pdf *fpdf.Fpdf, n, total int, g pagination.Geometry, translate func(string) string) {
	label := translate(fmt.Sprintf("%d / %d", n, total))
	x := (g.PageSize.Width - pdf.GetStringWidth(label)) / 2
	y := g.PageSize.Height - g.Margins.Bottom/2
	pdf.Text(x, y, label)
}

// baselineOffset is the distance from the top of a line box to the text
// baseline, with the leading split evenly above and below the glyphs.
func baselineOffset(fontSize, lineHeight float64) float64 {
	ascent := 0.80 * fontSize
	descent := 0.20 * fontSize
	if ascent+descent > lineHeight {
		scale := lineHeight / (ascent + descent)
		ascent *= scale
		descent *= scale
	}
	leading := lineHeight - (ascent + descent)
	if leading < 0 {
		leading = 0
	}
	return ascent + leading/2
}

// ParseColor parses a CSS hex or rgb() color. An empty value is black.
func ParseColor(value string) ([3]int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return [3]int{0, 0, 0}, nil
	}
	if strings.HasPrefix(value, "#") {
		if r, g, b, ok := parseHexColor(value); ok {
			return [3]int{r, g, b}, nil
		}
		return [3]int{0, 0, 0}, fmt.Errorf("invalid hex color %q", value)
	}

	var r, g, b int
	compact := strings.ReplaceAll(value, " ", "")
	if _, err := fmt.Sscanf(compact, "rgb(%d,%d,%d)", &r, &g, &b); err == nil {
		for _, c := range []int{r, g, b} {
			if c < 0 || c > 255 {
				return [3]int{0, 0, 0}, fmt.Errorf("color component out of range in %q", value)
			}
		}
		return [3]int{r, g, b}, nil
	}

	return [3]int{0, 0, 0}, fmt.Errorf("unsupported color %q", value)
}

// parseHexColor parses #RRGGBB or #RGB into r,g,b
func parseHexColor(s string) (int, int, int, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), true
}
