package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/urfave/cli/v3"

	"github.com/gompdf/pagedoc/internal/config"
	"github.com/gompdf/pagedoc/internal/pagination"
	"github.com/gompdf/pagedoc/internal/parser/html"
	"github.com/gompdf/pagedoc/internal/text"
	"github.com/gompdf/pagedoc/pkg/api"
)

type PaginateCmd struct {
	flags   *Flags
	preview bool
	width   int
}

// NewPaginateCmd creates a new paginate command.
func NewPaginateCmd(flags *Flags) *PaginateCmd {
	return &PaginateCmd{flags: flags}
}

// Register adds the paginate command to the application.
func (cmd *PaginateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "paginate",
		Usage:     "Split a document into pages and print a summary",
		UsageText: "pagedoc paginate [options] FILE",
		Description: `Loads FILE (plain text or HTML; a path, an http(s) or data URL, or "-" for
stdin) into the editor, lets it split every overflowing page and prints one
line per resulting page.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "preview",
				Aliases:     []string{"p"},
				Usage:       "print the text of every page",
				Destination: &cmd.preview,
			},
			&cli.IntFlag{
				Name:  "width",
				Usage: "wrap width of the preview in columns",
				Value: 80,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *PaginateCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	cmd.width = int(c.Int("width"))

	cfg, err := cmd.flags.config()
	if err != nil {
		return err
	}
	editor, err := openDocument(ctx, cfg, c.Args().First(), c.Root().Reader)
	if err != nil {
		return err
	}
	defer func() { _ = editor.Close() }()

	detector := pagination.Detector{
		Geometry: editor.Geometry(),
		Measurer: measurerFor(cfg.Text.Measurer, editor.Geometry(), cfg.Font(), cfg.Text.CharWidth),
	}
	return cmd.print(c.Root().Writer, editor, detector)
}

func (cmd *PaginateCmd) print(w io.Writer, editor *api.Editor, detector pagination.Detector) error {
	pages := editor.Pages()
	maxLines := editor.Geometry().MaxLines()
	fmt.Fprintf(w, "%d pages, %d lines per page\n", len(pages), maxLines)

	for i, page := range pages {
		lines, ok := detector.Lines(page.Content)
		used := "?"
		if ok {
			used = fmt.Sprintf("%d", lines)
		}
		fmt.Fprintf(w, "page %-3d lines %3s/%d  chars %6d  %s\n", i+1, used, maxLines, html.Len(page.Content), page.ID)

		if cmd.preview {
			width := cmd.width
			if width <= 0 {
				width = 80
			}
			rule := strings.Repeat("-", width)
			fmt.Fprintln(w, rule)
			fmt.Fprintln(w, wordwrap.String(text.Visible(page.Content), width))
			fmt.Fprintln(w, rule)
		}
	}
	return nil
}

func measurerFor(kind string, g pagination.Geometry, font text.Font, charWidth float64) text.Measurer {
	if kind == config.MeasurerMonospace {
		return text.NewMonospace(charWidth, g.LineHeight)
	}
	return text.NewFontMeasurer(font, g.LineHeight)
}
