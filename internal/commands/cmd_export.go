package commands

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ExportCmd struct {
	flags      *Flags
	output     string
	debugBoxes bool
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Paginate a document and write it as PDF",
		UsageText: "pagedoc export [options] FILE",
		Description: `Paginates FILE the same way as 'pagedoc paginate' and prints every page
onto exactly one PDF page.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "output",
				Aliases:     []string{"o"},
				Usage:       "output PDF path (defaults to FILE with a .pdf extension)",
				Destination: &cmd.output,
			},
			&cli.BoolFlag{
				Name:        "debug-boxes",
				Usage:       "outline the content area of every page",
				Destination: &cmd.debugBoxes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one FILE argument")
	}
	input := c.Args().First()

	cfg, err := cmd.flags.config()
	if err != nil {
		return err
	}
	if cmd.debugBoxes {
		cfg.Export.DebugBoxes = true
	}
	editor, err := openDocument(ctx, cfg, input, c.Root().Reader)
	if err != nil {
		return err
	}
	defer func() { _ = editor.Close() }()

	output := cmd.output
	if output == "" {
		output = defaultOutput(input)
	}
	if err := editor.ExportFile(output); err != nil {
		return err
	}

	log.Info().Str("output", output).Int("pages", editor.PageCount()).Msg("exported document")
	fmt.Fprintf(c.Root().Writer, "wrote %d pages to %s\n", editor.PageCount(), output)
	return nil
}
