package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/styles"
	"github.com/colonyops/linedit/pkg/iojson"
)

type ShowCmd struct {
	flags *Flags
	fr    *iojson.FileReader[document.Document]

	// flags
	markdown bool
	width    int
}

// NewShowCmd creates a new show command
func NewShowCmd(flags *Flags) *ShowCmd {
	return &ShowCmd{
		flags: flags,
		fr:    &iojson.FileReader[document.Document]{},
	}
}

// Register adds the show command to the application
func (cmd *ShowCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "show",
		Usage:     "Pretty-print a JSON document without opening the editor",
		UsageText: "linedit show [-f doc.json] [--markdown]",
		Description: `Reads a JSON document (from -f or stdin) and prints its lines with their
line numbers. With --markdown the joined text is rendered as markdown using
the configured theme.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.BoolFlag{
				Name:        "markdown",
				Aliases:     []string{"m"},
				Usage:       "render the document text as markdown",
				Destination: &cmd.markdown,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "wrap width (defaults to the terminal width)",
				Destination: &cmd.width,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ShowCmd) run(_ context.Context, c *cli.Command) error {
	input, err := cmd.fr.Read()
	if err != nil {
		return err
	}
	doc := document.New(input.Lines)

	out := c.Root().Writer

	if cmd.markdown {
		rendered, err := cmd.renderMarkdown(doc.Text())
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, rendered)
		return err
	}

	for _, ln := range doc.Lines {
		num := styles.GutterStyle.Render(fmt.Sprintf("%4d", ln.LineNumber))
		_, _ = fmt.Fprintf(out, "%s  %s\n", num, styles.TextForegroundStyle.Render(ln.Text))
	}
	return nil
}

func (cmd *ShowCmd) renderMarkdown(text string) (string, error) {
	width := cmd.width
	if width <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			log.Debug().Err(err).Msg("terminal size unavailable, using default width")
			w = 80
		}
		width = w
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}

	rendered, err := renderer.Render(text)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return rendered, nil
}
