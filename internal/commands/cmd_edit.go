package commands

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/output"
	"github.com/colonyops/linedit/internal/tui"
	"github.com/colonyops/linedit/internal/tui/views/editor"
	"github.com/colonyops/linedit/pkg/iojson"
)

type EditCmd struct {
	flags *Flags

	// flags
	jsonInput  bool
	outputPath string
}

// NewEditCmd creates a new edit command
func NewEditCmd(flags *Flags) *EditCmd {
	return &EditCmd{flags: flags}
}

// Flags returns the edit-specific flags for registration on the root command.
func (cmd *EditCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "treat the input file as a JSON document instead of plain text",
			Destination: &cmd.jsonInput,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "path that receives the document as indented JSON after every change",
			Sources:     cli.EnvVars("LINEDIT_OUTPUT"),
			Destination: &cmd.outputPath,
		},
	}
}

// Run executes the editor. Exported for use as default command.
func (cmd *EditCmd) Run(ctx context.Context, c *cli.Command) error {
	return cmd.run(ctx, c)
}

func (cmd *EditCmd) run(_ context.Context, c *cli.Command) error {
	path := c.Args().First()
	if path == "" {
		return fmt.Errorf("no file given. Run 'linedit --help' for usage")
	}

	doc, err := cmd.loadDocument(path)
	if err != nil {
		return err
	}

	var sink output.Sink
	if mirror := cmd.mirrorPath(); mirror != "" {
		sink = output.NewFileSink(mirror)
	}

	ctrl := editor.NewController(doc, sink)

	m := tui.New(tui.Deps{
		Config:     cmd.flags.Config,
		Controller: ctrl,
		Source:     path,
		Save:       cmd.saver(path),
	})

	p := tea.NewProgram(m, tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

// mirrorPath resolves the JSON mirror destination: the flag wins over the
// config file; empty disables mirroring.
func (cmd *EditCmd) mirrorPath() string {
	if cmd.outputPath != "" {
		return cmd.outputPath
	}
	return cmd.flags.Config.Output.Path
}

func (cmd *EditCmd) loadDocument(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !cmd.jsonInput {
			// Editing a new file starts from an empty document.
			return document.New(nil), nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if cmd.jsonInput {
		doc, err := iojson.Decode[document.Document](f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		return document.New(doc.Lines), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return document.ParseText(string(data)), nil
}

// saver writes the edited document back to its source in the format it was
// loaded from.
func (cmd *EditCmd) saver(path string) tui.SaveFunc {
	return func(doc document.Document) error {
		if cmd.jsonInput {
			data, err := iojson.Marshal(doc)
			if err != nil {
				return fmt.Errorf("marshal document: %w", err)
			}
			return os.WriteFile(path, append(data, '\n'), 0o644)
		}
		text := document.New(doc.Lines).Text()
		if text != "" {
			text += "\n"
		}
		return os.WriteFile(path, []byte(text), 0o644)
	}
}
