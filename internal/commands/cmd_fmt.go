package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/linedit/internal/core/document"
	"github.com/colonyops/linedit/internal/core/output"
	"github.com/colonyops/linedit/pkg/iojson"
)

type FmtCmd struct {
	flags *Flags
	fr    *iojson.FileReader[document.Document]

	// flags
	write bool
}

// NewFmtCmd creates a new fmt command
func NewFmtCmd(flags *Flags) *FmtCmd {
	return &FmtCmd{
		flags: flags,
		fr:    &iojson.FileReader[document.Document]{},
	}
}

// Register adds the fmt command to the application
func (cmd *FmtCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "fmt",
		Usage:     "Convert text files to their JSON document form",
		UsageText: "linedit fmt [--write] [<glob>... | -f doc.json]",
		Description: `Reads each matching text file and emits the same JSON document the editor
mirrors: {"lines": [{"lineNumber": 1, "text": "..."}]} with four-space
indentation.

Globs support doublestar patterns, e.g. 'notes/**/*.txt'. Without --write
the JSON is printed to stdout; with --write it is placed next to each
input file with a .json extension.

With no glob arguments a JSON document is read instead (from -f or stdin)
and re-emitted normalized: line numbers rewritten to 1..N, four-space
indentation.`,
		Flags: []cli.Flag{
			cmd.fr.Flag(),
			&cli.BoolFlag{
				Name:        "write",
				Aliases:     []string{"w"},
				Usage:       "write <file>.json next to each input instead of printing",
				Destination: &cmd.write,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *FmtCmd) run(_ context.Context, c *cli.Command) error {
	// No globs means normalize a JSON document from -f or stdin.
	if c.Args().Len() == 0 {
		input, err := cmd.fr.Read()
		if err != nil {
			return err
		}
		doc := document.New(input.Lines)
		return output.NewWriterSink(c.Root().Writer).Push(doc.Snapshot())
	}

	var paths []string
	for _, pattern := range c.Args().Slice() {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		paths = append(paths, matches...)
	}

	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "No files matched")
		return nil
	}

	out := c.Root().Writer
	sink := output.NewWriterSink(out)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		doc := document.ParseText(string(data))

		if !cmd.write {
			if err := sink.Push(doc.Snapshot()); err != nil {
				return fmt.Errorf("encode %s: %w", path, err)
			}
			continue
		}

		target := jsonPath(path)
		bits, err := iojson.Marshal(doc.Snapshot())
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		if err := os.WriteFile(target, append(bits, '\n'), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", target, err)
		}
		fmt.Fprintf(out, "%s -> %s\n", path, target)
	}

	return nil
}

// jsonPath swaps the file extension for .json.
func jsonPath(path string) string {
	if i := strings.LastIndex(path, "."); i > strings.LastIndexByte(path, '/') {
		return path[:i] + ".json"
	}
	return path + ".json"
}
