package cli

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gdm/pkg/errors"
	"github.com/matzehuels/gdm/pkg/graph"
)

// Output formats for the graph command.
const (
	formatDOT  = "dot"
	formatSVG  = "svg"
	formatJSON = "json"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output string // output file path (stdout if empty)
	format string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the installed dependency tree",
		Long: `Export the installed dependency tree as Graphviz DOT, SVG, or JSON.

Examples:
  gdm graph                      # DOT to stdout
  gdm graph -f svg -o deps.svg   # rendered with Graphviz
  gdm graph -f json              # node-link JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(opts.format)
			switch format {
			case formatDOT, formatSVG, formatJSON:
			default:
				return errors.New(errors.ErrCodeUnsupported, "unknown format %q (want dot, svg, or json)", opts.format)
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			ids, err := collect(cmd.Context(), cfg, c.newRunner())
			if err != nil {
				return err
			}
			g := graph.FromIdentities(cfg.Root, ids)

			var data []byte
			switch format {
			case formatJSON:
				var buf bytes.Buffer
				if err := g.WriteJSON(&buf); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
				}
				data = buf.Bytes()
			case formatSVG:
				prog := newProgress(loggerFromContext(cmd.Context()))
				if data, err = graph.RenderSVG(cmd.Context(), graph.ToDOT(g)); err != nil {
					return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
				}
				prog.done("Rendered SVG")
			default:
				data = []byte(graph.ToDOT(g))
			}

			return c.writeOutput(opts.output, data)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, json")
	return cmd
}

// writeOutput writes data to path, or to c.Out when path is empty.
func (c *CLI) writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := c.Out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	printSuccess(c.Out, "Wrote dependency graph")
	printFile(c.Out, path)
	return nil
}
