package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path, "-" for stdout
	format   string // "svg" or "dot"
	detailed bool   // show port types and positions
	noCache  bool   // skip the artifact cache
}

// renderCommand creates the render command.
//
// The default output is <graph>.<format> in the current directory.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render <workspace> <graph>",
		Short: "Render a graph to SVG or DOT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			runner, _, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			data, err := runner.Render(cmd.Context(), args[0], args[1], pipeline.RenderOptions{
				Format:   opts.format,
				Detailed: opts.detailed,
			})
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Rendered %s", args[1]))

			return writeOutput(data, outputPath(opts.output, args[1], opts.format))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file, "-" for stdout (default <graph>.<format>)`)
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show port types and node positions")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func outputPath(output, graphID, format string) string {
	if output != "" {
		return output
	}
	return graphID + "." + format
}

func writeOutput(data []byte, path string) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}
