package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodegraph/pkg/pipeline"
	"github.com/matzehuels/nodegraph/pkg/registry"
)

// newCommand creates the "new" command, which adds a graph to a workspace.
func (c *CLI) newCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "new <workspace> <kind> [name]",
		Short: "Add a new graph to a workspace",
		Long: `Add a new graph of the given kind to a workspace. The workspace is created
if it does not exist. Nodes of every type the kind requires are added.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			name := ""
			if len(args) == 3 {
				name = args[2]
			}
			g, err := runner.Create(cmd.Context(), args[0], registry.Kind(args[1]), name)
			if err != nil {
				return err
			}

			printSuccess("Created %s graph %s", args[1], styleID.Render(string(g.ID())))
			printDetail("%d required nodes", g.NodeCount())
			printNextStep("Render it", fmt.Sprintf("%s render %s %s", appName, args[0], g.ID()))
			return nil
		},
	}
}

// importCommand creates the "import" command.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <workspace> <file>",
		Short: "Import a workspace from a JSON or YAML document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			ws, err := runner.Import(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printSuccess("Imported workspace %s", styleID.Render(args[0]))
			printDetail("%d graphs, %d nodes", len(ws.Graphs()), ws.NodeCount())
			return nil
		},
	}
}

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <workspace> <file>",
		Short: "Export a workspace to a JSON or YAML document",
		Long:  `Export a workspace. The file extension (.json, .yaml or .yml) selects the format.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			if _, err := os.Stat(args[1]); err == nil {
				printWarning("Overwriting %s", args[1])
			}
			if err := runner.Export(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			printSuccess("Exported workspace %s", styleID.Render(args[0]))
			printFile(args[1])
			return nil
		},
	}
}

// inspectCommand creates the "inspect" command. Without arguments it lists
// the stored workspaces.
func (c *CLI) inspectCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "inspect [workspace]",
		Short: "Summarize a workspace, or list all workspaces",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			if len(args) == 0 {
				names, err := runner.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(names)
				}
				if len(names) == 0 {
					printInfo("No workspaces")
					return nil
				}
				for _, name := range names {
					fmt.Println(name)
				}
				return nil
			}

			stats, err := runner.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(stats)
			}
			printStats(stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of text")
	return cmd
}

func printStats(s pipeline.Stats) {
	fmt.Println(styleTitle.Render(s.Workspace))
	printKeyValue("graphs", styleNumber.Render(fmt.Sprint(len(s.Graphs))))
	printKeyValue("nodes", styleNumber.Render(fmt.Sprint(s.Nodes)))
	printKeyValue("edges", styleNumber.Render(fmt.Sprint(s.Edges)))
	for _, g := range s.Graphs {
		printNewline()
		label := g.Kind
		if g.Name != "" {
			label = g.Name + " (" + g.Kind + ")"
		}
		fmt.Println(styleID.Render(g.ID) + " " + styleValue.Render(label))
		printCounts(g.Nodes, g.RefNodes, g.Edges)
	}
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// validateCommand creates the "validate" command.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <workspace>",
		Short: "Check that every connection is recorded on both ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.Validate(cmd.Context(), args[0]); err != nil {
				printError("Workspace %s is corrupt", args[0])
				return err
			}
			printSuccess("Workspace %s is valid", styleID.Render(args[0]))
			return nil
		},
	}
}
