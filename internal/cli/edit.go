package cli

import (
	"github.com/spf13/cobra"
)

// purgeCommand creates the "purge" command.
func (c *CLI) purgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <workspace> [graph]",
		Short: "Remove orphan ref nodes",
		Long: `Remove ref nodes that no longer have an input connection to the graph they
sit in. Without a graph ID every graph of the workspace is purged.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			graphID := ""
			if len(args) == 2 {
				graphID = args[1]
			}
			removed, err := runner.Purge(cmd.Context(), args[0], graphID)
			if err != nil {
				return err
			}
			if removed == 0 {
				printInfo("No orphan ref nodes")
				return nil
			}
			printSuccess("Removed %d orphan ref nodes", removed)
			return nil
		},
	}
}

// copyCommand creates the "copy" command.
func (c *CLI) copyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "copy <workspace> <graph>",
		Short: "Duplicate a graph within its workspace",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			cp, err := runner.Copy(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			printSuccess("Copied graph %s", args[1])
			printKeyValue("copy", styleID.Render(string(cp.ID())))
			printDetail("%d nodes, %d ref nodes", cp.NodeCount(), len(cp.RefNodes()))
			return nil
		},
	}
}

// rmCommand creates the "rm" command.
func (c *CLI) rmCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <workspace> <graph> <node>",
		Short: "Remove a node from a graph",
		Long: `Remove a node from a graph. An owned node is destroyed. A ref node is only
detached from this graph and stays in the graph that owns it.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			if err := runner.RemoveNode(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			printSuccess("Removed node %s", args[2])
			return nil
		},
	}
}
