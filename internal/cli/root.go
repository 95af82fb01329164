// Package cli implements the mcap command line interface.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the mcap command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcap",
		Short: "Multi-cycle assignment simulator with rotational diversity",
		Long: `mcap simulates the assignment of tasks to capacity bounded agents over
many cycles. Strategies trade the profit of every cycle against an even
rotation of tasks across their compatible agents.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd(), newInspectCmd())

	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
