package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/HelgeS/mcap-rotational-diversity/instance"
)

func newInspectCmd() *cobra.Command {
	var facts bool

	cmd := &cobra.Command{
		Use:   "inspect <instance>...",
		Short: "Show instance statistics",
		Long: `Parse instance files and print their size: tasks, agents, cycles, total
capacity, the smallest total task weight, the mean number of compatible
agents per task and the mean number of available tasks per cycle.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, path := range args {
				inst, err := instance.Load(path)
				if err != nil {
					return err
				}
				if facts {
					fmt.Fprint(out, inst.String())
					continue
				}
				printStats(out, inst.Stats())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&facts, "facts", false, "Print the parsed instance in the fact format")

	return cmd
}

func printStats(w io.Writer, s instance.Stats) {
	fmt.Fprintf(w, "%s\n", s.Name)
	fmt.Fprintf(w, "  tasks:      %d\n", s.Tasks)
	fmt.Fprintf(w, "  agents:     %d\n", s.Agents)
	fmt.Fprintf(w, "  cycles:     %d\n", s.Cycles)
	fmt.Fprintf(w, "  capacity:   %d\n", s.Capacity)
	fmt.Fprintf(w, "  min weight: %d\n", s.Weight)
	fmt.Fprintf(w, "  compatible: %.2f agents/task\n", s.Compat)
	fmt.Fprintf(w, "  available:  %.2f tasks/cycle\n", s.MeanTasks)
	fmt.Fprintf(w, "  overrides:  %t\n", s.Overrides)
}
