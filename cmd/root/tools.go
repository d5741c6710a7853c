package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskgrid/copilot/pkg/catalog"
)

func newToolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the tool catalog by group",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			registry := catalog.NewRegistry()

			for _, group := range registry.Groups() {
				fmt.Fprintf(out, "%s:\n", group)
				for _, name := range registry.Group(group) {
					t, ok := registry.Tool(name)
					if !ok {
						continue
					}
					fmt.Fprintf(out, "  %-24s %s\n", name, t.Function.Description)
				}
			}
		},
	}
}
