package root

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/intent"
	"github.com/taskgrid/copilot/pkg/toolset"
)

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <command>",
		Short: "Show how a command would be classified and which tools it would see",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			command := strings.Join(args, " ")
			out := cmd.OutOrStdout()

			cls := intent.Classify(command)
			fmt.Fprintf(out, "groups:     %v\n", cls.Groups)
			fmt.Fprintf(out, "entities:   %v\n", cls.Entities)
			fmt.Fprintf(out, "actions:    %v\n", cls.Actions)
			fmt.Fprintf(out, "confidence: %.2f\n", cls.Confidence)
			fmt.Fprintf(out, "reasoning:  %s\n", cls.Reasoning)

			selector := toolset.New(catalog.NewRegistry(), true)
			selected := selector.Select(cls, command)
			fmt.Fprintf(out, "tools (%d):\n", len(selected))
			for _, t := range selected {
				fmt.Fprintf(out, "  %s\n", t.Name())
			}
		},
	}
}
