package root

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	debugMode  bool
	configFile string
}

func NewRootCmd() *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   "copilot",
		Short: "copilot - natural-language commands for TaskGrid workspaces",
		Long:  "copilot turns a natural-language command into tool calls against a TaskGrid workspace and reports what was done.",
		Example: `  copilot run "create a table called Budget with columns Item and Cost"
  copilot run --fake "mark every onboarding task as done"
  copilot classify "put the release milestones on a timeline"`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if flags.debugMode {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
				Level: level,
			})))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.debugMode, "debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "Path to a YAML config file")

	cmd.AddCommand(newRunCmd(&flags))
	cmd.AddCommand(newClassifyCmd())
	cmd.AddCommand(newToolsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func Execute(ctx context.Context, stdout, stderr io.Writer, args ...string) error {
	cmd := NewRootCmd()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
