package root

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/environment"
	"github.com/taskgrid/copilot/pkg/model/provider"
	"github.com/taskgrid/copilot/pkg/runtime"
	"github.com/taskgrid/copilot/pkg/tools"
	"github.com/taskgrid/copilot/pkg/tools/fake"
	"github.com/taskgrid/copilot/pkg/tools/httpexec"
)

type runFlags struct {
	useFake bool
	stream  bool

	workspaceID string
	userID      string
	projectID   string
	tabID       string
	tableID     string
	blockID     string
}

func newRunCmd(root *rootFlags) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Execute a natural-language command against the workspace",
		Example: `  copilot run "create a task called Standup notes"
  copilot run --stream "mark every onboarding task as done"
  copilot run --fake "create a table called Budget with columns Item and Cost"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCommand(cmd, root, &flags, strings.Join(args, " "))
		},
	}

	cmd.Flags().BoolVar(&flags.useFake, "fake", false, "Execute tools against an in-memory workspace instead of the backend")
	cmd.Flags().BoolVar(&flags.stream, "stream", false, "Stream events as the command executes")
	cmd.Flags().StringVar(&flags.workspaceID, "workspace", "", "Workspace id")
	cmd.Flags().StringVar(&flags.userID, "user", "", "User id")
	cmd.Flags().StringVar(&flags.projectID, "project", "", "Current project id")
	cmd.Flags().StringVar(&flags.tabID, "tab", "", "Current tab id")
	cmd.Flags().StringVar(&flags.tableID, "table", "", "Current table id")
	cmd.Flags().StringVar(&flags.blockID, "block", "", "Current block id")

	return cmd
}

func runCommand(cmd *cobra.Command, root *rootFlags, flags *runFlags, command string) error {
	ctx := cmd.Context()
	env := environment.NewDefaultProvider()

	cfg, err := config.Load(ctx, env, root.configFile)
	if err != nil {
		return err
	}

	var executor tools.Executor
	if flags.useFake {
		executor = fake.New()
	} else {
		if cfg.ExecutorURL == "" {
			return errors.New("no executor configured: set executor_url (or COPILOT_EXECUTOR_URL), or pass --fake")
		}
		executor = httpexec.New(cfg.ExecutorURL)
	}

	llm, err := provider.New(cfg, env)
	if err != nil {
		return err
	}

	rt := runtime.New(cfg, llm, executor)
	execCtx := tools.ExecutionContext{
		WorkspaceID:      flags.workspaceID,
		UserID:           flags.userID,
		CurrentProjectID: flags.projectID,
		CurrentTabID:     flags.tabID,
		CurrentTableID:   flags.tableID,
		CurrentBlockID:   flags.blockID,
	}

	if flags.stream {
		return streamCommand(cmd, rt, command, execCtx)
	}

	result, err := rt.ExecuteCommand(ctx, command, execCtx, nil)
	if err != nil {
		return err
	}
	printResult(cmd, result)
	if !result.Success {
		return fmt.Errorf("command failed: %s", result.Error)
	}
	return nil
}

func streamCommand(cmd *cobra.Command, rt *runtime.Runtime, command string, execCtx tools.ExecutionContext) error {
	out := cmd.OutOrStdout()
	toolColor := color.New(color.FgCyan)
	errColor := color.New(color.FgRed)

	var final *runtime.ExecutionResult
	for event := range rt.ExecuteCommandStream(cmd.Context(), command, execCtx, nil) {
		switch e := event.(type) {
		case *runtime.ContentDeltaEvent:
			fmt.Fprint(out, e.Content)
		case *runtime.ToolCallEvent:
			toolColor.Fprintf(out, "\n-> %s %s\n", e.ToolCall.Function.Name, e.ToolCall.Function.Arguments)
		case *runtime.ToolCallResponseEvent:
			if e.Result != nil && !e.Result.Success {
				errColor.Fprintf(out, "<- %s failed: %s\n", e.ToolCall.Function.Name, e.Result.Error)
			} else {
				toolColor.Fprintf(out, "<- %s ok\n", e.ToolCall.Function.Name)
			}
		case *runtime.MaxIterationsReachedEvent:
			errColor.Fprintf(out, "stopped after %d rounds\n", e.MaxIterations)
		case *runtime.ErrorEvent:
			errColor.Fprintf(out, "error: %s\n", e.Error)
		case *runtime.ExecutionCompleteEvent:
			final = e.Result
		}
	}

	fmt.Fprintln(out)
	if final == nil {
		return errors.New("stream ended without a result")
	}
	printResult(cmd, final)
	if !final.Success {
		return fmt.Errorf("command failed: %s", final.Error)
	}
	return nil
}

func printResult(cmd *cobra.Command, result *runtime.ExecutionResult) {
	out := cmd.OutOrStdout()

	status := color.New(color.FgGreen).Sprint("ok")
	if !result.Success {
		status = color.New(color.FgRed).Sprint("failed")
	}
	fmt.Fprintf(out, "%s  %s\n", status, result.Response)

	if len(result.ToolCallsMade) > 0 {
		dim := color.New(color.Faint)
		for _, record := range result.ToolCallsMade {
			outcome := "ok"
			if record.Result == nil || !record.Result.Success {
				outcome = "failed"
			}
			dim.Fprintf(out, "  %s %s (%s)\n", record.Tool, tools.MarshalArguments(record.Arguments), outcome)
		}
	}
}
