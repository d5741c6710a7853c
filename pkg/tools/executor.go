package tools

import "context"

// ExecutionContext is the caller-supplied record for one command
// execution. The ids are used to auto-fill tool arguments the model
// left implicit. Immutable for the lifetime of the execution.
type ExecutionContext struct {
	WorkspaceID      string `json:"workspace_id"`
	UserID           string `json:"user_id"`
	CurrentProjectID string `json:"current_project_id,omitempty"`
	CurrentTabID     string `json:"current_tab_id,omitempty"`
	CurrentTableID   string `json:"current_table_id,omitempty"`
	CurrentBlockID   string `json:"current_block_id,omitempty"`
}

// Executor runs one named tool against the project-management store.
// The orchestrator does not know or care how a tool is implemented;
// implementations must return a non-nil result or an error.
type Executor interface {
	ExecuteTool(ctx context.Context, name string, arguments map[string]any, execCtx ExecutionContext) (*ToolCallResult, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, name string, arguments map[string]any, execCtx ExecutionContext) (*ToolCallResult, error)

func (f ExecutorFunc) ExecuteTool(ctx context.Context, name string, arguments map[string]any, execCtx ExecutionContext) (*ToolCallResult, error) {
	return f(ctx, name, arguments, execCtx)
}
