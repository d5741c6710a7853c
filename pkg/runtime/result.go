package runtime

import "github.com/taskgrid/copilot/pkg/tools"

// Stable error codes surfaced to callers on terminal failures.
const (
	ErrCodeMaxIterations       = "max_iterations_reached"
	ErrCodeRepeatedToolCall    = "repeated_tool_call"
	ErrCodeConsecutiveFailures = "consecutive_tool_failures"
	ErrCodeProvider            = "provider_error"
)

// ExecutionResult is the terminal outcome of one command.
type ExecutionResult struct {
	Success       bool                   `json:"success"`
	Response      string                 `json:"response"`
	ToolCallsMade []tools.ToolCallRecord `json:"tool_calls_made,omitempty"`
	Error         string                 `json:"error,omitempty"`
	ErrorCode     string                 `json:"error_code,omitempty"`
}

func successResult(response string, records []tools.ToolCallRecord) *ExecutionResult {
	return &ExecutionResult{Success: true, Response: response, ToolCallsMade: records}
}

func failureResult(code, msg string, records []tools.ToolCallRecord) *ExecutionResult {
	return &ExecutionResult{Success: false, Response: msg, ToolCallsMade: records, Error: msg, ErrorCode: code}
}
