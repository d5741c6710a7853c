package tools

import "github.com/mark3labs/mcp-go/mcp"

// ToolType is the OpenAI-style tool kind. Only functions exist today.
type ToolType string

const ToolTypeFunction ToolType = "function"

// Tool is one schema entry exposed to the model.
type Tool struct {
	Type     ToolType            `json:"type"`
	Function *FunctionDefinition `json:"function,omitempty"`
}

// Name returns the function name, or "" for a malformed tool.
func (t Tool) Name() string {
	if t.Function == nil {
		return ""
	}
	return t.Function.Name
}

type FunctionDefinition struct {
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Parameters  mcp.ToolInputSchema `json:"parameters"`
}

// ToolCall is a tool invocation requested by the model. Arguments is
// untrusted text: it may be partial, empty or invalid JSON.
type ToolCall struct {
	Index    *int         `json:"index,omitempty"`
	ID       string       `json:"id,omitempty"`
	Type     ToolType     `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

// ToolCallResult is what a tool execution produced. A failed result
// always carries a non-empty Error.
type ToolCallResult struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// ResultSuccess wraps data in a successful result.
func ResultSuccess(data any) *ToolCallResult {
	return &ToolCallResult{Success: true, Data: data}
}

// ResultError builds a failed result with the given message.
func ResultError(msg string) *ToolCallResult {
	return &ToolCallResult{Success: false, Error: msg}
}

// ResultErrorHint builds a failed result with a hint for the model.
func ResultErrorHint(msg, hint string) *ToolCallResult {
	return &ToolCallResult{Success: false, Error: msg, Hint: hint}
}

// ToolCallRecord is the caller-facing audit record of one attempted
// tool invocation, failed ones included. Result is never compacted.
type ToolCallRecord struct {
	Tool      string          `json:"tool"`
	Arguments map[string]any  `json:"arguments"`
	Result    *ToolCallResult `json:"result"`
}
