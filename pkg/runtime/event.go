package runtime

import (
	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/tools"
)

// Event is one item of the streaming execution surface.
type Event interface {
	isEvent()
}

// StreamStartedEvent opens a streamed execution.
type StreamStartedEvent struct {
	Type        string `json:"type"`
	ExecutionID string `json:"execution_id"`
}

func StreamStarted(executionID string) Event {
	return &StreamStartedEvent{Type: "stream_started", ExecutionID: executionID}
}

func (e *StreamStartedEvent) isEvent() {}

// ContentDeltaEvent forwards a partial text delta as it arrives.
type ContentDeltaEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func ContentDelta(content string) Event {
	return &ContentDeltaEvent{Type: "content_delta", Content: content}
}

func (e *ContentDeltaEvent) isEvent() {}

// PartialToolCallEvent is sent while a tool call's fragments are
// still being accumulated.
type PartialToolCallEvent struct {
	Type     string         `json:"type"`
	ToolCall tools.ToolCall `json:"tool_call"`
}

func PartialToolCall(toolCall tools.ToolCall) Event {
	return &PartialToolCallEvent{Type: "partial_tool_call", ToolCall: toolCall}
}

func (e *PartialToolCallEvent) isEvent() {}

// ToolCallEvent is sent when a complete tool call is dispatched.
type ToolCallEvent struct {
	Type     string         `json:"type"`
	ToolCall tools.ToolCall `json:"tool_call"`
}

func ToolCall(toolCall tools.ToolCall) Event {
	return &ToolCallEvent{Type: "tool_call", ToolCall: toolCall}
}

func (e *ToolCallEvent) isEvent() {}

// ToolCallResponseEvent carries one tool's (uncompacted) result.
type ToolCallResponseEvent struct {
	Type     string                `json:"type"`
	ToolCall tools.ToolCall        `json:"tool_call"`
	Result   *tools.ToolCallResult `json:"result"`
}

func ToolCallResponse(toolCall tools.ToolCall, result *tools.ToolCallResult) Event {
	return &ToolCallResponseEvent{Type: "tool_call_response", ToolCall: toolCall, Result: result}
}

func (e *ToolCallResponseEvent) isEvent() {}

// TokenUsageEvent reports provider token consumption for one round.
type TokenUsageEvent struct {
	Type  string      `json:"type"`
	Usage *chat.Usage `json:"usage"`
}

func TokenUsage(usage *chat.Usage) Event {
	return &TokenUsageEvent{Type: "token_usage", Usage: usage}
}

func (e *TokenUsageEvent) isEvent() {}

// ErrorEvent reports a terminal error.
type ErrorEvent struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func Error(msg string) Event {
	return &ErrorEvent{Type: "error", Error: msg}
}

func (e *ErrorEvent) isEvent() {}

// MaxIterationsReachedEvent is emitted when the iteration ceiling
// terminates the loop.
type MaxIterationsReachedEvent struct {
	Type          string `json:"type"`
	MaxIterations int    `json:"max_iterations"`
}

func MaxIterationsReached(maxIterations int) Event {
	return &MaxIterationsReachedEvent{Type: "max_iterations_reached", MaxIterations: maxIterations}
}

func (e *MaxIterationsReachedEvent) isEvent() {}

// ExecutionCompleteEvent closes a streamed execution with the final
// result, success or not.
type ExecutionCompleteEvent struct {
	Type   string           `json:"type"`
	Result *ExecutionResult `json:"result"`
}

func ExecutionComplete(result *ExecutionResult) Event {
	return &ExecutionCompleteEvent{Type: "execution_complete", Result: result}
}

func (e *ExecutionCompleteEvent) isEvent() {}
