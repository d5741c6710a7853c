package chat

import (
	"github.com/taskgrid/copilot/pkg/tools"
)

// MessageRole is the role of a conversation message.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
)

// Message is one entry of the conversation sent to the model. The
// sequence is append-only within a single command execution.
type Message struct {
	Role       MessageRole      `json:"role"`
	Content    string           `json:"content"`
	Name       string           `json:"name,omitempty"`
	ToolCalls  []tools.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string           `json:"tool_call_id,omitempty"`
	CreatedAt  string           `json:"created_at,omitempty"`
}

func SystemMessage(content string) Message {
	return Message{Role: MessageRoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: MessageRoleUser, Content: content}
}

func AssistantMessage(content string, toolCalls []tools.ToolCall) Message {
	return Message{Role: MessageRoleAssistant, Content: content, ToolCalls: toolCalls}
}

// ToolMessage carries a tool result back into the conversation,
// bound to the assistant tool call that requested it.
func ToolMessage(toolCallID, name, content string) Message {
	return Message{Role: MessageRoleTool, Content: content, Name: name, ToolCallID: toolCallID}
}

// Completion is a fully-assembled (non-streaming) model response.
type Completion struct {
	Content   string           `json:"content"`
	ToolCalls []tools.ToolCall `json:"tool_calls,omitempty"`
	Usage     *Usage           `json:"usage,omitempty"`
}

// Usage reports token consumption for one model call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// FinishReason mirrors the provider's finish reason for a choice.
type FinishReason string

const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonToolCalls FinishReason = "tool_calls"
	FinishReasonLength    FinishReason = "length"
	FinishReasonNull      FinishReason = "null"
)

// MessageDelta is the incremental part of a streaming choice.
type MessageDelta struct {
	Role      string           `json:"role,omitempty"`
	Content   string           `json:"content,omitempty"`
	ToolCalls []tools.ToolCall `json:"tool_calls,omitempty"`
}

// MessageStreamChoice is one choice within a streaming chunk.
type MessageStreamChoice struct {
	Index        int          `json:"index"`
	Delta        MessageDelta `json:"delta"`
	FinishReason FinishReason `json:"finish_reason"`
}

// MessageStreamResponse is a normalized streaming chunk, shared by
// all providers.
type MessageStreamResponse struct {
	ID      string                `json:"id"`
	Model   string                `json:"model"`
	Choices []MessageStreamChoice `json:"choices"`
	Usage   *Usage                `json:"usage,omitempty"`
}

// MessageStream is an open streaming response. Recv returns io.EOF
// once the stream is exhausted.
type MessageStream interface {
	Recv() (MessageStreamResponse, error)
	Close()
}
