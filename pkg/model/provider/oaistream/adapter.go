// Package oaistream is the shared adapter for OpenAI-compatible
// streams.
package oaistream

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/tools"
)

// StreamAdapter converts SDK stream chunks into the normalized chat
// shape. Tool-call ids only arrive on the first fragment of each
// index, so the adapter remembers them per index.
type StreamAdapter struct {
	stream    *openai.ChatCompletionStream
	toolCalls map[int]string
}

func New(stream *openai.ChatCompletionStream) *StreamAdapter {
	return &StreamAdapter{
		stream:    stream,
		toolCalls: make(map[int]string),
	}
}

// Recv gets the next completion chunk.
func (a *StreamAdapter) Recv() (chat.MessageStreamResponse, error) {
	openaiResponse, err := a.stream.Recv()
	if err != nil {
		return chat.MessageStreamResponse{}, err
	}

	response := chat.MessageStreamResponse{
		ID:      openaiResponse.ID,
		Model:   openaiResponse.Model,
		Choices: make([]chat.MessageStreamChoice, len(openaiResponse.Choices)),
	}

	if openaiResponse.Usage != nil {
		response.Usage = &chat.Usage{
			InputTokens:  openaiResponse.Usage.PromptTokens,
			OutputTokens: openaiResponse.Usage.CompletionTokens,
		}
	}

	for i := range openaiResponse.Choices {
		choice := &openaiResponse.Choices[i]
		response.Choices[i] = chat.MessageStreamChoice{
			Index:        choice.Index,
			FinishReason: chat.FinishReason(choice.FinishReason),
			Delta: chat.MessageDelta{
				Role:    choice.Delta.Role,
				Content: choice.Delta.Content,
			},
		}

		if len(choice.Delta.ToolCalls) == 0 {
			continue
		}

		response.Choices[i].Delta.ToolCalls = make([]tools.ToolCall, len(choice.Delta.ToolCalls))
		for j, toolCall := range choice.Delta.ToolCalls {
			id := toolCall.ID
			if toolCall.Index != nil {
				if existing, ok := a.toolCalls[*toolCall.Index]; ok && id == "" {
					id = existing
				} else if id != "" {
					a.toolCalls[*toolCall.Index] = id
				}
			}

			var index *int
			if toolCall.Index != nil {
				idx := *toolCall.Index
				index = &idx
			}

			response.Choices[i].Delta.ToolCalls[j] = tools.ToolCall{
				Index: index,
				ID:    id,
				Type:  tools.ToolType(toolCall.Type),
				Function: tools.FunctionCall{
					Name:      toolCall.Function.Name,
					Arguments: toolCall.Function.Arguments,
				},
			}
		}
	}

	return response, nil
}

// Close closes the stream.
func (a *StreamAdapter) Close() {
	a.stream.Close()
}
