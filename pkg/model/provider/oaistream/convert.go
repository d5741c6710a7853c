package oaistream

import (
	"encoding/json"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/tools"
)

// ConvertMessages converts chat.Message to the SDK message shape.
func ConvertMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i := range messages {
		msg := &messages[i]
		openaiMessage := openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Name:    msg.Name,
			Content: msg.Content,
		}

		if len(msg.ToolCalls) > 0 {
			openaiMessage.ToolCalls = make([]openai.ToolCall, len(msg.ToolCalls))
			for j, toolCall := range msg.ToolCalls {
				openaiMessage.ToolCalls[j] = openai.ToolCall{
					ID:   toolCall.ID,
					Type: openai.ToolType(toolCall.Type),
					Function: openai.FunctionCall{
						Name:      toolCall.Function.Name,
						Arguments: toolCall.Function.Arguments,
					},
				}
			}
		}

		if msg.ToolCallID != "" {
			openaiMessage.ToolCallID = msg.ToolCallID
		}

		openaiMessages[i] = openaiMessage
	}
	return openaiMessages
}

// ConvertTools converts the tool schemas to the SDK shape.
func ConvertTools(requestTools []tools.Tool) []openai.Tool {
	openaiTools := make([]openai.Tool, len(requestTools))
	for i, tool := range requestTools {
		openaiTools[i] = openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				Parameters:  tool.Function.Parameters,
			},
		}
		if len(tool.Function.Parameters.Properties) == 0 {
			openaiTools[i].Function.Parameters = json.RawMessage(`{"type":"object","properties":{}}`)
		}
	}
	return openaiTools
}

// ConvertCompletion converts a non-streaming SDK response choice into
// the normalized completion.
func ConvertCompletion(response *openai.ChatCompletionResponse) *chat.Completion {
	completion := &chat.Completion{
		Usage: &chat.Usage{
			InputTokens:  response.Usage.PromptTokens,
			OutputTokens: response.Usage.CompletionTokens,
		},
	}
	if len(response.Choices) == 0 {
		return completion
	}

	choice := response.Choices[0]
	completion.Content = choice.Message.Content
	for _, toolCall := range choice.Message.ToolCalls {
		completion.ToolCalls = append(completion.ToolCalls, tools.ToolCall{
			ID:   toolCall.ID,
			Type: tools.ToolType(toolCall.Type),
			Function: tools.FunctionCall{
				Name:      toolCall.Function.Name,
				Arguments: toolCall.Function.Arguments,
			},
		})
	}
	return completion
}
