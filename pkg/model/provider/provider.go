// Package provider normalizes the LLM backends behind one
// request/response shape. Each backend owns request construction
// (messages, tool schema, token budget) and streaming reconstruction.
package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/environment"
	"github.com/taskgrid/copilot/pkg/model/provider/deepseek"
	"github.com/taskgrid/copilot/pkg/model/provider/openai"
	"github.com/taskgrid/copilot/pkg/tools"
)

// Provider is the chat-completion contract the orchestrator consumes.
// MaxTokens is the per-call token budget; implementations pass it
// through unchanged.
type Provider interface {
	CreateChatCompletion(
		ctx context.Context,
		messages []chat.Message,
		requestTools []tools.Tool,
		maxTokens int,
	) (*chat.Completion, error)

	// CreateChatCompletionStream delivers the same response as
	// incremental chunks over a persistent connection.
	CreateChatCompletionStream(
		ctx context.Context,
		messages []chat.Message,
		requestTools []tools.Tool,
		maxTokens int,
	) (chat.MessageStream, error)
}

// New builds the provider selected by configuration.
func New(cfg *config.Config, env environment.Provider) (Provider, error) {
	slog.Debug("Creating model provider", "type", cfg.Provider, "model", cfg.Model)

	switch cfg.Provider {
	case "openai":
		return openai.NewClient(cfg, env)
	case "deepseek":
		return deepseek.NewClient(cfg, env)
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider)
	}
}
