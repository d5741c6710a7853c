// Package deepseek is the DeepSeek provider adapter. DeepSeek speaks
// the OpenAI wire shape, so the adapter reuses the shared SDK with
// its own endpoint and credential.
package deepseek

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/environment"
	"github.com/taskgrid/copilot/pkg/httpclient"
	"github.com/taskgrid/copilot/pkg/model/provider/oaistream"
	"github.com/taskgrid/copilot/pkg/tools"
)

const defaultBaseURL = "https://api.deepseek.com/v1"

type Client struct {
	client    *openai.Client
	config    *config.Config
	converter *oaistream.ToolConverter
}

func NewClient(cfg *config.Config, env environment.Provider) (*Client, error) {
	apiKey, _ := env.Get(context.Background(), "DEEPSEEK_API_KEY")
	if apiKey == "" {
		return nil, errors.New("DEEPSEEK_API_KEY environment variable is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	clientConfig.HTTPClient = httpclient.New()
	clientConfig.BaseURL = defaultBaseURL
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	slog.Debug("DeepSeek client created", "model", cfg.Model, "base_url", clientConfig.BaseURL)
	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		config:    cfg,
		converter: oaistream.NewToolConverter(),
	}, nil
}

func (c *Client) request(messages []chat.Message, requestTools []tools.Tool, maxTokens int, stream bool) (openai.ChatCompletionRequest, error) {
	if len(messages) == 0 {
		return openai.ChatCompletionRequest{}, errors.New("at least one message is required")
	}

	request := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    oaistream.ConvertMessages(messages),
		Temperature: float32(c.config.Temperature),
		Stream:      stream,
	}
	if maxTokens > 0 {
		request.MaxTokens = maxTokens
	}
	if len(requestTools) > 0 {
		// DeepSeek rejects the parallel_tool_calls flag; tools alone
		// already permit multiple calls per turn.
		request.Tools, _ = c.converter.Convert(requestTools)
	}
	return request, nil
}

func (c *Client) CreateChatCompletion(ctx context.Context, messages []chat.Message, requestTools []tools.Tool, maxTokens int) (*chat.Completion, error) {
	slog.Debug("Creating DeepSeek chat completion",
		"model", c.config.Model,
		"message_count", len(messages),
		"tool_count", len(requestTools),
		"max_tokens", maxTokens)

	request, err := c.request(messages, requestTools, maxTokens, false)
	if err != nil {
		return nil, err
	}

	response, err := c.client.CreateChatCompletion(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("deepseek chat completion: %w", err)
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("deepseek chat completion: empty choice list")
	}

	return oaistream.ConvertCompletion(&response), nil
}

func (c *Client) CreateChatCompletionStream(ctx context.Context, messages []chat.Message, requestTools []tools.Tool, maxTokens int) (chat.MessageStream, error) {
	slog.Debug("Creating DeepSeek chat completion stream",
		"model", c.config.Model,
		"message_count", len(messages),
		"tool_count", len(requestTools),
		"max_tokens", maxTokens)

	request, err := c.request(messages, requestTools, maxTokens, true)
	if err != nil {
		return nil, err
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("deepseek chat completion stream: %w", err)
	}
	return oaistream.New(stream), nil
}
