// Package httpexec dispatches tool calls to the workspace backend
// over HTTP. The backend owns validation and persistence; this client
// only moves the call across the wire.
package httpexec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taskgrid/copilot/pkg/httpclient"
	"github.com/taskgrid/copilot/pkg/tools"
)

const executePath = "/v1/tools/execute"

// Executor posts tool calls to a backend endpoint.
type Executor struct {
	baseURL string
	client  *http.Client
}

type executeRequest struct {
	Name      string                 `json:"name"`
	Arguments map[string]any         `json:"arguments"`
	Context   tools.ExecutionContext `json:"context"`
}

func New(baseURL string) *Executor {
	return NewWithClient(baseURL, httpclient.New())
}

func NewWithClient(baseURL string, client *http.Client) *Executor {
	return &Executor{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// ExecuteTool sends one call and decodes the backend's result. A
// transport failure is an error; a tool-level failure comes back as an
// unsuccessful result so the conversation loop can react to it.
func (e *Executor) ExecuteTool(ctx context.Context, name string, arguments map[string]any, execCtx tools.ExecutionContext) (*tools.ToolCallResult, error) {
	body, err := json.Marshal(executeRequest{
		Name:      name,
		Arguments: arguments,
		Context:   execCtx,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding tool call %s: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+executePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building tool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing tool %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("reading tool response for %s: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Warn("Tool backend returned error status", "tool", name, "status", resp.StatusCode)
		return nil, fmt.Errorf("tool %s: backend returned %s", name, resp.Status)
	}

	var result tools.ToolCallResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding tool response for %s: %w", name, err)
	}
	return &result, nil
}
