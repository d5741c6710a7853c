package openai

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/chat"
	"github.com/taskgrid/copilot/pkg/config"
	"github.com/taskgrid/copilot/pkg/environment"
	"github.com/taskgrid/copilot/pkg/tools"
)

func testEnv() environment.Provider {
	return environment.NewMapProvider(map[string]string{"OPENAI_API_KEY": "test-key"})
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.BaseURL = baseURL
	return cfg
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()
	_, err := NewClient(config.Default(), environment.NewMapProvider(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestCreateChatCompletionParsesToolCalls(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, req["tools"])

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_1",
						"type": "function",
						"function": {"name": "searchTasks", "arguments": "{\"query\":\"overdue\"}"}
					}]
				}
			}],
			"usage": {"prompt_tokens": 20, "completion_tokens": 10}
		}`)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL+"/v1"), testEnv())
	require.NoError(t, err)

	registry := catalog.NewRegistry()
	searchTasks, _ := registry.Tool("searchTasks")

	completion, err := client.CreateChatCompletion(t.Context(),
		[]chat.Message{chat.UserMessage("find overdue tasks")},
		[]tools.Tool{searchTasks}, 512)
	require.NoError(t, err)

	require.Len(t, completion.ToolCalls, 1)
	assert.Equal(t, "searchTasks", completion.ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"overdue"}`, completion.ToolCalls[0].Function.Arguments)
	assert.Equal(t, 20, completion.Usage.InputTokens)
}

func TestCreateChatCompletionEmptyChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices": []}`)
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL+"/v1"), testEnv())
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(t.Context(), []chat.Message{chat.UserMessage("hi")}, nil, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choice list")
}

func TestCreateChatCompletionRequiresMessages(t *testing.T) {
	t.Parallel()
	client, err := NewClient(testConfig("http://localhost:0/v1"), testEnv())
	require.NoError(t, err)

	_, err = client.CreateChatCompletion(t.Context(), nil, nil, 0)
	require.Error(t, err)
}

func TestRequestReusesConvertedTools(t *testing.T) {
	t.Parallel()
	client, err := NewClient(testConfig("http://localhost:0/v1"), testEnv())
	require.NoError(t, err)

	registry := catalog.NewRegistry()
	searchTasks, _ := registry.Tool("searchTasks")
	selection := []tools.Tool{searchTasks}

	first, err := client.request([]chat.Message{chat.UserMessage("hi")}, selection, 0, false)
	require.NoError(t, err)
	require.NotEmpty(t, first.Tools)

	_, cached := client.converter.Convert(selection)
	assert.True(t, cached, "building a request must populate the schema cache")

	second, err := client.request([]chat.Message{chat.UserMessage("again")}, selection, 0, true)
	require.NoError(t, err)
	assert.Equal(t, first.Tools, second.Tools)
}

func TestCreateChatCompletionStream(t *testing.T) {
	t.Parallel()
	chunks := []string{
		`{"id":"c1","choices":[{"index":0,"delta":{"role":"assistant","tool_calls":[{"index":0,"id":"call_1","type":"function","function":{"name":"createTask","arguments":"{\"ti"}}]},"finish_reason":null}]}`,
		`{"id":"c1","choices":[{"index":0,"delta":{"tool_calls":[{"index":0,"function":{"arguments":"tle\":\"Review\"}"}}]},"finish_reason":null}]}`,
		`{"id":"c1","choices":[{"index":0,"delta":{},"finish_reason":"tool_calls"}]}`,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", chunk)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL+"/v1"), testEnv())
	require.NoError(t, err)

	stream, err := client.CreateChatCompletionStream(t.Context(), []chat.Message{chat.UserMessage("create a task")}, nil, 256)
	require.NoError(t, err)
	defer stream.Close()

	var name, args string
	for {
		resp, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		for _, choice := range resp.Choices {
			for _, tc := range choice.Delta.ToolCalls {
				name += tc.Function.Name
				args += tc.Function.Arguments
			}
		}
	}

	assert.Equal(t, "createTask", name)
	assert.JSONEq(t, `{"title":"Review"}`, args)
}
