package httpexec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/tools"
)

func TestExecuteTool(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/tools/execute", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req executeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "createTask", req.Name)
		assert.Equal(t, "Standup", req.Arguments["title"])
		assert.Equal(t, "ws-1", req.Context.WorkspaceID)

		json.NewEncoder(w).Encode(tools.ResultSuccess(map[string]any{"taskId": "t-1"}))
	}))
	defer server.Close()

	exec := New(server.URL)
	result, err := exec.ExecuteTool(context.Background(), "createTask",
		map[string]any{"title": "Standup"},
		tools.ExecutionContext{WorkspaceID: "ws-1"})
	require.NoError(t, err)

	assert.True(t, result.Success)
	data := result.Data.(map[string]any)
	assert.Equal(t, "t-1", data["taskId"])
}

func TestExecuteTool_ToolFailurePassedThrough(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tools.ResultErrorHint("task not found", "Search for the task first."))
	}))
	defer server.Close()

	exec := New(server.URL)
	result, err := exec.ExecuteTool(context.Background(), "updateTask", map[string]any{"taskId": "bad"}, tools.ExecutionContext{})
	require.NoError(t, err, "a tool-level failure is not a transport error")

	assert.False(t, result.Success)
	assert.Equal(t, "task not found", result.Error)
	assert.Equal(t, "Search for the task first.", result.Hint)
}

func TestExecuteTool_BackendErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer server.Close()

	exec := New(server.URL)
	_, err := exec.ExecuteTool(context.Background(), "createTask", nil, tools.ExecutionContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestExecuteTool_ConnectionRefused(t *testing.T) {
	t.Parallel()

	exec := New("http://127.0.0.1:1")
	_, err := exec.ExecuteTool(context.Background(), "createTask", nil, tools.ExecutionContext{})
	require.Error(t, err)
}
