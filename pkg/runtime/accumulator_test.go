package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/tools"
)

func fragmentAt(index int, id, name, args string) tools.ToolCall {
	return tools.ToolCall{
		Index:    &index,
		ID:       id,
		Type:     "function",
		Function: tools.FunctionCall{Name: name, Arguments: args},
	}
}

func TestToolCallAccumulator_SingleCall(t *testing.T) {
	t.Parallel()

	acc := newToolCallAccumulator()
	acc.Add(fragmentAt(0, "call_1", "createTask", `{"ti`))
	acc.Add(fragmentAt(0, "", "", `tle":"x"}`))

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "createTask", calls[0].Function.Name)
	assert.JSONEq(t, `{"title":"x"}`, calls[0].Function.Arguments)
}

func TestToolCallAccumulator_Interleaved(t *testing.T) {
	t.Parallel()

	acc := newToolCallAccumulator()
	acc.Add(fragmentAt(1, "call_b", "updateTask", `{"taskId":`))
	acc.Add(fragmentAt(0, "call_a", "searchTasks", `{"query":"x"}`))
	acc.Add(fragmentAt(1, "", "", `"t-1"}`))

	calls := acc.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "searchTasks", calls[0].Function.Name)
	assert.Equal(t, "updateTask", calls[1].Function.Name)
	assert.JSONEq(t, `{"taskId":"t-1"}`, calls[1].Function.Arguments)
}

func TestToolCallAccumulator_SyntheticID(t *testing.T) {
	t.Parallel()

	acc := newToolCallAccumulator()
	acc.Add(fragmentAt(0, "", "createTask", `{}`))

	calls := acc.Calls()
	require.Len(t, calls, 1)
	assert.NotEmpty(t, calls[0].ID, "calls without an id get a synthetic one")
	assert.Equal(t, tools.ToolType("function"), calls[0].Type)
}

func TestToolCallAccumulator_Partial(t *testing.T) {
	t.Parallel()

	acc := newToolCallAccumulator()
	assert.True(t, acc.Empty())

	acc.Add(fragmentAt(0, "call_1", "createTask", `{"a`))
	partial, ok := acc.Partial(0)
	require.True(t, ok)
	assert.Equal(t, `{"a`, partial.Function.Arguments)
	assert.False(t, acc.Empty())

	_, ok = acc.Partial(7)
	assert.False(t, ok)
}
