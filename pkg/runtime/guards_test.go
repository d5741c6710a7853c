package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskgrid/copilot/pkg/tools"
)

func TestRepeatGuard(t *testing.T) {
	t.Parallel()

	g := newRepeatGuard(2)

	assert.False(t, g.Observe("createTask", `{"title":"a"}`))
	assert.True(t, g.Observe("createTask", `{"title":"a"}`), "second identical call hits the threshold")

	assert.False(t, g.Observe("createTask", `{"title":"b"}`), "different arguments are a different call")
}

func TestRepeatGuard_InterveningCallResets(t *testing.T) {
	t.Parallel()

	g := newRepeatGuard(2)

	assert.False(t, g.Observe("updateTask", `{"taskId":"t-1"}`))
	assert.False(t, g.Observe("updateTask", `{"taskId":"t-2"}`))
	assert.False(t, g.Observe("updateTask", `{"taskId":"t-1"}`), "non-consecutive repeats are allowed")
	assert.True(t, g.Observe("updateTask", `{"taskId":"t-1"}`))
}

func TestRepeatGuard_SearchExempt(t *testing.T) {
	t.Parallel()

	g := newRepeatGuard(2)
	for i := 0; i < 5; i++ {
		assert.False(t, g.Observe("searchTasks", `{"query":"x"}`))
		assert.False(t, g.Observe("requestCapabilities", `{}`))
	}
}

func TestErrorTracker_ResetOnSuccess(t *testing.T) {
	t.Parallel()

	tr := newErrorTracker(3)
	fail := tools.ResultError("boom")
	ok := tools.ResultSuccess(nil)

	assert.False(t, tr.Observe("updateTask", fail))
	assert.False(t, tr.Observe("updateTask", fail))
	assert.False(t, tr.Observe("updateTask", ok), "success resets the streak")
	assert.False(t, tr.Observe("updateTask", fail))
	assert.False(t, tr.Observe("updateTask", fail))
	assert.True(t, tr.Observe("updateTask", fail))
}

func TestErrorTracker_PerTool(t *testing.T) {
	t.Parallel()

	tr := newErrorTracker(3)
	fail := tools.ResultError("boom")

	assert.False(t, tr.Observe("updateTask", fail))
	assert.False(t, tr.Observe("deleteTask", fail))
	assert.False(t, tr.Observe("updateTask", fail))
	assert.False(t, tr.Observe("deleteTask", fail))
	assert.True(t, tr.Observe("updateTask", fail), "streaks are counted per tool")
}

func TestBatchTracker(t *testing.T) {
	t.Parallel()

	b := newBatchTracker()
	b.ObserveSearch(tools.ResultSuccess(map[string]any{
		"tasks": []any{
			map[string]any{"taskId": "t-1"},
			map[string]any{"taskId": "t-2"},
			map[string]any{"id": "t-3"},
		},
	}))

	assert.Nil(t, b.Missing(), "no updates yet means no batch in progress")

	b.ObserveUpdate(map[string]any{"taskId": "t-1"})
	assert.ElementsMatch(t, []string{"t-2", "t-3"}, b.Missing())

	b.ObserveUpdate(map[string]any{"taskIds": []any{"t-2", "t-3"}})
	assert.Empty(t, b.Missing())
}

func TestBatchTracker_SingleResultIgnored(t *testing.T) {
	t.Parallel()

	b := newBatchTracker()
	b.ObserveSearch(tools.ResultSuccess(map[string]any{
		"tasks": []any{map[string]any{"taskId": "t-1"}},
	}))
	b.ObserveUpdate(map[string]any{"taskId": "t-9"})

	assert.Empty(t, b.Missing(), "a single search hit is not a batch")
}
