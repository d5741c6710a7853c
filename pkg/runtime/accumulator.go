package runtime

import (
	"sort"

	"github.com/google/uuid"
	"github.com/taskgrid/copilot/pkg/tools"
)

// toolCallAccumulator reassembles tool calls from streaming deltas.
// Fragments are grouped by the provider-assigned index; the name and
// id arrive on the first fragment, arguments drip in across chunks.
type toolCallAccumulator struct {
	calls map[int]*tools.ToolCall
	order []int
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: map[int]*tools.ToolCall{}}
}

func (a *toolCallAccumulator) Add(delta tools.ToolCall) {
	index := 0
	if delta.Index != nil {
		index = *delta.Index
	}
	call, ok := a.calls[index]
	if !ok {
		idx := index
		call = &tools.ToolCall{Index: &idx, Type: delta.Type}
		a.calls[index] = call
		a.order = append(a.order, index)
	}
	if delta.ID != "" {
		call.ID = delta.ID
	}
	if delta.Type != "" {
		call.Type = delta.Type
	}
	if delta.Function.Name != "" {
		call.Function.Name = delta.Function.Name
	}
	call.Function.Arguments += delta.Function.Arguments
}

// Partial returns the in-progress view of one indexed call.
func (a *toolCallAccumulator) Partial(index int) (tools.ToolCall, bool) {
	call, ok := a.calls[index]
	if !ok {
		return tools.ToolCall{}, false
	}
	return *call, true
}

// Calls returns the completed calls in index order. Calls that never
// received an id get a synthetic one so tool messages can still bind.
func (a *toolCallAccumulator) Calls() []tools.ToolCall {
	sort.Ints(a.order)
	out := make([]tools.ToolCall, 0, len(a.order))
	for _, index := range a.order {
		call := *a.calls[index]
		if call.ID == "" {
			call.ID = "call_" + uuid.NewString()
		}
		if call.Type == "" {
			call.Type = "function"
		}
		out = append(out, call)
	}
	return out
}

func (a *toolCallAccumulator) Empty() bool {
	return len(a.calls) == 0
}
