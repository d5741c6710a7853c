// Package compact bounds tool results before they are echoed back
// into the conversation, to control prompt growth. The compacted copy
// is only ever used for the message list; the caller-facing audit
// record always keeps the untruncated result.
package compact

import (
	"fmt"
	"sort"

	"github.com/taskgrid/copilot/pkg/tools"
)

// Caps are the size bounds applied during compaction.
type Caps struct {
	MaxStringLen  int `yaml:"max_string_len"`
	MaxArrayItems int `yaml:"max_array_items"`
	MaxObjectKeys int `yaml:"max_object_keys"`
	MaxDepth      int `yaml:"max_depth"`
}

// DefaultCaps are tuned so a typical search result fits in a few
// hundred tokens.
func DefaultCaps() Caps {
	return Caps{
		MaxStringLen:  400,
		MaxArrayItems: 20,
		MaxObjectKeys: 25,
		MaxDepth:      5,
	}
}

const truncationMarker = "... [truncated]"

// Result returns a bounded copy of res. The top-level Success, Error
// and Hint fields pass through untouched; only Data is compacted.
// Compaction is pure and idempotent: compacting twice with the same
// caps yields the same value.
func Result(res *tools.ToolCallResult, caps Caps) *tools.ToolCallResult {
	if res == nil {
		return nil
	}
	return &tools.ToolCallResult{
		Success: res.Success,
		Data:    Value(res.Data, caps),
		Error:   res.Error,
		Hint:    res.Hint,
	}
}

// Value recursively bounds an arbitrary JSON-shaped value.
func Value(v any, caps Caps) any {
	return compactValue(v, caps, 0)
}

func compactValue(v any, caps Caps, depth int) any {
	switch val := v.(type) {
	case string:
		return compactString(val, caps.MaxStringLen)

	case []any:
		if depth >= caps.MaxDepth {
			return fmt.Sprintf("[array of %d items]", len(val))
		}
		return compactArray(val, caps, depth)

	case map[string]any:
		if depth >= caps.MaxDepth {
			return fmt.Sprintf("[object with %d keys]", len(val))
		}
		return compactObject(val, caps, depth)

	default:
		return v
	}
}

func compactString(s string, maxLen int) string {
	// Truncating only when the marker still shortens the value keeps
	// the transformation size-monotonic and idempotent.
	if maxLen <= 0 || len(s) <= maxLen+len(truncationMarker) {
		return s
	}
	return s[:maxLen] + truncationMarker
}

func compactArray(arr []any, caps Caps, depth int) []any {
	// Same idempotency rule as strings: only truncate when the marker
	// element still shrinks the array.
	limit := caps.MaxArrayItems
	if limit <= 0 || len(arr) <= limit+1 {
		out := make([]any, len(arr))
		for i, item := range arr {
			out[i] = compactValue(item, caps, depth+1)
		}
		return out
	}

	out := make([]any, 0, limit+1)
	for _, item := range arr[:limit] {
		out = append(out, compactValue(item, caps, depth+1))
	}
	out = append(out, fmt.Sprintf("... (+%d more items)", len(arr)-limit))
	return out
}

func compactObject(obj map[string]any, caps Caps, depth int) map[string]any {
	limit := caps.MaxObjectKeys
	if limit <= 0 || len(obj) <= limit+1 {
		out := make(map[string]any, len(obj))
		for k, v := range obj {
			out[k] = compactValue(v, caps, depth+1)
		}
		return out
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, limit+1)
	for _, k := range keys[:limit] {
		out[k] = compactValue(obj[k], caps, depth+1)
	}
	out["_truncated"] = fmt.Sprintf("%d more keys omitted", len(obj)-limit)
	return out
}
