package tools

import (
	"encoding/json"
	"log/slog"
)

// ParseArguments decodes a tool call's argument text. Model output is
// untrusted: truncated or invalid JSON degrades to an empty argument
// map so a bad round never aborts the loop. The tool itself is
// expected to reject missing required fields with a validation error.
func ParseArguments(arguments string) map[string]any {
	if arguments == "" {
		return map[string]any{}
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(arguments), &parsed); err != nil {
		slog.Warn("Failed to parse tool call arguments, using empty object", "error", err, "length", len(arguments))
		return map[string]any{}
	}
	if parsed == nil {
		return map[string]any{}
	}
	return parsed
}

// MarshalArguments renders an argument map back to canonical JSON
// text, for synthetic tool calls built outside the model.
func MarshalArguments(arguments map[string]any) string {
	if len(arguments) == 0 {
		return "{}"
	}
	data, err := json.Marshal(arguments)
	if err != nil {
		slog.Warn("Failed to marshal tool arguments", "error", err)
		return "{}"
	}
	return string(data)
}
