package runtime

import (
	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/tools"
)

// contextFills maps argument names the model commonly omits to the
// execution-context field that supplies them.
func contextFills(execCtx tools.ExecutionContext) map[string]string {
	return map[string]string{
		"projectId": execCtx.CurrentProjectID,
		"tabId":     execCtx.CurrentTabID,
		"tableId":   execCtx.CurrentTableID,
		"blockId":   execCtx.CurrentBlockID,
	}
}

// autofillArguments fills missing location arguments from the
// execution context when the tool's schema declares them. Arguments
// the model supplied are never overwritten.
func autofillArguments(registry *catalog.Registry, name string, args map[string]any, execCtx tools.ExecutionContext) map[string]any {
	tool, ok := registry.Tool(name)
	if !ok {
		return args
	}
	fills := contextFills(execCtx)
	for prop := range tool.Function.Parameters.Properties {
		value, fillable := fills[prop]
		if !fillable || value == "" {
			continue
		}
		if existing, present := args[prop]; present {
			if s, isString := existing.(string); !isString || s != "" {
				continue
			}
		}
		args[prop] = value
	}
	return args
}

// harvestSearchIDs supplies task ids collected from earlier search
// rounds to tools that consume a taskIds list but got none.
func harvestSearchIDs(name string, args map[string]any, records []tools.ToolCallRecord) map[string]any {
	if name != "createBoardFromTasks" && name != "bulkUpdateTasks" {
		return args
	}
	if raw, present := args["taskIds"]; present {
		if list, ok := raw.([]any); ok && len(list) > 0 {
			return args
		}
	}
	var ids []string
	for _, record := range records {
		if !catalog.IsSearchLike(record.Tool) {
			continue
		}
		ids = append(ids, harvestTaskIDs(record.Result)...)
	}
	if len(ids) == 0 {
		return args
	}
	list := make([]any, 0, len(ids))
	for _, id := range ids {
		list = append(list, id)
	}
	args["taskIds"] = list
	return args
}
