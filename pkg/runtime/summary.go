package runtime

import (
	"fmt"
	"strings"

	"github.com/taskgrid/copilot/pkg/tools"
)

// synthesizeSummary builds a terse user-facing response from the tool
// calls made, for executions that skip the closing model round.
func synthesizeSummary(records []tools.ToolCallRecord) string {
	var parts []string
	for _, record := range records {
		if part := summarizeRecord(record); part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return "Done."
	}
	return strings.Join(parts, " ")
}

func summarizeRecord(record tools.ToolCallRecord) string {
	if record.Result == nil || !record.Result.Success {
		return ""
	}
	switch record.Tool {
	case "createTask":
		return fmt.Sprintf("Created task %q.", argString(record.Arguments, "title"))
	case "updateTask":
		return "Updated the task."
	case "bulkUpdateTasks":
		if n := updateCount(record.Arguments); n > 0 {
			return fmt.Sprintf("Updated %d %s.", n, plural(n, "task", "tasks"))
		}
		return "Updated the tasks."
	case "deleteTask":
		return "Deleted the task."
	case "createProject":
		return fmt.Sprintf("Created project %q.", argString(record.Arguments, "name"))
	case "createTable":
		return fmt.Sprintf("Created table %q.", argString(record.Arguments, "title"))
	case "createField":
		return fmt.Sprintf("Added field %q.", argString(record.Arguments, "name"))
	case "bulkCreateFields":
		if n := listCount(record.Arguments, "fields"); n > 0 {
			return fmt.Sprintf("Added %d %s.", n, plural(n, "field", "fields"))
		}
		return "Added the fields."
	case "createRow":
		return "Added a row."
	case "bulkCreateRows":
		if n := listCount(record.Arguments, "rows"); n > 0 {
			return fmt.Sprintf("Added %d %s.", n, plural(n, "row", "rows"))
		}
		return "Added the rows."
	case "createBoardFromTasks":
		if n := listCount(record.Arguments, "taskIds"); n > 0 {
			return fmt.Sprintf("Created a board from %d %s.", n, plural(n, "task", "tasks"))
		}
		return "Created the board."
	case "createDoc":
		return fmt.Sprintf("Created doc %q.", argString(record.Arguments, "title"))
	case "createTimeline":
		return "Created the timeline."
	case "searchTasks", "searchProjects", "searchTables", "searchDocs", "searchFiles", "searchWorkspace":
		if n := resultCount(record.Result); n >= 0 {
			noun := strings.ToLower(strings.TrimPrefix(record.Tool, "search"))
			if n == 0 {
				return fmt.Sprintf("No %s found.", noun)
			}
			return fmt.Sprintf("Found %d %s.", n, noun)
		}
		return ""
	default:
		return ""
	}
}

func argString(args map[string]any, key string) string {
	if s, ok := stringArg(args, key); ok {
		return s
	}
	return "untitled"
}

func listCount(args map[string]any, key string) int {
	raw, ok := args[key]
	if !ok {
		return 0
	}
	list, ok := raw.([]any)
	if !ok {
		return 0
	}
	return len(list)
}

func updateCount(args map[string]any) int {
	if n := listCount(args, "taskIds"); n > 0 {
		return n
	}
	return listCount(args, "updates")
}

// resultCount reads a count out of a search result, returning -1 when
// the shape is unrecognized.
func resultCount(result *tools.ToolCallResult) int {
	data, ok := result.Data.(map[string]any)
	if !ok {
		if list, ok := result.Data.([]any); ok {
			return len(list)
		}
		return -1
	}
	switch count := data["count"].(type) {
	case float64:
		return int(count)
	case int:
		return count
	}
	for _, raw := range data {
		if list, ok := raw.([]any); ok {
			return len(list)
		}
	}
	return -1
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
