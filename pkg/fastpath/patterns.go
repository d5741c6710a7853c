package fastpath

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/taskgrid/copilot/pkg/tools"
)

// tableSpecPatterns are the alternative phrasings of the "table with
// columns" shorthand. Tried in order; first hit wins.
var tableSpecPatterns = []*regexp.Regexp{
	// "create a table called Budget with columns Item and Cost"
	regexp.MustCompile(`(?i)\btable\s+(?:called|named)\s+(.+?)\s+with\s+(?:columns?\s+|fields?\s+)?(.+)$`),
	// "create a table named Leads: columns Name / Email / Stage"
	regexp.MustCompile(`(?i)\btable\s+(?:called|named)\s+(.+?)\s*:\s*(?:columns?|fields?)\s+(.+)$`),
	// "create a Leads table with columns Name, Email"
	regexp.MustCompile(`(?i)\b(?:create|add|make|build)\s+(?:a\s+|an\s+)?(.+?)\s+table\s+with\s+(?:columns?|fields?)\s*:?\s*(.+)$`),
}

// bareTableSpec is the "States with Name, Region, and Population"
// shorthand. The capitalized-title constraint and the delimiter
// requirement below keep it from swallowing ordinary sentences.
var bareTableSpec = regexp.MustCompile(`^([A-Z][\w' -]{0,40}?)\s+with\s+(.+)$`)

var columnDelimiter = regexp.MustCompile(`[,;/]|\s+and\s+`)

// ParseTableSpec extracts a table title and its column list from a
// command, if the command is the "table with columns" shorthand.
func ParseTableSpec(command string) (title string, columns []string, ok bool) {
	for _, re := range tableSpecPatterns {
		if matches := re.FindStringSubmatch(command); matches != nil {
			title = cleanTitle(matches[1])
			columns = parseColumns(matches[2])
			if title != "" && len(columns) > 0 {
				return title, columns, true
			}
		}
	}

	if matches := bareTableSpec.FindStringSubmatch(command); matches != nil {
		if !columnDelimiter.MatchString(matches[2]) {
			return "", nil, false
		}
		title = cleanTitle(matches[1])
		columns = parseColumns(matches[2])
		if title != "" && len(columns) > 0 {
			return title, columns, true
		}
	}

	return "", nil, false
}

// parseColumns splits a delimited column list: comma, semicolon or
// slash separated, with an optional "and"-joined tail.
func parseColumns(list string) []string {
	list = strings.TrimRight(strings.TrimSpace(list), ".!")

	var columns []string
	for _, part := range regexp.MustCompile(`[,;/]`).Split(list, -1) {
		for _, sub := range regexp.MustCompile(`\s+and\s+`).Split(part, -1) {
			sub = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(sub), "and "))
			if sub != "" {
				columns = append(columns, sub)
			}
		}
	}
	return columns
}

func cleanTitle(title string) string {
	title = strings.TrimSpace(title)
	title = strings.Trim(title, `"'`)
	return strings.TrimSpace(title)
}

type singleActionPattern struct {
	tool      string
	re        *regexp.Regexp
	arguments func(matches []string, execCtx tools.ExecutionContext) map[string]any
	respond   func(matches []string, res *tools.ToolCallResult) string
}

var singleActionPatterns = []singleActionPattern{
	{
		tool: "createTask",
		re:   regexp.MustCompile(`(?i)^(?:create|add|make)\s+(?:a\s+|an\s+)?(?:new\s+)?task\s+(?:called|named)\s+(.+)$`),
		arguments: func(matches []string, execCtx tools.ExecutionContext) map[string]any {
			args := map[string]any{"title": cleanTitle(matches[1])}
			if execCtx.CurrentProjectID != "" {
				args["projectId"] = execCtx.CurrentProjectID
			}
			return args
		},
		respond: func(matches []string, _ *tools.ToolCallResult) string {
			return fmt.Sprintf("Created task %q.", cleanTitle(matches[1]))
		},
	},
	{
		tool: "createProject",
		re:   regexp.MustCompile(`(?i)^(?:create|add|make)\s+(?:a\s+|an\s+)?(?:new\s+)?project\s+(?:called|named)\s+(.+)$`),
		arguments: func(matches []string, _ tools.ExecutionContext) map[string]any {
			return map[string]any{"name": cleanTitle(matches[1])}
		},
		respond: func(matches []string, _ *tools.ToolCallResult) string {
			return fmt.Sprintf("Created project %q.", cleanTitle(matches[1]))
		},
	},
	{
		tool: "createTable",
		re:   regexp.MustCompile(`(?i)^(?:create|add|make)\s+(?:a\s+|an\s+)?(?:new\s+)?table\s+(?:called|named)\s+(.+)$`),
		arguments: func(matches []string, execCtx tools.ExecutionContext) map[string]any {
			args := map[string]any{"title": cleanTitle(matches[1])}
			if execCtx.CurrentTabID != "" {
				args["tabId"] = execCtx.CurrentTabID
			}
			return args
		},
		respond: func(matches []string, _ *tools.ToolCallResult) string {
			return fmt.Sprintf("Created table %q.", cleanTitle(matches[1]))
		},
	},
	{
		tool: "searchTasks",
		re:   regexp.MustCompile(`(?i)^(?:list|show)\s+(?:all\s+|my\s+)?tasks$`),
		arguments: func(_ []string, _ tools.ExecutionContext) map[string]any {
			return map[string]any{}
		},
		respond: func(_ []string, res *tools.ToolCallResult) string {
			n := countItems(res.Data, "tasks", "items", "results")
			if n == 0 {
				return "No tasks found."
			}
			return fmt.Sprintf("Found %d %s.", n, plural(n, "task"))
		},
	},
	{
		tool: "searchProjects",
		re:   regexp.MustCompile(`(?i)^(?:list|show)\s+(?:all\s+|my\s+)?projects$`),
		arguments: func(_ []string, _ tools.ExecutionContext) map[string]any {
			return map[string]any{}
		},
		respond: func(_ []string, res *tools.ToolCallResult) string {
			n := countItems(res.Data, "projects", "items", "results")
			if n == 0 {
				return "No projects found."
			}
			return fmt.Sprintf("Found %d %s.", n, plural(n, "project"))
		},
	},
}

// countItems reads a result count from the recognized fields: a
// "count" number, or the length of the first recognized array key.
func countItems(data any, keys ...string) int {
	obj, ok := data.(map[string]any)
	if !ok {
		if arr, ok := data.([]any); ok {
			return len(arr)
		}
		return 0
	}
	if c, ok := obj["count"].(float64); ok {
		return int(c)
	}
	if c, ok := obj["count"].(int); ok {
		return c
	}
	for _, key := range keys {
		if arr, ok := obj[key].([]any); ok {
			return len(arr)
		}
	}
	return 0
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
