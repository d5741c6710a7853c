package intent

import (
	"regexp"

	"github.com/taskgrid/copilot/pkg/catalog"
)

// specialPatterns are compound phrasings that short-circuit
// classification. Ordered; first match wins.
var specialPatterns = []struct {
	re         *regexp.Regexp
	groups     []catalog.Group
	actions    []string
	confidence float64
	reasoning  string
}{
	{
		re:         regexp.MustCompile(`(?:find|search|look up)\b.*\b(?:and|then)\b.*\borgani[sz]e\b.*\binto (?:a |an )?table`),
		groups:     []catalog.Group{catalog.GroupCore, catalog.GroupTables},
		actions:    []string{string(catalog.ActionSearch), string(catalog.ActionOrganize)},
		confidence: 0.95,
		reasoning:  "search-then-organize-into-table compound",
	},
	{
		re:         regexp.MustCompile(`\borgani[sz]e\b.*\binto (?:a |an )?table`),
		groups:     []catalog.Group{catalog.GroupCore, catalog.GroupTables},
		actions:    []string{string(catalog.ActionOrganize)},
		confidence: 0.9,
		reasoning:  "organize-into-table compound",
	},
	{
		re:         regexp.MustCompile(`(?:create|make|build)\b.*\b(?:board|kanban)\b.*\bfrom\b`),
		groups:     []catalog.Group{catalog.GroupCore, catalog.GroupTasks},
		actions:    []string{string(catalog.ActionSearch), string(catalog.ActionCreate)},
		confidence: 0.9,
		reasoning:  "board-from-tasks compound",
	},
	{
		re:         regexp.MustCompile(`(?:put|turn)\b.*\b(?:tasks?|results?)\b.*\b(?:on|into) (?:a |an )?timeline`),
		groups:     []catalog.Group{catalog.GroupCore, catalog.GroupTimelines},
		actions:    []string{string(catalog.ActionSearch), string(catalog.ActionOrganize)},
		confidence: 0.9,
		reasoning:  "tasks-onto-timeline compound",
	},
}

// entityOrder keeps detection deterministic.
var entityOrder = []string{
	"task", "project", "table", "timeline", "block", "tab",
	"doc", "file", "client", "workspace", "commerce",
}

var entityPatterns = map[string]*regexp.Regexp{
	"task":      regexp.MustCompile(`\b(?:tasks?|todos?|to-dos?)\b`),
	"project":   regexp.MustCompile(`\bprojects?\b`),
	"table":     regexp.MustCompile(`\b(?:tables?|spreadsheets?|grids?)\b`),
	"timeline":  regexp.MustCompile(`\b(?:timelines?|gantt|schedules?)\b`),
	"block":     regexp.MustCompile(`\bblocks?\b`),
	"tab":       regexp.MustCompile(`\btabs?\b`),
	"doc":       regexp.MustCompile(`\b(?:docs?|documents?|notes?)\b`),
	"file":      regexp.MustCompile(`\b(?:files?|attachments?|uploads?)\b`),
	"client":    regexp.MustCompile(`\b(?:clients?|customers?)\b`),
	"workspace": regexp.MustCompile(`\bworkspaces?\b`),
	"commerce":  regexp.MustCompile(`\b(?:products?|catalog|inventory)\b`),
}

var actionPatterns = []struct {
	action catalog.Action
	re     *regexp.Regexp
}{
	{catalog.ActionSearch, regexp.MustCompile(`\b(?:search|find|show|list|look up|which|what|where)\b`)},
	{catalog.ActionCreate, regexp.MustCompile(`\b(?:create|add|make|new|build|set up)\b`)},
	{catalog.ActionUpdate, regexp.MustCompile(`\b(?:update|change|rename|edit|move|mark|assign|complete|set)\b`)},
	{catalog.ActionDelete, regexp.MustCompile(`\b(?:delete|remove|clear|drop)\b`)},
	{catalog.ActionOrganize, regexp.MustCompile(`\b(?:organi[sz]e|group|sort|arrange)\b`)},
}

// writePhrasing guards the search-only shortcut: commands like "show
// and update" must not collapse to the core set.
var writePhrasing = regexp.MustCompile(`\b(?:create|add|make|update|change|delete|remove|rename|organi[sz]e|assign|mark)\b`)

func hasWritePhrasing(lower string) bool {
	return writePhrasing.MatchString(lower)
}

// incidentalProject matches "in the project", "of my project" and the
// like: the project is context, not the target of the command.
var incidentalProject = regexp.MustCompile(`\b(?:in|inside|within|of|from|on)\s+(?:the|this|my|our|that)\s+project`)

func projectIsIncidental(lower string) bool {
	if !incidentalProject.MatchString(lower) {
		return false
	}
	// Strip the incidental mention; if no project reference remains,
	// the entity was context only.
	stripped := incidentalProject.ReplaceAllString(lower, "")
	return !entityPatterns["project"].MatchString(stripped)
}
