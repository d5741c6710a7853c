// Package toolset computes the minimal tool schema set to expose to
// the model for one turn, and caches the formatted schema payloads.
package toolset

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/intent"
	"github.com/taskgrid/copilot/pkg/tools"
)

// Selector narrows the tool catalog to the classified intent. It is
// safe for concurrent use: the registry is read-only.
type Selector struct {
	registry     *catalog.Registry
	trimToIntent bool
}

func New(registry *catalog.Registry, trimToIntent bool) *Selector {
	return &Selector{
		registry:     registry,
		trimToIntent: trimToIntent,
	}
}

// Select computes the tool list for this turn. The core set is always
// included regardless of classification: the model must always be
// able to look things up and ask for more capabilities.
func (s *Selector) Select(cls intent.Classification, command string) []tools.Tool {
	names := make([]string, 0, 16)
	seen := make(map[string]bool)

	add := func(toolNames ...string) {
		for _, name := range toolNames {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}

	add(s.registry.Group(catalog.GroupCore)...)
	for _, g := range cls.Groups {
		if g != catalog.GroupCore {
			add(s.registry.Group(g)...)
		}
	}

	if s.trimToIntent && s.purelyTableOriented(cls) {
		names = s.narrowToTables(names, command)
	}

	names = s.narrowToSingleAction(names, cls)

	selected := make([]tools.Tool, 0, len(names))
	for _, name := range names {
		if t, ok := s.registry.Tool(name); ok {
			selected = append(selected, t)
		}
	}

	slog.Debug("Selected tool schemas", "count", len(selected), "confidence", cls.Confidence, "groups", cls.Groups)
	return selected
}

func (s *Selector) purelyTableOriented(cls intent.Classification) bool {
	if cls.Confidence < 0.85 || !cls.HasGroup(catalog.GroupTables) {
		return false
	}
	for _, g := range cls.Groups {
		if g != catalog.GroupCore && g != catalog.GroupTables {
			return false
		}
	}
	return true
}

// narrowToTables drops the non-table entity search tools, re-adding
// one only when its entity keyword literally appears in the command.
// Purely a payload optimization: the escalation tool stays, so a
// wrong trim is recoverable.
func (s *Selector) narrowToTables(names []string, command string) []string {
	entityOfSearch := map[string]string{
		"searchTasks":    "task",
		"searchProjects": "project",
		"searchDocs":     "doc",
		"searchFiles":    "file",
	}

	out := names[:0]
	for _, name := range names {
		entity, narrowable := entityOfSearch[name]
		if !narrowable || intent.MentionsEntity(command, entity) {
			out = append(out, name)
		}
	}
	return out
}

// narrowToSingleAction is the most aggressive trim: with exactly one
// non-core group and exactly one write action detected confidently,
// only the tools registered for that (action, entity) pair keep their
// write capability. Search and control tools always survive, and the
// escalation tool is never removed.
func (s *Selector) narrowToSingleAction(names []string, cls intent.Classification) []string {
	if cls.Confidence < 0.85 || len(cls.Actions) != 1 {
		return names
	}
	action := catalog.Action(cls.Actions[0])
	switch action {
	case catalog.ActionCreate, catalog.ActionUpdate, catalog.ActionDelete:
	default:
		return names
	}

	var group catalog.Group
	for _, g := range cls.Groups {
		if g == catalog.GroupCore {
			continue
		}
		if group != "" {
			return names // more than one non-core group
		}
		group = g
	}
	if group == "" {
		return names
	}

	allowed := make(map[string]bool)
	for _, name := range s.registry.ActionTools(action, group) {
		allowed[name] = true
	}
	if len(allowed) == 0 {
		return names
	}

	groupTools := make(map[string]bool)
	for _, name := range s.registry.Group(group) {
		groupTools[name] = true
	}

	out := names[:0]
	for _, name := range names {
		if name == catalog.EscalationTool || !groupTools[name] || !catalog.IsWrite(name) || allowed[name] {
			out = append(out, name)
		}
	}
	return out
}

// Signature is the cache key for a tool selection: the sorted tool
// names joined.
func Signature(selected []tools.Tool) string {
	names := make([]string, 0, len(selected))
	for _, t := range selected {
		names = append(names, t.Name())
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
