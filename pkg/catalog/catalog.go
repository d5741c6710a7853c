// Package catalog holds the static tool-group configuration: which
// tools exist, which group each belongs to, and which tool serves a
// given (action, entity) pair. Tool definitions are static data; the
// registry never changes after construction, so concurrent readers
// are safe.
package catalog

import (
	"sort"
	"strings"

	"github.com/taskgrid/copilot/pkg/tools"
)

// Group is a named bundle of tools sharing a primary entity, the
// unit of capability narrowing.
type Group string

const (
	GroupCore      Group = "core"
	GroupTasks     Group = "tasks"
	GroupTables    Group = "tables"
	GroupProjects  Group = "projects"
	GroupTimelines Group = "timelines"
	GroupBlocks    Group = "blocks"
	GroupTabs      Group = "tabs"
	GroupDocs      Group = "docs"
	GroupFiles     Group = "files"
	GroupClients   Group = "clients"
	GroupCommerce  Group = "commerce"
)

// Action is a write verb recognized by single-action narrowing.
type Action string

const (
	ActionSearch   Action = "search"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionOrganize Action = "organize"
)

// EscalationTool is the capability-escalation tool the model calls to
// request additional tool groups mid-conversation. It must survive
// every narrowing pass.
const EscalationTool = "requestCapabilities"

// Registry is the read-only tool catalog.
type Registry struct {
	byName  map[string]tools.Tool
	byGroup map[Group][]string
	// actionTools maps (action, group) to the write tools registered
	// for that pair, for single-action narrowing.
	actionTools map[Action]map[Group][]string
}

// NewRegistry builds the static catalog.
func NewRegistry() *Registry {
	r := &Registry{
		byName:      make(map[string]tools.Tool),
		byGroup:     make(map[Group][]string),
		actionTools: make(map[Action]map[Group][]string),
	}
	for _, def := range definitions {
		r.byName[def.tool.Function.Name] = def.tool
		r.byGroup[def.group] = append(r.byGroup[def.group], def.tool.Function.Name)
		if def.action != "" {
			if r.actionTools[def.action] == nil {
				r.actionTools[def.action] = make(map[Group][]string)
			}
			r.actionTools[def.action][def.group] = append(r.actionTools[def.action][def.group], def.tool.Function.Name)
		}
	}
	return r
}

// Tool returns the definition for a tool name.
func (r *Registry) Tool(name string) (tools.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Group returns the tool names registered under a group, sorted.
func (r *Registry) Group(g Group) []string {
	names := make([]string, len(r.byGroup[g]))
	copy(names, r.byGroup[g])
	sort.Strings(names)
	return names
}

// Groups returns every known group.
func (r *Registry) Groups() []Group {
	groups := make([]Group, 0, len(r.byGroup))
	for g := range r.byGroup {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// ActionTools returns the write tools registered for an (action,
// group) pair. Empty when nothing is registered, which disables
// single-action narrowing for that pair.
func (r *Registry) ActionTools(action Action, g Group) []string {
	names := r.actionTools[action][g]
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}

// GroupForEntity maps an entity keyword to its tool group.
func GroupForEntity(entity string) (Group, bool) {
	g, ok := entityGroups[entity]
	return g, ok
}

var entityGroups = map[string]Group{
	"task":      GroupTasks,
	"project":   GroupProjects,
	"table":     GroupTables,
	"timeline":  GroupTimelines,
	"block":     GroupBlocks,
	"tab":       GroupTabs,
	"doc":       GroupDocs,
	"file":      GroupFiles,
	"client":    GroupClients,
	"commerce":  GroupCommerce,
	"workspace": GroupCore,
}

// IsWrite reports whether a tool mutates the data store, by naming
// convention shared with the backend.
func IsWrite(name string) bool {
	for _, prefix := range []string{"create", "update", "delete", "bulk", "add", "attach", "upload"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// IsSearchLike reports whether a tool is a read-only lookup. Repeated
// identical search calls are tolerated by the repeat guard because
// the model legitimately re-queries while planning.
func IsSearchLike(name string) bool {
	return strings.HasPrefix(name, "search") ||
		strings.HasPrefix(name, "list") ||
		strings.HasPrefix(name, "resolve") ||
		name == EscalationTool
}
