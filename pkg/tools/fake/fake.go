// Package fake is an in-memory tool executor. It backs demos and
// tests with deterministic ids and no network, while honoring the
// result shapes the real backend produces.
package fake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/taskgrid/copilot/pkg/tools"
)

// Executor stores created entities in memory, keyed by kind.
type Executor struct {
	mu    sync.Mutex
	seq   int
	items map[string][]*entity
}

type entity struct {
	id     string
	title  string
	fields map[string]any
}

func New() *Executor {
	return &Executor{items: map[string][]*entity{}}
}

// Seed preloads entities of a kind, for tests and demos.
func (e *Executor) Seed(kind string, titles ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, title := range titles {
		e.items[kind] = append(e.items[kind], &entity{
			id:     e.nextID(kind),
			title:  title,
			fields: map[string]any{},
		})
	}
}

// kindOfTool maps a tool name to the entity kind it acts on. Tools
// without a kind (workspace-wide search, escalation) are handled
// separately.
var kindOfTool = map[string]string{
	"searchTasks":    "task",
	"searchProjects": "project",
	"searchTables":   "table",
	"searchDocs":     "doc",
	"searchFiles":    "file",

	"createTask":           "task",
	"updateTask":           "task",
	"bulkUpdateTasks":      "task",
	"deleteTask":           "task",
	"createBoardFromTasks": "board",

	"createTable":      "table",
	"updateTable":      "table",
	"deleteTable":      "table",
	"createField":      "field",
	"bulkCreateFields": "field",
	"createRow":        "row",
	"bulkCreateRows":   "row",

	"createProject": "project",
	"updateProject": "project",
	"deleteProject": "project",

	"createTimeline":  "timeline",
	"updateTimeline":  "timeline",
	"addTimelineItem": "timelineItem",

	"createBlock": "block",
	"updateBlock": "block",
	"deleteBlock": "block",
	"createTab":   "tab",
	"updateTab":   "tab",
	"deleteTab":   "tab",
	"createDoc":   "doc",
	"updateDoc":   "doc",
	"deleteDoc":   "doc",
	"attachFile":  "file",
	"deleteFile":  "file",

	"createClient": "client",
	"updateClient": "client",
	"deleteClient": "client",

	"createCatalogItem": "catalogItem",
	"updateCatalogItem": "catalogItem",
	"deleteCatalogItem": "catalogItem",
}

// ExecuteTool runs one tool against the in-memory store. Unknown
// tools fail like the real backend: an unsuccessful result with a
// hint, not a transport error.
func (e *Executor) ExecuteTool(ctx context.Context, name string, arguments map[string]any, execCtx tools.ExecutionContext) (*tools.ToolCallResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch {
	case name == "searchWorkspace":
		return e.searchAll(arguments), nil
	case name == "resolveEntity":
		return e.resolve(arguments), nil
	case strings.HasPrefix(name, "search"):
		kind, ok := kindOfTool[name]
		if !ok {
			return unknownTool(name), nil
		}
		return e.search(kind, arguments), nil
	case strings.HasPrefix(name, "create") || strings.HasPrefix(name, "add") ||
		strings.HasPrefix(name, "upload") || strings.HasPrefix(name, "attach"):
		kind, ok := kindOfTool[name]
		if !ok {
			return unknownTool(name), nil
		}
		return e.create(kind, arguments), nil
	case strings.HasPrefix(name, "bulkCreate"):
		kind, ok := kindOfTool[name]
		if !ok {
			return unknownTool(name), nil
		}
		return e.createMany(kind, arguments), nil
	case strings.HasPrefix(name, "update") || strings.HasPrefix(name, "bulkUpdate"):
		kind, ok := kindOfTool[name]
		if !ok {
			return unknownTool(name), nil
		}
		return e.update(kind, arguments), nil
	case strings.HasPrefix(name, "delete"):
		kind, ok := kindOfTool[name]
		if !ok {
			return unknownTool(name), nil
		}
		return e.delete(kind, arguments), nil
	default:
		return unknownTool(name), nil
	}
}

func unknownTool(name string) *tools.ToolCallResult {
	return tools.ResultErrorHint(
		fmt.Sprintf("unknown tool %q", name),
		"Use one of the tools listed in the schema.")
}

func (e *Executor) nextID(kind string) string {
	e.seq++
	return fmt.Sprintf("%s_%d", kind, e.seq)
}

func (e *Executor) create(kind string, args map[string]any) *tools.ToolCallResult {
	item := &entity{
		id:     e.nextID(kind),
		title:  titleOf(args),
		fields: args,
	}
	e.items[kind] = append(e.items[kind], item)
	return tools.ResultSuccess(map[string]any{
		"id":        item.id,
		kind + "Id": item.id,
		"title":     item.title,
	})
}

func (e *Executor) createMany(kind string, args map[string]any) *tools.ToolCallResult {
	var entries []any
	for _, key := range []string{"fields", "rows", "items"} {
		if list, ok := args[key].([]any); ok {
			entries = list
			break
		}
	}
	ids := make([]any, 0, len(entries))
	for _, entry := range entries {
		fields, _ := entry.(map[string]any)
		item := &entity{id: e.nextID(kind), title: titleOf(fields), fields: fields}
		e.items[kind] = append(e.items[kind], item)
		ids = append(ids, item.id)
	}
	return tools.ResultSuccess(map[string]any{"ids": ids, "count": len(ids)})
}

func (e *Executor) update(kind string, args map[string]any) *tools.ToolCallResult {
	ids := idArgs(kind, args)
	if len(ids) == 0 {
		return tools.ResultErrorHint(
			fmt.Sprintf("no %s id provided", kind),
			fmt.Sprintf("Pass %sId, or find it with a search tool first.", kind))
	}

	updated := 0
	for _, id := range ids {
		item := e.find(kind, id)
		if item == nil {
			return tools.ResultErrorHint(
				fmt.Sprintf("%s %q not found", kind, id),
				"Search for the current id first.")
		}
		for k, v := range args {
			item.fields[k] = v
		}
		if title := titleOf(args); title != "" {
			item.title = title
		}
		updated++
	}
	return tools.ResultSuccess(map[string]any{"updated": updated})
}

func (e *Executor) delete(kind string, args map[string]any) *tools.ToolCallResult {
	ids := idArgs(kind, args)
	if len(ids) == 0 {
		return tools.ResultErrorHint(
			fmt.Sprintf("no %s id provided", kind),
			fmt.Sprintf("Pass %sId, or find it with a search tool first.", kind))
	}
	for _, id := range ids {
		items := e.items[kind]
		for i, item := range items {
			if item.id == id {
				e.items[kind] = append(items[:i], items[i+1:]...)
				break
			}
		}
	}
	return tools.ResultSuccess(map[string]any{"deleted": len(ids)})
}

func (e *Executor) search(kind string, args map[string]any) *tools.ToolCallResult {
	query, _ := args["query"].(string)
	matches := e.match(kind, query)
	return tools.ResultSuccess(map[string]any{
		kind + "s": matches,
		"count":    len(matches),
	})
}

func (e *Executor) searchAll(args map[string]any) *tools.ToolCallResult {
	query, _ := args["query"].(string)
	results := map[string]any{}
	total := 0
	for kind := range e.items {
		matches := e.match(kind, query)
		if len(matches) > 0 {
			results[kind+"s"] = matches
			total += len(matches)
		}
	}
	results["count"] = total
	return tools.ResultSuccess(results)
}

func (e *Executor) resolve(args map[string]any) *tools.ToolCallResult {
	reference, _ := args["reference"].(string)
	if reference == "" {
		reference, _ = args["name"].(string)
	}
	kind, _ := args["entityType"].(string)
	for _, item := range e.items[kind] {
		if strings.EqualFold(item.title, reference) {
			return tools.ResultSuccess(map[string]any{"id": item.id, "title": item.title})
		}
	}
	return tools.ResultErrorHint(
		fmt.Sprintf("no %s named %q", kind, reference),
		"Try a broader search tool.")
}

func (e *Executor) match(kind, query string) []any {
	query = strings.ToLower(query)
	var matches []any
	for _, item := range e.items[kind] {
		if query != "" && !strings.Contains(strings.ToLower(item.title), query) {
			continue
		}
		matches = append(matches, map[string]any{
			kind + "Id": item.id,
			"id":        item.id,
			"title":     item.title,
		})
	}
	return matches
}

func (e *Executor) find(kind, id string) *entity {
	for _, item := range e.items[kind] {
		if item.id == id {
			return item
		}
	}
	return nil
}

// idArgs collects the target ids from the singular and bulk argument
// shapes.
func idArgs(kind string, args map[string]any) []string {
	var ids []string
	if id, ok := args[kind+"Id"].(string); ok && id != "" {
		ids = append(ids, id)
	}
	if list, ok := args[kind+"Ids"].([]any); ok {
		for _, raw := range list {
			if id, ok := raw.(string); ok && id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

func titleOf(args map[string]any) string {
	for _, key := range []string{"title", "name"} {
		if s, ok := args[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
