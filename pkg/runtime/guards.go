package runtime

import (
	"fmt"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/tools"
)

// repeatGuard terminates loops that re-issue the same non-search call
// with identical arguments. It tracks the last signature and a
// consecutive-repeat counter; a different call in between resets it.
type repeatGuard struct {
	threshold int
	last      string
	count     int
}

func newRepeatGuard(threshold int) *repeatGuard {
	return &repeatGuard{threshold: threshold}
}

// Observe records a call and reports whether the repeat threshold has
// been hit. Search-like tools are exempt: re-querying is legitimate.
func (g *repeatGuard) Observe(name, arguments string) bool {
	if catalog.IsSearchLike(name) {
		return false
	}
	key := name + "|" + arguments
	if key != g.last {
		g.last = key
		g.count = 1
	} else {
		g.count++
	}
	return g.count >= g.threshold
}

// errorTracker counts consecutive failures per tool. A success
// resets that tool's streak.
type errorTracker struct {
	limit   int
	streaks map[string]int
}

func newErrorTracker(limit int) *errorTracker {
	return &errorTracker{limit: limit, streaks: map[string]int{}}
}

// Observe records one result and reports whether the tool's failure
// streak has reached the limit.
func (t *errorTracker) Observe(name string, result *tools.ToolCallResult) bool {
	if result != nil && result.Success {
		t.streaks[name] = 0
		return false
	}
	t.streaks[name]++
	return t.streaks[name] >= t.limit
}

// batchTracker detects incomplete batch updates: a search surfaced N
// task ids but a later update round touched fewer than N of them.
type batchTracker struct {
	searched map[string]bool
	updated  map[string]bool
}

func newBatchTracker() *batchTracker {
	return &batchTracker{searched: map[string]bool{}, updated: map[string]bool{}}
}

// ObserveSearch harvests task ids out of a multi-result search.
func (b *batchTracker) ObserveSearch(result *tools.ToolCallResult) {
	ids := harvestTaskIDs(result)
	if len(ids) < 2 {
		return
	}
	for _, id := range ids {
		b.searched[id] = true
	}
}

// ObserveUpdate records which task ids a mutation touched.
func (b *batchTracker) ObserveUpdate(arguments map[string]any) {
	if id, ok := stringArg(arguments, "taskId"); ok {
		b.updated[id] = true
	}
	if raw, ok := arguments["taskIds"]; ok {
		if list, ok := raw.([]any); ok {
			for _, item := range list {
				if id, ok := item.(string); ok {
					b.updated[id] = true
				}
			}
		}
	}
	if raw, ok := arguments["updates"]; ok {
		if list, ok := raw.([]any); ok {
			for _, item := range list {
				if entry, ok := item.(map[string]any); ok {
					if id, ok := stringArg(entry, "taskId"); ok {
						b.updated[id] = true
					}
				}
			}
		}
	}
}

// Missing returns the searched ids no update has touched yet, or nil
// if no batch was observed or updates never started.
func (b *batchTracker) Missing() []string {
	if len(b.searched) == 0 || len(b.updated) == 0 {
		return nil
	}
	var missing []string
	for id := range b.searched {
		if !b.updated[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func continuationMessage(missing []string) string {
	return fmt.Sprintf("You updated only some of the tasks found. %d remain: %v. Continue updating the remaining tasks.", len(missing), missing)
}

// harvestTaskIDs pulls task ids out of a search result's data. It
// understands both a top-level list and the common {tasks: [...]}
// shape.
func harvestTaskIDs(result *tools.ToolCallResult) []string {
	if result == nil || !result.Success || result.Data == nil {
		return nil
	}
	var items []any
	switch data := result.Data.(type) {
	case []any:
		items = data
	case map[string]any:
		for _, key := range []string{"tasks", "results", "items"} {
			if raw, ok := data[key]; ok {
				if list, ok := raw.([]any); ok {
					items = list
					break
				}
			}
		}
	}
	var ids []string
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for _, key := range []string{"taskId", "id"} {
			if id, ok := stringArg(entry, key); ok {
				ids = append(ids, id)
				break
			}
		}
	}
	return ids
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
