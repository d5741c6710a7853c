package toolset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/catalog"
	"github.com/taskgrid/copilot/pkg/intent"
	"github.com/taskgrid/copilot/pkg/tools"
)

func names(selected []tools.Tool) []string {
	out := make([]string, 0, len(selected))
	for _, t := range selected {
		out = append(out, t.Name())
	}
	return out
}

func TestSelectAlwaysIncludesCore(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	cls := intent.Classify("do something unintelligible")
	selected := names(s.Select(cls, "do something unintelligible"))

	assert.Contains(t, selected, "searchWorkspace")
	assert.Contains(t, selected, "resolveEntity")
	assert.Contains(t, selected, catalog.EscalationTool)
}

func TestSelectAddsClassifiedGroups(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	command := "create a task and a timeline for the launch"
	selected := names(s.Select(intent.Classify(command), command))

	assert.Contains(t, selected, "createTask")
	assert.Contains(t, selected, "createTimeline")
	assert.NotContains(t, selected, "createDoc")
}

func TestSelectNarrowToTablesDropsUnmentionedSearches(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	command := "organize the quarterly numbers into a table"
	cls := intent.Classify(command)
	require.GreaterOrEqual(t, cls.Confidence, 0.85)
	selected := names(s.Select(cls, command))

	assert.Contains(t, selected, "searchTables")
	assert.Contains(t, selected, "searchWorkspace")
	assert.Contains(t, selected, catalog.EscalationTool)
	assert.NotContains(t, selected, "searchDocs")
	assert.NotContains(t, selected, "searchFiles")
}

func TestSelectNarrowToTablesKeepsMentionedEntities(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	command := "organize my tasks into a table"
	selected := names(s.Select(intent.Classify(command), command))

	assert.Contains(t, selected, "searchTasks", "task is mentioned literally, its search tool must be re-expanded")
	assert.NotContains(t, selected, "searchDocs")
}

func TestSelectTrimDisabled(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), false)

	command := "organize the quarterly numbers into a table"
	selected := names(s.Select(intent.Classify(command), command))

	assert.Contains(t, selected, "searchDocs")
}

func TestSelectSingleActionNarrowing(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	command := "delete the Atlas project"
	cls := intent.Classify(command)
	require.Equal(t, []string{"delete"}, cls.Actions)
	require.GreaterOrEqual(t, cls.Confidence, 0.85)

	selected := names(s.Select(cls, command))

	assert.Contains(t, selected, "deleteProject")
	assert.NotContains(t, selected, "createProject")
	assert.NotContains(t, selected, "updateProject")
	assert.Contains(t, selected, "searchProjects")
	assert.Contains(t, selected, catalog.EscalationTool, "narrowing must never remove the escalation tool")
}

func TestSelectSingleActionNarrowingSkippedForMultipleActions(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	command := "create and update project records"
	cls := intent.Classify(command)
	selected := names(s.Select(cls, command))

	assert.Contains(t, selected, "createProject")
	assert.Contains(t, selected, "updateProject")
}

func TestSignatureIsOrderIndependent(t *testing.T) {
	t.Parallel()
	r := catalog.NewRegistry()
	a, _ := r.Tool("createTask")
	b, _ := r.Tool("searchTasks")

	assert.Equal(t, Signature([]tools.Tool{a, b}), Signature([]tools.Tool{b, a}))
}

func TestSchemaCacheHitMiss(t *testing.T) {
	t.Parallel()
	c := NewSchemaCache()

	builds := 0
	build := func() (any, error) {
		builds++
		return []map[string]any{{"type": "function"}}, nil
	}

	first, cached, err := c.Format("sig-a", build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 1, builds)
	assert.NotZero(t, first.ApproxTokens)

	second, cached, err := c.Format("sig-a", build)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 1, builds, "cached entry must not recompute")
	assert.Equal(t, first.Payload, second.Payload)

	_, cached, err = c.Format("sig-b", build)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, builds)
}

func TestSchemaCachesAreInstanceScoped(t *testing.T) {
	t.Parallel()
	c1 := NewSchemaCache()
	c2 := NewSchemaCache()

	build := func() (any, error) { return map[string]any{}, nil }

	_, cached, err := c1.Format("shared-sig", build)
	require.NoError(t, err)
	assert.False(t, cached)

	_, cached, err = c2.Format("shared-sig", build)
	require.NoError(t, err)
	assert.False(t, cached, "caches must not share entries")
}

// Commands the deterministic fast path handles must, when routed
// through classification instead, still see the fast path's target
// tools in the selection.
func TestSelectCoversFastPathTargets(t *testing.T) {
	t.Parallel()
	s := New(catalog.NewRegistry(), true)

	tests := []struct {
		command string
		targets []string
	}{
		{"create a table called Budget with columns Item and Cost", []string{"createTable", "bulkCreateFields"}},
		{"create a task called Standup", []string{"createTask"}},
		{"create a project called Website", []string{"createProject"}},
		{"list my tasks", []string{"searchTasks"}},
		{"list my projects", []string{"searchProjects"}},
	}
	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()
			selected := names(s.Select(intent.Classify(tt.command), tt.command))
			for _, target := range tt.targets {
				assert.Contains(t, selected, target)
			}
		})
	}
}
