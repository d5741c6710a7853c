package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskgrid/copilot/pkg/catalog"
)

func TestClassifySearchOnlyGetsCoreSet(t *testing.T) {
	t.Parallel()
	tests := []string{
		"find all tasks assigned to me",
		"show my projects",
		"list the documents in this workspace",
		"which tables mention revenue",
	}

	for _, command := range tests {
		t.Run(command, func(t *testing.T) {
			t.Parallel()
			cls := Classify(command)
			assert.Equal(t, []catalog.Group{catalog.GroupCore}, cls.Groups)
			assert.InDelta(t, 0.85, cls.Confidence, 0.001)
			assert.False(t, cls.HasWriteAction())
		})
	}
}

func TestClassifySpecialPatternShortCircuits(t *testing.T) {
	t.Parallel()
	cls := Classify("search overdue tasks and organize them into a table")

	assert.True(t, cls.HasGroup(catalog.GroupCore))
	assert.True(t, cls.HasGroup(catalog.GroupTables))
	assert.GreaterOrEqual(t, cls.Confidence, 0.95)
	assert.True(t, cls.HasWriteAction())
}

func TestClassifyEntityUnion(t *testing.T) {
	t.Parallel()
	cls := Classify("create a task and a timeline for the launch")

	assert.True(t, cls.HasGroup(catalog.GroupCore))
	assert.True(t, cls.HasGroup(catalog.GroupTasks))
	assert.True(t, cls.HasGroup(catalog.GroupTimelines))
	assert.Contains(t, cls.Actions, "create")
}

func TestClassifySingleCreateIsConfident(t *testing.T) {
	t.Parallel()
	cls := Classify("create a table called Budget with columns Item and Cost")

	assert.True(t, cls.HasGroup(catalog.GroupTables))
	assert.GreaterOrEqual(t, cls.Confidence, 0.85)
	assert.Contains(t, cls.Entities, "table")
	assert.Contains(t, cls.Actions, "create")
}

func TestClassifyIncidentalProjectIgnored(t *testing.T) {
	t.Parallel()
	cls := Classify("create a task in the project")

	assert.True(t, cls.HasGroup(catalog.GroupTasks))
	assert.False(t, cls.HasGroup(catalog.GroupProjects), "incidental project mention must not pull in the projects group")
}

func TestClassifyProjectAsTargetKept(t *testing.T) {
	t.Parallel()
	cls := Classify("create a project called Atlas")

	assert.True(t, cls.HasGroup(catalog.GroupProjects))
}

func TestClassifyConfidenceCapped(t *testing.T) {
	t.Parallel()
	cls := Classify("create tasks, update the table, delete old docs and organize files in the timeline")
	assert.LessOrEqual(t, cls.Confidence, 1.0)
}

func TestMentionsEntity(t *testing.T) {
	t.Parallel()
	assert.True(t, MentionsEntity("move the task into the table", "task"))
	assert.True(t, MentionsEntity("move the task into the table", "table"))
	assert.False(t, MentionsEntity("move the task into the table", "timeline"))
}

func TestMerge(t *testing.T) {
	t.Parallel()
	a := Classify("list my tasks")
	b := Classify("create a timeline for the launch")

	merged := a.Merge(b)
	assert.True(t, merged.HasGroup(catalog.GroupCore))
	assert.True(t, merged.HasGroup(catalog.GroupTimelines))
	assert.GreaterOrEqual(t, merged.Confidence, a.Confidence)
	require.NotEmpty(t, merged.Actions)
	assert.Contains(t, merged.Actions, "create")
}
