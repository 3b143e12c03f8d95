package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTasks_CreateAndList(t *testing.T) {
	s := NewMemoryTasks()
	ctx := context.Background()

	created, err := s.Create(ctx, "", Task{Title: "Prep board deck"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, TaskStatusNeedsAction, created.Status)

	_, err = s.Create(ctx, "", Task{Title: "Old chore", Status: TaskStatusCompleted})
	require.NoError(t, err)

	// Completed tasks are hidden by default.
	tasks, err := s.List(ctx, DefaultTaskList, 10, false)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Prep board deck", tasks[0].Title)

	tasks, err = s.List(ctx, DefaultTaskList, 10, true)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestMemoryTasks_ListsAreIsolated(t *testing.T) {
	s := NewMemoryTasks()
	ctx := context.Background()

	_, err := s.Create(ctx, "work", Task{Title: "Work thing"})
	require.NoError(t, err)

	tasks, err := s.List(ctx, DefaultTaskList, 10, true)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskListTool(t *testing.T) {
	s := NewMemoryTasks()
	_, err := s.Create(context.Background(), "", Task{Title: "Prep board deck", Due: "2025-12-05T00:00:00Z"})
	require.NoError(t, err)
	_, err = s.Create(context.Background(), "", Task{Title: "Review pipeline"})
	require.NoError(t, err)

	tl := NewTaskListTool(s)
	out, err := tl.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 tasks:")
	assert.Contains(t, out, "Due: 2025-12-05T00:00:00Z")
	assert.Contains(t, out, "Due: No due date")

	empty := NewTaskListTool(NewMemoryTasks())
	out, err = empty.Invoke(context.Background(), map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, "No tasks found in list @default", out)
}

func TestTaskCreateTool(t *testing.T) {
	s := NewMemoryTasks()
	tl := NewTaskCreateTool(s)

	out, err := tl.Invoke(context.Background(), map[string]any{
		"title":    "Send recap",
		"notes":    "Include action items",
		"due_date": "2025-12-03T00:00:00Z",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Task created successfully! Title: Send recap, ID: ")

	tasks, err := s.List(context.Background(), DefaultTaskList, 10, true)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Include action items", tasks[0].Notes)
	assert.Equal(t, "2025-12-03T00:00:00Z", tasks[0].Due)
}
