package workspace

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/billriesner/vongab2b/internal/util"
	"github.com/billriesner/vongab2b/tool"
)

// Task statuses mirroring the Tasks API.
const (
	TaskStatusNeedsAction = "needsAction"
	TaskStatusCompleted   = "completed"
)

// DefaultTaskList addresses the user's default task list.
const DefaultTaskList = "@default"

// Task is one to-do item.
type Task struct {
	ID     string
	Title  string
	Notes  string
	Due    string // RFC3339, empty for no due date
	Status string
}

// TaskService abstracts the task list backend.
type TaskService interface {
	List(ctx context.Context, taskListID string, maxResults int, showCompleted bool) ([]Task, error)
	Create(ctx context.Context, taskListID string, t Task) (*Task, error)
}

// MemoryTasks is a volatile TaskService keyed by task list id.
type MemoryTasks struct {
	mu    sync.RWMutex
	lists map[string][]Task
}

// NewMemoryTasks constructs an empty task store.
func NewMemoryTasks() *MemoryTasks {
	return &MemoryTasks{lists: make(map[string][]Task)}
}

func (s *MemoryTasks) List(_ context.Context, taskListID string, maxResults int, showCompleted bool) ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if taskListID == "" {
		taskListID = DefaultTaskList
	}
	var out []Task
	for _, t := range s.lists[taskListID] {
		if !showCompleted && t.Status == TaskStatusCompleted {
			continue
		}
		out = append(out, t)
		if maxResults > 0 && len(out) >= maxResults {
			break
		}
	}
	return out, nil
}

func (s *MemoryTasks) Create(_ context.Context, taskListID string, t Task) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if taskListID == "" {
		taskListID = DefaultTaskList
	}
	if t.ID == "" {
		t.ID = util.NewID()
	}
	if t.Status == "" {
		t.Status = TaskStatusNeedsAction
	}
	s.lists[taskListID] = append(s.lists[taskListID], t)
	created := t
	return &created, nil
}

// TaskTools returns the task tool set over svc.
func TaskTools(svc TaskService) []tool.Tool {
	return []tool.Tool{
		NewTaskListTool(svc),
		NewTaskCreateTool(svc),
	}
}

// NewTaskListTool lists tasks from a list, hiding completed ones by default.
func NewTaskListTool(svc TaskService) tool.Tool {
	return tool.NewFunctionTool(
		"tasks_list",
		"List tasks from a Google Tasks list. Defaults to the default task list.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tasklist_id":    map[string]any{"type": "string", "description": "Task list ID (default: '@default')"},
				"max_results":    map[string]any{"type": "integer", "description": "Maximum number of tasks to return (default 10)"},
				"show_completed": map[string]any{"type": "boolean", "description": "Whether to include completed tasks"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			listID, _ := args["tasklist_id"].(string)
			if listID == "" {
				listID = DefaultTaskList
			}
			maxResults := intFromArgs(args, "max_results", 10)
			showCompleted, _ := args["show_completed"].(bool)

			tasks, err := svc.List(ctx, listID, maxResults, showCompleted)
			if err != nil {
				return fmt.Sprintf("Error listing tasks: %v", err), nil
			}
			if len(tasks) == 0 {
				return fmt.Sprintf("No tasks found in list %s", listID), nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "Found %d tasks:", len(tasks))
			for _, t := range tasks {
				due := t.Due
				if due == "" {
					due = "No due date"
				}
				fmt.Fprintf(&b, "\n- %s (ID: %s, Status: %s, Due: %s)", t.Title, t.ID, t.Status, due)
			}
			return b.String(), nil
		},
	)
}

// NewTaskCreateTool creates a task with optional notes and due date.
func NewTaskCreateTool(svc TaskService) tool.Tool {
	return tool.NewFunctionTool(
		"tasks_create",
		"Create a new task in Google Tasks. Requires a title.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":       map[string]any{"type": "string", "description": "Task title"},
				"notes":       map[string]any{"type": "string", "description": "Task notes/description"},
				"due_date":    map[string]any{"type": "string", "description": "Due date in RFC3339 format (e.g., '2024-01-15T00:00:00Z')"},
				"tasklist_id": map[string]any{"type": "string", "description": "Task list ID (default: '@default')"},
			},
			"required": []string{"title"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			title, _ := args["title"].(string)
			notes, _ := args["notes"].(string)
			due, _ := args["due_date"].(string)
			listID, _ := args["tasklist_id"].(string)

			created, err := svc.Create(ctx, listID, Task{Title: title, Notes: notes, Due: due})
			if err != nil {
				return fmt.Sprintf("Error creating task: %v", err), nil
			}
			return fmt.Sprintf("Task created successfully! Title: %s, ID: %s", created.Title, created.ID), nil
		},
	)
}
