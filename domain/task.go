package domain

import (
	"strings"
	"time"
)

// Priority classifies how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ParsePriority normalizes a wire value to a Priority. Matching is
// case-insensitive so clients may send "medium" as well as "Medium".
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

// Subtask is a single step of a task. Subtasks never exist on their own;
// they are created and mutated only through their parent task.
type Subtask struct {
	ID        string `json:"id" bson:"id"`
	Title     string `json:"title" bson:"title"`
	Completed bool   `json:"completed" bson:"completed"`
}

// Task is a user-owned to-do item with an ordered list of subtasks.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Completed   bool
	DueDate     time.Time
	Priority    Priority
	Subtasks    []Subtask
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskDTO is the wire shape of a Task. Dates travel as RFC 3339 strings and
// the owning user never leaves the server.
type TaskDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	DueDate     string    `json:"dueDate"`
	Priority    Priority  `json:"priority"`
	Subtasks    []Subtask `json:"subtasks"`
}

// ToTaskDTO converts a task to its wire shape.
func ToTaskDTO(t Task) TaskDTO {
	subtasks := t.Subtasks
	if subtasks == nil {
		subtasks = []Subtask{}
	}
	return TaskDTO{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate.UTC().Format(time.RFC3339),
		Priority:    t.Priority,
		Subtasks:    subtasks,
	}
}

// FromTaskDTO converts a wire task back to the internal shape. The date must
// be RFC 3339; a zero time is returned alongside the error otherwise.
func FromTaskDTO(dto TaskDTO) (Task, error) {
	due, err := time.Parse(time.RFC3339, dto.DueDate)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:          dto.ID,
		Title:       dto.Title,
		Description: dto.Description,
		Completed:   dto.Completed,
		DueDate:     due,
		Priority:    dto.Priority,
		Subtasks:    dto.Subtasks,
	}, nil
}
