package types

import "time"

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// DefaultPriority is assigned when a task is created without one.
const DefaultPriority = PriorityMedium

// Priorities lists all valid priorities in ascending order of urgency.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
}

// IsValid reports whether p is one of the fixed priority levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Task represents a to-do item owned by exactly one user.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// Title is the short, non-empty summary of the task. Trimmed of
	// surrounding whitespace, at most 200 characters.
	Title string `json:"title" db:"title"`

	// Description is an optional longer description.
	Description *string `json:"description" db:"description"`

	// IsCompleted marks the task as done.
	IsCompleted bool `json:"is_completed" db:"is_completed"`

	// Priority is one of low, medium, high, urgent.
	Priority Priority `json:"priority" db:"priority"`

	// DueDate is the optional deadline for the task.
	DueDate *time.Time `json:"due_date" db:"due_date"`

	// Category is an optional free-text label.
	Category *string `json:"category" db:"category"`

	// OwnerID references the user who owns this task. Set at creation
	// from the authenticated caller and immutable thereafter.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// CreatedAt is the timestamp at which the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is refreshed on every mutation of the task.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TaskStats aggregates a user's current tasks.
type TaskStats struct {
	Total      int              `json:"total"`
	Completed  int              `json:"completed"`
	Pending    int              `json:"pending"`
	ByPriority map[Priority]int `json:"by_priority"`
}
