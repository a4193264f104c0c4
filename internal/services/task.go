package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taskdeck/apiserver/types"
)

const maxTitleLength = 200

// TaskRepository defines persistence operations for tasks. Implementations
// must scope every per-task query to the owner id.
type TaskRepository interface {
	Get(ctx context.Context, ownerID, id int) (types.Task, error)
	ListByOwner(ctx context.Context, ownerID int) ([]types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Update(ctx context.Context, task types.Task) (types.Task, error)
	Delete(ctx context.Context, ownerID, id int) error
	StatsByOwner(ctx context.Context, ownerID int) (types.TaskStats, error)
}

// TaskService encapsulates task use-cases for an authenticated owner.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// CreateTaskInput carries the fields a caller may set on a new task.
type CreateTaskInput struct {
	Title       string
	Description *string
	Priority    *types.Priority
	DueDate     *time.Time
	Category    *string
}

// UpdateTaskInput carries a partial update. Nil fields are left unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	IsCompleted *bool
	Priority    *types.Priority
	DueDate     *time.Time
	Category    *string
}

func (s *TaskService) Create(ctx context.Context, ownerID int, input CreateTaskInput) (types.Task, error) {
	title, err := validateTitle(input.Title)
	if err != nil {
		return types.Task{}, err
	}

	priority := types.DefaultPriority
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return types.Task{}, err
		}
		priority = *input.Priority
	}

	return s.repo.Create(ctx, types.Task{
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		DueDate:     input.DueDate,
		Category:    input.Category,
		OwnerID:     ownerID,
	})
}

func (s *TaskService) List(ctx context.Context, ownerID int) ([]types.Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *TaskService) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// Update applies the supplied fields to the owner's task. An empty input
// still refreshes updated_at. Tasks of other owners surface as not found.
func (s *TaskService) Update(ctx context.Context, ownerID, id int, input UpdateTaskInput) (types.Task, error) {
	task, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return types.Task{}, err
	}

	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return types.Task{}, err
		}
		task.Title = title
	}
	if input.Description != nil {
		task.Description = input.Description
	}
	if input.IsCompleted != nil {
		task.IsCompleted = *input.IsCompleted
	}
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return types.Task{}, err
		}
		task.Priority = *input.Priority
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.Category != nil {
		task.Category = input.Category
	}

	return s.repo.Update(ctx, task)
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	return s.repo.Delete(ctx, ownerID, id)
}

func (s *TaskService) Stats(ctx context.Context, ownerID int) (types.TaskStats, error) {
	return s.repo.StatsByOwner(ctx, ownerID)
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", newValidationError("title", "title cannot be empty")
	}
	// Character count, not bytes: multibyte titles count per rune.
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", newValidationError("title", "title must be at most 200 characters")
	}
	return title, nil
}

func validatePriority(priority types.Priority) error {
	if !priority.IsValid() {
		return newValidationError("priority", "priority must be one of low, medium, high, urgent")
	}
	return nil
}
