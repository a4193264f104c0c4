package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/taskdeck/apiserver/types"
)

// TaskRepository handles persistence for tasks. Every query that touches a
// specific task includes the owner id in its predicate, so a task belonging
// to another user is indistinguishable from one that does not exist.
type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, title, description, is_completed, priority, due_date, category, owner_id, created_at, updated_at`

func scanTask(scan func(dest ...any) error) (types.Task, error) {
	var task types.Task
	err := scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.IsCompleted,
		&task.Priority,
		&task.DueDate,
		&task.Category,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	return task, err
}

func (r *TaskRepository) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND owner_id = $2`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, ownerID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Task{}, ErrNotFound
		}
		return types.Task{}, err
	}
	return task, nil
}

func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int) ([]types.Task, error) {
	const query = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *TaskRepository) Create(ctx context.Context, task types.Task) (types.Task, error) {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	const query = `
		INSERT INTO tasks (title, description, is_completed, priority, due_date, category, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.IsCompleted,
		task.Priority,
		task.DueDate,
		task.Category,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	).Scan(&task.ID); err != nil {
		return types.Task{}, err
	}
	return task, nil
}

// Update writes the full task row, keyed by both task id and owner id.
func (r *TaskRepository) Update(ctx context.Context, task types.Task) (types.Task, error) {
	task.UpdatedAt = time.Now()

	const query = `
		UPDATE tasks
		SET title = $1,
			description = $2,
			is_completed = $3,
			priority = $4,
			due_date = $5,
			category = $6,
			updated_at = $7
		WHERE id = $8 AND owner_id = $9`
	result, err := r.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.IsCompleted,
		task.Priority,
		task.DueDate,
		task.Category,
		task.UpdatedAt,
		task.ID,
		task.OwnerID,
	)
	if err != nil {
		return types.Task{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Task{}, err
	}
	if affected == 0 {
		return types.Task{}, ErrNotFound
	}
	return task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, ownerID, id int) error {
	const query = `DELETE FROM tasks WHERE id = $1 AND owner_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsByOwner aggregates the owner's tasks by completion and priority.
func (r *TaskRepository) StatsByOwner(ctx context.Context, ownerID int) (types.TaskStats, error) {
	const query = `
		SELECT priority, is_completed, COUNT(1)
		FROM tasks
		WHERE owner_id = $1
		GROUP BY priority, is_completed`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return types.TaskStats{}, err
	}
	defer rows.Close()

	stats := types.TaskStats{ByPriority: make(map[types.Priority]int)}
	for _, p := range types.Priorities() {
		stats.ByPriority[p] = 0
	}

	for rows.Next() {
		var priority types.Priority
		var completed bool
		var count int
		if err := rows.Scan(&priority, &completed, &count); err != nil {
			return types.TaskStats{}, err
		}
		stats.Total += count
		if completed {
			stats.Completed += count
		} else {
			stats.Pending += count
		}
		stats.ByPriority[priority] += count
	}
	if err := rows.Err(); err != nil {
		return types.TaskStats{}, err
	}
	return stats, nil
}
