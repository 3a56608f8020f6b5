package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"task_tracker/internal/models"
)

type TaskSQLite struct {
	db *sql.DB
}

func NewTaskSQLite(db *sql.DB) *TaskSQLite {
	return &TaskSQLite{db: db}
}

var _ Tasks = (*TaskSQLite)(nil)

const (
	insertTaskSQL = `
		INSERT INTO tasks (title, description, status, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	selectTaskByIDSQL = `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks WHERE id = ?
	`

	// Most recent first, per the listing contract.
	selectAllTasksSQL = `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks ORDER BY created_at DESC, id DESC
	`

	selectTasksByOwnerSQL = `
		SELECT id, title, description, status, user_id, created_at, updated_at
		FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`

	updateTaskSQL = `
		UPDATE tasks SET title = ?, description = ?, status = ?, updated_at = ?
		WHERE id = ?
	`

	deleteTaskSQL = `DELETE FROM tasks WHERE id = ?`
)

// Create inserts a new task and returns its ID.
func (r *TaskSQLite) Create(ctx context.Context, t models.Task) (int, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.UserID,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for task %q: %w", t.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches a task by ID. Returns (nil, nil) if not found.
func (r *TaskSQLite) GetByID(ctx context.Context, id int) (*models.Task, error) {
	var t models.Task
	err := r.db.QueryRowContext(ctx, selectTaskByIDSQL, id).
		Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// ListAll returns every task, newest first.
func (r *TaskSQLite) ListAll(ctx context.Context) ([]models.Task, error) {
	return r.list(ctx, selectAllTasksSQL)
}

// ListByOwner returns the tasks owned by userID, newest first.
func (r *TaskSQLite) ListByOwner(ctx context.Context, userID int) ([]models.Task, error) {
	return r.list(ctx, selectTasksByOwnerSQL, userID)
}

func (r *TaskSQLite) list(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &t.UserID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		t.UpdatedAt = t.UpdatedAt.UTC()
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return tasks, nil
}

// Update rewrites the mutable columns of a task row.
func (r *TaskSQLite) Update(ctx context.Context, t models.Task) error {
	res, err := r.db.ExecContext(ctx, updateTaskSQL,
		t.Title,
		t.Description,
		t.Status,
		t.UpdatedAt.UTC(),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a task row.
func (r *TaskSQLite) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, deleteTaskSQL, id)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
