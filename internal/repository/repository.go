package repository

import (
	"context"
	"database/sql"
	"time"

	"task_tracker/internal/models"
)

// Users persists credential records.
type Users interface {
	Create(ctx context.Context, username, email, hash, role string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// Tasks persists task records.
type Tasks interface {
	Create(ctx context.Context, t models.Task) (int, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	ListAll(ctx context.Context) ([]models.Task, error)
	ListByOwner(ctx context.Context, userID int) ([]models.Task, error)
	Update(ctx context.Context, t models.Task) error
	Delete(ctx context.Context, id int) error
}

// Events is the append-only task activity log.
type Events interface {
	Append(ctx context.Context, e models.TaskEvent) error
	List(ctx context.Context, from, to time.Time, typ string, ownerID int) ([]models.TaskEvent, error)
}

type Repository struct {
	Users  Users
	Tasks  Tasks
	Events Events
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserSQLite(db),
		Tasks:  NewTaskSQLite(db),
		Events: NewEventSQLite(db),
	}
}
