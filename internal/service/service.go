package service

import (
	"context"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Authorization covers registration, login, and token verification.
type Authorization interface {
	SignUp(ctx context.Context, username, email, password string) (string, *models.User, error)
	SignIn(ctx context.Context, email, password string) (string, *models.User, error)
	ParseToken(accessToken string) (*Claims, error)
}

// TaskManager exposes role-gated CRUD over tasks.
type TaskManager interface {
	List(ctx context.Context, claims *Claims) ([]models.Task, error)
	Get(ctx context.Context, claims *Claims, id int) (*models.Task, error)
	Create(ctx context.Context, claims *Claims, in CreateTaskInput) (*models.Task, error)
	Update(ctx context.Context, claims *Claims, id int, in UpdateTaskInput) (*models.Task, error)
	Delete(ctx context.Context, claims *Claims, id int) error
}

// Activity exposes the task audit log with filtering access.
type Activity interface {
	List(ctx context.Context, claims *Claims, f EventFilter) ([]models.TaskEvent, error)
	Subscribe() (<-chan models.TaskEvent, func())
}

// CreateTaskInput carries the fields accepted on task creation.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      string // defaults to pending when empty
}

// UpdateTaskInput carries a partial update; nil pointers mean "leave as is".
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
}

// EventFilter supports history filtering by time range and type.
type EventFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "CREATED", "UPDATED", "DELETED"
}

// TokenConfig is the process-wide signing configuration, loaded once at
// startup and injected here rather than read from the environment at
// arbitrary points.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	TaskManager
	Activity
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, tokens TokenConfig) *Service {
	hub := NewHub()
	return &Service{
		Authorization: NewAuthService(repos.Users, tokens),
		TaskManager:   NewTaskService(repos.Tasks, repos.Events, hub),
		Activity:      NewActivityService(repos.Events, hub),
	}
}
