package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"

	"github.com/google/uuid"
)

// TaskService applies validation and the access gate around task CRUD,
// recording an activity event for every mutation.
type TaskService struct {
	tasks  repository.Tasks
	events repository.Events
	hub    *Hub
}

func NewTaskService(tasks repository.Tasks, events repository.Events, hub *Hub) *TaskService {
	return &TaskService{tasks: tasks, events: events, hub: hub}
}

var errInvalidStatus = newValidationError("status",
	"must be one of: "+strings.Join([]string{
		models.StatusPending, models.StatusInProgress, models.StatusCompleted,
	}, ", "))

// List returns all tasks for admins and only owned tasks otherwise,
// newest first.
func (s *TaskService) List(ctx context.Context, claims *Claims) ([]models.Task, error) {
	if isAdmin(claims) {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListByOwner(ctx, claims.UserID)
}

// Get fetches a single task. Existence is checked before ownership, so
// a missing id is NotFound even for foreign tasks.
func (s *TaskService) Get(ctx context.Context, claims *Claims, id int) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(claims, t.UserID); err != nil {
		return nil, err
	}
	return t, nil
}

// Create validates input and stores a new task owned by the caller.
func (s *TaskService) Create(ctx context.Context, claims *Claims, in CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, newValidationError("title", "must not be empty")
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.ValidStatus(status) {
		return nil, errInvalidStatus
	}

	now := time.Now().UTC()
	t := models.Task{
		Title:       title,
		Description: in.Description,
		Status:      status,
		UserID:      claims.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := s.tasks.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	t.ID = id

	s.record(ctx, claims, &t, models.EventCreated, fmt.Sprintf("task %q created", t.Title))
	return &t, nil
}

// Update applies a partial update. Checks run in order: existence,
// ownership, then field validation.
func (s *TaskService) Update(ctx context.Context, claims *Claims, id int, in UpdateTaskInput) (*models.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if err := Authorize(claims, t.UserID); err != nil {
		return nil, err
	}

	if in.Title == nil && in.Description == nil && in.Status == nil {
		return nil, newValidationError("", "no fields to update")
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, newValidationError("title", "must not be empty")
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		if !models.ValidStatus(*in.Status) {
			return nil, errInvalidStatus
		}
		t.Status = *in.Status
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.tasks.Update(ctx, *t); err != nil {
		// A concurrent delete between the existence check and the update
		// surfaces here as zero affected rows.
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.record(ctx, claims, t, models.EventUpdated, fmt.Sprintf("task %q updated", t.Title))
	return t, nil
}

// Delete removes a task after the existence and ownership checks.
func (s *TaskService) Delete(ctx context.Context, claims *Claims, id int) error {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	if err := Authorize(claims, t.UserID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	s.record(ctx, claims, t, models.EventDeleted, fmt.Sprintf("task %q deleted", t.Title))
	return nil
}

// record appends an activity event and broadcasts it to live
// subscribers. Audit failures do not fail the mutation itself.
func (s *TaskService) record(ctx context.Context, claims *Claims, t *models.Task, typ, summary string) {
	e := models.TaskEvent{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now().UTC(),
		Type:       typ,
		TaskID:     t.ID,
		OwnerID:    t.UserID,
		ActorID:    claims.UserID,
		Summary:    summary,
	}
	if s.events != nil {
		_ = s.events.Append(ctx, e)
	}
	if s.hub != nil {
		s.hub.Publish(e)
	}
}
