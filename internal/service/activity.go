package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// ActivityService serves the task audit log. Admins see everything,
// other users only events for tasks they own.
type ActivityService struct {
	events repository.Events
	hub    *Hub
}

func NewActivityService(events repository.Events, hub *Hub) *ActivityService {
	return &ActivityService{events: events, hub: hub}
}

var errInvalidTimeRange = errors.New("invalid time range: From must be <= To")

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates the time range.
func normalizeAndValidateFilter(f EventFilter) (time.Time, time.Time, string, error) {
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)

	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return time.Time{}, time.Time{}, "", errInvalidTimeRange
	}

	eventType := normalizeEventType(f.Type)
	return from, to, eventType, nil
}

func (s *ActivityService) List(ctx context.Context, claims *Claims, f EventFilter) ([]models.TaskEvent, error) {
	from, to, typ, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	ownerID := 0 // no owner filter for admins
	if !isAdmin(claims) {
		ownerID = claims.UserID
	}
	return s.events.List(ctx, from, to, typ, ownerID)
}

// Subscribe hands out a live event channel from the hub.
func (s *ActivityService) Subscribe() (<-chan models.TaskEvent, func()) {
	return s.hub.Subscribe()
}
