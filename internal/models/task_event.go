package models

import "time"

// Task event types recorded in the activity log.
const (
	EventCreated = "CREATED"
	EventUpdated = "UPDATED"
	EventDeleted = "DELETED"
)

// TaskEvent is one entry in the task activity log.
type TaskEvent struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	Type       string    `json:"type"` // CREATED | UPDATED | DELETED
	TaskID     int       `json:"task_id"`
	OwnerID    int       `json:"owner_id"` // task owner at the time of the change
	ActorID    int       `json:"actor_id"` // user who performed the change
	Summary    string    `json:"summary"`  // human-readable
}
