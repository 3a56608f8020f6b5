package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"task_tracker/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ Events = (*EventSQLite)(nil)

const insertEventSQL = `
	INSERT INTO task_events (id, occurred_at, type, task_id, owner_id, actor_id, summary)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Append inserts a new event. If EventID or OccurredAt are empty, they’re set.
func (r *EventSQLite) Append(ctx context.Context, e models.TaskEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, insertEventSQL,
		e.EventID,
		e.OccurredAt.Format(timestampLayout),
		strings.ToUpper(strings.TrimSpace(e.Type)),
		e.TaskID,
		e.OwnerID,
		e.ActorID,
		e.Summary,
	)
	if err != nil {
		return fmt.Errorf("insert task event %q: %w", e.EventID, err)
	}
	return nil
}

// SQLite TIMESTAMP format "YYYY-MM-DD HH:MM:SS"
const timestampLayout = "2006-01-02 15:04:05"

// List returns events filtered by [from, to] (inclusive), type, and owner,
// ordered by occurrence ascending. Zero times, empty type, and ownerID 0
// mean "no filter".
func (r *EventSQLite) List(ctx context.Context, from, to time.Time, typ string, ownerID int) ([]models.TaskEvent, error) {
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(timestampLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC().Format(timestampLayout))
	}
	if typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, strings.ToUpper(strings.TrimSpace(typ)))
	}
	if ownerID != 0 {
		conds = append(conds, "owner_id = ?")
		args = append(args, ownerID)
	}

	query := `SELECT id, occurred_at, type, task_id, owner_id, actor_id, summary FROM task_events`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select task events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []models.TaskEvent
	for rows.Next() {
		var (
			e  models.TaskEvent
			ts string
		)
		if err := rows.Scan(&e.EventID, &ts, &e.Type, &e.TaskID, &e.OwnerID, &e.ActorID, &e.Summary); err != nil {
			return nil, fmt.Errorf("scan task event row: %w", err)
		}
		if t, perr := time.Parse(timestampLayout, ts); perr == nil {
			e.OccurredAt = t.UTC()
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task event rows: %w", err)
	}
	return events, nil
}
