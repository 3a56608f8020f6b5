package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"task_tracker/internal/models"
	"task_tracker/internal/service"
)

func TestActivityHandler_List(t *testing.T) {
	activity := &mockActivity{
		resp: []models.TaskEvent{
			{EventID: "ev-1", Type: models.EventCreated, TaskID: 5, OwnerID: 1, ActorID: 1, Summary: "task created"},
		},
	}
	s := &service.Service{
		Authorization: &mockAuth{parseClaims: userClaims(1)},
		Activity:      activity,
	}

	w := doTaskRequest(t, s, http.MethodGet, "/api/activity?from=2026-08-01&to=2026-08-31&type=created", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}

	var out struct {
		Count  int                `json:"count"`
		Events []models.TaskEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 1 || len(out.Events) != 1 || out.Events[0].EventID != "ev-1" {
		t.Fatalf("unexpected response: %+v", out)
	}

	// Filter plumbing: type uppercased, date-only 'to' is end-of-day.
	if activity.lastFilter.Type != "CREATED" {
		t.Fatalf("expected normalized type, got %q", activity.lastFilter.Type)
	}
	wantTo := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
	if !activity.lastFilter.To.Equal(wantTo) {
		t.Fatalf("expected end-of-day 'to', got %v", activity.lastFilter.To)
	}
}

func TestActivityHandler_BadTimeFilters(t *testing.T) {
	s := &service.Service{
		Authorization: &mockAuth{parseClaims: userClaims(1)},
		Activity:      &mockActivity{},
	}

	cases := []struct {
		name string
		path string
	}{
		{"bad from", "/api/activity?from=bogus"},
		{"bad to", "/api/activity?to=bogus"},
		{"from after to", "/api/activity?from=2026-08-31&to=2026-08-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doTaskRequest(t, s, http.MethodGet, tc.path, "")
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := &service.Service{}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}
