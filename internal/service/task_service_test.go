package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"task_tracker/internal/models"
)

// mockTasks is a lightweight in-test mock for repository.Tasks.
type mockTasks struct {
	CreateFn      func(t models.Task) (int, error)
	GetByIDFn     func(id int) (*models.Task, error)
	ListAllFn     func() ([]models.Task, error)
	ListByOwnerFn func(userID int) ([]models.Task, error)
	UpdateFn      func(t models.Task) error
	DeleteFn      func(id int) error

	updateCalls []models.Task
	deleteCalls []int
}

func (m *mockTasks) Create(_ context.Context, t models.Task) (int, error) {
	if m.CreateFn == nil {
		return 1, nil
	}
	return m.CreateFn(t)
}

func (m *mockTasks) GetByID(_ context.Context, id int) (*models.Task, error) {
	if m.GetByIDFn == nil {
		return nil, nil
	}
	return m.GetByIDFn(id)
}

func (m *mockTasks) ListAll(_ context.Context) ([]models.Task, error) {
	if m.ListAllFn == nil {
		return nil, nil
	}
	return m.ListAllFn()
}

func (m *mockTasks) ListByOwner(_ context.Context, userID int) ([]models.Task, error) {
	if m.ListByOwnerFn == nil {
		return nil, nil
	}
	return m.ListByOwnerFn(userID)
}

func (m *mockTasks) Update(_ context.Context, t models.Task) error {
	m.updateCalls = append(m.updateCalls, t)
	if m.UpdateFn == nil {
		return nil
	}
	return m.UpdateFn(t)
}

func (m *mockTasks) Delete(_ context.Context, id int) error {
	m.deleteCalls = append(m.deleteCalls, id)
	if m.DeleteFn == nil {
		return nil
	}
	return m.DeleteFn(id)
}

// mockEvents records appended activity events.
type mockEvents struct {
	appended []models.TaskEvent
	ListFn   func(from, to time.Time, typ string, ownerID int) ([]models.TaskEvent, error)
}

func (m *mockEvents) Append(_ context.Context, e models.TaskEvent) error {
	m.appended = append(m.appended, e)
	return nil
}

func (m *mockEvents) List(_ context.Context, from, to time.Time, typ string, ownerID int) ([]models.TaskEvent, error) {
	if m.ListFn == nil {
		return nil, nil
	}
	return m.ListFn(from, to, typ, ownerID)
}

func userClaims(id int) *Claims {
	return &Claims{UserID: id, Username: "user", Role: models.RoleUser}
}

func adminClaims() *Claims {
	return &Claims{UserID: 1000, Username: "admin", Role: models.RoleAdmin}
}

func newTaskService(tasks *mockTasks, events *mockEvents) *TaskService {
	return NewTaskService(tasks, events, NewHub())
}

// --- List ---

func TestTaskService_List_FiltersByRole(t *testing.T) {
	all := []models.Task{{ID: 1, UserID: 1}, {ID: 2, UserID: 2}}
	owned := []models.Task{{ID: 1, UserID: 1}}

	tasks := &mockTasks{
		ListAllFn: func() ([]models.Task, error) { return all, nil },
		ListByOwnerFn: func(userID int) ([]models.Task, error) {
			if userID != 1 {
				t.Fatalf("expected owner filter for user 1, got %d", userID)
			}
			return owned, nil
		},
	}
	svc := newTaskService(tasks, &mockEvents{})

	got, err := svc.List(context.Background(), adminClaims())
	if err != nil {
		t.Fatalf("List(admin) error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("admin should see all tasks, got %d", len(got))
	}

	got, err = svc.List(context.Background(), userClaims(1))
	if err != nil {
		t.Fatalf("List(user) error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != 1 {
		t.Fatalf("user should only see owned tasks, got %+v", got)
	}
}

// --- Get ---

func TestTaskService_Get(t *testing.T) {
	stored := &models.Task{ID: 5, Title: "buy milk", UserID: 1}
	tasks := &mockTasks{
		GetByIDFn: func(id int) (*models.Task, error) {
			if id == 5 {
				return stored, nil
			}
			return nil, nil
		},
	}
	svc := newTaskService(tasks, &mockEvents{})

	t.Run("owner allowed", func(t *testing.T) {
		got, err := svc.Get(context.Background(), userClaims(1), 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 5 {
			t.Fatalf("unexpected task: %+v", got)
		}
	})

	t.Run("foreign user denied", func(t *testing.T) {
		_, err := svc.Get(context.Background(), userClaims(2), 5)
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
	})

	t.Run("admin allowed on foreign task", func(t *testing.T) {
		got, err := svc.Get(context.Background(), adminClaims(), 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.UserID != 1 {
			t.Fatalf("unexpected task: %+v", got)
		}
	})

	t.Run("missing task is NotFound even for admin", func(t *testing.T) {
		_, err := svc.Get(context.Background(), adminClaims(), 404)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

// --- Create ---

func TestTaskService_Create(t *testing.T) {
	t.Run("defaults status to pending and sets owner", func(t *testing.T) {
		var created models.Task
		tasks := &mockTasks{
			CreateFn: func(task models.Task) (int, error) {
				created = task
				return 11, nil
			},
		}
		events := &mockEvents{}
		svc := newTaskService(tasks, events)

		got, err := svc.Create(context.Background(), userClaims(7), CreateTaskInput{Title: "buy milk"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 11 || got.Status != models.StatusPending || got.UserID != 7 {
			t.Fatalf("unexpected task: %+v", got)
		}
		if created.Status != models.StatusPending {
			t.Fatalf("expected pending status persisted, got %q", created.Status)
		}
		if len(events.appended) != 1 || events.appended[0].Type != models.EventCreated {
			t.Fatalf("expected one CREATED event, got %+v", events.appended)
		}
		if events.appended[0].OwnerID != 7 || events.appended[0].ActorID != 7 {
			t.Fatalf("unexpected event attribution: %+v", events.appended[0])
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc := newTaskService(&mockTasks{}, &mockEvents{})

		_, err := svc.Create(context.Background(), userClaims(7), CreateTaskInput{Title: "   "})
		if !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := newTaskService(&mockTasks{}, &mockEvents{})

		_, err := svc.Create(context.Background(), userClaims(7), CreateTaskInput{Title: "x", Status: "done"})
		if !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

// --- Update ---

func TestTaskService_Update(t *testing.T) {
	stored := models.Task{ID: 5, Title: "buy milk", Description: "2l", Status: models.StatusPending, UserID: 1}

	newTasksMock := func() *mockTasks {
		return &mockTasks{
			GetByIDFn: func(id int) (*models.Task, error) {
				if id == 5 {
					c := stored
					return &c, nil
				}
				return nil, nil
			},
		}
	}

	strPtr := func(s string) *string { return &s }

	t.Run("not found checked before ownership", func(t *testing.T) {
		svc := newTaskService(newTasksMock(), &mockEvents{})

		// Admin would pass the gate, so NotFound proves existence runs first.
		_, err := svc.Update(context.Background(), adminClaims(), 404, UpdateTaskInput{Title: strPtr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("foreign user denied", func(t *testing.T) {
		tasks := newTasksMock()
		svc := newTaskService(tasks, &mockEvents{})

		_, err := svc.Update(context.Background(), userClaims(2), 5, UpdateTaskInput{Title: strPtr("x")})
		if !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
		if len(tasks.updateCalls) != 0 {
			t.Fatalf("expected no Update calls, got %d", len(tasks.updateCalls))
		}
	})

	t.Run("zero fields rejected, task unchanged", func(t *testing.T) {
		tasks := newTasksMock()
		svc := newTaskService(tasks, &mockEvents{})

		_, err := svc.Update(context.Background(), userClaims(1), 5, UpdateTaskInput{})
		if !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if len(tasks.updateCalls) != 0 {
			t.Fatalf("expected no Update calls, got %d", len(tasks.updateCalls))
		}
	})

	t.Run("only supplied fields change", func(t *testing.T) {
		tasks := newTasksMock()
		events := &mockEvents{}
		svc := newTaskService(tasks, events)

		got, err := svc.Update(context.Background(), userClaims(1), 5, UpdateTaskInput{
			Status: strPtr(models.StatusCompleted),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Status != models.StatusCompleted {
			t.Fatalf("expected completed status, got %q", got.Status)
		}
		if got.Title != "buy milk" || got.Description != "2l" {
			t.Fatalf("untouched fields changed: %+v", got)
		}
		if len(events.appended) != 1 || events.appended[0].Type != models.EventUpdated {
			t.Fatalf("expected one UPDATED event, got %+v", events.appended)
		}
	})

	t.Run("empty title rejected", func(t *testing.T) {
		svc := newTaskService(newTasksMock(), &mockEvents{})

		_, err := svc.Update(context.Background(), userClaims(1), 5, UpdateTaskInput{Title: strPtr("")})
		if !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		svc := newTaskService(newTasksMock(), &mockEvents{})

		_, err := svc.Update(context.Background(), userClaims(1), 5, UpdateTaskInput{Status: strPtr("archived")})
		if !IsValidation(err) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

// --- Delete ---

func TestTaskService_Delete(t *testing.T) {
	stored := &models.Task{ID: 5, Title: "buy milk", UserID: 1}

	t.Run("owner deletes, event recorded", func(t *testing.T) {
		tasks := &mockTasks{
			GetByIDFn: func(id int) (*models.Task, error) { return stored, nil },
		}
		events := &mockEvents{}
		svc := newTaskService(tasks, events)

		if err := svc.Delete(context.Background(), userClaims(1), 5); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tasks.deleteCalls) != 1 || tasks.deleteCalls[0] != 5 {
			t.Fatalf("unexpected delete calls: %+v", tasks.deleteCalls)
		}
		if len(events.appended) != 1 || events.appended[0].Type != models.EventDeleted {
			t.Fatalf("expected one DELETED event, got %+v", events.appended)
		}
	})

	t.Run("foreign user denied", func(t *testing.T) {
		tasks := &mockTasks{
			GetByIDFn: func(id int) (*models.Task, error) { return stored, nil },
		}
		svc := newTaskService(tasks, &mockEvents{})

		if err := svc.Delete(context.Background(), userClaims(2), 5); !errors.Is(err, ErrAccessDenied) {
			t.Fatalf("expected ErrAccessDenied, got %v", err)
		}
		if len(tasks.deleteCalls) != 0 {
			t.Fatalf("expected no delete calls, got %+v", tasks.deleteCalls)
		}
	})

	t.Run("missing task is NotFound", func(t *testing.T) {
		svc := newTaskService(&mockTasks{}, &mockEvents{})

		if err := svc.Delete(context.Background(), adminClaims(), 404); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
