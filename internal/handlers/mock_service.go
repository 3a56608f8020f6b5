package handlers

import (
	"context"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpToken string
	signUpUser  *models.User
	signUpErr   error
	signInToken string
	signInUser  *models.User
	signInErr   error
	parseClaims *service.Claims
	parseErr    error

	lastSignUpUsername string
	lastSignUpEmail    string
	lastSignInEmail    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(_ context.Context, username, email, password string) (string, *models.User, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	return m.signUpToken, m.signUpUser, m.signUpErr
}

func (m *mockAuth) SignIn(_ context.Context, email, password string) (string, *models.User, error) {
	m.lastSignInEmail = email
	return m.signInToken, m.signInUser, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}

type mockTaskManager struct {
	listResp  []models.Task
	listErr   error
	getResp   *models.Task
	getErr    error
	createdID int
	createErr error
	updateErr error
	deleteErr error

	lastCreate service.CreateTaskInput
	lastUpdate service.UpdateTaskInput
	lastID     int
}

func (m *mockTaskManager) List(_ context.Context, _ *service.Claims) ([]models.Task, error) {
	return m.listResp, m.listErr
}

func (m *mockTaskManager) Get(_ context.Context, _ *service.Claims, id int) (*models.Task, error) {
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *mockTaskManager) Create(_ context.Context, claims *service.Claims, in service.CreateTaskInput) (*models.Task, error) {
	m.lastCreate = in
	if m.createErr != nil {
		return nil, m.createErr
	}
	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	return &models.Task{
		ID:          m.createdID,
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      claims.UserID,
	}, nil
}

func (m *mockTaskManager) Update(_ context.Context, _ *service.Claims, id int, in service.UpdateTaskInput) (*models.Task, error) {
	m.lastID = id
	m.lastUpdate = in
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.getResp, nil
}

func (m *mockTaskManager) Delete(_ context.Context, _ *service.Claims, id int) error {
	m.lastID = id
	return m.deleteErr
}

type mockActivity struct {
	resp       []models.TaskEvent
	err        error
	lastFilter service.EventFilter
	hub        *service.Hub
}

func (m *mockActivity) List(_ context.Context, _ *service.Claims, f service.EventFilter) ([]models.TaskEvent, error) {
	m.lastFilter = f
	return m.resp, m.err
}

func (m *mockActivity) Subscribe() (<-chan models.TaskEvent, func()) {
	if m.hub == nil {
		m.hub = service.NewHub()
	}
	return m.hub.Subscribe()
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func userClaims(id int) *service.Claims {
	return &service.Claims{UserID: id, Username: "user", Role: models.RoleUser}
}

func adminClaims() *service.Claims {
	return &service.Claims{UserID: 1000, Username: "admin", Role: models.RoleAdmin}
}
