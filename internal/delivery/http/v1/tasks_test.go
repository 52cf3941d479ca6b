package v1

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/recurrence"
	"github.com/MarcMan710/PosTask/internal/services"
)

type fakeTaskService struct {
	created   *models.Task
	createErr error
}

func (f *fakeTaskService) CreateTask(context.Context, services.TaskParams) (*models.Task, error) {
	return f.created, f.createErr
}

func (f *fakeTaskService) GetTaskByID(context.Context, string, int64) (*models.Task, error) {
	return nil, services.ErrTaskNotFound
}

func (f *fakeTaskService) ListTasks(context.Context, string, services.TaskFilters) ([]*models.Task, error) {
	return nil, nil
}

func (f *fakeTaskService) UpdateTask(context.Context, int64, services.TaskParams) (*models.Task, error) {
	return nil, services.ErrTaskNotFound
}

func (f *fakeTaskService) DeleteTask(context.Context, string, int64) error {
	return nil
}

func (f *fakeTaskService) ReorderTasks(context.Context, string, []services.TaskPosition) error {
	return nil
}

func newCreateTaskContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set(userIDCtxKey, "user-1")
	return c, w
}

func TestHandleCreateTask(t *testing.T) {
	newHandler := func(tasks services.TaskService) *handlerImpl {
		return &handlerImpl{
			logger: zerolog.Nop(),
			tasks:  tasks,
		}
	}

	t.Run("created task returned with 201", func(t *testing.T) {
		now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		h := newHandler(&fakeTaskService{created: &models.Task{
			ID:        12,
			UserID:    "user-1",
			Title:     "Daily standup",
			Status:    models.StatusPending,
			Priority:  models.PriorityMedium,
			CreatedAt: now,
			UpdatedAt: now,
		}})

		c, w := newCreateTaskContext(`{"title": "Daily standup"}`)
		h.HandleCreateTask(c)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), `"id":12`) {
			t.Errorf("expected created task in body, got %s", w.Body.String())
		}
	})

	t.Run("invalid recurrence pattern returns 400", func(t *testing.T) {
		_, parseErr := recurrence.ParsePattern("fortnightly")
		if parseErr == nil {
			t.Fatal("expected parse error for unknown pattern")
		}
		h := newHandler(&fakeTaskService{createErr: parseErr})

		body := `{"title": "Water the plants", "is_recurring": true,` +
			` "recurrence_pattern": "fortnightly", "recurrence_interval": 1}`
		c, w := newCreateTaskContext(body)
		h.HandleCreateTask(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("missing recurrence fields return 400", func(t *testing.T) {
		h := newHandler(&fakeTaskService{createErr: services.ErrMissingRecurrence})

		c, w := newCreateTaskContext(`{"title": "Water the plants", "is_recurring": true}`)
		h.HandleCreateTask(c)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("unexpected error returns 500", func(t *testing.T) {
		h := newHandler(&fakeTaskService{createErr: errors.New("connection refused")})

		c, w := newCreateTaskContext(`{"title": "Water the plants"}`)
		h.HandleCreateTask(c)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status 500, got %d", w.Code)
		}
	})

	t.Run("missing user aborts with 401", func(t *testing.T) {
		h := newHandler(&fakeTaskService{})

		gin.SetMode(gin.TestMode)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/tasks", strings.NewReader(`{"title": "x"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.HandleCreateTask(c)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})
}
