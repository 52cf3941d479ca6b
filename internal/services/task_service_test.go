package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcMan710/PosTask/internal/models"
	"github.com/MarcMan710/PosTask/internal/recurrence"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string    { return &s }
func intPtr(i int) *int          { return &i }
func timePtr(t time.Time) *time.Time { return &t }

func recurringTask(due string, pattern string, interval int) *models.Task {
	d := date(due)
	return &models.Task{
		ID:                 7,
		UserID:             "user-1",
		Title:              "Water the plants",
		Description:        "Front porch only",
		Status:             models.StatusInProgress,
		Priority:           models.PriorityHigh,
		DueDate:            &d,
		IsRecurring:        true,
		RecurrencePattern:  strPtr(pattern),
		RecurrenceInterval: intPtr(interval),
	}
}

func TestNextOccurrence(t *testing.T) {
	t.Run("biweekly successor", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 2)

		successor, ok, err := nextOccurrence(task)
		if err != nil {
			t.Fatalf("nextOccurrence: %v", err)
		}
		if !ok {
			t.Fatal("expected a successor")
		}
		if want := date("2024-03-15T00:00:00Z"); !successor.DueDate.Equal(want) {
			t.Errorf("due date = %s, want %s", successor.DueDate, want)
		}
		if successor.ParentTaskID == nil || *successor.ParentTaskID != task.ID {
			t.Errorf("parent task id = %v, want %d", successor.ParentTaskID, task.ID)
		}
	})

	t.Run("status always resets to pending", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "daily", 1)
		task.Status = models.StatusCompleted

		successor, ok, err := nextOccurrence(task)
		if err != nil || !ok {
			t.Fatalf("nextOccurrence: ok=%v err=%v", ok, err)
		}
		if successor.Status != models.StatusPending {
			t.Errorf("status = %q, want %q", successor.Status, models.StatusPending)
		}
	})

	t.Run("carries recurrence fields and metadata", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "monthly", 3)
		end := date("2030-01-01T00:00:00Z")
		task.RecurrenceEndDate = &end

		successor, ok, err := nextOccurrence(task)
		if err != nil || !ok {
			t.Fatalf("nextOccurrence: ok=%v err=%v", ok, err)
		}
		if successor.Title != task.Title || successor.Description != task.Description {
			t.Error("title/description not carried over")
		}
		if successor.Priority != task.Priority {
			t.Errorf("priority = %q, want %q", successor.Priority, task.Priority)
		}
		if !successor.IsRecurring ||
			*successor.RecurrencePattern != "monthly" ||
			*successor.RecurrenceInterval != 3 {
			t.Error("recurrence fields not carried over")
		}
		if !successor.RecurrenceEndDate.Equal(end) {
			t.Error("recurrence end date not carried over")
		}
	})

	t.Run("series complete past end date", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 2)
		task.RecurrenceEndDate = timePtr(date("2024-03-10T00:00:00Z"))

		successor, ok, err := nextOccurrence(task)
		if err != nil {
			t.Fatalf("series completion must not be an error, got %v", err)
		}
		if ok || successor != nil {
			t.Error("expected no successor past the end date")
		}
	})

	t.Run("end date equal to next still produces successor", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 2)
		task.RecurrenceEndDate = timePtr(date("2024-03-15T00:00:00Z"))

		_, ok, err := nextOccurrence(task)
		if err != nil || !ok {
			t.Errorf("expected successor when next equals end date, ok=%v err=%v", ok, err)
		}
	})

	t.Run("non-recurring task", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "daily", 1)
		task.IsRecurring = false

		_, ok, err := nextOccurrence(task)
		if err != nil || ok {
			t.Errorf("expected no successor, ok=%v err=%v", ok, err)
		}
	})

	t.Run("recurring without due date", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "daily", 1)
		task.DueDate = nil

		_, ok, err := nextOccurrence(task)
		if err != nil || ok {
			t.Errorf("expected no successor, ok=%v err=%v", ok, err)
		}
	})

	t.Run("invalid pattern fails closed", func(t *testing.T) {
		task := recurringTask("2024-03-01T00:00:00Z", "hourly", 1)

		_, _, err := nextOccurrence(task)
		if !errors.Is(err, recurrence.ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})
}

func TestValidateTaskParams(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		params := TaskParams{Title: "a"}
		err := validateTaskParams(&params)
		if err != nil {
			t.Fatal(err)
		}
		if params.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", params.Status)
		}
		if params.Priority != models.PriorityMedium {
			t.Errorf("priority = %q, want medium", params.Priority)
		}
	})

	t.Run("missing title", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{})
		if !errors.Is(err, ErrMissingTitle) {
			t.Errorf("expected ErrMissingTitle, got %v", err)
		}
	})

	t.Run("invalid status", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{Title: "a", Status: "done"})
		if !errors.Is(err, ErrInvalidTaskStatus) {
			t.Errorf("expected ErrInvalidTaskStatus, got %v", err)
		}
	})

	t.Run("invalid priority", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{Title: "a", Priority: "urgent"})
		if !errors.Is(err, ErrInvalidTaskPriority) {
			t.Errorf("expected ErrInvalidTaskPriority, got %v", err)
		}
	})

	t.Run("recurring without pattern", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{
			Title:              "a",
			IsRecurring:        true,
			RecurrenceInterval: intPtr(1),
		})
		if !errors.Is(err, ErrMissingRecurrence) {
			t.Errorf("expected ErrMissingRecurrence, got %v", err)
		}
	})

	t.Run("recurring with zero interval", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{
			Title:              "a",
			IsRecurring:        true,
			RecurrencePattern:  strPtr("daily"),
			RecurrenceInterval: intPtr(0),
		})
		if !errors.Is(err, ErrMissingRecurrence) {
			t.Errorf("expected ErrMissingRecurrence, got %v", err)
		}
	})

	t.Run("recurring with unknown pattern rejected", func(t *testing.T) {
		err := validateTaskParams(&TaskParams{
			Title:              "a",
			IsRecurring:        true,
			RecurrencePattern:  strPtr("fortnightly"),
			RecurrenceInterval: intPtr(1),
		})
		if !errors.Is(err, recurrence.ErrInvalidPattern) {
			t.Errorf("expected ErrInvalidPattern, got %v", err)
		}
	})
}

func TestValidatePositions(t *testing.T) {
	t.Run("move index 0 to index 2 keeps a total order", func(t *testing.T) {
		// Tasks 10,20,30,40 held positions 1,2,3,4; task 10 moved to
		// the third slot.
		positions := []TaskPosition{
			{ID: 20, Position: 1},
			{ID: 30, Position: 2},
			{ID: 10, Position: 3},
			{ID: 40, Position: 4},
		}
		if err := validatePositions(positions); err != nil {
			t.Errorf("expected valid reorder, got %v", err)
		}
	})

	t.Run("duplicate position rejected", func(t *testing.T) {
		err := validatePositions([]TaskPosition{
			{ID: 1, Position: 1},
			{ID: 2, Position: 1},
		})
		if !errors.Is(err, ErrDuplicatePositions) {
			t.Errorf("expected ErrDuplicatePositions, got %v", err)
		}
	})

	t.Run("duplicate task rejected", func(t *testing.T) {
		err := validatePositions([]TaskPosition{
			{ID: 1, Position: 1},
			{ID: 1, Position: 2},
		})
		if !errors.Is(err, ErrDuplicatePositions) {
			t.Errorf("expected ErrDuplicatePositions, got %v", err)
		}
	})

	t.Run("empty list rejected", func(t *testing.T) {
		if err := validatePositions(nil); err == nil {
			t.Error("expected error for empty list")
		}
	})
}

func TestExpand(t *testing.T) {
	newService := func(insert func(context.Context, *models.Task, []int64) error) *taskServiceImpl {
		return &taskServiceImpl{
			logger: zerolog.Nop(),
			insert: insert,
		}
	}

	t.Run("successor keeps the parent's tags", func(t *testing.T) {
		var inserted *models.Task
		var insertedTags []int64
		svc := newService(func(_ context.Context, task *models.Task, tagIDs []int64) error {
			inserted = task
			insertedTags = tagIDs
			return nil
		})

		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 1)
		err := svc.expand(context.Background(), task, []int64{4, 9})
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}

		if inserted == nil {
			t.Fatal("expected a successor insert")
		}
		if inserted.ParentTaskID == nil || *inserted.ParentTaskID != task.ID {
			t.Errorf("expected parent task id %d, got %v", task.ID, inserted.ParentTaskID)
		}
		if len(insertedTags) != 2 || insertedTags[0] != 4 || insertedTags[1] != 9 {
			t.Errorf("expected tags [4 9] on successor, got %v", insertedTags)
		}
	})

	t.Run("complete series inserts nothing", func(t *testing.T) {
		called := false
		svc := newService(func(context.Context, *models.Task, []int64) error {
			called = true
			return nil
		})

		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 1)
		task.RecurrenceEndDate = timePtr(date("2024-03-02T00:00:00Z"))

		err := svc.expand(context.Background(), task, []int64{4})
		if err != nil {
			t.Fatalf("expand failed: %v", err)
		}
		if called {
			t.Error("expected no successor insert past the end date")
		}
	})

	t.Run("insert failure surfaces", func(t *testing.T) {
		insertErr := errors.New("insert failed")
		svc := newService(func(context.Context, *models.Task, []int64) error {
			return insertErr
		})

		task := recurringTask("2024-03-01T00:00:00Z", "weekly", 1)
		if err := svc.expand(context.Background(), task, nil); !errors.Is(err, insertErr) {
			t.Errorf("expected insert error, got %v", err)
		}
	})
}
