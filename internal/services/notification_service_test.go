package services

import (
	"testing"
	"time"
)

func TestReminderTime(t *testing.T) {
	due := date("2024-05-10T09:00:00Z")
	got := reminderTime(due)
	if want := date("2024-05-09T09:00:00Z"); !got.Equal(want) {
		t.Errorf("reminderTime(%s) = %s, want %s", due, got, want)
	}
}

func TestReminderTimePreservesLead(t *testing.T) {
	due := time.Now().Add(3 * time.Hour)
	if got := due.Sub(reminderTime(due)); got != reminderLead {
		t.Errorf("lead = %s, want %s", got, reminderLead)
	}
}

func TestReminderMessage(t *testing.T) {
	got := reminderMessage(`Ship "v2"`)
	want := `Reminder: Task "Ship \"v2\"" is due in 24 hours.`
	if got != want {
		t.Errorf("reminderMessage = %s, want %s", got, want)
	}
}
