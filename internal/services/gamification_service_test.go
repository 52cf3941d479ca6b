package services

import (
	"testing"
)

func TestAdvanceStreak(t *testing.T) {
	today := date("2024-06-10T18:30:00Z")

	t.Run("first completion starts the streak", func(t *testing.T) {
		current, longest := advanceStreak(0, 0, nil, today)
		if current != 1 || longest != 1 {
			t.Errorf("got (%d, %d), want (1, 1)", current, longest)
		}
	})

	t.Run("second completion on the same day keeps the streak", func(t *testing.T) {
		last := date("2024-06-10T08:00:00Z")
		current, longest := advanceStreak(4, 6, &last, today)
		if current != 4 || longest != 6 {
			t.Errorf("got (%d, %d), want (4, 6)", current, longest)
		}
	})

	t.Run("next-day completion extends the streak", func(t *testing.T) {
		last := date("2024-06-09T23:00:00Z")
		current, longest := advanceStreak(4, 6, &last, today)
		if current != 5 || longest != 6 {
			t.Errorf("got (%d, %d), want (5, 6)", current, longest)
		}
	})

	t.Run("extending past the record updates longest", func(t *testing.T) {
		last := date("2024-06-09T23:00:00Z")
		current, longest := advanceStreak(6, 6, &last, today)
		if current != 7 || longest != 7 {
			t.Errorf("got (%d, %d), want (7, 7)", current, longest)
		}
	})

	t.Run("missed day resets to one", func(t *testing.T) {
		last := date("2024-06-07T12:00:00Z")
		current, longest := advanceStreak(9, 9, &last, today)
		if current != 1 || longest != 9 {
			t.Errorf("got (%d, %d), want (1, 9)", current, longest)
		}
	})
}
