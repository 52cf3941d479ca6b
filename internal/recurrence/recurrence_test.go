package recurrence

import (
	"errors"
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestNext(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		pattern  Pattern
		interval int
		want     string
	}{
		{"daily", "2024-03-01T00:00:00Z", Daily, 1, "2024-03-02T00:00:00Z"},
		{"daily interval 3", "2024-03-01T00:00:00Z", Daily, 3, "2024-03-04T00:00:00Z"},
		{"weekly", "2024-03-01T00:00:00Z", Weekly, 1, "2024-03-08T00:00:00Z"},
		{"weekly interval 2", "2024-03-01T00:00:00Z", Weekly, 2, "2024-03-15T00:00:00Z"},
		{"monthly", "2024-03-15T09:30:00Z", Monthly, 1, "2024-04-15T09:30:00Z"},
		{"monthly preserves time of day", "2024-05-10T09:00:00Z", Monthly, 2, "2024-07-10T09:00:00Z"},
		{"monthly overflow normalizes", "2024-01-31T00:00:00Z", Monthly, 1, "2024-03-02T00:00:00Z"},
		{"yearly", "2024-03-01T00:00:00Z", Yearly, 1, "2025-03-01T00:00:00Z"},
		{"yearly leap day normalizes", "2024-02-29T00:00:00Z", Yearly, 1, "2025-03-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(date(tt.current), tt.pattern, tt.interval)
			if err != nil {
				t.Fatalf("Next returned error: %v", err)
			}
			if want := date(tt.want); !got.Equal(want) {
				t.Errorf("Next(%s, %s, %d) = %s, want %s",
					tt.current, tt.pattern, tt.interval, got.Format(time.RFC3339), tt.want)
			}
		})
	}
}

func TestNext_InvalidPattern(t *testing.T) {
	_, err := Next(date("2024-03-01T00:00:00Z"), Pattern("hourly"), 1)
	if !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}

func TestNext_NonPositiveInterval(t *testing.T) {
	for _, interval := range []int{0, -1} {
		_, err := Next(date("2024-03-01T00:00:00Z"), Daily, interval)
		if err == nil {
			t.Errorf("expected error for interval %d", interval)
		}
	}
}

func TestNext_AdvancesMonotonically(t *testing.T) {
	start := date("2024-01-31T23:59:59Z")
	for _, pattern := range []Pattern{Daily, Weekly, Monthly, Yearly} {
		for interval := 1; interval <= 12; interval++ {
			next, err := Next(start, pattern, interval)
			if err != nil {
				t.Fatalf("Next(%s, %d): %v", pattern, interval, err)
			}
			if !next.After(start) {
				t.Errorf("Next(%s, %d) = %s does not advance past %s",
					pattern, interval, next, start)
			}
		}
	}
}

func TestNext_DailyCommutesWithIntervalScaling(t *testing.T) {
	start := date("2024-03-01T00:00:00Z")

	doubled, err := Next(start, Daily, 2)
	if err != nil {
		t.Fatal(err)
	}

	once, err := Next(start, Daily, 1)
	if err != nil {
		t.Fatal(err)
	}
	twice, err := Next(once, Daily, 1)
	if err != nil {
		t.Fatal(err)
	}

	if !doubled.Equal(twice) {
		t.Errorf("daily interval 2 = %s, two daily steps = %s", doubled, twice)
	}
}

func TestParsePattern(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly", "yearly"} {
		p, err := ParsePattern(s)
		if err != nil {
			t.Errorf("ParsePattern(%q): %v", s, err)
		}
		if string(p) != s {
			t.Errorf("ParsePattern(%q) = %q", s, p)
		}
	}

	for _, s := range []string{"", "hourly", "DAILY", "fortnightly"} {
		if _, err := ParsePattern(s); !errors.Is(err, ErrInvalidPattern) {
			t.Errorf("ParsePattern(%q): expected ErrInvalidPattern, got %v", s, err)
		}
	}
}
