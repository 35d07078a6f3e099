package status_test

import (
	"testing"
	"time"

	"github.com/dalemusser/gatherhub/internal/app/system/status"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDerive_Upcoming(t *testing.T) {
	now := time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)
	got := status.Derive(date(2025, 1, 1), "10:00", now)
	if got != status.Upcoming {
		t.Errorf("got %q, want %q", got, status.Upcoming)
	}
}

func TestDerive_Completed(t *testing.T) {
	now := time.Date(2025, 1, 2, 10, 0, 0, 0, time.UTC)
	got := status.Derive(date(2025, 1, 1), "10:00", now)
	if got != status.Completed {
		t.Errorf("got %q, want %q", got, status.Completed)
	}
}

func TestDerive_OngoingAtExactInstant(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	got := status.Derive(date(2025, 1, 1), "10:00", now)
	if got != status.Ongoing {
		t.Errorf("got %q, want %q", got, status.Ongoing)
	}
}

func TestDerive_OneMinuteAfterIsCompleted(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 1, 0, 0, time.UTC)
	got := status.Derive(date(2025, 1, 1), "10:00", now)
	if got != status.Completed {
		t.Errorf("got %q, want %q", got, status.Completed)
	}
}

func TestDerive_IsPure(t *testing.T) {
	d := date(2025, 6, 15)
	now := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	first := status.Derive(d, "09:00", now)
	for i := 0; i < 10; i++ {
		if got := status.Derive(d, "09:00", now); got != first {
			t.Fatalf("Derive not stable: got %q then %q", first, got)
		}
	}
}

func TestScheduledInstant_CombinesInUTC(t *testing.T) {
	// Date carries a non-UTC zone; the instant must still be built from
	// the UTC calendar date plus the wall-clock time.
	loc := time.FixedZone("minus5", -5*3600)
	d := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	at := status.ScheduledInstant(d, "18:45")

	want := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("got %v, want %v", at, want)
	}
}

func TestScheduledInstant_BadTimeFallsBackToMidnight(t *testing.T) {
	at := status.ScheduledInstant(date(2025, 3, 10), "not-a-time")
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !at.Equal(want) {
		t.Errorf("got %v, want %v", at, want)
	}
}

func TestParseTimeOfDay(t *testing.T) {
	h, m, err := status.ParseTimeOfDay("23:59")
	if err != nil {
		t.Fatalf("ParseTimeOfDay failed: %v", err)
	}
	if h != 23 || m != 59 {
		t.Errorf("got %d:%d, want 23:59", h, m)
	}

	if _, _, err := status.ParseTimeOfDay("24:00"); err == nil {
		t.Error("expected error for 24:00")
	}
	if _, _, err := status.ParseTimeOfDay(""); err == nil {
		t.Error("expected error for empty string")
	}
}
