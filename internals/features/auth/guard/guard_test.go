package guard

import (
	"testing"
	"time"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestIsBlockedAfterMaxFailures(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(&now)))

	for i := 0; i < MaxAttempts-1; i++ {
		s.RecordFailure("1.2.3.4")
		if s.IsBlocked("1.2.3.4") {
			t.Fatalf("blocked after %d failures", i+1)
		}
	}

	s.RecordFailure("1.2.3.4")
	if !s.IsBlocked("1.2.3.4") {
		t.Fatal("not blocked after 5 failures")
	}

	// a 6th failure keeps it blocked
	s.RecordFailure("1.2.3.4")
	if !s.IsBlocked("1.2.3.4") {
		t.Fatal("unblocked after 6th failure")
	}
}

func TestRecordSuccessResets(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(&now)))

	for i := 0; i < MaxAttempts; i++ {
		s.RecordFailure("1.2.3.4")
	}
	if !s.IsBlocked("1.2.3.4") {
		t.Fatal("expected blocked")
	}

	s.RecordSuccess("1.2.3.4")
	if s.IsBlocked("1.2.3.4") {
		t.Fatal("still blocked after success")
	}
	if got := s.FailCount("1.2.3.4"); got != 0 {
		t.Fatalf("FailCount = %d, want 0", got)
	}
}

func TestWindowExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(&now)))

	for i := 0; i < MaxAttempts; i++ {
		s.RecordFailure("9.9.9.9")
	}

	// just before the window elapses the block holds
	now = now.Add(LockoutWindow - time.Second)
	if !s.IsBlocked("9.9.9.9") {
		t.Fatal("unblocked before window elapsed")
	}

	// once the window passes the identity is admitted again
	now = now.Add(2 * time.Second)
	if s.IsBlocked("9.9.9.9") {
		t.Fatal("blocked after window elapsed")
	}
	if got := s.FailCount("9.9.9.9"); got != 0 {
		t.Fatalf("stale failures still counted: %d", got)
	}

	// a new failure starts a fresh window with count 1
	s.RecordFailure("9.9.9.9")
	if got := s.FailCount("9.9.9.9"); got != 1 {
		t.Fatalf("FailCount = %d, want 1 in fresh window", got)
	}
	if s.IsBlocked("9.9.9.9") {
		t.Fatal("blocked on first failure of fresh window")
	}
}

func TestSweepDropsElapsedRecords(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(&now)))

	s.RecordFailure("old")
	now = now.Add(12 * time.Hour)
	s.RecordFailure("fresh")

	s.Sweep(now.Add(13 * time.Hour)) // "old" is past 24h, "fresh" is not
	if got := s.Len(); got != 1 {
		t.Fatalf("Len = %d after sweep, want 1", got)
	}
	if got := s.FailCount("fresh"); got != 1 {
		t.Fatalf("fresh record swept, FailCount = %d", got)
	}
}

func TestIdentitiesAreIndependent(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(WithClock(fixedClock(&now)))

	for i := 0; i < MaxAttempts; i++ {
		s.RecordFailure("a")
	}
	if !s.IsBlocked("a") {
		t.Fatal("a not blocked")
	}
	if s.IsBlocked("b") {
		t.Fatal("b blocked without failures")
	}
}
