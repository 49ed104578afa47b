package ratelimit

import (
	"testing"
	"time"
)

func TestIncrCountsWithinWindow(t *testing.T) {
	s := NewMemoryStore()

	for want := 1; want <= 3; want++ {
		got, err := s.Incr("k", time.Minute)
		if err != nil {
			t.Fatalf("incr: %v", err)
		}
		if got != want {
			t.Fatalf("count = %d, want %d", got, want)
		}
	}
}

func TestIncrKeysAreIndependent(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Incr("a", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	got, err := s.Incr("b", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if got != 1 {
		t.Fatalf("count = %d, want 1", got)
	}
}

func TestWindowExpiryStartsFresh(t *testing.T) {
	s := NewMemoryStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	if _, err := s.Incr("k", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	if _, err := s.Incr("k", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}

	current = current.Add(time.Minute + time.Second)
	got, err := s.Incr("k", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if got != 1 {
		t.Fatalf("count after expiry = %d, want 1", got)
	}
}

func TestReset(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.Incr("k", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	s.Reset("k")

	got, err := s.Incr("k", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if got != 1 {
		t.Fatalf("count after reset = %d, want 1", got)
	}
}
