package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubSweeper struct {
	calls int
	n     int
	err   error
}

func (s *stubSweeper) SweepOverdue(ctx context.Context) (int, error) {
	s.calls++
	return s.n, s.err
}

type stubLocker struct {
	held     bool
	err      error
	released bool
}

func (l *stubLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	return func(context.Context) error { l.released = true; return nil }, true, nil
}

func TestScheduler_RunOnce(t *testing.T) {
	tests := []struct {
		name        string
		locker      *stubLocker
		sweeper     *stubSweeper
		wantCalls   int
		wantMarked  int
		wantRelease bool
		wantErr     bool
	}{
		{"acquires lock and sweeps", &stubLocker{}, &stubSweeper{n: 3}, 1, 3, true, false},
		{"skips when lock held", &stubLocker{held: true}, &stubSweeper{n: 3}, 0, 0, false, false},
		{"reports lock error", &stubLocker{err: errors.New("redis down")}, &stubSweeper{}, 0, 0, false, true},
		{"releases after sweep error", &stubLocker{}, &stubSweeper{err: errors.New("mongo down")}, 1, 0, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New("@every 1h", tt.sweeper, tt.locker, zerolog.Nop())
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := s.RunOnce(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("RunOnce() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.wantMarked {
				t.Errorf("RunOnce() = %d, want %d", got, tt.wantMarked)
			}
			if tt.sweeper.calls != tt.wantCalls {
				t.Errorf("sweeper calls = %d, want %d", tt.sweeper.calls, tt.wantCalls)
			}
			if tt.locker.released != tt.wantRelease {
				t.Errorf("released = %v, want %v", tt.locker.released, tt.wantRelease)
			}
		})
	}
}

func TestScheduler_NoLocker(t *testing.T) {
	sw := &stubSweeper{n: 1}
	s, err := New("", sw, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got, err := s.RunOnce(context.Background()); err != nil || got != 1 {
		t.Fatalf("RunOnce() = %d, %v; want 1, nil", got, err)
	}
}

func TestNew_InvalidSpec(t *testing.T) {
	if _, err := New("every tuesday", &stubSweeper{}, nil, zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
