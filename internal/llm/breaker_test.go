package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type stubCompleter struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (s *stubCompleter) Complete(ctx context.Context, req Request) (*Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Response{Content: "ok"}, nil
}

func (s *stubCompleter) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: errors.New("boom")}
	var transitions []string
	b := NewBreaker(stub, BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		Timeout:          time.Minute,
		OnStateChange: func(from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		},
	})

	for i := 0; i < 3; i++ {
		if _, err := b.Complete(context.Background(), Request{}); err == nil {
			t.Fatal("expected upstream error")
		}
	}
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	if _, err := b.Complete(context.Background(), Request{}); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("expected ErrCircuitOpen, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("upstream called %d times, want 3", stub.calls)
	}
	if len(transitions) != 1 || transitions[0] != "closed->open" {
		t.Errorf("transitions = %v", transitions)
	}
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: errors.New("boom")}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1, SuccessThreshold: 2, Timeout: time.Second})
	now := time.Now()
	b.now = func() time.Time { return now }

	_, _ = b.Complete(context.Background(), Request{})
	if b.State() != StateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	now = now.Add(2 * time.Second)
	stub.setErr(nil)

	if _, err := b.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if b.State() != StateHalfOpen {
		t.Fatalf("state = %s, want half-open", b.State())
	}
	if _, err := b.Complete(context.Background(), Request{}); err != nil {
		t.Fatalf("second probe failed: %v", err)
	}
	if b.State() != StateClosed {
		t.Errorf("state = %s, want closed", b.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: errors.New("boom")}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1, Timeout: time.Second})
	now := time.Now()
	b.now = func() time.Time { return now }

	_, _ = b.Complete(context.Background(), Request{})
	now = now.Add(2 * time.Second)
	_, _ = b.Complete(context.Background(), Request{})

	if b.State() != StateOpen {
		t.Errorf("state = %s, want open", b.State())
	}
}

func TestBreaker_IgnoresCancellation(t *testing.T) {
	t.Parallel()

	stub := &stubCompleter{err: context.Canceled}
	b := NewBreaker(stub, BreakerConfig{FailureThreshold: 1})

	_, _ = b.Complete(context.Background(), Request{})
	if b.State() != StateClosed {
		t.Errorf("state = %s, want closed", b.State())
	}
}
