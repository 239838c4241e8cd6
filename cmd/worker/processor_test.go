package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/danisworo/shopapi/internal/platform/queue"
)

type fakeQueue struct {
	mu     sync.Mutex
	events []*queue.OrderCreatedEvent
}

func (q *fakeQueue) PublishOrderCreated(ctx context.Context, event queue.OrderCreatedEvent) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, &event)
	return nil
}

func (q *fakeQueue) ConsumeOrderCreated(ctx context.Context) (*queue.OrderCreatedEvent, error) {
	q.mu.Lock()
	if len(q.events) > 0 {
		event := q.events[0]
		q.events = q.events[1:]
		q.mu.Unlock()
		return event, nil
	}
	q.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Millisecond):
		return nil, nil
	}
}

func (q *fakeQueue) remaining() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

type fakePurger struct {
	mu      sync.Mutex
	calls   int
	deleted int64
	err     error
}

func (p *fakePurger) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.deleted, p.err
}

func (p *fakePurger) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal(msg)
}

func runProcessor(ctx context.Context, p *Processor) chan error {
	done := make(chan error, 1)
	go func() {
		done <- p.Start(ctx)
	}()
	return done
}

func TestProcessorPurgesOnStartup(t *testing.T) {
	purger := &fakePurger{deleted: 3}
	p := NewProcessor(&fakeQueue{}, purger, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := runProcessor(ctx, p)

	waitFor(t, func() bool { return purger.callCount() == 1 }, "expected startup purge pass")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop after cancel")
	}

	// Interval was an hour, so the startup pass must be the only one.
	if got := purger.callCount(); got != 1 {
		t.Fatalf("purge called %d times, want 1", got)
	}
}

func TestProcessorPurgesOnTicker(t *testing.T) {
	purger := &fakePurger{}
	p := NewProcessor(&fakeQueue{}, purger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := runProcessor(ctx, p)

	waitFor(t, func() bool { return purger.callCount() >= 3 }, "expected ticker-driven purge passes")

	cancel()
	<-done
}

func TestProcessorSurvivesPurgeFailure(t *testing.T) {
	purger := &fakePurger{err: errors.New("db unavailable")}
	p := NewProcessor(&fakeQueue{}, purger, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := runProcessor(ctx, p)

	// Failed passes are logged and retried on the next tick.
	waitFor(t, func() bool { return purger.callCount() >= 2 }, "expected purge to keep retrying after failure")

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Start returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop after cancel")
	}
}

func TestProcessorDrainsOrderEvents(t *testing.T) {
	q := &fakeQueue{}
	for i := int64(1); i <= 3; i++ {
		if err := q.PublishOrderCreated(context.Background(), queue.OrderCreatedEvent{
			OrderID:    i,
			UserExtID:  "user_2NvqP8xKZr3WQIoTm5F1h9yLcRd",
			TotalPrice: 49.99,
			CreatedAt:  time.Now(),
		}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}

	p := NewProcessor(q, &fakePurger{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := runProcessor(ctx, p)

	waitFor(t, func() bool { return q.remaining() == 0 }, "expected all queued events to be consumed")

	cancel()
	<-done
}

func TestNewProcessorDefaultInterval(t *testing.T) {
	p := NewProcessor(&fakeQueue{}, &fakePurger{}, 0)
	if p.purgeInterval != time.Hour {
		t.Fatalf("purgeInterval = %v, want 1h default", p.purgeInterval)
	}
}
