package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recordingStore struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
	done  chan struct{}
}

func newRecordingStore(expected int) *recordingStore {
	return &recordingStore{calls: make(map[string]int), done: make(chan struct{}, expected)}
}

func (s *recordingStore) Touch(_ context.Context, hash string, _ time.Time) error {
	s.mu.Lock()
	s.calls[hash]++
	s.mu.Unlock()
	s.done <- struct{}{}
	return s.err
}

func waitFor(t *testing.T, ch <-chan struct{}, n int) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-ch:
		case <-timeout:
			t.Fatalf("timed out after %d of %d touches", i, n)
		}
	}
}

func TestDispatcher_TouchReachesStore(t *testing.T) {
	store := newRecordingStore(3)
	d := NewDispatcher(2, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Touch("h1")
	d.Touch("h2")
	d.Touch("h1")
	waitFor(t, store.done, 3)

	store.mu.Lock()
	defer store.mu.Unlock()
	if store.calls["h1"] != 2 || store.calls["h2"] != 1 {
		t.Fatalf("unexpected calls: %v", store.calls)
	}
}

func TestDispatcher_StoreErrorsDoNotStopWorkers(t *testing.T) {
	store := newRecordingStore(2)
	store.err = errors.New("mongo down")
	d := NewDispatcher(1, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Touch("h1")
	d.Touch("h2")
	waitFor(t, store.done, 2)
}

func TestDispatcher_TouchNeverBlocks(t *testing.T) {
	store := newRecordingStore(0)
	d := NewDispatcher(1, store, zerolog.Nop())
	// Workers are not started, so the buffer fills up.

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Touch("same-hash")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Touch blocked on a full queue")
	}
	if got := d.Dropped(); got != 10 {
		t.Fatalf("expected 10 dropped updates, got %d", got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingStore(0), zerolog.Nop())

	first := d.shardIndex("abc")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("abc"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, newRecordingStore(0), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
