package queue

import (
	"context"
	"hash/fnv"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// TouchStore is the part of the token store the workers write to.
type TouchStore interface {
	Touch(ctx context.Context, hash string, at time.Time) error
}

// Dispatcher records token usage off the request path. Hashes are routed to
// a fixed set of workers by FNV hash so updates for one token stay ordered.
type Dispatcher struct {
	workers []chan touch
	store   TouchStore
	log     zerolog.Logger
	now     func() time.Time
	dropped atomic.Int64
}

type touch struct {
	hash string
	at   time.Time
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, store TouchStore, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan touch, numWorkers),
		store:   store,
		log:     log,
		now:     time.Now,
	}
	for i := range d.workers {
		d.workers[i] = make(chan touch, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Touch queues a last-used update for hash. It never blocks: when the
// worker's buffer is full the update is dropped.
func (d *Dispatcher) Touch(hash string) {
	t := touch{hash: hash, at: d.now().UTC()}
	select {
	case d.workers[d.shardIndex(hash)] <- t:
	default:
		d.dropped.Add(1)
		d.log.Debug().Msg("touch queue full, dropping update")
	}
}

// Dropped returns how many updates were discarded because a queue was full.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// shardIndex maps a hash deterministically to a worker index.
func (d *Dispatcher) shardIndex(hash string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(hash))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan touch) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ch:
			if !ok {
				return
			}
			if err := d.store.Touch(ctx, t.hash, t.at); err != nil {
				d.log.Warn().Err(err).
					Int("worker_id", id).
					Msg("token touch failed")
			}
		}
	}
}
