package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/events"
	"github.com/BruksfildServices01/barber-booking/internal/lib/sl"
)

const queueSize = 100

type Event struct {
	UserID   *uint     `json:"userId,omitempty"`
	Action   string    `json:"action"`
	Entity   string    `json:"entity"`
	EntityID *uint     `json:"entityId,omitempty"`
	Metadata any       `json:"metadata,omitempty"`
	At       time.Time `json:"at"`
}

type Recorder interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher records events off the request path. When the queue is full
// events are dropped rather than blocking the caller.
type Dispatcher struct {
	recorder  Recorder
	publisher events.Publisher
	log       *slog.Logger

	queue  chan Event
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(recorder Recorder, publisher events.Publisher, log *slog.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.Noop{}
	}

	d := &Dispatcher{
		recorder:  recorder,
		publisher: publisher,
		log:       log,
		queue:     make(chan Event, queueSize),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := d.recorder.Log(ctx, ev); err != nil {
			d.log.Error("audit log failed", slog.String("action", ev.Action), sl.Err(err))
		}
		if err := d.publisher.Publish(ctx, ev.Action, ev); err != nil {
			d.log.Error("event publish failed", slog.String("action", ev.Action), sl.Err(err))
		}

		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("audit dispatcher closed, dropping event", slog.String("action", ev.Action))
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close drains the queue and stops the worker. Events dispatched afterwards
// are dropped.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
