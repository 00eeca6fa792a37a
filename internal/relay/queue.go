package relay

import (
	"log"
	"sync"
	"time"

	"github.com/alleyops/switchboard/internal/models"
)

// Queue event kinds.
const (
	EventEnqueued  = "messageEnqueued"
	EventProcess   = "process" // type-scoped: Event.MessageType carries the scope
	EventProcessed = "messageProcessed"
	EventError     = "messageError"
)

// Event is one queue lifecycle notification.
type Event struct {
	Kind        string
	MessageID   uint
	MessageType string // incoming/outgoing; set on EventEnqueued and EventProcess
	Status      string // terminal status tag; set on EventProcessed
	Err         string // error description; set on EventError
	Timestamp   time.Time
}

// QueueOpts holds parameters for creating a Queue.
type QueueOpts struct {
	Tick time.Duration // processing cadence; defaults to 100ms

	// Handler, when set, runs for each popped message. A handler error is
	// converted into an EventError and swallowed; it never stops the loop.
	Handler func(models.Message) error

	// EventBuffer is the subscriber channel capacity. Events are dropped
	// (with a log line) when the subscriber falls this far behind.
	EventBuffer int
}

// Queue is the outbound post-send buffer: an unbounded FIFO drained at a
// fixed tick, one message per tick, emitting lifecycle events. It provides
// no persistence and no backpressure; buffered messages are lost on
// process restart.
type Queue struct {
	tick    time.Duration
	handler func(models.Message) error

	mu           sync.Mutex
	buffer       []models.Message
	isProcessing bool

	events chan Event
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewQueue creates a Queue. Call Run to start draining.
func NewQueue(opts QueueOpts) *Queue {
	tick := opts.Tick
	if tick <= 0 {
		tick = 100 * time.Millisecond
	}
	buf := opts.EventBuffer
	if buf <= 0 {
		buf = 64
	}
	return &Queue{
		tick:    tick,
		handler: opts.Handler,
		events:  make(chan Event, buf),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Events returns the lifecycle event channel. Single consumer; events are
// dropped when the consumer falls behind, never blocking the queue.
func (q *Queue) Events() <-chan Event {
	return q.events
}

// Enqueue appends a message to the tail of the buffer. It never blocks and
// never rejects.
func (q *Queue) Enqueue(msg models.Message) {
	q.mu.Lock()
	q.buffer = append(q.buffer, msg)
	q.mu.Unlock()

	q.emit(Event{
		Kind:        EventEnqueued,
		MessageID:   msg.ID,
		MessageType: msg.MessageType,
		Timestamp:   time.Now(),
	})
}

// Len returns the current buffer depth.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.buffer)
}

// Run drains the buffer on a fixed tick until Stop is called. At most one
// message is popped and fully processed per tick; the isProcessing flag
// guards re-entry should a run ever overlap the next tick. Blocks; run it
// in its own goroutine.
func (q *Queue) Run() {
	ticker := time.NewTicker(q.tick)
	defer ticker.Stop()
	defer close(q.done)

	for {
		select {
		case <-q.stop:
			return
		case <-ticker.C:
			q.processNext()
		}
	}
}

// Stop halts the processing loop. Buffer contents are preserved but no
// longer drained; there is no restart. Idempotent.
func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stop) })
	<-q.done
}

// processNext pops and processes the head message, if any.
func (q *Queue) processNext() {
	q.mu.Lock()
	if q.isProcessing || len(q.buffer) == 0 {
		q.mu.Unlock()
		return
	}
	q.isProcessing = true
	msg := q.buffer[0]
	q.buffer = q.buffer[1:]
	q.mu.Unlock()

	q.process(msg)

	q.mu.Lock()
	q.isProcessing = false
	q.mu.Unlock()
}

// process runs one message through the handler and emits the outcome.
// Handler faults become EventError; they never propagate.
func (q *Queue) process(msg models.Message) {
	q.emit(Event{
		Kind:        EventProcess,
		MessageID:   msg.ID,
		MessageType: msg.MessageType,
		Timestamp:   time.Now(),
	})

	if q.handler != nil {
		if err := q.handler(msg); err != nil {
			q.emit(Event{
				Kind:      EventError,
				MessageID: msg.ID,
				Err:       err.Error(),
				Timestamp: time.Now(),
			})
			return
		}
	}

	q.emit(Event{
		Kind:      EventProcessed,
		MessageID: msg.ID,
		Status:    "processed",
		Timestamp: time.Now(),
	})
}

// emit delivers an event without ever blocking the queue.
func (q *Queue) emit(ev Event) {
	select {
	case q.events <- ev:
	default:
		log.Printf("relay: queue: dropping %s event for message %d (subscriber behind)", ev.Kind, ev.MessageID)
	}
}
