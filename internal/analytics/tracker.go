// Package analytics records conversion and usage events for the loan
// advisor. Tracking never blocks or fails the caller: events are queued and
// published in the background, and sink failures are only logged.
package analytics

import (
	"context"
	"sync"
	"time"

	"loan-advisor/internal/common/logger"

	"github.com/google/uuid"
)

const (
	EventQuizCompleted      = "quiz_completed"
	EventResultsViewed      = "results_viewed"
	EventLoanDetailsViewed  = "loan_details_viewed"
	EventApplicationStarted = "loan_application_started"
	EventCalculatorUsed     = "calculator_used"
	EventChatbotResponse    = "chatbot_response_generated"
)

type Event struct {
	ID         string                 `json:"id"`
	Name       string                 `json:"event"`
	SessionID  string                 `json:"sessionId,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Timestamp  time.Time              `json:"timestamp"`
}

const (
	defaultQueueSize      = 256
	defaultPublishTimeout = 5 * time.Second
)

// Tracker queues events for a Sink. Create it with NewTracker and call Close
// on shutdown to drain the queue. A nil *Tracker discards everything.
type Tracker struct {
	sink    Sink
	log     logger.Logger
	now     func() time.Time
	timeout time.Duration

	queue chan Event
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

type TrackerOption func(*Tracker)

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

func WithQueueSize(n int) TrackerOption {
	return func(t *Tracker) {
		if n > 0 {
			t.queue = make(chan Event, n)
		}
	}
}

func WithPublishTimeout(d time.Duration) TrackerOption {
	return func(t *Tracker) { t.timeout = d }
}

func NewTracker(sink Sink, log logger.Logger, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		sink:    sink,
		log:     log.WithFields(map[string]interface{}{"component": "analytics"}),
		now:     func() time.Time { return time.Now().UTC() },
		timeout: defaultPublishTimeout,
		queue:   make(chan Event, defaultQueueSize),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.run()
	return t
}

func (t *Tracker) run() {
	defer close(t.done)
	for e := range t.queue {
		ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
		if err := t.sink.Publish(ctx, e); err != nil {
			t.log.Warn("Failed to publish analytics event", map[string]interface{}{
				"event":     e.Name,
				"sessionId": e.SessionID,
				"error":     err.Error(),
			})
		}
		cancel()
	}
}

// Track queues an event. It drops the event with a warning when the queue
// is full or the tracker is closed.
func (t *Tracker) Track(sessionID, name string, properties map[string]interface{}) {
	if t == nil {
		return
	}
	if properties == nil {
		properties = map[string]interface{}{}
	}
	e := Event{
		ID:         uuid.NewString(),
		Name:       name,
		SessionID:  sessionID,
		Properties: properties,
		Timestamp:  t.now(),
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}
	select {
	case t.queue <- e:
	default:
		t.log.Warn("Analytics queue full, dropping event", map[string]interface{}{
			"event":     name,
			"sessionId": sessionID,
		})
	}
}

// Close stops accepting events, publishes what is queued and closes the sink.
func (t *Tracker) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	close(t.queue)
	t.mu.Unlock()

	<-t.done
	return t.sink.Close()
}
