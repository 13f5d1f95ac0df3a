package analytics

import (
	"context"
	"sync"

	"loan-advisor/internal/common/aws"
	"loan-advisor/internal/common/errors"
)

// Sink receives tracked events. Publish is called from a single goroutine.
type Sink interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// MemorySink keeps the most recent events in process.
type MemorySink struct {
	mu     sync.RWMutex
	size   int
	events []Event
}

const DefaultBufferSize = 100

func NewMemorySink(size int) *MemorySink {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &MemorySink{size: size, events: make([]Event, 0, size)}
}

func (m *MemorySink) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	if over := len(m.events) - m.size; over > 0 {
		m.events = append(m.events[:0], m.events[over:]...)
	}
	return nil
}

// Events returns the buffered events, oldest first.
func (m *MemorySink) Events() []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Event(nil), m.events...)
}

func (m *MemorySink) Close() error { return nil }

// SNSSink publishes each event as a JSON message to one topic. The event name
// is set as the "event" message attribute for subscription filtering.
type SNSSink struct {
	client   *aws.SNSClient
	topicARN string
}

func NewSNSSink(client *aws.SNSClient, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Publish(ctx context.Context, e Event) error {
	attributes := map[string]string{"event": e.Name}
	if e.SessionID != "" {
		attributes["sessionId"] = e.SessionID
	}
	_, err := s.client.PublishJSON(ctx, s.topicARN, e, attributes)
	if err != nil {
		return errors.NewAnalyticsPublishFailedError("sns", err)
	}
	return nil
}

func (s *SNSSink) Close() error { return nil }
