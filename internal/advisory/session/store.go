package session

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store keeps sessions isolated by id. Update runs fn with exclusive access
// to one session, so calls for the same id are applied one at a time while
// different ids proceed independently.
type Store interface {
	Create(ctx context.Context, profile *UserProfile) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// Option configures the clock and id source of a store.
type Option func(*options)

type options struct {
	now   func() time.Time
	newID func() string
	ttl   time.Duration
}

func defaultOptions() options {
	return options{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithTTL expires sessions idle for longer than ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}
