package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/analytics"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, opts ...Option) (*Service, session.Store) {
	t.Helper()
	store := session.NewMemoryStore(session.WithClock(func() time.Time { return t0 }))
	opts = append([]Option{WithClock(func() time.Time { return t0 })}, opts...)
	return NewService(store, intent.Default(), logger.NewTestLogger(t), opts...), store
}

func TestService_ProcessMessage(t *testing.T) {
	sink := analytics.NewMemorySink(10)
	tracker := analytics.NewTracker(sink, logger.NewNoOpLogger())
	svc, _ := newTestService(t, WithTracker(tracker))
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, nil)
	require.NoError(t, err)

	reply, err := svc.ProcessMessage(ctx, sess.ID, "  Hvor mye kan jeg låne?  ")
	require.NoError(t, err)
	assert.Equal(t, intent.LoanInquiry, reply.Intent)
	assert.NotEmpty(t, reply.QuickReplies)

	got, err := svc.Session(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, got.History, 2)
	assert.Equal(t, "Hvor mye kan jeg låne?", got.History[0].Content)

	require.NoError(t, tracker.Close())
	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, analytics.EventChatbotResponse, events[0].Name)
	assert.Equal(t, sess.ID, events[0].SessionID)
}

func TestService_ProcessMessage_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, nil)
	require.NoError(t, err)

	tests := []struct {
		name      string
		sessionID string
		text      string
	}{
		{"empty message", sess.ID, ""},
		{"whitespace only", sess.ID, "   \n"},
		{"too long", sess.ID, strings.Repeat("a", MaxMessageLength+1)},
		{"empty session id", "", "hei"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ProcessMessage(ctx, tt.sessionID, tt.text)
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidChatInput), "got %v", err)
		})
	}

	got, _ := svc.Session(ctx, sess.ID)
	assert.Empty(t, got.History)
}

func TestService_ProcessMessage_UnknownSession(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.ProcessMessage(context.Background(), "missing", "hei")
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
}

func TestService_ProcessMessage_RenderFailure(t *testing.T) {
	svc, _ := newTestService(t, WithResponder(failingResponder{}))
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, &session.UserProfile{PreferredLanguage: session.English})
	require.NoError(t, err)

	reply, err := svc.ProcessMessage(ctx, sess.ID, "what documents do I need")
	require.NoError(t, err)
	assert.Equal(t, compose.Apology(session.English), reply.Message)

	got, _ := svc.Session(ctx, sess.ID)
	require.Len(t, got.History, 2)
	assert.Equal(t, compose.Apology(session.English), got.History[1].Content)
}

func TestService_ProfileAndLanguage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	sess, err := svc.StartSession(ctx, nil)
	require.NoError(t, err)

	income := 700000.0
	updated, err := svc.UpdateProfile(ctx, sess.ID, session.ProfileUpdate{Income: &income})
	require.NoError(t, err)
	assert.Equal(t, session.Norwegian, updated.Language())

	_, err = svc.SetLanguage(ctx, sess.ID, session.English)
	require.NoError(t, err)
	_, err = svc.SetLanguage(ctx, sess.ID, "de")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidChatInput))

	reply, err := svc.ProcessMessage(ctx, sess.ID, "hvilken bank er billigst?")
	require.NoError(t, err)
	assert.Contains(t, reply.Message, "you can borrow up to 3,500,000 NOK.")

	cleared, err := svc.ClearHistory(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.History)
	assert.Equal(t, 700000.0, cleared.Profile.Income)

	require.NoError(t, svc.EndSession(ctx, sess.ID))
	_, err = svc.Session(ctx, sess.ID)
	assert.True(t, errors.HasCode(err, errors.ErrCodeSessionNotFound))
	assert.True(t, errors.HasCode(svc.EndSession(ctx, sess.ID), errors.ErrCodeSessionNotFound))
}

func TestService_DefaultLanguage(t *testing.T) {
	svc, _ := newTestService(t, WithDefaultLanguage(session.English))
	ctx := context.Background()

	sess, err := svc.StartSession(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, session.English, sess.Language())

	sess, err = svc.StartSession(ctx, &session.UserProfile{PreferredLanguage: session.Norwegian})
	require.NoError(t, err)
	assert.Equal(t, session.Norwegian, sess.Language())

	svc, _ = newTestService(t, WithDefaultLanguage("sv"))
	sess, err = svc.StartSession(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, sess.Profile)
	assert.Equal(t, session.Norwegian, sess.Language())
}

func TestService_ConcurrentSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	const sessions, messages = 5, 20
	ids := make([]string, sessions)
	for i := range ids {
		sess, err := svc.StartSession(ctx, nil)
		require.NoError(t, err)
		ids[i] = sess.ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for w := 0; w < 2; w++ {
			wg.Add(1)
			go func(id string, w int) {
				defer wg.Done()
				for i := 0; i < messages/2; i++ {
					_, err := svc.ProcessMessage(ctx, id, fmt.Sprintf("beregn %d-%d", w, i))
					assert.NoError(t, err)
				}
			}(id, w)
		}
	}
	wg.Wait()

	for _, id := range ids {
		got, err := svc.Session(ctx, id)
		require.NoError(t, err)
		require.Len(t, got.History, messages*2)
		for i := 0; i < len(got.History); i += 2 {
			assert.Equal(t, session.RoleUser, got.History[i].Role)
			assert.Equal(t, session.RoleAssistant, got.History[i+1].Role)
		}
	}
}
