package processchatmessage

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"loan-advisor/internal/advisory/chat"
	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) StartSession(ctx context.Context, profile *session.UserProfile) (*session.Session, error) {
	args := m.Called(ctx, profile)
	if s := args.Get(0); s != nil {
		return s.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) UpdateProfile(ctx context.Context, sessionID string, u session.ProfileUpdate) (*session.Session, error) {
	args := m.Called(ctx, sessionID, u)
	if s := args.Get(0); s != nil {
		return s.(*session.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockChatService) ProcessMessage(ctx context.Context, sessionID, text string) (*compose.Reply, error) {
	args := m.Called(ctx, sessionID, text)
	if r := args.Get(0); r != nil {
		return r.(*compose.Reply), args.Error(1)
	}
	return nil, args.Error(1)
}

func createTestHandler(t *testing.T, svc ChatService) *Handler {
	t.Helper()
	handler, err := NewHandler(DefaultConfig(), svc, logger.NewTestLogger(t))
	require.NoError(t, err)
	return handler
}

func TestHandler_Execute_WithChatService(t *testing.T) {
	store := session.NewMemoryStore()
	svc := chat.NewService(store, intent.Default(), logger.NewNoOpLogger())
	handler := createTestHandler(t, svc)
	ctx := context.Background()

	lang := session.English
	income := 400000.0
	first, err := handler.Execute(ctx, &Input{
		Message: "Which bank is best? sammenlign bank",
		Profile: &session.ProfileUpdate{PreferredLanguage: &lang, Income: &income},
	})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)
	assert.Equal(t, "loan_comparison", first.Intent)
	assert.Contains(t, first.Reply, "you can borrow up to 2,000,000 NOK.")
	assert.Len(t, first.QuickReplies, 4)

	second, err := handler.Execute(ctx, &Input{SessionID: first.SessionID, Message: "hei"})
	require.NoError(t, err)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "general", second.Intent)
	assert.NotNil(t, second.SuggestedActions)

	sess, err := store.Get(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Len(t, sess.History, 4)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   *Input
		setup   func(*MockChatService)
		errCode errors.ErrorCode
	}{
		{
			name:  "unknown session",
			input: &Input{SessionID: "gone", Message: "hei"},
			setup: func(m *MockChatService) {
				m.On("ProcessMessage", mock.Anything, "gone", "hei").
					Return(nil, errors.NewSessionNotFoundError("gone"))
			},
			errCode: errors.ErrCodeSessionNotFound,
		},
		{
			name:  "store unavailable on start",
			input: &Input{Message: "hei"},
			setup: func(m *MockChatService) {
				m.On("StartSession", mock.Anything, (*session.UserProfile)(nil)).
					Return(nil, errors.NewSessionStoreFailedError("create", fmt.Errorf("connection refused")))
			},
			errCode: errors.ErrCodeSessionStoreFailed,
		},
		{
			name:    "invalid message",
			input:   &Input{SessionID: "s1", Message: ""},
			setup:   func(m *MockChatService) {},
			errCode: errors.ErrCodeInvalidChatInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockChatService)
			tt.setup(svc)
			handler := createTestHandler(t, svc)

			_, err := handler.Execute(context.Background(), tt.input)
			assert.True(t, errors.HasCode(err, tt.errCode), "got %v", err)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_InvalidMessageStartsNoSession(t *testing.T) {
	messages := map[string]string{
		"empty":      "",
		"whitespace": "   ",
		"oversize":   strings.Repeat("a", chat.MaxMessageLength+1),
	}

	for name, msg := range messages {
		t.Run(name, func(t *testing.T) {
			store := session.NewMemoryStore()
			svc := chat.NewService(store, intent.Default(), logger.NewNoOpLogger())
			handler := createTestHandler(t, svc)

			_, err := handler.Execute(context.Background(), &Input{Message: msg})
			assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidChatInput), "got %v", err)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	c := DefaultConfig()
	assert.True(t, c.Enabled)
	assert.Equal(t, 50, c.MaxJobsActive)
	assert.Equal(t, 10*time.Second, c.Timeout)
	assert.NoError(t, c.Validate())
}
