package chat

import (
	"context"
	"strings"
	"time"

	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
	"loan-advisor/internal/analytics"
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/logger"
	"loan-advisor/internal/common/metrics"
	"loan-advisor/internal/common/observability"
	"loan-advisor/internal/common/validation"

	"github.com/google/uuid"
)

const MaxMessageLength = 2000

var messageSchemaText = map[string]interface{}{
	"type":      "string",
	"minLength": 1,
	"maxLength": MaxMessageLength,
	"pattern":   `\S`,
}

var messageSchema = validation.MustCompile(map[string]interface{}{
	"type":     "object",
	"required": []string{"sessionId", "message"},
	"properties": map[string]interface{}{
		"sessionId": map[string]interface{}{"type": "string", "minLength": 1},
		"message":   messageSchemaText,
	},
})

var textSchema = validation.MustCompile(map[string]interface{}{
	"type":       "object",
	"required":   []string{"message"},
	"properties": map[string]interface{}{"message": messageSchemaText},
})

// ValidateMessage reports whether text is acceptable as a chat message,
// without touching any session.
func ValidateMessage(text string) error {
	if result := textSchema.Validate(map[string]interface{}{"message": text}); !result.Valid {
		return errors.NewInvalidChatInputError(result.Summary())
	}
	return nil
}

// Service serves chat sessions from a Store. Calls for the same session are
// serialized by the store; different sessions run in parallel.
type Service struct {
	store      session.Store
	classifier *intent.Classifier
	responder  Responder
	tracker    *analytics.Tracker
	obs        *observability.Observability
	language   session.Language
	log        logger.Logger
	now        func() time.Time
	newID      func() string
}

type Option func(*Service)

func WithResponder(r Responder) Option {
	return func(s *Service) { s.responder = r }
}

func WithTracker(t *analytics.Tracker) Option {
	return func(s *Service) { s.tracker = t }
}

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

// WithDefaultLanguage sets the language of sessions started without one.
func WithDefaultLanguage(lang session.Language) Option {
	return func(s *Service) {
		if lang.Valid() {
			s.language = lang
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithMessageIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(store session.Store, classifier *intent.Classifier, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		classifier: classifier,
		responder:  compose.New(nil),
		language:   session.DefaultLanguage,
		log:        log.WithFields(map[string]interface{}{"component": "chat"}),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return "msg_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) StartSession(ctx context.Context, profile *session.UserProfile) (*session.Session, error) {
	if s.language != session.DefaultLanguage {
		p := session.UserProfile{}
		if profile != nil {
			p = *profile
		}
		if !p.PreferredLanguage.Valid() {
			p.PreferredLanguage = s.language
		}
		profile = &p
	}
	sess, err := s.store.Create(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.log.Info("Chat session started", map[string]interface{}{
		"sessionId": sess.ID,
		"language":  string(sess.Language()),
	})
	return sess, nil
}

func (s *Service) Session(ctx context.Context, id string) (*session.Session, error) {
	return s.store.Get(ctx, id)
}

// ProcessMessage answers text within the session. A failed rendering is
// replaced by an apology and is not reported as an error.
func (s *Service) ProcessMessage(ctx context.Context, sessionID, text string) (*compose.Reply, error) {
	done := s.obs.Track(ctx, "chat.process_message")

	if result := messageSchema.Validate(map[string]interface{}{"sessionId": sessionID, "message": text}); !result.Valid {
		done("invalid")
		return nil, errors.NewInvalidChatInputError(result.Summary())
	}
	text = strings.TrimSpace(text)

	var ex Exchange
	_, err := s.store.Update(ctx, sessionID, func(sess *session.Session) error {
		ex = ProcessMessage(sess, text, s.classifier, s.responder, s.now(), s.newID)
		return nil
	})
	if err != nil {
		done("error")
		s.log.Error("Failed to process chat message", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
		return nil, err
	}

	log := s.log.WithFields(map[string]interface{}{
		"sessionId":  sessionID,
		"intent":     string(ex.Reply.Intent),
		"confidence": ex.Reply.Confidence,
	})
	metrics.ChatMessages.WithLabelValues(string(ex.Reply.Intent)).Inc()
	if ex.RenderErr != nil {
		metrics.ChatFallbackReplies.Inc()
		log.Warn("Reply rendering failed, sent apology", map[string]interface{}{"error": ex.RenderErr.Error()})
		done("fallback")
	} else {
		log.Debug("Chat reply generated", nil)
		done("success")
	}
	s.tracker.ChatbotResponse(sessionID, ex.Reply.Intent, ex.Reply.Confidence)

	return &ex.Reply, nil
}

func (s *Service) UpdateProfile(ctx context.Context, sessionID string, u session.ProfileUpdate) (*session.Session, error) {
	return s.store.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.UpdateProfile(u)
		sess.Touch(s.now())
		return nil
	})
}

func (s *Service) SetLanguage(ctx context.Context, sessionID string, lang session.Language) (*session.Session, error) {
	if !lang.Valid() {
		return nil, errors.NewInvalidChatInputError("unsupported language: " + string(lang))
	}
	return s.store.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.SetLanguage(lang)
		return nil
	})
}

func (s *Service) ClearHistory(ctx context.Context, sessionID string) (*session.Session, error) {
	return s.store.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.ClearHistory()
		return nil
	})
}

func (s *Service) EndSession(ctx context.Context, sessionID string) error {
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info("Chat session ended", map[string]interface{}{"sessionId": sessionID})
	return nil
}
