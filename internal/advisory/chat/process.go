// Package chat runs one user message through classification, rendering and
// session history.
package chat

import (
	"time"

	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
)

// Responder renders the reply for a classified message. Renderers backed by
// external collaborators may fail; the built-in composer never does.
type Responder interface {
	Respond(res intent.Result, lang session.Language, profile *session.UserProfile) (compose.Reply, error)
}

// Exchange is the outcome of one processed message. RenderErr is set when
// Reply is the apology that replaced a failed rendering.
type Exchange struct {
	Reply     compose.Reply
	RenderErr error
}

// ProcessMessage appends the user message and the assistant reply to s.
// Every user message gets exactly one assistant message, even when rendering
// fails.
func ProcessMessage(s *session.Session, text string, c *intent.Classifier, r Responder, now time.Time, newID func() string) Exchange {
	s.Append(session.ChatMessage{
		ID:        newID(),
		Role:      session.RoleUser,
		Content:   text,
		Timestamp: now,
	})

	res := c.Classify(text)
	s.Topic = topicFor(res.Intent, s.Topic)

	reply, err := r.Respond(res, s.Language(), s.Profile)
	if err != nil {
		reply = compose.Reply{
			Message:    compose.Apology(s.Language()),
			Intent:     res.Intent,
			Confidence: res.Confidence,
		}
	}

	s.Append(session.ChatMessage{
		ID:        newID(),
		Role:      session.RoleAssistant,
		Content:   reply.Message,
		Timestamp: now,
		Metadata:  &session.Metadata{Intent: string(res.Intent), Confidence: res.Confidence},
	})
	return Exchange{Reply: reply, RenderErr: err}
}

func topicFor(in intent.Intent, current session.Topic) session.Topic {
	switch in {
	case intent.LoanInquiry, intent.LoanComparison, intent.Calculation, intent.ApplicationHelp:
		return session.TopicLoans
	case intent.GeneralAdvice, intent.General:
		return session.TopicGeneral
	}
	return current
}
