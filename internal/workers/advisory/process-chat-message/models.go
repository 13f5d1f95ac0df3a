package processchatmessage

import (
	"loan-advisor/internal/advisory/compose"
	"loan-advisor/internal/advisory/session"
)

// Input starts a new session when SessionID is empty. Profile, if set, is
// merged into the session before the message is answered.
type Input struct {
	SessionID string                 `json:"sessionId,omitempty"`
	Message   string                 `json:"message"`
	Profile   *session.ProfileUpdate `json:"profile,omitempty"`
}

type Output struct {
	SessionID        string           `json:"sessionId"`
	Reply            string           `json:"reply"`
	Intent           string           `json:"intent"`
	Confidence       float64          `json:"confidence"`
	SuggestedActions []compose.Action `json:"suggestedActions"`
	QuickReplies     []string         `json:"quickReplies"`
}
