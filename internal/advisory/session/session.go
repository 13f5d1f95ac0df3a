// Package session holds per-conversation chat state and the stores that keep
// sessions isolated by id.
package session

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

type Language string

const (
	Norwegian Language = "no"
	English   Language = "en"

	DefaultLanguage = Norwegian
)

// Valid reports whether l is a supported locale.
func (l Language) Valid() bool {
	return l == Norwegian || l == English
}

type Topic string

const (
	TopicGeneral     Topic = "general"
	TopicLoans       Topic = "loans"
	TopicSavings     Topic = "savings"
	TopicInvestments Topic = "investments"
	TopicInsurance   Topic = "insurance"
)

// Metadata is attached to assistant replies.
type Metadata struct {
	Intent     string  `json:"intent,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// ChatMessage is immutable once appended.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  *Metadata `json:"metadata,omitempty"`
}

// UserProfile is what the advisor knows about the user. Zero numeric values
// mean unknown.
type UserProfile struct {
	Name              string   `json:"name,omitempty"`
	Age               int      `json:"age,omitempty"`
	Income            float64  `json:"income,omitempty"`
	ExistingLoans     float64  `json:"existingLoans,omitempty"`
	CreditScore       string   `json:"creditScore,omitempty"`
	LoanPurpose       string   `json:"loanPurpose,omitempty"`
	PreferredLanguage Language `json:"preferredLanguage"`
}

// ProfileUpdate carries only the fields to change.
type ProfileUpdate struct {
	Name              *string   `json:"name,omitempty"`
	Age               *int      `json:"age,omitempty"`
	Income            *float64  `json:"income,omitempty"`
	ExistingLoans     *float64  `json:"existingLoans,omitempty"`
	CreditScore       *string   `json:"creditScore,omitempty"`
	LoanPurpose       *string   `json:"loanPurpose,omitempty"`
	PreferredLanguage *Language `json:"preferredLanguage,omitempty"`
}

// Session is one conversation. History is append-only through Append; stores
// hand out copies so callers cannot reorder or edit it.
type Session struct {
	ID           string        `json:"id"`
	Profile      *UserProfile  `json:"profile,omitempty"`
	History      []ChatMessage `json:"history"`
	Topic        Topic         `json:"topic"`
	CreatedAt    time.Time     `json:"createdAt"`
	LastActivity time.Time     `json:"lastActivity"`
}

// New starts an empty session. A nil profile stays nil until updated.
func New(id string, profile *UserProfile, now time.Time) *Session {
	s := &Session{
		ID:           id,
		History:      []ChatMessage{},
		Topic:        TopicGeneral,
		CreatedAt:    now,
		LastActivity: now,
	}
	if profile != nil {
		p := *profile
		if !p.PreferredLanguage.Valid() {
			p.PreferredLanguage = DefaultLanguage
		}
		s.Profile = &p
	}
	return s
}

// Append adds msg to the end of the history.
func (s *Session) Append(msg ChatMessage) {
	s.History = append(s.History, msg)
	if msg.Timestamp.After(s.LastActivity) {
		s.LastActivity = msg.Timestamp
	}
}

// Touch records activity without a message.
func (s *Session) Touch(now time.Time) {
	if now.After(s.LastActivity) {
		s.LastActivity = now
	}
}

// Language is the profile's preferred language, or the default.
func (s *Session) Language() Language {
	if s.Profile != nil && s.Profile.PreferredLanguage.Valid() {
		return s.Profile.PreferredLanguage
	}
	return DefaultLanguage
}

// UpdateProfile merges u into the profile, creating it if needed.
func (s *Session) UpdateProfile(u ProfileUpdate) {
	if s.Profile == nil {
		s.Profile = &UserProfile{PreferredLanguage: DefaultLanguage}
	}
	p := s.Profile
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Age != nil {
		p.Age = *u.Age
	}
	if u.Income != nil {
		p.Income = *u.Income
	}
	if u.ExistingLoans != nil {
		p.ExistingLoans = *u.ExistingLoans
	}
	if u.CreditScore != nil {
		p.CreditScore = *u.CreditScore
	}
	if u.LoanPurpose != nil {
		p.LoanPurpose = *u.LoanPurpose
	}
	if u.PreferredLanguage != nil && u.PreferredLanguage.Valid() {
		p.PreferredLanguage = *u.PreferredLanguage
	}
}

func (s *Session) SetLanguage(l Language) {
	s.UpdateProfile(ProfileUpdate{PreferredLanguage: &l})
}

func (s *Session) ClearHistory() {
	s.History = []ChatMessage{}
}

// Snapshot returns a deep copy.
func (s *Session) Snapshot() *Session {
	c := *s
	if s.Profile != nil {
		p := *s.Profile
		c.Profile = &p
	}
	c.History = make([]ChatMessage, len(s.History))
	for i, m := range s.History {
		if m.Metadata != nil {
			md := *m.Metadata
			m.Metadata = &md
		}
		c.History[i] = m
	}
	return &c
}
