// Package compose renders classified chat messages into language-specific
// replies with follow-up actions.
package compose

import (
	"math"

	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"
)

type ActionType string

const (
	ActionNavigate  ActionType = "navigate"
	ActionCalculate ActionType = "calculate"
	ActionApply     ActionType = "apply"
	ActionLearnMore ActionType = "learn_more"
)

// Action is a suggestion for the host application. The advisor never
// performs it.
type Action struct {
	Type  ActionType             `json:"type"`
	Label string                 `json:"label"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type Reply struct {
	Message          string        `json:"message"`
	Intent           intent.Intent `json:"intent"`
	Confidence       float64       `json:"confidence"`
	SuggestedActions []Action      `json:"suggestedActions,omitempty"`
	QuickReplies     []string      `json:"quickReplies,omitempty"`
}

// Builder renders the body, actions and quick replies for one intent.
type Builder func(lang session.Language, profile *session.UserProfile) Reply

// Composer dispatches to one builder per intent.
type Composer struct {
	builders map[intent.Intent]Builder
}

// New returns a Composer with the built-in templates. overrides replace the
// builder for individual intents.
func New(overrides map[intent.Intent]Builder) *Composer {
	builders := map[intent.Intent]Builder{
		intent.LoanInquiry:     loanInquiry,
		intent.LoanComparison:  loanComparison,
		intent.Calculation:     calculation,
		intent.ApplicationHelp: applicationHelp,
		intent.GeneralAdvice:   generalAdvice,
		intent.General:         general,
	}
	for in, b := range overrides {
		if b != nil {
			builders[in] = b
		}
	}
	return &Composer{builders: builders}
}

// Compose renders res for the given language and profile. Unknown intents
// get the general reply; an unsupported language falls back to the default.
func (c *Composer) Compose(res intent.Result, lang session.Language, profile *session.UserProfile) Reply {
	if !lang.Valid() {
		lang = session.DefaultLanguage
	}
	build, ok := c.builders[res.Intent]
	if !ok {
		build = c.builders[intent.General]
		res.Intent = intent.General
	}

	reply := build(lang, profile)
	reply.Intent = res.Intent
	reply.Confidence = res.Confidence
	return reply
}

// Respond is Compose in the shape the chat service expects from a renderer.
// The built-in templates cannot fail.
func (c *Composer) Respond(res intent.Result, lang session.Language, profile *session.UserProfile) (Reply, error) {
	return c.Compose(res, lang, profile), nil
}

func pick(lang session.Language, no, en string) string {
	if lang == session.English {
		return en
	}
	return no
}

func route(r string) map[string]interface{} {
	return map[string]interface{}{"route": r}
}

func loanInquiry(lang session.Language, _ *session.UserProfile) Reply {
	t := loanInquiryText[lang]
	return Reply{
		Message: t.message,
		SuggestedActions: []Action{
			{Type: ActionNavigate, Label: pick(lang, "Start sammenligning", "Start comparison"), Data: route("/quiz")},
			{Type: ActionCalculate, Label: pick(lang, "Åpne kalkulator", "Open calculator"), Data: route("/kalkulator")},
		},
		QuickReplies: t.quickReplies(),
	}
}

func loanComparison(lang session.Language, profile *session.UserProfile) Reply {
	t := loanComparisonText[lang]
	return Reply{
		Message: t.message + borrowingCeiling(lang, profile),
		SuggestedActions: []Action{
			{Type: ActionNavigate, Label: pick(lang, "Se detaljert sammenligning", "View detailed comparison"), Data: route("/resultater")},
		},
		QuickReplies: t.quickReplies(),
	}
}

// borrowingCeiling suggests five times the yearly income, only when the
// income is known.
func borrowingCeiling(lang session.Language, profile *session.UserProfile) string {
	if profile == nil || profile.Income <= 0 {
		return ""
	}
	ceiling := math.Floor(profile.Income * 5)
	if lang == session.English {
		return "\n\nBased on your income of " + FormatCurrency(profile.Income, lang) +
			", you can borrow up to " + FormatCurrency(ceiling, lang) + "."
	}
	return "\n\nBasert på din inntekt på " + FormatCurrency(profile.Income, lang) +
		" kan du låne opptil " + FormatCurrency(ceiling, lang) + "."
}

func calculation(lang session.Language, _ *session.UserProfile) Reply {
	t := calculationText[lang]
	return Reply{
		Message: t.message,
		SuggestedActions: []Action{
			{Type: ActionNavigate, Label: pick(lang, "Åpne lånekalkulator", "Open loan calculator"), Data: route("/kalkulator")},
		},
		QuickReplies: t.quickReplies(),
	}
}

func applicationHelp(lang session.Language, _ *session.UserProfile) Reply {
	t := applicationHelpText[lang]
	return Reply{
		Message: t.message,
		SuggestedActions: []Action{
			{Type: ActionNavigate, Label: pick(lang, "Start søknad", "Start application"), Data: route("/quiz")},
		},
		QuickReplies: t.quickReplies(),
	}
}

func generalAdvice(lang session.Language, _ *session.UserProfile) Reply {
	t := generalAdviceText[lang]
	return Reply{Message: t.message, QuickReplies: t.quickReplies()}
}

func general(lang session.Language, _ *session.UserProfile) Reply {
	t := generalText[lang]
	return Reply{Message: t.message, QuickReplies: t.quickReplies()}
}
