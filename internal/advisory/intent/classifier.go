// Package intent maps free-text chat messages to a fixed set of intents by
// ordered pattern rules.
package intent

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

type Intent string

const (
	LoanInquiry     Intent = "loan_inquiry"
	LoanComparison  Intent = "loan_comparison"
	Calculation     Intent = "calculation"
	ApplicationHelp Intent = "application_help"
	GeneralAdvice   Intent = "general_advice"
	General         Intent = "general"
)

// All lists every intent the classifier can return, in evaluation order.
var All = []Intent{LoanInquiry, LoanComparison, Calculation, ApplicationHelp, GeneralAdvice, General}

// Rule is one intent with its patterns. Patterns are compiled case-insensitive.
type Rule struct {
	Intent   Intent
	Patterns []string
}

// DefaultRules are evaluated top to bottom; the first intent with any
// matching pattern wins.
var DefaultRules = []Rule{
	{LoanInquiry, []string{
		`(?:trenger|vil ha|søker|leter etter).*(lån|kredit)`,
		`(?:hvor mye|kan jeg|låne)`,
		`(?:rente|rentesats|prosent)`,
	}},
	{LoanComparison, []string{
		`(?:sammenlign|beste|billigste).*(lån|bank)`,
		`(?:hvilken bank|hvor skal jeg)`,
		`(?:anbefal|foreslå|tips)`,
	}},
	{Calculation, []string{
		`(?:beregn|kalkuler|regn ut)`,
		`(?:månedlig|avdrag|totalkostnad)`,
		`(?:kalkulator|utregning)`,
	}},
	{ApplicationHelp, []string{
		`(?:søke|søknad|apply)`,
		`(?:dokumenter|papirer|krav)`,
		`(?:hvordan|prosess|steg)`,
	}},
	{GeneralAdvice, []string{
		`(?:råd|tips|hjelp|veiledning)`,
		`(?:økonomi|finans|penger)`,
		`(?:spare|investere|budsjett)`,
	}},
}

const (
	baseConfidence     = 0.3
	confidencePerMatch = 0.2
	maxConfidence      = 0.9
)

// Result is the classification of one message. Confidence is informational.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	MatchCount int     `json:"matchCount"`
}

type compiledRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Classifier is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles rules. An empty table, an empty pattern list or a
// bad pattern is rejected.
func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("intent classifier needs at least one rule")
	}

	c := &Classifier{rules: make([]compiledRule, 0, len(rules))}
	for _, r := range rules {
		if r.Intent == "" || r.Intent == General {
			return nil, fmt.Errorf("invalid rule intent %q", r.Intent)
		}
		if len(r.Patterns) == 0 {
			return nil, fmt.Errorf("intent %s has no patterns", r.Intent)
		}

		cr := compiledRule{intent: r.Intent}
		for _, p := range r.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("intent %s: bad pattern %q: %w", r.Intent, p, err)
			}
			cr.patterns = append(cr.patterns, re)
		}
		c.rules = append(c.rules, cr)
	}
	return c, nil
}

// MustNewClassifier panics on an invalid rule table.
func MustNewClassifier(rules []Rule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return defaultClassifier
}

var defaultClassifier = MustNewClassifier(DefaultRules)

// Classify returns the first intent with a matching pattern, or General.
// Confidence grows with how many of that intent's patterns matched.
func (c *Classifier) Classify(text string) Result {
	normalized := strings.ToLower(text)

	for _, r := range c.rules {
		if !r.matchesAny(normalized) {
			continue
		}
		matches := r.countMatches(normalized)
		return Result{
			Intent:     r.intent,
			Confidence: confidence(matches),
			MatchCount: matches,
		}
	}

	return Result{Intent: General, Confidence: confidence(0)}
}

func (r compiledRule) matchesAny(text string) bool {
	for _, re := range r.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

func (r compiledRule) countMatches(text string) int {
	n := 0
	for _, re := range r.patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

func confidence(matches int) float64 {
	c := baseConfidence + confidencePerMatch*float64(matches)
	// Round away float noise so 0.3+0.2*2 reports 0.7.
	return math.Min(maxConfidence, math.Round(c*100)/100)
}
