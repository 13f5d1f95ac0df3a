// Package recommend scores catalog products against an applicant and ranks
// the viable offers.
package recommend

import (
	"context"
	"math"
	"sort"

	"loan-advisor/internal/loan/catalog"
	"loan-advisor/internal/loan/profile"
)

const (
	DefaultTermYears          = 5
	DefaultMaxResults         = 5
	DefaultViabilityThreshold = 30.0

	// scoreDiscount is the NOK of total cost one match point is worth when ranking.
	scoreDiscount = 1000.0
)

// Recommendation is one ranked offer. MonthlyPayment and TotalCost are
// rounded to whole kroner.
type Recommendation struct {
	Product        catalog.LoanProduct `json:"bank"`
	EstimatedRate  float64             `json:"estimatedRate"`
	MonthlyPayment float64             `json:"monthlyPayment"`
	TotalCost      float64             `json:"totalCost"`
	MatchScore     float64             `json:"matchScore"`
	Recommended    bool                `json:"recommended"`
}

func (r Recommendation) rankKey() float64 {
	return r.TotalCost - r.MatchScore*scoreDiscount
}

// Engine is stateless apart from its read-only catalog and settings, so one
// instance can serve concurrent requests.
type Engine struct {
	catalog    *catalog.Catalog
	termYears  int
	maxResults int
	threshold  float64
}

type Option func(*Engine)

func WithTermYears(years int) Option {
	return func(e *Engine) {
		if years > 0 {
			e.termYears = years
		}
	}
}

func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithViabilityThreshold sets the score a product must exceed to be offered.
func WithViabilityThreshold(score float64) Option {
	return func(e *Engine) {
		e.threshold = score
	}
}

func NewEngine(c *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:    c,
		termYears:  DefaultTermYears,
		maxResults: DefaultMaxResults,
		threshold:  DefaultViabilityThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate prices one product for the applicant without filtering.
func (e *Engine) Evaluate(p catalog.LoanProduct, a Applicant) Recommendation {
	score := MatchScore(p, a)
	rate := EstimateInterestRate(p, score, a.CreditHistory)
	monthly := CalculateMonthlyPayment(a.LoanAmount, rate, e.termYears)
	total := monthly*float64(e.termYears*12) + p.EstablishmentFee

	return Recommendation{
		Product:        p,
		EstimatedRate:  rate,
		MonthlyPayment: math.Round(monthly),
		TotalCost:      math.Round(total),
		MatchScore:     score,
	}
}

// Generate returns at most maxResults viable offers, best first. The first
// entry, if any, is marked recommended. An empty result is not an error.
func (e *Engine) Generate(answers profile.Answers) []Recommendation {
	applicant := NewApplicant(answers)

	recs := make([]Recommendation, 0, e.catalog.Len())
	for _, p := range e.catalog.Products() {
		rec := e.Evaluate(p, applicant)
		if rec.MatchScore > e.threshold {
			recs = append(recs, rec)
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].rankKey() < recs[j].rankKey()
	})

	if len(recs) > e.maxResults {
		recs = recs[:e.maxResults]
	}
	if len(recs) > 0 {
		recs[0].Recommended = true
	}
	return recs
}

// Recommender is implemented by Engine and CachedEngine.
type Recommender interface {
	Recommend(ctx context.Context, answers profile.Answers) []Recommendation
}

func (e *Engine) Recommend(_ context.Context, answers profile.Answers) []Recommendation {
	return e.Generate(answers)
}
