// Package calculator prices a single loan from explicit parameters.
package calculator

import (
	"math"

	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/loan/recommend"
)

type Params struct {
	Amount           float64 `json:"amount"`
	RatePercent      float64 `json:"ratePercent"`
	TermYears        int     `json:"termYears"`
	EstablishmentFee float64 `json:"establishmentFee"`
}

// Result figures are rounded to whole kroner; EffectiveRate to two decimals.
type Result struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	TotalCost      float64 `json:"totalCost"`
	TotalInterest  float64 `json:"totalInterest"`
	EffectiveRate  float64 `json:"effectiveRate"`
}

// DefaultParams are the values the calculator page opens with.
func DefaultParams() Params {
	return Params{
		Amount:           200000,
		RatePercent:      6.5,
		TermYears:        5,
		EstablishmentFee: 2000,
	}
}

var paramsSchema = validation.MustCompile(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["amount", "ratePercent", "termYears"],
	"properties": {
		"amount":           {"type": "number", "exclusiveMinimum": 0},
		"ratePercent":      {"type": "number", "minimum": 0, "maximum": 100},
		"termYears":        {"type": "integer", "minimum": 1, "maximum": 30},
		"establishmentFee": {"type": "number", "minimum": 0}
	}
}`)

func (p Params) Validate() error {
	result := paramsSchema.Validate(p)
	if !result.Valid {
		return errors.NewInvalidLoanParametersError(result.Summary())
	}
	return nil
}

// Calculate validates p and returns the repayment figures. The effective
// rate spreads the total cost, fee included, evenly over the term.
func Calculate(p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	n := float64(p.TermYears * 12)
	monthly := recommend.CalculateMonthlyPayment(p.Amount, p.RatePercent, p.TermYears)
	totalCost := monthly*n + p.EstablishmentFee
	totalInterest := totalCost - p.Amount
	effective := (math.Pow(totalCost/p.Amount, 1/float64(p.TermYears)) - 1) * 100

	return &Result{
		MonthlyPayment: math.Round(monthly),
		TotalCost:      math.Round(totalCost),
		TotalInterest:  math.Round(totalInterest),
		EffectiveRate:  math.Round(effective*100) / 100,
	}, nil
}
