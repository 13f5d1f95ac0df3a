package calculateloan

import "loan-advisor/internal/loan/calculator"

// Input mirrors calculator.Params. Omitted fields take the calculator's
// opening values.
type Input struct {
	SessionID        string   `json:"sessionId,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	RatePercent      *float64 `json:"ratePercent,omitempty"`
	TermYears        *int     `json:"termYears,omitempty"`
	EstablishmentFee *float64 `json:"establishmentFee,omitempty"`
}

func (in *Input) params() calculator.Params {
	p := calculator.DefaultParams()
	if in.Amount != nil {
		p.Amount = *in.Amount
	}
	if in.RatePercent != nil {
		p.RatePercent = *in.RatePercent
	}
	if in.TermYears != nil {
		p.TermYears = *in.TermYears
	}
	if in.EstablishmentFee != nil {
		p.EstablishmentFee = *in.EstablishmentFee
	}
	return p
}

type Output struct {
	Params         calculator.Params `json:"loanParameters"`
	MonthlyPayment float64           `json:"monthlyPayment"`
	TotalCost      float64           `json:"totalCost"`
	TotalInterest  float64           `json:"totalInterest"`
	EffectiveRate  float64           `json:"effectiveRate"`
}
