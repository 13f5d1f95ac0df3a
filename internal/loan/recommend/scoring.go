package recommend

import (
	"math"

	"loan-advisor/internal/loan/catalog"
	"loan-advisor/internal/loan/profile"
)

// Score component weights. They sum to MaxScore.
const (
	amountWeight     = 30.0
	incomeWeight     = 25.0
	debtRatioWeight  = 20.0
	employmentWeight = 15.0
	creditWeight     = 10.0

	MaxScore = 100.0

	// shortfallUnit is how many NOK below a minimum cost one point.
	shortfallUnit = 10000.0
	// ratioPenalty is points lost per whole unit of debt-ratio excess.
	ratioPenalty = 100.0
)

// Applicant is the normalized profile plus the categorical answers the
// scoring needs verbatim.
type Applicant struct {
	profile.Normalized
	EmploymentStatus string
	CreditHistory    string
}

// NewApplicant derives an Applicant from questionnaire answers.
func NewApplicant(a profile.Answers) Applicant {
	return Applicant{
		Normalized:       profile.Normalize(a),
		EmploymentStatus: a.EmploymentStatus,
		CreditHistory:    a.CreditHistory,
	}
}

// MatchScore rates how well the applicant fits p's eligibility rules, 0 to 100.
func MatchScore(p catalog.LoanProduct, a Applicant) float64 {
	score := amountFit(p, a.LoanAmount) +
		incomeFit(p.Requirements.MinIncome, a.Income) +
		debtRatioFit(p.Requirements.MaxDebtRatio, a.DebtRatio())

	if p.Requirements.AllowsEmployment(a.EmploymentStatus) {
		score += employmentWeight
	}
	if p.Requirements.AllowsCredit(a.CreditHistory) {
		score += creditWeight
	}

	return clamp(score, 0, MaxScore)
}

func amountFit(p catalog.LoanProduct, amount float64) float64 {
	switch {
	case amount >= p.MinAmount && amount <= p.MaxAmount:
		return amountWeight
	case amount < p.MinAmount:
		return math.Max(0, amountWeight-(p.MinAmount-amount)/shortfallUnit)
	default:
		return 0
	}
}

func incomeFit(minIncome, income float64) float64 {
	if income >= minIncome {
		return incomeWeight
	}
	return math.Max(0, incomeWeight-(minIncome-income)/shortfallUnit)
}

func debtRatioFit(maxRatio, ratio float64) float64 {
	if ratio <= maxRatio {
		return debtRatioWeight
	}
	return math.Max(0, debtRatioWeight-(ratio-maxRatio)*ratioPenalty)
}

// creditAdjustment is added to the interpolated rate, in percentage points.
var creditAdjustment = map[string]float64{
	catalog.CreditExcellent:  -0.5,
	catalog.CreditGood:       0,
	catalog.CreditMedium:     1.0,
	catalog.CreditPoor:       2.5,
	catalog.CreditDelinquent: 4.0,
}

// EstimateInterestRate interpolates between p's min and max rate by how far
// score is from a perfect fit, adjusts for the credit tier and clamps the
// result to the product's range.
func EstimateInterestRate(p catalog.LoanProduct, score float64, creditTier string) float64 {
	spread := p.MaxRate - p.MinRate
	rate := p.MinRate + spread*(MaxScore-score)/MaxScore
	rate += creditAdjustment[creditTier]
	return clamp(rate, p.MinRate, p.MaxRate)
}

// CalculateMonthlyPayment returns the annuity payment for principal at an
// annual ratePercent over years. A zero rate repays principal evenly.
func CalculateMonthlyPayment(principal, ratePercent float64, years int) float64 {
	n := float64(years * 12)
	if n <= 0 {
		return 0
	}
	r := ratePercent / 100 / 12
	if r == 0 {
		return principal / n
	}
	growth := math.Pow(1+r, n)
	return principal * r * growth / (growth - 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
