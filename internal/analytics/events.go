package analytics

import (
	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/loan/profile"
	"loan-advisor/internal/loan/recommend"
)

func (t *Tracker) QuizCompleted(sessionID string, a profile.Answers) {
	t.Track(sessionID, EventQuizCompleted, map[string]interface{}{
		"loanAmount":       a.LoanAmount,
		"loanPurpose":      a.LoanPurpose,
		"monthlyIncome":    a.MonthlyIncome,
		"existingDebt":     a.ExistingDebt,
		"employmentStatus": a.EmploymentStatus,
		"housingStatus":    a.HousingStatus,
		"creditHistory":    a.CreditHistory,
		"page":             "quiz",
	})
}

func (t *Tracker) ResultsViewed(sessionID string, recs []recommend.Recommendation) {
	props := map[string]interface{}{
		"page":               "results",
		"numRecommendations": len(recs),
	}
	if len(recs) > 0 {
		props["topBank"] = recs[0].Product.BankName
		props["topProductId"] = recs[0].Product.ID
		props["topRate"] = recs[0].EstimatedRate
		props["topMatchScore"] = recs[0].MatchScore
	}
	t.Track(sessionID, EventResultsViewed, props)
}

func (t *Tracker) LoanDetailsViewed(sessionID string, r recommend.Recommendation, loanAmount float64) {
	t.Track(sessionID, EventLoanDetailsViewed, map[string]interface{}{
		"productId":  r.Product.ID,
		"bankName":   r.Product.BankName,
		"loanAmount": loanAmount,
		"rate":       r.EstimatedRate,
		"page":       "results",
	})
}

// ApplicationStarted records a referral conversion; its value is the
// product's commission.
func (t *Tracker) ApplicationStarted(sessionID string, r recommend.Recommendation, loanAmount float64) {
	t.Track(sessionID, EventApplicationStarted, map[string]interface{}{
		"productId":       r.Product.ID,
		"bankName":        r.Product.BankName,
		"loanAmount":      loanAmount,
		"estimatedRate":   r.EstimatedRate,
		"commission":      r.Product.Commission,
		"conversionValue": r.Product.Commission,
		"page":            "results",
	})
}

func (t *Tracker) CalculatorUsed(sessionID string, amount, ratePercent float64, termYears int) {
	t.Track(sessionID, EventCalculatorUsed, map[string]interface{}{
		"loanAmount": amount,
		"rate":       ratePercent,
		"term":       termYears,
		"page":       "calculator",
	})
}

func (t *Tracker) ChatbotResponse(sessionID string, in intent.Intent, confidence float64) {
	t.Track(sessionID, EventChatbotResponse, map[string]interface{}{
		"intent":     string(in),
		"confidence": confidence,
	})
}
