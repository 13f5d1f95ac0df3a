// Package profile turns questionnaire answers into the numeric profile the
// recommendation engine scores against.
package profile

import (
	"loan-advisor/internal/common/errors"
	"loan-advisor/internal/common/validation"
	"loan-advisor/internal/loan/catalog"
)

// Answers is the completed seven-step questionnaire. Every field holds one of
// the labels below.
type Answers struct {
	LoanAmount       string `json:"loanAmount"`
	LoanPurpose      string `json:"loanPurpose"`
	MonthlyIncome    string `json:"monthlyIncome"`
	ExistingDebt     string `json:"existingDebt"`
	EmploymentStatus string `json:"employmentStatus"`
	HousingStatus    string `json:"housingStatus"`
	CreditHistory    string `json:"creditHistory"`
}

var (
	AmountLabels = []string{
		"50.000 kr", "100.000 kr", "200.000 kr", "300.000 kr", "500.000 kr", "Annet beløp",
	}
	PurposeLabels = []string{
		"Refinansiering", "Bil", "Renovering", "Ferie", "Bryllup", "Annet",
	}
	IncomeLabels = []string{
		"Under 300.000 kr", "300.000 - 500.000 kr", "500.000 - 700.000 kr",
		"700.000 - 1.000.000 kr", "Over 1.000.000 kr",
	}
	DebtLabels = []string{
		"Ingen gjeld", "Under 100.000 kr", "100.000 - 300.000 kr",
		"300.000 - 500.000 kr", "Over 500.000 kr",
	}
	HousingLabels = []string{
		"Eier bolig", "Leier bolig", "Bor hos foreldre", "Annet",
	}
)

var answersSchema = validation.MustCompile(map[string]interface{}{
	"type": "object",
	"required": []string{
		"loanAmount", "loanPurpose", "monthlyIncome", "existingDebt",
		"employmentStatus", "housingStatus", "creditHistory",
	},
	"properties": map[string]interface{}{
		"loanAmount":       enum(AmountLabels),
		"loanPurpose":      enum(PurposeLabels),
		"monthlyIncome":    enum(IncomeLabels),
		"existingDebt":     enum(DebtLabels),
		"employmentStatus": enum(catalog.EmploymentStatuses),
		"housingStatus":    enum(HousingLabels),
		"creditHistory":    enum(catalog.CreditTiers),
	},
})

func enum(labels []string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "enum": labels}
}

// Validate checks that every answer is a known label. It is meant for
// untrusted callers; Normalize itself accepts anything.
func (a Answers) Validate() error {
	result := answersSchema.Validate(a.asMap())
	if !result.Valid {
		return errors.NewInvalidProfileAnswersError(result.Summary())
	}
	return nil
}

func (a Answers) asMap() map[string]interface{} {
	m := make(map[string]interface{}, 7)
	for k, v := range map[string]string{
		"loanAmount":       a.LoanAmount,
		"loanPurpose":      a.LoanPurpose,
		"monthlyIncome":    a.MonthlyIncome,
		"existingDebt":     a.ExistingDebt,
		"employmentStatus": a.EmploymentStatus,
		"housingStatus":    a.HousingStatus,
		"creditHistory":    a.CreditHistory,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}
