// Package catalog holds the read-only set of loan products offered to applicants.
package catalog

// Employment statuses as captured by the questionnaire.
const (
	EmploymentPermanent    = "Fast ansatt"
	EmploymentTemporary    = "Midlertidig ansatt"
	EmploymentSelfEmployed = "Selvstendig næringsdrivende"
	EmploymentRetired      = "Pensjonist"
	EmploymentStudent      = "Student"
	EmploymentUnemployed   = "Arbeidsledig"
)

// EmploymentStatuses lists every employment label in questionnaire order.
var EmploymentStatuses = []string{
	EmploymentPermanent,
	EmploymentTemporary,
	EmploymentSelfEmployed,
	EmploymentRetired,
	EmploymentStudent,
	EmploymentUnemployed,
}

// Credit tiers, best first.
const (
	CreditExcellent  = "Meget god"
	CreditGood       = "God"
	CreditMedium     = "Middels"
	CreditPoor       = "Dårlig"
	CreditDelinquent = "Har betalingsanmerkninger"
)

// CreditTiers is ordered from best to worst.
var CreditTiers = []string{
	CreditExcellent,
	CreditGood,
	CreditMedium,
	CreditPoor,
	CreditDelinquent,
}

// Requirements are the eligibility rules a lender publishes for a product.
type Requirements struct {
	MinIncome         float64  `json:"minIncome"`
	MaxDebtRatio      float64  `json:"maxDebtRatio"`
	EmploymentTypes   []string `json:"employmentTypes"`
	CreditRequirement []string `json:"creditRequirement"`
}

// AllowsEmployment reports whether status is one of the accepted employment types.
func (r Requirements) AllowsEmployment(status string) bool {
	return contains(r.EmploymentTypes, status)
}

// AllowsCredit reports whether tier is one of the accepted credit tiers.
func (r Requirements) AllowsCredit(tier string) bool {
	return contains(r.CreditRequirement, tier)
}

// LoanProduct is one lender offer. Amounts are in NOK and rates in percent per year.
type LoanProduct struct {
	ID               string       `json:"id"`
	BankName         string       `json:"bankName"`
	ProductName      string       `json:"productName"`
	MinAmount        float64      `json:"minAmount"`
	MaxAmount        float64      `json:"maxAmount"`
	MinRate          float64      `json:"minRate"`
	MaxRate          float64      `json:"maxRate"`
	EstablishmentFee float64      `json:"establishmentFee"`
	Features         []string     `json:"features"`
	Requirements     Requirements `json:"requirements"`
	AffiliateURL     string       `json:"affiliateUrl"`
	Commission       float64      `json:"commission"`
}

func (p LoanProduct) clone() LoanProduct {
	c := p
	c.Features = append([]string(nil), p.Features...)
	c.Requirements.EmploymentTypes = append([]string(nil), p.Requirements.EmploymentTypes...)
	c.Requirements.CreditRequirement = append([]string(nil), p.Requirements.CreditRequirement...)
	return c
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
