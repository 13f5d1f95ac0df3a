package profile

import (
	"math"
	"strings"
)

const (
	DefaultAmount = 200000
	DefaultIncome = 400000
	DefaultDebt   = 0
)

// Normalized is the numeric view of Answers. It is derived on demand and
// never stored.
type Normalized struct {
	LoanAmount float64 `json:"loanAmount"`
	Income     float64 `json:"income"`
	Debt       float64 `json:"debt"`
}

// DebtRatio returns debt/income. Any debt against no income is unbounded.
func (n Normalized) DebtRatio() float64 {
	if n.Income <= 0 {
		if n.Debt > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return n.Debt / n.Income
}

// rule maps a label fragment to a representative value. Rules are checked
// in order and the first contained fragment wins.
type rule struct {
	fragment string
	value    float64
}

type ruleTable struct {
	rules    []rule
	fallback float64
}

func (t ruleTable) lookup(label string) float64 {
	for _, r := range t.rules {
		if strings.Contains(label, r.fragment) {
			return r.value
		}
	}
	return t.fallback
}

var incomeRules = ruleTable{
	rules: []rule{
		{"Under 300.000", 250000},
		{"300.000 - 500.000", 400000},
		{"500.000 - 700.000", 600000},
		{"700.000 - 1.000.000", 850000},
		{"Over 1.000.000", 1200000},
	},
	fallback: DefaultIncome,
}

var debtRules = ruleTable{
	rules: []rule{
		{"Ingen gjeld", 0},
		{"Under 100.000", 50000},
		{"100.000 - 300.000", 200000},
		{"300.000 - 500.000", 400000},
		{"Over 500.000", 600000},
	},
	fallback: DefaultDebt,
}

// NormalizeAmount reads the leading run of digits as thousands, so
// "200.000 kr" becomes 200000. Labels without digits give DefaultAmount.
func NormalizeAmount(label string) float64 {
	start := strings.IndexAny(label, "0123456789")
	if start < 0 {
		return DefaultAmount
	}

	var thousands float64
	for _, c := range label[start:] {
		if c < '0' || c > '9' {
			break
		}
		thousands = thousands*10 + float64(c-'0')
	}
	return thousands * 1000
}

func NormalizeIncome(label string) float64 {
	return incomeRules.lookup(label)
}

func NormalizeDebt(label string) float64 {
	return debtRules.lookup(label)
}

// Normalize derives the numeric profile. It never fails.
func Normalize(a Answers) Normalized {
	return Normalized{
		LoanAmount: NormalizeAmount(a.LoanAmount),
		Income:     NormalizeIncome(a.MonthlyIncome),
		Debt:       NormalizeDebt(a.ExistingDebt),
	}
}
