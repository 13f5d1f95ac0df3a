package recommend

import (
	"math"
	"testing"

	"loan-advisor/internal/loan/catalog"
	"loan-advisor/internal/loan/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioAnswers() profile.Answers {
	return profile.Answers{
		LoanAmount:       "200.000 kr",
		LoanPurpose:      "Refinansiering",
		MonthlyIncome:    "300.000 - 500.000 kr",
		ExistingDebt:     "Ingen gjeld",
		EmploymentStatus: "Fast ansatt",
		HousingStatus:    "Eier bolig",
		CreditHistory:    "Meget god",
	}
}

func bankNorwegian(t *testing.T) catalog.LoanProduct {
	t.Helper()
	p, ok := catalog.Builtin().ByID("bank-norwegian-forbruk")
	require.True(t, ok)
	return p
}

func TestGenerate_BestFitScenario(t *testing.T) {
	engine := NewEngine(catalog.Builtin())

	recs := engine.Generate(scenarioAnswers())
	require.NotEmpty(t, recs)

	first := recs[0]
	assert.Equal(t, "bank-norwegian-forbruk", first.Product.ID)
	assert.True(t, first.Recommended)
	assert.Equal(t, 100.0, first.MatchScore)
	assert.Equal(t, 5.9, first.EstimatedRate)
	assert.Equal(t, math.Round(CalculateMonthlyPayment(200000, 5.9, 5)), first.MonthlyPayment)
	assert.InDelta(t, 3857, first.MonthlyPayment, 1)
	assert.InDelta(t, first.MonthlyPayment*60, first.TotalCost, 60)
}

func TestGenerate_RecommendedFlagAndLimit(t *testing.T) {
	engine := NewEngine(catalog.Builtin())

	profiles := []profile.Answers{
		scenarioAnswers(),
		{LoanAmount: "50.000 kr", MonthlyIncome: "Under 300.000 kr", ExistingDebt: "Over 500.000 kr",
			EmploymentStatus: "Student", CreditHistory: "Har betalingsanmerkninger"},
		{LoanAmount: "500.000 kr", MonthlyIncome: "Over 1.000.000 kr", ExistingDebt: "Under 100.000 kr",
			EmploymentStatus: "Pensjonist", CreditHistory: "Dårlig"},
		{},
	}

	for _, answers := range profiles {
		recs := engine.Generate(answers)
		assert.LessOrEqual(t, len(recs), DefaultMaxResults)

		recommended := 0
		for i, r := range recs {
			if r.Recommended {
				recommended++
				assert.Equal(t, 0, i)
			}
			assert.Greater(t, r.MatchScore, DefaultViabilityThreshold)
			if i > 0 {
				assert.LessOrEqual(t, recs[i-1].rankKey(), r.rankKey())
			}
		}
		if len(recs) > 0 {
			assert.Equal(t, 1, recommended)
		} else {
			assert.Equal(t, 0, recommended)
		}
	}
}

func TestGenerate_NoViableProducts(t *testing.T) {
	c, err := catalog.New([]catalog.LoanProduct{{
		ID: "strict", MinAmount: 1000000, MaxAmount: 2000000, MinRate: 5, MaxRate: 10,
		Requirements: catalog.Requirements{MinIncome: 2000000, MaxDebtRatio: 0.1},
	}})
	require.NoError(t, err)

	recs := NewEngine(c).Generate(profile.Answers{
		LoanAmount: "50.000 kr", MonthlyIncome: "Under 300.000 kr", ExistingDebt: "Over 500.000 kr",
	})
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestGenerate_Idempotent(t *testing.T) {
	engine := NewEngine(catalog.Builtin())
	assert.Equal(t, engine.Generate(scenarioAnswers()), engine.Generate(scenarioAnswers()))
}

func TestGenerate_Options(t *testing.T) {
	engine := NewEngine(catalog.Builtin(), WithMaxResults(2), WithTermYears(3), WithViabilityThreshold(99))
	assert.Equal(t, 3, engine.termYears)

	recs := engine.Generate(scenarioAnswers())
	assert.Len(t, recs, 2)
	assert.Equal(t, math.Round(CalculateMonthlyPayment(200000, 5.9, 3)), recs[0].MonthlyPayment)

	ignored := NewEngine(catalog.Builtin(), WithMaxResults(0), WithTermYears(-1))
	assert.Equal(t, DefaultTermYears, ignored.termYears)
	assert.Len(t, ignored.Generate(scenarioAnswers()), 5)
}

func TestMatchScore_Components(t *testing.T) {
	p := bankNorwegian(t)
	full := Applicant{
		Normalized:       profile.Normalized{LoanAmount: 200000, Income: 400000},
		EmploymentStatus: catalog.EmploymentPermanent,
		CreditHistory:    catalog.CreditExcellent,
	}

	tests := []struct {
		name   string
		modify func(a *Applicant)
		want   float64
	}{
		{name: "perfect fit", modify: func(a *Applicant) {}, want: 100},
		{name: "amount 20k under minimum", modify: func(a *Applicant) { a.LoanAmount = 30000 }, want: 98},
		{name: "amount far under minimum", modify: func(a *Applicant) { a.LoanAmount = 0 }, want: 95},
		{name: "amount above maximum", modify: func(a *Applicant) { a.LoanAmount = 600000 }, want: 70},
		{name: "income 50k short", modify: func(a *Applicant) { a.Income = 200000 }, want: 95},
		{name: "debt ratio 0.05 over", modify: func(a *Applicant) { a.Debt = 180000 }, want: 95},
		{name: "debt ratio far over", modify: func(a *Applicant) { a.Debt = 400000 }, want: 80},
		{name: "debt without income", modify: func(a *Applicant) { a.Income, a.Debt = 0, 1 }, want: 55},
		{name: "no debt no income", modify: func(a *Applicant) { a.Income = 0 }, want: 75},
		{name: "employment not accepted", modify: func(a *Applicant) { a.EmploymentStatus = catalog.EmploymentStudent }, want: 85},
		{name: "credit not accepted", modify: func(a *Applicant) { a.CreditHistory = catalog.CreditPoor }, want: 90},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := full
			tt.modify(&a)
			assert.InDelta(t, tt.want, MatchScore(p, a), 1e-9)
		})
	}
}

func TestMatchScore_AlwaysInRange(t *testing.T) {
	amounts := []float64{0, 1, 50000, 1e6, 1e12}
	incomes := []float64{0, 1, 250000, 1e9}
	debts := []float64{0, 1, 600000, 1e12}

	for _, p := range catalog.Builtin().Products() {
		for _, amount := range amounts {
			for _, income := range incomes {
				for _, debt := range debts {
					a := Applicant{
						Normalized:       profile.Normalized{LoanAmount: amount, Income: income, Debt: debt},
						EmploymentStatus: catalog.EmploymentPermanent,
						CreditHistory:    catalog.CreditExcellent,
					}
					score := MatchScore(p, a)
					assert.GreaterOrEqual(t, score, 0.0)
					assert.LessOrEqual(t, score, 100.0)
					assert.False(t, math.IsNaN(score))
				}
			}
		}
	}
}

func TestEstimateInterestRate(t *testing.T) {
	p := bankNorwegian(t)

	assert.Equal(t, 5.9, EstimateInterestRate(p, 100, catalog.CreditExcellent))
	assert.Equal(t, 5.9, EstimateInterestRate(p, 100, catalog.CreditGood))
	assert.InDelta(t, 6.9, EstimateInterestRate(p, 100, catalog.CreditMedium), 1e-9)
	assert.InDelta(t, 12.9, EstimateInterestRate(p, 50, catalog.CreditGood), 1e-9)
	assert.Equal(t, 19.9, EstimateInterestRate(p, 0, catalog.CreditDelinquent))
	assert.InDelta(t, 12.9, EstimateInterestRate(p, 50, "unknown"), 1e-9)

	for _, product := range catalog.Builtin().Products() {
		for score := 0.0; score <= 100; score += 5 {
			for _, tier := range append(catalog.CreditTiers, "") {
				rate := EstimateInterestRate(product, score, tier)
				assert.GreaterOrEqual(t, rate, product.MinRate)
				assert.LessOrEqual(t, rate, product.MaxRate)
			}
		}
	}
}

func TestCalculateMonthlyPayment(t *testing.T) {
	assert.Equal(t, 200000.0/60, CalculateMonthlyPayment(200000, 0, 5))
	assert.Equal(t, 1000.0, CalculateMonthlyPayment(60000, 0, 5))
	assert.Equal(t, 0.0, CalculateMonthlyPayment(60000, 5, 0))

	// 12% per year is 1% per month; 100000 over 12 months is a known annuity.
	assert.InDelta(t, 8884.88, CalculateMonthlyPayment(100000, 12, 1), 0.01)
}
