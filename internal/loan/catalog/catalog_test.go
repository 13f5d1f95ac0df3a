package catalog

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"loan-advisor/internal/common/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	require.NoError(t, Validate(builtinProducts))

	c := Builtin()
	assert.Equal(t, 5, c.Len())

	bn, ok := c.ByID("bank-norwegian-forbruk")
	require.True(t, ok)
	assert.Equal(t, "Bank Norwegian", bn.BankName)
	assert.Equal(t, 50000.0, bn.MinAmount)
	assert.Equal(t, 500000.0, bn.MaxAmount)
	assert.Equal(t, 5.9, bn.MinRate)
	assert.Equal(t, 250000.0, bn.Requirements.MinIncome)
	assert.Equal(t, 0.4, bn.Requirements.MaxDebtRatio)
	assert.True(t, bn.Requirements.AllowsEmployment(EmploymentPermanent))
	assert.False(t, bn.Requirements.AllowsEmployment(EmploymentStudent))
	assert.True(t, bn.Requirements.AllowsCredit(CreditMedium))
	assert.False(t, bn.Requirements.AllowsCredit(CreditPoor))

	_, ok = c.ByID("missing")
	assert.False(t, ok)
}

func TestCatalog_ProductsIsACopy(t *testing.T) {
	c := Builtin()

	products := c.Products()
	products[0].BankName = "changed"
	products[0].Features[0] = "changed"
	products[0].Requirements.EmploymentTypes[0] = "changed"

	again := c.Products()
	assert.Equal(t, "Bank Norwegian", again[0].BankName)
	assert.Equal(t, "Ingen etableringsgebyr", again[0].Features[0])
	assert.Equal(t, EmploymentPermanent, again[0].Requirements.EmploymentTypes[0])
}

func TestNew_CopiesInput(t *testing.T) {
	input := []LoanProduct{{ID: "a", MinAmount: 1, MaxAmount: 2, Features: []string{"x"}}}
	c, err := New(input)
	require.NoError(t, err)

	input[0].Features[0] = "y"
	p, _ := c.ByID("a")
	assert.Equal(t, "x", p.Features[0])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		products []LoanProduct
		errMsg   string
	}{
		{name: "empty", products: nil, errMsg: "no products"},
		{
			name:     "amount range inverted",
			products: []LoanProduct{{ID: "a", MinAmount: 10, MaxAmount: 5}},
			errMsg:   "a: minAmount 10 > maxAmount 5",
		},
		{
			name:     "rate range inverted",
			products: []LoanProduct{{ID: "a", MinRate: 9, MaxRate: 5}},
			errMsg:   "a: minRate 9.00 > maxRate 5.00",
		},
		{
			name:     "negative fee",
			products: []LoanProduct{{ID: "a", EstablishmentFee: -1}},
			errMsg:   "a: establishmentFee is negative",
		},
		{
			name:     "NaN rate",
			products: []LoanProduct{{ID: "a", MinRate: math.NaN(), MaxRate: 5}},
			errMsg:   "a: minRate is not a finite number",
		},
		{
			name:     "NaN debt ratio",
			products: []LoanProduct{{ID: "a", Requirements: Requirements{MaxDebtRatio: math.NaN()}}},
			errMsg:   "a: maxDebtRatio is not a finite number",
		},
		{
			name:     "infinite maximum",
			products: []LoanProduct{{ID: "a", MaxAmount: math.Inf(1)}},
			errMsg:   "a: maxAmount is not a finite number",
		},
		{
			name:     "duplicate id",
			products: []LoanProduct{{ID: "a"}, {ID: "a"}},
			errMsg:   "a: duplicate id",
		},
		{
			name:     "empty id",
			products: []LoanProduct{{}},
			errMsg:   "product 0: empty id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.products)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeCatalogInvalid))

			stdErr, _ := errors.AsStandardError(err)
			assert.Contains(t, stdErr.Details, tt.errMsg)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"id":"test-bank","bankName":"Test Bank","productName":"Forbrukslån",
		 "minAmount":10000,"maxAmount":100000,"minRate":4.5,"maxRate":12,
		 "establishmentFee":500,"features":["Rask"],
		 "requirements":{"minIncome":200000,"maxDebtRatio":0.4,
		   "employmentTypes":["Fast ansatt"],"creditRequirement":["God"]},
		 "affiliateUrl":"https://example.no","commission":300}
	]`), 0o600))

	c, err := LoadFile(good)
	require.NoError(t, err)
	p, ok := c.ByID("test-bank")
	require.True(t, ok)
	assert.Equal(t, 12.0, p.MaxRate)
	assert.Equal(t, []string{"God"}, p.Requirements.CreditRequirement)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.HasCode(err, errors.ErrCodeCatalogLoadFailed))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"id":`), 0o600))
	_, err = LoadFile(bad)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCatalogLoadFailed))

	invalid := filepath.Join(dir, "invalid.json")
	require.NoError(t, os.WriteFile(invalid, []byte(`[{"id":"x","minAmount":5,"maxAmount":1}]`), 0o600))
	_, err = LoadFile(invalid)
	assert.True(t, errors.HasCode(err, errors.ErrCodeCatalogInvalid))
}

var productColumns = []string{
	"id", "bank_name", "product_name", "min_amount", "max_amount", "min_rate", "max_rate",
	"establishment_fee", "features", "min_income", "max_debt_ratio",
	"employment_types", "credit_requirements", "affiliate_url", "commission",
}

func TestPostgresSource_Load(t *testing.T) {
	tests := []struct {
		name      string
		mockQuery func(mock sqlmock.Sqlmock)
		wantLen   int
		wantCode  errors.ErrorCode
	}{
		{
			name: "loads products",
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(productColumns).
					AddRow("bank-norwegian-forbruk", "Bank Norwegian", "Forbrukslån", 50000, 500000, 5.9, 19.9,
						0, `{"Ingen etableringsgebyr","Rask behandling"}`, 250000, 0.4,
						`{"Fast ansatt","Selvstendig næringsdrivende"}`, `{"Meget god",God,Middels}`,
						"https://banknorwegian.no/?ref=lansammenligning", 800).
					AddRow("nordax-forbruk", "Nordax Bank", "Forbrukslån", 30000, 600000, 6.4, 22.9,
						1500, `{"Rask behandling"}`, 200000, 0.45,
						`{"Fast ansatt"}`, `{God}`, "https://nordax.no/?ref=lansammenligning", 600)
				mock.ExpectQuery(`SELECT (.+) FROM loan_products WHERE active = true`).WillReturnRows(rows)
			},
			wantLen: 2,
		},
		{
			name: "query failure",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM loan_products`).WillReturnError(fmt.Errorf("connection refused"))
			},
			wantCode: errors.ErrCodeCatalogLoadFailed,
		},
		{
			name: "invalid row",
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(productColumns).
					AddRow("broken", "Broken Bank", "Forbrukslån", 500000, 50000, 5.9, 19.9,
						0, `{}`, 250000, 0.4, `{}`, `{}`, "", 0)
				mock.ExpectQuery(`SELECT (.+) FROM loan_products`).WillReturnRows(rows)
			},
			wantCode: errors.ErrCodeCatalogInvalid,
		},
		{
			name: "NaN column",
			mockQuery: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(productColumns).
					AddRow("nan-bank", "NaN Bank", "Forbrukslån", 50000, 500000, math.NaN(), 19.9,
						0, `{}`, 250000, 0.4, `{}`, `{}`, "", 0)
				mock.ExpectQuery(`SELECT (.+) FROM loan_products`).WillReturnRows(rows)
			},
			wantCode: errors.ErrCodeCatalogInvalid,
		},
		{
			name: "no rows",
			mockQuery: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM loan_products`).WillReturnRows(sqlmock.NewRows(productColumns))
			},
			wantCode: errors.ErrCodeCatalogInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mockQuery(mock)

			c, err := NewPostgresSource(db).Load(context.Background())
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantLen, c.Len())

				bn, ok := c.ByID("bank-norwegian-forbruk")
				require.True(t, ok)
				assert.Equal(t, []string{"Ingen etableringsgebyr", "Rask behandling"}, bn.Features)
				assert.Equal(t, []string{"Meget god", "God", "Middels"}, bn.Requirements.CreditRequirement)
				assert.True(t, bn.Requirements.AllowsEmployment(EmploymentSelfEmployed))
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
