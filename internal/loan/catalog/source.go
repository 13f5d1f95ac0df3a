package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"loan-advisor/internal/common/errors"

	"github.com/lib/pq"
)

// LoadFile reads a JSON array of products from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError(path, err)
	}

	var products []LoanProduct
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, errors.NewCatalogLoadFailedError(path, fmt.Errorf("decode products: %w", err))
	}

	return New(products)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// PostgresSource loads active products from the loan_products table.
type PostgresSource struct {
	db Querier
}

func NewPostgresSource(db Querier) *PostgresSource {
	return &PostgresSource{db: db}
}

const selectProducts = `
	SELECT id, bank_name, product_name, min_amount, max_amount, min_rate, max_rate,
	       establishment_fee, features, min_income, max_debt_ratio,
	       employment_types, credit_requirements, affiliate_url, commission
	FROM loan_products
	WHERE active = true
	ORDER BY position, id`

func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, selectProducts)
	if err != nil {
		return nil, errors.NewCatalogLoadFailedError("postgres", err)
	}
	defer rows.Close()

	var products []LoanProduct
	for rows.Next() {
		var p LoanProduct
		err := rows.Scan(
			&p.ID, &p.BankName, &p.ProductName,
			&p.MinAmount, &p.MaxAmount, &p.MinRate, &p.MaxRate,
			&p.EstablishmentFee, pq.Array(&p.Features),
			&p.Requirements.MinIncome, &p.Requirements.MaxDebtRatio,
			pq.Array(&p.Requirements.EmploymentTypes), pq.Array(&p.Requirements.CreditRequirement),
			&p.AffiliateURL, &p.Commission,
		)
		if err != nil {
			return nil, errors.NewCatalogLoadFailedError("postgres", fmt.Errorf("scan product: %w", err))
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewCatalogLoadFailedError("postgres", err)
	}

	return New(products)
}
