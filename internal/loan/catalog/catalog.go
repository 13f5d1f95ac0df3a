package catalog

import (
	"fmt"
	"math"
	"strings"

	"loan-advisor/internal/common/errors"
)

// Catalog is an immutable, ordered product set. It is safe for concurrent use.
type Catalog struct {
	products []LoanProduct
	byID     map[string]int
}

// New validates products and returns a catalog holding private copies of them.
func New(products []LoanProduct) (*Catalog, error) {
	if err := Validate(products); err != nil {
		return nil, err
	}

	c := &Catalog{
		products: make([]LoanProduct, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range products {
		c.products[i] = p.clone()
		c.byID[p.ID] = i
	}
	return c, nil
}

// Validate checks the catalog invariants and reports every violation at once.
func Validate(products []LoanProduct) error {
	if len(products) == 0 {
		return errors.NewCatalogInvalidError("catalog has no products")
	}

	var problems []string
	seen := make(map[string]bool, len(products))
	for i, p := range products {
		id := p.ID
		if id == "" {
			problems = append(problems, fmt.Sprintf("product %d: empty id", i))
			id = fmt.Sprintf("#%d", i)
		} else if seen[id] {
			problems = append(problems, fmt.Sprintf("%s: duplicate id", id))
		}
		seen[p.ID] = true

		if p.MinAmount > p.MaxAmount {
			problems = append(problems, fmt.Sprintf("%s: minAmount %.0f > maxAmount %.0f", id, p.MinAmount, p.MaxAmount))
		}
		if p.MinRate > p.MaxRate {
			problems = append(problems, fmt.Sprintf("%s: minRate %.2f > maxRate %.2f", id, p.MinRate, p.MaxRate))
		}
		for _, f := range []struct {
			name  string
			value float64
		}{
			{"minAmount", p.MinAmount},
			{"maxAmount", p.MaxAmount},
			{"minRate", p.MinRate},
			{"maxRate", p.MaxRate},
			{"establishmentFee", p.EstablishmentFee},
			{"commission", p.Commission},
			{"minIncome", p.Requirements.MinIncome},
			{"maxDebtRatio", p.Requirements.MaxDebtRatio},
		} {
			switch {
			case math.IsNaN(f.value) || math.IsInf(f.value, 0):
				problems = append(problems, fmt.Sprintf("%s: %s is not a finite number", id, f.name))
			case f.value < 0:
				problems = append(problems, fmt.Sprintf("%s: %s is negative", id, f.name))
			}
		}
	}

	if len(problems) > 0 {
		return errors.NewCatalogInvalidError(strings.Join(problems, "; "))
	}
	return nil
}

// Products returns a copy of the products in catalog order.
func (c *Catalog) Products() []LoanProduct {
	out := make([]LoanProduct, len(c.products))
	for i, p := range c.products {
		out[i] = p.clone()
	}
	return out
}

func (c *Catalog) ByID(id string) (LoanProduct, bool) {
	i, ok := c.byID[id]
	if !ok {
		return LoanProduct{}, false
	}
	return c.products[i].clone(), true
}

func (c *Catalog) Len() int {
	return len(c.products)
}
