package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

type Product struct {
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

// CatalogSource produces the full product list in one read.
type CatalogSource interface {
	FetchProducts(ctx context.Context) ([]Product, error)
}

// ValidateCatalog checks that every record has a title and a non-negative
// price, and that titles are unique.
func ValidateCatalog(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if p.Title == "" {
			return fmt.Errorf("%w: product %d has an empty title", ErrMalformedCatalog, i)
		}
		if p.Price.IsNegative() {
			return fmt.Errorf("%w: product %q has a negative price %s", ErrMalformedCatalog, p.Title, p.Price.String())
		}
		if _, dup := seen[p.Title]; dup {
			return fmt.Errorf("%w: duplicate product title %q", ErrMalformedCatalog, p.Title)
		}
		seen[p.Title] = struct{}{}
	}
	return nil
}

// FormatAmount renders a money amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
