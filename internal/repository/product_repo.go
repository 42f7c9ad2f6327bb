package repository

import (
	"cart_service/internal/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// pqUndefinedTable is the Postgres error code for a missing relation.
const pqUndefinedTable = "42P01"

var _ domain.CatalogSource = (*postgresProductRepository)(nil)

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

// NewPostgresProductRepository reads the catalog from the products table.
func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.CatalogSource {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductRepository) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
        SELECT title, price
        FROM products
        ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
			r.log.Errorf("Repository: products table does not exist: %s", pqErr.Message)
			return nil, fmt.Errorf("%w: products table does not exist", domain.ErrCatalogUnavailable)
		}
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("%w: could not list products: %w", domain.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var title string
		var price decimal.Decimal
		if err := rows.Scan(&title, &price); err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("%w: error scanning product data: %v", domain.ErrMalformedCatalog, err)
		}
		products = append(products, domain.Product{Title: title, Price: price})
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("%w: error iterating products: %w", domain.ErrCatalogUnavailable, err)
	}

	if err := domain.ValidateCatalog(products); err != nil {
		r.log.Warnf("Repository: Products table holds an invalid catalog: %v", err)
		return nil, err
	}

	r.log.Infof("Repository: Retrieved %d products", len(products))
	return products, nil
}
