package clients

import (
	"cart_service/internal/domain"
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

var _ domain.CatalogSource = (*catalogFile)(nil)

type catalogFile struct {
	path string
	log  *logrus.Logger
}

// NewCatalogFile serves the catalog from a JSON file on disk.
func NewCatalogFile(path string, logger *logrus.Logger) domain.CatalogSource {
	return &catalogFile{path: path, log: logger}
}

func (f *catalogFile) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.log.Infof("CatalogFile: Reading product list from %s", f.path)
	file, err := os.Open(f.path)
	if err != nil {
		f.log.Errorf("CatalogFile: Failed to open %s: %v", f.path, err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	defer file.Close()

	products, err := DecodeCatalog(file)
	if err != nil {
		f.log.Errorf("CatalogFile: Failed to decode %s: %v", f.path, err)
		return nil, err
	}
	f.log.Infof("CatalogFile: Parsed %d products from %s", len(products), f.path)
	return products, nil
}
