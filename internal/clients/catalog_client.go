package clients

import (
	"cart_service/internal/domain"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// maxCatalogBytes bounds how much of a catalog response is read.
const maxCatalogBytes = 4 << 20

var _ domain.CatalogSource = (*catalogHTTPClient)(nil)

type catalogHTTPClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func NewCatalogHTTPClient(url string, timeout time.Duration, logger *logrus.Logger) domain.CatalogSource {
	return &catalogHTTPClient{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *catalogHTTPClient) FetchProducts(ctx context.Context) ([]domain.Product, error) {
	c.log.Infof("CatalogClient: Requesting product list from URL: %s", c.url)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to create catalog request: %v", err)
		return nil, fmt.Errorf("%w: failed to create catalog request: %w", domain.ErrCatalogUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to execute catalog request: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Errorf("CatalogClient: Catalog request failed with status %d. Response body: %s", resp.StatusCode, string(bodyBytes))
		return nil, fmt.Errorf("%w: catalog returned status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	products, err := DecodeCatalog(io.LimitReader(resp.Body, maxCatalogBytes))
	if err != nil {
		c.log.Errorf("CatalogClient: Failed to decode catalog response: %v", err)
		return nil, err
	}

	c.log.Infof("CatalogClient: Parsed %d products from %s", len(products), c.url)
	return products, nil
}

// catalogRecord mirrors one catalog entry. Price is a pointer so that a
// missing or null price is told apart from a zero one.
type catalogRecord struct {
	Title string           `json:"title"`
	Price *decimal.Decimal `json:"price"`
}

// DecodeCatalog reads a JSON array of {title, price} records and validates it.
// Every record needs a price and nothing may follow the array.
func DecodeCatalog(r io.Reader) ([]domain.Product, error) {
	dec := json.NewDecoder(r)

	var records []catalogRecord
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after the product array", domain.ErrMalformedCatalog)
	}

	products := make([]domain.Product, 0, len(records))
	for i, rec := range records {
		if rec.Price == nil {
			return nil, fmt.Errorf("%w: product %d (%q) has no price", domain.ErrMalformedCatalog, i, rec.Title)
		}
		products = append(products, domain.Product{Title: rec.Title, Price: *rec.Price})
	}
	if err := domain.ValidateCatalog(products); err != nil {
		return nil, err
	}
	return products, nil
}
