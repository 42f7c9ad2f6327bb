package metrics

import (
	"cart_service/internal/domain"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCartOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CartOperation("add", nil)
	m.CartOperation("add", nil)
	m.CartOperation("add", fmt.Errorf("%w: \"Lamp\"", domain.ErrProductNotFound))
	m.CartOperation("set_quantity", fmt.Errorf("%w: 0", domain.ErrInvalidQuantity))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartOperations.WithLabelValues("add", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOperations.WithLabelValues("add", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartOperations.WithLabelValues("set_quantity", "invalid_quantity")))
}

func TestCatalogLoad(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.CatalogLoad(domain.LoadStatus{State: domain.CatalogReady, Products: 3}, 10*time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogReady))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.catalogProducts))

	m.CatalogLoad(domain.LoadStatus{State: domain.CatalogFailed, Products: 3}, time.Second)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.catalogReady))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLoads.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.catalogLoads.WithLabelValues("ready")))

	m.CartTotal(20)
	assert.Equal(t, 20.0, testutil.ToFloat64(m.cartTotal))
}
