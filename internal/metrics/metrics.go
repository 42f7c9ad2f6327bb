package metrics

import (
	"cart_service/internal/domain"
	"cart_service/internal/usecase"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cart_service"

var _ usecase.Recorder = (*Metrics)(nil)

// Metrics exports cart and catalog measurements to Prometheus.
type Metrics struct {
	cartOperations  *prometheus.CounterVec
	cartTotal       prometheus.Gauge
	catalogLoads    *prometheus.CounterVec
	catalogDuration prometheus.Histogram
	catalogProducts prometheus.Gauge
	catalogReady    prometheus.Gauge
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		cartOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Cart operations by kind and result",
		}, []string{"operation", "result"}),

		cartTotal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cart_total_amount",
			Help:      "Current cart total",
		}),

		catalogLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_loads_total",
			Help:      "Completed catalog fetches by resulting state",
		}, []string{"state"}),

		catalogDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_load_duration_seconds",
			Help:      "Catalog fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		catalogProducts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_products",
			Help:      "Number of products in the published catalog",
		}),

		catalogReady: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_ready",
			Help:      "1 when the last catalog fetch succeeded",
		}),
	}
}

func (m *Metrics) CartOperation(op string, err error) {
	m.cartOperations.WithLabelValues(op, resultLabel(err)).Inc()
}

func (m *Metrics) CartTotal(total float64) {
	m.cartTotal.Set(total)
}

func (m *Metrics) CatalogLoad(status domain.LoadStatus, took time.Duration) {
	m.catalogLoads.WithLabelValues(string(status.State)).Inc()
	m.catalogDuration.Observe(took.Seconds())
	m.catalogProducts.Set(float64(status.Products))
	if status.State == domain.CatalogReady {
		m.catalogReady.Set(1)
	} else {
		m.catalogReady.Set(0)
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrIndexOutOfRange):
		return "not_found"
	default:
		return "error"
	}
}
