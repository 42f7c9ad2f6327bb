package grpc

import (
	"cart_service/internal/domain"
	"cart_service/internal/usecase"

	"github.com/sirupsen/logrus"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// CatalogService is the health service name that tracks catalog readiness.
const CatalogService = "cart.Catalog"

// HealthReporter exposes the standard gRPC health service. The overall
// status is SERVING while the process runs; CatalogService follows the
// catalog loader.
type HealthReporter struct {
	server *health.Server
	log    *logrus.Logger
}

func NewHealthReporter(loader usecase.CatalogLoader, logger *logrus.Logger) *HealthReporter {
	r := &HealthReporter{
		server: health.NewServer(),
		log:    logger,
	}
	r.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	loader.OnStatus(r.update)
	return r
}

func (r *HealthReporter) update(status domain.LoadStatus) {
	serving := healthpb.HealthCheckResponse_NOT_SERVING
	switch status.State {
	case domain.CatalogReady:
		serving = healthpb.HealthCheckResponse_SERVING
	case domain.CatalogLoading:
		// A reload keeps the previous snapshot published.
		if status.Products > 0 {
			serving = healthpb.HealthCheckResponse_SERVING
		}
	}
	r.log.Debugf("gRPC Health: %s is %s (catalog %s)", CatalogService, serving, status.State)
	r.server.SetServingStatus(CatalogService, serving)
}

func (r *HealthReporter) Register(s gogrpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(s, r.server)
}

// Shutdown marks every service NOT_SERVING ahead of server stop.
func (r *HealthReporter) Shutdown() {
	r.server.Shutdown()
}
