package usecase

import (
	"cart_service/internal/domain"
	"time"
)

// Recorder receives operational measurements from the use cases.
type Recorder interface {
	CartOperation(op string, err error)
	CartTotal(total float64)
	CatalogLoad(status domain.LoadStatus, took time.Duration)
}

type NopRecorder struct{}

func (NopRecorder) CartOperation(string, error)                  {}
func (NopRecorder) CartTotal(float64)                            {}
func (NopRecorder) CatalogLoad(domain.LoadStatus, time.Duration) {}
