package usecase

import (
	"cart_service/internal/domain"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type CatalogLoader interface {
	// Start kicks off the first fetch and returns immediately. ctx bounds the
	// lifetime of every fetch the loader runs.
	Start(ctx context.Context)
	// Reload cancels any in-flight fetch and starts a new one.
	Reload()
	Status() domain.LoadStatus
	// Wait blocks until the current fetch settles or ctx is done.
	Wait(ctx context.Context) (domain.LoadStatus, error)
	// OnStatus registers fn to be called on every status change. fn must not
	// call back into the loader.
	OnStatus(fn func(domain.LoadStatus))
	// Close cancels any in-flight fetch and waits for it to exit. Results
	// arriving after Close are discarded.
	Close()
}

var _ CatalogLoader = (*catalogLoader)(nil)

type catalogLoader struct {
	source    domain.CatalogSource
	publisher CatalogPublisher
	recorder  Recorder
	log       *logrus.Logger

	mu          sync.Mutex
	root        context.Context
	rootCancel  context.CancelFunc
	fetchCancel context.CancelFunc
	generation  uint64
	done        chan struct{}
	status      domain.LoadStatus
	hasCatalog  bool
	closed      bool
	listeners   []func(domain.LoadStatus)
	wg          sync.WaitGroup
}

func NewCatalogLoader(source domain.CatalogSource, publisher CatalogPublisher, recorder Recorder, logger *logrus.Logger) CatalogLoader {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &catalogLoader{
		source:    source,
		publisher: publisher,
		recorder:  recorder,
		log:       logger,
		status:    domain.LoadStatus{State: domain.CatalogPending},
	}
}

func (l *catalogLoader) Start(ctx context.Context) {
	l.mu.Lock()
	if l.root != nil || l.closed {
		l.mu.Unlock()
		l.log.Warn("Catalog Loader: Start called more than once or after Close, ignoring")
		return
	}
	l.root, l.rootCancel = context.WithCancel(ctx)
	l.mu.Unlock()

	l.log.Info("Catalog Loader: Starting initial catalog fetch")
	l.Reload()
}

func (l *catalogLoader) Reload() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.log.Warn("Catalog Loader: Reload requested after Close, ignoring")
		return
	}
	if l.root == nil {
		l.root, l.rootCancel = context.WithCancel(context.Background())
	}
	if l.fetchCancel != nil {
		l.fetchCancel()
	}

	l.generation++
	gen := l.generation
	ctx, cancel := context.WithCancel(l.root)
	l.fetchCancel = cancel
	done := make(chan struct{})
	l.done = done

	l.setStatusLocked(domain.LoadStatus{
		State:    domain.CatalogLoading,
		Products: l.status.Products,
		LoadedAt: l.status.LoadedAt,
	})
	l.log.Infof("Catalog Loader: Fetch %d started", gen)

	l.wg.Add(1)
	go l.fetch(ctx, gen, done)
}

func (l *catalogLoader) fetch(ctx context.Context, gen uint64, done chan struct{}) {
	defer l.wg.Done()
	defer close(done)

	started := time.Now()
	products, err := l.source.FetchProducts(ctx)
	took := time.Since(started)

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.generation {
		l.log.Debugf("Catalog Loader: Discarding result of superseded fetch %d", gen)
		return
	}
	l.fetchCancel()
	l.fetchCancel = nil

	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.log.Warnf("Catalog Loader: Fetch %d cancelled after %s", gen, took)
		} else {
			l.log.Errorf("Catalog Loader: Fetch %d failed after %s: %v", gen, took, err)
		}
		status := domain.LoadStatus{State: domain.CatalogFailed, Err: err}
		if l.hasCatalog {
			// The last good snapshot stays published.
			status.Products = l.status.Products
			status.LoadedAt = l.status.LoadedAt
		}
		l.recorder.CatalogLoad(status, took)
		l.setStatusLocked(status)
		return
	}

	l.hasCatalog = true
	status := domain.LoadStatus{
		State:    domain.CatalogReady,
		Products: len(products),
		LoadedAt: time.Now(),
	}
	l.publisher.ReplaceCatalog(products)
	l.recorder.CatalogLoad(status, took)
	l.setStatusLocked(status)
	l.log.Infof("Catalog Loader: Fetch %d loaded %d products in %s", gen, len(products), took)
}

func (l *catalogLoader) setStatusLocked(status domain.LoadStatus) {
	l.status = status
	l.publisher.SetCatalogStatus(status)
	for _, fn := range l.listeners {
		fn(status)
	}
}

func (l *catalogLoader) Status() domain.LoadStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

func (l *catalogLoader) Wait(ctx context.Context) (domain.LoadStatus, error) {
	for {
		l.mu.Lock()
		done, status := l.done, l.status
		l.mu.Unlock()

		if done == nil {
			return status, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return status, ctx.Err()
		}

		l.mu.Lock()
		if l.done == done {
			status = l.status
			l.mu.Unlock()
			return status, nil
		}
		l.mu.Unlock()
	}
}

func (l *catalogLoader) OnStatus(fn func(domain.LoadStatus)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
	fn(l.status)
}

func (l *catalogLoader) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	if l.rootCancel != nil {
		l.rootCancel()
	}
	l.mu.Unlock()

	l.wg.Wait()
	l.log.Info("Catalog Loader: Closed")
}
