package usecase

import (
	"cart_service/internal/domain"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type CartUseCase interface {
	CatalogPublisher

	AddToCart(product domain.Product) domain.CartItem
	AddByTitle(title string) (domain.CartItem, error)
	SetQuantity(title, raw string) (domain.CartItem, error)
	SetQuantityAt(index int, raw string) (domain.CartItem, error)
	RemoveItem(title string) (domain.CartItem, error)
	RemoveAt(index int) (domain.CartItem, error)
	Clear()

	Total() decimal.Decimal
	Items() []domain.CartItem
	Products() []domain.Product
	View() domain.CartView
	Subscribe() (<-chan domain.CartView, func())
}

// CatalogPublisher receives catalog snapshots and load status from the loader.
type CatalogPublisher interface {
	ReplaceCatalog(products []domain.Product)
	SetCatalogStatus(status domain.LoadStatus)
}

var _ CartUseCase = (*cartUseCase)(nil)

type cartUseCase struct {
	mu       sync.RWMutex
	products []domain.Product
	catalog  map[string]int // title -> position in products
	items    []domain.CartItem
	index    map[string]int // title -> position in items
	status   domain.LoadStatus

	subscribers map[int]chan domain.CartView
	nextSubID   int

	policy   domain.QuantityPolicy
	recorder Recorder
	log      *logrus.Logger
}

func NewCartUseCase(policy domain.QuantityPolicy, recorder Recorder, logger *logrus.Logger) CartUseCase {
	if !policy.Valid() {
		policy = domain.QuantityReject
	}
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &cartUseCase{
		catalog:     make(map[string]int),
		index:       make(map[string]int),
		status:      domain.LoadStatus{State: domain.CatalogPending},
		subscribers: make(map[int]chan domain.CartView),
		policy:      policy,
		recorder:    recorder,
		log:         logger,
	}
}

func (uc *cartUseCase) ReplaceCatalog(products []domain.Product) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.products = append([]domain.Product(nil), products...)
	uc.catalog = make(map[string]int, len(products))
	for i, p := range uc.products {
		uc.catalog[p.Title] = i
	}
	// Items still in the catalog follow its current price; the rest keep
	// the price they were added at.
	for i, item := range uc.items {
		pos, ok := uc.catalog[item.Title]
		if !ok || uc.products[pos].Price.Equal(item.Price) {
			continue
		}
		uc.log.Infof("Use Case: Repriced '%s' from %s to %s", item.Title,
			domain.FormatAmount(item.Price), domain.FormatAmount(uc.products[pos].Price))
		uc.items[i].Price = uc.products[pos].Price
	}
	uc.log.Infof("Use Case: Catalog replaced with %d products", len(uc.products))
	uc.publishLocked()
}

func (uc *cartUseCase) SetCatalogStatus(status domain.LoadStatus) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.status = status
	uc.publishLocked()
}

// AddToCart increments the quantity of an existing item with the same title
// in place, or appends a new item with quantity 1.
func (uc *cartUseCase) AddToCart(product domain.Product) domain.CartItem {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	item := uc.addLocked(product)
	uc.recorder.CartOperation("add", nil)
	uc.publishLocked()
	return item
}

func (uc *cartUseCase) AddByTitle(title string) (domain.CartItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	pos, ok := uc.catalog[title]
	if !ok {
		uc.log.Warnf("Use Case: Attempted to add unknown product '%s' to cart", title)
		err := fmt.Errorf("%w: %q", domain.ErrProductNotFound, title)
		uc.recorder.CartOperation("add", err)
		return domain.CartItem{}, err
	}

	item := uc.addLocked(uc.products[pos])
	uc.recorder.CartOperation("add", nil)
	uc.publishLocked()
	return item, nil
}

func (uc *cartUseCase) addLocked(product domain.Product) domain.CartItem {
	if pos, ok := uc.index[product.Title]; ok {
		uc.items[pos].Quantity++
		uc.log.Infof("Use Case: Increased quantity of '%s' to %d", product.Title, uc.items[pos].Quantity)
		return uc.items[pos]
	}

	item := domain.CartItem{Product: product, Quantity: domain.MinQuantity}
	uc.items = append(uc.items, item)
	uc.index[product.Title] = len(uc.items) - 1
	uc.log.Infof("Use Case: Added '%s' to cart at position %d", product.Title, len(uc.items)-1)
	return item
}

func (uc *cartUseCase) SetQuantity(title, raw string) (domain.CartItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	pos, ok := uc.index[title]
	if !ok {
		uc.log.Warnf("Use Case: Attempted to set quantity of '%s' which is not in the cart", title)
		err := fmt.Errorf("%w: %q", domain.ErrItemNotFound, title)
		uc.recorder.CartOperation("set_quantity", err)
		return domain.CartItem{}, err
	}
	return uc.setQuantityLocked(pos, raw)
}

func (uc *cartUseCase) SetQuantityAt(index int, raw string) (domain.CartItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.checkIndexLocked(index); err != nil {
		uc.recorder.CartOperation("set_quantity", err)
		return domain.CartItem{}, err
	}
	return uc.setQuantityLocked(index, raw)
}

func (uc *cartUseCase) setQuantityLocked(pos int, raw string) (domain.CartItem, error) {
	title := uc.items[pos].Title
	q, err := uc.policy.Apply(raw)
	if err != nil {
		uc.log.Warnf("Use Case: Rejected quantity %q for '%s': %v", raw, title, err)
		uc.recorder.CartOperation("set_quantity", err)
		return uc.items[pos], err
	}

	uc.items[pos].Quantity = q
	uc.log.Infof("Use Case: Set quantity of '%s' to %d", title, q)
	uc.recorder.CartOperation("set_quantity", nil)
	uc.publishLocked()
	return uc.items[pos], nil
}

func (uc *cartUseCase) RemoveItem(title string) (domain.CartItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	pos, ok := uc.index[title]
	if !ok {
		uc.log.Warnf("Use Case: Attempted to remove '%s' which is not in the cart", title)
		err := fmt.Errorf("%w: %q", domain.ErrItemNotFound, title)
		uc.recorder.CartOperation("remove", err)
		return domain.CartItem{}, err
	}
	return uc.removeLocked(pos), nil
}

func (uc *cartUseCase) RemoveAt(index int) (domain.CartItem, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err := uc.checkIndexLocked(index); err != nil {
		uc.recorder.CartOperation("remove", err)
		return domain.CartItem{}, err
	}
	return uc.removeLocked(index), nil
}

// removeLocked deletes the item at pos, shifting later items left.
func (uc *cartUseCase) removeLocked(pos int) domain.CartItem {
	removed := uc.items[pos]
	uc.items = append(uc.items[:pos], uc.items[pos+1:]...)
	uc.reindexLocked()

	uc.log.Infof("Use Case: Removed '%s' from cart position %d", removed.Title, pos)
	uc.recorder.CartOperation("remove", nil)
	uc.publishLocked()
	return removed
}

func (uc *cartUseCase) Clear() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.items = nil
	uc.index = make(map[string]int)
	uc.log.Info("Use Case: Cart cleared")
	uc.recorder.CartOperation("clear", nil)
	uc.publishLocked()
}

func (uc *cartUseCase) checkIndexLocked(index int) error {
	if index < 0 || index >= len(uc.items) {
		uc.log.Warnf("Use Case: Cart position %d out of range (cart has %d items)", index, len(uc.items))
		return fmt.Errorf("%w: %d (cart has %d items)", domain.ErrIndexOutOfRange, index, len(uc.items))
	}
	return nil
}

func (uc *cartUseCase) reindexLocked() {
	uc.index = make(map[string]int, len(uc.items))
	for i, item := range uc.items {
		uc.index[item.Title] = i
	}
}

// Total is recomputed on every call.
func (uc *cartUseCase) Total() decimal.Decimal {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return domain.Total(uc.items)
}

func (uc *cartUseCase) Items() []domain.CartItem {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.CartItem{}, uc.items...)
}

func (uc *cartUseCase) Products() []domain.Product {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return append([]domain.Product{}, uc.products...)
}

func (uc *cartUseCase) View() domain.CartView {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return domain.NewCartView(uc.products, uc.items, uc.status)
}

// Subscribe returns a channel that receives a fresh view after every state
// change, starting with the current one. A slow reader only sees the latest
// view. The returned func unsubscribes and closes the channel.
func (uc *cartUseCase) Subscribe() (<-chan domain.CartView, func()) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.nextSubID
	uc.nextSubID++
	ch := make(chan domain.CartView, 1)
	ch <- domain.NewCartView(uc.products, uc.items, uc.status)
	uc.subscribers[id] = ch
	uc.log.Debugf("Use Case: Renderer %d subscribed (%d active)", id, len(uc.subscribers))

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			uc.mu.Lock()
			defer uc.mu.Unlock()
			delete(uc.subscribers, id)
			close(ch)
			uc.log.Debugf("Use Case: Renderer %d unsubscribed", id)
		})
	}
}

func (uc *cartUseCase) publishLocked() {
	uc.recorder.CartTotal(domain.Total(uc.items).InexactFloat64())
	if len(uc.subscribers) == 0 {
		return
	}
	view := domain.NewCartView(uc.products, uc.items, uc.status)
	for _, ch := range uc.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- view:
		default:
		}
	}
}
