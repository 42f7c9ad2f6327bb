package domain

import "time"

type CatalogState string

const (
	CatalogPending CatalogState = "pending"
	CatalogLoading CatalogState = "loading"
	CatalogReady   CatalogState = "ready"
	CatalogFailed  CatalogState = "failed"
)

// LoadStatus describes the most recent catalog fetch.
type LoadStatus struct {
	State    CatalogState
	Err      error
	Products int
	LoadedAt time.Time
}

type ProductView struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

type CartItemView struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal string `json:"subtotal"`
}

type CatalogStatusView struct {
	State    CatalogState `json:"state"`
	Error    string       `json:"error,omitempty"`
	Products int          `json:"products"`
	LoadedAt *time.Time   `json:"loaded_at,omitempty"`
}

// CartView is the snapshot handed to renderers after every state change.
type CartView struct {
	Products []ProductView     `json:"products"`
	Items    []CartItemView    `json:"items"`
	Total    string            `json:"total"`
	Empty    bool              `json:"empty"`
	Catalog  CatalogStatusView `json:"catalog"`
}

func NewCatalogStatusView(s LoadStatus) CatalogStatusView {
	v := CatalogStatusView{State: s.State, Products: s.Products}
	if s.State == "" {
		v.State = CatalogPending
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	if !s.LoadedAt.IsZero() {
		loadedAt := s.LoadedAt
		v.LoadedAt = &loadedAt
	}
	return v
}

// NewCartView builds a view from a catalog snapshot and the cart contents.
func NewCartView(products []Product, items []CartItem, status LoadStatus) CartView {
	view := CartView{
		Products: make([]ProductView, 0, len(products)),
		Items:    make([]CartItemView, 0, len(items)),
		Total:    FormatAmount(Total(items)),
		Empty:    len(items) == 0,
		Catalog:  NewCatalogStatusView(status),
	}
	for _, p := range products {
		view.Products = append(view.Products, ProductView{Title: p.Title, Price: FormatAmount(p.Price)})
	}
	for i, item := range items {
		view.Items = append(view.Items, CartItemView{
			Position: i,
			Title:    item.Title,
			Price:    FormatAmount(item.Price),
			Quantity: item.Quantity.Int(),
			Subtotal: FormatAmount(item.Subtotal()),
		})
	}
	return view
}
