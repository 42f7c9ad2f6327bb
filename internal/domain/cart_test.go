package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Quantity
		wantErr bool
	}{
		{name: "positive", raw: "3", want: 3},
		{name: "surrounding spaces", raw: " 7 ", want: 7},
		{name: "one", raw: "1", want: 1},
		{name: "zero", raw: "0", wantErr: true},
		{name: "negative", raw: "-2", wantErr: true},
		{name: "not a number", raw: "abc", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "fraction", raw: "1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuantity(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidQuantity))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q)
		})
	}
}

func TestQuantityPolicy_Apply(t *testing.T) {
	q, err := QuantityReject.Apply("0")
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, Quantity(0), q)

	q, err = QuantityClamp.Apply("0")
	require.NoError(t, err)
	assert.Equal(t, MinQuantity, q)

	q, err = QuantityClamp.Apply("NaN")
	require.NoError(t, err)
	assert.Equal(t, MinQuantity, q)

	q, err = QuantityClamp.Apply("5")
	require.NoError(t, err)
	assert.Equal(t, Quantity(5), q)

	assert.True(t, QuantityReject.Valid())
	assert.True(t, QuantityClamp.Valid())
	assert.False(t, QuantityPolicy("ignore").Valid())
}

func TestTotal(t *testing.T) {
	items := []CartItem{
		{Product: Product{Title: "A", Price: decimal.RequireFromString("5")}, Quantity: 2},
		{Product: Product{Title: "B", Price: decimal.RequireFromString("3")}, Quantity: 1},
		{Product: Product{Title: "C", Price: decimal.RequireFromString("0.10")}, Quantity: 3},
	}

	assert.Equal(t, "13.30", FormatAmount(Total(items)))
	assert.Equal(t, "0.00", FormatAmount(Total(nil)))
}

func TestValidateCatalog(t *testing.T) {
	ok := []Product{
		{Title: "Book", Price: decimal.RequireFromString("10.00")},
		{Title: "Pen", Price: decimal.Zero},
	}
	require.NoError(t, ValidateCatalog(ok))
	require.NoError(t, ValidateCatalog(nil))

	bad := map[string][]Product{
		"empty title":    {{Title: "", Price: decimal.NewFromInt(1)}},
		"negative price": {{Title: "Book", Price: decimal.NewFromInt(-1)}},
		"duplicate":      {{Title: "Book", Price: decimal.NewFromInt(1)}, {Title: "Book", Price: decimal.NewFromInt(2)}},
	}
	for name, products := range bad {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, ValidateCatalog(products), ErrMalformedCatalog)
		})
	}
}

func TestNewCartView(t *testing.T) {
	products := []Product{{Title: "Book", Price: decimal.RequireFromString("10")}}
	items := []CartItem{{Product: products[0], Quantity: 2}}

	view := NewCartView(products, items, LoadStatus{State: CatalogReady, Products: 1})

	require.Len(t, view.Products, 1)
	assert.Equal(t, ProductView{Title: "Book", Price: "10.00"}, view.Products[0])
	require.Len(t, view.Items, 1)
	assert.Equal(t, CartItemView{Position: 0, Title: "Book", Price: "10.00", Quantity: 2, Subtotal: "20.00"}, view.Items[0])
	assert.Equal(t, "20.00", view.Total)
	assert.False(t, view.Empty)
	assert.Equal(t, CatalogReady, view.Catalog.State)
	assert.Nil(t, view.Catalog.LoadedAt)

	empty := NewCartView(nil, nil, LoadStatus{})
	assert.True(t, empty.Empty)
	assert.Equal(t, CatalogPending, empty.Catalog.State)
	assert.NotNil(t, empty.Products)
	assert.NotNil(t, empty.Items)
}
