package domain

import "errors"

var (
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	ErrMalformedCatalog   = errors.New("malformed catalog")

	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrProductNotFound = errors.New("product not found in catalog")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrIndexOutOfRange = errors.New("cart position out of range")
)
