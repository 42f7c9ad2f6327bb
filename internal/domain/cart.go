package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a positive item count. The zero value is not a valid quantity;
// build one with NewQuantity or ParseQuantity.
type Quantity int

const MinQuantity Quantity = 1

func NewQuantity(n int) (Quantity, error) {
	if n < int(MinQuantity) {
		return 0, fmt.Errorf("%w: %d must be at least %d", ErrInvalidQuantity, n, MinQuantity)
	}
	return Quantity(n), nil
}

// ParseQuantity parses raw user input such as a form field value.
func ParseQuantity(raw string) (Quantity, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a whole number", ErrInvalidQuantity, raw)
	}
	return NewQuantity(n)
}

func (q Quantity) Int() int { return int(q) }

type QuantityPolicy string

const (
	// QuantityReject refuses out-of-domain input and leaves the cart untouched.
	QuantityReject QuantityPolicy = "reject"
	// QuantityClamp coerces out-of-domain input to MinQuantity.
	QuantityClamp QuantityPolicy = "clamp"
)

func (p QuantityPolicy) Valid() bool {
	return p == QuantityReject || p == QuantityClamp
}

// Apply turns raw input into a Quantity according to the policy.
func (p QuantityPolicy) Apply(raw string) (Quantity, error) {
	q, err := ParseQuantity(raw)
	if err != nil && p == QuantityClamp {
		return MinQuantity, nil
	}
	return q, err
}

type CartItem struct {
	Product
	Quantity Quantity `json:"quantity"`
}

func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Total sums price times quantity over items.
func Total(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
