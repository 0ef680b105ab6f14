// Package history fetches the order history and reconciles local state with
// the asynchronously created order after a payment redirect.
package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is created server-side by the payment webhook. The client never
// constructs one, only observes it.
type Order struct {
	ID        int64           `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItem     `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// OrderItem is one purchased line within an order.
type OrderItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	ProductImage string          `json:"product_image"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
}
