package history

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Filter narrows displayed orders client-side. Zero-valued fields are
// inactive. Query matches case-insensitively against any item's product
// name; the date bounds are inclusive, with End extended to the end of its
// day so a date-only bound keeps that day's orders.
type Filter struct {
	Query    string
	MinTotal *decimal.Decimal
	MaxTotal *decimal.Decimal
	Start    *time.Time
	End      *time.Time
}

// Apply returns the orders matching the filter, preserving order.
func (f Filter) Apply(orders []Order) []Order {
	var out []Order
	for _, order := range orders {
		if f.matches(order) {
			out = append(out, order)
		}
	}
	return out
}

func (f Filter) matches(order Order) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		found := false
		for _, item := range order.Items {
			if strings.Contains(strings.ToLower(item.ProductName), q) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.MinTotal != nil && order.Total.LessThan(*f.MinTotal) {
		return false
	}
	if f.MaxTotal != nil && order.Total.GreaterThan(*f.MaxTotal) {
		return false
	}
	if !order.CreatedAt.IsZero() {
		if f.Start != nil && order.CreatedAt.Before(*f.Start) {
			return false
		}
		if f.End != nil {
			endOfDay := time.Date(f.End.Year(), f.End.Month(), f.End.Day(),
				23, 59, 59, int(999*time.Millisecond), f.End.Location())
			if order.CreatedAt.After(endOfDay) {
				return false
			}
		}
	}
	return true
}
