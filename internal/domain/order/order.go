package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Order is the aggregate root: an order owns its line items.
type Order struct {
	ID       int64
	ClientID int64
	Date     time.Time
	Total    decimal.Decimal
	Items    []LineItem
}

// IsNew reports whether the store still has to generate an id.
func (o Order) IsNew() bool { return o.ID == 0 }

// AttachItems stamps the order id into the key of every line item.
func (o *Order) AttachItems() {
	for i := range o.Items {
		o.Items[i].Key.OrderID = o.ID
	}
}

func (o Order) ProductIDs() []int64 {
	ids := make([]int64, 0, len(o.Items))
	for _, it := range o.Items {
		ids = append(ids, it.Key.ProductID)
	}
	return ids
}

// DuplicateProductID returns the first product id that appears more than once.
func (o Order) DuplicateProductID() (int64, bool) {
	seen := make(map[int64]struct{}, len(o.Items))
	for _, it := range o.Items {
		if _, ok := seen[it.Key.ProductID]; ok {
			return it.Key.ProductID, true
		}
		seen[it.Key.ProductID] = struct{}{}
	}
	return 0, false
}

// Quantities maps product id to quantity.
func (o Order) Quantities() map[int64]int {
	out := make(map[int64]int, len(o.Items))
	for _, it := range o.Items {
		out[it.Key.ProductID] = it.Quantity
	}
	return out
}

// ParseDate parses a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// TruncateDate drops the clock part, keeping the calendar date as UTC midnight.
func TruncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
