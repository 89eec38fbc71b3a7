package orders

import (
	"time"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

const DefaultRecentLimit = 10

// NormalizeOrder truncates the date to a calendar day and re-associates
// every line item with the order.
func NormalizeOrder(o *domain.Order) {
	if o == nil {
		return
	}
	o.Date = domain.TruncateDate(o.Date)
	if o.Items == nil {
		o.Items = make([]domain.LineItem, 0)
	}
	o.AttachItems()
}

func NormalizeRecentLimit(n int) int {
	if n <= 0 {
		return DefaultRecentLimit
	}
	return n
}

// NormalizeDateRange truncates both bounds. ok is false when from is after to,
// which callers treat as an empty range rather than an error.
func NormalizeDateRange(from, to time.Time) (time.Time, time.Time, bool) {
	from = domain.TruncateDate(from)
	to = domain.TruncateDate(to)
	if from.After(to) {
		return from, to, false
	}
	return from, to, true
}
