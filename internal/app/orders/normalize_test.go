package orders

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

func TestNormalizeOrder(t *testing.T) {
	o := domain.Order{
		ID:    5,
		Date:  time.Date(2025, 5, 24, 18, 4, 5, 0, time.UTC),
		Items: []domain.LineItem{domain.NewLineItem(8, 2)},
	}

	NormalizeOrder(&o)

	assert.Equal(t, time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC), o.Date)
	assert.Equal(t, int64(5), o.Items[0].Key.OrderID)
}

func TestNormalizeOrderNilItems(t *testing.T) {
	o := domain.Order{}
	NormalizeOrder(&o)
	assert.NotNil(t, o.Items)
	assert.Empty(t, o.Items)

	NormalizeOrder(nil)
}

func TestNormalizeRecentLimit(t *testing.T) {
	assert.Equal(t, DefaultRecentLimit, NormalizeRecentLimit(0))
	assert.Equal(t, DefaultRecentLimit, NormalizeRecentLimit(-3))
	assert.Equal(t, 3, NormalizeRecentLimit(3))
}

func TestNormalizeDateRange(t *testing.T) {
	d1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)

	from, to, ok := NormalizeDateRange(d1, d2)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, d2, to)

	_, _, ok = NormalizeDateRange(d2, d1)
	assert.False(t, ok)

	_, _, ok = NormalizeDateRange(d1, d1)
	assert.True(t, ok)
}
