package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttachItemsStampsOrderID(t *testing.T) {
	o := Order{ID: 42, Items: []LineItem{NewLineItem(8, 2), NewLineItem(9, 1)}}

	o.AttachItems()

	for _, it := range o.Items {
		assert.Equal(t, int64(42), it.Key.OrderID)
	}
	assert.Equal(t, []int64{8, 9}, o.ProductIDs())
}

func TestAttachItemsOverridesForeignOrderID(t *testing.T) {
	it := NewLineItem(8, 2)
	it.Key.OrderID = 7
	o := Order{ID: 3, Items: []LineItem{it}}

	o.AttachItems()

	assert.Equal(t, LineItemKey{OrderID: 3, ProductID: 8}, o.Items[0].Key)
}

func TestDuplicateProductID(t *testing.T) {
	o := Order{Items: []LineItem{NewLineItem(1, 1), NewLineItem(2, 1)}}
	_, dup := o.DuplicateProductID()
	assert.False(t, dup)

	o.Items = append(o.Items, NewLineItem(1, 5))
	id, dup := o.DuplicateProductID()
	assert.True(t, dup)
	assert.Equal(t, int64(1), id)
}

func TestQuantities(t *testing.T) {
	o := Order{Items: []LineItem{NewLineItem(8, 5), NewLineItem(9, 1)}}
	assert.Equal(t, map[int64]int{8: 5, 9: 1}, o.Quantities())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-05-24")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "2025-05-24", FormatDate(d))

	_, err = ParseDate("24/05/2025")
	assert.Error(t, err)
}

func TestTruncateDate(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	in := time.Date(2025, 5, 24, 23, 30, 0, 0, loc)

	assert.Equal(t, time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC), TruncateDate(in))
	assert.True(t, TruncateDate(time.Time{}).IsZero())
}
