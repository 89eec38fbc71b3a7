package order

// LineItemKey is the composite identity of a line item: one product per order.
type LineItemKey struct {
	OrderID   int64
	ProductID int64
}

type LineItem struct {
	Key      LineItemKey
	Quantity int
}

func NewLineItem(productID int64, quantity int) LineItem {
	return LineItem{Key: LineItemKey{ProductID: productID}, Quantity: quantity}
}
