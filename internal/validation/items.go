package validation

import (
	"errors"
	"fmt"
	"math"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

// isValidItems checks each item on its own. Repeated product ids are a key
// conflict and are left to the store.
func isValidItems(items []domain.LineItem) error {
	for _, item := range items {
		if err := isValidItem(item); err != nil {
			return err
		}
	}
	return nil
}

func isValidItem(item domain.LineItem) error {
	if item.Key.ProductID <= 0 {
		return errors.New("productoId must be a positive number")
	}
	if item.Quantity <= 0 {
		return fmt.Errorf("cantidad for productoId %d must be more than zero", item.Key.ProductID)
	}
	if item.Quantity > math.MaxInt32 {
		return fmt.Errorf("cantidad for productoId %d must not exceed %d", item.Key.ProductID, math.MaxInt32)
	}
	return nil
}
