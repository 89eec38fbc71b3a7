package validation

import (
	"errors"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

func IsValidOrder(order domain.Order) error {
	if err := validateOrderFields(order); err != nil {
		return err
	}
	if err := isValidItems(order.Items); err != nil {
		return err
	}
	return nil
}

func validateOrderFields(order domain.Order) error {
	if order.ClientID <= 0 {
		return errors.New("clienteId must be a positive number")
	}
	if order.Date.IsZero() {
		return errors.New("fecha is required")
	}
	if order.Total.IsNegative() {
		return errors.New("total must not be negative")
	}
	return nil
}
