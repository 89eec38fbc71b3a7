package validation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/reybrally/pedidos-service/internal/app/orders"
	"github.com/reybrally/pedidos-service/internal/domain/order"
)

// PositiveID parses a path parameter that must be an id greater than zero.
func PositiveID(name, raw string) (int64, error) {
	id, err := ID(name, raw)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", orders.ErrInvalidData, name)
	}
	return id, nil
}

// ID parses any integer id, zero and negatives included.
func ID(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is required", orders.ErrInvalidData, name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", orders.ErrInvalidData, name)
	}
	return id, nil
}

// ISODate parses a required YYYY-MM-DD query parameter.
func ISODate(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", orders.ErrInvalidData, name)
	}
	t, err := order.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", orders.ErrInvalidData, name)
	}
	return t, nil
}
