package validation

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	domain "github.com/reybrally/pedidos-service/internal/domain/order"
)

func validOrder() domain.Order {
	return domain.Order{
		ClientID: 2,
		Date:     time.Date(2025, 5, 24, 0, 0, 0, 0, time.UTC),
		Total:    decimal.Zero,
		Items:    []domain.LineItem{domain.NewLineItem(8, 2)},
	}
}

func TestIsValidOrder(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(o *domain.Order)
		wantErr string
	}{
		{name: "valid", mutate: func(o *domain.Order) {}},
		{name: "no items is allowed", mutate: func(o *domain.Order) { o.Items = nil }},
		{name: "zero client", mutate: func(o *domain.Order) { o.ClientID = 0 }, wantErr: "clienteId"},
		{name: "negative client", mutate: func(o *domain.Order) { o.ClientID = -1 }, wantErr: "clienteId"},
		{name: "missing date", mutate: func(o *domain.Order) { o.Date = time.Time{} }, wantErr: "fecha"},
		{name: "negative total", mutate: func(o *domain.Order) { o.Total = decimal.NewFromFloat(-0.01) }, wantErr: "total"},
		{name: "zero product", mutate: func(o *domain.Order) { o.Items[0].Key.ProductID = 0 }, wantErr: "productoId"},
		{name: "zero quantity", mutate: func(o *domain.Order) { o.Items[0].Quantity = 0 }, wantErr: "cantidad"},
		{name: "quantity above int32", mutate: func(o *domain.Order) { o.Items[0].Quantity = math.MaxInt32 + 1 }, wantErr: "cantidad"},
		{name: "quantity at int32 max", mutate: func(o *domain.Order) { o.Items[0].Quantity = math.MaxInt32 }},
		{
			name:   "duplicate product is left to the store",
			mutate: func(o *domain.Order) { o.Items = append(o.Items, domain.NewLineItem(8, 1)) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(&o)

			err := IsValidOrder(o)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
