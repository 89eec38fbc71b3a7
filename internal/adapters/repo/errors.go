package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/reybrally/pedidos-service/internal/app/orders"
)

// mapError translates driver errors into the orders error taxonomy.
func mapError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		return fmt.Errorf("%w: %v", orders.ErrTimeout, err)
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) {
		switch pgerr.Code {
		case "23505":
			return fmt.Errorf("%w: %s", orders.ErrConflict, pgerr.Message)
		case "23514", "23502", "22001", "22003", "22P02":
			return fmt.Errorf("%w: %s", orders.ErrInvalidData, pgerr.Message)
		}
	}
	return err
}
