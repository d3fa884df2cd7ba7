package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/order-board/internal/domain/order"
)

const (
	insertTransitionSQL = `INSERT INTO status_transitions (order_id, from_status, to_status, order_total, changed_at)
	VALUES ($1, $2, $3, $4, $5)`

	historySQL = `SELECT order_id, from_status, to_status, order_total, changed_at
	FROM status_transitions
	WHERE order_id = $1
	ORDER BY changed_at DESC, id DESC
	LIMIT $2`
)

var _ order.Observer = (*Journal)(nil)

// Journal records every status transition the board applied.
type Journal struct {
	pool *pgxpool.Pool
}

// NewJournal returns a Journal that uses the given pool.
func NewJournal(pool *pgxpool.Pool) *Journal {
	return &Journal{pool: pool}
}

// OnTransition appends t to the journal.
func (j *Journal) OnTransition(ctx context.Context, t order.Transition) error {
	_, err := j.pool.Exec(ctx, insertTransitionSQL,
		t.OrderID, string(t.From), string(t.To), t.Total, t.At,
	)
	if err != nil {
		return fmt.Errorf("recording transition of order %d: %w", t.OrderID, err)
	}
	return nil
}

// History returns up to limit transitions of the order, newest first.
func (j *Journal) History(ctx context.Context, orderID int64, limit int) ([]order.Transition, error) {
	rows, err := j.pool.Query(ctx, historySQL, orderID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history of order %d: %w", orderID, err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Transition, error) {
		var (
			t        order.Transition
			from, to string
		)
		if err := row.Scan(&t.OrderID, &from, &to, &t.Total, &t.At); err != nil {
			return t, err
		}
		t.From = order.Status(from)
		t.To = order.Status(to)
		return t, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning history of order %d: %w", orderID, err)
	}
	return out, nil
}
