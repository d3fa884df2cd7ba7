package order

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrInvalidTransition is matched by every error that rejects an advance
// because of the order's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrTerminalStatus indicates the order is already delivered.
var ErrTerminalStatus = errors.Wrap(ErrInvalidTransition, "order is already delivered")

// OrderNotFoundError indicates the order id is not on the board.
type OrderNotFoundError struct {
	ID int64
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("order %d not found", e.ID)
}

// UnknownStatusError indicates the order carries a status outside the pipeline.
type UnknownStatusError struct {
	Status Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown order status %q", string(e.Status))
}

// Is makes UnknownStatusError match ErrInvalidTransition.
func (e *UnknownStatusError) Is(target error) bool {
	return target == ErrInvalidTransition
}
