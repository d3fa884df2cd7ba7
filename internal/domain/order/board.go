package order

import "sync"

// Board holds the orders currently displayed, keyed by id, together with the
// order in which the backend returned them.
//
// Orders are stored by value: callers always receive copies.
type Board struct {
	mu   sync.RWMutex
	ids  []int64
	byID map[int64]Order
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{byID: make(map[int64]Order)}
}

// Replace discards the board contents and stores orders. When the same id
// appears more than once, the last entry wins and keeps the first position.
func (b *Board) Replace(orders []Order) {
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]Order, len(orders))
	for _, o := range orders {
		if _, seen := byID[o.ID]; !seen {
			ids = append(ids, o.ID)
		}
		byID[o.ID] = o
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.ids = ids
	b.byID = byID
}

// Get returns the order with the given id.
func (b *Board) Get(id int64) (Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.byID[id]
	return o, ok
}

// CompareAndSetStatus patches the status of a single order to status when
// its current status is from, and returns the order as it is on the board
// afterwards. An order whose status is no longer from is returned unchanged.
// All other orders and fields are left untouched.
func (b *Board) CompareAndSetStatus(id int64, from, status Status) (Order, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o, ok := b.byID[id]
	if !ok {
		return Order{}, false
	}
	if o.Status != from {
		return o, true
	}
	o.Status = status
	b.byID[id] = o
	return o, true
}

// Orders returns a copy of all orders in display order.
func (b *Board) Orders() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Order, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.byID[id])
	}
	return out
}

// Len returns the number of orders on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.ids)
}
