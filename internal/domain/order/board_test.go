package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoard_ReplaceKeepsBackendOrder(t *testing.T) {
	b := NewBoard()
	b.Replace([]Order{
		{ID: 9, Status: StatusCooking},
		{ID: 2, Status: StatusConfirmed},
		{ID: 5, Status: StatusDelivered},
	})

	orders := b.Orders()
	require.Len(t, orders, 3)
	assert.Equal(t, int64(9), orders[0].ID)
	assert.Equal(t, int64(2), orders[1].ID)
	assert.Equal(t, int64(5), orders[2].ID)
}

func TestBoard_ReplaceDuplicateID(t *testing.T) {
	b := NewBoard()
	b.Replace([]Order{
		{ID: 1, Status: StatusConfirmed},
		{ID: 2, Status: StatusConfirmed},
		{ID: 1, Status: StatusCooking},
	})

	require.Equal(t, 2, b.Len())
	o, ok := b.Get(1)
	require.True(t, ok)
	assert.Equal(t, StatusCooking, o.Status)
	assert.Equal(t, int64(1), b.Orders()[0].ID)
}

func TestBoard_CompareAndSetStatusTouchesOnlyTarget(t *testing.T) {
	b := NewBoard()
	before := []Order{
		{ID: 1, Status: StatusConfirmed, Total: decimal.RequireFromString("10.50")},
		{ID: 2, Status: StatusCooking, Total: decimal.RequireFromString("22.00")},
	}
	b.Replace(before)

	updated, ok := b.CompareAndSetStatus(2, StatusCooking, StatusOutForDelivery)
	require.True(t, ok)
	assert.Equal(t, StatusOutForDelivery, updated.Status)

	after := b.Orders()
	assert.Equal(t, before[0], after[0])

	want := before[1]
	want.Status = StatusOutForDelivery
	assert.Equal(t, want, after[1])
}

func TestBoard_CompareAndSetStatusMissing(t *testing.T) {
	b := NewBoard()
	_, ok := b.CompareAndSetStatus(42, StatusConfirmed, StatusCooking)
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}

func TestBoard_CompareAndSetStatusStale(t *testing.T) {
	b := NewBoard()
	b.Replace([]Order{{ID: 1, Status: StatusDelivered}})

	o, ok := b.CompareAndSetStatus(1, StatusCooking, StatusOutForDelivery)
	require.True(t, ok)
	assert.Equal(t, StatusDelivered, o.Status)
	assert.Equal(t, StatusDelivered, b.Orders()[0].Status)
}

func TestBoard_OrdersReturnsCopy(t *testing.T) {
	b := NewBoard()
	b.Replace([]Order{{ID: 1, Status: StatusConfirmed}})

	orders := b.Orders()
	orders[0].Status = StatusDelivered

	o, _ := b.Get(1)
	assert.Equal(t, StatusConfirmed, o.Status)
}
