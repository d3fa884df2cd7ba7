package broker

import (
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xenking/order-board/internal/domain/order"
)

func TestNewPublishing(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	msg := newPublishing(order.Transition{
		OrderID: 5,
		From:    order.StatusCooking,
		To:      order.StatusOutForDelivery,
		Total:   decimal.RequireFromString("349.5"),
		At:      at,
	})

	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "5:Out for delivery", msg.MessageId)
	assert.Equal(t, time.UTC, msg.Timestamp.Location())
	assert.JSONEq(t, `{
		"order_id": 5,
		"from": "Cooking",
		"to": "Out for delivery",
		"order_total": "349.50",
		"changed_at": "2024-03-01T07:00:00Z"
	}`, string(msg.Body))
}
