// Package broker publishes order status changes to RabbitMQ so other
// services (courier dispatch, customer notifications) can react to them.
package broker

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xenking/order-board/internal/domain/order"
)

// RoutingKey is the routing key of every status change message.
const RoutingKey = "order.status_changed"

var _ order.Observer = (*Publisher)(nil)

// Publisher publishes transitions to a durable topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// Dial connects to the broker and declares the exchange.
func Dial(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "declare exchange %q", exchange)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// OnTransition publishes t as a persistent JSON message.
func (p *Publisher) OnTransition(ctx context.Context, t order.Transition) error {
	msg := newPublishing(t)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKey, false, false, msg); err != nil {
		return errors.Wrapf(err, "publish transition of order %d", t.OrderID)
	}
	return nil
}

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		_ = p.conn.Close()
		return errors.Wrap(err, "close channel")
	}
	return p.conn.Close()
}

func newPublishing(t order.Transition) amqp.Publishing {
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    strconv.FormatInt(t.OrderID, 10) + ":" + string(t.To),
		Timestamp:    t.At.UTC(),
		Body:         encodeTransition(t),
	}
}

func encodeTransition(t order.Transition) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("order_id", func(e *jx.Encoder) { e.Int64(t.OrderID) })
		e.Field("from", func(e *jx.Encoder) { e.Str(string(t.From)) })
		e.Field("to", func(e *jx.Encoder) { e.Str(string(t.To)) })
		e.Field("order_total", func(e *jx.Encoder) { e.Str(t.Total.StringFixed(2)) })
		e.Field("changed_at", func(e *jx.Encoder) { e.Str(t.At.UTC().Format(time.RFC3339Nano)) })
	})
	return e.Bytes()
}
