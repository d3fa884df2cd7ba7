package order

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/xenking/order-board/internal/notice"
)

// Messages shown to staff.
const (
	MsgNotFound      = "Order not found."
	MsgInvalidStatus = "Invalid status or order is already delivered."
	MsgChangeFailed  = "Error changing order status."
	MsgInvalidID     = "Invalid order id."
	msgChanged       = "Order status changed successfully to "
)

// State is a point-in-time copy of what the board shows.
type State struct {
	RestaurantProfileID *int64
	Orders              []Order
	Loading             bool
	// Error is the message of the last failed load, empty otherwise.
	Error string
}

// ServiceConfig holds optional Service dependencies.
type ServiceConfig struct {
	// Observers are called after every applied transition.
	Observers      []Observer
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service owns the board state of one restaurant: it loads the order list and
// advances orders through the delivery pipeline.
type Service struct {
	backend   Backend
	notifier  notice.Notifier
	observers []Observer
	tracer    trace.Tracer
	advances  metric.Int64Counter
	now       func() time.Time

	board    *Board
	inflight atomic.Int32

	mu        sync.RWMutex
	profileID *int64
	loadErr   string
}

// NewService creates a Service with an empty board.
func NewService(backend Backend, notifier notice.Notifier, cfg ServiceConfig) (*Service, error) {
	if cfg.TracerProvider == nil {
		cfg.TracerProvider = tracenoop.NewTracerProvider()
	}
	if cfg.MeterProvider == nil {
		cfg.MeterProvider = metricnoop.NewMeterProvider()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	advances, err := cfg.MeterProvider.Meter("order-board").Int64Counter("board.status.advances",
		metric.WithDescription("Status advance attempts by result"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create advances counter")
	}

	return &Service{
		backend:   backend,
		notifier:  notifier,
		observers: cfg.Observers,
		tracer:    cfg.TracerProvider.Tracer("order-board"),
		advances:  advances,
		now:       cfg.Now,
		board:     NewBoard(),
	}, nil
}

// Load fetches the restaurant's orders and replaces the board. On failure the
// error message is kept for display and the board is left as it was.
func (s *Service) Load(ctx context.Context) error {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	ctx, span := s.tracer.Start(ctx, "order.Load")
	defer span.End()

	listing, err := s.backend.ListRestaurantOrders(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")

		s.mu.Lock()
		s.loadErr = err.Error()
		s.mu.Unlock()
		return errors.Wrap(err, "list restaurant orders")
	}

	s.board.Replace(listing.Orders)

	s.mu.Lock()
	s.profileID = listing.RestaurantProfileID
	s.loadErr = ""
	s.mu.Unlock()

	count := s.board.Len()
	span.SetAttributes(attribute.Int("orders.count", count))
	zctx.From(ctx).Debug("Orders loaded", zap.Int("count", count))
	return nil
}

// Reload is Load triggered by staff.
func (s *Service) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// Advance moves the order one step forward in the delivery pipeline. The board
// is patched only after the backend acknowledges the change; on any error the
// board is unchanged. Every outcome produces exactly one notice.
func (s *Service) Advance(ctx context.Context, id int64) (Order, error) {
	s.inflight.Add(1)
	defer s.inflight.Add(-1)

	ctx, span := s.tracer.Start(ctx, "order.Advance",
		trace.WithAttributes(attribute.Int64("order.id", id)),
	)
	defer span.End()

	o, err := s.advance(ctx, id)
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "advance failed")
	}
	s.advances.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	return o, err
}

func (s *Service) advance(ctx context.Context, id int64) (Order, error) {
	current, ok := s.board.Get(id)
	if !ok {
		s.notifier.Notify(ctx, notice.Error(MsgNotFound))
		return Order{}, &OrderNotFoundError{ID: id}
	}

	next, err := current.Status.Next()
	if err != nil {
		s.notifier.Notify(ctx, notice.Error(MsgInvalidStatus))
		return Order{}, err
	}

	if err := s.backend.ChangeStatus(ctx, id, next); err != nil {
		zctx.From(ctx).Error("Change order status",
			zap.Int64("order_id", id),
			zap.String("status", string(next)),
			zap.Error(err),
		)
		s.notifier.Notify(ctx, notice.Error(MsgChangeFailed))
		return Order{}, errors.Wrap(err, "change order status")
	}

	updated, ok := s.board.CompareAndSetStatus(id, current.Status, next)
	if !ok {
		// A reload replaced the board while the request was in flight.
		s.notifier.Notify(ctx, notice.Error(MsgNotFound))
		return Order{}, &OrderNotFoundError{ID: id}
	}
	if updated.Status != next {
		// A reload brought a status newer than the one this request read.
		zctx.From(ctx).Info("Board already moved on, keeping reloaded status",
			zap.Int64("order_id", id),
			zap.String("status", string(updated.Status)),
		)
	}
	s.notifier.Notify(ctx, notice.Success(msgChanged+string(next)))

	t := Transition{
		OrderID: id,
		From:    current.Status,
		To:      next,
		Total:   current.Total,
		At:      s.now(),
	}
	for _, obs := range s.observers {
		if err := obs.OnTransition(ctx, t); err != nil {
			zctx.From(ctx).Warn("Transition observer failed",
				zap.Int64("order_id", id),
				zap.Error(err),
			)
		}
	}

	return updated, nil
}

// Notify reports n through the notifier the service reports its own outcomes to.
func (s *Service) Notify(ctx context.Context, n notice.Notice) {
	s.notifier.Notify(ctx, n)
}

// Loading reports whether a load or advance is in progress.
func (s *Service) Loading() bool {
	return s.inflight.Load() > 0
}

// Order returns a single order from the board.
func (s *Service) Order(id int64) (Order, bool) {
	return s.board.Get(id)
}

// State returns a copy of the current board state.
func (s *Service) State() State {
	s.mu.RLock()
	st := State{
		RestaurantProfileID: s.profileID,
		Error:               s.loadErr,
	}
	s.mu.RUnlock()

	st.Orders = s.board.Orders()
	st.Loading = s.Loading()
	return st
}
