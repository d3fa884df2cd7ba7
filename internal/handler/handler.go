// Package handler exposes the order board over HTTP: an HTML page for staff
// and a small JSON API with the same operations.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/notice"
	"github.com/xenking/order-board/internal/view"
	"github.com/xenking/order-board/pkg/httpmiddleware"
)

// History lists past transitions of an order, newest first.
type History interface {
	History(ctx context.Context, orderID int64, limit int) ([]order.Transition, error)
}

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// DetailURLPrefix is joined with the order id to link to the order-detail
	// view. Defaults to view.DefaultDetailPrefix.
	DetailURLPrefix string
	// HistoryLimit caps the transitions returned per order. Defaults to 50.
	HistoryLimit int
}

// Handler serves the board of a single restaurant.
type Handler struct {
	orders       *order.Service
	notices      *notice.Recorder
	history      History
	detailPrefix string
	historyLimit int
}

// NewHandler constructs a Handler. history may be nil when the transition
// journal is disabled.
func NewHandler(cfg HandlerConfig, orders *order.Service, notices *notice.Recorder, history History) *Handler {
	if cfg.DetailURLPrefix == "" {
		cfg.DetailURLPrefix = view.DefaultDetailPrefix
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 50
	}
	return &Handler{
		orders:       orders,
		notices:      notices,
		history:      history,
		detailPrefix: cfg.DetailURLPrefix,
		historyLimit: cfg.HistoryLimit,
	}
}

// Register mounts the board routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httpmiddleware.LogRequests())

		r.Get("/", h.Page)
		r.Post("/orders/reload", h.ReloadForm)
		r.Post("/orders/{id}/advance", h.AdvanceForm)

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/reload", h.Reload)
			r.Post("/{id}/advance", h.Advance)
			r.Get("/{id}/history", h.OrderHistory)
		})
	})
}

func orderID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
