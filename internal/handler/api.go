package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/view"
)

// ListOrders returns the board state with one card per order.
func (h *Handler) ListOrders(w http.ResponseWriter, _ *http.Request) {
	h.writeState(w, h.orders.State())
}

// Reload refetches the orders from the backend.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Reload(r.Context()); err != nil {
		zctx.From(r.Context()).Warn("Reload orders", zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writeState(w, h.orders.State())
}

// Advance moves an order to its next status and returns the updated card.
func (h *Handler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, order.MsgInvalidID)
		return
	}

	o, err := h.orders.Advance(r.Context(), id)
	if err != nil {
		code, msg := mapAdvanceError(err)
		writeError(w, code, msg)
		return
	}

	var e jx.Encoder
	encodeCard(&e, view.NewCard(o, h.detailPrefix))
	writeJSON(w, http.StatusOK, e.Bytes())
}

// OrderHistory lists recorded transitions of one order.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history is disabled")
		return
	}
	id, ok := orderID(r)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, order.MsgInvalidID)
		return
	}

	transitions, err := h.history.History(r.Context(), id, h.historyLimit)
	if err != nil {
		zctx.From(r.Context()).Error("Order history", zap.Int64("order_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}

	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for _, t := range transitions {
			encodeTransition(e, t)
		}
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

// mapAdvanceError converts advance errors to an HTTP status and message.
func mapAdvanceError(err error) (int, string) {
	var nfErr *order.OrderNotFoundError
	if errors.As(err, &nfErr) {
		return http.StatusNotFound, order.MsgNotFound
	}
	if errors.Is(err, order.ErrTerminalStatus) {
		return http.StatusConflict, order.MsgInvalidStatus
	}
	if errors.Is(err, order.ErrInvalidTransition) {
		return http.StatusUnprocessableEntity, order.MsgInvalidStatus
	}
	return http.StatusBadGateway, order.MsgChangeFailed
}

func (h *Handler) writeState(w http.ResponseWriter, st order.State) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("restaurant_profile_id", func(e *jx.Encoder) {
			if st.RestaurantProfileID == nil {
				e.Null()
				return
			}
			e.Int64(*st.RestaurantProfileID)
		})
		e.Field("loading", func(e *jx.Encoder) { e.Bool(st.Loading) })
		e.Field("error", func(e *jx.Encoder) {
			if st.Error == "" {
				e.Null()
				return
			}
			e.Str(st.Error)
		})
		e.Field("orders", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, c := range view.Project(st.Orders, h.detailPrefix) {
					encodeCard(e, c)
				}
			})
		})
	})
	writeJSON(w, http.StatusOK, e.Bytes())
}

func encodeCard(e *jx.Encoder, c view.Card) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(c.ID) })
		e.Field("title", func(e *jx.Encoder) { e.Str(c.Title) })
		e.Field("customer", func(e *jx.Encoder) { e.Str(c.Customer) })
		e.Field("email", func(e *jx.Encoder) { e.Str(c.Email) })
		e.Field("address", func(e *jx.Encoder) { e.Str(c.AddressLine) })
		e.Field("city", func(e *jx.Encoder) { e.Str(c.CityLine) })
		e.Field("status", func(e *jx.Encoder) { e.Str(c.Status) })
		e.Field("total", func(e *jx.Encoder) { e.Str(c.Total) })
		e.Field("can_advance", func(e *jx.Encoder) { e.Bool(c.CanAdvance) })
		e.Field("detail_path", func(e *jx.Encoder) { e.Str(c.DetailPath) })
	})
}

func encodeTransition(e *jx.Encoder, t order.Transition) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("order_id", func(e *jx.Encoder) { e.Int64(t.OrderID) })
		e.Field("from", func(e *jx.Encoder) { e.Str(string(t.From)) })
		e.Field("to", func(e *jx.Encoder) { e.Str(string(t.To)) })
		e.Field("order_total", func(e *jx.Encoder) { e.Str(t.Total.StringFixed(2)) })
		e.Field("changed_at", func(e *jx.Encoder) { e.Str(t.At.UTC().Format(time.RFC3339)) })
	})
}

func writeError(w http.ResponseWriter, code int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(code) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, code, e.Bytes())
}

func writeJSON(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
