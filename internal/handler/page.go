package handler

import (
	"bytes"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/notice"
	"github.com/xenking/order-board/internal/view"
)

// Page renders the board. Pending notices are shown once and discarded.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	page := view.NewPage(h.orders.State(), h.detailPrefix, h.notices.Drain())

	var buf bytes.Buffer
	if err := view.RenderHTML(&buf, page); err != nil {
		zctx.From(r.Context()).Error("Render board", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

// AdvanceForm handles the "Change Status" button. The outcome is reported
// through a notice on the page it redirects to.
func (h *Handler) AdvanceForm(w http.ResponseWriter, r *http.Request) {
	if id, ok := orderID(r); ok {
		// Every failure has already produced a notice.
		_, _ = h.orders.Advance(r.Context(), id)
	} else {
		h.orders.Notify(r.Context(), notice.Error(order.MsgInvalidID))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ReloadForm handles the "Refresh" button.
func (h *Handler) ReloadForm(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.Reload(r.Context()); err != nil {
		zctx.From(r.Context()).Warn("Reload orders", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
