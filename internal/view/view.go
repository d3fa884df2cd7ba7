// Package view projects board state into order cards and renders them as an
// HTML page or plain text.
package view

import (
	"strconv"

	"github.com/xenking/order-board/internal/domain/order"
	"github.com/xenking/order-board/internal/notice"
)

// DefaultDetailPrefix is where the order-detail view lives unless configured.
const DefaultDetailPrefix = "/orderdetail/"

// Card is the display form of a single order.
type Card struct {
	ID          int64
	Title       string
	Customer    string
	Email       string
	AddressLine string
	CityLine    string
	Status      string
	StatusBadge string
	Total       string
	CanAdvance  bool
	AdvancePath string
	DetailPath  string
}

// NewCard projects o into a Card. detailPrefix is joined with the order id to
// link to the order-detail view.
func NewCard(o order.Order, detailPrefix string) Card {
	id := strconv.FormatInt(o.ID, 10)
	return Card{
		ID:          o.ID,
		Title:       "Order -" + id,
		Customer:    o.User.FirstName + " " + o.User.LastName + "-" + o.User.PhoneNumber,
		Email:       o.User.Email,
		AddressLine: o.Address.Line1 + "-" + o.Address.Line2,
		CityLine:    o.Address.City + "--" + o.Address.PostalCode,
		Status:      string(o.Status),
		StatusBadge: string(o.Status) + "-" + o.User.FirstName,
		Total:       o.Total.StringFixed(2),
		CanAdvance:  o.Status.Index() >= 0 && !o.Status.IsTerminal(),
		AdvancePath: "/orders/" + id + "/advance",
		DetailPath:  detailPrefix + id,
	}
}

// Project returns one card per order, preserving order.
func Project(orders []order.Order, detailPrefix string) []Card {
	cards := make([]Card, len(orders))
	for i, o := range orders {
		cards[i] = NewCard(o, detailPrefix)
	}
	return cards
}

// Page is everything a board render needs.
type Page struct {
	Title               string
	RestaurantProfileID string
	Loading             bool
	Error               string
	Notices             []notice.Notice
	Cards               []Card
}

// NewPage builds a Page from a board state snapshot.
func NewPage(st order.State, detailPrefix string, notices []notice.Notice) Page {
	p := Page{
		Title:   "Restaurant Orders",
		Loading: st.Loading,
		Error:   st.Error,
		Notices: notices,
		Cards:   Project(st.Orders, detailPrefix),
	}
	if st.RestaurantProfileID != nil {
		p.RestaurantProfileID = strconv.FormatInt(*st.RestaurantProfileID, 10)
	}
	return p
}
