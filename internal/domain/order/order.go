package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a placed customer order as seen by the restaurant.
type Order struct {
	ID      int64
	Status  Status
	Total   decimal.Decimal
	User    User
	Address Address
}

// User is the customer who placed the order.
type User struct {
	FirstName   string
	LastName    string
	PhoneNumber string
	Email       string
}

// Address is the delivery address of an order.
type Address struct {
	Line1      string
	Line2      string
	City       string
	PostalCode string
}

// Listing is the result of loading the restaurant's orders.
type Listing struct {
	// RestaurantProfileID is nil when the backend does not report one.
	RestaurantProfileID *int64
	Orders              []Order
}

// Transition describes a status change acknowledged by the backend.
type Transition struct {
	OrderID int64
	From    Status
	To      Status
	Total   decimal.Decimal
	At      time.Time
}

// Backend is the ordering backend the board reads from and writes to.
type Backend interface {
	ListRestaurantOrders(ctx context.Context) (*Listing, error)
	ChangeStatus(ctx context.Context, id int64, status Status) error
}

// Observer is notified after a transition has been applied to the board.
type Observer interface {
	OnTransition(ctx context.Context, t Transition) error
}
