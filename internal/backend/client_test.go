package backend

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/order-board/internal/domain/order"
)

const listingJSON = `{
  "restaurant_profile_id": 4,
  "orders": [
    {
      "id": 5,
      "status": "Cooking",
      "order_total": "349.50",
      "created_at": "2024-03-01T10:00:00Z",
      "user": {"first_name": "Asha", "last_name": "Rao", "phone_number": "9876543210", "email": "asha@example.com"},
      "address": {"address_line1": "12 MG Road", "address_line2": null, "city": "Pune", "pincode": 411001}
    },
    {
      "id": "7",
      "status": "Delivered",
      "order_total": 120,
      "user": null,
      "address": {"address_line1": "1 Park St", "address_line2": "B", "city": "Kolkata", "pincode": "700016"}
    }
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc, token string) *Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL + "/api", Token: token, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestListRestaurantOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/orders/resorders/", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, listingJSON)
	}, "secret")

	listing, err := c.ListRestaurantOrders(context.Background())
	require.NoError(t, err)

	require.NotNil(t, listing.RestaurantProfileID)
	assert.Equal(t, int64(4), *listing.RestaurantProfileID)
	require.Len(t, listing.Orders, 2)

	first := listing.Orders[0]
	assert.Equal(t, int64(5), first.ID)
	assert.Equal(t, order.StatusCooking, first.Status)
	assert.True(t, decimal.RequireFromString("349.50").Equal(first.Total))
	assert.Equal(t, order.User{
		FirstName:   "Asha",
		LastName:    "Rao",
		PhoneNumber: "9876543210",
		Email:       "asha@example.com",
	}, first.User)
	assert.Equal(t, order.Address{
		Line1:      "12 MG Road",
		City:       "Pune",
		PostalCode: "411001",
	}, first.Address)

	second := listing.Orders[1]
	assert.Equal(t, int64(7), second.ID)
	assert.Equal(t, order.StatusDelivered, second.Status)
	assert.True(t, decimal.NewFromInt(120).Equal(second.Total))
	assert.Equal(t, order.User{}, second.User)
}

func TestListRestaurantOrders_NullProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"restaurant_profile_id": null, "orders": []}`)
	}, "")

	listing, err := c.ListRestaurantOrders(context.Background())
	require.NoError(t, err)
	assert.Nil(t, listing.RestaurantProfileID)
	assert.Empty(t, listing.Orders)
}

func TestListRestaurantOrders_NullOrders(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"restaurant_profile_id": 4, "orders": null}`)
	}, "")

	listing, err := c.ListRestaurantOrders(context.Background())
	require.NoError(t, err)
	require.NotNil(t, listing.RestaurantProfileID)
	assert.NotNil(t, listing.Orders)
	assert.Empty(t, listing.Orders)
}

func TestListRestaurantOrders_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"orders": [{"id": "abc"}]}`)
	}, "")

	_, err := c.ListRestaurantOrders(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode orders")
}

func TestListRestaurantOrders_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}, "")

	_, err := c.ListRestaurantOrders(context.Background())

	var stErr *StatusError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, http.StatusForbidden, stErr.Code)
	assert.Equal(t, http.MethodGet, stErr.Method)
	assert.Contains(t, stErr.Body, "forbidden")
}

func TestChangeStatus(t *testing.T) {
	var gotBody string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders/change-order-status/5/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusOK)
	}, "")

	err := c.ChangeStatus(context.Background(), 5, order.StatusOutForDelivery)
	require.NoError(t, err)
	assert.JSONEq(t, `{"newStatus":"Out for delivery"}`, gotBody)
}

func TestChangeStatus_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "")

	err := c.ChangeStatus(context.Background(), 5, order.StatusCooking)

	var stErr *StatusError
	require.ErrorAs(t, err, &stErr)
	assert.Equal(t, http.StatusInternalServerError, stErr.Code)
	assert.Equal(t, "orders/change-order-status/5/", stErr.Path)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, "")
	require.NoError(t, c.Ping(context.Background()))
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New(Config{BaseURL: "orders/"})
	require.Error(t, err)
}

func TestDecodeDecimal_Null(t *testing.T) {
	v, err := decodeDecimal(jx.DecodeStr(`null`))
	require.NoError(t, err)
	assert.True(t, v.IsZero())
}
