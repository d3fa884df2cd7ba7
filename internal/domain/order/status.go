package order

// Status is the fulfillment state of an order as the ordering backend spells it.
type Status string

// The delivery pipeline, in order. An order only ever moves one step forward.
const (
	StatusConfirmed      Status = "Order Confirmed"
	StatusCooking        Status = "Cooking"
	StatusOutForDelivery Status = "Out for delivery"
	StatusDelivered      Status = "Delivered"
)

var pipeline = [...]Status{
	StatusConfirmed,
	StatusCooking,
	StatusOutForDelivery,
	StatusDelivered,
}

// Statuses returns the delivery pipeline in order.
func Statuses() []Status {
	out := make([]Status, len(pipeline))
	copy(out, pipeline[:])
	return out
}

// Index returns the position of s in the pipeline, or -1 if s is not part of it.
func (s Status) Index() int {
	for i, p := range pipeline {
		if p == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether s is the last pipeline step.
func (s Status) IsTerminal() bool {
	return s == pipeline[len(pipeline)-1]
}

// Next returns the status that follows s.
// It returns *UnknownStatusError for values outside the pipeline and
// ErrTerminalStatus for the last step.
func (s Status) Next() (Status, error) {
	i := s.Index()
	switch {
	case i < 0:
		return "", &UnknownStatusError{Status: s}
	case i == len(pipeline)-1:
		return "", ErrTerminalStatus
	}
	return pipeline[i+1], nil
}
