package backend

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/order-board/internal/domain/order"
)

// decodeListing decodes
//
//	{"restaurant_profile_id": 3, "orders": [...]}
//
// Unknown fields are skipped.
func decodeListing(d *jx.Decoder) (*order.Listing, error) {
	listing := &order.Listing{Orders: []order.Order{}}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "restaurant_profile_id":
			if d.Next() == jx.Null {
				return d.Null()
			}
			id, err := decodeID(d)
			if err != nil {
				return errors.Wrap(err, "restaurant_profile_id")
			}
			listing.RestaurantProfileID = &id
			return nil
		case "orders":
			if d.Next() == jx.Null {
				return d.Null()
			}
			return d.Arr(func(d *jx.Decoder) error {
				o, err := decodeOrder(d)
				if err != nil {
					return errors.Wrapf(err, "order %d", len(listing.Orders))
				}
				listing.Orders = append(listing.Orders, o)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func decodeOrder(d *jx.Decoder) (order.Order, error) {
	var o order.Order
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			o.ID, err = decodeID(d)
		case "status":
			var s string
			s, err = decodeString(d)
			o.Status = order.Status(s)
		case "order_total":
			o.Total, err = decodeDecimal(d)
		case "user":
			o.User, err = decodeUser(d)
		case "address":
			o.Address, err = decodeAddress(d)
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
	return o, err
}

func decodeUser(d *jx.Decoder) (order.User, error) {
	var u order.User
	if d.Next() == jx.Null {
		return u, d.Null()
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "first_name":
			u.FirstName, err = decodeString(d)
		case "last_name":
			u.LastName, err = decodeString(d)
		case "phone_number":
			u.PhoneNumber, err = decodeString(d)
		case "email":
			u.Email, err = decodeString(d)
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
	return u, err
}

func decodeAddress(d *jx.Decoder) (order.Address, error) {
	var a order.Address
	if d.Next() == jx.Null {
		return a, d.Null()
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "address_line1":
			a.Line1, err = decodeString(d)
		case "address_line2":
			a.Line2, err = decodeString(d)
		case "city":
			a.City, err = decodeString(d)
		case "pincode":
			a.PostalCode, err = decodeString(d)
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
	return a, err
}

// decodeString reads a string, treating null as empty. Numbers are kept in
// their literal form (phone numbers and pincodes are sometimes numeric).
func decodeString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.Null:
		return "", d.Null()
	case jx.Number:
		raw, err := d.Raw()
		if err != nil {
			return "", err
		}
		return raw.String(), nil
	default:
		return d.Str()
	}
}

// decodeID reads an id given as a number or a numeric string.
func decodeID(d *jx.Decoder) (int64, error) {
	if d.Next() == jx.String {
		s, err := d.Str()
		if err != nil {
			return 0, err
		}
		return parseID(s)
	}
	return d.Int64()
}

// decodeDecimal reads a currency amount given as a number or a decimal
// string, as Django REST framework renders DecimalField by default.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	var s string
	switch d.Next() {
	case jx.Null:
		return decimal.Zero, d.Null()
	case jx.String:
		v, err := d.Str()
		if err != nil {
			return decimal.Zero, err
		}
		s = v
	default:
		raw, err := d.Raw()
		if err != nil {
			return decimal.Zero, err
		}
		s = raw.String()
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "parse amount %q", s)
	}
	return v, nil
}
