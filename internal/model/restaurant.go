package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a latitude or longitude. Stores send it either as a JSON
// string or as a number; it is always written back as a string.
type Coordinate string

// UnmarshalJSON accepts a string, a number or null.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Coordinate(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("coordinate must be a string or number")
	}
	*c = Coordinate(n.String())
	return nil
}

// Address is the postal location of a restaurant. Every part is optional.
type Address struct {
	StreetAddress string     `json:"streetAddress"`
	City          string     `json:"city"`
	State         string     `json:"state"`
	Pincode       string     `json:"pincode"`
	Landmark      string     `json:"landmark"`
	Latitude      Coordinate `json:"latitude"`
	Longitude     Coordinate `json:"longitude"`
}

// Restaurant is the single restaurant record owned by the signed-in user.
type Restaurant struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	PhoneNumber  string   `json:"phoneNumber"`
	OpeningHours string   `json:"openingHours"`
	GSTIN        string   `json:"gstin"`
	FSSAI        string   `json:"FSSAI"`
	Rating       float64  `json:"rating"`
	Address      *Address `json:"address,omitempty"`
}

// Restaurant field names accepted by SetField.
const (
	RestaurantFieldName         = "name"
	RestaurantFieldPhoneNumber  = "phoneNumber"
	RestaurantFieldOpeningHours = "openingHours"
	RestaurantFieldGSTIN        = "gstin"
	RestaurantFieldFSSAI        = "FSSAI"
	RestaurantFieldRating       = "rating"

	addressPrefix = "address."
)

// Clone returns a deep copy of r.
func (r Restaurant) Clone() Restaurant {
	c := r
	if r.Address != nil {
		a := *r.Address
		c.Address = &a
	}
	return c
}

// SetField assigns value to the named field. Address parts are addressed
// as "address.<part>", e.g. "address.city"; the address is created on first write.
func (r *Restaurant) SetField(field string, value any) error {
	if strings.HasPrefix(field, addressPrefix) {
		return r.setAddressField(strings.TrimPrefix(field, addressPrefix), value)
	}

	if field == RestaurantFieldRating {
		f, err := asNumber(field, value)
		if err != nil {
			return err
		}
		r.Rating = f
		return nil
	}

	var target *string
	switch field {
	case RestaurantFieldName:
		target = &r.Name
	case RestaurantFieldPhoneNumber:
		target = &r.PhoneNumber
	case RestaurantFieldOpeningHours:
		target = &r.OpeningHours
	case RestaurantFieldGSTIN:
		target = &r.GSTIN
	case RestaurantFieldFSSAI:
		target = &r.FSSAI
	default:
		return unknownField(field)
	}

	s, err := asString(field, value)
	if err != nil {
		return err
	}
	*target = s
	return nil
}

func (r *Restaurant) setAddressField(part string, value any) error {
	addr := Address{}
	if r.Address != nil {
		addr = *r.Address
	}

	var target *string
	switch part {
	case "streetAddress":
		target = &addr.StreetAddress
	case "city":
		target = &addr.City
	case "state":
		target = &addr.State
	case "pincode":
		target = &addr.Pincode
	case "landmark":
		target = &addr.Landmark
	case "latitude", "longitude":
		c, err := asCoordinate(addressPrefix+part, value)
		if err != nil {
			return err
		}
		if part == "latitude" {
			addr.Latitude = c
		} else {
			addr.Longitude = c
		}
		r.Address = &addr
		return nil
	default:
		return unknownField(addressPrefix + part)
	}

	s, err := asString(addressPrefix+part, value)
	if err != nil {
		return err
	}
	*target = s
	r.Address = &addr
	return nil
}

// asCoordinate accepts text as typed or a number, which is kept in its
// shortest decimal form.
func asCoordinate(field string, value any) (Coordinate, error) {
	switch v := value.(type) {
	case string:
		return Coordinate(v), nil
	case json.Number:
		return Coordinate(v.String()), nil
	case float64:
		return Coordinate(strconv.FormatFloat(v, 'f', -1, 64)), nil
	case int:
		return Coordinate(strconv.Itoa(v)), nil
	default:
		return "", ErrInvalidFieldValue.Wrap(fmt.Errorf("%s expects a string or number, got %T", field, value))
	}
}
