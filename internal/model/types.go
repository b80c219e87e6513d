package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ID identifies a car. Backends may send it as a JSON number or as a string,
// so the textual form is kept and the integer value is derived on demand.
type ID string

// NewID returns the ID for an integer value.
func NewID(n int64) ID {
	return ID(strconv.FormatInt(n, 10))
}

// Int returns the integer value of the id, or 0 when the id is missing or not numeric.
func (id ID) Int() int64 {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0
	}
	return int64(f)
}

func (id ID) String() string {
	return string(id)
}

// MarshalJSON writes numeric ids as bare numbers and anything else as a string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a number, a string, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*id = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// Car represents a car record as stored by the remote service.
type Car struct {
	ID        ID       `json:"id"`
	Name      string   `json:"name"`
	Model     string   `json:"model"`
	Year      float64  `json:"year"`
	Color     string   `json:"color"`
	Price     *float64 `json:"price,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Clone returns a deep copy of the car.
func (c Car) Clone() Car {
	out := c
	out.Price = cloneFloat(c.Price)
	out.Latitude = cloneFloat(c.Latitude)
	out.Longitude = cloneFloat(c.Longitude)
	return out
}

// HasCoords reports whether both coordinates are present and finite.
func (c Car) HasCoords() bool {
	return IsFinite(c.Latitude) && IsFinite(c.Longitude)
}

// NewCar represents validated data for creating a car.
type NewCar struct {
	Name      string
	Model     string
	Color     string
	Year      float64
	Price     float64
	Latitude  float64
	Longitude float64
}

// WithID builds the full create payload for a candidate id.
func (n NewCar) WithID(id ID) Car {
	return Car{
		ID:        id,
		Name:      n.Name,
		Model:     n.Model,
		Year:      n.Year,
		Color:     n.Color,
		Price:     Float(n.Price),
		Latitude:  Float(n.Latitude),
		Longitude: Float(n.Longitude),
	}
}

// CarForm holds raw create form input.
type CarForm struct {
	Name      string
	Model     string
	Color     string
	Year      string
	Price     string
	Latitude  string
	Longitude string
}

// SortKey selects the numeric field the list is ordered by.
type SortKey string

const (
	SortNone  SortKey = ""
	SortYear  SortKey = "year"
	SortPrice SortKey = "price"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Field names an inline-editable field.
type Field string

const (
	FieldName  Field = "name"
	FieldPrice Field = "price"
)

// Float returns a pointer to v.
func Float(v float64) *float64 {
	return &v
}

// IsFinite reports whether v is set and neither NaN nor infinite.
func IsFinite(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
