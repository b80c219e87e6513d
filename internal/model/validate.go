package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports invalid form input. No remote call is made for it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseCarForm validates create form input and converts it to a NewCar.
// Text fields are trimmed; name and model are required; year, price and
// coordinates must parse to finite numbers.
func ParseCarForm(f CarForm) (NewCar, error) {
	name := strings.TrimSpace(f.Name)
	carModel := strings.TrimSpace(f.Model)
	if name == "" {
		return NewCar{}, &ValidationError{Field: "name", Message: "name and model are required"}
	}
	if carModel == "" {
		return NewCar{}, &ValidationError{Field: "model", Message: "name and model are required"}
	}

	year, err := parseFinite("year", f.Year)
	if err != nil {
		return NewCar{}, err
	}
	price, err := parseFinite("price", f.Price)
	if err != nil {
		return NewCar{}, err
	}
	lat, err := parseFinite("latitude", f.Latitude)
	if err != nil {
		return NewCar{}, err
	}
	lng, err := parseFinite("longitude", f.Longitude)
	if err != nil {
		return NewCar{}, err
	}

	return NewCar{
		Name:      name,
		Model:     carModel,
		Color:     strings.TrimSpace(f.Color),
		Year:      year,
		Price:     price,
		Latitude:  lat,
		Longitude: lng,
	}, nil
}

// ParsePriceInput parses an inline price edit. Empty input means the price was
// cleared and yields nil.
func ParsePriceInput(input string) (*float64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}
	v, err := parseFinite("price", s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseFinite(field, input string) (float64, error) {
	s := strings.TrimSpace(input)
	msg := "year, price, latitude and longitude are required and must be numbers"
	if s == "" {
		return 0, &ValidationError{Field: field, Message: msg}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Message: fmt.Sprintf("%s: %q is not a number", field, s)}
	}
	return v, nil
}
