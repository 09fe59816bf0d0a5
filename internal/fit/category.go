package fit

import (
	"fmt"
	"strings"
)

// Category is the garment fit category. It decides which measurements the
// scorer needs.
type Category string

const (
	UpperFittedCategory Category = "upper_fitted"
	UpperLooseCategory  Category = "upper_loose"
	LowerFittedCategory Category = "lower_fitted"
	LowerLooseCategory  Category = "lower_loose"
	DressesCategory     Category = "dresses"
)

// Measurement names a single body or garment measurement in centimeters.
type Measurement string

const (
	Bust  Measurement = "bust"
	Waist Measurement = "waist"
	Hip   Measurement = "hip"
	Chest Measurement = "chest"
)

type requirement struct {
	user    []Measurement
	product []Measurement
}

var requirements = map[Category]requirement{
	UpperFittedCategory: {user: []Measurement{Bust, Waist}, product: []Measurement{Chest, Waist}},
	UpperLooseCategory:  {user: []Measurement{Bust}, product: []Measurement{Chest}},
	LowerFittedCategory: {user: []Measurement{Waist, Hip}, product: []Measurement{Waist, Hip}},
	LowerLooseCategory:  {user: []Measurement{Waist, Hip}, product: []Measurement{Waist, Hip}},
	DressesCategory:     {user: []Measurement{Bust, Waist, Hip}, product: []Measurement{Chest, Waist, Hip}},
}

// Categories returns all known categories in a stable order.
func Categories() []Category {
	return []Category{
		UpperFittedCategory,
		UpperLooseCategory,
		LowerFittedCategory,
		LowerLooseCategory,
		DressesCategory,
	}
}

// ParseCategory accepts a category name ignoring case and surrounding spaces.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	_, ok := requirements[c]
	return ok
}

func (c Category) String() string { return string(c) }

// UserKeys lists the user measurements the category needs.
func (c Category) UserKeys() []Measurement {
	return append([]Measurement(nil), requirements[c].user...)
}

// ProductKeys lists the garment measurements the category needs.
func (c Category) ProductKeys() []Measurement {
	return append([]Measurement(nil), requirements[c].product...)
}

// Measurements maps a measurement name to its value in centimeters.
type Measurements map[Measurement]float64

// Only returns a copy holding just the given keys. Absent keys are reported
// through ErrMissingMeasurement.
func (m Measurements) Only(keys []Measurement) (Measurements, error) {
	out := make(Measurements, len(keys))
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingMeasurement, k)
		}
		out[k] = v
	}
	return out, nil
}
