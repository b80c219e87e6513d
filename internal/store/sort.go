package store

import (
	"sort"

	"carsync/internal/model"
)

// SelectSort applies a sort-by intent. Selecting the active key again flips
// the direction; selecting another key starts ascending.
func SelectSort(s State, key model.SortKey) State {
	if s.SortKey == key {
		if s.SortOrder == model.SortAsc {
			s.SortOrder = model.SortDesc
		} else {
			s.SortOrder = model.SortAsc
		}
		return s
	}
	s.SortKey = key
	s.SortOrder = model.SortAsc
	return s
}

// Project returns a new slice ordered by key and order. The input is left as is.
// The sort is stable, and cars with no value for the key go last in either direction.
func Project(cars []model.Car, key model.SortKey, order model.SortOrder) []model.Car {
	out := cloneCars(cars)
	if key == model.SortNone {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, aok := sortValue(out[i], key)
		b, bok := sortValue(out[j], key)
		if !aok || !bok {
			return aok && !bok
		}
		if order == model.SortDesc {
			return b-a < 0
		}
		return a-b < 0
	})
	return out
}

func sortValue(c model.Car, key model.SortKey) (float64, bool) {
	switch key {
	case model.SortYear:
		return c.Year, true
	case model.SortPrice:
		if !model.IsFinite(c.Price) {
			return 0, false
		}
		return *c.Price, true
	}
	return 0, false
}
