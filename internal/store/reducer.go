package store

import (
	"carsync/internal/model"
)

const fetchFailedMessage = "Failed to fetch"

// State is the collection state owned by a Store.
type State struct {
	Cars      []model.Car
	Loading   bool
	Err       string
	SortKey   model.SortKey
	SortOrder model.SortOrder
	Editing   bool
	EditingID model.ID
	Drafts    map[model.ID]Draft
}

// InitialState returns an empty, unsorted, idle state.
func InitialState() State {
	return State{Cars: []model.Car{}, SortOrder: model.SortAsc}
}

// Reduce applies a remote operation result to s and returns the new state.
// The input state is never modified.
func Reduce(s State, r Result) State {
	switch r.Op {
	case OpFetch:
		return reduceFetch(s, r)
	case OpCreate:
		return reduceCreate(s, r)
	case OpUpdate:
		return reduceUpdate(s, r)
	case OpRemove:
		return reduceRemove(s, r)
	}
	return s
}

func reduceFetch(s State, r Result) State {
	switch r.Status {
	case StatusPending:
		s.Loading = true
		s.Err = ""
	case StatusOK:
		s.Loading = false
		s.Cars = cloneCars(r.Cars)
	case StatusFailed:
		s.Loading = false
		s.Err = fetchFailedMessage
		if r.Err != nil && r.Err.Error() != "" {
			s.Err = r.Err.Error()
		}
	}
	return s
}

func reduceCreate(s State, r Result) State {
	if r.Status != StatusOK {
		return s
	}
	cars := make([]model.Car, 0, len(s.Cars)+1)
	cars = append(cars, s.Cars...)
	s.Cars = append(cars, r.Car.Clone())
	return s
}

func reduceUpdate(s State, r Result) State {
	if r.Status != StatusOK {
		return s
	}
	idx := indexOf(s.Cars, r.Car.ID)
	if idx < 0 {
		return s
	}
	cars := append([]model.Car(nil), s.Cars...)
	cars[idx] = r.Car.Clone()
	s.Cars = cars
	return s
}

func reduceRemove(s State, r Result) State {
	if r.Status != StatusOK {
		return s
	}
	if indexOf(s.Cars, r.ID) < 0 {
		return s
	}
	cars := make([]model.Car, 0, len(s.Cars))
	for _, c := range s.Cars {
		if c.ID != r.ID {
			cars = append(cars, c)
		}
	}
	s.Cars = cars
	s.Drafts = withoutDraft(s.Drafts, r.ID)
	return s
}

// NextID computes the candidate id for a create: the largest numeric id plus
// one. Missing or non-numeric ids count as 0.
func NextID(cars []model.Car) int64 {
	var maxID int64
	for _, c := range cars {
		if n := c.ID.Int(); n > maxID {
			maxID = n
		}
	}
	return maxID + 1
}

func indexOf(cars []model.Car, id model.ID) int {
	for i, c := range cars {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func cloneCars(cars []model.Car) []model.Car {
	out := make([]model.Car, len(cars))
	for i, c := range cars {
		out[i] = c.Clone()
	}
	return out
}
