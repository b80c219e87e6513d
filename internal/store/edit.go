package store

import (
	"carsync/internal/model"
)

// Draft buffers inline edits for one car until they are saved or discarded.
type Draft struct {
	Name *string
	// PriceSet marks a buffered price. With a nil Price it means the
	// price was cleared, which is not the same as a price of 0.
	PriceSet bool
	Price    *float64
}

// PriceCleared reports whether the buffered price is an explicit clear.
func (d Draft) PriceCleared() bool {
	return d.PriceSet && d.Price == nil
}

// Overlay returns car with the draft's overrides applied.
func Overlay(car model.Car, d Draft) model.Car {
	out := car.Clone()
	if d.Name != nil {
		out.Name = *d.Name
	}
	if d.PriceSet {
		out.Price = nil
		if d.Price != nil {
			out.Price = model.Float(*d.Price)
		}
	}
	return out
}

// BeginEdit opens the editor for id.
func BeginEdit(s State, id model.ID) State {
	s.Editing = true
	s.EditingID = id
	return s
}

// CancelEdit closes the editor and drops every buffered override.
func CancelEdit(s State) State {
	s.Editing = false
	s.EditingID = ""
	s.Drafts = nil
	return s
}

// ApplyInlineEdit buffers a field edit for the car with the given id. Edits are
// addressed by id and apply whether or not that id is the one being edited.
// Unknown ids are ignored.
func ApplyInlineEdit(s State, id model.ID, field model.Field, value string) (State, error) {
	if indexOf(s.Cars, id) < 0 {
		return s, nil
	}
	d := s.Drafts[id]
	switch field {
	case model.FieldName:
		name := value
		d.Name = &name
	case model.FieldPrice:
		price, err := model.ParsePriceInput(value)
		if err != nil {
			return s, err
		}
		d.PriceSet = true
		d.Price = price
	default:
		return s, &model.ValidationError{Field: string(field), Message: "field is not editable: " + string(field)}
	}
	s.Drafts = withDraft(s.Drafts, id, d)
	return s, nil
}

// SaveEdit closes the editor right away and returns the merged record to send.
// ok is false when id is not in the collection.
func SaveEdit(s State, id model.ID) (State, model.Car, bool) {
	idx := indexOf(s.Cars, id)
	var merged model.Car
	if idx >= 0 {
		merged = Overlay(s.Cars[idx], s.Drafts[id])
	}
	s.Drafts = withoutDraft(s.Drafts, id)
	s.Editing = false
	s.EditingID = ""
	return s, merged, idx >= 0
}

// Rows returns the display rows: drafts overlaid, then sorted.
func Rows(s State) []model.Car {
	overlaid := make([]model.Car, len(s.Cars))
	for i, c := range s.Cars {
		overlaid[i] = Overlay(c, s.Drafts[c.ID])
	}
	return Project(overlaid, s.SortKey, s.SortOrder)
}

func withDraft(drafts map[model.ID]Draft, id model.ID, d Draft) map[model.ID]Draft {
	out := make(map[model.ID]Draft, len(drafts)+1)
	for k, v := range drafts {
		out[k] = v
	}
	out[id] = d
	return out
}

func withoutDraft(drafts map[model.ID]Draft, id model.ID) map[model.ID]Draft {
	if _, ok := drafts[id]; !ok {
		return drafts
	}
	out := make(map[model.ID]Draft, len(drafts))
	for k, v := range drafts {
		if k != id {
			out[k] = v
		}
	}
	return out
}
