package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// CarSubmittedMsg is sent when the create form passed validation.
type CarSubmittedMsg struct {
	Draft NewCar
}

// Screen represents different app screens.
type Screen int

const (
	ScreenCars Screen = iota
	ScreenMap
	ScreenCarForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
	ModeInlineEdit
)
