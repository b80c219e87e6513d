package ui

import (
	"fmt"

	"carsync/internal/model"
	"carsync/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// origin tells the result handler which stack a finished action belongs on.
type origin int

const (
	originUser origin = iota
	originUndo
	originRedo
)

// undoAction pairs the store operations that reverse and replay a change.
// Both run through the same store intents as the change itself.
type undoAction struct {
	label string
	undo  func() store.Task
	redo  func() store.Task
	// undone sees the result of a successful undo, e.g. the id the server
	// gave a recreated car.
	undone func(store.Result)
}

func (m *Model) pushUndoAction(action undoAction) {
	m.undoStack = append(m.undoStack, action)
	m.redoStack = nil
}

func (m *Model) undoCmd() tea.Cmd {
	if len(m.undoStack) == 0 {
		return nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	return m.run(action.undo(), &action, originUndo)
}

func (m *Model) redoCmd() tea.Cmd {
	if len(m.redoStack) == 0 {
		return nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	return m.run(action.redo(), &action, originRedo)
}

func (m *Model) buildDeleteAction(deleted model.Car) undoAction {
	s := m.store
	car := deleted.Clone()
	return undoAction{
		label: fmt.Sprintf("car %s deleted", deleted.ID),
		undo: func() store.Task {
			return s.Recreate(car)
		},
		redo: func() store.Task {
			return s.Remove(car.ID)
		},
		undone: func(r store.Result) {
			if r.Car.ID != "" {
				car.ID = r.Car.ID
			}
		},
	}
}

func (m *Model) buildUpdateAction(before, after model.Car) undoAction {
	s := m.store
	return undoAction{
		label: fmt.Sprintf("car %s updated", after.ID),
		undo: func() store.Task {
			return s.Update(before)
		},
		redo: func() store.Task {
			return s.Update(after)
		},
	}
}

// settleAction moves a finished action onto the right stack. A failed undo or
// redo goes back where it came from so it can be retried.
func (m *Model) settleAction(action *undoAction, o origin, r store.Result, err error) {
	if action == nil {
		return
	}
	if o == originUndo && err == nil && action.undone != nil {
		action.undone(r)
	}
	switch {
	case o == originUser && err == nil:
		m.pushUndoAction(*action)
	case o == originUndo && err == nil:
		m.redoStack = append(m.redoStack, *action)
		m.info = "Undid: " + action.label
	case o == originRedo && err == nil:
		m.undoStack = append(m.undoStack, *action)
		m.info = "Redid: " + action.label
	case o == originUndo:
		m.undoStack = append(m.undoStack, *action)
		m.opErr = fmt.Sprintf("undo failed: %v", err)
	case o == originRedo:
		m.redoStack = append(m.redoStack, *action)
		m.opErr = fmt.Sprintf("redo failed: %v", err)
	}
}
