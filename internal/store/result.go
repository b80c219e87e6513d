package store

import (
	"context"

	"carsync/internal/model"
)

// Op names the remote operation a Result belongs to.
type Op int

const (
	OpFetch Op = iota
	OpCreate
	OpUpdate
	OpRemove
)

func (o Op) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Status is the lifecycle phase of a remote operation.
type Status int

const (
	StatusPending Status = iota
	StatusOK
	StatusFailed
)

// Result is the tagged outcome of one remote operation. Which payload field is
// meaningful depends on Op: Cars for fetch, Car for create and update, ID for
// remove.
type Result struct {
	Op     Op
	Status Status
	Cars   []model.Car
	Car    model.Car
	ID     model.ID
	Err    error
}

// Task performs the remote half of an intent. It must not touch store state;
// its Result is handed back to Store.Apply.
type Task func(ctx context.Context) Result

func pending(op Op) Result {
	return Result{Op: op, Status: StatusPending}
}

func failed(op Op, id model.ID, err error) Result {
	return Result{Op: op, Status: StatusFailed, ID: id, Err: err}
}
