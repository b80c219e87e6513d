package store

import (
	"context"

	"carsync/internal/model"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Remote is the REST resource a Store synchronises with.
type Remote interface {
	List(ctx context.Context) ([]model.Car, error)
	Create(ctx context.Context, car model.Car) (model.Car, error)
	Update(ctx context.Context, car model.Car) (model.Car, error)
	Delete(ctx context.Context, id model.ID) error
}

// Store owns the canonical car collection and mediates every change to it.
//
// Intents that need the remote service update state synchronously, then return
// a Task. The caller runs the Task wherever it likes and passes the Result to
// Apply. A Store is not safe for concurrent use: Apply and the intent methods
// must be called from one goroutine, as the Bubble Tea update loop does.
type Store struct {
	remote Remote
	state  State
	logger *log.Entry
}

// New creates an empty store backed by remote.
func New(remote Remote, logger *log.Entry) *Store {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Store{
		remote: remote,
		state:  InitialState(),
		logger: logger.WithField("component", "store"),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	st := s.state
	st.Cars = cloneCars(s.state.Cars)
	if s.state.Drafts != nil {
		st.Drafts = make(map[model.ID]Draft, len(s.state.Drafts))
		for k, v := range s.state.Drafts {
			st.Drafts[k] = v
		}
	}
	return st
}

// Cars returns a copy of the canonical collection in canonical order.
func (s *Store) Cars() []model.Car {
	return cloneCars(s.state.Cars)
}

func (s *Store) Loading() bool {
	return s.state.Loading
}

// Err returns the message of the last failed fetch, or "".
func (s *Store) Err() string {
	return s.state.Err
}

func (s *Store) SortKey() model.SortKey {
	return s.state.SortKey
}

func (s *Store) SortOrder() model.SortOrder {
	return s.state.SortOrder
}

// EditingID returns the id open in the editor, if any.
func (s *Store) EditingID() (model.ID, bool) {
	return s.state.EditingID, s.state.Editing
}

// Rows returns the sorted display rows with buffered edits applied.
func (s *Store) Rows() []model.Car {
	return Rows(s.state)
}

// Display returns the car with its buffered edits applied.
func (s *Store) Display(id model.ID) (model.Car, bool) {
	idx := indexOf(s.state.Cars, id)
	if idx < 0 {
		return model.Car{}, false
	}
	return Overlay(s.state.Cars[idx], s.state.Drafts[id]), true
}

// Draft returns the buffered edits for id.
func (s *Store) Draft(id model.ID) (Draft, bool) {
	d, ok := s.state.Drafts[id]
	return d, ok
}

// FetchAll marks the collection as loading and returns the task that fetches it.
func (s *Store) FetchAll() Task {
	s.state = Reduce(s.state, pending(OpFetch))
	remote := s.remote
	return func(ctx context.Context) Result {
		cars, err := remote.List(ctx)
		if err != nil {
			return failed(OpFetch, "", err)
		}
		return Result{Op: OpFetch, Status: StatusOK, Cars: cars}
	}
}

// Create returns the task that posts draft under a candidate id. The id only
// shapes the request; the server's response decides the stored id.
func (s *Store) Create(draft model.NewCar) Task {
	candidate := model.NewID(NextID(s.state.Cars))
	return s.post(draft.WithID(candidate))
}

// Recreate posts an existing record again, keeping its id. Undo of a delete
// goes through here.
func (s *Store) Recreate(car model.Car) Task {
	return s.post(car.Clone())
}

func (s *Store) post(car model.Car) Task {
	remote := s.remote
	return func(ctx context.Context) Result {
		created, err := remote.Create(ctx, car)
		if err != nil {
			return failed(OpCreate, car.ID, err)
		}
		return Result{Op: OpCreate, Status: StatusOK, Car: created}
	}
}

// Update returns the task that replaces car on the server.
func (s *Store) Update(car model.Car) Task {
	remote := s.remote
	car = car.Clone()
	return func(ctx context.Context) Result {
		updated, err := remote.Update(ctx, car)
		if err != nil {
			return failed(OpUpdate, car.ID, err)
		}
		return Result{Op: OpUpdate, Status: StatusOK, Car: updated}
	}
}

// Remove returns the task that deletes id on the server.
func (s *Store) Remove(id model.ID) Task {
	remote := s.remote
	return func(ctx context.Context) Result {
		if err := remote.Delete(ctx, id); err != nil {
			return failed(OpRemove, id, err)
		}
		return Result{Op: OpRemove, Status: StatusOK, ID: id}
	}
}

// Apply reduces a resolved task into the state. A failed create, update or
// remove leaves the collection unchanged and its error is returned to the
// caller. Fetch failures are recorded in Err instead.
func (s *Store) Apply(r Result) error {
	s.state = Reduce(s.state, r)

	entry := s.logger.WithField("op", r.Op.String())
	if r.ID != "" {
		entry = entry.WithField("id", r.ID.String())
	}
	switch r.Status {
	case StatusOK:
		entry.WithField("count", len(s.state.Cars)).Debug("operation applied")
	case StatusFailed:
		entry.WithError(r.Err).Warn("operation failed")
		if r.Op != OpFetch {
			if r.Err == nil {
				return errors.Errorf("%s failed", r.Op)
			}
			return r.Err
		}
	}
	return nil
}

// Do runs task in the calling goroutine and applies its result.
func (s *Store) Do(ctx context.Context, task Task) error {
	if task == nil {
		return nil
	}
	return s.Apply(task(ctx))
}

// SelectSort handles a sort-by intent.
func (s *Store) SelectSort(key model.SortKey) {
	s.state = SelectSort(s.state, key)
}

// RestoreSort sets the sort selection directly, e.g. from saved preferences.
func (s *Store) RestoreSort(key model.SortKey, order model.SortOrder) {
	if order != model.SortDesc {
		order = model.SortAsc
	}
	s.state.SortKey = key
	s.state.SortOrder = order
}

// BeginEdit opens the inline editor for id.
func (s *Store) BeginEdit(id model.ID) {
	s.state = BeginEdit(s.state, id)
}

// ApplyInlineEdit buffers an edit of one field of the car with the given id.
func (s *Store) ApplyInlineEdit(id model.ID, field model.Field, value string) error {
	next, err := ApplyInlineEdit(s.state, id, field, value)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// SaveEdit closes the editor and returns the task that persists the merged
// record. The task is nil when id is not in the collection.
func (s *Store) SaveEdit(id model.ID) Task {
	next, merged, ok := SaveEdit(s.state, id)
	s.state = next
	if !ok {
		return nil
	}
	return s.Update(merged)
}

// CancelEdit closes the editor and discards buffered edits.
func (s *Store) CancelEdit() {
	s.state = CancelEdit(s.state)
}
