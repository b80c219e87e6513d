package store

import (
	"context"
	"testing"

	"carsync/internal/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, cars ...model.Car) (*Store, *fakeRemote) {
	t.Helper()
	remote := &fakeRemote{cars: cars}
	s := New(remote, nil)
	require.NoError(t, s.Do(context.Background(), s.FetchAll()))
	remote.calls = nil
	return s, remote
}

func car(id int64, name string, year float64, price float64) model.Car {
	return model.Car{ID: model.NewID(id), Name: name, Model: "M", Year: year, Price: model.Float(price)}
}

func TestFetchAllLifecycle(t *testing.T) {
	remote := &fakeRemote{cars: []model.Car{car(1, "A", 2000, 10)}}
	s := New(remote, nil)

	task := s.FetchAll()
	assert.True(t, s.Loading())
	assert.Empty(t, s.Err())

	require.NoError(t, s.Apply(task(context.Background())))
	assert.False(t, s.Loading())
	assert.Len(t, s.Cars(), 1)
}

func TestFetchAllReplacesWholesale(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10), car(2, "B", 2001, 20))

	remote.cars = []model.Car{car(9, "Z", 1990, 1)}
	require.NoError(t, s.Do(context.Background(), s.FetchAll()))

	cars := s.Cars()
	require.Len(t, cars, 1)
	assert.Equal(t, model.ID("9"), cars[0].ID)
}

func TestFetchAllFailureKeepsCollection(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	before := s.Cars()

	remote.err = errors.New("network failure")
	task := s.FetchAll()
	assert.Empty(t, s.Err())

	err := s.Apply(task(context.Background()))
	assert.NoError(t, err, "fetch failures become state, not caller errors")
	assert.False(t, s.Loading())
	assert.Equal(t, "network failure", s.Err())
	assert.Equal(t, before, s.Cars())

	remote.err = nil
	require.NoError(t, s.Do(context.Background(), s.FetchAll()))
	assert.Empty(t, s.Err(), "a new fetch clears the error")
}

func TestFetchFailureWithoutMessage(t *testing.T) {
	s, remote := setup(t)
	remote.err = errors.New("")

	require.NoError(t, s.Do(context.Background(), s.FetchAll()))
	assert.Equal(t, "Failed to fetch", s.Err())
}

func TestCreateCandidateID(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10), car(3, "C", 2003, 30))

	task := s.Create(model.NewCar{Name: "A", Model: "B", Year: 2020, Price: 5, Latitude: 1, Longitude: 2})
	require.NoError(t, s.Apply(task(context.Background())))

	require.Len(t, remote.calls, 1)
	assert.Equal(t, "create", remote.calls[0].op)
	assert.Equal(t, model.ID("4"), remote.calls[0].car.ID)

	cars := s.Cars()
	require.Len(t, cars, 3)
	assert.Equal(t, model.ID("4"), cars[2].ID)
}

func TestCreateTreatsNonNumericIDsAsZero(t *testing.T) {
	s, remote := setup(t,
		model.Car{ID: "abc", Name: "A"},
		model.Car{ID: "", Name: "B"},
		model.Car{ID: "2", Name: "C"},
	)

	require.NoError(t, s.Do(context.Background(), s.Create(model.NewCar{Name: "N", Model: "M"})))
	assert.Equal(t, model.ID("3"), remote.calls[0].car.ID)
}

func TestCreateOnEmptyCollection(t *testing.T) {
	s, remote := setup(t)

	require.NoError(t, s.Do(context.Background(), s.Create(model.NewCar{Name: "N", Model: "M"})))
	assert.Equal(t, model.ID("1"), remote.calls[0].car.ID)
}

func TestCreateUsesServerRecord(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	remote.assignID = "srv-1"

	require.NoError(t, s.Do(context.Background(), s.Create(model.NewCar{Name: "N", Model: "M"})))

	cars := s.Cars()
	require.Len(t, cars, 2)
	assert.Equal(t, model.ID("srv-1"), cars[1].ID)
}

func TestCreateFailureIsReturnedNotLatched(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	remote.err = errors.New("boom")

	err := s.Do(context.Background(), s.Create(model.NewCar{Name: "N", Model: "M"}))
	assert.EqualError(t, err, "boom")
	assert.Empty(t, s.Err())
	assert.Len(t, s.Cars(), 1)
}

func TestUpdateReplacesOnlyMatchingEntry(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2000, 10), car(2, "B", 2001, 20), car(3, "C", 2002, 30))
	before := s.Cars()

	changed := before[1]
	changed.Name = "B2"
	require.NoError(t, s.Do(context.Background(), s.Update(changed)))

	after := s.Cars()
	require.Len(t, after, 3)
	assert.Equal(t, before[0], after[0])
	assert.Equal(t, "B2", after[1].Name)
	assert.Equal(t, before[2], after[2])
}

func TestUpdateOfRemovedIDIsNoop(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	stale := car(1, "A2", 2000, 10)
	task := s.Update(stale)

	require.NoError(t, s.Do(context.Background(), s.Remove(model.NewID(1))))
	remote.cars = append(remote.cars, stale)
	require.NoError(t, s.Apply(task(context.Background())))
	assert.Empty(t, s.Cars())
}

func TestUpdateFailureLeavesCollection(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	before := s.Cars()
	remote.err = errors.New("conflict")

	err := s.Do(context.Background(), s.Update(car(1, "X", 2000, 10)))
	assert.Error(t, err)
	assert.Equal(t, before, s.Cars())
	assert.Empty(t, s.Err())
}

func TestRemove(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2000, 10), car(2, "B", 2001, 20))

	require.NoError(t, s.Do(context.Background(), s.Remove(model.NewID(1))))
	cars := s.Cars()
	require.Len(t, cars, 1)
	assert.Equal(t, model.ID("2"), cars[0].ID)
}

func TestDoubleRemoveIsSilent(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10), car(2, "B", 2001, 20))
	remote.ignoreMissing = true

	first := s.Remove(model.NewID(1))
	second := s.Remove(model.NewID(1))
	require.NoError(t, s.Apply(first(context.Background())))
	require.NoError(t, s.Apply(second(context.Background())))
	assert.Len(t, s.Cars(), 1)
}

func TestRemoveFailureLeavesCollection(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))
	remote.err = errors.New("gone")

	assert.Error(t, s.Do(context.Background(), s.Remove(model.NewID(1))))
	assert.Len(t, s.Cars(), 1)
}

func TestRecreateKeepsID(t *testing.T) {
	s, remote := setup(t, car(5, "A", 2000, 10))
	deleted := s.Cars()[0]
	require.NoError(t, s.Do(context.Background(), s.Remove(deleted.ID)))

	require.NoError(t, s.Do(context.Background(), s.Recreate(deleted)))
	assert.Equal(t, model.ID("5"), remote.calls[1].car.ID)
	assert.Equal(t, []model.Car{deleted}, s.Cars())
}

func TestSelectSortScenario(t *testing.T) {
	s, _ := setup(t)
	assert.Equal(t, model.SortNone, s.SortKey())

	s.SelectSort(model.SortYear)
	assert.Equal(t, model.SortYear, s.SortKey())
	assert.Equal(t, model.SortAsc, s.SortOrder())

	s.SelectSort(model.SortYear)
	assert.Equal(t, model.SortDesc, s.SortOrder())

	s.SelectSort(model.SortPrice)
	assert.Equal(t, model.SortPrice, s.SortKey())
	assert.Equal(t, model.SortAsc, s.SortOrder())
}

func TestRowsDoNotMutateCanonical(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2003, 10), car(2, "B", 2001, 30), car(3, "C", 2002, 20))
	before := s.Cars()

	for i := 0; i < 5; i++ {
		s.SelectSort(model.SortYear)
		_ = s.Rows()
		s.SelectSort(model.SortPrice)
		_ = s.Rows()
	}
	assert.Equal(t, before, s.Cars())
}

func TestSaveEditSendsMergedRecord(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10), car(2, "B", 2001, 20))

	s.BeginEdit(model.NewID(2))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(2), model.FieldName, "B-edited"))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(2), model.FieldPrice, "99"))

	task := s.SaveEdit(model.NewID(2))
	_, editing := s.EditingID()
	assert.False(t, editing, "editor closes before the update resolves")
	_, hasDraft := s.Draft(model.NewID(2))
	assert.False(t, hasDraft)

	require.NotNil(t, task)
	require.NoError(t, s.Apply(task(context.Background())))

	require.Len(t, remote.calls, 1)
	sent := remote.calls[0].car
	assert.Equal(t, "B-edited", sent.Name)
	assert.Equal(t, 99.0, *sent.Price)
	assert.Equal(t, "B-edited", s.Cars()[1].Name)
}

func TestSaveEditWithClearedPrice(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))

	s.BeginEdit(model.NewID(1))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(1), model.FieldPrice, ""))
	require.NoError(t, s.Do(context.Background(), s.SaveEdit(model.NewID(1))))

	assert.Nil(t, remote.calls[0].car.Price)
	assert.Nil(t, s.Cars()[0].Price)
}

func TestSaveEditUnknownIDReturnsNil(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2000, 10))
	s.BeginEdit(model.NewID(42))

	assert.Nil(t, s.SaveEdit(model.NewID(42)))
	_, editing := s.EditingID()
	assert.False(t, editing)
}

func TestCancelEditMakesNoRemoteCall(t *testing.T) {
	s, remote := setup(t, car(1, "A", 2000, 10))

	s.BeginEdit(model.NewID(1))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(1), model.FieldName, "changed"))
	s.CancelEdit()

	assert.Empty(t, remote.calls)
	shown, ok := s.Display(model.NewID(1))
	require.True(t, ok)
	assert.Equal(t, "A", shown.Name)
}

func TestRemoveDropsDraft(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2000, 10))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(1), model.FieldName, "x"))

	require.NoError(t, s.Do(context.Background(), s.Remove(model.NewID(1))))
	_, ok := s.Draft(model.NewID(1))
	assert.False(t, ok)
}

func TestStateReturnsCopy(t *testing.T) {
	s, _ := setup(t, car(1, "A", 2000, 10))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(1), model.FieldName, "x"))

	st := s.State()
	st.Cars[0].Name = "mutated"
	delete(st.Drafts, model.NewID(1))

	assert.Equal(t, "A", s.Cars()[0].Name)
	_, ok := s.Draft(model.NewID(1))
	assert.True(t, ok)
}

func TestRestoreSortNormalisesOrder(t *testing.T) {
	s, _ := setup(t)
	s.RestoreSort(model.SortPrice, "sideways")
	assert.Equal(t, model.SortPrice, s.SortKey())
	assert.Equal(t, model.SortAsc, s.SortOrder())
}

type call struct {
	op  string
	car model.Car
	id  model.ID
}

type fakeRemote struct {
	cars          []model.Car
	calls         []call
	err           error
	assignID      model.ID
	ignoreMissing bool
}

func (f *fakeRemote) List(_ context.Context) ([]model.Car, error) {
	f.calls = append(f.calls, call{op: "list"})
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.Car(nil), f.cars...), nil
}

func (f *fakeRemote) Create(_ context.Context, c model.Car) (model.Car, error) {
	f.calls = append(f.calls, call{op: "create", car: c})
	if f.err != nil {
		return model.Car{}, f.err
	}
	if f.assignID != "" {
		c.ID = f.assignID
	}
	f.cars = append(f.cars, c)
	return c, nil
}

func (f *fakeRemote) Update(_ context.Context, c model.Car) (model.Car, error) {
	f.calls = append(f.calls, call{op: "update", car: c})
	if f.err != nil {
		return model.Car{}, f.err
	}
	for i := range f.cars {
		if f.cars[i].ID == c.ID {
			f.cars[i] = c
			return c, nil
		}
	}
	return model.Car{}, errors.Errorf("car %s not found", c.ID)
}

func (f *fakeRemote) Delete(_ context.Context, id model.ID) error {
	f.calls = append(f.calls, call{op: "delete", id: id})
	if f.err != nil {
		return f.err
	}
	for i := range f.cars {
		if f.cars[i].ID == id {
			f.cars = append(f.cars[:i], f.cars[i+1:]...)
			return nil
		}
	}
	if f.ignoreMissing {
		return nil
	}
	return errors.Errorf("car %s not found", id)
}
