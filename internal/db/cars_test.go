package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"carsync/internal/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(filepath.Join(t.TempDir(), "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sample(id model.ID) model.Car {
	return model.Car{
		ID:        id,
		Name:      "Volvo",
		Model:     "XC60",
		Year:      2019,
		Color:     "black",
		Price:     model.Float(25000),
		Latitude:  model.Float(59.93),
		Longitude: model.Float(30.31),
	}
}

func TestInsertKeepsProvidedID(t *testing.T) {
	conn := setup(t)

	stored, err := InsertCar(conn, sample(model.NewID(4)))
	require.NoError(t, err)
	assert.Equal(t, sample(model.NewID(4)), stored)
}

func TestInsertAssignsIDWhenMissing(t *testing.T) {
	conn := setup(t)

	_, err := InsertCar(conn, sample(model.NewID(7)))
	require.NoError(t, err)
	stored, err := InsertCar(conn, sample(""))
	require.NoError(t, err)
	assert.Equal(t, model.NewID(8), stored.ID)

	stored, err = InsertCar(conn, sample("abc"))
	require.NoError(t, err)
	assert.Equal(t, model.NewID(9), stored.ID)
}

func TestInsertConflict(t *testing.T) {
	conn := setup(t)

	_, err := InsertCar(conn, sample(model.NewID(1)))
	require.NoError(t, err)
	_, err = InsertCar(conn, sample(model.NewID(1)))
	assert.Equal(t, ErrConflict, errors.Cause(err))
}

func TestListCars(t *testing.T) {
	conn := setup(t)

	cars, err := ListCars(conn)
	require.NoError(t, err)
	assert.Empty(t, cars)
	assert.NotNil(t, cars)

	_, err = InsertCar(conn, sample(model.NewID(2)))
	require.NoError(t, err)
	_, err = InsertCar(conn, sample(model.NewID(1)))
	require.NoError(t, err)

	cars, err = ListCars(conn)
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, model.NewID(1), cars[0].ID)
	assert.Equal(t, model.NewID(2), cars[1].ID)
}

func TestUpdateCarClearsPrice(t *testing.T) {
	conn := setup(t)
	_, err := InsertCar(conn, sample(model.NewID(1)))
	require.NoError(t, err)

	changed := sample(model.NewID(1))
	changed.Name = "Saab"
	changed.Price = nil
	stored, err := UpdateCar(conn, changed)
	require.NoError(t, err)
	assert.Equal(t, "Saab", stored.Name)
	assert.Nil(t, stored.Price)

	got, err := GetCar(conn, model.NewID(1))
	require.NoError(t, err)
	assert.Equal(t, changed, got)
}

func TestNotFound(t *testing.T) {
	conn := setup(t)

	_, err := GetCar(conn, model.NewID(5))
	assert.Equal(t, ErrNotFound, err)
	_, err = UpdateCar(conn, sample(model.NewID(5)))
	assert.Equal(t, ErrNotFound, err)
	assert.Equal(t, ErrNotFound, DeleteCar(conn, model.NewID(5)))
	assert.Equal(t, ErrNotFound, DeleteCar(conn, "x"))
}

func TestDeleteCar(t *testing.T) {
	conn := setup(t)
	_, err := InsertCar(conn, sample(model.NewID(1)))
	require.NoError(t, err)

	require.NoError(t, DeleteCar(conn, model.NewID(1)))
	cars, err := ListCars(conn)
	require.NoError(t, err)
	assert.Empty(t, cars)
}

func TestSeedCarsOnlyWhenEmpty(t *testing.T) {
	conn := setup(t)

	n, err := SeedCars(conn, []model.Car{sample(""), sample("")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = SeedCars(conn, []model.Car{sample("")})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
