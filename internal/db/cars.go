package db

import (
	"database/sql"
	"strconv"

	"carsync/internal/model"

	"github.com/pkg/errors"
)

const carColumns = `id, name, model, year, color, price, latitude, longitude`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCar(row scanner) (model.Car, error) {
	var c model.Car
	var id int64
	var price, latitude, longitude sql.NullFloat64
	if err := row.Scan(&id, &c.Name, &c.Model, &c.Year, &c.Color, &price, &latitude, &longitude); err != nil {
		return model.Car{}, err
	}
	c.ID = model.NewID(id)
	if price.Valid {
		c.Price = model.Float(price.Float64)
	}
	if latitude.Valid {
		c.Latitude = model.Float(latitude.Float64)
	}
	if longitude.Valid {
		c.Longitude = model.Float(longitude.Float64)
	}
	return c, nil
}

func nullable(v *float64) interface{} {
	if !model.IsFinite(v) {
		return nil
	}
	return *v
}

// rowID returns the integer key for id, or false when id is not a plain integer.
func rowID(id model.ID) (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ListCars retrieves all cars in insertion order.
func ListCars(db *sql.DB) ([]model.Car, error) {
	rows, err := db.Query(`SELECT ` + carColumns + ` FROM cars ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cars")
	}
	defer rows.Close()

	results := []model.Car{}
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan car row")
		}
		results = append(results, c)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating car rows")
	}

	return results, nil
}

// GetCar retrieves a single car by ID.
func GetCar(db *sql.DB, id model.ID) (model.Car, error) {
	n, ok := rowID(id)
	if !ok {
		return model.Car{}, ErrNotFound
	}
	c, err := scanCar(db.QueryRow(`SELECT `+carColumns+` FROM cars WHERE id = ?`, n))
	if err == sql.ErrNoRows {
		return model.Car{}, ErrNotFound
	}
	if err != nil {
		return model.Car{}, errors.Wrapf(err, "failed to get car %s", id)
	}
	return c, nil
}

// InsertCar stores a new car. A positive integer id on c is kept; any other id
// is replaced by the next free one. The stored record is returned.
func InsertCar(db *sql.DB, c model.Car) (model.Car, error) {
	tx, err := db.Begin()
	if err != nil {
		return model.Car{}, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	var id interface{}
	if n, ok := rowID(c.ID); ok {
		var exists int
		err := tx.QueryRow(`SELECT COUNT(*) FROM cars WHERE id = ?`, n).Scan(&exists)
		if err != nil {
			return model.Car{}, errors.Wrap(err, "failed to check car id")
		}
		if exists > 0 {
			return model.Car{}, errors.Wrapf(ErrConflict, "id %d", n)
		}
		id = n
	}

	result, err := tx.Exec(
		`INSERT INTO cars (id, name, model, year, color, price, latitude, longitude) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Model, c.Year, c.Color, nullable(c.Price), nullable(c.Latitude), nullable(c.Longitude),
	)
	if err != nil {
		return model.Car{}, errors.Wrap(err, "failed to insert car")
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return model.Car{}, errors.Wrap(err, "failed to get last insert id")
	}

	stored, err := scanCar(tx.QueryRow(`SELECT `+carColumns+` FROM cars WHERE id = ?`, newID))
	if err != nil {
		return model.Car{}, errors.Wrap(err, "failed to read inserted car")
	}
	if err := tx.Commit(); err != nil {
		return model.Car{}, errors.Wrap(err, "failed to commit car")
	}
	return stored, nil
}

// UpdateCar replaces every field of the car with c.ID.
func UpdateCar(db *sql.DB, c model.Car) (model.Car, error) {
	n, ok := rowID(c.ID)
	if !ok {
		return model.Car{}, ErrNotFound
	}
	result, err := db.Exec(
		`UPDATE cars SET name = ?, model = ?, year = ?, color = ?, price = ?, latitude = ?, longitude = ? WHERE id = ?`,
		c.Name, c.Model, c.Year, c.Color, nullable(c.Price), nullable(c.Latitude), nullable(c.Longitude), n,
	)
	if err != nil {
		return model.Car{}, errors.Wrapf(err, "failed to update car %d", n)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return model.Car{}, ErrNotFound
	}
	return GetCar(db, c.ID)
}

// DeleteCar removes the car with the given id.
func DeleteCar(db *sql.DB, id model.ID) error {
	n, ok := rowID(id)
	if !ok {
		return ErrNotFound
	}
	result, err := db.Exec(`DELETE FROM cars WHERE id = ?`, n)
	if err != nil {
		return errors.Wrapf(err, "failed to delete car %d", n)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SeedCars inserts cars when the table is empty. It returns the number inserted.
func SeedCars(db *sql.DB, cars []model.Car) (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM cars`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count cars")
	}
	if count > 0 {
		return 0, nil
	}
	for _, c := range cars {
		if _, err := InsertCar(db, c); err != nil {
			return 0, err
		}
	}
	return len(cars), nil
}
