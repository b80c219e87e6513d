// Package server is a small REST backend for the car collection, for local
// development and demos.
package server

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"carsync/internal/db"
	"carsync/internal/model"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Handler serves /cars from a SQLite database.
type Handler struct {
	conn   *sql.DB
	logger *log.Entry
}

// Router returns the HTTP handler for the cars resource.
func Router(conn *sql.DB, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	h := &Handler{conn: conn, logger: logger.WithField("component", "server")}

	r := mux.NewRouter()
	r.HandleFunc("/cars", h.listCars).Methods(http.MethodGet)
	r.HandleFunc("/cars", h.createCar).Methods(http.MethodPost)
	r.HandleFunc("/cars/{id}", h.getCar).Methods(http.MethodGet)
	r.HandleFunc("/cars/{id}", h.updateCar).Methods(http.MethodPut)
	r.HandleFunc("/cars/{id}", h.deleteCar).Methods(http.MethodDelete)

	return h.logMiddleware(r)
}

func (h *Handler) listCars(w http.ResponseWriter, _ *http.Request) {
	cars, err := db.ListCars(h.conn)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, cars)
}

func (h *Handler) getCar(w http.ResponseWriter, r *http.Request) {
	car, err := db.GetCar(h.conn, model.ID(mux.Vars(r)["id"]))
	if err != nil {
		h.fail(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, car)
}

func (h *Handler) createCar(w http.ResponseWriter, r *http.Request) {
	var car model.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		http.Error(w, "invalid car payload", http.StatusBadRequest)
		return
	}
	if car.Name == "" || car.Model == "" {
		http.Error(w, "name and model are required", http.StatusBadRequest)
		return
	}

	stored, err := db.InsertCar(h.conn, car)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.logger.WithField("id", stored.ID).Info("car created")
	h.writeJSON(w, http.StatusCreated, stored)
}

func (h *Handler) updateCar(w http.ResponseWriter, r *http.Request) {
	var car model.Car
	if err := json.NewDecoder(r.Body).Decode(&car); err != nil {
		http.Error(w, "invalid car payload", http.StatusBadRequest)
		return
	}
	// The path decides which record changes.
	car.ID = model.ID(mux.Vars(r)["id"])

	stored, err := db.UpdateCar(h.conn, car)
	if err != nil {
		h.fail(w, err)
		return
	}
	h.logger.WithField("id", stored.ID).Info("car updated")
	h.writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) deleteCar(w http.ResponseWriter, r *http.Request) {
	id := model.ID(mux.Vars(r)["id"])
	if err := db.DeleteCar(h.conn, id); err != nil {
		h.fail(w, err)
		return
	}
	h.logger.WithField("id", id).Info("car deleted")
	h.writeJSON(w, http.StatusOK, struct{}{})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch errors.Cause(err) {
	case db.ErrNotFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case db.ErrConflict:
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.logger.WithError(err).Error("request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.WithError(err).Error("write response")
	}
}

func (h *Handler) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"requestID":  r.Header.Get("X-Request-ID"),
		}).Info("got a new request")
		next.ServeHTTP(w, r)
	})
}
