package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"carsync/internal/db"
	"carsync/internal/model"
	"carsync/internal/remote"
	"carsync/internal/store"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *httptest.Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "cars.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	logger := log.New()
	logger.SetOutput(io.Discard)
	ts := httptest.NewServer(Router(conn, log.NewEntry(logger)))
	t.Cleanup(ts.Close)
	return ts
}

func client(ts *httptest.Server) *remote.Client {
	return remote.NewClient(ts.URL, 5*time.Second, nil)
}

func volvo() model.NewCar {
	return model.NewCar{Name: "Volvo", Model: "XC60", Color: "black", Year: 2019, Price: 25000, Latitude: 59.93, Longitude: 30.31}
}

func TestStoreRoundTrip(t *testing.T) {
	ts := setup(t)
	ctx := context.Background()
	s := store.New(client(ts), nil)

	require.NoError(t, s.Do(ctx, s.FetchAll()))
	assert.Empty(t, s.Cars())

	require.NoError(t, s.Do(ctx, s.Create(volvo())))
	require.NoError(t, s.Do(ctx, s.Create(volvo())))
	cars := s.Cars()
	require.Len(t, cars, 2)
	assert.Equal(t, model.NewID(1), cars[0].ID)
	assert.Equal(t, model.NewID(2), cars[1].ID)

	require.NoError(t, s.ApplyInlineEdit(model.NewID(2), model.FieldPrice, ""))
	require.NoError(t, s.ApplyInlineEdit(model.NewID(2), model.FieldName, "Saab"))
	require.NoError(t, s.Do(ctx, s.SaveEdit(model.NewID(2))))

	require.NoError(t, s.Do(ctx, s.Remove(model.NewID(1))))

	fresh := store.New(client(ts), nil)
	require.NoError(t, fresh.Do(ctx, fresh.FetchAll()))
	cars = fresh.Cars()
	require.Len(t, cars, 1)
	assert.Equal(t, "Saab", cars[0].Name)
	assert.Nil(t, cars[0].Price)
}

func TestCreateConflict(t *testing.T) {
	ts := setup(t)
	ctx := context.Background()
	c := client(ts)

	_, err := c.Create(ctx, volvo().WithID(model.NewID(3)))
	require.NoError(t, err)
	_, err = c.Create(ctx, volvo().WithID(model.NewID(3)))

	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusConflict, statusErr.Code)
}

func TestMissingCarIs404(t *testing.T) {
	ts := setup(t)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req, err := http.NewRequest(method, ts.URL+"/cars/42", strings.NewReader(`{"name":"a","model":"b"}`))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, method)
	}
}

func TestCreateRejectsBadPayload(t *testing.T) {
	ts := setup(t)

	resp, err := http.Post(ts.URL+"/cars", "application/json", strings.NewReader(`{"name":""}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/cars", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateUsesPathID(t *testing.T) {
	ts := setup(t)
	ctx := context.Background()
	c := client(ts)

	created, err := c.Create(ctx, volvo().WithID(model.NewID(1)))
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/cars/1", strings.NewReader(`{"id":99,"name":"Saab","model":"900","year":1990}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cars, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.Equal(t, created.ID, cars[0].ID)
	assert.Equal(t, "Saab", cars[0].Name)
}
