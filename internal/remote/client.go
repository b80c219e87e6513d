package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"carsync/internal/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const carsPath = "/cars"

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to the cars REST resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Entry
}

// NewClient creates a client for the service rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *log.Entry) *Client {
	if logger == nil {
		logger = log.NewEntry(log.StandardLogger())
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.WithField("component", "remote"),
	}
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches the whole collection.
func (c *Client) List(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := c.do(ctx, http.MethodGet, carsPath, nil, &cars); err != nil {
		return nil, errors.Wrap(err, "list cars")
	}
	if cars == nil {
		cars = []model.Car{}
	}
	return cars, nil
}

// Create posts a car, including its candidate id, and returns the server's form.
func (c *Client) Create(ctx context.Context, car model.Car) (model.Car, error) {
	var created model.Car
	if err := c.do(ctx, http.MethodPost, carsPath, car, &created); err != nil {
		return model.Car{}, errors.Wrap(err, "create car")
	}
	return created, nil
}

// Update replaces the car stored under car.ID.
func (c *Client) Update(ctx context.Context, car model.Car) (model.Car, error) {
	var updated model.Car
	if err := c.do(ctx, http.MethodPut, carPath(car.ID), car, &updated); err != nil {
		return model.Car{}, errors.Wrapf(err, "update car %s", car.ID)
	}
	return updated, nil
}

// Delete removes the car with the given id. The response body is ignored.
func (c *Client) Delete(ctx context.Context, id model.ID) error {
	if err := c.do(ctx, http.MethodDelete, carPath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "delete car %s", id)
	}
	return nil
}

func carPath(id model.ID) string {
	return carsPath + "/" + url.PathEscape(id.String())
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	reqURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return errors.Wrap(err, "request creation failed")
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.logger.WithFields(log.Fields{
		"method":    method,
		"url":       reqURL,
		"requestId": requestID,
	})
	started := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		entry.WithError(err).Warn("request failed")
		return errors.Wrap(err, "network error")
	}
	defer resp.Body.Close()

	entry = entry.WithFields(log.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(started).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		entry.Warn("unexpected status")
		return &StatusError{
			Method: method,
			URL:    reqURL,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(excerpt)),
		}
	}
	entry.Debug("request completed")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "JSON decode error")
	}
	return nil
}
