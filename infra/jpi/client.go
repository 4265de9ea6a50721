package jpi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jpi-tools/schedule-export/config"
	"github.com/jpi-tools/schedule-export/core/model"
	"github.com/jpi-tools/schedule-export/infra/logger"
)

// ErrJPI is matched by every failure to obtain a usable response from JPI.
var ErrJPI = errors.New("jpi request failed")

// RequestError describes a failed call to one JPI endpoint.
type RequestError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("jpi %s: status %d: %v", e.Endpoint, e.Status, e.Err)
	}
	return fmt.Sprintf("jpi %s: %v", e.Endpoint, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

func (e *RequestError) Is(target error) bool { return target == ErrJPI }

// Client reads planning data from the JPI REST API.
type Client struct {
	baseURL    string
	apiKey     string
	http       *http.Client
	maxRetries int
	backoff    time.Duration
	log        logger.Logger
}

// NewClient creates a JPI client from its configuration.
func NewClient(cfg config.JPIConfig) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		http:       &http.Client{Timeout: cfg.Timeout()},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff(),
		log:        logger.New("jpi-client"),
	}
}

// FetchSettings returns the planning settings. Missing fields are reported
// as a model.ShapeError.
func (c *Client) FetchSettings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	if err := c.get(ctx, "settings", &s); err != nil {
		return model.Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// FetchJobs returns every job with its tasks.
func (c *Client) FetchJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.get(ctx, "jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// FetchResources returns every resource with groups and calendar exceptions.
func (c *Client) FetchResources(ctx context.Context) ([]model.Resource, error) {
	var res []model.Resource
	if err := c.get(ctx, "resources", &res); err != nil {
		return nil, err
	}
	return res, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	var body []byte
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			c.log.Warnf("retrying %s in %s (attempt %d): %v", endpoint, wait, attempt+1, err)
			select {
			case <-ctx.Done():
				return &RequestError{Endpoint: endpoint, Err: ctx.Err()}
			case <-time.After(wait):
			}
		}
		var retry bool
		body, retry, err = c.do(ctx, endpoint)
		if err == nil || !retry {
			break
		}
	}
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

// do performs one request. The boolean reports whether the failure is
// transient and worth retrying.
func (c *Client) do(ctx context.Context, endpoint string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, false, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, &RequestError{Endpoint: endpoint, Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode >= 500, &RequestError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Err:      fmt.Errorf("unable to fetch %s from JPI: %s", endpoint, strings.TrimSpace(string(body))),
		}
	}
	c.log.Debugf("fetched %s (%d bytes) in %s", endpoint, len(body), time.Since(start))
	return body, false, nil
}

// decode maps a body that is not the expected top-level JSON value to a
// request error, and a nested field of the wrong type to a shape error.
func decode(endpoint string, body []byte, out any) error {
	if string(bytes.TrimSpace(body)) == "null" {
		return &RequestError{Endpoint: endpoint, Err: errors.New("received empty response from JPI")}
	}
	err := json.Unmarshal(body, out)
	if err == nil {
		return nil
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return &model.ShapeError{
			Record: endpoint,
			Field:  typeErr.Field,
			Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		}
	}
	return &RequestError{Endpoint: endpoint, Err: fmt.Errorf("received invalid response from JPI: %w", err)}
}
