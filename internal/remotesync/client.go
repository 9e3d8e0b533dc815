// Package remotesync mirrors the full application state to a per-user record
// on a remote service, pushing after local changes and reconciling on login.
package remotesync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/adiwijaya-dev/shopdash-backend/internal/appstate"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/config"
	"github.com/adiwijaya-dev/shopdash-backend/pkg/logger"
)

// ErrNotConfigured is returned when sync is called without a base URL.
var ErrNotConfigured = errors.New("remotesync: client is not configured")

// Record is the remote copy of one user's state. The remote service treats it
// as an opaque document keyed by user; lastUpdated decides conflicts.
type Record struct {
	ID   string `json:"id"`
	User string `json:"user"`
	appstate.Snapshot
	LastUpdated time.Time `json:"lastUpdated"`
}

// APIError carries a non-2xx response from the sync service.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remotesync: service returned %s", e.Status)
}

// RecordClient fetches and stores remote state records.
type RecordClient interface {
	// FetchRecord returns the user's record, or nil when none exists yet.
	FetchRecord(ctx context.Context, user string) (*Record, error)
	// SaveRecord creates or replaces the user's record.
	SaveRecord(ctx context.Context, rec Record) error
}

// Client talks to the sync service over HTTP.
type Client struct {
	http    *resty.Client
	logg    *logger.Logger
	enabled bool
}

func NewClient(cfg config.RemoteSyncConfig, logg *logger.Logger) *Client {
	if !cfg.Enabled || cfg.BaseURL == "" {
		logg.Warn(context.Background(), "remote sync is disabled, state stays local")
		return &Client{logg: logg}
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.HTTPTimeout).
		SetRetryCount(1).
		SetRetryWaitTime(1 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err != nil || resp.StatusCode() == 429
		})
	if cfg.APIKey != "" {
		http.SetAuthScheme("Bearer").SetAuthToken(cfg.APIKey)
	}

	return &Client{http: http, logg: logg, enabled: true}
}

// Enabled reports whether the client can reach a sync service.
func (c *Client) Enabled() bool { return c.enabled }

func (c *Client) FetchRecord(ctx context.Context, user string) (*Record, error) {
	if !c.enabled {
		return nil, ErrNotConfigured
	}

	var rec Record
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&rec).
		Get("/records/" + url.PathEscape(user))
	if err != nil {
		return nil, fmt.Errorf("remotesync: fetching record: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}
	return &rec, nil
}

func (c *Client) SaveRecord(ctx context.Context, rec Record) error {
	if !c.enabled {
		return ErrNotConfigured
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(rec).
		Put("/records/" + url.PathEscape(rec.User))
	if err != nil {
		return fmt.Errorf("remotesync: saving record: %w", err)
	}
	if resp.IsError() {
		return &APIError{
			StatusCode: resp.StatusCode(),
			Status:     resp.Status(),
			Body:       resp.String(),
		}
	}
	return nil
}
