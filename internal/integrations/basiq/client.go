package basiq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/bank-onboarding/internal/config"
	"github.com/sirupsen/logrus"
)

const (
	apiVersion = "3.0"
	tokenScope = "SERVER_ACCESS"

	// ConnectURL is the host serving hosted auth links.
	ConnectURL = "https://connect.basiq.io"
)

// Client handles integration with the Basiq open-banking API.
// Each instance owns its own access token cache.
type Client struct {
	url         string
	apiKey      string
	environment string
	client      *http.Client
	log         *logrus.Logger
	now         func() time.Time

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// Response is a raw aggregator response
type Response struct {
	Method     string
	Endpoint   string
	StatusCode int
	Body       []byte
}

// OK reports whether the response carries a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns a *RequestError for non-2xx responses and nil otherwise
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &RequestError{
		Method:     r.Method,
		Endpoint:   r.Endpoint,
		StatusCode: r.StatusCode,
		Payload:    json.RawMessage(r.Body),
	}
}

// NewClient initializes a new Basiq client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	timeout := cfg.BasiqTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url:         strings.TrimRight(cfg.BasiqURL, "/"),
		apiKey:      cfg.BasiqAPIKey,
		environment: cfg.BasiqEnv,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
		now: time.Now,
	}
}

// Environment returns the configured target environment
func (c *Client) Environment() string {
	return c.environment
}

// Do sends an authenticated request and returns the response without
// interpreting its status code.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("basiq-version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
	})
	entry.WithField("body", body).Debug("Basiq request")

	resp, err := c.client.Do(req)
	if err != nil {
		entry.WithError(err).Error("Basiq request failed")
		return nil, fmt.Errorf("request %s %s failed: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"response": string(raw),
	}).Debug("Basiq response")

	return &Response{Method: method, Endpoint: endpoint, StatusCode: resp.StatusCode, Body: raw}, nil
}

// Request sends an authenticated request and decodes a successful JSON
// response into out. Non-2xx responses return a *RequestError.
func (c *Client) Request(ctx context.Context, method, endpoint string, body, out any) error {
	resp, err := c.Do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}
