// Package fetch issues one GET per call against services that answer with
// the {success, data, message} envelope. No retry, no cache.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

var (
	ErrOffline    = errors.New("no internet connection")
	ErrSuperseded = errors.New("request superseded")
)

// Error is a failed response: non-2xx status or success=false.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %s", http.StatusText(e.Status))
	}
	return e.Message
}

// NotFound reports whether err is a 404 from the remote side.
func NotFound(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Status == http.StatusNotFound
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type Client struct {
	HTTP *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// Get fetches url and decodes the envelope's data into out (out may be nil).
func (c *Client) Get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	res, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return fmt.Errorf("%w: %v", ErrOffline, err)
		}
		return err
	}
	defer res.Body.Close()

	var env envelope
	decErr := json.NewDecoder(res.Body).Decode(&env)
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &Error{Status: res.StatusCode, Message: env.Message}
	}
	if decErr != nil {
		return fmt.Errorf("decode response: %w", decErr)
	}
	if !env.Success {
		return &Error{Status: res.StatusCode, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
