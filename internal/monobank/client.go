package monobank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

var (
	// ErrRateLimited is returned on HTTP 429. The caller is expected to
	// back off and retry; the provider allows one statement request per
	// minute per token.
	ErrRateLimited = errors.New("monobank: rate limited")

	// ErrUnauthorized is returned when the token is missing, expired or
	// revoked. Not retryable; the user must re-issue the token.
	ErrUnauthorized = errors.New("monobank: invalid token")
)

// StatusError carries an unexpected provider status code and body snippet.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("monobank: unexpected status %d: %s", e.Code, e.Body)
}

// Retryable reports whether an error from this client is worth retrying with
// backoff: rate limits, provider 5xx responses, and transport failures
// (timeouts included). Token errors are permanent.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, ErrUnauthorized) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	// Anything else is a transport-level failure.
	return true
}

// Client calls the Monobank personal API with a per-request token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against the given base URL. Every request
// carries the timeout; there is no client-side state beyond the connection
// pool.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ClientInfo fetches the user's accounts and jars.
func (c *Client) ClientInfo(ctx context.Context, token string) (*ClientInfo, error) {
	var info ClientInfo
	if err := c.get(ctx, token, "/personal/client-info", &info); err != nil {
		return nil, fmt.Errorf("ClientInfo: %w", err)
	}
	return &info, nil
}

// Statement fetches statement items for one account in [from, to] (unix
// seconds, inclusive). Items are returned sorted ascending by time, ties by
// id, so callers can treat the response as a forward page. The provider caps
// a response at 500 items and a window at 31 days.
func (c *Client) Statement(ctx context.Context, token, accountID string, from, to int64) ([]StatementItem, error) {
	path := fmt.Sprintf("/personal/statement/%s/%d/%d", accountID, from, to)

	var items []StatementItem
	if err := c.get(ctx, token, path, &items); err != nil {
		return nil, fmt.Errorf("Statement: account %s: %w", accountID, err)
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Time != items[j].Time {
			return items[i].Time < items[j].Time
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (c *Client) get(ctx context.Context, token, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("X-Token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling provider: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
