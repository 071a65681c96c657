package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/avramovs/clientbook/internal/models"
)

// HTTPClient talks JSON over HTTP to the records service. The session token
// is attached to every request as a bearer header; SetSessionToken may be
// called from any goroutine.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu    sync.RWMutex
	token string
}

// NewHTTPClient builds an HTTPClient for the given base URL, e.g.
// "http://127.0.0.1:8080". The passed http.Client controls transport
// timeouts; nil falls back to http.DefaultClient.
func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), hc: hc}
}

func (c *HTTPClient) SetSessionToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *HTTPClient) sessionToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// do performs one exchange. A non-nil in is JSON-encoded as the body;
// a non-nil out receives the decoded response body. Statuses outside 2xx
// are mapped to sentinel errors; credsCall marks calls on which 400/401
// mean rejected credentials rather than a broken session.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any, credsCall bool) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.sessionToken(); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		// Timeouts, refused connections, DNS failures: all one bucket
		// for the caller.
		return ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return c.mapStatus(resp.StatusCode, credsCall)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// mapStatus translates an HTTP status into the sentinel taxonomy.
func (c *HTTPClient) mapStatus(status int, credsCall bool) error {
	switch {
	case credsCall && (status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusConflict):
		return ErrAuth
	case status == http.StatusUnauthorized:
		return ErrUnauthenticated
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrServer
	}
}

func (c *HTTPClient) ListRecords(ctx context.Context, query string) ([]models.Record, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	var records []models.Record
	if err := c.do(ctx, http.MethodGet, "/posts", q, nil, &records, false); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *HTTPClient) GetRecord(ctx context.Context, id string) (*models.Record, error) {
	var record models.Record
	if err := c.do(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil, nil, &record, false); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) UpdateRecord(ctx context.Context, id string, fields models.RecordFields) (*models.Record, error) {
	var record models.Record
	if err := c.do(ctx, http.MethodPatch, "/posts/"+url.PathEscape(id), nil, fields, &record, false); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *HTTPClient) DeleteRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil, nil, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, creds, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Register(ctx context.Context, profile models.Profile) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, profile, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	var ident models.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &ident, false); err != nil {
		return nil, err
	}
	return &ident, nil
}

// Logout invalidates the given session token. The token travels with this
// one request explicitly instead of reading the installed one: by the time
// a deferred logout runs, the installed slot may already belong to a newer
// session.
func (c *HTTPClient) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapStatus(resp.StatusCode, false)
	}
	return nil
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}
