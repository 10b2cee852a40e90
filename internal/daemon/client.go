package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/meshroi/internal/costmodel"
	"github.com/theirongolddev/meshroi/internal/report"
	"github.com/theirongolddev/meshroi/internal/scenario"
)

const (
	requestTimeout = 5 * time.Second
	maxBodySize    = 4 << 20
)

var (
	// ErrNotFound is returned when the daemon has no such scenario.
	ErrNotFound = errors.New("daemon: scenario not found")
	// ErrStoreDisabled is returned when the daemon runs without a scenario store.
	ErrStoreDisabled = errors.New("daemon: scenario store disabled")
)

// Client talks to a running daemon.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the daemon listening on addr
// ("host:port" or a full http URL).
func NewClient(addr string) *Client {
	addr = strings.TrimRight(strings.TrimSpace(addr), "/")
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return &Client{baseURL: addr, http: &http.Client{}}
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	err := c.getJSON(ctx, "/v1/status", &st)
	return st, err
}

// Projection asks the daemon to project p over horizon months. A zero
// horizon uses the daemon default.
func (c *Client) Projection(ctx context.Context, p costmodel.Params, horizon int) (report.Summary, error) {
	q := url.Values{}
	for _, f := range costmodel.Fields() {
		q.Set(f.Key, strconv.FormatFloat(f.Get(p), 'f', -1, 64))
	}
	if horizon > 0 {
		q.Set("horizon", strconv.Itoa(horizon))
	}

	var sum report.Summary
	err := c.getJSON(ctx, "/v1/projection?"+q.Encode(), &sum)
	return sum, err
}

// ScenarioProjection projects a scenario saved in the daemon's store.
func (c *Client) ScenarioProjection(ctx context.Context, name string, horizon int) (report.Summary, error) {
	path := "/v1/scenarios/" + url.PathEscape(name) + "/projection"
	if horizon > 0 {
		path += "?horizon=" + strconv.Itoa(horizon)
	}
	var sum report.Summary
	err := c.getJSON(ctx, path, &sum)
	return sum, err
}

// Scenarios lists the daemon's saved scenarios.
func (c *Client) Scenarios(ctx context.Context) ([]scenario.Scenario, error) {
	var list []scenario.Scenario
	err := c.getJSON(ctx, "/v1/scenarios", &list)
	return list, err
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("daemon: parsing %s: %w", path, err)
	}
	return nil
}

// get performs a GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("daemon: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("daemon: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusServiceUnavailable:
		return nil, ErrStoreDisabled
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Error != "" {
			return nil, fmt.Errorf("daemon: HTTP %d: %s", resp.StatusCode, eb.Error)
		}
		return nil, fmt.Errorf("daemon: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
