package configapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one round trip when ClientConfig.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// ClientConfig holds the HTTP client settings.
type ClientConfig struct {
	Endpoint string        // base URL, e.g. http://localhost:8080
	Timeout  time.Duration // per request
}

// HTTPClient talks to the configuration server over its JSON API.
type HTTPClient struct {
	cfg      ClientConfig
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the server at cfg.Endpoint.
func NewHTTPClient(cfg ClientConfig, observer Observer) *HTTPClient {
	if observer == nil {
		observer = NoopObserver{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

func (c *HTTPClient) Fetch(ctx context.Context, resource Resource, dst any) error {
	return c.call(ctx, http.MethodGet, resource, nil, dst)
}

func (c *HTTPClient) Replace(ctx context.Context, resource Resource, records any, dst any) error {
	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", resource, err)
	}
	return c.call(ctx, http.MethodPost, resource, body, dst)
}

func (c *HTTPClient) call(ctx context.Context, method string, resource Resource, body []byte, dst any) error {
	if _, err := ParseResource(string(resource)); err != nil {
		return err
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	err := c.doRequest(ctx, method, resource, body, dst)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			err = fmt.Errorf("%w: %s %s", ErrTimeout, method, resource)
		case isConnectionError(err):
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		case !errors.Is(err, ErrTransport):
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}

	c.observer.OnCallComplete(CallEvent{
		Method:    method,
		Resource:  resource,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return err
}

func (c *HTTPClient) doRequest(ctx context.Context, method string, resource Resource, body []byte, dst any) error {
	url := c.cfg.Endpoint + "/api/config/" + string(resource)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w %d: %s", ErrStatus, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if dst == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrStatus):
		return "STATUS"
	case errors.Is(err, ErrDecode):
		return "DECODE"
	case errors.Is(err, ErrUnknownResource):
		return "RESOURCE"
	default:
		return "UNKNOWN"
	}
}
