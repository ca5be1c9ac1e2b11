// Package strapi is a small client for the Strapi REST API that backs the
// blog. It knows the request conventions (bearer auth, JSON bodies, the
// {data, meta} envelope) but nothing about the site's view models.
package strapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultBaseURL is used when no CMS address is configured.
const DefaultBaseURL = "http://localhost:1337"

// Config holds everything needed to reach the CMS.
type Config struct {
	BaseURL    string
	APIToken   string
	HTTPClient *http.Client
}

// Client issues requests against a single Strapi instance.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// RequestOptions are merged over the client defaults for a single call.
type RequestOptions struct {
	Method string
	Header http.Header
	Query  url.Values
	Body   any
}

func NewClient(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: base, token: cfg.APIToken, http: hc}
}

// BaseURL returns the CMS origin used to absolutize media URLs.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request performs a call to <BaseURL>/api<endpoint> and decodes the JSON
// response into out. A nil out or an empty body skips decoding. Any status
// outside 2xx is reported as *Error.
func (c *Client) Request(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	if opts == nil {
		opts = &RequestOptions{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := c.endpointURL(endpoint, opts.Query)
	if err != nil {
		return err
	}

	var body io.Reader
	if opts.Body != nil {
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encoding request body for %s: %w", endpoint, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, values := range opts.Header {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return newError(res)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decoding response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) endpointURL(endpoint string, query url.Values) (string, error) {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	u, err := url.Parse(c.baseURL + "/api" + endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if len(query) > 0 {
		merged := u.Query()
		for key, values := range query {
			for _, v := range values {
				merged.Add(key, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u.String(), nil
}

// Response is the envelope every Strapi content endpoint answers with.
type Response[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

// Find issues a GET against a collection endpoint.
func Find[T any](ctx context.Context, c *Client, endpoint string, q *Query) (Response[T], error) {
	var res Response[T]
	err := c.Request(ctx, endpoint, &RequestOptions{Query: q.Values()}, &res)
	return res, err
}

// Create POSTs {"data": data} to a collection endpoint.
func Create[T any](ctx context.Context, c *Client, endpoint string, data any) (Response[T], error) {
	var res Response[T]
	err := c.Request(ctx, endpoint, &RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]any{"data": data},
	}, &res)
	return res, err
}

// Update PUTs {"data": data} to a single entry endpoint.
func Update[T any](ctx context.Context, c *Client, endpoint string, data any) (Response[T], error) {
	var res Response[T]
	err := c.Request(ctx, endpoint, &RequestOptions{
		Method: http.MethodPut,
		Body:   map[string]any{"data": data},
	}, &res)
	return res, err
}

// Delete issues a DELETE against a single entry endpoint.
func Delete(ctx context.Context, c *Client, endpoint string, q *Query) error {
	return c.Request(ctx, endpoint, &RequestOptions{
		Method: http.MethodDelete,
		Query:  q.Values(),
	}, nil)
}
