// Package httpclient holds the shared HTTP client used for Replicate calls.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/oukeidos/aitag/internal/version"
)

const (
	// DefaultTimeout bounds a single request. Replicate holds a "Prefer: wait"
	// request open for up to a minute, so this must stay well above that.
	DefaultTimeout = 5 * time.Minute
	// MaxResponseBytes caps response bodies. Prediction payloads are small JSON documents.
	MaxResponseBytes = 4 * 1024 * 1024

	maxIdleConnsPerHost = 2
	idleConnTimeout     = 90 * time.Second
	tlsHandshakeTimeout = 30 * time.Second
)

var (
	defaultClient     *http.Client
	defaultClientOnce sync.Once
	overrideClient    *http.Client
)

// NewClient returns an http.Client with the given timeout. Predictions for a batch go to a
// single host one at a time, so the idle pool stays small.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
			TLSHandshakeTimeout: tlsHandshakeTimeout,
		},
	}
}

// GetDefaultClient returns the process-wide client.
func GetDefaultClient() *http.Client {
	if overrideClient != nil {
		return overrideClient
	}
	defaultClientOnce.Do(func() {
		defaultClient = NewClient(DefaultTimeout)
	})
	return defaultClient
}

// SetDefaultClientForTesting overrides the singleton client and returns a restore function.
func SetDefaultClientForTesting(client *http.Client) func() {
	prev := overrideClient
	overrideClient = client
	return func() { overrideClient = prev }
}

// UserAgent identifies this tool to upstream APIs.
func UserAgent() string {
	return "aitag/" + version.Version
}

// Response is a fully read reply.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// Request describes a JSON call authenticated with a bearer token.
type Request struct {
	Method string
	URL    string
	Token  string
	// Payload is encoded as the JSON body when non-nil.
	Payload any
	Header  http.Header
}

// DoJSON sends r with the default client. Transport failures and oversized bodies are
// returned as errors; any HTTP status is returned as a Response.
func DoJSON(ctx context.Context, r Request) (*Response, error) {
	var body io.Reader
	if r.Payload != nil {
		data, err := json.Marshal(r.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	data, resp, err := DoAndRead(GetDefaultClient(), req)
	if err != nil {
		return nil, err
	}
	return &Response{StatusCode: resp.StatusCode, Status: resp.Status, Body: data}, nil
}

// DoAndRead performs req, reads the capped body and always closes it.
func DoAndRead(client *http.Client, req *http.Request) ([]byte, *http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent())
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, resp, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) > MaxResponseBytes {
		return nil, resp, fmt.Errorf("response body too large (limit %d bytes)", MaxResponseBytes)
	}
	return body, resp, nil
}
