// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/ManuGH/jfstream/internal/platform/httpx"
)

// HTTPRequestDoer performs HTTP requests. *http.Client satisfies it.
type HTTPRequestDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config is the shared configuration a Client is built from.
type Config struct {
	// BaseURL is the server root, e.g. "https://media.example:8096".
	BaseURL string
	// HTTPClient is shared by every call. Defaults to httpx.NewTransferClient().
	HTTPClient HTTPRequestDoer
	// ReadTimeout bounds each call, body transfer included. Zero disables it.
	ReadTimeout time.Duration
	// RequestInterceptor may mutate the request right before it is sent.
	RequestInterceptor func(*http.Request)
	// ResponseInterceptor observes the response right after it arrives.
	ResponseInterceptor func(*http.Response)
	// Unmarshal decodes JSON error bodies. Defaults to json.Unmarshal.
	Unmarshal func(data []byte, v any) error
	// TempDir is where downloaded files are created. Defaults to os.TempDir().
	TempDir string
}

// Client calls the dynamic HLS endpoints. It holds no per-call state and is
// safe for concurrent use as long as HTTPClient is.
type Client struct {
	baseURL             string
	http                HTTPRequestDoer
	readTimeout         time.Duration
	requestInterceptor  func(*http.Request)
	responseInterceptor func(*http.Response)
	unmarshal           func([]byte, any) error
	tempDir             string
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("streaming: base URL is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("streaming: invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("streaming: unsupported base URL scheme %q", u.Scheme)
	}
	if cfg.ReadTimeout < 0 {
		return nil, fmt.Errorf("streaming: negative read timeout %v", cfg.ReadTimeout)
	}

	c := &Client{
		baseURL:             base,
		http:                cfg.HTTPClient,
		readTimeout:         cfg.ReadTimeout,
		requestInterceptor:  cfg.RequestInterceptor,
		responseInterceptor: cfg.ResponseInterceptor,
		unmarshal:           cfg.Unmarshal,
		tempDir:             cfg.TempDir,
	}
	if c.http == nil {
		c.http = httpx.NewTransferClient()
	}
	if c.unmarshal == nil {
		c.unmarshal = json.Unmarshal
	}
	if c.tempDir == "" {
		c.tempDir = os.TempDir()
	}
	return c, nil
}

// BaseURL returns the normalized server root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is the full result of a call: status, headers and payload.
type Response[T any] struct {
	StatusCode int
	Header     http.Header
	Data       T
}

type operationKey struct{}

func withOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey{}, operation)
}

// OperationFromContext returns the operation id attached to requests built
// by the client, e.g. "getHlsVideoSegment". Interceptors use it for labels.
func OperationFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	op, _ := ctx.Value(operationKey{}).(string)
	return op
}

// newRequest assembles the wire request for ep. Validation has already run.
func (c *Client) newRequest(ctx context.Context, ep endpoint, path []pathParam, q *queryBuilder, headers map[string]string) (*http.Request, error) {
	p, err := expandPath(ep.template, path...)
	if err != nil {
		return nil, err
	}
	if q.err != nil {
		return nil, q.err
	}

	target := c.baseURL + p
	if qs := q.encode(); qs != "" {
		target += "?" + qs
	}

	req, err := http.NewRequestWithContext(withOperation(ctx, ep.operationID), ep.method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", ep.operationID, err)
	}
	req.Header.Set("Accept", ep.accept)
	// sorted so differently-cased duplicates resolve the same way every call
	for _, k := range slices.Sorted(maps.Keys(headers)) {
		req.Header.Set(k, headers[k])
	}
	if c.requestInterceptor != nil {
		c.requestInterceptor(req)
	}
	return req, nil
}

// dispatch sends the request produced by build and translates the result.
func (c *Client) dispatch(ctx context.Context, operationID string, build func(context.Context) (*http.Request, error)) (*Response[*DownloadedFile], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.readTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.readTimeout)
		defer cancel()
	}

	req, err := build(ctx)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return nil, apiErr
		}
		return nil, &Error{Operation: operationID, Message: err.Error(), Sentinel: ErrTransport, Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(operationID, err)
	}
	if resp.Body != nil {
		defer resp.Body.Close()
	}
	if c.responseInterceptor != nil {
		c.responseInterceptor(resp)
	}

	if resp.StatusCode/100 != 2 {
		var text string
		if resp.Body != nil {
			if data, readErr := io.ReadAll(resp.Body); readErr == nil {
				text = decodeBodyText(data, resp.Header.Get("Content-Type"))
			}
		}
		return nil, statusError(operationID, resp.StatusCode, resp.Header, text)
	}

	out := &Response[*DownloadedFile]{StatusCode: resp.StatusCode, Header: resp.Header}
	if !hasBody(req, resp) {
		return out, nil
	}
	file, err := c.materialize(resp.Body, resp.Header)
	if err != nil {
		return nil, materializeError(operationID, resp.StatusCode, resp.Header, err)
	}
	out.Data = file
	return out, nil
}

// hasBody reports whether resp carries a payload. Wrapping transports may
// replace http.NoBody, so the method and framing are checked as well.
func hasBody(req *http.Request, resp *http.Response) bool {
	switch {
	case resp.Body == nil, resp.Body == http.NoBody:
		return false
	case req.Method == http.MethodHead:
		return false
	case resp.StatusCode == http.StatusNoContent, resp.ContentLength == 0:
		return false
	}
	return true
}

// ProblemDetails is the RFC 7807 body the server sends with most errors.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`
	Title    string `json:"title,omitempty"`
	Status   int    `json:"status,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
	TraceID  string `json:"traceId,omitempty"`
}

// ProblemDetails decodes the body of a status error with the configured
// codec. It reports false when err carries no decodable JSON body.
func (c *Client) ProblemDetails(err error) (*ProblemDetails, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Body == "" || apiErr.Body == NoBody {
		return nil, false
	}
	var pd ProblemDetails
	if err := c.unmarshal([]byte(apiErr.Body), &pd); err != nil {
		return nil, false
	}
	return &pd, true
}
