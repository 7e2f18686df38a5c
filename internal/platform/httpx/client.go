// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package httpx builds the HTTP clients used to talk to the media server.
package httpx

import (
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ManuGH/jfstream/internal/metrics"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 16
	defaultMaxIdleConnsPerHost   = 4

	// transcodes may take a while to produce the first bytes
	transferResponseHeaderTimeout = 60 * time.Second
)

// NewClient returns a hardened HTTP client for short probes. The whole
// exchange, body included, is bounded by timeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(min(timeout, defaultDialTimeout), min(timeout, defaultResponseHeaderTimeout)),
	}
}

// NewTransferClient returns an instrumented client for segment and playlist
// downloads. Connection setup and the wait for headers are bounded; the body
// transfer is not, callers bound it through the request context.
func NewTransferClient() *http.Client {
	return &http.Client{
		Transport: Instrument(newTransport(defaultDialTimeout, transferResponseHeaderTimeout)),
	}
}

// Instrument wraps rt with tracing spans and the upstream Prometheus
// collectors. Options are passed to otelhttp.
func Instrument(rt http.RoundTripper, opts ...otelhttp.Option) http.RoundTripper {
	if rt == nil {
		rt = newTransport(defaultDialTimeout, transferResponseHeaderTimeout)
	}
	rt = promhttp.InstrumentRoundTripperInFlight(metrics.UpstreamInFlight,
		promhttp.InstrumentRoundTripperCounter(metrics.UpstreamRequestsTotal,
			promhttp.InstrumentRoundTripperDuration(metrics.UpstreamRequestDuration, rt),
		),
	)
	return otelhttp.NewTransport(rt, opts...)
}

func newTransport(dialTimeout, responseHeaderTimeout time.Duration) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          defaultMaxIdleConns,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   dialTimeout,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	}
}
