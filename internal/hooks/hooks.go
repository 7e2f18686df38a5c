// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package hooks provides request and response interceptors for the
// streaming client.
package hooks

import (
	"context"
	"net/http"
	"time"

	"github.com/ManuGH/jfstream/internal/streaming"
)

// Hook is a pair of interceptors. Either side may be nil.
type Hook struct {
	Request  func(*http.Request)
	Response func(*http.Response)
}

// Chain combines hooks. Request sides run in the given order, response
// sides in reverse so the first hook sees the response last.
func Chain(hooks ...Hook) Hook {
	var reqs []func(*http.Request)
	var resps []func(*http.Response)
	for _, h := range hooks {
		if h.Request != nil {
			reqs = append(reqs, h.Request)
		}
		if h.Response != nil {
			resps = append(resps, h.Response)
		}
	}

	var out Hook
	if len(reqs) > 0 {
		out.Request = func(r *http.Request) {
			for _, fn := range reqs {
				fn(r)
			}
		}
	}
	if len(resps) > 0 {
		out.Response = func(r *http.Response) {
			for i := len(resps) - 1; i >= 0; i-- {
				resps[i](r)
			}
		}
	}
	return out
}

// Install sets the hook as the interceptors of cfg, replacing any present.
func (h Hook) Install(cfg *streaming.Config) {
	cfg.RequestInterceptor = h.Request
	cfg.ResponseInterceptor = h.Response
}

type startKey struct{}

// withContext swaps the request's context in place. Interceptors receive the
// request by pointer, so this is how values reach the transport and the
// response side.
func withContext(req *http.Request, ctx context.Context) {
	*req = *req.WithContext(ctx)
}

// markStart records the send time on req once.
func markStart(req *http.Request) {
	if _, ok := req.Context().Value(startKey{}).(time.Time); ok {
		return
	}
	withContext(req, context.WithValue(req.Context(), startKey{}, time.Now()))
}

// elapsed returns the time since markStart ran for the request behind resp.
func elapsed(resp *http.Response) (time.Duration, bool) {
	if resp == nil || resp.Request == nil {
		return 0, false
	}
	start, ok := resp.Request.Context().Value(startKey{}).(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(start), true
}

func operationOf(resp *http.Response) string {
	if resp == nil || resp.Request == nil {
		return ""
	}
	return streaming.OperationFromContext(resp.Request.Context())
}

func streamingOp(req *http.Request) string {
	return streaming.OperationFromContext(req.Context())
}
