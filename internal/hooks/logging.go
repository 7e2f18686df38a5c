// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package hooks

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/ManuGH/jfstream/internal/log"
)

// Logging logs every request at debug level and every response with its
// status and latency. Query strings are never logged since they may carry
// tokens.
func Logging(logger zerolog.Logger) Hook {
	return Hook{
		Request: func(req *http.Request) {
			markStart(req)
			l := log.WithContext(req.Context(), logger)
			l.Debug().
				Str(log.FieldEvent, "upstream.request").
				Str(log.FieldOperation, streamingOp(req)).
				Str(log.FieldMethod, req.Method).
				Str(log.FieldURL, req.URL.Path).
				Msg("sending request")
		},
		Response: func(resp *http.Response) {
			l := logger
			if resp.Request != nil {
				l = log.WithContext(resp.Request.Context(), logger)
			}
			ev := l.Info()
			switch {
			case resp.StatusCode >= 500:
				ev = l.Error()
			case resp.StatusCode >= 400:
				ev = l.Warn()
			}
			ev = ev.Str(log.FieldEvent, "upstream.response").
				Str(log.FieldOperation, operationOf(resp)).
				Int(log.FieldStatus, resp.StatusCode)
			if d, ok := elapsed(resp); ok {
				ev = ev.Int64(log.FieldDuration, d.Milliseconds())
			}
			if resp.ContentLength >= 0 {
				ev = ev.Int64(log.FieldBytes, resp.ContentLength)
			}
			ev.Msg("response received")
		},
	}
}
