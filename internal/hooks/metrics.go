// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package hooks

import (
	"errors"
	"net/http"
	"time"

	"github.com/ManuGH/jfstream/internal/metrics"
	"github.com/ManuGH/jfstream/internal/streaming"
)

// Metrics records an operation sample for every response, labelled by the
// status class. Failures that never produce a response do not pass through
// interceptors; report those with RecordFailure.
func Metrics() Hook {
	return Hook{
		Request: markStart,
		Response: func(resp *http.Response) {
			op := operationOf(resp)
			if op == "" {
				return
			}
			d, _ := elapsed(resp)
			metrics.ObserveOperation(op, resultForStatus(resp.StatusCode), d)
		},
	}
}

// RecordFailure records err for operation when it ended before any response
// arrived. Errors that carry a response were already counted by Metrics.
func RecordFailure(operation string, err error, d time.Duration) {
	if err == nil || streaming.StatusCode(err) != 0 && !errors.Is(err, streaming.ErrMissingParameter) {
		return
	}
	metrics.ObserveOperation(operation, Result(err), d)
}

// Result maps a client error to a metrics result label.
func Result(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, streaming.ErrMissingParameter):
		return metrics.ResultValidation
	case errors.Is(err, streaming.ErrTimeout):
		return metrics.ResultTimeout
	case errors.Is(err, streaming.ErrCanceled):
		return metrics.ResultCanceled
	case errors.Is(err, streaming.ErrMaterialize):
		return metrics.ResultMaterialize
	case errors.Is(err, streaming.ErrUpstreamError):
		return metrics.ResultServerError
	case errors.Is(err, streaming.ErrNotFound),
		errors.Is(err, streaming.ErrForbidden),
		errors.Is(err, streaming.ErrUnexpectedStatus):
		return metrics.ResultClientError
	default:
		return metrics.ResultTransport
	}
}

func resultForStatus(code int) string {
	switch {
	case code >= 500:
		return metrics.ResultServerError
	case code >= 400:
		return metrics.ResultClientError
	default:
		return metrics.ResultSuccess
	}
}
