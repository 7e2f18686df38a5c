// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrMissingParameter = errors.New("streaming: missing required parameter")
	ErrNotFound         = errors.New("streaming: resource not found")
	ErrForbidden        = errors.New("streaming: access forbidden")
	ErrUpstreamError    = errors.New("streaming: server error (5xx)")
	ErrUnexpectedStatus = errors.New("streaming: unexpected status")
	ErrTransport        = errors.New("streaming: transport failure")
	ErrTimeout          = errors.New("streaming: request timed out")
	ErrCanceled         = errors.New("streaming: request canceled")
	ErrMaterialize      = errors.New("streaming: cannot materialize response body")
)

// NoBody stands in for an empty or unreadable error response body.
const NoBody = "[no body]"

// Error is the single error type returned by every Client operation.
type Error struct {
	Operation string
	// Code is the HTTP status, 400 for pre-flight validation, 0 when no
	// response was received.
	Code    int
	Message string
	Header  http.Header
	Body    string

	Sentinel error
	Err      error // lower-level cause (net.Error, context error, fs error)
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both the sentinel and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Sentinel != nil {
		out = append(out, e.Sentinel)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func missingParameter(operation, param string) *Error {
	return &Error{
		Operation: operation,
		Code:      http.StatusBadRequest,
		Message:   fmt.Sprintf("Missing the required parameter '%s' when calling %s", param, operation),
		Sentinel:  ErrMissingParameter,
	}
}

func statusError(operation string, status int, header http.Header, body string) *Error {
	if body == "" {
		body = NoBody
	}
	return &Error{
		Operation: operation,
		Code:      status,
		Message:   fmt.Sprintf("%s call failed with: %d - %s", operation, status, body),
		Header:    header,
		Body:      body,
		Sentinel:  sentinelForStatus(status),
	}
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrForbidden
	case status >= 500:
		return ErrUpstreamError
	default:
		return ErrUnexpectedStatus
	}
}

func transportError(operation string, err error) *Error {
	sentinel := ErrTransport
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		sentinel = ErrCanceled
	case errors.Is(err, context.DeadlineExceeded):
		sentinel = ErrTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		sentinel = ErrTimeout
	}
	return &Error{
		Operation: operation,
		Message:   fmt.Sprintf("%s call failed: %v", operation, err),
		Sentinel:  sentinel,
		Err:       err,
	}
}

func materializeError(operation string, status int, header http.Header, err error) *Error {
	return &Error{
		Operation: operation,
		Code:      status,
		Message:   fmt.Sprintf("%s: materialize response: %v", operation, err),
		Header:    header,
		Sentinel:  ErrMaterialize,
		Err:       err,
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
