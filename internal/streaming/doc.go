// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package streaming is a client for the media server's dynamic HLS endpoints:
// segment retrieval, master and variant playlist retrieval, and live stream
// initiation.
//
// Every operation follows the same shape. Required arguments are validated
// before any network I/O, the path template is expanded, optional query
// parameters are appended in declaration order, exactly one request is sent,
// and the response is either materialized into a caller-owned temporary file
// or translated into an *Error.
//
// The client does not log. Observability is attached through the request and
// response interceptors in Config.
package streaming
