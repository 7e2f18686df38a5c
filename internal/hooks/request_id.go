// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package hooks

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/ManuGH/jfstream/internal/log"
)

// HeaderRequestID carries the correlation id to the server.
const HeaderRequestID = "X-Request-Id"

// RequestID sets the request id header. A header set by the caller wins,
// then an id stored with log.ContextWithRequestID, then a fresh UUID. The
// chosen id is stored in the request context for later hooks.
func RequestID() Hook {
	return Hook{Request: func(req *http.Request) {
		id := req.Header.Get(HeaderRequestID)
		if id == "" {
			id = log.RequestIDFromContext(req.Context())
		}
		if id == "" {
			id = uuid.New().String()
		}
		req.Header.Set(HeaderRequestID, id)
		if log.RequestIDFromContext(req.Context()) != id {
			withContext(req, log.ContextWithRequestID(req.Context(), id))
		}
	}}
}
