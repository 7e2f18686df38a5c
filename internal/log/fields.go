// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"
	FieldItemID    = "item_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOperation = "operation"

	// HTTP fields
	FieldMethod   = "method"
	FieldStatus   = "status"
	FieldDuration = "duration_ms"
	FieldURL      = "url"
	FieldBaseURL  = "base_url"

	// Media fields
	FieldPlaylist = "playlist"
	FieldSegment  = "segment"
	FieldBytes    = "bytes"

	// Path fields
	FieldPath = "path"
)
