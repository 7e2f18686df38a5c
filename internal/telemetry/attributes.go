// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// Client attributes
	OperationKey = "jfstream.operation"
	ItemIDKey    = "jfstream.item_id"
	RequestIDKey = "jfstream.request_id"

	// HLS attributes
	PlaylistKey = "hls.playlist"
	SegmentKey  = "hls.segment"
	BytesKey    = "hls.bytes"

	// Mirror attributes
	MirrorSegmentsKey    = "mirror.segments"
	MirrorConcurrencyKey = "mirror.concurrency"
	MirrorFailedKey      = "mirror.failed"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// OperationAttributes creates span attributes for a client operation.
func OperationAttributes(operation, requestID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.String(OperationKey, operation)}
	if requestID != "" {
		attrs = append(attrs, attribute.String(RequestIDKey, requestID))
	}
	return attrs
}

// SegmentAttributes creates attributes for a single segment download.
func SegmentAttributes(itemID, playlist string, segment int, bytes int64) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if itemID != "" {
		attrs = append(attrs, attribute.String(ItemIDKey, itemID))
	}
	if playlist != "" {
		attrs = append(attrs, attribute.String(PlaylistKey, playlist))
	}
	attrs = append(attrs, attribute.Int(SegmentKey, segment))
	if bytes > 0 {
		attrs = append(attrs, attribute.Int64(BytesKey, bytes))
	}
	return attrs
}

// MirrorAttributes creates attributes for a mirror run.
func MirrorAttributes(segments, concurrency, failed int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(MirrorSegmentsKey, segments),
		attribute.Int(MirrorConcurrencyKey, concurrency),
		attribute.Int(MirrorFailedKey, failed),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
