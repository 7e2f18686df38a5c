// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playlist

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrNotSegmentURI is returned for URIs that do not address a server segment.
var ErrNotSegmentURI = errors.New("playlist: not a segment URI")

// SegmentURI is the decoded form of hls1/{playlistId}/{segmentId}.{container}.
type SegmentURI struct {
	PlaylistID               string
	SegmentID                int
	Container                string
	RuntimeTicks             int64
	ActualSegmentLengthTicks int64
	// Query holds every query parameter of the URI, tick values included.
	Query url.Values
}

// ParseSegmentURI decodes a segment URI as listed in a variant playlist. The
// URI may be relative or absolute. Query keys are matched case-insensitively.
func ParseSegmentURI(raw string) (SegmentURI, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return SegmentURI{}, fmt.Errorf("%w: %w", ErrNotSegmentURI, err)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 3 || !strings.EqualFold(parts[len(parts)-3], "hls1") {
		return SegmentURI{}, fmt.Errorf("%w: %q has no hls1/{playlist}/{segment} path", ErrNotSegmentURI, raw)
	}

	out := SegmentURI{PlaylistID: parts[len(parts)-2], Query: u.Query()}
	if out.PlaylistID == "" {
		return SegmentURI{}, fmt.Errorf("%w: %q has an empty playlist id", ErrNotSegmentURI, raw)
	}

	id, container, ok := strings.Cut(parts[len(parts)-1], ".")
	if !ok || container == "" {
		return SegmentURI{}, fmt.Errorf("%w: %q has no container extension", ErrNotSegmentURI, raw)
	}
	out.Container = container
	if out.SegmentID, err = strconv.Atoi(id); err != nil || out.SegmentID < 0 {
		return SegmentURI{}, fmt.Errorf("%w: %q has an invalid segment id", ErrNotSegmentURI, raw)
	}

	if out.RuntimeTicks, err = tickParam(out.Query, "runtimeTicks"); err != nil {
		return SegmentURI{}, fmt.Errorf("%w: %w", ErrNotSegmentURI, err)
	}
	if out.ActualSegmentLengthTicks, err = tickParam(out.Query, "actualSegmentLengthTicks"); err != nil {
		return SegmentURI{}, fmt.Errorf("%w: %w", ErrNotSegmentURI, err)
	}
	return out, nil
}

func tickParam(q url.Values, name string) (int64, error) {
	for k, vs := range q {
		if !strings.EqualFold(k, name) || len(vs) == 0 {
			continue
		}
		v, err := strconv.ParseInt(vs[0], 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid %s %q", name, vs[0])
		}
		return v, nil
	}
	return 0, fmt.Errorf("missing %s", name)
}
