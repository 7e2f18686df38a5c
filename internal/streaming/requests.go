// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import "github.com/google/uuid"

// SegmentRef addresses one HLS segment. Identifiers are missing when they
// hold their zero value; numbers are missing when negative.
type SegmentRef struct {
	ItemID     uuid.UUID
	PlaylistID string
	SegmentID  int
	Container  string
	// RuntimeTicks is the segment's start position in 100ns ticks.
	RuntimeTicks int64
	// ActualSegmentLengthTicks is the segment's length in 100ns ticks.
	ActualSegmentLengthTicks int64
}

func (r SegmentRef) validate(operation string) error {
	switch {
	case r.ItemID == uuid.Nil:
		return missingParameter(operation, "itemId")
	case r.PlaylistID == "":
		return missingParameter(operation, "playlistId")
	case r.SegmentID < 0:
		return missingParameter(operation, "segmentId")
	case r.Container == "":
		return missingParameter(operation, "container")
	case r.RuntimeTicks < 0:
		return missingParameter(operation, "runtimeTicks")
	case r.ActualSegmentLengthTicks < 0:
		return missingParameter(operation, "actualSegmentLengthTicks")
	}
	return nil
}

func (r SegmentRef) pathParams() []pathParam {
	return []pathParam{
		{"itemId", r.ItemID.String()},
		{"playlistId", r.PlaylistID},
		{"segmentId", r.SegmentID},
		{"container", r.Container},
	}
}

func (r SegmentRef) encode(q *queryBuilder) {
	q.add("runtimeTicks", r.RuntimeTicks)
	q.add("actualSegmentLengthTicks", r.ActualSegmentLengthTicks)
}

// AudioSegmentRequest is the input of GetHLSAudioSegment.
type AudioSegmentRequest struct {
	SegmentRef
	Options AudioSegmentOptions
}

// VideoSegmentRequest is the input of GetHLSVideoSegment.
type VideoSegmentRequest struct {
	SegmentRef
	Options VideoSegmentOptions
}

// LiveStreamRequest is the input of GetLiveHLSStream.
type LiveStreamRequest struct {
	ItemID  uuid.UUID
	Options LiveStreamOptions
}

// MasterAudioPlaylistRequest is the input of the master audio playlist operations.
type MasterAudioPlaylistRequest struct {
	ItemID        uuid.UUID
	MediaSourceID string
	Options       MasterAudioPlaylistOptions
}

// MasterVideoPlaylistRequest is the input of the master video playlist operations.
type MasterVideoPlaylistRequest struct {
	ItemID        uuid.UUID
	MediaSourceID string
	Options       MasterVideoPlaylistOptions
}

// VariantAudioPlaylistRequest is the input of GetVariantHLSAudioPlaylist.
type VariantAudioPlaylistRequest struct {
	ItemID  uuid.UUID
	Options VariantAudioPlaylistOptions
}

// VariantVideoPlaylistRequest is the input of GetVariantHLSVideoPlaylist.
type VariantVideoPlaylistRequest struct {
	ItemID  uuid.UUID
	Options VariantVideoPlaylistOptions
}

func requireItem(operation string, id uuid.UUID) error {
	if id == uuid.Nil {
		return missingParameter(operation, "itemId")
	}
	return nil
}

func requireMaster(operation string, id uuid.UUID, mediaSourceID string) error {
	if err := requireItem(operation, id); err != nil {
		return err
	}
	if mediaSourceID == "" {
		return missingParameter(operation, "mediaSourceId")
	}
	return nil
}

func itemPath(id uuid.UUID) []pathParam {
	return []pathParam{{"itemId", id.String()}}
}
