// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package mirror

import (
	"errors"

	"github.com/google/uuid"

	"github.com/ManuGH/jfstream/internal/playlist"
	"github.com/ManuGH/jfstream/internal/streaming"
)

// VariantJob selects what a run copies.
type VariantJob struct {
	ItemID uuid.UUID
	// Audio selects the audio endpoints; video is the default.
	Audio bool

	VideoPlaylist streaming.VariantVideoPlaylistOptions
	AudioPlaylist streaming.VariantAudioPlaylistOptions
	VideoSegment  streaming.VideoSegmentOptions
	AudioSegment  streaming.AudioSegmentOptions

	// Headers are sent with every request of the run.
	Headers map[string]string
	// Name is the directory below the output dir. Defaults to the item id.
	Name string
	// SkipExisting keeps non-empty segment files from an earlier run.
	SkipExisting bool
}

func (j VariantJob) validate() error {
	if j.ItemID == uuid.Nil {
		return errors.New("mirror: item id is required")
	}
	return nil
}

func (j VariantJob) dirName() string {
	if j.Name != "" {
		return j.Name
	}
	return j.ItemID.String()
}

func (j VariantJob) segmentRef(ref playlist.SegmentURI) streaming.SegmentRef {
	return streaming.SegmentRef{
		ItemID:                   j.ItemID,
		PlaylistID:               ref.PlaylistID,
		SegmentID:                ref.SegmentID,
		Container:                ref.Container,
		RuntimeTicks:             ref.RuntimeTicks,
		ActualSegmentLengthTicks: ref.ActualSegmentLengthTicks,
	}
}

func (j VariantJob) videoSegmentOptions(ref playlist.SegmentURI) streaming.VideoSegmentOptions {
	opts := j.VideoSegment
	opts.EncodingParams = inheritSession(opts.EncodingParams, ref)
	return opts
}

func (j VariantJob) audioSegmentOptions(ref playlist.SegmentURI) streaming.AudioSegmentOptions {
	opts := j.AudioSegment
	opts.EncodingParams = inheritSession(opts.EncodingParams, ref)
	return opts
}

// inheritSession copies the transcode session identifiers the server put in
// the segment URI, unless the job sets them explicitly.
func inheritSession(p streaming.EncodingParams, ref playlist.SegmentURI) streaming.EncodingParams {
	fill := func(dst *streaming.Optional[string], key string) {
		if dst.IsSet() {
			return
		}
		if v := ref.Query.Get(key); v != "" {
			*dst = streaming.Some(v)
		}
	}
	fill(&p.MediaSourceID, "mediaSourceId")
	fill(&p.PlaySessionID, "playSessionId")
	fill(&p.DeviceID, "deviceId")
	return p
}
