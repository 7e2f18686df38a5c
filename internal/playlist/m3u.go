// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playlist

import (
	"fmt"
	"io"

	"github.com/grafov/m3u8"
)

// WriteMedia writes a VOD media playlist listing segs in order. ended adds
// EXT-X-ENDLIST.
func WriteMedia(w io.Writer, segs []Segment, mediaSequence uint64, ended bool) error {
	capacity := uint(max(len(segs), 1))
	p, err := m3u8.NewMediaPlaylist(0, capacity)
	if err != nil {
		return fmt.Errorf("create playlist: %w", err)
	}
	p.MediaType = m3u8.VOD
	p.SeqNo = mediaSequence
	for _, s := range segs {
		if err := p.Append(s.URI, s.Duration, s.Title); err != nil {
			return fmt.Errorf("append %s: %w", s.URI, err)
		}
	}
	if ended {
		p.Close()
	}
	_, err = io.Copy(w, p.Encode())
	return err
}
