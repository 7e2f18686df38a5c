// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package playlist decodes the HLS playlists returned by the media server and
// writes local media playlists for mirrored segments.
package playlist

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/grafov/m3u8"
)

// Kind distinguishes master from media playlists.
type Kind int

const (
	KindMaster Kind = iota + 1
	KindMedia
)

func (k Kind) String() string {
	switch k {
	case KindMaster:
		return "master"
	case KindMedia:
		return "media"
	default:
		return "unknown"
	}
}

// Variant is one stream entry of a master playlist.
type Variant struct {
	URI              string
	Bandwidth        uint32
	AverageBandwidth uint32
	Resolution       string
	Codecs           string
}

// Segment is one entry of a media playlist.
type Segment struct {
	URI      string
	Duration float64
	Title    string
	Sequence uint64
}

// Manifest is the decoded form of either playlist kind.
type Manifest struct {
	Kind     Kind
	Variants []Variant
	Segments []Segment

	// TargetDuration is in seconds. When the playlist omits it, it is derived
	// from the longest segment.
	TargetDuration float64
	MediaSequence  uint64
	// Ended is true when the playlist carries EXT-X-ENDLIST.
	Ended bool
	// Live is true for EVENT playlists and playlists without a type that
	// have not ended.
	Live bool
}

// ErrNotMediaPlaylist is returned where a media playlist is required.
var ErrNotMediaPlaylist = errors.New("playlist: not a media playlist")

// Decode parses an HLS playlist.
func Decode(r io.Reader) (*Manifest, error) {
	p, listType, err := m3u8.DecodeFrom(r, true)
	if err != nil {
		return nil, fmt.Errorf("failed to parse playlist: %w", err)
	}

	switch listType {
	case m3u8.MASTER:
		master, ok := p.(*m3u8.MasterPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected playlist type %T", p)
		}
		return fromMaster(master), nil
	case m3u8.MEDIA:
		media, ok := p.(*m3u8.MediaPlaylist)
		if !ok {
			return nil, fmt.Errorf("unexpected playlist type %T", p)
		}
		return fromMedia(media), nil
	default:
		return nil, fmt.Errorf("unknown playlist type %d", listType)
	}
}

// DecodeFile parses the playlist stored at path.
func DecodeFile(path string) (*Manifest, error) {
	// #nosec G304 -- paths come from files the client itself downloaded
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

func fromMaster(p *m3u8.MasterPlaylist) *Manifest {
	m := &Manifest{Kind: KindMaster}
	for _, v := range p.Variants {
		if v == nil {
			continue
		}
		m.Variants = append(m.Variants, Variant{
			URI:              v.URI,
			Bandwidth:        v.Bandwidth,
			AverageBandwidth: v.AverageBandwidth,
			Resolution:       v.Resolution,
			Codecs:           v.Codecs,
		})
	}
	return m
}

func fromMedia(p *m3u8.MediaPlaylist) *Manifest {
	m := &Manifest{
		Kind:           KindMedia,
		TargetDuration: p.TargetDuration,
		MediaSequence:  p.SeqNo,
		Ended:          p.Closed,
	}
	m.Live = p.MediaType == m3u8.EVENT || (p.MediaType != m3u8.VOD && !p.Closed)

	var longest float64
	for i, seg := range p.Segments {
		// the backing array is pre-allocated; the first nil ends the list
		if seg == nil {
			break
		}
		m.Segments = append(m.Segments, Segment{
			URI:      seg.URI,
			Duration: seg.Duration,
			Title:    seg.Title,
			Sequence: p.SeqNo + uint64(i),
		})
		longest = math.Max(longest, seg.Duration)
	}
	if m.TargetDuration == 0 && longest > 0 {
		m.TargetDuration = math.Ceil(longest)
	}
	return m
}
