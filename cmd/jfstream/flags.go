// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ManuGH/jfstream/internal/streaming"
)

// encodingFlags holds the shared encoding parameters. Only flags given on
// the command line become present parameters.
type encodingFlags struct {
	fs *pflag.FlagSet

	static               bool
	deviceID             string
	mediaSourceID        string
	playSessionID        string
	segmentContainer     string
	segmentLength        int
	audioCodec           string
	videoCodec           string
	audioBitRate         int
	videoBitRate         int
	audioChannels        int
	maxAudioChannels     int
	width                int
	height               int
	startTimeTicks       int64
	audioStreamIndex     int
	videoStreamIndex     int
	subtitleStreamIndex  int
	subtitleMethod       string
	encodingContext      string
	enableAutoStreamCopy bool
	allowVideoStreamCopy bool
	allowAudioStreamCopy bool
	streamOptions        map[string]string
	enableAudioVbrEncode bool
}

func (f *encodingFlags) register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.BoolVar(&f.static, "static", false, "stream the original file without encoding")
	fs.StringVar(&f.deviceID, "device-id", "", "device id sent to the server (defaults to the configured id)")
	fs.StringVar(&f.mediaSourceID, "media-source-id", "", "media source id")
	fs.StringVar(&f.playSessionID, "play-session-id", "", "play session id")
	fs.StringVar(&f.segmentContainer, "segment-container", "", "segment container, e.g. ts or mp4")
	fs.IntVar(&f.segmentLength, "segment-length", 0, "segment length in seconds")
	fs.StringVar(&f.audioCodec, "audio-codec", "", "audio codec, e.g. aac")
	fs.StringVar(&f.videoCodec, "video-codec", "", "video codec, e.g. h264")
	fs.IntVar(&f.audioBitRate, "audio-bitrate", 0, "audio bitrate")
	fs.IntVar(&f.videoBitRate, "video-bitrate", 0, "video bitrate")
	fs.IntVar(&f.audioChannels, "audio-channels", 0, "audio channels")
	fs.IntVar(&f.maxAudioChannels, "max-audio-channels", 0, "maximum audio channels")
	fs.IntVar(&f.width, "width", 0, "output width")
	fs.IntVar(&f.height, "height", 0, "output height")
	fs.Int64Var(&f.startTimeTicks, "start-time-ticks", 0, "start position in 100ns ticks")
	fs.IntVar(&f.audioStreamIndex, "audio-stream-index", 0, "audio stream index")
	fs.IntVar(&f.videoStreamIndex, "video-stream-index", 0, "video stream index")
	fs.IntVar(&f.subtitleStreamIndex, "subtitle-stream-index", 0, "subtitle stream index")
	fs.StringVar(&f.subtitleMethod, "subtitle-method", "", "subtitle delivery: Encode, Embed, External, Hls or Drop")
	fs.StringVar(&f.encodingContext, "context", "", "encoding context: Streaming or Static")
	fs.BoolVar(&f.enableAutoStreamCopy, "enable-auto-stream-copy", false, "let the server copy streams when possible")
	fs.BoolVar(&f.allowVideoStreamCopy, "allow-video-stream-copy", false, "allow copying the video stream")
	fs.BoolVar(&f.allowAudioStreamCopy, "allow-audio-stream-copy", false, "allow copying the audio stream")
	fs.StringToStringVar(&f.streamOptions, "stream-option", nil, "extra streamOptions entries as key=value")
	fs.BoolVar(&f.enableAudioVbrEncode, "enable-audio-vbr-encoding", false, "enable VBR audio encoding")
}

// params converts the flags. defaultDeviceID fills deviceId when the flag
// is absent.
func (f *encodingFlags) params(defaultDeviceID string) (streaming.EncodingParams, error) {
	p := streaming.EncodingParams{
		Static:                 opt(f.fs, "static", f.static),
		PlaySessionID:          opt(f.fs, "play-session-id", f.playSessionID),
		SegmentContainer:       opt(f.fs, "segment-container", f.segmentContainer),
		SegmentLength:          opt(f.fs, "segment-length", f.segmentLength),
		MediaSourceID:          opt(f.fs, "media-source-id", f.mediaSourceID),
		DeviceID:               opt(f.fs, "device-id", f.deviceID),
		AudioCodec:             opt(f.fs, "audio-codec", f.audioCodec),
		EnableAutoStreamCopy:   opt(f.fs, "enable-auto-stream-copy", f.enableAutoStreamCopy),
		AllowVideoStreamCopy:   opt(f.fs, "allow-video-stream-copy", f.allowVideoStreamCopy),
		AllowAudioStreamCopy:   opt(f.fs, "allow-audio-stream-copy", f.allowAudioStreamCopy),
		AudioBitRate:           opt(f.fs, "audio-bitrate", f.audioBitRate),
		AudioChannels:          opt(f.fs, "audio-channels", f.audioChannels),
		MaxAudioChannels:       opt(f.fs, "max-audio-channels", f.maxAudioChannels),
		StartTimeTicks:         opt(f.fs, "start-time-ticks", f.startTimeTicks),
		Width:                  opt(f.fs, "width", f.width),
		Height:                 opt(f.fs, "height", f.height),
		VideoBitRate:           opt(f.fs, "video-bitrate", f.videoBitRate),
		SubtitleStreamIndex:    opt(f.fs, "subtitle-stream-index", f.subtitleStreamIndex),
		VideoCodec:             opt(f.fs, "video-codec", f.videoCodec),
		AudioStreamIndex:       opt(f.fs, "audio-stream-index", f.audioStreamIndex),
		VideoStreamIndex:       opt(f.fs, "video-stream-index", f.videoStreamIndex),
		StreamOptions:          f.streamOptions,
		EnableAudioVbrEncoding: opt(f.fs, "enable-audio-vbr-encoding", f.enableAudioVbrEncode),
	}
	if !p.DeviceID.IsSet() && defaultDeviceID != "" {
		p.DeviceID = streaming.Some(defaultDeviceID)
	}

	if f.fs.Changed("subtitle-method") {
		m, err := parseSubtitleMethod(f.subtitleMethod)
		if err != nil {
			return p, err
		}
		p.SubtitleMethod = streaming.Some(m)
	}
	if f.fs.Changed("context") {
		switch c := streaming.EncodingContext(f.encodingContext); c {
		case streaming.EncodingContextStreaming, streaming.EncodingContextStatic:
			p.Context = streaming.Some(c)
		default:
			return p, fmt.Errorf("invalid --context %q", f.encodingContext)
		}
	}
	return p, nil
}

func parseSubtitleMethod(s string) (streaming.SubtitleDeliveryMethod, error) {
	switch m := streaming.SubtitleDeliveryMethod(s); m {
	case streaming.SubtitleEncode, streaming.SubtitleEmbed, streaming.SubtitleExternal,
		streaming.SubtitleHls, streaming.SubtitleDrop:
		return m, nil
	}
	return "", fmt.Errorf("invalid --subtitle-method %q", s)
}

func opt[T any](fs *pflag.FlagSet, name string, v T) streaming.Optional[T] {
	if fs.Changed(name) {
		return streaming.Some(v)
	}
	return streaming.Optional[T]{}
}

// sizeFlags are the video bounds shared by the video operations.
type sizeFlags struct {
	fs        *pflag.FlagSet
	maxWidth  int
	maxHeight int
	burnIn    bool
}

func (f *sizeFlags) register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.IntVar(&f.maxWidth, "max-width", 0, "maximum output width")
	fs.IntVar(&f.maxHeight, "max-height", 0, "maximum output height")
	fs.BoolVar(&f.burnIn, "burn-in-subtitles", false, "always burn in subtitles when transcoding")
}

func parseItemID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid item id %q: %w", arg, err)
	}
	return id, nil
}
