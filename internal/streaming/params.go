// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

// SubtitleDeliveryMethod selects how subtitles reach the client.
type SubtitleDeliveryMethod string

const (
	SubtitleEncode   SubtitleDeliveryMethod = "Encode" // burned into the video
	SubtitleEmbed    SubtitleDeliveryMethod = "Embed"
	SubtitleExternal SubtitleDeliveryMethod = "External"
	SubtitleHls      SubtitleDeliveryMethod = "Hls"
	SubtitleDrop     SubtitleDeliveryMethod = "Drop"
)

// EncodingContext tells the server whether the request is for streaming or
// for a static download.
type EncodingContext string

const (
	EncodingContextStreaming EncodingContext = "Streaming"
	EncodingContextStatic    EncodingContext = "Static"
)

// EncodingParams holds the query parameters shared by every HLS endpoint.
// Fields are emitted in declaration order; absent fields are omitted.
type EncodingParams struct {
	// Static streams the original file without encoding.
	Static           Optional[bool]
	Params           Optional[string]
	Tag              Optional[string]
	DeviceProfileID  Optional[string]
	PlaySessionID    Optional[string]
	SegmentContainer Optional[string]
	SegmentLength    Optional[int]
	MinSegments      Optional[int]
	MediaSourceID    Optional[string]
	// DeviceID lets the server stop encoding processes belonging to this client.
	DeviceID                    Optional[string]
	AudioCodec                  Optional[string]
	EnableAutoStreamCopy        Optional[bool]
	AllowVideoStreamCopy        Optional[bool]
	AllowAudioStreamCopy        Optional[bool]
	BreakOnNonKeyFrames         Optional[bool]
	AudioSampleRate             Optional[int]
	MaxAudioBitDepth            Optional[int]
	AudioBitRate                Optional[int]
	AudioChannels               Optional[int]
	MaxAudioChannels            Optional[int]
	Profile                     Optional[string]
	Level                       Optional[string]
	Framerate                   Optional[float32]
	MaxFramerate                Optional[float32]
	CopyTimestamps              Optional[bool]
	StartTimeTicks              Optional[int64]
	Width                       Optional[int]
	Height                      Optional[int]
	VideoBitRate                Optional[int]
	SubtitleStreamIndex         Optional[int]
	SubtitleMethod              Optional[SubtitleDeliveryMethod]
	MaxRefFrames                Optional[int]
	MaxVideoBitDepth            Optional[int]
	RequireAvc                  Optional[bool]
	DeInterlace                 Optional[bool]
	RequireNonAnamorphic        Optional[bool]
	TranscodingMaxAudioChannels Optional[int]
	CPUCoreLimit                Optional[int]
	LiveStreamID                Optional[string]
	EnableMpegtsM2TsMode        Optional[bool]
	VideoCodec                  Optional[string]
	SubtitleCodec               Optional[string]
	// TranscodeReasons is the comma separated reason set reported by the server.
	TranscodeReasons Optional[string]
	AudioStreamIndex Optional[int]
	VideoStreamIndex Optional[int]
	Context          Optional[EncodingContext]
	// StreamOptions expands to one streamOptions[key]=value pair per entry.
	// A nil or empty map emits nothing.
	StreamOptions          map[string]string
	EnableAudioVbrEncoding Optional[bool]
}

func (p EncodingParams) encode(q *queryBuilder) {
	addOpt(q, "static", p.Static)
	addOpt(q, "params", p.Params)
	addOpt(q, "tag", p.Tag)
	addOpt(q, "deviceProfileId", p.DeviceProfileID)
	addOpt(q, "playSessionId", p.PlaySessionID)
	addOpt(q, "segmentContainer", p.SegmentContainer)
	addOpt(q, "segmentLength", p.SegmentLength)
	addOpt(q, "minSegments", p.MinSegments)
	addOpt(q, "mediaSourceId", p.MediaSourceID)
	addOpt(q, "deviceId", p.DeviceID)
	addOpt(q, "audioCodec", p.AudioCodec)
	addOpt(q, "enableAutoStreamCopy", p.EnableAutoStreamCopy)
	addOpt(q, "allowVideoStreamCopy", p.AllowVideoStreamCopy)
	addOpt(q, "allowAudioStreamCopy", p.AllowAudioStreamCopy)
	addOpt(q, "breakOnNonKeyFrames", p.BreakOnNonKeyFrames)
	addOpt(q, "audioSampleRate", p.AudioSampleRate)
	addOpt(q, "maxAudioBitDepth", p.MaxAudioBitDepth)
	addOpt(q, "audioBitRate", p.AudioBitRate)
	addOpt(q, "audioChannels", p.AudioChannels)
	addOpt(q, "maxAudioChannels", p.MaxAudioChannels)
	addOpt(q, "profile", p.Profile)
	addOpt(q, "level", p.Level)
	addOpt(q, "framerate", p.Framerate)
	addOpt(q, "maxFramerate", p.MaxFramerate)
	addOpt(q, "copyTimestamps", p.CopyTimestamps)
	addOpt(q, "startTimeTicks", p.StartTimeTicks)
	addOpt(q, "width", p.Width)
	addOpt(q, "height", p.Height)
	addOpt(q, "videoBitRate", p.VideoBitRate)
	addOpt(q, "subtitleStreamIndex", p.SubtitleStreamIndex)
	addEnum(q, "subtitleMethod", p.SubtitleMethod)
	addOpt(q, "maxRefFrames", p.MaxRefFrames)
	addOpt(q, "maxVideoBitDepth", p.MaxVideoBitDepth)
	addOpt(q, "requireAvc", p.RequireAvc)
	addOpt(q, "deInterlace", p.DeInterlace)
	addOpt(q, "requireNonAnamorphic", p.RequireNonAnamorphic)
	addOpt(q, "transcodingMaxAudioChannels", p.TranscodingMaxAudioChannels)
	addOpt(q, "cpuCoreLimit", p.CPUCoreLimit)
	addOpt(q, "liveStreamId", p.LiveStreamID)
	addOpt(q, "enableMpegtsM2TsMode", p.EnableMpegtsM2TsMode)
	addOpt(q, "videoCodec", p.VideoCodec)
	addOpt(q, "subtitleCodec", p.SubtitleCodec)
	addOpt(q, "transcodeReasons", p.TranscodeReasons)
	addOpt(q, "audioStreamIndex", p.AudioStreamIndex)
	addOpt(q, "videoStreamIndex", p.VideoStreamIndex)
	addEnum(q, "context", p.Context)
	q.addMap("streamOptions", p.StreamOptions)
	addOpt(q, "enableAudioVbrEncoding", p.EnableAudioVbrEncoding)
}

// AudioSegmentOptions are the optional parameters of getHlsAudioSegment.
type AudioSegmentOptions struct {
	EncodingParams
	MaxStreamingBitrate Optional[int]
}

func (o AudioSegmentOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxStreamingBitrate", o.MaxStreamingBitrate)
}

// VideoSegmentOptions are the optional parameters of getHlsVideoSegment.
type VideoSegmentOptions struct {
	EncodingParams
	MaxWidth                            Optional[int]
	MaxHeight                           Optional[int]
	AlwaysBurnInSubtitleWhenTranscoding Optional[bool]
}

func (o VideoSegmentOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxWidth", o.MaxWidth)
	addOpt(q, "maxHeight", o.MaxHeight)
	addOpt(q, "alwaysBurnInSubtitleWhenTranscoding", o.AlwaysBurnInSubtitleWhenTranscoding)
}

// LiveStreamOptions are the optional parameters of getLiveHlsStream.
// Container is a query parameter here and is emitted before the shared set.
type LiveStreamOptions struct {
	Container Optional[string]
	EncodingParams
	MaxWidth                            Optional[int]
	MaxHeight                           Optional[int]
	EnableSubtitlesInManifest           Optional[bool]
	AlwaysBurnInSubtitleWhenTranscoding Optional[bool]
}

func (o LiveStreamOptions) encode(q *queryBuilder) {
	addOpt(q, "container", o.Container)
	o.EncodingParams.encode(q)
	addOpt(q, "maxWidth", o.MaxWidth)
	addOpt(q, "maxHeight", o.MaxHeight)
	addOpt(q, "enableSubtitlesInManifest", o.EnableSubtitlesInManifest)
	addOpt(q, "alwaysBurnInSubtitleWhenTranscoding", o.AlwaysBurnInSubtitleWhenTranscoding)
}

// MasterAudioPlaylistOptions are the optional parameters of the master audio
// playlist operations. EncodingParams.MediaSourceID is ignored; the required
// MediaSourceID of the request takes its place.
type MasterAudioPlaylistOptions struct {
	EncodingParams
	MaxStreamingBitrate            Optional[int]
	EnableAdaptiveBitrateStreaming Optional[bool]
}

func (o MasterAudioPlaylistOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxStreamingBitrate", o.MaxStreamingBitrate)
	addOpt(q, "enableAdaptiveBitrateStreaming", o.EnableAdaptiveBitrateStreaming)
}

// MasterVideoPlaylistOptions are the optional parameters of the master video
// playlist operations. EncodingParams.MediaSourceID is ignored; the required
// MediaSourceID of the request takes its place.
type MasterVideoPlaylistOptions struct {
	EncodingParams
	MaxWidth                            Optional[int]
	MaxHeight                           Optional[int]
	EnableAdaptiveBitrateStreaming      Optional[bool]
	EnableTrickplay                     Optional[bool]
	AlwaysBurnInSubtitleWhenTranscoding Optional[bool]
}

func (o MasterVideoPlaylistOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxWidth", o.MaxWidth)
	addOpt(q, "maxHeight", o.MaxHeight)
	addOpt(q, "enableAdaptiveBitrateStreaming", o.EnableAdaptiveBitrateStreaming)
	addOpt(q, "enableTrickplay", o.EnableTrickplay)
	addOpt(q, "alwaysBurnInSubtitleWhenTranscoding", o.AlwaysBurnInSubtitleWhenTranscoding)
}

// VariantAudioPlaylistOptions are the optional parameters of getVariantHlsAudioPlaylist.
type VariantAudioPlaylistOptions struct {
	EncodingParams
	MaxStreamingBitrate Optional[int]
}

func (o VariantAudioPlaylistOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxStreamingBitrate", o.MaxStreamingBitrate)
}

// VariantVideoPlaylistOptions are the optional parameters of getVariantHlsVideoPlaylist.
type VariantVideoPlaylistOptions struct {
	EncodingParams
	MaxWidth                            Optional[int]
	MaxHeight                           Optional[int]
	AlwaysBurnInSubtitleWhenTranscoding Optional[bool]
}

func (o VariantVideoPlaylistOptions) encode(q *queryBuilder) {
	o.EncodingParams.encode(q)
	addOpt(q, "maxWidth", o.MaxWidth)
	addOpt(q, "maxHeight", o.MaxHeight)
	addOpt(q, "alwaysBurnInSubtitleWhenTranscoding", o.AlwaysBurnInSubtitleWhenTranscoding)
}
