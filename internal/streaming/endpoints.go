// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import "net/http"

const (
	acceptAudio    = "audio/*, text/html"
	acceptVideo    = "video/*, text/html"
	acceptPlaylist = "application/x-mpegURL, text/html"
)

// Operation ids as the server's API description names them.
const (
	OpGetHlsAudioSegment         = "getHlsAudioSegment"
	OpGetHlsVideoSegment         = "getHlsVideoSegment"
	OpGetLiveHlsStream           = "getLiveHlsStream"
	OpGetMasterHlsAudioPlaylist  = "getMasterHlsAudioPlaylist"
	OpHeadMasterHlsAudioPlaylist = "headMasterHlsAudioPlaylist"
	OpGetMasterHlsVideoPlaylist  = "getMasterHlsVideoPlaylist"
	OpHeadMasterHlsVideoPlaylist = "headMasterHlsVideoPlaylist"
	OpGetVariantHlsAudioPlaylist = "getVariantHlsAudioPlaylist"
	OpGetVariantHlsVideoPlaylist = "getVariantHlsVideoPlaylist"
)

type endpoint struct {
	operationID string
	method      string
	template    string
	accept      string
}

var (
	epAudioSegment = endpoint{OpGetHlsAudioSegment, http.MethodGet, "/Audio/{itemId}/hls1/{playlistId}/{segmentId}.{container}", acceptAudio}
	epVideoSegment = endpoint{OpGetHlsVideoSegment, http.MethodGet, "/Videos/{itemId}/hls1/{playlistId}/{segmentId}.{container}", acceptVideo}
	epLiveStream   = endpoint{OpGetLiveHlsStream, http.MethodGet, "/Videos/{itemId}/live.m3u8", acceptPlaylist}

	epMasterAudio     = endpoint{OpGetMasterHlsAudioPlaylist, http.MethodGet, "/Audio/{itemId}/master.m3u8", acceptPlaylist}
	epMasterAudioHead = endpoint{OpHeadMasterHlsAudioPlaylist, http.MethodHead, "/Audio/{itemId}/master.m3u8", acceptPlaylist}
	epMasterVideo     = endpoint{OpGetMasterHlsVideoPlaylist, http.MethodGet, "/Videos/{itemId}/master.m3u8", acceptPlaylist}
	epMasterVideoHead = endpoint{OpHeadMasterHlsVideoPlaylist, http.MethodHead, "/Videos/{itemId}/master.m3u8", acceptPlaylist}

	epVariantAudio = endpoint{OpGetVariantHlsAudioPlaylist, http.MethodGet, "/Audio/{itemId}/main.m3u8", acceptPlaylist}
	epVariantVideo = endpoint{OpGetVariantHlsVideoPlaylist, http.MethodGet, "/Videos/{itemId}/main.m3u8", acceptPlaylist}
)
