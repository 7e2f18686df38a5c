// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package streamingtest provides a configurable fake media server that serves
// the dynamic HLS endpoints for tests.
package streamingtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// Route patterns, usable with Override, SetFailures and SetDelay.
const (
	RouteAudioSegment = "/Audio/{itemId}/hls1/{playlistId}/{segment}"
	RouteVideoSegment = "/Videos/{itemId}/hls1/{playlistId}/{segment}"
	RouteLiveStream   = "/Videos/{itemId}/live.m3u8"
	RouteMasterAudio  = "/Audio/{itemId}/master.m3u8"
	RouteMasterVideo  = "/Videos/{itemId}/master.m3u8"
	RouteVariantAudio = "/Audio/{itemId}/main.m3u8"
	RouteVariantVideo = "/Videos/{itemId}/main.m3u8"
)

// SegmentTicks is the length of every fake segment: six seconds in 100ns ticks.
const SegmentTicks int64 = 60_000_000

// RecordedRequest is what the server saw for one call.
type RecordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Route    string
}

// FakeServer serves deterministic playlists and segments.
type FakeServer struct {
	*httptest.Server

	mu           sync.Mutex
	requests     []RecordedRequest
	overrides    map[string]http.HandlerFunc
	failures     map[string]int
	delay        map[string]time.Duration
	segmentCount int
	disposition  bool
}

// NewFakeServer starts a fake server. Close it when done.
func NewFakeServer() *FakeServer {
	s := &FakeServer{}
	s.resetNoLock()

	r := chi.NewRouter()
	r.Get(RouteAudioSegment, s.route(RouteAudioSegment, s.handleSegment("audio/aac")))
	r.Get(RouteVideoSegment, s.route(RouteVideoSegment, s.handleSegment("video/mp2t")))
	r.Get(RouteLiveStream, s.route(RouteLiveStream, s.handleMediaPlaylist(false)))
	r.Get(RouteMasterAudio, s.route(RouteMasterAudio, s.handleMaster))
	r.Head(RouteMasterAudio, s.route(RouteMasterAudio, s.handleMaster))
	r.Get(RouteMasterVideo, s.route(RouteMasterVideo, s.handleMaster))
	r.Head(RouteMasterVideo, s.route(RouteMasterVideo, s.handleMaster))
	r.Get(RouteVariantAudio, s.route(RouteVariantAudio, s.handleMediaPlaylist(true)))
	r.Get(RouteVariantVideo, s.route(RouteVariantVideo, s.handleMediaPlaylist(true)))

	s.Server = httptest.NewServer(r)
	return s
}

// Override replaces the handler of a route until Reset.
func (s *FakeServer) Override(route string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[route] = h
}

// SetFailures makes the next count calls of route answer 500.
func (s *FakeServer) SetFailures(route string, count int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = count
}

// SetDelay delays every response of route by d, or until the client gives up.
func (s *FakeServer) SetDelay(route string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay[route] = d
}

// SetSegmentCount sets how many segments variant playlists list.
func (s *FakeServer) SetSegmentCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.segmentCount = n
}

// SetContentDisposition toggles the Content-Disposition header on segments.
func (s *FakeServer) SetContentDisposition(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposition = enabled
}

// Requests returns a copy of everything received so far.
func (s *FakeServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// Hits counts the requests received for route.
func (s *FakeServer) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if r.Route == route {
			n++
		}
	}
	return n
}

// Reset clears recorded requests and all configuration.
func (s *FakeServer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetNoLock()
}

func (s *FakeServer) resetNoLock() {
	s.requests = nil
	s.overrides = make(map[string]http.HandlerFunc)
	s.failures = make(map[string]int)
	s.delay = make(map[string]time.Duration)
	s.segmentCount = 3
	s.disposition = true
}

// route records the request, then applies delay, injected failures and
// overrides before falling back to the default handler.
func (s *FakeServer) route(pattern string, def http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RecordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Route:    pattern,
		})
		delay := s.delay[pattern]
		fail := s.failures[pattern] > 0
		if fail {
			s.failures[pattern]--
		}
		override := s.overrides[pattern]
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if fail {
			writeProblem(w, http.StatusInternalServerError, "injected failure")
			return
		}
		if override != nil {
			override(w, r)
			return
		}
		def(w, r)
	}
}

func (s *FakeServer) handleSegment(contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playlistID := chi.URLParam(r, "playlistId")
		idPart, container, ok := strings.Cut(chi.URLParam(r, "segment"), ".")
		id, err := strconv.Atoi(idPart)
		if !ok || err != nil || container == "" {
			writeProblem(w, http.StatusBadRequest, "malformed segment name")
			return
		}
		q := r.URL.Query()
		if q.Get("runtimeTicks") == "" || q.Get("actualSegmentLengthTicks") == "" {
			writeProblem(w, http.StatusBadRequest, "runtimeTicks and actualSegmentLengthTicks are required")
			return
		}

		s.mu.Lock()
		disposition := s.disposition
		s.mu.Unlock()

		w.Header().Set("Content-Type", contentType)
		if disposition {
			w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%d.%s"`, id, container))
		}
		_, _ = w.Write([]byte(SegmentBody(playlistID, id)))
	}
}

func (s *FakeServer) handleMaster(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("mediaSourceId") == "" {
		writeProblem(w, http.StatusBadRequest, "mediaSourceId is required")
		return
	}
	body := MasterPlaylist(r.URL.Query().Get("mediaSourceId"))
	w.Header().Set("Content-Type", "application/x-mpegURL")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(body))
}

func (s *FakeServer) handleMediaPlaylist(vod bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		n := s.segmentCount
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/x-mpegURL")
		_, _ = w.Write([]byte(MediaPlaylist("main", "ts", n, vod)))
	}
}

// SegmentBody is the payload served for a segment.
func SegmentBody(playlistID string, segmentID int) string {
	return fmt.Sprintf("segment-%s-%d", playlistID, segmentID)
}

// MasterPlaylist renders a two-variant master playlist.
func MasterPlaylist(mediaSourceID string) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	b.WriteString("#EXT-X-STREAM-INF:BANDWIDTH=4000000,AVERAGE-BANDWIDTH=4000000,RESOLUTION=1920x1080,CODECS=\"avc1.640028,mp4a.40.2\"\n")
	fmt.Fprintf(&b, "main.m3u8?mediaSourceId=%s&videoBitRate=3800000\n", mediaSourceID)
	b.WriteString("#EXT-X-STREAM-INF:BANDWIDTH=1500000,AVERAGE-BANDWIDTH=1500000,RESOLUTION=1280x720,CODECS=\"avc1.64001f,mp4a.40.2\"\n")
	fmt.Fprintf(&b, "main.m3u8?mediaSourceId=%s&videoBitRate=1300000\n", mediaSourceID)
	return b.String()
}

// MediaPlaylist renders a playlist of n six-second segments in the server's
// hls1/{playlistId}/{segmentId}.{container} form. Live playlists carry no
// ENDLIST tag.
func MediaPlaylist(playlistID, container string, n int, vod bool) string {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	if vod {
		b.WriteString("#EXT-X-PLAYLIST-TYPE:VOD\n")
	} else {
		b.WriteString("#EXT-X-PLAYLIST-TYPE:EVENT\n")
	}
	b.WriteString("#EXT-X-VERSION:3\n")
	b.WriteString("#EXT-X-TARGETDURATION:6\n")
	b.WriteString("#EXT-X-MEDIA-SEQUENCE:0\n")
	for i := 0; i < n; i++ {
		b.WriteString("#EXTINF:6.000000, nodesc\n")
		fmt.Fprintf(&b, "hls1/%s/%d.%s?runtimeTicks=%d&actualSegmentLengthTicks=%d\n",
			playlistID, i, container, int64(i)*SegmentTicks, SegmentTicks)
	}
	if vod {
		b.WriteString("#EXT-X-ENDLIST\n")
	}
	return b.String()
}

func writeProblem(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
