// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/jfstream/internal/streaming"
	"github.com/ManuGH/jfstream/internal/streaming/streamingtest"
)

var testItem = uuid.MustParse("2f1b6c1e-3c0a-4d53-9d55-7a1f1b0c9e21")

func newTestClient(t *testing.T, baseURL string, mutate ...func(*streaming.Config)) (*streaming.Client, string) {
	t.Helper()
	tmp := t.TempDir()
	cfg := streaming.Config{BaseURL: baseURL, TempDir: tmp}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := streaming.New(cfg)
	require.NoError(t, err)
	return c, tmp
}

func newFake(t *testing.T) *streamingtest.FakeServer {
	t.Helper()
	srv := streamingtest.NewFakeServer()
	t.Cleanup(srv.Close)
	return srv
}

func videoSegment(id int) streaming.VideoSegmentRequest {
	return streaming.VideoSegmentRequest{SegmentRef: streaming.SegmentRef{
		ItemID:                   testItem,
		PlaylistID:               "main",
		SegmentID:                id,
		Container:                "ts",
		RuntimeTicks:             int64(id) * streamingtest.SegmentTicks,
		ActualSegmentLengthTicks: streamingtest.SegmentTicks,
	}}
}

func readFile(t *testing.T, f *streaming.DownloadedFile) string {
	t.Helper()
	require.NotNil(t, f)
	data, err := os.ReadFile(f.Path)
	require.NoError(t, err)
	return string(data)
}

type doerFunc func(*http.Request) (*http.Response, error)

func (f doerFunc) Do(r *http.Request) (*http.Response, error) { return f(r) }

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  streaming.Config
	}{
		{"empty base", streaming.Config{}},
		{"blank base", streaming.Config{BaseURL: "   "}},
		{"bad scheme", streaming.Config{BaseURL: "ftp://media"}},
		{"negative timeout", streaming.Config{BaseURL: "http://media", ReadTimeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := streaming.New(tt.cfg)
			assert.Error(t, err)
		})
	}

	c, err := streaming.New(streaming.Config{BaseURL: "https://media.example:8096/"})
	require.NoError(t, err)
	assert.Equal(t, "https://media.example:8096", c.BaseURL())
}

func TestGetHLSVideoSegment(t *testing.T) {
	srv := newFake(t)
	c, tmp := newTestClient(t, srv.URL)

	f, err := c.GetHLSVideoSegment(context.Background(), videoSegment(3), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Remove() })

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/Videos/"+testItem.String()+"/hls1/main/3.ts", reqs[0].Path)
	assert.Equal(t, "runtimeTicks=180000000&actualSegmentLengthTicks=60000000", reqs[0].RawQuery)
	assert.Equal(t, "video/*, text/html", reqs[0].Header.Get("Accept"))

	assert.Equal(t, "3.ts", f.Name())
	assert.Equal(t, streamingtest.SegmentBody("main", 3), readFile(t, f))
	assert.EqualValues(t, len(streamingtest.SegmentBody("main", 3)), f.Size)

	// the named file lives in its own fresh directory under TempDir
	dir := filepath.Dir(f.Path)
	assert.Equal(t, tmp, filepath.Dir(dir))
	assert.True(t, strings.HasPrefix(filepath.Base(dir), "jfstream-"))

	require.NoError(t, f.Remove())
	_, err = os.Stat(dir)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoError(t, f.Remove(), "second Remove is a no-op")
}

func TestGetHLSAudioSegment(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	req := streaming.AudioSegmentRequest{
		SegmentRef: streaming.SegmentRef{
			ItemID: testItem, PlaylistID: "main", SegmentID: 0, Container: "aac",
			RuntimeTicks: 0, ActualSegmentLengthTicks: streamingtest.SegmentTicks,
		},
		Options: streaming.AudioSegmentOptions{
			EncodingParams:      streaming.EncodingParams{AudioCodec: streaming.Some("aac")},
			MaxStreamingBitrate: streaming.Some(320000),
		},
	}
	f, err := c.GetHLSAudioSegment(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, streamingtest.RouteAudioSegment, reqs[0].Route)
	assert.Equal(t, "/Audio/"+testItem.String()+"/hls1/main/0.aac", reqs[0].Path)
	assert.Equal(t, "runtimeTicks=0&actualSegmentLengthTicks=60000000&audioCodec=aac&maxStreamingBitrate=320000", reqs[0].RawQuery)
	assert.Equal(t, "audio/*, text/html", reqs[0].Header.Get("Accept"))
	assert.Equal(t, "0.aac", f.Name())
}

func TestOptionalParametersFollowDeclarationOrder(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	req := videoSegment(0)
	req.Options = streaming.VideoSegmentOptions{
		EncodingParams: streaming.EncodingParams{
			VideoCodec:       streaming.Some("h264"),
			Static:           streaming.Some(false),
			AudioStreamIndex: streaming.Some(1),
			Width:            streaming.Some(0),
			SubtitleMethod:   streaming.Some(streaming.SubtitleEncode),
			Context:          streaming.Some(streaming.EncodingContextStreaming),
			DeviceID:         streaming.Some("living room"),
		},
		MaxWidth: streaming.Some(1920),
	}
	f, err := c.GetHLSVideoSegment(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()

	want := strings.Join([]string{
		"runtimeTicks=0",
		"actualSegmentLengthTicks=60000000",
		"static=false",
		"deviceId=living+room",
		"width=0",
		"subtitleMethod=Encode",
		"videoCodec=h264",
		"audioStreamIndex=1",
		"context=Streaming",
		"maxWidth=1920",
	}, "&")
	assert.Equal(t, want, srv.Requests()[0].RawQuery)
}

func TestStreamOptionsExpandSorted(t *testing.T) {
	var got []string
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		got = append(got, r.URL.RawQuery)
		return &http.Response{StatusCode: http.StatusNoContent, Header: http.Header{}, Body: http.NoBody}, nil
	})
	c, _ := newTestClient(t, "http://media.invalid", func(cfg *streaming.Config) { cfg.HTTPClient = doer })

	req := streaming.VariantVideoPlaylistRequest{ItemID: testItem}
	req.Options.StreamOptions = map[string]string{"b": "2", "a": "x y"}
	req.Options.EnableAudioVbrEncoding = streaming.Some(true)

	for range 2 {
		_, err := c.GetVariantHLSVideoPlaylist(context.Background(), req, nil)
		require.NoError(t, err)
	}
	want := "streamOptions[a]=x+y&streamOptions[b]=2&enableAudioVbrEncoding=true"
	if diff := cmp.Diff([]string{want, want}, got); diff != "" {
		t.Errorf("query mismatch (-want +got):\n%s", diff)
	}
}

func TestPathParametersAreEscaped(t *testing.T) {
	var escaped string
	doer := doerFunc(func(r *http.Request) (*http.Response, error) {
		escaped = r.URL.EscapedPath()
		return &http.Response{
			StatusCode:    http.StatusOK,
			Header:        http.Header{},
			Body:          io.NopCloser(strings.NewReader("x")),
			ContentLength: 1,
		}, nil
	})
	c, _ := newTestClient(t, "http://media.invalid", func(cfg *streaming.Config) { cfg.HTTPClient = doer })

	req := videoSegment(7)
	req.PlaylistID = "a b/c"
	f, err := c.GetHLSVideoSegment(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, "/Videos/"+testItem.String()+"/hls1/a%20b%2Fc/7.ts", escaped)
	assert.True(t, strings.HasPrefix(f.Name(), "download-"))
}

func TestMissingRequiredParameter(t *testing.T) {
	var calls atomic.Int32
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("must not be called")
	})
	c, _ := newTestClient(t, "http://media.invalid", func(cfg *streaming.Config) { cfg.HTTPClient = doer })
	ctx := context.Background()

	segment := func(mut func(*streaming.SegmentRef)) streaming.VideoSegmentRequest {
		r := videoSegment(1)
		mut(&r.SegmentRef)
		return r
	}

	tests := []struct {
		name    string
		call    func() error
		message string
	}{
		{"segment item", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.ItemID = uuid.Nil }), nil)
			return err
		}, "Missing the required parameter 'itemId' when calling getHlsVideoSegment"},
		{"segment playlist", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.PlaylistID = "" }), nil)
			return err
		}, "Missing the required parameter 'playlistId' when calling getHlsVideoSegment"},
		{"segment id", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.SegmentID = -1 }), nil)
			return err
		}, "Missing the required parameter 'segmentId' when calling getHlsVideoSegment"},
		{"segment container", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.Container = "" }), nil)
			return err
		}, "Missing the required parameter 'container' when calling getHlsVideoSegment"},
		{"segment runtime", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.RuntimeTicks = -1 }), nil)
			return err
		}, "Missing the required parameter 'runtimeTicks' when calling getHlsVideoSegment"},
		{"segment length", func() error {
			_, err := c.GetHLSVideoSegment(ctx, segment(func(r *streaming.SegmentRef) { r.ActualSegmentLengthTicks = -1 }), nil)
			return err
		}, "Missing the required parameter 'actualSegmentLengthTicks' when calling getHlsVideoSegment"},
		{"audio segment item", func() error {
			_, err := c.GetHLSAudioSegment(ctx, streaming.AudioSegmentRequest{}, nil)
			return err
		}, "Missing the required parameter 'itemId' when calling getHlsAudioSegment"},
		{"live item", func() error {
			_, err := c.GetLiveHLSStream(ctx, streaming.LiveStreamRequest{}, nil)
			return err
		}, "Missing the required parameter 'itemId' when calling getLiveHlsStream"},
		{"master audio source", func() error {
			_, err := c.GetMasterHLSAudioPlaylist(ctx, streaming.MasterAudioPlaylistRequest{ItemID: testItem}, nil)
			return err
		}, "Missing the required parameter 'mediaSourceId' when calling getMasterHlsAudioPlaylist"},
		{"head master audio item", func() error {
			_, err := c.HeadMasterHLSAudioPlaylist(ctx, streaming.MasterAudioPlaylistRequest{MediaSourceID: "src"}, nil)
			return err
		}, "Missing the required parameter 'itemId' when calling headMasterHlsAudioPlaylist"},
		{"master video source", func() error {
			_, err := c.GetMasterHLSVideoPlaylist(ctx, streaming.MasterVideoPlaylistRequest{ItemID: testItem}, nil)
			return err
		}, "Missing the required parameter 'mediaSourceId' when calling getMasterHlsVideoPlaylist"},
		{"head master video source", func() error {
			_, err := c.HeadMasterHLSVideoPlaylist(ctx, streaming.MasterVideoPlaylistRequest{ItemID: testItem}, nil)
			return err
		}, "Missing the required parameter 'mediaSourceId' when calling headMasterHlsVideoPlaylist"},
		{"variant audio item", func() error {
			_, err := c.GetVariantHLSAudioPlaylist(ctx, streaming.VariantAudioPlaylistRequest{}, nil)
			return err
		}, "Missing the required parameter 'itemId' when calling getVariantHlsAudioPlaylist"},
		{"variant video item", func() error {
			_, err := c.GetVariantHLSVideoPlaylist(ctx, streaming.VariantVideoPlaylistRequest{}, nil)
			return err
		}, "Missing the required parameter 'itemId' when calling getVariantHlsVideoPlaylist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())
			assert.ErrorIs(t, err, streaming.ErrMissingParameter)
			assert.Equal(t, http.StatusBadRequest, streaming.StatusCode(err))
		})
	}
	assert.Zero(t, calls.Load(), "validation must fail before any I/O")
}

func TestZeroValuedRequiredNumbersAreSent(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	req := videoSegment(0)
	req.ActualSegmentLengthTicks = 0
	f, err := c.GetHLSVideoSegment(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()
	assert.Equal(t, "runtimeTicks=0&actualSegmentLengthTicks=0", srv.Requests()[0].RawQuery)
}

func TestEveryOperationHitsItsRoute(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)
	ctx := context.Background()
	item := testItem.String()

	type hit struct {
		Method, Path, Accept string
	}
	tests := []struct {
		name string
		call func() (*streaming.DownloadedFile, error)
		want hit
	}{
		{"audio segment", func() (*streaming.DownloadedFile, error) {
			return c.GetHLSAudioSegment(ctx, streaming.AudioSegmentRequest{SegmentRef: videoSegment(2).SegmentRef}, nil)
		}, hit{"GET", "/Audio/" + item + "/hls1/main/2.ts", "audio/*, text/html"}},
		{"video segment", func() (*streaming.DownloadedFile, error) {
			return c.GetHLSVideoSegment(ctx, videoSegment(2), nil)
		}, hit{"GET", "/Videos/" + item + "/hls1/main/2.ts", "video/*, text/html"}},
		{"live", func() (*streaming.DownloadedFile, error) {
			return c.GetLiveHLSStream(ctx, streaming.LiveStreamRequest{ItemID: testItem}, nil)
		}, hit{"GET", "/Videos/" + item + "/live.m3u8", "application/x-mpegURL, text/html"}},
		{"master audio", func() (*streaming.DownloadedFile, error) {
			return c.GetMasterHLSAudioPlaylist(ctx, streaming.MasterAudioPlaylistRequest{ItemID: testItem, MediaSourceID: "src"}, nil)
		}, hit{"GET", "/Audio/" + item + "/master.m3u8", "application/x-mpegURL, text/html"}},
		{"master video", func() (*streaming.DownloadedFile, error) {
			return c.GetMasterHLSVideoPlaylist(ctx, streaming.MasterVideoPlaylistRequest{ItemID: testItem, MediaSourceID: "src"}, nil)
		}, hit{"GET", "/Videos/" + item + "/master.m3u8", "application/x-mpegURL, text/html"}},
		{"variant audio", func() (*streaming.DownloadedFile, error) {
			return c.GetVariantHLSAudioPlaylist(ctx, streaming.VariantAudioPlaylistRequest{ItemID: testItem}, nil)
		}, hit{"GET", "/Audio/" + item + "/main.m3u8", "application/x-mpegURL, text/html"}},
		{"variant video", func() (*streaming.DownloadedFile, error) {
			return c.GetVariantHLSVideoPlaylist(ctx, streaming.VariantVideoPlaylistRequest{ItemID: testItem}, nil)
		}, hit{"GET", "/Videos/" + item + "/main.m3u8", "application/x-mpegURL, text/html"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv.Reset()
			f, err := tt.call()
			require.NoError(t, err)
			require.NotNil(t, f)
			defer f.Remove()

			reqs := srv.Requests()
			require.Len(t, reqs, 1)
			got := hit{reqs[0].Method, reqs[0].Path, reqs[0].Header.Get("Accept")}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMasterPlaylistUsesRequiredMediaSource(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	req := streaming.MasterVideoPlaylistRequest{ItemID: testItem, MediaSourceID: "src"}
	req.Options.MediaSourceID = streaming.Some("ignored")
	req.Options.DeviceID = streaming.Some("d1")
	req.Options.EnableAdaptiveBitrateStreaming = streaming.Some(true)

	f, err := c.GetMasterHLSVideoPlaylist(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, "mediaSourceId=src&deviceId=d1&enableAdaptiveBitrateStreaming=true", srv.Requests()[0].RawQuery)
	assert.Equal(t, streamingtest.MasterPlaylist("src"), readFile(t, f))
}

func TestLiveStreamContainerComesFirst(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	req := streaming.LiveStreamRequest{ItemID: testItem}
	req.Options.Container = streaming.Some("ts")
	req.Options.DeviceID = streaming.Some("d1")
	req.Options.MaxHeight = streaming.Some(720)
	req.Options.EnableSubtitlesInManifest = streaming.Some(false)

	f, err := c.GetLiveHLSStream(context.Background(), req, nil)
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, "container=ts&deviceId=d1&maxHeight=720&enableSubtitlesInManifest=false", srv.Requests()[0].RawQuery)
}

func TestHeadMasterPlaylistHasNoPayload(t *testing.T) {
	srv := newFake(t)
	c, tmp := newTestClient(t, srv.URL)
	ctx := context.Background()

	resp, err := c.HeadMasterHLSAudioPlaylistWithResponse(ctx, streaming.MasterAudioPlaylistRequest{ItemID: testItem, MediaSourceID: "src"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, resp.Data)
	assert.Equal(t, "application/x-mpegURL", resp.Header.Get("Content-Type"))

	f, err := c.HeadMasterHLSVideoPlaylist(ctx, streaming.MasterVideoPlaylistRequest{ItemID: testItem, MediaSourceID: "src"}, nil)
	require.NoError(t, err)
	assert.Nil(t, f)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	for _, r := range reqs {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, "mediaSourceId=src", r.RawQuery)
	}
	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNoContentHasNoPayload(t *testing.T) {
	srv := newFake(t)
	srv.Override(streamingtest.RouteVariantAudio, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	c, _ := newTestClient(t, srv.URL)

	resp, err := c.GetVariantHLSAudioPlaylistWithResponse(context.Background(), streaming.VariantAudioPlaylistRequest{ItemID: testItem}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Nil(t, resp.Data)
}

func TestAnonymousDownload(t *testing.T) {
	srv := newFake(t)
	srv.SetContentDisposition(false)
	c, tmp := newTestClient(t, srv.URL)

	f, err := c.GetHLSVideoSegment(context.Background(), videoSegment(1), nil)
	require.NoError(t, err)
	assert.Equal(t, tmp, filepath.Dir(f.Path))
	assert.True(t, strings.HasPrefix(f.Name(), "download-"))
	assert.Equal(t, streamingtest.SegmentBody("main", 1), readFile(t, f))

	require.NoError(t, f.Remove())
	_, err = os.Stat(f.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRepeatedDownloadsDoNotCollide(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)
	ctx := context.Background()

	a, err := c.GetHLSVideoSegment(ctx, videoSegment(4), nil)
	require.NoError(t, err)
	defer a.Remove()
	b, err := c.GetHLSVideoSegment(ctx, videoSegment(4), nil)
	require.NoError(t, err)
	defer b.Remove()

	assert.Equal(t, a.Name(), b.Name())
	assert.NotEqual(t, a.Path, b.Path)
	assert.Equal(t, srv.Requests()[0].RawQuery, srv.Requests()[1].RawQuery)
}

func TestContentDispositionTraversalRejected(t *testing.T) {
	srv := newFake(t)
	srv.Override(streamingtest.RouteVideoSegment, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../escape.ts"`)
		_, _ = w.Write([]byte("payload"))
	})
	c, tmp := newTestClient(t, srv.URL)

	_, err := c.GetHLSVideoSegment(context.Background(), videoSegment(0), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, streaming.ErrMaterialize)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected download must not leave files behind")
}

func TestStatusErrors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        []byte
		sentinel    error
		wantBody    string
	}{
		{"not found", http.StatusNotFound, "application/json", []byte(`{"error":"not found"}`), streaming.ErrNotFound, `{"error":"not found"}`},
		{"forbidden", http.StatusForbidden, "text/plain", []byte("nope"), streaming.ErrForbidden, "nope"},
		{"unauthorized", http.StatusUnauthorized, "text/plain", []byte("login"), streaming.ErrForbidden, "login"},
		{"server error without body", http.StatusInternalServerError, "", nil, streaming.ErrUpstreamError, streaming.NoBody},
		{"latin-1 body", http.StatusBadRequest, "text/plain; charset=ISO-8859-1", []byte("caf\xe9"), streaming.ErrUnexpectedStatus, "café"},
		{"undeclared latin-1 body", http.StatusConflict, "application/octet-stream", []byte("na\xefve"), streaming.ErrUnexpectedStatus, "naïve"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFake(t)
			srv.Override(streamingtest.RouteVideoSegment, func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.Header().Set("X-Server", "fake")
				w.WriteHeader(tt.status)
				_, _ = w.Write(tt.body)
			})
			c, _ := newTestClient(t, srv.URL)

			f, err := c.GetHLSVideoSegment(context.Background(), videoSegment(0), nil)
			require.Error(t, err)
			assert.Nil(t, f)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *streaming.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Code)
			assert.Equal(t, tt.wantBody, apiErr.Body)
			assert.Equal(t, "fake", apiErr.Header.Get("X-Server"))
			assert.Equal(t, streaming.OpGetHlsVideoSegment+" call failed with: "+
				strconv.Itoa(tt.status)+" - "+tt.wantBody, err.Error())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	srv := newFake(t)
	srv.Override(streamingtest.RouteVideoSegment, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}`))
	})
	c, _ := newTestClient(t, srv.URL)

	_, err := c.GetHLSVideoSegment(context.Background(), videoSegment(0), nil)
	require.Error(t, err)
	assert.Equal(t, `getHlsVideoSegment call failed with: 404 - {"error":"not found"}`, err.Error())
	assert.Equal(t, http.StatusNotFound, streaming.StatusCode(err))
}

func TestProblemDetails(t *testing.T) {
	srv := newFake(t)
	srv.SetFailures(streamingtest.RouteVariantVideo, 1)
	c, _ := newTestClient(t, srv.URL)
	ctx := context.Background()
	req := streaming.VariantVideoPlaylistRequest{ItemID: testItem}

	_, err := c.GetVariantHLSVideoPlaylist(ctx, req, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, streaming.ErrUpstreamError)

	pd, ok := c.ProblemDetails(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, pd.Status)
	assert.Equal(t, "injected failure", pd.Detail)

	_, ok = c.ProblemDetails(errors.New("plain"))
	assert.False(t, ok)

	// the injected failure is consumed; the next call succeeds
	f, err := c.GetVariantHLSVideoPlaylist(ctx, req, nil)
	require.NoError(t, err)
	defer f.Remove()
	assert.Contains(t, readFile(t, f), "#EXT-X-ENDLIST")
}

func TestCustomHeaders(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	f, err := c.GetHLSVideoSegment(context.Background(), videoSegment(0), map[string]string{
		"X-Trace": "abc",
		"Accept":  "video/mp2t",
	})
	require.NoError(t, err)
	defer f.Remove()

	h := srv.Requests()[0].Header
	assert.Equal(t, "abc", h.Get("X-Trace"))
	assert.Equal(t, "video/mp2t", h.Get("Accept"))
}

func TestInterceptors(t *testing.T) {
	srv := newFake(t)
	var ops []string
	var statuses []int
	c, _ := newTestClient(t, srv.URL, func(cfg *streaming.Config) {
		cfg.RequestInterceptor = func(r *http.Request) {
			r.Header.Set("X-Emby-Token", "secret")
			ops = append(ops, streaming.OperationFromContext(r.Context()))
		}
		cfg.ResponseInterceptor = func(r *http.Response) {
			statuses = append(statuses, r.StatusCode)
		}
	})

	f, err := c.GetLiveHLSStream(context.Background(), streaming.LiveStreamRequest{ItemID: testItem}, nil)
	require.NoError(t, err)
	defer f.Remove()

	assert.Equal(t, []string{streaming.OpGetLiveHlsStream}, ops)
	assert.Equal(t, []int{http.StatusOK}, statuses)
	assert.Equal(t, "secret", srv.Requests()[0].Header.Get("X-Emby-Token"))
	assert.Empty(t, streaming.OperationFromContext(context.Background()))
}

func TestReadTimeout(t *testing.T) {
	srv := newFake(t)
	srv.SetDelay(streamingtest.RouteVideoSegment, 5*time.Second)
	c, tmp := newTestClient(t, srv.URL, func(cfg *streaming.Config) { cfg.ReadTimeout = 50 * time.Millisecond })

	start := time.Now()
	_, err := c.GetHLSVideoSegment(context.Background(), videoSegment(0), nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)
	assert.ErrorIs(t, err, streaming.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, streaming.StatusCode(err))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCanceledContext(t *testing.T) {
	srv := newFake(t)
	c, _ := newTestClient(t, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetHLSVideoSegment(ctx, videoSegment(0), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, streaming.ErrCanceled)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransportFailure(t *testing.T) {
	doer := doerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	c, _ := newTestClient(t, "http://media.invalid", func(cfg *streaming.Config) { cfg.HTTPClient = doer })

	_, err := c.GetLiveHLSStream(context.Background(), streaming.LiveStreamRequest{ItemID: testItem}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, streaming.ErrTransport)
	assert.Equal(t, "getLiveHlsStream call failed: connection refused", err.Error())
}
