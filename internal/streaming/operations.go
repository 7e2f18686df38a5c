// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package streaming

import (
	"context"
	"net/http"
)

// Every operation comes in three shapes: Op returns the payload, OpWithResponse
// returns the envelope, and newOpRequest builds the wire request. headers may
// be nil; entries are added after Accept and override it on a name clash.

// GetHLSAudioSegment downloads one audio segment.
func (c *Client) GetHLSAudioSegment(ctx context.Context, req AudioSegmentRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetHLSAudioSegmentWithResponse(ctx, req, headers))
}

// GetHLSAudioSegmentWithResponse downloads one audio segment and returns the envelope.
func (c *Client) GetHLSAudioSegmentWithResponse(ctx context.Context, req AudioSegmentRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetHlsAudioSegment, func(ctx context.Context) (*http.Request, error) {
		return c.newGetHLSAudioSegmentRequest(ctx, req, headers)
	})
}

func (c *Client) newGetHLSAudioSegmentRequest(ctx context.Context, req AudioSegmentRequest, headers map[string]string) (*http.Request, error) {
	if err := req.validate(OpGetHlsAudioSegment); err != nil {
		return nil, err
	}
	q := &queryBuilder{}
	req.SegmentRef.encode(q)
	req.Options.encode(q)
	return c.newRequest(ctx, epAudioSegment, req.pathParams(), q, headers)
}

// GetHLSVideoSegment downloads one video segment.
func (c *Client) GetHLSVideoSegment(ctx context.Context, req VideoSegmentRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetHLSVideoSegmentWithResponse(ctx, req, headers))
}

// GetHLSVideoSegmentWithResponse downloads one video segment and returns the envelope.
func (c *Client) GetHLSVideoSegmentWithResponse(ctx context.Context, req VideoSegmentRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetHlsVideoSegment, func(ctx context.Context) (*http.Request, error) {
		return c.newGetHLSVideoSegmentRequest(ctx, req, headers)
	})
}

func (c *Client) newGetHLSVideoSegmentRequest(ctx context.Context, req VideoSegmentRequest, headers map[string]string) (*http.Request, error) {
	if err := req.validate(OpGetHlsVideoSegment); err != nil {
		return nil, err
	}
	q := &queryBuilder{}
	req.SegmentRef.encode(q)
	req.Options.encode(q)
	return c.newRequest(ctx, epVideoSegment, req.pathParams(), q, headers)
}

// GetLiveHLSStream starts (or joins) a live transcode and returns its playlist.
func (c *Client) GetLiveHLSStream(ctx context.Context, req LiveStreamRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetLiveHLSStreamWithResponse(ctx, req, headers))
}

// GetLiveHLSStreamWithResponse is GetLiveHLSStream returning the envelope.
func (c *Client) GetLiveHLSStreamWithResponse(ctx context.Context, req LiveStreamRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetLiveHlsStream, func(ctx context.Context) (*http.Request, error) {
		return c.newGetLiveHLSStreamRequest(ctx, req, headers)
	})
}

func (c *Client) newGetLiveHLSStreamRequest(ctx context.Context, req LiveStreamRequest, headers map[string]string) (*http.Request, error) {
	if err := requireItem(OpGetLiveHlsStream, req.ItemID); err != nil {
		return nil, err
	}
	q := &queryBuilder{}
	req.Options.encode(q)
	return c.newRequest(ctx, epLiveStream, itemPath(req.ItemID), q, headers)
}

// GetMasterHLSAudioPlaylist downloads the master audio playlist.
func (c *Client) GetMasterHLSAudioPlaylist(ctx context.Context, req MasterAudioPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetMasterHLSAudioPlaylistWithResponse(ctx, req, headers))
}

// GetMasterHLSAudioPlaylistWithResponse is GetMasterHLSAudioPlaylist returning the envelope.
func (c *Client) GetMasterHLSAudioPlaylistWithResponse(ctx context.Context, req MasterAudioPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetMasterHlsAudioPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newMasterHLSAudioPlaylistRequest(ctx, epMasterAudio, req, headers)
	})
}

// HeadMasterHLSAudioPlaylist probes the master audio playlist. A successful
// HEAD carries no body, so the file is normally nil.
func (c *Client) HeadMasterHLSAudioPlaylist(ctx context.Context, req MasterAudioPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.HeadMasterHLSAudioPlaylistWithResponse(ctx, req, headers))
}

// HeadMasterHLSAudioPlaylistWithResponse is HeadMasterHLSAudioPlaylist returning the envelope.
func (c *Client) HeadMasterHLSAudioPlaylistWithResponse(ctx context.Context, req MasterAudioPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpHeadMasterHlsAudioPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newMasterHLSAudioPlaylistRequest(ctx, epMasterAudioHead, req, headers)
	})
}

func (c *Client) newMasterHLSAudioPlaylistRequest(ctx context.Context, ep endpoint, req MasterAudioPlaylistRequest, headers map[string]string) (*http.Request, error) {
	if err := requireMaster(ep.operationID, req.ItemID, req.MediaSourceID); err != nil {
		return nil, err
	}
	opts := req.Options
	opts.MediaSourceID = Some(req.MediaSourceID)
	q := &queryBuilder{}
	opts.encode(q)
	return c.newRequest(ctx, ep, itemPath(req.ItemID), q, headers)
}

// GetMasterHLSVideoPlaylist downloads the master video playlist.
func (c *Client) GetMasterHLSVideoPlaylist(ctx context.Context, req MasterVideoPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetMasterHLSVideoPlaylistWithResponse(ctx, req, headers))
}

// GetMasterHLSVideoPlaylistWithResponse is GetMasterHLSVideoPlaylist returning the envelope.
func (c *Client) GetMasterHLSVideoPlaylistWithResponse(ctx context.Context, req MasterVideoPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetMasterHlsVideoPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newMasterHLSVideoPlaylistRequest(ctx, epMasterVideo, req, headers)
	})
}

// HeadMasterHLSVideoPlaylist probes the master video playlist.
func (c *Client) HeadMasterHLSVideoPlaylist(ctx context.Context, req MasterVideoPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.HeadMasterHLSVideoPlaylistWithResponse(ctx, req, headers))
}

// HeadMasterHLSVideoPlaylistWithResponse is HeadMasterHLSVideoPlaylist returning the envelope.
func (c *Client) HeadMasterHLSVideoPlaylistWithResponse(ctx context.Context, req MasterVideoPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpHeadMasterHlsVideoPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newMasterHLSVideoPlaylistRequest(ctx, epMasterVideoHead, req, headers)
	})
}

func (c *Client) newMasterHLSVideoPlaylistRequest(ctx context.Context, ep endpoint, req MasterVideoPlaylistRequest, headers map[string]string) (*http.Request, error) {
	if err := requireMaster(ep.operationID, req.ItemID, req.MediaSourceID); err != nil {
		return nil, err
	}
	opts := req.Options
	opts.MediaSourceID = Some(req.MediaSourceID)
	q := &queryBuilder{}
	opts.encode(q)
	return c.newRequest(ctx, ep, itemPath(req.ItemID), q, headers)
}

// GetVariantHLSAudioPlaylist downloads the variant (media) audio playlist.
func (c *Client) GetVariantHLSAudioPlaylist(ctx context.Context, req VariantAudioPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetVariantHLSAudioPlaylistWithResponse(ctx, req, headers))
}

// GetVariantHLSAudioPlaylistWithResponse is GetVariantHLSAudioPlaylist returning the envelope.
func (c *Client) GetVariantHLSAudioPlaylistWithResponse(ctx context.Context, req VariantAudioPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetVariantHlsAudioPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newGetVariantHLSAudioPlaylistRequest(ctx, req, headers)
	})
}

func (c *Client) newGetVariantHLSAudioPlaylistRequest(ctx context.Context, req VariantAudioPlaylistRequest, headers map[string]string) (*http.Request, error) {
	if err := requireItem(OpGetVariantHlsAudioPlaylist, req.ItemID); err != nil {
		return nil, err
	}
	q := &queryBuilder{}
	req.Options.encode(q)
	return c.newRequest(ctx, epVariantAudio, itemPath(req.ItemID), q, headers)
}

// GetVariantHLSVideoPlaylist downloads the variant (media) video playlist.
func (c *Client) GetVariantHLSVideoPlaylist(ctx context.Context, req VariantVideoPlaylistRequest, headers map[string]string) (*DownloadedFile, error) {
	return payload(c.GetVariantHLSVideoPlaylistWithResponse(ctx, req, headers))
}

// GetVariantHLSVideoPlaylistWithResponse is GetVariantHLSVideoPlaylist returning the envelope.
func (c *Client) GetVariantHLSVideoPlaylistWithResponse(ctx context.Context, req VariantVideoPlaylistRequest, headers map[string]string) (*Response[*DownloadedFile], error) {
	return c.dispatch(ctx, OpGetVariantHlsVideoPlaylist, func(ctx context.Context) (*http.Request, error) {
		return c.newGetVariantHLSVideoPlaylistRequest(ctx, req, headers)
	})
}

func (c *Client) newGetVariantHLSVideoPlaylistRequest(ctx context.Context, req VariantVideoPlaylistRequest, headers map[string]string) (*http.Request, error) {
	if err := requireItem(OpGetVariantHlsVideoPlaylist, req.ItemID); err != nil {
		return nil, err
	}
	q := &queryBuilder{}
	req.Options.encode(q)
	return c.newRequest(ctx, epVariantVideo, itemPath(req.ItemID), q, headers)
}

func payload(resp *Response[*DownloadedFile], err error) (*DownloadedFile, error) {
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
