// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/jfstream/internal/hooks"
	"github.com/ManuGH/jfstream/internal/streaming"
)

type segmentFlags struct {
	playlistID   string
	segmentID    int
	container    string
	runtimeTicks int64
	lengthTicks  int64
}

func (f *segmentFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.playlistID, "playlist-id", "", "playlist id from the variant playlist")
	fs.IntVar(&f.segmentID, "segment-id", -1, "segment index")
	fs.StringVar(&f.container, "container", "ts", "segment container")
	fs.Int64Var(&f.runtimeTicks, "runtime-ticks", -1, "segment start in 100ns ticks")
	fs.Int64Var(&f.lengthTicks, "length-ticks", -1, "segment length in 100ns ticks")
	_ = cmd.MarkFlagRequired("playlist-id")
	_ = cmd.MarkFlagRequired("segment-id")
}

func (f *segmentFlags) ref(args []string) (streaming.SegmentRef, error) {
	id, err := parseItemID(args[0])
	if err != nil {
		return streaming.SegmentRef{}, err
	}
	return streaming.SegmentRef{
		ItemID:                   id,
		PlaylistID:               f.playlistID,
		SegmentID:                f.segmentID,
		Container:                f.container,
		RuntimeTicks:             f.runtimeTicks,
		ActualSegmentLengthTicks: f.lengthTicks,
	}, nil
}

func (a *app) segmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "segment",
		Short: "Download a single HLS segment",
	}
	cmd.AddCommand(a.segmentVideoCmd(), a.segmentAudioCmd())
	return cmd
}

func (a *app) segmentVideoCmd() *cobra.Command {
	var (
		seg  segmentFlags
		enc  encodingFlags
		size sizeFlags
	)
	cmd := &cobra.Command{
		Use:   "video ITEM_ID",
		Short: "Download one video segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := seg.ref(args)
			if err != nil {
				return err
			}
			params, err := enc.params(a.cfg.Server.DeviceID)
			if err != nil {
				return err
			}
			req := streaming.VideoSegmentRequest{
				SegmentRef: ref,
				Options: streaming.VideoSegmentOptions{
					EncodingParams:                      params,
					MaxWidth:                            opt(size.fs, "max-width", size.maxWidth),
					MaxHeight:                           opt(size.fs, "max-height", size.maxHeight),
					AlwaysBurnInSubtitleWhenTranscoding: opt(size.fs, "burn-in-subtitles", size.burnIn),
				},
			}
			start := time.Now()
			resp, err := a.client.GetHLSVideoSegmentWithResponse(cmd.Context(), req, nil)
			if err != nil {
				hooks.RecordFailure(streaming.OpGetHlsVideoSegment, err, time.Since(start))
				return err
			}
			return a.deliver(resp)
		},
	}
	seg.register(cmd)
	enc.register(cmd.Flags())
	size.register(cmd.Flags())
	return cmd
}

func (a *app) segmentAudioCmd() *cobra.Command {
	var (
		seg        segmentFlags
		enc        encodingFlags
		maxBitrate int
	)
	cmd := &cobra.Command{
		Use:   "audio ITEM_ID",
		Short: "Download one audio segment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := seg.ref(args)
			if err != nil {
				return err
			}
			params, err := enc.params(a.cfg.Server.DeviceID)
			if err != nil {
				return err
			}
			req := streaming.AudioSegmentRequest{
				SegmentRef: ref,
				Options: streaming.AudioSegmentOptions{
					EncodingParams:      params,
					MaxStreamingBitrate: opt(cmd.Flags(), "max-streaming-bitrate", maxBitrate),
				},
			}
			start := time.Now()
			resp, err := a.client.GetHLSAudioSegmentWithResponse(cmd.Context(), req, nil)
			if err != nil {
				hooks.RecordFailure(streaming.OpGetHlsAudioSegment, err, time.Since(start))
				return err
			}
			return a.deliver(resp)
		},
	}
	seg.register(cmd)
	enc.register(cmd.Flags())
	cmd.Flags().IntVar(&maxBitrate, "max-streaming-bitrate", 0, "maximum streaming bitrate")
	return cmd
}
