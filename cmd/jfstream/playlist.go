// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/jfstream/internal/hooks"
	"github.com/ManuGH/jfstream/internal/streaming"
)

func (a *app) playlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Download master or variant playlists",
	}
	cmd.AddCommand(a.playlistMasterCmd(), a.playlistVariantCmd())
	return cmd
}

func (a *app) playlistMasterCmd() *cobra.Command {
	var (
		enc           encodingFlags
		size          sizeFlags
		audio         bool
		head          bool
		mediaSourceID string
		maxBitrate    int
		adaptive      bool
		trickplay     bool
	)
	cmd := &cobra.Command{
		Use:   "master ITEM_ID",
		Short: "Download (or probe with --head) the master playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			params, err := enc.params(a.cfg.Server.DeviceID)
			if err != nil {
				return err
			}
			fs := cmd.Flags()

			var (
				op   string
				resp *streaming.Response[*streaming.DownloadedFile]
			)
			start := time.Now()
			if audio {
				req := streaming.MasterAudioPlaylistRequest{
					ItemID:        id,
					MediaSourceID: mediaSourceID,
					Options: streaming.MasterAudioPlaylistOptions{
						EncodingParams:                 params,
						MaxStreamingBitrate:            opt(fs, "max-streaming-bitrate", maxBitrate),
						EnableAdaptiveBitrateStreaming: opt(fs, "adaptive", adaptive),
					},
				}
				if head {
					op = streaming.OpHeadMasterHlsAudioPlaylist
					resp, err = a.probe.HeadMasterHLSAudioPlaylistWithResponse(cmd.Context(), req, nil)
				} else {
					op = streaming.OpGetMasterHlsAudioPlaylist
					resp, err = a.client.GetMasterHLSAudioPlaylistWithResponse(cmd.Context(), req, nil)
				}
			} else {
				req := streaming.MasterVideoPlaylistRequest{
					ItemID:        id,
					MediaSourceID: mediaSourceID,
					Options: streaming.MasterVideoPlaylistOptions{
						EncodingParams:                      params,
						MaxWidth:                            opt(fs, "max-width", size.maxWidth),
						MaxHeight:                           opt(fs, "max-height", size.maxHeight),
						EnableAdaptiveBitrateStreaming:      opt(fs, "adaptive", adaptive),
						EnableTrickplay:                     opt(fs, "trickplay", trickplay),
						AlwaysBurnInSubtitleWhenTranscoding: opt(fs, "burn-in-subtitles", size.burnIn),
					},
				}
				if head {
					op = streaming.OpHeadMasterHlsVideoPlaylist
					resp, err = a.probe.HeadMasterHLSVideoPlaylistWithResponse(cmd.Context(), req, nil)
				} else {
					op = streaming.OpGetMasterHlsVideoPlaylist
					resp, err = a.client.GetMasterHLSVideoPlaylistWithResponse(cmd.Context(), req, nil)
				}
			}
			if err != nil {
				hooks.RecordFailure(op, err, time.Since(start))
				return err
			}
			return a.deliver(resp)
		},
	}
	enc.register(cmd.Flags())
	size.register(cmd.Flags())
	fs := cmd.Flags()
	// the required media source id replaces the optional encoding flag
	fs.StringVar(&mediaSourceID, "source", "", "media source id (required)")
	fs.BoolVar(&audio, "audio", false, "use the audio endpoint")
	fs.BoolVar(&head, "head", false, "send HEAD and print the response headers")
	fs.IntVar(&maxBitrate, "max-streaming-bitrate", 0, "maximum streaming bitrate (audio)")
	fs.BoolVar(&adaptive, "adaptive", false, "enable adaptive bitrate streaming")
	fs.BoolVar(&trickplay, "trickplay", false, "enable trickplay (video)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) playlistVariantCmd() *cobra.Command {
	var (
		enc        encodingFlags
		size       sizeFlags
		audio      bool
		maxBitrate int
	)
	cmd := &cobra.Command{
		Use:   "variant ITEM_ID",
		Short: "Download the variant (media) playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			params, err := enc.params(a.cfg.Server.DeviceID)
			if err != nil {
				return err
			}
			fs := cmd.Flags()

			var (
				op   string
				resp *streaming.Response[*streaming.DownloadedFile]
			)
			start := time.Now()
			if audio {
				op = streaming.OpGetVariantHlsAudioPlaylist
				resp, err = a.client.GetVariantHLSAudioPlaylistWithResponse(cmd.Context(), streaming.VariantAudioPlaylistRequest{
					ItemID: id,
					Options: streaming.VariantAudioPlaylistOptions{
						EncodingParams:      params,
						MaxStreamingBitrate: opt(fs, "max-streaming-bitrate", maxBitrate),
					},
				}, nil)
			} else {
				op = streaming.OpGetVariantHlsVideoPlaylist
				resp, err = a.client.GetVariantHLSVideoPlaylistWithResponse(cmd.Context(), streaming.VariantVideoPlaylistRequest{
					ItemID: id,
					Options: streaming.VariantVideoPlaylistOptions{
						EncodingParams:                      params,
						MaxWidth:                            opt(fs, "max-width", size.maxWidth),
						MaxHeight:                           opt(fs, "max-height", size.maxHeight),
						AlwaysBurnInSubtitleWhenTranscoding: opt(fs, "burn-in-subtitles", size.burnIn),
					},
				}, nil)
			}
			if err != nil {
				hooks.RecordFailure(op, err, time.Since(start))
				return err
			}
			return a.deliver(resp)
		},
	}
	enc.register(cmd.Flags())
	size.register(cmd.Flags())
	cmd.Flags().BoolVar(&audio, "audio", false, "use the audio endpoint")
	cmd.Flags().IntVar(&maxBitrate, "max-streaming-bitrate", 0, "maximum streaming bitrate (audio)")
	return cmd
}

func (a *app) liveCmd() *cobra.Command {
	var (
		enc       encodingFlags
		size      sizeFlags
		container string
		subtitles bool
	)
	cmd := &cobra.Command{
		Use:   "live ITEM_ID",
		Short: "Start or join a live transcode and download its playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			params, err := enc.params(a.cfg.Server.DeviceID)
			if err != nil {
				return err
			}
			fs := cmd.Flags()
			start := time.Now()
			resp, err := a.client.GetLiveHLSStreamWithResponse(cmd.Context(), streaming.LiveStreamRequest{
				ItemID: id,
				Options: streaming.LiveStreamOptions{
					Container:                           opt(fs, "container", container),
					EncodingParams:                      params,
					MaxWidth:                            opt(fs, "max-width", size.maxWidth),
					MaxHeight:                           opt(fs, "max-height", size.maxHeight),
					EnableSubtitlesInManifest:           opt(fs, "subtitles-in-manifest", subtitles),
					AlwaysBurnInSubtitleWhenTranscoding: opt(fs, "burn-in-subtitles", size.burnIn),
				},
			}, nil)
			if err != nil {
				hooks.RecordFailure(streaming.OpGetLiveHlsStream, err, time.Since(start))
				return err
			}
			return a.deliver(resp)
		},
	}
	enc.register(cmd.Flags())
	size.register(cmd.Flags())
	cmd.Flags().StringVar(&container, "container", "", "output container")
	cmd.Flags().BoolVar(&subtitles, "subtitles-in-manifest", false, "list subtitles in the manifest")
	return cmd
}
