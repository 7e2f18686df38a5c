// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/jfstream/internal/mirror"
	"github.com/ManuGH/jfstream/internal/streaming"
)

func (a *app) mirrorCmd() *cobra.Command {
	var (
		enc          encodingFlags
		size         sizeFlags
		audio        bool
		name         string
		skipExisting bool
		concurrency  int
		rps          float64
	)
	cmd := &cobra.Command{
		Use:   "mirror ITEM_ID",
		Short: "Copy a variant playlist and all its segments to the output directory",
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
			if a.cfg.Download.OutputDir == "" {
				return errors.New("mirror needs download.outputDir (or JFSTREAM_OUTPUT_DIR)")
			}

			opts := mirror.Options{
				OutputDir:         a.cfg.Download.OutputDir,
				Concurrency:       a.cfg.Download.Concurrency,
				RequestsPerSecond: a.cfg.Download.RequestsPerSecond,
			}
			if fs.Changed("concurrency") {
				opts.Concurrency = concurrency
			}
			if fs.Changed("rps") {
				opts.RequestsPerSecond = rps
			}
			m, err := mirror.New(a.client, opts)
			if err != nil {
				return err
			}

			maxWidth := opt(fs, "max-width", size.maxWidth)
			maxHeight := opt(fs, "max-height", size.maxHeight)
			burnIn := opt(fs, "burn-in-subtitles", size.burnIn)
			job := mirror.VariantJob{
				ItemID:       id,
				Audio:        audio,
				Name:         name,
				SkipExisting: skipExisting,
				VideoPlaylist: streaming.VariantVideoPlaylistOptions{
					EncodingParams:                      params,
					MaxWidth:                            maxWidth,
					MaxHeight:                           maxHeight,
					AlwaysBurnInSubtitleWhenTranscoding: burnIn,
				},
				AudioPlaylist: streaming.VariantAudioPlaylistOptions{EncodingParams: params},
				VideoSegment: streaming.VideoSegmentOptions{
					EncodingParams:                      params,
					MaxWidth:                            maxWidth,
					MaxHeight:                           maxHeight,
					AlwaysBurnInSubtitleWhenTranscoding: burnIn,
				},
				AudioSegment: streaming.AudioSegmentOptions{EncodingParams: params},
			}

			report, err := m.Run(cmd.Context(), job)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.stdout, "%s\t%d segments\t%d skipped\t%d bytes\n",
				report.Index, report.Segments, report.Skipped, report.Bytes)
			return err
		},
	}
	enc.register(cmd.Flags())
	size.register(cmd.Flags())
	fs := cmd.Flags()
	fs.BoolVar(&audio, "audio", false, "use the audio endpoints")
	fs.StringVar(&name, "name", "", "directory name below the output dir (defaults to the item id)")
	fs.BoolVar(&skipExisting, "skip-existing", false, "keep segment files from an earlier run")
	fs.IntVar(&concurrency, "concurrency", 0, "parallel segment downloads, overrides config")
	fs.Float64Var(&rps, "rps", 0, "segment requests per second, overrides config")
	return cmd
}
