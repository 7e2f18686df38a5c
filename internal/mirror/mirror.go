// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package mirror copies a variant playlist and all of its segments into a
// local directory that can be served as static HLS.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/ManuGH/jfstream/internal/fsutil"
	"github.com/ManuGH/jfstream/internal/hooks"
	"github.com/ManuGH/jfstream/internal/log"
	"github.com/ManuGH/jfstream/internal/metrics"
	"github.com/ManuGH/jfstream/internal/playlist"
	"github.com/ManuGH/jfstream/internal/streaming"
	"github.com/ManuGH/jfstream/internal/telemetry"
)

// IndexName is the file name of the rewritten playlist.
const IndexName = "index.m3u8"

// Segment results reported to metrics.
const (
	segmentWritten = "written"
	segmentSkipped = "skipped"
	segmentFailed  = "failed"
)

// ErrNoSegments is returned when the variant playlist lists nothing to copy.
var ErrNoSegments = errors.New("mirror: playlist has no segments")

// Options configures a Mirror.
type Options struct {
	// OutputDir is the parent of every job directory.
	OutputDir string
	// Concurrency bounds parallel segment downloads. Defaults to 4.
	Concurrency int
	// RequestsPerSecond paces segment requests. Zero disables pacing.
	RequestsPerSecond float64
	Logger            *zerolog.Logger
}

// Mirror downloads variant playlists through a streaming client.
type Mirror struct {
	client      *streaming.Client
	outputDir   string
	concurrency int
	rps         float64
	logger      zerolog.Logger
	tracer      trace.Tracer
}

// New validates opts and returns a Mirror.
func New(client *streaming.Client, opts Options) (*Mirror, error) {
	if client == nil {
		return nil, errors.New("mirror: client is required")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("mirror: output directory is required")
	}
	if opts.Concurrency < 0 || opts.RequestsPerSecond < 0 {
		return nil, fmt.Errorf("mirror: negative concurrency %d or rate %v", opts.Concurrency, opts.RequestsPerSecond)
	}
	m := &Mirror{
		client:      client,
		outputDir:   opts.OutputDir,
		concurrency: opts.Concurrency,
		rps:         opts.RequestsPerSecond,
		logger:      log.WithComponent("mirror"),
		tracer:      telemetry.Tracer("jfstream/mirror"),
	}
	if opts.Logger != nil {
		m.logger = *opts.Logger
	}
	if m.concurrency == 0 {
		m.concurrency = 4
	}
	return m, nil
}

// Report describes a finished run.
type Report struct {
	RunID string
	// Dir holds the segments and the index playlist.
	Dir      string
	Index    string
	Segments int
	Skipped  int
	Bytes    int64
	// Ended mirrors the EXT-X-ENDLIST state of the source playlist.
	Ended    bool
	Duration time.Duration
}

type target struct {
	ref      playlist.SegmentURI
	duration float64
	title    string
	name     string
}

// Run copies the job's variant playlist. The first failing segment cancels
// the remaining downloads; segments already written stay in place and no
// index is written.
func (m *Mirror) Run(ctx context.Context, job VariantJob) (*Report, error) {
	if err := job.validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	runID := uuid.New().String()
	ctx = log.ContextWithRunID(ctx, runID)
	logger := log.WithContext(ctx, m.logger).With().Str(log.FieldItemID, job.ItemID.String()).Logger()

	ctx, span := m.tracer.Start(ctx, "mirror.run", trace.WithAttributes(attribute.String(telemetry.ItemIDKey, job.ItemID.String())))
	defer span.End()

	report, err := m.run(ctx, job, logger)
	metrics.ObserveMirrorRun(time.Since(start))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(telemetry.ErrorAttributes(err, hooks.Result(err))...)
		logger.Error().Err(err).Str(log.FieldEvent, "mirror.failed").Msg("mirror run failed")
		return nil, err
	}
	report.RunID = runID
	report.Duration = time.Since(start)
	span.SetAttributes(telemetry.MirrorAttributes(report.Segments, m.concurrency, 0)...)
	logger.Info().
		Str(log.FieldEvent, "mirror.done").
		Str(log.FieldPath, report.Dir).
		Int("segments", report.Segments).
		Int("skipped", report.Skipped).
		Int64(log.FieldBytes, report.Bytes).
		Int64(log.FieldDuration, report.Duration.Milliseconds()).
		Msg("mirror run complete")
	return report, nil
}

func (m *Mirror) run(ctx context.Context, job VariantJob, logger zerolog.Logger) (*Report, error) {
	manifest, err := m.fetchVariant(ctx, job)
	if err != nil {
		return nil, err
	}
	if manifest.Kind != playlist.KindMedia {
		return nil, playlist.ErrNotMediaPlaylist
	}
	if len(manifest.Segments) == 0 {
		return nil, ErrNoSegments
	}

	targets := make([]target, 0, len(manifest.Segments))
	for _, seg := range manifest.Segments {
		ref, err := playlist.ParseSegmentURI(seg.URI)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target{
			ref:      ref,
			duration: seg.Duration,
			title:    seg.Title,
			name:     fmt.Sprintf("%06d.%s", ref.SegmentID, ref.Container),
		})
	}

	if err := os.MkdirAll(m.outputDir, 0o750); err != nil {
		return nil, fmt.Errorf("mirror: create %s: %w", m.outputDir, err)
	}
	dir, err := fsutil.ConfineRelPath(m.outputDir, job.dirName())
	if err != nil {
		return nil, fmt.Errorf("mirror: output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mirror: create %s: %w", dir, err)
	}
	logger.Info().
		Str(log.FieldEvent, "mirror.start").
		Str(log.FieldPath, dir).
		Int("segments", len(targets)).
		Msg("mirroring variant playlist")

	sizes := make([]int64, len(targets))
	skipped := make([]bool, len(targets))
	limiter := rate.NewLimiter(rate.Inf, 1)
	if m.rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.rps), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, t := range targets {
		g.Go(func() error {
			path := filepath.Join(dir, t.name)
			if job.SkipExisting {
				if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
					sizes[i], skipped[i] = fi.Size(), true
					metrics.IncMirrorSegment(segmentSkipped)
					return nil
				}
			}
			if err := limiter.Wait(gctx); err != nil {
				return err
			}
			n, err := m.copySegment(gctx, job, t.ref, path)
			if err != nil {
				metrics.IncMirrorSegment(segmentFailed)
				return fmt.Errorf("segment %d: %w", t.ref.SegmentID, err)
			}
			sizes[i] = n
			metrics.IncMirrorSegment(segmentWritten)
			logger.Debug().
				Str(log.FieldEvent, "mirror.segment").
				Int(log.FieldSegment, t.ref.SegmentID).
				Int64(log.FieldBytes, n).
				Msg("segment written")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	local := make([]playlist.Segment, len(targets))
	for i, t := range targets {
		local[i] = playlist.Segment{URI: t.name, Duration: t.duration, Title: t.title}
	}
	index := filepath.Join(dir, IndexName)
	if err := writeIndex(index, local, manifest.MediaSequence, manifest.Ended); err != nil {
		return nil, err
	}

	report := &Report{Dir: dir, Index: index, Segments: len(targets), Ended: manifest.Ended}
	for i := range targets {
		report.Bytes += sizes[i]
		if skipped[i] {
			report.Skipped++
		}
	}
	return report, nil
}

func (m *Mirror) fetchVariant(ctx context.Context, job VariantJob) (*playlist.Manifest, error) {
	var (
		file *streaming.DownloadedFile
		err  error
		op   string
	)
	start := time.Now()
	if job.Audio {
		op = streaming.OpGetVariantHlsAudioPlaylist
		file, err = m.client.GetVariantHLSAudioPlaylist(ctx, streaming.VariantAudioPlaylistRequest{
			ItemID:  job.ItemID,
			Options: job.AudioPlaylist,
		}, job.Headers)
	} else {
		op = streaming.OpGetVariantHlsVideoPlaylist
		file, err = m.client.GetVariantHLSVideoPlaylist(ctx, streaming.VariantVideoPlaylistRequest{
			ItemID:  job.ItemID,
			Options: job.VideoPlaylist,
		}, job.Headers)
	}
	if err != nil {
		hooks.RecordFailure(op, err, time.Since(start))
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("mirror: %s returned no playlist", op)
	}
	defer func() { _ = file.Remove() }()
	metrics.AddDownloadedBytes(op, file.Size)
	return playlist.DecodeFile(file.Path)
}

// copySegment downloads one segment and moves it to path.
func (m *Mirror) copySegment(ctx context.Context, job VariantJob, ref playlist.SegmentURI, path string) (n int64, err error) {
	ctx, span := m.tracer.Start(ctx, "mirror.segment")
	defer func() {
		span.SetAttributes(telemetry.SegmentAttributes(job.ItemID.String(), ref.PlaylistID, ref.SegmentID, n)...)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	var (
		file *streaming.DownloadedFile
		op   string
	)
	if job.Audio {
		op = streaming.OpGetHlsAudioSegment
		file, err = m.client.GetHLSAudioSegment(ctx, streaming.AudioSegmentRequest{
			SegmentRef: job.segmentRef(ref),
			Options:    job.audioSegmentOptions(ref),
		}, job.Headers)
	} else {
		op = streaming.OpGetHlsVideoSegment
		file, err = m.client.GetHLSVideoSegment(ctx, streaming.VideoSegmentRequest{
			SegmentRef: job.segmentRef(ref),
			Options:    job.videoSegmentOptions(ref),
		}, job.Headers)
	}
	if err != nil {
		hooks.RecordFailure(op, err, time.Since(start))
		return 0, err
	}
	if file == nil {
		return 0, fmt.Errorf("%s returned no body", op)
	}
	defer func() { _ = file.Remove() }()
	metrics.AddDownloadedBytes(op, file.Size)

	src, err := file.Open()
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return writeFile(path, src)
}

func writeFile(path string, r io.Reader) (int64, error) {
	pending, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return 0, fmt.Errorf("open pending %s: %w", path, err)
	}
	defer func() { _ = pending.Cleanup() }()

	n, err := io.Copy(pending, r)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return n, fmt.Errorf("replace %s: %w", path, err)
	}
	return n, nil
}

func writeIndex(path string, segs []playlist.Segment, seq uint64, ended bool) error {
	pending, err := renameio.TempFile(filepath.Dir(path), path)
	if err != nil {
		return fmt.Errorf("open pending %s: %w", path, err)
	}
	defer func() { _ = pending.Cleanup() }()

	if err := playlist.WriteMedia(pending, segs, seq, ended); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return pending.CloseAtomicallyReplace()
}
