// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// inMemory installs a recording provider and restores the noop one afterwards.
func inMemory(t *testing.T, rate float64) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider, err := NewProvider(context.Background(), Config{
		Enabled:        true,
		ServiceName:    "jfstream",
		ServiceVersion: "test",
		Environment:    "ci",
		SamplingRate:   rate,
		Exporter:       exporter,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
		_, _ = NewProvider(context.Background(), Config{})
	})
	return exporter
}

func TestDisabledProviderIsNoop(t *testing.T) {
	provider, err := NewProvider(context.Background(), Config{Enabled: false, ExporterType: "grpc"})
	require.NoError(t, err)
	assert.Nil(t, provider.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "getLiveHlsStream")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestUnsupportedExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, ExporterType: "zipkin"})
	require.Error(t, err)
	assert.Equal(t, "unsupported exporter type: zipkin (supported: grpc, http)", err.Error())
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0.0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.25, "TraceIDRatioBased{0.25}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampler(tt.rate).Description(), "rate %v", tt.rate)
	}
}

func TestSegmentSpanIsExported(t *testing.T) {
	exporter := inMemory(t, 1.0)

	ctx, parent := Tracer("mirror").Start(context.Background(), "mirror.run")
	_, child := Tracer("mirror").Start(ctx, "mirror.segment")
	child.SetAttributes(SegmentAttributes("item", "main", 3, 1024)...)
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	seg := spans[0]
	assert.Equal(t, "mirror.segment", seg.Name)
	assert.Equal(t, spans[1].SpanContext.SpanID(), seg.Parent.SpanID())
	assert.Contains(t, seg.Attributes, attribute.Int(SegmentKey, 3))
	assert.Contains(t, seg.Attributes, attribute.Int64(BytesKey, 1024))

	svc, ok := seg.Resource.Set().Value("service.name")
	require.True(t, ok)
	assert.Equal(t, "jfstream", svc.AsString())
}

func TestNeverSampleExportsNothing(t *testing.T) {
	exporter := inMemory(t, 0)

	_, span := Tracer("client").Start(context.Background(), "getHlsAudioSegment")
	span.End()
	assert.Empty(t, exporter.GetSpans())
}

func TestShutdownStopsExporter(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider, err := NewProvider(context.Background(), Config{
		Enabled:      true,
		ServiceName:  "jfstream",
		SamplingRate: 1,
		Exporter:     exporter,
	})
	require.NoError(t, err)
	defer func() { _, _ = NewProvider(context.Background(), Config{}) }()

	_, span := Tracer("client").Start(context.Background(), "headMasterHlsVideoPlaylist")
	span.End()
	require.NoError(t, provider.Shutdown(context.Background()))

	// the in-memory exporter drops its spans on shutdown
	assert.Empty(t, exporter.GetSpans())
}
