// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"time"

	"github.com/google/uuid"
)

// AppConfig is the resolved runtime configuration of the CLI.
type AppConfig struct {
	Server    ServerConfig
	Download  DownloadConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Metrics   MetricsConfig

	// Version is the binary version, not configurable.
	Version string
}

// ServerConfig describes the media server and how the client identifies itself.
type ServerConfig struct {
	BaseURL       string
	Token         string
	DeviceID      string
	DeviceName    string
	ClientName    string
	ClientVersion string
	// ReadTimeout bounds each call including the body transfer. Zero disables it.
	ReadTimeout time.Duration
}

// DownloadConfig controls where payloads land and how fast the mirror fetches.
type DownloadConfig struct {
	TempDir     string
	OutputDir   string
	Concurrency int
	// RequestsPerSecond paces mirror segment requests. Zero means unlimited.
	RequestsPerSecond float64
}

// LogConfig selects level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// TelemetryConfig mirrors telemetry.Config minus the service identity.
type TelemetryConfig struct {
	Enabled      bool
	ExporterType string
	Endpoint     string
	Environment  string
	SamplingRate float64
}

// MetricsConfig enables the Prometheus listener when ListenAddr is set.
type MetricsConfig struct {
	ListenAddr string
}

// FileConfig is the YAML document. Absent keys leave the lower layer untouched.
type FileConfig struct {
	Server    *FileServer    `yaml:"server"`
	Download  *FileDownload  `yaml:"download"`
	Log       *FileLog       `yaml:"log"`
	Telemetry *FileTelemetry `yaml:"telemetry"`
	Metrics   *FileMetrics   `yaml:"metrics"`
}

type FileServer struct {
	BaseURL       string         `yaml:"baseUrl"`
	Token         string         `yaml:"token"`
	DeviceID      string         `yaml:"deviceId"`
	DeviceName    string         `yaml:"deviceName"`
	ClientName    string         `yaml:"clientName"`
	ClientVersion string         `yaml:"clientVersion"`
	ReadTimeout   *time.Duration `yaml:"readTimeout"`
}

type FileDownload struct {
	TempDir           string   `yaml:"tempDir"`
	OutputDir         string   `yaml:"outputDir"`
	Concurrency       int      `yaml:"concurrency"`
	RequestsPerSecond *float64 `yaml:"requestsPerSecond"`
}

type FileLog struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type FileTelemetry struct {
	Enabled      *bool    `yaml:"enabled"`
	Exporter     string   `yaml:"exporter"`
	Endpoint     string   `yaml:"endpoint"`
	Environment  string   `yaml:"environment"`
	SamplingRate *float64 `yaml:"samplingRate"`
}

type FileMetrics struct {
	ListenAddr string `yaml:"listenAddr"`
}

const (
	DefaultReadTimeout  = 2 * time.Minute
	DefaultConcurrency  = 4
	DefaultClientName   = "jfstream"
	DefaultOTLPEndpoint = "localhost:4317"
)

// Defaults returns the configuration used when neither file nor env set a key.
// The device id is derived from the host name so it stays stable across runs.
func Defaults(version string) AppConfig {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return AppConfig{
		Server: ServerConfig{
			DeviceID:      uuid.NewSHA1(uuid.NameSpaceDNS, []byte(host)).String(),
			DeviceName:    host,
			ClientName:    DefaultClientName,
			ClientVersion: version,
			ReadTimeout:   DefaultReadTimeout,
		},
		Download: DownloadConfig{
			Concurrency: DefaultConcurrency,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ExporterType: "grpc",
			Endpoint:     DefaultOTLPEndpoint,
			Environment:  "production",
			SamplingRate: 1.0,
		},
		Version: version,
	}
}
