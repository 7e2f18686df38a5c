// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ManuGH/jfstream/internal/config"
	"github.com/ManuGH/jfstream/internal/hooks"
	xglog "github.com/ManuGH/jfstream/internal/log"
	"github.com/ManuGH/jfstream/internal/platform/httpx"
	platformnet "github.com/ManuGH/jfstream/internal/platform/net"
	"github.com/ManuGH/jfstream/internal/streaming"
	"github.com/ManuGH/jfstream/internal/telemetry"
	"github.com/ManuGH/jfstream/internal/version"
)

const shutdownTimeout = 5 * time.Second

// app carries what the subcommands share. It is filled by the root command's
// pre-run hook.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	baseURL    string
	token      string
	logLevel   string
	outputPath string

	cfg     config.AppConfig
	client  *streaming.Client
	probe   *streaming.Client // HEAD requests; whole exchange bounded
	logger  zerolog.Logger
	closers []func(context.Context) error
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr, logger: xglog.WithComponent("cli")}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		a.logger.Warn().Err(closeErr).Str(xglog.FieldEvent, "shutdown.failed").Msg("shutdown incomplete")
	}
	if err != nil {
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jfstream",
		Short:         "Fetch HLS playlists and segments from a media server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations["skipSetup"] == "true" {
				return nil
			}
			return a.setup(cmd.Context())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to config file (YAML)")
	pf.StringVar(&a.baseURL, "base-url", "", "media server root, overrides config")
	pf.StringVar(&a.token, "token", "", "API token, overrides config")
	pf.StringVar(&a.logLevel, "log-level", "", "log level, overrides config")
	pf.StringVarP(&a.outputPath, "output", "o", "", "move the downloaded file here instead of printing its temp path")

	root.AddCommand(
		a.segmentCmd(),
		a.playlistCmd(),
		a.liveCmd(),
		a.mirrorCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads config and wires logging, tracing, metrics and the client.
func (a *app) setup(ctx context.Context) error {
	loader := config.NewLoader(a.configPath, version.Version).WithOverride(func(c *config.AppConfig) {
		if a.baseURL != "" {
			c.Server.BaseURL = a.baseURL
		}
		if a.token != "" {
			c.Server.Token = a.token
		}
		if a.logLevel != "" {
			c.Log.Level = a.logLevel
		}
	})
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	xglog.Configure(xglog.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  a.stderr,
		Service: "jfstream",
		Version: cfg.Version,
	})
	a.logger = xglog.WithComponent("cli")
	a.logger.Debug().
		Str(xglog.FieldEvent, "config.loaded").
		Str(xglog.FieldBaseURL, platformnet.SanitizeURL(cfg.Server.BaseURL)).
		Str(xglog.FieldPath, a.configPath).
		Msg("configuration loaded")

	provider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Telemetry.Enabled,
		ServiceName:    "jfstream",
		ServiceVersion: cfg.Version,
		Environment:    cfg.Telemetry.Environment,
		ExporterType:   cfg.Telemetry.ExporterType,
		Endpoint:       cfg.Telemetry.Endpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	a.closers = append(a.closers, provider.Shutdown)

	if cfg.Metrics.ListenAddr != "" {
		if err := a.serveMetrics(cfg.Metrics.ListenAddr); err != nil {
			return err
		}
	}

	clientCfg := streaming.Config{
		BaseURL:     cfg.Server.BaseURL,
		ReadTimeout: cfg.Server.ReadTimeout,
		TempDir:     cfg.Download.TempDir,
	}
	hooks.Chain(
		hooks.RequestID(),
		hooks.MediaBrowserAuth(hooks.AuthInfo{
			Client:   cfg.Server.ClientName,
			Device:   cfg.Server.DeviceName,
			DeviceID: cfg.Server.DeviceID,
			Version:  cfg.Server.ClientVersion,
			Token:    cfg.Server.Token,
		}),
		hooks.Logging(xglog.WithComponent("client")),
		hooks.Metrics(),
	).Install(&clientCfg)

	a.client, err = streaming.New(clientCfg)
	if err != nil {
		return err
	}

	probeCfg := clientCfg
	probeCfg.HTTPClient = httpx.NewClient(cfg.Server.ReadTimeout)
	a.probe, err = streaming.New(probeCfg)
	return err
}

// serveMetrics exposes the default Prometheus registry until close.
func (a *app) serveMetrics(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: r, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error().Err(err).Str(xglog.FieldEvent, "metrics.serve_failed").Msg("metrics listener stopped")
		}
	}()
	a.logger.Info().
		Str(xglog.FieldEvent, "metrics.listening").
		Str("addr", ln.Addr().String()).
		Msg("serving metrics")
	a.closers = append(a.closers, srv.Shutdown)
	return nil
}

func (a *app) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
