package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/five82/stockboard/internal/config"
	"github.com/five82/stockboard/internal/logging"
	"github.com/five82/stockboard/internal/metrics"
	"github.com/five82/stockboard/internal/prefs"
	"github.com/five82/stockboard/internal/source"
	"github.com/five82/stockboard/internal/state"
	"github.com/five82/stockboard/internal/syncer"
	"github.com/five82/stockboard/internal/ui"
	"github.com/five82/stockboard/internal/visibility"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

var _ syncer.Fetcher = (*source.Client)(nil)

// Options configure the stockboard application.
type Options struct {
	ConfigPath string
	PrefsPath  string        // empty uses default ~/.config/stockboard/prefs.toml
	SourceURL  string        // overrides source_url when set
	Poll       time.Duration // overrides poll_interval_ms when positive
}

// Run boots the stockboard TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer closeLog()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("prefs unreadable, using defaults", zap.Error(err))
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	fallback, err := cfg.Fallback()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	store := &state.Store{}
	vis := visibility.New(true)

	synchronizer, err := syncer.New(syncer.Options{
		Fetcher:    client,
		Store:      store,
		Interval:   cfg.PollInterval(),
		Fallback:   fallback,
		Visibility: vis,
		Logger:     logger.Named("syncer"),
		Metrics:    metrics.NewCollector(registry),
		AfterApply: textfileWriter(cfg.MetricsPath, registry, logger),
	})
	if err != nil {
		return fmt.Errorf("init synchronizer: %w", err)
	}

	logger.Info("stockboard starting",
		zap.String("version", Version),
		zap.String("source", client.URL()),
		zap.Duration("interval", synchronizer.Interval()),
		zap.Bool("fallback", fallback != nil),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	if err := synchronizer.Start(gctx); err != nil {
		return err
	}

	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx, ui.Options{
			Store:      store,
			Refresher:  synchronizer,
			Visibility: vis,
			Prefs:      userPrefs,
			PrefsPath:  opts.PrefsPath,
			LogPath:    cfg.LogPath,
			SourceURL:  client.URL(),
			Interval:   synchronizer.Interval(),
			Logger:     logger.Named("ui"),
		})
	})
	g.Go(func() error {
		<-gctx.Done()
		synchronizer.Stop()
		return nil
	})

	err = g.Wait()
	logger.Info("stockboard stopped", zap.Error(err))
	return err
}

func loadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	cfg, err = cfg.WithOverrides(opts.SourceURL, opts.Poll)
	if err != nil {
		return config.Config{}, fmt.Errorf("apply flags: %w", err)
	}
	return cfg, nil
}

func newClient(cfg config.Config) (*source.Client, error) {
	client, err := source.NewClient(cfg.SourceURL,
		source.WithTimeout(cfg.RequestTimeout()),
		source.WithUserAgent("stockboard/"+Version),
	)
	if err != nil {
		return nil, fmt.Errorf("init source client: %w", err)
	}
	return client, nil
}

// textfileWriter dumps the registry to path after each applied fetch. A
// blank path disables it.
func textfileWriter(path string, g prometheus.Gatherer, logger *zap.Logger) func(state.SyncState) {
	if path == "" {
		return nil
	}
	return func(state.SyncState) {
		if err := metrics.WriteTextfile(path, g); err != nil {
			logger.Warn("metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
}
