package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stocktui/internal/app"
	"stocktui/internal/config"
	"stocktui/internal/event"
	"stocktui/internal/model"
	"stocktui/internal/quote"
	"stocktui/internal/ui"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		tick    string
	)
	cmd := &cobra.Command{
		Use:           "stocktui",
		Short:         "Terminal dashboard for a live stock watchlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(cfgPath, tick)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")
	cmd.Flags().StringVar(&tick, "tick", "", `tick interval override, e.g. "10s"`)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("stocktui", version)
		},
	})
	return cmd
}

func run(cfgPath, tick string) error {
	if cfgPath == "" {
		var err error
		if cfgPath, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, cfgErr := config.Load(cfgPath)
	if tick != "" {
		cfg.TickInterval = tick
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()
	if cfgErr != nil {
		logger.Warn("config file unusable, using defaults", zap.Error(cfgErr))
	}
	logger.Info("stocktui starting",
		zap.String("version", version),
		zap.Strings("watchlist", cfg.Watchlist),
		zap.Duration("tick", cfg.Tick()))

	fetcher := quote.NewClient(cfg.Proxy, logger.Named("quote"))
	logger.Info("data source", zap.String("name", fetcher.Name()))

	persist := func(watchlist []string, tf model.TimeFrame) error {
		cfg.Watchlist = append([]string(nil), watchlist...)
		cfg.DefaultTimeFrame = tf.Label()
		return cfg.Save()
	}
	a := app.New(fetcher, cfg.Watchlist, cfg.TimeFrame(), cfg.CandleCount, persist, logger.Named("app"))

	// Terminal init is the only fatal runtime failure.
	renderer, err := ui.NewRenderer()
	if err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer renderer.Fini()

	poller := ui.NewScreenPoller(renderer.Screen())
	defer poller.Stop()
	src := event.NewSource(poller, cfg.Tick())
	defer src.Close()

	if cfg.RefreshCron != "" {
		sched, err := event.NewRefreshScheduler(cfg.RefreshCron, src, logger.Named("cron"))
		if err != nil {
			logger.Warn("refresh_cron disabled", zap.Error(err))
		} else {
			sched.Start()
			defer sched.Stop()
		}
	}

	a.RefreshAll()
	for !a.ShouldQuit {
		renderer.Draw(a)
		ev, ok := <-src.Events()
		if !ok {
			break
		}
		a.HandleEvent(ev)
	}
	logger.Info("stocktui stopped")
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0755); err != nil {
		return nil, err
	}
	var lvl zapcore.Level
	if err := lvl.Set(cfg.Log.Level); err != nil {
		lvl = zapcore.InfoLevel
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = []string{cfg.Log.File}
	zcfg.ErrorOutputPaths = []string{cfg.Log.File}
	return zcfg.Build()
}
