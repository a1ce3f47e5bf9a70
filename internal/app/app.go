package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/nstatus/nstatus/internal/config"
	"github.com/nstatus/nstatus/internal/discord"
	"github.com/nstatus/nstatus/internal/httpserver"
	"github.com/nstatus/nstatus/internal/httpserver/deps"
	"github.com/nstatus/nstatus/internal/logger"
	"github.com/nstatus/nstatus/internal/metrics"
	"github.com/nstatus/nstatus/internal/peak"
	"github.com/nstatus/nstatus/internal/publisher"
	"github.com/nstatus/nstatus/internal/query"
	"github.com/nstatus/nstatus/internal/ratelimit"
	"github.com/nstatus/nstatus/internal/render"
	"github.com/nstatus/nstatus/internal/scheduler"
	"github.com/nstatus/nstatus/internal/state"
	"github.com/nstatus/nstatus/internal/version"
)

type App struct {
	cfg      *config.Config
	settings *config.Settings
	logger   logger.Logger
	chat     *discord.Client
	tracker  *peak.Tracker
	ticker   *scheduler.StatusTicker
	janitor  *scheduler.PeakJanitor
	server   *httpserver.Server // nil when NSTATUS_LISTEN_ADDR is empty
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.NewWithFile(cfg.LogLevel, cfg.PrettyLog, logger.FileOptions{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})

	// Invalid settings are the one configuration error we refuse to run with.
	settings, err := config.LoadSettings(cfg.SettingsFile, cfg.Token)
	if err != nil {
		loggerClient.Errorf("Failed to load settings from %s: %v", cfg.SettingsFile, err)
		os.Exit(1)
	}
	loggerClient.Info("settings loaded",
		logger.String("file", cfg.SettingsFile),
		logger.String("server", settings.Server.Address()),
		logger.String("channel", settings.Discord.ChannelID))

	tracker := peak.NewTracker(settings.Storage.PeakDataFile, loggerClient.With(logger.String("component", "peak")))
	tracker.Load()

	store := state.NewStore(
		settings.Storage.StateFile,
		settings.Discord.ChannelID,
		settings.Discord.MessageID,
		loggerClient.With(logger.String("component", "state")),
	)

	chat, err := discord.New(settings.Discord.Token, loggerClient.With(logger.String("component", "discord")))
	if err != nil {
		loggerClient.Errorf("Failed to create discord client: %v", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	pub := publisher.New(
		settings,
		query.NewClient(cfg.QueryTimeout, loggerClient.With(logger.String("component", "query"))),
		chat,
		tracker,
		store,
		loggerClient.With(logger.String("component", "publisher")),
		publisher.WithTimeout(cfg.TickTimeout),
		publisher.WithMetrics(m),
	)

	ticker := scheduler.NewStatusTicker(pub, loggerClient, cfg.TickInterval)
	janitor := scheduler.NewPeakJanitor(tracker, loggerClient, scheduler.DefaultJanitorInterval)

	if settings.Commands.Enabled {
		limiter := ratelimit.New(ratelimit.Config{
			Every: settings.Commands.Cooldown,
			Burst: settings.Commands.Burst,
		})
		handler := discord.NewCommandHandler(settings.Commands.Name, ticker, limiter, loggerClient)
		chat.RegisterCommand(settings.Discord.GuildID, handler)
	} else {
		loggerClient.Info("slash command disabled")
	}

	var server *httpserver.Server
	if cfg.ListenAddr != "" {
		d := deps.Deps{
			Logger:       loggerClient,
			StartTime:    time.Now(),
			Version:      version.Version,
			Commit:       version.Commit,
			BuildDate:    version.BuildDate,
			GoVersion:    version.GoVersion,
			TimeNow:      time.Now,
			AllowedCIDRS: cfg.AllowedCIDRS,
			TrustProxy:   cfg.TrustProxy,
			Status:       pub,
			Refresher:    ticker,
			RefreshLimit: ratelimit.Config{Every: cfg.RefreshCooldown, Burst: cfg.RefreshBurst},
			Metrics:      promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
			StaleAfter:   3 * cfg.TickInterval,
		}
		server = httpserver.New(cfg, loggerClient, d)
	} else {
		loggerClient.Info("ops HTTP server disabled (NSTATUS_LISTEN_ADDR is empty)")
	}

	return &App{
		cfg:      cfg,
		settings: settings,
		logger:   loggerClient,
		chat:     chat,
		tracker:  tracker,
		ticker:   ticker,
		janitor:  janitor,
		server:   server,
	}
}

func (a *App) Run() (err error) {
	a.logger.Infof("🚀 Starting %s", version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.chat.Open(); err != nil {
		return err
	}
	if err := a.chat.SetPresence(render.StartingPresence(a.settings)); err != nil {
		a.logger.Warn("failed to set starting presence", logger.Error(err))
	}

	a.ticker.Start(ctx)
	a.logger.Info("status ticker started",
		logger.Duration("interval", a.cfg.TickInterval),
		logger.Duration("tick_timeout", a.cfg.TickTimeout))

	a.janitor.Start(ctx)

	errCh := make(chan error, 1)
	if a.server != nil {
		go func() {
			if err := a.server.Start(); err != nil {
				errCh <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err = <-errCh:
		a.logger.Error("stopping after fatal error", logger.Error(err))
	}

	return multierr.Append(err, a.shutdown())
}

func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.janitor.Stop()
	a.ticker.Stop()
	select {
	case <-a.ticker.Done():
	case <-shutdownCtx.Done():
		a.logger.Warn("status tick still running at shutdown deadline")
	}

	var err error
	if a.server != nil {
		if serr := a.server.Stop(shutdownCtx); serr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to stop server: %w", serr))
		}
	}
	if cerr := a.chat.Close(); cerr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to close discord session: %w", cerr))
	}
	if serr := a.tracker.Save(); serr != nil {
		err = multierr.Append(err, fmt.Errorf("failed to flush peak data: %w", serr))
	}

	if err != nil {
		a.logger.Error("shutdown finished with errors", logger.Error(err))
	} else {
		a.logger.Info("✅ nstatus stopped cleanly")
	}
	_ = a.logger.Sync() // stdout/stderr return EINVAL on Sync
	return err
}
