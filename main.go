package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/airwaves/internal/alarm"
	"github.com/llehouerou/airwaves/internal/app"
	"github.com/llehouerou/airwaves/internal/catalog"
	"github.com/llehouerou/airwaves/internal/config"
	"github.com/llehouerou/airwaves/internal/health"
	"github.com/llehouerou/airwaves/internal/icons"
	"github.com/llehouerou/airwaves/internal/logging"
	"github.com/llehouerou/airwaves/internal/mpris"
	"github.com/llehouerou/airwaves/internal/notify"
	"github.com/llehouerou/airwaves/internal/playback"
	"github.com/llehouerou/airwaves/internal/player"
	"github.com/llehouerou/airwaves/internal/state"
	"github.com/llehouerou/airwaves/internal/stderr"
	"github.com/llehouerou/airwaves/internal/ui/styles"
	"github.com/llehouerou/airwaves/internal/verify"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	icons.Init(cfg.Icons)
	styles.Configure(cfg.Theme.Accent, cfg.Theme.Secondary)

	log, logCloser, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	// Decoder and ffmpeg noise on stderr would corrupt the TUI.
	if err := stderr.Start(log); err != nil {
		log.Warn().Err(err).Msg("redirect stderr")
	}
	defer stderr.Stop()

	stateMgr, err := state.Open()
	if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer stateMgr.Close()
	stateMgr.SetHistoryLimit(cfg.HistoryLimit())

	registry := health.NewRegistry(stateMgr)
	if err := registry.Load(); err != nil {
		log.Warn().Err(err).Msg("load station health")
	}

	notifier, err := notify.New()
	if err != nil {
		log.Warn().Err(err).Msg("desktop notifications unavailable")
		notifier = nil
	}

	catCfg := cfg.GetCatalogConfig()
	httpClient := &http.Client{Timeout: catCfg.Timeout}
	catOpts := []catalog.Option{catalog.WithHTTPClient(httpClient)}
	if catCfg.BaseURL != "" {
		catOpts = append(catOpts, catalog.WithBaseURL(catCfg.BaseURL))
	}
	userAgent := catalog.DefaultUserAgent
	if catCfg.UserAgent != "" {
		userAgent = catCfg.UserAgent
		catOpts = append(catOpts, catalog.WithUserAgent(userAgent))
	}
	cat := catalog.New(catOpts...)

	verifyCfg := cfg.GetVerifyConfig()
	verifier := verify.New(
		verify.WithUserAgent(userAgent),
		verify.WithTimeout(verifyCfg.Timeout),
		verify.WithConcurrency(verifyCfg.Concurrency),
		verify.WithCache(stateMgr, verifyCfg.CacheTTL),
	)

	backend := player.NewStreamBackend(player.Config{
		FFmpegPath: cfg.FFmpegPath(),
		UserAgent:  userAgent,
		Logger:     log,
	})

	pbCfg := cfg.GetPlaybackConfig()
	sessionCfg := playback.DefaultConfig(backend)
	sessionCfg.Health = registry
	sessionCfg.Notifier = notifier
	sessionCfg.Logger = log
	sessionCfg.ResponseTimeout = pbCfg.ResponseTimeout
	sessionCfg.StallGrace = pbCfg.StallGrace
	sessionCfg.MaxRecoveries = *pbCfg.MaxRecoveries
	if pbCfg.InitialVolume != nil {
		sessionCfg.Volume = *pbCfg.InitialVolume
	}
	if settings, err := stateMgr.GetSettings(); err == nil && settings != nil {
		sessionCfg.Volume = settings.Volume
	}
	svc := playback.New(sessionCfg)
	defer svc.Close()

	if adapter, err := mpris.New(svc, log); err != nil {
		log.Warn().Err(err).Msg("mpris unavailable")
	} else if adapter != nil {
		defer adapter.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	evaluator := alarm.NewEvaluator(stateMgr, svc,
		alarm.WithPollInterval(cfg.AlarmPollInterval()),
		alarm.WithNotifier(notifier),
		alarm.WithLogger(log),
	)
	go evaluator.Run(ctx)

	deps := app.Deps{
		Playback: svc,
		State:    stateMgr,
		Catalog:  cat,
		Verifier: verifier,
		Notifier: notifier,
		Logger:   log,
	}
	if dir, err := notify.DefaultIconDir(); err == nil {
		deps.Icons = notify.NewIconCache(dir, httpClient)
	} else {
		log.Warn().Err(err).Msg("favicon cache unavailable")
	}

	log.Info().Msg("starting")
	p := tea.NewProgram(app.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func openLog(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	log, closer, err := logging.Open(cfg.Log.File, cfg.LogLevel())
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log: %w", err)
	}
	return log, closer, nil
}
