package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/app"
	"github.com/nekogravitycat/roominglist-verifier/internal/browser"
	"github.com/nekogravitycat/roominglist-verifier/internal/config"
	"github.com/nekogravitycat/roominglist-verifier/internal/logging"
	"github.com/nekogravitycat/roominglist-verifier/internal/metrics"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
	"github.com/nekogravitycat/roominglist-verifier/internal/verify"
)

func main() {
	metricsFile := flag.String("metrics-file", "", "write the run's metrics in the Prometheus text format to this file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	closer, err := logging.Setup(logging.Options{
		Environment: cfg.Environment(),
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	code := run(ctx, cfg, *metricsFile)
	closer.Close()
	os.Exit(code)
}

// run returns the process exit code: 0 when every scenario passed, 1 on
// discrepancies, 2 when the run could not start.
func run(ctx context.Context, cfg *config.Config, metricsFile string) int {
	s, err := app.LoadStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to load data store")
		return 2
	}

	selectors, err := browser.LoadSelectors(cfg.SelectorsFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to load selectors")
		return 2
	}

	local, err := storage.NewLocalStorage(cfg.EvidenceDir)
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare evidence directory")
		return 2
	}
	evidence := storage.NewEvidence(local)

	obs, err := browser.New(ctx, browser.Options{
		DashboardURL: cfg.DashboardURL,
		CDPURL:       cfg.CDPURL,
		Selectors:    selectors,
		Evidence:     evidence,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to start browser")
		return 2
	}
	defer obs.Close()

	m := metrics.New()
	h := verify.NewHarness(s, obs, verify.Config{
		SettleWindow:   cfg.SettleWindow,
		SettleInterval: cfg.SettleInterval,
		InitialFilter:  cfg.InitialFilter,
	}, verify.WithRecorder(m))

	report := h.RunSuite(ctx, verify.DefaultSuite(cfg.SearchTerms))

	if path, err := evidence.SaveReport(ctx, report); err != nil {
		log.Error().Err(err).Msg("failed to save report")
	} else {
		log.Info().Str("path", path).Msg("report saved")
	}

	if metricsFile != "" {
		if err := prometheus.WriteToTextfile(metricsFile, m.Registry()); err != nil {
			log.Error().Err(err).Str("path", metricsFile).Msg("failed to write metrics")
		}
	}

	for _, r := range report.Failed() {
		ev := log.Warn().Str("scenario", r.Name).Int("discrepancies", len(r.Discrepancies))
		if r.Evidence != "" {
			ev = ev.Str("evidence", r.Evidence)
		}
		if r.Err != nil {
			ev = ev.Err(r.Err)
		}
		ev.Msg("scenario failed")
		for _, d := range r.Discrepancies {
			log.Warn().Str("scenario", r.Name).Msg(d.String())
		}
	}

	if !report.Passed() {
		log.Error().
			Int("failed", len(report.Failed())).
			Int("discrepancies", report.DiscrepancyCount()).
			Str("dashboard", cfg.DashboardURL).
			Msg("dashboard verification failed")
		return 1
	}

	log.Info().Int("scenarios", len(report.Scenarios)).Str("dashboard", cfg.DashboardURL).Msg("dashboard verified")
	return 0
}
