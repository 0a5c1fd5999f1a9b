package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/nekogravitycat/roominglist-verifier/internal/app"
	"github.com/nekogravitycat/roominglist-verifier/internal/auth"
	"github.com/nekogravitycat/roominglist-verifier/internal/config"
	"github.com/nekogravitycat/roominglist-verifier/internal/logging"
	"github.com/nekogravitycat/roominglist-verifier/internal/pkg/storage"
)

func main() {
	seed := flag.Bool("seed", false, "copy the JSON fixtures into SQLITE_PATH and exit")
	issueToken := flag.String("issue-token", "", "print an API access token for the named client and exit")
	flag.Parse()

	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
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
	defer closer.Close()

	switch {
	case *seed:
		if err := app.SeedSQLite(ctx, cfg); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		return
	case *issueToken != "":
		if err := printToken(cfg, *issueToken); err != nil {
			log.Fatal().Err(err).Msg("failed to issue token")
		}
		return
	}

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("server terminated with error")
		closer.Close()
		os.Exit(1)
	}
	log.Info().Msg("server exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	s, err := app.LoadStore(ctx, cfg)
	if err != nil {
		return err
	}

	evidenceStore, err := storage.NewLocalStorage(cfg.EvidenceDir)
	if err != nil {
		return err
	}

	container := app.NewContainer(app.Config{
		IsProduction:     cfg.IsProduction,
		ProdOrigins:      cfg.ProdOrigins,
		Store:            s,
		JWTSecret:        cfg.JWTSecret,
		JWTTTL:           cfg.JWTAccessTokenTTL,
		InitialFilter:    cfg.InitialFilter,
		FilterSessionTTL: cfg.FilterSessionTTL,
		Evidence:         evidenceStore,
	})
	if container.JWTManager == nil {
		log.Warn().Msg("API_JWT_SECRET is empty, /v1 is unauthenticated")
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		container.Dashboard.RunJanitor(ctx, janitorInterval(cfg.FilterSessionTTL))
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// janitorInterval sweeps a few times per TTL.
func janitorInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return max(ttl/4, time.Second)
}

func printToken(cfg *config.Config, client string) error {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)
	if jwtManager == nil {
		return errors.New("API_JWT_SECRET is empty")
	}
	token, err := jwtManager.GenerateAccessToken(client)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
