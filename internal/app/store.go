package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nekogravitycat/roominglist-verifier/internal/config"
	"github.com/nekogravitycat/roominglist-verifier/internal/db"
	"github.com/nekogravitycat/roominglist-verifier/internal/fixture"
	"github.com/nekogravitycat/roominglist-verifier/internal/oracle"
	"github.com/nekogravitycat/roominglist-verifier/internal/store"
)

// OpenSource returns the fixture source selected by the configuration. The
// returned func releases its connections.
func OpenSource(ctx context.Context, cfg *config.Config) (fixture.Source, func(), error) {
	switch cfg.FixtureSource {
	case config.SourcePostgres:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to db: %w", err)
		}
		return fixture.NewPgxRepository(pool), pool.Close, nil

	case config.SourceSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return fixture.NewSQLiteRepository(sqlDB), func() { _ = sqlDB.Close() }, nil

	default:
		return fixture.NewDirSource(cfg.FixtureDir), func() {}, nil
	}
}

// LoadStore reads the fixtures, builds the data store and audits every join
// row. A dangling reference fails the load.
func LoadStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	src, closeSource, err := OpenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer closeSource()

	set, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures from %s: %w", cfg.FixtureSource, err)
	}

	s, err := store.Load(set)
	if err != nil {
		return nil, fmt.Errorf("failed to build data store: %w", err)
	}

	if err := oracle.Audit(s); err != nil {
		return nil, fmt.Errorf("fixture audit failed: %w", err)
	}

	log.Info().
		Str("source", cfg.FixtureSource).
		Int("rooming_lists", len(s.RoomingLists())).
		Int("bookings", len(s.Bookings())).
		Int("join_rows", len(s.JoinRows())).
		Msg("data store loaded")
	return s, nil
}

// SeedSQLite copies the JSON fixtures into the configured SQLite database.
func SeedSQLite(ctx context.Context, cfg *config.Config) error {
	if cfg.SQLitePath == "" {
		return errors.New("SQLITE_PATH is empty")
	}
	set, err := fixture.NewDirSource(cfg.FixtureDir).Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to read fixtures: %w", err)
	}

	sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to open sqlite: %w", err)
	}
	defer sqlDB.Close()

	if err := fixture.Seed(ctx, sqlDB, set); err != nil {
		return err
	}
	log.Info().Str("path", cfg.SQLitePath).Str("from", cfg.FixtureDir).Msg("sqlite fixtures seeded")
	return nil
}
