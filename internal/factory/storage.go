package factory

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/castmatch/castmatch-backend/internal/config"
	"github.com/castmatch/castmatch-backend/internal/localstate"
	storepkg "github.com/castmatch/castmatch-backend/internal/store"
	storepg "github.com/castmatch/castmatch-backend/internal/store/postgres"
	storesqlite "github.com/castmatch/castmatch-backend/internal/store/sqlite"
)

// NewStore returns the store.Store selected by cfg.DBDriver.
// SQLite bootstraps synchronously; Postgres launches an async bootstrap
// check and returns the store immediately for fast startup.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (storepkg.Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		path := cfg.SQLitePath
		if path == "" {
			p, err := localstate.DBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve sqlite path: %w", err)
			}
			path = p
		}
		st, err := storesqlite.New(path)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("driver", cfg.DBDriver).Str("path", path).Msg("sqlite store ready")
		return st, nil

	case "postgres":
		dsn := cfg.PostgresDSN
		if dsn == "" {
			return nil, fmt.Errorf("MATCH_BACKEND_POSTGRES_DSN is required when DB_DRIVER=postgres")
		}

		// Open connection synchronously since health checks need it immediately
		db, err := storepg.Open(dsn)
		if err != nil {
			return nil, err
		}

		// Async bootstrap check with configurable timeout; don't block startup
		go func() {
			bootstrapTimeout := time.Duration(cfg.BootstrapTimeoutSeconds) * time.Second
			bootstrapCtx, cancel := context.WithTimeout(ctx, bootstrapTimeout)
			defer cancel()

			if err := storepg.Bootstrap(bootstrapCtx, dsn); err != nil {
				log.Warn().Err(err).Str("driver", cfg.DBDriver).Msg("store bootstrap check failed")
			} else {
				log.Debug().Str("driver", cfg.DBDriver).Msg("store bootstrap check completed")
			}
		}()

		return storepg.NewWithDB(db), nil

	default:
		return nil, fmt.Errorf("unknown DB_DRIVER: %s", cfg.DBDriver)
	}
}
