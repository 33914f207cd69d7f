package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/emiliopalmerini/mtrack/internal/adapters/collections"
	"github.com/emiliopalmerini/mtrack/internal/adapters/otel"
	"github.com/emiliopalmerini/mtrack/internal/adapters/turso"
	"github.com/emiliopalmerini/mtrack/internal/domain"
	"github.com/emiliopalmerini/mtrack/internal/identity"
	"github.com/emiliopalmerini/mtrack/internal/infrastructure/config"
	"github.com/emiliopalmerini/mtrack/internal/ledger"
	"github.com/emiliopalmerini/mtrack/internal/logging"
	"github.com/emiliopalmerini/mtrack/internal/migrate"
	"github.com/emiliopalmerini/mtrack/internal/ports"
	"github.com/emiliopalmerini/mtrack/internal/projects"
	"github.com/emiliopalmerini/mtrack/internal/timer"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	DB       *sql.DB
	Store    ports.KVStore
	Repos    *collections.Repositories
	Identity *identity.Service
	Ledger   *ledger.Service
	Timers   *timer.Engine
	Projects *projects.Service
	Exporter ports.MetricsExporter
	Clock    clockwork.Clock
	Logger   *zap.Logger
}

// NewAppContext loads the configuration, opens the database, applies
// pending migrations and wires the services.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Dev: cfg.Log.Dev, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := turso.NewDB(cfg.Database.URL, cfg.Database.AuthToken, turso.Options{Ping: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate.RunAll(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	var exporter ports.MetricsExporter = otel.NewNoOpExporter()
	if cfg.OTEL.Enabled {
		exp, err := otel.NewExporter(ctx, otel.FromConfig(cfg.OTEL))
		if err != nil {
			logger.Warn("metrics export disabled", zap.Error(err))
		} else {
			exporter = exp
		}
	}

	a := NewAppContextWithStore(turso.NewKVStore(db), clockwork.NewRealClock(), logger, exporter)
	a.DB = db
	return a, nil
}

// NewAppContextWithStore wires the services over an existing store.
func NewAppContextWithStore(store ports.KVStore, clock clockwork.Clock, logger *zap.Logger, exporter ports.MetricsExporter) *AppContext {
	repos := collections.NewRepositories(store)
	entries := ledger.NewService(repos.Ledgers, exporter, clock, logger)

	return &AppContext{
		Store:    store,
		Repos:    repos,
		Identity: identity.NewService(repos.Users, repos.Session, clock, logger),
		Ledger:   entries,
		Timers:   timer.NewEngine(repos.Timers, entries, exporter, clock, logger),
		Projects: projects.NewService(repos.Projects, clock, logger),
		Exporter: exporter,
		Clock:    clock,
		Logger:   logger,
	}
}

// CurrentUser returns the logged in user and reconciles their timers.
func (a *AppContext) CurrentUser(ctx context.Context) (*domain.SessionUser, error) {
	user, err := a.Identity.Current(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, fmt.Errorf("%w: run 'mtrack login' first", err)
		}
		return nil, err
	}

	if _, err := a.Timers.Load(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error
	if a.Exporter != nil {
		errs = append(errs, a.Exporter.Close(ctx))
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
