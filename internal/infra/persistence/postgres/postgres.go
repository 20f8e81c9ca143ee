package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"devicerelay/config"
	"devicerelay/internal/domain/lifecycle"
	"devicerelay/internal/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolCheckInterval = 5 * time.Second
	poolWaitWarnAfter = 50 * time.Millisecond
	dbStatsName       = "transfers"
)

// Params defines the dependencies of the PostgreSQL client
type Params struct {
	fx.In
	fx.Lifecycle

	Config     *config.Config
	Logger     *slog.Logger
	Registerer prometheus.Registerer
}

// New opens the transfer history database. Pool statistics are exported
// through the Prometheus registry and the schema is migrated on start.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	statsCollector := collectors.NewDBStatsCollector(sqlDB, dbStatsName)
	if err := params.Registerer.Register(statsCollector); err != nil {
		return nil, errors.Wrap(err, "failed to register database stats collector")
	}

	watcher := newPoolWatcher(params.Logger, sqlDB.Stats)
	stopWatcher := func() {}

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			if err := Migrate(ctx, db); err != nil {
				return err
			}

			watchCtx, cancelWatch := context.WithCancel(context.Background())
			stopWatcher = cancelWatch
			go watcher.run(watchCtx, poolCheckInterval)

			return nil
		},
		OnStop: func(_ context.Context) error {
			stopWatcher()
			params.Registerer.Unregister(statsCollector)

			return sqlDB.Close()
		},
	})

	return db, nil
}

// poolWatcher reports callers that had to wait for a pooled connection.
// Transfer inserts run on the recorder goroutine, so waits there delay
// history writes for every user.
type poolWatcher struct {
	logger *slog.Logger
	stats  func() sql.DBStats
	prev   sql.DBStats
}

func newPoolWatcher(logger *slog.Logger, stats func() sql.DBStats) *poolWatcher {
	return &poolWatcher{
		logger: logger.With(slog.String("component", "db_pool")),
		stats:  stats,
		prev:   stats(),
	}
}

func (w *poolWatcher) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

func (w *poolWatcher) check(ctx context.Context) {
	cur := w.stats()
	waits := cur.WaitCount - w.prev.WaitCount
	waited := cur.WaitDuration - w.prev.WaitDuration
	w.prev = cur

	if waits <= 0 {
		return
	}

	level := slog.LevelDebug
	if waited >= poolWaitWarnAfter {
		level = slog.LevelWarn
	}
	w.logger.LogAttrs(ctx, level, "Connection pool wait",
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Int("in_use", cur.InUse),
		slog.Int("open", cur.OpenConnections),
		slog.Int("max_open", cur.MaxOpenConnections),
	)
}
