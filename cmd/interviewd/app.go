package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mind-engage/interview-coach/internal/config"
	"github.com/mind-engage/interview-coach/internal/db"
	"github.com/mind-engage/interview-coach/internal/interview"
	"github.com/mind-engage/interview-coach/internal/logging"
)

// app holds the pieces every subcommand needs.
type app struct {
	cfg   config.Config
	log   *zap.Logger
	db    *sql.DB // nil with DB_DRIVER=memory
	store interview.Store
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	if cfg.DBDriver == "memory" {
		a.store = interview.NewMemoryStore()
		return a, nil
	}
	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	a.db = dbh
	a.store = interview.NewSQLStore(dbh, cfg.DBDriver)
	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
	_ = a.log.Sync()
}
