// Package server initializes and runs the profile store application:
// it opens the database, optionally applies schema migrations, wires the
// services together and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avolkov/profiledb/internal/export"
	"github.com/avolkov/profiledb/internal/logging"
	"github.com/avolkov/profiledb/internal/server/config"
	"github.com/avolkov/profiledb/internal/server/httpapi"
	"github.com/avolkov/profiledb/internal/server/repositories/repomanager"
	"github.com/avolkov/profiledb/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()

	if c.MigrateOnStart {
		if err := repos.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	h := &httpapi.Handler{
		Ingest:    services.NewIngestService(db, repos, logger),
		Profiles:  services.NewProfileService(db, repos, logger),
		Analytics: services.NewAnalyticsService(db, repos),
		Exporter:  export.NewExporter(db, repos),
	}

	srv := httpapi.NewServer(c.EndpointAddrHTTP, h, logger)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}

func (app *App) Close() error {
	return app.db.Close()
}
