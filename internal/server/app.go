// Package server assembles and runs the records service: storage, the
// business services, and the HTTP API, with graceful shutdown on OS
// signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avramovs/clientbook/internal/logging"
	"github.com/avramovs/clientbook/internal/server/config"
	"github.com/avramovs/clientbook/internal/server/httpapi"
	recordsrepo "github.com/avramovs/clientbook/internal/server/repositories/records"
	usersrepo "github.com/avramovs/clientbook/internal/server/repositories/users"
	"github.com/avramovs/clientbook/internal/server/serverdb"
	"github.com/avramovs/clientbook/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	users   *services.UserService
	records *services.RecordService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	var (
		db         *sql.DB
		userRepo   usersrepo.Repository
		recordRepo recordsrepo.Repository
	)

	if cfg.DatabaseDSN == "" {
		// Dev mode: everything lives in memory and vanishes on exit.
		logger.Warn(ctx, "no database DSN configured, using in-memory storage")
		userRepo = usersrepo.NewInMemoryRepository()
		recordRepo = recordsrepo.NewInMemoryRepository()
	} else {
		var err error
		db, err = serverdb.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		userRepo = usersrepo.NewPostgresRepository(db)
		recordRepo = recordsrepo.NewPostgresRepository(db)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		db:      db,
		users:   services.NewUserService(userRepo, cfg),
		records: services.NewRecordService(recordRepo),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
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

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: httpapi.NewRouter(app.users, app.records, app.logger),
	}

	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Error(ctx, "server error", "error", err)
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}
}
