// Package server initializes and runs the Drivault server: it validates the
// storage root, connects the metadata store, wires the services and serves
// the HTTP API until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/drivault/internal/logging"
	"github.com/dmitrijs2005/drivault/internal/server/config"
	"github.com/dmitrijs2005/drivault/internal/server/files"
	"github.com/dmitrijs2005/drivault/internal/server/httpapi"
	"github.com/dmitrijs2005/drivault/internal/server/shared/db"
	"github.com/dmitrijs2005/drivault/internal/server/storage"
	"github.com/dmitrijs2005/drivault/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	fileService *files.Service
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	// The storage root is validated exactly once; every ingestion reads the
	// same immutable value afterwards.
	root, err := storage.ValidateRoot(c.StoragePath, storage.DefaultRoot)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(context.Background(), "storage root validated", "path", root)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	us := users.NewService(m.Users(), m.RefreshTokens(), c)
	fs := files.NewService(m.Files(), storage.NewStore(root), logger)

	return &App{config: c, logger: logger, userService: us, fileService: fs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	handler := httpapi.NewHandler(app.userService, app.fileService, app.logger, app.config.SecretKey)
	s := httpapi.NewServer(app.config.EndpointAddr, handler.Router(app.config.Env), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
