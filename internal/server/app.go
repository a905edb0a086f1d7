// Package server initializes and runs the SmartTask API server. It loads the
// record files, wires the services and serves the HTTP API until a shutdown
// signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/config"
	"github.com/dmitrijs2005/smarttask/internal/cryptox"
	"github.com/dmitrijs2005/smarttask/internal/filex"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/repositories/accounts"
	"github.com/dmitrijs2005/smarttask/internal/repositories/tasks"
	"github.com/dmitrijs2005/smarttask/internal/server/httpapi"
	"github.com/dmitrijs2005/smarttask/internal/services"
	"github.com/dmitrijs2005/smarttask/internal/timex"
)

const generatedSecretBytes = 32

type App struct {
	config         *config.Config
	logger         logging.Logger
	accountService *services.AccountService
	taskService    *services.TaskService
}

// NewApp loads both record files and builds the services. A missing secret
// key is replaced with a random one, which invalidates tokens on restart.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.LogLevel)

	dataDir, err := filex.EnsureSubdDir(c.DataDir)
	if err != nil {
		return nil, fmt.Errorf("data dir init error: %w", err)
	}
	c.DataDir = dataDir

	ar := accounts.NewFileRepository(c.AccountsPath(), logger)
	if err := ar.Load(ctx); err != nil {
		return nil, fmt.Errorf("accounts load error: %w", err)
	}
	tr := tasks.NewFileRepository(c.TasksPath(), logger)
	if err := tr.Load(ctx); err != nil {
		return nil, fmt.Errorf("tasks load error: %w", err)
	}

	hasher, err := cryptox.New(c.HashAlgorithm, c.BcryptCost)
	if err != nil {
		return nil, err
	}

	if c.SecretKey == "" {
		secret, err := common.MakeRandHexString(generatedSecretBytes)
		if err != nil {
			return nil, fmt.Errorf("secret generation error: %w", err)
		}
		c.SecretKey = secret
		logger.Warn(ctx, "No secret key configured, generated a random one; tokens will not survive a restart")
	}

	clock := timex.SystemClock{}
	as := services.NewAccountService(ar, hasher, clock, logger)
	ts := services.NewTaskService(tr, ar, clock, logger)

	return &App{config: c, logger: logger, accountService: as, taskService: ts}, nil
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
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.logger, app.accountService, app.taskService,
		app.config.SecretKey, app.config.TokenValidityDuration)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"accounts", app.config.AccountsPath(),
		"tasks", app.config.TasksPath(),
	)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
