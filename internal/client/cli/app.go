package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/smarttask/internal/config"
	"github.com/dmitrijs2005/smarttask/internal/cryptox"
	"github.com/dmitrijs2005/smarttask/internal/filex"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/repositories/accounts"
	"github.com/dmitrijs2005/smarttask/internal/repositories/tasks"
	"github.com/dmitrijs2005/smarttask/internal/services"
	"github.com/dmitrijs2005/smarttask/internal/timex"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	accounts *services.AccountService
	tasks    *services.TaskService
	reader   *bufio.Reader
	out      io.Writer
	email    string
}

// NewApp opens the record files named by c and builds the services. Logs go
// to stderr so they do not interleave with the console output.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, c.LogFormat, c.LogLevel)

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

	clock := timex.SystemClock{}
	return &App{
		config:   c,
		logger:   logger,
		accounts: services.NewAccountService(ar, hasher, clock, logger),
		tasks:    services.NewTaskService(tr, ar, clock, logger),
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to SmartTask (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) getStatus() string {
	if a.email == "" {
		return ""
	}
	return fmt.Sprintf("(%s) ", a.email)
}

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) say(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
