package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/cryptox"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/repositories/accounts"
	"github.com/dmitrijs2005/smarttask/internal/repositories/tasks"
	"github.com/dmitrijs2005/smarttask/internal/timex"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir      string
	clock    *timex.FixedClock
	accounts *accounts.FileRepository
	tasks    *tasks.FileRepository
	users    *AccountService
	todo     *TaskService
}

// noon on 2024-01-10, local time
func testNow() time.Time {
	return time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	log := logging.NewNop()

	f := &fixture{
		dir:      dir,
		clock:    &timex.FixedClock{T: testNow()},
		accounts: accounts.NewFileRepository(filepath.Join(dir, "students.txt"), log),
		tasks:    tasks.NewFileRepository(filepath.Join(dir, "tasks.txt"), log),
	}
	require.NoError(t, f.accounts.Load(ctx))
	require.NoError(t, f.tasks.Load(ctx))

	f.users = NewAccountService(f.accounts, cryptox.BcryptHasher{Cost: cryptox.MinCost}, f.clock, log)
	f.todo = NewTaskService(f.tasks, f.accounts, f.clock, log)
	return f
}

func (f *fixture) register(t *testing.T, email string) {
	t.Helper()
	_, err := f.users.Register(context.Background(), Registration{
		FirstName: "Ann", LastName: "Lee", Email: email, ExternalID: "S1", Major: "CS", Password: "secret1",
	})
	require.NoError(t, err)
}
