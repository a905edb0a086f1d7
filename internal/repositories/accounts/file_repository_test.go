package accounts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAccount(email string) models.Account {
	return models.Account{
		Email:        email,
		FirstName:    "Ann",
		LastName:     "Lee",
		ExternalID:   "S1",
		Major:        "CS",
		PasswordHash: "hash",
		CreatedAt:    time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local),
		Active:       true,
	}
}

func newRepo(t *testing.T) (*FileRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "students.txt")
	r := NewFileRepository(path, logging.NewNop())
	require.NoError(t, r.Load(context.Background()))
	return r, path
}

func TestFileRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)

	created, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", created.Email)

	got, err := r.FindByEmail(ctx, "ANN@X.COM")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)

	_, err = r.FindByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)

	_, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)

	_, err = r.Create(ctx, newAccount("Ann@X.com"))
	require.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.Len(t, r.List(ctx), 1)
}

func TestFileRepository_PersistsAcrossLoads(t *testing.T) {
	ctx := context.Background()
	r, path := newRepo(t)

	_, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)
	_, err = r.Update(ctx, "ann@x.com", func(a *models.Account) error {
		a.Major = "Math"
		a.Active = false
		return nil
	})
	require.NoError(t, err)

	reloaded := NewFileRepository(path, logging.NewNop())
	require.NoError(t, reloaded.Load(ctx))

	got, err := reloaded.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Math", got.Major)
	assert.False(t, got.Active)
}

func TestFileRepository_UpdateCallbackErrorChangesNothing(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)
	_, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = r.Update(ctx, "ann@x.com", func(a *models.Account) error {
		a.Major = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := r.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "CS", got.Major)

	_, err = r.Update(ctx, "nobody@x.com", func(*models.Account) error { return nil })
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFileRepository_UpdateKeepsEmail(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)
	_, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)

	got, err := r.Update(ctx, "ann@x.com", func(a *models.Account) error {
		a.Email = "other@x.com"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", got.Email)
}

func TestFileRepository_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)
	login := time.Now()
	a := newAccount("ann@x.com")
	a.LastLoginAt = &login
	_, err := r.Create(ctx, a)
	require.NoError(t, err)

	list := r.List(ctx)
	list[0].FirstName = "Mallory"
	*list[0].LastLoginAt = time.Time{}

	got, err := r.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ann", got.FirstName)
	assert.False(t, got.LastLoginAt.IsZero())
}

// breakDir turns the data directory into a plain file so every later write fails.
func breakDir(t *testing.T, path string) {
	t.Helper()
	dir := filepath.Dir(path)
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("not a dir"), 0o600))
}

func TestFileRepository_FlushFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	r, path := newRepo(t)
	_, err := r.Create(ctx, newAccount("ann@x.com"))
	require.NoError(t, err)

	breakDir(t, path)

	_, err = r.Create(ctx, newAccount("bob@x.com"))
	require.ErrorIs(t, err, common.ErrPersistence)
	_, err = r.FindByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = r.Update(ctx, "ann@x.com", func(a *models.Account) error {
		a.Major = "Art"
		return nil
	})
	require.ErrorIs(t, err, common.ErrPersistence)
	got, err := r.FindByEmail(ctx, "ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, "CS", got.Major)
	assert.Len(t, r.List(ctx), 1)
}

func TestFileRepository_ConcurrentCreateSameEmail(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Create(ctx, newAccount("race@x.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	}
	assert.Equal(t, 1, ok)
	assert.Len(t, r.List(ctx), 1)
}

func TestFileRepository_LoadSkipsCorruptAndDuplicates(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "students.txt")
	content := "ann@x.com|Ann|Lee|S1|CS|hash|2024-01-01T08:00:00|null|true\n" +
		"broken|line\n" +
		"ANN@x.com|Dup|Lee|S9|CS|hash|2024-01-01T08:00:00|null|true\n" +
		"bob@x.com|Bob|Ray|S2|EE|hash|2024-01-02T08:00:00|2024-01-03T09:00:00|false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r := NewFileRepository(path, logging.NewNop())
	require.NoError(t, r.Load(ctx))

	list := r.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, "Ann", list[0].FirstName)
	assert.Equal(t, "bob@x.com", list[1].Email)
	assert.False(t, list[1].Active)
	require.NotNil(t, list[1].LastLoginAt)

	backups, err := filepath.Glob(path + ".corrupt-*")
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestFileRepository_LoadMissingFileIsEmpty(t *testing.T) {
	r, path := newRepo(t)
	assert.Empty(t, r.List(context.Background()))
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFileRepository_UnreadableFileIsNotOverwritten(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "students.txt")
	content := "ann@x.com|Ann|Lee|S1|CS|hash|2024-01-01T08:00:00|null|true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o600) })

	r := NewFileRepository(path, logging.NewNop())
	require.NoError(t, r.Load(ctx))
	assert.Empty(t, r.List(ctx))

	_, err := r.Create(ctx, newAccount("bob@x.com"))
	require.ErrorIs(t, err, common.ErrPersistence)
	assert.Empty(t, r.List(ctx))

	require.NoError(t, os.Chmod(path, 0o600))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))

	require.NoError(t, r.Load(ctx))
	require.Len(t, r.List(ctx), 1)
	_, err = r.Create(ctx, newAccount("bob@x.com"))
	require.NoError(t, err)
	assert.Len(t, r.List(ctx), 2)
}
