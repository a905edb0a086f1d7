package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/smarttask/internal/codec"
	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/repositories/linefile"
)

// FileRepository keeps every account in memory and rewrites the whole file
// after each change. A change only becomes visible once the file write has
// succeeded.
type FileRepository struct {
	mu    sync.RWMutex
	file  *linefile.File
	log   logging.Logger
	items []models.Account
}

func NewFileRepository(path string, log logging.Logger) *FileRepository {
	return &FileRepository{
		file:  linefile.New(path, log),
		log:   log.With("repository", "accounts"),
		items: []models.Account{},
	}
}

// Load replaces the in-memory collection with the file's contents. Corrupt
// lines are skipped. When the file holds the same email twice the first
// record wins.
func (r *FileRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	decoded, corrupt := codec.DecodeAccounts(r.file.Read(ctx))
	r.file.Quarantine(ctx, corrupt)

	items := make([]models.Account, 0, len(decoded))
	for _, a := range decoded {
		if indexOf(items, a.Email) >= 0 {
			r.log.Warn(ctx, "duplicate account in file, keeping first", "email", a.Email)
			continue
		}
		items = append(items, a)
	}
	r.items = items

	r.log.Info(ctx, "accounts loaded", "count", len(items), "skipped", len(corrupt))
	return nil
}

func (r *FileRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if indexOf(r.items, account.Email) >= 0 {
		return models.Account{}, fmt.Errorf("%w: %s", common.ErrDuplicateEmail, account.Email)
	}

	staged := make([]models.Account, len(r.items), len(r.items)+1)
	copy(staged, r.items)
	staged = append(staged, account.Clone())

	if err := r.flush(ctx, staged); err != nil {
		return models.Account{}, err
	}
	r.items = staged
	return account.Clone(), nil
}

func (r *FileRepository) FindByEmail(_ context.Context, email string) (models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := indexOf(r.items, email)
	if i < 0 {
		return models.Account{}, common.ErrorNotFound
	}
	return r.items[i].Clone(), nil
}

func (r *FileRepository) Update(ctx context.Context, email string, fn func(*models.Account) error) (models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := indexOf(r.items, email)
	if i < 0 {
		return models.Account{}, common.ErrorNotFound
	}

	updated := r.items[i].Clone()
	if err := fn(&updated); err != nil {
		return models.Account{}, err
	}
	// the email is the identity and cannot change through an update
	updated.Email = r.items[i].Email

	staged := make([]models.Account, len(r.items))
	copy(staged, r.items)
	staged[i] = updated

	if err := r.flush(ctx, staged); err != nil {
		return models.Account{}, err
	}
	r.items = staged
	return updated.Clone(), nil
}

func (r *FileRepository) List(_ context.Context) []models.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Account, len(r.items))
	for i, a := range r.items {
		out[i] = a.Clone()
	}
	return out
}

func (r *FileRepository) flush(ctx context.Context, items []models.Account) error {
	return r.file.Write(ctx, codec.EncodeAccounts(items))
}

func indexOf(items []models.Account, email string) int {
	for i := range items {
		if models.SameEmail(items[i].Email, email) {
			return i
		}
	}
	return -1
}
