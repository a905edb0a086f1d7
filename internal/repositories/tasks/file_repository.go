package tasks

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/smarttask/internal/codec"
	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/logging"
	"github.com/dmitrijs2005/smarttask/internal/models"
	"github.com/dmitrijs2005/smarttask/internal/repositories/linefile"
)

// FileRepository keeps every task in memory and rewrites the whole file
// after each change. A change, including the id it consumed, only becomes
// visible once the file write has succeeded.
type FileRepository struct {
	mu     sync.RWMutex
	file   *linefile.File
	log    logging.Logger
	items  []models.Task
	nextID int64
}

func NewFileRepository(path string, log logging.Logger) *FileRepository {
	return &FileRepository{
		file:   linefile.New(path, log),
		log:    log.With("repository", "tasks"),
		items:  []models.Task{},
		nextID: 1,
	}
}

// Load replaces the in-memory collection with the file's contents and
// re-derives the id sequence as the highest stored id plus one. Corrupt
// lines and repeated ids are skipped.
func (r *FileRepository) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	decoded, corrupt := codec.DecodeTasks(r.file.Read(ctx))
	r.file.Quarantine(ctx, corrupt)

	items := make([]models.Task, 0, len(decoded))
	seen := make(map[int64]struct{}, len(decoded))
	var maxID int64
	for _, t := range decoded {
		if _, dup := seen[t.ID]; dup {
			r.log.Warn(ctx, "duplicate task id in file, keeping first", "id", t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
		items = append(items, t)
		maxID = max(maxID, t.ID)
	}
	r.items = items
	r.nextID = maxID + 1

	r.log.Info(ctx, "tasks loaded", "count", len(items), "skipped", len(corrupt), "next_id", r.nextID)
	return nil
}

func (r *FileRepository) Create(ctx context.Context, task models.Task) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task = task.Clone()
	task.ID = r.nextID

	staged := make([]models.Task, len(r.items), len(r.items)+1)
	copy(staged, r.items)
	staged = append(staged, task)

	if err := r.flush(ctx, staged); err != nil {
		return models.Task{}, err
	}
	r.items = staged
	r.nextID++
	return task.Clone(), nil
}

func (r *FileRepository) Get(_ context.Context, id int64) (models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Task{}, common.ErrorNotFound
	}
	return r.items[i].Clone(), nil
}

func (r *FileRepository) Update(ctx context.Context, id int64, fn func(*models.Task) error) (models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return models.Task{}, common.ErrorNotFound
	}

	updated := r.items[i].Clone()
	if err := fn(&updated); err != nil {
		return models.Task{}, err
	}
	updated.ID = id

	staged := make([]models.Task, len(r.items))
	copy(staged, r.items)
	staged[i] = updated

	if err := r.flush(ctx, staged); err != nil {
		return models.Task{}, err
	}
	r.items = staged
	return updated.Clone(), nil
}

func (r *FileRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}

	staged := make([]models.Task, 0, len(r.items)-1)
	staged = append(staged, r.items[:i]...)
	staged = append(staged, r.items[i+1:]...)

	if err := r.flush(ctx, staged); err != nil {
		return err
	}
	r.items = staged
	return nil
}

func (r *FileRepository) List(_ context.Context) []models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Task, len(r.items))
	for i, t := range r.items {
		out[i] = t.Clone()
	}
	return out
}

func (r *FileRepository) NextID(_ context.Context) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nextID
}

func (r *FileRepository) flush(ctx context.Context, items []models.Task) error {
	return r.file.Write(ctx, codec.EncodeTasks(items))
}

func (r *FileRepository) indexOf(id int64) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
