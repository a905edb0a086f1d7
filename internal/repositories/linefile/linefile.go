// Package linefile binds a repository to one durable line file: it reads the
// file at load, quarantines corrupt lines and rewrites the whole file after
// every mutation.
package linefile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/smarttask/internal/codec"
	"github.com/dmitrijs2005/smarttask/internal/common"
	"github.com/dmitrijs2005/smarttask/internal/filex"
	"github.com/dmitrijs2005/smarttask/internal/logging"
)

// File is not safe for concurrent use; callers hold their own lock.
type File struct {
	path     string
	log      logging.Logger
	backedUp bool
	// readErr holds the last read failure. While set, Write refuses to
	// replace data it never saw.
	readErr error
	now     func() time.Time
}

var errUnread = errors.New("record file could not be read; refusing to overwrite it")

func New(path string, log logging.Logger) *File {
	return &File{
		path: path,
		log:  log.With("file", path),
		now:  time.Now,
	}
}

func (f *File) Path() string {
	return f.path
}

// Read returns the file's lines. A missing file yields no lines. A file that
// cannot be read is logged and treated as empty, and the File stays read-only
// until a later Read succeeds.
func (f *File) Read(ctx context.Context) []string {
	lines, err := filex.ReadLines(f.path)
	if err != nil {
		f.readErr = err
		f.log.Error(ctx, "cannot read record file, starting empty and read-only", "error", err)
		return []string{}
	}
	f.readErr = nil
	return lines
}

// Quarantine logs every corrupt line and, the first time any are seen,
// copies the file aside as <path>.corrupt-<unix> so the next rewrite does not
// lose them for good.
func (f *File) Quarantine(ctx context.Context, corrupt []codec.Corrupt) {
	if len(corrupt) == 0 {
		return
	}
	for _, c := range corrupt {
		f.log.Warn(ctx, "skipping corrupt record", "line", c.Line, "error", c.Err)
	}
	if f.backedUp {
		return
	}

	backup, err := filex.Backup(f.path, fmt.Sprintf(".corrupt-%d", f.now().Unix()))
	if err != nil {
		f.log.Error(ctx, "cannot back up record file", "error", err)
		return
	}
	f.backedUp = true
	f.log.Warn(ctx, "record file backed up", "backup", backup, "corrupt", len(corrupt))
}

// Write replaces the file with lines. Failures wrap common.ErrPersistence.
func (f *File) Write(ctx context.Context, lines []string) error {
	if f.readErr != nil {
		f.log.Error(ctx, "write refused", "error", f.readErr)
		return fmt.Errorf("%w: %w: %v", common.ErrPersistence, errUnread, f.readErr)
	}
	if err := filex.WriteLines(f.path, lines); err != nil {
		f.log.Error(ctx, "cannot write record file", "error", err)
		return fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	f.log.Debug(ctx, "record file written", "records", len(lines))
	return nil
}
