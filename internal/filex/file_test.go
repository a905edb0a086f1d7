package filex

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}

func TestEnsureSubdDir_CreatesDirectoryInCWD(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	got, err := EnsureSubdDir("data")
	require.NoError(t, err)

	want := filepath.Join(tmp, "data")
	require.Equal(t, want, got)

	fi, err := os.Stat(want)
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	if runtime.GOOS != "windows" {
		require.Equal(t, os.FileMode(0o700), fi.Mode().Perm()&0o700)
	}
}

func TestEnsureSubdDir_FailsIfFileWithSameNameExists(t *testing.T) {
	tmp := t.TempDir()
	defer chdir(t, tmp)()

	require.NoError(t, os.WriteFile("data", []byte("x"), 0o660))

	_, err := EnsureSubdDir("data")
	require.Error(t, err)
}

func TestEnsureSubdDir_KeepsAbsolutePath(t *testing.T) {
	want := filepath.Join(t.TempDir(), "srv", "data")

	got, err := EnsureSubdDir(want)
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.True(t, Exists(want))
}

func TestReadLines_MissingFileIsEmpty(t *testing.T) {
	lines, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	require.NotNil(t, lines)
	assert.Empty(t, lines)
}

func TestReadLines_HandlesCRLFAndMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb\nc"), 0o644))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestWriteLines_CreatesParentsAndReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tasks.txt")

	require.NoError(t, WriteLines(path, []string{"one", "two"}))
	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, lines)

	require.NoError(t, WriteLines(path, []string{"three"}))
	lines, err = ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"three"}, lines)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestWriteLines_EmptyCollectionTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.txt")
	require.NoError(t, WriteLines(path, []string{"x"}))
	require.NoError(t, WriteLines(path, nil))

	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), size)
}

func TestWriteLines_FailsWhenParentIsAFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := WriteLines(filepath.Join(blocker, "tasks.txt"), []string{"a"})
	require.Error(t, err)
}

func TestAppendLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "log.txt")
	require.NoError(t, AppendLine(path, "first"))
	require.NoError(t, AppendLine(path, "second"))

	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, lines)
}

func TestExistsDeleteSizeLastModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")

	assert.False(t, Exists(path))
	size, err := Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), size)
	mod, err := LastModified(path)
	require.NoError(t, err)
	assert.True(t, mod.IsZero())

	require.NoError(t, WriteLines(path, []string{"abc"}))
	assert.True(t, Exists(path))
	size, err = Size(path)
	require.NoError(t, err)
	assert.Equal(t, int64(4), size)
	mod, err = LastModified(path)
	require.NoError(t, err)
	assert.False(t, mod.IsZero())

	removed, err := Delete(path)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = Delete(path)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.txt")
	require.NoError(t, WriteLines(path, []string{"a|b"}))

	target, err := Backup(path, ".bak")
	require.NoError(t, err)
	assert.Equal(t, path+".bak", target)

	lines, err := ReadLines(target)
	require.NoError(t, err)
	assert.Equal(t, []string{"a|b"}, lines)

	_, err = Backup(filepath.Join(t.TempDir(), "missing"), ".bak")
	require.Error(t, err)
}
