package dupes

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logStamp = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func readFile(t *testing.T, fsys billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestRelocateMirrorsSourceStructure(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"/src/a/x.txt":      "duplicate content",
		"/src/b/deep/x.txt": "duplicate content",
		"/src/c/y.txt":      "unique content",
	})
	result, err := Scan(fsys, "/src", quiet())
	require.NoError(t, err)

	logPath, records, err := Relocate(fsys, result.Duplicates(), "/src", "/dst", logStamp, quiet())
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NoError(t, records[0].Err)

	// original stays, duplicate lands at its mirrored relative path
	assert.Equal(t, "duplicate content", readFile(t, fsys, "/src/a/x.txt"))
	assert.Equal(t, "duplicate content", readFile(t, fsys, "/dst/b/deep/x.txt"))
	_, err = fsys.Lstat("/src/b/deep/x.txt")
	assert.Error(t, err)

	// untouched unique file
	assert.Equal(t, "unique content", readFile(t, fsys, "/src/c/y.txt"))

	assert.Equal(t, "/dst/duplicates_log_2024-05-01_10-30-00.txt", logPath)
	log := readFile(t, fsys, logPath)
	assert.Contains(t, log, "原始文件: /src/a/x.txt\n")
	assert.Contains(t, log, "  重复文件: /src/b/deep/x.txt\n  移动到: /dst/b/deep/x.txt\n")
}

func TestRelocateLoggedDestinationMatchesRecord(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"/src/a/x.txt": "dup",
		"/src/b/x.txt": "dup",
	})
	result, err := Scan(fsys, "/src", quiet())
	require.NoError(t, err)

	logPath, records, err := Relocate(fsys, result.Duplicates(), "/src", "/dst", logStamp, quiet())
	require.NoError(t, err)
	require.Len(t, records, 1)

	dest, err := destinationFor(fsys, "/src", "/dst", records[0].Duplicate)
	require.NoError(t, err)
	assert.Equal(t, dest, records[0].Destination)
	assert.Contains(t, readFile(t, fsys, logPath), "移动到: "+dest)
}

func TestRelocateDestinationCollision(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"/src/a/x.txt": "dup",
		"/src/b/x.txt": "dup",
		"/src/c/x.txt": "dup",
		"/dst/b/x.txt": "already here",
	})
	result, err := Scan(fsys, "/src", quiet())
	require.NoError(t, err)

	logPath, records, err := Relocate(fsys, result.Duplicates(), "/src", "/dst", logStamp, quiet())
	require.NoError(t, err)
	require.Len(t, records, 2)

	// the collision fails without overwriting and without stopping the run
	require.Error(t, records[0].Err)
	assert.ErrorIs(t, records[0].Err, ErrDestinationExists)
	assert.Equal(t, "already here", readFile(t, fsys, "/dst/b/x.txt"))
	assert.Equal(t, "dup", readFile(t, fsys, "/src/b/x.txt"))

	require.NoError(t, records[1].Err)
	assert.Equal(t, "dup", readFile(t, fsys, "/dst/c/x.txt"))

	log := readFile(t, fsys, logPath)
	assert.Contains(t, log, "无法移动文件: /src/b/x.txt")
	assert.Contains(t, log, "移动到: /dst/c/x.txt")
}

func TestRelocateSeparatesGroupsWithBlankLine(t *testing.T) {
	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"/src/a/one.txt": "first group",
		"/src/b/one.txt": "first group",
		"/src/a/two.txt": "second group",
		"/src/b/two.txt": "second group",
	})
	result, err := Scan(fsys, "/src", quiet())
	require.NoError(t, err)

	logPath, _, err := Relocate(fsys, result.Duplicates(), "/src", "/dst", logStamp, quiet())
	require.NoError(t, err)

	log := readFile(t, fsys, logPath)
	assert.Equal(t, 2, strings.Count(log, "原始文件: "))
	assert.Contains(t, log, "\n\n原始文件: ")
}

// failOpenFileFS refuses to open one path for writing, standing in for a
// full disk when the run log is flushed.
type failOpenFileFS struct {
	billy.Filesystem
	path string
}

func (f *failOpenFileFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if name == f.path {
		return nil, errors.New("disk full")
	}
	return f.Filesystem.OpenFile(name, flag, perm)
}

func TestRelocateLogWriteFailureKeepsMoves(t *testing.T) {
	base := memfs.New()
	writeFiles(t, base, map[string]string{
		"/src/a/x.txt": "dup",
		"/src/b/x.txt": "dup",
	})
	result, err := Scan(base, "/src", quiet())
	require.NoError(t, err)

	fsys := &failOpenFileFS{
		Filesystem: base,
		path:       "/dst/duplicates_log_2024-05-01_10-30-00.txt",
	}
	out := &bytes.Buffer{}

	logPath, records, err := Relocate(fsys, result.Duplicates(), "/src", "/dst", logStamp, NewNotifier(out))
	require.NoError(t, err)
	assert.Empty(t, logPath)

	// the completed move stands even though the log could not be written
	require.Len(t, records, 1)
	require.NoError(t, records[0].Err)
	assert.Equal(t, "dup", readFile(t, base, "/dst/b/x.txt"))
	_, statErr := base.Lstat("/src/b/x.txt")
	assert.Error(t, statErr)

	assert.Contains(t, out.String(), "failed to write log")
	assert.Contains(t, out.String(), "disk full")
}
