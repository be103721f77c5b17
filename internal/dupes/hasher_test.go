package dupes

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFileKnownDigest(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/a.txt", []byte("hello world"), 0o644))

	digest, err := HashFile(fsys, "/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", digest)
}

func TestHashFileSpansMultipleBlocks(t *testing.T) {
	content := bytes.Repeat([]byte("0123456789abcdef"), 3*hashBlockSize/16)
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/big.bin", content, 0o644))

	digest, err := HashFile(fsys, "/big.bin")
	require.NoError(t, err)

	want := md5.Sum(content)
	assert.Equal(t, hex.EncodeToString(want[:]), digest)
}

func TestHashFileContentEquality(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, util.WriteFile(fsys, "/one", []byte("same bytes"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "/two", []byte("same bytes"), 0o644))
	require.NoError(t, util.WriteFile(fsys, "/three", []byte("other bytes"), 0o644))

	first, err := HashFile(fsys, "/one")
	require.NoError(t, err)
	second, err := HashFile(fsys, "/two")
	require.NoError(t, err)
	third, err := HashFile(fsys, "/three")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, third)
}

func TestHashFileMissingFile(t *testing.T) {
	fsys := memfs.New()

	_, err := HashFile(fsys, "/nope")
	var readErr *ReadError
	require.ErrorAs(t, err, &readErr)
	assert.Equal(t, "/nope", readErr.Path)
}
