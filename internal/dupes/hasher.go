package dupes

import (
	"crypto/md5"
	"encoding/hex"
	"io"

	"github.com/go-git/go-billy/v5"
)

// hashBlockSize is the read granularity while digesting a file.
const hashBlockSize = 64 * 1024

// HashFile computes the hex-encoded MD5 digest of the file's full content,
// streaming fixed-size blocks so arbitrarily large files never load into
// memory at once. On failure it returns a *ReadError carrying the path and
// cause; the caller should exclude the file from grouping.
func HashFile(fsys billy.Filesystem, path string) (string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	sum := md5.New()
	buf := make([]byte, hashBlockSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			sum.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ReadError{Path: path, Err: err}
		}
	}
	return hex.EncodeToString(sum.Sum(nil)), nil
}
