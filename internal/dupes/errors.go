package dupes

import (
	"errors"
	"fmt"
)

// ErrDestinationExists marks a move that was refused because a file already
// occupies the destination path. MoveError wraps it so callers can test for
// the collision case with errors.Is.
var ErrDestinationExists = errors.New("destination already exists")

// InvalidSourceError means the source path is missing or is not a directory.
// It is the only fatal error in a run; everything else is per-file.
type InvalidSourceError struct {
	Path string
	Err  error
}

func (e *InvalidSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid source directory %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid source directory %s: not a directory", e.Path)
}

func (e *InvalidSourceError) Unwrap() error { return e.Err }

// ReadError means a file could not be opened or fully read while hashing.
// The file is excluded from grouping; the scan continues.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading file %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// MoveError means one duplicate could not be relocated. It is recorded and
// logged; remaining moves proceed.
type MoveError struct {
	Path string
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("moving file %s: %v", e.Path, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }

// LogWriteError means the run log could not be written. It is reported;
// completed moves are not rolled back.
type LogWriteError struct {
	Path string
	Err  error
}

func (e *LogWriteError) Error() string {
	return fmt.Sprintf("writing log %s: %v", e.Path, e.Err)
}

func (e *LogWriteError) Unwrap() error { return e.Err }
