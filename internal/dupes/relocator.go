package dupes

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const logTimeFormat = "2006-01-02_15-04-05"

// MoveRecord is one relocation attempt: the group's surviving original, the
// duplicate to move, and either the destination it landed at or the error
// that stopped it.
type MoveRecord struct {
	Original    string
	Duplicate   string
	Destination string
	Size        int64
	Err         error
}

// Relocate moves every non-original member of each group under target,
// mirroring the member's path relative to source, and writes the run log
// into the target directory.
//
// One failed move never aborts the rest: it is recorded, logged, and
// processing continues with the next duplicate. If the destination path is
// already occupied the move fails with ErrDestinationExists rather than
// overwriting. A failure writing the log itself is reported but leaves the
// completed moves in place.
func Relocate(fsys billy.Filesystem, groups []Group, source, target string, now time.Time, notify Notifier) (string, []MoveRecord, error) {
	if err := fsys.MkdirAll(target, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating target directory %s: %w", target, err)
	}

	var records []MoveRecord
	var log strings.Builder
	for i, group := range groups {
		if i > 0 {
			log.WriteString("\n")
		}
		fmt.Fprintf(&log, "原始文件: %s\n", group.Paths[0])
		for _, dup := range group.Paths[1:] {
			rec := moveOne(fsys, source, target, group.Paths[0], dup)
			records = append(records, rec)
			if rec.Err != nil {
				notify.MoveFailed(dup, rec.Err)
				fmt.Fprintf(&log, "  无法移动文件: %s. 错误: %v\n", dup, rec.Err)
				continue
			}
			notify.MovedDuplicate(rec.Size, dup, rec.Destination)
			fmt.Fprintf(&log, "  重复文件: %s\n  移动到: %s\n", dup, rec.Destination)
		}
	}

	logPath := fsys.Join(target, fmt.Sprintf("duplicates_log_%s.txt", now.Format(logTimeFormat)))
	if err := util.WriteFile(fsys, logPath, []byte(log.String()), 0o644); err != nil {
		notify.LogWriteFailed(&LogWriteError{Path: logPath, Err: err})
		return "", records, nil
	}
	return logPath, records, nil
}

func moveOne(fsys billy.Filesystem, source, target, original, dup string) MoveRecord {
	rec := MoveRecord{Original: original, Duplicate: dup}

	dest, err := destinationFor(fsys, source, target, dup)
	if err != nil {
		rec.Err = &MoveError{Path: dup, Err: err}
		return rec
	}
	rec.Destination = dest

	if info, err := fsys.Lstat(dup); err == nil {
		rec.Size = info.Size()
	}

	if _, err := fsys.Lstat(dest); err == nil {
		rec.Err = &MoveError{Path: dup, Err: fmt.Errorf("%w: %s", ErrDestinationExists, dest)}
		return rec
	}
	if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		rec.Err = &MoveError{Path: dup, Err: err}
		return rec
	}
	if err := fsys.Rename(dup, dest); err != nil {
		rec.Err = &MoveError{Path: dup, Err: err}
		return rec
	}
	return rec
}

// destinationFor mirrors dup's path relative to source onto the target
// root. The relative path of the duplicate joined onto target is also what
// the run log records as the destination.
func destinationFor(fsys billy.Filesystem, source, target, dup string) (string, error) {
	rel, err := filepath.Rel(source, dup)
	if err != nil {
		return "", err
	}
	return fsys.Join(target, rel), nil
}
