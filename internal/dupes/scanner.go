package dupes

import (
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// Group is an ordered set of paths sharing one content digest. The first
// path is the one discovered first during traversal; it is the copy that
// stays in place when the group is relocated.
type Group struct {
	Digest string
	Paths  []string
}

// ScanResult is the complete outcome of one traversal.
type ScanResult struct {
	// Groups holds every digest seen, in first-discovery order.
	Groups []Group

	// FilesExamined counts every file encountered, including files that
	// failed to hash.
	FilesExamined int
}

// Duplicates returns the groups holding two or more paths.
func (r *ScanResult) Duplicates() []Group {
	var dups []Group
	for _, g := range r.Groups {
		if len(g.Paths) > 1 {
			dups = append(dups, g)
		}
	}
	return dups
}

// Scan walks the tree under source and groups every readable file by its
// content digest. The source must be an existing directory; anything else
// fails with *InvalidSourceError before traversal starts.
//
// The walk is breadth-first with entries visited in name order within each
// directory, so for a fixed filesystem state the group order (and therefore
// the surviving copy of each group) is deterministic.
func Scan(fsys billy.Filesystem, source string, notify Notifier) (*ScanResult, error) {
	info, err := fsys.Stat(source)
	if err != nil {
		return nil, &InvalidSourceError{Path: source, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidSourceError{Path: source}
	}

	notify.ScanningDirectory(source)
	paths := collectFiles(fsys, source, notify)

	result := &ScanResult{FilesExamined: len(paths)}
	index := make(map[string]int)
	bar := notify.HashingBar(len(paths))
	for _, p := range paths {
		digest, err := HashFile(fsys, p)
		bar.Add(1)
		if err != nil {
			notify.SkippingFile(err)
			continue
		}
		i, ok := index[digest]
		if !ok {
			i = len(result.Groups)
			index[digest] = i
			result.Groups = append(result.Groups, Group{Digest: digest})
		}
		result.Groups[i].Paths = append(result.Groups[i].Paths, p)
	}
	notify.ScanComplete(len(paths))
	return result, nil
}

// collectFiles lists every regular file under root using an explicit
// directory queue, so deep trees cannot grow the call stack. Symlinks are
// not followed (files or directories), which keeps cyclic links from
// trapping the walk. An unreadable directory is reported and skipped.
func collectFiles(fsys billy.Filesystem, root string, notify Notifier) []string {
	var files []string
	dirs := []string{root}
	for len(dirs) > 0 {
		dir := dirs[0]
		dirs = dirs[1:]

		entries, err := fsys.ReadDir(dir)
		if err != nil {
			notify.SkippingDirectory(dir, err)
			continue
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})

		for _, entry := range entries {
			p := fsys.Join(dir, entry.Name())
			switch {
			case entry.Mode()&os.ModeSymlink != 0:
				// skipped
			case entry.IsDir():
				dirs = append(dirs, p)
			default:
				files = append(files, p)
			}
		}
	}
	return files
}
