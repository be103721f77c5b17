// Package dupes finds files with identical content under a source directory
// and moves all but the first-discovered copy of each set into a target
// directory, mirroring their relative paths.
package dupes

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
)

// Config carries everything one run needs. There is no package-level state;
// callers construct a Config and hand it to Run.
type Config struct {
	Source     string
	Target     string
	DryRun     bool
	ReportPath string

	FS  billy.Filesystem
	Out io.Writer
	Now func() time.Time
}

// Run executes the full pipeline: validate, scan, then relocate.
//
// When the scan finds no duplicate groups the run stops before the target
// directory or log file is created, so a duplicate-free source leaves the
// filesystem untouched.
func Run(cfg Config) error {
	source, err := filepath.Abs(cfg.Source)
	if err != nil {
		return fmt.Errorf("resolving source path %s: %w", cfg.Source, err)
	}
	target, err := filepath.Abs(cfg.Target)
	if err != nil {
		return fmt.Errorf("resolving target path %s: %w", cfg.Target, err)
	}
	if isWithin(source, target) || isWithin(target, source) {
		return fmt.Errorf("source %s and target %s overlap; refusing to move files into the scan path", source, target)
	}

	notify := NewNotifier(cfg.Out)
	result, err := Scan(cfg.FS, source, notify)
	if err != nil {
		return err
	}

	dups := result.Duplicates()
	if len(dups) == 0 {
		notify.NoDuplicates()
		writeReportIfRequested(cfg, notify, source, target, result, nil)
		return nil
	}

	var total int
	for _, g := range dups {
		total += len(g.Paths) - 1
	}
	notify.DuplicatesFound(len(dups), total)

	if cfg.DryRun {
		for _, g := range dups {
			for _, dup := range g.Paths[1:] {
				dest, err := destinationFor(cfg.FS, source, target, dup)
				if err != nil {
					notify.MoveFailed(dup, err)
					continue
				}
				notify.WouldMove(dup, dest)
			}
		}
		writeReportIfRequested(cfg, notify, source, target, result, nil)
		return nil
	}

	logPath, records, err := Relocate(cfg.FS, dups, source, target, cfg.Now(), notify)
	if err != nil {
		return err
	}
	if logPath != "" {
		notify.LogWritten(logPath)
	}

	var moved, failed int
	var reclaimed int64
	for _, rec := range records {
		if rec.Err != nil {
			failed++
			continue
		}
		moved++
		reclaimed += rec.Size
	}
	notify.Summary(moved, failed, reclaimed)

	writeReportIfRequested(cfg, notify, source, target, result, records)
	return nil
}

func writeReportIfRequested(cfg Config, notify Notifier, source, target string, result *ScanResult, records []MoveRecord) {
	if cfg.ReportPath == "" {
		return
	}
	path, err := filepath.Abs(cfg.ReportPath)
	if err != nil {
		notify.ReportFailed(cfg.ReportPath, err)
		return
	}
	rep := buildReport(cfg.FS, source, target, cfg.Now(), result, records, cfg.DryRun)
	if err := saveReport(cfg.FS, path, rep); err != nil {
		notify.ReportFailed(path, err)
		return
	}
	notify.ReportSaved(path)
}

// isWithin reports whether child is parent itself or lies under it. Both
// paths must already be absolute and clean.
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
