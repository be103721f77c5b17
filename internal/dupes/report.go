package dupes

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Report is the optional JSON summary of one run.
type Report struct {
	ScannedAt       time.Time     `json:"scanned_at"`
	SourceRoot      string        `json:"source_root"`
	TargetRoot      string        `json:"target_root"`
	TotalFiles      int           `json:"total_files"`
	DuplicateGroups []ReportGroup `json:"duplicate_groups"`
	TotalDuplicates int           `json:"total_duplicate_files"`
	ReclaimedBytes  int64         `json:"reclaimed_bytes"`
}

type ReportGroup struct {
	Digest string       `json:"digest"`
	Files  []ReportFile `json:"files"`
}

type ReportFile struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Action  string `json:"action"` // kept, moved, dry-run, failed
	MovedTo string `json:"moved_to,omitempty"`
	Error   string `json:"error,omitempty"`
}

func buildReport(fsys billy.Filesystem, source, target string, scannedAt time.Time, result *ScanResult, records []MoveRecord, dryRun bool) Report {
	rep := Report{
		ScannedAt:  scannedAt,
		SourceRoot: source,
		TargetRoot: target,
		TotalFiles: result.FilesExamined,
	}

	byDup := make(map[string]MoveRecord, len(records))
	for _, rec := range records {
		byDup[rec.Duplicate] = rec
	}

	for _, group := range result.Duplicates() {
		rg := ReportGroup{Digest: group.Digest}
		rg.Files = append(rg.Files, ReportFile{
			Path:   group.Paths[0],
			Size:   sizeOf(fsys, group.Paths[0]),
			Action: "kept",
		})
		for _, dup := range group.Paths[1:] {
			rep.TotalDuplicates++
			rf := ReportFile{Path: dup}
			switch rec, ok := byDup[dup]; {
			case dryRun || !ok:
				dest, _ := destinationFor(fsys, source, target, dup)
				rf.Size = sizeOf(fsys, dup)
				rf.Action = "dry-run"
				rf.MovedTo = dest
			case rec.Err != nil:
				rf.Size = rec.Size
				rf.Action = "failed"
				rf.Error = rec.Err.Error()
			default:
				rf.Size = rec.Size
				rf.Action = "moved"
				rf.MovedTo = rec.Destination
				rep.ReclaimedBytes += rec.Size
			}
			rg.Files = append(rg.Files, rf)
		}
		rep.DuplicateGroups = append(rep.DuplicateGroups, rg)
	}
	return rep
}

func saveReport(fsys billy.Filesystem, path string, rep Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := util.WriteFile(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}

func sizeOf(fsys billy.Filesystem, path string) int64 {
	info, err := fsys.Lstat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
