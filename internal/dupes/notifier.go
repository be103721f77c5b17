package dupes

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
)

// Notifier prints run progress and diagnostics for humans. Every component
// reports through it; nothing in the pipeline writes to stdout directly.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) (n Notifier) {
	n.w = w
	return
}

func (n Notifier) ScanningDirectory(dir string) {
	bold.Fprintf(n.w, "%s scanning directory: %s\n", nowStr(), dir)
}

func (n Notifier) HashingBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(n.w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription("Hashing files..."),
		progressbar.OptionShowElapsedTimeOnFinish(),
	)
}

func (n Notifier) SkippingDirectory(dir string, err error) {
	fmt.Fprintf(n.w, "%s skipping unreadable directory %s: %v\n", nowStr(), dir, err)
}

func (n Notifier) SkippingFile(err error) {
	fmt.Fprintf(n.w, "\n%s skipping file: %v\n", nowStr(), err)
}

func (n Notifier) ScanComplete(examined int) {
	fmt.Fprintf(n.w, "\n%s scan complete, %d files examined\n", nowStr(), examined)
}

func (n Notifier) NoDuplicates() {
	fmt.Fprintf(n.w, "%s no duplicate files found\n", nowStr())
}

func (n Notifier) DuplicatesFound(groups, duplicates int) {
	bold.Fprintf(
		n.w,
		"%s found %d duplicate files in %d groups\n",
		nowStr(),
		duplicates,
		groups,
	)
}

func (n Notifier) WouldMove(dup, dest string) {
	fmt.Fprintf(n.w, "%s [dry-run] would move: %s --> %s\n", nowStr(), dup, dest)
}

func (n Notifier) MovedDuplicate(size int64, dup, dest string) {
	green.Fprintf(
		n.w,
		"%s moved duplicate (%s): %s --> %s\n",
		nowStr(),
		formatSize(size),
		dup,
		dest,
	)
}

func (n Notifier) MoveFailed(dup string, err error) {
	fmt.Fprintf(n.w, "%s failed to move %s: %v\n", nowStr(), dup, err)
}

func (n Notifier) LogWritten(path string) {
	fmt.Fprintf(n.w, "%s log written: %s\n", nowStr(), path)
}

func (n Notifier) LogWriteFailed(err error) {
	fmt.Fprintf(n.w, "%s failed to write log: %v\n", nowStr(), err)
}

func (n Notifier) ReportSaved(path string) {
	fmt.Fprintf(n.w, "%s report saved: %s\n", nowStr(), path)
}

func (n Notifier) ReportFailed(path string, err error) {
	fmt.Fprintf(n.w, "%s failed to save report %s: %v\n", nowStr(), path, err)
}

func (n Notifier) Summary(moved, failed int, reclaimed int64) {
	bold.Fprintf(
		n.w,
		"%s done: %d files moved (%s reclaimed from source), %d failed\n",
		nowStr(),
		moved,
		formatSize(reclaimed),
		failed,
	)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func nowStr() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
