package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"dupmover/internal/dupes"
)

var (
	dryRun     bool
	reportPath string
)

var rootCmd = &cobra.Command{
	Use:   "dupmover <source> <target>",
	Short: "Find duplicate files and move them out of a directory tree",
	Long: `dupmover scans a source directory for files with identical content,
keeps the first copy of each duplicate set in place, and moves the rest into
the target directory while preserving their relative paths. Every run that
moves files writes a log of the moves under the target directory.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		err := dupes.Run(dupes.Config{
			Source:     args[0],
			Target:     args[1],
			DryRun:     dryRun,
			ReportPath: reportPath,
			FS:         osfs.New("/"),
			Out:        cmd.OutOrStdout(),
			Now:        time.Now,
		})

		// A missing or non-directory source is reported and treated as a
		// clean early exit, not a crash.
		var invalid *dupes.InvalidSourceError
		if errors.As(err, &invalid) {
			fmt.Fprintln(cmd.OutOrStdout(), "Error:", invalid)
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print planned moves without touching any file")
	rootCmd.Flags().StringVar(&reportPath, "report", "", "Path to save JSON report (optional)")
}

// Execute runs the root command (called by main.go)
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
