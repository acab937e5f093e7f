package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
)

var (
	indexFull  bool
	indexWatch bool
	indexDir   string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index documents from the input directory",
	Long: `Walks the configured input directory, extracts text from every
supported file and indexes it into the search store. Unchanged files
are skipped unless --full is given.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "reindex every file, ignoring the incremental check")
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching for filesystem changes after the initial run")
	indexCmd.Flags().StringVarP(&indexDir, "dir", "d", "", "index this directory instead of the configured one")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	indexer := indexerService
	if indexDir != "" {
		if indexerFactory == nil {
			return errors.New("indexer factory not configured")
		}
		var err error
		indexer, err = indexerFactory(indexDir)
		if err != nil {
			return fmt.Errorf("preparing indexer for %s: %w", indexDir, err)
		}
	}
	if indexer == nil {
		return errors.New("indexer service not configured")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd.Println("Indexing documents...")

	report, err := indexWithProgress(ctx, cmd, indexer)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	printReport(cmd, report)

	if indexWatch {
		cmd.Println("Watching for changes (Ctrl+C to stop)...")
		if err := indexer.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch failed: %w", err)
		}
	}

	return nil
}

// indexWithProgress runs the indexer while displaying progress updates.
func indexWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	indexer driving.Indexer,
) (*domain.Report, error) {
	type result struct {
		report *domain.Report
		err    error
	}
	resCh := make(chan result, 1)
	go func() {
		report, err := indexer.Run(ctx, driving.IndexOptions{Full: indexFull})
		resCh <- result{report: report, err: err}
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastIndexed := -1
	for {
		select {
		case res := <-resCh:
			if lastIndexed >= 0 {
				cmd.Println()
			}
			return res.report, res.err
		case <-ticker.C:
			status := indexer.Status()
			if status.Indexed > lastIndexed {
				cmd.Printf("\rIndexing... %d/%d documents", status.Indexed, status.Discovered)
				lastIndexed = status.Indexed
			}
		}
	}
}

func printReport(cmd *cobra.Command, report *domain.Report) {
	if report == nil {
		return
	}

	elapsed := report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)
	cmd.Printf("Indexed %d documents in %s\n", report.Indexed, elapsed)
	cmd.Printf("  Discovered: %d\n", report.Discovered)
	if report.Unchanged > 0 {
		cmd.Printf("  Unchanged:  %d\n", report.Unchanged)
	}
	if report.Skipped > 0 {
		cmd.Printf("  Skipped:    %d\n", report.Skipped)
	}
	if report.Failed > 0 {
		cmd.Printf("  Failed:     %d\n", report.Failed)
	}

	for _, f := range report.Failures {
		cmd.Printf("  %s [%s]: %s\n", f.Path, f.Stage, f.Reason)
	}
}
