package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Performs a full-text search across all indexed documents,
matching both content and file names.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := domain.Query{
		Text:      args[0],
		Highlight: true,
		Limit:     searchLimit,
	}

	results, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Found %d results:\n", len(results))
	cmd.Println()
	for i := range results {
		doc := results[i].Document

		if results[i].Score != nil {
			cmd.Printf("  [%d] %s (%.2f)\n", i+1, doc.FileName, *results[i].Score)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, doc.FileName)
		}
		cmd.Printf("      %s · %s · %s\n", doc.FilePath, doc.FileType, formatSize(doc.FileSize))

		// At most two snippets per hit keeps the table scannable.
		highlights := results[i].Highlights
		if len(highlights) > 2 {
			highlights = highlights[:2]
		}
		for _, h := range highlights {
			cmd.Printf("      ...%s...\n", h)
		}
		cmd.Println()
	}

	return nil
}

func formatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
