package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
)

var (
	advQuery     string
	advType      string
	advMinSize   int64
	advMaxSize   int64
	advSortBy    string
	advSortOrder string
	advLimit     int
	advHighlight bool
	advJSON      bool
)

var advancedSearchCmd = &cobra.Command{
	Use:   "advanced-search",
	Short: "Search with filters and sorting",
	Long: `Performs a filtered search over the indexed documents. All flags
are optional; with no flags every document is returned up to the limit.`,
	RunE: runAdvancedSearch,
}

func init() {
	advancedSearchCmd.Flags().StringVarP(&advQuery, "query", "q", "", "full-text query; empty matches all documents")
	advancedSearchCmd.Flags().StringVarP(&advType, "type", "t", "", "restrict to one file type (docx, doc, xlsx, xls, pdf, csv)")
	advancedSearchCmd.Flags().Int64Var(&advMinSize, "min-size", 0, "minimum file size in bytes")
	advancedSearchCmd.Flags().Int64Var(&advMaxSize, "max-size", 0, "maximum file size in bytes")
	advancedSearchCmd.Flags().StringVar(&advSortBy, "sort-by", "score", "sort field (score, size, name, created_at)")
	advancedSearchCmd.Flags().StringVar(&advSortOrder, "sort-order", "desc", "sort direction (asc, desc)")
	advancedSearchCmd.Flags().IntVarP(&advLimit, "limit", "n", 10, "maximum number of results")
	advancedSearchCmd.Flags().BoolVar(&advHighlight, "highlight", false, "include matched-term snippets")
	advancedSearchCmd.Flags().BoolVar(&advJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(advancedSearchCmd)
}

func runAdvancedSearch(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := domain.Query{
		Text:      advQuery,
		SortBy:    domain.SortField(advSortBy),
		SortOrder: domain.SortOrder(advSortOrder),
		Highlight: advHighlight,
		Limit:     advLimit,
	}

	if advType != "" {
		t := domain.ParseFileType(advType)
		if !t.Supported() {
			return fmt.Errorf("unsupported file type: %s", advType)
		}
		query.FileType = t
	}
	if cmd.Flags().Changed("min-size") {
		query.MinSize = &advMinSize
	}
	if cmd.Flags().Changed("max-size") {
		query.MaxSize = &advMaxSize
	}

	results, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("invalid query: %w", err)
		}
		return fmt.Errorf("search failed: %w", err)
	}

	if advJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}
