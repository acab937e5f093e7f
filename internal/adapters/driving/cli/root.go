// Package cli implements the docdex command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
	"github.com/docdex-labs/docdex-cli/internal/logger"
)

var (
	version = "dev"

	verboseFlag bool

	indexerService driving.Indexer
	searchService  driving.SearchService
	indexerFactory func(dir string) (driving.Indexer, error)
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Index and search documents from a local directory",
	Long: `docdex walks a directory tree, extracts text from Word, Excel,
PDF and CSV files and indexes it into Elasticsearch for full-text
search.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices injects the core services the commands depend on.
func SetServices(indexer driving.Indexer, search driving.SearchService) {
	indexerService = indexer
	searchService = search
}

// SetIndexerFactory injects the constructor used when index --dir
// overrides the configured input directory.
func SetIndexerFactory(f func(dir string) (driving.Indexer, error)) {
	indexerFactory = f
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
