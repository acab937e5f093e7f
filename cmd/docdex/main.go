// docdex indexes documents from a local directory into Elasticsearch
// and searches them from the command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/docdex-labs/docdex-cli/internal/adapters/driven/config/file"
	"github.com/docdex-labs/docdex-cli/internal/adapters/driven/storage/sqlite"
	"github.com/docdex-labs/docdex-cli/internal/adapters/driven/store/elasticsearch"
	"github.com/docdex-labs/docdex-cli/internal/adapters/driving/cli"
	"github.com/docdex-labs/docdex-cli/internal/connectors/filesystem"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
	"github.com/docdex-labs/docdex-cli/internal/core/services"
	"github.com/docdex-labs/docdex-cli/internal/extractors"
	"github.com/docdex-labs/docdex-cli/internal/logger"
	"github.com/docdex-labs/docdex-cli/internal/postprocessors"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising config store: %w", err)
	}
	cfg, err := configStore.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	store, err := elasticsearch.NewStore(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Index:     cfg.Elasticsearch.Index,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
	})
	if err != nil {
		return fmt.Errorf("initialising document store: %w", err)
	}
	defer store.Close()

	scanState, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("initialising scan-state store: %w", err)
	}
	defer scanState.Close()

	walker := filesystem.New(cfg.InputDir, cfg.FileTypes())
	defer func() {
		if err := walker.Close(); err != nil {
			logger.Warn("Closing walker: %v", err)
		}
	}()

	builder := services.NewDocumentBuilder(postprocessors.NewDefaultPipeline())
	newIndexer := func(w *filesystem.Connector) *services.IndexerService {
		return services.NewIndexerService(
			w,
			extractors.NewDefaultRegistry(),
			builder,
			store,
			scanState,
			services.IndexerConfig{
				BatchSize:   cfg.BatchSize,
				MaxRetries:  cfg.MaxRetries,
				BackoffBase: time.Duration(cfg.BackoffBaseMS) * time.Millisecond,
				Workers:     cfg.Workers,
				RateLimit:   cfg.RateLimit,
			},
		)
	}
	search := services.NewSearchService(store)

	cli.SetVersion(version)
	cli.SetServices(newIndexer(walker), search)
	cli.SetIndexerFactory(func(dir string) (driving.Indexer, error) {
		return newIndexer(filesystem.New(dir, cfg.FileTypes())), nil
	})

	return cli.Execute()
}
