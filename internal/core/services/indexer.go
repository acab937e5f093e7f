package services

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/docdex-labs/docdex-cli/internal/core/domain"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driven"
	"github.com/docdex-labs/docdex-cli/internal/core/ports/driving"
	"github.com/docdex-labs/docdex-cli/internal/logger"
)

// Ensure IndexerService implements the interface.
var _ driving.Indexer = (*IndexerService)(nil)

// IndexerConfig carries the tunables of the ingestion pipeline.
type IndexerConfig struct {
	// BatchSize is the maximum documents per bulk submission.
	BatchSize int

	// MaxRetries is the number of retry attempts after a
	// transport-level batch failure.
	MaxRetries int

	// BackoffBase is the initial delay of the exponential backoff.
	BackoffBase time.Duration

	// Workers is the extraction worker pool size.
	Workers int

	// RateLimit caps bulk submissions per second. Zero disables the
	// limiter.
	RateLimit float64
}

// withDefaults fills unset fields.
func (c IndexerConfig) withDefaults() IndexerConfig {
	if c.BatchSize <= 0 {
		c.BatchSize = 50
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 500 * time.Millisecond
	}
	if c.Workers <= 0 {
		c.Workers = min(runtime.NumCPU(), 8)
	}
	return c
}

// builtDoc pairs a completed document with the FileRef it came from,
// so acknowledgements can update the scan-state marks.
type builtDoc struct {
	doc domain.Document
	ref domain.FileRef
}

// IndexerService orchestrates the ingestion pipeline: discovery,
// extraction, document building and batched bulk indexing.
type IndexerService struct {
	walker    driven.Walker
	registry  driven.ExtractorRegistry
	builder   *DocumentBuilder
	store     driven.DocumentStore
	scanState driven.ScanStateStore
	cfg       IndexerConfig
	limiter   *rate.Limiter

	mu      sync.Mutex
	running bool
	status  driving.IndexStatus
	report  *domain.Report
}

// NewIndexerService creates the ingestion orchestrator.
// scanState is optional: when nil, every run is a full run.
func NewIndexerService(
	walker driven.Walker,
	registry driven.ExtractorRegistry,
	builder *DocumentBuilder,
	store driven.DocumentStore,
	scanState driven.ScanStateStore,
	cfg IndexerConfig,
) *IndexerService {
	cfg = cfg.withDefaults()
	s := &IndexerService{
		walker:    walker,
		registry:  registry,
		builder:   builder,
		store:     store,
		scanState: scanState,
		cfg:       cfg,
		report:    newReport(),
	}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return s
}

// Run executes one indexing run and returns its report.
func (s *IndexerService) Run(ctx context.Context, opts driving.IndexOptions) (*domain.Report, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.walker.Validate(ctx); err != nil {
		return nil, err
	}
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}

	logger.Info("Starting indexing run %s", s.currentReport().RunID)

	refs, walkErrs := s.walker.Scan(ctx)

	// Extraction workers: order-free, side-effect-free per file.
	built := make(chan builtDoc)
	var wg sync.WaitGroup
	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range refs {
				s.addDiscovered()
				if bd := s.processOne(ctx, ref, opts); bd != nil {
					select {
					case built <- *bd:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	// Traversal errors are per-path and never abort the run.
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		for err := range walkErrs {
			var accessErr *domain.AccessError
			if errors.As(err, &accessErr) {
				logger.Warn("Skipping %s: %v", accessErr.Path, accessErr.Err)
				s.addSkip(accessErr.Path, domain.StageDiscovery, accessErr.Error())
				continue
			}
			if errors.Is(err, context.Canceled) {
				continue
			}
			logger.Error("Traversal error: %v", err)
		}
	}()

	go func() {
		wg.Wait()
		close(built)
	}()

	// Batch assembly in arrival order; the final batch may be smaller.
	submitted, transportFailed := 0, 0
	batch := make([]builtDoc, 0, s.cfg.BatchSize)
	for bd := range built {
		batch = append(batch, bd)
		if len(batch) == s.cfg.BatchSize {
			submitted++
			if !s.submitBatch(ctx, batch) {
				transportFailed++
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		submitted++
		if !s.submitBatch(ctx, batch) {
			transportFailed++
		}
	}
	errWg.Wait()

	report := s.finishReport()
	logger.Info("Indexing complete: %d discovered, %d unchanged, %d skipped, %d indexed, %d failed",
		report.Discovered, report.Unchanged, report.Skipped, report.Indexed, report.Failed)

	if err := ctx.Err(); err != nil {
		return report, err
	}
	// The run as a whole fails only when the store rejected every
	// batch at the transport level for the full retry budget.
	if submitted > 0 && transportFailed == submitted {
		return report, domain.ErrStoreUnavailable
	}
	return report, nil
}

// Watch keeps indexing filesystem changes until the context is
// cancelled. Events are handled serially so re-indexing of one path
// is deterministic (last write wins).
func (s *IndexerService) Watch(ctx context.Context) error {
	if err := s.walker.Validate(ctx); err != nil {
		return err
	}
	if err := s.ensureIndex(ctx); err != nil {
		return err
	}

	events, err := s.walker.Watch(ctx)
	if err != nil {
		return err
	}

	logger.Info("Watching for changes")
	for ev := range events {
		switch ev.Type {
		case domain.ChangeUpserted:
			s.mu.Lock()
			s.report = newReport()
			s.mu.Unlock()
			if bd := s.processOne(ctx, ev.Ref, driving.IndexOptions{}); bd != nil {
				s.submitBatch(ctx, []builtDoc{*bd})
			}

		case domain.ChangeDeleted:
			logger.Debug("Deleting: %s", ev.Ref.Path)
			if err := s.store.Delete(ctx, ev.Ref.Path); err != nil {
				logger.Warn("Delete %s: %v", ev.Ref.Path, err)
			}
			if s.scanState != nil {
				if err := s.scanState.Delete(ctx, ev.Ref.Path); err != nil {
					logger.Warn("Clear scan mark %s: %v", ev.Ref.Path, err)
				}
			}
		}
	}
	return ctx.Err()
}

// Status returns a snapshot of the active run.
func (s *IndexerService) Status() driving.IndexStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// processOne runs one file through read, extract and build.
// Returns nil when the file was skipped; the reason is recorded.
func (s *IndexerService) processOne(ctx context.Context, ref domain.FileRef, opts driving.IndexOptions) *builtDoc {
	if s.scanState != nil && !opts.Full {
		mark, err := s.scanState.Get(ctx, ref.Path)
		if err != nil {
			logger.Warn("Scan state lookup %s: %v", ref.Path, err)
		} else if mark != nil && mark.Matches(ref) {
			logger.Debug("Unchanged: %s", ref.Path)
			s.addUnchanged()
			return nil
		}
	}

	content, err := os.ReadFile(ref.Path)
	if err != nil {
		logger.Warn("Skipping %s: %v", ref.Path, err)
		s.addSkip(ref.Path, domain.StageDiscovery, err.Error())
		return nil
	}

	extractor, ok := s.registry.ForType(ref.Type)
	if !ok {
		s.addSkip(ref.Path, domain.StageExtraction, domain.ErrUnsupportedType.Error())
		return nil
	}

	extraction, err := extractor.Extract(ctx, ref.Path, content)
	if err != nil {
		logger.Warn("Skipping %s: %v", ref.Path, err)
		s.addSkip(ref.Path, domain.StageExtraction, err.Error())
		return nil
	}

	doc, err := s.builder.Build(ctx, ref, extraction)
	if err != nil {
		logger.Warn("Skipping %s: %v", ref.Path, err)
		s.addSkip(ref.Path, domain.StageExtraction, err.Error())
		return nil
	}

	logger.Debug("Built: %s", ref.Path)
	return &builtDoc{doc: *doc, ref: ref}
}

// submitBatch sends one batch through the bulk API, retrying
// transport-level failures with exponential backoff. Returns false
// when the batch was lost after exhausting the retry budget.
// Per-document rejections inside a successful submission are recorded
// once and never retried.
func (s *IndexerService) submitBatch(ctx context.Context, batch []builtDoc) bool {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.failBatch(batch, err.Error())
			return false
		}
	}

	docs := make([]domain.Document, len(batch))
	for i, bd := range batch {
		docs[i] = bd.doc
	}

	var outcomes []driven.ItemOutcome
	operation := func() error {
		var err error
		outcomes, err = s.store.BulkIndex(ctx, docs)
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Batch submission failed, retrying in %s: %v", wait, err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponential(s.cfg.BackoffBase), uint64(s.cfg.MaxRetries)),
		ctx,
	)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		logger.Error("Batch of %d documents lost after %d retries: %v", len(batch), s.cfg.MaxRetries, err)
		s.failBatch(batch, err.Error())
		return false
	}

	for i, outcome := range outcomes {
		if outcome.Err != nil {
			logger.Warn("Store rejected %s: %v", outcome.Path, outcome.Err)
			s.addFailed(outcome.Path, outcome.Err.Error())
			continue
		}
		s.addIndexed()
		if s.scanState != nil {
			mark := driven.MarkFor(batch[i].ref, time.Now())
			if err := s.scanState.Save(ctx, mark); err != nil {
				logger.Warn("Save scan mark %s: %v", batch[i].ref.Path, err)
			}
		}
	}
	return true
}

// ensureIndex creates the target index, retrying transport failures
// with the same policy as batch submission.
func (s *IndexerService) ensureIndex(ctx context.Context) error {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponential(s.cfg.BackoffBase), uint64(s.cfg.MaxRetries)),
		ctx,
	)
	return backoff.Retry(func() error {
		return s.store.EnsureIndex(ctx)
	}, policy)
}

// newExponential builds the backoff schedule used for store calls.
func newExponential(base time.Duration) *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = base
	b.RandomizationFactor = 0.2
	return b
}

// failBatch marks every document of a lost batch as failed.
func (s *IndexerService) failBatch(batch []builtDoc, reason string) {
	for _, bd := range batch {
		s.addFailed(bd.ref.Path, reason)
	}
}

// newReport initialises an empty run report.
func newReport() *domain.Report {
	return &domain.Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
	}
}

// begin claims the single-run slot and resets counters.
func (s *IndexerService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return domain.ErrIndexingInProgress
	}
	s.running = true
	s.status = driving.IndexStatus{Running: true}
	s.report = newReport()
	return nil
}

// end releases the run slot.
func (s *IndexerService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.status.Running = false
}

// currentReport returns the active report for logging.
func (s *IndexerService) currentReport() *domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// finishReport stamps the end time and returns the report.
func (s *IndexerService) finishReport() *domain.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.FinishedAt = time.Now()
	return s.report
}

func (s *IndexerService) addDiscovered() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Discovered++
	s.status.Discovered++
}

func (s *IndexerService) addUnchanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Unchanged++
	s.status.Unchanged++
}

func (s *IndexerService) addIndexed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Indexed++
	s.status.Indexed++
}

func (s *IndexerService) addSkip(path string, stage domain.FailureStage, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Skipped++
	s.status.Skipped++
	s.report.Failures = append(s.report.Failures, domain.Failure{Path: path, Stage: stage, Reason: reason})
}

func (s *IndexerService) addFailed(path, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report.Failed++
	s.status.Failed++
	s.report.Failures = append(s.report.Failures, domain.Failure{Path: path, Stage: domain.StageStore, Reason: reason})
}
