package triage

import (
	"context"
	"sync"
	"time"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/logging"
)

// defaultConcurrency is the worker-pool size when none is configured.
const defaultConcurrency = 10

// BatchItem pairs one complaint text with its language mode.
type BatchItem struct {
	Text domain.ComplaintText `json:"text"`
	Mode string               `json:"language_mode,omitempty"`
}

// BatchProcessor triages multiple complaints in parallel using a worker pool.
// Because the engine is stateless, workers share it without locks.
type BatchProcessor struct {
	engine      *Engine
	concurrency int
	logger      logging.Logger
}

// NewBatchProcessor creates a batch processor over the engine.
func NewBatchProcessor(engine *Engine, concurrency int, logger logging.Logger) *BatchProcessor {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &BatchProcessor{
		engine:      engine,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Process triages every item, preserving input order in the results.
func (b *BatchProcessor) Process(ctx context.Context, items []BatchItem) []domain.TriageResult {
	if len(items) == 0 {
		return []domain.TriageResult{}
	}

	start := time.Now()
	results := make([]domain.TriageResult, len(items))

	jobs := make(chan int, len(items))
	var wg sync.WaitGroup
	for w := 0; w < b.concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = b.engine.Triage(ctx, items[i].Text, items[i].Mode)
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	b.logger.Info("batch triage complete",
		logging.Int("batch_size", len(items)),
		logging.Int("concurrency", b.concurrency),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()))

	return results
}
