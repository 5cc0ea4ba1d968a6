// Package triage composes the decision pipeline: language handling, text
// normalization, category classification, and urgency scoring collapse into
// one immutable TriageResult per complaint.
package triage

import (
	"context"
	"math"
	"time"

	"github.com/civicgrid/triage/internal/classify"
	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/keywords"
	"github.com/civicgrid/triage/internal/language"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/textnorm"
	"github.com/civicgrid/triage/internal/urgency"
)

// maxKeywordsDetected caps the merged keyword list in the final result.
const maxKeywordsDetected = 15

// scoreScale rounds the two score fields to 4 decimal places.
const scoreScale = 10000

// Engine orchestrates the triage pipeline. It holds no mutable state and is
// safe for concurrent use.
type Engine struct {
	language   *language.Handler
	classifier *classify.Classifier
	urgency    *urgency.Scorer
	matcher    *keywords.Matcher
	logger     logging.Logger
}

// NewEngine wires the pipeline stages together.
func NewEngine(
	lang *language.Handler,
	classifier *classify.Classifier,
	scorer *urgency.Scorer,
	matcher *keywords.Matcher,
	logger logging.Logger,
) *Engine {
	return &Engine{
		language:   lang,
		classifier: classifier,
		urgency:    scorer,
		matcher:    matcher,
		logger:     logger,
	}
}

// Triage runs the full pipeline over citizen text. It never fails: every
// stage degrades to a safe value, so the result is always complete.
func (e *Engine) Triage(ctx context.Context, text domain.ComplaintText, mode string) domain.TriageResult {
	start := time.Now()

	// A declared language on the text acts as the mode when none was given.
	if mode == "" && text.LanguageHint != "" {
		mode = text.LanguageHint
	}

	resolved, detectedLang := e.language.Resolve(ctx, text.Combined(), mode)
	normalized := textnorm.Normalize(resolved)

	category := e.classifier.Classify(normalized)
	urgencyResult := e.urgency.Score(normalized, category.Category)

	result := domain.TriageResult{
		Category:           category.Category,
		CategoryConfidence: round4(category.Confidence),
		UrgencyLevel:       urgencyResult.Level,
		UrgencyScore:       round4(urgencyResult.Score),
		KeywordsDetected:   e.collectKeywords(normalized, category.Category, urgencyResult.Keywords),
		LanguageDetected:   detectedLang,
		NormalizedText:     normalized,
		ModelVersion:       e.classifier.ModelVersion(),
		Method:             category.Method,
	}

	e.logger.Info("triage complete",
		logging.String("category", string(result.Category)),
		logging.Float64("confidence", result.CategoryConfidence),
		logging.String("urgency", string(result.UrgencyLevel)),
		logging.String("method", string(result.Method)),
		logging.String("language", result.LanguageDetected),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()))

	return result
}

// collectKeywords merges urgency hits with the category-keyword hits for the
// final chosen category, regardless of which path picked it, deduplicates,
// and truncates to the display cap.
func (e *Engine) collectKeywords(normalized string, category domain.Category, urgencyKeywords []string) []string {
	match := e.matcher.MatchCategories(normalized)

	seen := make(map[string]bool, maxKeywordsDetected)
	merged := make([]string, 0, maxKeywordsDetected)
	for _, kw := range append(append([]string{}, urgencyKeywords...), match.Matched[category]...) {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		merged = append(merged, kw)
		if len(merged) == maxKeywordsDetected {
			break
		}
	}
	return merged
}

func round4(v float64) float64 {
	return math.Round(v*scoreScale) / scoreScale
}
