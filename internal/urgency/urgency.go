// Package urgency converts urgency-keyword hits into a bounded score and
// level, boosted by the complaint's category.
package urgency

import (
	"math"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/keywords"
)

// Scoring weights and thresholds.
const (
	highKeywordWeight   = 0.35
	mediumKeywordWeight = 0.12

	safetyBoost = 0.20
	healthBoost = 0.15
	civicBoost  = 0.10 // Sanitation, Utilities, Infrastructure

	highThreshold   = 0.70
	mediumThreshold = 0.30

	// maxKeywords caps the keyword list at this stage; the orchestrator
	// merges it with category keywords under its own cap.
	maxKeywords = 10
)

// Result is one urgency assessment.
type Result struct {
	Level    domain.UrgencyLevel
	Score    float64  // boosted, clamped to [0,1]
	Keywords []string // distinct matched phrases, max 10
}

// Scorer scans text with the shared keyword matcher.
type Scorer struct {
	matcher *keywords.Matcher
}

// NewScorer creates an urgency scorer over the given matcher.
func NewScorer(matcher *keywords.Matcher) *Scorer {
	return &Scorer{matcher: matcher}
}

// Score assesses normalized text, boosting the raw keyword score by the
// classified category before thresholding into a level.
func (s *Scorer) Score(normalized string, category domain.Category) Result {
	high, medium := s.matcher.MatchUrgency(normalized)

	highScore := float64(len(high)) * highKeywordWeight
	mediumScore := float64(len(medium)) * mediumKeywordWeight
	raw := math.Min(highScore+mediumScore, 1.0)

	boosted := math.Min(raw+boostFor(category), 1.0)

	var level domain.UrgencyLevel
	switch {
	case boosted >= highThreshold:
		level = domain.UrgencyHigh
	case boosted >= mediumThreshold:
		level = domain.UrgencyMedium
	default:
		level = domain.UrgencyLow
	}

	return Result{
		Level:    level,
		Score:    boosted,
		Keywords: mergeKeywords(high, medium),
	}
}

// boostFor returns the category boost applied to the raw score.
func boostFor(category domain.Category) float64 {
	switch category {
	case domain.CategorySafety:
		return safetyBoost
	case domain.CategoryHealth:
		return healthBoost
	case domain.CategorySanitation, domain.CategoryUtilities, domain.CategoryInfrastructure:
		return civicBoost
	default:
		return 0
	}
}

// mergeKeywords deduplicates the high and medium hits, preserving order,
// and truncates to the stage cap.
func mergeKeywords(high, medium []string) []string {
	seen := make(map[string]bool, len(high)+len(medium))
	merged := make([]string, 0, len(high)+len(medium))
	for _, kw := range append(append([]string{}, high...), medium...) {
		if seen[kw] {
			continue
		}
		seen[kw] = true
		merged = append(merged, kw)
		if len(merged) == maxKeywords {
			break
		}
	}
	return merged
}
