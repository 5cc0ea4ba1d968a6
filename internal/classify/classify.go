// Package classify decides a complaint's category using the statistical
// model with a keyword-rule fallback for low-confidence predictions.
package classify

import (
	"math"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/keywords"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/model"
)

// Fallback policy constants.
const (
	// DefaultFallbackThreshold is the model confidence below which keyword
	// scoring is consulted.
	DefaultFallbackThreshold = 0.35
	// fallbackMinMatches is the minimum keyword hits needed to override the
	// model's prediction.
	fallbackMinMatches = 2
	// Fallback confidence ramps from the base by a step per matched keyword,
	// capped so a keyword override never looks more certain than a strong
	// model prediction.
	fallbackBaseConfidence = 0.50
	fallbackPerMatch       = 0.05
	fallbackMaxConfidence  = 0.75
)

// Result is one category decision with its provenance tag.
type Result struct {
	Category   domain.Category
	Confidence float64
	Method     domain.TriageMethod
}

// Classifier wraps the pre-trained model with the keyword fallback policy.
type Classifier struct {
	predictor model.Predictor
	matcher   *keywords.Matcher
	threshold float64
	logger    logging.Logger
}

// New creates a classifier. threshold <= 0 selects the default.
func New(predictor model.Predictor, matcher *keywords.Matcher, threshold float64, logger logging.Logger) *Classifier {
	if threshold <= 0 {
		threshold = DefaultFallbackThreshold
	}
	return &Classifier{
		predictor: predictor,
		matcher:   matcher,
		threshold: threshold,
		logger:    logger,
	}
}

// ModelVersion reports the underlying model's version tag.
func (c *Classifier) ModelVersion() string {
	return c.predictor.Version()
}

// Classify returns a category decision for normalized text. It never fails:
// a model error degrades to the Administrative default with zero confidence,
// and the Method tag records which path produced the result.
func (c *Classifier) Classify(normalized string) Result {
	pred, err := c.predictor.Predict(normalized)
	if err != nil {
		c.logger.Error("category prediction failed, using default",
			logging.Error(err))
		result := Result{
			Category:   domain.CategoryAdministrative,
			Confidence: 0,
			Method:     domain.MethodDefault,
		}
		return c.applyFallback(normalized, result)
	}

	result := Result{
		Category:   domain.ParseCategory(pred.Label),
		Confidence: clamp01(pred.Confidence),
		Method:     domain.MethodModel,
	}
	return c.applyFallback(normalized, result)
}

// applyFallback consults the keyword table when model confidence is below
// the threshold. The override needs at least fallbackMinMatches distinct
// keyword hits for the winning category.
func (c *Classifier) applyFallback(normalized string, result Result) Result {
	if result.Confidence >= c.threshold {
		return result
	}

	match := c.matcher.MatchCategories(normalized)
	top, score := match.Top()
	if score < fallbackMinMatches {
		return result
	}

	confidence := math.Min(fallbackBaseConfidence+float64(score)*fallbackPerMatch, fallbackMaxConfidence)
	c.logger.Debug("keyword fallback overrode model prediction",
		logging.String("model_category", string(result.Category)),
		logging.Float64("model_confidence", result.Confidence),
		logging.String("fallback_category", string(top)),
		logging.Int("keyword_matches", score))

	return Result{
		Category:   top,
		Confidence: confidence,
		Method:     domain.MethodKeywordFallback,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}
