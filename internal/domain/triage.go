// Package domain defines the data records and closed enumerations shared by
// every stage of the complaint-intake pipeline.
package domain

// Category is the closed set of complaint categories.
// Each maps to a government department in routing.
type Category string

const (
	CategoryInfrastructure Category = "Infrastructure"
	CategorySanitation     Category = "Sanitation"
	CategoryUtilities      Category = "Utilities"
	CategorySafety         Category = "Safety"
	CategoryHealth         Category = "Health"
	CategoryAdministrative Category = "Administrative"
)

// Categories lists every category in declared priority order.
// Keyword-score ties between categories resolve to the earlier entry.
var Categories = []Category{
	CategoryInfrastructure,
	CategorySanitation,
	CategoryUtilities,
	CategorySafety,
	CategoryHealth,
	CategoryAdministrative,
}

// ParseCategory resolves a category name to the closed enum.
// Unknown names map to CategoryAdministrative, the catch-all department.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryAdministrative
}

// UrgencyLevel is the step classification of a complaint's urgency score.
type UrgencyLevel string

const (
	UrgencyHigh   UrgencyLevel = "HIGH"
	UrgencyMedium UrgencyLevel = "MEDIUM"
	UrgencyLow    UrgencyLevel = "LOW"
)

// TriageMethod tags how the final category was decided, so callers can
// distinguish a confident model prediction from a degraded result.
type TriageMethod string

const (
	// MethodModel means the statistical classifier's prediction was used as-is.
	MethodModel TriageMethod = "model"
	// MethodKeywordFallback means low model confidence was overridden by
	// keyword-rule scoring.
	MethodKeywordFallback TriageMethod = "keyword_fallback"
	// MethodDefault means the model errored and the safe default category
	// was assigned.
	MethodDefault TriageMethod = "default"
)

// ComplaintText is the immutable free-text input to triage.
type ComplaintText struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	LanguageHint string `json:"language_hint,omitempty"`
}

// Combined returns the single text fed through the pipeline.
func (c ComplaintText) Combined() string {
	if c.Title == "" {
		return c.Description
	}
	if c.Description == "" {
		return c.Title
	}
	return c.Title + ". " + c.Description
}

// TriageResult is the decision record produced once per complaint.
// It is never mutated after creation; a re-triage produces a new instance.
type TriageResult struct {
	Category           Category     `json:"category"`
	CategoryConfidence float64      `json:"category_confidence"` // 0.0-1.0
	UrgencyLevel       UrgencyLevel `json:"urgency_level"`
	UrgencyScore       float64      `json:"urgency_score"` // 0.0-1.0
	KeywordsDetected   []string     `json:"keywords_detected"` // deduplicated, max 15
	LanguageDetected   string       `json:"language_detected"`
	NormalizedText     string       `json:"normalized_text"`
	ModelVersion       string       `json:"model_version"`
	Method             TriageMethod `json:"method"`
}
