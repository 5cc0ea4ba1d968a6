package triage_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/civicgrid/triage/internal/classify"
	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/keywords"
	"github.com/civicgrid/triage/internal/language"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/model"
	"github.com/civicgrid/triage/internal/triage"
	"github.com/civicgrid/triage/internal/urgency"
)

// stubPredictor returns a fixed prediction or error.
type stubPredictor struct {
	label      string
	confidence float64
	err        error
}

func (s stubPredictor) Predict(string) (model.Prediction, error) {
	if s.err != nil {
		return model.Prediction{}, s.err
	}
	return model.Prediction{Label: s.label, Confidence: s.confidence}, nil
}

func (s stubPredictor) Version() string { return "stub_v1" }

type englishDetector struct{}

func (englishDetector) Detect(string) string { return "en" }

type unknownDetector struct{}

func (unknownDetector) Detect(string) string { return language.LangUnknown }

func newEngine(p model.Predictor) *triage.Engine {
	logger := logging.NewNop()
	matcher := keywords.NewMatcher()
	return triage.NewEngine(
		language.NewHandler(englishDetector{}, nil, "en", logger),
		classify.New(p, matcher, 0, logger),
		urgency.NewScorer(matcher),
		matcher,
		logger,
	)
}

func TestTriageSafetyComplaint(t *testing.T) {
	engine := newEngine(stubPredictor{label: "Safety", confidence: 0.91})

	result := engine.Triage(context.Background(), domain.ComplaintText{
		Title:       "Threatening behaviour",
		Description: "Someone threatening me near bus stand, need help urgently",
	}, "auto")

	if result.Category != domain.CategorySafety {
		t.Errorf("Category = %s, want Safety", result.Category)
	}
	if result.UrgencyLevel != domain.UrgencyHigh {
		t.Errorf("UrgencyLevel = %s (score %f), want HIGH", result.UrgencyLevel, result.UrgencyScore)
	}
	if result.Method != domain.MethodModel {
		t.Errorf("Method = %s, want model", result.Method)
	}
	if result.LanguageDetected != "en" {
		t.Errorf("LanguageDetected = %q, want en", result.LanguageDetected)
	}
	if result.ModelVersion != "stub_v1" {
		t.Errorf("ModelVersion = %q", result.ModelVersion)
	}
	if result.NormalizedText == "" {
		t.Error("NormalizedText empty")
	}
	if len(result.KeywordsDetected) == 0 {
		t.Error("expected detected keywords")
	}
}

func TestTriageLanguageHintUsedWhenDetectionInconclusive(t *testing.T) {
	logger := logging.NewNop()
	matcher := keywords.NewMatcher()
	engine := triage.NewEngine(
		language.NewHandler(unknownDetector{}, nil, "en", logger),
		classify.New(stubPredictor{label: "Sanitation", confidence: 0.9}, matcher, 0, logger),
		urgency.NewScorer(matcher),
		matcher,
		logger,
	)

	result := engine.Triage(context.Background(), domain.ComplaintText{
		Title:        "Garbage pile near the market",
		LanguageHint: "hi",
	}, "")
	if result.LanguageDetected != "hi" {
		t.Errorf("LanguageDetected = %q, want declared hi", result.LanguageDetected)
	}

	result = engine.Triage(context.Background(), domain.ComplaintText{
		Title: "Garbage pile near the market",
	}, "")
	if result.LanguageDetected != language.LangUnknown {
		t.Errorf("LanguageDetected = %q, want unknown without a hint", result.LanguageDetected)
	}
}

func TestTriageModelErrorStillCompletes(t *testing.T) {
	engine := newEngine(stubPredictor{err: errors.New("sidecar down")})

	result := engine.Triage(context.Background(), domain.ComplaintText{
		Description: "zzz nothing matches here",
	}, "auto")

	if result.Category != domain.CategoryAdministrative {
		t.Errorf("Category = %s, want Administrative default", result.Category)
	}
	if result.Method != domain.MethodDefault {
		t.Errorf("Method = %s, want default", result.Method)
	}
	if result.UrgencyLevel != domain.UrgencyLow {
		t.Errorf("UrgencyLevel = %s, want LOW", result.UrgencyLevel)
	}
}

func TestTriageKeywordCapAndDedup(t *testing.T) {
	engine := newEngine(stubPredictor{label: "Safety", confidence: 0.95})

	result := engine.Triage(context.Background(), domain.ComplaintText{
		Description: "fire fire weapon gun knife murder kidnap assault attack robbery " +
			"violence theft crime criminal unsafe danger dangerous threat urgent emergency help",
	}, "auto")

	if len(result.KeywordsDetected) > 15 {
		t.Errorf("keywords over cap: %d", len(result.KeywordsDetected))
	}
	seen := make(map[string]bool)
	for _, kw := range result.KeywordsDetected {
		if seen[kw] {
			t.Errorf("duplicate keyword %q", kw)
		}
		seen[kw] = true
	}
}

func TestTriageScoresRounded(t *testing.T) {
	engine := newEngine(stubPredictor{label: "Utilities", confidence: 0.123456789})

	result := engine.Triage(context.Background(), domain.ComplaintText{
		Description: "no water supply and power cut in sector 9",
	}, "auto")

	for _, v := range []float64{result.CategoryConfidence, result.UrgencyScore} {
		if math.Abs(v*10000-math.Round(v*10000)) > 1e-6 {
			t.Errorf("score %v not rounded to 4 decimals", v)
		}
	}
}

func TestBatchProcessPreservesOrder(t *testing.T) {
	engine := newEngine(stubPredictor{label: "Infrastructure", confidence: 0.9})
	batch := triage.NewBatchProcessor(engine, 4, logging.NewNop())

	items := []triage.BatchItem{
		{Text: domain.ComplaintText{Description: "pothole on road"}},
		{Text: domain.ComplaintText{Description: "garbage and sewage everywhere in the open drain"}},
		{Text: domain.ComplaintText{Description: "urgent threat near school, need help"}},
	}

	results := batch.Process(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("got %d results, want %d", len(results), len(items))
	}
	// The third item carries high-urgency keywords; order must hold.
	if results[2].UrgencyLevel != domain.UrgencyHigh {
		t.Errorf("results[2].UrgencyLevel = %s, want HIGH", results[2].UrgencyLevel)
	}
	if results[0].UrgencyLevel == domain.UrgencyHigh {
		t.Errorf("results[0].UrgencyLevel = HIGH, order likely not preserved")
	}
}

func TestBatchProcessEmpty(t *testing.T) {
	engine := newEngine(stubPredictor{label: "Safety", confidence: 0.9})
	batch := triage.NewBatchProcessor(engine, 0, logging.NewNop())

	results := batch.Process(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}
