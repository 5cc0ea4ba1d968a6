// Package model loads and serves the pre-trained category classifier bundle:
// a TF-IDF vectorizer, a multinomial logistic-regression model, and the label
// set, exported as JSON artifacts by the training pipeline.
//
// The bundle is loaded once at process start and is read-only afterwards, so
// Predict is safe for concurrent use.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Artifact file names, matching the training pipeline's export step.
const (
	VectorizerFile = "tfidf_vectorizer.json"
	ModelFile      = "category_model.json"
	LabelsFile     = "label_encoder.json"
)

// DefaultVersion is reported when the model artifact carries no version tag.
const DefaultVersion = "tfidf_lr_v1"

// ErrNotLoaded indicates Predict was called before the bundle was loaded.
// This is an initialization bug, distinct from runtime prediction errors.
var ErrNotLoaded = errors.New("model bundle not loaded")

// Prediction is one classifier decision.
type Prediction struct {
	Label      string
	Confidence float64 // class probability of the predicted label, 0.0-1.0
}

// Predictor is the classification contract consumed by the triage pipeline.
type Predictor interface {
	Predict(text string) (Prediction, error)
	Version() string
}

// vectorizer holds the exported TF-IDF parameters.
type vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"` // term -> feature index
	IDF        []float64      `json:"idf"`        // per feature index
}

// linearModel holds the exported logistic-regression parameters.
type linearModel struct {
	Classes      []int       `json:"classes"`      // label-encoder indexes, one per row
	Coefficients [][]float64 `json:"coefficients"` // [class][feature]
	Intercepts   []float64   `json:"intercepts"`   // [class]
	Version      string      `json:"version,omitempty"`
}

// labelEncoder holds the exported label set, indexed by class id.
type labelEncoder struct {
	Classes []string `json:"classes"`
}

// Bundle is the loaded artifact set.
type Bundle struct {
	vec     vectorizer
	model   linearModel
	labels  []string
	version string
	loaded  bool
}

// Load reads and validates the artifact bundle from dir.
// A failure here is fatal for the service: triage must not run without
// successfully loaded artifacts.
func Load(dir string) (*Bundle, error) {
	var b Bundle

	if err := readJSON(filepath.Join(dir, VectorizerFile), &b.vec); err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	if err := readJSON(filepath.Join(dir, ModelFile), &b.model); err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	var enc labelEncoder
	if err := readJSON(filepath.Join(dir, LabelsFile), &enc); err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	b.labels = enc.Classes

	if err := b.validate(); err != nil {
		return nil, fmt.Errorf("validate artifact bundle: %w", err)
	}

	b.version = b.model.Version
	if b.version == "" {
		b.version = DefaultVersion
	}
	b.loaded = true
	return &b, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (b *Bundle) validate() error {
	if len(b.vec.Vocabulary) == 0 {
		return errors.New("empty vocabulary")
	}
	if len(b.vec.IDF) < len(b.vec.Vocabulary) {
		return fmt.Errorf("idf has %d entries for %d vocabulary terms", len(b.vec.IDF), len(b.vec.Vocabulary))
	}
	if len(b.labels) == 0 {
		return errors.New("empty label set")
	}
	if len(b.model.Coefficients) != len(b.labels) {
		return fmt.Errorf("coefficient rows (%d) do not match label count (%d)", len(b.model.Coefficients), len(b.labels))
	}
	if len(b.model.Intercepts) != len(b.labels) {
		return fmt.Errorf("intercepts (%d) do not match label count (%d)", len(b.model.Intercepts), len(b.labels))
	}
	featureCount := len(b.vec.IDF)
	for i, row := range b.model.Coefficients {
		if len(row) != featureCount {
			return fmt.Errorf("coefficient row %d has %d features, want %d", i, len(row), featureCount)
		}
	}
	if len(b.model.Classes) != 0 {
		if len(b.model.Classes) != len(b.labels) {
			return fmt.Errorf("classes (%d) do not match label count (%d)", len(b.model.Classes), len(b.labels))
		}
		seen := make([]bool, len(b.labels))
		for row, class := range b.model.Classes {
			if class < 0 || class >= len(b.labels) {
				return fmt.Errorf("classes[%d] = %d out of range for %d labels", row, class, len(b.labels))
			}
			if seen[class] {
				return fmt.Errorf("classes maps label index %d twice", class)
			}
			seen[class] = true
		}
	}
	return nil
}

// labelFor maps a coefficient row to its label. The classes array carries
// the label-encoder index per row; when absent, rows map to labels in order.
func (b *Bundle) labelFor(row int) string {
	if len(b.model.Classes) != 0 {
		return b.labels[b.model.Classes[row]]
	}
	return b.labels[row]
}

// Version returns the model version tag for decision records.
func (b *Bundle) Version() string {
	return b.version
}

// Predict vectorizes text and returns the predicted label with its class
// probability. Returns ErrNotLoaded if the bundle was never loaded.
func (b *Bundle) Predict(text string) (Prediction, error) {
	if b == nil || !b.loaded {
		return Prediction{}, ErrNotLoaded
	}

	features := b.vectorize(text)
	probs := b.probabilities(features)

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	return Prediction{Label: b.labelFor(best), Confidence: probs[best]}, nil
}

// vectorize computes the L2-normalized TF-IDF feature map for text.
// Only terms in the vocabulary contribute; the map is sparse.
func (b *Bundle) vectorize(text string) map[int]float64 {
	counts := make(map[int]int)
	for _, token := range tokenize(text) {
		if idx, ok := b.vec.Vocabulary[token]; ok {
			counts[idx]++
		}
	}

	features := make(map[int]float64, len(counts))
	var sumSquares float64
	for idx, tf := range counts {
		v := float64(tf) * b.vec.IDF[idx]
		features[idx] = v
		sumSquares += v * v
	}

	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for idx := range features {
			features[idx] /= norm
		}
	}
	return features
}

// probabilities computes softmax over the per-class linear scores.
func (b *Bundle) probabilities(features map[int]float64) []float64 {
	scores := make([]float64, len(b.labels))
	for class := range b.model.Coefficients {
		score := b.model.Intercepts[class]
		row := b.model.Coefficients[class]
		for idx, v := range features {
			score += row[idx] * v
		}
		scores[class] = score
	}

	// Softmax with max-shift for numerical stability.
	maxScore := scores[0]
	for _, s := range scores[1:] {
		if s > maxScore {
			maxScore = s
		}
	}
	var sum float64
	probs := make([]float64, len(scores))
	for i, s := range scores {
		probs[i] = math.Exp(s - maxScore)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// tokenize splits text into lower-case alphanumeric tokens of length >= 2,
// mirroring the vectorizer's training-time token pattern.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) >= 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
