// Package language detects a complaint's source language and, when asked,
// translates it to the pipeline's working language. Every failure path falls
// back to passing the original text through: triage never blocks on language
// handling.
package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// LangUnknown is reported when detection cannot identify the language.
const LangUnknown = "unknown"

// detectionLanguages is the closed set the statistical detector considers.
// Scoped to the platform's citizen languages; a smaller set keeps detection
// accurate on short complaint texts.
var detectionLanguages = []lingua.Language{
	lingua.English,
	lingua.Hindi,
	lingua.Bengali,
	lingua.Marathi,
	lingua.Tamil,
	lingua.Telugu,
	lingua.Gujarati,
	lingua.Punjabi,
	lingua.Urdu,
}

// Detector identifies the language of free text.
type Detector interface {
	Detect(text string) string
}

// linguaDetector wraps the lingua statistical language identifier.
type linguaDetector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds the statistical detector over the platform language set.
func NewDetector() Detector {
	return &linguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(detectionLanguages...).
			Build(),
	}
}

// Detect returns the ISO 639-1 code of the most likely language, or
// LangUnknown when the text gives no usable signal.
func (d *linguaDetector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return LangUnknown
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return LangUnknown
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}
