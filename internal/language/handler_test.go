package language_test

import (
	"context"
	"errors"
	"testing"

	"github.com/civicgrid/triage/internal/language"
	"github.com/civicgrid/triage/internal/logging"
)

// stubDetector always reports a fixed language.
type stubDetector struct{ lang string }

func (s stubDetector) Detect(string) string { return s.lang }

// stubTranslator returns a fixed translation or error.
type stubTranslator struct {
	out string
	err error
}

func (s stubTranslator) Translate(_ context.Context, _, _, _ string) (string, error) {
	return s.out, s.err
}

func TestResolveExplicitModeSkipsTranslation(t *testing.T) {
	// A failing translator must never be consulted in explicit mode, but
	// detection still runs and its result is what gets recorded.
	h := language.NewHandler(
		stubDetector{lang: "hi"},
		stubTranslator{err: errors.New("should not be called")},
		"en", logging.NewNop())

	tests := []struct {
		name string
		mode string
		lang string
	}{
		{name: "matching declared code", mode: "hi", lang: "hi"},
		{name: "mismatched declared code reports detected", mode: "ta", lang: "hi"},
		{name: "working-language declared code reports detected", mode: "en-US", lang: "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, lang := h.Resolve(context.Background(), "original text", tt.mode)
			if text != "original text" {
				t.Errorf("text = %q, want passthrough", text)
			}
			if lang != tt.lang {
				t.Errorf("lang = %q, want %q", lang, tt.lang)
			}
		})
	}
}

func TestResolveExplicitModeDeclaredCodeFallback(t *testing.T) {
	// When detection is inconclusive the declared code fills in,
	// canonicalized to its ISO 639-1 base.
	h := language.NewHandler(
		stubDetector{lang: language.LangUnknown},
		stubTranslator{err: errors.New("should not be called")},
		"en", logging.NewNop())

	tests := []struct {
		name string
		mode string
		lang string
	}{
		{name: "plain code", mode: "hi", lang: "hi"},
		{name: "region variant canonicalized", mode: "en-US", lang: "en"},
		{name: "uppercase code", mode: "TA", lang: "ta"},
		{name: "garbage code records unknown", mode: "???", lang: language.LangUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, lang := h.Resolve(context.Background(), "original text", tt.mode)
			if text != "original text" {
				t.Errorf("text = %q, want passthrough", text)
			}
			if lang != tt.lang {
				t.Errorf("lang = %q, want %q", lang, tt.lang)
			}
		})
	}
}

func TestResolveAutoWorkingLanguage(t *testing.T) {
	h := language.NewHandler(stubDetector{lang: "en"}, stubTranslator{out: "nope"}, "en", logging.NewNop())

	text, lang := h.Resolve(context.Background(), "water problem", "auto")
	if text != "water problem" || lang != "en" {
		t.Errorf("Resolve = (%q, %q), want passthrough with en", text, lang)
	}
}

func TestResolveAutoTranslates(t *testing.T) {
	h := language.NewHandler(
		stubDetector{lang: "hi"},
		stubTranslator{out: "big pothole on road"},
		"en", logging.NewNop())

	text, lang := h.Resolve(context.Background(), "सड़क पर गड्ढा", "auto")
	if text != "big pothole on road" {
		t.Errorf("text = %q, want translation", text)
	}
	if lang != "hi" {
		t.Errorf("lang = %q, want detected hi", lang)
	}
}

func TestResolveTranslationFailurePassesThrough(t *testing.T) {
	h := language.NewHandler(
		stubDetector{lang: "hi"},
		stubTranslator{err: language.ErrUnavailable},
		"en", logging.NewNop())

	text, lang := h.Resolve(context.Background(), "सड़क पर गड्ढा", "auto")
	if text != "सड़क पर गड्ढा" {
		t.Errorf("text = %q, want original on failure", text)
	}
	if lang != "en" {
		t.Errorf("lang = %q, want working language on failure", lang)
	}
}

func TestResolveNilTranslator(t *testing.T) {
	h := language.NewHandler(stubDetector{lang: "hi"}, nil, "en", logging.NewNop())

	text, lang := h.Resolve(context.Background(), "original", "auto")
	if text != "original" || lang != "hi" {
		t.Errorf("Resolve = (%q, %q), want original/hi", text, lang)
	}
}

func TestResolveUnknownDetection(t *testing.T) {
	h := language.NewHandler(
		stubDetector{lang: language.LangUnknown},
		stubTranslator{out: "nope"},
		"en", logging.NewNop())

	text, lang := h.Resolve(context.Background(), "???", "")
	if text != "???" || lang != language.LangUnknown {
		t.Errorf("Resolve = (%q, %q), want passthrough with unknown", text, lang)
	}
}

func TestDetectorRealText(t *testing.T) {
	d := language.NewDetector()

	if got := d.Detect("the garbage has not been collected in our street for three days"); got != "en" {
		t.Errorf("Detect(english) = %q, want en", got)
	}
	if got := d.Detect("सड़क पर बहुत बड़ा गड्ढा है और पानी भरा हुआ है"); got != "hi" {
		t.Errorf("Detect(hindi) = %q, want hi", got)
	}
	if got := d.Detect(""); got != language.LangUnknown {
		t.Errorf("Detect(empty) = %q, want unknown", got)
	}
}
