package language

import (
	"context"
	"strings"

	"golang.org/x/text/language"

	"github.com/civicgrid/triage/internal/logging"
)

// ModeAuto asks the handler to detect the language and translate to the
// working language when they differ. Any other mode value is taken as the
// caller's declared ISO 639-1 code, which skips translation.
const ModeAuto = "auto"

// Handler resolves a complaint's text into the working language.
type Handler struct {
	detector   Detector
	translator Translator
	working    string
	logger     logging.Logger
}

// NewHandler creates a language handler. translator may be nil, in which
// case all text passes through untranslated.
func NewHandler(detector Detector, translator Translator, workingLanguage string, logger logging.Logger) *Handler {
	return &Handler{
		detector:   detector,
		translator: translator,
		working:    workingLanguage,
		logger:     logger,
	}
}

// Resolve returns the text to feed the classifier and the language code to
// record. It never returns an error: detection failure records "unknown",
// and any translation failure passes the original text through with the
// working language recorded, so the pipeline is never blocked by an
// unavailable translator.
func (h *Handler) Resolve(ctx context.Context, text, mode string) (string, string) {
	detected := h.detector.Detect(text)

	if mode != ModeAuto && mode != "" {
		// Caller declared the language: translation is skipped, but the
		// recorded language still comes from detection. The canonicalized
		// declared code fills in only when detection is inconclusive.
		if detected == LangUnknown {
			detected = canonicalCode(mode)
		}
		return text, detected
	}

	if detected == h.working || detected == LangUnknown || h.translator == nil {
		return text, detected
	}

	translated, err := h.translator.Translate(ctx, text, detected, h.working)
	if err != nil {
		h.logger.Warn("translation failed, using original text",
			logging.String("detected_language", detected),
			logging.Error(err))
		return text, h.working
	}

	return translated, detected
}

// canonicalCode normalizes a declared language code to its ISO 639-1 base
// form ("en-US" -> "en"). Unparseable codes fall back to "unknown".
func canonicalCode(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return LangUnknown
	}
	base, _ := tag.Base()
	return strings.ToLower(base.String())
}
