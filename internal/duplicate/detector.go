// Package duplicate detects whether a new complaint duplicates an already
// open one, combining text similarity with a location gate.
package duplicate

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/agext/levenshtein"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/logging"
)

// Detection thresholds.
const (
	// similarityThreshold is the combined text score at which a candidate
	// counts as a duplicate.
	similarityThreshold = 0.75
	// addressThreshold is the address sequence-similarity above which two
	// locations match.
	addressThreshold = 0.6
	// coordEpsilon is the per-axis coordinate delta (degrees) under which
	// two points are the same place, roughly 500m at mid-latitudes.
	coordEpsilon = 0.005
	// WindowDays is the trailing period inside which candidates are compared.
	// Callers use it to bound the candidate query.
	WindowDays = 30
	// maxSimilarReported caps the similar-complaints list in the report.
	maxSimilarReported = 5
	// minTokenLength drops short tokens from keyword-overlap comparison.
	minTokenLength = 3
)

var (
	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// stopWords are excluded from keyword-overlap comparison.
var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "with": true, "to": true, "for": true, "of": true,
	"as": true, "by": true, "this": true, "that": true, "from": true,
	"are": true, "was": true, "were": true, "been": true, "be": true,
	"have": true, "has": true, "had": true,
}

// NewComplaint is the submission compared against the candidate window.
type NewComplaint struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    domain.Category `json:"category"`
	Location    domain.Location `json:"location"`
}

// Detector scans candidate sets for duplicates. It performs no I/O and is
// safe for concurrent use; candidates are read-only inputs per call.
type Detector struct {
	logger logging.Logger
	now    func() time.Time
}

// NewDetector creates a duplicate detector.
func NewDetector(logger logging.Logger) *Detector {
	return &Detector{logger: logger, now: time.Now}
}

// FindDuplicates compares a new complaint against the candidate set. Callers
// pre-filter candidates to open statuses; the detector still re-validates
// the 30-day window and skips cross-category and malformed records.
func (d *Detector) FindDuplicates(
	complaint NewComplaint,
	candidates []domain.DuplicateCandidate,
	checkLocation bool,
) domain.DuplicateReport {
	newText := complaint.Title + " " + complaint.Description
	cutoff := d.now().UTC().AddDate(0, 0, -WindowDays)

	var matches []domain.SimilarComplaint
	for _, candidate := range candidates {
		if candidate.Category != complaint.Category {
			continue
		}

		createdAt, err := parseTimestamp(candidate.CreatedAt)
		if err != nil {
			d.logger.Warn("skipping candidate with malformed timestamp",
				logging.String("candidate_id", candidate.ID),
				logging.String("created_at", candidate.CreatedAt),
				logging.Error(err))
			continue
		}
		if createdAt.Before(cutoff) {
			continue
		}

		candidateText := candidate.Title + " " + candidate.Description
		textSim := sequenceSimilarity(newText, candidateText)
		keywordSim := keywordOverlap(newText, candidateText)
		overall := (textSim + keywordSim) / 2

		if overall < similarityThreshold {
			continue
		}
		if checkLocation && !locationsMatch(complaint.Location, candidate.Location) {
			continue
		}

		matches = append(matches, domain.SimilarComplaint{
			ID:              candidate.ID,
			Title:           candidate.Title,
			SimilarityScore: round2(overall),
			Status:          candidate.Status,
			CreatedAt:       createdAt,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SimilarityScore > matches[j].SimilarityScore
	})

	report := domain.DuplicateReport{
		DuplicateCount:    len(matches),
		SimilarComplaints: []domain.SimilarComplaint{},
	}
	if len(matches) == 0 {
		return report
	}

	report.IsDuplicate = true
	top := matches
	if len(top) > maxSimilarReported {
		top = top[:maxSimilarReported]
	}
	report.SimilarComplaints = top
	report.PrimaryDuplicate = &matches[0]
	return report
}

// cleanText applies the comparison transform: lower-case, non-word
// characters to spaces, collapsed whitespace. Lighter than the triage
// normalizer on purpose; comparison wants maximal shared text.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)
	text = nonWordPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// sequenceSimilarity computes a character-level similarity ratio in [0,1]
// over the cleaned texts.
func sequenceSimilarity(a, b string) float64 {
	cleanA := cleanText(a)
	cleanB := cleanText(b)
	if cleanA == "" || cleanB == "" {
		return 0
	}
	return levenshtein.Similarity(cleanA, cleanB, nil)
}

// keywordOverlap computes Jaccard similarity of the significant token sets.
func keywordOverlap(a, b string) float64 {
	tokensA := significantTokens(a)
	tokensB := significantTokens(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	intersection := 0
	for token := range tokensA {
		if tokensB[token] {
			intersection++
		}
	}
	union := len(tokensA) + len(tokensB) - intersection
	return float64(intersection) / float64(union)
}

func significantTokens(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(cleanText(text)) {
		if len(word) > minTokenLength && !stopWords[word] {
			tokens[word] = true
		}
	}
	return tokens
}

// locationsMatch reports whether two locations refer to the same place:
// similar address strings, or coordinates within coordEpsilon on both axes.
// Either signal alone is sufficient.
func locationsMatch(a, b domain.Location) bool {
	if a.Address != "" && b.Address != "" {
		if sequenceSimilarity(a.Address, b.Address) > addressThreshold {
			return true
		}
	}

	if a.HasCoordinates() && b.HasCoordinates() {
		latDiff := math.Abs(*a.Latitude - *b.Latitude)
		lonDiff := math.Abs(*a.Longitude - *b.Longitude)
		if latDiff < coordEpsilon && lonDiff < coordEpsilon {
			return true
		}
	}

	return false
}

// parseTimestamp accepts RFC 3339 timestamps, with or without sub-second
// precision, including the trailing-Z form.
func parseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
