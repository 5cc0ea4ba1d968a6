package keywords

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/civicgrid/triage/internal/domain"
)

// Matcher scans text against the keyword dictionaries in a single pass per
// dictionary using Aho-Corasick automata. Matching is substring containment,
// case-insensitive, not word-boundary-aware: a keyword counts if it appears
// anywhere in the text, and each keyword counts at most once.
//
// Matchers are immutable after construction and safe for concurrent use.
type Matcher struct {
	category *automaton
	high     *automaton
	medium   *automaton
}

// automaton pairs a compiled matcher with its pattern list. The Aho-Corasick
// trie collapses duplicate patterns onto the first index, so ownership is
// resolved by pattern string, not index.
type automaton struct {
	matcher  *ahocorasick.Matcher
	patterns []string
	// owners maps a pattern to every category listing it; nil for tier automata.
	owners map[string][]domain.Category
}

// NewMatcher compiles the standard category and urgency dictionaries.
func NewMatcher() *Matcher {
	return NewMatcherWithTables(CategoryKeywords, HighUrgencyKeywords, MediumUrgencyKeywords)
}

// NewMatcherWithTables compiles custom dictionaries; used by tests and by
// deployments that tune the tables.
func NewMatcherWithTables(
	categories map[domain.Category][]string,
	high, medium []string,
) *Matcher {
	return &Matcher{
		category: newCategoryAutomaton(categories),
		high:     newTierAutomaton(high),
		medium:   newTierAutomaton(medium),
	}
}

func newCategoryAutomaton(table map[domain.Category][]string) *automaton {
	a := &automaton{owners: make(map[string][]domain.Category)}
	// Walk categories in declared order so owner lists are deterministic.
	for _, cat := range domain.Categories {
		for _, kw := range table[cat] {
			normalized := strings.ToLower(strings.TrimSpace(kw))
			if normalized == "" {
				continue
			}
			if _, seen := a.owners[normalized]; !seen {
				a.patterns = append(a.patterns, normalized)
			}
			a.owners[normalized] = append(a.owners[normalized], cat)
		}
	}
	if len(a.patterns) > 0 {
		a.matcher = ahocorasick.NewStringMatcher(a.patterns)
	}
	return a
}

func newTierAutomaton(kws []string) *automaton {
	a := &automaton{}
	seen := make(map[string]bool, len(kws))
	for _, kw := range kws {
		normalized := strings.ToLower(strings.TrimSpace(kw))
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		a.patterns = append(a.patterns, normalized)
	}
	if len(a.patterns) > 0 {
		a.matcher = ahocorasick.NewStringMatcher(a.patterns)
	}
	return a
}

// hits returns the distinct patterns found anywhere in text.
func (a *automaton) hits(text string) []string {
	if a.matcher == nil || text == "" {
		return nil
	}
	indexes := a.matcher.Match([]byte(strings.ToLower(text)))
	matched := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		if idx >= 0 && idx < len(a.patterns) {
			matched = append(matched, a.patterns[idx])
		}
	}
	return matched
}

// CategoryMatch holds per-category keyword scores for one text.
type CategoryMatch struct {
	// Scores counts distinct matched keywords per category.
	Scores map[domain.Category]int
	// Matched lists the matched keywords per category.
	Matched map[domain.Category][]string
}

// MatchCategories scores text against the category keyword table.
func (m *Matcher) MatchCategories(text string) CategoryMatch {
	result := CategoryMatch{
		Scores:  make(map[domain.Category]int, len(domain.Categories)),
		Matched: make(map[domain.Category][]string),
	}
	for _, kw := range m.category.hits(text) {
		for _, cat := range m.category.owners[kw] {
			result.Scores[cat]++
			result.Matched[cat] = append(result.Matched[cat], kw)
		}
	}
	return result
}

// Top returns the highest-scoring category and its score. Ties resolve to
// the category declared first in domain.Categories; a zero score means no
// keyword matched any category.
func (c CategoryMatch) Top() (domain.Category, int) {
	best := domain.CategoryAdministrative
	bestScore := 0
	for _, cat := range domain.Categories {
		if c.Scores[cat] > bestScore {
			best = cat
			bestScore = c.Scores[cat]
		}
	}
	return best, bestScore
}

// MatchUrgency returns the distinct HIGH-tier and MEDIUM-tier phrases found
// in text.
func (m *Matcher) MatchUrgency(text string) (high, medium []string) {
	return m.high.hits(text), m.medium.hits(text)
}
