package domain

import "time"

// DuplicateCandidate is an open complaint compared against a new submission.
// Candidates come from the caller (typically pre-filtered by status and
// category from storage); the detector re-validates the time window.
type DuplicateCandidate struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    Category        `json:"category"`
	Status      ComplaintStatus `json:"status"`
	Location    Location        `json:"location"`
	CreatedAt   string          `json:"created_at"` // RFC 3339; malformed values skip the candidate
}

// SimilarComplaint is one qualifying duplicate match.
type SimilarComplaint struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	SimilarityScore float64         `json:"similarity_score"` // rounded to 2 decimals
	Status          ComplaintStatus `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DuplicateReport summarizes a duplicate scan. Not persisted by the core.
type DuplicateReport struct {
	IsDuplicate       bool               `json:"is_duplicate"`
	DuplicateCount    int                `json:"duplicate_count"`
	SimilarComplaints []SimilarComplaint `json:"similar_complaints"` // sorted by score desc, max 5
	PrimaryDuplicate  *SimilarComplaint  `json:"primary_duplicate,omitempty"`
}
