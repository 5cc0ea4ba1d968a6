package api

import (
	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/duplicate"
	"github.com/civicgrid/triage/internal/triage"
)

// TriageRequest is the body of POST /api/v1/triage.
type TriageRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	// Language is the declared complaint language. It skips translation and
	// is recorded when detection cannot identify the text. Ignored when
	// LanguageMode is set.
	Language string `json:"language,omitempty"`
	// LanguageMode is "auto" (default) or a declared ISO 639-1 code.
	LanguageMode string `json:"language_mode,omitempty"`
}

// TriageResponse wraps a single triage decision.
type TriageResponse struct {
	Result domain.TriageResult `json:"result"`
}

// BatchTriageRequest is the body of POST /api/v1/triage/batch.
type BatchTriageRequest struct {
	Items []triage.BatchItem `json:"items" binding:"required,min=1,max=100"`
}

// BatchTriageResponse carries batch results in input order.
type BatchTriageResponse struct {
	Results []domain.TriageResult `json:"results"`
	Total   int                   `json:"total"`
}

// DuplicateRequest is the body of POST /api/v1/duplicates. Candidates come
// from the caller so the scan can run against any complaint set.
type DuplicateRequest struct {
	Complaint  duplicate.NewComplaint      `json:"complaint" binding:"required"`
	Candidates []domain.DuplicateCandidate `json:"candidates"`
	// CheckLocation enables the location gate. Defaults to true when omitted.
	CheckLocation *bool `json:"check_location,omitempty"`
}

// LocationGate resolves the check_location flag, defaulting to on.
func (r DuplicateRequest) LocationGate() bool {
	return r.CheckLocation == nil || *r.CheckLocation
}

// RouteRequest is the body of POST /api/v1/route. When Officers is omitted
// the handler loads the roster from the user store.
type RouteRequest struct {
	Triage   domain.TriageResult `json:"triage" binding:"required"`
	Officers []domain.Officer    `json:"officers,omitempty"`
}

// CreateComplaintRequest is the body of POST /api/v1/complaints.
type CreateComplaintRequest struct {
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Location     domain.Location `json:"location"`
	LanguageMode string          `json:"language_mode,omitempty"`
}

// CreateComplaintResponse is the intake result. Persisted is false when the
// record could not be written; the triage decision is still returned.
type CreateComplaintResponse struct {
	Complaint *domain.Complaint      `json:"complaint"`
	Duplicate domain.DuplicateReport `json:"duplicate"`
	Persisted bool                   `json:"persisted"`
}

// UpdateStatusRequest is the body of PUT /api/v1/complaints/:id/status.
type UpdateStatusRequest struct {
	Status domain.ComplaintStatus `json:"status" binding:"required"`
}

// DepartmentsResponse lists department metadata.
type DepartmentsResponse struct {
	Departments []domain.DepartmentInfo `json:"departments"`
	Total       int                     `json:"total"`
}
