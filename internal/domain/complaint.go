package domain

import "time"

// ComplaintStatus is the lifecycle state of a complaint.
// The workflow is strict: SUBMITTED → TRIAGED → ASSIGNED → IN_PROGRESS → RESOLVED,
// with REJECTED reachable from any non-terminal state.
type ComplaintStatus string

const (
	StatusSubmitted  ComplaintStatus = "SUBMITTED"
	StatusTriaged    ComplaintStatus = "TRIAGED"
	StatusAssigned   ComplaintStatus = "ASSIGNED"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
	StatusResolved   ComplaintStatus = "RESOLVED"
	StatusRejected   ComplaintStatus = "REJECTED"
)

// statusTransitions defines the allowed lifecycle edges.
var statusTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusSubmitted:  {StatusTriaged, StatusRejected},
	StatusTriaged:    {StatusAssigned, StatusRejected},
	StatusAssigned:   {StatusInProgress, StatusRejected},
	StatusInProgress: {StatusResolved, StatusRejected},
	StatusResolved:   {},
	StatusRejected:   {},
}

// OpenStatuses are the states in which a complaint is still actionable and
// therefore a candidate for duplicate comparison.
var OpenStatuses = []ComplaintStatus{
	StatusSubmitted,
	StatusTriaged,
	StatusAssigned,
	StatusInProgress,
}

// CanTransition reports whether moving from current to next is a valid
// lifecycle edge. Unknown statuses never transition.
func CanTransition(current, next ComplaintStatus) bool {
	allowed, ok := statusTransitions[current]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == next {
			return true
		}
	}
	return false
}

// Location is where a complaint was reported. Address and coordinates are
// both optional; either can anchor a location match in duplicate detection.
type Location struct {
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are present.
func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// Complaint is the persisted intake record: the citizen's text plus the
// pipeline's decisions.
type Complaint struct {
	ID          string          `db:"id"          json:"id"`
	Title       string          `db:"title"       json:"title"`
	Description string          `db:"description" json:"description"`
	Status      ComplaintStatus `db:"status"      json:"status"`
	Location    Location        `db:"-"           json:"location"`
	Triage      *TriageResult   `db:"-"           json:"triage,omitempty"`
	Routing     *RoutingDecision `db:"-"          json:"routing,omitempty"`
	CreatedAt   time.Time       `db:"created_at"  json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"  json:"updated_at"`
}
