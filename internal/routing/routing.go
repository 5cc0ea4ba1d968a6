// Package routing assigns a triaged complaint to a department and officer
// under a service-level deadline.
package routing

import (
	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/logging"
)

// EscalationLevelL1 is the first (and currently only) escalation tier,
// applied to HIGH-urgency complaints at intake.
const EscalationLevelL1 = "L1"

// Engine computes routing decisions. It holds no state beyond its logger.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a routing engine.
func NewEngine(logger logging.Logger) *Engine {
	return &Engine{logger: logger}
}

// Route maps the triage decision to a department, selects an officer from
// the supplied roster, and computes the SLA deadline and escalation flag.
// Routing never fails: an empty roster degrades to the sentinel admin
// officer identity.
func (e *Engine) Route(result domain.TriageResult, officers []domain.Officer) domain.RoutingDecision {
	departmentID := domain.DepartmentForCategory(result.Category)
	officer := selectOfficer(departmentID, officers)

	decision := domain.RoutingDecision{
		DepartmentID: departmentID,
		OfficerID:    officer.ID,
		OfficerName:  officer.Name,
		SLAHours:     domain.SLAHoursFor(result.UrgencyLevel),
	}
	if result.UrgencyLevel == domain.UrgencyHigh {
		decision.Escalation = domain.Escalation{Needed: true, Level: EscalationLevelL1}
	}

	e.logger.Info("complaint routed",
		logging.String("department_id", decision.DepartmentID),
		logging.String("officer_id", decision.OfficerID),
		logging.Int("sla_hours", decision.SLAHours),
		logging.Bool("escalation", decision.Escalation.Needed))

	return decision
}

// selectOfficer picks the first officer in the target department by roster
// order, falling back to the first officer anywhere, then to the sentinel.
// First-by-stable-order keeps selection deterministic and testable; real
// workload balancing belongs to the roster supplier.
func selectOfficer(departmentID string, officers []domain.Officer) domain.Officer {
	for _, o := range officers {
		if o.DepartmentID == departmentID {
			return o
		}
	}
	if len(officers) > 0 {
		return officers[0]
	}
	return domain.Officer{
		ID:           domain.SentinelOfficerID,
		Name:         domain.SentinelOfficerName,
		DepartmentID: domain.DeptAdministration,
	}
}
