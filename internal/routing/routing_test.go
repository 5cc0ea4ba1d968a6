package routing_test

import (
	"testing"

	"github.com/civicgrid/triage/internal/domain"
	"github.com/civicgrid/triage/internal/logging"
	"github.com/civicgrid/triage/internal/routing"
)

var roster = []domain.Officer{
	{ID: "USR_01", Name: "A. Kumar", DepartmentID: domain.DeptMunicipal},
	{ID: "USR_02", Name: "B. Singh", DepartmentID: domain.DeptPolice},
	{ID: "USR_03", Name: "C. Rao", DepartmentID: domain.DeptPolice},
	{ID: "USR_04", Name: "D. Iyer", DepartmentID: domain.DeptUtilities},
}

func TestRouteDepartmentMapping(t *testing.T) {
	e := routing.NewEngine(logging.NewNop())

	tests := []struct {
		category   domain.Category
		department string
	}{
		{domain.CategoryInfrastructure, domain.DeptMunicipal},
		{domain.CategorySanitation, domain.DeptMunicipal},
		{domain.CategoryUtilities, domain.DeptUtilities},
		{domain.CategorySafety, domain.DeptPolice},
		{domain.CategoryHealth, domain.DeptHealth},
		{domain.CategoryAdministrative, domain.DeptAdministration},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			decision := e.Route(domain.TriageResult{
				Category:     tt.category,
				UrgencyLevel: domain.UrgencyLow,
			}, roster)
			if decision.DepartmentID != tt.department {
				t.Errorf("DepartmentID = %s, want %s", decision.DepartmentID, tt.department)
			}
		})
	}
}

func TestRouteSLAAndEscalation(t *testing.T) {
	e := routing.NewEngine(logging.NewNop())

	tests := []struct {
		level     domain.UrgencyLevel
		slaHours  int
		escalated bool
	}{
		{domain.UrgencyHigh, 6, true},
		{domain.UrgencyMedium, 24, false},
		{domain.UrgencyLow, 72, false},
		{domain.UrgencyLevel("WEIRD"), 72, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			decision := e.Route(domain.TriageResult{
				Category:     domain.CategorySafety,
				UrgencyLevel: tt.level,
			}, roster)
			if decision.SLAHours != tt.slaHours {
				t.Errorf("SLAHours = %d, want %d", decision.SLAHours, tt.slaHours)
			}
			if decision.Escalation.Needed != tt.escalated {
				t.Errorf("Escalation.Needed = %v, want %v", decision.Escalation.Needed, tt.escalated)
			}
			if tt.escalated && decision.Escalation.Level != routing.EscalationLevelL1 {
				t.Errorf("Escalation.Level = %q, want L1", decision.Escalation.Level)
			}
		})
	}
}

func TestRouteSelectsFirstDepartmentOfficer(t *testing.T) {
	e := routing.NewEngine(logging.NewNop())

	decision := e.Route(domain.TriageResult{
		Category:     domain.CategorySafety,
		UrgencyLevel: domain.UrgencyHigh,
	}, roster)
	// Two police officers on the roster; the earlier entry wins.
	if decision.OfficerID != "USR_02" {
		t.Errorf("OfficerID = %s, want USR_02", decision.OfficerID)
	}
	if decision.OfficerName != "B. Singh" {
		t.Errorf("OfficerName = %s, want B. Singh", decision.OfficerName)
	}
}

func TestRouteFallsBackToAnyOfficer(t *testing.T) {
	e := routing.NewEngine(logging.NewNop())

	// No health officer on the roster: the first roster entry is assigned.
	decision := e.Route(domain.TriageResult{
		Category:     domain.CategoryHealth,
		UrgencyLevel: domain.UrgencyMedium,
	}, roster)
	if decision.DepartmentID != domain.DeptHealth {
		t.Errorf("DepartmentID = %s, want DeptHealth even with no matching officer", decision.DepartmentID)
	}
	if decision.OfficerID != "USR_01" {
		t.Errorf("OfficerID = %s, want USR_01 fallback", decision.OfficerID)
	}
}

func TestRouteEmptyRosterSentinel(t *testing.T) {
	e := routing.NewEngine(logging.NewNop())

	decision := e.Route(domain.TriageResult{
		Category:     domain.CategorySanitation,
		UrgencyLevel: domain.UrgencyLow,
	}, nil)
	if decision.OfficerID != domain.SentinelOfficerID {
		t.Errorf("OfficerID = %s, want sentinel", decision.OfficerID)
	}
	if decision.OfficerName != domain.SentinelOfficerName {
		t.Errorf("OfficerName = %s, want sentinel name", decision.OfficerName)
	}
	if decision.DepartmentID != domain.DeptMunicipal {
		t.Errorf("DepartmentID = %s, department mapping must not change on empty roster", decision.DepartmentID)
	}
}
