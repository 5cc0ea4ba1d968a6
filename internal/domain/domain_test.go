package domain_test

import (
	"testing"

	"github.com/civicgrid/triage/internal/domain"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from domain.ComplaintStatus
		to   domain.ComplaintStatus
		ok   bool
	}{
		{domain.StatusSubmitted, domain.StatusTriaged, true},
		{domain.StatusSubmitted, domain.StatusRejected, true},
		{domain.StatusSubmitted, domain.StatusResolved, false},
		{domain.StatusTriaged, domain.StatusAssigned, true},
		{domain.StatusTriaged, domain.StatusInProgress, false},
		{domain.StatusAssigned, domain.StatusInProgress, true},
		{domain.StatusInProgress, domain.StatusResolved, true},
		{domain.StatusInProgress, domain.StatusRejected, true},
		{domain.StatusResolved, domain.StatusRejected, false},
		{domain.StatusRejected, domain.StatusSubmitted, false},
		{domain.ComplaintStatus("BOGUS"), domain.StatusTriaged, false},
	}

	for _, tt := range tests {
		if got := domain.CanTransition(tt.from, tt.to); got != tt.ok {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestParseCategory(t *testing.T) {
	if got := domain.ParseCategory("Safety"); got != domain.CategorySafety {
		t.Errorf("ParseCategory(Safety) = %s", got)
	}
	if got := domain.ParseCategory("NotACategory"); got != domain.CategoryAdministrative {
		t.Errorf("ParseCategory(unknown) = %s, want Administrative", got)
	}
	if got := domain.ParseCategory(""); got != domain.CategoryAdministrative {
		t.Errorf("ParseCategory(empty) = %s, want Administrative", got)
	}
}

func TestCombined(t *testing.T) {
	tests := []struct {
		name string
		text domain.ComplaintText
		want string
	}{
		{
			name: "title and description joined",
			text: domain.ComplaintText{Title: "Pothole", Description: "Huge pothole on MG Road"},
			want: "Pothole. Huge pothole on MG Road",
		},
		{
			name: "title only",
			text: domain.ComplaintText{Title: "Pothole"},
			want: "Pothole",
		},
		{
			name: "description only",
			text: domain.ComplaintText{Description: "Huge pothole"},
			want: "Huge pothole",
		},
		{
			name: "both empty",
			text: domain.ComplaintText{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.text.Combined(); got != tt.want {
				t.Errorf("Combined() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSLAHoursFor(t *testing.T) {
	if got := domain.SLAHoursFor(domain.UrgencyHigh); got != 6 {
		t.Errorf("SLAHoursFor(HIGH) = %d, want 6", got)
	}
	if got := domain.SLAHoursFor(domain.UrgencyMedium); got != 24 {
		t.Errorf("SLAHoursFor(MEDIUM) = %d, want 24", got)
	}
	if got := domain.SLAHoursFor(domain.UrgencyLow); got != 72 {
		t.Errorf("SLAHoursFor(LOW) = %d, want 72", got)
	}
	if got := domain.SLAHoursFor(domain.UrgencyLevel("??")); got != 72 {
		t.Errorf("SLAHoursFor(unknown) = %d, want default 72", got)
	}
}

func TestDepartmentForCategory(t *testing.T) {
	if got := domain.DepartmentForCategory(domain.CategoryUtilities); got != domain.DeptUtilities {
		t.Errorf("DepartmentForCategory(Utilities) = %s", got)
	}
	if got := domain.DepartmentForCategory(domain.Category("??")); got != domain.DeptAdministration {
		t.Errorf("DepartmentForCategory(unknown) = %s, want administration", got)
	}
}

func TestDepartmentsCoverAllCategories(t *testing.T) {
	covered := make(map[domain.Category]bool)
	for _, dept := range domain.Departments {
		for _, cat := range dept.Categories {
			covered[cat] = true
		}
	}
	for _, cat := range domain.Categories {
		if !covered[cat] {
			t.Errorf("category %s not covered by any department", cat)
		}
	}
}

func TestLocationHasCoordinates(t *testing.T) {
	lat, lon := 12.97, 77.59
	if (domain.Location{Latitude: &lat}).HasCoordinates() {
		t.Error("latitude alone should not count as coordinates")
	}
	if !(domain.Location{Latitude: &lat, Longitude: &lon}).HasCoordinates() {
		t.Error("both coordinates present should count")
	}
}
