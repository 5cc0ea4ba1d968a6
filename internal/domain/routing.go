package domain

// Department identifiers.
const (
	DeptUtilities      = "DEPT_UTIL"
	DeptMunicipal      = "DEPT_MUN"
	DeptPolice         = "DEPT_POL"
	DeptHealth         = "DEPT_HLT"
	DeptAdministration = "DEPT_ADM"
)

// categoryDepartments maps each complaint category to its department.
var categoryDepartments = map[Category]string{
	CategoryInfrastructure: DeptMunicipal,
	CategorySanitation:     DeptMunicipal,
	CategoryUtilities:      DeptUtilities,
	CategorySafety:         DeptPolice,
	CategoryHealth:         DeptHealth,
	CategoryAdministrative: DeptAdministration,
}

// DepartmentForCategory returns the department responsible for a category.
// Unknown categories fall through to the administrative department.
func DepartmentForCategory(c Category) string {
	if dept, ok := categoryDepartments[c]; ok {
		return dept
	}
	return DeptAdministration
}

// DepartmentInfo describes a department for display and admin tooling.
type DepartmentInfo struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Categories  []Category `json:"categories"`
	Description string     `json:"description"`
}

// Departments lists every department with its metadata.
var Departments = []DepartmentInfo{
	{
		ID:          DeptUtilities,
		Name:        "Utilities Department",
		Categories:  []Category{CategoryUtilities},
		Description: "Handles water supply, electricity, and utility services",
	},
	{
		ID:          DeptMunicipal,
		Name:        "Municipal Department",
		Categories:  []Category{CategoryInfrastructure, CategorySanitation},
		Description: "Manages roads, sanitation, waste collection, and public works",
	},
	{
		ID:          DeptPolice,
		Name:        "Police Department",
		Categories:  []Category{CategorySafety},
		Description: "Handles public safety and law enforcement issues",
	},
	{
		ID:          DeptHealth,
		Name:        "Health Department",
		Categories:  []Category{CategoryHealth},
		Description: "Manages healthcare facilities and medical emergencies",
	},
	{
		ID:          DeptAdministration,
		Name:        "Administrative Department",
		Categories:  []Category{CategoryAdministrative},
		Description: "Handles general administrative and miscellaneous complaints",
	},
}

// SLA hours by urgency level.
const (
	SLAHoursHigh    = 6
	SLAHoursMedium  = 24
	SLAHoursLow     = 72
	SLAHoursDefault = 72
)

// slaHours maps urgency levels to the maximum hours before escalation.
var slaHours = map[UrgencyLevel]int{
	UrgencyHigh:   SLAHoursHigh,
	UrgencyMedium: SLAHoursMedium,
	UrgencyLow:    SLAHoursLow,
}

// SLAHoursFor returns the SLA hours for an urgency level.
// Unrecognized levels get the default (lowest-priority) SLA.
func SLAHoursFor(level UrgencyLevel) int {
	if h, ok := slaHours[level]; ok {
		return h
	}
	return SLAHoursDefault
}

// Sentinel officer assigned when the roster is empty.
const (
	SentinelOfficerID   = "USR_ADMIN"
	SentinelOfficerName = "Admin Officer"
)

// Officer is a read-only roster entry supplied by the external user store.
type Officer struct {
	ID           string `db:"id"            json:"id"`
	Name         string `db:"name"          json:"name"`
	DepartmentID string `db:"department_id" json:"department_id"`
}

// Escalation flags a complaint for supervisory attention.
type Escalation struct {
	Needed bool   `json:"needed"`
	Level  string `json:"level,omitempty"`
}

// RoutingDecision is the assignment produced by the routing engine.
// Routing never fails: an empty roster degrades to the sentinel officer.
type RoutingDecision struct {
	DepartmentID string     `json:"department_id"`
	OfficerID    string     `json:"officer_id"`
	OfficerName  string     `json:"officer_name"`
	SLAHours     int        `json:"sla_hours"`
	Escalation   Escalation `json:"escalation"`
}
