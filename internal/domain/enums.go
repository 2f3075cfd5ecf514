package domain

import "strings"

type ObjectiveStatus string

const (
	ObjectiveActive   ObjectiveStatus = "active"
	ObjectivePaused   ObjectiveStatus = "paused"
	ObjectiveDone     ObjectiveStatus = "done"
	ObjectiveArchived ObjectiveStatus = "archived"
)

// ValidObjectiveStatuses is the canonical set of accepted objective status strings.
var ValidObjectiveStatuses = map[string]bool{
	"active": true, "paused": true, "done": true, "archived": true,
}

// MetricType selects how a measurable item's values turn into a percentage.
type MetricType string

const (
	MetricIncreaseTo      MetricType = "increase_to"
	MetricDecreaseTo      MetricType = "decrease_to"
	MetricAchieveOrNot    MetricType = "achieve_or_not"
	MetricShouldStayAbove MetricType = "should_stay_above"
	MetricShouldStayBelow MetricType = "should_stay_below"
)

// MetricTypes lists the recognized metric types in display order.
var MetricTypes = []MetricType{
	MetricIncreaseTo,
	MetricDecreaseTo,
	MetricAchieveOrNot,
	MetricShouldStayAbove,
	MetricShouldStayBelow,
}

// ParseMetricType normalizes s and reports whether it names a known type.
// Unknown values are returned as-is so callers can still fall back.
func ParseMetricType(s string) (MetricType, bool) {
	t := MetricType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.Valid()
}

func (t MetricType) Valid() bool {
	switch t {
	case MetricIncreaseTo, MetricDecreaseTo, MetricAchieveOrNot,
		MetricShouldStayAbove, MetricShouldStayBelow:
		return true
	}
	return false
}

// Binary reports whether the type awards all-or-nothing credit.
func (t MetricType) Binary() bool {
	return t == MetricAchieveOrNot || t == MetricShouldStayAbove || t == MetricShouldStayBelow
}

// Unit affects how values are displayed, never how progress is computed.
type Unit string

const (
	UnitNumber     Unit = "number"
	UnitPercentage Unit = "percentage"
	UnitCurrency   Unit = "currency"
)

func (u Unit) Valid() bool {
	return u == UnitNumber || u == UnitPercentage || u == UnitCurrency
}

// ProgressStatus is the dashboard label derived from a completion percentage.
type ProgressStatus string

const (
	StatusCompleted  ProgressStatus = "completed"
	StatusOnTrack    ProgressStatus = "on_track"
	StatusAtRisk     ProgressStatus = "at_risk"
	StatusBehind     ProgressStatus = "behind"
	StatusNotStarted ProgressStatus = "not_started"
)

// ProgressStatuses lists labels from best to worst.
var ProgressStatuses = []ProgressStatus{
	StatusCompleted,
	StatusOnTrack,
	StatusAtRisk,
	StatusBehind,
	StatusNotStarted,
}

type InitiativeStatus string

const (
	InitiativePlanned    InitiativeStatus = "planned"
	InitiativeInProgress InitiativeStatus = "in_progress"
	InitiativeDone       InitiativeStatus = "done"
	InitiativeCancelled  InitiativeStatus = "cancelled"
)

func (s InitiativeStatus) Valid() bool {
	switch s {
	case InitiativePlanned, InitiativeInProgress, InitiativeDone, InitiativeCancelled:
		return true
	}
	return false
}

// CheckInSubject identifies which kind of measurable item a check-in revises.
type CheckInSubject string

const (
	SubjectKeyResult     CheckInSubject = "key_result"
	SubjectSuccessMetric CheckInSubject = "success_metric"
)
