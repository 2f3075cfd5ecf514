package domain

import "time"

// KeyResult is a measurable sub-target of an objective.
type KeyResult struct {
	ID          string
	ObjectiveID string
	Title       string
	OrderIndex  int
	Measure
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SuccessMetric is a measurable item attached to an initiative.
type SuccessMetric struct {
	ID           string
	InitiativeID string
	Title        string
	Measure
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CheckIn is an update event that revises a measurable item's current value.
type CheckIn struct {
	ID            string
	SubjectKind   CheckInSubject
	SubjectID     string
	PreviousValue *float64
	Value         float64
	Note          string
	Source        string // cli, api, mcp or import
	CreatedAt     time.Time
}
