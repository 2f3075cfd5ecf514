package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Objective options
type ObjectiveOption func(*domain.Objective)

func WithTargetDate(d time.Time) ObjectiveOption {
	return func(o *domain.Objective) {
		o.TargetDate = &d
	}
}

func WithStartDate(d time.Time) ObjectiveOption {
	return func(o *domain.Objective) {
		o.StartDate = d
	}
}

func WithObjectiveStatus(s domain.ObjectiveStatus) ObjectiveOption {
	return func(o *domain.Objective) {
		o.Status = s
	}
}

func WithShortID(id string) ObjectiveOption {
	return func(o *domain.Objective) {
		o.ShortID = id
	}
}

func WithParent(parentID string) ObjectiveOption {
	return func(o *domain.Objective) {
		o.ParentID = &parentID
	}
}

func WithOwner(owner string) ObjectiveOption {
	return func(o *domain.Objective) {
		o.Owner = owner
	}
}

func WithPeriod(period string) ObjectiveOption {
	return func(o *domain.Objective) {
		o.Period = period
	}
}

func defaultShortID(title string) string {
	upper := strings.ToUpper(title)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestObjective(title string, opts ...ObjectiveOption) *domain.Objective {
	now := time.Now().UTC()
	o := &domain.Objective{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(title),
		Title:     title,
		Status:    domain.ObjectiveActive,
		StartDate: now.AddDate(0, -1, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MeasureOption configures the measure of a key result or success metric.
type MeasureOption func(*domain.Measure)

func WithMetricType(t domain.MetricType) MeasureOption {
	return func(m *domain.Measure) {
		m.Type = t
	}
}

func WithUnit(u domain.Unit) MeasureOption {
	return func(m *domain.Measure) {
		m.Unit = u
	}
}

func WithBase(v float64) MeasureOption {
	return func(m *domain.Measure) {
		m.BaseValue = &v
	}
}

func WithTarget(v float64) MeasureOption {
	return func(m *domain.Measure) {
		m.TargetValue = v
	}
}

// WithCurrent sets the current value and marks the measure as checked in.
func WithCurrent(v float64) MeasureOption {
	return func(m *domain.Measure) {
		m.ApplyCheckIn(v, time.Now().UTC())
	}
}

// WithCurrentNoCheckIn sets the current value without recording a check-in,
// as an import or manual edit would.
func WithCurrentNoCheckIn(v float64) MeasureOption {
	return func(m *domain.Measure) {
		m.CurrentValue = &v
	}
}

func newMeasure(opts []MeasureOption) domain.Measure {
	m := domain.Measure{
		Type:        domain.MetricIncreaseTo,
		Unit:        domain.UnitNumber,
		BaseValue:   domain.Float64Ptr(0),
		TargetValue: 100,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

func NewTestKeyResult(objectiveID, title string, opts ...MeasureOption) *domain.KeyResult {
	now := time.Now().UTC()
	return &domain.KeyResult{
		ID:          uuid.New().String(),
		ObjectiveID: objectiveID,
		Title:       title,
		Measure:     newMeasure(opts),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func NewTestSuccessMetric(initiativeID, title string, opts ...MeasureOption) *domain.SuccessMetric {
	now := time.Now().UTC()
	return &domain.SuccessMetric{
		ID:           uuid.New().String(),
		InitiativeID: initiativeID,
		Title:        title,
		Measure:      newMeasure(opts),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Initiative options
type InitiativeOption func(*domain.Initiative)

func WithInitiativeStatus(s domain.InitiativeStatus) InitiativeOption {
	return func(i *domain.Initiative) {
		i.Status = s
	}
}

func WithDueDate(d time.Time) InitiativeOption {
	return func(i *domain.Initiative) {
		i.DueDate = &d
	}
}

func NewTestInitiative(keyResultID, title string, opts ...InitiativeOption) *domain.Initiative {
	now := time.Now().UTC()
	i := &domain.Initiative{
		ID:          uuid.New().String(),
		KeyResultID: keyResultID,
		Title:       title,
		Status:      domain.InitiativePlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func NewTestTask(initiativeID, title string, done bool) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:           uuid.New().String(),
		InitiativeID: initiativeID,
		Title:        title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if done {
		t.Complete(now)
	}
	return t
}

func NewTestCheckIn(kind domain.CheckInSubject, subjectID string, value float64, at time.Time) *domain.CheckIn {
	return &domain.CheckIn{
		ID:          uuid.New().String(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		Value:       value,
		Source:      "cli",
		CreatedAt:   at.UTC(),
	}
}
