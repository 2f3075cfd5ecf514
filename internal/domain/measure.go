package domain

import (
	"fmt"
	"math"
	"time"
)

// Measure holds the values shared by key results and success metrics.
// Base and current are optional; the progress calculator treats a nil
// value as zero.
type Measure struct {
	Type          MetricType
	Unit          Unit
	BaseValue     *float64
	CurrentValue  *float64
	TargetValue   float64
	LastCheckInAt *time.Time
}

// HasUpdates reports whether at least one check-in has been recorded.
func (m *Measure) HasUpdates() bool {
	return m.LastCheckInAt != nil
}

// Validate checks the measure's type, unit and target for persistence.
// Unknown types are rejected at write time even though the calculator
// tolerates them on read.
func (m *Measure) Validate() error {
	if !m.Type.Valid() {
		return fmt.Errorf("unknown metric type %q", m.Type)
	}
	if m.Unit != "" && !m.Unit.Valid() {
		return fmt.Errorf("unknown unit %q", m.Unit)
	}
	if math.IsNaN(m.TargetValue) || math.IsInf(m.TargetValue, 0) {
		return fmt.Errorf("target value must be a finite number")
	}
	return nil
}

// ApplyCheckIn records a new current value and returns the previous one.
func (m *Measure) ApplyCheckIn(value float64, now time.Time) *float64 {
	prev := m.CurrentValue
	v := value
	m.CurrentValue = &v
	m.LastCheckInAt = &now
	return prev
}
