package repository

import (
	"database/sql"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
)

// measureColumns are shared by key_results and success_metrics.
const measureColumns = `metric_type, unit, base_value, current_value, target_value, last_check_in_at`

func measureArgs(m *domain.Measure) []any {
	return []any{
		string(m.Type),
		string(unitOrDefault(m.Unit)),
		nullableFloat(m.BaseValue),
		nullableFloat(m.CurrentValue),
		m.TargetValue,
		nullableTimeToString(m.LastCheckInAt, time.RFC3339),
	}
}

func unitOrDefault(u domain.Unit) domain.Unit {
	if u == "" {
		return domain.UnitNumber
	}
	return u
}

// measureDest collects scan targets for measureColumns.
type measureDest struct {
	typ, unit     string
	base, current sql.NullFloat64
	target        float64
	lastCheckIn   sql.NullString
}

func (d *measureDest) targets() []any {
	return []any{&d.typ, &d.unit, &d.base, &d.current, &d.target, &d.lastCheckIn}
}

// measure converts scanned columns. The stored type is kept verbatim so
// legacy or hand-edited rows still flow to the calculator's fallback.
func (d *measureDest) measure() domain.Measure {
	return domain.Measure{
		Type:          domain.MetricType(d.typ),
		Unit:          domain.Unit(d.unit),
		BaseValue:     floatPtr(d.base),
		CurrentValue:  floatPtr(d.current),
		TargetValue:   d.target,
		LastCheckInAt: parseNullableTime(d.lastCheckIn, time.RFC3339),
	}
}
