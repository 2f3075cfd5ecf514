package service

import (
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

func nowOr(t *time.Time) time.Time {
	if t != nil {
		return t.UTC()
	}
	return time.Now().UTC()
}

// normalizeMeasure canonicalises the type string and defaults the unit,
// then validates the result for persistence.
func normalizeMeasure(m *domain.Measure) error {
	if t, ok := domain.ParseMetricType(string(m.Type)); ok {
		m.Type = t
	}
	if m.Unit == "" {
		m.Unit = domain.UnitNumber
	}
	if err := m.Validate(); err != nil {
		return invalid("measure", "%v", err)
	}
	return nil
}

// checkInValue coerces a submitted value. Unlike the calculator, a
// check-in refuses values it cannot read rather than recording zero.
func checkInValue(v any) (float64, error) {
	f := progress.OptionalNumber(v)
	if f == nil {
		return 0, invalid("value", "must be a finite number, got %v", v)
	}
	return *f, nil
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return invalid("title", "is required")
	}
	return nil
}
