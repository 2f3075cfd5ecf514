// Package progress converts measurable items (key results, success metrics)
// into a completion percentage and a dashboard status label.
//
// Every function here is pure: identical inputs always produce identical
// outputs, nothing is cached, and nothing returns an error. Malformed input
// is absorbed by coercing it to zero.
package progress

import (
	"github.com/alexanderramin/okra/internal/domain"
)

// Item is the raw input to the calculator. Numeric fields accept float64,
// ints, *float64, numeric strings or nil, as delivered by storage, HTTP
// payloads or import documents.
type Item struct {
	Type    string
	Base    any
	Current any
	Target  any
	Unit    domain.Unit
}

// ItemOf adapts a stored measure to calculator input.
func ItemOf(m domain.Measure) Item {
	return Item{
		Type:    string(m.Type),
		Base:    m.BaseValue,
		Current: m.CurrentValue,
		Target:  m.TargetValue,
		Unit:    m.Unit,
	}
}

// Result is the calculator output consumed by every rendering surface.
type Result struct {
	Percentage float64
	Status     domain.ProgressStatus
	HasUpdates bool
}

// evaluator computes the unclamped percentage for one metric type.
type evaluator func(base, current, target float64) float64

func evaluatorFor(t domain.MetricType) evaluator {
	switch t {
	case domain.MetricIncreaseTo:
		return increaseTo
	case domain.MetricDecreaseTo:
		return decreaseTo
	case domain.MetricAchieveOrNot, domain.MetricShouldStayAbove:
		return atLeast
	case domain.MetricShouldStayBelow:
		return atMost
	default:
		return ratio
	}
}

func increaseTo(base, current, target float64) float64 {
	if target <= base {
		return 0
	}
	return (current - base) / (target - base) * 100
}

func decreaseTo(base, current, target float64) float64 {
	if base <= target {
		return 0
	}
	return (base - current) / (base - target) * 100
}

func atLeast(_, current, target float64) float64 {
	if current >= target {
		return 100
	}
	return 0
}

func atMost(_, current, target float64) float64 {
	if current <= target {
		return 100
	}
	return 0
}

func ratio(_, current, target float64) float64 {
	if target == 0 {
		return 0
	}
	return current / target * 100
}

// Percentage returns the completion percentage of item in [0, 100].
func Percentage(item Item) float64 {
	base := ToSafeNumber(item.Base, 0)
	current := ToSafeNumber(item.Current, 0)
	target := ToSafeNumber(item.Target, 0)

	t, _ := domain.ParseMetricType(item.Type)
	return Clamp(evaluatorFor(t)(base, current, target))
}

// Clamp bounds v to [0, 100]. Non-finite values become 0.
func Clamp(v float64) float64 {
	if !finite(v) {
		return 0
	}
	return max(0, min(100, v))
}

// Calculator pairs the percentage formulas with a status table so every
// caller labels identical percentages identically.
type Calculator struct {
	Table StatusTable
}

// NewCalculator returns a Calculator using table.
func NewCalculator(table StatusTable) Calculator {
	return Calculator{Table: table}
}

// Default returns a Calculator using DefaultStatusTable.
func Default() Calculator {
	return NewCalculator(DefaultStatusTable())
}

// Calculate returns the percentage and status label for item.
// hasUpdates distinguishes an untouched item from one checked in at zero.
func (c Calculator) Calculate(item Item, hasUpdates bool) Result {
	pct := Percentage(item)
	return Result{
		Percentage: pct,
		Status:     c.Table.Label(pct, hasUpdates),
		HasUpdates: hasUpdates,
	}
}

// Measure is Calculate for a stored measure.
func (c Calculator) Measure(m domain.Measure) Result {
	return c.Calculate(ItemOf(m), m.HasUpdates())
}
