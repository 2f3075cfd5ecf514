package progress

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ToSafeNumber coerces an externally supplied value into a finite float64.
// Nil values, booleans, unparseable strings, NaN and infinities yield
// fallback.
// It never panics and never returns a non-finite number.
func ToSafeNumber(v any, fallback float64) float64 {
	if f, ok := parseNumber(v); ok {
		return f
	}
	return fallback
}

// OptionalNumber is ToSafeNumber for nullable fields: nil and unparseable
// inputs stay nil instead of becoming zero.
func OptionalNumber(v any) *float64 {
	if f, ok := parseNumber(v); ok {
		return &f
	}
	return nil
}

func parseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case *float64:
		if x == nil {
			return 0, false
		}
		return *x, finite(*x)
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			return 0, false
		}
		v = x
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || !finite(f) {
		return 0, false
	}
	return f, true
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
