package progress

import (
	"math"
	"strconv"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/dustin/go-humanize"
)

// FormatPercent renders pct with one decimal. Rounding happens here and
// nowhere else.
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(math.Round(Clamp(pct)*10)/10, 'f', 1, 64) + "%"
}

// FormatValue renders a measure value in its unit. Nil renders as "-".
func FormatValue(v *float64, unit domain.Unit) string {
	if v == nil || !finite(*v) {
		return "-"
	}
	x := *v
	switch unit {
	case domain.UnitCurrency:
		if x < 0 {
			return "-$" + humanize.CommafWithDigits(-x, 2)
		}
		return "$" + humanize.CommafWithDigits(x, 2)
	case domain.UnitPercentage:
		return humanize.FtoaWithDigits(x, 2) + "%"
	default:
		return humanize.CommafWithDigits(x, 2)
	}
}
