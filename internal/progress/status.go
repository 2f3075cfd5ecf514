package progress

import "github.com/alexanderramin/okra/internal/domain"

// StatusBand maps percentages at or above Min (strictly above when Strict)
// to Label.
type StatusBand struct {
	Min    float64
	Strict bool
	Label  domain.ProgressStatus
}

func (b StatusBand) matches(pct float64) bool {
	if b.Strict {
		return pct > b.Min
	}
	return pct >= b.Min
}

// StatusTable is evaluated top-down; the first matching band wins. A
// percentage no band matches is Idle when the item has never been updated
// and Stalled otherwise.
type StatusTable struct {
	Bands   []StatusBand
	Idle    domain.ProgressStatus
	Stalled domain.ProgressStatus
}

// DefaultStatusTable returns the cut points shared by every dashboard:
// 100 completed, 80 on track, 60 at risk, above 0 behind.
func DefaultStatusTable() StatusTable {
	return StatusTable{
		Bands: []StatusBand{
			{Min: 100, Label: domain.StatusCompleted},
			{Min: 80, Label: domain.StatusOnTrack},
			{Min: 60, Label: domain.StatusAtRisk},
			{Min: 0, Strict: true, Label: domain.StatusBehind},
		},
		Idle:    domain.StatusNotStarted,
		Stalled: domain.StatusBehind,
	}
}

// Label returns the status for pct.
func (t StatusTable) Label(pct float64, hasUpdates bool) domain.ProgressStatus {
	pct = Clamp(pct)
	for _, b := range t.Bands {
		if b.matches(pct) {
			return b.Label
		}
	}
	if hasUpdates {
		return t.Stalled
	}
	return t.Idle
}
