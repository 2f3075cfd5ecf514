package progress

import (
	"math"
	"time"
)

// Pace compares completion against how much of an objective's timeline has
// elapsed.
type Pace struct {
	ElapsedPct  float64
	ProgressPct float64
	DaysLeft    int
}

// Tolerance is how many points progress may trail the timeline before an
// objective counts as behind pace.
const Tolerance = 10.0

// ComputePace returns the pace of an objective running from start to target
// that is pct complete at now. ok is false when the timeline is unusable:
// no target date, or a target not after start.
func ComputePace(start time.Time, target *time.Time, pct float64, now time.Time) (Pace, bool) {
	if target == nil || start.IsZero() || !target.After(start) {
		return Pace{}, false
	}
	total := target.Sub(start).Hours()
	elapsed := now.Sub(start).Hours()
	p := Pace{
		ElapsedPct:  Clamp(elapsed / total * 100),
		ProgressPct: Clamp(pct),
		DaysLeft:    int(math.Ceil(target.Sub(now).Hours() / 24)),
	}
	if p.DaysLeft < 0 {
		p.DaysLeft = 0
	}
	return p, true
}

// Behind reports whether progress trails elapsed time by more than Tolerance.
// Finished work and timelines that have not started are never behind.
func (p Pace) Behind() bool {
	if p.ProgressPct >= 100 || p.ElapsedPct == 0 {
		return false
	}
	return p.ElapsedPct-p.ProgressPct > Tolerance
}

// Gap is the number of points progress trails the timeline, never negative.
func (p Pace) Gap() float64 {
	return max(0, p.ElapsedPct-p.ProgressPct)
}
