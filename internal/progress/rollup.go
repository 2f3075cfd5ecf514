package progress

// Rollup combines child results into a parent result: the mean percentage,
// updated if any child was updated. An empty slice rolls up to zero.
func (c Calculator) Rollup(children []Result) Result {
	if len(children) == 0 {
		return Result{Percentage: 0, Status: c.Table.Label(0, false)}
	}
	var sum float64
	var updated bool
	for _, r := range children {
		sum += Clamp(r.Percentage)
		updated = updated || r.HasUpdates
	}
	pct := Clamp(sum / float64(len(children)))
	return Result{
		Percentage: pct,
		Status:     c.Table.Label(pct, updated),
		HasUpdates: updated,
	}
}

// Ratio labels a done/total count, as used for initiatives tracked by tasks.
func (c Calculator) Ratio(done, total int) Result {
	var pct float64
	if total > 0 {
		pct = Clamp(float64(done) / float64(total) * 100)
	}
	updated := done > 0
	return Result{
		Percentage: pct,
		Status:     c.Table.Label(pct, updated),
		HasUpdates: updated,
	}
}

// Fixed labels an externally decided percentage, e.g. a finished initiative.
func (c Calculator) Fixed(pct float64, hasUpdates bool) Result {
	pct = Clamp(pct)
	return Result{Percentage: pct, Status: c.Table.Label(pct, hasUpdates), HasUpdates: hasUpdates}
}
