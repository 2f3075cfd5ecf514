package service

import (
	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

// initiativeProgress prefers success metrics, then tasks. A done initiative
// counts as complete regardless of either.
func initiativeProgress(calc progress.Calculator, status domain.InitiativeStatus, metrics []app.MetricView, done, total int) progress.Result {
	if status == domain.InitiativeDone {
		return calc.Fixed(100, true)
	}
	if len(metrics) > 0 {
		results := make([]progress.Result, len(metrics))
		for i, m := range metrics {
			results[i] = m.Progress.Result()
		}
		return calc.Rollup(results)
	}
	return calc.Ratio(done, total)
}

// objectiveProgress averages key results, falling back to child objectives
// when the objective has none.
func objectiveProgress(calc progress.Calculator, krs []app.KeyResultView, children []app.ObjectiveView) progress.Result {
	var results []progress.Result
	if len(krs) > 0 {
		for _, kr := range krs {
			results = append(results, kr.Progress.Result())
		}
	} else {
		for _, c := range children {
			results = append(results, c.Progress.Result())
		}
	}
	return calc.Rollup(results)
}
