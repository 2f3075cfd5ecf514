package intelligence

import (
	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
)

type ruleKey struct {
	metric domain.MetricType
	status domain.ProgressStatus
}

// anyMetric matches every metric type for a status.
const anyMetric domain.MetricType = ""

var rules = map[ruleKey][]app.Suggestion{
	{domain.MetricIncreaseTo, domain.StatusNotStarted}: {
		{Title: "Record a first check-in this week", Rationale: "A measured starting point makes every later week comparable."},
		{Title: "Block one hour each week for the highest-leverage initiative", Rationale: "Small fixed time slots get an idle metric moving."},
	},
	{domain.MetricIncreaseTo, domain.StatusBehind}: {
		{Title: "Review last week's check-in every Monday", Rationale: "Seeing the gap weekly keeps the remaining distance concrete."},
		{Title: "Drop or pause one initiative that has not moved the metric", Rationale: "Freeing effort for what works closes the gap faster."},
		{Title: "Split the remaining gap into weekly increments", Rationale: "A weekly target shows early whether the pace is enough."},
	},
	{domain.MetricIncreaseTo, domain.StatusAtRisk}: {
		{Title: "Double down on the initiative with the best recent gain", Rationale: "Concentrating on proven work protects the remaining margin."},
		{Title: "Check in twice a week until back on track", Rationale: "Shorter feedback loops catch slippage before it compounds."},
	},
	{domain.MetricDecreaseTo, domain.StatusBehind}: {
		{Title: "List the top three sources of the metric each week", Rationale: "Reductions come from attacking the largest contributors first."},
		{Title: "Run one small experiment per week to remove a source", Rationale: "Regular experiments steadily bring the value down."},
	},
	{domain.MetricDecreaseTo, domain.StatusAtRisk}: {
		{Title: "Set an alert when the value rises week over week", Rationale: "Catching regressions quickly keeps the trend downward."},
	},
	{domain.MetricAchieveOrNot, domain.StatusNotStarted}: {
		{Title: "Define the single deliverable that counts as done", Rationale: "Binary results need an unambiguous finish line."},
		{Title: "Schedule a weekly milestone review", Rationale: "All-or-nothing goals show no partial progress, so milestones must."},
	},
	{domain.MetricShouldStayAbove, domain.StatusBehind}: {
		{Title: "Find what pushed the value under its floor", Rationale: "A threshold metric recovers once the cause is removed."},
		{Title: "Check the value at the same time every week", Rationale: "Consistent sampling shows whether it stays above the floor."},
	},
	{domain.MetricShouldStayBelow, domain.StatusBehind}: {
		{Title: "Find what pushed the value over its ceiling", Rationale: "A threshold metric recovers once the cause is removed."},
		{Title: "Add a weekly guardrail review", Rationale: "Regular reviews keep the value under its ceiling."},
	},

	{anyMetric, domain.StatusNotStarted}: {
		{Title: "Record a baseline check-in", Rationale: "Progress cannot be tracked until the first value is in."},
		{Title: "Pick one initiative to start this week", Rationale: "Starting small beats waiting for a full plan."},
	},
	{anyMetric, domain.StatusBehind}: {
		{Title: "Hold a 15-minute weekly review of this key result", Rationale: "Regular attention is the cheapest way to recover pace."},
		{Title: "Focus on one initiative until it moves the metric", Rationale: "Spreading effort thin slows every initiative down."},
	},
	{anyMetric, domain.StatusAtRisk}: {
		{Title: "Check in every week without exception", Rationale: "At-risk results slip silently between updates."},
		{Title: "Remove one blocker from the leading initiative", Rationale: "Unblocking proven work lifts the metric fastest."},
	},
	{anyMetric, domain.StatusOnTrack}: {
		{Title: "Keep the current weekly cadence", Rationale: "What got the result on track will keep it there."},
		{Title: "Write down what is working", Rationale: "Recording effective habits makes them repeatable."},
	},
	{anyMetric, domain.StatusCompleted}: {
		{Title: "Keep a monthly check-in to hold the result", Rationale: "Completed results can regress without occasional checks."},
		{Title: "Share what worked with the team", Rationale: "Spreading a proven approach helps other key results."},
	},
}

// RuleSuggestions returns the fallback habits for a metric type and status.
// Unknown combinations use the status-only rules.
func RuleSuggestions(metric domain.MetricType, status domain.ProgressStatus) []app.Suggestion {
	items, ok := rules[ruleKey{metric, status}]
	if !ok {
		items = rules[ruleKey{anyMetric, status}]
	}
	if len(items) == 0 {
		items = rules[ruleKey{anyMetric, domain.StatusBehind}]
	}
	if len(items) > MaxSuggestions {
		items = items[:MaxSuggestions]
	}
	return append([]app.Suggestion(nil), items...)
}
