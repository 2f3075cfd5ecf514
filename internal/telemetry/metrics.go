// Package telemetry exports service and LLM activity as Prometheus metrics.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/llm"
	"github.com/alexanderramin/okra/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "okra"

// Metrics records use-case outcomes, check-ins, dashboard status counts and
// LLM calls. It satisfies both service.UseCaseObserver and llm.Observer.
type Metrics struct {
	useCases        *prometheus.CounterVec
	useCaseDuration *prometheus.HistogramVec
	checkIns        *prometheus.CounterVec
	crossings       *prometheus.CounterVec
	objectives      *prometheus.GaugeVec
	llmCalls        *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
}

var (
	_ service.UseCaseObserver = (*Metrics)(nil)
	_ llm.Observer            = (*Metrics)(nil)
)

// NewMetrics registers collectors with reg, reusing collectors that are
// already registered under the same name. A nil reg uses the default
// registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		useCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "use_cases_total",
			Help:      "Service use cases by name and outcome.",
		}, []string{"use_case", "outcome"}),
		useCaseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "use_case_duration_seconds",
			Help:      "Latency of service use cases.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
		checkIns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "check_ins_total",
			Help:      "Recorded check-ins by subject kind and source.",
		}, []string{"subject", "source"}),
		crossings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_changes_total",
			Help:      "Check-ins that moved an item to a different status label.",
		}, []string{"subject", "status"}),
		objectives: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dashboard_objectives",
			Help:      "Objectives per status label in the most recent dashboard.",
		}, []string{"status"}),
		llmCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "calls_total",
			Help:      "LLM calls by task and outcome.",
		}, []string{"task", "outcome"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "call_duration_seconds",
			Help:      "Latency of LLM calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"task"}),
	}

	var err error
	if m.useCases, err = register(reg, m.useCases); err != nil {
		return nil, err
	}
	if m.useCaseDuration, err = register(reg, m.useCaseDuration); err != nil {
		return nil, err
	}
	if m.checkIns, err = register(reg, m.checkIns); err != nil {
		return nil, err
	}
	if m.crossings, err = register(reg, m.crossings); err != nil {
		return nil, err
	}
	if m.objectives, err = register(reg, m.objectives); err != nil {
		return nil, err
	}
	if m.llmCalls, err = register(reg, m.llmCalls); err != nil {
		return nil, err
	}
	if m.llmLatency, err = register(reg, m.llmLatency); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("registering collector: %w", err)
	}
	return c, nil
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

func (m *Metrics) ObserveUseCase(_ context.Context, event service.UseCaseEvent) {
	if m == nil {
		return
	}
	m.useCases.WithLabelValues(event.Name, outcome(event.Success)).Inc()
	m.useCaseDuration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())
	if !event.Success {
		return
	}

	switch event.Name {
	case "check-in":
		subject := field(event.Fields, "subject")
		m.checkIns.WithLabelValues(subject, field(event.Fields, "source")).Inc()
		if crossed, _ := event.Fields["crossed"].(bool); crossed {
			m.crossings.WithLabelValues(subject, field(event.Fields, "status")).Inc()
		}
	case "get-dashboard":
		for _, st := range domain.ProgressStatuses {
			if n, ok := event.Fields["count_"+string(st)].(int); ok {
				m.objectives.WithLabelValues(string(st)).Set(float64(n))
			}
		}
	}
}

func (m *Metrics) OnCallComplete(event llm.CallEvent) {
	if m == nil {
		return
	}
	task := string(event.Task)
	m.llmCalls.WithLabelValues(task, outcome(event.Success)).Inc()
	m.llmLatency.WithLabelValues(task).Observe(float64(event.LatencyMs) / 1000)
}

func field(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// Handler serves the metrics in g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
