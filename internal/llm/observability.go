package llm

import (
	"log/slog"
)

// CallEvent describes one Generate call, retries included.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives call events for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver logs each call as an llm_call record.
func NewLogObserver(logger *slog.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger}
}

func (o *logObserver) OnCallComplete(e CallEvent) {
	attrs := []any{"task", string(e.Task), "model", e.Model, "latency_ms", e.LatencyMs}
	if !e.Success {
		o.logger.Warn("llm_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", attrs...)
}

type observers []Observer

// Observers fans events out to every non-nil observer.
func Observers(list ...Observer) Observer {
	var out observers
	for _, o := range list {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return NoopObserver{}
	}
	return out
}

func (os observers) OnCallComplete(e CallEvent) {
	for _, o := range os {
		o.OnCallComplete(e)
	}
}
