package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/exporter"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/spf13/pflag"
)

// dateValue is a YYYY-MM-DD flag. An explicit empty string clears the date.
type dateValue struct {
	t   **time.Time
	set bool
}

var _ pflag.Value = (*dateValue)(nil)

func newDateValue(t **time.Time) *dateValue {
	return &dateValue{t: t}
}

func (d *dateValue) String() string {
	if d.t == nil || *d.t == nil {
		return ""
	}
	return (*d.t).Format(time.DateOnly)
}

func (d *dateValue) Set(s string) error {
	d.set = true
	s = strings.TrimSpace(s)
	if s == "" {
		*d.t = nil
		return nil
	}
	parsed, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return fmt.Errorf("expected YYYY-MM-DD, got %q", s)
	}
	*d.t = &parsed
	return nil
}

func (d *dateValue) Type() string { return "date" }

// numberValue accepts any numeric string the calculator would read.
type numberValue struct {
	v   **float64
	set bool
}

var _ pflag.Value = (*numberValue)(nil)

func newNumberValue(v **float64) *numberValue {
	return &numberValue{v: v}
}

func (n *numberValue) String() string {
	if n.v == nil || *n.v == nil {
		return ""
	}
	return progress.FormatValue(*n.v, domain.UnitNumber)
}

func (n *numberValue) Set(s string) error {
	n.set = true
	f := progress.OptionalNumber(s)
	if f == nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*n.v = f
	return nil
}

func (n *numberValue) Type() string { return "number" }

// formatValue selects an export document format.
type formatValue struct {
	f *exporter.Format
}

var _ pflag.Value = formatValue{}

func (v formatValue) String() string {
	if v.f == nil {
		return ""
	}
	return string(*v.f)
}

func (v formatValue) Set(s string) error {
	f, err := exporter.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

func (v formatValue) Type() string { return "format" }

// measureFlags are shared by key result and success metric commands.
type measureFlags struct {
	metricType string
	unit       string
	base       *float64
	target     *float64
	baseFlag   *numberValue
	targetFlag *numberValue
}

func (m *measureFlags) register(fs *pflag.FlagSet) {
	m.baseFlag = newNumberValue(&m.base)
	m.targetFlag = newNumberValue(&m.target)
	fs.StringVar(&m.metricType, "type", "", "Metric type: "+metricTypeList())
	fs.StringVar(&m.unit, "unit", "", "Unit: number, percentage or currency")
	fs.Var(m.baseFlag, "base", "Starting value")
	fs.Var(m.targetFlag, "target", "Target value")
}

// applyTo copies the flags that were given onto measure.
func (m *measureFlags) applyTo(fs *pflag.FlagSet, measure *domain.Measure) {
	if fs.Changed("type") {
		measure.Type = domain.MetricType(m.metricType)
	}
	if fs.Changed("unit") {
		measure.Unit = domain.Unit(strings.ToLower(strings.TrimSpace(m.unit)))
	}
	if m.baseFlag.set {
		measure.BaseValue = m.base
	}
	if m.targetFlag.set && m.target != nil {
		measure.TargetValue = *m.target
	}
}

func metricTypeList() string {
	names := make([]string, len(domain.MetricTypes))
	for i, t := range domain.MetricTypes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
