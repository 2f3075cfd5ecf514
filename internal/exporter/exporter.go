// Package exporter writes the dashboard tree as an OKR document that the
// importer can read back, with computed progress attached at every level.
package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/importer"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is written to every exported document.
const DocumentVersion = 1

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name or a file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "", "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported export format %q (want yaml, toml or json)", s)
}

// FromDashboard converts a dashboard response into a document. Parent
// links are written as parent_ref only when the parent is part of the
// export; nested children are flattened after their parent.
func FromDashboard(resp *app.DashboardResponse) *importer.Document {
	doc := &importer.Document{
		Version:     DocumentVersion,
		GeneratedAt: resp.Summary.GeneratedAt.UTC().Format(time.RFC3339),
	}
	handles := map[string]string{}
	resp.Walk(func(o *app.ObjectiveView, _ int) {
		handles[o.ID] = o.ShortID
	})
	resp.Walk(func(o *app.ObjectiveView, _ int) {
		od := importer.ObjectiveDoc{
			ShortID:  o.ShortID,
			Title:    o.Title,
			Owner:    o.Owner,
			Period:   o.Period,
			Status:   string(o.Status),
			Progress: progressDoc(o.Progress),
		}
		if o.TargetDate != nil {
			od.TargetDate = *o.TargetDate
		}
		if o.ParentID != nil {
			od.ParentRef = handles[*o.ParentID]
		}
		for _, kr := range o.KeyResults {
			od.KeyResults = append(od.KeyResults, keyResultDoc(kr))
		}
		doc.Objectives = append(doc.Objectives, od)
	})
	return doc
}

func keyResultDoc(kr app.KeyResultView) importer.KeyResultDoc {
	d := importer.KeyResultDoc{
		Title:    kr.Title,
		Type:     string(kr.Measure.Type),
		Unit:     string(kr.Measure.Unit),
		Base:     value(kr.Measure.BaseValue),
		Current:  value(kr.Measure.CurrentValue),
		Target:   kr.Measure.TargetValue,
		Progress: progressDoc(kr.Progress),
	}
	for _, in := range kr.Initiatives {
		d.Initiatives = append(d.Initiatives, initiativeDoc(in))
	}
	return d
}

func initiativeDoc(in app.InitiativeView) importer.InitiativeDoc {
	d := importer.InitiativeDoc{
		Title:    in.Title,
		Status:   string(in.Status),
		Progress: progressDoc(in.Progress),
	}
	if in.DueDate != nil {
		d.DueDate = *in.DueDate
	}
	for _, t := range in.Tasks {
		d.Tasks = append(d.Tasks, importer.TaskDoc{Title: t.Title, Done: t.Done})
	}
	for _, m := range in.Metrics {
		d.SuccessMetrics = append(d.SuccessMetrics, importer.SuccessMetricDoc{
			Title:    m.Title,
			Type:     string(m.Measure.Type),
			Unit:     string(m.Measure.Unit),
			Base:     value(m.Measure.BaseValue),
			Current:  value(m.Measure.CurrentValue),
			Target:   m.Measure.TargetValue,
			Progress: progressDoc(m.Progress),
		})
	}
	return d
}

// value unwraps v so encoders see a plain number or an untyped nil.
func value(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func progressDoc(p app.ProgressView) *importer.ProgressDoc {
	return &importer.ProgressDoc{Percentage: p.Percentage, Status: string(p.Status)}
}

// Encode writes doc to w in format.
func Encode(w io.Writer, doc *importer.Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported export format %q", format)
}
