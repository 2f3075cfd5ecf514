package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the OKR import/export file. Numeric measure fields are typed
// any so hand-written files may use numbers or quoted strings. Progress
// blocks are written by export and ignored on import.
type Document struct {
	Version     int            `json:"version,omitempty" yaml:"version,omitempty" toml:"version,omitempty"`
	GeneratedAt string         `json:"generated_at,omitempty" yaml:"generated_at,omitempty" toml:"generated_at,omitempty"`
	Objectives  []ObjectiveDoc `json:"objectives" yaml:"objectives" toml:"objectives"`
}

// ObjectiveDoc defines an objective. Ref is a document-local handle used by
// ParentRef; it defaults to ShortID.
type ObjectiveDoc struct {
	Ref         string         `json:"ref,omitempty" yaml:"ref,omitempty" toml:"ref,omitempty"`
	ParentRef   string         `json:"parent_ref,omitempty" yaml:"parent_ref,omitempty" toml:"parent_ref,omitempty"`
	ShortID     string         `json:"short_id" yaml:"short_id" toml:"short_id"`
	Title       string         `json:"title" yaml:"title" toml:"title"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Owner       string         `json:"owner,omitempty" yaml:"owner,omitempty" toml:"owner,omitempty"`
	Period      string         `json:"period,omitempty" yaml:"period,omitempty" toml:"period,omitempty"`
	Status      string         `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	StartDate   string         `json:"start_date,omitempty" yaml:"start_date,omitempty" toml:"start_date,omitempty"`
	TargetDate  string         `json:"target_date,omitempty" yaml:"target_date,omitempty" toml:"target_date,omitempty"`
	KeyResults  []KeyResultDoc `json:"key_results,omitempty" yaml:"key_results,omitempty" toml:"key_results,omitempty"`
	Progress    *ProgressDoc   `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
}

func (o *ObjectiveDoc) handle() string {
	if o.Ref != "" {
		return o.Ref
	}
	return strings.ToUpper(o.ShortID)
}

type KeyResultDoc struct {
	Title       string          `json:"title" yaml:"title" toml:"title"`
	Type        string          `json:"type" yaml:"type" toml:"type"`
	Unit        string          `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
	Base        any             `json:"base_value,omitempty" yaml:"base_value,omitempty" toml:"base_value,omitempty"`
	Current     any             `json:"current_value,omitempty" yaml:"current_value,omitempty" toml:"current_value,omitempty"`
	Target      any             `json:"target_value" yaml:"target_value" toml:"target_value"`
	Initiatives []InitiativeDoc `json:"initiatives,omitempty" yaml:"initiatives,omitempty" toml:"initiatives,omitempty"`
	Progress    *ProgressDoc    `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
}

type InitiativeDoc struct {
	Title          string             `json:"title" yaml:"title" toml:"title"`
	Description    string             `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Status         string             `json:"status,omitempty" yaml:"status,omitempty" toml:"status,omitempty"`
	DueDate        string             `json:"due_date,omitempty" yaml:"due_date,omitempty" toml:"due_date,omitempty"`
	Tasks          []TaskDoc          `json:"tasks,omitempty" yaml:"tasks,omitempty" toml:"tasks,omitempty"`
	SuccessMetrics []SuccessMetricDoc `json:"success_metrics,omitempty" yaml:"success_metrics,omitempty" toml:"success_metrics,omitempty"`
	Progress       *ProgressDoc       `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
}

type TaskDoc struct {
	Title string `json:"title" yaml:"title" toml:"title"`
	Done  bool   `json:"done,omitempty" yaml:"done,omitempty" toml:"done,omitempty"`
}

type SuccessMetricDoc struct {
	Title    string       `json:"title" yaml:"title" toml:"title"`
	Type     string       `json:"type" yaml:"type" toml:"type"`
	Unit     string       `json:"unit,omitempty" yaml:"unit,omitempty" toml:"unit,omitempty"`
	Base     any          `json:"base_value,omitempty" yaml:"base_value,omitempty" toml:"base_value,omitempty"`
	Current  any          `json:"current_value,omitempty" yaml:"current_value,omitempty" toml:"current_value,omitempty"`
	Target   any          `json:"target_value" yaml:"target_value" toml:"target_value"`
	Progress *ProgressDoc `json:"progress,omitempty" yaml:"progress,omitempty" toml:"progress,omitempty"`
}

// ProgressDoc is the computed progress written on export.
type ProgressDoc struct {
	Percentage float64 `json:"percentage" yaml:"percentage" toml:"percentage"`
	Status     string  `json:"status" yaml:"status" toml:"status"`
}

// LoadDocument reads and parses an OKR document. Files ending in .json are
// parsed as JSON, everything else as YAML.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &doc, nil
}

func ParseJSON(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &doc, nil
}
