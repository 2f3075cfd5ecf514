package app

import "github.com/alexanderramin/okra/internal/domain"

// PreviewRequest mirrors an unsaved edit form: numbers may still be strings
// or empty.
type PreviewRequest struct {
	Type       string `json:"type"`
	Base       any    `json:"base_value"`
	Current    any    `json:"current_value"`
	Target     any    `json:"target_value"`
	Unit       string `json:"unit"`
	HasUpdates bool   `json:"has_updates"`
}

type PreviewResponse struct {
	Percentage float64               `json:"percentage"`
	Status     domain.ProgressStatus `json:"status"`
	Formatted  string                `json:"formatted"`
	Current    string                `json:"current"`
	Target     string                `json:"target"`
	KnownType  bool                  `json:"known_type"`
}
