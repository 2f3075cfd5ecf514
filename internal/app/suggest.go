package app

import "github.com/alexanderramin/okra/internal/domain"

type SuggestionSource string

const (
	SuggestionFromLLM   SuggestionSource = "llm"
	SuggestionFromRules SuggestionSource = "rules"
)

type Suggestion struct {
	Title     string `json:"title"`
	Rationale string `json:"rationale"`
}

type SuggestionResponse struct {
	KeyResultID string                `json:"key_result_id"`
	Title       string                `json:"title"`
	Percentage  float64               `json:"percentage"`
	Status      domain.ProgressStatus `json:"status"`
	Suggestions []Suggestion          `json:"suggestions"`
	Source      SuggestionSource      `json:"source"`
	Cached      bool                  `json:"cached"`
}
