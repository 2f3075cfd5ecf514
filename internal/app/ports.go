package app

import (
	"context"

	"github.com/alexanderramin/okra/internal/importer"
)

type DashboardUseCase interface {
	GetDashboard(ctx context.Context, req DashboardRequest) (*DashboardResponse, error)
}

type PreviewUseCase interface {
	Preview(ctx context.Context, req PreviewRequest) (*PreviewResponse, error)
}

type CheckInUseCase interface {
	CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error)
}

type SuggestUseCase interface {
	Suggest(ctx context.Context, keyResultID string) (*SuggestionResponse, error)
}

type ImportResult struct {
	ObjectiveIDs []string `json:"objective_ids"`
	Objectives   int      `json:"objectives"`
	KeyResults   int      `json:"key_results"`
	Initiatives  int      `json:"initiatives"`
	Tasks        int      `json:"tasks"`
	Metrics      int      `json:"success_metrics"`
}

type ImportUseCase interface {
	ImportFile(ctx context.Context, filePath string) (*ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*ImportResult, error)
}
