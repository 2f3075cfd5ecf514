package service

import (
	"context"
	"io"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/exporter"
	"github.com/alexanderramin/okra/internal/importer"
)

type ObjectiveService interface {
	Create(ctx context.Context, o *domain.Objective) error
	GetByID(ctx context.Context, id string) (*domain.Objective, error)
	// Resolve accepts a short ID, a UUID or a unique UUID prefix.
	Resolve(ctx context.Context, ref string) (*domain.Objective, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Objective, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Objective, error)
	Update(ctx context.Context, o *domain.Objective) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, force bool) error
}

type KeyResultService interface {
	Create(ctx context.Context, kr *domain.KeyResult) error
	GetByID(ctx context.Context, id string) (*domain.KeyResult, error)
	// Resolve accepts a UUID, a unique UUID prefix, or OBJ/N for the Nth
	// key result (1-based) of objective OBJ.
	Resolve(ctx context.Context, ref string) (*domain.KeyResult, error)
	List(ctx context.Context) ([]*domain.KeyResult, error)
	ListByObjective(ctx context.Context, objectiveID string) ([]*domain.KeyResult, error)
	Update(ctx context.Context, kr *domain.KeyResult) error
	Delete(ctx context.Context, id string) error
	CheckIn(ctx context.Context, req contract.CheckInRequest) (*contract.CheckInResult, error)
	History(ctx context.Context, id string, limit int) ([]*domain.CheckIn, error)
}

type InitiativeService interface {
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	Resolve(ctx context.Context, ref string) (*domain.Initiative, error)
	ListByKeyResult(ctx context.Context, keyResultID string) ([]*domain.Initiative, error)
	SetStatus(ctx context.Context, id string, status domain.InitiativeStatus) (*domain.Initiative, error)
	Delete(ctx context.Context, id string) error

	AddTask(ctx context.Context, initiativeID, title string) (*domain.Task, error)
	ResolveTask(ctx context.Context, ref string) (*domain.Task, error)
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)
	ReopenTask(ctx context.Context, id string) (*domain.Task, error)
	ListTasks(ctx context.Context, initiativeID string) ([]*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type SuccessMetricService interface {
	Create(ctx context.Context, m *domain.SuccessMetric) error
	GetByID(ctx context.Context, id string) (*domain.SuccessMetric, error)
	Resolve(ctx context.Context, ref string) (*domain.SuccessMetric, error)
	ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.SuccessMetric, error)
	Update(ctx context.Context, m *domain.SuccessMetric) error
	Delete(ctx context.Context, id string) error
	CheckIn(ctx context.Context, req contract.CheckInRequest) (*contract.CheckInResult, error)
	History(ctx context.Context, id string, limit int) ([]*domain.CheckIn, error)
}

type DashboardService interface {
	GetDashboard(ctx context.Context, req contract.DashboardRequest) (*contract.DashboardResponse, error)
}

type PreviewService interface {
	Preview(ctx context.Context, req contract.PreviewRequest) (*contract.PreviewResponse, error)
}

type ImportService interface {
	ImportFile(ctx context.Context, filePath string) (*contract.ImportResult, error)
	ImportDocument(ctx context.Context, doc *importer.Document) (*contract.ImportResult, error)
}

type ExportService interface {
	Export(ctx context.Context, req contract.DashboardRequest, format exporter.Format, w io.Writer) error
}
