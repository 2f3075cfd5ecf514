package repository

import (
	"context"

	"github.com/alexanderramin/okra/internal/domain"
)

type ObjectiveRepo interface {
	// ResolveID accepts a full UUID or a unique prefix of at least four
	// characters.
	ResolveID(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, o *domain.Objective) error
	GetByID(ctx context.Context, id string) (*domain.Objective, error)
	GetByShortID(ctx context.Context, shortID string) (*domain.Objective, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Objective, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.Objective, error)
	Update(ctx context.Context, o *domain.Objective) error
	Archive(ctx context.Context, id string) error
	Unarchive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type KeyResultRepo interface {
	ResolveID(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, kr *domain.KeyResult) error
	GetByID(ctx context.Context, id string) (*domain.KeyResult, error)
	List(ctx context.Context) ([]*domain.KeyResult, error)
	ListByObjective(ctx context.Context, objectiveID string) ([]*domain.KeyResult, error)
	Update(ctx context.Context, kr *domain.KeyResult) error
	Delete(ctx context.Context, id string) error
}

type InitiativeRepo interface {
	ResolveID(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, i *domain.Initiative) error
	GetByID(ctx context.Context, id string) (*domain.Initiative, error)
	ListByKeyResult(ctx context.Context, keyResultID string) ([]*domain.Initiative, error)
	Update(ctx context.Context, i *domain.Initiative) error
	Delete(ctx context.Context, id string) error
}

type TaskRepo interface {
	ResolveID(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.Task, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
}

type SuccessMetricRepo interface {
	ResolveID(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, m *domain.SuccessMetric) error
	GetByID(ctx context.Context, id string) (*domain.SuccessMetric, error)
	ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.SuccessMetric, error)
	Update(ctx context.Context, m *domain.SuccessMetric) error
	Delete(ctx context.Context, id string) error
}

type CheckInRepo interface {
	Create(ctx context.Context, c *domain.CheckIn) error
	// ListBySubject returns newest first; limit <= 0 means no limit.
	ListBySubject(ctx context.Context, kind domain.CheckInSubject, subjectID string, limit int) ([]*domain.CheckIn, error)
	ListRecent(ctx context.Context, days int) ([]*domain.CheckIn, error)
	CountBySubject(ctx context.Context, kind domain.CheckInSubject, subjectID string) (int, error)
	// PruneOrphans removes check-ins whose subject no longer exists.
	PruneOrphans(ctx context.Context) (int64, error)
}
