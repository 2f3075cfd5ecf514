package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/google/uuid"
)

type successMetricService struct {
	metrics     repository.SuccessMetricRepo
	initiatives repository.InitiativeRepo
	checkIns    repository.CheckInRepo
	uow         db.UnitOfWork
	calc        progress.Calculator
	observer    UseCaseObserver
}

func NewSuccessMetricService(
	metrics repository.SuccessMetricRepo,
	initiatives repository.InitiativeRepo,
	checkIns repository.CheckInRepo,
	uow db.UnitOfWork,
	calc progress.Calculator,
	observers ...UseCaseObserver,
) SuccessMetricService {
	return &successMetricService{
		metrics:     metrics,
		initiatives: initiatives,
		checkIns:    checkIns,
		uow:         uow,
		calc:        calc,
		observer:    NewMultiUseCaseObserver(observers...),
	}
}

func (s *successMetricService) Create(ctx context.Context, m *domain.SuccessMetric) (err error) {
	defer observe(ctx, s.observer, "create-success-metric", time.Now(), map[string]any{"initiative_id": m.InitiativeID}, &err)

	if err := requireTitle(m.Title); err != nil {
		return err
	}
	if err := normalizeMeasure(&m.Measure); err != nil {
		return err
	}
	if _, err := s.initiatives.GetByID(ctx, m.InitiativeID); err != nil {
		return fmt.Errorf("initiative: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	return s.metrics.Create(ctx, m)
}

func (s *successMetricService) GetByID(ctx context.Context, id string) (*domain.SuccessMetric, error) {
	return s.metrics.GetByID(ctx, id)
}

func (s *successMetricService) Resolve(ctx context.Context, ref string) (*domain.SuccessMetric, error) {
	id, err := s.metrics.ResolveID(ctx, strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	return s.metrics.GetByID(ctx, id)
}

func (s *successMetricService) ListByInitiative(ctx context.Context, initiativeID string) ([]*domain.SuccessMetric, error) {
	return s.metrics.ListByInitiative(ctx, initiativeID)
}

func (s *successMetricService) Update(ctx context.Context, m *domain.SuccessMetric) (err error) {
	defer observe(ctx, s.observer, "update-success-metric", time.Now(), map[string]any{"metric_id": m.ID}, &err)

	if err := requireTitle(m.Title); err != nil {
		return err
	}
	if err := normalizeMeasure(&m.Measure); err != nil {
		return err
	}
	stored, err := s.metrics.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	m.CurrentValue = stored.CurrentValue
	m.LastCheckInAt = stored.LastCheckInAt
	m.UpdatedAt = time.Now().UTC()
	return s.metrics.Update(ctx, m)
}

func (s *successMetricService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-success-metric", time.Now(), map[string]any{"metric_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSuccessMetricRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		_, err := repository.NewSQLiteCheckInRepo(tx).PruneOrphans(ctx)
		return err
	})
}

func (s *successMetricService) CheckIn(ctx context.Context, req contract.CheckInRequest) (res *contract.CheckInResult, err error) {
	fields := checkInFields(domain.SubjectSuccessMetric, req)
	defer observe(ctx, s.observer, "check-in", time.Now(), fields, &err)

	res, err = recordCheckIn(ctx, s.uow, s.calc, domain.SubjectSuccessMetric, req,
		func(ctx context.Context, tx db.DBTX) (measured, error) {
			m, err := repository.NewSQLiteSuccessMetricRepo(tx).GetByID(ctx, req.SubjectID)
			if err != nil {
				return nil, err
			}
			return metricMeasured{m: m}, nil
		})
	if err == nil {
		fields["status"] = string(res.Progress.Status)
		fields["crossed"] = res.Crossed()
	}
	return res, err
}

func (s *successMetricService) History(ctx context.Context, id string, limit int) ([]*domain.CheckIn, error) {
	return s.checkIns.ListBySubject(ctx, domain.SubjectSuccessMetric, id, limit)
}
