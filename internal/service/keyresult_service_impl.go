package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/google/uuid"
)

type keyResultService struct {
	keyResults repository.KeyResultRepo
	objectives repository.ObjectiveRepo
	checkIns   repository.CheckInRepo
	uow        db.UnitOfWork
	calc       progress.Calculator
	observer   UseCaseObserver
}

func NewKeyResultService(
	keyResults repository.KeyResultRepo,
	objectives repository.ObjectiveRepo,
	checkIns repository.CheckInRepo,
	uow db.UnitOfWork,
	calc progress.Calculator,
	observers ...UseCaseObserver,
) KeyResultService {
	return &keyResultService{
		keyResults: keyResults,
		objectives: objectives,
		checkIns:   checkIns,
		uow:        uow,
		calc:       calc,
		observer:   NewMultiUseCaseObserver(observers...),
	}
}

func (s *keyResultService) Create(ctx context.Context, kr *domain.KeyResult) (err error) {
	defer observe(ctx, s.observer, "create-key-result", time.Now(), map[string]any{"objective_id": kr.ObjectiveID}, &err)

	if err := requireTitle(kr.Title); err != nil {
		return err
	}
	if err := normalizeMeasure(&kr.Measure); err != nil {
		return err
	}
	if _, err := s.objectives.GetByID(ctx, kr.ObjectiveID); err != nil {
		return fmt.Errorf("objective: %w", err)
	}
	existing, err := s.keyResults.ListByObjective(ctx, kr.ObjectiveID)
	if err != nil {
		return err
	}
	if kr.OrderIndex == 0 {
		kr.OrderIndex = len(existing) + 1
	}
	if kr.ID == "" {
		kr.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	kr.CreatedAt = now
	kr.UpdatedAt = now
	return s.keyResults.Create(ctx, kr)
}

func (s *keyResultService) GetByID(ctx context.Context, id string) (*domain.KeyResult, error) {
	return s.keyResults.GetByID(ctx, id)
}

func (s *keyResultService) Resolve(ctx context.Context, ref string) (*domain.KeyResult, error) {
	ref = strings.TrimSpace(ref)
	if objRef, idx, ok := strings.Cut(ref, "/"); ok {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 1 {
			return nil, invalid("key_result", "%q: expected OBJECTIVE/N with N >= 1", ref)
		}
		obj, err := s.objectives.GetByShortID(ctx, objRef)
		if err != nil {
			return nil, err
		}
		list, err := s.keyResults.ListByObjective(ctx, obj.ID)
		if err != nil {
			return nil, err
		}
		if n > len(list) {
			return nil, fmt.Errorf("key result %s: %w", ref, repository.ErrNotFound)
		}
		return list[n-1], nil
	}
	id, err := s.keyResults.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.keyResults.GetByID(ctx, id)
}

func (s *keyResultService) List(ctx context.Context) ([]*domain.KeyResult, error) {
	return s.keyResults.List(ctx)
}

func (s *keyResultService) ListByObjective(ctx context.Context, objectiveID string) ([]*domain.KeyResult, error) {
	return s.keyResults.ListByObjective(ctx, objectiveID)
}

// Update saves definitional changes. The current value and check-in time
// only move through CheckIn, so the stored ones are kept.
func (s *keyResultService) Update(ctx context.Context, kr *domain.KeyResult) (err error) {
	defer observe(ctx, s.observer, "update-key-result", time.Now(), map[string]any{"key_result_id": kr.ID}, &err)

	if err := requireTitle(kr.Title); err != nil {
		return err
	}
	if err := normalizeMeasure(&kr.Measure); err != nil {
		return err
	}
	stored, err := s.keyResults.GetByID(ctx, kr.ID)
	if err != nil {
		return err
	}
	kr.CurrentValue = stored.CurrentValue
	kr.LastCheckInAt = stored.LastCheckInAt
	kr.UpdatedAt = time.Now().UTC()
	return s.keyResults.Update(ctx, kr)
}

func (s *keyResultService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-key-result", time.Now(), map[string]any{"key_result_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteKeyResultRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		_, err := repository.NewSQLiteCheckInRepo(tx).PruneOrphans(ctx)
		return err
	})
}

func (s *keyResultService) CheckIn(ctx context.Context, req contract.CheckInRequest) (res *contract.CheckInResult, err error) {
	fields := checkInFields(domain.SubjectKeyResult, req)
	defer observe(ctx, s.observer, "check-in", time.Now(), fields, &err)

	res, err = recordCheckIn(ctx, s.uow, s.calc, domain.SubjectKeyResult, req,
		func(ctx context.Context, tx db.DBTX) (measured, error) {
			kr, err := repository.NewSQLiteKeyResultRepo(tx).GetByID(ctx, req.SubjectID)
			if err != nil {
				return nil, err
			}
			return keyResultMeasured{kr: kr}, nil
		})
	if err == nil {
		fields["status"] = string(res.Progress.Status)
		fields["crossed"] = res.Crossed()
	}
	return res, err
}

func (s *keyResultService) History(ctx context.Context, id string, limit int) ([]*domain.CheckIn, error) {
	return s.checkIns.ListBySubject(ctx, domain.SubjectKeyResult, id, limit)
}
