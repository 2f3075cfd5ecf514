package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/google/uuid"
)

type objectiveService struct {
	objectives repository.ObjectiveRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewObjectiveService(objectives repository.ObjectiveRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ObjectiveService {
	return &objectiveService{
		objectives: objectives,
		uow:        uow,
		observer:   NewMultiUseCaseObserver(observers...),
	}
}

func (s *objectiveService) Create(ctx context.Context, o *domain.Objective) (err error) {
	defer observe(ctx, s.observer, "create-objective", time.Now(), map[string]any{"short_id": o.ShortID}, &err)

	if strings.TrimSpace(o.Title) == "" {
		return invalid("title", "is required")
	}
	o.ShortID = strings.ToUpper(strings.TrimSpace(o.ShortID))
	if err := o.ValidateShortID(); err != nil {
		return invalid("short_id", "%v", err)
	}
	if _, err := s.objectives.GetByShortID(ctx, o.ShortID); err == nil {
		return fmt.Errorf("%w: short ID %s is already in use", ErrConflict, o.ShortID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if o.ParentID != nil {
		if _, err := s.objectives.GetByID(ctx, *o.ParentID); err != nil {
			return fmt.Errorf("parent objective: %w", err)
		}
	}

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now
	if o.Status == "" {
		o.Status = domain.ObjectiveActive
	}
	if o.StartDate.IsZero() {
		o.StartDate = now.Truncate(24 * time.Hour)
	}
	return s.objectives.Create(ctx, o)
}

func (s *objectiveService) GetByID(ctx context.Context, id string) (*domain.Objective, error) {
	return s.objectives.GetByID(ctx, id)
}

func (s *objectiveService) Resolve(ctx context.Context, ref string) (*domain.Objective, error) {
	return resolveObjective(ctx, s.objectives, ref)
}

func resolveObjective(ctx context.Context, objectives repository.ObjectiveRepo, ref string) (*domain.Objective, error) {
	ref = strings.TrimSpace(ref)
	o, err := objectives.GetByShortID(ctx, ref)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	id, err := objectives.ResolveID(ctx, ref)
	if err != nil {
		return nil, err
	}
	return objectives.GetByID(ctx, id)
}

func (s *objectiveService) List(ctx context.Context, includeArchived bool) ([]*domain.Objective, error) {
	return s.objectives.List(ctx, includeArchived)
}

func (s *objectiveService) ListChildren(ctx context.Context, parentID string) ([]*domain.Objective, error) {
	return s.objectives.ListChildren(ctx, parentID)
}

func (s *objectiveService) Update(ctx context.Context, o *domain.Objective) (err error) {
	defer observe(ctx, s.observer, "update-objective", time.Now(), map[string]any{"objective_id": o.ID}, &err)

	if strings.TrimSpace(o.Title) == "" {
		return invalid("title", "is required")
	}
	o.ShortID = strings.ToUpper(strings.TrimSpace(o.ShortID))
	if err := o.ValidateShortID(); err != nil {
		return invalid("short_id", "%v", err)
	}
	if !domain.ValidObjectiveStatuses[string(o.Status)] {
		return invalid("status", "unknown objective status %q", o.Status)
	}
	if existing, err := s.objectives.GetByShortID(ctx, o.ShortID); err == nil && existing.ID != o.ID {
		return fmt.Errorf("%w: short ID %s is already in use", ErrConflict, o.ShortID)
	}
	if o.ParentID != nil {
		if err := s.checkParent(ctx, o.ID, *o.ParentID); err != nil {
			return err
		}
	}
	o.UpdatedAt = time.Now().UTC()
	return s.objectives.Update(ctx, o)
}

// checkParent rejects a parent that is the objective itself or one of its
// descendants.
func (s *objectiveService) checkParent(ctx context.Context, id, parentID string) error {
	seen := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == id {
			return invalid("parent_id", "objective cannot be nested under itself")
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		p, err := s.objectives.GetByID(ctx, cur)
		if err != nil {
			return fmt.Errorf("parent objective: %w", err)
		}
		if p.ParentID == nil {
			break
		}
		cur = *p.ParentID
	}
	return nil
}

func (s *objectiveService) Archive(ctx context.Context, id string) error {
	return s.objectives.Archive(ctx, id)
}

func (s *objectiveService) Unarchive(ctx context.Context, id string) error {
	return s.objectives.Unarchive(ctx, id)
}

// Delete removes an archived objective and its whole subtree. force skips
// the archived check.
func (s *objectiveService) Delete(ctx context.Context, id string, force bool) (err error) {
	defer observe(ctx, s.observer, "delete-objective", time.Now(), map[string]any{"objective_id": id, "force": force}, &err)

	if !force {
		o, err := s.objectives.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.IsArchived() {
			return fmt.Errorf("%w: objective must be archived before deletion (use --force to override)", ErrConflict)
		}
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteObjectiveRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		_, err := repository.NewSQLiteCheckInRepo(tx).PruneOrphans(ctx)
		return err
	})
}
