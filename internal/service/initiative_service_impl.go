package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/google/uuid"
)

type initiativeService struct {
	initiatives repository.InitiativeRepo
	keyResults  repository.KeyResultRepo
	tasks       repository.TaskRepo
	uow         db.UnitOfWork
	observer    UseCaseObserver
}

func NewInitiativeService(
	initiatives repository.InitiativeRepo,
	keyResults repository.KeyResultRepo,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) InitiativeService {
	return &initiativeService{
		initiatives: initiatives,
		keyResults:  keyResults,
		tasks:       tasks,
		uow:         uow,
		observer:    NewMultiUseCaseObserver(observers...),
	}
}

func (s *initiativeService) Create(ctx context.Context, i *domain.Initiative) (err error) {
	defer observe(ctx, s.observer, "create-initiative", time.Now(), map[string]any{"key_result_id": i.KeyResultID}, &err)

	if err := requireTitle(i.Title); err != nil {
		return err
	}
	if i.Status == "" {
		i.Status = domain.InitiativePlanned
	}
	if !i.Status.Valid() {
		return invalid("status", "unknown initiative status %q", i.Status)
	}
	if _, err := s.keyResults.GetByID(ctx, i.KeyResultID); err != nil {
		return fmt.Errorf("key result: %w", err)
	}
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	i.CreatedAt = now
	i.UpdatedAt = now
	return s.initiatives.Create(ctx, i)
}

func (s *initiativeService) GetByID(ctx context.Context, id string) (*domain.Initiative, error) {
	return s.initiatives.GetByID(ctx, id)
}

func (s *initiativeService) Resolve(ctx context.Context, ref string) (*domain.Initiative, error) {
	id, err := s.initiatives.ResolveID(ctx, strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	return s.initiatives.GetByID(ctx, id)
}

func (s *initiativeService) ListByKeyResult(ctx context.Context, keyResultID string) ([]*domain.Initiative, error) {
	return s.initiatives.ListByKeyResult(ctx, keyResultID)
}

func (s *initiativeService) SetStatus(ctx context.Context, id string, status domain.InitiativeStatus) (i *domain.Initiative, err error) {
	defer observe(ctx, s.observer, "set-initiative-status", time.Now(), map[string]any{"initiative_id": id, "status": string(status)}, &err)

	i, err = s.initiatives.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := i.Transition(status, time.Now().UTC()); err != nil {
		return nil, invalid("status", "%v", err)
	}
	if err := s.initiatives.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *initiativeService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-initiative", time.Now(), map[string]any{"initiative_id": id}, &err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteInitiativeRepo(tx).Delete(ctx, id); err != nil {
			return err
		}
		_, err := repository.NewSQLiteCheckInRepo(tx).PruneOrphans(ctx)
		return err
	})
}

func (s *initiativeService) AddTask(ctx context.Context, initiativeID, title string) (t *domain.Task, err error) {
	defer observe(ctx, s.observer, "add-task", time.Now(), map[string]any{"initiative_id": initiativeID}, &err)

	if err := requireTitle(title); err != nil {
		return nil, err
	}
	if _, err := s.initiatives.GetByID(ctx, initiativeID); err != nil {
		return nil, fmt.Errorf("initiative: %w", err)
	}
	now := time.Now().UTC()
	t = &domain.Task{
		ID:           uuid.New().String(),
		InitiativeID: initiativeID,
		Title:        strings.TrimSpace(title),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *initiativeService) ResolveTask(ctx context.Context, ref string) (*domain.Task, error) {
	id, err := s.tasks.ResolveID(ctx, strings.TrimSpace(ref))
	if err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, id)
}

func (s *initiativeService) CompleteTask(ctx context.Context, id string) (t *domain.Task, err error) {
	defer observe(ctx, s.observer, "complete-task", time.Now(), map[string]any{"task_id": id}, &err)

	t, err = s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Complete(time.Now().UTC())
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *initiativeService) ReopenTask(ctx context.Context, id string) (t *domain.Task, err error) {
	defer observe(ctx, s.observer, "reopen-task", time.Now(), map[string]any{"task_id": id}, &err)

	t, err = s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := t.Reopen(time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *initiativeService) ListTasks(ctx context.Context, initiativeID string) ([]*domain.Task, error) {
	return s.tasks.ListByInitiative(ctx, initiativeID)
}

func (s *initiativeService) DeleteTask(ctx context.Context, id string) error {
	return s.tasks.Delete(ctx, id)
}
