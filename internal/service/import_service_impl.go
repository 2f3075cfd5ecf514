package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/importer"
	"github.com/alexanderramin/okra/internal/repository"
)

type importService struct {
	objectives repository.ObjectiveRepo
	uow        db.UnitOfWork
	observer   UseCaseObserver
}

func NewImportService(objectives repository.ObjectiveRepo, uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{objectives: objectives, uow: uow, observer: NewMultiUseCaseObserver(observers...)}
}

func (s *importService) ImportFile(ctx context.Context, filePath string) (*contract.ImportResult, error) {
	doc, err := importer.LoadDocument(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", filePath, err)
	}
	return s.ImportDocument(ctx, doc)
}

// ImportDocument validates the whole document, then writes it in a single
// transaction. Nothing is written when any part fails.
func (s *importService) ImportDocument(ctx context.Context, doc *importer.Document) (res *contract.ImportResult, err error) {
	fields := map[string]any{"objectives": len(doc.Objectives)}
	defer observe(ctx, s.observer, "import-document", time.Now(), fields, &err)

	if errs := importer.ValidateDocument(doc); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	for _, o := range doc.Objectives {
		if o.ShortID == "" {
			continue
		}
		if _, err := s.objectives.GetByShortID(ctx, o.ShortID); err == nil {
			return nil, fmt.Errorf("%w: short ID %s already exists", ErrConflict, o.ShortID)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	conv, err := importer.Convert(doc, time.Now())
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		objRepo := repository.NewSQLiteObjectiveRepo(tx)
		for _, o := range conv.Objectives {
			if err := objRepo.Create(ctx, o); err != nil {
				return fmt.Errorf("creating objective %s: %w", o.DisplayID(), err)
			}
		}
		krRepo := repository.NewSQLiteKeyResultRepo(tx)
		for _, kr := range conv.KeyResults {
			if err := krRepo.Create(ctx, kr); err != nil {
				return fmt.Errorf("creating key result %q: %w", kr.Title, err)
			}
		}
		initRepo := repository.NewSQLiteInitiativeRepo(tx)
		for _, in := range conv.Initiatives {
			if err := initRepo.Create(ctx, in); err != nil {
				return fmt.Errorf("creating initiative %q: %w", in.Title, err)
			}
		}
		taskRepo := repository.NewSQLiteTaskRepo(tx)
		for _, t := range conv.Tasks {
			if err := taskRepo.Create(ctx, t); err != nil {
				return fmt.Errorf("creating task %q: %w", t.Title, err)
			}
		}
		metricRepo := repository.NewSQLiteSuccessMetricRepo(tx)
		for _, m := range conv.Metrics {
			if err := metricRepo.Create(ctx, m); err != nil {
				return fmt.Errorf("creating success metric %q: %w", m.Title, err)
			}
		}
		ciRepo := repository.NewSQLiteCheckInRepo(tx)
		for _, c := range conv.CheckIns {
			if err := ciRepo.Create(ctx, c); err != nil {
				return fmt.Errorf("recording imported value: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res = &contract.ImportResult{
		Objectives:  len(conv.Objectives),
		KeyResults:  len(conv.KeyResults),
		Initiatives: len(conv.Initiatives),
		Tasks:       len(conv.Tasks),
		Metrics:     len(conv.Metrics),
	}
	for _, o := range conv.Objectives {
		res.ObjectiveIDs = append(res.ObjectiveIDs, o.ID)
	}
	fields["key_results"] = res.KeyResults
	return res, nil
}
