package service

import (
	"context"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/db"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/repository"
	"github.com/google/uuid"
)

// measured is loaded and saved inside a check-in transaction.
type measured interface {
	measure() *domain.Measure
	save(ctx context.Context, tx db.DBTX) error
}

type keyResultMeasured struct{ kr *domain.KeyResult }

func (k keyResultMeasured) measure() *domain.Measure { return &k.kr.Measure }

func (k keyResultMeasured) save(ctx context.Context, tx db.DBTX) error {
	return repository.NewSQLiteKeyResultRepo(tx).Update(ctx, k.kr)
}

type metricMeasured struct{ m *domain.SuccessMetric }

func (s metricMeasured) measure() *domain.Measure { return &s.m.Measure }

func (s metricMeasured) save(ctx context.Context, tx db.DBTX) error {
	return repository.NewSQLiteSuccessMetricRepo(tx).Update(ctx, s.m)
}

// recordCheckIn applies a check-in to the item load returns, persists the
// item and the check-in row in one transaction, and reports the progress
// before and after.
func recordCheckIn(
	ctx context.Context,
	uow db.UnitOfWork,
	calc progress.Calculator,
	kind domain.CheckInSubject,
	req contract.CheckInRequest,
	load func(ctx context.Context, tx db.DBTX) (measured, error),
) (*contract.CheckInResult, error) {
	value, err := checkInValue(req.Value)
	if err != nil {
		return nil, err
	}
	now := nowOr(req.Now)

	var result *contract.CheckInResult
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		item, err := load(ctx, tx)
		if err != nil {
			return err
		}
		m := item.measure()
		before := calc.Measure(*m)

		prev := m.ApplyCheckIn(value, now)
		if err := item.save(ctx, tx); err != nil {
			return err
		}

		ci := &domain.CheckIn{
			ID:            uuid.New().String(),
			SubjectKind:   kind,
			SubjectID:     req.SubjectID,
			PreviousValue: prev,
			Value:         value,
			Note:          req.Note,
			Source:        domain.CoalesceStr(req.Source, "cli"),
			CreatedAt:     now,
		}
		if err := repository.NewSQLiteCheckInRepo(tx).Create(ctx, ci); err != nil {
			return err
		}

		result = &contract.CheckInResult{
			CheckIn:  ci,
			Before:   app.NewProgressView(before),
			Progress: app.NewProgressView(calc.Measure(*m)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func checkInFields(kind domain.CheckInSubject, req contract.CheckInRequest) map[string]any {
	return map[string]any{
		"subject":    string(kind),
		"subject_id": req.SubjectID,
		"source":     domain.CoalesceStr(req.Source, "cli"),
	}
}
