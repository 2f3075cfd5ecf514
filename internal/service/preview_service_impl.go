package service

import (
	"context"
	"time"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

type previewService struct {
	calc     progress.Calculator
	observer UseCaseObserver
}

// NewPreviewService computes progress for unsaved values, as shown next to
// an edit form before the user commits a check-in.
func NewPreviewService(calc progress.Calculator, observers ...UseCaseObserver) PreviewService {
	return &previewService{calc: calc, observer: NewMultiUseCaseObserver(observers...)}
}

func (s *previewService) Preview(ctx context.Context, req contract.PreviewRequest) (resp *contract.PreviewResponse, err error) {
	defer observe(ctx, s.observer, "preview-progress", time.Now(), map[string]any{"type": req.Type}, &err)

	_, known := domain.ParseMetricType(req.Type)
	unit := domain.Unit(req.Unit)
	if !unit.Valid() {
		unit = domain.UnitNumber
	}
	item := progress.Item{Type: req.Type, Base: req.Base, Current: req.Current, Target: req.Target, Unit: unit}
	res := s.calc.Calculate(item, req.HasUpdates)

	current := progress.ToSafeNumber(req.Current, 0)
	target := progress.ToSafeNumber(req.Target, 0)
	return &contract.PreviewResponse{
		Percentage: res.Percentage,
		Status:     res.Status,
		Formatted:  progress.FormatPercent(res.Percentage),
		Current:    progress.FormatValue(&current, unit),
		Target:     progress.FormatValue(&target, unit),
		KnownType:  known,
	}, nil
}
