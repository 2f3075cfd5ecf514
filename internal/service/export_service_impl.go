package service

import (
	"context"
	"io"
	"time"

	"github.com/alexanderramin/okra/internal/contract"
	"github.com/alexanderramin/okra/internal/exporter"
)

type exportService struct {
	dashboard DashboardService
	observer  UseCaseObserver
}

func NewExportService(dashboard DashboardService, observers ...UseCaseObserver) ExportService {
	return &exportService{dashboard: dashboard, observer: NewMultiUseCaseObserver(observers...)}
}

func (s *exportService) Export(ctx context.Context, req contract.DashboardRequest, format exporter.Format, w io.Writer) (err error) {
	defer observe(ctx, s.observer, "export-document", time.Now(), map[string]any{"format": string(format)}, &err)

	resp, err := s.dashboard.GetDashboard(ctx, req)
	if err != nil {
		return err
	}
	return exporter.Encode(w, exporter.FromDashboard(resp), format)
}
