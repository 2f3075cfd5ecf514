package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/alexanderramin/okra/internal/service"
)

type objectiveJSON struct {
	ID          string                 `json:"id"`
	ShortID     string                 `json:"short_id"`
	ParentID    *string                `json:"parent_id,omitempty"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	Owner       string                 `json:"owner,omitempty"`
	Period      string                 `json:"period,omitempty"`
	Status      domain.ObjectiveStatus `json:"status"`
	StartDate   string                 `json:"start_date"`
	TargetDate  *string                `json:"target_date,omitempty"`
	ArchivedAt  *time.Time             `json:"archived_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func newObjectiveJSON(o *domain.Objective) objectiveJSON {
	return objectiveJSON{
		ID:          o.ID,
		ShortID:     o.ShortID,
		ParentID:    o.ParentID,
		Title:       o.Title,
		Description: o.Description,
		Owner:       o.Owner,
		Period:      o.Period,
		Status:      o.Status,
		StartDate:   o.StartDate.Format(time.DateOnly),
		TargetDate:  formatDate(o.TargetDate),
		ArchivedAt:  o.ArchivedAt,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type measuredJSON struct {
	ID         string           `json:"id"`
	ParentID   string           `json:"parent_id"`
	Title      string           `json:"title"`
	OrderIndex int              `json:"order_index,omitempty"`
	Measure    app.MeasureView  `json:"measure"`
	Progress   app.ProgressView `json:"progress"`
}

func newKeyResultJSON(calc progress.Calculator, kr *domain.KeyResult) measuredJSON {
	return measuredJSON{
		ID:         kr.ID,
		ParentID:   kr.ObjectiveID,
		Title:      kr.Title,
		OrderIndex: kr.OrderIndex,
		Measure:    app.NewMeasureView(kr.Measure),
		Progress:   app.NewProgressView(calc.Measure(kr.Measure)),
	}
}

func newMetricJSON(calc progress.Calculator, m *domain.SuccessMetric) measuredJSON {
	return measuredJSON{
		ID:       m.ID,
		ParentID: m.InitiativeID,
		Title:    m.Title,
		Measure:  app.NewMeasureView(m.Measure),
		Progress: app.NewProgressView(calc.Measure(m.Measure)),
	}
}

type initiativeJSON struct {
	ID          string                  `json:"id"`
	KeyResultID string                  `json:"key_result_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description,omitempty"`
	Status      domain.InitiativeStatus `json:"status"`
	DueDate     *string                 `json:"due_date,omitempty"`
}

func newInitiativeJSON(i *domain.Initiative) initiativeJSON {
	return initiativeJSON{
		ID:          i.ID,
		KeyResultID: i.KeyResultID,
		Title:       i.Title,
		Description: i.Description,
		Status:      i.Status,
		DueDate:     formatDate(i.DueDate),
	}
}

type taskJSON struct {
	ID           string     `json:"id"`
	InitiativeID string     `json:"initiative_id"`
	Title        string     `json:"title"`
	Done         bool       `json:"done"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func newTaskJSON(t *domain.Task) taskJSON {
	return taskJSON{ID: t.ID, InitiativeID: t.InitiativeID, Title: t.Title, Done: t.Done, CompletedAt: t.CompletedAt}
}

type checkInJSON struct {
	ID            string                `json:"id"`
	Subject       domain.CheckInSubject `json:"subject"`
	SubjectID     string                `json:"subject_id"`
	PreviousValue *float64              `json:"previous_value"`
	Value         float64               `json:"value"`
	Note          string                `json:"note,omitempty"`
	Source        string                `json:"source"`
	CreatedAt     time.Time             `json:"created_at"`
}

func newCheckInJSON(ci *domain.CheckIn) checkInJSON {
	return checkInJSON{
		ID:            ci.ID,
		Subject:       ci.SubjectKind,
		SubjectID:     ci.SubjectID,
		PreviousValue: ci.PreviousValue,
		Value:         ci.Value,
		Note:          ci.Note,
		Source:        ci.Source,
		CreatedAt:     ci.CreatedAt,
	}
}

type checkInResultJSON struct {
	CheckIn  checkInJSON      `json:"check_in"`
	Before   app.ProgressView `json:"before"`
	Progress app.ProgressView `json:"progress"`
	Crossed  bool             `json:"crossed"`
}

func newCheckInResultJSON(r *app.CheckInResult) checkInResultJSON {
	return checkInResultJSON{
		CheckIn:  newCheckInJSON(r.CheckIn),
		Before:   r.Before,
		Progress: r.Progress,
		Crossed:  r.Crossed(),
	}
}

func mapSlice[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(*s))
	if err != nil {
		return nil, invalidField(field, "must be YYYY-MM-DD")
	}
	return &t, nil
}

func invalidField(field, format string, args ...any) error {
	return fmt.Errorf("%w: %w", service.ErrInvalidInput, &app.ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}
