package api

import (
	"strings"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

// objectiveRequest serves both create and update; nil fields are left
// unchanged on update.
type objectiveRequest struct {
	ShortID     *string `json:"short_id"`
	ParentID    *string `json:"parent_id"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Owner       *string `json:"owner"`
	Period      *string `json:"period"`
	Status      *string `json:"status"`
	TargetDate  *string `json:"target_date"`
}

func (r objectiveRequest) apply(o *domain.Objective) error {
	setString(&o.ShortID, r.ShortID)
	setString(&o.Title, r.Title)
	setString(&o.Description, r.Description)
	setString(&o.Owner, r.Owner)
	setString(&o.Period, r.Period)
	if r.Status != nil {
		o.Status = domain.ObjectiveStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
	}
	if r.ParentID != nil {
		if p := strings.TrimSpace(*r.ParentID); p == "" {
			o.ParentID = nil
		} else {
			o.ParentID = &p
		}
	}
	if r.TargetDate != nil {
		d, err := parseDate("target_date", r.TargetDate)
		if err != nil {
			return err
		}
		o.TargetDate = d
	}
	return nil
}

// measuredRequest creates or updates a key result or success metric.
// Numbers may arrive as JSON numbers or numeric strings.
type measuredRequest struct {
	Title  *string `json:"title"`
	Type   *string `json:"type"`
	Unit   *string `json:"unit"`
	Base   any     `json:"base_value"`
	Target any     `json:"target_value"`
}

func (r measuredRequest) apply(title *string, m *domain.Measure, creating bool) error {
	setString(title, r.Title)
	if r.Type != nil {
		m.Type = domain.MetricType(*r.Type)
	}
	if r.Unit != nil {
		m.Unit = domain.Unit(strings.ToLower(strings.TrimSpace(*r.Unit)))
	}
	if r.Base != nil {
		m.BaseValue = progress.OptionalNumber(r.Base)
		if m.BaseValue == nil {
			return invalidField("base_value", "must be a number")
		}
	}
	switch {
	case r.Target != nil:
		t := progress.OptionalNumber(r.Target)
		if t == nil {
			return invalidField("target_value", "must be a number")
		}
		m.TargetValue = *t
	case creating:
		return invalidField("target_value", "is required")
	}
	return nil
}

type initiativeRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type taskRequest struct {
	Title string `json:"title" binding:"required"`
}

type checkInRequest struct {
	Value any    `json:"value"`
	Note  string `json:"note"`
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}
