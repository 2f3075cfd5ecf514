package app

import (
	"time"

	"github.com/alexanderramin/okra/internal/domain"
)

type CheckInRequest struct {
	SubjectID string
	Value     any // number or numeric string; required
	Note      string
	Source    string
	Now       *time.Time
}

type CheckInResult struct {
	CheckIn  *domain.CheckIn `json:"check_in"`
	Before   ProgressView    `json:"before"`
	Progress ProgressView    `json:"progress"`
}

// Crossed reports whether the check-in moved the item to a different label.
func (r *CheckInResult) Crossed() bool {
	return r.Before.Status != r.Progress.Status
}
