package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

type Objective struct {
	ID          string
	ShortID     string
	ParentID    *string
	Title       string
	Description string
	Owner       string
	Period      string // free-form cycle label, e.g. "2026-Q4"
	Status      ObjectiveStatus
	StartDate   time.Time
	TargetDate  *time.Time
	ArchivedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 3-6 uppercase letters followed by 2-4 digits (e.g. GROW01, SALES2026).
func (o *Objective) ValidateShortID() error {
	if o.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(o.ShortID) {
		return fmt.Errorf("short ID %q must be 3-6 uppercase letters followed by 2-4 digits (e.g. GROW01)", o.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (o *Objective) DisplayID() string {
	if o.ShortID != "" {
		return o.ShortID
	}
	if len(o.ID) >= 8 {
		return o.ID[:8]
	}
	return o.ID
}

// IsArchived reports whether the objective has been archived.
func (o *Objective) IsArchived() bool {
	return o.Status == ObjectiveArchived || o.ArchivedAt != nil
}
