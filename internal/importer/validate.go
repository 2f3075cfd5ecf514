package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
)

const dateLayout = "2006-01-02"

// ValidateDocument checks the document for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateDocument(doc *Document) []error {
	var errs []error
	if len(doc.Objectives) == 0 {
		return []error{fmt.Errorf("objectives: at least one objective is required")}
	}

	refs := make(map[string]int, len(doc.Objectives))
	shortIDs := make(map[string]bool, len(doc.Objectives))
	for i := range doc.Objectives {
		o := &doc.Objectives[i]
		path := fmt.Sprintf("objectives[%d]", i)
		errs = append(errs, validateObjective(path, o)...)

		if h := o.handle(); h != "" {
			if _, dup := refs[h]; dup {
				errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", path, h))
			}
			refs[h] = i
		}
		if o.ShortID != "" {
			if shortIDs[o.ShortID] {
				errs = append(errs, fmt.Errorf("%s.short_id: duplicate short ID %q", path, o.ShortID))
			}
			shortIDs[o.ShortID] = true
		}
	}

	for i := range doc.Objectives {
		o := &doc.Objectives[i]
		if o.ParentRef == "" {
			continue
		}
		if _, ok := refs[o.ParentRef]; !ok {
			errs = append(errs, fmt.Errorf("objectives[%d].parent_ref: unknown ref %q", i, o.ParentRef))
		}
	}
	if cyc := findParentCycle(doc.Objectives, refs); cyc != "" {
		errs = append(errs, fmt.Errorf("objectives: parent_ref cycle through %q", cyc))
	}

	return errs
}

func validateObjective(path string, o *ObjectiveDoc) []error {
	var errs []error

	if o.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", path))
	}
	candidate := domain.Objective{ShortID: o.ShortID}
	if err := candidate.ValidateShortID(); err != nil {
		errs = append(errs, fmt.Errorf("%s.short_id: %v", path, err))
	}
	if o.Status != "" && !domain.ValidObjectiveStatuses[o.Status] {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", path, o.Status))
	}
	errs = append(errs, validateDate(path+".start_date", o.StartDate)...)
	errs = append(errs, validateDate(path+".target_date", o.TargetDate)...)
	if o.StartDate != "" && o.TargetDate != "" {
		start, startErr := time.Parse(dateLayout, o.StartDate)
		target, targetErr := time.Parse(dateLayout, o.TargetDate)
		if startErr == nil && targetErr == nil && !target.After(start) {
			errs = append(errs, fmt.Errorf("%s.target_date %q must be after start_date %q", path, o.TargetDate, o.StartDate))
		}
	}

	for j := range o.KeyResults {
		kr := &o.KeyResults[j]
		krPath := fmt.Sprintf("%s.key_results[%d]", path, j)
		if kr.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", krPath))
		}
		errs = append(errs, validateMeasure(krPath, kr.Type, kr.Unit, kr.Base, kr.Current, kr.Target)...)
		for k := range kr.Initiatives {
			errs = append(errs, validateInitiative(fmt.Sprintf("%s.initiatives[%d]", krPath, k), &kr.Initiatives[k])...)
		}
	}
	return errs
}

func validateInitiative(path string, in *InitiativeDoc) []error {
	var errs []error
	if in.Title == "" {
		errs = append(errs, fmt.Errorf("%s.title is required", path))
	}
	if in.Status != "" && !domain.InitiativeStatus(in.Status).Valid() {
		errs = append(errs, fmt.Errorf("%s.status: invalid value %q", path, in.Status))
	}
	errs = append(errs, validateDate(path+".due_date", in.DueDate)...)
	for i, t := range in.Tasks {
		if t.Title == "" {
			errs = append(errs, fmt.Errorf("%s.tasks[%d].title is required", path, i))
		}
	}
	for i := range in.SuccessMetrics {
		m := &in.SuccessMetrics[i]
		mPath := fmt.Sprintf("%s.success_metrics[%d]", path, i)
		if m.Title == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", mPath))
		}
		errs = append(errs, validateMeasure(mPath, m.Type, m.Unit, m.Base, m.Current, m.Target)...)
	}
	return errs
}

// validateMeasure accepts numbers or numeric strings. Base and current may
// be omitted; target may not.
func validateMeasure(path, typ, unit string, base, current, target any) []error {
	var errs []error
	if _, ok := domain.ParseMetricType(typ); !ok {
		errs = append(errs, fmt.Errorf("%s.type: unknown metric type %q", path, typ))
	}
	if unit != "" && !domain.Unit(unit).Valid() {
		errs = append(errs, fmt.Errorf("%s.unit: invalid value %q", path, unit))
	}
	if progress.OptionalNumber(target) == nil {
		errs = append(errs, fmt.Errorf("%s.target_value: must be a finite number, got %v", path, target))
	}
	optional := []struct {
		name string
		v    any
	}{{"base_value", base}, {"current_value", current}}
	for _, f := range optional {
		if f.v != nil && f.v != "" && progress.OptionalNumber(f.v) == nil {
			errs = append(errs, fmt.Errorf("%s.%s: must be a number, got %v", path, f.name, f.v))
		}
	}
	return errs
}

func validateDate(path, s string) []error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", path, s)}
	}
	return nil
}

// findParentCycle returns a ref on a parent_ref cycle, or "".
func findParentCycle(objs []ObjectiveDoc, refs map[string]int) string {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(objs))
	var visit func(i int) string
	visit = func(i int) string {
		switch state[i] {
		case visiting:
			return objs[i].handle()
		case done:
			return ""
		}
		state[i] = visiting
		if p, ok := refs[objs[i].ParentRef]; ok && objs[i].ParentRef != "" {
			if c := visit(p); c != "" {
				return c
			}
		}
		state[i] = done
		return ""
	}
	for i := range objs {
		if c := visit(i); c != "" {
			return c
		}
	}
	return ""
}
