package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/okra/internal/domain"
	"github.com/alexanderramin/okra/internal/progress"
	"github.com/google/uuid"
)

// Converted holds domain objects in insertion order: every parent precedes
// its children.
type Converted struct {
	Objectives  []*domain.Objective
	KeyResults  []*domain.KeyResult
	Initiatives []*domain.Initiative
	Tasks       []*domain.Task
	Metrics     []*domain.SuccessMetric
	// CheckIns records the current values supplied by the document.
	CheckIns []*domain.CheckIn
}

// Convert transforms a validated Document into domain objects ready for
// persistence. Call ValidateDocument first; Convert assumes the document is
// valid. A supplied current_value counts as a check-in made at now.
func Convert(doc *Document, now time.Time) (*Converted, error) {
	now = now.UTC()
	out := &Converted{}

	refMap := make(map[string]string, len(doc.Objectives)) // ref -> UUID
	for _, i := range parentFirst(doc.Objectives) {
		o := &doc.Objectives[i]
		obj, err := convertObjective(o, now)
		if err != nil {
			return nil, fmt.Errorf("objective %q: %w", o.handle(), err)
		}
		if o.ParentRef != "" {
			pid, ok := refMap[o.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for objective %q", o.ParentRef, o.handle())
			}
			obj.ParentID = &pid
		}
		refMap[o.handle()] = obj.ID
		out.Objectives = append(out.Objectives, obj)

		for order, krDoc := range o.KeyResults {
			kr := &domain.KeyResult{
				ID:          uuid.New().String(),
				ObjectiveID: obj.ID,
				Title:       krDoc.Title,
				OrderIndex:  order + 1,
				Measure:     convertMeasure(krDoc.Type, krDoc.Unit, krDoc.Base, krDoc.Target),
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			out.addCheckIn(&kr.Measure, domain.SubjectKeyResult, kr.ID, krDoc.Current, now)
			out.KeyResults = append(out.KeyResults, kr)

			for _, inDoc := range krDoc.Initiatives {
				out.addInitiative(kr.ID, &inDoc, now)
			}
		}
	}
	return out, nil
}

func convertObjective(o *ObjectiveDoc, now time.Time) (*domain.Objective, error) {
	start := now.Truncate(24 * time.Hour)
	if o.StartDate != "" {
		t, err := time.Parse(dateLayout, o.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing start_date: %w", err)
		}
		start = t
	}
	return &domain.Objective{
		ID:          uuid.New().String(),
		ShortID:     strings.ToUpper(o.ShortID),
		Title:       o.Title,
		Description: o.Description,
		Owner:       o.Owner,
		Period:      o.Period,
		Status:      domain.ObjectiveStatus(domain.CoalesceStr(o.Status, string(domain.ObjectiveActive))),
		StartDate:   start,
		TargetDate:  parseOptionalDate(o.TargetDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (c *Converted) addInitiative(keyResultID string, d *InitiativeDoc, now time.Time) {
	in := &domain.Initiative{
		ID:          uuid.New().String(),
		KeyResultID: keyResultID,
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.InitiativeStatus(domain.CoalesceStr(d.Status, string(domain.InitiativePlanned))),
		DueDate:     parseOptionalDate(d.DueDate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Initiatives = append(c.Initiatives, in)

	for _, td := range d.Tasks {
		t := &domain.Task{
			ID:           uuid.New().String(),
			InitiativeID: in.ID,
			Title:        td.Title,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if td.Done {
			t.Complete(now)
		}
		c.Tasks = append(c.Tasks, t)
	}
	for _, md := range d.SuccessMetrics {
		m := &domain.SuccessMetric{
			ID:           uuid.New().String(),
			InitiativeID: in.ID,
			Title:        md.Title,
			Measure:      convertMeasure(md.Type, md.Unit, md.Base, md.Target),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		c.addCheckIn(&m.Measure, domain.SubjectSuccessMetric, m.ID, md.Current, now)
		c.Metrics = append(c.Metrics, m)
	}
}

func (c *Converted) addCheckIn(m *domain.Measure, kind domain.CheckInSubject, subjectID string, current any, now time.Time) {
	v := progress.OptionalNumber(current)
	if v == nil {
		return
	}
	m.ApplyCheckIn(*v, now)
	c.CheckIns = append(c.CheckIns, &domain.CheckIn{
		ID:          uuid.New().String(),
		SubjectKind: kind,
		SubjectID:   subjectID,
		Value:       *v,
		Note:        "imported",
		Source:      "import",
		CreatedAt:   now,
	})
}

func convertMeasure(typ, unit string, base, target any) domain.Measure {
	t, _ := domain.ParseMetricType(typ)
	return domain.Measure{
		Type:        t,
		Unit:        domain.Unit(domain.CoalesceStr(unit, string(domain.UnitNumber))),
		BaseValue:   progress.OptionalNumber(base),
		TargetValue: progress.ToSafeNumber(target, 0),
	}
}

// parentFirst orders objective indexes so parents come before children,
// keeping document order otherwise.
func parentFirst(objs []ObjectiveDoc) []int {
	byRef := make(map[string]int, len(objs))
	for i := range objs {
		byRef[objs[i].handle()] = i
	}
	placed := make([]bool, len(objs))
	order := make([]int, 0, len(objs))
	var place func(i int, depth int)
	place = func(i int, depth int) {
		if placed[i] || depth > len(objs) {
			return
		}
		if p, ok := byRef[objs[i].ParentRef]; ok && objs[i].ParentRef != "" {
			place(p, depth+1)
		}
		if !placed[i] {
			placed[i] = true
			order = append(order, i)
		}
	}
	for i := range objs {
		place(i, 0)
	}
	return order
}

func parseOptionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
