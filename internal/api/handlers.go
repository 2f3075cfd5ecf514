package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alexanderramin/okra/internal/app"
	"github.com/alexanderramin/okra/internal/domain"
)

const apiSource = "api"

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) dashboard(c *gin.Context) {
	req := app.NewDashboardRequest()
	for _, v := range c.QueryArray("scope") {
		for _, ref := range strings.Split(v, ",") {
			if ref = strings.TrimSpace(ref); ref != "" {
				req.ObjectiveScope = append(req.ObjectiveScope, ref)
			}
		}
	}
	req.Period = c.Query("period")
	archived, err := queryBool(c, "archived")
	if err != nil {
		badRequest(c, err)
		return
	}
	req.IncludeArchived = archived

	resp, err := s.svc.Dashboard.GetDashboard(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) preview(c *gin.Context) {
	var req app.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resp, err := s.svc.Preview.Preview(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) suggest(c *gin.Context) {
	if s.svc.Suggestions == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, errorBody{Error: "suggestions are not configured"})
		return
	}
	resp, err := s.svc.Suggestions.Suggest(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func queryBool(c *gin.Context, key string) (bool, error) {
	v, ok := c.GetQuery(key)
	if !ok || v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(key + ": expected true or false")
	}
	return b, nil
}

func queryLimit(c *gin.Context) (int, error) {
	v := c.DefaultQuery("limit", "20")
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, errors.New("limit: expected a positive integer")
	}
	return n, nil
}

// objectives

func (s *Server) listObjectives(c *gin.Context) {
	archived, err := queryBool(c, "archived")
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := s.svc.Objectives.List(c.Request.Context(), archived)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newObjectiveJSON))
}

func (s *Server) createObjective(c *gin.Context) {
	var req objectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	o := &domain.Objective{}
	if err := req.apply(o); err != nil {
		fail(c, err)
		return
	}
	if o.ParentID != nil {
		parent, err := s.svc.Objectives.Resolve(c.Request.Context(), *o.ParentID)
		if err != nil {
			fail(c, err)
			return
		}
		o.ParentID = &parent.ID
	}
	if err := s.svc.Objectives.Create(c.Request.Context(), o); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newObjectiveJSON(o))
}

func (s *Server) objective(c *gin.Context) (*domain.Objective, bool) {
	o, err := s.svc.Objectives.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return o, true
}

func (s *Server) getObjective(c *gin.Context) {
	if o, ok := s.objective(c); ok {
		c.JSON(http.StatusOK, newObjectiveJSON(o))
	}
}

func (s *Server) updateObjective(c *gin.Context) {
	o, ok := s.objective(c)
	if !ok {
		return
	}
	var req objectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.apply(o); err != nil {
		fail(c, err)
		return
	}
	if req.ParentID != nil && o.ParentID != nil {
		parent, err := s.svc.Objectives.Resolve(c.Request.Context(), *o.ParentID)
		if err != nil {
			fail(c, err)
			return
		}
		o.ParentID = &parent.ID
	}
	if err := s.svc.Objectives.Update(c.Request.Context(), o); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newObjectiveJSON(o))
}

func (s *Server) deleteObjective(c *gin.Context) {
	o, ok := s.objective(c)
	if !ok {
		return
	}
	force, err := queryBool(c, "force")
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := s.svc.Objectives.Delete(c.Request.Context(), o.ID, force); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) archiveObjective(c *gin.Context)   { s.setArchived(c, true) }
func (s *Server) unarchiveObjective(c *gin.Context) { s.setArchived(c, false) }

func (s *Server) setArchived(c *gin.Context, archived bool) {
	o, ok := s.objective(c)
	if !ok {
		return
	}
	op := s.svc.Objectives.Unarchive
	if archived {
		op = s.svc.Objectives.Archive
	}
	if err := op(c.Request.Context(), o.ID); err != nil {
		fail(c, err)
		return
	}
	o, err := s.svc.Objectives.GetByID(c.Request.Context(), o.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newObjectiveJSON(o))
}

// key results

func (s *Server) listKeyResults(c *gin.Context) {
	o, ok := s.objective(c)
	if !ok {
		return
	}
	list, err := s.svc.KeyResults.ListByObjective(c.Request.Context(), o.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, func(kr *domain.KeyResult) measuredJSON { return newKeyResultJSON(s.svc.Calc, kr) }))
}

func (s *Server) createKeyResult(c *gin.Context) {
	o, ok := s.objective(c)
	if !ok {
		return
	}
	var req measuredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	kr := &domain.KeyResult{ObjectiveID: o.ID}
	if err := req.apply(&kr.Title, &kr.Measure, true); err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.KeyResults.Create(c.Request.Context(), kr); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newKeyResultJSON(s.svc.Calc, kr))
}

func (s *Server) keyResult(c *gin.Context) (*domain.KeyResult, bool) {
	kr, err := s.svc.KeyResults.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return kr, true
}

func (s *Server) getKeyResult(c *gin.Context) {
	if kr, ok := s.keyResult(c); ok {
		c.JSON(http.StatusOK, newKeyResultJSON(s.svc.Calc, kr))
	}
}

func (s *Server) updateKeyResult(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	var req measuredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.apply(&kr.Title, &kr.Measure, false); err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.KeyResults.Update(c.Request.Context(), kr); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newKeyResultJSON(s.svc.Calc, kr))
}

func (s *Server) deleteKeyResult(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	if err := s.svc.KeyResults.Delete(c.Request.Context(), kr.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) keyResultCheckIn(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	s.checkIn(c, kr.ID, s.svc.KeyResults.CheckIn)
}

func (s *Server) keyResultHistory(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	s.history(c, kr.ID, s.svc.KeyResults.History)
}

// initiatives and tasks

func (s *Server) listInitiatives(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	list, err := s.svc.Initiatives.ListByKeyResult(c.Request.Context(), kr.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newInitiativeJSON))
}

func (s *Server) createInitiative(c *gin.Context) {
	kr, ok := s.keyResult(c)
	if !ok {
		return
	}
	var req initiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		fail(c, err)
		return
	}
	i := &domain.Initiative{
		KeyResultID: kr.ID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      domain.InitiativeStatus(req.Status),
		DueDate:     due,
	}
	if err := s.svc.Initiatives.Create(c.Request.Context(), i); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInitiativeJSON(i))
}

func (s *Server) initiative(c *gin.Context) (*domain.Initiative, bool) {
	i, err := s.svc.Initiatives.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return i, true
}

func (s *Server) getInitiative(c *gin.Context) {
	if i, ok := s.initiative(c); ok {
		c.JSON(http.StatusOK, newInitiativeJSON(i))
	}
}

func (s *Server) setInitiativeStatus(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	updated, err := s.svc.Initiatives.SetStatus(c.Request.Context(), i.ID, domain.InitiativeStatus(req.Status))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newInitiativeJSON(updated))
}

func (s *Server) deleteInitiative(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	if err := s.svc.Initiatives.Delete(c.Request.Context(), i.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listTasks(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	list, err := s.svc.Initiatives.ListTasks(c.Request.Context(), i.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, newTaskJSON))
}

func (s *Server) addTask(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	t, err := s.svc.Initiatives.AddTask(c.Request.Context(), i.ID, req.Title)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTaskJSON(t))
}

func (s *Server) completeTask(c *gin.Context) {
	s.taskAction(c, s.svc.Initiatives.CompleteTask)
}

func (s *Server) reopenTask(c *gin.Context) {
	s.taskAction(c, s.svc.Initiatives.ReopenTask)
}

func (s *Server) taskAction(c *gin.Context, action func(ctx context.Context, id string) (*domain.Task, error)) {
	t, err := s.svc.Initiatives.ResolveTask(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	t, err = action(c.Request.Context(), t.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskJSON(t))
}

func (s *Server) deleteTask(c *gin.Context) {
	t, err := s.svc.Initiatives.ResolveTask(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Initiatives.DeleteTask(c.Request.Context(), t.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// success metrics

func (s *Server) listMetrics(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	list, err := s.svc.Metrics.ListByInitiative(c.Request.Context(), i.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(list, func(m *domain.SuccessMetric) measuredJSON { return newMetricJSON(s.svc.Calc, m) }))
}

func (s *Server) createMetric(c *gin.Context) {
	i, ok := s.initiative(c)
	if !ok {
		return
	}
	var req measuredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	m := &domain.SuccessMetric{InitiativeID: i.ID}
	if err := req.apply(&m.Title, &m.Measure, true); err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Metrics.Create(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMetricJSON(s.svc.Calc, m))
}

func (s *Server) metric(c *gin.Context) (*domain.SuccessMetric, bool) {
	m, err := s.svc.Metrics.Resolve(c.Request.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return nil, false
	}
	return m, true
}

func (s *Server) getMetric(c *gin.Context) {
	if m, ok := s.metric(c); ok {
		c.JSON(http.StatusOK, newMetricJSON(s.svc.Calc, m))
	}
}

func (s *Server) updateMetric(c *gin.Context) {
	m, ok := s.metric(c)
	if !ok {
		return
	}
	var req measuredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.apply(&m.Title, &m.Measure, false); err != nil {
		fail(c, err)
		return
	}
	if err := s.svc.Metrics.Update(c.Request.Context(), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newMetricJSON(s.svc.Calc, m))
}

func (s *Server) deleteMetric(c *gin.Context) {
	m, ok := s.metric(c)
	if !ok {
		return
	}
	if err := s.svc.Metrics.Delete(c.Request.Context(), m.ID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) metricCheckIn(c *gin.Context) {
	m, ok := s.metric(c)
	if !ok {
		return
	}
	s.checkIn(c, m.ID, s.svc.Metrics.CheckIn)
}

func (s *Server) metricHistory(c *gin.Context) {
	m, ok := s.metric(c)
	if !ok {
		return
	}
	s.history(c, m.ID, s.svc.Metrics.History)
}

// shared check-in plumbing

func (s *Server) checkIn(c *gin.Context, subjectID string, record func(context.Context, app.CheckInRequest) (*app.CheckInResult, error)) {
	var body checkInRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	res, err := record(c.Request.Context(), app.CheckInRequest{
		SubjectID: subjectID,
		Value:     body.Value,
		Note:      body.Note,
		Source:    apiSource,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newCheckInResultJSON(res))
}

func (s *Server) history(c *gin.Context, subjectID string, list func(context.Context, string, int) ([]*domain.CheckIn, error)) {
	limit, err := queryLimit(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	items, err := list(c.Request.Context(), subjectID, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mapSlice(items, newCheckInJSON))
}
