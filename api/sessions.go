package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/service/schedule"
)

type SessionHandler struct {
	service schedule.ScheduleUseCase
}

type sessionResponse struct {
	ID             string `json:"id"`
	TemplateID     string `json:"template_id"`
	Name           string `json:"name"`
	Instructor     string `json:"instructor"`
	Location       string `json:"location"`
	DurationMins   int    `json:"duration_mins"`
	StartAt        string `json:"start_at"`
	EndAt          string `json:"end_at"`
	Capacity       int    `json:"capacity"`
	PriceCents     int64  `json:"price_cents"`
	SpotsRemaining int    `json:"spots_remaining"`
	Bookable       bool   `json:"bookable"`
}

type templateResponse struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Instructor    string   `json:"instructor"`
	Location      string   `json:"location"`
	DurationMins  int      `json:"duration_mins"`
	Capacity      int      `json:"capacity"`
	PriceCents    int64    `json:"price_cents"`
	RecurDays     []int    `json:"recur_days"`
	StartTime     string   `json:"start_time"`
	BlackoutDates []string `json:"blackout_dates"`
	Active        bool     `json:"active"`
}

type generateSessionsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func NewSessionHandler(service schedule.ScheduleUseCase) *SessionHandler {
	return &SessionHandler{service: service}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.GET("/sessions", h.listSessions)
	router.POST("/sessions/generate", h.generate)
	router.GET("/templates", h.listTemplates)
}

func (h *SessionHandler) listSessions(c *gin.Context) {
	from, err := parseDateParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	views, err := h.service.ListSessions(c.Request.Context(), from, to, c.Query("instructor"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]sessionResponse, 0, len(views))
	for i := range views {
		resp = append(resp, toSessionResponse(&views[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) generate(c *gin.Context) {
	var req generateSessionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	from, err := parseDateParam(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	to, err := parseDateParam(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.GenerateSessions(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *SessionHandler) listTemplates(c *gin.Context) {
	templates, err := h.service.ListTemplates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]templateResponse, 0, len(templates))
	for i := range templates {
		resp = append(resp, toTemplateResponse(&templates[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func toSessionResponse(v *domain.SessionView) sessionResponse {
	return sessionResponse{
		ID:             v.ID.String(),
		TemplateID:     v.TemplateID.String(),
		Name:           v.TemplateName,
		Instructor:     v.Instructor,
		Location:       v.Location,
		DurationMins:   v.DurationMins,
		StartAt:        v.StartAt.Format(time.RFC3339),
		EndAt:          v.EndAt.Format(time.RFC3339),
		Capacity:       v.Capacity,
		PriceCents:     v.PriceCents,
		SpotsRemaining: v.SpotsRemaining,
		Bookable:       v.Bookable,
	}
}

func toTemplateResponse(t *domain.ClassTemplate) templateResponse {
	days := make([]int, 0, len(t.RecurDays))
	for _, d := range t.RecurDays {
		days = append(days, int(d))
	}
	blackouts := make([]string, 0, len(t.BlackoutDates))
	for _, d := range t.BlackoutDates {
		blackouts = append(blackouts, d.UTC().Format("2006-01-02"))
	}
	return templateResponse{
		ID:            t.ID.String(),
		Name:          t.Name,
		Instructor:    t.Instructor,
		Location:      t.Location,
		DurationMins:  t.DurationMins,
		Capacity:      t.Capacity,
		PriceCents:    t.PriceCents,
		RecurDays:     days,
		StartTime:     t.StartTime,
		BlackoutDates: blackouts,
		Active:        t.Active,
	}
}
