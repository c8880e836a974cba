package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/middleware"
	"github.com/kseleznev/stayfit/internal/service/waitlist"
)

type WaitlistHandler struct {
	service waitlist.WaitlistUseCase
}

type joinWaitlistRequest struct {
	SessionID string `json:"session_id"`
}

type waitlistEntryResponse struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	CreatedAt string `json:"created_at"`
}

type waitlistViewResponse struct {
	ID           string `json:"id"`
	SessionID    string `json:"session_id"`
	SessionStart string `json:"session_start"`
	SessionEnd   string `json:"session_end"`
	Name         string `json:"name"`
	Instructor   string `json:"instructor"`
	Location     string `json:"location"`
	JoinedAt     string `json:"joined_at"`
}

func NewWaitlistHandler(service waitlist.WaitlistUseCase) *WaitlistHandler {
	return &WaitlistHandler{service: service}
}

func (h *WaitlistHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.join)
	router.DELETE("/:sessionID", h.leave)
	router.GET("/me", h.listMine)
}

func (h *WaitlistHandler) join(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req joinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	entry, err := h.service.Join(c.Request.Context(), userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, waitlistEntryResponse{
		ID:        entry.ID.String(),
		SessionID: entry.SessionID.String(),
		CreatedAt: entry.CreatedAt.Format(time.RFC3339),
	})
}

func (h *WaitlistHandler) leave(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sessionID, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	if err := h.service.Leave(c.Request.Context(), userID, sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WaitlistHandler) listMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]waitlistViewResponse, 0, len(views))
	for i := range views {
		resp = append(resp, toWaitlistViewResponse(&views[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func toWaitlistViewResponse(v *domain.WaitlistView) waitlistViewResponse {
	return waitlistViewResponse{
		ID:           v.Entry.ID.String(),
		SessionID:    v.Entry.SessionID.String(),
		SessionStart: v.SessionStart.Format(time.RFC3339),
		SessionEnd:   v.SessionEnd.Format(time.RFC3339),
		Name:         v.TemplateName,
		Instructor:   v.Instructor,
		Location:     v.Location,
		JoinedAt:     v.Entry.CreatedAt.Format(time.RFC3339),
	}
}
