package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kseleznev/stayfit/internal/domain"
	"github.com/kseleznev/stayfit/internal/service/availability"
	"github.com/kseleznev/stayfit/internal/service/listings"
)

type ListingHandler struct {
	service      listings.ListingUseCase
	availability availability.AvailabilityUseCase
}

type listingResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Location          string   `json:"location"`
	NightlyPriceCents int64    `json:"nightly_price_cents"`
	Capacity          int      `json:"capacity"`
	MinStayNights     int      `json:"min_stay_nights"`
	BlackoutDates     []string `json:"blackout_dates"`
}

func NewListingHandler(service listings.ListingUseCase, availability availability.AvailabilityUseCase) *ListingHandler {
	return &ListingHandler{service: service, availability: availability}
}

func (h *ListingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.getAvailability)
}

func (h *ListingHandler) list(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]listingResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toListingResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ListingHandler) get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}

	listing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) getAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing id"})
		return
	}
	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.availability.ListingAvailability(c.Request.Context(), id, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func toListingResponse(l *domain.Listing) listingResponse {
	blackouts := make([]string, 0, len(l.BlackoutDates))
	for _, d := range l.BlackoutDates {
		blackouts = append(blackouts, d.UTC().Format("2006-01-02"))
	}
	return listingResponse{
		ID:                l.ID.String(),
		Title:             l.Title,
		Description:       l.Description,
		Location:          l.Location,
		NightlyPriceCents: l.NightlyPriceCents,
		Capacity:          l.Capacity,
		MinStayNights:     l.MinStayNights,
		BlackoutDates:     blackouts,
	}
}
