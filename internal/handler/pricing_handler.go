package handler

import (
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/application"
	"github.com/RoamStay-Hotels/service-booking/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PricingHandler handles HTTP requests for pricing queries.
type PricingHandler struct {
	service *application.PricingService
}

// NewPricingHandler creates a new PricingHandler.
func NewPricingHandler(service *application.PricingService) *PricingHandler {
	return &PricingHandler{service: service}
}

// RegisterRoutes registers all pricing routes on the given router group.
func (h *PricingHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms/:id")
	{
		rooms.GET("/price", h.PriceForRange)
		rooms.GET("/price/simulate", h.Simulate)
	}
}

// PriceForRange handles GET /api/v1/rooms/:id/price?check_in=&check_out=
func (h *PricingHandler) PriceForRange(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}
	checkIn, err := time.Parse(dateLayout, c.Query("check_in"))
	if err != nil {
		response.BadRequest(c, "check_in must be YYYY-MM-DD")
		return
	}
	checkOut, err := time.Parse(dateLayout, c.Query("check_out"))
	if err != nil {
		response.BadRequest(c, "check_out must be YYYY-MM-DD")
		return
	}

	quote, err := h.service.PriceForRange(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, quote)
}

// Simulate handles GET /api/v1/rooms/:id/price/simulate?start=&end=
func (h *PricingHandler) Simulate(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}
	start, err := time.Parse(dateLayout, c.Query("start"))
	if err != nil {
		response.BadRequest(c, "start must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, c.Query("end"))
	if err != nil {
		response.BadRequest(c, "end must be YYYY-MM-DD")
		return
	}

	points, err := h.service.Simulate(c.Request.Context(), roomID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, points)
}
