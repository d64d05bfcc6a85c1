package handler

import (
	"context"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/application"
	"github.com/RoamStay-Hotels/service-booking/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// AvailabilityHandler handles HTTP requests for the availability ledger.
type AvailabilityHandler struct {
	service *application.LedgerService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(service *application.LedgerService) *AvailabilityHandler {
	return &AvailabilityHandler{service: service}
}

// RegisterRoutes registers all availability routes on the given router group.
func (h *AvailabilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms/:id")
	{
		rooms.GET("/availability", h.CheckDate)
		rooms.GET("/availability/range", h.CheckRange)
		rooms.POST("/inventory/adjust", h.AdjustInventory)
		rooms.POST("/block", h.Block)
		rooms.POST("/unblock", h.Unblock)
	}
	r.GET("/hotels/:id/availability-ratio", h.HotelRatio)
}

// CheckDate handles GET /api/v1/rooms/:id/availability?date=YYYY-MM-DD
func (h *AvailabilityHandler) CheckDate(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	available, err := h.service.IsAvailable(c.Request.Context(), roomID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"room_id": roomID, "date": c.Query("date"), "available": available})
}

// CheckRange handles GET /api/v1/rooms/:id/availability/range?check_in=&check_out=
func (h *AvailabilityHandler) CheckRange(c *gin.Context) {
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

	available, err := h.service.IsAvailableForRange(c.Request.Context(), roomID, checkIn, checkOut)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{
		"room_id":   roomID,
		"check_in":  c.Query("check_in"),
		"check_out": c.Query("check_out"),
		"available": available,
	})
}

// AdjustInventory handles POST /api/v1/rooms/:id/inventory/adjust
func (h *AvailabilityHandler) AdjustInventory(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	var req struct {
		Date  string `json:"date" binding:"required"`
		Delta int    `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		response.BadRequest(c, "date must be YYYY-MM-DD")
		return
	}

	if err := h.service.AdjustInventory(c.Request.Context(), roomID, date, req.Delta); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"room_id": roomID, "date": req.Date, "delta": req.Delta})
}

type blockRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

// Block handles POST /api/v1/rooms/:id/block
func (h *AvailabilityHandler) Block(c *gin.Context) {
	h.blockOrUnblock(c, h.service.Block)
}

// Unblock handles POST /api/v1/rooms/:id/unblock
func (h *AvailabilityHandler) Unblock(c *gin.Context) {
	h.blockOrUnblock(c, h.service.Unblock)
}

func (h *AvailabilityHandler) blockOrUnblock(c *gin.Context, op func(ctx context.Context, roomID uuid.UUID, start, end time.Time) error) {
	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid room ID")
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		response.BadRequest(c, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		response.BadRequest(c, "end_date must be YYYY-MM-DD")
		return
	}

	if err := op(c.Request.Context(), roomID, start, end); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"room_id": roomID, "start_date": req.StartDate, "end_date": req.EndDate})
}

// HotelRatio handles GET /api/v1/hotels/:id/availability-ratio?start=&end=
func (h *AvailabilityHandler) HotelRatio(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
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

	ratio, err := h.service.HotelAvailabilityRatio(c.Request.Context(), hotelID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"hotel_id": hotelID, "ratio": ratio})
}
