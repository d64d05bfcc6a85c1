package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/RoamStay-Hotels/service-booking/internal/application"
	"github.com/RoamStay-Hotels/service-booking/internal/middleware"
	"github.com/RoamStay-Hotels/service-booking/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// BookingHandler handles HTTP requests for booking commands and queries.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.Identity())
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListAll)
		bookings.GET("/:id", h.Get)
		bookings.PUT("/:id", h.Update)
		bookings.POST("/:id/cancel", h.Cancel)
	}
	r.GET("/hotels/:id/bookings", h.ListByHotel)
}

type bookingRequest struct {
	RoomID      uuid.UUID `json:"room_id" binding:"required"`
	CheckIn     string    `json:"check_in" binding:"required"`
	CheckOut    string    `json:"check_out" binding:"required"`
	Guests      int       `json:"guests" binding:"required"`
	RoomsBooked int       `json:"rooms_booked" binding:"required"`
}

type updateBookingRequest struct {
	CheckIn     string `json:"check_in" binding:"required"`
	CheckOut    string `json:"check_out" binding:"required"`
	Guests      int    `json:"guests" binding:"required"`
	RoomsBooked int    `json:"rooms_booked" binding:"required"`
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	checkIn, checkOut, ok := parseStayDates(c, req.CheckIn, req.CheckOut)
	if !ok {
		return
	}

	dto, err := h.service.Create(c.Request.Context(), userID, req.RoomID, checkIn, checkOut, req.Guests, req.RoomsBooked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto)
}

// Update handles PUT /api/v1/bookings/:id
func (h *BookingHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	checkIn, checkOut, ok := parseStayDates(c, req.CheckIn, req.CheckOut)
	if !ok {
		return
	}

	dto, err := h.service.Update(c.Request.Context(), userID, id, checkIn, checkOut, req.Guests, req.RoomsBooked)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dto, err := h.service.Cancel(c.Request.Context(), userID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	dto, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, dto)
}

// ListAll handles GET /api/v1/bookings
func (h *BookingHandler) ListAll(c *gin.Context) {
	page, limit := pagination(c)
	dtos, total, err := h.service.ListAll(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"bookings": dtos, "total": total, "page": page, "limit": limit})
}

// ListByHotel handles GET /api/v1/hotels/:id/bookings
func (h *BookingHandler) ListByHotel(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid hotel ID")
		return
	}

	page, limit := pagination(c)
	dtos, total, err := h.service.ListByHotel(c.Request.Context(), hotelID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"bookings": dtos, "total": total, "page": page, "limit": limit})
}

func parseStayDates(c *gin.Context, checkInRaw, checkOutRaw string) (time.Time, time.Time, bool) {
	checkIn, err := time.Parse(dateLayout, checkInRaw)
	if err != nil {
		response.BadRequest(c, "check_in must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	checkOut, err := time.Parse(dateLayout, checkOutRaw)
	if err != nil {
		response.BadRequest(c, "check_out must be YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return checkIn, checkOut, true
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
