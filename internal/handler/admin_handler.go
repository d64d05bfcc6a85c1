package handler

import (
	"github.com/RoamStay-Hotels/service-booking/internal/application"
	"github.com/RoamStay-Hotels/service-booking/internal/response"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the operator surface: booking statistics.
type AdminHandler struct {
	bookings *application.BookingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService) *AdminHandler {
	return &AdminHandler{bookings: bookings}
}

// RegisterRoutes registers the admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup) {
	admin := r.Group("/admin")
	{
		admin.GET("/bookings/stats", h.BookingStats)
	}
}

// BookingStats handles GET /api/v1/admin/bookings/stats
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
