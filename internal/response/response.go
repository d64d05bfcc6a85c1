package response

import (
	"errors"
	"net/http"

	"github.com/RoamStay-Hotels/service-booking/internal/domain"
	"github.com/gin-gonic/gin"
)

// Success writes a 200 with the payload.
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// Created writes a 201 with the payload.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// BadRequest writes a 400 with the message.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// Error maps a domain error to its HTTP status. Unrecognized errors become 500
// without leaking internals.
func Error(c *gin.Context, err error) {
	var domErr *domain.DomainError
	if errors.As(err, &domErr) {
		c.JSON(statusFor(domErr), gin.H{"error": domErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func statusFor(err *domain.DomainError) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrUnavailable),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
