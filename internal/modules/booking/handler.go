package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trainbook/internal/domain"
	"trainbook/internal/pkg/response"
)

// tgHeader carries the external identity for header-authenticated clients
// (the Telegram bot), matched against users' display names.
const tgHeader = "TG-ID"

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings", h.ListBookings)
	rg.DELETE("/bookings/:id", h.CancelBooking)
}

// resolveActor passes the request credentials to the service and maps a
// resolution failure to 403 before any mutation is attempted.
func (h *Handler) resolveActor(c *gin.Context) (*domain.User, bool) {
	actor, err := h.service.ResolveActor(
		c.Request.Context(),
		c.GetInt64("user_id"),
		c.GetHeader(tgHeader),
	)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			response.Error(c, http.StatusForbidden, "UNAUTHORIZED", "Could not resolve a booking actor")
		} else {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Actor lookup failed")
		}
		return nil, false
	}
	return actor, true
}

func (h *Handler) CreateBooking(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}

	var form createBookingForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	intent, details, err := form.intent()
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or malformed booking fields", details)
		return
	}

	if _, err := h.service.CreateBooking(c.Request.Context(), actor, intent); err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid booking request")
		case errors.Is(err, ErrConflict):
			response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", "Room is not available for the selected time")
		default:
			c.Error(err) //nolint:errcheck
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create booking")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "success"})
}

func (h *Handler) ListBookings(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), actor)
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, bookings)
}

func (h *Handler) CancelBooking(c *gin.Context) {
	actor, ok := h.resolveActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid booking ID")
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), actor, id); err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel booking")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "success"})
}
