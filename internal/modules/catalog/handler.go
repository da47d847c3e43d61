package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"trainbook/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/all", h.GetAll)
	rg.GET("/rooms", h.GetRooms)
	rg.GET("/rooms/:id", h.GetRoomByID)
	rg.GET("/rooms/:id/blocked", h.GetBlockedBookings)
}

func (h *Handler) GetAll(c *gin.Context) {
	rooms, bookings, users, err := h.service.Overview(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load overview")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"rooms":    rooms,
		"bookings": bookings,
		"users":    users,
	})
}

func (h *Handler) GetRooms(c *gin.Context) {
	rooms, err := h.service.Rooms(c.Request.Context())
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load rooms")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rooms": rooms})
}

func (h *Handler) GetRoomByID(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	room, bookings, users, err := h.service.RoomDetail(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Room not found")
			return
		}
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load room")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"room":    room,
		"booking": bookings,
		"users":   users,
	})
}

func (h *Handler) GetBlockedBookings(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid room ID")
		return
	}

	from, err1 := time.Parse("2006-01-02", c.Query("start"))
	to, err2 := time.Parse("2006-01-02", c.Query("end"))
	if err1 != nil || err2 != nil || to.Before(from) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "start and end must be YYYY-MM-DD with start <= end")
		return
	}

	bookings, err := h.service.BlockedBookings(c.Request.Context(), roomID, from, to)
	if err != nil {
		c.Error(err) //nolint:errcheck
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}

	response.Success(c, http.StatusOK, bookings)
}
