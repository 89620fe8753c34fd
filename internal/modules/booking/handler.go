package booking

import (
	"errors"
	"net/http"
	"strconv"

	"roofshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.CreateBooking)
	rg.GET("/bookings/my", h.MyBookings)
	rg.GET("/bookings/incoming", h.IncomingBookings)
}

// CreateBooking returns the processor-facing payload of spec'd shape
// {client_secret, payment_intent_id, booking_id, ...} rather than the usual
// envelope: the checkout client consumes it directly.
func (h *Handler) CreateBooking(c *gin.Context) {
	renterID := c.GetInt64("user_id")
	if renterID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
		return
	}

	res, err := h.service.CreateBooking(c.Request.Context(), renterID, req)
	if err != nil {
		status, msg := mapBookingError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, res)
}

func mapBookingError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "invalid booking request"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "listing not found"
	case errors.Is(err, ErrLandlordNotPayable):
		return http.StatusBadRequest, "landlord has not completed payment setup"
	case errors.Is(err, ErrNotAvailable):
		return http.StatusConflict, "listing is not available for the requested dates"
	case errors.Is(err, ErrProcessor):
		return http.StatusBadGateway, "payment processor error"
	default:
		return http.StatusInternalServerError, "failed to create booking"
	}
}

func (h *Handler) MyBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	limit, offset := pagination(c)

	rows, err := h.service.GetMyBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func (h *Handler) IncomingBookings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	limit, offset := pagination(c)

	rows, err := h.service.GetIncomingBookings(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load bookings")
		return
	}
	response.Success(c, http.StatusOK, rows)
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}
