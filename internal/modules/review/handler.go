package review

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

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/dachboxes/:id/reviews", h.ListByListing)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/reviews", h.Create)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or malformed fields")
		return
	}

	review, err := h.service.CreateReview(c.Request.Context(), userID, req)
	if err != nil {
		status, code, msg := mapReviewError(err)
		response.Error(c, status, code, msg)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

func (h *Handler) ListByListing(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}

	reviews, err := h.service.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reviews")
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

func mapReviewError(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Booking not found"
	case errors.Is(err, ErrNotRenter):
		return http.StatusForbidden, "FORBIDDEN", "Only the renter may review this booking"
	case errors.Is(err, ErrNotReviewable):
		return http.StatusBadRequest, "NOT_REVIEWABLE", "Rental period is not over yet"
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict, "ALREADY_REVIEWED", "This booking has already been reviewed"
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error"
	}
}
