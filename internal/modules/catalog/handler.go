package catalog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"roofshare/internal/domain"
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
	rg.GET("/dachboxes", h.Search)
	rg.GET("/dachboxes/:id", h.GetByID)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/dachboxes", h.Create)
	rg.PUT("/dachboxes/:id", h.Update)
	rg.DELETE("/dachboxes/:id", h.Delete)
	rg.GET("/dachboxes/my/list", h.MyListings)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or malformed fields")
		return
	}

	listing, err := h.service.CreateListing(c.Request.Context(), userID, req)
	if err != nil {
		status, code, msg := mapCatalogError(err)
		response.Error(c, status, code, msg)
		return
	}
	response.Success(c, http.StatusCreated, listing)
}

func (h *Handler) Update(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}

	var req UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing or malformed fields")
		return
	}

	listing, err := h.service.UpdateListing(c.Request.Context(), userID, listingID, req)
	if err != nil {
		status, code, msg := mapCatalogError(err)
		response.Error(c, status, code, msg)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}

	if err := h.service.DeleteListing(c.Request.Context(), userID, listingID); err != nil {
		status, code, msg := mapCatalogError(err)
		response.Error(c, status, code, msg)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) GetByID(c *gin.Context) {
	listingID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid listing id")
		return
	}

	listing, reviews, err := h.service.GetListing(c.Request.Context(), listingID)
	if err != nil {
		status, code, msg := mapCatalogError(err)
		response.Error(c, status, code, msg)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"dachbox": listing,
		"reviews": reviews,
	})
}

func (h *Handler) Search(c *gin.Context) {
	filters := domain.SearchFilters{
		City:       c.Query("city"),
		PostalCode: c.Query("postal_code"),
	}
	if v := c.Query("min_price"); v != "" {
		filters.MinPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("max_price"); v != "" {
		filters.MaxPrice, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("min_volume"); v != "" {
		filters.MinVolume, _ = strconv.Atoi(v)
	}
	if v := c.Query("mounting_type"); v != "" {
		for _, raw := range strings.Split(v, ",") {
			mt := domain.MountingType(strings.TrimSpace(raw))
			if mt.Valid() {
				filters.MountingTypes = append(filters.MountingTypes, mt)
			}
		}
	}
	if v := c.Query("has_lock"); v != "" {
		b := v == "true" || v == "1"
		filters.HasLock = &b
	}
	if v := c.Query("includes_roof_rack"); v != "" {
		b := v == "true" || v == "1"
		filters.IncludesRoofRack = &b
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	listings, err := h.service.SearchListings(c.Request.Context(), filters, limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search listings")
		return
	}
	response.Success(c, http.StatusOK, listings)
}

func (h *Handler) MyListings(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	listings, err := h.service.MyListings(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load listings")
		return
	}
	response.Success(c, http.StatusOK, listings)
}

func mapCatalogError(err error) (int, string, string) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "Listing not found"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "Listing belongs to another user"
	case errors.Is(err, ErrPriceOutOfBand):
		return http.StatusBadRequest, "PRICE_OUT_OF_BAND", err.Error()
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error"
	}
}
