package payment

import (
	"errors"
	"io"
	"net/http"

	"roofshare/internal/pkg/response"
	"roofshare/internal/repository"
	"roofshare/internal/stripe"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewHandler(service *Service, loggerf func(format string, args ...interface{})) *Handler {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	return &Handler{service: service, loggerf: loggerf}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/stripe", h.Webhook)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/connect/accounts", h.CreateConnectAccount)
	rg.GET("/connect/status", h.ConnectStatus)
	rg.GET("/payments/verify", h.VerifyPayment)
}

// Webhook is authenticated solely by the processor's signature header; it
// is not tied to any user session. The response shape is what the
// processor's retry machinery keys on: 2xx acknowledges, 400 marks the
// delivery as bad, 500 asks for redelivery.
func (h *Handler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}
	sigHeader := c.GetHeader("Stripe-Signature")

	if err := h.service.HandleWebhook(c.Request.Context(), payload, sigHeader); err != nil {
		if errors.Is(err, stripe.ErrInvalidSignature) || errors.Is(err, stripe.ErrSignatureExpired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		h.loggerf("level=error msg=webhook processing failed err=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "webhook processing failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) CreateConnectAccount(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	res, err := h.service.CreateConnectAccount(c.Request.Context(), userID)
	if err != nil {
		h.loggerf("level=error msg=connect account creation failed user_id=%d err=%v", userID, err)
		response.Error(c, http.StatusBadGateway, "PROCESSOR_ERROR", "Failed to set up payout account")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) ConnectStatus(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	res, err := h.service.ConnectStatus(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account status")
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	intentID := c.Query("payment_intent_id")
	if intentID == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "payment_intent_id is required")
		return
	}

	res, err := h.service.VerifyPayment(c.Request.Context(), userID, intentID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Payment does not belong to caller")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify payment")
		}
		return
	}
	response.Success(c, http.StatusOK, res)
}
