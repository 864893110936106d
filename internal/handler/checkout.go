package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/service"
)

// CheckoutHandler handles HTTP requests for hosted checkout sessions.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// CreateSessionRequest is the HTTP request body for creating a checkout session.
type CreateSessionRequest struct {
	TripID   string `json:"trip_id"`
	Amount   int64  `json:"amount"` // minor currency units
	TierName string `json:"tier_name,omitempty"`
}

// CreateSessionResponse carries the hosted payment page URL.
type CreateSessionResponse struct {
	URL string `json:"url"`
}

// CreateSession handles POST /v1/checkout-sessions
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	url, err := h.checkoutService.CreateSession(c.Request.Context(), user, service.CreateSessionRequest{
		TripID:   req.TripID,
		Amount:   req.Amount,
		TierName: req.TierName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CreateSessionResponse{URL: url})
}
