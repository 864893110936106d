package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/service"
)

// ChargeHandler handles HTTP requests for off-session charges.
type ChargeHandler struct {
	chargeService *service.ChargeService
}

// NewChargeHandler creates a new ChargeHandler.
func NewChargeHandler(chargeService *service.ChargeService) *ChargeHandler {
	return &ChargeHandler{chargeService: chargeService}
}

// ChargeRequest is the HTTP request body for charging a trip.
type ChargeRequest struct {
	TripID string `json:"trip_id"`
	Amount int64  `json:"amount"` // minor currency units
}

// ChargeResponse is the HTTP response for a settlement attempt.
type ChargeResponse struct {
	Status    string `json:"status"`
	ChargeID  string `json:"charge_id,omitempty"`
	TripID    string `json:"trip_id"`
	Amount    int64  `json:"amount"`
	CreatedAt string `json:"created_at"`
}

// Charge handles POST /v1/charges
func (h *ChargeHandler) Charge(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req ChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	attempt, err := h.chargeService.Charge(c.Request.Context(), user, service.ChargeRequest{
		TripID: req.TripID,
		Amount: req.Amount,
	})
	if err != nil {
		// A decline still produced a ledger row; return the attempt so the
		// caller can prompt the user to update their payment method.
		if attempt != nil && errors.Is(err, service.ErrChargeDeclined) {
			c.JSON(http.StatusPaymentRequired, ChargeResponse{
				Status:    string(attempt.Status),
				ChargeID:  attempt.ChargeID,
				TripID:    attempt.TripID,
				Amount:    attempt.Amount,
				CreatedAt: attempt.CreatedAt.Format(time.RFC3339),
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ChargeResponse{
		Status:    string(attempt.Status),
		ChargeID:  attempt.ChargeID,
		TripID:    attempt.TripID,
		Amount:    attempt.Amount,
		CreatedAt: attempt.CreatedAt.Format(time.RFC3339),
	})
}
