package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// PaymentMethodHandler handles HTTP requests for stored payment methods.
type PaymentMethodHandler struct {
	paymentMethods *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler.
func NewPaymentMethodHandler(paymentMethods *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{paymentMethods: paymentMethods}
}

// AttachRequest is the HTTP request body for attaching a payment method.
type AttachRequest struct {
	PaymentMethodToken string `json:"payment_method_token"`
}

// PaymentMethodInfo contains the display fields of a stored payment method.
type PaymentMethodInfo struct {
	Brand    string `json:"brand"`
	Last4    string `json:"last4"`
	ExpMonth int64  `json:"exp_month"`
	ExpYear  int64  `json:"exp_year"`
}

// PaymentMethodResponse is the HTTP response for payment-method operations.
// PaymentMethod is null when nothing is on file: that is not an error.
type PaymentMethodResponse struct {
	PaymentMethod *PaymentMethodInfo `json:"payment_method"`
}

// Attach handles POST /v1/payment-methods
func (h *PaymentMethodHandler) Attach(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AttachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.PaymentMethodToken == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "payment_method_token is required"})
		return
	}

	// First-time users get their billing customer created here, so attach
	// works without a separate registration call.
	if _, err := h.paymentMethods.EnsureCustomer(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	record, err := h.paymentMethods.Attach(c.Request.Context(), user, req.PaymentMethodToken)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, PaymentMethodResponse{PaymentMethod: toPaymentMethodInfo(record)})
}

// Get handles GET /v1/payment-methods
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	record, err := h.paymentMethods.Get(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, PaymentMethodResponse{PaymentMethod: toPaymentMethodInfo(record)})
}

func toPaymentMethodInfo(record *domain.PaymentMethodRecord) *PaymentMethodInfo {
	if !record.HasDefaultMethod() {
		return nil
	}
	return &PaymentMethodInfo{
		Brand:    record.CardBrand,
		Last4:    record.CardLast4,
		ExpMonth: record.CardExpMonth,
		ExpYear:  record.CardExpYear,
	}
}
