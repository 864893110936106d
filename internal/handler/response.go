package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/domain"
	"wanderwise/internal/middleware"
	"wanderwise/internal/repository"
	"wanderwise/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// currentUser returns the verified identity the auth middleware attached.
func currentUser(c *gin.Context) (domain.User, bool) {
	return middleware.UserFromContext(c)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
// Raw processor or store errors never reach the client: everything below is
// a taxonomy error carrying at most a short diagnostic string.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Caller input errors - Bad Request
	case errors.Is(err, service.ErrInvalidTier),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidGroupSize),
		errors.Is(err, service.ErrInvalidDates):
		return http.StatusBadRequest

	// Ownership errors
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	// Billing state preconditions and declines
	case errors.Is(err, service.ErrNoCustomer),
		errors.Is(err, service.ErrNoPaymentMethod),
		errors.Is(err, service.ErrChargeDeclined):
		return http.StatusPaymentRequired

	// Processor refused the payment-method token
	case errors.Is(err, service.ErrAttachRejected):
		return http.StatusUnprocessableEntity

	// Transient processor failure; caller may retry the whole request
	case errors.Is(err, service.ErrProcessorUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error (includes ErrPersistenceFailure)
	default:
		return http.StatusInternalServerError
	}
}
