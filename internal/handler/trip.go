package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// TripHandler handles HTTP requests for trips.
type TripHandler struct {
	tripService *service.TripService
	ledger      *service.LedgerService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService, ledger *service.LedgerService) *TripHandler {
	return &TripHandler{tripService: tripService, ledger: ledger}
}

// CreateTripRequest is the HTTP request body for creating a trip.
type CreateTripRequest struct {
	GroupSize    int      `json:"group_size"`
	StartDate    string   `json:"start_date,omitempty"` // RFC 3339 date
	EndDate      string   `json:"end_date,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
}

// TripResponse is the HTTP response for trip operations.
type TripResponse struct {
	ID           string   `json:"id"`
	GroupSize    int      `json:"group_size"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
	Status       string   `json:"status"`
	PricePaid    int64    `json:"price_paid,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

// PaymentAttemptResponse is one ledger row in HTTP form.
type PaymentAttemptResponse struct {
	ID        string `json:"id"`
	TripID    string `json:"trip_id"`
	Amount    int64  `json:"amount"`
	ChargeID  string `json:"charge_id,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

// CreateTrip handles POST /v1/trips
func (h *TripHandler) CreateTrip(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	startDate, ok := parseDate(req.StartDate)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date"})
		return
	}
	endDate, ok := parseDate(req.EndDate)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date"})
		return
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), user, service.CreateTripRequest{
		GroupSize:    req.GroupSize,
		StartDate:    startDate,
		EndDate:      endDate,
		Destinations: req.Destinations,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toTripResponse(trip))
}

// GetTrip handles GET /v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	trip, err := h.tripService.GetTrip(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toTripResponse(trip))
}

// GetAll handles GET /v1/trips
func (h *TripHandler) GetAll(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	trips, err := h.tripService.GetTrips(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, toTripResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetPayments handles GET /v1/trips/:id/payments
func (h *TripHandler) GetPayments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	// Ownership check via the trip itself before exposing ledger rows.
	trip, err := h.tripService.GetTrip(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	attempts, err := h.ledger.Attempts(c.Request.Context(), trip.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]PaymentAttemptResponse, 0, len(attempts))
	for _, attempt := range attempts {
		response = append(response, PaymentAttemptResponse{
			ID:        attempt.ID,
			TripID:    attempt.TripID,
			Amount:    attempt.Amount,
			ChargeID:  attempt.ChargeID,
			Status:    string(attempt.Status),
			CreatedAt: attempt.CreatedAt.Format(time.RFC3339),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

func toTripResponse(trip *domain.Trip) TripResponse {
	response := TripResponse{
		ID:           trip.ID,
		GroupSize:    trip.GroupSize,
		Destinations: trip.Destinations,
		Status:       string(trip.Status),
		PricePaid:    trip.PricePaid,
		CreatedAt:    trip.CreatedAt.Format(time.RFC3339),
	}
	if !trip.StartDate.IsZero() {
		response.StartDate = trip.StartDate.Format("2006-01-02")
	}
	if !trip.EndDate.IsZero() {
		response.EndDate = trip.EndDate.Format("2006-01-02")
	}
	return response
}

// parseDate accepts an empty string (flexible dates) or a YYYY-MM-DD date.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
