package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wanderwise/internal/domain"
	"wanderwise/internal/service"
)

// QuoteHandler handles HTTP requests for price quotes and the tier catalog.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// QuoteRequest is the HTTP request body for an ad-hoc quote.
type QuoteRequest struct {
	GroupSize    int      `json:"group_size"`
	StartDate    string   `json:"start_date,omitempty"`
	EndDate      string   `json:"end_date,omitempty"`
	Destinations []string `json:"destinations,omitempty"`
	Tier         string   `json:"tier"`
}

// TierQuoteRequest is the HTTP request body for quoting a stored trip.
type TierQuoteRequest struct {
	Tier string `json:"tier"`
}

// QuoteResponse is the price breakdown in HTTP form; amounts are minor
// currency units.
type QuoteResponse struct {
	Tier                 string `json:"tier"`
	BasePrice            int64  `json:"base_price"`
	PerPersonSurcharge   int64  `json:"per_person_surcharge"`
	DurationSurcharge    int64  `json:"duration_surcharge"`
	DestinationSurcharge int64  `json:"destination_surcharge"`
	Total                int64  `json:"total"`
}

// TierResponse is one catalog entry in HTTP form.
type TierResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	BasePrice int64    `json:"base_price"`
	Features  []string `json:"features"`
}

// GetTiers handles GET /v1/tiers
func (h *QuoteHandler) GetTiers(c *gin.Context) {
	tiers := h.quoteService.Tiers()

	response := make([]TierResponse, 0, len(tiers))
	for _, tier := range tiers {
		response = append(response, TierResponse{
			ID:        string(tier.ID),
			Name:      tier.Name,
			BasePrice: tier.BasePrice,
			Features:  tier.Features,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// Quote handles POST /v1/quotes
func (h *QuoteHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.GroupSize < 1 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "group_size must be at least 1"})
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

	quote, err := h.quoteService.Quote(&domain.Trip{
		GroupSize:    req.GroupSize,
		StartDate:    startDate,
		EndDate:      endDate,
		Destinations: req.Destinations,
	}, domain.TierID(req.Tier))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

// QuoteTrip handles POST /v1/trips/:id/quote
func (h *QuoteHandler) QuoteTrip(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req TierQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.quoteService.QuoteTrip(c.Request.Context(), user, c.Param("id"), domain.TierID(req.Tier))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toQuoteResponse(quote))
}

func toQuoteResponse(quote *domain.PriceQuote) QuoteResponse {
	return QuoteResponse{
		Tier:                 string(quote.TierID),
		BasePrice:            quote.BasePrice,
		PerPersonSurcharge:   quote.PerPersonSurcharge,
		DurationSurcharge:    quote.DurationSurcharge,
		DestinationSurcharge: quote.DestinationSurcharge,
		Total:                quote.Total,
	}
}
