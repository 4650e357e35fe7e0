package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/dkalmar/homescope/internal/cache"
	apierrors "github.com/dkalmar/homescope/internal/errors"
	"github.com/dkalmar/homescope/internal/ledger"
	"github.com/dkalmar/homescope/internal/market"
	"github.com/dkalmar/homescope/internal/middleware"
	"github.com/dkalmar/homescope/internal/models"
	"github.com/dkalmar/homescope/internal/services"
)

// SearchHandler handles listing-search HTTP requests.
type SearchHandler struct {
	service services.SearchService
}

// NewSearchHandler creates a new SearchHandler instance.
func NewSearchHandler(service services.SearchService) *SearchHandler {
	return &SearchHandler{
		service: service,
	}
}

// SearchRequest represents the query parameters for the search endpoint.
type SearchRequest struct {
	PropertyType string   `form:"property_type" binding:"required,oneof=apartment house plot"`
	Location     string   `form:"location" binding:"required"`
	PriceMin     *float64 `form:"price_min" binding:"omitempty,min=0"`
	PriceMax     *float64 `form:"price_max" binding:"omitempty,min=0"`
	SizeMin      *float64 `form:"size_min" binding:"omitempty,min=0"`
	SizeMax      *float64 `form:"size_max" binding:"omitempty,min=0"`
	RoomsMin     *float64 `form:"rooms_min" binding:"omitempty,min=0"`
	RoomsMax     *float64 `form:"rooms_max" binding:"omitempty,min=0"`
	Sort         string   `form:"sort" binding:"omitempty,oneof=price_asc price_desc size_asc size_desc score_asc score_desc delta_asc delta_desc"`
}

// SearchResponse represents the response for the search endpoint.
type SearchResponse struct {
	Action   string                   `json:"action"`
	RecordID string                   `json:"record_id"`
	Listings []services.ScoredListing `json:"listings"`
	Stats    []market.SegmentStats    `json:"stats"`
	Count    int                      `json:"count"`
	Unscored int                      `json:"unscored"`
}

// BandsResponse represents the response for the bands endpoint.
type BandsResponse struct {
	Bands []BandData `json:"bands"`
	Count int        `json:"count"`
}

// BandData represents one size band in the API response.
type BandData struct {
	ID    int     `json:"id"`
	Label string  `json:"label"`
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper,omitempty"`
}

// Search handles GET /api/v1/search.
// It serves scored listings for the given filter, reusing a cached dataset
// when a fresh covering search exists and fetching otherwise.
func (h *SearchHandler) Search(c *gin.Context) {
	log := middleware.GetLogger(c)

	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return
	}

	filter := models.FilterSpec{
		PropertyType: models.PropertyType(req.PropertyType),
		LocationCode: req.Location,
		PriceMin:     req.PriceMin,
		PriceMax:     req.PriceMax,
		SizeMin:      req.SizeMin,
		SizeMax:      req.SizeMax,
		RoomsMin:     req.RoomsMin,
		RoomsMax:     req.RoomsMax,
	}

	if log != nil {
		log.Info("Processing search request", map[string]interface{}{
			"property_type": req.PropertyType,
			"location":      req.Location,
			"sort":          req.Sort,
		})
	}

	result, err := h.service.Search(c.Request.Context(), filter, services.SortKey(req.Sort))
	if err != nil {
		if errors.Is(err, models.ErrInvalidFilter) {
			apierrors.BadRequest(c, err.Error(), nil)
			return
		}
		if errors.Is(err, ledger.ErrUnavailable) {
			apierrors.LedgerUnavailable(c, err)
			return
		}
		if errors.Is(err, cache.ErrRefreshFailed) {
			apierrors.RefreshFailed(c, err)
			return
		}
		apierrors.InternalServerError(c, "Failed to run search", err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Action:   string(result.Decision.Action),
		RecordID: result.RecordID,
		Listings: result.Listings,
		Stats:    result.Stats,
		Count:    len(result.Listings),
		Unscored: result.Unscored,
	})
}

// Bands handles GET /api/v1/market/bands.
// It returns the fixed segmentation table so clients can label results
// without hardcoding the band boundaries.
func (h *SearchHandler) Bands(c *gin.Context) {
	bands := market.Bands()
	data := make([]BandData, 0, len(bands))
	for _, b := range bands {
		bd := BandData{
			ID:    b.ID,
			Label: b.Label(),
			Lower: b.Lower,
		}
		// The open-ended top band has no finite upper bound; it is
		// omitted from the JSON rather than serialized as +Inf.
		if !b.OpenEnded() {
			bd.Upper = b.Upper
		}
		data = append(data, bd)
	}

	c.JSON(http.StatusOK, BandsResponse{
		Bands: data,
		Count: len(data),
	})
}
