// Package source provides the client for the upstream listing provider.
// The provider does the expensive scraping and normalization; this package
// only fetches its cleaned output.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dkalmar/homescope/internal/logger"
	"github.com/dkalmar/homescope/internal/models"
)

// DefaultTimeout bounds one upstream fetch. Refreshes are coalesced per
// search key upstream of this client, so a slow provider blocks at most one
// in-flight request per key.
const DefaultTimeout = 30 * time.Second

// HTTPSource fetches listings from the provider's HTTP API.
type HTTPSource struct {
	client  *resty.Client
	baseURL string
	log     *logger.Logger
}

// NewHTTPSource creates a listing source against the given provider base URL.
// A non-positive timeout defaults to DefaultTimeout.
func NewHTTPSource(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := resty.New()
	client.SetTimeout(timeout)

	return &HTTPSource{
		client:  client,
		baseURL: baseURL,
		log:     log,
	}
}

// listingsEnvelope is the provider's response shape.
type listingsEnvelope struct {
	Listings []models.Listing `json:"listings"`
}

// Fetch retrieves all listings matching the filter from the provider.
func (s *HTTPSource) Fetch(ctx context.Context, filter models.FilterSpec) ([]models.Listing, error) {
	req := s.client.R().SetContext(ctx).
		SetQueryParam("property_type", string(filter.PropertyType)).
		SetQueryParam("location", filter.LocationCode)

	setBound(req, "price_min", filter.PriceMin)
	setBound(req, "price_max", filter.PriceMax)
	setBound(req, "size_min", filter.SizeMin)
	setBound(req, "size_max", filter.SizeMax)
	setBound(req, "rooms_min", filter.RoomsMin)
	setBound(req, "rooms_max", filter.RoomsMax)

	resp, err := req.Get(s.baseURL + "/listings")
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch listings: provider returned %d", resp.StatusCode())
	}

	var envelope listingsEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("decode listings: %w", err)
	}

	s.log.Info("Fetched listings from provider", map[string]interface{}{
		"key":   filter.CacheKey(),
		"count": len(envelope.Listings),
	})
	return envelope.Listings, nil
}

// setBound adds an optional numeric bound as a query parameter.
func setBound(req *resty.Request, name string, value *float64) {
	if value == nil {
		return
	}
	req.SetQueryParam(name, strconv.FormatFloat(*value, 'f', -1, 64))
}
