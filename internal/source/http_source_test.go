package source

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkalmar/homescope/internal/logger"
	"github.com/dkalmar/homescope/internal/models"
)

func fptr(v float64) *float64 { return &v }

func TestFetch_SendsFilterAndDecodesListings(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		assert.Equal(t, "/listings", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"listings": []models.Listing{
				{ID: "l1", PropertyType: models.PropertyApartment, LocationCode: "budapest05", Price: 30_000_000, SizeM2: 60, Rooms: 2, Condition: models.ConditionGood},
			},
		})
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, logger.New("test"))

	filter := models.FilterSpec{
		PropertyType: models.PropertyApartment,
		LocationCode: "budapest05",
		PriceMax:     fptr(50_000_000),
		SizeMin:      fptr(31),
	}

	listings, err := src.Fetch(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, "l1", listings[0].ID)

	assert.Equal(t, []string{"apartment"}, gotQuery["property_type"])
	assert.Equal(t, []string{"budapest05"}, gotQuery["location"])
	assert.Equal(t, []string{"50000000"}, gotQuery["price_max"])
	assert.Equal(t, []string{"31"}, gotQuery["size_min"])
	_, hasPriceMin := gotQuery["price_min"]
	assert.False(t, hasPriceMin, "unset bounds are not sent")
}

func TestFetch_ProviderErrorStatusFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, logger.New("test"))

	_, err := src.Fetch(context.Background(), models.FilterSpec{
		PropertyType: models.PropertyApartment,
		LocationCode: "budapest05",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetch_MalformedBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	src := NewHTTPSource(server.URL, 5*time.Second, logger.New("test"))

	_, err := src.Fetch(context.Background(), models.FilterSpec{
		PropertyType: models.PropertyHouse,
		LocationCode: "debrecen",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode listings")
}
