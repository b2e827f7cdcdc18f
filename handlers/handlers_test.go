package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"offertrack/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()
	h := NewHandlers(nil, nil, nil, cache.NewInMemoryCache())
	t.Cleanup(h.Close)
	return h
}

type rankResponse struct {
	ProductPrice float64 `json:"product_price"`
	Retailer     string  `json:"retailer"`
	TotalOffers  int     `json:"total_offers"`
	RankedOffers []struct {
		Title        string   `json:"title"`
		Bank         string   `json:"bank"`
		Score        *float64 `json:"score"`
		Rank         *int     `json:"rank"`
		IsApplicable bool     `json:"is_applicable"`
	} `json:"ranked_offers"`
}

func postRank(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offers/rank", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.RankOffers(rec, req)
	return rec
}

func TestRankOffersEndpoint(t *testing.T) {
	h := newTestHandlers(t)

	rec := postRank(t, h, `{
		"product_price": 25000,
		"retailer": "amazon",
		"offers": [
			{"card_type": "Bank Offer", "offer_description": "Flat ₹1000 Instant Discount on HDFC Bank Credit Card"},
			{"card_type": "No Cost EMI", "offer_description": "No Cost EMI on select cards"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp rankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25000.0, resp.ProductPrice)
	assert.Equal(t, 2, resp.TotalOffers)
	require.Len(t, resp.RankedOffers, 2)

	// The bank offer comes first, scored and ranked.
	assert.Equal(t, "Bank Offer", resp.RankedOffers[0].Title)
	assert.Equal(t, "HDFC", resp.RankedOffers[0].Bank)
	require.NotNil(t, resp.RankedOffers[0].Score)
	require.NotNil(t, resp.RankedOffers[0].Rank)
	assert.Equal(t, 1, *resp.RankedOffers[0].Rank)
	assert.True(t, resp.RankedOffers[0].IsApplicable)

	// The EMI offer is unranked.
	assert.Nil(t, resp.RankedOffers[1].Score)
	assert.Nil(t, resp.RankedOffers[1].Rank)
}

func TestRankOffersEndpointStringPrice(t *testing.T) {
	h := newTestHandlers(t)

	rec := postRank(t, h, `{
		"product_price": "₹25,000",
		"offers": [
			{"card_type": "Bank Offer", "offer_description": "Flat ₹1000 off on SBI Credit Card"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp rankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25000.0, resp.ProductPrice)
	require.Len(t, resp.RankedOffers, 1)
	assert.Equal(t, "SBI", resp.RankedOffers[0].Bank)
}

func TestRankOffersEndpointUnknownRetailerFallsBack(t *testing.T) {
	h := newTestHandlers(t)

	rec := postRank(t, h, `{
		"product_price": 1000,
		"retailer": "ebay",
		"offers": [{"card_type": "Bank Offer", "offer_description": "Flat ₹100 off on Axis Bank Cards"}]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp rankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.TotalOffers)
}

func TestRankOffersEndpointEmptyOffers(t *testing.T) {
	h := newTestHandlers(t)

	rec := postRank(t, h, `{"product_price": 9999, "offers": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rankResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.TotalOffers)
	assert.NotNil(t, resp.RankedOffers)
	assert.Empty(t, resp.RankedOffers)
}

func TestRankOffersEndpointBadInput(t *testing.T) {
	h := newTestHandlers(t)

	rec := postRank(t, h, `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postRank(t, h, `{"product_price": true, "offers": []}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNormalizePrice(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
		ok    bool
	}{
		{"number", 15999.0, 15999, true},
		{"string with symbol", "₹1,299", 1299, true},
		{"plain string", "500", 500, true},
		{"unparseable string", "call for price", 0, true},
		{"missing", nil, 0, true},
		{"negative number", -50.0, 0, true},
		{"wrong type", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := normalizePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}
