package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitOfferRowTitleAndDescription(t *testing.T) {
	raw, ok := splitOfferRow("Bank Offer\nFlat ₹1000 Instant Discount on HDFC Bank Credit Card")
	require.True(t, ok)
	assert.Equal(t, "Bank Offer", raw.CardTitle)
	assert.Equal(t, "Flat ₹1000 Instant Discount on HDFC Bank Credit Card", raw.Description)
}

func TestSplitOfferRowSingleLine(t *testing.T) {
	raw, ok := splitOfferRow("  Flat ₹500 off on SBI Cards  ")
	require.True(t, ok)
	assert.Empty(t, raw.CardTitle)
	assert.Equal(t, "Flat ₹500 off on SBI Cards", raw.Description)
}

func TestSplitOfferRowMultiLineDescription(t *testing.T) {
	raw, ok := splitOfferRow("No Cost EMI\nline one\nline two")
	require.True(t, ok)
	assert.Equal(t, "No Cost EMI", raw.CardTitle)
	assert.Equal(t, "line one\nline two", raw.Description)
}

func TestSplitOfferRowEmpty(t *testing.T) {
	_, ok := splitOfferRow("   ")
	assert.False(t, ok)
}

func TestRetailerSelectorsCoverEveryRetailer(t *testing.T) {
	for _, retailer := range []string{"amazon", "flipkart", "croma", "jiomart"} {
		sel, ok := retailerSelectors[retailer]
		require.True(t, ok, retailer)
		assert.NotEmpty(t, sel.offerRows, retailer)
		assert.NotEmpty(t, sel.price, retailer)
	}
}
