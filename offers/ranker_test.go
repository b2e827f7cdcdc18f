package offers

import (
	"encoding/json"
	"testing"

	"offertrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRanker() *Ranker {
	return NewRanker(NewBankRegistry(), ConfigFor("amazon"))
}

func rankOne(t *testing.T, r *Ranker, raw models.RawOffer, price float64) models.RankedOffer {
	t.Helper()
	ranked := r.RankOffers([]models.RawOffer{raw}, price)
	require.Len(t, ranked, 1)
	return ranked[0]
}

func TestRankOffersApplicableBankOffer(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹1000 Instant Discount on HDFC Bank Credit Card, Minimum purchase value of INR 20000",
	}, 25000)

	assert.Equal(t, 1000.0, ro.Amount)
	assert.Equal(t, "HDFC", ro.Bank)
	assert.Equal(t, models.CardTypeCredit, ro.CardType)
	require.NotNil(t, ro.MinSpend)
	assert.Equal(t, 20000.0, *ro.MinSpend)
	assert.True(t, ro.IsApplicable)
	assert.Equal(t, 24000.0, ro.NetEffectivePrice)

	// 80 base + 8 discount + 2 easy min-spend + 5 instant + 7.5 HDFC
	// + 3 credit = 105.5, clamped.
	require.NotNil(t, ro.Score)
	assert.Equal(t, 100.0, *ro.Score)
	require.NotNil(t, ro.Rank)
	assert.Equal(t, 1, *ro.Rank)
	assert.NotEmpty(t, ro.Note)
}

func TestRankOffersMinSpendShortfallResetsScore(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹1000 Instant Discount on HDFC Bank Credit Card, Minimum purchase value of INR 20000",
	}, 10000)

	assert.False(t, ro.IsApplicable)
	assert.Equal(t, 10000.0, ro.NetEffectivePrice)

	// Shortfall is 100% of the price, so the score resets to 15, then the
	// later adjustments still apply: +5 instant +7.5 HDFC +3 credit.
	require.NotNil(t, ro.Score)
	assert.InDelta(t, 30.5, *ro.Score, 1e-9)
}

func TestRankOffersCapPhrasingYieldsAmountNotPercentage(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Up to 10% Discount up to INR 2000 on ICICI Bank Cards",
	}, 15000)

	assert.Equal(t, 2000.0, ro.Amount)
	assert.Nil(t, ro.Percentage)
	assert.Equal(t, "ICICI", ro.Bank)
	assert.True(t, ro.IsApplicable)
	assert.Equal(t, 13000.0, ro.NetEffectivePrice)
}

func TestRankOffersNoBankNoMinSpend(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹500 Instant Discount",
	}, 5000)

	assert.Empty(t, ro.Bank)
	assert.Nil(t, ro.MinSpend)
	assert.True(t, ro.IsApplicable)
	assert.Equal(t, 4500.0, ro.NetEffectivePrice)

	// 80 + 20 discount + 20 no-min-spend + 5 instant - 5 no bank = 120,
	// clamped.
	require.NotNil(t, ro.Score)
	assert.Equal(t, 100.0, *ro.Score)
}

func TestRankOffersEmptyInput(t *testing.T) {
	r := newTestRanker()
	ranked := r.RankOffers(nil, 9999)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)

	ranked = r.RankOffers([]models.RawOffer{}, 0)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRankOffersCreditAndDebit(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "5% off on SBI Credit Card and Debit Card transactions",
	}, 10000)

	assert.Equal(t, models.CardTypeCreditDebit, ro.CardType)
}

func TestRankOffersPercentageBasis(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Get 10% off on Axis Bank Credit Card",
	}, 20000)

	require.NotNil(t, ro.Percentage)
	assert.Equal(t, 10.0, *ro.Percentage)
	assert.Equal(t, 0.0, ro.Amount)
	assert.Equal(t, 18000.0, ro.NetEffectivePrice)
}

func TestRankOffersNetPriceFlooredAtZero(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹2000 Instant Discount on HDFC Bank Cards",
	}, 1000)

	assert.True(t, ro.IsApplicable)
	assert.Equal(t, 0.0, ro.NetEffectivePrice)
}

func TestRankOffersZeroPriceNeverPanics(t *testing.T) {
	r := newTestRanker()
	ro := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹1000 off on HDFC Bank Cards, minimum purchase of ₹5000",
	}, 0)

	assert.False(t, ro.IsApplicable)
	require.NotNil(t, ro.Score)
	assert.GreaterOrEqual(t, *ro.Score, 0.0)
	assert.LessOrEqual(t, *ro.Score, 100.0)
}

func TestRankOffersOrderingAndRanks(t *testing.T) {
	r := newTestRanker()
	raws := []models.RawOffer{
		{CardTitle: "No Cost EMI", Description: "No Cost EMI on orders above ₹9,999 or more"},
		{CardTitle: "Bank Offer", Description: "Flat ₹200 Instant Discount on Federal Bank Debit Cards, minimum purchase of ₹15000"},
		{CardTitle: "Exchange Offer", Description: "Up to ₹5000 off on exchange"},
		{CardTitle: "Bank Offer", Description: "Flat ₹1000 Instant Discount on HDFC Bank Credit Card"},
	}

	ranked := r.RankOffers(raws, 10000)
	require.Len(t, ranked, 4)

	// Bank offers first, ordered by score descending with contiguous ranks.
	assert.Equal(t, models.OfferTypeBank, ranked[0].OfferType)
	assert.Equal(t, models.OfferTypeBank, ranked[1].OfferType)
	require.NotNil(t, ranked[0].Score)
	require.NotNil(t, ranked[1].Score)
	assert.GreaterOrEqual(t, *ranked[0].Score, *ranked[1].Score)
	require.NotNil(t, ranked[0].Rank)
	require.NotNil(t, ranked[1].Rank)
	assert.Equal(t, 1, *ranked[0].Rank)
	assert.Equal(t, 2, *ranked[1].Rank)
	assert.Equal(t, "HDFC", ranked[0].Bank)

	// Non-bank offers keep their input order and carry no score or rank.
	assert.Equal(t, models.OfferTypeNoCostEMI, ranked[2].OfferType)
	assert.Equal(t, models.OfferTypeExchange, ranked[3].OfferType)
	assert.Nil(t, ranked[2].Score)
	assert.Nil(t, ranked[2].Rank)
	assert.Nil(t, ranked[3].Score)
	assert.Nil(t, ranked[3].Rank)
}

func TestRankOffersStableTieBreak(t *testing.T) {
	r := newTestRanker()

	// Identical offers score identically; input order must survive.
	raws := []models.RawOffer{
		{CardTitle: "Bank Offer", Description: "Flat ₹500 off on Axis Bank Credit Card, first offer"},
		{CardTitle: "Bank Offer", Description: "Flat ₹500 off on Axis Bank Credit Card, second offer"},
	}

	ranked := r.RankOffers(raws, 20000)
	require.Len(t, ranked, 2)
	assert.Contains(t, ranked[0].Description, "first offer")
	assert.Contains(t, ranked[1].Description, "second offer")
}

func TestRankOffersDeterministic(t *testing.T) {
	r := newTestRanker()
	raws := []models.RawOffer{
		{CardTitle: "Bank Offer", Description: "10% off up to ₹1,750 on ICICI or HDFC Bank Credit Cards, min spend: ₹10000"},
		{CardTitle: "Bank Offer", Description: "Flat ₹1500 Instant Discount on SBI Debit Card"},
		{CardTitle: "Cashback", Description: "Get ₹300 cashback on Paytm"},
	}

	first, err := json.Marshal(r.RankOffers(raws, 42999))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(r.RankOffers(raws, 42999))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestRankOffersScoreBounds(t *testing.T) {
	r := newTestRanker()
	descriptions := []string{
		"Flat ₹50,000 Instant Discount on Amex Premium Credit Card",
		"Flat ₹10 off, minimum purchase of ₹14000",
		"Bank offer with no extractable fields at all",
	}

	for _, d := range descriptions {
		ro := rankOne(t, r, models.RawOffer{CardTitle: "Bank Offer", Description: d}, 10000)
		require.NotNil(t, ro.Score, d)
		assert.GreaterOrEqual(t, *ro.Score, 0.0, d)
		assert.LessOrEqual(t, *ro.Score, 100.0, d)
	}
}

func TestRankOffersJioMartDigitalPaymentBonus(t *testing.T) {
	jio := NewRanker(NewBankRegistry(), ConfigFor("jiomart"))
	amazon := newTestRanker()

	raw := models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹20 instant discount via UPI, minimum purchase of ₹500",
	}

	jioOffer := rankOne(t, jio, raw, 1000)
	amazonOffer := rankOne(t, amazon, raw, 1000)

	// JioMart recognizes UPI as a quasi-bank and grants the digital
	// payment bonus; Amazon sees no bank at all.
	assert.Equal(t, "UPI", jioOffer.Bank)
	assert.Empty(t, amazonOffer.Bank)
	require.NotNil(t, jioOffer.Score)
	require.NotNil(t, amazonOffer.Score)
	assert.Greater(t, *jioOffer.Score, *amazonOffer.Score)
}

func TestScoreOfferBankReputation(t *testing.T) {
	r := newTestRanker()

	parse := func(desc string) models.Offer {
		return r.Parser().ParseOffer(models.RawOffer{CardTitle: "Bank Offer", Description: desc})
	}

	// ICICI (90) outscores Federal (the baseline 70) on otherwise equal
	// offers.
	icici := r.scoreOffer(parse("Flat ₹500 off on ICICI Credit Card"), 10000)
	federal := r.scoreOffer(parse("Flat ₹500 off on Federal Credit Card"), 10000)
	assert.Greater(t, icici, federal)
}

func TestScoreOfferNonBankIsZero(t *testing.T) {
	r := newTestRanker()
	offer := r.Parser().ParseOffer(models.RawOffer{CardTitle: "Exchange Offer", Description: "Up to ₹3000 off on exchange"})
	assert.Equal(t, 0.0, r.scoreOffer(offer, 10000))
}

func TestGenerateNoteBranches(t *testing.T) {
	r := newTestRanker()

	applicable := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹1000 Instant Discount on HDFC Bank Credit Card, Minimum purchase value of INR 20000",
	}, 25000)
	assert.Contains(t, applicable.Note, "1,000")
	assert.Contains(t, applicable.Note, "24,000")

	notApplicable := rankOne(t, r, models.RawOffer{
		CardTitle:   "Bank Offer",
		Description: "Flat ₹1000 Instant Discount on HDFC Bank Credit Card, Minimum purchase value of INR 20000",
	}, 10000)
	assert.NotEqual(t, applicable.Note, notApplicable.Note)
	assert.Contains(t, notApplicable.Note, "20,000")
}
