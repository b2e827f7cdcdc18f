package scraper

// selectorSet holds the per-retailer CSS selectors, each list in priority
// order. Live retail markup churns constantly; these chase the current
// layouts and are expected to rot.
type selectorSet struct {
	offerRows []string
	price     []string
	soldOut   []string
}

var retailerSelectors = map[string]selectorSet{
	"amazon": {
		offerRows: []string{
			".a-carousel-card .offers-items-content",
			".a-carousel-card",
			"#itembox-InstantBankDiscount .a-section",
			"[id^='offer-display-card']",
		},
		price: []string{
			".a-price .a-price-whole",
			"#corePrice_feature_div .a-offscreen",
			".a-price .a-offscreen",
		},
		soldOut: []string{
			"#availability",
			"#outOfStock",
		},
	},
	"flipkart": {
		offerRows: []string{
			".NYb6Oz",
			"li.kF1Ml8, li._16eBzU",
			"[class*='offer'] li",
		},
		price: []string{
			".Nx9bqj.CxhGGd",
			"div._30jeq3._16Jk6d",
			"[class*='price']",
		},
		soldOut: []string{
			".Z8JjpR",
			"._16FRp0",
		},
	},
	"croma": {
		offerRows: []string{
			".bank-offers-section li",
			".offer-section .offer-item",
			"[class*='bankOffer']",
		},
		price: []string{
			".amount",
			"[data-testid='new-price'] .amount",
			".pdp-price .amount",
		},
		soldOut: []string{
			".out-of-stock-text",
			".pdp-out-of-stock",
		},
	},
	"jiomart": {
		offerRows: []string{
			".offers-list li",
			"#bank_offers .offer-card",
			"[class*='offer-strip']",
		},
		price: []string{
			"#price_section .jm-heading-xs",
			".product-price .jm-heading-xs",
			"[class*='final-price']",
		},
		soldOut: []string{
			".sold-out-tag",
			".out-of-stock",
		},
	},
}
