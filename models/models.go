package models

import (
	"database/sql"
	"time"
)

// OfferType classifies a parsed offer. The five named kinds are scored and
// templated explicitly; anything else keeps its scraped label as the type.
type OfferType string

const (
	OfferTypeBank      OfferType = "Bank Offer"
	OfferTypeNoCostEMI OfferType = "No Cost EMI"
	OfferTypeCashback  OfferType = "Cashback"
	OfferTypeExchange  OfferType = "Exchange Offer"
	OfferTypePartner   OfferType = "Partner Offers"
	OfferTypeOther     OfferType = "Other Offer"
)

// CardType is the card family an offer is restricted to.
type CardType string

const (
	CardTypeCredit      CardType = "Credit"
	CardTypeDebit       CardType = "Debit"
	CardTypeCreditDebit CardType = "Credit/Debit"
)

// RawOffer is one offer row exactly as scraped from a product page. No field
// is trusted: either may be empty, truncated, or marketing gibberish.
type RawOffer struct {
	CardTitle   string `json:"card_type"`
	Description string `json:"offer_description"`
}

// Offer is the structured form of a single RawOffer. It is created once by
// the parser and never mutated afterwards.
type Offer struct {
	Title        string
	Description  string
	Amount       float64
	Percentage   *float64
	Type         OfferType
	Bank         string
	CardType     CardType
	CardProvider string
	MinSpend     *float64
	Validity     string
	IsInstant    bool
}

// RankedOffer is the output record for one offer at a given product price.
// Score and Rank are nil for every non-bank offer.
type RankedOffer struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Amount            float64   `json:"amount"`
	Percentage        *float64  `json:"percentage,omitempty"`
	Bank              string    `json:"bank,omitempty"`
	Validity          string    `json:"validity,omitempty"`
	MinSpend          *float64  `json:"min_spend"`
	Score             *float64  `json:"score"`
	IsInstant         bool      `json:"is_instant"`
	NetEffectivePrice float64   `json:"net_effective_price"`
	IsApplicable      bool      `json:"is_applicable"`
	Note              string    `json:"note"`
	OfferType         OfferType `json:"offer_type"`
	Rank              *int      `json:"rank"`
	CardType          CardType  `json:"card_type,omitempty"`
	CardProvider      string    `json:"card_provider,omitempty"`
}

// TrackedProduct represents a product page being monitored for offers.
type TrackedProduct struct {
	ID           int             `json:"id" db:"id"`
	URL          string          `json:"url" db:"url"`
	Name         string          `json:"name" db:"name"`
	Retailer     string          `json:"retailer" db:"retailer"`
	CurrentPrice sql.NullFloat64 `json:"current_price" db:"current_price"`
	InStock      bool            `json:"in_stock" db:"in_stock"`
	LastChecked  *time.Time      `json:"last_checked" db:"last_checked"`
	LastFailedAt *time.Time      `json:"last_failed_at" db:"last_failed_at"`
	RetryCount   int             `json:"retry_count" db:"retry_count"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	IsActive     bool            `json:"is_active" db:"is_active"`
}

// GetCurrentPrice returns the current price as float64, or 0 if NULL
func (p *TrackedProduct) GetCurrentPrice() float64 {
	if p.CurrentPrice.Valid {
		return p.CurrentPrice.Float64
	}
	return 0.0
}

// HasPrice returns true if the product has a scraped price
func (p *TrackedProduct) HasPrice() bool {
	return p.CurrentPrice.Valid
}

// RefreshResult is what one scrape+rank cycle produced for a product.
type RefreshResult struct {
	ProductID    int           `json:"product_id"`
	Price        float64       `json:"price"`
	InStock      bool          `json:"in_stock"`
	RankedOffers []RankedOffer `json:"ranked_offers"`
	CheckedAt    time.Time     `json:"checked_at"`
}
