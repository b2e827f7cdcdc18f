package offers

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"offertrack/models"
)

// The extraction grammar is a set of priority-ordered pattern tables: the
// first matching pattern in a table wins and later tables are only consulted
// when earlier ones found nothing. Flat amounts are checked before
// percentage-with-cap phrasings because cap text usually also contains a
// bare "₹X" that would otherwise be misread.

var flatAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:additional\s+)?flat\s+(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:additional\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)\s+(?:instant\s+)?discount`),
	regexp.MustCompile(`(?i)(?:get\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)\s+(?:off|discount)`),
	regexp.MustCompile(`(?i)(?:save\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)₹\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)Rs\.?\s*([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)INR\s*([\d,]+\.?\d*)`),
}

// percentCapPatterns capture "X% up to ₹Y" phrasings. Group 2 is the cap,
// which becomes the amount; the X% itself is deliberately discarded.
var percentCapPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)([\d.]+)%\s+(?:instant\s+)?discount\s+up\s+to\s+(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)up\s+to\s+([\d.]+)%\s+(?:off|discount).*?(?:max|maximum|up\s+to)\s+(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)([\d.]+)%\s+(?:off|discount).*?(?:capped\s+at|maximum)\s+(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
}

var cashbackAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:get\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)\s+(?:cashback|cash\s+back)`),
	regexp.MustCompile(`(?i)(?:earn\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)\s+(?:cashback|cash\s+back)`),
}

// percentagePatterns capture bare "upto X%" style discounts with no cap.
var percentagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:up\s+to|upto)\s+([\d.]+)%`),
	regexp.MustCompile(`(?i)([\d.]+)%\s+(?:off|discount)`),
	regexp.MustCompile(`(?i)get\s+([\d.]+)%\s+(?:off|discount)`),
	regexp.MustCompile(`(?i)save\s+([\d.]+)%`),
}

var minSpendPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:mini|minimum)\s+purchase\s+value\s+(?:of\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:mini|minimum)\s+(?:purchase|spend|transaction)\s+(?:of\s+|value\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)min(?:imum)?\s+(?:purchase|spend|transaction)\s+(?:of\s+|value\s+)?(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)valid\s+on\s+(?:orders?|purchases?)\s+(?:of\s+|above\s+|worth\s+)(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)applicable\s+on\s+(?:purchases?|orders?|transactions?)\s+(?:of\s+|above\s+|worth\s+)(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:on\s+)?(?:orders?|purchases?|spending)\s+(?:of\s+|above\s+|worth\s+)(?:INR\s+|₹\s*)([\d,]+\.?\d*)\s+(?:or\s+more|and\s+above)`),
	regexp.MustCompile(`(?i)(?:minimum|min)\s+(?:spend|purchase|order)\s*:\s*(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
	regexp.MustCompile(`(?i)(?:spend|purchase|order)\s+(?:minimum|min|at\s+least)\s+(?:INR\s+|₹\s*)([\d,]+\.?\d*)`),
}

var validityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)valid\s+(?:till|until|up\s+to)\s+([^,.;]+)`),
	regexp.MustCompile(`(?i)offer\s+valid\s+(?:till|until|up\s+to)\s+([^,.;]+)`),
	regexp.MustCompile(`(?i)expires?\s+(?:on|by)?\s+([^,.;]+)`),
	regexp.MustCompile(`(?i)valid\s+(?:from|between).*?(?:to|till|until)\s+([^,.;]+)`),
	regexp.MustCompile(`(?i)(?:validity|valid)\s*:\s*([^,.;]+)`),
}

var creditCardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bcredit\s+card\b`),
	regexp.MustCompile(`\bcc\b`),
	regexp.MustCompile(`\bcredit\b.*\bcard\b`),
	regexp.MustCompile(`\bmaster\s+card\b`),
	regexp.MustCompile(`\bvisa\s+card\b.*\bcredit\b`),
}

var debitCardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bdebit\s+card\b`),
	regexp.MustCompile(`\bdc\b`),
	regexp.MustCompile(`\bdebit\b.*\bcard\b`),
	regexp.MustCompile(`\bvisa\s+card\b.*\bdebit\b`),
	regexp.MustCompile(`\bmaster\s+card\b.*\bdebit\b`),
}

var bareCardPattern = regexp.MustCompile(`\bcard\b`)

// Parser turns one RawOffer into a structured Offer. It is pure: no I/O, no
// state beyond the injected read-only registry.
type Parser struct {
	registry *BankRegistry
	cfg      RetailerConfig
}

// NewParser creates a parser for one retailer's config.
func NewParser(registry *BankRegistry, cfg RetailerConfig) *Parser {
	reg := registry
	if len(cfg.ExtraVariations) > 0 {
		reg = newRegistry(cfg.ExtraVariations)
	}
	return &Parser{registry: reg, cfg: cfg}
}

// ParseOffer extracts every structured field from a raw offer record. Any
// field the description does not yield is left at its zero value; no input
// is an error.
func (p *Parser) ParseOffer(raw models.RawOffer) models.Offer {
	cardTitle := strings.TrimSpace(raw.CardTitle)
	description := strings.TrimSpace(raw.Description)

	offerType := p.determineOfferType(cardTitle, description)

	descLower := strings.ToLower(description)

	return models.Offer{
		Title:        resolveTitle(cardTitle, offerType),
		Description:  description,
		Amount:       extractAmount(description),
		Percentage:   extractPercentage(description),
		Type:         offerType,
		Bank:         p.extractBank(descLower),
		CardType:     extractCardType(descLower),
		CardProvider: extractCardProvider(descLower),
		MinSpend:     extractMinSpend(description),
		Validity:     extractValidity(description),
		IsInstant:    strings.Contains(descLower, "instant") || !strings.Contains(descLower, "cashback"),
	}
}

// parseNumber parses a captured numeric group after stripping thousands
// separators. A false return means the capture was not valid decimal text.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractAmount returns the flat discount in rupees, trying flat phrasings,
// then percentage-with-cap phrasings (returning the cap), then cashback
// phrasings. A matched-but-unparseable group means no amount, never an error.
func extractAmount(description string) float64 {
	for _, re := range flatAmountPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			v, ok := parseNumber(m[1])
			if !ok {
				return 0
			}
			return v
		}
	}

	for _, re := range percentCapPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			v, ok := parseNumber(m[2])
			if !ok {
				return 0
			}
			return v
		}
	}

	for _, re := range cashbackAmountPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			v, ok := parseNumber(m[1])
			if !ok {
				return 0
			}
			return v
		}
	}

	return 0
}

// extractPercentage returns the bare percentage for "upto X%" style offers.
// When a cap clause is present the cap already went into the amount and no
// percentage is reported.
func extractPercentage(description string) *float64 {
	for _, re := range percentCapPatterns {
		if re.MatchString(description) {
			return nil
		}
	}

	for _, re := range percentagePatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

// extractBank resolves bank mentions through three tiers: alias lists, the
// full reputation table, then colloquial variants. Every distinct bank found
// in the winning tier is returned, alphabetically sorted and comma-joined.
func (p *Parser) extractBank(descLower string) string {
	if descLower == "" {
		return ""
	}

	found := map[string]bool{}

	for _, e := range p.registry.aliases {
		if strings.Contains(descLower, e.alias) {
			found[e.canonical] = true
		}
	}

	if len(found) == 0 {
		for _, name := range p.registry.canonical {
			if strings.Contains(descLower, strings.ToLower(name)) {
				found[name] = true
			}
		}
	}

	if len(found) == 0 {
		for _, e := range p.registry.variations {
			if strings.Contains(descLower, e.alias) {
				found[e.canonical] = true
			}
		}
	}

	if len(found) == 0 {
		return ""
	}

	banks := make([]string, 0, len(found))
	for b := range found {
		banks = append(banks, b)
	}
	sort.Strings(banks)
	return strings.Join(banks, ", ")
}

// extractCardType classifies the card family. Both families matching means
// the offer spans credit and debit cards. A bare "card" mention falls back
// to vocabulary heuristics.
func extractCardType(descLower string) models.CardType {
	credit := anyMatch(creditCardPatterns, descLower)
	debit := anyMatch(debitCardPatterns, descLower)

	switch {
	case credit && debit:
		return models.CardTypeCreditDebit
	case credit:
		return models.CardTypeCredit
	case debit:
		return models.CardTypeDebit
	}

	if bareCardPattern.MatchString(descLower) {
		for _, word := range []string{"premium", "rewards", "cashback", "points"} {
			if strings.Contains(descLower, word) {
				return models.CardTypeCredit
			}
		}
		if strings.Contains(descLower, "atm") {
			return models.CardTypeDebit
		}
	}

	return ""
}

func anyMatch(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// extractCardProvider scans the fixed network list; first hit wins.
// "master" and "rupay" get substring special-cases for the spellings
// marketing copy actually uses.
func extractCardProvider(descLower string) string {
	for _, provider := range cardProviders {
		if strings.Contains(descLower, strings.ToLower(provider)) {
			return provider
		}
		if provider == "Mastercard" && strings.Contains(descLower, "master") {
			return "Mastercard"
		}
		if provider == "RuPay" && strings.Contains(descLower, "rupay") {
			return "RuPay"
		}
	}
	return ""
}

// extractMinSpend returns the minimum cart value to qualify. Unlike amount
// extraction, an unparseable capture here moves on to the next pattern.
func extractMinSpend(description string) *float64 {
	for _, re := range minSpendPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				return &v
			}
		}
	}
	return nil
}

// extractValidity returns the validity window as free text. Source validity
// strings are inconsistent copywriter prose; no date parsing is attempted.
func extractValidity(description string) string {
	for _, re := range validityPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// determineOfferType classifies by keyword precedence: an explicit title
// keyword always outranks an inferred description keyword.
func (p *Parser) determineOfferType(cardTitle, description string) models.OfferType {
	titleLower := strings.ToLower(cardTitle)
	descLower := strings.ToLower(description)

	switch {
	case containsAny(titleLower, "bank offer", "instant discount", "card offer"):
		return models.OfferTypeBank
	case containsAny(titleLower, "no cost emi", "no-cost emi", "emi"):
		return models.OfferTypeNoCostEMI
	case containsAny(titleLower, "cashback", "cash back"):
		return models.OfferTypeCashback
	case containsAny(titleLower, "exchange offer", "exchange"):
		return models.OfferTypeExchange
	case containsAny(titleLower, "partner offer", "partner"):
		return models.OfferTypePartner
	case containsAny(descLower, "bank", "credit card", "debit card"):
		return models.OfferTypeBank
	case strings.Contains(descLower, "emi"):
		return models.OfferTypeNoCostEMI
	case cardTitle != "":
		return models.OfferType(cardTitle)
	default:
		return p.cfg.DefaultOfferLabel
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// resolveTitle guarantees a non-empty title. Bank offers are always titled
// literally "Bank Offer" regardless of the scraped heading; placeholder
// titles collapse to the offer type.
func resolveTitle(cardTitle string, offerType models.OfferType) string {
	if offerType == models.OfferTypeBank {
		return string(models.OfferTypeBank)
	}
	if cardTitle == "" || strings.ToLower(cardTitle) == "summary" {
		return string(offerType)
	}
	return cardTitle
}
