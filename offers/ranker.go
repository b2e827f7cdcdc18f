package offers

import (
	"sort"
	"strings"

	"offertrack/models"
)

// Scoring constants for bank offers. Only the relative magnitudes matter;
// the final score is clamped to [0, 100].
const (
	bankOfferBaseScore    = 80.0
	maxDiscountBonus      = 50.0
	noMinSpendBonus       = 20.0
	instantBonus          = 5.0
	unknownBankPenalty    = 5.0
	highShortfallScore    = 15.0
	minRankableScore      = 20.0
	digitalPaymentBonus   = 5.0
	defaultProviderBonus  = 1.0
)

var digitalPaymentKeywords = []string{
	"upi", "wallet", "paytm", "mobikwik", "phonepe", "google pay", "gpay",
}

// Ranker scores and orders parsed offers for one retailer. Like the parser
// it is pure and safe to share across goroutines.
type Ranker struct {
	parser   *Parser
	registry *BankRegistry
	cfg      RetailerConfig
}

// NewRanker creates a ranker for one retailer's config.
func NewRanker(registry *BankRegistry, cfg RetailerConfig) *Ranker {
	return &Ranker{
		parser:   NewParser(registry, cfg),
		registry: registry,
		cfg:      cfg,
	}
}

// Parser exposes the underlying parser for callers that only need parsing.
func (r *Ranker) Parser() *Parser {
	return r.parser
}

// RankOffers parses every raw offer, scores and ranks the bank offers by
// score descending (stable, so tied offers keep their input order), and
// appends the remaining offers unranked in their original relative order.
// An empty input yields an empty, non-nil result.
func (r *Ranker) RankOffers(raws []models.RawOffer, productPrice float64) []models.RankedOffer {
	ranked := make([]models.RankedOffer, 0, len(raws))

	var bankOffers []models.RankedOffer
	var otherOffers []models.RankedOffer

	for _, raw := range raws {
		offer := r.parser.ParseOffer(raw)
		applicable, netPrice := applicability(offer, productPrice)
		ro := models.RankedOffer{
			Title:             offer.Title,
			Description:       offer.Description,
			Amount:            offer.Amount,
			Percentage:        offer.Percentage,
			Bank:              offer.Bank,
			Validity:          offer.Validity,
			MinSpend:          offer.MinSpend,
			IsInstant:         offer.IsInstant,
			NetEffectivePrice: netPrice,
			IsApplicable:      applicable,
			Note:              generateNote(offer, productPrice, applicable, netPrice),
			OfferType:         offer.Type,
			CardType:          offer.CardType,
			CardProvider:      offer.CardProvider,
		}

		if offer.Type == models.OfferTypeBank {
			score := r.scoreOffer(offer, productPrice)
			ro.Score = &score
			bankOffers = append(bankOffers, ro)
		} else {
			otherOffers = append(otherOffers, ro)
		}
	}

	sort.SliceStable(bankOffers, func(i, j int) bool {
		return *bankOffers[i].Score > *bankOffers[j].Score
	})
	for i := range bankOffers {
		rank := i + 1
		bankOffers[i].Rank = &rank
	}

	ranked = append(ranked, bankOffers...)
	ranked = append(ranked, otherOffers...)
	return ranked
}

// applicability decides whether the offer's minimum spend is met at this
// price and computes the net effective price. The discount basis is the
// percentage when one was extracted, the flat amount otherwise; never both.
func applicability(offer models.Offer, price float64) (bool, float64) {
	if offer.MinSpend != nil && price < *offer.MinSpend {
		return false, price
	}

	discount := offer.Amount
	if offer.Percentage != nil && *offer.Percentage > 0 {
		discount = (*offer.Percentage / 100) * price
	}

	net := price - discount
	if net < 0 {
		net = 0
	}
	return true, net
}

// scoreOffer computes the 0-100 score for a bank offer. Non-bank offers
// always score zero. The minimum-spend adjustment dominates: a shortfall
// above 50% resets the score outright instead of subtracting.
func (r *Ranker) scoreOffer(offer models.Offer, price float64) float64 {
	if offer.Type != models.OfferTypeBank {
		return 0
	}

	score := bankOfferBaseScore

	// Discount size, as a percentage of the price, weighted double.
	if price > 0 {
		var discountPct float64
		if offer.Percentage != nil && *offer.Percentage > 0 {
			discountPct = *offer.Percentage
		} else if offer.Amount > 0 {
			discountPct = offer.Amount / price * 100
		}
		bonus := discountPct * 2
		if bonus > maxDiscountBonus {
			bonus = maxDiscountBonus
		}
		score += bonus
	}

	// Minimum spend: either a penalty for an unreachable threshold or a
	// bonus for an easy (or absent) one, never both.
	if offer.MinSpend != nil && *offer.MinSpend > price {
		if price <= 0 {
			score = highShortfallScore
		} else {
			shortfallPct := (*offer.MinSpend - price) / price * 100
			if shortfallPct > 50 {
				score = highShortfallScore
			} else {
				score -= shortfallPct * 0.5
				if score < minRankableScore {
					score = minRankableScore
				}
			}
		}
	} else if offer.MinSpend == nil {
		score += noMinSpendBonus
	} else {
		ratio := 0.0
		if price > 0 {
			ratio = *offer.MinSpend / price
		}
		if ratio <= 0.9 {
			score += (1 - ratio) * 10
		}
	}

	if offer.IsInstant {
		score += instantBonus
	}

	if offer.Bank != "" {
		score += float64(r.registry.Score(offer.Bank)-defaultBankScore) / 2
		if r.cfg.DigitalPaymentBonus && containsAny(strings.ToLower(offer.Bank), digitalPaymentKeywords...) {
			score += digitalPaymentBonus
		}
	} else {
		score -= unknownBankPenalty
	}

	switch offer.CardType {
	case models.CardTypeCredit:
		score += 3
	case models.CardTypeCreditDebit:
		score += 2
	case models.CardTypeDebit:
		score += 1
	}

	if offer.CardProvider != "" {
		if bonus, ok := providerBonuses[offer.CardProvider]; ok {
			score += bonus
		} else {
			score += defaultProviderBonus
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
