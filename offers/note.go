package offers

import (
	"fmt"
	"strconv"
	"strings"

	"offertrack/models"
)

// generateNote assembles the human-readable explanation for one offer at one
// price. Pure presentation: every extracted fact that matters at this price
// gets surfaced, and the applicable / not-applicable branches differ.
func generateNote(offer models.Offer, price float64, applicable bool, netPrice float64) string {
	switch offer.Type {
	case models.OfferTypeBank:
		return bankOfferNote(offer, price, applicable, netPrice)
	case models.OfferTypeNoCostEMI:
		return emiNote(offer, price, applicable)
	case models.OfferTypeCashback:
		return cashbackNote(offer, price, applicable)
	case models.OfferTypeExchange:
		return exchangeNote(offer, applicable)
	case models.OfferTypePartner:
		return partnerNote(offer, applicable)
	default:
		return genericNote(offer, applicable)
	}
}

func bankOfferNote(offer models.Offer, price float64, applicable bool, netPrice float64) string {
	var parts []string

	if applicable {
		savings := price - netPrice
		if savings > 0 && price > 0 {
			parts = append(parts, fmt.Sprintf("You save ₹%s (%.1f%%) with this offer.",
				formatINR(savings), savings/price*100))
		} else {
			parts = append(parts, "Bank offer available for this purchase.")
		}

		payWith := cardInstruction(offer)
		if payWith != "" {
			parts = append(parts, fmt.Sprintf("Pay %s to get the discount.", payWith))
		}

		if offer.MinSpend != nil {
			parts = append(parts, fmt.Sprintf("The product price of ₹%s meets the minimum spend of ₹%s.",
				formatINR(price), formatINR(*offer.MinSpend)))
		} else {
			parts = append(parts, "No minimum purchase requirement.")
		}

		parts = append(parts, fmt.Sprintf("Final price: ₹%s instead of ₹%s.",
			formatINR(netPrice), formatINR(price)))

		if offer.CardProvider != "" {
			parts = append(parts, fmt.Sprintf("Works with %s cards.", offer.CardProvider))
		}
	} else {
		parts = append(parts, "This offer is not applicable at the current price.")
		if offer.MinSpend != nil {
			shortfall := *offer.MinSpend - price
			parts = append(parts, fmt.Sprintf("It requires a minimum purchase of ₹%s, but the product costs ₹%s (₹%s short).",
				formatINR(*offer.MinSpend), formatINR(price), formatINR(shortfall)))
		}
		if payWith := cardInstruction(offer); payWith != "" && offer.Amount > 0 {
			parts = append(parts, fmt.Sprintf("Meeting the minimum spend %s would save ₹%s.",
				payWith, formatINR(offer.Amount)))
		} else if offer.Amount > 0 {
			parts = append(parts, fmt.Sprintf("Meeting the minimum spend would save ₹%s.",
				formatINR(offer.Amount)))
		}
	}

	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}

	return strings.Join(parts, " ")
}

func emiNote(offer models.Offer, price float64, applicable bool) string {
	parts := []string{"Convert this purchase into EMIs with no added interest."}

	if offer.Amount > 0 {
		parts = append(parts, fmt.Sprintf("Saves up to ₹%s in interest charges.", formatINR(offer.Amount)))
	}

	switch {
	case offer.MinSpend != nil && !applicable:
		parts = append(parts, fmt.Sprintf("Requires a minimum purchase of ₹%s, but the product costs ₹%s.",
			formatINR(*offer.MinSpend), formatINR(price)))
	case offer.MinSpend != nil:
		parts = append(parts, fmt.Sprintf("The product meets the minimum requirement of ₹%s.",
			formatINR(*offer.MinSpend)))
	default:
		parts = append(parts, "No minimum spend requirement.")
	}

	if offer.Bank != "" {
		parts = append(parts, fmt.Sprintf("Available with %s cards.", offer.Bank))
	}
	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}
	return strings.Join(parts, " ")
}

func cashbackNote(offer models.Offer, price float64, applicable bool) string {
	var parts []string

	if applicable {
		if offer.Amount > 0 {
			parts = append(parts, fmt.Sprintf("Earn ₹%s cashback on this purchase, credited after the order.",
				formatINR(offer.Amount)))
		} else {
			parts = append(parts, "Cashback offer available on this purchase.")
		}
		if offer.MinSpend != nil {
			parts = append(parts, fmt.Sprintf("The product price of ₹%s meets the minimum spend of ₹%s.",
				formatINR(price), formatINR(*offer.MinSpend)))
		} else {
			parts = append(parts, "No minimum purchase requirement.")
		}
	} else if offer.MinSpend != nil {
		parts = append(parts, fmt.Sprintf("This cashback offer requires a minimum purchase of ₹%s; the product costs ₹%s (₹%s short).",
			formatINR(*offer.MinSpend), formatINR(price), formatINR(*offer.MinSpend-price)))
	}

	if offer.Bank != "" {
		parts = append(parts, fmt.Sprintf("Available with %s cards.", offer.Bank))
	}
	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}
	return strings.Join(parts, " ")
}

func exchangeNote(offer models.Offer, applicable bool) string {
	var parts []string
	if offer.Amount > 0 {
		parts = append(parts, fmt.Sprintf("Trade in an old device for up to ₹%s off.", formatINR(offer.Amount)))
	} else {
		parts = append(parts, "Exchange offer available: trade in an old device for a discount.")
	}
	if !applicable && offer.MinSpend != nil {
		parts = append(parts, fmt.Sprintf("Requires a minimum purchase of ₹%s.", formatINR(*offer.MinSpend)))
	}
	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}
	return strings.Join(parts, " ")
}

func partnerNote(offer models.Offer, applicable bool) string {
	var parts []string
	if offer.Amount > 0 {
		parts = append(parts, fmt.Sprintf("Partner offer worth ₹%s.", formatINR(offer.Amount)))
	} else {
		parts = append(parts, "Special partner offer available.")
	}
	if applicable {
		parts = append(parts, "Applicable to this purchase.")
		if offer.MinSpend != nil {
			parts = append(parts, fmt.Sprintf("The product meets the minimum requirement of ₹%s.",
				formatINR(*offer.MinSpend)))
		}
	} else if offer.MinSpend != nil {
		parts = append(parts, fmt.Sprintf("Requires a minimum purchase of ₹%s to qualify.",
			formatINR(*offer.MinSpend)))
	}
	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}
	return strings.Join(parts, " ")
}

func genericNote(offer models.Offer, applicable bool) string {
	var parts []string
	label := strings.ToLower(string(offer.Type))
	if offer.Amount > 0 {
		parts = append(parts, fmt.Sprintf("This %s offers ₹%s in value.", label, formatINR(offer.Amount)))
	} else {
		parts = append(parts, fmt.Sprintf("Special %s available for this purchase.", label))
	}
	if offer.MinSpend != nil {
		if applicable {
			parts = append(parts, fmt.Sprintf("The product meets the minimum requirement of ₹%s.",
				formatINR(*offer.MinSpend)))
		} else {
			parts = append(parts, fmt.Sprintf("Requires a minimum purchase of ₹%s.", formatINR(*offer.MinSpend)))
		}
	}
	if offer.Validity != "" {
		parts = append(parts, fmt.Sprintf("Offer valid %s.", offer.Validity))
	}
	return strings.Join(parts, " ")
}

// cardInstruction phrases how to pay: bank, card family, or both.
func cardInstruction(offer models.Offer) string {
	switch {
	case offer.Bank != "" && offer.CardType != "":
		return fmt.Sprintf("with your %s %s card", offer.Bank, strings.ToLower(string(offer.CardType)))
	case offer.Bank != "":
		return fmt.Sprintf("with your %s card", offer.Bank)
	case offer.CardType != "":
		return fmt.Sprintf("with your %s card", strings.ToLower(string(offer.CardType)))
	}
	return ""
}

// formatINR renders a rupee value with thousands separators and no decimals.
func formatINR(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 0, 64)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
