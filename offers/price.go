package offers

import (
	"regexp"
	"strconv"
	"strings"
)

var nonPriceChars = regexp.MustCompile(`[^0-9.]`)

// ParsePriceString normalizes a displayed price like "₹30,999" or
// "Rs. 1,299.50" to its numeric value. Anything that does not survive as
// valid decimal text yields 0; a degenerate price is never an error.
func ParsePriceString(priceText string) float64 {
	cleaned := nonPriceChars.ReplaceAllString(strings.TrimSpace(priceText), "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}
