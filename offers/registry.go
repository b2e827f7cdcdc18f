package offers

import (
	"sort"
	"strings"

	"offertrack/models"
)

// defaultBankScore is used when an extracted bank name has no entry in the
// reputation table. (score-70)/2 makes it a net-zero scoring adjustment.
const defaultBankScore = 70

// bankScores maps recognized bank names to a relative reputation score
// (0-100). The numbers only matter relative to each other.
var bankScores = map[string]int{
	// Public sector banks
	"SBI":                      75,
	"State Bank of India":      75,
	"PNB":                      72,
	"Punjab National Bank":     72,
	"BoB":                      70,
	"Bank of Baroda":           70,
	"Canara Bank":              68,
	"Union Bank of India":      65,
	"Indian Bank":              65,
	"Bank of India":            65,
	"UCO Bank":                 62,
	"Indian Overseas Bank":     62,
	"IOB":                      62,
	"Central Bank of India":    62,
	"Bank of Maharashtra":      60,
	"Punjab & Sind Bank":       60,

	// Private sector banks
	"HDFC":                     85,
	"HDFC Bank":                85,
	"ICICI":                    90,
	"ICICI Bank":               90,
	"Axis":                     80,
	"Axis Bank":                80,
	"Kotak":                    70,
	"Kotak Mahindra Bank":      70,
	"IndusInd Bank":            68,
	"Yes Bank":                 60,
	"IDFC FIRST Bank":          65,
	"IDFC":                     65,
	"Federal Bank":             63,
	"South Indian Bank":        60,
	"RBL Bank":                 62,
	"DCB Bank":                 60,
	"Tamilnad Mercantile Bank": 58,
	"TMB":                      58,
	"Karur Vysya Bank":         58,
	"CSB Bank":                 58,
	"City Union Bank":          58,
	"Bandhan Bank":             60,
	"Jammu & Kashmir Bank":     58,

	// Small finance banks
	"AU Small Finance Bank":       65,
	"AU Bank":                     65,
	"Equitas Small Finance Bank":  62,
	"Equitas":                     62,
	"Ujjivan Small Finance Bank":  60,
	"Ujjivan":                     60,
	"Suryoday Small Finance Bank": 58,
	"ESAF Small Finance Bank":     58,
	"Fincare Small Finance Bank":  58,
	"Jana Small Finance Bank":     58,
	"North East Small Finance Bank": 58,
	"Capital Small Finance Bank":    58,
	"Unity Small Finance Bank":      58,
	"Shivalik Small Finance Bank":   58,

	// Foreign banks
	"Citi":                 80,
	"Citibank":             80,
	"HSBC":                 78,
	"Standard Chartered":   75,
	"Deutsche Bank":        75,
	"Barclays Bank":        75,
	"DBS Bank":             72,
	"JP Morgan Chase Bank": 75,
	"Bank of America":      75,

	// Co-operative banks
	"Saraswat Co-operative Bank":       60,
	"Saraswat Bank":                    60,
	"Shamrao Vithal Co-operative Bank": 55,
	"PMC Bank":                         50,
	"TJSB Sahakari Bank":               55,

	// Card companies
	"Amex":             85,
	"American Express": 85,
}

// bankAliases lists the recognized name variants per canonical bank. Matching
// is longest-alias-first so that short aliases like "AU" cannot shadow (or
// fire inside) a longer, more specific name in the text.
var bankAliases = map[string][]string{
	"SBI":                {"SBI", "State Bank", "State Bank of India"},
	"HDFC":               {"HDFC", "HDFC Bank"},
	"ICICI":              {"ICICI", "ICICI Bank"},
	"Axis":               {"Axis", "Axis Bank"},
	"Kotak":              {"Kotak", "Kotak Mahindra"},
	"Yes Bank":           {"Yes Bank", "YES Bank"},
	"IDFC":               {"IDFC", "IDFC FIRST", "IDFC Bank"},
	"IndusInd Bank":      {"IndusInd", "IndusInd Bank"},
	"Federal Bank":       {"Federal", "Federal Bank"},
	"RBL Bank":           {"RBL", "RBL Bank"},
	"Citi":               {"Citi", "Citibank", "CitiBank"},
	"HSBC":               {"HSBC"},
	"Standard Chartered": {"Standard Chartered", "StanChart", "SC Bank"},
	"AU Bank":            {"AU Bank", "AU Small Finance"},
	"Equitas":            {"Equitas", "Equitas Bank"},
	"Ujjivan":            {"Ujjivan", "Ujjivan Bank"},
	"PNB":                {"PNB", "Punjab National Bank"},
	"BoB":                {"BoB", "Bank of Baroda", "Baroda"},
	"Canara Bank":        {"Canara", "Canara Bank"},
	"Union Bank of India": {"Union Bank", "Union Bank of India"},
	"Indian Bank":        {"Indian Bank"},
	"Bank of India":      {"Bank of India"},
	"UCO Bank":           {"UCO", "UCO Bank"},
	"IOB":                {"IOB", "Indian Overseas Bank"},
	"Central Bank of India": {"Central Bank", "Central Bank of India"},
	"Bank of Maharashtra": {"Bank of Maharashtra", "Maharashtra Bank"},
	"Amex":               {"Amex", "American Express"},
	"DBS Bank":           {"DBS", "DBS Bank"},
}

// bankVariations is the last-resort flat map of colloquial spellings.
var bankVariations = map[string]string{
	"hdfc":               "HDFC",
	"icici":              "ICICI",
	"axis":               "Axis",
	"sbi":                "SBI",
	"kotak":              "Kotak",
	"yes bank":           "Yes Bank",
	"yes":                "Yes Bank",
	"idfc":               "IDFC",
	"indusind":           "IndusInd Bank",
	"federal":            "Federal Bank",
	"rbl":                "RBL Bank",
	"citi":               "Citi",
	"citibank":           "Citi",
	"hsbc":               "HSBC",
	"standard chartered": "Standard Chartered",
	"au bank":            "AU Bank",
	"equitas":            "Equitas",
	"ujjivan":            "Ujjivan",
	"pnb":                "PNB",
	"punjab national bank": "PNB",
	"bob":                "BoB",
	"bank of baroda":     "BoB",
	"baroda":             "BoB",
	"canara":             "Canara Bank",
	"canara bank":        "Canara Bank",
	"union bank":         "Union Bank of India",
	"indian bank":        "Indian Bank",
	"bank of india":      "Bank of India",
	"uco":                "UCO Bank",
	"uco bank":           "UCO Bank",
	"iob":                "Indian Overseas Bank",
	"indian overseas bank": "Indian Overseas Bank",
	"central bank":       "Central Bank of India",
	"amex":               "Amex",
	"american express":   "American Express",
}

// digitalPaymentVariations are the UPI/wallet identities JioMart lists in the
// same slot as banks. Only merged into the registry for retailers with
// DigitalPaymentBonus set.
var digitalPaymentVariations = map[string]string{
	"upi":             "UPI",
	"upi lite":        "UPI Lite",
	"bhim upi":        "BHIM UPI",
	"paytm upi":       "Paytm UPI",
	"paytm upi lite":  "Paytm UPI Lite",
	"paytm wallet":    "Paytm Wallet",
	"phonepe upi":     "PhonePe UPI",
	"google pay upi":  "Google Pay UPI",
	"gpay upi":        "Google Pay UPI",
	"mobikwik wallet": "MobiKwik Wallet",
	"wallet":          "Wallet",
	"digital wallet":  "Digital Wallet",
}

// cardProviders is the fixed network-brand scan list, in scan order.
var cardProviders = []string{
	"Visa", "Mastercard", "RuPay", "American Express", "Amex",
	"Diners Club", "Discover", "UnionPay", "JCB", "Maestro",
	"Cirrus", "PLUS",
}

// providerBonuses is the scoring bonus per card network. Any other extracted
// provider gets +1; no provider gets nothing.
var providerBonuses = map[string]float64{
	"Visa":             2,
	"Mastercard":       2,
	"RuPay":            3,
	"American Express": 4,
	"Amex":             4,
	"Diners Club":      3,
}

type aliasEntry struct {
	alias     string // lowercased
	canonical string
}

// BankRegistry holds the immutable lookup tables shared by every parse and
// rank call. Build it once at startup and inject it; it is never mutated.
type BankRegistry struct {
	scores     map[string]int
	aliases    []aliasEntry
	canonical  []string
	variations []aliasEntry
}

// NewBankRegistry builds the registry from the static tables, with alias and
// canonical-name lists pre-sorted longest-first for deterministic matching.
func NewBankRegistry() *BankRegistry {
	return newRegistry(nil)
}

func newRegistry(extraVariations map[string]string) *BankRegistry {
	r := &BankRegistry{scores: bankScores}

	for canonical, aliases := range bankAliases {
		for _, a := range aliases {
			r.aliases = append(r.aliases, aliasEntry{alias: strings.ToLower(a), canonical: canonical})
		}
	}
	sortEntries(r.aliases)

	for name := range bankScores {
		r.canonical = append(r.canonical, name)
	}
	sort.Slice(r.canonical, func(i, j int) bool {
		a, b := r.canonical[i], r.canonical[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})

	for variant, canonical := range bankVariations {
		r.variations = append(r.variations, aliasEntry{alias: variant, canonical: canonical})
	}
	for variant, canonical := range extraVariations {
		r.variations = append(r.variations, aliasEntry{alias: variant, canonical: canonical})
	}
	sortEntries(r.variations)

	return r
}

// sortEntries orders longest alias first; equal lengths alphabetically so map
// iteration order can never leak into results.
func sortEntries(entries []aliasEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if len(a.alias) != len(b.alias) {
			return len(a.alias) > len(b.alias)
		}
		return a.alias < b.alias
	})
}

// Score returns the reputation score for an extracted bank string. A
// comma-joined multi-bank string or any unknown name falls back to the
// default score, which contributes zero to the final offer score.
func (r *BankRegistry) Score(bank string) int {
	if s, ok := r.scores[bank]; ok {
		return s
	}
	return defaultBankScore
}

// RetailerConfig carries the small per-retailer differences between the four
// scraping targets. The parser and ranker are otherwise identical.
type RetailerConfig struct {
	Name              string
	DefaultOfferLabel models.OfferType
	// ExtraVariations widens the last-resort bank variant map (JioMart's
	// UPI/wallet identities).
	ExtraVariations map[string]string
	// DigitalPaymentBonus grants +5 to bank offers paid through a UPI or
	// wallet identity.
	DigitalPaymentBonus bool
}

// Retailer names accepted by ConfigFor.
const (
	RetailerAmazon   = "amazon"
	RetailerFlipkart = "flipkart"
	RetailerCroma    = "croma"
	RetailerJioMart  = "jiomart"
)

// ConfigFor returns the retailer config for a retailer name. Unknown names
// get the generic config, which behaves like the Amazon variant.
func ConfigFor(retailer string) RetailerConfig {
	switch strings.ToLower(retailer) {
	case RetailerJioMart:
		return RetailerConfig{
			Name:                RetailerJioMart,
			DefaultOfferLabel:   models.OfferTypeOther,
			ExtraVariations:     digitalPaymentVariations,
			DigitalPaymentBonus: true,
		}
	case RetailerFlipkart:
		return RetailerConfig{Name: RetailerFlipkart, DefaultOfferLabel: models.OfferTypeOther}
	case RetailerCroma:
		return RetailerConfig{Name: RetailerCroma, DefaultOfferLabel: models.OfferTypeOther}
	case RetailerAmazon:
		return RetailerConfig{Name: RetailerAmazon, DefaultOfferLabel: models.OfferTypeOther}
	default:
		return RetailerConfig{Name: "generic", DefaultOfferLabel: models.OfferTypeOther}
	}
}

// Retailers lists every retailer with a dedicated config.
func Retailers() []string {
	return []string{RetailerAmazon, RetailerFlipkart, RetailerCroma, RetailerJioMart}
}
