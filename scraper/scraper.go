package scraper

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"offertrack/models"
	"offertrack/offers"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

const maxScrapeRetries = 2

// ScrapeResult carries everything one product-page visit produced. The
// extraction core only consumes Offers and Price; the rest is bookkeeping.
type ScrapeResult struct {
	PriceText string
	Price     float64
	InStock   bool
	Offers    []models.RawOffer
}

// OfferScraper drives a headless browser to collect offer rows and the
// displayed price from retailer product pages. Selectors are best-effort
// against live markup: a page that yields nothing is an empty result, not
// an error.
type OfferScraper struct {
	browser *rod.Browser
}

// NewOfferScraper launches the browser. Uses system Chromium when present
// (Docker), auto-detects otherwise.
func NewOfferScraper(headless bool) (*OfferScraper, error) {
	l := launcher.New().
		Headless(headless).
		NoSandbox(true).
		Leakless(false)

	if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
		log.Printf("Using system Chromium")
	} else {
		log.Printf("Using auto-detected Chromium")
	}

	var browser *rod.Browser
	err := rod.Try(func() {
		url := l.MustLaunch()
		browser = rod.New().ControlURL(url).MustConnect()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %v", err)
	}

	return &OfferScraper{browser: browser}, nil
}

// Close closes the browser
func (s *OfferScraper) Close() {
	if s.browser != nil {
		_ = rod.Try(func() { s.browser.MustClose() })
	}
}

// ScrapeProduct visits a product page and collects its offer rows and price,
// retrying a bounded number of times on page-level failures.
func (s *OfferScraper) ScrapeProduct(url, retailer string) (*ScrapeResult, error) {
	selectors, ok := retailerSelectors[strings.ToLower(retailer)]
	if !ok {
		return nil, fmt.Errorf("unknown retailer: %s", retailer)
	}

	var lastErr error
	for attempt := 0; attempt <= maxScrapeRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Retrying scrape of %s (attempt %d/%d)", url, attempt+1, maxScrapeRetries+1)
			time.Sleep(time.Duration(attempt) * 3 * time.Second)
		}

		result, err := s.scrapeOnce(url, selectors)
		if err == nil {
			return result, nil
		}
		lastErr = err
		log.Printf("Scrape attempt failed for %s: %v", url, err)
	}

	return nil, fmt.Errorf("failed to scrape %s after %d attempts: %v", url, maxScrapeRetries+1, lastErr)
}

func (s *OfferScraper) scrapeOnce(url string, selectors selectorSet) (*ScrapeResult, error) {
	var page *rod.Page

	err := rod.Try(func() {
		page = s.browser.MustPage(url).Timeout(60 * time.Second)
		page.MustEvalOnNewDocument(stealthScript)
		page.MustWaitLoad()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open page: %v", err)
	}
	defer func() {
		_ = rod.Try(func() { page.MustClose() })
	}()

	// Give JS-rendered offer sections a chance to settle.
	_ = rod.Try(func() { page.MustWaitStable() })
	time.Sleep(2 * time.Second)

	result := &ScrapeResult{InStock: true}

	result.Offers = collectOffers(page, selectors)
	log.Printf("Collected %d offer rows from %s", len(result.Offers), url)

	result.PriceText = firstText(page, selectors.price)
	result.Price = offers.ParsePriceString(result.PriceText)
	if result.Price > 0 {
		log.Printf("Extracted price ₹%.2f from %q", result.Price, result.PriceText)
	} else {
		log.Printf("No price found on %s", url)
	}

	result.InStock = checkInStock(page, selectors)

	return result, nil
}

// collectOffers walks the selector list until one yields offer rows.
func collectOffers(page *rod.Page, selectors selectorSet) []models.RawOffer {
	raw := []models.RawOffer{}

	for _, rowSel := range selectors.offerRows {
		var texts []string
		err := rod.Try(func() {
			for _, el := range page.MustElements(rowSel) {
				texts = append(texts, el.MustText())
			}
		})
		if err != nil || len(texts) == 0 {
			continue
		}

		for _, text := range texts {
			if offer, ok := splitOfferRow(text); ok {
				raw = append(raw, offer)
			}
		}
		if len(raw) > 0 {
			break
		}
	}

	return raw
}

// splitOfferRow turns one offer element's text into a title/description
// pair. The first line is the card heading when more than one line exists.
func splitOfferRow(text string) (models.RawOffer, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.RawOffer{}, false
	}

	lines := strings.SplitN(text, "\n", 2)
	if len(lines) == 2 {
		return models.RawOffer{
			CardTitle:   strings.TrimSpace(lines[0]),
			Description: strings.TrimSpace(lines[1]),
		}, true
	}
	return models.RawOffer{Description: text}, true
}

func firstText(page *rod.Page, sels []string) string {
	for _, sel := range sels {
		var text string
		err := rod.Try(func() {
			els := page.MustElements(sel)
			if len(els) > 0 {
				text = strings.TrimSpace(els[0].MustText())
			}
		})
		if err == nil && text != "" {
			return text
		}
	}
	return ""
}

func checkInStock(page *rod.Page, selectors selectorSet) bool {
	for _, sel := range selectors.soldOut {
		found := false
		_ = rod.Try(func() {
			els := page.MustElements(sel)
			for _, el := range els {
				t := strings.ToLower(el.MustText())
				if strings.Contains(t, "sold out") || strings.Contains(t, "out of stock") ||
					strings.Contains(t, "currently unavailable") {
					found = true
					return
				}
			}
		})
		if found {
			return false
		}
	}
	return true
}

// stealthScript masks the most common headless fingerprints. Enough for
// casual bot checks; anything stronger is out of scope.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
	Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
	Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3] });
	window.chrome = { runtime: {} };
`
