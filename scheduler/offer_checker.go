package scheduler

import (
	"log"

	"offertrack/models"
	"offertrack/repository"

	"github.com/robfig/cron/v3"
)

// RefreshFunc scrapes, ranks, and persists offers for one product.
type RefreshFunc func(product models.TrackedProduct) ([]models.RankedOffer, error)

// OfferChecker periodically refreshes the offer ranking of every active
// product. Refreshes fan out one goroutine per product: the ranking core is
// pure, so concurrent products never interfere.
type OfferChecker struct {
	cron        *cron.Cron
	schedule    string
	productRepo *repository.ProductRepository
	refresh     RefreshFunc
}

// NewOfferChecker creates an offer checker with the given cron schedule.
func NewOfferChecker(schedule string, productRepo *repository.ProductRepository, refresh RefreshFunc) *OfferChecker {
	return &OfferChecker{
		cron:        cron.New(cron.WithSeconds()),
		schedule:    schedule,
		productRepo: productRepo,
		refresh:     refresh,
	}
}

// Start starts the scheduled offer refresh
func (oc *OfferChecker) Start() {
	_, err := oc.cron.AddFunc(oc.schedule, oc.checkAllProducts)
	if err != nil {
		log.Printf("Failed to schedule offer checker: %v", err)
		return
	}

	// Also run once on startup
	go oc.checkAllProducts()

	oc.cron.Start()
	log.Printf("Offer checker scheduled: %s", oc.schedule)
}

// Stop stops the scheduled offer refresh
func (oc *OfferChecker) Stop() {
	if oc.cron != nil {
		oc.cron.Stop()
	}
}

// checkAllProducts refreshes offers for all tracked products
func (oc *OfferChecker) checkAllProducts() {
	log.Println("Starting scheduled offer refresh for all tracked products")

	products, err := oc.productRepo.GetProducts()
	if err != nil {
		log.Printf("Failed to get tracked products: %v", err)
		return
	}

	if len(products) == 0 {
		log.Println("No products to refresh")
		return
	}

	log.Printf("Refreshing offers for %d products", len(products))

	for _, product := range products {
		go oc.checkProduct(product)
	}
}

func (oc *OfferChecker) checkProduct(product models.TrackedProduct) {
	log.Printf("Refreshing offers for: %s (%s)", product.Name, product.URL)

	offers, err := oc.refresh(product)
	if err != nil {
		log.Printf("Failed to refresh offers for %s: %v", product.URL, err)
		return
	}

	log.Printf("Refreshed %s: %d offers ranked", product.Name, len(offers))
}
