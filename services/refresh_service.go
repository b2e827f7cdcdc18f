package services

import (
	"context"
	"fmt"
	"log"

	"offertrack/cache"
	"offertrack/models"
	"offertrack/offers"
	"offertrack/repository"
	"offertrack/scraper"
)

// RefreshService runs one scrape-rank-persist cycle per product: scrape the
// page, rank the raw offers at the scraped price, replace the stored
// ranking, and drop the cached response.
type RefreshService struct {
	scraper     *scraper.OfferScraper
	productRepo *repository.ProductRepository
	offerRepo   *repository.OfferRepository
	cache       cache.Cache
	rankers     map[string]*offers.Ranker
}

// NewRefreshService builds the service with one pre-built ranker per
// retailer. The scraper may be nil when no browser is available; refreshes
// then fail cleanly.
func NewRefreshService(s *scraper.OfferScraper, productRepo *repository.ProductRepository,
	offerRepo *repository.OfferRepository, c cache.Cache) *RefreshService {

	registry := offers.NewBankRegistry()
	rankers := make(map[string]*offers.Ranker)
	for _, retailer := range offers.Retailers() {
		rankers[retailer] = offers.NewRanker(registry, offers.ConfigFor(retailer))
	}

	return &RefreshService{
		scraper:     s,
		productRepo: productRepo,
		offerRepo:   offerRepo,
		cache:       c,
		rankers:     rankers,
	}
}

// RankerFor returns the shared ranker for a retailer name.
func (s *RefreshService) RankerFor(retailer string) *offers.Ranker {
	if r, ok := s.rankers[retailer]; ok {
		return r
	}
	return s.rankers[offers.RetailerAmazon]
}

// RefreshProduct scrapes a product page, ranks the collected offers, and
// persists the result. A scrape failure is recorded on the product and
// returned; it never panics the caller.
func (s *RefreshService) RefreshProduct(product models.TrackedProduct) ([]models.RankedOffer, error) {
	if s.scraper == nil {
		return nil, fmt.Errorf("no browser available for scraping")
	}

	result, err := s.scraper.ScrapeProduct(product.URL, product.Retailer)
	if err != nil {
		if markErr := s.productRepo.MarkRefreshFailed(product.ID); markErr != nil {
			log.Printf("Failed to record scrape failure for product %d: %v", product.ID, markErr)
		}
		return nil, fmt.Errorf("failed to scrape product: %v", err)
	}

	price := result.Price
	if price <= 0 && product.HasPrice() {
		// Page hid the price this round; rank against the last known one.
		price = product.GetCurrentPrice()
		log.Printf("Using last known price ₹%.2f for product %d", price, product.ID)
	}

	ranked := s.RankerFor(product.Retailer).RankOffers(result.Offers, price)

	if err := s.offerRepo.ReplaceProductOffers(product.ID, ranked); err != nil {
		return nil, fmt.Errorf("failed to persist offers: %v", err)
	}
	if result.Price > 0 {
		if err := s.productRepo.UpdateProductPrice(product.ID, result.Price, result.InStock); err != nil {
			log.Printf("Failed to update price for product %d: %v", product.ID, err)
		}
	}
	if err := s.productRepo.MarkRefreshSuccess(product.ID); err != nil {
		log.Printf("Failed to clear failure state for product %d: %v", product.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(context.Background(), cache.ProductOffersKey(product.ID)); err != nil {
			log.Printf("Failed to invalidate offer cache for product %d: %v", product.ID, err)
		}
	}

	return ranked, nil
}

// RefreshProductByID looks the product up and refreshes it.
func (s *RefreshService) RefreshProductByID(productID int) ([]models.RankedOffer, error) {
	product, err := s.productRepo.GetProductByID(productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %v", err)
	}
	return s.RefreshProduct(*product)
}
