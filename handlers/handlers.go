package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"offertrack/cache"
	"offertrack/models"
	"offertrack/offers"
	"offertrack/repository"
	"offertrack/scheduler"
	"offertrack/services"

	"github.com/gorilla/mux"
)

const offerCacheTTL = 10 * time.Minute

type Handlers struct {
	productRepo *repository.ProductRepository
	offerRepo   *repository.OfferRepository
	refreshSvc  *services.RefreshService
	taskManager *scheduler.TaskManager
	cache       cache.Cache
	rankers     map[string]*offers.Ranker
}

func NewHandlers(productRepo *repository.ProductRepository, offerRepo *repository.OfferRepository,
	refreshSvc *services.RefreshService, c cache.Cache) *Handlers {

	registry := offers.NewBankRegistry()
	rankers := make(map[string]*offers.Ranker)
	for _, retailer := range offers.Retailers() {
		rankers[retailer] = offers.NewRanker(registry, offers.ConfigFor(retailer))
	}
	rankers["generic"] = offers.NewRanker(registry, offers.ConfigFor(""))

	h := &Handlers{
		productRepo: productRepo,
		offerRepo:   offerRepo,
		refreshSvc:  refreshSvc,
		cache:       c,
		rankers:     rankers,
	}

	h.taskManager = scheduler.NewTaskManager(h.performRefresh, 5)
	return h
}

// Close stops the async workers
func (h *Handlers) Close() {
	if h.taskManager != nil {
		h.taskManager.Stop()
	}
}

// performRefresh is the task-manager work function
func (h *Handlers) performRefresh(productID int) ([]models.RankedOffer, error) {
	return h.refreshSvc.RefreshProductByID(productID)
}

// rankRequest is the direct ranking payload. product_price accepts either a
// number or a displayed price string like "₹30,999".
type rankRequest struct {
	ProductPrice interface{}       `json:"product_price"`
	Retailer     string            `json:"retailer"`
	Offers       []models.RawOffer `json:"offers"`
}

// RankOffers ranks a posted offer list at a posted price. This is the pure
// core exposed over HTTP: no scraping, no persistence.
func (h *Handlers) RankOffers(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	price, ok := normalizePrice(req.ProductPrice)
	if !ok {
		writeError(w, http.StatusBadRequest, "product_price must be a number or a price string")
		return
	}

	ranker, exists := h.rankers[req.Retailer]
	if !exists {
		ranker = h.rankers["generic"]
	}

	ranked := ranker.RankOffers(req.Offers, price)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_price": price,
		"retailer":      req.Retailer,
		"total_offers":  len(ranked),
		"ranked_offers": ranked,
	})
}

// normalizePrice accepts a JSON number or a price string and returns the
// numeric price. A missing price is 0, not an error: the ranker handles it.
func normalizePrice(v interface{}) (float64, bool) {
	switch p := v.(type) {
	case nil:
		return 0, true
	case float64:
		if p < 0 {
			return 0, true
		}
		return p, true
	case string:
		return offers.ParsePriceString(p), true
	default:
		return 0, false
	}
}

type addProductRequest struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	Retailer string `json:"retailer"`
}

// AddProduct registers a product page for tracking
func (h *Handlers) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req addProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if req.URL == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "url and name are required")
		return
	}
	if !validRetailer(req.Retailer) {
		writeError(w, http.StatusBadRequest, "retailer must be one of: amazon, flipkart, croma, jiomart")
		return
	}

	product, err := h.productRepo.AddProduct(req.URL, req.Name, req.Retailer)
	if err != nil {
		log.Printf("Failed to add product: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to add product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

func validRetailer(retailer string) bool {
	for _, r := range offers.Retailers() {
		if r == retailer {
			return true
		}
	}
	return false
}

// GetProducts returns all tracked products
func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.GetProducts()
	if err != nil {
		log.Printf("Failed to get products: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to get products")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(products),
		"products": products,
	})
}

// GetProductDetails returns one tracked product
func (h *Handlers) GetProductDetails(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	product, err := h.productRepo.GetProductByID(id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// DeleteProduct stops tracking a product
func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.productRepo.DeleteProduct(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RefreshProduct synchronously scrapes and re-ranks one product
func (h *Handlers) RefreshProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if h.refreshSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "Scraping is not available")
		return
	}

	ranked, err := h.refreshSvc.RefreshProductByID(id)
	if err != nil {
		log.Printf("Failed to refresh product %d: %v", id, err)
		writeError(w, http.StatusBadGateway, "Failed to refresh product offers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"product_id":    id,
		"total_offers":  len(ranked),
		"ranked_offers": ranked,
	})
}

// RefreshProductAsync queues a scrape-and-rank task for one product
func (h *Handlers) RefreshProductAsync(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if h.refreshSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "Scraping is not available")
		return
	}

	if _, err := h.productRepo.GetProductByID(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	task := h.taskManager.SubmitTask(id)
	writeJSON(w, http.StatusAccepted, task)
}

// GetProductOffers returns the latest stored ranking, cached briefly.
func (h *Handlers) GetProductOffers(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	key := cache.ProductOffersKey(id)
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), key); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	if _, err := h.productRepo.GetProductByID(id); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	ranked, err := h.offerRepo.GetProductOffers(id)
	if err != nil {
		log.Printf("Failed to get offers for product %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to get offers")
		return
	}

	body := map[string]interface{}{
		"product_id":    id,
		"total_offers":  len(ranked),
		"ranked_offers": ranked,
	}

	if h.cache != nil {
		if data, err := json.Marshal(body); err == nil {
			if err := h.cache.Set(r.Context(), key, data, offerCacheTTL); err != nil {
				log.Printf("Failed to cache offers for product %d: %v", id, err)
			}
		}
	}

	writeJSON(w, http.StatusOK, body)
}

// GetTaskStatus returns an async task by ID
func (h *Handlers) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	task, exists := h.taskManager.GetTask(taskID)
	if !exists {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// GetTaskStats returns task counts per status
func (h *Handlers) GetTaskStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.taskManager.GetStats())
}

// HealthCheck reports service liveness
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
