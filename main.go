package main

import (
	"log"
	"net/http"
	"strings"

	"offertrack/cache"
	"offertrack/config"
	"offertrack/database"
	"offertrack/handlers"
	"offertrack/middleware"
	"offertrack/repository"
	"offertrack/scheduler"
	"offertrack/scraper"
	"offertrack/services"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	serverCfg := config.LoadServerConfig()
	redisCfg := config.LoadRedisConfig()
	scraperCfg := config.LoadScraperConfig()
	schedulerCfg := config.LoadSchedulerConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	if err := database.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository()
	offerRepo := repository.NewOfferRepository()

	// Initialize cache: redis when configured, in-memory otherwise
	var c cache.Cache
	if redisCfg.Addr != "" {
		redisCache, err := cache.NewRedisCache(redisCfg.Addr, redisCfg.Password, redisCfg.DB)
		if err != nil {
			log.Printf("Redis unavailable (%v), falling back to in-memory cache", err)
			c = cache.NewInMemoryCache()
		} else {
			c = redisCache
			log.Printf("Connected to redis at %s", redisCfg.Addr)
		}
	} else {
		c = cache.NewInMemoryCache()
	}

	// Initialize the browser scraper. The ranking API works without it, so
	// a missing browser only disables refresh endpoints.
	offerScraper, err := scraper.NewOfferScraper(scraperCfg.Headless)
	if err != nil {
		log.Printf("Scraper unavailable: %v (refresh endpoints disabled)", err)
		offerScraper = nil
	} else {
		defer offerScraper.Close()
	}

	refreshSvc := services.NewRefreshService(offerScraper, productRepo, offerRepo, c)

	// Initialize handlers
	h := handlers.NewHandlers(productRepo, offerRepo, refreshSvc, c)
	defer h.Close()

	// Initialize and start the periodic offer checker
	if offerScraper != nil {
		offerChecker := scheduler.NewOfferChecker(schedulerCfg.Schedule, productRepo, refreshSvc.RefreshProduct)
		offerChecker.Start()
		defer offerChecker.Stop()
	}

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Logging)

	// Health endpoint (not rate limited)
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.Use(middleware.RateLimit(serverCfg.RateLimitRPS))

	// Direct offer ranking
	apiV1.HandleFunc("/offers/rank", h.RankOffers).Methods("POST")

	// Product management
	apiV1.HandleFunc("/products", h.AddProduct).Methods("POST")
	apiV1.HandleFunc("/products", h.GetProducts).Methods("GET")
	apiV1.HandleFunc("/products/{id}", h.GetProductDetails).Methods("GET")
	apiV1.HandleFunc("/products/{id}", h.DeleteProduct).Methods("DELETE")
	apiV1.HandleFunc("/products/{id}/offers", h.GetProductOffers).Methods("GET")
	apiV1.HandleFunc("/products/{id}/refresh", h.RefreshProduct).Methods("POST")
	apiV1.HandleFunc("/products/{id}/refresh-async", h.RefreshProductAsync).Methods("POST")

	// Task management
	apiV1.HandleFunc("/tasks/stats", h.GetTaskStats).Methods("GET")
	apiV1.HandleFunc("/tasks/{taskId}", h.GetTaskStatus).Methods("GET")

	// CORS configuration
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(serverCfg.AllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := serverCfg.Host + ":" + serverCfg.Port
	log.Printf("Server starting on %s", addr)
	log.Printf("   POST /api/v1/offers/rank - Rank offers at a price")
	log.Printf("   POST /api/v1/products - Track a product page")
	log.Printf("   POST /api/v1/products/{id}/refresh - Scrape and re-rank now")

	if err := http.ListenAndServe(addr, corsHandler.Handler(r)); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
