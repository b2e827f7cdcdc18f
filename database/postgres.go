package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitDatabase initializes the database connection
func InitDatabase() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %v", err)
	}

	log.Println("Successfully connected to database")
	return nil
}

// CreateTables creates the necessary tables if they don't exist
func CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tracked_products (
			id SERIAL PRIMARY KEY,
			url TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			retailer VARCHAR(20) NOT NULL CHECK (retailer IN ('amazon', 'flipkart', 'croma', 'jiomart')),
			current_price DECIMAL(12,2),
			in_stock BOOLEAN DEFAULT TRUE,
			last_checked TIMESTAMP,
			last_failed_at TIMESTAMP,
			retry_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			is_active BOOLEAN DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS ranked_offers (
			id SERIAL PRIMARY KEY,
			product_id INTEGER REFERENCES tracked_products(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			amount DECIMAL(12,2) NOT NULL DEFAULT 0,
			percentage DECIMAL(5,2),
			offer_type VARCHAR(60) NOT NULL,
			bank TEXT,
			card_type VARCHAR(20),
			card_provider VARCHAR(30),
			min_spend DECIMAL(12,2),
			validity TEXT,
			is_instant BOOLEAN DEFAULT FALSE,
			score DECIMAL(5,2),
			offer_rank INTEGER,
			net_effective_price DECIMAL(12,2) NOT NULL,
			is_applicable BOOLEAN NOT NULL,
			note TEXT,
			scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ranked_offers_product ON ranked_offers(product_id)`,
	}

	for _, query := range queries {
		if _, err := DB.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	log.Println("Database tables created successfully")
	return nil
}

// CloseDatabase closes the database connection
func CloseDatabase() {
	if DB != nil {
		DB.Close()
	}
}
