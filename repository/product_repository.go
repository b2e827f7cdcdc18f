package repository

import (
	"database/sql"
	"fmt"
	"time"

	"offertrack/database"
	"offertrack/models"
)

type ProductRepository struct{}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productColumns = `id, url, name, retailer, current_price, in_stock, last_checked, last_failed_at, retry_count, created_at, updated_at, is_active`

// AddProduct adds a new product page to track
func (r *ProductRepository) AddProduct(url, name, retailer string) (*models.TrackedProduct, error) {
	query := `
		INSERT INTO tracked_products (url, name, retailer, created_at, updated_at, retry_count)
		VALUES ($1, $2, $3, $4, $4, 0)
		RETURNING ` + productColumns

	var product models.TrackedProduct
	now := time.Now()
	err := database.DB.QueryRow(query, url, name, retailer, now).Scan(
		&product.ID, &product.URL, &product.Name, &product.Retailer,
		&product.CurrentPrice, &product.InStock,
		&product.LastChecked, &product.LastFailedAt, &product.RetryCount,
		&product.CreatedAt, &product.UpdatedAt, &product.IsActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add product: %v", err)
	}

	return &product, nil
}

// GetProducts returns all actively tracked products
func (r *ProductRepository) GetProducts() ([]models.TrackedProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM tracked_products
		WHERE is_active = true
		ORDER BY created_at DESC
	`

	rows, err := database.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %v", err)
	}
	defer rows.Close()

	var products []models.TrackedProduct
	for rows.Next() {
		var p models.TrackedProduct
		err := rows.Scan(
			&p.ID, &p.URL, &p.Name, &p.Retailer,
			&p.CurrentPrice, &p.InStock,
			&p.LastChecked, &p.LastFailedAt, &p.RetryCount,
			&p.CreatedAt, &p.UpdatedAt, &p.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %v", err)
		}
		products = append(products, p)
	}

	return products, nil
}

// GetProductByID returns a tracked product by ID
func (r *ProductRepository) GetProductByID(id int) (*models.TrackedProduct, error) {
	query := `
		SELECT ` + productColumns + `
		FROM tracked_products
		WHERE id = $1 AND is_active = true
	`

	var p models.TrackedProduct
	err := database.DB.QueryRow(query, id).Scan(
		&p.ID, &p.URL, &p.Name, &p.Retailer,
		&p.CurrentPrice, &p.InStock,
		&p.LastChecked, &p.LastFailedAt, &p.RetryCount,
		&p.CreatedAt, &p.UpdatedAt, &p.IsActive,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("product not found")
		}
		return nil, fmt.Errorf("failed to get product: %v", err)
	}

	return &p, nil
}

// DeleteProduct soft-deletes a tracked product
func (r *ProductRepository) DeleteProduct(id int) error {
	query := `UPDATE tracked_products SET is_active = false, updated_at = $2 WHERE id = $1`

	result, err := database.DB.Exec(query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete product: %v", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %v", err)
	}
	if affected == 0 {
		return fmt.Errorf("product not found")
	}

	return nil
}

// UpdateProductPrice updates the scraped price and stock status
func (r *ProductRepository) UpdateProductPrice(id int, price float64, inStock bool) error {
	query := `
		UPDATE tracked_products
		SET current_price = $2, in_stock = $3, last_checked = $4, updated_at = $4
		WHERE id = $1
	`

	if _, err := database.DB.Exec(query, id, price, inStock, time.Now()); err != nil {
		return fmt.Errorf("failed to update product price: %v", err)
	}
	return nil
}

// MarkRefreshFailed records a failed scrape attempt
func (r *ProductRepository) MarkRefreshFailed(id int) error {
	query := `
		UPDATE tracked_products
		SET last_failed_at = $2, retry_count = retry_count + 1, updated_at = $2
		WHERE id = $1
	`

	if _, err := database.DB.Exec(query, id, time.Now()); err != nil {
		return fmt.Errorf("failed to mark refresh failed: %v", err)
	}
	return nil
}

// MarkRefreshSuccess clears the failure state after a successful scrape
func (r *ProductRepository) MarkRefreshSuccess(id int) error {
	query := `
		UPDATE tracked_products
		SET last_failed_at = NULL, retry_count = 0, updated_at = $2
		WHERE id = $1
	`

	if _, err := database.DB.Exec(query, id, time.Now()); err != nil {
		return fmt.Errorf("failed to mark refresh success: %v", err)
	}
	return nil
}
