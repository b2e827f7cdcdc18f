package repository

import (
	"database/sql"
	"fmt"
	"time"

	"offertrack/database"
	"offertrack/models"
)

type OfferRepository struct{}

func NewOfferRepository() *OfferRepository {
	return &OfferRepository{}
}

// ReplaceProductOffers replaces all stored ranked offers for a product in
// one transaction, so readers never see a half-written ranking.
func (r *OfferRepository) ReplaceProductOffers(productID int, offers []models.RankedOffer) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM ranked_offers WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("failed to clear old offers: %v", err)
	}

	query := `
		INSERT INTO ranked_offers (
			product_id, title, description, amount, percentage, offer_type,
			bank, card_type, card_provider, min_spend, validity, is_instant,
			score, offer_rank, net_effective_price, is_applicable, note, scraped_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	now := time.Now()
	for _, o := range offers {
		_, err := tx.Exec(query,
			productID, o.Title, o.Description, o.Amount, nullFloat(o.Percentage), string(o.OfferType),
			nullString(o.Bank), nullString(string(o.CardType)), nullString(o.CardProvider),
			nullFloat(o.MinSpend), nullString(o.Validity), o.IsInstant,
			nullFloat(o.Score), nullInt(o.Rank), o.NetEffectivePrice, o.IsApplicable, o.Note, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert offer: %v", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit offers: %v", err)
	}
	return nil
}

// GetProductOffers returns the latest stored ranking for a product, bank
// offers first in rank order.
func (r *OfferRepository) GetProductOffers(productID int) ([]models.RankedOffer, error) {
	query := `
		SELECT title, description, amount, percentage, offer_type,
		       bank, card_type, card_provider, min_spend, validity, is_instant,
		       score, offer_rank, net_effective_price, is_applicable, note
		FROM ranked_offers
		WHERE product_id = $1
		ORDER BY offer_rank NULLS LAST, id
	`

	rows, err := database.DB.Query(query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get offers: %v", err)
	}
	defer rows.Close()

	offers := []models.RankedOffer{}
	for rows.Next() {
		var o models.RankedOffer
		var offerType string
		var percentage, minSpend, score sql.NullFloat64
		var bank, cardType, cardProvider, validity, note sql.NullString
		var rank sql.NullInt64

		err := rows.Scan(
			&o.Title, &o.Description, &o.Amount, &percentage, &offerType,
			&bank, &cardType, &cardProvider, &minSpend, &validity, &o.IsInstant,
			&score, &rank, &o.NetEffectivePrice, &o.IsApplicable, &note,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan offer: %v", err)
		}

		o.OfferType = models.OfferType(offerType)
		o.Bank = bank.String
		o.CardType = models.CardType(cardType.String)
		o.CardProvider = cardProvider.String
		o.Validity = validity.String
		o.Note = note.String
		if percentage.Valid {
			v := percentage.Float64
			o.Percentage = &v
		}
		if minSpend.Valid {
			v := minSpend.Float64
			o.MinSpend = &v
		}
		if score.Valid {
			v := score.Float64
			o.Score = &v
		}
		if rank.Valid {
			v := int(rank.Int64)
			o.Rank = &v
		}

		offers = append(offers, o)
	}

	return offers, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
