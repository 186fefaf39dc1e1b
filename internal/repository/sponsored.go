package repository

import (
	"fmt"
	"time"

	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
)

type SponsoredRepository interface {
	// ActiveSlots returns the sponsored slots whose display window
	// covers now, oldest window first.
	ActiveSlots(now time.Time) ([]model.SponsoredSlot, error)
}

type DBSponsoredRepository struct {
	db db.DB
}

func NewDBSponsoredRepository(db db.DB) *DBSponsoredRepository {
	return &DBSponsoredRepository{db: db}
}

func (r *DBSponsoredRepository) ActiveSlots(now time.Time) ([]model.SponsoredSlot, error) {
	rows, err := r.db.Query(
		`SELECT id, title, image_url, target_url, starts_at, ends_at FROM sponsored_slots
		WHERE starts_at <= ? AND ends_at > ?
		ORDER BY starts_at`,
		now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying sponsored slots: %w", err)
	}
	defer rows.Close()

	slots := make([]model.SponsoredSlot, 0)
	for rows.Next() {
		var s model.SponsoredSlot
		err := rows.Scan(&s.ID, &s.Title, &s.ImageURL, &s.TargetURL, &s.StartsAt, &s.EndsAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning sponsored slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
