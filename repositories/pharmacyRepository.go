package repositories

import (
	"MediPortal/cache"
	"MediPortal/database"
	"MediPortal/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

const (
	PharmacyCacheExpiry = 15 * time.Minute
	pharmacyCacheKey    = "pharmacy_cache"
)

type PharmacyRepository struct {
	cache *cache.Cache
}

func NewPharmacyRepository(cache *cache.Cache) *PharmacyRepository {
	return &PharmacyRepository{cache: cache}
}

func pharmacyItemToRow(item models.PharmacyItem) models.PharmacyItemRow {
	return models.PharmacyItemRow{
		ID:            item.ID,
		Name:          item.Name,
		Category:      item.Category,
		Available:     item.Available,
		LastRestocked: item.LastRestocked,
	}
}

func rowToPharmacyItem(row models.PharmacyItemRow) models.PharmacyItem {
	return models.PharmacyItem{
		ID:            row.ID,
		Name:          row.Name,
		Category:      row.Category,
		Available:     row.Available,
		LastRestocked: row.LastRestocked,
	}
}

// GetAll returns the stock catalog ordered by name.
func (r *PharmacyRepository) GetAll(ctx context.Context) ([]models.PharmacyItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.PharmacyItem
	if err := r.cache.GetJSON(ctx, pharmacyCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get pharmacy stock from cache: %v", err)
	}

	var rows []models.PharmacyItemRow
	if err := database.DB.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get pharmacy stock: %w", err)
	}

	items := make([]models.PharmacyItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToPharmacyItem(row))
	}

	if err := r.cache.SetJSON(ctx, pharmacyCacheKey, items, PharmacyCacheExpiry); err != nil {
		log.Printf("Failed to set pharmacy stock in cache: %v", err)
	}
	return items, nil
}

// ReplaceStock upserts every item of the incoming collection. An item with an
// empty identifier is new and gets a store-assigned one; all others upsert by
// identifier.
func (r *PharmacyRepository) ReplaceStock(ctx context.Context, items []models.PharmacyItem) error {
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		row := pharmacyItemToRow(item)
		err := database.DB.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "available", "last_restocked"}),
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("failed to upsert pharmacy item %q: %w", item.Name, err)
		}
	}
	return r.cache.Delete(ctx, pharmacyCacheKey)
}
