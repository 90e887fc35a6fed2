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
)

const (
	ScheduleCacheExpiry = 5 * time.Minute
	schedulesCacheKey   = "schedules_cache"
)

type ScheduleRepository struct {
	cache *cache.Cache
}

func NewScheduleRepository(cache *cache.Cache) *ScheduleRepository {
	return &ScheduleRepository{cache: cache}
}

func scheduleToRow(item models.ScheduleItem, doctorID string) models.ScheduleRow {
	return models.ScheduleRow{
		ID:          item.ID,
		DoctorID:    doctorID,
		Title:       item.Title,
		TimeString:  item.Time,
		Type:        string(item.Type),
		PatientName: item.PatientName,
		Location:    item.Location,
	}
}

func rowToSchedule(row models.ScheduleRow) models.ScheduleItem {
	return models.ScheduleItem{
		ID:          row.ID,
		Title:       row.Title,
		Time:        row.TimeString,
		Type:        models.ScheduleType(row.Type),
		PatientName: row.PatientName,
		Location:    row.Location,
	}
}

// GetAll returns every schedule entry.
func (r *ScheduleRepository) GetAll(ctx context.Context) ([]models.ScheduleItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.ScheduleItem
	if err := r.cache.GetJSON(ctx, schedulesCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get schedules from cache: %v", err)
	}

	var rows []models.ScheduleRow
	if err := database.DB.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get schedules: %w", err)
	}

	schedules := make([]models.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		schedules = append(schedules, rowToSchedule(row))
	}

	if err := r.cache.SetJSON(ctx, schedulesCacheKey, schedules, ScheduleCacheExpiry); err != nil {
		log.Printf("Failed to set schedules in cache: %v", err)
	}
	return schedules, nil
}

// Create inserts a booking made by the given doctor.
func (r *ScheduleRepository) Create(ctx context.Context, item models.ScheduleItem, doctorID string) error {
	row := scheduleToRow(item, doctorID)
	if err := database.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return r.cache.Delete(ctx, schedulesCacheKey)
}
