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
	PrescriptionCacheExpiry = 5 * time.Minute
	prescriptionsCacheKey   = "prescriptions_cache"
)

type PrescriptionRepository struct {
	cache *cache.Cache
}

func NewPrescriptionRepository(cache *cache.Cache) *PrescriptionRepository {
	return &PrescriptionRepository{cache: cache}
}

func prescriptionToRow(p models.Prescription) models.PrescriptionRow {
	return models.PrescriptionRow{
		ID:           p.ID,
		Medication:   p.Medication,
		Dosage:       p.Dosage,
		Status:       string(p.Status),
		PrescribedBy: p.PrescribedBy,
		Date:         p.Date,
		PatientID:    p.PatientID,
		PatientName:  p.PatientName,
	}
}

func rowToPrescription(row models.PrescriptionRow) models.Prescription {
	return models.Prescription{
		ID:           row.ID,
		Medication:   row.Medication,
		Dosage:       row.Dosage,
		Status:       models.PrescriptionStatus(row.Status),
		PrescribedBy: row.PrescribedBy,
		Date:         row.Date,
		PatientID:    row.PatientID,
		PatientName:  row.PatientName,
	}
}

// GetAll returns prescriptions ordered by date, newest first.
func (r *PrescriptionRepository) GetAll(ctx context.Context) ([]models.Prescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.Prescription
	if err := r.cache.GetJSON(ctx, prescriptionsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get prescriptions from cache: %v", err)
	}

	var rows []models.PrescriptionRow
	if err := database.DB.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get prescriptions: %w", err)
	}

	prescriptions := make([]models.Prescription, 0, len(rows))
	for _, row := range rows {
		prescriptions = append(prescriptions, rowToPrescription(row))
	}

	if err := r.cache.SetJSON(ctx, prescriptionsCacheKey, prescriptions, PrescriptionCacheExpiry); err != nil {
		log.Printf("Failed to set prescriptions in cache: %v", err)
	}
	return prescriptions, nil
}

// UpdateStatus replaces the status for the matching identifier.
func (r *PrescriptionRepository) UpdateStatus(ctx context.Context, id string, status models.PrescriptionStatus) error {
	err := database.DB.WithContext(ctx).Model(&models.PrescriptionRow{}).Where("id = ?", id).
		Update("status", string(status)).Error
	if err != nil {
		return fmt.Errorf("failed to update prescription status: %w", err)
	}
	return r.cache.Delete(ctx, prescriptionsCacheKey)
}
