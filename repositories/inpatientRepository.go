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
	InpatientCacheExpiry = 5 * time.Minute
	inpatientsCacheKey   = "inpatients_cache"
)

type InpatientRepository struct {
	cache *cache.Cache
}

func NewInpatientRepository(cache *cache.Cache) *InpatientRepository {
	return &InpatientRepository{cache: cache}
}

func inpatientToRow(p models.Inpatient) models.InpatientRow {
	return models.InpatientRow{
		ID:                     p.ID,
		PatientName:            p.PatientName,
		DOB:                    p.DOB,
		Status:                 string(p.Status),
		AdmissionDate:          p.AdmissionDate,
		DischargeDate:          p.DischargeDate,
		Ward:                   p.Ward,
		AttendingPhysician:     p.AttendingPhysician,
		MedicalSummarySnapshot: models.MedicalSummary(p.MedicalSummary),
	}
}

func rowToInpatient(row models.InpatientRow) models.Inpatient {
	return models.Inpatient{
		ID:                 row.ID,
		PatientName:        row.PatientName,
		DOB:                row.DOB,
		Status:             models.AdmissionStatus(row.Status),
		AdmissionDate:      row.AdmissionDate,
		DischargeDate:      row.DischargeDate,
		Ward:               row.Ward,
		AttendingPhysician: row.AttendingPhysician,
		MedicalSummary:     models.MedicalRecord(row.MedicalSummarySnapshot),
	}
}

// GetAll returns inpatients ordered by admission date, newest first.
func (r *InpatientRepository) GetAll(ctx context.Context) ([]models.Inpatient, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.Inpatient
	if err := r.cache.GetJSON(ctx, inpatientsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get inpatients from cache: %v", err)
	}

	var rows []models.InpatientRow
	if err := database.DB.WithContext(ctx).Order("admission_date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get inpatients: %w", err)
	}

	inpatients := make([]models.Inpatient, 0, len(rows))
	for _, row := range rows {
		inpatients = append(inpatients, rowToInpatient(row))
	}

	if err := r.cache.SetJSON(ctx, inpatientsCacheKey, inpatients, InpatientCacheExpiry); err != nil {
		log.Printf("Failed to set inpatients in cache: %v", err)
	}
	return inpatients, nil
}

// Create inserts a new inpatient row.
func (r *InpatientRepository) Create(ctx context.Context, p models.Inpatient) error {
	row := inpatientToRow(p)
	if err := database.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create inpatient: %w", err)
	}
	return r.cache.Delete(ctx, inpatientsCacheKey)
}

// UpdateStatus replaces the status for the matching identifier. The discharge
// date is stamped only when the status becomes DISCHARGED.
func (r *InpatientRepository) UpdateStatus(ctx context.Context, id string, status models.AdmissionStatus) error {
	updates := map[string]interface{}{"status": string(status)}
	if status == models.AdmissionDischarged {
		updates["discharge_date"] = time.Now().UTC().Format(time.RFC3339)
	}
	if err := database.DB.WithContext(ctx).Model(&models.InpatientRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to update inpatient status: %w", err)
	}
	return r.cache.Delete(ctx, inpatientsCacheKey)
}

// UpdateMedicalSummary replaces an inpatient's snapshot. It never touches the
// source patient's live medical record.
func (r *InpatientRepository) UpdateMedicalSummary(ctx context.Context, id string, record models.MedicalRecord) error {
	err := database.DB.WithContext(ctx).Model(&models.InpatientRow{}).Where("id = ?", id).
		Update("medical_summary_snapshot", models.MedicalSummary(record)).Error
	if err != nil {
		return fmt.Errorf("failed to update inpatient medical summary: %w", err)
	}
	return r.cache.Delete(ctx, inpatientsCacheKey)
}

// Delete removes an inpatient by identifier. No cascading cleanup.
func (r *InpatientRepository) Delete(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Delete(&models.InpatientRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete inpatient: %w", err)
	}
	return r.cache.Delete(ctx, inpatientsCacheKey)
}
