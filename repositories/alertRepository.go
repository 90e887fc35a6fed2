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
	AlertCacheExpiry = 5 * time.Minute
	alertsCacheKey   = "alerts_cache"
)

type AlertRepository struct {
	cache *cache.Cache
}

func NewAlertRepository(cache *cache.Cache) *AlertRepository {
	return &AlertRepository{cache: cache}
}

// alertToRow flattens a domain alert into its table row.
func alertToRow(alert models.EmergencyAlert) models.EmergencyAlertRow {
	row := models.EmergencyAlertRow{
		ID:                     alert.ID,
		PatientName:            alert.PatientName,
		Age:                    alert.Age,
		Sex:                    alert.Sex,
		IncidentType:           alert.IncidentType,
		Timestamp:              alert.Timestamp,
		MedicalSummarySnapshot: models.MedicalSummary(alert.MedicalSummary),
		Status:                 string(alert.Status),
	}
	if alert.PatientID != "" && alert.PatientID != models.GuestPatientID {
		patientID := alert.PatientID
		row.PatientID = &patientID
	}
	if alert.Location != nil {
		lat, lng := alert.Location.Lat, alert.Location.Lng
		row.LocationLat = &lat
		row.LocationLng = &lng
	}
	return row
}

// rowToAlert maps a table row back into the domain shape. A null patient id
// becomes the GUEST sentinel.
func rowToAlert(row models.EmergencyAlertRow) models.EmergencyAlert {
	alert := models.EmergencyAlert{
		ID:             row.ID,
		PatientID:      models.GuestPatientID,
		PatientName:    row.PatientName,
		Age:            row.Age,
		Sex:            row.Sex,
		IncidentType:   row.IncidentType,
		Timestamp:      row.Timestamp,
		MedicalSummary: models.MedicalRecord(row.MedicalSummarySnapshot),
		Status:         models.AlertStatus(row.Status),
	}
	if row.PatientID != nil {
		alert.PatientID = *row.PatientID
	}
	if row.LocationLat != nil && row.LocationLng != nil {
		alert.Location = &models.GeoPoint{Lat: *row.LocationLat, Lng: *row.LocationLng}
	}
	return alert
}

// GetAll returns alerts ordered by timestamp, newest first.
func (r *AlertRepository) GetAll(ctx context.Context) ([]models.EmergencyAlert, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cached []models.EmergencyAlert
	if err := r.cache.GetJSON(ctx, alertsCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get alerts from cache: %v", err)
	}

	var rows []models.EmergencyAlertRow
	if err := database.DB.WithContext(ctx).Order("timestamp DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get emergency alerts: %w", err)
	}

	alerts := make([]models.EmergencyAlert, 0, len(rows))
	for _, row := range rows {
		alerts = append(alerts, rowToAlert(row))
	}

	if err := r.cache.SetJSON(ctx, alertsCacheKey, alerts, AlertCacheExpiry); err != nil {
		log.Printf("Failed to set alerts in cache: %v", err)
	}
	return alerts, nil
}

// Create inserts a new alert row. The generated identifier is not returned to
// the caller.
func (r *AlertRepository) Create(ctx context.Context, alert models.EmergencyAlert) error {
	row := alertToRow(alert)
	if err := database.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to create emergency alert: %w", err)
	}
	return r.cache.Delete(ctx, alertsCacheKey)
}

// Delete removes an alert by identifier. No existence check.
func (r *AlertRepository) Delete(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Delete(&models.EmergencyAlertRow{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete emergency alert: %w", err)
	}
	return r.cache.Delete(ctx, alertsCacheKey)
}
