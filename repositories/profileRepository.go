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

	"gorm.io/gorm"
)

const ProfileCacheExpiry = 30 * time.Minute

// ErrProfileNotFound is returned when no profile row exists for an id.
var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository struct {
	cache *cache.Cache
}

func NewProfileRepository(cache *cache.Cache) *ProfileRepository {
	return &ProfileRepository{cache: cache}
}

func profileToUser(row models.ProfileRow, record *models.MedicalRecord) models.User {
	return models.User{
		ID:            row.ID,
		Name:          row.Name,
		Email:         row.Email,
		Role:          models.Role(row.Role),
		Photo:         row.PhotoURL,
		MedicalRecord: record,
	}
}

func userToProfile(user models.User) models.ProfileRow {
	return models.ProfileRow{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     string(user.Role),
		PhotoURL: user.Photo,
	}
}

func rowToMedicalRecord(row models.MedicalRecordRow) models.MedicalRecord {
	return models.MedicalRecord{
		BloodType:   row.BloodType,
		Allergies:   row.Allergies,
		Conditions:  row.Conditions,
		Medications: row.Medications,
		LastUpdated: row.LastUpdated,
	}
}

// GetByID loads a profile by principal id, attaching the medical record when
// the profile's role is PATIENT. Returns ErrProfileNotFound when no row exists.
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.profileCacheKey(id)
	var cached models.User
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("Failed to get profile from cache: %v", err)
	}

	var row models.ProfileRow
	if err := database.DB.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var record *models.MedicalRecord
	if models.Role(row.Role) == models.RolePatient {
		var recordRow models.MedicalRecordRow
		err := database.DB.WithContext(ctx).First(&recordRow, "user_id = ?", id).Error
		if err == nil {
			mapped := rowToMedicalRecord(recordRow)
			record = &mapped
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get medical record: %w", err)
		}
	}

	user := profileToUser(row, record)
	if err := r.cache.SetJSON(ctx, cacheKey, user, ProfileCacheExpiry); err != nil {
		log.Printf("Failed to set profile in cache: %v", err)
	}
	return &user, nil
}

// Insert creates a profile row for a user.
func (r *ProfileRepository) Insert(ctx context.Context, user models.User) error {
	row := userToProfile(user)
	if err := database.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return r.cache.Delete(ctx, r.profileCacheKey(user.ID))
}

// UpdateRole replaces a user's role.
func (r *ProfileRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	err := database.DB.WithContext(ctx).Model(&models.ProfileRow{}).Where("id = ?", id).
		Update("role", string(role)).Error
	if err != nil {
		return fmt.Errorf("failed to update profile role: %w", err)
	}
	return r.cache.Delete(ctx, r.profileCacheKey(id))
}

// UpdateProfile applies partial name/photo updates to a profile row.
func (r *ProfileRepository) UpdateProfile(ctx context.Context, id string, updates models.UserUpdate) error {
	fields := map[string]interface{}{}
	if updates.Name != nil {
		fields["name"] = *updates.Name
	}
	if updates.Photo != nil {
		fields["photo_url"] = *updates.Photo
	}
	if len(fields) > 0 {
		err := database.DB.WithContext(ctx).Model(&models.ProfileRow{}).Where("id = ?", id).
			Updates(fields).Error
		if err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}
	}

	if updates.MedicalRecord != nil {
		if err := r.upsertMedicalRecord(ctx, id, *updates.MedicalRecord); err != nil {
			return err
		}
	}
	return r.cache.Delete(ctx, r.profileCacheKey(id))
}

// upsertMedicalRecord updates the user's record row or inserts one when it
// does not exist yet. The last_updated stamp is set here.
func (r *ProfileRepository) upsertMedicalRecord(ctx context.Context, userID string, record models.MedicalRecord) error {
	values := map[string]interface{}{
		"blood_type":   record.BloodType,
		"allergies":    record.Allergies,
		"conditions":   record.Conditions,
		"medications":  record.Medications,
		"last_updated": time.Now().UTC().Format(time.RFC3339),
	}

	var existing models.MedicalRecordRow
	err := database.DB.WithContext(ctx).First(&existing, "user_id = ?", userID).Error
	switch {
	case err == nil:
		err = database.DB.WithContext(ctx).Model(&models.MedicalRecordRow{}).
			Where("user_id = ?", userID).Updates(values).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		row := models.MedicalRecordRow{
			UserID:      userID,
			BloodType:   record.BloodType,
			Allergies:   record.Allergies,
			Conditions:  record.Conditions,
			Medications: record.Medications,
			LastUpdated: values["last_updated"].(string),
		}
		err = database.DB.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return fmt.Errorf("failed to upsert medical record: %w", err)
	}
	return nil
}

func (r *ProfileRepository) profileCacheKey(id string) string {
	return fmt.Sprintf("profile_cache:%s", id)
}
