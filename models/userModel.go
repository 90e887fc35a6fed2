package models

import (
	"time"

	"gorm.io/gorm"
)

// Role represents a user role in the portal
type Role string

const (
	RolePatient Role = "PATIENT"
	RoleDoctor  Role = "DOCTOR"
	RoleAdmin   Role = "ADMIN"
)

// ValidRole reports whether the given role is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// HistoryItem is a single entry in a patient's medical history
type HistoryItem struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Event     string `json:"event"`
	Details   string `json:"details"`
	VisitType string `json:"visitType"`
}

// MedicalRecord holds a patient's live medical data. Snapshots of it are
// embedded in alerts and inpatients and do not track later edits.
type MedicalRecord struct {
	BloodType      string         `json:"bloodType"`
	Allergies      string         `json:"allergies"`
	Conditions     string         `json:"conditions"`
	Medications    string         `json:"medications"`
	LastUpdated    string         `json:"lastUpdated"`
	MedicalHistory []HistoryItem  `json:"medicalHistory,omitempty"`
	Prescriptions  []Prescription `json:"prescriptions,omitempty"`
}

// User represents a portal user. MedicalRecord is present only for patients.
type User struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	Role          Role           `json:"role"`
	Photo         string         `json:"photo,omitempty"`
	MedicalRecord *MedicalRecord `json:"medicalRecord,omitempty"`
}

// UserUpdate carries partial user fields for shallow-merge updates.
type UserUpdate struct {
	Name          *string        `json:"name,omitempty"`
	Photo         *string        `json:"photo,omitempty"`
	Role          *Role          `json:"role,omitempty"`
	MedicalRecord *MedicalRecord `json:"medicalRecord,omitempty"`
}

// ProfileRow is the profiles table row backing a User.
type ProfileRow struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;index;column:email" json:"email"`
	Role      string    `gorm:"size:20;not null;check:role IN ('PATIENT', 'DOCTOR', 'ADMIN');column:role" json:"role"`
	PhotoURL  string    `gorm:"column:photo_url" json:"photo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ProfileRow) TableName() string {
	return "profiles"
}

// MedicalRecordRow is the medical_records table row. One row per patient user.
type MedicalRecordRow struct {
	ID          uint   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID      string `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	BloodType   string `gorm:"column:blood_type" json:"blood_type"`
	Allergies   string `gorm:"column:allergies" json:"allergies"`
	Conditions  string `gorm:"column:conditions" json:"conditions"`
	Medications string `gorm:"column:medications" json:"medications"`
	LastUpdated string `gorm:"column:last_updated" json:"last_updated"`
}

func (MedicalRecordRow) TableName() string {
	return "medical_records"
}

// Account is a login credential row for the auth boundary.
type Account struct {
	ID           string    `gorm:"primaryKey;column:id" json:"id"`
	Email        string    `gorm:"size:255;not null;unique;index;column:email" json:"email"`
	PasswordHash string    `gorm:"size:255;not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// SeedProfiles inserts the on-duty staff profiles used by a fresh install.
func SeedProfiles(db *gorm.DB) error {
	initialProfiles := []ProfileRow{
		{ID: "admin-1", Name: "Hospital Administrator", Email: "admin@mediportal.example", Role: string(RoleAdmin)},
		{ID: "doctor-1", Name: "Dr. On Duty", Email: "onduty@mediportal.example", Role: string(RoleDoctor)},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, profile := range initialProfiles {
			if err := tx.FirstOrCreate(&profile, ProfileRow{ID: profile.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
