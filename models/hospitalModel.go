package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// AlertStatus is the lifecycle state of an emergency alert
type AlertStatus string

const (
	AlertActive    AlertStatus = "ACTIVE"
	AlertResponded AlertStatus = "RESPONDED"
	AlertResolved  AlertStatus = "RESOLVED"
)

// AdmissionStatus is the lifecycle state of an inpatient
type AdmissionStatus string

const (
	AdmissionOnTheWay   AdmissionStatus = "ON_THE_WAY"
	AdmissionAdmitted   AdmissionStatus = "ADMITTED"
	AdmissionDischarged AdmissionStatus = "DISCHARGED"
)

// ScheduleType categorizes a schedule entry
type ScheduleType string

const (
	ScheduleSurgery      ScheduleType = "SURGERY"
	ScheduleConsultation ScheduleType = "CONSULTATION"
	ScheduleRounds       ScheduleType = "ROUNDS"
	ScheduleBreak        ScheduleType = "BREAK"
)

// PrescriptionStatus is the pharmacy workflow state of a prescription
type PrescriptionStatus string

const (
	PrescriptionOrdered  PrescriptionStatus = "ORDERED"
	PrescriptionApproved PrescriptionStatus = "APPROVED"
	PrescriptionReady    PrescriptionStatus = "READY_FOR_PICKUP"
)

// GuestPatientID marks alerts reported without an authenticated patient.
const GuestPatientID = "GUEST"

// GeoPoint is a reported incident location
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// EmergencyAlert is an active emergency report. MedicalSummary is a snapshot
// taken at creation, not a live reference to the patient's record.
type EmergencyAlert struct {
	ID             string        `json:"id"`
	PatientID      string        `json:"patientId"`
	PatientName    string        `json:"patientName"`
	Age            string        `json:"age"`
	Sex            string        `json:"sex"`
	IncidentType   string        `json:"incidentType"`
	Timestamp      string        `json:"timestamp"`
	Location       *GeoPoint     `json:"location,omitempty"`
	MedicalSummary MedicalRecord `json:"medicalSummary"`
	Status         AlertStatus   `json:"status"`
}

// Inpatient is an admitted (or inbound) patient
type Inpatient struct {
	ID                 string          `json:"id"`
	PatientName        string          `json:"patientName"`
	DOB                string          `json:"dob,omitempty"`
	Status             AdmissionStatus `json:"status"`
	AdmissionDate      string          `json:"admissionDate"`
	DischargeDate      string          `json:"dischargeDate,omitempty"`
	Ward               string          `json:"ward"`
	AttendingPhysician string          `json:"attendingPhysician"`
	MedicalSummary     MedicalRecord   `json:"medicalSummary"`
}

// ScheduleItem is a single schedule entry. Time is a display string, not a
// structured timestamp.
type ScheduleItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Time        string       `json:"time"`
	Type        ScheduleType `json:"type"`
	PatientName string       `json:"patientName,omitempty"`
	Location    string       `json:"location"`
}

// PharmacyItem is a stock catalog entry. An empty ID marks a new item the
// store has not assigned an identifier to yet.
type PharmacyItem struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Available     bool   `json:"available"`
	LastRestocked string `json:"lastRestocked"`
}

// Prescription is a medication order moving through the pharmacy workflow
type Prescription struct {
	ID           string             `json:"id"`
	Medication   string             `json:"medication"`
	Dosage       string             `json:"dosage"`
	Status       PrescriptionStatus `json:"status"`
	PrescribedBy string             `json:"prescribedBy"`
	Date         string             `json:"date"`
	PatientID    string             `json:"patientId,omitempty"`
	PatientName  string             `json:"patientName,omitempty"`
}

// MedicalBoardMeeting is a scheduled board review
type MedicalBoardMeeting struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	Time         string   `json:"time"`
	Specialty    string   `json:"specialty"`
	Participants []string `json:"participants"`
}

// MedicalSummary stores a MedicalRecord snapshot as a JSON column.
type MedicalSummary MedicalRecord

func (m MedicalSummary) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MedicalSummary) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	case nil:
		*m = MedicalSummary{}
		return nil
	}
	return fmt.Errorf("unsupported type %T for medical summary column", value)
}

// StringList stores an ordered list of names as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = StringList{}
		return nil
	}
	return fmt.Errorf("unsupported type %T for string list column", value)
}

// EmergencyAlertRow is the emergency_alerts table row. A null patient_id
// column marks a guest report.
type EmergencyAlertRow struct {
	ID                     string         `gorm:"primaryKey;column:id" json:"id"`
	PatientID              *string        `gorm:"column:patient_id;index" json:"patient_id"`
	PatientName            string         `gorm:"column:patient_name;not null" json:"patient_name"`
	Age                    string         `gorm:"column:age" json:"age"`
	Sex                    string         `gorm:"column:sex;check:sex IN ('M', 'F', 'Other')" json:"sex"`
	IncidentType           string         `gorm:"column:incident_type" json:"incident_type"`
	Timestamp              string         `gorm:"column:timestamp;index" json:"timestamp"`
	LocationLat            *float64       `gorm:"column:location_lat" json:"location_lat"`
	LocationLng            *float64       `gorm:"column:location_lng" json:"location_lng"`
	MedicalSummarySnapshot MedicalSummary `gorm:"column:medical_summary_snapshot;type:jsonb" json:"medical_summary_snapshot"`
	Status                 string         `gorm:"column:status;check:status IN ('ACTIVE', 'RESPONDED', 'RESOLVED');not null" json:"status"`
}

func (EmergencyAlertRow) TableName() string {
	return "emergency_alerts"
}

// InpatientRow is the inpatients table row.
type InpatientRow struct {
	ID                     string         `gorm:"primaryKey;column:id" json:"id"`
	PatientName            string         `gorm:"column:patient_name;not null;index" json:"patient_name"`
	DOB                    string         `gorm:"column:dob" json:"dob"`
	Status                 string         `gorm:"column:status;check:status IN ('ON_THE_WAY', 'ADMITTED', 'DISCHARGED');not null" json:"status"`
	AdmissionDate          string         `gorm:"column:admission_date;index" json:"admission_date"`
	DischargeDate          string         `gorm:"column:discharge_date" json:"discharge_date"`
	Ward                   string         `gorm:"column:ward" json:"ward"`
	AttendingPhysician     string         `gorm:"column:attending_physician" json:"attending_physician"`
	MedicalSummarySnapshot MedicalSummary `gorm:"column:medical_summary_snapshot;type:jsonb" json:"medical_summary_snapshot"`
}

func (InpatientRow) TableName() string {
	return "inpatients"
}

// PharmacyItemRow is the pharmacy_inventory table row.
type PharmacyItemRow struct {
	ID            string `gorm:"primaryKey;column:id" json:"id"`
	Name          string `gorm:"column:name;not null;index" json:"name"`
	Category      string `gorm:"column:category" json:"category"`
	Available     bool   `gorm:"column:available;not null" json:"available"`
	LastRestocked string `gorm:"column:last_restocked" json:"last_restocked"`
}

func (PharmacyItemRow) TableName() string {
	return "pharmacy_inventory"
}

// PrescriptionRow is the prescriptions table row.
type PrescriptionRow struct {
	ID           string `gorm:"primaryKey;column:id" json:"id"`
	Medication   string `gorm:"column:medication;not null" json:"medication"`
	Dosage       string `gorm:"column:dosage" json:"dosage"`
	Status       string `gorm:"column:status;check:status IN ('ORDERED', 'APPROVED', 'READY_FOR_PICKUP');not null" json:"status"`
	PrescribedBy string `gorm:"column:prescribed_by" json:"prescribed_by"`
	Date         string `gorm:"column:date;index" json:"date"`
	PatientID    string `gorm:"column:patient_id;index" json:"patient_id"`
	PatientName  string `gorm:"column:patient_name" json:"patient_name"`
}

func (PrescriptionRow) TableName() string {
	return "prescriptions"
}

// ScheduleRow is the schedules table row. The booking doctor is kept on the
// row but not part of the domain shape.
type ScheduleRow struct {
	ID          string `gorm:"primaryKey;column:id" json:"id"`
	DoctorID    string `gorm:"column:doctor_id;index" json:"doctor_id"`
	Title       string `gorm:"column:title;not null" json:"title"`
	TimeString  string `gorm:"column:time_string" json:"time_string"`
	Type        string `gorm:"column:type;check:type IN ('SURGERY', 'CONSULTATION', 'ROUNDS', 'BREAK');not null" json:"type"`
	PatientName string `gorm:"column:patient_name;index" json:"patient_name"`
	Location    string `gorm:"column:location" json:"location"`
}

func (ScheduleRow) TableName() string {
	return "schedules"
}

// BoardMeetingRow is the board_meetings table row.
type BoardMeetingRow struct {
	ID           string     `gorm:"primaryKey;column:id" json:"id"`
	Title        string     `gorm:"column:title;not null" json:"title"`
	MeetingDate  string     `gorm:"column:meeting_date" json:"meeting_date"`
	MeetingTime  string     `gorm:"column:meeting_time" json:"meeting_time"`
	Specialty    string     `gorm:"column:specialty" json:"specialty"`
	Participants StringList `gorm:"column:participants;type:jsonb" json:"participants"`
}

func (BoardMeetingRow) TableName() string {
	return "board_meetings"
}

// InitialPharmacyStock is the seed catalog for a fresh install.
func InitialPharmacyStock() []PharmacyItem {
	now := time.Now().UTC().Format(time.RFC3339)
	return []PharmacyItem{
		{ID: "st1", Name: "Acetaminophen", Category: "Analgesic", Available: true, LastRestocked: now},
		{ID: "st2", Name: "Amoxicillin", Category: "Antibiotic", Available: true, LastRestocked: now},
		{ID: "st3", Name: "Insulin Humalog", Category: "Metabolic", Available: true, LastRestocked: now},
		{ID: "st4", Name: "Ventolin HFA", Category: "Respiratory", Available: false, LastRestocked: now},
	}
}

// InitialSchedules is the seed duty roster for a fresh install.
func InitialSchedules() []ScheduleItem {
	return []ScheduleItem{
		{ID: "s1", Title: "Cardiac Surgery", Time: "09:00 AM", Type: ScheduleSurgery, PatientName: "Robert Chen", Location: "OR-4"},
		{ID: "s2", Title: "ER Consultation", Time: "11:30 AM", Type: ScheduleConsultation, PatientName: "Sarah Jenkins", Location: "Exam Room 2"},
		{ID: "s3", Title: "Ward Rounds", Time: "02:00 PM", Type: ScheduleRounds, Location: "Wing B"},
	}
}

// SeedPharmacyInventory inserts the initial stock catalog.
func SeedPharmacyInventory(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range InitialPharmacyStock() {
			row := PharmacyItemRow{
				ID:            item.ID,
				Name:          item.Name,
				Category:      item.Category,
				Available:     item.Available,
				LastRestocked: item.LastRestocked,
			}
			if err := tx.FirstOrCreate(&row, PharmacyItemRow{ID: row.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SeedSchedules inserts the initial duty roster.
func SeedSchedules(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, item := range InitialSchedules() {
			row := ScheduleRow{
				ID:          item.ID,
				Title:       item.Title,
				TimeString:  item.Time,
				Type:        string(item.Type),
				PatientName: item.PatientName,
				Location:    item.Location,
			}
			if err := tx.FirstOrCreate(&row, ScheduleRow{ID: row.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
