package repositories

import (
	"testing"

	"MediPortal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertRowMapping(t *testing.T) {
	alert := models.EmergencyAlert{
		ID:           "al1",
		PatientID:    "u1",
		PatientName:  "John Doe",
		Age:          "34",
		Sex:          "M",
		IncidentType: "Cardiac Arrest",
		Timestamp:    "2026-08-30T12:00:00Z",
		Location:     &models.GeoPoint{Lat: 40.7128, Lng: -74.006},
		MedicalSummary: models.MedicalRecord{
			BloodType: "O+", Allergies: "Penicillin", Conditions: "Asthma", Medications: "Albuterol",
		},
		Status: models.AlertActive,
	}

	row := alertToRow(alert)
	require.NotNil(t, row.PatientID)
	assert.Equal(t, "u1", *row.PatientID)
	require.NotNil(t, row.LocationLat)
	assert.Equal(t, 40.7128, *row.LocationLat)

	assert.Equal(t, alert, rowToAlert(row))
}

func TestAlertRowMappingGuest(t *testing.T) {
	row := alertToRow(models.EmergencyAlert{
		ID:          "al2",
		PatientID:   models.GuestPatientID,
		PatientName: "Walk-in",
		Status:      models.AlertActive,
	})
	assert.Nil(t, row.PatientID, "the GUEST sentinel stores as a null patient id")
	assert.Nil(t, row.LocationLat)
	assert.Nil(t, row.LocationLng)

	back := rowToAlert(row)
	assert.Equal(t, models.GuestPatientID, back.PatientID, "a null patient id reads back as GUEST")
	assert.Nil(t, back.Location)
}

func TestInpatientRowMapping(t *testing.T) {
	p := models.Inpatient{
		ID:                 "p1",
		PatientName:        "Jane Roe",
		DOB:                "1990-04-12",
		Status:             models.AdmissionDischarged,
		AdmissionDate:      "2026-08-01T08:00:00Z",
		DischargeDate:      "2026-08-20T16:00:00Z",
		Ward:               "Wing B",
		AttendingPhysician: "Dr. Grey",
		MedicalSummary: models.MedicalRecord{
			BloodType: "A-", Conditions: "Stable", Medications: "None recorded",
		},
	}

	assert.Equal(t, p, rowToInpatient(inpatientToRow(p)))
}

func TestScheduleRowMapping(t *testing.T) {
	item := models.ScheduleItem{
		ID:          "s9",
		Title:       "Follow-up Consultation",
		Time:        "03:30 PM",
		Type:        models.ScheduleConsultation,
		PatientName: "John Doe",
		Location:    "Exam Room 5",
	}

	row := scheduleToRow(item, "d1")
	assert.Equal(t, "d1", row.DoctorID)
	assert.Equal(t, "03:30 PM", row.TimeString)

	// The owning doctor stays a storage concern; it never leaks back into
	// the domain shape.
	assert.Equal(t, item, rowToSchedule(row))
}

func TestMeetingRowMapping(t *testing.T) {
	meeting := models.MedicalBoardMeeting{
		ID:           "m1",
		Title:        "Oncology Case Review",
		Date:         "2026-09-15",
		Time:         "10:00 AM",
		Specialty:    "Oncology",
		Participants: []string{"Dr. Grey", "Dr. Chen"},
	}

	row := meetingToRow(meeting)
	assert.Equal(t, "2026-09-15", row.MeetingDate)
	assert.Equal(t, meeting, rowToMeeting(row))
}

func TestProfileRowMapping(t *testing.T) {
	user := models.User{
		ID:    "u1",
		Name:  "John Doe",
		Email: "john@example.com",
		Role:  models.RolePatient,
		Photo: "https://example.com/p.png",
	}

	row := userToProfile(user)
	assert.Equal(t, "https://example.com/p.png", row.PhotoURL)
	assert.Equal(t, "PATIENT", row.Role)

	record := models.MedicalRecord{BloodType: "O+"}
	back := profileToUser(row, &record)
	assert.Equal(t, user.Name, back.Name)
	require.NotNil(t, back.MedicalRecord)
	assert.Equal(t, "O+", back.MedicalRecord.BloodType)

	assert.Nil(t, profileToUser(row, nil).MedicalRecord, "non-patients carry no record")
}

func TestPrescriptionRowMapping(t *testing.T) {
	p := models.Prescription{
		ID:           "rx1",
		Medication:   "Amoxicillin",
		Dosage:       "500mg twice daily",
		Status:       models.PrescriptionOrdered,
		PrescribedBy: "Dr. Grey",
		Date:         "2026-08-28",
		PatientID:    "u1",
		PatientName:  "John Doe",
	}

	assert.Equal(t, p, rowToPrescription(prescriptionToRow(p)))
}

func TestPharmacyRowMapping(t *testing.T) {
	item := models.PharmacyItem{
		ID: "st1", Name: "Acetaminophen", Category: "Analgesic", Available: true, LastRestocked: "2026-08-30",
	}
	assert.Equal(t, item, rowToPharmacyItem(pharmacyItemToRow(item)))
}
