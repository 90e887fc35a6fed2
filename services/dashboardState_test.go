package services

import (
	"context"
	"testing"

	"MediPortal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMirror captures mirror calls so tests can assert the write path.
type recordingMirror struct {
	createdAlerts     []models.EmergencyAlert
	deletedAlerts     []string
	createdInpatients []models.Inpatient
	deletedInpatients []string
	statusUpdates     map[string]models.AdmissionStatus
	summaryUpdates    map[string]models.MedicalRecord
	schedules         []models.ScheduleItem
	scheduleDoctors   []string
	meetings          []models.MedicalBoardMeeting
	deletedMeetings   []string
	stockReplacements [][]models.PharmacyItem
	rxUpdates         map[string]models.PrescriptionStatus
	profileUpdates    []string
}

func newRecordingMirror() *recordingMirror {
	return &recordingMirror{
		statusUpdates:  make(map[string]models.AdmissionStatus),
		summaryUpdates: make(map[string]models.MedicalRecord),
		rxUpdates:      make(map[string]models.PrescriptionStatus),
	}
}

func (m *recordingMirror) CreateAlert(_ context.Context, alert models.EmergencyAlert) error {
	m.createdAlerts = append(m.createdAlerts, alert)
	return nil
}

func (m *recordingMirror) DeleteAlert(_ context.Context, id string) error {
	m.deletedAlerts = append(m.deletedAlerts, id)
	return nil
}

func (m *recordingMirror) CreateInpatient(_ context.Context, p models.Inpatient) error {
	m.createdInpatients = append(m.createdInpatients, p)
	return nil
}

func (m *recordingMirror) SetInpatientStatus(_ context.Context, id string, status models.AdmissionStatus) error {
	m.statusUpdates[id] = status
	return nil
}

func (m *recordingMirror) SetInpatientSummary(_ context.Context, id string, record models.MedicalRecord) error {
	m.summaryUpdates[id] = record
	return nil
}

func (m *recordingMirror) DeleteInpatient(_ context.Context, id string) error {
	m.deletedInpatients = append(m.deletedInpatients, id)
	return nil
}

func (m *recordingMirror) CreateSchedule(_ context.Context, item models.ScheduleItem, doctorID string) error {
	m.schedules = append(m.schedules, item)
	m.scheduleDoctors = append(m.scheduleDoctors, doctorID)
	return nil
}

func (m *recordingMirror) CreateMeeting(_ context.Context, meeting models.MedicalBoardMeeting) error {
	m.meetings = append(m.meetings, meeting)
	return nil
}

func (m *recordingMirror) DeleteMeeting(_ context.Context, id string) error {
	m.deletedMeetings = append(m.deletedMeetings, id)
	return nil
}

func (m *recordingMirror) ReplaceStock(_ context.Context, items []models.PharmacyItem) error {
	m.stockReplacements = append(m.stockReplacements, items)
	return nil
}

func (m *recordingMirror) SetPrescriptionStatus(_ context.Context, id string, status models.PrescriptionStatus) error {
	m.rxUpdates[id] = status
	return nil
}

func (m *recordingMirror) UpdateProfile(_ context.Context, id string, _ models.UserUpdate) error {
	m.profileUpdates = append(m.profileUpdates, id)
	return nil
}

// recordingSessions captures session persistence calls.
type recordingSessions struct {
	saved   []models.User
	deleted []string
}

func (s *recordingSessions) Save(_ context.Context, user models.User) error {
	s.saved = append(s.saved, user)
	return nil
}

func (s *recordingSessions) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func patientUser() *models.User {
	return &models.User{
		ID:    "u1",
		Name:  "John Doe",
		Email: "john@example.com",
		Role:  models.RolePatient,
		MedicalRecord: &models.MedicalRecord{
			BloodType:   "O+",
			Allergies:   "Penicillin",
			Conditions:  "Asthma",
			Medications: "Albuterol",
			LastUpdated: "2024-01-01T00:00:00Z",
		},
	}
}

func doctorUser() *models.User {
	return &models.User{ID: "d1", Name: "Dr. Grey", Role: models.RoleDoctor}
}

func adminUser() *models.User {
	return &models.User{ID: "a1", Name: "Hospital Administrator", Role: models.RoleAdmin}
}

func TestNewDashboardStateSeedsFixtures(t *testing.T) {
	state := NewDashboardState(nil, nil)

	stock := state.PharmacyStock()
	require.Len(t, stock, 4)
	assert.Equal(t, "Acetaminophen", stock[0].Name)
	assert.False(t, stock[3].Available, "Ventolin HFA starts out of stock")

	schedules := state.Schedules()
	require.Len(t, schedules, 3)
	assert.Equal(t, models.ScheduleSurgery, schedules[0].Type)

	assert.Empty(t, state.Alerts())
	assert.Empty(t, state.Inpatients())
	assert.Empty(t, state.Prescriptions())
	assert.Empty(t, state.Meetings())
	assert.Nil(t, state.CurrentUser())
}

func TestCreateEmergencySnapshotsActorRecord(t *testing.T) {
	state := NewDashboardState(nil, nil)
	actor := patientUser()

	alert := state.CreateEmergency(context.Background(), actor, EmergencyInput{
		PatientID:    actor.ID,
		PatientName:  actor.Name,
		Age:          "34",
		Sex:          "M",
		IncidentType: "Cardiac Arrest",
	})

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, models.AlertActive, alert.Status)
	assert.NotEmpty(t, alert.Timestamp)
	assert.Equal(t, "O+", alert.MedicalSummary.BloodType)
	assert.Equal(t, "Asthma", alert.MedicalSummary.Conditions)

	// Snapshot, not a live reference: mutating the actor's record afterwards
	// must not change the alert.
	actor.MedicalRecord.BloodType = "AB-"
	assert.Equal(t, "O+", state.Alerts()[0].MedicalSummary.BloodType)
}

func TestCreateEmergencyPlaceholderForGuest(t *testing.T) {
	state := NewDashboardState(nil, nil)

	alert := state.CreateEmergency(context.Background(), nil, EmergencyInput{
		PatientID:    models.GuestPatientID,
		PatientName:  "Walk-in",
		IncidentType: "Severe Bleeding",
	})

	assert.Equal(t, "Pending", alert.MedicalSummary.BloodType)
	assert.Equal(t, "Unknown", alert.MedicalSummary.Allergies)
	assert.Equal(t, "Severe Bleeding", alert.MedicalSummary.Conditions)
	assert.Equal(t, "None", alert.MedicalSummary.Medications)
}

func TestCreateEmergencyPrepends(t *testing.T) {
	state := NewDashboardState(nil, nil)

	first := state.CreateEmergency(context.Background(), nil, EmergencyInput{PatientName: "A", IncidentType: "Fall"})
	second := state.CreateEmergency(context.Background(), nil, EmergencyInput{PatientName: "B", IncidentType: "Burn"})

	alerts := state.Alerts()
	require.Len(t, alerts, 2)
	assert.Equal(t, second.ID, alerts[0].ID)
	assert.Equal(t, first.ID, alerts[1].ID)
}

func TestDeleteEmergencyIsAdminOnly(t *testing.T) {
	state := NewDashboardState(nil, nil)
	alert := state.CreateEmergency(context.Background(), nil, EmergencyInput{PatientName: "A", IncidentType: "Fall"})

	state.DeleteEmergency(context.Background(), doctorUser(), alert.ID)
	assert.Len(t, state.Alerts(), 1, "doctor delete must be a silent no-op")

	state.DeleteEmergency(context.Background(), nil, alert.ID)
	assert.Len(t, state.Alerts(), 1)

	state.DeleteEmergency(context.Background(), adminUser(), alert.ID)
	assert.Empty(t, state.Alerts())
}

func TestAdmitPatientConvertsAlert(t *testing.T) {
	mirror := newRecordingMirror()
	state := NewDashboardState(mirror, nil)
	actor := patientUser()

	alert := state.CreateEmergency(context.Background(), actor, EmergencyInput{
		PatientID:    actor.ID,
		PatientName:  actor.Name,
		IncidentType: "Cardiac Arrest",
	})

	admitted, ok := state.AdmitPatient(context.Background(), doctorUser(), alert.ID)
	require.True(t, ok)

	assert.Equal(t, actor.ID, admitted.ID, "authenticated patient keeps their identifier")
	assert.Equal(t, models.AdmissionOnTheWay, admitted.Status)
	assert.Equal(t, DefaultWard, admitted.Ward)
	assert.Equal(t, "Dr. Grey", admitted.AttendingPhysician)
	assert.Equal(t, "O+", admitted.MedicalSummary.BloodType)
	assert.Empty(t, state.Alerts(), "the source alert leaves the active list")
	require.Len(t, state.Inpatients(), 1)

	require.Len(t, mirror.createdInpatients, 1)
	assert.Equal(t, []string{alert.ID}, mirror.deletedAlerts)
}

func TestAdmitPatientGuestGetsFreshID(t *testing.T) {
	state := NewDashboardState(nil, nil)
	alert := state.CreateEmergency(context.Background(), nil, EmergencyInput{
		PatientID:    models.GuestPatientID,
		PatientName:  "Walk-in",
		IncidentType: "Fall",
	})

	admitted, ok := state.AdmitPatient(context.Background(), nil, alert.ID)
	require.True(t, ok)
	assert.NotEqual(t, models.GuestPatientID, admitted.ID)
	assert.NotEmpty(t, admitted.ID)
	assert.Equal(t, DefaultPhysician, admitted.AttendingPhysician)
}

func TestAdmitPatientUnknownAlert(t *testing.T) {
	state := NewDashboardState(nil, nil)

	_, ok := state.AdmitPatient(context.Background(), doctorUser(), "missing")
	assert.False(t, ok)
	assert.Empty(t, state.Inpatients())
}

func TestAdmitPatientRemovesExactlyOneAlert(t *testing.T) {
	state := NewDashboardState(nil, nil)
	a := state.CreateEmergency(context.Background(), nil, EmergencyInput{PatientName: "A", IncidentType: "Fall"})
	state.CreateEmergency(context.Background(), nil, EmergencyInput{PatientName: "B", IncidentType: "Burn"})

	_, ok := state.AdmitPatient(context.Background(), nil, a.ID)
	require.True(t, ok)
	assert.Len(t, state.Alerts(), 1)
}

func TestManualAdmitDefaults(t *testing.T) {
	state := NewDashboardState(nil, nil)

	admitted := state.ManualAdmit(context.Background(), doctorUser(), ManualAdmission{
		Name:      "Jane Roe",
		DOB:       "1990-04-12",
		Status:    models.AdmissionAdmitted,
		Ward:      "Wing B",
		BloodType: "A-",
		Allergies: "None",
	})

	assert.NotEmpty(t, admitted.ID)
	assert.Equal(t, "Wing B", admitted.Ward)
	assert.Equal(t, "Dr. Grey", admitted.AttendingPhysician)
	assert.Equal(t, "Admitted via Registration/Manual Entry", admitted.MedicalSummary.Conditions)
	assert.Equal(t, "None recorded", admitted.MedicalSummary.Medications)
	require.Len(t, state.Inpatients(), 1)
}

func TestUpdateInpatientStatusStampsDischargeDateOnce(t *testing.T) {
	state := NewDashboardState(nil, nil)
	p := state.ManualAdmit(context.Background(), nil, ManualAdmission{Name: "Jane", Status: models.AdmissionAdmitted, Ward: "Wing B"})

	state.UpdateInpatientStatus(context.Background(), p.ID, models.AdmissionOnTheWay)
	assert.Empty(t, state.Inpatients()[0].DischargeDate)

	state.UpdateInpatientStatus(context.Background(), p.ID, models.AdmissionDischarged)
	discharged := state.Inpatients()[0].DischargeDate
	assert.NotEmpty(t, discharged)

	// Moving back keeps the stamp.
	state.UpdateInpatientStatus(context.Background(), p.ID, models.AdmissionAdmitted)
	assert.Equal(t, discharged, state.Inpatients()[0].DischargeDate)
	assert.Equal(t, models.AdmissionAdmitted, state.Inpatients()[0].Status)
}

func TestUpdatePatientRecordReplacesSnapshotOnly(t *testing.T) {
	state := NewDashboardState(nil, nil)
	p := state.ManualAdmit(context.Background(), nil, ManualAdmission{Name: "Jane", Status: models.AdmissionAdmitted, Ward: "Wing B"})

	record := models.MedicalRecord{BloodType: "B+", Allergies: "Latex", Conditions: "Stable", Medications: "Ibuprofen"}
	state.UpdatePatientRecord(context.Background(), p.ID, record)

	assert.Equal(t, record, state.Inpatients()[0].MedicalSummary)
}

func TestDeleteInpatientIsAdminOnly(t *testing.T) {
	state := NewDashboardState(nil, nil)
	p := state.ManualAdmit(context.Background(), nil, ManualAdmission{Name: "Jane", Status: models.AdmissionAdmitted, Ward: "Wing B"})

	state.DeleteInpatient(context.Background(), doctorUser(), p.ID)
	assert.Len(t, state.Inpatients(), 1)

	state.DeleteInpatient(context.Background(), adminUser(), p.ID)
	assert.Empty(t, state.Inpatients())
}

func TestBookAppointmentAndLookupByName(t *testing.T) {
	mirror := newRecordingMirror()
	state := NewDashboardState(mirror, nil)
	doctor := doctorUser()

	booked := state.BookAppointment(context.Background(), doctor, models.ScheduleItem{
		Title:       "Follow-up Consultation",
		Time:        "03:30 PM",
		Type:        models.ScheduleConsultation,
		PatientName: "John Doe",
		Location:    "Exam Room 5",
	})

	assert.NotEmpty(t, booked.ID)
	assert.Len(t, state.Schedules(), 4, "appended after the seeded entries")

	mine := state.AppointmentsFor("John Doe")
	require.Len(t, mine, 1)
	assert.Equal(t, booked.ID, mine[0].ID)

	assert.Empty(t, state.AppointmentsFor("John"), "name match is exact")

	require.Len(t, mirror.scheduleDoctors, 1)
	assert.Equal(t, doctor.ID, mirror.scheduleDoctors[0])
}

func TestScheduleAndDeleteMeeting(t *testing.T) {
	state := NewDashboardState(nil, nil)

	meeting := state.ScheduleMeeting(context.Background(), models.MedicalBoardMeeting{
		Title:        "Oncology Case Review",
		Date:         "2026-09-15",
		Time:         "10:00 AM",
		Specialty:    "Oncology",
		Participants: []string{"Dr. Grey", "Dr. Chen"},
	})
	assert.NotEmpty(t, meeting.ID)
	require.Len(t, state.Meetings(), 1)

	state.DeleteMeeting(context.Background(), doctorUser(), meeting.ID)
	assert.Len(t, state.Meetings(), 1, "doctor delete must be a silent no-op")

	state.DeleteMeeting(context.Background(), adminUser(), meeting.ID)
	assert.Empty(t, state.Meetings())
}

func TestUpdateStockReplacesWholesale(t *testing.T) {
	mirror := newRecordingMirror()
	state := NewDashboardState(mirror, nil)

	replacement := append(state.PharmacyStock(), models.PharmacyItem{
		Name:          "Morphine 10mg",
		Category:      "Analgesic",
		Available:     true,
		LastRestocked: "2026-08-30",
	})
	state.UpdateStock(context.Background(), replacement)

	stock := state.PharmacyStock()
	require.Len(t, stock, 5)
	assert.Equal(t, "Morphine 10mg", stock[4].Name)

	state.UpdateStock(context.Background(), nil)
	assert.Empty(t, state.PharmacyStock(), "no merge with prior state")

	require.Len(t, mirror.stockReplacements, 2)
}

func TestUpdatePrescriptionStatus(t *testing.T) {
	mirror := newRecordingMirror()
	state := NewDashboardState(mirror, nil)
	state.Hydrate(context.Background(), &stubLoader{
		prescriptions: []models.Prescription{
			{ID: "rx1", Medication: "Amoxicillin", Status: models.PrescriptionOrdered},
		},
	})

	state.UpdatePrescriptionStatus(context.Background(), "rx1", models.PrescriptionReady)

	require.Len(t, state.Prescriptions(), 1)
	assert.Equal(t, models.PrescriptionReady, state.Prescriptions()[0].Status)
	assert.Equal(t, models.PrescriptionReady, mirror.rxUpdates["rx1"])
}

// stubLoader hydrates fixed collections.
type stubLoader struct {
	alerts        []models.EmergencyAlert
	inpatients    []models.Inpatient
	stock         []models.PharmacyItem
	prescriptions []models.Prescription
	schedules     []models.ScheduleItem
	meetings      []models.MedicalBoardMeeting
}

func (l *stubLoader) LoadAlerts(context.Context) ([]models.EmergencyAlert, error) {
	return l.alerts, nil
}

func (l *stubLoader) LoadInpatients(context.Context) ([]models.Inpatient, error) {
	return l.inpatients, nil
}

func (l *stubLoader) LoadPharmacyStock(context.Context) ([]models.PharmacyItem, error) {
	return l.stock, nil
}

func (l *stubLoader) LoadPrescriptions(context.Context) ([]models.Prescription, error) {
	return l.prescriptions, nil
}

func (l *stubLoader) LoadSchedules(context.Context) ([]models.ScheduleItem, error) {
	return l.schedules, nil
}

func (l *stubLoader) LoadMeetings(context.Context) ([]models.MedicalBoardMeeting, error) {
	return l.meetings, nil
}

func TestHydrateKeepsSeedsForEmptyCatalogs(t *testing.T) {
	state := NewDashboardState(nil, nil)
	state.Hydrate(context.Background(), &stubLoader{})

	assert.Len(t, state.PharmacyStock(), 4, "empty store keeps the seeded catalog")
	assert.Len(t, state.Schedules(), 3)
	assert.Empty(t, state.Alerts())
}

func TestHydrateReplacesCollections(t *testing.T) {
	state := NewDashboardState(nil, nil)
	state.Hydrate(context.Background(), &stubLoader{
		alerts: []models.EmergencyAlert{{ID: "al1", Status: models.AlertActive}},
		stock:  []models.PharmacyItem{{ID: "st9", Name: "Saline"}},
	})

	require.Len(t, state.Alerts(), 1)
	assert.Equal(t, "al1", state.Alerts()[0].ID)
	require.Len(t, state.PharmacyStock(), 1)
	assert.Equal(t, "Saline", state.PharmacyStock()[0].Name)
}

func TestLoginLogoutPersistsSession(t *testing.T) {
	sessions := &recordingSessions{}
	state := NewDashboardState(nil, sessions)
	user := patientUser()

	state.Login(context.Background(), *user)
	current := state.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)
	require.Len(t, sessions.saved, 1)

	state.Logout(context.Background())
	assert.Nil(t, state.CurrentUser())
	assert.Equal(t, []string{user.ID}, sessions.deleted)
}

func TestUpdateUserShallowMerge(t *testing.T) {
	mirror := newRecordingMirror()
	sessions := &recordingSessions{}
	state := NewDashboardState(mirror, sessions)
	state.Login(context.Background(), *patientUser())

	name := "Johnathan Doe"
	role := models.RoleDoctor
	merged := state.UpdateUser(context.Background(), models.UserUpdate{Name: &name, Role: &role})

	require.NotNil(t, merged)
	assert.Equal(t, "Johnathan Doe", merged.Name)
	assert.Equal(t, models.RoleDoctor, merged.Role)
	assert.Equal(t, "john@example.com", merged.Email, "untouched fields survive the merge")
	require.NotNil(t, merged.MedicalRecord)

	assert.Len(t, sessions.saved, 2, "login plus re-persist after merge")
	assert.Equal(t, []string{"u1"}, mirror.profileUpdates)
}

func TestUpdateUserWhenLoggedOut(t *testing.T) {
	state := NewDashboardState(nil, nil)
	name := "Nobody"
	assert.Nil(t, state.UpdateUser(context.Background(), models.UserUpdate{Name: &name}))
}

func TestCollectionGettersReturnCopies(t *testing.T) {
	state := NewDashboardState(nil, nil)

	stock := state.PharmacyStock()
	stock[0].Name = "Tampered"
	assert.Equal(t, "Acetaminophen", state.PharmacyStock()[0].Name)
}
