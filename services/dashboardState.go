package services

import (
	"MediPortal/models"
	"MediPortal/utils"
	"context"
	"log"
	"sync"
	"time"
)

// DefaultWard is where patients admitted from an emergency alert land.
const DefaultWard = "ICU - West Wing"

// DefaultPhysician attends when no doctor is signed in.
const DefaultPhysician = "Dr. On Duty"

// StateMirror receives a best-effort copy of every container mutation. Calls
// are single round trips: no retry, no idempotency key, last write wins.
type StateMirror interface {
	CreateAlert(ctx context.Context, alert models.EmergencyAlert) error
	DeleteAlert(ctx context.Context, id string) error
	CreateInpatient(ctx context.Context, p models.Inpatient) error
	SetInpatientStatus(ctx context.Context, id string, status models.AdmissionStatus) error
	SetInpatientSummary(ctx context.Context, id string, record models.MedicalRecord) error
	DeleteInpatient(ctx context.Context, id string) error
	CreateSchedule(ctx context.Context, item models.ScheduleItem, doctorID string) error
	CreateMeeting(ctx context.Context, meeting models.MedicalBoardMeeting) error
	DeleteMeeting(ctx context.Context, id string) error
	ReplaceStock(ctx context.Context, items []models.PharmacyItem) error
	SetPrescriptionStatus(ctx context.Context, id string, status models.PrescriptionStatus) error
	UpdateProfile(ctx context.Context, id string, updates models.UserUpdate) error
}

// StateLoader hydrates the container's collections from the row store.
type StateLoader interface {
	LoadAlerts(ctx context.Context) ([]models.EmergencyAlert, error)
	LoadInpatients(ctx context.Context) ([]models.Inpatient, error)
	LoadPharmacyStock(ctx context.Context) ([]models.PharmacyItem, error)
	LoadPrescriptions(ctx context.Context) ([]models.Prescription, error)
	LoadSchedules(ctx context.Context) ([]models.ScheduleItem, error)
	LoadMeetings(ctx context.Context) ([]models.MedicalBoardMeeting, error)
}

// SessionStore durably persists the current user. Absence means logged out.
type SessionStore interface {
	Save(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// EmergencyInput is the caller-supplied part of a new emergency alert.
type EmergencyInput struct {
	PatientID    string           `json:"patientId"`
	PatientName  string           `json:"patientName"`
	Age          string           `json:"age"`
	Sex          string           `json:"sex"`
	IncidentType string           `json:"incidentType"`
	Location     *models.GeoPoint `json:"location,omitempty"`
}

// ManualAdmission is the form payload for registering an inpatient directly.
type ManualAdmission struct {
	ID        string                 `json:"id,omitempty"`
	Name      string                 `json:"name"`
	DOB       string                 `json:"dob,omitempty"`
	Status    models.AdmissionStatus `json:"status"`
	Ward      string                 `json:"ward"`
	BloodType string                 `json:"bloodType"`
	Allergies string                 `json:"allergies"`
}

// DashboardState holds the current user and every entity collection. All
// mutations are copy-on-write; collections are seeded with fixtures and
// optionally hydrated from the store. Mirror failures are logged, never
// surfaced.
type DashboardState struct {
	mu            sync.RWMutex
	currentUser   *models.User
	alerts        []models.EmergencyAlert
	inpatients    []models.Inpatient
	pharmacyStock []models.PharmacyItem
	prescriptions []models.Prescription
	meetings      []models.MedicalBoardMeeting
	schedules     []models.ScheduleItem

	mirror   StateMirror
	sessions SessionStore
}

// NewDashboardState builds a fixture-seeded container. Both mirror and
// sessions may be nil for a process-lifetime-only container.
func NewDashboardState(mirror StateMirror, sessions SessionStore) *DashboardState {
	return &DashboardState{
		pharmacyStock: models.InitialPharmacyStock(),
		schedules:     models.InitialSchedules(),
		mirror:        mirror,
		sessions:      sessions,
	}
}

// Hydrate replaces the fixture collections with store contents. A failed load
// keeps the fixtures for that collection.
func (s *DashboardState) Hydrate(ctx context.Context, loader StateLoader) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alerts, err := loader.LoadAlerts(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded alerts: %v", err)
	} else {
		s.alerts = alerts
	}
	if inpatients, err := loader.LoadInpatients(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded inpatients: %v", err)
	} else {
		s.inpatients = inpatients
	}
	if stock, err := loader.LoadPharmacyStock(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded pharmacy stock: %v", err)
	} else if len(stock) > 0 {
		s.pharmacyStock = stock
	}
	if prescriptions, err := loader.LoadPrescriptions(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded prescriptions: %v", err)
	} else {
		s.prescriptions = prescriptions
	}
	if schedules, err := loader.LoadSchedules(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded schedules: %v", err)
	} else if len(schedules) > 0 {
		s.schedules = schedules
	}
	if meetings, err := loader.LoadMeetings(ctx); err != nil {
		log.Printf("Hydrate: keeping seeded meetings: %v", err)
	} else {
		s.meetings = meetings
	}
}

// mirrorWrite runs a mirror call best-effort.
func (s *DashboardState) mirrorWrite(ctx context.Context, op string, fn func(context.Context) error) {
	if s.mirror == nil {
		return
	}
	if err := fn(ctx); err != nil {
		log.Printf("Mirror %s failed: %v", op, err)
	}
}

// Login replaces the current user and persists it.
func (s *DashboardState) Login(ctx context.Context, user models.User) {
	s.mu.Lock()
	s.currentUser = &user
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, user); err != nil {
			log.Printf("Failed to persist session: %v", err)
		}
	}
}

// Logout clears the current user and removes the persisted copy.
func (s *DashboardState) Logout(ctx context.Context) {
	s.mu.Lock()
	prior := s.currentUser
	s.currentUser = nil
	s.mu.Unlock()

	if s.sessions != nil && prior != nil {
		if err := s.sessions.Delete(ctx, prior.ID); err != nil {
			log.Printf("Failed to remove persisted session: %v", err)
		}
	}
}

// UpdateUser shallow-merges partial fields into the current user and
// re-persists it. Returns the merged user, or nil when logged out.
func (s *DashboardState) UpdateUser(ctx context.Context, updates models.UserUpdate) *models.User {
	s.mu.Lock()
	if s.currentUser == nil {
		s.mu.Unlock()
		return nil
	}
	merged := *s.currentUser
	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Photo != nil {
		merged.Photo = *updates.Photo
	}
	if updates.Role != nil {
		merged.Role = *updates.Role
	}
	if updates.MedicalRecord != nil {
		record := *updates.MedicalRecord
		merged.MedicalRecord = &record
	}
	s.currentUser = &merged
	s.mu.Unlock()

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, merged); err != nil {
			log.Printf("Failed to persist session: %v", err)
		}
	}
	s.mirrorWrite(ctx, "update profile", func(ctx context.Context) error {
		return s.mirror.UpdateProfile(ctx, merged.ID, updates)
	})
	return &merged
}

// CurrentUser returns a copy of the current user, or nil when logged out.
func (s *DashboardState) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.currentUser == nil {
		return nil
	}
	user := *s.currentUser
	return &user
}

// CreateEmergency builds a new alert from the caller's input: random
// identifier, status ACTIVE, timestamp now, and a snapshot of the caller's
// medical record (or a placeholder whose conditions carry the incident type).
// The alert is prepended to the collection.
func (s *DashboardState) CreateEmergency(ctx context.Context, actor *models.User, input EmergencyInput) models.EmergencyAlert {
	now := time.Now().UTC().Format(time.RFC3339)

	summary := models.MedicalRecord{
		BloodType:   "Pending",
		Allergies:   "Unknown",
		Conditions:  input.IncidentType,
		Medications: "None",
		LastUpdated: now,
	}
	if actor != nil && actor.MedicalRecord != nil {
		summary = *actor.MedicalRecord
	}

	alert := models.EmergencyAlert{
		ID:             utils.NewIdentifier(),
		PatientID:      input.PatientID,
		PatientName:    input.PatientName,
		Age:            input.Age,
		Sex:            input.Sex,
		IncidentType:   input.IncidentType,
		Timestamp:      now,
		Location:       input.Location,
		MedicalSummary: summary,
		Status:         models.AlertActive,
	}

	s.mu.Lock()
	s.alerts = append([]models.EmergencyAlert{alert}, s.alerts...)
	s.mu.Unlock()

	s.mirrorWrite(ctx, "create alert", func(ctx context.Context) error {
		return s.mirror.CreateAlert(ctx, alert)
	})
	return alert
}

// DeleteEmergency removes an alert by identifier. Silent no-op unless the
// actor is an admin.
func (s *DashboardState) DeleteEmergency(ctx context.Context, actor *models.User, id string) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return
	}

	s.mu.Lock()
	filtered := make([]models.EmergencyAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.ID != id {
			filtered = append(filtered, a)
		}
	}
	s.alerts = filtered
	s.mu.Unlock()

	s.mirrorWrite(ctx, "delete alert", func(ctx context.Context) error {
		return s.mirror.DeleteAlert(ctx, id)
	})
}

// AdmitPatient converts an active alert into an inpatient: the alert's
// identity and medical summary carry over, status starts ON_THE_WAY, and the
// source alert leaves the active collection. Returns false when no alert
// matches.
func (s *DashboardState) AdmitPatient(ctx context.Context, actor *models.User, alertID string) (*models.Inpatient, bool) {
	s.mu.Lock()
	var source *models.EmergencyAlert
	filtered := make([]models.EmergencyAlert, 0, len(s.alerts))
	for _, a := range s.alerts {
		if a.ID == alertID && source == nil {
			alert := a
			source = &alert
			continue
		}
		filtered = append(filtered, a)
	}
	if source == nil {
		s.mu.Unlock()
		return nil, false
	}

	id := source.PatientID
	if id == "" || id == models.GuestPatientID {
		id = utils.NewIdentifier()
	}
	physician := DefaultPhysician
	if actor != nil && actor.Name != "" {
		physician = actor.Name
	}
	inpatient := models.Inpatient{
		ID:                 id,
		PatientName:        source.PatientName,
		Status:             models.AdmissionOnTheWay,
		AdmissionDate:      time.Now().UTC().Format(time.RFC3339),
		Ward:               DefaultWard,
		AttendingPhysician: physician,
		MedicalSummary:     source.MedicalSummary,
	}
	s.inpatients = append([]models.Inpatient{inpatient}, s.inpatients...)
	s.alerts = filtered
	s.mu.Unlock()

	// Delete-then-create against the store is not atomic; two concurrent
	// admits of the same alert can both land.
	s.mirrorWrite(ctx, "admit patient", func(ctx context.Context) error {
		if err := s.mirror.CreateInpatient(ctx, inpatient); err != nil {
			return err
		}
		return s.mirror.DeleteAlert(ctx, alertID)
	})
	return &inpatient, true
}

// ManualAdmit registers an inpatient from a manual form payload.
func (s *DashboardState) ManualAdmit(ctx context.Context, actor *models.User, data ManualAdmission) models.Inpatient {
	now := time.Now().UTC().Format(time.RFC3339)

	id := data.ID
	if id == "" {
		id = utils.NewIdentifier()
	}
	physician := DefaultPhysician
	if actor != nil && actor.Name != "" {
		physician = actor.Name
	}
	inpatient := models.Inpatient{
		ID:                 id,
		PatientName:        data.Name,
		DOB:                data.DOB,
		Status:             data.Status,
		AdmissionDate:      now,
		Ward:               data.Ward,
		AttendingPhysician: physician,
		MedicalSummary: models.MedicalRecord{
			BloodType:   data.BloodType,
			Allergies:   data.Allergies,
			Conditions:  "Admitted via Registration/Manual Entry",
			Medications: "None recorded",
			LastUpdated: now,
		},
	}

	s.mu.Lock()
	s.inpatients = append([]models.Inpatient{inpatient}, s.inpatients...)
	s.mu.Unlock()

	s.mirrorWrite(ctx, "manual admit", func(ctx context.Context) error {
		return s.mirror.CreateInpatient(ctx, inpatient)
	})
	return inpatient
}

// DeleteInpatient removes an inpatient by identifier. Silent no-op unless the
// actor is an admin.
func (s *DashboardState) DeleteInpatient(ctx context.Context, actor *models.User, id string) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return
	}

	s.mu.Lock()
	filtered := make([]models.Inpatient, 0, len(s.inpatients))
	for _, p := range s.inpatients {
		if p.ID != id {
			filtered = append(filtered, p)
		}
	}
	s.inpatients = filtered
	s.mu.Unlock()

	s.mirrorWrite(ctx, "delete inpatient", func(ctx context.Context) error {
		return s.mirror.DeleteInpatient(ctx, id)
	})
}

// UpdateInpatientStatus replaces the status for the matching identifier.
// DischargeDate is stamped only on the transition to DISCHARGED; any other
// status preserves the prior value.
func (s *DashboardState) UpdateInpatientStatus(ctx context.Context, id string, status models.AdmissionStatus) {
	s.mu.Lock()
	updated := make([]models.Inpatient, len(s.inpatients))
	for i, p := range s.inpatients {
		if p.ID == id {
			p.Status = status
			if status == models.AdmissionDischarged {
				p.DischargeDate = time.Now().UTC().Format(time.RFC3339)
			}
		}
		updated[i] = p
	}
	s.inpatients = updated
	s.mu.Unlock()

	s.mirrorWrite(ctx, "update inpatient status", func(ctx context.Context) error {
		return s.mirror.SetInpatientStatus(ctx, id, status)
	})
}

// UpdatePatientRecord replaces the medical summary snapshot of the matching
// inpatient only. The source patient's live record is untouched.
func (s *DashboardState) UpdatePatientRecord(ctx context.Context, id string, record models.MedicalRecord) {
	s.mu.Lock()
	updated := make([]models.Inpatient, len(s.inpatients))
	for i, p := range s.inpatients {
		if p.ID == id {
			p.MedicalSummary = record
		}
		updated[i] = p
	}
	s.inpatients = updated
	s.mu.Unlock()

	s.mirrorWrite(ctx, "update patient record", func(ctx context.Context) error {
		return s.mirror.SetInpatientSummary(ctx, id, record)
	})
}

// BookAppointment assigns a random identifier and appends the booking.
func (s *DashboardState) BookAppointment(ctx context.Context, actor *models.User, booking models.ScheduleItem) models.ScheduleItem {
	booking.ID = utils.NewIdentifier()

	s.mu.Lock()
	s.schedules = append(append([]models.ScheduleItem{}, s.schedules...), booking)
	s.mu.Unlock()

	doctorID := ""
	if actor != nil {
		doctorID = actor.ID
	}
	s.mirrorWrite(ctx, "book appointment", func(ctx context.Context) error {
		return s.mirror.CreateSchedule(ctx, booking, doctorID)
	})
	return booking
}

// ScheduleMeeting assigns a random identifier and appends the meeting.
func (s *DashboardState) ScheduleMeeting(ctx context.Context, meeting models.MedicalBoardMeeting) models.MedicalBoardMeeting {
	meeting.ID = utils.NewIdentifier()

	s.mu.Lock()
	s.meetings = append(append([]models.MedicalBoardMeeting{}, s.meetings...), meeting)
	s.mu.Unlock()

	s.mirrorWrite(ctx, "schedule meeting", func(ctx context.Context) error {
		return s.mirror.CreateMeeting(ctx, meeting)
	})
	return meeting
}

// DeleteMeeting removes a meeting by identifier. Silent no-op unless the
// actor is an admin.
func (s *DashboardState) DeleteMeeting(ctx context.Context, actor *models.User, id string) {
	if actor == nil || actor.Role != models.RoleAdmin {
		return
	}

	s.mu.Lock()
	filtered := make([]models.MedicalBoardMeeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	s.meetings = filtered
	s.mu.Unlock()

	s.mirrorWrite(ctx, "delete meeting", func(ctx context.Context) error {
		return s.mirror.DeleteMeeting(ctx, id)
	})
}

// UpdateStock replaces the pharmacy collection wholesale. No merge with the
// prior state.
func (s *DashboardState) UpdateStock(ctx context.Context, items []models.PharmacyItem) {
	replacement := append([]models.PharmacyItem{}, items...)

	s.mu.Lock()
	s.pharmacyStock = replacement
	s.mu.Unlock()

	s.mirrorWrite(ctx, "update stock", func(ctx context.Context) error {
		return s.mirror.ReplaceStock(ctx, replacement)
	})
}

// UpdatePrescriptionStatus replaces the status for the matching identifier.
func (s *DashboardState) UpdatePrescriptionStatus(ctx context.Context, id string, status models.PrescriptionStatus) {
	s.mu.Lock()
	updated := make([]models.Prescription, len(s.prescriptions))
	for i, p := range s.prescriptions {
		if p.ID == id {
			p.Status = status
		}
		updated[i] = p
	}
	s.prescriptions = updated
	s.mu.Unlock()

	s.mirrorWrite(ctx, "update prescription status", func(ctx context.Context) error {
		return s.mirror.SetPrescriptionStatus(ctx, id, status)
	})
}

// Alerts returns a copy of the active alert collection.
func (s *DashboardState) Alerts() []models.EmergencyAlert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.EmergencyAlert{}, s.alerts...)
}

// Inpatients returns a copy of the inpatient collection.
func (s *DashboardState) Inpatients() []models.Inpatient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Inpatient{}, s.inpatients...)
}

// PharmacyStock returns a copy of the stock catalog.
func (s *DashboardState) PharmacyStock() []models.PharmacyItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PharmacyItem{}, s.pharmacyStock...)
}

// Prescriptions returns a copy of the prescription collection.
func (s *DashboardState) Prescriptions() []models.Prescription {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Prescription{}, s.prescriptions...)
}

// Meetings returns a copy of the board meeting collection.
func (s *DashboardState) Meetings() []models.MedicalBoardMeeting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MedicalBoardMeeting{}, s.meetings...)
}

// Schedules returns a copy of the schedule collection.
func (s *DashboardState) Schedules() []models.ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ScheduleItem{}, s.schedules...)
}

// AppointmentsFor returns the schedule entries whose patient name exactly
// matches the given name.
func (s *DashboardState) AppointmentsFor(patientName string) []models.ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]models.ScheduleItem, 0)
	for _, item := range s.schedules {
		if item.PatientName == patientName {
			matches = append(matches, item)
		}
	}
	return matches
}
