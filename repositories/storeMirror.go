package repositories

import (
	"MediPortal/models"
	"context"
)

// StoreMirror adapts the repository layer to the dashboard state container:
// every container mutation is mirrored to the row store through it, and the
// container hydrates its collections from it on startup.
type StoreMirror struct {
	alerts        *AlertRepository
	inpatients    *InpatientRepository
	pharmacy      *PharmacyRepository
	prescriptions *PrescriptionRepository
	schedules     *ScheduleRepository
	meetings      *MeetingRepository
	profiles      *ProfileRepository
}

func NewStoreMirror(
	alerts *AlertRepository,
	inpatients *InpatientRepository,
	pharmacy *PharmacyRepository,
	prescriptions *PrescriptionRepository,
	schedules *ScheduleRepository,
	meetings *MeetingRepository,
	profiles *ProfileRepository,
) *StoreMirror {
	return &StoreMirror{
		alerts:        alerts,
		inpatients:    inpatients,
		pharmacy:      pharmacy,
		prescriptions: prescriptions,
		schedules:     schedules,
		meetings:      meetings,
		profiles:      profiles,
	}
}

func (m *StoreMirror) CreateAlert(ctx context.Context, alert models.EmergencyAlert) error {
	return m.alerts.Create(ctx, alert)
}

func (m *StoreMirror) DeleteAlert(ctx context.Context, id string) error {
	return m.alerts.Delete(ctx, id)
}

func (m *StoreMirror) CreateInpatient(ctx context.Context, p models.Inpatient) error {
	return m.inpatients.Create(ctx, p)
}

func (m *StoreMirror) SetInpatientStatus(ctx context.Context, id string, status models.AdmissionStatus) error {
	return m.inpatients.UpdateStatus(ctx, id, status)
}

func (m *StoreMirror) SetInpatientSummary(ctx context.Context, id string, record models.MedicalRecord) error {
	return m.inpatients.UpdateMedicalSummary(ctx, id, record)
}

func (m *StoreMirror) DeleteInpatient(ctx context.Context, id string) error {
	return m.inpatients.Delete(ctx, id)
}

func (m *StoreMirror) CreateSchedule(ctx context.Context, item models.ScheduleItem, doctorID string) error {
	return m.schedules.Create(ctx, item, doctorID)
}

func (m *StoreMirror) CreateMeeting(ctx context.Context, meeting models.MedicalBoardMeeting) error {
	return m.meetings.Create(ctx, meeting)
}

func (m *StoreMirror) DeleteMeeting(ctx context.Context, id string) error {
	return m.meetings.Delete(ctx, id)
}

func (m *StoreMirror) ReplaceStock(ctx context.Context, items []models.PharmacyItem) error {
	return m.pharmacy.ReplaceStock(ctx, items)
}

func (m *StoreMirror) SetPrescriptionStatus(ctx context.Context, id string, status models.PrescriptionStatus) error {
	return m.prescriptions.UpdateStatus(ctx, id, status)
}

func (m *StoreMirror) UpdateProfile(ctx context.Context, id string, updates models.UserUpdate) error {
	if updates.Role != nil {
		if err := m.profiles.UpdateRole(ctx, id, *updates.Role); err != nil {
			return err
		}
	}
	return m.profiles.UpdateProfile(ctx, id, updates)
}

func (m *StoreMirror) LoadAlerts(ctx context.Context) ([]models.EmergencyAlert, error) {
	return m.alerts.GetAll(ctx)
}

func (m *StoreMirror) LoadInpatients(ctx context.Context) ([]models.Inpatient, error) {
	return m.inpatients.GetAll(ctx)
}

func (m *StoreMirror) LoadPharmacyStock(ctx context.Context) ([]models.PharmacyItem, error) {
	return m.pharmacy.GetAll(ctx)
}

func (m *StoreMirror) LoadPrescriptions(ctx context.Context) ([]models.Prescription, error) {
	return m.prescriptions.GetAll(ctx)
}

func (m *StoreMirror) LoadSchedules(ctx context.Context) ([]models.ScheduleItem, error) {
	return m.schedules.GetAll(ctx)
}

func (m *StoreMirror) LoadMeetings(ctx context.Context) ([]models.MedicalBoardMeeting, error) {
	return m.meetings.GetAll(ctx)
}
