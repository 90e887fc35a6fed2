package utils

import (
	"MediPortal/models"
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

// SendAlertEmail notifies the on-call address about a new emergency alert.
// Callers treat failures as best-effort.
func SendAlertEmail(alert models.EmergencyAlert) error {
	onCall := os.Getenv("ONCALL_EMAIL")
	if onCall == "" {
		return nil // notifications not configured
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", onCall)
	m.SetHeader("Subject", fmt.Sprintf("Emergency alert: %s (%s)", alert.PatientName, alert.IncidentType))

	body := fmt.Sprintf(
		"Patient: %s\nAge: %s\nSex: %s\nIncident: %s\nReported: %s\nBlood type: %s\nAllergies: %s\n",
		alert.PatientName, alert.Age, alert.Sex, alert.IncidentType, alert.Timestamp,
		alert.MedicalSummary.BloodType, alert.MedicalSummary.Allergies,
	)
	if alert.Location != nil {
		body += fmt.Sprintf("Location: %f,%f\n", alert.Location.Lat, alert.Location.Lng)
	}
	m.SetBody("text/plain", body)

	d, err := smtpDialer()
	if err != nil {
		return err
	}
	return d.DialAndSend(m)
}
