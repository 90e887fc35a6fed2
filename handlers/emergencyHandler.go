package handlers

import (
	"log"

	"MediPortal/services"
	"MediPortal/utils"

	"github.com/gin-gonic/gin"
)

// CreateEmergency raises a new alert attributed to the caller and notifies the
// on-call address best-effort.
func (h *DashboardHandler) CreateEmergency(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	var input services.EmergencyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if input.PatientName == "" || input.IncidentType == "" {
		c.JSON(400, gin.H{"error": "patientName and incidentType are required"})
		return
	}

	alert := h.state.CreateEmergency(c.Request.Context(), actor, input)
	if err := utils.SendAlertEmail(alert); err != nil {
		log.Printf("alert email for %s not sent: %v", alert.ID, err)
	}
	c.JSON(201, alert)
}

// DeleteEmergency dismisses an alert. Only admins may dismiss; for anyone
// else the call is a silent no-op, matching the state container.
func (h *DashboardHandler) DeleteEmergency(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	h.state.DeleteEmergency(c.Request.Context(), actor, c.Param("id"))
	c.JSON(200, gin.H{"message": "Alert dismissed"})
}

// AdmitPatient converts an active alert into an inpatient under the acting
// doctor's care.
func (h *DashboardHandler) AdmitPatient(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	admitted, ok := h.state.AdmitPatient(c.Request.Context(), actor, c.Param("id"))
	if !ok {
		c.JSON(404, gin.H{"error": "Alert not found"})
		return
	}
	c.JSON(201, admitted)
}
