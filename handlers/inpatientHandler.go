package handlers

import (
	"MediPortal/models"
	"MediPortal/services"

	"github.com/gin-gonic/gin"
)

// ManualAdmit registers an inpatient directly from the admissions form.
func (h *DashboardHandler) ManualAdmit(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	var data services.ManualAdmission
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if data.Name == "" {
		c.JSON(400, gin.H{"error": "name is required"})
		return
	}

	admitted := h.state.ManualAdmit(c.Request.Context(), actor, data)
	c.JSON(201, admitted)
}

// UpdateInpatientStatus moves an inpatient through the admission lifecycle.
// A move to DISCHARGED stamps the discharge date.
func (h *DashboardHandler) UpdateInpatientStatus(c *gin.Context) {
	var payload struct {
		Status models.AdmissionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	h.state.UpdateInpatientStatus(c.Request.Context(), c.Param("id"), payload.Status)
	c.JSON(200, gin.H{"message": "Status updated"})
}

// UpdatePatientRecord replaces the medical snapshot carried on an inpatient.
func (h *DashboardHandler) UpdatePatientRecord(c *gin.Context) {
	var record models.MedicalRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	h.state.UpdatePatientRecord(c.Request.Context(), c.Param("id"), record)
	c.JSON(200, gin.H{"message": "Record updated"})
}

// DeleteInpatient removes an inpatient row. Admin only; a silent no-op for
// anyone else.
func (h *DashboardHandler) DeleteInpatient(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	h.state.DeleteInpatient(c.Request.Context(), actor, c.Param("id"))
	c.JSON(200, gin.H{"message": "Inpatient removed"})
}
