package handlers

import (
	"MediPortal/models"

	"github.com/gin-gonic/gin"
)

// GetPharmacyStock returns the full pharmacy catalog.
func (h *DashboardHandler) GetPharmacyStock(c *gin.Context) {
	c.JSON(200, h.state.PharmacyStock())
}

// UpdateStock replaces the pharmacy catalog wholesale. Items arriving
// without an ID are treated as new and assigned one by the store.
func (h *DashboardHandler) UpdateStock(c *gin.Context) {
	var items []models.PharmacyItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	h.state.UpdateStock(c.Request.Context(), items)
	c.JSON(200, h.state.PharmacyStock())
}

// UpdatePrescriptionStatus moves a prescription through the fulfilment flow.
func (h *DashboardHandler) UpdatePrescriptionStatus(c *gin.Context) {
	var payload struct {
		Status models.PrescriptionStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	h.state.UpdatePrescriptionStatus(c.Request.Context(), c.Param("id"), payload.Status)
	c.JSON(200, gin.H{"message": "Prescription updated"})
}
