package handlers

import (
	"MediPortal/models"

	"github.com/gin-gonic/gin"
)

// BookAppointment adds an entry to the surgical and consultation schedule,
// attributed to the acting doctor.
func (h *DashboardHandler) BookAppointment(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	var booking models.ScheduleItem
	if err := c.ShouldBindJSON(&booking); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if booking.Title == "" || booking.Time == "" {
		c.JSON(400, gin.H{"error": "title and time are required"})
		return
	}

	created := h.state.BookAppointment(c.Request.Context(), actor, booking)
	c.JSON(201, created)
}

// ScheduleMeeting adds a board meeting to the calendar.
func (h *DashboardHandler) ScheduleMeeting(c *gin.Context) {
	var meeting models.MedicalBoardMeeting
	if err := c.ShouldBindJSON(&meeting); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if meeting.Title == "" {
		c.JSON(400, gin.H{"error": "title is required"})
		return
	}

	created := h.state.ScheduleMeeting(c.Request.Context(), meeting)
	c.JSON(201, created)
}

// DeleteMeeting cancels a board meeting. Admin only; a silent no-op for
// anyone else.
func (h *DashboardHandler) DeleteMeeting(c *gin.Context) {
	actor := h.actor(c)
	if actor == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	h.state.DeleteMeeting(c.Request.Context(), actor, c.Param("id"))
	c.JSON(200, gin.H{"message": "Meeting cancelled"})
}
