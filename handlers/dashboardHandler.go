package handlers

import (
	"MediPortal/middlewares"
	"MediPortal/models"
	"MediPortal/services"

	"github.com/gin-gonic/gin"
)

// SessionResolver resolves an access token to the current user.
type SessionResolver interface {
	GetCurrentUser(ctx *gin.Context) (*models.User, error)
}

// tokenSessionResolver resolves via the session service using the request token.
type tokenSessionResolver struct {
	sessions *services.SessionService
}

func NewSessionResolver(sessions *services.SessionService) SessionResolver {
	return &tokenSessionResolver{sessions: sessions}
}

func (r *tokenSessionResolver) GetCurrentUser(c *gin.Context) (*models.User, error) {
	token := middlewares.ExtractAccessToken(c)
	return r.sessions.GetCurrentUser(c.Request.Context(), token)
}

// DashboardHandler serves the role-routed dashboard views and funnels every
// mutation through the state container.
type DashboardHandler struct {
	state    *services.DashboardState
	resolver SessionResolver
}

func NewDashboardHandler(state *services.DashboardState, resolver SessionResolver) *DashboardHandler {
	return &DashboardHandler{state: state, resolver: resolver}
}

// actor resolves the acting user for the request, or nil.
func (h *DashboardHandler) actor(c *gin.Context) *models.User {
	user, err := h.resolver.GetCurrentUser(c)
	if err != nil {
		return nil
	}
	return user
}

// PatientView is the slice of state a patient dashboard receives.
type PatientView struct {
	User           *models.User          `json:"user"`
	MyAppointments []models.ScheduleItem `json:"myAppointments"`
	PharmacyStock  []models.PharmacyItem `json:"pharmacyStock"`
}

// DoctorView is the slice of state a doctor dashboard receives.
type DoctorView struct {
	User          *models.User                 `json:"user"`
	ActiveAlerts  []models.EmergencyAlert      `json:"activeAlerts"`
	Inpatients    []models.Inpatient           `json:"inpatients"`
	Schedules     []models.ScheduleItem        `json:"schedules"`
	BoardMeetings []models.MedicalBoardMeeting `json:"boardMeetings"`
}

// AdminView is the full slice of state an admin dashboard receives.
type AdminView struct {
	User          *models.User                 `json:"user"`
	ActiveAlerts  []models.EmergencyAlert      `json:"activeAlerts"`
	Inpatients    []models.Inpatient           `json:"inpatients"`
	Schedules     []models.ScheduleItem        `json:"schedules"`
	BoardMeetings []models.MedicalBoardMeeting `json:"boardMeetings"`
	PharmacyStock []models.PharmacyItem        `json:"pharmacyStock"`
	Prescriptions []models.Prescription        `json:"prescriptions"`
}

// GetDashboard mounts the view for the caller's role. Each role receives only
// the data relevant to it; the patient appointment list is joined by exact
// patient-name match.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	user := h.actor(c)
	if user == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}

	switch user.Role {
	case models.RolePatient:
		c.JSON(200, PatientView{
			User:           user,
			MyAppointments: h.state.AppointmentsFor(user.Name),
			PharmacyStock:  h.state.PharmacyStock(),
		})
	case models.RoleDoctor:
		c.JSON(200, DoctorView{
			User:          user,
			ActiveAlerts:  h.state.Alerts(),
			Inpatients:    h.state.Inpatients(),
			Schedules:     h.state.Schedules(),
			BoardMeetings: h.state.Meetings(),
		})
	case models.RoleAdmin:
		c.JSON(200, AdminView{
			User:          user,
			ActiveAlerts:  h.state.Alerts(),
			Inpatients:    h.state.Inpatients(),
			Schedules:     h.state.Schedules(),
			BoardMeetings: h.state.Meetings(),
			PharmacyStock: h.state.PharmacyStock(),
			Prescriptions: h.state.Prescriptions(),
		})
	default:
		c.JSON(403, gin.H{"error": "Unknown role"})
	}
}

// UpdateProfile shallow-merges partial fields into the current user.
func (h *DashboardHandler) UpdateProfile(c *gin.Context) {
	var updates models.UserUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	merged := h.state.UpdateUser(c.Request.Context(), updates)
	if merged == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(200, merged)
}

// SwitchRole changes the current user's role, a simulated/debug action.
func (h *DashboardHandler) SwitchRole(c *gin.Context) {
	var payload struct {
		Role models.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(payload.Role) {
		c.JSON(400, gin.H{"error": "Invalid role"})
		return
	}

	merged := h.state.UpdateUser(c.Request.Context(), models.UserUpdate{Role: &payload.Role})
	if merged == nil {
		c.JSON(401, gin.H{"error": "Not signed in"})
		return
	}
	c.JSON(200, merged)
}
