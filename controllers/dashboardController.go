package controllers

import (
	"MediPortal/handlers"
	"MediPortal/middlewares"
	"MediPortal/models"

	"github.com/gin-gonic/gin"
)

// SetupDashboardRoutes wires the dashboard view and every mutation route.
// Destructive and stock routes are admin-gated at the router on top of the
// gating done inside the state container.
func SetupDashboardRoutes(router *gin.Engine, dashboardHandler *handlers.DashboardHandler) {
	authed := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		authed.GET("/dashboard", dashboardHandler.GetDashboard)
		authed.PUT("/profile", dashboardHandler.UpdateProfile)
		authed.PUT("/profile/role", dashboardHandler.SwitchRole)

		authed.POST("/alerts", dashboardHandler.CreateEmergency)
		authed.POST("/schedules", dashboardHandler.BookAppointment)
		authed.GET("/pharmacy", dashboardHandler.GetPharmacyStock)
	}

	staff := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleDoctor, models.RoleAdmin),
	)
	{
		staff.POST("/alerts/:id/admit", dashboardHandler.AdmitPatient)
		staff.POST("/inpatients", dashboardHandler.ManualAdmit)
		staff.PUT("/inpatients/:id/status", dashboardHandler.UpdateInpatientStatus)
		staff.PUT("/inpatients/:id/record", dashboardHandler.UpdatePatientRecord)
		staff.POST("/meetings", dashboardHandler.ScheduleMeeting)
	}

	admin := router.Group("/").Use(
		middlewares.TokenAuthMiddleware(),
		middlewares.RoleAuthMiddleware(models.RoleAdmin),
	)
	{
		admin.DELETE("/alerts/:id", dashboardHandler.DeleteEmergency)
		admin.DELETE("/inpatients/:id", dashboardHandler.DeleteInpatient)
		admin.DELETE("/meetings/:id", dashboardHandler.DeleteMeeting)
		admin.PUT("/pharmacy", dashboardHandler.UpdateStock)
		admin.PUT("/prescriptions/:id/status", dashboardHandler.UpdatePrescriptionStatus)
	}
}
