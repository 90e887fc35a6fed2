package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"MediPortal/handlers"
	"MediPortal/models"
	"MediPortal/services"
	"MediPortal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	os.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")
	os.Exit(m.Run())
}

// staticResolver resolves every request to the same user.
type staticResolver struct {
	user *models.User
}

func (r *staticResolver) GetCurrentUser(*gin.Context) (*models.User, error) {
	return r.user, nil
}

func dashboardRouter(user *models.User) (*gin.Engine, *services.DashboardState) {
	gin.SetMode(gin.TestMode)
	state := services.NewDashboardState(nil, nil)
	handler := handlers.NewDashboardHandler(state, &staticResolver{user: user})

	router := gin.New()
	SetupDashboardRoutes(router, handler)
	return router, state
}

func tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(utils.TokenClaims{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
		Role:   string(user.Role),
	})
	require.NoError(t, err)
	return token
}

func request(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path+"?accessToken="+token, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPatientCanBookAppointment(t *testing.T) {
	patient := &models.User{ID: "u1", Name: "John Doe", Role: models.RolePatient}
	router, state := dashboardRouter(patient)

	w := request(t, router, http.MethodPost, "/schedules", tokenFor(t, patient), models.ScheduleItem{
		Title:       "Follow-up Consultation",
		Time:        "03:30 PM",
		Type:        models.ScheduleConsultation,
		PatientName: "John Doe",
		Location:    "Exam Room 5",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var booked models.ScheduleItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booked))
	assert.NotEmpty(t, booked.ID)
	require.Len(t, state.AppointmentsFor("John Doe"), 1)
}

func TestPatientCannotReachStaffRoutes(t *testing.T) {
	patient := &models.User{ID: "u1", Name: "John Doe", Role: models.RolePatient}
	router, state := dashboardRouter(patient)
	token := tokenFor(t, patient)

	w := request(t, router, http.MethodPost, "/inpatients", token, services.ManualAdmission{Name: "X"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, state.Inpatients())

	w = request(t, router, http.MethodPut, "/pharmacy", token, []models.PharmacyItem{})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, state.PharmacyStock(), 4)
}

func TestDoctorCannotReachAdminRoutes(t *testing.T) {
	doctor := &models.User{ID: "d1", Name: "Dr. Grey", Role: models.RoleDoctor}
	router, _ := dashboardRouter(doctor)

	w := request(t, router, http.MethodDelete, "/alerts/al1", tokenFor(t, doctor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	patient := &models.User{ID: "u1", Name: "John Doe", Role: models.RolePatient}
	router, _ := dashboardRouter(patient)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
