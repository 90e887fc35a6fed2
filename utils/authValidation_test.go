package utils

import (
	"testing"

	"MediPortal/models"

	"github.com/stretchr/testify/assert"
)

func validRegistration() Registration {
	return Registration{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "S3cure!pass",
		Role:     models.RolePatient,
	}
}

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration(validRegistration()))
}

func TestValidateRegistrationEmptyRoleAllowed(t *testing.T) {
	reg := validRegistration()
	reg.Role = ""
	assert.NoError(t, ValidateRegistration(reg), "empty role defaults downstream")
}

func TestValidateRegistrationRejectsUnknownRole(t *testing.T) {
	reg := validRegistration()
	reg.Role = "NURSE"
	assert.Error(t, ValidateRegistration(reg))
}

func TestValidateRegistrationRejectsBadEmail(t *testing.T) {
	reg := validRegistration()
	reg.Email = "not-an-email"
	assert.Error(t, ValidateRegistration(reg))
}

func TestValidateRegistrationPasswordRules(t *testing.T) {
	reg := validRegistration()

	reg.Password = "short"
	assert.Error(t, ValidateRegistration(reg))

	reg.Password = "alllowercase1!"
	assert.Error(t, ValidateRegistration(reg), "missing uppercase")

	reg.Password = "NoDigitsHere!"
	assert.Error(t, ValidateRegistration(reg))
}

func TestValidatePasswordReset(t *testing.T) {
	assert.NoError(t, ValidatePasswordReset("123456", "S3cure!pass"))
	assert.Error(t, ValidatePasswordReset("", "S3cure!pass"))
	assert.Error(t, ValidatePasswordReset("123456", "weak"))
}
