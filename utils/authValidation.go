package utils

import (
	"MediPortal/models"
	"errors"
	"log"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
	ErrInvalidRole        = errors.New("role must be one of PATIENT, DOCTOR, ADMIN")
)

// Registration is a signup payload.
type Registration struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Photo    string      `json:"photo"`
}

// ValidateRegistration validates a signup payload using ozzo-validation.
func ValidateRegistration(reg Registration) error {
	err := validation.ValidateStruct(&reg,
		validation.Field(&reg.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&reg.Email, validation.Required, is.Email),
		// Ensure password is required and follows the custom validation
		validation.Field(&reg.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
		validation.Field(&reg.Role, validation.By(validateRole)),
	)
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	err := validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
	if err != nil {
		log.Printf("Validation error: %v\n", err)
	}
	return err
}

// validateRole accepts an empty role (defaults to PATIENT downstream) or one
// of the known roles.
func validateRole(value interface{}) error {
	role, _ := value.(models.Role)
	if role == "" {
		return nil
	}
	if !models.ValidRole(role) {
		return ErrInvalidRole
	}
	return nil
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	// Check complexity with regex
	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
