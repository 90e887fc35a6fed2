package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMedicalSummaryColumnRoundTrip(t *testing.T) {
	summary := MedicalSummary{
		BloodType:   "O+",
		Allergies:   "Penicillin",
		Conditions:  "Asthma",
		Medications: "Albuterol",
		LastUpdated: "2026-08-30T12:00:00Z",
	}

	value, err := summary.Value()
	require.NoError(t, err)

	var scanned MedicalSummary
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, summary, scanned)

	require.NoError(t, scanned.Scan(nil))
	assert.Equal(t, MedicalSummary{}, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestStringListColumnRoundTrip(t *testing.T) {
	list := StringList{"Dr. Grey", "Dr. Chen"}

	value, err := list.Value()
	require.NoError(t, err)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	// A nil list stores as an empty JSON array, not SQL null.
	value, err = StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePatient))
	assert.True(t, ValidRole(RoleDoctor))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("NURSE"))
	assert.False(t, ValidRole(""))
}
