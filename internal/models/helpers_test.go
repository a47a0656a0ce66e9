package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestRecordIDString(t *testing.T) {
	s, err := RecordIDString(surrealmodels.NewRecordID("client", "abc123"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", s)

	_, err = RecordIDString(surrealmodels.NewRecordID("client", 42))
	assert.Error(t, err)
}

func TestMustRecordIDStringPanicsOnNonString(t *testing.T) {
	assert.Panics(t, func() {
		MustRecordIDString(surrealmodels.NewRecordID("client", 42))
	})
}

func TestValidAppointmentStatus(t *testing.T) {
	for _, s := range AppointmentStatuses {
		assert.True(t, ValidAppointmentStatus(s))
	}
	assert.False(t, ValidAppointmentStatus("Done"))
	assert.False(t, ValidAppointmentStatus(""))
}
