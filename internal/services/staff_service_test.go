package services

import (
	"errors"
	"testing"
	"workshop_manager/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffService_Mechanics(t *testing.T) {
	e := newEnv(t)
	svc := NewStaffService(e.store)

	created, err := svc.CreateMechanic(e.manager, MechanicInput{Name: " Pedro ", Specialty: "Frenos", Email: "Pedro@Taller.cl"})
	require.NoError(t, err)
	assert.Equal(t, "Pedro", created.Name)
	assert.True(t, created.Available)
	require.NotNil(t, created.Email)
	assert.Equal(t, "pedro@taller.cl", *created.Email)

	_, err = svc.CreateMechanic(e.manager, MechanicInput{Name: "Otro", Specialty: "Motor", Email: "PEDRO@taller.cl"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Field)

	busy := false
	_, err = svc.UpdateMechanic(e.manager, created.ID, MechanicInput{Name: "Pedro", Specialty: "Frenos", Available: &busy})
	require.NoError(t, err)

	available, err := svc.ListMechanics(e.frontDesk, true)
	require.NoError(t, err)
	assert.Empty(t, available)

	_, err = svc.CreateMechanic(e.frontDesk, MechanicInput{Name: "X", Specialty: "Y"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateMechanic(e.manager, 9999, MechanicInput{Name: "X", Specialty: "Y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaffService_MechanicUserLink(t *testing.T) {
	e := newEnv(t)
	svc := NewStaffService(e.store)
	user := &models.User{Username: "mecanico", PasswordHash: "x", IsActive: true}
	require.NoError(t, e.db.Create(user).Error)

	_, err := svc.CreateMechanic(e.manager, MechanicInput{UserID: &user.ID, Name: "Carlos", Specialty: "General"})
	require.NoError(t, err)

	_, err = svc.CreateMechanic(e.manager, MechanicInput{UserID: &user.ID, Name: "Carlos 2", Specialty: "General"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "user_id", verr.Field)

	missing := uint(9999)
	_, err = svc.CreateMechanic(e.manager, MechanicInput{UserID: &missing, Name: "Nadie", Specialty: "General"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "user_id", verr.Field)
}

func TestStaffService_WorkZones(t *testing.T) {
	e := newEnv(t)
	svc := NewStaffService(e.store)

	zone, err := svc.CreateWorkZone(e.manager, WorkZoneInput{Name: "Box 1", Description: "Elevador"})
	require.NoError(t, err)
	assert.NotZero(t, zone.ID)

	_, err = svc.CreateWorkZone(e.manager, WorkZoneInput{Name: "  "})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))

	_, err = svc.CreateWorkZone(e.frontDesk, WorkZoneInput{Name: "Box 2"})
	assert.ErrorIs(t, err, ErrForbidden)

	zones, err := svc.ListWorkZones(e.frontDesk)
	require.NoError(t, err)
	assert.Len(t, zones, 1)
}
