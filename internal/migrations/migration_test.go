package migrations

import (
	"testing"
	"workshop_manager/internal/auth"
	"workshop_manager/internal/models"
	"workshop_manager/internal/repository"
	"workshop_manager/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedInitialData_Idempotent(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)

	require.NoError(t, SeedInitialData(store))
	require.NoError(t, SeedInitialData(store))

	var groups int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	assert.Equal(t, int64(3), groups)

	var mechanics int64
	require.NoError(t, db.Model(&models.Mechanic{}).Count(&mechanics).Error)
	assert.Equal(t, int64(1), mechanics)

	roles := map[string]models.Role{
		"encargado":     models.RoleManager,
		"mecanico":      models.RoleMechanic,
		"recepcionista": models.RoleFrontDesk,
	}
	for username, role := range roles {
		user, err := store.Users.GetByUsername(username)
		require.NoError(t, err)
		require.NotNil(t, user.Profile, username)
		assert.Equal(t, role, user.Profile.Role)
		assert.Len(t, user.Groups, 1)
		assert.Equal(t, username == "encargado", user.IsStaff)
	}

	mecanico, err := store.Users.GetByUsername("mecanico")
	require.NoError(t, err)
	require.NotNil(t, mecanico.Mechanic)
	assert.True(t, auth.CheckPassword("mec123", mecanico.PasswordHash))
}

func TestFixUserPermissions(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db)
	require.NoError(t, SeedInitialData(store))

	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "mecanico").
		Updates(map[string]interface{}{"is_staff": true, "is_superuser": true}).Error)
	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "encargado").
		Update("is_staff", false).Error)

	require.NoError(t, FixUserPermissions(store))
	require.NoError(t, FixUserPermissions(store))

	mecanico, err := store.Users.GetByUsername("mecanico")
	require.NoError(t, err)
	assert.False(t, mecanico.IsStaff)
	assert.False(t, mecanico.IsSuperuser)

	encargado, err := store.Users.GetByUsername("encargado")
	require.NoError(t, err)
	assert.True(t, encargado.IsStaff)
}

func TestFixUserPermissions_MissingAccounts(t *testing.T) {
	store := repository.NewStore(testutil.NewDB(t))
	assert.NoError(t, FixUserPermissions(store))
}
