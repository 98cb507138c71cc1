package redis

import (
	"testing"
	"time"
	"workshop_manager/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	server := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb), server
}

func TestSessionLifecycle(t *testing.T) {
	client, server := newTestClient(t)
	mechanicID := uint(4)

	data := &SessionData{UserID: 2, Username: "mecanico", Role: models.RoleMechanic, MechanicID: &mechanicID}
	require.NoError(t, client.SetSession("abc", data, time.Hour))

	got, err := client.GetSession("abc")
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.UserID)
	assert.Equal(t, models.RoleMechanic, got.Role)
	require.NotNil(t, got.MechanicID)
	assert.Equal(t, uint(4), *got.MechanicID)

	server.FastForward(2 * time.Hour)
	_, err = client.GetSession("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	client, _ := newTestClient(t)

	require.NoError(t, client.SetSession("abc", &SessionData{UserID: 1}, time.Hour))
	require.NoError(t, client.DeleteSession("abc"))

	_, err := client.GetSession("abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestFlashes(t *testing.T) {
	client, _ := newTestClient(t)

	require.NoError(t, client.AddFlash(3, "first", time.Minute))
	require.NoError(t, client.AddFlash(3, "second", time.Minute))

	messages, err := client.PopFlashes(3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, messages)

	messages, err = client.PopFlashes(3)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
