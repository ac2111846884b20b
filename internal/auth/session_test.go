package auth

import (
	"testing"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-32-characters-long!!"

func TestSessionManager_IssueAndValidate(t *testing.T) {
	sm := NewSessionManager(testSecret, 30*24*time.Hour)

	token, err := sm.Issue("user123", models.RoleStudent, "devicehash")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := sm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user123", claims.UserID)
	assert.Equal(t, models.RoleStudent, claims.Role)
	assert.Equal(t, "devicehash", claims.DeviceHash)
}

func TestSessionManager_ExpiredToken(t *testing.T) {
	sm := NewSessionManager(testSecret, -1*time.Minute)

	token, err := sm.Issue("user123", models.RoleStudent, "devicehash")
	require.NoError(t, err)

	claims, err := sm.Validate(token)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionManager_TamperedToken(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)

	token, err := sm.Issue("user123", models.RoleStudent, "devicehash")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "xxxx"
	claims, err := sm.Validate(tampered)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionManager_UniformFailure(t *testing.T) {
	// Expired and tampered tokens must be indistinguishable to the caller.
	expired := NewSessionManager(testSecret, -1*time.Minute)
	valid := NewSessionManager(testSecret, time.Hour)

	expiredToken, err := expired.Issue("user123", models.RoleStudent, "devicehash")
	require.NoError(t, err)
	goodToken, err := valid.Issue("user123", models.RoleStudent, "devicehash")
	require.NoError(t, err)
	tampered := goodToken[:len(goodToken)-4] + "xxxx"

	_, errExpired := valid.Validate(expiredToken)
	_, errTampered := valid.Validate(tampered)
	assert.Equal(t, errExpired, errTampered)
}

func TestSessionManager_WrongSecret(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)
	other := NewSessionManager("another-secret-32-characters-ok!", time.Hour)

	token, err := sm.Issue("user123", models.RoleAdmin, "devicehash")
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestSessionManager_GarbageToken(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := sm.Validate(tok)
		assert.ErrorIs(t, err, models.ErrUnauthorized, "token %q", tok)
	}
}
