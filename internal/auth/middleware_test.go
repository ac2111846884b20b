package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionRequest(t *testing.T, sm *SessionManager, userID, role string) *http.Request {
	t.Helper()

	token, err := sm.Issue(userID, role, DeviceHash("Mozilla/5.0", "203.0.113.9"))
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	return req
}

func TestSessionMiddleware_ValidCookie(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)

	var got *models.SessionClaims
	handler := SessionMiddleware(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetSessionFromContext(r)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, sessionRequest(t, sm, "user123", models.RoleStudent))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, got)
	assert.Equal(t, "user123", got.UserID)
}

func TestSessionMiddleware_MissingCookie(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)

	handler := SessionMiddleware(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/auth/session", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionMiddleware_ExpiredCookie(t *testing.T) {
	expired := NewSessionManager(testSecret, -time.Minute)
	sm := NewSessionManager(testSecret, time.Hour)

	handler := SessionMiddleware(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be reached")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, sessionRequest(t, expired, "user123", models.RoleStudent))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole_Admin(t *testing.T) {
	sm := NewSessionManager(testSecret, time.Hour)

	handler := SessionMiddleware(sm)(RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, sessionRequest(t, sm, "admin1", models.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, sessionRequest(t, sm, "user123", models.RoleStudent))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
