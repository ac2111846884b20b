package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthHandler(service *MockOTPService, users *MockUserProvider) *AuthHandler {
	if service == nil {
		service = &MockOTPService{}
	}
	if users == nil {
		users = &MockUserProvider{}
	}
	sessions := auth.NewSessionManager("test-secret-32-characters-long!!", time.Hour)
	return NewAuthHandler(service, users, sessions, auth.CookieConfig{}, nil)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			return c
		}
	}
	return nil
}

func TestRequestOTP_Success(t *testing.T) {
	var gotEmail string
	service := &MockOTPService{
		RequestLoginOTPFunc: func(ctx context.Context, email, userAgent, ipAddress string) (string, error) {
			gotEmail = email
			return "482913", nil
		},
	}
	handler := newTestAuthHandler(service, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/request-otp", RequestOTPRequest{Email: "Trader@Example.COM"})
	w := httptest.NewRecorder()
	handler.RequestOTP(w, req)

	var resp RequestOTPResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "482913", resp.OTP)
	assert.Equal(t, "trader@example.com", gotEmail, "email should be normalized before reaching the service")
}

func TestRequestOTP_CodeOmittedWhenServiceWithholdsIt(t *testing.T) {
	// in production the service returns an empty code; the field must not
	// appear in the payload at all
	service := &MockOTPService{
		RequestLoginOTPFunc: func(ctx context.Context, email, userAgent, ipAddress string) (string, error) {
			return "", nil
		},
	}
	handler := newTestAuthHandler(service, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/request-otp", RequestOTPRequest{Email: "trader@example.com"})
	w := httptest.NewRecorder()
	handler.RequestOTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "otp")
}

func TestRequestOTP_InvalidBody(t *testing.T) {
	handler := newTestAuthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/request-otp", nil)
	w := httptest.NewRecorder()
	handler.RequestOTP(w, req)

	AssertErrorResponse(t, w, http.StatusBadRequest, "")
}

func TestRequestOTP_InvalidEmail(t *testing.T) {
	handler := newTestAuthHandler(nil, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/request-otp", RequestOTPRequest{Email: "not-an-email"})
	w := httptest.NewRecorder()
	handler.RequestOTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestOTP_ServiceError(t *testing.T) {
	service := &MockOTPService{
		RequestLoginOTPFunc: func(ctx context.Context, email, userAgent, ipAddress string) (string, error) {
			return "", models.ErrInternalServer
		},
	}
	handler := newTestAuthHandler(service, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/request-otp", RequestOTPRequest{Email: "trader@example.com"})
	w := httptest.NewRecorder()
	handler.RequestOTP(w, req)

	AssertErrorResponse(t, w, http.StatusInternalServerError, "Internal server error")
}

func TestVerifyOTP_Success(t *testing.T) {
	user := &models.User{ID: "user_1", Email: "trader@example.com", Role: models.RoleStudent, EmailVerified: true}
	service := &MockOTPService{
		VerifyLoginOTPFunc: func(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error) {
			assert.Equal(t, "482913", code)
			return user, "signed.session.token", nil
		},
	}
	handler := newTestAuthHandler(service, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{Email: "trader@example.com", OTP: "482913"})
	w := httptest.NewRecorder()
	handler.VerifyOTP(w, req)

	var resp VerifyOTPResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "user_1", resp.User.ID)
	assert.Equal(t, models.RoleStudent, resp.User.Role)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie, "successful verification must set the session cookie")
	assert.Equal(t, "signed.session.token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestVerifyOTP_FailuresAreIndistinguishable(t *testing.T) {
	// every verification failure maps to the same status and message
	sentinels := []error{
		models.ErrCodeNotFound,
		models.ErrCodeExpired,
		models.ErrCodeInvalid,
		models.ErrTooManyAttempts,
	}

	var bodies []string
	for _, sentinel := range sentinels {
		service := &MockOTPService{
			VerifyLoginOTPFunc: func(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error) {
				return nil, "", sentinel
			},
		}
		handler := newTestAuthHandler(service, nil)

		req := NewTestRequest(t, http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{Email: "trader@example.com", OTP: "000000"})
		w := httptest.NewRecorder()
		handler.VerifyOTP(w, req)

		AssertErrorResponse(t, w, http.StatusBadRequest, verifyFailureMessage)
		assert.Nil(t, sessionCookie(t, w))
		bodies = append(bodies, w.Body.String())
	}

	for _, body := range bodies[1:] {
		assert.Equal(t, bodies[0], body)
	}
}

func TestVerifyOTP_RejectsMalformedCode(t *testing.T) {
	called := false
	service := &MockOTPService{
		VerifyLoginOTPFunc: func(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error) {
			called = true
			return nil, "", models.ErrCodeInvalid
		},
	}
	handler := newTestAuthHandler(service, nil)

	for _, otp := range []string{"", "12345", "1234567", "12345a"} {
		req := NewTestRequest(t, http.MethodPost, "/auth/verify-otp", VerifyOTPRequest{Email: "trader@example.com", OTP: otp})
		w := httptest.NewRecorder()
		handler.VerifyOTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "otp %q should fail validation", otp)
	}
	assert.False(t, called, "malformed codes must be rejected before the service runs")
}

func TestLogout_Success(t *testing.T) {
	var gotUserID, gotDeviceHash string
	service := &MockOTPService{
		LogoutFunc: func(ctx context.Context, userID, deviceHash string) error {
			gotUserID = userID
			gotDeviceHash = deviceHash
			return nil
		},
	}
	handler := newTestAuthHandler(service, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/logout", nil)
	req = WithSessionContext(req, "user_1", models.RoleStudent, "hash_a")
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user_1", gotUserID)
	assert.Equal(t, "hash_a", gotDeviceHash)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge, "logout must instruct the client to drop the cookie")
}

func TestLogout_NoSession(t *testing.T) {
	handler := newTestAuthHandler(nil, nil)

	req := NewTestRequest(t, http.MethodPost, "/auth/logout", nil)
	w := httptest.NewRecorder()
	handler.Logout(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSession_Success(t *testing.T) {
	users := &MockUserProvider{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return &models.User{ID: id, Email: "trader@example.com", Role: models.RoleStudent, EmailVerified: true}, nil
		},
	}
	handler := newTestAuthHandler(nil, users)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req = WithSessionContext(req, "user_1", models.RoleStudent, "hash_a")
	w := httptest.NewRecorder()
	handler.Session(w, req)

	var resp SessionResponse
	AssertJSONResponse(t, w, http.StatusOK, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, "user_1", resp.User.ID)
	assert.Equal(t, "hash_a", resp.DeviceHash)
}

func TestSession_UserDeleted(t *testing.T) {
	handler := newTestAuthHandler(nil, &MockUserProvider{}) // defaults to ErrNotFound

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req = WithSessionContext(req, "user_gone", models.RoleStudent, "hash_a")
	w := httptest.NewRecorder()
	handler.Session(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	cookie := sessionCookie(t, w)
	require.NotNil(t, cookie)
	assert.Negative(t, cookie.MaxAge)
}

func TestSession_NoSession(t *testing.T) {
	handler := newTestAuthHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	w := httptest.NewRecorder()
	handler.Session(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
