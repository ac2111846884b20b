package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/models"
	pkghttp "github.com/arjunmehra/coursegate/pkg/http"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithSessionContext adds session claims to the request context for testing
// endpoints behind SessionMiddleware
func WithSessionContext(req *http.Request, userID, role, deviceHash string) *http.Request {
	claims := &models.SessionClaims{
		UserID:     userID,
		Role:       role,
		DeviceHash: deviceHash,
	}
	ctx := context.WithValue(req.Context(), auth.SessionContextKey, claims)
	return req.WithContext(ctx)
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that the response carries the failure envelope
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.False(t, resp.Success)
	if expectedError != "" {
		assert.Equal(t, expectedError, resp.Error, "Error message mismatch")
	}
}

// MockOTPService implements OTPServiceInterface for testing
type MockOTPService struct {
	RequestLoginOTPFunc func(ctx context.Context, email, userAgent, ipAddress string) (string, error)
	VerifyLoginOTPFunc  func(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error)
	LogoutFunc          func(ctx context.Context, userID, deviceHash string) error
}

func (m *MockOTPService) RequestLoginOTP(ctx context.Context, email, userAgent, ipAddress string) (string, error) {
	if m.RequestLoginOTPFunc != nil {
		return m.RequestLoginOTPFunc(ctx, email, userAgent, ipAddress)
	}
	return "", nil
}

func (m *MockOTPService) VerifyLoginOTP(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error) {
	if m.VerifyLoginOTPFunc != nil {
		return m.VerifyLoginOTPFunc(ctx, email, code, userAgent, ipAddress)
	}
	return nil, "", models.ErrCodeNotFound
}

func (m *MockOTPService) Logout(ctx context.Context, userID, deviceHash string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, userID, deviceHash)
	}
	return nil
}

// MockUserProvider implements UserProviderInterface for testing
type MockUserProvider struct {
	GetByIDFunc func(ctx context.Context, id string) (*models.User, error)
}

func (m *MockUserProvider) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

// MockUserLister implements UserListerInterface for testing
type MockUserLister struct {
	ListFunc func(ctx context.Context, limit, offset int) ([]*models.User, error)
}

func (m *MockUserLister) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}
