package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteError_Envelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteBadRequest(w, "Enter a valid email address")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Enter a valid email address", resp.Error)
}

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w *httptest.ResponseRecorder)
		status int
	}{
		{"unauthorized", func(w *httptest.ResponseRecorder) { WriteUnauthorized(w, "no session") }, 401},
		{"forbidden", func(w *httptest.ResponseRecorder) { WriteForbidden(w, "admin only") }, 403},
		{"not found", func(w *httptest.ResponseRecorder) { WriteNotFound(w, "missing") }, 404},
		{"too many requests", func(w *httptest.ResponseRecorder) { WriteTooManyRequests(w, "slow down") }, 429},
		{"internal", func(w *httptest.ResponseRecorder) { WriteInternalError(w, "boom") }, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestWriteJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, 200, map[string]interface{}{"success": true})

	assert.Equal(t, 200, w.Code)

	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Equal(t, true, resp["success"])
}

func TestExtractClientIP_UntrustedProxyIgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/request-otp", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")

	ip := ExtractClientIP(req, &IPConfig{})
	assert.Equal(t, "203.0.113.9", ip)
}

func TestExtractClientIP_TrustedProxyUsesForwardedFor(t *testing.T) {
	req := httptest.NewRequest("POST", "/auth/request-otp", nil)
	req.RemoteAddr = "10.0.0.5:51000"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.5")

	ip := ExtractClientIP(req, &IPConfig{TrustedProxies: []string{"10.0.0.0/8"}})
	assert.Equal(t, "198.51.100.1", ip)
}
