package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/models"
	pkghttp "github.com/arjunmehra/coursegate/pkg/http"
)

// Single generic message for every verification failure. Callers cannot tell
// a missing code from an expired or mistyped one; the sub-reason only
// reaches the logs.
const verifyFailureMessage = "Invalid or expired code"

// OTPServiceInterface defines the interface for the login flow
type OTPServiceInterface interface {
	RequestLoginOTP(ctx context.Context, email, userAgent, ipAddress string) (string, error)
	VerifyLoginOTP(ctx context.Context, email, code, userAgent, ipAddress string) (*models.User, string, error)
	Logout(ctx context.Context, userID, deviceHash string) error
}

// UserProviderInterface resolves the user behind a session
type UserProviderInterface interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// AuthHandler handles OTP login HTTP requests
type AuthHandler struct {
	service      OTPServiceInterface
	userProvider UserProviderInterface
	sessions     *auth.SessionManager
	cookieConfig auth.CookieConfig
	ipConfig     *pkghttp.IPConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service OTPServiceInterface, userProvider UserProviderInterface, sessions *auth.SessionManager, cookieConfig auth.CookieConfig, ipConfig *pkghttp.IPConfig) *AuthHandler {
	return &AuthHandler{
		service:      service,
		userProvider: userProvider,
		sessions:     sessions,
		cookieConfig: cookieConfig,
		ipConfig:     ipConfig,
	}
}

// Request DTOs

// RequestOTPRequest represents the request body for requesting a login code
type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest represents the request body for verifying a login code
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// UserResponse is the user shape returned to clients
type UserResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
}

func toUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	}
}

// RequestOTPResponse represents the response for a code request
type RequestOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"` // populated outside production only
}

// VerifyOTPResponse represents the response for a successful verification
type VerifyOTPResponse struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}

// SessionResponse represents the current session
type SessionResponse struct {
	Success    bool         `json:"success"`
	User       UserResponse `json:"user"`
	DeviceHash string       `json:"device_hash"`
}

// RequestOTP handles POST /auth/request-otp. The response never reveals
// whether the email belonged to an existing account.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req RequestOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	code, err := h.service.RequestLoginOTP(r.Context(), req.Email, userAgent, ipAddress)
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, RequestOTPResponse{
		Success: true,
		Message: "A login code has been sent to your email.",
		OTP:     code,
	})
}

// VerifyOTP handles POST /auth/verify-otp. On success it sets the session
// cookie and registers the calling device.
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ipAddress := pkghttp.ExtractClientIP(r, h.ipConfig)
	userAgent := r.Header.Get("User-Agent")

	user, sessionToken, err := h.service.VerifyLoginOTP(r.Context(), req.Email, req.OTP, userAgent, ipAddress)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrCodeNotFound),
			errors.Is(err, models.ErrCodeExpired),
			errors.Is(err, models.ErrCodeInvalid),
			errors.Is(err, models.ErrTooManyAttempts):
			pkghttp.WriteBadRequest(w, verifyFailureMessage)
		default:
			pkghttp.WriteInternalError(w, "Internal server error")
		}
		return
	}

	auth.SetSessionCookie(w, sessionToken, h.sessions.TTL(), h.cookieConfig)

	pkghttp.WriteJSON(w, http.StatusOK, VerifyOTPResponse{
		Success: true,
		User:    toUserResponse(user),
	})
}

// Logout handles POST /auth/logout. The cookie is cleared and the trusted
// device row removed; the token itself stays valid until its own expiry, so
// the client must discard it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetSessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), claims.UserID, claims.DeviceHash); err != nil {
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	auth.ClearSessionCookie(w, h.cookieConfig)

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out.",
	})
}

// Session handles GET /auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetSessionFromContext(r)
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	user, err := h.userProvider.GetByID(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// account deleted after the token was minted
			auth.ClearSessionCookie(w, h.cookieConfig)
			pkghttp.WriteUnauthorized(w, "Authentication required")
			return
		}
		pkghttp.WriteInternalError(w, "Internal server error")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, SessionResponse{
		Success:    true,
		User:       toUserResponse(user),
		DeviceHash: claims.DeviceHash,
	})
}
