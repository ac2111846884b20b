package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/config"
	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/handlers"
	middlewareCustom "github.com/arjunmehra/coursegate/internal/middleware"
	"github.com/arjunmehra/coursegate/internal/routes"
	"github.com/arjunmehra/coursegate/internal/services"
	pkghttp "github.com/arjunmehra/coursegate/pkg/http"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
)

// SentMessage represents a captured outbound login code
type SentMessage struct {
	To   string
	Code string
}

// CapturingEmailSender records login code emails for test assertions
type CapturingEmailSender struct {
	mu   sync.Mutex
	Sent []SentMessage
}

func (m *CapturingEmailSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration, ipAddress, userAgent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Code: code})
	return nil
}

// LastCode returns the most recently sent login code, or ""
func (m *CapturingEmailSender) LastCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return ""
	}
	return m.Sent[len(m.Sent)-1].Code
}

// CapturingSMSSender records login code texts for test assertions
type CapturingSMSSender struct {
	mu   sync.Mutex
	Sent []SentMessage
}

func (m *CapturingSMSSender) SendLoginCode(ctx context.Context, to, code string, expiry time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMessage{To: to, Code: code})
	return nil
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server *httptest.Server
	DB     *database.DB
	Email  *CapturingEmailSender
	SMS    *CapturingSMSSender
	Config *config.Config

	logger *slog.Logger
}

// NewTestServer initializes a complete HTTP server with real database and
// captured delivery channels
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			SessionSecret:     "test-secret-32-characters-long-for-testing",
			SessionTTL:        30 * 24 * time.Hour,
			OTPExpiry:         10 * time.Minute,
			OTPDigits:         6,
			MaxOTPAttempts:    5,
			MaxDeviceSessions: 2,
			CleanupInterval:   1 * time.Hour,
		},
		Server: config.ServerConfig{
			Port:           "0",
			Env:            "test",
			AllowedOrigins: []string{},
			TrustedProxies: []string{},
		},
	}

	userRepo, otpRepo, deviceRepo, notificationLogRepo := InitializeRepositories(db)

	email := &CapturingEmailSender{}
	sms := &CapturingSMSSender{}

	sessionManager := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)
	auditLogger := pkglogger.NewAuditLogger(logger)

	notificationService := services.NewNotificationService(email, sms, notificationLogRepo, logger)
	deviceService := services.NewDeviceService(deviceRepo, logger, auditLogger, cfg.Auth.MaxDeviceSessions)
	otpService := services.NewOTPService(
		userRepo,
		otpRepo,
		deviceService,
		notificationService,
		sessionManager,
		nil, // no timing delay in tests
		logger,
		auditLogger,
		cfg.Server.Env,
		services.OTPConfig{
			Expiry:      cfg.Auth.OTPExpiry,
			Digits:      cfg.Auth.OTPDigits,
			MaxAttempts: cfg.Auth.MaxOTPAttempts,
		},
	)

	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	authHandler := handlers.NewAuthHandler(otpService, userRepo, sessionManager, auth.CookieConfig{}, ipConfig)
	adminHandler := handlers.NewAdminHandler(userRepo)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	routes.RegisterRoutes(r, authHandler, adminHandler, sessionManager)

	server := httptest.NewServer(r)

	return &TestServer{
		Server: server,
		DB:     db,
		Email:  email,
		SMS:    sms,
		Config: cfg,
		logger: logger,
	}
}

// Close shuts down the test server
func (ts *TestServer) Close() {
	if ts.Server != nil {
		ts.Server.Close()
	}
}

// Request makes an HTTP request to the test server
func (ts *TestServer) Request(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return http.DefaultClient.Do(req)
}

// RequestWithSession makes a request carrying the session cookie
func (ts *TestServer) RequestWithSession(method, path, sessionToken string, body interface{}) (*http.Response, error) {
	url := ts.Server.URL + path

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: sessionToken})

	return http.DefaultClient.Do(req)
}

// ParseJSONResponse parses JSON response body into target struct
func ParseJSONResponse(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}

// ExtractSessionCookie pulls the session token from Set-Cookie, or ""
func ExtractSessionCookie(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == auth.SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// GetErrorMessage extracts the error message from a failure envelope
func GetErrorMessage(resp *http.Response) (string, error) {
	defer resp.Body.Close()
	var errResp map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		return "", err
	}
	if msg, ok := errResp["error"].(string); ok {
		return msg, nil
	}
	return "", nil
}
