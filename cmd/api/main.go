package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arjunmehra/coursegate/internal/auth"
	"github.com/arjunmehra/coursegate/internal/background"
	"github.com/arjunmehra/coursegate/internal/bootstrap"
	"github.com/arjunmehra/coursegate/internal/config"
	"github.com/arjunmehra/coursegate/internal/database"
	"github.com/arjunmehra/coursegate/internal/handlers"
	middlewareCustom "github.com/arjunmehra/coursegate/internal/middleware"
	"github.com/arjunmehra/coursegate/internal/repositories"
	"github.com/arjunmehra/coursegate/internal/routes"
	"github.com/arjunmehra/coursegate/internal/services"
	pkghttp "github.com/arjunmehra/coursegate/pkg/http"
	pkglogger "github.com/arjunmehra/coursegate/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	otpRepo := repositories.NewOtpTokenRepository(db)
	deviceRepo := repositories.NewDeviceSessionRepository(db)
	notificationLogRepo := repositories.NewNotificationLogRepository(db)

	// Initialize cleanup manager for expired login codes
	cleanupManager := background.NewCleanupManager(otpRepo, logger, cfg.Auth.CleanupInterval)

	// Session manager signs and validates the long-lived login credential
	sessionManager := auth.NewSessionManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Timing delay pads verification failures
	timingDelay := auth.NewTimingDelay(auth.TimingConfig{
		BaseDelayMs:   100,
		RandomDelayMs: 100,
	})

	// Delivery channels: real providers in production, log-only mocks when
	// credentials are absent so local development needs no AWS or Twilio.
	var emailSender services.EmailSender
	if cfg.Server.IsProduction() {
		emailSender, err = services.NewAWSSESEmailSender(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email sender", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		emailSender = services.NewMockEmailSender(logger)
	}

	var smsSender services.SMSSender
	if cfg.SMS.TwilioAccountSID != "" {
		smsSender, err = services.NewTwilioSMSSender(cfg.SMS.TwilioAccountSID, cfg.SMS.TwilioAuthToken, cfg.SMS.FromNumber, logger)
		if err != nil {
			logger.Error("failed to initialize SMS sender", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		smsSender = services.NewMockSMSSender(logger)
	}

	// Initialize services
	notificationService := services.NewNotificationService(emailSender, smsSender, notificationLogRepo, logger)
	deviceService := services.NewDeviceService(deviceRepo, logger, auditLogger, cfg.Auth.MaxDeviceSessions)
	otpService := services.NewOTPService(
		userRepo,
		otpRepo,
		deviceService,
		notificationService,
		sessionManager,
		timingDelay,
		logger,
		auditLogger,
		cfg.Server.Env,
		services.OTPConfig{
			Expiry:      cfg.Auth.OTPExpiry,
			Digits:      cfg.Auth.OTPDigits,
			MaxAttempts: cfg.Auth.MaxOTPAttempts,
		},
	)

	// Initialize handlers
	cookieConfig := auth.CookieConfig{
		Domain: cfg.Server.CookieDomain,
		Secure: cfg.Server.IsProduction(),
	}
	ipConfig := &pkghttp.IPConfig{TrustedProxies: cfg.Server.TrustedProxies}
	authHandler := handlers.NewAuthHandler(otpService, userRepo, sessionManager, cookieConfig, ipConfig)
	adminHandler := handlers.NewAdminHandler(userRepo)

	// Bootstrap the admin account if configured
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := bootstrap.EnsureAdminUser(ctx, userRepo, cfg.AdminSeed, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	cancel()

	// Setup router
	corsConfig := middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(corsConfig))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, adminHandler, sessionManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
