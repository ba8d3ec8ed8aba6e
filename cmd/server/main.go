package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"accountd/internal/caching"
	"accountd/internal/config"
	"accountd/internal/handlers"
	"accountd/internal/jobs/background"
	"accountd/internal/middleware"
	"accountd/internal/models"
	"accountd/internal/repositories"
	"accountd/internal/services"
	"accountd/pkg/database"
)

const version = "1.0.0"

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(level)
	}

	cfg := config.Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			logrus.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	cfg.ApplyEnv()

	if cfg.Server.DatabaseURL == "" {
		logrus.Fatal("DATABASE_URL environment variable is required")
	}
	if cfg.Auth.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET environment variable is required")
	}

	pool, err := database.NewPool(cfg.Server.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Create repositories
	userRepo := repositories.NewUserRepo(pool)
	accountRepo := repositories.NewAccountRepo(pool)
	emailAddressRepo := repositories.NewEmailAddressRepo(pool)
	signupCodeRepo := repositories.NewSignupCodeRepo(pool)
	confirmationRepo := repositories.NewEmailConfirmationRepo(pool)
	deletionRepo := repositories.NewAccountDeletionRepo(pool)

	// Email delivery: SendGrid in production, log-only capture without a key
	var sender services.Sender
	if cfg.Email.SendgridAPIKey != "" {
		sender = services.NewSendGridSender(cfg.Email.SendgridAPIKey, cfg.Email.FromName, cfg.Email.FromAddress, cfg.Email.SandboxMode)
	} else {
		logrus.Warn("SENDGRID_API_KEY not set, outgoing email will not be delivered")
		sender = services.NewMemorySender()
	}
	mailer := services.NewEmailService(sender, cfg.Account.SiteURL)

	// Create services
	signupValidator := services.NewSignupValidator(userRepo, emailAddressRepo)
	codeSvc := services.NewSignupCodeService(signupCodeRepo, userRepo, mailer, cfg.Account.SignupCodeExpiryHours)
	confirmSvc := services.NewConfirmationService(pool, confirmationRepo, emailAddressRepo, mailer,
		time.Duration(cfg.Account.ConfirmationExpiryHours)*time.Hour)
	signupSvc := services.NewSignupService(pool, userRepo, accountRepo, emailAddressRepo, signupCodeRepo, cfg.Account)
	settingsSvc := services.NewSettingsService(pool, accountRepo, emailAddressRepo, confirmSvc)
	deletionSvc := services.NewDeletionService(deletionRepo, userRepo)
	tokenSvc := services.NewTokenService(cacheSvc, cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLSeconds)*time.Second)

	signupSvc.Subscribe(func(ctx context.Context, user *models.User, addr *models.EmailAddress) {
		logrus.Infof("User %s signed up with email %s", user.Username, addr.Email)
	})

	// Create handlers
	signupHandlers := handlers.NewSignupHandlers(signupSvc, codeSvc, confirmSvc, signupValidator, cacheSvc, cfg.Account)
	inviteHandlers := handlers.NewInviteHandlers(codeSvc)
	settingsHandlers := handlers.NewSettingsHandlers(settingsSvc)
	accountHandlers := handlers.NewAccountHandlers(deletionSvc, tokenSvc, cfg.Account)
	authHandlers := handlers.NewAuthHandlers(userRepo, tokenSvc)

	// Background maintenance jobs
	scheduler, err := background.NewJobScheduler(signupCodeRepo, confirmationRepo)
	if err != nil {
		logrus.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", handlers.HealthCheck)
	e.GET("/health/ready", func(c echo.Context) error {
		return handlers.ReadinessCheck(c, pool)
	})

	// API routes
	v1 := e.Group("/v1")

	// Open endpoints
	v1.POST("/signup", signupHandlers.Signup)
	v1.POST("/confirm", signupHandlers.Confirm)
	v1.POST("/login", authHandlers.Login)

	// Protected routes (require a valid session)
	protected := v1.Group("")
	protected.Use(middleware.JWTMiddleware(tokenSvc))

	protected.POST("/invite", inviteHandlers.Create, middleware.RequireUserInitiatedInvites(cfg.Account))
	protected.GET("/settings", settingsHandlers.Get)
	protected.PUT("/settings", settingsHandlers.Put)
	protected.POST("/delete", accountHandlers.Delete)

	logrus.Infof("accountd server v%s starting on port %d", version, cfg.Server.Port)
	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", cfg.Server.Port)))
}
