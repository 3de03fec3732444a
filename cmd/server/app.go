package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lpfarias/essay-api/internal/api"
	"github.com/lpfarias/essay-api/internal/api/middleware"
	"github.com/lpfarias/essay-api/internal/config"
	"github.com/lpfarias/essay-api/internal/platform/mailer"
	"github.com/lpfarias/essay-api/internal/platform/postgres"
	"github.com/lpfarias/essay-api/internal/service"
	"github.com/lpfarias/essay-api/internal/service/auth"
	"github.com/lpfarias/essay-api/internal/store"
)

// application holds the wired handlers and middleware for the HTTP layer.
type application struct {
	config *config.Config
	logger *slog.Logger

	authMiddleware *middleware.AuthMiddleware

	authHandler         *api.AuthHandler
	essayHandler        *api.EssayHandler
	correctionHandler   *api.CorrectionHandler
	invalidationHandler *api.InvalidationHandler
	themeHandler        *api.ThemeHandler
	subscriptionHandler *api.SubscriptionHandler
	webhookHandler      *api.WebhookHandler
	productHandler      *api.ProductHandler
	settingsHandler     *api.SettingsHandler
	userHandler         *api.UserHandler
	tokenHandler        *api.TokenHandler
}

// newApplication wires stores, services and handlers from the configuration
// and the database connection.
func newApplication(cfg *config.Config, db *sql.DB, appLogger *slog.Logger) (*application, error) {
	userStore := postgres.NewUserStore(db, appLogger)
	essayStore := postgres.NewEssayStore(db, appLogger)
	themeStore := postgres.NewThemeStore(db, appLogger)
	correctionStore := postgres.NewCorrectionStore(db, appLogger)
	invalidationStore := postgres.NewInvalidationStore(db, appLogger)
	subscriptionStore := postgres.NewSubscriptionStore(db, appLogger)
	productStore := postgres.NewProductStore(db, appLogger)
	settingsStore := postgres.NewSettingsStore(db, appLogger)
	tokenStore := postgres.NewTokenStore(db, appLogger)

	txRunner := store.NewTxRunner(db)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	passwordVerifier := auth.NewBcryptVerifier()
	random := service.NewCryptoRandom()

	var m mailer.Mailer
	if cfg.Mail.SendgridAPIKey != "" {
		m = mailer.NewSendgridMailer(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	} else {
		appLogger.Warn("no sendgrid api key configured, logging emails instead of sending")
		m = mailer.NewConsoleMailer(appLogger)
	}

	tokenVerifier := service.NewTokenVerifier(tokenStore)

	essayService := service.NewEssayService(
		essayStore,
		themeStore,
		userStore,
		subscriptionStore,
		settingsStore,
		invalidationStore,
		tokenStore,
		tokenVerifier,
		txRunner,
		appLogger,
	)
	correctionService := service.NewCorrectionService(
		correctionStore,
		essayStore,
		userStore,
		txRunner,
		m,
		appLogger,
	)
	invalidationService := service.NewInvalidationService(
		invalidationStore,
		essayStore,
		txRunner,
		appLogger,
	)
	themeService := service.NewThemeService(themeStore, appLogger)
	subscriptionService := service.NewSubscriptionService(
		subscriptionStore,
		productStore,
		userStore,
		random,
		m,
		cfg.Mail.SupportEmail,
		appLogger,
	)
	productService := service.NewProductService(productStore, appLogger)
	settingsService := service.NewSettingsService(settingsStore, appLogger)
	tokenService := service.NewTokenService(
		tokenStore,
		themeStore,
		userStore,
		settingsStore,
		random,
		appLogger,
	)
	userService := service.NewUserService(
		userStore,
		jwtService,
		passwordVerifier,
		random,
		m,
		appLogger,
	)

	return &application{
		config:              cfg,
		logger:              appLogger,
		authMiddleware:      middleware.NewAuthMiddleware(jwtService),
		authHandler:         api.NewAuthHandler(userService),
		essayHandler:        api.NewEssayHandler(essayService),
		correctionHandler:   api.NewCorrectionHandler(correctionService),
		invalidationHandler: api.NewInvalidationHandler(invalidationService),
		themeHandler:        api.NewThemeHandler(themeService),
		subscriptionHandler: api.NewSubscriptionHandler(subscriptionService),
		webhookHandler:      api.NewWebhookHandler(subscriptionService, cfg.Webhook.Secret),
		productHandler:      api.NewProductHandler(productService),
		settingsHandler:     api.NewSettingsHandler(settingsService),
		userHandler:         api.NewUserHandler(userService),
		tokenHandler:        api.NewTokenHandler(tokenService),
	}, nil
}
