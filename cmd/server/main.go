package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/ai"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/database"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/handlers"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/middleware"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/triage"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/utils"

	_ "github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/docs/api" // Swagger docs
)

// @title Dual Power Women Hub API
// @version 1.0.0
// @description Backend for the health-advice portal and peer-to-peer rental marketplace

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name hub_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Local session database
	sessionDB, err := database.Connect(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to open session database", zap.Error(err))
	}
	defer database.Close(sessionDB)

	if err := database.AutoMigrate(sessionDB); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Document store
	client := store.NewRemoteClient(cfg, zapLogger.Named("store"))
	docStore := store.New(client, zapLogger.Named("store"))

	// AI collaborators
	chatter := ai.NewChatClient(cfg, zapLogger.Named("ai"))
	validator := ai.NewValidationClient(cfg, zapLogger.Named("ai"))
	media := ai.NewMediaClient(cfg, zapLogger.Named("media"))

	// Services
	authService := services.NewAuthService(docStore, sessionDB, cfg.SessionTTL, zapLogger.Named("auth"))
	userService := services.NewUserService(docStore, zapLogger.Named("users"))
	assetService := services.NewAssetService(docStore, validator, cfg.ValidationTimeout, zapLogger.Named("assets"))
	txService := services.NewTransactionService(docStore, zapLogger.Named("transactions"))
	ticketService := services.NewTicketService(docStore, zapLogger.Named("tickets"))
	catalogService := services.NewCatalogService(docStore, zapLogger.Named("catalog"))
	chatService := services.NewChatService(docStore, chatter,
		triage.NewKeywordClassifier(nil), cfg.KeyFetchTimeout, zapLogger.Named("chat"))

	// One-time initial admin seeding replaces the legacy hardcoded recovery
	// credential. No-op when unset or when an admin already exists.
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := authService.SeedInitialAdmin(seedCtx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		zapLogger.Warn("initial admin seeding failed", zap.Error(err))
	}
	cancel()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("women_hub")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Handlers
	authHandler := &handlers.AuthHandler{
		Auth: authService, Users: userService, Media: media,
		SessionTTL: cfg.SessionTTL, Logger: zapLogger.Named("auth"),
	}
	marketHandler := &handlers.MarketplaceHandler{Assets: assetService, Transactions: txService}
	adminHandler := &handlers.AdminHandler{
		Users: userService, Assets: assetService, Transactions: txService,
		Tickets: ticketService, Catalog: catalogService,
	}
	chatHandler := &handlers.ChatHandler{Chat: chatService}
	supportHandler := &handlers.SupportHandler{Tickets: ticketService, Catalog: catalogService}
	healthHandler := &handlers.HealthHandler{
		Client: client, Sessions: sessionDB,
		MediaURL: cfg.MediaUploadURL, Logger: zapLogger.Named("health"),
	}

	authUser := middleware.AuthUser(authService)
	authNurse := middleware.AuthNurse(authService)
	authAdmin := middleware.AuthAdmin(authService)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	api.Get("/health", healthHandler.GetHealth)

	// Auth
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)

	// Profile
	api.Get("/profile", authUser, authHandler.GetProfile)
	api.Put("/profile", authUser, authHandler.UpdateProfile)
	api.Post("/profile/kyc", authUser, authHandler.SubmitKYC)
	api.Post("/profile/location", authUser, authHandler.RecordLocation)

	// Marketplace
	api.Get("/marketplace/assets", authUser, marketHandler.ListMarketplace)
	api.Get("/assets/mine", authUser, marketHandler.MyAssets)
	api.Post("/assets", authUser, marketHandler.CreateAsset)
	api.Put("/assets/:id", authUser, marketHandler.UpdateAsset)
	api.Delete("/assets/:id", authUser, marketHandler.DeleteAsset)
	api.Post("/assets/:id/rent", authUser, marketHandler.Rent)
	api.Post("/assets/:id/purchase", authUser, marketHandler.Purchase)
	api.Get("/transactions", authUser, marketHandler.ListTransactions)

	// Admin transaction transitions
	api.Post("/transactions/:id/dispatch", authAdmin, adminHandler.Dispatch)
	api.Post("/transactions/:id/deliver", authAdmin, adminHandler.ConfirmDelivery)
	api.Post("/transactions/:id/return", authAdmin, adminHandler.ProcessReturn)
	api.Post("/transactions/:id/dispute", authAdmin, adminHandler.Dispute)

	// Health chat
	api.Post("/chat/message", authUser, chatHandler.Message)
	api.Get("/chat/log", authNurse, chatHandler.ListLog)
	api.Post("/chat/log", authNurse, chatHandler.SaveLog)
	api.Delete("/chat/log/:id", authNurse, chatHandler.DeleteLog)

	// Shop and support
	api.Get("/products", authUser, supportHandler.ListProducts)
	api.Post("/products", authAdmin, adminHandler.CreateProduct)
	api.Put("/products/:id", authAdmin, adminHandler.UpdateProduct)
	api.Delete("/products/:id", authAdmin, adminHandler.DeleteProduct)
	api.Post("/tickets", authUser, supportHandler.CreateTicket)
	api.Get("/tickets", authUser, adminHandler.ListTickets)
	api.Post("/tickets/:id/resolve", authAdmin, adminHandler.ResolveTicket)

	// Back office
	api.Get("/admin/users", authAdmin, adminHandler.ListUsers)
	api.Post("/admin/users/:id/approval", authAdmin, adminHandler.SetApproval)
	api.Post("/admin/users/:id/role", authAdmin, adminHandler.SetRole)
	api.Get("/admin/assets", authAdmin, adminHandler.ListAllAssets)
	api.Post("/admin/assets/:id/moderate", authAdmin, adminHandler.ModerateAsset)
	api.Get("/admin/settings", authAdmin, adminHandler.GetSettings)
	api.Put("/admin/settings", authAdmin, adminHandler.UpdateSettings)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zapLogger.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	zapLogger.Info("Starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}

	zapLogger.Info("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return utils.ErrorResponse(c, message, code, "unknown")
}
