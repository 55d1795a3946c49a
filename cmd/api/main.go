package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/pixbooth/pixbooth-backend/internal/config"
	"github.com/pixbooth/pixbooth-backend/internal/handler"
	"github.com/pixbooth/pixbooth-backend/internal/middleware"
	"github.com/pixbooth/pixbooth-backend/internal/repository"
	"github.com/pixbooth/pixbooth-backend/internal/scheduler"
	"github.com/pixbooth/pixbooth-backend/internal/service"
	"github.com/pixbooth/pixbooth-backend/pkg/database"
	"github.com/pixbooth/pixbooth-backend/pkg/email"
	"github.com/pixbooth/pixbooth-backend/pkg/logger"
	"github.com/pixbooth/pixbooth-backend/pkg/payment"
	"github.com/pixbooth/pixbooth-backend/pkg/qrcode"
	"github.com/pixbooth/pixbooth-backend/pkg/storage"
	"github.com/pixbooth/pixbooth-backend/pkg/utils"
)

func main() {
	// .env is optional outside development.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories
	operatorRepo := repository.NewOperatorRepository(db)
	eventRepo := repository.NewEventRepository(db)
	captureRepo := repository.NewCaptureRepository(db)
	cleanupRepo := repository.NewCleanupRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Storage
	r2Storage, err := storage.NewR2Storage(cfg)
	if err != nil {
		log.Fatal("Failed to initialize R2 storage:", err)
	}

	// External services
	emailService := email.NewEmailService(cfg.Email.APIKey, cfg.Email.FromAddress, cfg.Email.FromName, zapLogger)
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.SuccessURL, cfg.Stripe.CancelURL)
	qrService := qrcode.NewQRService(cfg.Booth.JoinBaseURL)

	// Services
	authService := service.NewAuthService(operatorRepo, emailService, cfg.JWTSecret, cfg.JWTIssuer, zapLogger)
	operatorService := service.NewOperatorService(operatorRepo)
	eventService := service.NewEventService(eventRepo, qrService)
	reservationService := service.NewReservationService(eventRepo, cfg.Booth.GalleryGraceDays, zapLogger)
	captureService := service.NewCaptureService(captureRepo, eventRepo, r2Storage, zapLogger)
	galleryService := service.NewGalleryService(eventRepo, captureRepo, r2Storage, cfg.Booth.ArchiveMaxAge, cfg.Booth.ArchiveURLTTL, zapLogger)
	cleanupService := service.NewCleanupService(
		eventRepo,
		captureRepo,
		cleanupRepo,
		operatorRepo,
		r2Storage,
		emailService,
		cfg.Booth.CleanupLogRetentionDays,
		cfg.Booth.ExpiryWarningDays,
		zapLogger,
	)
	paymentService := service.NewPaymentService(stripeService, operatorRepo, purchaseRepo, cfg.Stripe.PriceIDs, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	operatorHandler := handler.NewOperatorHandler(operatorService, validator)
	eventHandler := handler.NewEventHandler(eventService, validator)
	reservationHandler := handler.NewReservationHandler(reservationService)
	captureHandler := handler.NewCaptureHandler(captureService)
	galleryHandler := handler.NewGalleryHandler(galleryService)
	cleanupHandler := handler.NewCleanupHandler(cleanupService)
	paymentHandler := handler.NewPaymentHandler(paymentService)

	// Cleanup schedule
	cleanupScheduler := scheduler.New(cleanupService, cfg.Booth.CleanupInterval, zapLogger)
	cleanupScheduler.Start(context.Background())

	// Router
	app := fiber.New(fiber.Config{
		BodyLimit: 12 * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "https://pixbooth.app, https://www.pixbooth.app, http://localhost:5173",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE",
	}))
	app.Use(fiberlogger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public operator auth
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Public attendee surface
	api.Get("/events/slug/:slug", eventHandler.GetEventBySlug)
	api.Post("/events/:eventId/reservations", reservationHandler.Reserve)
	api.Post("/events/:eventId/reservations/buffer", reservationHandler.ReserveBuffered)
	api.Post("/events/:eventId/reservations/confirm", reservationHandler.ConfirmReservation)
	api.Post("/events/:eventId/captures", captureHandler.UploadCapture)
	api.Get("/gallery/:slug", captureHandler.GetGalleryCaptures)
	api.Post("/events/:eventId/album", galleryHandler.GetAlbumArchive)

	// Public plan catalog and Stripe webhook
	api.Get("/plans", paymentHandler.GetPlans)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Protected operator surface
	api.Use(middleware.AuthMiddleware())
	{
		operator := api.Group("/operator")
		operator.Get("/profile", operatorHandler.GetMyProfile)
		operator.Post("/change-password", operatorHandler.ChangePassword)

		events := api.Group("/events")
		events.Post("/", eventHandler.CreateEvent)
		events.Get("/", eventHandler.GetOperatorEvents)
		events.Get("/:id", eventHandler.GetEvent)
		events.Post("/:id/publish", eventHandler.PublishEvent)
		events.Delete("/:id", eventHandler.DeleteEvent)
		events.Get("/:id/qrcode", eventHandler.GetJoinQRCode)

		payments := api.Group("/payments")
		payments.Get("/history", paymentHandler.GetPurchaseHistory)
		payments.Post("/checkout/:tier", paymentHandler.CreateCheckoutSession)

		admin := api.Group("/admin")
		admin.Post("/cleanup", cleanupHandler.TriggerCleanup)
		admin.Get("/cleanup/runs", cleanupHandler.GetCleanupHistory)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
