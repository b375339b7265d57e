// Package routes defines the API routing configuration.
package routes

import (
	"time"

	"lumbung/internal/config"
	"lumbung/internal/handlers"
	"lumbung/internal/middleware"
	"lumbung/internal/models"
	"lumbung/internal/repositories"
	"lumbung/internal/repositories/cache"
	"lumbung/internal/services/auth"
	"lumbung/internal/services/impact"
	"lumbung/internal/services/payment"
	"lumbung/internal/services/transaction"
	"lumbung/internal/services/upload"
	"lumbung/internal/services/waste"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// Dependencies are the long-lived components the routes are built from.
type Dependencies struct {
	Config  *config.Config
	Store   repositories.Store
	Cache   cache.UserCache
	Gateway payment.Gateway
	// AuthRateLimit is the number of login or register calls one IP may
	// make per minute.
	AuthRateLimit int
}

// SetupRoutes builds the services and mounts every route on app.
func SetupRoutes(app *fiber.App, deps Dependencies) error {
	cfg := deps.Config
	if deps.Cache == nil {
		deps.Cache = cache.Noop{}
	}
	if deps.AuthRateLimit <= 0 {
		deps.AuthRateLimit = 5
	}

	authService := auth.NewService(deps.Store.Users(), cfg.JWTSecret, cfg.JWTExpiration)
	wasteService := waste.NewService(deps.Store.Wastes())
	txService := transaction.NewService(deps.Store, deps.Gateway)
	impactService := impact.NewService(deps.Store)
	uploadService, err := upload.NewService(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		return err
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := authMiddleware.Handler
	producerOnly := middleware.RequireRole(models.RoleProducer)
	recyclerOnly := middleware.RequireRole(models.RoleRecycler)

	healthHandler := handlers.NewHealthHandler(deps.Store, deps.Cache)
	authHandler := handlers.NewAuthHandler(authService)
	wasteHandler := handlers.NewWasteHandler(wasteService)
	txHandler := handlers.NewTransactionHandler(txService)
	impactHandler := handlers.NewImpactHandler(impactService)
	uploadHandler := handlers.NewUploadHandler(uploadService)

	app.Get("/", healthHandler.Welcome)
	app.Get("/health", healthHandler.Health)
	app.Static("/uploads", cfg.UploadDir)

	authLimiter := limiter.New(limiter.Config{
		Max:        deps.AuthRateLimit,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please try again later.",
				"code":  "rate_limited",
			})
		},
	})

	authGroup := app.Group("/auth")
	authGroup.Post("/register", authLimiter, authHandler.Register)
	authGroup.Post("/login", authLimiter, authHandler.Login)
	authGroup.Get("/me", protected, authHandler.Me)
	authGroup.Put("/me/bank", protected, producerOnly, authHandler.UpdateBankDetails)
	authGroup.Post("/logout", protected, authHandler.Logout)

	// Literal segments are registered before /:id so they are not shadowed.
	wastes := app.Group("/wastes")
	wastes.Get("/", wasteHandler.List)
	wastes.Get("/me", protected, wasteHandler.Mine)
	wastes.Get("/recommend/price", wasteHandler.RecommendPrice)
	wastes.Get("/:id", wasteHandler.Get)
	wastes.Post("/", protected, producerOnly, wasteHandler.Create)
	wastes.Put("/:id", protected, producerOnly, wasteHandler.Update)
	wastes.Delete("/:id", protected, producerOnly, wasteHandler.Delete)

	txs := app.Group("/transactions", protected)
	txs.Post("/book/:waste_id", recyclerOnly, txHandler.Book)
	txs.Get("/my-bookings", txHandler.MyBookings)
	txs.Get("/waste/:waste_id", txHandler.ByWaste)
	txs.Get("/impact/me", impactHandler.Me)
	txs.Get("/impact/chart-data", impactHandler.ChartData)
	txs.Patch("/:id/claim-received", txHandler.ClaimReceived)
	txs.Patch("/:id/confirm-handover", txHandler.ConfirmHandover)
	txs.Delete("/:id/cancel", txHandler.Cancel)
	txs.Post("/:id/payment", txHandler.SubmitPayment)
	txs.Patch("/:id/verify-payment", txHandler.VerifyPayment)
	txs.Get("/:id/payment-details", txHandler.PaymentDetails)

	app.Post("/upload/image", protected, uploadHandler.UploadImage)

	return nil
}
