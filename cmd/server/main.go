// Package main is the entry point for the Lumbung API server.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lumbung/internal/config"
	"lumbung/internal/handlers"
	"lumbung/internal/repositories"
	"lumbung/internal/routes"
	"lumbung/internal/services/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, userCache, err := repositories.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("⚠️ Failed to close database connection: %v", err)
		}
		if err := userCache.Close(); err != nil {
			log.Printf("⚠️ Failed to close Redis connection: %v", err)
		}
	}()

	if gormStore, ok := store.(*repositories.GormStore); ok {
		go gormStore.LogPoolStats(ctx, time.Minute)
	}

	gateway := payment.NewGateway(cfg.StripeSecretKey, cfg.StripeCurrency)

	app := fiber.New(fiber.Config{
		AppName:      "Lumbung Sirkular API",
		BodyLimit:    int(cfg.MaxUploadSize) + 1024*1024,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(requestid.New())
	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowCredentials: true,
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	if err := routes.SetupRoutes(app, routes.Dependencies{
		Config:  cfg,
		Store:   store,
		Cache:   userCache,
		Gateway: gateway,
	}); err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("⚠️ Shutdown error: %v", err)
		}
	}()

	log.Printf("Listening on :%s (%s)", cfg.Port, cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server stopped: %v", err)
	}
}
