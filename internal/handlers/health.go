package handlers

import (
	"context"
	"time"

	"lumbung/internal/repositories"
	"lumbung/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	store repositories.Store
	cache cache.UserCache
}

func NewHealthHandler(store repositories.Store, userCache cache.UserCache) *HealthHandler {
	return &HealthHandler{store: store, cache: userCache}
}

func (h *HealthHandler) Welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to Lumbung Sirkular API"})
}

// Health reports whether the database and cache answer a ping.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	services := fiber.Map{"database": "connected", "cache": "connected"}

	if err := h.store.Ping(ctx); err != nil {
		services["database"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}
	if err := h.cache.HealthCheck(ctx); err != nil {
		services["cache"] = err.Error()
		status = fiber.StatusServiceUnavailable
	}

	state := "ok"
	if status != fiber.StatusOK {
		state = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   state,
		"version":  "1.0.0",
		"services": services,
	})
}
