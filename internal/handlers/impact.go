package handlers

import (
	"lumbung/internal/services/impact"

	"github.com/gofiber/fiber/v2"
)

type ImpactHandler struct {
	impactService impact.Service
}

func NewImpactHandler(impactService impact.Service) *ImpactHandler {
	return &ImpactHandler{impactService: impactService}
}

// Me returns the caller's impact summary.
func (h *ImpactHandler) Me(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	stats, err := h.impactService.Summary(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// ChartData returns the monthly series and category split.
func (h *ImpactHandler) ChartData(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	chart, err := h.impactService.Chart(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(chart)
}
