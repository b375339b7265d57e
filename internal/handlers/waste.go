package handlers

import (
	"strconv"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
	"lumbung/internal/services/waste"
	"lumbung/internal/utils/pagination"
	"lumbung/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type WasteHandler struct {
	wasteService waste.Service
}

func NewWasteHandler(wasteService waste.Service) *WasteHandler {
	return &WasteHandler{wasteService: wasteService}
}

// List returns the public catalog of available listings, paged when
// ?page or ?limit is given.
func (h *WasteHandler) List(c *fiber.Ctx) error {
	wastes, err := h.wasteService.ListAvailable(c.UserContext(), models.WasteFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		return respondError(c, err)
	}
	if p, ok := pagination.ParseFromRequest(c); ok {
		wastes = pagination.Apply(c, p, wastes)
	}
	return c.JSON(nonNil(wastes))
}

func (h *WasteHandler) Mine(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	wastes, err := h.wasteService.ListMine(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(wastes))
}

func (h *WasteHandler) RecommendPrice(c *fiber.Ctx) error {
	weight, err := strconv.ParseFloat(c.Query("weight"), 64)
	if err != nil {
		return respondError(c, apperrors.Validation("invalid_weight", "weight must be a number"))
	}

	rec, err := h.wasteService.RecommendPrice(c.Query("category"), weight)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *WasteHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	w, err := h.wasteService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

func (h *WasteHandler) Create(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	var input models.CreateWasteInput
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	w, err := h.wasteService.Create(c.UserContext(), actor, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(w)
}

func (h *WasteHandler) Update(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input models.UpdateWasteInput
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	w, err := h.wasteService.Update(c.UserContext(), actor, id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(w)
}

func (h *WasteHandler) Delete(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	if err := h.wasteService.Delete(c.UserContext(), actor, id); err != nil {
		return respondError(c, err)
	}
	return response.Success(c, "Waste deleted", fiber.Map{"id": id})
}

// nonNil keeps empty lists serialized as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
