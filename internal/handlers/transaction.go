package handlers

import (
	"context"

	"lumbung/internal/models"
	"lumbung/internal/services/transaction"

	"github.com/gofiber/fiber/v2"
)

type TransactionHandler struct {
	txService transaction.Service
}

func NewTransactionHandler(txService transaction.Service) *TransactionHandler {
	return &TransactionHandler{txService: txService}
}

// Book reserves a listing, or part of it, for the calling recycler.
func (h *TransactionHandler) Book(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	wasteID, err := paramID(c, "waste_id")
	if err != nil {
		return respondError(c, err)
	}

	var input models.BookingInput
	if err := parseBody(c, &input, true); err != nil {
		return respondError(c, err)
	}

	tx, err := h.txService.Book(c.UserContext(), actor, wasteID, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

type stepFunc func(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error)

// step runs a lifecycle transition that needs only the transaction id.
func (h *TransactionHandler) step(c *fiber.Ctx, fn stepFunc) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	tx, err := fn(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) ClaimReceived(c *fiber.Ctx) error {
	return h.step(c, h.txService.ClaimReceived)
}

func (h *TransactionHandler) ConfirmHandover(c *fiber.Ctx) error {
	return h.step(c, h.txService.ConfirmHandover)
}

func (h *TransactionHandler) Cancel(c *fiber.Ctx) error {
	return h.step(c, h.txService.Cancel)
}

// VerifyPayment approves or rejects a submitted payment via ?action=.
func (h *TransactionHandler) VerifyPayment(c *fiber.Ctx) error {
	action := c.Query("action")
	return h.step(c, func(ctx context.Context, actor models.Identity, id uint) (*models.Transaction, error) {
		return h.txService.VerifyPayment(ctx, actor, id, action)
	})
}

func (h *TransactionHandler) SubmitPayment(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var input models.PaymentInput
	if err := parseBody(c, &input, false); err != nil {
		return respondError(c, err)
	}

	tx, err := h.txService.SubmitPayment(c.UserContext(), actor, id, input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tx)
}

func (h *TransactionHandler) MyBookings(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}

	txs, err := h.txService.MyBookings(c.UserContext(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(txs))
}

func (h *TransactionHandler) ByWaste(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	wasteID, err := paramID(c, "waste_id")
	if err != nil {
		return respondError(c, err)
	}

	txs, err := h.txService.ByWaste(c.UserContext(), actor, wasteID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(nonNil(txs))
}

func (h *TransactionHandler) PaymentDetails(c *fiber.Ctx) error {
	actor, err := identity(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	details, err := h.txService.PaymentDetails(c.UserContext(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(details)
}
