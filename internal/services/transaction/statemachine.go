package transaction

import (
	"strings"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"
)

type Action string

const (
	ActionClaimReceived   Action = "claim-received"
	ActionConfirmHandover Action = "confirm-handover"
	ActionCancel          Action = "cancel"
	ActionSubmitPayment   Action = "submit-payment"
	ActionVerifyPayment   Action = "verify-payment"
)

// party is the caller's relation to a transaction.
type party uint8

const (
	partyNone     party = 0
	partyRecycler party = 1 << iota
	partyProducer
)

// transition is one row of the lifecycle table. Empty targets leave the
// field unchanged; a nil from or paymentFrom accepts any status.
type transition struct {
	actors      party
	from        []models.TransactionStatus
	to          models.TransactionStatus
	paymentFrom []models.PaymentStatus
	wasteFrom   models.WasteStatus
	wasteTo     models.WasteStatus
}

var transitions = map[Action]transition{
	ActionClaimReceived: {
		actors: partyRecycler,
		from:   []models.TransactionStatus{models.TransactionStatusPending},
		to:     models.TransactionStatusWaitingConfirmation,
	},
	ActionConfirmHandover: {
		actors:    partyProducer,
		from:      []models.TransactionStatus{models.TransactionStatusWaitingConfirmation},
		to:        models.TransactionStatusCompleted,
		wasteFrom: models.WasteStatusBooked,
		wasteTo:   models.WasteStatusCompleted,
	},
	ActionCancel: {
		actors: partyRecycler | partyProducer,
		from: []models.TransactionStatus{
			models.TransactionStatusPending,
			models.TransactionStatusWaitingConfirmation,
		},
		to:        models.TransactionStatusCancelled,
		wasteFrom: models.WasteStatusBooked,
		wasteTo:   models.WasteStatusAvailable,
	},
	ActionSubmitPayment: {
		actors:      partyRecycler,
		from:        []models.TransactionStatus{models.TransactionStatusPending},
		paymentFrom: []models.PaymentStatus{
			models.PaymentStatusUnpaid,
			models.PaymentStatusPendingVerification,
			models.PaymentStatusRejected,
		},
	},
	ActionVerifyPayment: {
		actors:      partyProducer,
		paymentFrom: []models.PaymentStatus{models.PaymentStatusPendingVerification},
	},
}

// partyOf reports how actor relates to tx. tx.Waste must be loaded.
func partyOf(actor models.Identity, tx *models.Transaction) party {
	switch actor.Role {
	case models.RoleRecycler:
		if tx.RecyclerID == actor.UserID {
			return partyRecycler
		}
	case models.RoleProducer:
		if tx.Waste != nil && tx.Waste.ProducerID == actor.UserID {
			return partyProducer
		}
	}
	return partyNone
}

// enforce checks that actor may perform action on tx in its current state.
func enforce(action Action, actor models.Identity, tx *models.Transaction) (transition, error) {
	rule, ok := transitions[action]
	if !ok {
		return rule, apperrors.New(apperrors.KindInternal, "unknown_action", "unknown action "+string(action))
	}
	if !actor.Role.Valid() {
		return rule, ErrUnknownRole
	}
	if partyOf(actor, tx)&rule.actors == 0 {
		return rule, apperrors.Forbidden("not_allowed", "%s is not allowed to %s transaction %d", actor.Role, action, tx.ID)
	}
	if rule.from != nil && !containsStatus(rule.from, tx.Status) {
		return rule, apperrors.InvalidState("invalid_status",
			"transaction %d is %s; %s requires %s", tx.ID, tx.Status, action, joinStatuses(rule.from))
	}
	if rule.paymentFrom != nil && !containsPayment(rule.paymentFrom, tx.PaymentStatus) {
		return rule, apperrors.InvalidState("invalid_payment_status",
			"payment for transaction %d is %s; %s requires %s", tx.ID, tx.PaymentStatus, action, joinPayments(rule.paymentFrom))
	}
	return rule, nil
}

func containsStatus(set []models.TransactionStatus, s models.TransactionStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func containsPayment(set []models.PaymentStatus, s models.PaymentStatus) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func joinStatuses(set []models.TransactionStatus) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}

func joinPayments(set []models.PaymentStatus) string {
	parts := make([]string, len(set))
	for i, s := range set {
		parts[i] = string(s)
	}
	return strings.Join(parts, " or ")
}
