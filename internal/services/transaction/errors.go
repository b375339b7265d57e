package transaction

import (
	apperrors "lumbung/internal/errors"
)

// Service errors
var (
	ErrRecyclerOnly        = apperrors.Forbidden("recycler_only", "only recyclers can book waste")
	ErrNotParty            = apperrors.Forbidden("not_party", "you are not a party to this transaction")
	ErrUnknownRole         = apperrors.Forbidden("unknown_role", "unknown role")
	ErrProofRequired       = apperrors.Validation("payment_proof_required", "payment_proof_url is required for this payment method")
	ErrInvalidVerifyAction = apperrors.Validation("invalid_action", "action must be approve or reject")
)
