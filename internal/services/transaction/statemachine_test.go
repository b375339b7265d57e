package transaction

import (
	"testing"

	apperrors "lumbung/internal/errors"
	"lumbung/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestEnforce(t *testing.T) {
	producer := models.Identity{UserID: 1, Role: models.RoleProducer}
	recycler := models.Identity{UserID: 2, Role: models.RoleRecycler}
	stranger := models.Identity{UserID: 3, Role: models.RoleRecycler}

	txIn := func(status models.TransactionStatus, pay models.PaymentStatus) *models.Transaction {
		return &models.Transaction{
			ID:            9,
			RecyclerID:    recycler.UserID,
			Status:        status,
			PaymentStatus: pay,
			Waste:         &models.Waste{ID: 4, ProducerID: producer.UserID},
		}
	}

	tests := []struct {
		name   string
		action Action
		actor  models.Identity
		tx     *models.Transaction
		want   apperrors.Kind
		ok     bool
	}{
		{"claim by recycler", ActionClaimReceived, recycler, txIn("pending", "unpaid"), 0, true},
		{"claim by producer", ActionClaimReceived, producer, txIn("pending", "unpaid"), apperrors.KindForbidden, false},
		{"claim twice", ActionClaimReceived, recycler, txIn("waiting_confirmation", "unpaid"), apperrors.KindInvalidState, false},
		{"confirm by producer", ActionConfirmHandover, producer, txIn("waiting_confirmation", "unpaid"), 0, true},
		{"confirm while pending", ActionConfirmHandover, producer, txIn("pending", "unpaid"), apperrors.KindInvalidState, false},
		{"cancel by stranger", ActionCancel, stranger, txIn("pending", "unpaid"), apperrors.KindForbidden, false},
		{"cancel completed", ActionCancel, producer, txIn("completed", "verified"), apperrors.KindInvalidState, false},
		{"pay after rejection", ActionSubmitPayment, recycler, txIn("pending", "rejected"), 0, true},
		{"pay again before review", ActionSubmitPayment, recycler, txIn("pending", "pending_verification"), 0, true},
		{"pay after verification", ActionSubmitPayment, recycler, txIn("pending", "verified"), apperrors.KindInvalidState, false},
		{"pay while waiting", ActionSubmitPayment, recycler, txIn("waiting_confirmation", "unpaid"), apperrors.KindInvalidState, false},
		{"verify unpaid", ActionVerifyPayment, producer, txIn("pending", "unpaid"), apperrors.KindInvalidState, false},
		{"verify cancelled", ActionVerifyPayment, producer, txIn("cancelled", "pending_verification"), 0, true},
		{"verify completed", ActionVerifyPayment, producer, txIn("completed", "pending_verification"), 0, true},
		{"verify by recycler", ActionVerifyPayment, recycler, txIn("pending", "pending_verification"), apperrors.KindForbidden, false},
		{"unknown role", ActionCancel, models.Identity{UserID: 2, Role: "admin"}, txIn("pending", "unpaid"), apperrors.KindForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enforce(tt.action, tt.actor, tt.tx)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, apperrors.KindOf(err))
		})
	}
}

func TestEveryActionHasAnActor(t *testing.T) {
	for action, rule := range transitions {
		assert.NotZero(t, rule.actors, action)
		if rule.to != "" {
			assert.NotEmpty(t, rule.from, action)
		}
	}
}
