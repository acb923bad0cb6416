package settlement

import (
	"auction-engine/utils"
)

// DevGateway is a development stand-in for the real payment collaborator.
// It approves every charge and logs it. Production wiring replaces this with
// the gateway client.
type DevGateway struct{}

// AttemptPayment implements PaymentGateway.
func (DevGateway) AttemptPayment(userID string, amount float64, useEscrow bool) error {
	utils.Info("dev gateway: payment approved", map[string]any{
		"user_id": userID,
		"amount":  amount,
		"escrow":  useEscrow,
	})
	return nil
}
