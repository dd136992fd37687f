package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"crowdfund/internal/domain"
)

// GatewayResult is what the charge attempt came back with. Status is one of
// APPROVED, PENDING or FAILED; real gateways resolve PENDING (boleto)
// asynchronously via the admin status update.
type GatewayResult struct {
	Status        domain.PaymentStatus
	TransactionID string
	Message       string
	MaskedCard    string
}

// Gateway charges a payment request. The simulated implementation is the
// default; a real acquirer adapter satisfies the same interface.
type Gateway interface {
	Charge(ctx context.Context, req ProcessPaymentRequest) (GatewayResult, error)
}

type SimulatedGateway struct{}

func NewSimulatedGateway() *SimulatedGateway { return &SimulatedGateway{} }

func (g *SimulatedGateway) Charge(_ context.Context, req ProcessPaymentRequest) (GatewayResult, error) {
	result := GatewayResult{TransactionID: uuid.NewString()}

	switch strings.ToUpper(req.PaymentMethod) {
	case domain.MethodCreditCard:
		digits := cardDigits(req.CardNumber)
		if len(digits) < 16 {
			result.Status = domain.PaymentFailed
			result.Message = "Invalid credit card"
			return result, nil
		}
		result.Status = domain.PaymentApproved
		result.Message = "Payment approved"
		result.MaskedCard = "**** **** **** " + digits[len(digits)-4:]

	case domain.MethodPix:
		result.Status = domain.PaymentApproved
		result.Message = "PIX payment approved"

	case domain.MethodBoleto:
		result.Status = domain.PaymentPending
		result.Message = "Boleto generated, waiting payment"

	default:
		result.Status = domain.PaymentFailed
		result.Message = "Unsupported payment method"
	}

	return result, nil
}

func cardDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
