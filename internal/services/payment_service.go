// internal/services/payment_service.go
package services

import (
	"github.com/stripe/stripe-go/v74"

	"github.com/mercato/mercato-backend/internal/config"
)

// PaymentService holds the Stripe configuration. Keys are wired from the
// environment and the publishable key is handed to the checkout view, but no
// charge is created server-side; payment capture happens outside this
// application.
type PaymentService struct {
	cfg *config.Config
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	stripe.Key = cfg.Payment.StripeSecretKey
	return &PaymentService{cfg: cfg}
}

// Enabled reports whether Stripe keys are configured.
func (s *PaymentService) Enabled() bool {
	return s.cfg.Payment.StripeSecretKey != "" && s.cfg.Payment.StripePublishableKey != ""
}

// PublishableKey is safe to expose to clients.
func (s *PaymentService) PublishableKey() string {
	return s.cfg.Payment.StripePublishableKey
}
