package service

import (
	"fmt"
	"os"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
	"github.com/stripe/stripe-go/v78/refund"
)

// StripeService handles the optional booking deposit. A nil *StripeService
// means payments are disabled and appointments are confirmed manually.
type StripeService struct{}

// NewStripeService sets the global Stripe key and returns nil when no key is
// configured.
func NewStripeService() *StripeService {
	key := os.Getenv("STRIPE_SECRET_KEY")
	if key == "" {
		return nil
	}
	stripe.Key = key
	return &StripeService{}
}

// CreateDepositSession opens a checkout session for the booking deposit and
// returns its URL and id.
func (s *StripeService) CreateDepositSession(amountCents int64, description, customerEmail string) (string, string, error) {
	successURL := os.Getenv("CHECKOUT_SUCCESS_URL")
	if successURL == "" {
		successURL = "http://localhost:3000/booking/confirmed?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := os.Getenv("CHECKOUT_CANCEL_URL")
	if cancelURL == "" {
		cancelURL = "http://localhost:3000/booking/failed?session_id={CHECKOUT_SESSION_ID}"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String("brl"),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Sinal: " + description),
					},
					UnitAmount: stripe.Int64(amountCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:    stripe.String(successURL),
		CancelURL:     stripe.String(cancelURL),
		CustomerEmail: stripe.String(customerEmail),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", "", err
	}
	return sess.URL, sess.ID, nil
}

// ExpireSession invalidates an open checkout session, closing its payment
// link.
func (s *StripeService) ExpireSession(sessionID string) error {
	_, err := session.Expire(sessionID, nil)
	return err
}

// RefundBySessionID refunds the payment behind a checkout session.
func (s *StripeService) RefundBySessionID(sessionID string) error {
	sess, err := session.Get(sessionID, nil)
	if err != nil {
		return err
	}
	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		return fmt.Errorf("no payment intent found for session %s", sessionID)
	}
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(sess.PaymentIntent.ID),
	}
	_, err = refund.New(params)
	return err
}

// SessionIDByPaymentIntentID resolves the checkout session behind a payment
// intent; charge.refunded events only carry the intent.
func (s *StripeService) SessionIDByPaymentIntentID(paymentIntentID string) (string, error) {
	params := &stripe.CheckoutSessionListParams{
		PaymentIntent: &paymentIntentID,
	}
	params.Limit = stripe.Int64(1)
	it := session.List(params)
	for it.Next() {
		sess := it.CheckoutSession()
		if sess != nil && sess.ID != "" {
			return sess.ID, nil
		}
	}
	return "", fmt.Errorf("no session found for payment intent %s", paymentIntentID)
}
