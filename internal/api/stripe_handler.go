package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"agendabeleza/internal/service"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/webhook"
)

type StripeWebhookHandler struct {
	WebhookSecret  string
	bookingService *service.BookingService
	stripeService  service.PaymentGateway
}

func NewStripeWebhookHandler(webhookSecret string, bookingService *service.BookingService, stripeService service.PaymentGateway) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		WebhookSecret:  webhookSecret,
		bookingService: bookingService,
		stripeService:  stripeService,
	}
}

// HandleWebhook processes the two Stripe events the booking flow cares about:
// a completed checkout confirms the appointment, a refunded charge cancels it.
func (h *StripeWebhookHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	const maxBodyBytes = int64(65536)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("Error reading webhook body: %v", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	sigHeader := r.Header.Get("Stripe-Signature")
	event, err := webhook.ConstructEvent(payload, sigHeader, h.WebhookSecret)
	if err != nil {
		log.Printf("Webhook signature verification failed: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			log.Printf("Error parsing checkout.session: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if sess.ID == "" {
			log.Printf("No session ID in checkout.session.completed")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if _, err := h.bookingService.ConfirmPayment(sess.ID); err != nil {
			log.Printf("Error confirming appointment for session %s: %v", sess.ID, err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

	case "charge.refunded":
		var charge stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
			log.Printf("Error parsing charge: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
			sessionID, err := h.stripeService.SessionIDByPaymentIntentID(charge.PaymentIntent.ID)
			if err != nil {
				log.Printf("No session found for payment intent %s: %v", charge.PaymentIntent.ID, err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			if err := h.bookingService.CancelRefunded(sessionID); err != nil {
				log.Printf("Error cancelling appointment for session %s: %v", sessionID, err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
		}

	default:
		log.Printf("Unhandled event type: %s", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
