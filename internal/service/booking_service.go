package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"agendabeleza/internal/cache"
	"agendabeleza/internal/catalog"
	"agendabeleza/internal/db"
	"agendabeleza/internal/entities"
	"agendabeleza/internal/repository"
	"agendabeleza/internal/schedule"
)

// Booking rejections. Handlers map these to HTTP statuses; everything else
// coming out of Book is a persistence failure with the cause wrapped.
var (
	ErrUnknownService  = errors.New("unknown service")
	ErrInvalidDate     = errors.New("invalid date")
	ErrDateInPast      = errors.New("date is in the past")
	ErrInvalidTime     = errors.New("invalid time")
	ErrSlotUnavailable = errors.New("slot not available")
	ErrSlotTaken       = errors.New("slot was just taken")
	ErrMissingClient   = errors.New("client name and email are required")
)

// AppointmentStore is the persistence collaborator the booking flow consumes.
// *repository.AppointmentRepository is the production implementation.
type AppointmentStore interface {
	ListByDate(date string) ([]db.Appointment, error)
	ListAt(date, timeOfDay string) ([]db.Appointment, error)
	Insert(a *db.Appointment) error
	GetByID(id int64) (*db.Appointment, error)
	GetByIDAndEmail(id int64, email string) (*db.Appointment, error)
	GetByStripeSessionID(sessionID string) (*db.Appointment, error)
	UpdateStatus(id int64, status string) (*db.Appointment, error)
	UpdateStatusAndPayment(id int64, status, paymentStatus string) error
	List(date, status string) ([]db.Appointment, error)
}

// PaymentGateway is the deposit collaborator. *StripeService is the
// production implementation; a nil gateway means deposits are disabled.
type PaymentGateway interface {
	CreateDepositSession(amountCents int64, description, customerEmail string) (url, sessionID string, err error)
	ExpireSession(sessionID string) error
	RefundBySessionID(sessionID string) error
	SessionIDByPaymentIntentID(paymentIntentID string) (string, error)
}

type BookingService struct {
	Store   AppointmentStore
	Catalog *catalog.Catalog
	Hours   schedule.Hours

	// Optional collaborators; each may be nil.
	Stripe PaymentGateway
	Sender *SenderService
	Slots  *cache.SlotCache
}

func NewBookingService(store AppointmentStore, cat *catalog.Catalog, hours schedule.Hours, stripeSvc PaymentGateway, sender *SenderService, slots *cache.SlotCache) *BookingService {
	return &BookingService{
		Store:   store,
		Catalog: cat,
		Hours:   hours,
		Stripe:  stripeSvc,
		Sender:  sender,
		Slots:   slots,
	}
}

func (s *BookingService) Services() []catalog.Service {
	return s.Catalog.List()
}

// AvailableSlots computes the free start times for a service on a date. The
// result is served from cache when possible; integrity warnings are logged,
// never swallowed, and a day carrying one is reported as fully booked.
func (s *BookingService) AvailableSlots(date, serviceID string) ([]string, error) {
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	svc, ok := s.Catalog.ByID(serviceID)
	if !ok {
		return nil, ErrUnknownService
	}

	if cached, ok := s.Slots.Get(date, serviceID); ok {
		return cached, nil
	}

	existing, err := s.Store.ListByDate(date)
	if err != nil {
		return nil, fmt.Errorf("error fetching appointments for %s: %w", date, err)
	}
	free, warnings := schedule.FreeSlots(s.Hours, svc, existing, s.Catalog)
	logWarnings(date, warnings)

	slots := schedule.FormatSlots(free)
	s.Slots.Set(date, serviceID, slots)
	return slots, nil
}

// Book attempts to reserve a slot. Two-phase: the day's snapshot feeds the
// same free-slot computation the UI saw, then a narrow re-check at exactly
// (date, time) runs right before the insert. Neither check is a lock; the
// partial unique index behind Store.Insert is the real arbiter, so a conflict
// on insert also surfaces as ErrSlotTaken.
func (s *BookingService) Book(req *entities.BookingRequest) (*db.Appointment, string, error) {
	svc, ok := s.Catalog.ByID(req.ServiceID)
	if !ok {
		return nil, "", ErrUnknownService
	}
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	requested, err := schedule.ParseTimeOfDay(req.Time)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidTime, err)
	}
	if req.Date < time.Now().Format("2006-01-02") {
		return nil, "", ErrDateInPast
	}
	if req.ClientName == "" || req.ClientEmail == "" {
		return nil, "", ErrMissingClient
	}

	existing, err := s.Store.ListByDate(req.Date)
	if err != nil {
		return nil, "", fmt.Errorf("error fetching appointments for %s: %w", req.Date, err)
	}
	free, warnings := schedule.FreeSlots(s.Hours, svc, existing, s.Catalog)
	logWarnings(req.Date, warnings)
	if !containsSlot(free, requested) {
		return nil, "", ErrSlotUnavailable
	}

	// Narrow re-check, as close to the write as we can get.
	conflicting, err := s.Store.ListAt(req.Date, requested.String())
	if err != nil {
		return nil, "", fmt.Errorf("error re-checking slot %s %s: %w", req.Date, req.Time, err)
	}
	if len(conflicting) > 0 {
		return nil, "", ErrSlotTaken
	}

	appointment := &db.Appointment{
		ServiceID:   svc.ID,
		Date:        req.Date,
		Time:        requested.String(),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		Status:      db.StatusPending,
	}

	checkoutURL := ""
	if s.Stripe != nil {
		url, sessionID, err := s.Stripe.CreateDepositSession(depositCents(svc.Price), svc.Name, req.ClientEmail)
		if err != nil {
			return nil, "", fmt.Errorf("error creating checkout session: %w", err)
		}
		checkoutURL = url
		appointment.StripeSessionID = sessionID
		appointment.PaymentStatus = db.PaymentPending
	}

	if err := s.Store.Insert(appointment); err != nil {
		// The checkout session was opened for a booking that never happened;
		// expire it so the client is not left holding a payable link.
		if appointment.StripeSessionID != "" {
			if expireErr := s.Stripe.ExpireSession(appointment.StripeSessionID); expireErr != nil {
				log.Printf("Error expiring checkout session %s after failed insert: %v", appointment.StripeSessionID, expireErr)
			}
		}
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, "", ErrSlotTaken
		}
		return nil, "", fmt.Errorf("error creating appointment: %w", err)
	}

	s.Slots.InvalidateDate(req.Date)
	if s.Sender != nil {
		s.Sender.SendAppointmentEmail(*appointment, svc, db.StatusPending)
		s.Sender.SendAppointmentSMS(*appointment, svc, db.StatusPending)
	}
	return appointment, checkoutURL, nil
}

// GetAppointment returns a client's own booking, keyed by id plus email so no
// session is needed.
func (s *BookingService) GetAppointment(id int64, email string) (*db.Appointment, error) {
	return s.Store.GetByIDAndEmail(id, email)
}

// ConfirmPayment handles checkout.session.completed: the deposit arrived, so
// the pending appointment becomes confirmed.
func (s *BookingService) ConfirmPayment(sessionID string) (*db.Appointment, error) {
	appointment, err := s.Store.GetByStripeSessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if !db.ValidTransition(appointment.Status, db.StatusConfirmed) {
		return appointment, nil // already confirmed or cancelled; webhooks may repeat
	}
	if err := s.Store.UpdateStatusAndPayment(appointment.ID, db.StatusConfirmed, db.PaymentPaid); err != nil {
		return nil, err
	}
	appointment.Status = db.StatusConfirmed
	appointment.PaymentStatus = db.PaymentPaid
	if svc, ok := s.Catalog.ByID(appointment.ServiceID); ok && s.Sender != nil {
		s.Sender.SendAppointmentEmail(*appointment, svc, db.StatusConfirmed)
		s.Sender.SendAppointmentSMS(*appointment, svc, db.StatusConfirmed)
	}
	return appointment, nil
}

// CancelRefunded handles charge.refunded: the deposit went back, the slot
// opens up again.
func (s *BookingService) CancelRefunded(sessionID string) error {
	appointment, err := s.Store.GetByStripeSessionID(sessionID)
	if err != nil {
		return err
	}
	if appointment.Status == db.StatusCancelled {
		return nil
	}
	if err := s.Store.UpdateStatusAndPayment(appointment.ID, db.StatusCancelled, db.PaymentRefunded); err != nil {
		return err
	}
	s.Slots.InvalidateDate(appointment.Date)
	if svc, ok := s.Catalog.ByID(appointment.ServiceID); ok && s.Sender != nil {
		s.Sender.SendAppointmentEmail(*appointment, svc, db.StatusCancelled)
		s.Sender.SendAppointmentSMS(*appointment, svc, db.StatusCancelled)
	}
	return nil
}

func containsSlot(slots []schedule.TimeOfDay, t schedule.TimeOfDay) bool {
	for _, s := range slots {
		if s == t {
			return true
		}
	}
	return false
}

// Deposit is 30% of the service price, in cents.
func depositCents(price int) int64 {
	return int64(float64(price) * 0.3 * 100)
}

func logWarnings(date string, warnings []schedule.IntegrityWarning) {
	for _, w := range warnings {
		log.Printf("Data integrity on %s: %s; treating the day as fully booked", date, w)
	}
}
