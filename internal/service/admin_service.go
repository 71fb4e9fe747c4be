package service

import (
	"errors"
	"fmt"
	"log"

	"agendabeleza/internal/cache"
	"agendabeleza/internal/catalog"
	"agendabeleza/internal/db"
	"agendabeleza/internal/entities"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// AdminService backs the protected admin surface: listing bookings and moving
// them through the pending/confirmed/cancelled table. No operation deletes a
// row.
type AdminService struct {
	Store   AppointmentStore
	Catalog *catalog.Catalog

	Stripe PaymentGateway
	Sender *SenderService
	Slots  *cache.SlotCache
}

func NewAdminService(store AppointmentStore, cat *catalog.Catalog, stripeSvc PaymentGateway, sender *SenderService, slots *cache.SlotCache) *AdminService {
	return &AdminService{
		Store:   store,
		Catalog: cat,
		Stripe:  stripeSvc,
		Sender:  sender,
		Slots:   slots,
	}
}

// ListAppointments filters by date and status in the store and by category in
// memory, since the catalog lives in-process rather than in a table.
func (s *AdminService) ListAppointments(date, status, category string) (*entities.AppointmentsList, error) {
	appointments, err := s.Store.List(date, status)
	if err != nil {
		return nil, err
	}

	list := &entities.AppointmentsList{Appointments: []entities.AppointmentItem{}}
	for _, a := range appointments {
		svc, ok := s.Catalog.ByID(a.ServiceID)
		if !ok {
			log.Printf("Data integrity: appointment %d references unknown service %q", a.ID, a.ServiceID)
		}
		if category != "" && string(svc.Category) != category {
			continue
		}
		list.Appointments = append(list.Appointments, entities.AppointmentItem{
			ID:          a.ID,
			ServiceID:   a.ServiceID,
			ServiceName: svc.Name,
			Category:    string(svc.Category),
			Date:        a.Date,
			Time:        a.Time,
			ClientName:  a.ClientName,
			ClientEmail: a.ClientEmail,
			ClientPhone: a.ClientPhone,
			Status:      a.Status,
			CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	list.Total = len(list.Appointments)
	return list, nil
}

// UpdateStatus applies one validated transition. Cancelling a paid booking
// also refunds the deposit when Stripe is configured.
func (s *AdminService) UpdateStatus(id int64, newStatus string) (*db.Appointment, error) {
	current, err := s.Store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !db.ValidTransition(current.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
	}

	if newStatus == db.StatusCancelled && current.PaymentStatus == db.PaymentPaid && s.Stripe != nil {
		if err := s.Stripe.RefundBySessionID(current.StripeSessionID); err != nil {
			return nil, fmt.Errorf("error refunding deposit for appointment %d: %w", id, err)
		}
		if err := s.Store.UpdateStatusAndPayment(id, newStatus, db.PaymentRefunded); err != nil {
			return nil, err
		}
		current.Status = newStatus
		current.PaymentStatus = db.PaymentRefunded
	} else {
		updated, err := s.Store.UpdateStatus(id, newStatus)
		if err != nil {
			return nil, err
		}
		current = updated
	}

	s.Slots.InvalidateDate(current.Date)
	if svc, ok := s.Catalog.ByID(current.ServiceID); ok && s.Sender != nil {
		s.Sender.SendAppointmentEmail(*current, svc, newStatus)
		s.Sender.SendAppointmentSMS(*current, svc, newStatus)
	}
	return current, nil
}
