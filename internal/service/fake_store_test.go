package service

import (
	"sync"
	"time"

	"agendabeleza/internal/db"
	"agendabeleza/internal/repository"
)

// fakeStore is an in-memory AppointmentStore. It enforces the same slot
// uniqueness invariant the production partial index does, so race behavior
// can be exercised without a database.
type fakeStore struct {
	mu           sync.Mutex
	appointments []db.Appointment
	nextID       int64
	insertErr    error
}

func newFakeStore(seed ...db.Appointment) *fakeStore {
	s := &fakeStore{nextID: 1}
	for _, a := range seed {
		if a.ID == 0 {
			a.ID = s.nextID
		}
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
		s.appointments = append(s.appointments, a)
	}
	return s
}

func (s *fakeStore) ListByDate(date string) ([]db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Appointment
	for _, a := range s.appointments {
		if a.Date == date && a.Status != db.StatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) ListAt(date, timeOfDay string) ([]db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Appointment
	for _, a := range s.appointments {
		if a.Date == date && a.Time == timeOfDay && a.Status != db.StatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeStore) Insert(a *db.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return s.insertErr
	}
	for _, existing := range s.appointments {
		if existing.Date == a.Date && existing.Time == a.Time && existing.Status != db.StatusCancelled {
			return repository.ErrSlotConflict
		}
	}
	a.ID = s.nextID
	s.nextID++
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	s.appointments = append(s.appointments, *a)
	return nil
}

func (s *fakeStore) GetByID(id int64) (*db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) GetByIDAndEmail(id int64, email string) (*db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.ID == id && a.ClientEmail == email {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) GetByStripeSessionID(sessionID string) (*db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.appointments {
		if a.StripeSessionID == sessionID {
			out := a
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) UpdateStatus(id int64, status string) (*db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			s.appointments[i].UpdatedAt = time.Now()
			out := s.appointments[i]
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeStore) UpdateStatusAndPayment(id int64, status, paymentStatus string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.appointments {
		if s.appointments[i].ID == id {
			s.appointments[i].Status = status
			s.appointments[i].PaymentStatus = paymentStatus
			s.appointments[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeStore) List(date, status string) ([]db.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []db.Appointment
	for _, a := range s.appointments {
		if date != "" && a.Date != date {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
