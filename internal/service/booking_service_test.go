package service

import (
	"sync"
	"testing"
	"time"

	"agendabeleza/internal/catalog"
	"agendabeleza/internal/db"
	"agendabeleza/internal/entities"
	"agendabeleza/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func newTestBookingService(store AppointmentStore) *BookingService {
	// No Stripe, notifications or cache: the committer must work without any
	// optional collaborator.
	return NewBookingService(store, catalog.Default(), schedule.DefaultHours(), nil, nil, nil)
}

func bookingRequest(serviceID, date, timeOfDay string) *entities.BookingRequest {
	return &entities.BookingRequest{
		ServiceID:   serviceID,
		Date:        date,
		Time:        timeOfDay,
		ClientName:  "Maria Silva",
		ClientEmail: "maria@example.com",
		ClientPhone: "+5511999990000",
	}
}

func TestBookCreatesPendingAppointment(t *testing.T) {
	store := newFakeStore()
	svc := newTestBookingService(store)

	appointment, checkoutURL, err := svc.Book(bookingRequest("4", futureDate(), "10:00"))
	require.NoError(t, err)
	assert.Empty(t, checkoutURL)

	assert.Equal(t, db.StatusPending, appointment.Status)
	assert.Equal(t, "4", appointment.ServiceID)
	assert.Equal(t, "10:00", appointment.Time)
	assert.NotZero(t, appointment.ID)
	assert.False(t, appointment.CreatedAt.IsZero())

	stored, err := store.GetByID(appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, db.StatusPending, stored.Status)
}

func TestBookRejectsOccupiedSlot(t *testing.T) {
	date := futureDate()
	store := newFakeStore(db.Appointment{
		ServiceID: "3", Date: date, Time: "10:00", Status: db.StatusConfirmed,
	})
	svc := newTestBookingService(store)

	// Service 3 runs 60 minutes: [10:00, 11:00) blocks 09:30 for a 60 minute
	// request and 10:30 for a 30 minute one.
	_, _, err := svc.Book(bookingRequest("3", date, "10:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, _, err = svc.Book(bookingRequest("4", date, "10:30"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// Touching slot is free.
	_, _, err = svc.Book(bookingRequest("4", date, "11:00"))
	assert.NoError(t, err)
}

func TestBookRejectsOutsideBusinessHours(t *testing.T) {
	svc := newTestBookingService(newFakeStore())

	_, _, err := svc.Book(bookingRequest("4", futureDate(), "08:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// 17:45 is not on the 30 minute grid.
	_, _, err = svc.Book(bookingRequest("4", futureDate(), "17:45"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// A 4 hour service cannot start at 17:00.
	_, _, err = svc.Book(bookingRequest("1", futureDate(), "17:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookValidation(t *testing.T) {
	svc := newTestBookingService(newFakeStore())

	_, _, err := svc.Book(bookingRequest("999", futureDate(), "10:00"))
	assert.ErrorIs(t, err, ErrUnknownService)

	_, _, err = svc.Book(bookingRequest("4", "15/09/2026", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, _, err = svc.Book(bookingRequest("4", futureDate(), "10am"))
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, _, err = svc.Book(bookingRequest("4", "2020-01-01", "10:00"))
	assert.ErrorIs(t, err, ErrDateInPast)

	req := bookingRequest("4", futureDate(), "10:00")
	req.ClientName = ""
	_, _, err = svc.Book(req)
	assert.ErrorIs(t, err, ErrMissingClient)
}

// gatedStore holds every caller at the narrow re-check until all expected
// callers have passed it, so concurrent bookings race on the insert itself.
type gatedStore struct {
	*fakeStore
	gate *sync.WaitGroup
}

func (s *gatedStore) ListAt(date, timeOfDay string) ([]db.Appointment, error) {
	out, err := s.fakeStore.ListAt(date, timeOfDay)
	s.gate.Done()
	s.gate.Wait()
	return out, err
}

func TestBookRaceOnlyOneWins(t *testing.T) {
	date := futureDate()
	gate := &sync.WaitGroup{}
	gate.Add(2)
	store := &gatedStore{fakeStore: newFakeStore(), gate: gate}
	svc := newTestBookingService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = svc.Book(bookingRequest("4", date, "14:00"))
		}(i)
	}
	wg.Wait()

	// Both callers saw the slot free at the re-check, so the loser can only
	// be stopped by the store's uniqueness constraint.
	var successes, taken int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case assert.ErrorIs(t, err, ErrSlotTaken):
			taken++
		}
	}
	assert.Equal(t, 1, successes, "exactly one booking must win the slot")
	assert.Equal(t, 1, taken)

	rows, err := store.ListByDate(date)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBookSerializedLoserIsRejected(t *testing.T) {
	date := futureDate()
	store := newFakeStore()
	svc := newTestBookingService(store)

	_, _, err := svc.Book(bookingRequest("4", date, "14:00"))
	require.NoError(t, err)

	// When the first booking is already visible, the duplicate is turned away
	// before it ever reaches the store.
	_, _, err = svc.Book(bookingRequest("4", date, "14:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	rows, err := store.ListByDate(date)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestBookNarrowRecheckCatchesLateInsert(t *testing.T) {
	date := futureDate()
	store := newFakeStore(db.Appointment{
		ServiceID: "4", Date: date, Time: "14:00", Status: db.StatusPending,
	})
	svc := newTestBookingService(store)

	// The slot itself reads occupied at phase one already.
	_, _, err := svc.Book(bookingRequest("4", date, "14:00"))
	assert.Error(t, err)

	// A cancelled row at the slot does not block it.
	cancelled := newFakeStore(db.Appointment{
		ServiceID: "4", Date: date, Time: "14:00", Status: db.StatusCancelled,
	})
	_, _, err = newTestBookingService(cancelled).Book(bookingRequest("4", date, "14:00"))
	assert.NoError(t, err)
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	svc := newTestBookingService(newFakeStore())

	// Service 3 runs 60 minutes.
	slots, err := svc.AvailableSlots(futureDate(), "3")
	require.NoError(t, err)
	require.NotEmpty(t, slots)
	assert.Equal(t, "09:00", slots[0])
	assert.Equal(t, "17:00", slots[len(slots)-1])
	assert.Len(t, slots, 17)
}

func TestAvailableSlotsValidation(t *testing.T) {
	svc := newTestBookingService(newFakeStore())

	_, err := svc.AvailableSlots("not-a-date", "3")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.AvailableSlots(futureDate(), "999")
	assert.ErrorIs(t, err, ErrUnknownService)
}

func TestUnknownServiceOnExistingBlocksDay(t *testing.T) {
	date := futureDate()
	store := newFakeStore(db.Appointment{
		ServiceID: "ghost", Date: date, Time: "10:00", Status: db.StatusConfirmed,
	})
	svc := newTestBookingService(store)

	slots, err := svc.AvailableSlots(date, "4")
	require.NoError(t, err)
	assert.Empty(t, slots, "an unverifiable appointment blocks its whole date")

	_, _, err = svc.Book(bookingRequest("4", date, "14:00"))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestBookAllowsToday(t *testing.T) {
	svc := newTestBookingService(newFakeStore())
	today := time.Now().Format("2006-01-02")

	_, _, err := svc.Book(bookingRequest("4", today, "10:00"))
	assert.NoError(t, err)
}
