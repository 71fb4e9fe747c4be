package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"agendabeleza/internal/db"

	"github.com/lib/pq"
)

type AppointmentRepository struct {
	DB *sql.DB
}

func NewAppointmentRepository(database *sql.DB) *AppointmentRepository {
	return &AppointmentRepository{DB: database}
}

const appointmentColumns = `id, service_id, date, time, client_name, client_email, client_phone, status, stripe_session_id, payment_status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...interface{}) error }, a *db.Appointment) error {
	return row.Scan(
		&a.ID, &a.ServiceID, &a.Date, &a.Time,
		&a.ClientName, &a.ClientEmail, &a.ClientPhone,
		&a.Status, &a.StripeSessionID, &a.PaymentStatus,
		&a.CreatedAt, &a.UpdatedAt,
	)
}

// ListByDate returns the snapshot the availability computation runs against:
// every non-cancelled appointment on the given date.
func (r *AppointmentRepository) ListByDate(date string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date = $1 AND status <> $2
		ORDER BY time`
	rows, err := r.DB.Query(query, date, db.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments for %s: %w", date, err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointments: %w", err)
	}
	return appointments, nil
}

// ListAt is the narrow re-check: non-cancelled rows at exactly (date, time),
// fetched immediately before the insert.
func (r *AppointmentRepository) ListAt(date, timeOfDay string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date = $1 AND time = $2 AND status <> $3`
	rows, err := r.DB.Query(query, date, timeOfDay, db.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("error querying appointments at %s %s: %w", date, timeOfDay, err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointments: %w", err)
	}
	return appointments, nil
}

// Insert creates the row and fills in the generated id and timestamps. A
// unique-index violation on the slot maps to ErrSlotConflict so callers can
// treat it as "another client won the race" rather than a store failure.
func (r *AppointmentRepository) Insert(a *db.Appointment) error {
	query := `
		INSERT INTO appointments
		(service_id, date, time, client_name, client_email, client_phone, status, stripe_session_id, payment_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.DB.QueryRow(query,
		a.ServiceID, a.Date, a.Time,
		a.ClientName, a.ClientEmail, a.ClientPhone,
		a.Status, a.StripeSessionID, a.PaymentStatus,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrSlotConflict
		}
		return fmt.Errorf("error inserting appointment: %w", err)
	}
	return nil
}

func (r *AppointmentRepository) GetByID(id int64) (*db.Appointment, error) {
	var a db.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	if err := scanAppointment(r.DB.QueryRow(query, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	return &a, nil
}

// GetByIDAndEmail lets clients look up their own booking without any session.
func (r *AppointmentRepository) GetByIDAndEmail(id int64, email string) (*db.Appointment, error) {
	var a db.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1 AND client_email = $2`
	if err := scanAppointment(r.DB.QueryRow(query, id, email), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying appointment %d: %w", id, err)
	}
	return &a, nil
}

func (r *AppointmentRepository) GetByStripeSessionID(sessionID string) (*db.Appointment, error) {
	var a db.Appointment
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE stripe_session_id = $1`
	if err := scanAppointment(r.DB.QueryRow(query, sessionID), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error querying appointment for session %s: %w", sessionID, err)
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatus(id int64, status string) (*db.Appointment, error) {
	var a db.Appointment
	query := `UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2
		RETURNING ` + appointmentColumns
	if err := scanAppointment(r.DB.QueryRow(query, status, id), &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating appointment %d status: %w", id, err)
	}
	return &a, nil
}

func (r *AppointmentRepository) UpdateStatusAndPayment(id int64, status, paymentStatus string) error {
	query := `UPDATE appointments SET status = $1, payment_status = $2, updated_at = now() WHERE id = $3`
	if _, err := r.DB.Exec(query, status, paymentStatus, id); err != nil {
		return fmt.Errorf("error updating appointment %d status/payment: %w", id, err)
	}
	return nil
}

// List is the admin listing with optional date and status filters.
func (r *AppointmentRepository) List(date, status string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	idx := 1

	if date != "" {
		query += " AND date = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY date DESC, time"

	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	defer rows.Close()

	var appointments []db.Appointment
	for rows.Next() {
		var a db.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, fmt.Errorf("error scanning appointment: %w", err)
		}
		appointments = append(appointments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating appointments: %w", err)
	}
	return appointments, nil
}
