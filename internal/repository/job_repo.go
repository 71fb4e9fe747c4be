package repository

import (
	"database/sql"
	"fmt"
	"time"

	"agendabeleza/internal/db"

	"github.com/lib/pq"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// ListPendingOlderThan returns pending appointments created before the cutoff.
// The cron job cancels these; unattended pendings would otherwise hold their
// slot forever.
func (r *JobRepository) ListPendingOlderThan(cutoff time.Time) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments WHERE status = $1 AND created_at < $2`
	rows, err := r.DB.Query(query, db.StatusPending, cutoff)
	if err != nil {
		return nil, fmt.Errorf("error querying stale pending appointments: %w", err)
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

// CancelByIDs moves the given appointments to cancelled in one statement.
func (r *JobRepository) CancelByIDs(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE appointments SET status = $1, updated_at = now() WHERE id = ANY($2)`
	if _, err := r.DB.Exec(query, db.StatusCancelled, pq.Array(ids)); err != nil {
		return fmt.Errorf("error cancelling appointments: %w", err)
	}
	return nil
}

// ListConfirmedOn returns the confirmed appointments for a date, used by the
// day-before reminder job.
func (r *JobRepository) ListConfirmedOn(date string) ([]db.Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments WHERE date = $1 AND status = $2 ORDER BY time`
	rows, err := r.DB.Query(query, date, db.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("error querying confirmed appointments for %s: %w", date, err)
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
