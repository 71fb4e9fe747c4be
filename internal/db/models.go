package db

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

type Appointment struct {
	ID              int64
	ServiceID       string
	Date            string // YYYY-MM-DD
	Time            string // HH:MM
	ClientName      string
	ClientEmail     string
	ClientPhone     string
	Status          string
	StripeSessionID string
	PaymentStatus   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidTransition reports whether an appointment may move from one status to
// another. Cancelled is terminal; rows are never deleted, only cancelled.
func ValidTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	}
	return false
}
