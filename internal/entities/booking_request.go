package entities

// BookingRequest carries everything the committer needs to attempt a booking.
type BookingRequest struct {
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Time        string `json:"time"` // HH:MM
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
}
