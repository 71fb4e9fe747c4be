package api

// Slots
type SlotsResponse struct {
	Date      string   `json:"date"`
	ServiceID string   `json:"service_id"`
	Slots     []string `json:"slots"`
}

// Appointments
type CreateAppointmentRequest struct {
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
}

type AppointmentResponse struct {
	ID          int64  `json:"id"`
	ServiceID   string `json:"service_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type CreateAppointmentResponse struct {
	Appointment AppointmentResponse `json:"appointment"`
	CheckoutURL string              `json:"checkout_url,omitempty"`
	Message     string              `json:"message"`
}

// Admin
type UpdateStatusRequest struct {
	Status string `json:"status"`
}
