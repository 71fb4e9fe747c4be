package entities

// AppointmentItem is the admin-facing view of a booked appointment, with the
// service resolved from the catalog.
type AppointmentItem struct {
	ID          int64  `json:"id"`
	ServiceID   string `json:"service_id"`
	ServiceName string `json:"service_name"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientEmail string `json:"client_email"`
	ClientPhone string `json:"client_phone"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

type AppointmentsList struct {
	Total        int               `json:"total"`
	Appointments []AppointmentItem `json:"appointments"`
}
