package entities

type AppointmentEmailData struct {
	SalonName     string
	ClientName    string
	ServiceName   string
	DateFormatted string
	Time          string
	Status        string
	CurrentYear   int
}
