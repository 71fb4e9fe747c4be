package service

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"agendabeleza/internal/catalog"
	"agendabeleza/internal/db"
	"agendabeleza/internal/entities"
)

// SenderService formats and dispatches client notifications. Email goes out
// asynchronously; a notification failure never fails the booking that
// triggered it.
type SenderService struct{}

func NewSenderService() *SenderService {
	return &SenderService{}
}

func salonName() string {
	if name := os.Getenv("SALON_NAME"); name != "" {
		return name
	}
	return "Andresa Alves Beauty"
}

func statusPT(status string) string {
	switch status {
	case db.StatusPending:
		return "pendente"
	case db.StatusConfirmed:
		return "confirmado"
	case db.StatusCancelled:
		return "cancelado"
	}
	return status
}

func formatDatePT(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("02/01/2006")
}

func (s *SenderService) SendAppointmentEmail(appointment db.Appointment, svc catalog.Service, status string) {
	emailData := entities.AppointmentEmailData{
		SalonName:     salonName(),
		ClientName:    appointment.ClientName,
		ServiceName:   svc.Name,
		DateFormatted: formatDatePT(appointment.Date),
		Time:          appointment.Time,
		Status:        statusPT(status),
		CurrentYear:   time.Now().Year(),
	}

	emailSubject := fmt.Sprintf("Seu agendamento na %s está %s", emailData.SalonName, emailData.Status)
	plainTextBody := fmt.Sprintf(
		"Olá %s,\n\nSeu agendamento na %s está %s.\n\n"+
			"Detalhes:\n"+
			"Serviço: %s\n"+
			"Data: %s\n"+
			"Horário: %s\n\n"+
			"Obrigada por escolher a %s.",
		emailData.ClientName, emailData.SalonName, emailData.Status,
		emailData.ServiceName, emailData.DateFormatted, emailData.Time,
		emailData.SalonName,
	)

	htmlBody := ""
	tmplPath := filepath.Join("internal", "templates", "appointment_email.html")
	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		log.Printf("Error parsing email template %s: %v", tmplPath, err)
	} else {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, emailData); err != nil {
			log.Printf("Error executing email template for appointment %d: %v", appointment.ID, err)
		} else {
			htmlBody = buf.String()
		}
	}

	go func(toEmail, toName, subject, plainBody, htmlContent string) {
		if err := SendEmailWithSendGrid(toEmail, toName, subject, plainBody, htmlContent); err != nil {
			log.Printf("Email for appointment %d failed: %v", appointment.ID, err)
		}
	}(appointment.ClientEmail, appointment.ClientName, emailSubject, plainTextBody, htmlBody)
}

func (s *SenderService) SendAppointmentSMS(appointment db.Appointment, svc catalog.Service, status string) {
	if appointment.ClientPhone == "" {
		return
	}
	message := fmt.Sprintf("%s: seu agendamento de %s em %s às %s está %s. Detalhes no seu email.",
		salonName(), svc.Name, formatDatePT(appointment.Date), appointment.Time, statusPT(status))

	if err := SendSMS(appointment.ClientPhone, message); err != nil {
		log.Printf("SMS for appointment %d failed: %v", appointment.ID, err)
	}
}

// SendReminder notifies a client the day before a confirmed appointment.
func (s *SenderService) SendReminder(appointment db.Appointment, svc catalog.Service) {
	message := fmt.Sprintf("%s: lembrete do seu agendamento de %s amanhã (%s) às %s. Até lá!",
		salonName(), svc.Name, formatDatePT(appointment.Date), appointment.Time)

	if appointment.ClientPhone != "" {
		if err := SendSMS(appointment.ClientPhone, message); err != nil {
			log.Printf("Reminder SMS for appointment %d failed: %v", appointment.ID, err)
		}
	}
	subject := fmt.Sprintf("Lembrete: seu agendamento na %s é amanhã", salonName())
	go func() {
		if err := SendEmailWithSendGrid(appointment.ClientEmail, appointment.ClientName, subject, message, ""); err != nil {
			log.Printf("Reminder email for appointment %d failed: %v", appointment.ID, err)
		}
	}()
}
