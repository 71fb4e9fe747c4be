package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"agendabeleza/internal/db"
	"agendabeleza/internal/entities"
	"agendabeleza/internal/errors"
	"agendabeleza/internal/repository"
	"agendabeleza/internal/service"

	"github.com/gorilla/mux"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.Services())
}

// GetSlots answers GET /api/slots?date=YYYY-MM-DD&service_id=N with the
// ordered free start times for that day.
func (h *BookingHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	serviceID := r.URL.Query().Get("service_id")
	if date == "" || serviceID == "" {
		errors.WriteJSON(w, http.StatusBadRequest, "date and service_id are required")
		return
	}

	slots, err := h.Service.AvailableSlots(date, serviceID)
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrInvalidDate):
			errors.WriteJSON(w, http.StatusUnprocessableEntity, err.Error())
		case stderrors.Is(err, service.ErrUnknownService):
			errors.WriteJSON(w, http.StatusNotFound, "service not found")
		default:
			errors.WriteJSON(w, http.StatusInternalServerError, "error computing availability")
		}
		return
	}
	if slots == nil {
		slots = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SlotsResponse{Date: date, ServiceID: serviceID, Slots: slots})
}

func (h *BookingHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appointment, checkoutURL, err := h.Service.Book(&entities.BookingRequest{
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
	})
	if err != nil {
		switch {
		case stderrors.Is(err, service.ErrSlotUnavailable), stderrors.Is(err, service.ErrSlotTaken):
			errors.WriteJSON(w, http.StatusConflict, err.Error())
		case stderrors.Is(err, service.ErrUnknownService):
			errors.WriteJSON(w, http.StatusNotFound, "service not found")
		case stderrors.Is(err, service.ErrInvalidDate),
			stderrors.Is(err, service.ErrInvalidTime),
			stderrors.Is(err, service.ErrDateInPast),
			stderrors.Is(err, service.ErrMissingClient):
			errors.WriteJSON(w, http.StatusUnprocessableEntity, err.Error())
		default:
			errors.WriteJSON(w, http.StatusInternalServerError, "could not create appointment")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateAppointmentResponse{
		Appointment: toAppointmentResponse(appointment),
		CheckoutURL: checkoutURL,
		Message:     "Appointment created.",
	})
}

func (h *BookingHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		errors.WriteJSON(w, http.StatusBadRequest, "invalid id")
		return
	}
	email := r.URL.Query().Get("email")
	if email == "" {
		errors.WriteJSON(w, http.StatusBadRequest, "email is required")
		return
	}

	appointment, err := h.Service.GetAppointment(id, email)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			errors.WriteJSON(w, http.StatusNotFound, "appointment not found")
			return
		}
		errors.WriteJSON(w, http.StatusInternalServerError, "error fetching appointment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAppointmentResponse(appointment))
}

func toAppointmentResponse(a *db.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:          a.ID,
		ServiceID:   a.ServiceID,
		Date:        a.Date,
		Time:        a.Time,
		ClientName:  a.ClientName,
		ClientEmail: a.ClientEmail,
		ClientPhone: a.ClientPhone,
		Status:      a.Status,
		CreatedAt:   a.CreatedAt.Format("2006-01-02 15:04"),
	}
}
