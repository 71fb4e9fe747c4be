package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"agendabeleza/internal/errors"
	"agendabeleza/internal/repository"
	"agendabeleza/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	Service *service.AdminService
}

func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	status := r.URL.Query().Get("status")
	category := r.URL.Query().Get("category")

	list, err := h.Service.ListAppointments(date, status, category)
	if err != nil {
		errors.WriteJSON(w, http.StatusInternalServerError, "database error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// UpdateAppointmentStatus applies one status transition. Invalid transitions
// are a 409; the row itself is never removed.
func (h *AdminHandler) UpdateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		errors.WriteJSON(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	appointment, err := h.Service.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case stderrors.Is(err, repository.ErrNotFound):
			errors.WriteJSON(w, http.StatusNotFound, "appointment not found")
		case stderrors.Is(err, service.ErrInvalidTransition):
			errors.WriteJSON(w, http.StatusConflict, err.Error())
		default:
			errors.WriteJSON(w, http.StatusInternalServerError, "could not update appointment")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toAppointmentResponse(appointment))
}
