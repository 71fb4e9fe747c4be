// Package schedule computes free appointment slots for a calendar day. It is
// pure: no I/O, no hidden state, deterministic for identical inputs.
package schedule

import (
	"fmt"
	"os"

	"agendabeleza/internal/catalog"
	"agendabeleza/internal/db"
)

// Hours is the business-hours window, identical for every day. The window is
// half-open: a slot may start at Open but every booking must finish at or
// before Close.
type Hours struct {
	Open        TimeOfDay
	Close       TimeOfDay
	SlotMinutes int
}

func DefaultHours() Hours {
	return Hours{Open: 9 * 60, Close: 18 * 60, SlotMinutes: 30}
}

// HoursFromEnv reads BUSINESS_OPEN, BUSINESS_CLOSE and SLOT_MINUTES,
// falling back to the defaults when unset or malformed.
func HoursFromEnv() Hours {
	h := DefaultHours()
	if v := os.Getenv("BUSINESS_OPEN"); v != "" {
		if t, err := ParseTimeOfDay(v); err == nil {
			h.Open = t
		}
	}
	if v := os.Getenv("BUSINESS_CLOSE"); v != "" {
		if t, err := ParseTimeOfDay(v); err == nil {
			h.Close = t
		}
	}
	if v := os.Getenv("SLOT_MINUTES"); v != "" {
		var m int
		if _, err := fmt.Sscanf(v, "%d", &m); err == nil && m > 0 {
			h.SlotMinutes = m
		}
	}
	return h
}

// IntegrityWarning reports an existing appointment whose service id is not in
// the catalog. Its occupied interval cannot be computed, so the whole day is
// treated as booked rather than silently under-blocking.
type IntegrityWarning struct {
	AppointmentID int64
	ServiceID     string
	Reason        string
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("appointment %d: %s (service_id=%q)", w.AppointmentID, w.Reason, w.ServiceID)
}

type interval struct {
	start TimeOfDay
	end   TimeOfDay
}

// overlaps is the half-open interval intersection test. Touching intervals
// (one ends exactly when the other starts) do not overlap.
func (a interval) overlaps(b interval) bool {
	return a.start < b.end && b.start < a.end
}

// FreeSlots returns the ordered start times at which svc could be booked on a
// day already holding the given non-cancelled appointments. Cancelled rows
// must be filtered out by the caller; cat resolves each existing appointment's
// occupied duration.
//
// Any appointment referencing an unknown service, or carrying an unparseable
// start time, yields an IntegrityWarning and an empty result: a slot grid we
// cannot verify is never offered.
func FreeSlots(h Hours, svc catalog.Service, existing []db.Appointment, cat *catalog.Catalog) ([]TimeOfDay, []IntegrityWarning) {
	var warnings []IntegrityWarning
	occupied := make([]interval, 0, len(existing))
	for _, appt := range existing {
		apptSvc, ok := cat.ByID(appt.ServiceID)
		if !ok {
			warnings = append(warnings, IntegrityWarning{
				AppointmentID: appt.ID,
				ServiceID:     appt.ServiceID,
				Reason:        "references unknown service",
			})
			continue
		}
		start, err := ParseTimeOfDay(appt.Time)
		if err != nil {
			warnings = append(warnings, IntegrityWarning{
				AppointmentID: appt.ID,
				ServiceID:     appt.ServiceID,
				Reason:        fmt.Sprintf("unparseable start time %q", appt.Time),
			})
			continue
		}
		occupied = append(occupied, interval{start: start, end: start.Add(apptSvc.DurationMinutes)})
	}
	if len(warnings) > 0 {
		return nil, warnings
	}

	if h.SlotMinutes <= 0 {
		return nil, warnings
	}
	var free []TimeOfDay
	for t := h.Open; t < h.Close; t = t.Add(h.SlotMinutes) {
		candidate := interval{start: t, end: t.Add(svc.DurationMinutes)}
		if candidate.end > h.Close {
			continue
		}
		conflict := false
		for _, occ := range occupied {
			if candidate.overlaps(occ) {
				conflict = true
				break
			}
		}
		if !conflict {
			free = append(free, t)
		}
	}
	return free, nil
}

// FormatSlots renders slots as HH:MM strings, the wire format of GET /api/slots.
func FormatSlots(slots []TimeOfDay) []string {
	out := make([]string, len(slots))
	for i, t := range slots {
		out[i] = t.String()
	}
	return out
}
