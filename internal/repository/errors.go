// Package repository owns all SQL against the appointments store. Sentinel
// errors let the service layer distinguish failure modes without inspecting
// driver errors itself.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrSlotConflict is returned when an insert hits the partial unique index on
// (date, time) over non-cancelled rows, i.e. another client won the slot.
var ErrSlotConflict = errors.New("slot already booked")
