// Package scheduling abstracts appointment storage and availability
// behind a single Backend interface so the conversation flow never
// depends on a concrete calendar provider.
//
// Every operation fails closed: internal or transport errors surface
// as false / empty results, never as errors crossing the flow
// boundary. Callers treat "false" as "slot unavailable" or
// "appointment not found" and route to the matching recovery node.
package scheduling

import (
	"context"
	"time"
)

// Status of an appointment. Cancellation flips the status, it never
// deletes the record (except on calendar providers that only support
// event deletion).
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Appointment is the record shape shared by every backend.
// Date is YYYY-MM-DD, Time is 24-hour HH:MM.
type Appointment struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	Phone       string    `json:"phone"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Service     string    `json:"service"`
	Doctor      string    `json:"doctor"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewAppointment carries the fields needed to book.
// Doctor may be empty; backends fall back to their configured default.
type NewAppointment struct {
	PatientName     string
	Phone           string
	Date            string
	Time            string
	Service         string
	Doctor          string
	DurationMinutes int
}

// Update carries a partial reschedule. Empty fields stay unchanged;
// the appointment's duration is always preserved.
type Update struct {
	Date string
	Time string
}

// Backend is the appointment system contract.
//
// CheckAvailability with an empty doctor means the whole clinic must
// be free: it returns true only when every configured doctor is free
// for [startTime, startTime+duration) on that date.
type Backend interface {
	CheckAvailability(ctx context.Context, date, startTime string, durationMinutes int, doctor string) bool

	// AvailableSlots probes the hourly business-day catalog through
	// CheckAvailability and returns the free slots ascending by time.
	// Results reflect the busy state at call time and are recomputed
	// on every call.
	AvailableSlots(ctx context.Context, date, doctor string) []string

	// CreateAppointment books and returns the backend-assigned id.
	// ok is false when the target doctor has no backing store or the
	// backend failed.
	CreateAppointment(ctx context.Context, appt NewAppointment) (id string, ok bool)

	// CancelAppointment searches every doctor store for the id and
	// cancels the first match. Returns false when the id is unknown
	// everywhere, including when it was already cancelled.
	CancelAppointment(ctx context.Context, id string) bool

	// UpdateAppointment locates the appointment across doctor stores,
	// then applies the update preserving the original duration.
	UpdateAppointment(ctx context.Context, id string, upd Update) bool

	// FindAppointment matches the patient name case-insensitively
	// among scheduled appointments. A non-empty phone must also match
	// exactly.
	FindAppointment(ctx context.Context, patientName, phone string) (*Appointment, bool)
}
