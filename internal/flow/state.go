package flow

import (
	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
)

// Patient identifies the caller once collected.
type Patient struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Selection accumulates the booking under construction. Fields fill
// in as the conversation progresses and stay put when the caller
// detours through info nodes.
type Selection struct {
	Service string `json:"service,omitempty"`
	Doctor  string `json:"doctor,omitempty"`
	Date    string `json:"date,omitempty"`
	Time    string `json:"time,omitempty"`
}

// State is the per-session conversation memory. It is only mutated by
// the owning Engine, which serializes handler invocations.
type State struct {
	Patient   Patient              `json:"patient"`
	Selection Selection            `json:"selection"`
	Symptom   *clinic.SymptomMatch `json:"symptom,omitempty"`
	// Found holds the appointment located for cancel/reschedule.
	Found *scheduling.Appointment `json:"found_appointment,omitempty"`
	// AppointmentID is the id of the appointment last booked or found.
	AppointmentID  string   `json:"appointment_id,omitempty"`
	AvailableSlots []string `json:"available_slots,omitempty"`
}

// Reset clears everything collected so far.
func (s *State) Reset() {
	*s = State{}
}

func (s *State) clone() *State {
	copied := *s
	if s.Symptom != nil {
		symptom := *s.Symptom
		copied.Symptom = &symptom
	}
	if s.Found != nil {
		found := *s.Found
		copied.Found = &found
	}
	copied.AvailableSlots = append([]string(nil), s.AvailableSlots...)
	return &copied
}

// hasPatientInfo reports whether both name and phone were collected.
func (s *State) hasPatientInfo() bool {
	return s.Patient.Name != "" && s.Patient.Phone != ""
}
