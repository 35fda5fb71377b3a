package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Mock is the in-memory backend used in development and tests.
// Availability comes from a deterministic fixed busy-time list; ids
// are sequential; nothing survives the process.
//
// The store is mutex-guarded because multiple sessions may share one
// backend. It does not reserve slots between CheckAvailability and
// CreateAppointment, so two sessions can still book the same slot
// (accepted limitation of the contract).
type Mock struct {
	mu            sync.Mutex
	appointments  map[string]*Appointment
	order         []string
	nextID        int
	busyTimes     map[string]bool
	defaultDoctor string
	now           func() time.Time
}

// NewMock creates a mock backend with 10:00, 14:00 and 16:00 busy.
func NewMock(defaultDoctor string) *Mock {
	return &Mock{
		appointments:  make(map[string]*Appointment),
		nextID:        1,
		busyTimes:     map[string]bool{"10:00": true, "14:00": true, "16:00": true},
		defaultDoctor: defaultDoctor,
		now:           time.Now,
	}
}

// CheckAvailability consults the fixed busy list. The doctor and
// duration are accepted for contract parity but do not change the
// answer: the busy list applies clinic-wide.
func (m *Mock) CheckAvailability(ctx context.Context, date, startTime string, durationMinutes int, doctor string) bool {
	if _, err := clockMinutes(startTime); err != nil {
		return false
	}
	return !m.busyTimes[startTime]
}

// AvailableSlots probes the hourly catalog through CheckAvailability.
func (m *Mock) AvailableSlots(ctx context.Context, date, doctor string) []string {
	var free []string
	for _, slot := range businessSlots() {
		if m.CheckAvailability(ctx, date, slot, 60, doctor) {
			free = append(free, slot)
		}
	}
	return free
}

// CreateAppointment books with a sequential APPT0001-style id.
func (m *Mock) CreateAppointment(ctx context.Context, appt NewAppointment) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doctor := appt.Doctor
	if doctor == "" {
		doctor = m.defaultDoctor
	}

	id := fmt.Sprintf("APPT%04d", m.nextID)
	m.nextID++

	m.appointments[id] = &Appointment{
		ID:          id,
		PatientName: appt.PatientName,
		Phone:       appt.Phone,
		Date:        appt.Date,
		Time:        appt.Time,
		Service:     appt.Service,
		Doctor:      doctor,
		Status:      StatusScheduled,
		CreatedAt:   m.now(),
	}
	m.order = append(m.order, id)
	return id, true
}

// CancelAppointment flips status to cancelled. A second cancel of the
// same id returns false.
func (m *Mock) CancelAppointment(ctx context.Context, id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	appt, ok := m.appointments[id]
	if !ok || appt.Status != StatusScheduled {
		return false
	}
	appt.Status = StatusCancelled
	return true
}

// UpdateAppointment applies a partial date/time change.
func (m *Mock) UpdateAppointment(ctx context.Context, id string, upd Update) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	appt, ok := m.appointments[id]
	if !ok || appt.Status != StatusScheduled {
		return false
	}
	if upd.Date != "" {
		appt.Date = upd.Date
	}
	if upd.Time != "" {
		appt.Time = upd.Time
	}
	return true
}

// FindAppointment returns the earliest-created scheduled appointment
// matching the patient.
func (m *Mock) FindAppointment(ctx context.Context, patientName, phone string) (*Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range m.order {
		appt := m.appointments[id]
		if appt.Status != StatusScheduled {
			continue
		}
		if !strings.EqualFold(appt.PatientName, patientName) {
			continue
		}
		if phone != "" && appt.Phone != phone {
			continue
		}
		copied := *appt
		return &copied, true
	}
	return nil, false
}
