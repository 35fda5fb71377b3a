package scheduling

import (
	"context"
	"sort"
	"testing"
)

func TestMockCheckAvailability(t *testing.T) {
	m := NewMock("Dr. Ana Popescu")
	ctx := context.Background()

	if m.CheckAvailability(ctx, "2026-09-01", "10:00", 60, "") {
		t.Error("10:00 is on the busy list, want unavailable")
	}
	if !m.CheckAvailability(ctx, "2026-09-01", "11:00", 60, "") {
		t.Error("11:00 should be available")
	}
	if m.CheckAvailability(ctx, "2026-09-01", "not-a-time", 60, "") {
		t.Error("malformed time must fail closed")
	}
}

func TestMockAvailableSlots(t *testing.T) {
	m := NewMock("Dr. Ana Popescu")
	ctx := context.Background()

	slots := m.AvailableSlots(ctx, "2026-09-01", "")
	if len(slots) == 0 {
		t.Fatal("expected free slots")
	}
	if !sort.StringsAreSorted(slots) {
		t.Errorf("slots not ascending: %v", slots)
	}
	for _, slot := range slots {
		if !m.CheckAvailability(ctx, "2026-09-01", slot, 60, "") {
			t.Errorf("slot %s listed but CheckAvailability says busy", slot)
		}
	}
	for _, busy := range []string{"10:00", "14:00", "16:00"} {
		for _, slot := range slots {
			if slot == busy {
				t.Errorf("busy slot %s leaked into available list", busy)
			}
		}
	}
}

func TestMockCreateFindCancel(t *testing.T) {
	m := NewMock("Dr. Ana Popescu")
	ctx := context.Background()

	id, ok := m.CreateAppointment(ctx, NewAppointment{
		PatientName: "Maria Pop",
		Phone:       "0722000000",
		Date:        "2026-09-01",
		Time:        "11:00",
		Service:     "teeth_cleaning",
	})
	if !ok || id == "" {
		t.Fatalf("CreateAppointment failed, id=%q ok=%v", id, ok)
	}
	if id != "APPT0001" {
		t.Errorf("id = %q, want APPT0001", id)
	}

	appt, found := m.FindAppointment(ctx, "maria pop", "")
	if !found {
		t.Fatal("case-insensitive find failed")
	}
	if appt.Doctor != "Dr. Ana Popescu" {
		t.Errorf("Doctor = %q, want default doctor", appt.Doctor)
	}
	if appt.Status != StatusScheduled {
		t.Errorf("Status = %q, want scheduled", appt.Status)
	}

	if _, found := m.FindAppointment(ctx, "Maria Pop", "0711111111"); found {
		t.Error("phone mismatch should not match")
	}

	if !m.CancelAppointment(ctx, id) {
		t.Fatal("first cancel should succeed")
	}
	if m.CancelAppointment(ctx, id) {
		t.Error("second cancel must return false")
	}
	if _, found := m.FindAppointment(ctx, "Maria Pop", ""); found {
		t.Error("cancelled appointment must not be findable")
	}
}

func TestMockCancelUnknownID(t *testing.T) {
	m := NewMock("Dr. Ana Popescu")
	if m.CancelAppointment(context.Background(), "APPT9999") {
		t.Error("unknown id should not cancel")
	}
}

func TestMockUpdateAppointment(t *testing.T) {
	m := NewMock("Dr. Ana Popescu")
	ctx := context.Background()

	id, _ := m.CreateAppointment(ctx, NewAppointment{
		PatientName: "Ion Vasile",
		Phone:       "0733000000",
		Date:        "2026-09-01",
		Time:        "09:00",
		Service:     "fillings",
	})

	if !m.UpdateAppointment(ctx, id, Update{Date: "2026-09-02", Time: "12:00"}) {
		t.Fatal("update should succeed")
	}
	appt, _ := m.FindAppointment(ctx, "Ion Vasile", "")
	if appt.Date != "2026-09-02" || appt.Time != "12:00" {
		t.Errorf("appointment not rescheduled: %s %s", appt.Date, appt.Time)
	}

	if m.UpdateAppointment(ctx, "APPT9999", Update{Date: "2026-09-03"}) {
		t.Error("unknown id should not update")
	}
}
