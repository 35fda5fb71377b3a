package flow

import (
	"strings"
	"testing"
	"time"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
)

func testCatalog() *Catalog {
	c := NewCatalog(clinic.NewInfo())
	c.now = func() time.Time {
		return time.Date(2026, 8, 31, 10, 30, 0, 0, time.UTC)
	}
	return c
}

func TestRoleContentCarriesCurrentDate(t *testing.T) {
	content := testCatalog().RoleContent()
	if !strings.Contains(content, "2026-08-31") {
		t.Error("role prompt missing current date")
	}
	if !strings.Contains(content, "luni") {
		t.Error("role prompt missing Romanian weekday")
	}
}

func TestClinicInfoContent(t *testing.T) {
	content := testCatalog().ClinicInfo()
	for _, want := range []string{
		"Clinica Dentară Zâmbet Strălucitor",
		"Strada Dentară nr. 123",
		"08:00 - 18:00",
		"Închis",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("clinic info missing %q", want)
		}
	}
}

func TestSymptomTriageContent(t *testing.T) {
	c := testCatalog()
	info := clinic.NewInfo()

	urgent := info.DetectSymptoms("am o durere mare")
	content := c.SymptomTriage(urgent)
	if !strings.Contains(content, "SITUAȚIE URGENTĂ") {
		t.Error("urgent triage missing escalation block")
	}
	if !strings.Contains(content, "0721-URGENTA") {
		t.Error("urgent triage missing emergency line")
	}

	routine := info.DetectSymptoms("aș vrea un detartraj")
	content = c.SymptomTriage(routine)
	if strings.Contains(content, "SITUAȚIE URGENTĂ") {
		t.Error("routine triage must not escalate")
	}
	if !strings.Contains(content, "Detartraj Dentar") {
		t.Error("routine triage missing recommended service name")
	}
}

func TestAppointmentConfirmationDefaultsDoctor(t *testing.T) {
	content := testCatalog().AppointmentConfirmation(
		Patient{Name: "Maria Pop", Phone: "0722000000"},
		Selection{Service: "teeth_cleaning", Date: "2026-09-01", Time: "11:00"},
	)
	if !strings.Contains(content, "Dr. Ana Popescu") {
		t.Error("confirmation should fall back to the default doctor")
	}
	if !strings.Contains(content, "45 minute") {
		t.Error("confirmation missing service duration")
	}
	if !strings.Contains(content, "200 RON") {
		t.Error("confirmation missing price")
	}
}

func TestAlternativeTimesContent(t *testing.T) {
	content := testCatalog().AlternativeTimes([]string{"09:00", "11:00"}, "Dr. Mihai Ionescu")
	if !strings.Contains(content, "09:00, 11:00") {
		t.Error("alternatives missing slot list")
	}
	if !strings.Contains(content, "pentru Dr. Mihai Ionescu") {
		t.Error("alternatives missing doctor context")
	}
}

func TestExistingAppointmentOptionsContent(t *testing.T) {
	content := testCatalog().ExistingAppointmentOptions(&scheduling.Appointment{
		ID:          "APPT0007",
		PatientName: "Ion Vasile",
		Date:        "2026-09-01",
		Time:        "09:00",
		Service:     "fillings",
		Doctor:      "Dr. Ana Popescu",
	})
	if !strings.Contains(content, "APPT0007") {
		t.Error("options content missing confirmation id")
	}
	if !strings.Contains(content, "Plombe Dentare") {
		t.Error("options content should resolve the service name")
	}
}

func TestAppointmentSuccessFallsBackToNA(t *testing.T) {
	content := testCatalog().AppointmentSuccess("")
	if !strings.Contains(content, "Număr de confirmare: N/A") {
		t.Error("missing N/A fallback for failed booking")
	}
}
