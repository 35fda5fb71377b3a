package clinic

import (
	"strings"
	"testing"
)

func TestServiceLookup(t *testing.T) {
	info := NewInfo()

	s, ok := info.Service("teeth_cleaning")
	if !ok {
		t.Fatal("teeth_cleaning missing from catalog")
	}
	if s.Duration != 45 {
		t.Errorf("Duration = %d, want 45", s.Duration)
	}

	if _, ok := info.Service("botox"); ok {
		t.Error("unknown service code should not resolve")
	}
}

func TestServicesTextIsStable(t *testing.T) {
	info := NewInfo()
	text := info.ServicesText()

	lines := strings.Split(text, "\n")
	if len(lines) != 8 {
		t.Fatalf("got %d service lines, want 8", len(lines))
	}
	if !strings.Contains(lines[0], "Stomatologie Generală") {
		t.Errorf("first line should be general dentistry, got %q", lines[0])
	}
	if !strings.Contains(lines[7], "Consultație Ortodontică") {
		t.Errorf("last line should be orthodontics, got %q", lines[7])
	}
}

func TestDentistByName(t *testing.T) {
	info := NewInfo()

	d, ok := info.DentistByName("Dr. Mihai Ionescu")
	if !ok {
		t.Fatal("Dr. Mihai Ionescu missing from roster")
	}
	if !strings.Contains(d.Specialty, "Endodonție") {
		t.Errorf("Specialty = %q, want endodontics", d.Specialty)
	}

	if _, ok := info.DentistByName("Dr. Necunoscut"); ok {
		t.Error("unknown dentist should not resolve")
	}
}
