// Package clinic holds the static clinic catalog: contact details,
// opening hours, the service menu, the dentist roster and the symptom
// triage rules. Everything here is read-only after construction.
package clinic

import (
	"fmt"
	"strings"
)

// Service describes a single entry of the service menu.
type Service struct {
	Code        string
	Name        string
	Description string
	// Duration is the appointment length in minutes.
	Duration int
	Price    string
}

// Dentist describes one member of the medical team.
type Dentist struct {
	Name       string
	Specialty  string
	Experience string
	Education  string
}

// Info is the clinic catalog. Services and Dentists keep their
// declaration order so generated text is stable.
type Info struct {
	Name      string
	Address   string
	Phone     string
	Email     string
	Emergency string
	Hours     map[string]string

	services     []Service
	servicesByID map[string]Service
	dentists     []Dentist
	rules        []SymptomRule
}

// NewInfo returns the catalog for Clinica Dentară Zâmbet Strălucitor.
func NewInfo() *Info {
	info := &Info{
		Name:      "Clinica Dentară Zâmbet Strălucitor",
		Address:   "Strada Dentară nr. 123, Sector 1, București 010123",
		Phone:     "0721-DINTI (0721-346-848)",
		Email:     "info@zambetstralucitor.ro",
		Emergency: "Pentru urgențe stomatologice în afara programului, sunați la 0721-URGENTA (0721-874-368)",
		Hours: map[string]string{
			"monday":    "08:00 - 18:00",
			"tuesday":   "08:00 - 18:00",
			"wednesday": "08:00 - 18:00",
			"thursday":  "08:00 - 18:00",
			"friday":    "08:00 - 16:00",
			"saturday":  "09:00 - 14:00",
			"sunday":    "Închis",
		},
		services: []Service{
			{Code: "general_dentistry", Name: "Stomatologie Generală", Description: "Curățări de rutină, controale și îngrijire preventivă", Duration: 60, Price: "300 RON"},
			{Code: "teeth_cleaning", Name: "Detartraj Dentar", Description: "Curățare și lustruire dentară profesională", Duration: 45, Price: "200 RON"},
			{Code: "fillings", Name: "Plombe Dentare", Description: "Tratamentul cariilor cu plombe din compozit sau amalgam", Duration: 90, Price: "400-700 RON"},
			{Code: "root_canal", Name: "Tratament Endodontic", Description: "Tratamentul dinților infectați sau cariați sever", Duration: 120, Price: "1600-2400 RON"},
			{Code: "teeth_whitening", Name: "Albire Dentară", Description: "Tratament profesional de albire a dinților", Duration: 90, Price: "800 RON"},
			{Code: "crown", Name: "Coroană Dentară", Description: "Coroane personalizate pentru restaurarea dinților deteriorați", Duration: 120, Price: "2000-3000 RON"},
			{Code: "extraction", Name: "Extracție Dentară", Description: "Îndepărtarea sigură a dinților deteriorați sau problematici", Duration: 60, Price: "300-800 RON"},
			{Code: "orthodontics", Name: "Consultație Ortodontică", Description: "Evaluare pentru aparate dentare sau aliniatori transparenți", Duration: 60, Price: "200 RON"},
		},
		dentists: []Dentist{
			{Name: "Dr. Ana Popescu", Specialty: "Stomatologie Generală", Experience: "15 ani", Education: "Doctorat în Medicină Dentară, UMF Carol Davila"},
			{Name: "Dr. Mihai Ionescu", Specialty: "Endodonție (Specialist în Tratamente Canalare)", Experience: "12 ani", Education: "Doctorat în Medicină Dentară și Rezidențiat Endodonție"},
			{Name: "Dr. Maria Georgescu", Specialty: "Ortodonție", Experience: "10 ani", Education: "Doctorat în Medicină Dentară și Rezidențiat Ortodonție"},
		},
		rules: defaultSymptomRules(),
	}

	info.servicesByID = make(map[string]Service, len(info.services))
	for _, s := range info.services {
		info.servicesByID[s.Code] = s
	}
	return info
}

// Services returns the service menu in declaration order.
func (i *Info) Services() []Service {
	return i.services
}

// Service looks up a service by code.
func (i *Info) Service(code string) (Service, bool) {
	s, ok := i.servicesByID[code]
	return s, ok
}

// Dentists returns the dentist roster in declaration order.
func (i *Info) Dentists() []Dentist {
	return i.dentists
}

// DentistByName looks up a dentist by exact name.
func (i *Info) DentistByName(name string) (Dentist, bool) {
	for _, d := range i.dentists {
		if d.Name == name {
			return d, true
		}
	}
	return Dentist{}, false
}

// ServicesText renders the service menu for node content.
func (i *Info) ServicesText() string {
	lines := make([]string, 0, len(i.services))
	for _, s := range i.services {
		lines = append(lines, fmt.Sprintf("- **%s**: %s (Durata: %d minute, Preț: %s)", s.Name, s.Description, s.Duration, s.Price))
	}
	return strings.Join(lines, "\n")
}

// DentistsText renders the dentist roster for node content.
func (i *Info) DentistsText() string {
	lines := make([]string, 0, len(i.dentists))
	for _, d := range i.dentists {
		lines = append(lines, fmt.Sprintf("- **%s**: %s (experiență de %s, %s)", d.Name, d.Specialty, d.Experience, d.Education))
	}
	return strings.Join(lines, "\n")
}
