package flow

import (
	"fmt"
	"strings"
	"time"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
)

// Catalog builds node content. Builders are pure text producers: they
// take every dynamic value as an argument and never touch session
// state, so they can be rendered for any session at any point.
type Catalog struct {
	info *clinic.Info
	now  func() time.Time
}

// NewCatalog builds a content catalog over the clinic data.
func NewCatalog(info *clinic.Info) *Catalog {
	return &Catalog{info: info, now: time.Now}
}

var romanianDays = map[time.Weekday]string{
	time.Monday:    "luni",
	time.Tuesday:   "marți",
	time.Wednesday: "miercuri",
	time.Thursday:  "joi",
	time.Friday:    "vineri",
	time.Saturday:  "sâmbătă",
	time.Sunday:    "duminică",
}

// RoleContent is the system prompt shared by the whole session. It is
// attached to the entry node only.
func (c *Catalog) RoleContent() string {
	now := c.now()
	return fmt.Sprintf(`Ești un asistent vocal util pentru %s.

🚨 REGULI CRITICE - ZERO EXCEPȚII:
1. OBLIGATORIU: Fiecare răspuns TREBUIE să includă EXACT O funcție apelată
2. INTERZIS: NU răspunzi NICIODATĂ fără să apelezi o funcție
3. INTERZIS: NU spui "am programat" sau "voi programa" - doar funcțiile pot face programări
4. INTERZIS: NU confirmi acțiuni care nu au fost făcute prin funcții
5. Dacă nu știi ce funcție, folosește back_to_main

IMPORTANT: Nu poți face programări, confirma detalii sau finaliza acțiuni doar prin text. DOAR funcțiile pot face asta.

Aceasta este o conversație telefonică și răspunsurile tale vor fi convertite în audio. Păstrează răspunsurile prietenoase, profesionale și concise. Evită caracterele speciale și emoji-urile.

DATA ȘI ORA CURENTĂ: Astăzi este %s, %s, ora %s. Folosește aceste informații când pacienții spun "mâine", "săptămâna viitoare", etc.`,
		c.info.Name, romanianDays[now.Weekday()], now.Format("2006-01-02"), now.Format("15:04"))
}

// Initial is the greeting and routing node content.
func (c *Catalog) Initial() string {
	return fmt.Sprintf(`Salută persoanele care sună la %s și întreabă cum le poți ajuta astăzi.
Ascultă ce are nevoie persoana care sună și folosește funcția corespunzătoare pentru a o direcționa. Fii călduros și profesional.`, c.info.Name)
}

// ClinicInfo describes location, hours and contact details.
func (c *Catalog) ClinicInfo() string {
	return fmt.Sprintf(`Oferă informații despre %s:

**Locație și Contact:**
- Adresă: %s
- Telefon: %s
- Email: %s

**Program de lucru:**
- Luni-Joi: %s
- Vineri: %s
- Sâmbătă: %s
- Duminică: %s

**Îngrijire de urgență:**
%s

Răspunde la orice întrebări specifice despre locație, program sau informații de contact. Dacă au nevoie de alte informații sau vor să programeze o consultație, folosește funcțiile disponibile.`,
		c.info.Name, c.info.Address, c.info.Phone, c.info.Email,
		c.info.Hours["monday"], c.info.Hours["friday"], c.info.Hours["saturday"], c.info.Hours["sunday"],
		c.info.Emergency)
}

// ServicesInfo lists the service menu.
func (c *Catalog) ServicesInfo() string {
	return fmt.Sprintf(`Oferă informații despre serviciile noastre stomatologice:

%s

Folosim echipamente de ultimă generație și cele mai noi tehnici. Toate procedurile sunt efectuate cu confortul pacientului ca prioritate principală. Răspunde la orice întrebări specifice despre proceduri, prețuri sau la ce să se aștepte. Dacă vor să programeze o consultație pentru orice serviciu, folosește funcția schedule_appointment.`,
		c.info.ServicesText())
}

// DentistInfo presents the medical team.
func (c *Catalog) DentistInfo() string {
	return fmt.Sprintf(`Oferă informații despre echipa noastră medicală experimentată:

%s

Toți doctorii noștri sunt profesioniști licențiați angajați să ofere îngrijire stomatologică excelentă. Ei se țin la curent cu cele mai noi tehnici și tehnologii stomatologice prin educație continuă. Răspunde la orice întrebări despre doctori specifici sau specialitățile lor.`,
		c.info.DentistsText())
}

// ScheduleAppointment opens the booking dialogue.
func (c *Catalog) ScheduleAppointment() string {
	return `Vă voi ajuta să programați o consultație.

IMPORTANT: Dacă pacientul menționează ORICE simptome sau probleme dentare (durere, carie, sângerare, etc.), TREBUIE să folosești funcția handle_symptoms cu descrierea completă a simptomelor.

Altfel, cere numele complet și numărul de telefon pentru a continua.`
}

// SymptomTriage recommends a service for the detected symptoms. The
// urgent variant escalates and points at the emergency line.
func (c *Catalog) SymptomTriage(match *clinic.SymptomMatch) string {
	name, duration, price := "Consultație", "N/A", "N/A"
	if svc, ok := c.info.Service(match.Service); ok {
		name = svc.Name
		duration = fmt.Sprintf("%d", svc.Duration)
		price = svc.Price
	}

	if match.Priority == clinic.PriorityUrgent {
		return fmt.Sprintf(`%s

**SITUAȚIE URGENTĂ**

Serviciu recomandat: %s
Durată: %s minute
Cost: %s

OBLIGATORIU: Cere NUMELE COMPLET și NUMĂRUL DE TELEFON. Când pacientul le furnizează, TREBUIE să folosești funcția provide_patient_info.

NU spune "am programat" sau "voi programa" - programarea se face DOAR prin funcții.

Dacă este o urgență extremă (sângerare severă, traumă), sugerează să meargă imediat la urgențe: %s`,
			match.Message, name, duration, price, c.info.Emergency)
	}

	return fmt.Sprintf(`%s

Serviciu recomandat: %s
Durată: %s minute
Cost: %s

OBLIGATORIU: Întreabă dacă doresc să programeze. Dacă DA:
1. Cere NUMELE COMPLET și NUMĂRUL DE TELEFON
2. Când le primești, TREBUIE să folosești funcția provide_patient_info

NU spune "am programat" sau "veți fi contactat" - programarea se face DOAR prin funcții.`,
		match.Message, name, duration, price)
}

func (c *Catalog) serviceNamesList() string {
	lines := make([]string, 0, len(c.info.Services()))
	for _, s := range c.info.Services() {
		lines = append(lines, "- "+s.Name)
	}
	return strings.Join(lines, "\n")
}

func (c *Catalog) dentistsList(withSpecialty bool) string {
	dentists := c.info.Dentists()
	lines := make([]string, 0, len(dentists))
	for _, d := range dentists {
		if withSpecialty {
			lines = append(lines, fmt.Sprintf("- %s (%s)", d.Name, d.Specialty))
		} else {
			lines = append(lines, "- "+d.Name)
		}
	}
	return strings.Join(lines, "\n")
}

// ServiceSelection asks the patient which service they need.
func (c *Catalog) ServiceSelection() string {
	return fmt.Sprintf(`Perfect! Acum vă rog să-mi spuneți ce tip de consultație aveți nevoie.

Serviciile noastre disponibile sunt:
%s

Doctorii noștri:
%s

IMPORTANT:
- Dacă pacientul întreabă despre servicii sau vrea detalii despre proceduri, TREBUIE să folosești funcția get_services_info
- Dacă pacientul alege un serviciu direct, folosește funcția select_service
- Dacă pacientul menționează un doctor preferat, folosește select_service cu parametrul preferred_doctor
- Nu explica serviciile tu însuți - folosește funcția get_services_info pentru asta`,
		c.serviceNamesList(), c.dentistsList(true))
}

// DateTimeSelection asks for a slot and teaches the model how to
// translate relative Romanian date expressions.
func (c *Catalog) DateTimeSelection(preferredDoctor string) string {
	now := c.now()
	currentDate := now.Format("2006-01-02")

	doctorContext := ""
	if preferredDoctor != "" {
		doctorContext = fmt.Sprintf("\n\nVeți căuta disponibilități pentru %s.", preferredDoctor)
	}

	return fmt.Sprintf(`Perfect! Acum trebuie să găsesc o oră disponibilă pentru consultația dumneavoastră.%s

Programul nostru este Luni-Joi de la 8:00 la 18:00, Vineri de la 8:00 la 16:00, și Sâmbăta de la 9:00 la 14:00. Suntem închiși Duminica.

Doctorii noștri disponibili:
%s

**DATA CURENTĂ: %s, %s**

IMPORTANT:
- Dacă pacientul menționează un doctor preferat, folosește funcția select_doctor ÎNAINTE de select_date_time
- Dacă pacientul întreabă despre disponibilitatea unui doctor specific, folosește funcția select_doctor
- Întreabă NATURAL "Ce zi și ce oră v-ar conveni?" sau "Când ați dori să veniți?" - NU da exemple cu "puteți spune...". Sună ca o conversație telefonică normală.

INSTRUCȚIUNI CRITICE pentru parsarea datei și orei:

1. **Traduceri de timp:**
   - "mâine" → calculează data de mâine în format YYYY-MM-DD
   - "luni/marți/miercuri/joi/vineri/sâmbătă" → următoarea zi din săptămână cu acel nume
   - "săptămâna viitoare" → adaugă 7 zile la data curentă
   - "peste X zile" → adaugă X zile la data curentă

2. **Traduceri de oră:**
   - "dimineața" → 09:00
   - "la prânz" → 12:00
   - "după-amiază" → 14:00
   - "seara" → 17:00
   - "prima oră" → 08:00
   - "ultima oră" → 17:00 (sau 13:00 sâmbăta)

3. **Format obligatoriu:**
   - Data TREBUIE să fie în format: YYYY-MM-DD
   - Ora TREBUIE să fie în format: HH:MM (ex: 09:00, 14:00)

4. **TREBUIE să folosești funcția select_date_time** cu data și ora calculate
   - NU folosi back_to_main dacă pacientul a furnizat o dată/oră
   - NU cere clarificări inutile - interpretează și calculează data

Exemplu: Dacă pacientul spune "luni la prima oră" și astăzi este %s, calculează următoarea zi de luni și folosește ora 08:00.`,
		doctorContext, c.dentistsList(true), romanianDays[now.Weekday()], currentDate, currentDate)
}

// AlternativeTimes offers the free slots on the requested date.
func (c *Catalog) AlternativeTimes(slots []string, preferredDoctor string) string {
	doctorContext := ""
	if preferredDoctor != "" {
		doctorContext = " pentru " + preferredDoctor
	}

	return fmt.Sprintf(`Îmi pare rău, dar acel interval orar nu este disponibil%s. Cu toate acestea, am aceste ore disponibile în data preferată:

%s

OPȚIUNI:
- Selectați una din aceste ore folosind funcția select_alternative_time
- Încercați o altă dată folosind funcția select_date_time
- Schimbați doctorul preferat folosind funcția select_doctor

Doctori disponibili:
%s`,
		doctorContext, strings.Join(slots, ", "), c.dentistsList(false))
}

// AppointmentConfirmation reads back every detail before booking.
func (c *Catalog) AppointmentConfirmation(patient Patient, sel Selection) string {
	serviceName, duration, price := orNA(sel.Service), "N/A", "N/A"
	if svc, ok := c.info.Service(sel.Service); ok {
		serviceName = svc.Name
		duration = fmt.Sprintf("%d", svc.Duration)
		price = svc.Price
	}
	doctor := sel.Doctor
	if doctor == "" {
		doctor = "Dr. Ana Popescu"
	}

	return fmt.Sprintf(`Perfect! Permiteți-mi să confirm detaliile consultației dumneavoastră.

TREBUIE să citiți TOATE aceste detalii pacientului:

Nume: %s
Telefon: %s
Serviciu: %s
Doctor: %s
Data: %s
Ora: %s
Durata: %s minute
Cost estimat: %s

După ce ai citit TOATE detaliile, întreabă NATURAL: "Confirmăm programarea?" sau "Totul este în regulă?"

Dacă pacientul confirmă (da, ok, perfect, etc.) → folosește funcția confirm_appointment
Dacă pacientul vrea schimbări → folosește funcția modify_appointment_details`,
		orNA(patient.Name), orNA(patient.Phone), serviceName, doctor,
		orNA(sel.Date), orNA(sel.Time), duration, price)
}

// AppointmentSuccess confirms the booking with its confirmation id.
func (c *Catalog) AppointmentSuccess(appointmentID string) string {
	return fmt.Sprintf(`IMPORTANT: Confirmă pacientului că programarea a fost făcută cu succes ÎNAINTE de a întreba dacă mai are nevoie de ajutor.

Spune următoarele informații:

Excelent! Consultația dumneavoastră a fost programată cu succes.

Număr de confirmare: %s

Reamintiri importante:
- Vă rugăm să ajungeți cu 15 minute mai devreme pentru formularele necesare
- Aduceți un act de identitate valabil și cardul de asigurare
- Dacă trebuie să anulați sau reprogramați, vă rugăm să sunați cu cel puțin 24 de ore înainte
- Pentru întrebări, sunați-ne la %s

Apoi întreabă: Mai este ceva cu care vă pot ajuta astăzi?

🚨 FUNCȚIE OBLIGATORIE:
- Dacă pacientul răspunde DA sau mai vrea ceva → apelează appointment_complete(needs_help=True)
- Dacă pacientul răspunde NU sau "gata" sau "mulțumesc" → apelează appointment_complete(needs_help=False)

IMPORTANT: TREBUIE să apelezi funcția appointment_complete cu parametrul corect.`,
		orNA(appointmentID), c.info.Phone)
}

// MainMenu routes a caller who still needs something after a booking.
func (c *Catalog) MainMenu() string {
	return `Pacientul mai are nevoie de ajutor. Întreabă cu ce îl mai poți ajuta:

- Programarea unei noi consultații
- Informații despre serviciile noastre
- Informații despre clinică (program, locație, contact)
- Gestionarea unei consultații existente

Folosește funcția corespunzătoare pentru a-l direcționa. Fii călduros și profesional.`
}

// ManageAppointment asks for the lookup details.
func (c *Catalog) ManageAppointment() string {
	return `Vă pot ajuta cu consultația dumneavoastră existentă. Pentru a găsi consultația, vă rog furnizați:

1. Numele pacientului sub care este consultația
2. Numărul de telefon (opțional, dar util pentru verificare)

Odată ce găsesc consultația, vă pot ajuta să o anulați, reprogramați sau verificați detaliile.`
}

// ExistingAppointmentOptions reads back the found appointment.
func (c *Catalog) ExistingAppointmentOptions(appt *scheduling.Appointment) string {
	serviceName := appt.Service
	if svc, ok := c.info.Service(appt.Service); ok {
		serviceName = svc.Name
	}
	return fmt.Sprintf(`Am găsit consultația dumneavoastră! Iată detaliile:

**Pacient:** %s
**Serviciu:** %s
**Data:** %s
**Ora:** %s
**Doctor:** %s
**Confirmare:** %s

Ce ați dori să faceți cu această consultație?`,
		orNA(appt.PatientName), orNA(serviceName), orNA(appt.Date),
		orNA(appt.Time), orNA(appt.Doctor), orNA(appt.ID))
}

// AppointmentNotFound explains the failed lookup.
func (c *Catalog) AppointmentNotFound() string {
	return fmt.Sprintf(`Nu am putut găsi o consultație cu acele informații. Acest lucru s-ar putea datora:

- Consultația a fost deja anulată
- Numele sau numărul de telefon nu se potrivește cu înregistrările noastre
- Ar putea fi o diferență de ortografie

Ați dori să:
1. Încercați din nou căutarea cu informații diferite
2. Programați o consultație nouă
3. Sunați direct la cabinetul nostru la %s pentru asistență`, c.info.Phone)
}

// CancellationSuccess confirms the cancellation.
func (c *Catalog) CancellationSuccess() string {
	return fmt.Sprintf(`Consultația dumneavoastră a fost anulată cu succes.

Dacă aveți nevoie să programați o consultație nouă în viitor, nu ezitați să ne sunați. Sperăm să vă vedem din nou curând la %s!

Mai este ceva cu care vă pot ajuta astăzi?`, c.info.Name)
}

// CancellationError apologizes and redirects to the front desk.
func (c *Catalog) CancellationError() string {
	return fmt.Sprintf(`Îmi pare rău, dar nu am putut anula consultația dumneavoastră. Acest lucru s-ar putea datora unei probleme tehnice.

Vă rugăm să sunați direct la cabinetul nostru la %s și personalul nostru va fi fericit să vă ajute să anulați consultația.

Mai este ceva cu care vă pot ajuta?`, c.info.Phone)
}

// RescheduleAppointment asks for the new slot.
func (c *Catalog) RescheduleAppointment() string {
	return fmt.Sprintf(`Vă voi ajuta să reprogramați consultația. Vă rog să-mi spuneți:

1. Noua dată preferată
2. Noua oră preferată

Programul nostru este Luni-Joi de la 8:00 la 18:00, Vineri de la 8:00 la 16:00, și Sâmbăta de la 9:00 la 14:00. Suntem închiși Duminica.

IMPORTANT: Astăzi este %s. Calculați data exactă în format YYYY-MM-DD când primiți expresii relative ca "mâine" sau "joi viitoare".`,
		c.now().Format("2006-01-02"))
}

// RescheduleSuccess confirms the new slot.
func (c *Catalog) RescheduleSuccess() string {
	return `Perfect! Consultația dumneavoastră a fost reprogramată cu succes.

**Detalii consultație actualizată:**
- Noua dumneavoastră consultație este confirmată
- Vă rugăm să ajungeți cu 15 minute mai devreme
- Dacă trebuie să faceți alte schimbări, sunați-ne cu cel puțin 24 de ore înainte

Mai este ceva cu care vă pot ajuta astăzi?`
}

// RescheduleAlternatives offers free slots for the new date.
func (c *Catalog) RescheduleAlternatives(slots []string) string {
	return fmt.Sprintf(`Acel interval orar nu este disponibil. Iată orele disponibile în data preferată:

%s

Vă rugăm selectați una din aceste ore, sau spuneți-mi dacă ați dori să încercați o altă dată.`,
		strings.Join(slots, ", "))
}

// Goodbye says farewell before closing.
func (c *Catalog) Goodbye() string {
	return fmt.Sprintf(`Spune pacientului:

"Cu plăcere! Mulțumim că ați ales %s. Vă așteptăm cu drag la consultație. O zi minunată!"

Apoi OBLIGATORIU folosește funcția end_conversation pentru a încheia apelul.`, c.info.Name)
}

// End is the terminal node content.
func (c *Catalog) End() string {
	return fmt.Sprintf(`Mulțumim că ați sunat la %s! Așteptăm cu drag să vă vedem curând. O zi minunată!`, c.info.Name)
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
