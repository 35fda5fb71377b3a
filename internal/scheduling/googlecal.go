package scheduling

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

// calendarAPI is the slice of the Google Calendar surface the backend
// uses. Kept as an interface so tests can drive the cross-calendar
// probe with a fake.
type calendarAPI interface {
	BusyPeriods(ctx context.Context, calendarID string, start, end time.Time) ([]busyPeriod, error)
	InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error)
	GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
	ListEvents(ctx context.Context, calendarID, query string, from time.Time) ([]*calendar.Event, error)
}

type busyPeriod struct {
	Start time.Time
	End   time.Time
}

// doctorCalendar binds a logical doctor to a backing calendar.
type doctorCalendar struct {
	Doctor     string
	CalendarID string
}

// GoogleCalendarConfig configures the calendar-backed backend.
type GoogleCalendarConfig struct {
	ServiceAccountFile string
	// DoctorCalendars maps doctor display names to calendar ids.
	DoctorCalendars map[string]string
	Timezone        string
	DefaultDoctor   string
}

// GoogleCalendar maps each doctor to a distinct calendar.
// Availability is the logical AND of per-calendar free/busy queries;
// cancel/update/find probe every calendar in turn because an event id
// alone does not say which doctor owns it.
type GoogleCalendar struct {
	api           calendarAPI
	calendars     []doctorCalendar
	loc           *time.Location
	defaultDoctor string
	info          *clinic.Info
	logger        *logging.Logger
}

// serviceColors are the Google Calendar color ids per service code.
var serviceColors = map[string]string{
	"general_dentistry": "1",
	"teeth_cleaning":    "2",
	"fillings":          "3",
	"root_canal":        "4",
	"teeth_whitening":   "5",
	"crown":             "6",
	"extraction":        "7",
	"orthodontics":      "8",
}

// NewGoogleCalendar builds the backend from a service account file.
func NewGoogleCalendar(ctx context.Context, cfg GoogleCalendarConfig, info *clinic.Info, logger *logging.Logger) (*GoogleCalendar, error) {
	if cfg.ServiceAccountFile == "" {
		return nil, errors.New("scheduling: service account file required for google calendar backend")
	}
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(cfg.ServiceAccountFile),
		option.WithScopes(calendar.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("scheduling: init calendar service: %w", err)
	}
	return newGoogleCalendarWithAPI(&googleCalendarAPI{svc: svc}, cfg, info, logger)
}

func newGoogleCalendarWithAPI(api calendarAPI, cfg GoogleCalendarConfig, info *clinic.Info, logger *logging.Logger) (*GoogleCalendar, error) {
	if len(cfg.DoctorCalendars) == 0 {
		return nil, errors.New("scheduling: at least one doctor calendar required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "Europe/Bucharest"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("scheduling: load timezone %q: %w", tz, err)
	}

	// Probe order must be deterministic: first success wins on
	// cancel/update, so two runs over the same data must agree.
	calendars := make([]doctorCalendar, 0, len(cfg.DoctorCalendars))
	for doctor, id := range cfg.DoctorCalendars {
		calendars = append(calendars, doctorCalendar{Doctor: doctor, CalendarID: id})
	}
	sort.Slice(calendars, func(i, j int) bool { return calendars[i].Doctor < calendars[j].Doctor })

	defaultDoctor := cfg.DefaultDoctor
	if defaultDoctor == "" {
		defaultDoctor = calendars[0].Doctor
	}

	return &GoogleCalendar{
		api:           api,
		calendars:     calendars,
		loc:           loc,
		defaultDoctor: defaultDoctor,
		info:          info,
		logger:        logger,
	}, nil
}

func (g *GoogleCalendar) calendarFor(doctor string) (string, bool) {
	for _, dc := range g.calendars {
		if dc.Doctor == doctor {
			return dc.CalendarID, true
		}
	}
	return "", false
}

func (g *GoogleCalendar) slotBounds(date, startTime string, durationMinutes int) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+startTime, g.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("scheduling: parse slot %s %s: %w", date, startTime, err)
	}
	if durationMinutes <= 0 {
		durationMinutes = 60
	}
	return start, start.Add(time.Duration(durationMinutes) * time.Minute), nil
}

// CheckAvailability queries free/busy. With an empty doctor every
// calendar must be free; with a named doctor only that calendar is
// consulted. Unknown doctors and lookup failures report unavailable.
func (g *GoogleCalendar) CheckAvailability(ctx context.Context, date, startTime string, durationMinutes int, doctor string) bool {
	start, end, err := g.slotBounds(date, startTime, durationMinutes)
	if err != nil {
		g.logger.Warn("availability check rejected", "error", err)
		return false
	}

	targets := g.calendars
	if doctor != "" {
		calID, ok := g.calendarFor(doctor)
		if !ok {
			g.logger.Warn("availability check for unknown doctor", "doctor", doctor)
			return false
		}
		targets = []doctorCalendar{{Doctor: doctor, CalendarID: calID}}
	}

	for _, target := range targets {
		busy, err := g.api.BusyPeriods(ctx, target.CalendarID, start, end)
		if err != nil {
			g.logger.Warn("free/busy query failed", "doctor", target.Doctor, "error", err)
			return false
		}
		if len(busy) > 0 {
			return false
		}
	}
	return true
}

// AvailableSlots probes the hourly catalog through CheckAvailability.
func (g *GoogleCalendar) AvailableSlots(ctx context.Context, date, doctor string) []string {
	var free []string
	for _, slot := range businessSlots() {
		if g.CheckAvailability(ctx, date, slot, 60, doctor) {
			free = append(free, slot)
		}
	}
	return free
}

// CreateAppointment writes the event into the target doctor's
// calendar only.
func (g *GoogleCalendar) CreateAppointment(ctx context.Context, appt NewAppointment) (string, bool) {
	doctor := appt.Doctor
	if doctor == "" {
		doctor = g.defaultDoctor
	}
	calID, ok := g.calendarFor(doctor)
	if !ok {
		g.logger.Warn("no calendar for doctor", "doctor", doctor)
		return "", false
	}

	serviceName := appt.Service
	price := "N/A"
	duration := appt.DurationMinutes
	if svc, ok := g.info.Service(appt.Service); ok {
		serviceName = svc.Name
		price = svc.Price
		if duration <= 0 {
			duration = svc.Duration
		}
	}

	start, end, err := g.slotBounds(appt.Date, appt.Time, duration)
	if err != nil {
		g.logger.Warn("create rejected", "error", err)
		return "", false
	}

	event := &calendar.Event{
		Summary: fmt.Sprintf("%s - %s", serviceName, appt.PatientName),
		Description: strings.Join([]string{
			"Pacient: " + appt.PatientName,
			"Telefon: " + appt.Phone,
			"Serviciu: " + serviceName,
			"Doctor: " + doctor,
			fmt.Sprintf("Durată: %d minute", duration),
			"Cost estimat: " + price,
		}, "\n"),
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		ColorId: serviceColors[appt.Service],
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 60},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := g.api.InsertEvent(ctx, calID, event)
	if err != nil {
		g.logger.Error("event insert failed", "doctor", doctor, "error", err)
		return "", false
	}
	return created.Id, true
}

// CancelAppointment probes each doctor calendar in order. A 404 from
// one calendar only means "not here, try the next"; the operation
// fails after every calendar has been exhausted.
func (g *GoogleCalendar) CancelAppointment(ctx context.Context, id string) bool {
	for _, dc := range g.calendars {
		err := g.api.DeleteEvent(ctx, dc.CalendarID, id)
		if err == nil {
			return true
		}
		if isNotFound(err) {
			continue
		}
		g.logger.Warn("event delete failed", "doctor", dc.Doctor, "error", err)
	}
	return false
}

// UpdateAppointment finds the owning calendar first, then rewrites the
// event keeping its original duration when only date/time change.
func (g *GoogleCalendar) UpdateAppointment(ctx context.Context, id string, upd Update) bool {
	var event *calendar.Event
	var calID string
	for _, dc := range g.calendars {
		ev, err := g.api.GetEvent(ctx, dc.CalendarID, id)
		if err == nil {
			event = ev
			calID = dc.CalendarID
			break
		}
		if isNotFound(err) {
			continue
		}
		g.logger.Warn("event lookup failed", "doctor", dc.Doctor, "error", err)
		return false
	}
	if event == nil {
		return false
	}

	oldStart, err := parseEventTime(event.Start)
	if err != nil {
		g.logger.Warn("event has unparsable start", "event_id", id, "error", err)
		return false
	}
	duration := 60 * time.Minute
	if oldEnd, err := parseEventTime(event.End); err == nil {
		duration = oldEnd.Sub(oldStart)
	}

	newDate := upd.Date
	if newDate == "" {
		newDate = oldStart.In(g.loc).Format("2006-01-02")
	}
	newTime := upd.Time
	if newTime == "" {
		newTime = oldStart.In(g.loc).Format("15:04")
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", newDate+" "+newTime, g.loc)
	if err != nil {
		g.logger.Warn("update rejected", "error", err)
		return false
	}

	event.Start.DateTime = start.Format(time.RFC3339)
	event.End.DateTime = start.Add(duration).Format(time.RFC3339)

	if _, err := g.api.UpdateEvent(ctx, calID, id, event); err != nil {
		g.logger.Error("event update failed", "event_id", id, "error", err)
		return false
	}
	return true
}

// FindAppointment searches every doctor calendar for a future event
// whose summary carries the patient name.
func (g *GoogleCalendar) FindAppointment(ctx context.Context, patientName, phone string) (*Appointment, bool) {
	for _, dc := range g.calendars {
		events, err := g.api.ListEvents(ctx, dc.CalendarID, patientName, time.Now().In(g.loc))
		if err != nil {
			g.logger.Warn("event list failed", "doctor", dc.Doctor, "error", err)
			continue
		}
		for _, event := range events {
			if !strings.Contains(strings.ToLower(event.Summary), strings.ToLower(patientName)) {
				continue
			}
			if phone != "" && descriptionField(event.Description, "Telefon:") != phone {
				continue
			}
			start, err := parseEventTime(event.Start)
			if err != nil {
				continue
			}
			local := start.In(g.loc)
			doctor := descriptionField(event.Description, "Doctor:")
			if doctor == "" {
				doctor = dc.Doctor
			}
			service := event.Summary
			if idx := strings.Index(service, " - "); idx > 0 {
				service = service[:idx]
			}
			return &Appointment{
				ID:          event.Id,
				PatientName: patientName,
				Phone:       descriptionField(event.Description, "Telefon:"),
				Date:        local.Format("2006-01-02"),
				Time:        local.Format("15:04"),
				Service:     service,
				Doctor:      doctor,
				Status:      StatusScheduled,
			}, true
		}
	}
	return nil, false
}

func parseEventTime(edt *calendar.EventDateTime) (time.Time, error) {
	if edt == nil || edt.DateTime == "" {
		return time.Time{}, errors.New("scheduling: event missing dateTime")
	}
	return time.Parse(time.RFC3339, edt.DateTime)
}

// descriptionField pulls a "Label: value" line out of an event
// description.
func descriptionField(description, label string) string {
	for _, line := range strings.Split(description, "\n") {
		if strings.HasPrefix(line, label) {
			return strings.TrimSpace(strings.TrimPrefix(line, label))
		}
	}
	return ""
}

func isNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == 404
}

// googleCalendarAPI adapts *calendar.Service to calendarAPI.
type googleCalendarAPI struct {
	svc *calendar.Service
}

func (a *googleCalendarAPI) BusyPeriods(ctx context.Context, calendarID string, start, end time.Time) ([]busyPeriod, error) {
	resp, err := a.svc.Freebusy.Query(&calendar.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*calendar.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("scheduling: freebusy query: %w", err)
	}
	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("scheduling: freebusy response missing calendar %s", calendarID)
	}
	periods := make([]busyPeriod, 0, len(cal.Busy))
	for _, tp := range cal.Busy {
		from, err := time.Parse(time.RFC3339, tp.Start)
		if err != nil {
			continue
		}
		to, err := time.Parse(time.RFC3339, tp.End)
		if err != nil {
			continue
		}
		periods = append(periods, busyPeriod{Start: from, End: to})
	}
	return periods, nil
}

func (a *googleCalendarAPI) InsertEvent(ctx context.Context, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	return a.svc.Events.Insert(calendarID, event).Context(ctx).Do()
}

func (a *googleCalendarAPI) GetEvent(ctx context.Context, calendarID, eventID string) (*calendar.Event, error) {
	return a.svc.Events.Get(calendarID, eventID).Context(ctx).Do()
}

func (a *googleCalendarAPI) UpdateEvent(ctx context.Context, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	return a.svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
}

func (a *googleCalendarAPI) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	return a.svc.Events.Delete(calendarID, eventID).Context(ctx).Do()
}

func (a *googleCalendarAPI) ListEvents(ctx context.Context, calendarID, query string, from time.Time) ([]*calendar.Event, error) {
	resp, err := a.svc.Events.List(calendarID).
		Q(query).
		TimeMin(from.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("scheduling: events list: %w", err)
	}
	return resp.Items, nil
}
