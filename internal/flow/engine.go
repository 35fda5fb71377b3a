package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/brightsmile-dental/voice-assistant/internal/clinic"
	"github.com/brightsmile-dental/voice-assistant/internal/scheduling"
	"github.com/brightsmile-dental/voice-assistant/pkg/logging"
)

var (
	// ErrSessionClosed is returned after the session reached a
	// terminal node.
	ErrSessionClosed = errors.New("flow: session closed")
	// ErrHandlerNotBound is returned when the handler is not callable
	// from the current node.
	ErrHandlerNotBound = errors.New("flow: handler not bound on current node")
)

// Engine drives one conversation session. Invocations are serialized
// by the engine's mutex; the scheduling backend is shared between
// sessions and synchronizes itself.
type Engine struct {
	mu        sync.Mutex
	sessionID string
	info      *clinic.Info
	backend   scheduling.Backend
	catalog   *Catalog
	state     *State
	current   Node
	closed    bool
	observers []Observer
	logger    *logging.Logger
	now       func() time.Time
}

// New starts a session at the entry node.
func New(sessionID string, info *clinic.Info, backend scheduling.Backend, catalog *Catalog, logger *logging.Logger, observers ...Observer) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	e := &Engine{
		sessionID: sessionID,
		info:      info,
		backend:   backend,
		catalog:   catalog,
		state:     &State{},
		observers: observers,
		logger:    logger.WithSession(sessionID),
		now:       time.Now,
	}
	e.current = e.initialNode()
	return e
}

// SessionID returns the session identifier.
func (e *Engine) SessionID() string { return e.sessionID }

// Current returns the node the session sits on.
func (e *Engine) Current() Node {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// Closed reports whether the session reached a terminal node.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// State returns a snapshot of the session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return *e.state.clone()
}

// Invoke runs a handler bound on the current node and moves the
// session to the node it returns. Handlers never fail on backend
// errors; those surface as recovery nodes. Invoke errors mean the
// call itself was invalid.
func (e *Engine) Invoke(ctx context.Context, name HandlerName, args Args) (Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return Node{}, ErrSessionClosed
	}
	if !e.current.Bound(name) {
		return Node{}, fmt.Errorf("%w: %s on %s", ErrHandlerNotBound, name, e.current.ID)
	}
	spec := bindingSpecs[name]
	if err := args.validate(spec); err != nil {
		return Node{}, err
	}

	started := e.now()
	next := e.dispatch(ctx, name, args)
	elapsed := e.now().Sub(started)

	from := e.current.ID
	e.current = next
	if next.CloseSession {
		e.closed = true
	}

	e.logger.Info("handler invoked",
		"handler", string(name),
		"from_node", string(from),
		"to_node", string(next.ID),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	e.notify(ctx, Event{
		Kind:    EventHandlerInvoked,
		Handler: name,
		Node:    next.ID,
		Elapsed: elapsed,
	})
	if next.CloseSession {
		e.notify(ctx, Event{Kind: EventSessionClosed, Node: next.ID})
	}
	return next, nil
}

func (e *Engine) notify(ctx context.Context, event Event) {
	event.SessionID = e.sessionID
	event.At = e.now()
	for _, o := range e.observers {
		o.Observe(ctx, event)
	}
}

// dispatch routes to the handler implementation. Callers hold e.mu.
func (e *Engine) dispatch(ctx context.Context, name HandlerName, args Args) Node {
	switch name {
	case HandlerGetClinicInfo:
		return e.getClinicInfo()
	case HandlerGetServicesInfo:
		return e.getServicesInfo()
	case HandlerGetDentistInfo:
		return e.getDentistInfo()
	case HandlerHandleSymptoms:
		return e.handleSymptoms(ctx, args.String("symptoms_description"))
	case HandlerScheduleAppointment:
		return e.scheduleAppointment()
	case HandlerProvidePatientInfo:
		return e.providePatientInfo(args.String("patient_name"), args.String("phone_number"))
	case HandlerReturnToServiceSelection:
		return e.returnToServiceSelection()
	case HandlerSelectService:
		return e.selectService(args.String("service_type"), args.String("preferred_doctor"))
	case HandlerSelectDateTime:
		return e.selectDateTime(ctx, args.String("preferred_date"), args.String("preferred_time"))
	case HandlerSelectDoctor:
		return e.selectDoctor(ctx, args.String("doctor_name"))
	case HandlerSelectAlternativeTime:
		return e.selectAlternativeTime(args.String("selected_time"))
	case HandlerConfirmAppointment:
		return e.confirmAppointment(ctx)
	case HandlerModifyAppointment:
		return e.modifyAppointment()
	case HandlerAppointmentComplete:
		return e.appointmentComplete(args.Bool("needs_help"))
	case HandlerManageAppointment:
		return e.manageAppointment()
	case HandlerFindAppointment:
		return e.findAppointment(ctx, args.String("patient_name"), args.String("phone_number"))
	case HandlerCancelAppointment:
		return e.cancelAppointment(ctx)
	case HandlerRescheduleAppointment:
		return e.rescheduleAppointment()
	case HandlerUpdateReschedule:
		return e.updateReschedule(ctx, args.String("new_date"), args.String("new_time"))
	case HandlerBackToMain:
		return e.backToMain()
	case HandlerEndConversation:
		return e.endConversation()
	default:
		// Unreachable: Bound plus bindingSpecs cover every name.
		panic("flow: unhandled handler " + string(name))
	}
}

func (e *Engine) initialNode() Node {
	return Node{
		ID:          NodeInitial,
		RoleContent: e.catalog.RoleContent(),
		Content:     e.catalog.Initial(),
		Bindings: bind(
			HandlerGetClinicInfo, HandlerGetServicesInfo, HandlerGetDentistInfo,
			HandlerScheduleAppointment, HandlerManageAppointment, HandlerHandleSymptoms,
		),
	}
}

func (e *Engine) dateTimeSelectionNode(names ...HandlerName) Node {
	return Node{
		ID:       NodeDateTimeSelection,
		Content:  e.catalog.DateTimeSelection(e.state.Selection.Doctor),
		Bindings: bind(names...),
	}
}

func (e *Engine) confirmationNode() Node {
	return Node{
		ID:      NodeAppointmentConfirmation,
		Content: e.catalog.AppointmentConfirmation(e.state.Patient, e.state.Selection),
		Bindings: bind(
			HandlerConfirmAppointment, HandlerModifyAppointment, HandlerBackToMain,
		),
	}
}

func (e *Engine) serviceSelectionNode(names ...HandlerName) Node {
	return Node{
		ID:       NodeServiceSelection,
		Content:  e.catalog.ServiceSelection(),
		Bindings: bind(names...),
	}
}

func (e *Engine) getClinicInfo() Node {
	return Node{
		ID:      NodeClinicInfo,
		Content: e.catalog.ClinicInfo(),
		Bindings: bind(
			HandlerGetServicesInfo, HandlerGetDentistInfo,
			HandlerScheduleAppointment, HandlerBackToMain,
		),
	}
}

func (e *Engine) getServicesInfo() Node {
	// Mid-booking the caller needs a way back into service selection
	// instead of the general navigation set.
	var bindings []Binding
	if e.state.Patient.Name != "" {
		bindings = bind(HandlerReturnToServiceSelection, HandlerSelectService, HandlerBackToMain)
	} else {
		bindings = bind(
			HandlerGetClinicInfo, HandlerGetDentistInfo,
			HandlerScheduleAppointment, HandlerBackToMain,
		)
	}
	return Node{ID: NodeServicesInfo, Content: e.catalog.ServicesInfo(), Bindings: bindings}
}

func (e *Engine) getDentistInfo() Node {
	return Node{
		ID:      NodeDentistInfo,
		Content: e.catalog.DentistInfo(),
		Bindings: bind(
			HandlerGetClinicInfo, HandlerGetServicesInfo,
			HandlerScheduleAppointment, HandlerBackToMain,
		),
	}
}

func (e *Engine) handleSymptoms(ctx context.Context, description string) Node {
	match := e.info.DetectSymptoms(description)
	if match == nil {
		return Node{
			ID:      NodeScheduleAppointment,
			Content: e.catalog.ScheduleAppointment(),
			Bindings: bind(
				HandlerProvidePatientInfo, HandlerGetServicesInfo, HandlerBackToMain,
			),
		}
	}

	e.state.Symptom = match
	e.state.Selection.Service = match.Service
	e.notify(ctx, Event{
		Kind: EventSymptomDetected,
		Detail: map[string]string{
			"priority": string(match.Priority),
			"service":  match.Service,
		},
	})

	// Patient already identified: go straight to slot selection.
	if e.state.hasPatientInfo() {
		return e.dateTimeSelectionNode(HandlerSelectDateTime, HandlerBackToMain)
	}

	triage := Node{ID: NodeSymptomTriage, Content: e.catalog.SymptomTriage(match)}
	if match.Priority == clinic.PriorityUrgent {
		triage.Bindings = bind(HandlerProvidePatientInfo, HandlerGetClinicInfo, HandlerBackToMain)
	} else {
		triage.Bindings = bind(HandlerProvidePatientInfo, HandlerGetServicesInfo, HandlerBackToMain)
	}
	return triage
}

func (e *Engine) scheduleAppointment() Node {
	return Node{
		ID:      NodeScheduleAppointment,
		Content: e.catalog.ScheduleAppointment(),
		Bindings: bind(
			HandlerProvidePatientInfo, HandlerHandleSymptoms, HandlerBackToMain,
		),
	}
}

func (e *Engine) providePatientInfo(name, phone string) Node {
	e.state.Patient = Patient{Name: name, Phone: phone}

	// Triage already pinned a service: skip service selection.
	if e.state.Selection.Service != "" {
		return e.dateTimeSelectionNode(HandlerSelectDateTime, HandlerBackToMain)
	}
	return e.serviceSelectionNode(
		HandlerSelectService, HandlerGetServicesInfo, HandlerHandleSymptoms, HandlerBackToMain,
	)
}

func (e *Engine) returnToServiceSelection() Node {
	return e.serviceSelectionNode(HandlerSelectService, HandlerGetServicesInfo, HandlerBackToMain)
}

func (e *Engine) selectService(serviceType, preferredDoctor string) Node {
	e.state.Selection.Service = serviceType
	if preferredDoctor != "" {
		e.state.Selection.Doctor = preferredDoctor
	}
	return e.dateTimeSelectionNode(HandlerSelectDateTime, HandlerSelectDoctor, HandlerBackToMain)
}

// serviceDuration resolves the appointment length for the selected
// service, defaulting to a one-hour slot.
func (e *Engine) serviceDuration() int {
	if svc, ok := e.info.Service(e.state.Selection.Service); ok {
		return svc.Duration
	}
	return 60
}

func (e *Engine) selectDateTime(ctx context.Context, date, startTime string) Node {
	sel := &e.state.Selection
	if e.backend.CheckAvailability(ctx, date, startTime, e.serviceDuration(), sel.Doctor) {
		sel.Date = date
		sel.Time = startTime
		return e.confirmationNode()
	}

	// Remember the date so picking an alternative time later yields a
	// complete slot.
	sel.Date = date
	e.state.AvailableSlots = e.backend.AvailableSlots(ctx, date, sel.Doctor)
	return Node{
		ID:      NodeAlternativeTimes,
		Content: e.catalog.AlternativeTimes(e.state.AvailableSlots, sel.Doctor),
		Bindings: bind(
			HandlerSelectAlternativeTime, HandlerSelectDateTime,
			HandlerSelectDoctor, HandlerBackToMain,
		),
	}
}

func (e *Engine) selectDoctor(ctx context.Context, doctorName string) Node {
	sel := &e.state.Selection
	sel.Doctor = doctorName

	if sel.Date == "" || sel.Time == "" {
		return e.dateTimeSelectionNode(HandlerSelectDateTime, HandlerBackToMain)
	}

	// Slot already chosen: re-check it against the new doctor.
	if e.backend.CheckAvailability(ctx, sel.Date, sel.Time, e.serviceDuration(), doctorName) {
		return e.confirmationNode()
	}
	e.state.AvailableSlots = e.backend.AvailableSlots(ctx, sel.Date, doctorName)
	return Node{
		ID:      NodeAlternativeTimes,
		Content: e.catalog.AlternativeTimes(e.state.AvailableSlots, doctorName),
		Bindings: bind(
			HandlerSelectAlternativeTime, HandlerSelectDateTime, HandlerBackToMain,
		),
	}
}

func (e *Engine) selectAlternativeTime(selectedTime string) Node {
	e.state.Selection.Time = selectedTime
	return e.confirmationNode()
}

func (e *Engine) confirmAppointment(ctx context.Context) Node {
	sel := e.state.Selection
	id, ok := e.backend.CreateAppointment(ctx, scheduling.NewAppointment{
		PatientName:     e.state.Patient.Name,
		Phone:           e.state.Patient.Phone,
		Date:            sel.Date,
		Time:            sel.Time,
		Service:         sel.Service,
		Doctor:          sel.Doctor,
		DurationMinutes: e.serviceDuration(),
	})
	if ok {
		e.state.AppointmentID = id
		e.notify(ctx, Event{
			Kind:   EventAppointmentBooked,
			Detail: map[string]string{"appointment_id": id, "service": sel.Service},
		})
	} else {
		e.logger.Error("appointment creation failed",
			"date", sel.Date, "time", sel.Time, "service", sel.Service)
	}

	return Node{
		ID:      NodeAppointmentSuccess,
		Content: e.catalog.AppointmentSuccess(e.state.AppointmentID),
		Bindings: bind(
			HandlerScheduleAppointment, HandlerGetClinicInfo,
			HandlerGetServicesInfo, HandlerAppointmentComplete,
		),
	}
}

func (e *Engine) modifyAppointment() Node {
	return e.serviceSelectionNode(HandlerSelectService, HandlerBackToMain)
}

func (e *Engine) appointmentComplete(needsHelp bool) Node {
	if needsHelp {
		return Node{
			ID:      NodeMainMenu,
			Content: e.catalog.MainMenu(),
			Bindings: bind(
				HandlerScheduleAppointment, HandlerGetServicesInfo,
				HandlerGetClinicInfo, HandlerManageAppointment,
			),
		}
	}
	return Node{
		ID:       NodeGoodbye,
		Content:  e.catalog.Goodbye(),
		Bindings: bind(HandlerEndConversation),
	}
}

func (e *Engine) manageAppointment() Node {
	return Node{
		ID:       NodeManageAppointment,
		Content:  e.catalog.ManageAppointment(),
		Bindings: bind(HandlerFindAppointment, HandlerBackToMain),
	}
}

func (e *Engine) findAppointment(ctx context.Context, patientName, phone string) Node {
	appt, found := e.backend.FindAppointment(ctx, patientName, phone)
	if !found {
		return Node{
			ID:      NodeAppointmentNotFound,
			Content: e.catalog.AppointmentNotFound(),
			Bindings: bind(
				HandlerFindAppointment, HandlerScheduleAppointment, HandlerBackToMain,
			),
		}
	}

	e.state.AppointmentID = appt.ID
	e.state.Found = appt
	return Node{
		ID:      NodeExistingAppointmentOptions,
		Content: e.catalog.ExistingAppointmentOptions(appt),
		Bindings: bind(
			HandlerCancelAppointment, HandlerRescheduleAppointment, HandlerBackToMain,
		),
	}
}

func (e *Engine) cancelAppointment(ctx context.Context) Node {
	if e.state.AppointmentID != "" && e.backend.CancelAppointment(ctx, e.state.AppointmentID) {
		return Node{
			ID:      NodeCancellationSuccess,
			Content: e.catalog.CancellationSuccess(),
			Bindings: bind(
				HandlerScheduleAppointment, HandlerGetClinicInfo, HandlerEndConversation,
			),
		}
	}
	return Node{
		ID:       NodeCancellationError,
		Content:  e.catalog.CancellationError(),
		Bindings: bind(HandlerBackToMain, HandlerEndConversation),
	}
}

func (e *Engine) rescheduleAppointment() Node {
	return Node{
		ID:       NodeRescheduleAppointment,
		Content:  e.catalog.RescheduleAppointment(),
		Bindings: bind(HandlerUpdateReschedule, HandlerBackToMain),
	}
}

func (e *Engine) updateReschedule(ctx context.Context, newDate, newTime string) Node {
	id := e.state.AppointmentID
	// Both the slot check and the write must succeed; a failed update
	// lands on the alternatives node rather than claiming success.
	if id != "" &&
		e.backend.CheckAvailability(ctx, newDate, newTime, 60, "") &&
		e.backend.UpdateAppointment(ctx, id, scheduling.Update{Date: newDate, Time: newTime}) {
		return Node{
			ID:      NodeRescheduleSuccess,
			Content: e.catalog.RescheduleSuccess(),
			Bindings: bind(
				HandlerScheduleAppointment, HandlerGetClinicInfo, HandlerEndConversation,
			),
		}
	}

	e.state.AvailableSlots = e.backend.AvailableSlots(ctx, newDate, "")
	return Node{
		ID:       NodeRescheduleAlternatives,
		Content:  e.catalog.RescheduleAlternatives(e.state.AvailableSlots),
		Bindings: bind(HandlerUpdateReschedule, HandlerBackToMain),
	}
}

func (e *Engine) backToMain() Node {
	return e.initialNode()
}

func (e *Engine) endConversation() Node {
	return Node{
		ID:           NodeEnd,
		Content:      e.catalog.End(),
		CloseSession: true,
	}
}
