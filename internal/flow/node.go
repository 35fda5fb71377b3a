// Package flow implements the conversation state machine of the voice
// assistant. A session sits on exactly one Node at a time; the Node
// carries the prompt content plus the set of handler Bindings callable
// from it. Invoking a bound handler mutates session state, may call
// the scheduling backend, and moves the session to the next Node.
package flow

// NodeID identifies a conversation node.
type NodeID string

const (
	NodeInitial                    NodeID = "initial"
	NodeClinicInfo                 NodeID = "clinic_info"
	NodeServicesInfo               NodeID = "services_info"
	NodeDentistInfo                NodeID = "dentist_info"
	NodeScheduleAppointment        NodeID = "schedule_appointment"
	NodeSymptomTriage              NodeID = "symptom_triage"
	NodeServiceSelection           NodeID = "service_selection"
	NodeDateTimeSelection          NodeID = "date_time_selection"
	NodeAlternativeTimes           NodeID = "alternative_times"
	NodeAppointmentConfirmation    NodeID = "appointment_confirmation"
	NodeAppointmentSuccess         NodeID = "appointment_success"
	NodeMainMenu                   NodeID = "main_menu"
	NodeManageAppointment          NodeID = "manage_appointment"
	NodeExistingAppointmentOptions NodeID = "existing_appointment_options"
	NodeAppointmentNotFound        NodeID = "appointment_not_found"
	NodeCancellationSuccess        NodeID = "cancellation_success"
	NodeCancellationError          NodeID = "cancellation_error"
	NodeRescheduleAppointment      NodeID = "reschedule_appointment"
	NodeRescheduleSuccess          NodeID = "reschedule_success"
	NodeRescheduleAlternatives     NodeID = "reschedule_alternative_times"
	NodeGoodbye                    NodeID = "goodbye"
	NodeEnd                        NodeID = "end"
)

// HandlerName identifies a flow handler.
type HandlerName string

const (
	HandlerGetClinicInfo            HandlerName = "get_clinic_info"
	HandlerGetServicesInfo          HandlerName = "get_services_info"
	HandlerGetDentistInfo           HandlerName = "get_dentist_info"
	HandlerHandleSymptoms           HandlerName = "handle_symptoms"
	HandlerScheduleAppointment      HandlerName = "schedule_appointment"
	HandlerProvidePatientInfo       HandlerName = "provide_patient_info"
	HandlerReturnToServiceSelection HandlerName = "return_to_service_selection"
	HandlerSelectService            HandlerName = "select_service"
	HandlerSelectDateTime           HandlerName = "select_date_time"
	HandlerSelectDoctor             HandlerName = "select_doctor"
	HandlerSelectAlternativeTime    HandlerName = "select_alternative_time"
	HandlerConfirmAppointment       HandlerName = "confirm_appointment"
	HandlerModifyAppointment        HandlerName = "modify_appointment_details"
	HandlerAppointmentComplete      HandlerName = "appointment_complete"
	HandlerManageAppointment        HandlerName = "manage_existing_appointment"
	HandlerFindAppointment          HandlerName = "find_existing_appointment"
	HandlerCancelAppointment        HandlerName = "cancel_existing_appointment"
	HandlerRescheduleAppointment    HandlerName = "reschedule_existing_appointment"
	HandlerUpdateReschedule         HandlerName = "update_reschedule"
	HandlerBackToMain               HandlerName = "back_to_main"
	HandlerEndConversation          HandlerName = "end_conversation"
)

// Param describes one argument of a handler binding. Type uses JSON
// Schema names so bindings map directly onto LLM tool definitions.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Binding exposes a handler from a node.
type Binding struct {
	Name        HandlerName `json:"name"`
	Description string      `json:"description"`
	Params      []Param     `json:"params,omitempty"`
}

// Node is one state of the conversation. RoleContent is only set on
// the entry node; Content is the task prompt for the current turn.
// CloseSession marks terminal nodes.
type Node struct {
	ID           NodeID    `json:"id"`
	RoleContent  string    `json:"role_content,omitempty"`
	Content      string    `json:"content"`
	Bindings     []Binding `json:"bindings"`
	CloseSession bool      `json:"close_session,omitempty"`
}

// Bound reports whether the handler is callable from this node.
func (n Node) Bound(name HandlerName) bool {
	for _, b := range n.Bindings {
		if b.Name == name {
			return true
		}
	}
	return false
}

// bindingSpecs is the single source of truth for handler signatures.
// Descriptions are written for the language model that picks tools.
var bindingSpecs = map[HandlerName]Binding{
	HandlerGetClinicInfo: {
		Name:        HandlerGetClinicInfo,
		Description: "User wants general clinic information: location, hours, contact.",
	},
	HandlerGetServicesInfo: {
		Name:        HandlerGetServicesInfo,
		Description: "User wants information about dental services and prices.",
	},
	HandlerGetDentistInfo: {
		Name:        HandlerGetDentistInfo,
		Description: "User wants information about the dentists and their specialties.",
	},
	HandlerHandleSymptoms: {
		Name:        HandlerHandleSymptoms,
		Description: "User describes dental symptoms or problems. Pass the full symptom description.",
		Params: []Param{
			{Name: "symptoms_description", Type: "string", Description: "Complete description of the symptoms in the patient's words", Required: true},
		},
	},
	HandlerScheduleAppointment: {
		Name:        HandlerScheduleAppointment,
		Description: "User wants to schedule a new appointment.",
	},
	HandlerProvidePatientInfo: {
		Name:        HandlerProvidePatientInfo,
		Description: "Collect patient name and phone number for appointment scheduling.",
		Params: []Param{
			{Name: "patient_name", Type: "string", Description: "Patient's full name", Required: true},
			{Name: "phone_number", Type: "string", Description: "Patient's phone number", Required: true},
		},
	},
	HandlerReturnToServiceSelection: {
		Name:        HandlerReturnToServiceSelection,
		Description: "Return to service selection after viewing services info during booking.",
	},
	HandlerSelectService: {
		Name:        HandlerSelectService,
		Description: "Patient selects the dental service they need, optionally with a preferred doctor.",
		Params: []Param{
			{Name: "service_type", Type: "string", Description: "Service code, e.g. teeth_cleaning or root_canal", Required: true},
			{Name: "preferred_doctor", Type: "string", Description: "Preferred doctor's full name, if mentioned"},
		},
	},
	HandlerSelectDateTime: {
		Name:        HandlerSelectDateTime,
		Description: "Patient selects preferred date and time for the appointment.",
		Params: []Param{
			{Name: "preferred_date", Type: "string", Description: "Date in YYYY-MM-DD format", Required: true},
			{Name: "preferred_time", Type: "string", Description: "Time in HH:MM format", Required: true},
		},
	},
	HandlerSelectDoctor: {
		Name:        HandlerSelectDoctor,
		Description: "Patient selects or changes their preferred doctor.",
		Params: []Param{
			{Name: "doctor_name", Type: "string", Description: "Doctor's full name", Required: true},
		},
	},
	HandlerSelectAlternativeTime: {
		Name:        HandlerSelectAlternativeTime,
		Description: "Patient picks one of the offered alternative times.",
		Params: []Param{
			{Name: "selected_time", Type: "string", Description: "Chosen time in HH:MM format", Required: true},
		},
	},
	HandlerConfirmAppointment: {
		Name:        HandlerConfirmAppointment,
		Description: "Patient confirms the appointment details; book it.",
	},
	HandlerModifyAppointment: {
		Name:        HandlerModifyAppointment,
		Description: "Patient wants to change some details before confirming.",
	},
	HandlerAppointmentComplete: {
		Name:        HandlerAppointmentComplete,
		Description: "Patient answered whether they need anything else.",
		Params: []Param{
			{Name: "needs_help", Type: "boolean", Description: "True when the patient needs more help", Required: true},
		},
	},
	HandlerManageAppointment: {
		Name:        HandlerManageAppointment,
		Description: "User wants to manage an existing appointment.",
	},
	HandlerFindAppointment: {
		Name:        HandlerFindAppointment,
		Description: "Find an existing appointment by patient name, optionally verified by phone.",
		Params: []Param{
			{Name: "patient_name", Type: "string", Description: "Name the appointment was booked under", Required: true},
			{Name: "phone_number", Type: "string", Description: "Phone number for verification, if given"},
		},
	},
	HandlerCancelAppointment: {
		Name:        HandlerCancelAppointment,
		Description: "Cancel the appointment that was just found.",
	},
	HandlerRescheduleAppointment: {
		Name:        HandlerRescheduleAppointment,
		Description: "Reschedule the appointment that was just found.",
	},
	HandlerUpdateReschedule: {
		Name:        HandlerUpdateReschedule,
		Description: "Apply the new date and time to the found appointment.",
		Params: []Param{
			{Name: "new_date", Type: "string", Description: "New date in YYYY-MM-DD format", Required: true},
			{Name: "new_time", Type: "string", Description: "New time in HH:MM format", Required: true},
		},
	},
	HandlerBackToMain: {
		Name:        HandlerBackToMain,
		Description: "Return to the main menu or ask something else.",
	},
	HandlerEndConversation: {
		Name:        HandlerEndConversation,
		Description: "End the conversation politely.",
	},
}

// bind resolves binding specs for a node's handler list.
func bind(names ...HandlerName) []Binding {
	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		spec, ok := bindingSpecs[name]
		if !ok {
			panic("flow: no binding spec for " + string(name))
		}
		bindings = append(bindings, spec)
	}
	return bindings
}
