// internal/models/scenario.go
package models

// RoleType classifies a scenario role.
type RoleType string

const (
	RoleDoctor     RoleType = "Doctor"
	RoleNurse      RoleType = "Nurse"
	RolePatient    RoleType = "Patient"
	RoleTechnician RoleType = "Technician"
	RoleFamily     RoleType = "Family"
	RoleOther      RoleType = "Other"
)

// TaskType classifies a task within an event.
type TaskType string

const (
	// TaskTodo is a checklist action; completion of all todos in an event
	// drives the event-level success transition.
	TaskTodo TaskType = "todo"
	// TaskDecision is a branch point with its own success target.
	TaskDecision TaskType = "decision"
	// TaskMustNot is a contraindicated action with a penalty target.
	TaskMustNot TaskType = "must-not"
	// TaskSymptom is descriptive only and carries no transition semantics.
	TaskSymptom TaskType = "symptom"
)

// TriggerType describes how an event begins relative to its state or to
// another event in the same state.
type TriggerType string

const (
	TriggerImmediate    TriggerType = "immediate"
	TriggerTime         TriggerType = "time"
	TriggerEvent        TriggerType = "event"
	TriggerSimultaneous TriggerType = "simultaneous"
)

// Role represents a participant in the scenario. Events reference roles by
// id; a dangling RoleID is tolerated and rendered as "no role" downstream.
type Role struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Type  RoleType `json:"type"`
	Color string   `json:"color"`
}

// Todo is a task inside an event. Which of the optional transition fields is
// meaningful depends on Type: decision uses SuccessStateID, must-not uses
// FailStateID, todo and symptom use neither.
type Todo struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Type    TaskType `json:"type"`
	// TimeLimit is an optional per-task budget in seconds.
	TimeLimit      int    `json:"time_limit,omitempty"`
	SuccessStateID string `json:"success_state_id,omitempty"`
	FailStateID    string `json:"fail_state_id,omitempty"`
}

// VitalSigns holds the clinical measurements attached to an event.
type VitalSigns struct {
	BPSys float64 `json:"bp_sys"`
	BPDia float64 `json:"bp_dia"`
	HR    float64 `json:"hr"`
	RR    float64 `json:"rr"`
	BT    float64 `json:"bt"`
	SpO2  float64 `json:"spo2"`
}

// DialogueItem is one question/answer pair of an event's dialogue. Order in
// the slice is significant and user-controlled.
type DialogueItem struct {
	ID         string `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	IsRequired bool   `json:"is_required,omitempty"`
}

// Event is a role-attributed occurrence within a state.
type Event struct {
	ID          string `json:"id"`
	RoleID      string `json:"role_id"`
	Title       string `json:"title"`
	Description string `json:"description"`

	// TriggerType decides how the event starts. TriggerValue carries the
	// delay in seconds for "time" triggers, or the id of the referenced
	// event for "event" and "simultaneous" triggers. Event-referencing
	// triggers are only meaningful within the same state, and the first
	// event of a state must not use them (the studio UI disables them).
	TriggerType  TriggerType `json:"trigger_type"`
	TriggerValue string      `json:"trigger_value,omitempty"`

	// TimeLimit is the budget in seconds for completing all todo-type
	// tasks. OnAllTodosSuccess / OnTimeLimitFail name the states entered on
	// success / timeout; empty means auto-advance to the next state in list
	// order. The ids are not validated against States — a dangling target
	// means "no transition" to any consumer.
	TimeLimit         int    `json:"time_limit,omitempty"`
	OnAllTodosSuccess string `json:"on_all_todos_success,omitempty"`
	OnTimeLimitFail   string `json:"on_time_limit_fail,omitempty"`

	Todos []Todo `json:"todos"`

	VitalSigns *VitalSigns `json:"vital_signs,omitempty"`
	// Consciousness is a GCS string of the form E{1-4}V{1-5|T}M{1-6}.
	Consciousness string         `json:"consciousness,omitempty"`
	Dialogues     []DialogueItem `json:"dialogues,omitempty"`
}

// ScenarioState is one stage of the scenario and the only valid transition
// target.
type ScenarioState struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Events []Event `json:"events"`
}

// ScenarioMetadata describes the scenario document itself.
type ScenarioMetadata struct {
	Title               string   `json:"title"`
	Handover            string   `json:"handover"`
	Mission             string   `json:"mission"`
	Authors             []string `json:"authors,omitempty"`
	Organization        string   `json:"organization,omitempty"`
	LicenseType         string   `json:"license_type,omitempty"`
	SourceType          string   `json:"source_type,omitempty"` // original or customized
	BaseScenarioID      string   `json:"base_scenario_id,omitempty"`
	OriginalSourceTitle string   `json:"original_source_title,omitempty"`
	Year                string   `json:"year,omitempty"`
}

// ScenarioEnvironment selects the map, the placeable items and the per-item
// storage layouts. StorageSetup maps a storage-capable item id (for example
// "crash_cart") to its sections.
type ScenarioEnvironment struct {
	MapID            string                      `json:"map_id"`
	AvailableItemIDs []string                    `json:"available_item_ids"`
	StorageSetup     map[string][]StorageSection `json:"storage_setup"`
}

// ScenarioData is the root document owned by one editing session. Mutation
// operations replace it wholesale; nothing mutates it in place.
type ScenarioData struct {
	Metadata    ScenarioMetadata    `json:"metadata"`
	Environment ScenarioEnvironment `json:"environment"`
	Roles       []Role              `json:"roles"`
	States      []ScenarioState     `json:"states"`
}

// FindRole resolves a role id. The second return is false for dangling ids.
func (d ScenarioData) FindRole(id string) (Role, bool) {
	for _, r := range d.Roles {
		if r.ID == id {
			return r, true
		}
	}
	return Role{}, false
}

// FindState resolves a state id without assuming it exists.
func (d ScenarioData) FindState(id string) (ScenarioState, bool) {
	for _, s := range d.States {
		if s.ID == id {
			return s, true
		}
	}
	return ScenarioState{}, false
}

// FindEvent resolves an event id across all states, returning the owning
// state id as well.
func (d ScenarioData) FindEvent(id string) (Event, string, bool) {
	for _, s := range d.States {
		for _, e := range s.Events {
			if e.ID == id {
				return e, s.ID, true
			}
		}
	}
	return Event{}, "", false
}

// EventRef identifies an event together with its owning state, used by the
// studio for trigger pickers and selection.
type EventRef struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	StateID string `json:"state_id"`
}

// AllEvents flattens the document's events in state order.
func (d ScenarioData) AllEvents() []EventRef {
	var refs []EventRef
	for _, s := range d.States {
		for _, e := range s.Events {
			refs = append(refs, EventRef{ID: e.ID, Title: e.Title, StateID: s.ID})
		}
	}
	return refs
}
