// internal/scenario/document.go

// Package scenario implements the pure mutation operations over a
// ScenarioData document. Every operation takes the current document plus its
// arguments and returns a new document with only the targeted substructure
// replaced; callers never observe partial updates. Unknown ids are silent
// no-ops — the studio only issues ids it read from the current document, so
// the miss case is defensive, not expected.
package scenario

import (
	"fmt"
	"time"

	"github.com/meditrain/simstudio/internal/models"
)

func newID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func newIndexedID(prefix string, idx int) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), idx)
}

// RoleColor returns the studio's display color classes for a role type. The
// string is carried as data on the Role; the backend never interprets it.
func RoleColor(t models.RoleType) string {
	switch t {
	case models.RoleDoctor:
		return "bg-blue-100 text-blue-700 border-blue-200"
	case models.RoleNurse:
		return "bg-emerald-100 text-emerald-700 border-emerald-200"
	case models.RolePatient:
		return "bg-slate-100 text-slate-700 border-slate-200"
	case models.RoleTechnician:
		return "bg-orange-100 text-orange-700 border-orange-200"
	case models.RoleFamily:
		return "bg-pink-100 text-pink-700 border-pink-200"
	default:
		return "bg-slate-100 text-slate-600 border-slate-200"
	}
}

// mapState rebuilds the state list, passing the state matching stateID
// through fn. States that do not match keep their original value, so their
// nested slices stay shared with the input document.
func mapState(doc models.ScenarioData, stateID string, fn func(models.ScenarioState) models.ScenarioState) models.ScenarioData {
	states := make([]models.ScenarioState, len(doc.States))
	for i, s := range doc.States {
		if s.ID == stateID {
			states[i] = fn(s)
		} else {
			states[i] = s
		}
	}
	doc.States = states
	return doc
}

func mapEvent(doc models.ScenarioData, stateID, eventID string, fn func(models.Event) models.Event) models.ScenarioData {
	return mapState(doc, stateID, func(s models.ScenarioState) models.ScenarioState {
		events := make([]models.Event, len(s.Events))
		for i, e := range s.Events {
			if e.ID == eventID {
				events[i] = fn(e)
			} else {
				events[i] = e
			}
		}
		s.Events = events
		return s
	})
}

// AddState appends a new empty state with a fresh id and the default title.
func AddState(doc models.ScenarioData) models.ScenarioData {
	state := models.ScenarioState{
		ID:     newID("state"),
		Title:  "새 단계",
		Events: []models.Event{},
	}
	states := make([]models.ScenarioState, 0, len(doc.States)+1)
	states = append(states, doc.States...)
	states = append(states, state)
	doc.States = states
	return doc
}

// UpdateStateTitle replaces the title of the named state.
func UpdateStateTitle(doc models.ScenarioData, stateID, title string) models.ScenarioData {
	return mapState(doc, stateID, func(s models.ScenarioState) models.ScenarioState {
		s.Title = title
		return s
	})
}

// DeleteState removes the state and everything in it. Transition fields in
// other states that pointed at the deleted id are left dangling on purpose:
// consumers treat an unknown target as "no transition".
func DeleteState(doc models.ScenarioData, stateID string) models.ScenarioData {
	states := make([]models.ScenarioState, 0, len(doc.States))
	for _, s := range doc.States {
		if s.ID != stateID {
			states = append(states, s)
		}
	}
	doc.States = states
	return doc
}

// NewEvent carries the caller-supplied fields of an event to be added;
// everything else is defaulted.
type NewEvent struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// DefaultVitalSigns is the clinical baseline stamped onto new events.
func DefaultVitalSigns() *models.VitalSigns {
	return &models.VitalSigns{BPSys: 120, BPDia: 80, HR: 80, RR: 16, BT: 36.5, SpO2: 98}
}

// AddEvents appends events to the named state. The role defaults to the
// first existing role when roleID is empty; with no roles at all the role id
// becomes "unknown", which the model tolerates as a dangling reference.
func AddEvents(doc models.ScenarioData, stateID string, items []NewEvent, roleID string) models.ScenarioData {
	if roleID == "" {
		if len(doc.Roles) > 0 {
			roleID = doc.Roles[0].ID
		} else {
			roleID = "unknown"
		}
	}

	events := make([]models.Event, len(items))
	for i, item := range items {
		events[i] = models.Event{
			ID:            newIndexedID("evt", i),
			RoleID:        roleID,
			Title:         item.Title,
			Description:   item.Description,
			TriggerType:   models.TriggerImmediate,
			Todos:         []models.Todo{},
			VitalSigns:    DefaultVitalSigns(),
			Consciousness: "E4V5M6",
		}
	}

	return mapState(doc, stateID, func(s models.ScenarioState) models.ScenarioState {
		merged := make([]models.Event, 0, len(s.Events)+len(events))
		merged = append(merged, s.Events...)
		merged = append(merged, events...)
		s.Events = merged
		return s
	})
}

// EventPatch is a partial event update; nil fields are left untouched.
type EventPatch struct {
	RoleID            *string               `json:"role_id,omitempty"`
	Title             *string               `json:"title,omitempty"`
	Description       *string               `json:"description,omitempty"`
	TriggerType       *models.TriggerType   `json:"trigger_type,omitempty"`
	TriggerValue      *string               `json:"trigger_value,omitempty"`
	TimeLimit         *int                  `json:"time_limit,omitempty"`
	OnAllTodosSuccess *string               `json:"on_all_todos_success,omitempty"`
	OnTimeLimitFail   *string               `json:"on_time_limit_fail,omitempty"`
	VitalSigns        *models.VitalSigns    `json:"vital_signs,omitempty"`
	Consciousness     *string               `json:"consciousness,omitempty"`
	Dialogues         []models.DialogueItem `json:"dialogues,omitempty"`
}

func (p EventPatch) apply(e models.Event) models.Event {
	if p.RoleID != nil {
		e.RoleID = *p.RoleID
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.TriggerType != nil {
		e.TriggerType = *p.TriggerType
	}
	if p.TriggerValue != nil {
		e.TriggerValue = *p.TriggerValue
	}
	if p.TimeLimit != nil {
		e.TimeLimit = *p.TimeLimit
	}
	if p.OnAllTodosSuccess != nil {
		e.OnAllTodosSuccess = *p.OnAllTodosSuccess
	}
	if p.OnTimeLimitFail != nil {
		e.OnTimeLimitFail = *p.OnTimeLimitFail
	}
	if p.VitalSigns != nil {
		v := *p.VitalSigns
		e.VitalSigns = &v
	}
	if p.Consciousness != nil {
		e.Consciousness = *p.Consciousness
	}
	if p.Dialogues != nil {
		e.Dialogues = p.Dialogues
	}
	return e
}

// UpdateEvent shallow-merges the patch into the named event.
func UpdateEvent(doc models.ScenarioData, stateID, eventID string, patch EventPatch) models.ScenarioData {
	return mapEvent(doc, stateID, eventID, patch.apply)
}

// DeleteEvent removes the event from its state. References to it from other
// events' trigger values are not repaired.
func DeleteEvent(doc models.ScenarioData, stateID, eventID string) models.ScenarioData {
	return mapState(doc, stateID, func(s models.ScenarioState) models.ScenarioState {
		events := make([]models.Event, 0, len(s.Events))
		for _, e := range s.Events {
			if e.ID != eventID {
				events = append(events, e)
			}
		}
		s.Events = events
		return s
	})
}

// NewTask carries the caller-supplied fields of a task to be added.
type NewTask struct {
	Content string          `json:"content"`
	Type    models.TaskType `json:"type"`
}

// AddTodos appends tasks to the named event. The type defaults to "todo".
func AddTodos(doc models.ScenarioData, stateID, eventID string, items []NewTask) models.ScenarioData {
	todos := make([]models.Todo, len(items))
	for i, item := range items {
		typ := item.Type
		if typ == "" {
			typ = models.TaskTodo
		}
		todos[i] = models.Todo{
			ID:      newIndexedID("task", i),
			Content: item.Content,
			Type:    typ,
		}
	}

	return mapEvent(doc, stateID, eventID, func(e models.Event) models.Event {
		merged := make([]models.Todo, 0, len(e.Todos)+len(todos))
		merged = append(merged, e.Todos...)
		merged = append(merged, todos...)
		e.Todos = merged
		return e
	})
}

// TodoPatch is a partial task update; nil fields are left untouched.
type TodoPatch struct {
	Content        *string          `json:"content,omitempty"`
	Type           *models.TaskType `json:"type,omitempty"`
	TimeLimit      *int             `json:"time_limit,omitempty"`
	SuccessStateID *string          `json:"success_state_id,omitempty"`
	FailStateID    *string          `json:"fail_state_id,omitempty"`
}

func (p TodoPatch) apply(t models.Todo) models.Todo {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.TimeLimit != nil {
		t.TimeLimit = *p.TimeLimit
	}
	if p.SuccessStateID != nil {
		t.SuccessStateID = *p.SuccessStateID
	}
	if p.FailStateID != nil {
		t.FailStateID = *p.FailStateID
	}
	return t
}

// UpdateTodo shallow-merges the patch into the named task.
func UpdateTodo(doc models.ScenarioData, stateID, eventID, todoID string, patch TodoPatch) models.ScenarioData {
	return mapEvent(doc, stateID, eventID, func(e models.Event) models.Event {
		todos := make([]models.Todo, len(e.Todos))
		for i, t := range e.Todos {
			if t.ID == todoID {
				todos[i] = patch.apply(t)
			} else {
				todos[i] = t
			}
		}
		e.Todos = todos
		return e
	})
}

// DeleteTodo removes the task from its event.
func DeleteTodo(doc models.ScenarioData, stateID, eventID, todoID string) models.ScenarioData {
	return mapEvent(doc, stateID, eventID, func(e models.Event) models.Event {
		todos := make([]models.Todo, 0, len(e.Todos))
		for _, t := range e.Todos {
			if t.ID != todoID {
				todos = append(todos, t)
			}
		}
		e.Todos = todos
		return e
	})
}

// NewRole carries the caller-supplied fields of a role to be added.
type NewRole struct {
	Name string          `json:"name"`
	Type models.RoleType `json:"type"`
}

// AddRoles appends roles, defaulting the type to Other and stamping the
// display color for the type.
func AddRoles(doc models.ScenarioData, items []NewRole) models.ScenarioData {
	roles := make([]models.Role, 0, len(doc.Roles)+len(items))
	roles = append(roles, doc.Roles...)
	for i, item := range items {
		typ := item.Type
		if typ == "" {
			typ = models.RoleOther
		}
		roles = append(roles, models.Role{
			ID:    newIndexedID("role", i),
			Name:  item.Name,
			Type:  typ,
			Color: RoleColor(typ),
		})
	}
	doc.Roles = roles
	return doc
}

// DeleteRole removes the role. Events referencing it keep their RoleID and
// render a "no role" fallback — deletion does not cascade.
func DeleteRole(doc models.ScenarioData, roleID string) models.ScenarioData {
	roles := make([]models.Role, 0, len(doc.Roles))
	for _, r := range doc.Roles {
		if r.ID != roleID {
			roles = append(roles, r)
		}
	}
	doc.Roles = roles
	return doc
}

// SetDefaultRole moves the role to the front of the list. List order is the
// only representation of the default role; there is no separate flag.
func SetDefaultRole(doc models.ScenarioData, roleID string) models.ScenarioData {
	var chosen *models.Role
	for i := range doc.Roles {
		if doc.Roles[i].ID == roleID {
			chosen = &doc.Roles[i]
			break
		}
	}
	if chosen == nil {
		return doc
	}
	roles := make([]models.Role, 0, len(doc.Roles))
	roles = append(roles, *chosen)
	for _, r := range doc.Roles {
		if r.ID != roleID {
			roles = append(roles, r)
		}
	}
	doc.Roles = roles
	return doc
}

// SetEnvironmentMap switches the scenario's map.
func SetEnvironmentMap(doc models.ScenarioData, mapID string) models.ScenarioData {
	doc.Environment.MapID = mapID
	return doc
}

// ToggleEnvironmentItem adds the item to the environment's available list,
// or removes it when already present.
func ToggleEnvironmentItem(doc models.ScenarioData, itemID string) models.ScenarioData {
	current := doc.Environment.AvailableItemIDs
	next := make([]string, 0, len(current)+1)
	found := false
	for _, id := range current {
		if id == itemID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, itemID)
	}
	doc.Environment.AvailableItemIDs = next
	return doc
}
