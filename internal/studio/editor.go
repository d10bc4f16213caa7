// internal/studio/editor.go

// Package studio holds the editor session: one scenario document plus the
// ephemeral editing state around it (selection, highlight pinning, drag).
// A session is created when a studio client opens a scenario and discarded
// when it closes; nothing here is process-global.
package studio

import (
	"sync"

	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/placement"
	"github.com/meditrain/simstudio/internal/scenario"
)

// EventSelection identifies the event currently open in a side panel.
type EventSelection struct {
	StateID string `json:"state_id"`
	EventID string `json:"event_id"`
}

// TodoSelection identifies the task currently open in a side panel.
type TodoSelection struct {
	StateID string `json:"state_id"`
	EventID string `json:"event_id"`
	TodoID  string `json:"todo_id"`
}

// Session owns one scenario document for the lifetime of an editing
// session. Every mutation goes through the pure operations and replaces the
// document wholesale; the session only adds selection bookkeeping on top.
type Session struct {
	mu sync.Mutex

	doc models.ScenarioData

	editingEvent    *EventSelection
	editingTodo     *TodoSelection
	editingDialogue *EventSelection

	highlights      scenario.TargetSet
	highlightLocked bool

	drag       *placement.DragState
	dragTarget dragTarget
	collisions map[string]bool
}

type dragTarget struct {
	containerID string
	sectionID   string
}

// NewSession starts a session over doc.
func NewSession(doc models.ScenarioData) *Session {
	return &Session{
		doc:        doc,
		highlights: scenario.TargetSet{},
		collisions: map[string]bool{},
	}
}

// Document returns the current document snapshot.
func (s *Session) Document() models.ScenarioData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Replace swaps in a new document (load, undo) and resets all ephemeral
// state, since selections from the old document may not resolve anymore.
func (s *Session) Replace(doc models.ScenarioData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.editingEvent = nil
	s.editingTodo = nil
	s.editingDialogue = nil
	s.highlights = scenario.TargetSet{}
	s.highlightLocked = false
	s.clearDragLocked()
}

// apply runs a pure document operation under the session lock.
func (s *Session) apply(fn func(models.ScenarioData) models.ScenarioData) models.ScenarioData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = fn(s.doc)
	return s.doc
}

// --- document operations ---

func (s *Session) AddState() models.ScenarioData {
	return s.apply(scenario.AddState)
}

func (s *Session) UpdateStateTitle(stateID, title string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.UpdateStateTitle(d, stateID, title)
	})
}

func (s *Session) DeleteState(stateID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.DeleteState(d, stateID)
	})
}

func (s *Session) AddEvents(stateID string, items []scenario.NewEvent, roleID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.AddEvents(d, stateID, items, roleID)
	})
}

// UpdateEvent merges the patch and keeps an open side panel pointed at the
// fresh event value.
func (s *Session) UpdateEvent(stateID, eventID string, patch scenario.EventPatch) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.UpdateEvent(d, stateID, eventID, patch)
	})
}

// DeleteEvent removes the event; if it was open for editing the selection is
// cleared so the panel closes.
func (s *Session) DeleteEvent(stateID, eventID string) models.ScenarioData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = scenario.DeleteEvent(s.doc, stateID, eventID)
	if s.editingEvent != nil && s.editingEvent.EventID == eventID {
		s.editingEvent = nil
	}
	if s.editingDialogue != nil && s.editingDialogue.EventID == eventID {
		s.editingDialogue = nil
	}
	if s.editingTodo != nil && s.editingTodo.EventID == eventID {
		s.editingTodo = nil
	}
	return s.doc
}

func (s *Session) AddTodos(stateID, eventID string, items []scenario.NewTask) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.AddTodos(d, stateID, eventID, items)
	})
}

func (s *Session) UpdateTodo(stateID, eventID, todoID string, patch scenario.TodoPatch) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.UpdateTodo(d, stateID, eventID, todoID, patch)
	})
}

// DeleteTodo removes the task and closes its panel if it was open.
func (s *Session) DeleteTodo(stateID, eventID, todoID string) models.ScenarioData {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = scenario.DeleteTodo(s.doc, stateID, eventID, todoID)
	if s.editingTodo != nil && s.editingTodo.TodoID == todoID {
		s.editingTodo = nil
	}
	return s.doc
}

func (s *Session) AddRoles(items []scenario.NewRole) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.AddRoles(d, items)
	})
}

func (s *Session) DeleteRole(roleID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.DeleteRole(d, roleID)
	})
}

func (s *Session) SetDefaultRole(roleID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.SetDefaultRole(d, roleID)
	})
}

func (s *Session) SetEnvironmentMap(mapID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.SetEnvironmentMap(d, mapID)
	})
}

func (s *Session) ToggleEnvironmentItem(itemID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return scenario.ToggleEnvironmentItem(d, itemID)
	})
}

// --- selection ---

func (s *Session) OpenEvent(stateID, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingEvent = &EventSelection{StateID: stateID, EventID: eventID}
}

func (s *Session) OpenTodo(stateID, eventID, todoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingTodo = &TodoSelection{StateID: stateID, EventID: eventID, TodoID: todoID}
}

func (s *Session) OpenDialogue(stateID, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingDialogue = &EventSelection{StateID: stateID, EventID: eventID}
}

func (s *Session) CloseSelections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editingEvent = nil
	s.editingTodo = nil
	s.editingDialogue = nil
}

// EditingEvent returns the open event selection, nil when none.
func (s *Session) EditingEvent() *EventSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingEvent
}

// EditingTodo returns the open task selection, nil when none.
func (s *Session) EditingTodo() *TodoSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editingTodo
}

// --- highlights ---

// HoverEvent recomputes the highlight set for a hovered event unless a
// pinned highlight is active.
func (s *Session) HoverEvent(stateID, eventID string) scenario.TargetSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.highlightLocked {
		return s.highlights
	}
	if e, ok := findEvent(s.doc, stateID, eventID); ok {
		s.highlights = scenario.EventTargets(e)
	} else {
		s.highlights = scenario.TargetSet{}
	}
	return s.highlights
}

// HoverTodo recomputes the highlight set for a hovered task unless pinned.
func (s *Session) HoverTodo(stateID, eventID, todoID string) scenario.TargetSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.highlightLocked {
		return s.highlights
	}
	if t, ok := findTodo(s.doc, stateID, eventID, todoID); ok {
		s.highlights = scenario.TodoTargets(t)
	} else {
		s.highlights = scenario.TargetSet{}
	}
	return s.highlights
}

// ClearHover empties the highlight set unless pinned.
func (s *Session) ClearHover() scenario.TargetSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.highlightLocked {
		s.highlights = scenario.TargetSet{}
	}
	return s.highlights
}

// ToggleLock pins the given highlight set, or unpins and clears when
// already pinned. Pinning an empty set is a no-op, mirroring the studio
// behavior of opening the editor panel instead.
func (s *Session) ToggleLock(targets scenario.TargetSet) scenario.TargetSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.highlightLocked {
		s.highlightLocked = false
		s.highlights = scenario.TargetSet{}
		return s.highlights
	}
	if len(targets) == 0 {
		return s.highlights
	}
	s.highlightLocked = true
	s.highlights = targets
	return s.highlights
}

// Highlights returns the current highlight set and whether it is pinned.
func (s *Session) Highlights() (scenario.TargetSet, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.highlights, s.highlightLocked
}

// --- placement ---

func (s *Session) AddSupply(containerID, sectionID string, supply models.StorageItem) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.AddSupply(d, containerID, sectionID, supply)
	})
}

func (s *Session) RemoveSupply(containerID, sectionID, uid string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.RemoveSupply(d, containerID, sectionID, uid)
	})
}

func (s *Session) RotateItem(containerID, sectionID, uid string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.RotateItem(d, containerID, sectionID, uid)
	})
}

func (s *Session) ClearSection(containerID, sectionID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.ClearSection(d, containerID, sectionID)
	})
}

func (s *Session) RenameSection(containerID, sectionID, name string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.RenameSection(d, containerID, sectionID, name)
	})
}

func (s *Session) CreateSet(containerID, sectionID, name string) (models.ScenarioData, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, setID := placement.CreateSet(s.doc, containerID, sectionID, name)
	s.doc = doc
	return doc, setID
}

func (s *Session) SetActiveSet(containerID, sectionID, setID string) models.ScenarioData {
	return s.apply(func(d models.ScenarioData) models.ScenarioData {
		return placement.SetActiveSet(d, containerID, sectionID, setID)
	})
}

func (s *Session) DeleteSet(containerID, sectionID, setID string) (models.ScenarioData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := placement.DeleteSet(s.doc, containerID, sectionID, setID)
	if err != nil {
		return s.doc, err
	}
	s.doc = doc
	return doc, nil
}

// BeginDrag starts dragging the placed item under the pointer. Unknown uids
// are ignored, leaving no drag active.
func (s *Session) BeginDrag(containerID, sectionID, uid string, pointerX, pointerY float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	section, ok := findStorageSection(s.doc, containerID, sectionID)
	if !ok {
		return
	}
	for _, item := range section.ActiveSet().Items {
		if item.UID == uid {
			drag := placement.BeginDrag(item, pointerX, pointerY)
			s.drag = &drag
			s.dragTarget = dragTarget{containerID: containerID, sectionID: sectionID}
			return
		}
	}
}

// MoveDrag applies one pointer move of the active drag and records the
// advisory collision mark for the moved item. Without an active drag it is
// a no-op.
func (s *Session) MoveDrag(pointerX, pointerY, containerW, containerH float64) (models.ScenarioData, placement.MoveResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return s.doc, placement.MoveResult{}
	}
	doc, result := placement.MoveItem(s.doc, s.dragTarget.containerID, s.dragTarget.sectionID, *s.drag, pointerX, pointerY, containerW, containerH)
	s.doc = doc
	if result.Colliding {
		s.collisions[s.drag.ItemUID] = true
	} else {
		delete(s.collisions, s.drag.ItemUID)
	}
	return doc, result
}

// EndDrag finishes the drag, keeping the last applied position and clearing
// all collision marks.
func (s *Session) EndDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearDragLocked()
}

func (s *Session) clearDragLocked() {
	s.drag = nil
	s.dragTarget = dragTarget{}
	s.collisions = map[string]bool{}
}

// Colliding reports whether the item carries an advisory collision mark
// from the drag in progress.
func (s *Session) Colliding(uid string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collisions[uid]
}

func findEvent(doc models.ScenarioData, stateID, eventID string) (models.Event, bool) {
	for _, st := range doc.States {
		if st.ID != stateID {
			continue
		}
		for _, e := range st.Events {
			if e.ID == eventID {
				return e, true
			}
		}
	}
	return models.Event{}, false
}

func findTodo(doc models.ScenarioData, stateID, eventID, todoID string) (models.Todo, bool) {
	e, ok := findEvent(doc, stateID, eventID)
	if !ok {
		return models.Todo{}, false
	}
	for _, t := range e.Todos {
		if t.ID == todoID {
			return t, true
		}
	}
	return models.Todo{}, false
}

func findStorageSection(doc models.ScenarioData, containerID, sectionID string) (models.StorageSection, bool) {
	for _, s := range doc.Environment.StorageSetup[containerID] {
		if s.ID == sectionID {
			return s, true
		}
	}
	return models.StorageSection{}, false
}
