// internal/scenario/document_test.go
package scenario

import (
	"testing"

	"github.com/meditrain/simstudio/internal/models"
)

func fixtureDoc() models.ScenarioData {
	return models.ScenarioData{
		Roles: []models.Role{
			{ID: "r1", Name: "책임 간호사", Type: models.RoleNurse},
			{ID: "r2", Name: "응급의학과 의사", Type: models.RoleDoctor},
		},
		States: []models.ScenarioState{
			{
				ID:    "s1",
				Title: "초기 평가",
				Events: []models.Event{
					{
						ID:          "e1",
						RoleID:      "r1",
						Title:       "환자 도착",
						TriggerType: models.TriggerImmediate,
						Todos: []models.Todo{
							{ID: "t1", Content: "활력 징후 측정", Type: models.TaskTodo},
							{ID: "t2", Content: "제세동 여부 판단", Type: models.TaskDecision},
						},
					},
				},
			},
			{
				ID:    "s2",
				Title: "상태 악화",
				Events: []models.Event{
					{ID: "e2", RoleID: "r2", Title: "의사 호출", TriggerType: models.TriggerImmediate},
				},
			},
		},
	}
}

func findState(t *testing.T, doc models.ScenarioData, id string) models.ScenarioState {
	t.Helper()
	s, ok := doc.FindState(id)
	if !ok {
		t.Fatalf("state %q not found", id)
	}
	return s
}

func TestAddState(t *testing.T) {
	doc := fixtureDoc()
	out := AddState(doc)

	if len(out.States) != 3 {
		t.Fatalf("states = %d, want 3", len(out.States))
	}
	added := out.States[2]
	if added.ID == "" || added.ID == "s1" || added.ID == "s2" {
		t.Errorf("new state id = %q, want fresh", added.ID)
	}
	if added.Title != "새 단계" {
		t.Errorf("title = %q", added.Title)
	}
	if added.Events == nil || len(added.Events) != 0 {
		t.Errorf("events = %#v, want empty non-nil", added.Events)
	}
	if len(doc.States) != 2 {
		t.Errorf("input mutated, states = %d", len(doc.States))
	}
}

func TestUpdateStateTitle(t *testing.T) {
	doc := fixtureDoc()
	out := UpdateStateTitle(doc, "s2", "심정지")
	if got := findState(t, out, "s2").Title; got != "심정지" {
		t.Errorf("title = %q", got)
	}
	if got := findState(t, doc, "s2").Title; got != "상태 악화" {
		t.Errorf("input mutated, title = %q", got)
	}

	// Unknown id is a silent no-op.
	out = UpdateStateTitle(doc, "missing", "x")
	if len(out.States) != 2 {
		t.Errorf("no-op changed state count to %d", len(out.States))
	}
}

func TestDeleteStateKeepsDanglingReferences(t *testing.T) {
	doc := fixtureDoc()
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{OnTimeLimitFail: ptr("s2")})

	out := DeleteState(doc, "s2")
	if len(out.States) != 1 || out.States[0].ID != "s1" {
		t.Fatalf("states after delete: %+v", out.States)
	}
	// The transition that pointed at s2 survives as a dangling reference.
	if got := out.States[0].Events[0].OnTimeLimitFail; got != "s2" {
		t.Errorf("on_time_limit_fail = %q, want dangling s2", got)
	}
}

func TestAddEventsDefaults(t *testing.T) {
	doc := fixtureDoc()
	out := AddEvents(doc, "s2", []NewEvent{{Title: "기관 삽관", Description: "기도 확보"}}, "")

	events := findState(t, out, "s2").Events
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	e := events[1]
	if e.RoleID != "r1" {
		t.Errorf("role defaulted to %q, want first role r1", e.RoleID)
	}
	if e.TriggerType != models.TriggerImmediate {
		t.Errorf("trigger = %q", e.TriggerType)
	}
	if e.Consciousness != "E4V5M6" {
		t.Errorf("consciousness = %q", e.Consciousness)
	}
	if e.VitalSigns == nil || e.VitalSigns.BPSys != 120 || e.VitalSigns.SpO2 != 98 {
		t.Errorf("vital signs = %+v", e.VitalSigns)
	}
	if e.Todos == nil || len(e.Todos) != 0 {
		t.Errorf("todos = %#v, want empty non-nil", e.Todos)
	}
}

func TestAddEventsWithoutRoles(t *testing.T) {
	doc := fixtureDoc()
	doc.Roles = nil
	out := AddEvents(doc, "s1", []NewEvent{{Title: "x"}}, "")
	events := findState(t, out, "s1").Events
	if got := events[len(events)-1].RoleID; got != "unknown" {
		t.Errorf("role id = %q, want unknown", got)
	}
}

func TestAddEventsDistinctIDs(t *testing.T) {
	doc := fixtureDoc()
	out := AddEvents(doc, "s1", []NewEvent{{Title: "a"}, {Title: "b"}, {Title: "c"}}, "r2")

	seen := map[string]bool{}
	for _, e := range findState(t, out, "s1").Events {
		if seen[e.ID] {
			t.Fatalf("duplicate event id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestUpdateEventPartialMerge(t *testing.T) {
	doc := fixtureDoc()
	out := UpdateEvent(doc, "s1", "e1", EventPatch{
		Title:        ptr("환자 재평가"),
		TriggerType:  ptrTrigger(models.TriggerEvent),
		TriggerValue: ptr("e9"),
	})

	e, _, _ := out.FindEvent("e1")
	if e.Title != "환자 재평가" || e.TriggerType != models.TriggerEvent || e.TriggerValue != "e9" {
		t.Errorf("patched event = %+v", e)
	}
	if e.RoleID != "r1" || len(e.Todos) != 2 {
		t.Errorf("unpatched fields changed: %+v", e)
	}
}

func TestDeleteEventLeavesSiblingsShared(t *testing.T) {
	doc := fixtureDoc()
	out := DeleteEvent(doc, "s1", "e1")

	if got := len(findState(t, out, "s1").Events); got != 0 {
		t.Fatalf("events after delete = %d", got)
	}
	// The untouched state keeps its original slice.
	before := findState(t, doc, "s2")
	after := findState(t, out, "s2")
	if len(after.Events) != 1 {
		t.Fatalf("sibling state altered: %+v", after)
	}
	if after.Events[0].ID != before.Events[0].ID {
		t.Errorf("sibling event changed: %q vs %q", after.Events[0].ID, before.Events[0].ID)
	}
}

func TestAddTodosDefaultsType(t *testing.T) {
	doc := fixtureDoc()
	out := AddTodos(doc, "s1", "e1", []NewTask{
		{Content: "산소 공급"},
		{Content: "CPR 중단 금지", Type: models.TaskMustNot},
	})

	e, _, _ := out.FindEvent("e1")
	if len(e.Todos) != 4 {
		t.Fatalf("todos = %d, want 4", len(e.Todos))
	}
	if e.Todos[2].Type != models.TaskTodo {
		t.Errorf("type defaulted to %q, want todo", e.Todos[2].Type)
	}
	if e.Todos[3].Type != models.TaskMustNot {
		t.Errorf("explicit type = %q", e.Todos[3].Type)
	}
	if e.Todos[2].ID == e.Todos[3].ID {
		t.Error("batch-added todos share an id")
	}
}

func TestUpdateAndDeleteTodo(t *testing.T) {
	doc := fixtureDoc()
	out := UpdateTodo(doc, "s1", "e1", "t2", TodoPatch{
		SuccessStateID: ptr("s2"),
		TimeLimit:      ptrInt(60),
	})
	e, _, _ := out.FindEvent("e1")
	if e.Todos[1].SuccessStateID != "s2" || e.Todos[1].TimeLimit != 60 {
		t.Errorf("patched todo = %+v", e.Todos[1])
	}
	if e.Todos[0].Content != "활력 징후 측정" {
		t.Errorf("sibling todo changed: %+v", e.Todos[0])
	}

	out = DeleteTodo(out, "s1", "e1", "t1")
	e, _, _ = out.FindEvent("e1")
	if len(e.Todos) != 1 || e.Todos[0].ID != "t2" {
		t.Errorf("todos after delete: %+v", e.Todos)
	}
}

func TestAddRolesStampsColor(t *testing.T) {
	doc := fixtureDoc()
	out := AddRoles(doc, []NewRole{{Name: "보호자", Type: models.RoleFamily}, {Name: "실습생"}})

	if len(out.Roles) != 4 {
		t.Fatalf("roles = %d, want 4", len(out.Roles))
	}
	family := out.Roles[2]
	if family.Color != RoleColor(models.RoleFamily) {
		t.Errorf("color = %q", family.Color)
	}
	fallback := out.Roles[3]
	if fallback.Type != models.RoleOther {
		t.Errorf("type defaulted to %q, want other", fallback.Type)
	}
}

func TestDeleteRoleDoesNotCascade(t *testing.T) {
	doc := fixtureDoc()
	out := DeleteRole(doc, "r1")

	if len(out.Roles) != 1 || out.Roles[0].ID != "r2" {
		t.Fatalf("roles after delete: %+v", out.Roles)
	}
	e, _, _ := out.FindEvent("e1")
	if e.RoleID != "r1" {
		t.Errorf("event role id = %q, want dangling r1", e.RoleID)
	}
}

func TestSetDefaultRoleMovesToFront(t *testing.T) {
	doc := fixtureDoc()
	out := SetDefaultRole(doc, "r2")

	if out.Roles[0].ID != "r2" || out.Roles[1].ID != "r1" {
		t.Errorf("role order: %+v", out.Roles)
	}
	// Unknown id leaves the order alone.
	out = SetDefaultRole(doc, "missing")
	if out.Roles[0].ID != "r1" {
		t.Errorf("no-op reordered roles: %+v", out.Roles)
	}
}

func TestToggleEnvironmentItem(t *testing.T) {
	doc := fixtureDoc()
	doc.Environment.AvailableItemIDs = []string{"monitor", "defib"}

	out := ToggleEnvironmentItem(doc, "iv_pump")
	if got := out.Environment.AvailableItemIDs; len(got) != 3 || got[2] != "iv_pump" {
		t.Errorf("after add: %v", got)
	}
	out = ToggleEnvironmentItem(out, "monitor")
	if got := out.Environment.AvailableItemIDs; len(got) != 2 || got[0] != "defib" {
		t.Errorf("after remove: %v", got)
	}
}

// TestSeedScenarioWalk runs the editing sequence a fresh studio session
// performs: grow the graph by one state, populate it, then delete the
// original first state and verify the document stays coherent.
func TestSeedScenarioWalk(t *testing.T) {
	doc := fixtureDoc()

	doc = AddState(doc)
	newStateID := doc.States[2].ID

	doc = AddEvents(doc, newStateID, []NewEvent{{Title: "처치 시작"}}, "")
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{OnAllTodosSuccess: &newStateID})

	doc = DeleteState(doc, "s1")
	if len(doc.States) != 2 {
		t.Fatalf("states = %d, want 2", len(doc.States))
	}
	if _, ok := doc.FindState("s1"); ok {
		t.Error("deleted state still present")
	}
	st := findState(t, doc, newStateID)
	if len(st.Events) != 1 || st.Events[0].Title != "처치 시작" {
		t.Errorf("new state events: %+v", st.Events)
	}
}

func ptr(s string) *string                          { return &s }
func ptrInt(n int) *int                             { return &n }
func ptrTrigger(t models.TriggerType) *models.TriggerType { return &t }
