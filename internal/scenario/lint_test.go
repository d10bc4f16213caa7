// internal/scenario/lint_test.go
package scenario

import (
	"testing"

	"github.com/meditrain/simstudio/internal/models"
)

func findingsByKind(fs []Finding) map[string]int {
	m := map[string]int{}
	for _, f := range fs {
		m[f.Kind]++
	}
	return m
}

func TestLintCleanDocument(t *testing.T) {
	if fs := Lint(fixtureDoc()); len(fs) != 0 {
		t.Errorf("clean document produced findings: %+v", fs)
	}
}

func TestLintDanglingRole(t *testing.T) {
	doc := DeleteRole(fixtureDoc(), "r1")
	fs := Lint(doc)
	if got := findingsByKind(fs)["dangling_role"]; got != 1 {
		t.Fatalf("dangling_role findings = %d, want 1: %+v", got, fs)
	}
	f := fs[0]
	if f.StateID != "s1" || f.EventID != "e1" || f.Target != "r1" {
		t.Errorf("finding = %+v", f)
	}
}

func TestLintDanglingStateTargets(t *testing.T) {
	doc := fixtureDoc()
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{OnAllTodosSuccess: ptr("s2"), OnTimeLimitFail: ptr("s2")})
	doc = UpdateTodo(doc, "s1", "e1", "t2", TodoPatch{SuccessStateID: ptr("s2")})
	doc = DeleteState(doc, "s2")

	fs := Lint(doc)
	if got := findingsByKind(fs)["dangling_state"]; got != 3 {
		t.Fatalf("dangling_state findings = %d, want 3: %+v", got, fs)
	}
	fields := map[string]bool{}
	for _, f := range fs {
		fields[f.Field] = true
		if f.Target != "s2" {
			t.Errorf("target = %q, want s2", f.Target)
		}
	}
	for _, field := range []string{"on_all_todos_success", "on_time_limit_fail", "success_state_id"} {
		if !fields[field] {
			t.Errorf("missing finding for field %q", field)
		}
	}
}

func TestLintDanglingEventTrigger(t *testing.T) {
	doc := fixtureDoc()
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{
		TriggerType:  ptrTrigger(models.TriggerEvent),
		TriggerValue: ptr("e99"),
	})
	fs := Lint(doc)
	if got := findingsByKind(fs)["dangling_event"]; got != 1 {
		t.Fatalf("dangling_event findings = %d, want 1: %+v", got, fs)
	}

	// A trigger naming an event in another state is also dangling: trigger
	// scope is the enclosing state.
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{TriggerValue: ptr("e2")})
	fs = Lint(doc)
	if got := findingsByKind(fs)["dangling_event"]; got != 1 {
		t.Errorf("cross-state trigger findings = %d, want 1: %+v", got, fs)
	}
}

func TestLintIgnoresTimeTriggers(t *testing.T) {
	doc := fixtureDoc()
	doc = UpdateEvent(doc, "s1", "e1", EventPatch{
		TriggerType:  ptrTrigger(models.TriggerTime),
		TriggerValue: ptr("30"),
	})
	if fs := Lint(doc); len(fs) != 0 {
		t.Errorf("time trigger produced findings: %+v", fs)
	}
}
