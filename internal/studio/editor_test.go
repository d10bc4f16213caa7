// internal/studio/editor_test.go
package studio

import (
	"testing"

	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/presets"
	"github.com/meditrain/simstudio/internal/scenario"
)

func seedSession() *Session {
	return NewSession(presets.InitialData())
}

func TestSessionMutationsReplaceDocument(t *testing.T) {
	s := seedSession()
	before := s.Document()

	s.UpdateStateTitle("state-1", "일차 평가")
	after := s.Document()

	if got, _ := after.FindState("state-1"); got.Title != "일차 평가" {
		t.Errorf("title = %q", got.Title)
	}
	if got, _ := before.FindState("state-1"); got.Title != "초기 평가" {
		t.Errorf("earlier snapshot mutated: %q", got.Title)
	}
}

func TestDeleteEventClosesItsPanels(t *testing.T) {
	s := seedSession()
	s.OpenEvent("state-1", "evt-1")
	s.OpenTodo("state-1", "evt-1", "td-1")

	s.DeleteEvent("state-1", "evt-1")
	if s.EditingEvent() != nil {
		t.Error("event panel still open after delete")
	}
	if s.EditingTodo() != nil {
		t.Error("todo panel still open after its event was deleted")
	}
}

func TestDeleteTodoClosesOnlyItsPanel(t *testing.T) {
	s := seedSession()
	s.OpenEvent("state-1", "evt-1")
	s.OpenTodo("state-1", "evt-1", "td-1")

	s.DeleteTodo("state-1", "evt-1", "td-1")
	if s.EditingTodo() != nil {
		t.Error("todo panel still open after delete")
	}
	if s.EditingEvent() == nil {
		t.Error("event panel closed by todo delete")
	}
}

func TestHoverHighlights(t *testing.T) {
	s := seedSession()

	got := s.HoverEvent("state-1", "evt-1")
	want := scenario.TargetSet{"state-2": scenario.OutcomeFail}
	if len(got) != 1 || got["state-2"] != scenario.OutcomeFail {
		t.Errorf("hover targets = %v, want %v", got, want)
	}

	got = s.ClearHover()
	if len(got) != 0 {
		t.Errorf("targets after clear = %v", got)
	}

	// Hovering something with no transitions yields an empty set.
	got = s.HoverTodo("state-1", "evt-1", "td-1")
	if len(got) != 0 {
		t.Errorf("plain todo targets = %v", got)
	}
}

func TestToggleLockPinsHighlights(t *testing.T) {
	s := seedSession()
	pinned := s.ToggleLock(scenario.TargetSet{"state-2": scenario.OutcomeFail})
	if len(pinned) != 1 {
		t.Fatalf("pinned = %v", pinned)
	}

	// Hover and clear cannot displace a pinned set.
	if got := s.HoverTodo("state-1", "evt-1", "td-1"); len(got) != 1 {
		t.Errorf("hover displaced pinned set: %v", got)
	}
	if got := s.ClearHover(); len(got) != 1 {
		t.Errorf("clear displaced pinned set: %v", got)
	}

	// Second toggle unpins and clears.
	if got := s.ToggleLock(nil); len(got) != 0 {
		t.Errorf("after unpin: %v", got)
	}
	if _, locked := s.Highlights(); locked {
		t.Error("still locked after unpin")
	}
}

func TestToggleLockIgnoresEmptySet(t *testing.T) {
	s := seedSession()
	s.ToggleLock(scenario.TargetSet{})
	if _, locked := s.Highlights(); locked {
		t.Error("empty set should not pin")
	}
}

func TestDragLifecycle(t *testing.T) {
	s := seedSession()
	s.AddSupply("crash_cart", "top", models.StorageItem{ID: "gauze", Name: "거즈", Width: 40, Height: 20})
	uid := s.Document().Environment.StorageSetup["crash_cart"][0].ActiveSet().Items[0].UID

	s.BeginDrag("crash_cart", "top", uid, 25, 25)
	doc, result := s.MoveDrag(108, 76, 300, 200)
	if result.X != 100 || result.Y != 70 {
		t.Fatalf("moved to (%v,%v), want (100,70)", result.X, result.Y)
	}
	item := doc.Environment.StorageSetup["crash_cart"][0].ActiveSet().Items[0]
	if item.X != 100 || item.Y != 70 {
		t.Errorf("applied position = (%v,%v)", item.X, item.Y)
	}

	// Without an active drag, moves are no-ops.
	s.EndDrag()
	s.MoveDrag(0, 0, 300, 200)
	after := s.Document().Environment.StorageSetup["crash_cart"][0].ActiveSet().Items[0]
	if after.X != 100 || after.Y != 70 {
		t.Errorf("move after EndDrag changed position to (%v,%v)", after.X, after.Y)
	}
}

func TestMoveDragMarksCollision(t *testing.T) {
	s := seedSession()
	s.AddSupply("crash_cart", "top", models.StorageItem{ID: "gauze", Width: 40, Height: 20})
	s.AddSupply("crash_cart", "top", models.StorageItem{ID: "tape", Width: 40, Height: 20})
	items := s.Document().Environment.StorageSetup["crash_cart"][0].ActiveSet().Items
	moving, fixed := items[0], items[1]

	// Both start at (20,20); any small move keeps them overlapping.
	s.BeginDrag("crash_cart", "top", moving.UID, 20, 20)
	_, result := s.MoveDrag(25, 25, 300, 200)
	if !result.Colliding {
		t.Error("overlapping items not marked colliding")
	}
	if !s.Colliding(moving.UID) {
		t.Error("collision mark missing")
	}
	if s.Colliding(fixed.UID) {
		t.Error("stationary item marked colliding")
	}

	// Moving clear of the other item drops the mark.
	if _, result = s.MoveDrag(200, 150, 300, 200); result.Colliding {
		t.Error("clear position still colliding")
	}
	if s.Colliding(moving.UID) {
		t.Error("collision mark not cleared")
	}

	s.EndDrag()
	if s.Colliding(moving.UID) || s.Colliding(fixed.UID) {
		t.Error("marks survive EndDrag")
	}
}

func TestBeginDragUnknownUID(t *testing.T) {
	s := seedSession()
	before := s.Document()
	s.BeginDrag("crash_cart", "top", "missing", 0, 0)
	s.MoveDrag(100, 100, 300, 200)
	after := s.Document()
	if len(after.Environment.StorageSetup["crash_cart"][0].ActiveSet().Items) !=
		len(before.Environment.StorageSetup["crash_cart"][0].ActiveSet().Items) {
		t.Error("no-drag move changed items")
	}
}

func TestReplaceResetsEphemeralState(t *testing.T) {
	s := seedSession()
	s.OpenEvent("state-1", "evt-1")
	s.ToggleLock(scenario.TargetSet{"state-2": scenario.OutcomeFail})

	s.Replace(presets.InitialData())
	if s.EditingEvent() != nil {
		t.Error("selection survived Replace")
	}
	if hl, locked := s.Highlights(); locked || len(hl) != 0 {
		t.Errorf("highlights survived Replace: %v locked=%v", hl, locked)
	}
}
