// internal/placement/drag_test.go
package placement

import (
	"testing"

	"github.com/meditrain/simstudio/internal/models"
)

func TestBeginDragCapturesOffset(t *testing.T) {
	item := placed("a", 50, 50, 40, 20, 0)
	drag := BeginDrag(item, 60, 55)
	if drag.ItemUID != "a" || drag.OffsetX != 10 || drag.OffsetY != 5 {
		t.Errorf("drag = %+v", drag)
	}
}

func TestMoveItemSnapsToGrid(t *testing.T) {
	doc := testDoc([]models.PlacedItem{placed("a", 50, 50, 40, 20, 0)})
	drag := DragState{ItemUID: "a", OffsetX: 10, OffsetY: 5}

	out, result := MoveItem(doc, "crash_cart", "d1", drag, 93, 87, 300, 200)
	if result.X != 80 || result.Y != 80 {
		t.Fatalf("snapped to (%v,%v), want (80,80)", result.X, result.Y)
	}
	if result.Colliding {
		t.Error("lone item reported colliding")
	}
	item := activeItems(t, out, "crash_cart", "d1")[0]
	if item.X != 80 || item.Y != 80 {
		t.Errorf("applied position = (%v,%v)", item.X, item.Y)
	}
}

func TestMoveItemClampsToContainer(t *testing.T) {
	doc := testDoc([]models.PlacedItem{placed("a", 50, 50, 40, 20, 0)})
	drag := DragState{ItemUID: "a", OffsetX: 0, OffsetY: 0}

	_, result := MoveItem(doc, "crash_cart", "d1", drag, 1000, 1000, 300, 200)
	if result.X != 260 || result.Y != 180 {
		t.Errorf("clamped to (%v,%v), want (260,180)", result.X, result.Y)
	}

	_, result = MoveItem(doc, "crash_cart", "d1", drag, -100, -100, 300, 200)
	if result.X != 0 || result.Y != 0 {
		t.Errorf("clamped to (%v,%v), want (0,0)", result.X, result.Y)
	}
}

func TestMoveItemClampsWithRotatedDimensions(t *testing.T) {
	// 40x20 at rotation 90 occupies 20x40, so the right margin widens and
	// the bottom margin shrinks.
	doc := testDoc([]models.PlacedItem{placed("a", 50, 50, 40, 20, 90)})
	drag := DragState{ItemUID: "a", OffsetX: 0, OffsetY: 0}

	_, result := MoveItem(doc, "crash_cart", "d1", drag, 1000, 1000, 300, 200)
	if result.X != 280 || result.Y != 160 {
		t.Errorf("clamped to (%v,%v), want (280,160)", result.X, result.Y)
	}
}

func TestMoveItemCollisionIsAdvisory(t *testing.T) {
	doc := testDoc([]models.PlacedItem{
		placed("a", 50, 50, 40, 20, 0),
		placed("b", 100, 100, 40, 20, 0),
	})
	drag := DragState{ItemUID: "a", OffsetX: 10, OffsetY: 5}

	out, result := MoveItem(doc, "crash_cart", "d1", drag, 101, 96, 300, 200)
	if result.X != 90 || result.Y != 90 {
		t.Fatalf("position = (%v,%v), want (90,90)", result.X, result.Y)
	}
	if !result.Colliding {
		t.Error("overlap with b not reported")
	}
	// The move is applied anyway; collision only drives feedback.
	item := activeItems(t, out, "crash_cart", "d1")[0]
	if item.X != 90 || item.Y != 90 {
		t.Errorf("colliding move not applied, item at (%v,%v)", item.X, item.Y)
	}
}

func TestMoveItemStaleDrag(t *testing.T) {
	doc := testDoc([]models.PlacedItem{placed("a", 50, 50, 40, 20, 0)})
	drag := DragState{ItemUID: "gone", OffsetX: 0, OffsetY: 0}

	out, result := MoveItem(doc, "crash_cart", "d1", drag, 100, 100, 300, 200)
	if result != (MoveResult{}) {
		t.Errorf("stale drag produced %+v", result)
	}
	item := activeItems(t, out, "crash_cart", "d1")[0]
	if item.X != 50 || item.Y != 50 {
		t.Errorf("stale drag moved item to (%v,%v)", item.X, item.Y)
	}
}

func TestMoveItemUnknownSection(t *testing.T) {
	doc := testDoc([]models.PlacedItem{placed("a", 50, 50, 40, 20, 0)})
	drag := DragState{ItemUID: "a"}

	out, result := MoveItem(doc, "crash_cart", "missing", drag, 100, 100, 300, 200)
	if result != (MoveResult{}) {
		t.Errorf("unknown section produced %+v", result)
	}
	item := activeItems(t, out, "crash_cart", "d1")[0]
	if item.X != 50 || item.Y != 50 {
		t.Errorf("unknown section moved item to (%v,%v)", item.X, item.Y)
	}
}
