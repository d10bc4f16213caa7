// internal/placement/drag.go
package placement

import (
	"github.com/meditrain/simstudio/internal/geom"
	"github.com/meditrain/simstudio/internal/models"
)

// DragState captures a drag in progress: the item being moved and the
// pointer's offset from its top-left corner, both in container coordinates.
// Pointer-up (or the pointer leaving the container) discards it; whatever
// position was last applied stays, since moves are written incrementally.
type DragState struct {
	ItemUID string  `json:"item_uid"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// BeginDrag starts a drag of item at the given pointer position.
func BeginDrag(item models.PlacedItem, pointerX, pointerY float64) DragState {
	return DragState{
		ItemUID: item.UID,
		OffsetX: pointerX - item.X,
		OffsetY: pointerY - item.Y,
	}
}

// MoveResult reports the position a move resolved to and whether it overlaps
// another item. Collision is advisory: the move is applied either way and
// the flag only drives visual feedback.
type MoveResult struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Colliding bool    `json:"colliding"`
}

// MoveItem applies one pointer-move of an active drag: new top-left is the
// pointer minus the captured offset, snapped to the grid and clamped to the
// container using the item's rotated footprint, then collision-checked
// against the section's active set. A stale drag (item no longer present)
// leaves the document unchanged.
func MoveItem(doc models.ScenarioData, containerID, sectionID string, drag DragState, pointerX, pointerY, containerW, containerH float64) (models.ScenarioData, MoveResult) {
	section, ok := findSection(doc, containerID, sectionID)
	if !ok {
		return doc, MoveResult{}
	}
	items := section.ActiveSet().Items

	var moving models.PlacedItem
	found := false
	for _, item := range items {
		if item.UID == drag.ItemUID {
			moving = item
			found = true
			break
		}
	}
	if !found {
		return doc, MoveResult{}
	}

	w, h := geom.RotatedDimensions(moving.Width, moving.Height, moving.Rotation)
	x := geom.Snap(pointerX-drag.OffsetX, GridStep)
	y := geom.Snap(pointerY-drag.OffsetY, GridStep)
	x = geom.Clamp(x, 0, containerW-w)
	y = geom.Clamp(y, 0, containerH-h)

	result := MoveResult{
		X:         x,
		Y:         y,
		Colliding: CheckCollision(drag.ItemUID, x, y, moving.Width, moving.Height, moving.Rotation, items),
	}

	doc = UpdatePlacedItem(doc, containerID, sectionID, drag.ItemUID, PlacedItemPatch{X: &x, Y: &y})
	return doc, result
}

func findSection(doc models.ScenarioData, containerID, sectionID string) (models.StorageSection, bool) {
	for _, s := range doc.Environment.StorageSetup[containerID] {
		if s.ID == sectionID {
			return s, true
		}
	}
	return models.StorageSection{}, false
}
