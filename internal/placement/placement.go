// internal/placement/placement.go

// Package placement manages item layout within the storage sections of a
// scenario environment: set management, placing and removing supplies, and
// the drag/rotate protocol with grid snapping and advisory collision
// detection. Like the scenario operations, everything here is a pure
// function from document to document.
package placement

import (
	"errors"

	"github.com/google/uuid"

	"github.com/meditrain/simstudio/internal/geom"
	"github.com/meditrain/simstudio/internal/models"
)

// GridStep is the snap step applied to both axes on every move.
const GridStep = 10

// ErrLastSet is returned when deleting a section's only remaining set.
var ErrLastSet = errors.New("a section must keep at least one set")

// EnsureSetsInitialized upgrades a section created before sets existed by
// wrapping its flat item list into a single default set and marking it
// active. The migration is one-way and idempotent; it also repairs a missing
// active-set pointer.
func EnsureSetsInitialized(section models.StorageSection) models.StorageSection {
	if len(section.Sets) == 0 {
		items := section.Items
		if items == nil {
			items = []models.PlacedItem{}
		}
		section.Sets = []models.StorageItemSet{{ID: "default", Name: "기본 세트", Items: items}}
		section.ActiveSetID = "default"
		section.Items = items
		return section
	}
	if section.ActiveSetID == "" {
		section.ActiveSetID = section.Sets[0].ID
	}
	return section
}

// mapSection rebuilds the storage setup with the named section passed
// through fn. The map and the container's section slice are copied;
// everything else keeps its original value.
func mapSection(doc models.ScenarioData, containerID, sectionID string, fn func(models.StorageSection) models.StorageSection) models.ScenarioData {
	setup := make(map[string][]models.StorageSection, len(doc.Environment.StorageSetup))
	for k, v := range doc.Environment.StorageSetup {
		setup[k] = v
	}

	sections := make([]models.StorageSection, len(setup[containerID]))
	for i, s := range setup[containerID] {
		if s.ID == sectionID {
			sections[i] = fn(s)
		} else {
			sections[i] = s
		}
	}
	setup[containerID] = sections
	doc.Environment.StorageSetup = setup
	return doc
}

// mapActiveSet runs fn over the item list of the section's active set,
// initializing sets first.
func mapActiveSet(doc models.ScenarioData, containerID, sectionID string, fn func([]models.PlacedItem) []models.PlacedItem) models.ScenarioData {
	return mapSection(doc, containerID, sectionID, func(section models.StorageSection) models.StorageSection {
		section = EnsureSetsInitialized(section)
		sets := make([]models.StorageItemSet, len(section.Sets))
		for i, set := range section.Sets {
			if set.ID == section.ActiveSetID {
				set.Items = fn(set.Items)
			}
			sets[i] = set
		}
		section.Sets = sets
		return section
	})
}

// CheckCollision reports whether a candidate placement of the item with the
// given uid overlaps any other item in items. Both the candidate and each
// existing item are evaluated at their rotated dimensions; the item never
// collides with itself. O(n) per query, which is fine for the tens of items
// a section holds.
func CheckCollision(uid string, x, y, w, h float64, rotation int, items []models.PlacedItem) bool {
	cw, ch := geom.RotatedDimensions(w, h, rotation)
	candidate := geom.Rect{X: x, Y: y, Width: cw, Height: ch}

	for _, item := range items {
		if item.UID == uid {
			continue
		}
		iw, ih := geom.RotatedDimensions(item.Width, item.Height, item.Rotation)
		if geom.Overlaps(candidate, geom.Rect{X: item.X, Y: item.Y, Width: iw, Height: ih}) {
			return true
		}
	}
	return false
}

// AddSupply places a catalog item into the section's active set with a fresh
// instance uid at the default position, prepended so it renders on top.
func AddSupply(doc models.ScenarioData, containerID, sectionID string, supply models.StorageItem) models.ScenarioData {
	placed := models.PlacedItem{
		StorageItem: supply,
		UID:         uuid.NewString(),
		X:           20,
		Y:           20,
		Rotation:    0,
	}
	return mapActiveSet(doc, containerID, sectionID, func(items []models.PlacedItem) []models.PlacedItem {
		next := make([]models.PlacedItem, 0, len(items)+1)
		next = append(next, placed)
		next = append(next, items...)
		return next
	})
}

// RemoveSupply deletes the placed instance with the given uid from the
// section's active set.
func RemoveSupply(doc models.ScenarioData, containerID, sectionID, uid string) models.ScenarioData {
	return mapActiveSet(doc, containerID, sectionID, func(items []models.PlacedItem) []models.PlacedItem {
		next := make([]models.PlacedItem, 0, len(items))
		for _, item := range items {
			if item.UID != uid {
				next = append(next, item)
			}
		}
		return next
	})
}

// PlacedItemPatch is a partial placement update; nil fields are untouched.
type PlacedItemPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Rotation *int     `json:"rotation,omitempty"`
}

// UpdatePlacedItem applies the patch to the placed instance with the given
// uid in the section's active set.
func UpdatePlacedItem(doc models.ScenarioData, containerID, sectionID, uid string, patch PlacedItemPatch) models.ScenarioData {
	return mapActiveSet(doc, containerID, sectionID, func(items []models.PlacedItem) []models.PlacedItem {
		next := make([]models.PlacedItem, len(items))
		for i, item := range items {
			if item.UID == uid {
				if patch.X != nil {
					item.X = *patch.X
				}
				if patch.Y != nil {
					item.Y = *patch.Y
				}
				if patch.Rotation != nil {
					item.Rotation = *patch.Rotation
				}
			}
			next[i] = item
		}
		return next
	})
}

// RotateItem advances the item's rotation by a quarter turn. Collisions the
// new footprint introduces are not resolved; the next collision query
// reports them.
func RotateItem(doc models.ScenarioData, containerID, sectionID, uid string) models.ScenarioData {
	return mapActiveSet(doc, containerID, sectionID, func(items []models.PlacedItem) []models.PlacedItem {
		next := make([]models.PlacedItem, len(items))
		for i, item := range items {
			if item.UID == uid {
				item.Rotation = (item.Rotation + 90) % 360
			}
			next[i] = item
		}
		return next
	})
}

// ClearSection wipes the active set's item list.
func ClearSection(doc models.ScenarioData, containerID, sectionID string) models.ScenarioData {
	return mapActiveSet(doc, containerID, sectionID, func([]models.PlacedItem) []models.PlacedItem {
		return []models.PlacedItem{}
	})
}

// RenameSection changes the section's display name.
func RenameSection(doc models.ScenarioData, containerID, sectionID, name string) models.ScenarioData {
	return mapSection(doc, containerID, sectionID, func(section models.StorageSection) models.StorageSection {
		section.Name = name
		return section
	})
}

// CreateSet appends a new empty set to the section and makes it active.
// The new set's id is returned for the caller.
func CreateSet(doc models.ScenarioData, containerID, sectionID, name string) (models.ScenarioData, string) {
	setID := uuid.NewString()
	doc = mapSection(doc, containerID, sectionID, func(section models.StorageSection) models.StorageSection {
		section = EnsureSetsInitialized(section)
		sets := make([]models.StorageItemSet, 0, len(section.Sets)+1)
		sets = append(sets, section.Sets...)
		sets = append(sets, models.StorageItemSet{ID: setID, Name: name, Items: []models.PlacedItem{}})
		section.Sets = sets
		section.ActiveSetID = setID
		return section
	})
	return doc, setID
}

// SetActiveSet points the section at another of its sets. An unknown set id
// is applied as-is; reads fall back to the first set, matching the tolerant
// reference policy of the rest of the document.
func SetActiveSet(doc models.ScenarioData, containerID, sectionID, setID string) models.ScenarioData {
	return mapSection(doc, containerID, sectionID, func(section models.StorageSection) models.StorageSection {
		section = EnsureSetsInitialized(section)
		section.ActiveSetID = setID
		return section
	})
}

// DeleteSet removes the named set. The section's last remaining set cannot
// be deleted; when the active set is deleted the pointer moves to the first
// survivor.
func DeleteSet(doc models.ScenarioData, containerID, sectionID, setID string) (models.ScenarioData, error) {
	var rejected error
	doc = mapSection(doc, containerID, sectionID, func(section models.StorageSection) models.StorageSection {
		section = EnsureSetsInitialized(section)
		if len(section.Sets) <= 1 {
			rejected = ErrLastSet
			return section
		}
		sets := make([]models.StorageItemSet, 0, len(section.Sets)-1)
		for _, set := range section.Sets {
			if set.ID != setID {
				sets = append(sets, set)
			}
		}
		if len(sets) == len(section.Sets) {
			// Unknown set id: nothing to delete.
			return section
		}
		section.Sets = sets
		if section.ActiveSetID == setID {
			section.ActiveSetID = sets[0].ID
		}
		return section
	})
	return doc, rejected
}
