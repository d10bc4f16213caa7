// internal/models/storage.go
package models

// ItemCategory classifies supply catalog entries.
type ItemCategory string

const (
	CategoryMedication ItemCategory = "medication"
	CategorySupply     ItemCategory = "supply"
	CategoryEquipment  ItemCategory = "equipment"
)

// StorageItem is an immutable supply catalog entry. Width and Height are the
// axis-aligned footprint in layout units at rotation 0.
type StorageItem struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Category    ItemCategory      `json:"category"`
	SubCategory string            `json:"sub_category,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	ImageURL    string            `json:"image_url,omitempty"`
}

// PlacedItem is one placed instance of a catalog item. UID is a fresh
// identity per placement — the same catalog item may be placed many times.
// X and Y are the top-left corner within the owning section's container,
// snapped to a 10-unit grid. Rotation is one of 0, 90, 180, 270.
type PlacedItem struct {
	StorageItem
	UID      string  `json:"uid"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
}

// StorageItemSet is one named stocking variant within a section.
type StorageItemSet struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Items []PlacedItem `json:"items"`
}

// StorageSection is a named compartment (shelf, drawer) of a storage-capable
// item. Items is the legacy flat list kept for documents created before sets
// existed; once initialized a section always has at least one set and
// ActiveSetID names the set all placement operations target.
type StorageSection struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Items              []PlacedItem     `json:"items"`
	BackgroundImageURL string           `json:"background_image_url,omitempty"`
	Sets               []StorageItemSet `json:"sets,omitempty"`
	ActiveSetID        string           `json:"active_set_id,omitempty"`
}

// ActiveSet returns the section's active set. For a legacy section that was
// never migrated it falls back to a synthetic set wrapping the flat item
// list, so read paths never need the migration to have run.
func (s StorageSection) ActiveSet() StorageItemSet {
	for _, set := range s.Sets {
		if set.ID == s.ActiveSetID {
			return set
		}
	}
	if len(s.Sets) > 0 {
		return s.Sets[0]
	}
	return StorageItemSet{ID: "default", Name: "기본 세트", Items: s.Items}
}
