// internal/services/catalog_service.go
package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	apperrors "github.com/meditrain/simstudio/internal/errors"
	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/presets"
	"github.com/meditrain/simstudio/internal/storage"
	"github.com/meditrain/simstudio/internal/utils"
)

const catalogFile = "catalog.json"

// CatalogService manages the supply catalog: the built-in items every
// scenario can place, plus user-created custom supplies persisted alongside
// the scenario data.
type CatalogService struct {
	store  *storage.FileStorage
	logger *utils.Logger

	mu     sync.RWMutex
	custom []models.StorageItem
}

// NewCatalogService loads any previously saved custom supplies.
func NewCatalogService(store *storage.FileStorage) *CatalogService {
	s := &CatalogService{store: store, logger: utils.GetLogger()}

	if store.FileExists("catalog", catalogFile) {
		if err := store.LoadJSON("catalog", catalogFile, &s.custom); err != nil {
			s.logger.Warnf("load custom catalog: %v", err)
		}
	}
	return s
}

// List returns the full catalog: built-in items first, then custom ones.
func (s *CatalogService) List() []models.StorageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.StorageItem, 0, len(presets.InitialSupplyDatabase)+len(s.custom))
	items = append(items, presets.InitialSupplyDatabase...)
	items = append(items, s.custom...)
	return items
}

// ListByCategory filters the catalog by category.
func (s *CatalogService) ListByCategory(category models.ItemCategory) []models.StorageItem {
	var items []models.StorageItem
	for _, item := range s.List() {
		if item.Category == category {
			items = append(items, item)
		}
	}
	return items
}

// Find resolves a catalog item by id.
func (s *CatalogService) Find(id string) (models.StorageItem, bool) {
	for _, item := range s.List() {
		if item.ID == id {
			return item, true
		}
	}
	return models.StorageItem{}, false
}

// NewCustomSupply carries the fields of a user-created supply.
type NewCustomSupply struct {
	Name        string            `json:"name"`
	Category    models.ItemCategory `json:"category"`
	SubCategory string            `json:"sub_category"`
	Attributes  map[string]string `json:"attributes"`
	Width       float64           `json:"width"`
	Height      float64           `json:"height"`
	ImageURL    string            `json:"image_url"`
}

// CreateCustom adds a custom supply to the catalog and persists it. The
// footprint defaults to 50x50 when unset.
func (s *CatalogService) CreateCustom(input NewCustomSupply) (models.StorageItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.StorageItem{}, apperrors.NewValidationError("supply name is required", nil)
	}
	if input.Width < 0 || input.Height < 0 {
		return models.StorageItem{}, apperrors.NewValidationError("supply footprint must not be negative", nil)
	}

	category := input.Category
	if category == "" {
		category = models.CategorySupply
	}
	width, height := input.Width, input.Height
	if width == 0 {
		width = 50
	}
	if height == 0 {
		height = 50
	}

	item := models.StorageItem{
		ID:          "custom-" + uuid.NewString(),
		Name:        input.Name,
		Category:    category,
		SubCategory: input.SubCategory,
		Attributes:  input.Attributes,
		Width:       width,
		Height:      height,
		ImageURL:    input.ImageURL,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = append(s.custom, item)
	if err := s.store.SaveJSON("catalog", catalogFile, s.custom); err != nil {
		s.custom = s.custom[:len(s.custom)-1]
		return models.StorageItem{}, apperrors.NewProcessingError("failed to save catalog", err)
	}
	return item, nil
}

// DeleteCustom removes a custom supply. Built-in items cannot be deleted.
func (s *CatalogService) DeleteCustom(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.custom {
		if item.ID == id {
			s.custom = append(s.custom[:i], s.custom[i+1:]...)
			if err := s.store.SaveJSON("catalog", catalogFile, s.custom); err != nil {
				return apperrors.NewProcessingError("failed to save catalog", err)
			}
			return nil
		}
	}
	return apperrors.NewNotFoundError(fmt.Sprintf("custom supply %s not found", id), nil)
}
