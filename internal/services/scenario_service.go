// internal/services/scenario_service.go
package services

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/meditrain/simstudio/internal/errors"
	"github.com/meditrain/simstudio/internal/metrics"
	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/placement"
	"github.com/meditrain/simstudio/internal/presets"
	"github.com/meditrain/simstudio/internal/storage"
	"github.com/meditrain/simstudio/internal/utils"
)

const scenarioFile = "scenario.json"

// Scenario is the persisted envelope around a document.
type Scenario struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	Data      models.ScenarioData `json:"data"`
}

// ScenarioService persists scenario documents as JSON files and keeps the
// sqlite index in step. All operations on one scenario serialize through the
// lock manager.
type ScenarioService struct {
	store  *storage.FileStorage
	index  *IndexService
	locks  *LockManager
	logger *utils.Logger
}

// NewScenarioService wires the service. index may be nil, in which case
// listing falls back to a directory scan.
func NewScenarioService(store *storage.FileStorage, index *IndexService, locks *LockManager) *ScenarioService {
	return &ScenarioService{
		store:  store,
		index:  index,
		locks:  locks,
		logger: utils.GetLogger(),
	}
}

func scenarioDir(id string) string {
	return "scenarios/" + id
}

// Create builds a new scenario from the seed document. A non-empty title
// overrides the seed's default.
func (s *ScenarioService) Create(ctx context.Context, title string) (*Scenario, error) {
	doc := presets.InitialData()
	if title != "" {
		doc.Metadata.Title = title
	}

	now := time.Now()
	sc := &Scenario{
		ID:        fmt.Sprintf("scenario_%d", now.UnixNano()),
		CreatedAt: now,
		UpdatedAt: now,
		Data:      doc,
	}

	err := s.locks.WithWriteLock(sc.ID, func() error {
		return s.store.SaveJSON(scenarioDir(sc.ID), scenarioFile, sc)
	})
	if err != nil {
		return nil, apperrors.NewProcessingError("failed to create scenario", err)
	}

	s.reindex(ctx, sc)
	s.logger.Infof("created scenario %s", sc.ID)
	return sc, nil
}

// Get loads a scenario. Storage sections written before item sets existed
// are migrated to the set model on the way out, so every caller sees the
// current shape.
func (s *ScenarioService) Get(ctx context.Context, id string) (*Scenario, error) {
	var sc Scenario
	err := s.locks.WithReadLock(id, func() error {
		if !s.store.FileExists(scenarioDir(id), scenarioFile) {
			return apperrors.NewNotFoundError(fmt.Sprintf("scenario %s not found", id), nil)
		}
		return s.store.LoadJSON(scenarioDir(id), scenarioFile, &sc)
	})
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, err
		}
		return nil, apperrors.NewProcessingError(fmt.Sprintf("failed to load scenario %s", id), err)
	}

	sc.Data = migrateStorageSections(sc.Data)
	return &sc, nil
}

// migrateStorageSections applies the lazy set migration to every section of
// every storage container.
func migrateStorageSections(doc models.ScenarioData) models.ScenarioData {
	if len(doc.Environment.StorageSetup) == 0 {
		return doc
	}
	setup := make(map[string][]models.StorageSection, len(doc.Environment.StorageSetup))
	for containerID, sections := range doc.Environment.StorageSetup {
		migrated := make([]models.StorageSection, len(sections))
		for i, section := range sections {
			migrated[i] = placement.EnsureSetsInitialized(section)
		}
		setup[containerID] = migrated
	}
	doc.Environment.StorageSetup = setup
	return doc
}

// Save replaces the scenario's document and bumps its timestamp.
func (s *ScenarioService) Save(ctx context.Context, id string, doc models.ScenarioData) (*Scenario, error) {
	var sc Scenario
	err := s.locks.WithWriteLock(id, func() error {
		if !s.store.FileExists(scenarioDir(id), scenarioFile) {
			return apperrors.NewNotFoundError(fmt.Sprintf("scenario %s not found", id), nil)
		}
		if err := s.store.LoadJSON(scenarioDir(id), scenarioFile, &sc); err != nil {
			return err
		}
		sc.Data = doc
		sc.UpdatedAt = time.Now()
		return s.store.SaveJSON(scenarioDir(id), scenarioFile, &sc)
	})
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return nil, err
		}
		return nil, apperrors.NewProcessingError(fmt.Sprintf("failed to save scenario %s", id), err)
	}

	metrics.ScenariosSaved.Inc()
	s.reindex(ctx, &sc)
	return &sc, nil
}

// Delete removes the scenario's directory and its index entry.
func (s *ScenarioService) Delete(ctx context.Context, id string) error {
	err := s.locks.WithWriteLock(id, func() error {
		if !s.store.DirExists(scenarioDir(id)) {
			return apperrors.NewNotFoundError(fmt.Sprintf("scenario %s not found", id), nil)
		}
		return s.store.DeleteDir(scenarioDir(id))
	})
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			return err
		}
		return apperrors.NewProcessingError(fmt.Sprintf("failed to delete scenario %s", id), err)
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, id); err != nil {
			s.logger.Warnf("index delete for %s: %v", id, err)
		}
	}
	s.logger.Infof("deleted scenario %s", id)
	return nil
}

// List returns scenario summaries, preferring the index and falling back to
// a directory scan when the index is unavailable.
func (s *ScenarioService) List(ctx context.Context) ([]IndexEntry, error) {
	if s.index != nil {
		entries, err := s.index.List(ctx)
		if err == nil {
			return entries, nil
		}
		s.logger.Warnf("index list failed, scanning directories: %v", err)
	}
	return s.listFromDisk(ctx)
}

func (s *ScenarioService) listFromDisk(ctx context.Context) ([]IndexEntry, error) {
	ids, err := s.store.ListDirs("scenarios")
	if err != nil {
		// No scenarios directory yet means no scenarios.
		return nil, nil
	}
	var entries []IndexEntry
	for _, id := range ids {
		sc, err := s.Get(ctx, id)
		if err != nil {
			s.logger.Warnf("skipping unreadable scenario %s: %v", id, err)
			continue
		}
		entries = append(entries, IndexEntry{
			ID:        sc.ID,
			Title:     sc.Data.Metadata.Title,
			MapID:     sc.Data.Environment.MapID,
			States:    len(sc.Data.States),
			UpdatedAt: sc.UpdatedAt,
		})
	}
	return entries, nil
}

// RebuildIndex rescans the scenarios directory into the index. Used at
// startup so a fresh index catches up with existing documents.
func (s *ScenarioService) RebuildIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	entries, err := s.listFromDisk(ctx)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := s.index.Upsert(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (s *ScenarioService) reindex(ctx context.Context, sc *Scenario) {
	if s.index == nil {
		return
	}
	err := s.index.Upsert(ctx, IndexEntry{
		ID:        sc.ID,
		Title:     sc.Data.Metadata.Title,
		MapID:     sc.Data.Environment.MapID,
		States:    len(sc.Data.States),
		UpdatedAt: sc.UpdatedAt,
	})
	if err != nil {
		s.logger.Warnf("index update for %s: %v", sc.ID, err)
	}
}
