// internal/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/meditrain/simstudio/internal/metrics"
	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/placement"
	"github.com/meditrain/simstudio/internal/presets"
	"github.com/meditrain/simstudio/internal/scenario"
	"github.com/meditrain/simstudio/internal/services"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	scenarios *services.ScenarioService
	catalog   *services.CatalogService
	exporter  *services.ExportService
	hub       *WSHub
	resp      *ResponseHelper
}

// NewHandler wires the handler.
func NewHandler(scenarios *services.ScenarioService, catalog *services.CatalogService, exporter *services.ExportService, hub *WSHub) *Handler {
	return &Handler{
		scenarios: scenarios,
		catalog:   catalog,
		exporter:  exporter,
		hub:       hub,
		resp:      NewResponseHelper(),
	}
}

// --- scenarios ---

// ListScenarios answers GET /api/scenarios.
func (h *Handler) ListScenarios(c *gin.Context) {
	entries, err := h.scenarios.List(c.Request.Context())
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	if entries == nil {
		entries = []services.IndexEntry{}
	}
	h.resp.Success(c, entries)
}

// CreateScenario answers POST /api/scenarios.
func (h *Handler) CreateScenario(c *gin.Context) {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		h.resp.BadRequest(c, "invalid request body", err.Error())
		return
	}

	sc, err := h.scenarios.Create(c.Request.Context(), req.Title)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Created(c, sc)
}

// GetScenario answers GET /api/scenarios/:id.
func (h *Handler) GetScenario(c *gin.Context) {
	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Success(c, sc)
}

// SaveScenario answers PUT /api/scenarios/:id with a full document.
func (h *Handler) SaveScenario(c *gin.Context) {
	var doc models.ScenarioData
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.resp.BadRequest(c, "invalid scenario document", err.Error())
		return
	}

	sc, err := h.scenarios.Save(c.Request.Context(), c.Param("id"), doc)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.hub.BroadcastDocumentUpdated(sc.ID, sc.Data)
	h.resp.Success(c, sc, "scenario saved")
}

// DeleteScenario answers DELETE /api/scenarios/:id.
func (h *Handler) DeleteScenario(c *gin.Context) {
	id := c.Param("id")
	if err := h.scenarios.Delete(c.Request.Context(), id); err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Success(c, gin.H{"id": id}, "scenario deleted")
}

// --- document operations ---

// OpRequest names a document operation and carries its parameters. Params
// is decoded per operation.
type OpRequest struct {
	Op     string          `json:"op"`
	Params json.RawMessage `json:"params"`
}

// ApplyOperation answers POST /api/scenarios/:id/ops: load, apply one
// operation, persist, broadcast. Unknown-id parameters inside a valid
// operation are silent no-ops, matching the in-memory semantics.
func (h *Handler) ApplyOperation(c *gin.Context) {
	id := c.Param("id")

	var req OpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, "invalid operation request", err.Error())
		return
	}

	sc, err := h.scenarios.Get(c.Request.Context(), id)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}

	doc, opErr := applyOp(sc.Data, req)
	if opErr != nil {
		if errors.Is(opErr, placement.ErrLastSet) {
			h.resp.Conflict(c, opErr.Error())
			return
		}
		h.resp.BadRequest(c, opErr.Error())
		return
	}

	saved, err := h.scenarios.Save(c.Request.Context(), id, doc)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}

	metrics.DocumentOps.WithLabelValues(req.Op).Inc()
	h.hub.BroadcastDocumentUpdated(id, saved.Data)
	h.resp.Success(c, saved.Data)
}

func decodeParams(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}

// applyOp dispatches a named operation to the pure document functions.
func applyOp(doc models.ScenarioData, req OpRequest) (models.ScenarioData, error) {
	switch req.Op {
	case "state.add":
		return scenario.AddState(doc), nil

	case "state.update_title":
		var p struct {
			StateID string `json:"state_id"`
			Title   string `json:"title"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.UpdateStateTitle(doc, p.StateID, p.Title), nil

	case "state.delete":
		var p struct {
			StateID string `json:"state_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.DeleteState(doc, p.StateID), nil

	case "event.add":
		var p struct {
			StateID string              `json:"state_id"`
			RoleID  string              `json:"role_id"`
			Items   []scenario.NewEvent `json:"items"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.AddEvents(doc, p.StateID, p.Items, p.RoleID), nil

	case "event.update":
		var p struct {
			StateID string              `json:"state_id"`
			EventID string              `json:"event_id"`
			Patch   scenario.EventPatch `json:"patch"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.UpdateEvent(doc, p.StateID, p.EventID, p.Patch), nil

	case "event.delete":
		var p struct {
			StateID string `json:"state_id"`
			EventID string `json:"event_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.DeleteEvent(doc, p.StateID, p.EventID), nil

	case "todo.add":
		var p struct {
			StateID string             `json:"state_id"`
			EventID string             `json:"event_id"`
			Items   []scenario.NewTask `json:"items"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.AddTodos(doc, p.StateID, p.EventID, p.Items), nil

	case "todo.update":
		var p struct {
			StateID string             `json:"state_id"`
			EventID string             `json:"event_id"`
			TodoID  string             `json:"todo_id"`
			Patch   scenario.TodoPatch `json:"patch"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.UpdateTodo(doc, p.StateID, p.EventID, p.TodoID, p.Patch), nil

	case "todo.delete":
		var p struct {
			StateID string `json:"state_id"`
			EventID string `json:"event_id"`
			TodoID  string `json:"todo_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.DeleteTodo(doc, p.StateID, p.EventID, p.TodoID), nil

	case "role.add":
		var p struct {
			Items []scenario.NewRole `json:"items"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.AddRoles(doc, p.Items), nil

	case "role.delete":
		var p struct {
			RoleID string `json:"role_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.DeleteRole(doc, p.RoleID), nil

	case "role.set_default":
		var p struct {
			RoleID string `json:"role_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.SetDefaultRole(doc, p.RoleID), nil

	case "environment.set_map":
		var p struct {
			MapID string `json:"map_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.SetEnvironmentMap(doc, p.MapID), nil

	case "environment.toggle_item":
		var p struct {
			ItemID string `json:"item_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return scenario.ToggleEnvironmentItem(doc, p.ItemID), nil

	case "placement.add_supply":
		var p struct {
			ContainerID string             `json:"container_id"`
			SectionID   string             `json:"section_id"`
			Supply      models.StorageItem `json:"supply"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.AddSupply(doc, p.ContainerID, p.SectionID, p.Supply), nil

	case "placement.remove_supply":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			UID         string `json:"uid"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.RemoveSupply(doc, p.ContainerID, p.SectionID, p.UID), nil

	case "placement.update_item":
		var p struct {
			ContainerID string                    `json:"container_id"`
			SectionID   string                    `json:"section_id"`
			UID         string                    `json:"uid"`
			Patch       placement.PlacedItemPatch `json:"patch"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.UpdatePlacedItem(doc, p.ContainerID, p.SectionID, p.UID, p.Patch), nil

	case "placement.rotate_item":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			UID         string `json:"uid"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.RotateItem(doc, p.ContainerID, p.SectionID, p.UID), nil

	case "placement.clear_section":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.ClearSection(doc, p.ContainerID, p.SectionID), nil

	case "placement.rename_section":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			Name        string `json:"name"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.RenameSection(doc, p.ContainerID, p.SectionID, p.Name), nil

	case "set.create":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			Name        string `json:"name"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		out, _ := placement.CreateSet(doc, p.ContainerID, p.SectionID, p.Name)
		return out, nil

	case "set.activate":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			SetID       string `json:"set_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.SetActiveSet(doc, p.ContainerID, p.SectionID, p.SetID), nil

	case "set.delete":
		var p struct {
			ContainerID string `json:"container_id"`
			SectionID   string `json:"section_id"`
			SetID       string `json:"set_id"`
		}
		if err := decodeParams(req.Params, &p); err != nil {
			return doc, err
		}
		return placement.DeleteSet(doc, p.ContainerID, p.SectionID, p.SetID)

	default:
		return doc, fmt.Errorf("unknown operation %q", req.Op)
	}
}

// --- placement queries ---

// CheckPlacement answers POST /api/scenarios/:id/placement/check with the
// advisory collision result for a candidate position.
func (h *Handler) CheckPlacement(c *gin.Context) {
	var req struct {
		ContainerID string  `json:"container_id"`
		SectionID   string  `json:"section_id"`
		UID         string  `json:"uid"`
		X           float64 `json:"x"`
		Y           float64 `json:"y"`
		Width       float64 `json:"width"`
		Height      float64 `json:"height"`
		Rotation    int     `json:"rotation"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, "invalid placement query", err.Error())
		return
	}

	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}

	colliding := false
	for _, section := range sc.Data.Environment.StorageSetup[req.ContainerID] {
		if section.ID != req.SectionID {
			continue
		}
		colliding = placement.CheckCollision(
			req.UID, req.X, req.Y, req.Width, req.Height, req.Rotation,
			section.ActiveSet().Items)
		break
	}
	if colliding {
		metrics.PlacementCollisions.Inc()
	}
	h.resp.Success(c, gin.H{"colliding": colliding})
}

// --- highlights, lint, export ---

// GetHighlights answers GET /api/scenarios/:id/highlights with the
// transition targets of a focused event or task.
func (h *Handler) GetHighlights(c *gin.Context) {
	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}

	eventID := c.Query("event_id")
	todoID := c.Query("todo_id")

	targets := scenario.TargetSet{}
	if e, _, ok := sc.Data.FindEvent(eventID); ok {
		if todoID == "" {
			targets = scenario.EventTargets(e)
		} else {
			for _, t := range e.Todos {
				if t.ID == todoID {
					targets = scenario.TodoTargets(t)
					break
				}
			}
		}
	}
	h.resp.Success(c, targets)
}

// LintScenario answers GET /api/scenarios/:id/lint.
func (h *Handler) LintScenario(c *gin.Context) {
	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	findings := scenario.Lint(sc.Data)
	if findings == nil {
		findings = []scenario.Finding{}
	}
	h.resp.Success(c, findings)
}

// ExportScenario answers GET /api/scenarios/:id/export with a downloadable
// JSON bundle.
func (h *Handler) ExportScenario(c *gin.Context) {
	id := c.Param("id")
	data, err := h.exporter.Export(c.Request.Context(), id)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Download(c, data, id+".json", "application/json; charset=utf-8")
}

// ListEvents answers GET /api/scenarios/:id/events with flat event refs for
// trigger pickers.
func (h *Handler) ListEvents(c *gin.Context) {
	sc, err := h.scenarios.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	refs := sc.Data.AllEvents()
	if refs == nil {
		refs = []models.EventRef{}
	}
	h.resp.Success(c, refs)
}

// --- presets and catalog ---

// GetPresets answers GET /api/presets with the static authoring catalogs.
func (h *Handler) GetPresets(c *gin.Context) {
	h.resp.Success(c, gin.H{
		"roles":           presets.PresetRoles,
		"events":          presets.PresetEvents,
		"tasks":           presets.PresetTasks,
		"maps":            presets.MapOptions,
		"items":           presets.ItemOptions,
		"storage_layouts": presets.StorageLayouts,
	})
}

// ListCatalog answers GET /api/catalog, optionally filtered by category.
func (h *Handler) ListCatalog(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		h.resp.Success(c, h.catalog.ListByCategory(models.ItemCategory(category)))
		return
	}
	h.resp.Success(c, h.catalog.List())
}

// CreateCatalogItem answers POST /api/catalog with a user-defined supply.
func (h *Handler) CreateCatalogItem(c *gin.Context) {
	var req services.NewCustomSupply
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.BadRequest(c, "invalid supply", err.Error())
		return
	}
	item, err := h.catalog.CreateCustom(req)
	if err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Created(c, item)
}

// DeleteCatalogItem answers DELETE /api/catalog/:id.
func (h *Handler) DeleteCatalogItem(c *gin.Context) {
	if err := h.catalog.DeleteCustom(c.Param("id")); err != nil {
		h.resp.FromAppError(c, err)
		return
	}
	h.resp.Success(c, gin.H{"id": c.Param("id")}, "supply deleted")
}
