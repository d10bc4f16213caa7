// internal/api/handlers_test.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/services"
	"github.com/meditrain/simstudio/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewFileStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStorage: %v", err)
	}
	index, err := services.NewIndexService(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("NewIndexService: %v", err)
	}
	t.Cleanup(func() { index.Close() })

	scenarios := services.NewScenarioService(store, index, services.NewLockManager())
	catalog := services.NewCatalogService(store)
	exporter := services.NewExportService(scenarios)
	hub := NewWSHub()

	handler := NewHandler(scenarios, catalog, exporter, hub)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	api := r.Group("/api")
	{
		api.GET("/presets", handler.GetPresets)
		api.GET("/catalog", handler.ListCatalog)
		api.POST("/catalog", handler.CreateCatalogItem)
		api.GET("/scenarios", handler.ListScenarios)
		api.POST("/scenarios", handler.CreateScenario)
		api.GET("/scenarios/:id", handler.GetScenario)
		api.DELETE("/scenarios/:id", handler.DeleteScenario)
		api.POST("/scenarios/:id/ops", handler.ApplyOperation)
		api.POST("/scenarios/:id/placement/check", handler.CheckPlacement)
		api.GET("/scenarios/:id/highlights", handler.GetHighlights)
		api.GET("/scenarios/:id/lint", handler.LintScenario)
		api.GET("/scenarios/:id/export", handler.ExportScenario)
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Not every endpoint answers with the envelope (export streams a file);
	// callers that care decode resp.Data themselves.
	var envelope APIResponse
	json.Unmarshal(w.Body.Bytes(), &envelope)
	return w, envelope
}

func createScenario(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/scenarios", map[string]string{"title": "테스트"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create scenario: status %d body %s", w.Code, w.Body.String())
	}
	data, _ := json.Marshal(resp.Data)
	var sc services.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		t.Fatalf("decode scenario: %v", err)
	}
	return sc.ID
}

func getDocument(t *testing.T, r *gin.Engine, id string) models.ScenarioData {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodGet, "/api/scenarios/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get scenario: status %d", w.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var sc services.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		t.Fatalf("decode scenario: %v", err)
	}
	return sc.Data
}

func TestScenarioEndpoints(t *testing.T) {
	r := newTestRouter(t)
	id := createScenario(t, r)

	w, resp := doJSON(t, r, http.MethodGet, "/api/scenarios", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("list: status %d success %v", w.Code, resp.Success)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/scenarios/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown id: status %d, want 404", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodDelete, "/api/scenarios/"+id, nil)
	if w.Code != http.StatusOK {
		t.Errorf("delete: status %d", w.Code)
	}
	w, _ = doJSON(t, r, http.MethodGet, "/api/scenarios/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete: status %d, want 404", w.Code)
	}
}

func TestApplyOperationEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createScenario(t, r)

	before := getDocument(t, r, id)
	states := len(before.States)

	w, _ := doJSON(t, r, http.MethodPost, "/api/scenarios/"+id+"/ops", OpRequest{Op: "state.add"})
	if w.Code != http.StatusOK {
		t.Fatalf("state.add: status %d body %s", w.Code, w.Body.String())
	}
	after := getDocument(t, r, id)
	if len(after.States) != states+1 {
		t.Errorf("states = %d, want %d", len(after.States), states+1)
	}

	// Unknown operations are rejected, not silently ignored.
	w, _ = doJSON(t, r, http.MethodPost, "/api/scenarios/"+id+"/ops", OpRequest{Op: "state.explode"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown op: status %d, want 400", w.Code)
	}

	// Deleting a section's only set maps to a conflict.
	params, _ := json.Marshal(map[string]string{
		"container_id": "crash_cart", "section_id": "top", "set_id": "default",
	})
	w, _ = doJSON(t, r, http.MethodPost, "/api/scenarios/"+id+"/ops", OpRequest{Op: "set.delete", Params: params})
	if w.Code != http.StatusConflict {
		t.Errorf("last set delete: status %d, want 409", w.Code)
	}
}

func TestPlacementCheckEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createScenario(t, r)

	// Place one supply, then probe a position on top of it.
	supply := map[string]interface{}{
		"container_id": "crash_cart",
		"section_id":   "top",
		"supply":       models.StorageItem{ID: "gauze", Name: "거즈", Width: 40, Height: 20},
	}
	params, _ := json.Marshal(supply)
	w, _ := doJSON(t, r, http.MethodPost, "/api/scenarios/"+id+"/ops", OpRequest{Op: "placement.add_supply", Params: params})
	if w.Code != http.StatusOK {
		t.Fatalf("add supply: status %d body %s", w.Code, w.Body.String())
	}

	w, resp := doJSON(t, r, http.MethodPost, "/api/scenarios/"+id+"/placement/check", map[string]interface{}{
		"container_id": "crash_cart",
		"section_id":   "top",
		"uid":          "probe",
		"x":            25.0, "y": 25.0, "width": 40.0, "height": 20.0, "rotation": 0,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("check: status %d", w.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var result struct {
		Colliding bool `json:"colliding"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("decode check result: %v", err)
	}
	if !result.Colliding {
		t.Error("probe over placed item should collide")
	}
}

func TestHighlightsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	id := createScenario(t, r)

	// The seed document's first event carries a time-limit-fail transition.
	doc := getDocument(t, r, id)
	eventID := doc.States[0].Events[0].ID

	path := fmt.Sprintf("/api/scenarios/%s/highlights?event_id=%s", id, eventID)
	w, resp := doJSON(t, r, http.MethodGet, path, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("highlights: status %d", w.Code)
	}
	data, _ := json.Marshal(resp.Data)
	var targets map[string]string
	if err := json.Unmarshal(data, &targets); err != nil {
		t.Fatalf("decode targets: %v", err)
	}
	if targets["state-2"] != "fail" {
		t.Errorf("targets = %v, want state-2 fail", targets)
	}
}

func TestLintAndExportEndpoints(t *testing.T) {
	r := newTestRouter(t)
	id := createScenario(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/scenarios/"+id+"/lint", nil)
	if w.Code != http.StatusOK {
		t.Errorf("lint: status %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios/"+id+"/export", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusOK {
		t.Fatalf("export: status %d", w2.Code)
	}
	if got := w2.Header().Get("Content-Disposition"); got == "" {
		t.Error("export missing attachment disposition")
	}
	var bundle map[string]interface{}
	if err := json.Unmarshal(w2.Body.Bytes(), &bundle); err != nil {
		t.Fatalf("export body not json: %v", err)
	}
	if bundle["scenario"] == nil {
		t.Error("export bundle missing scenario")
	}
}

func TestPresetsAndCatalogEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/presets", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("presets: status %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodGet, "/api/catalog", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("catalog: status %d", w.Code)
	}

	w, _ = doJSON(t, r, http.MethodPost, "/api/catalog", map[string]interface{}{"name": "산소 마스크"})
	if w.Code != http.StatusCreated {
		t.Errorf("create catalog item: status %d body %s", w.Code, w.Body.String())
	}
	w, _ = doJSON(t, r, http.MethodPost, "/api/catalog", map[string]interface{}{"name": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank name: status %d, want 400", w.Code)
	}
}
