// internal/services/export_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/meditrain/simstudio/internal/errors"
	"github.com/meditrain/simstudio/internal/scenario"
)

// ExportService renders a scenario into a self-contained JSON bundle for
// hand-off to a simulation runtime or another studio instance.
type ExportService struct {
	scenarios *ScenarioService
}

// NewExportService wires the exporter.
func NewExportService(scenarios *ScenarioService) *ExportService {
	return &ExportService{scenarios: scenarios}
}

// ExportBundle is the exported document plus provenance and the integrity
// findings at export time. Findings are informational; an export with
// dangling references is still valid, runtimes treat them as no-transitions.
type ExportBundle struct {
	Version    string             `json:"version"`
	ExportedAt time.Time          `json:"exported_at"`
	Scenario   *Scenario          `json:"scenario"`
	Findings   []scenario.Finding `json:"findings,omitempty"`
}

// Export loads the scenario and marshals the bundle with indentation.
func (s *ExportService) Export(ctx context.Context, id string) ([]byte, error) {
	sc, err := s.scenarios.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	bundle := ExportBundle{
		Version:    "1",
		ExportedAt: time.Now().UTC(),
		Scenario:   sc,
		Findings:   scenario.Lint(sc.Data),
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return nil, apperrors.NewProcessingError(fmt.Sprintf("failed to export scenario %s", id), err)
	}
	return data, nil
}
