// internal/presets/initial.go
package presets

import (
	"github.com/meditrain/simstudio/internal/models"
	"github.com/meditrain/simstudio/internal/scenario"
)

// InitialData returns the seed scenario a new studio session starts from.
// Each call builds a fresh document so sessions never share state.
func InitialData() models.ScenarioData {
	return models.ScenarioData{
		Metadata: models.ScenarioMetadata{
			Title:    "새 시뮬레이션 시나리오",
			Handover: "54세 남성, 흉통을 호소하며 구급차로 내원...",
			Mission:  "10분 이내에 급성 심근경색을 파악하고 처치하시오.",
		},
		Environment: models.ScenarioEnvironment{
			MapID:            "er_trauma",
			AvailableItemIDs: []string{"monitor", "defib", "crash_cart", "iv_pump"},
			StorageSetup: map[string][]models.StorageSection{
				"crash_cart": {
					{ID: "top", Name: "상단 선반", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=CartTop.png"},
					{ID: "d1", Name: "서랍 1 (기도)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
					{ID: "d2", Name: "서랍 2 (호흡)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
					{ID: "d3", Name: "서랍 3 (순환)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
				},
			},
		},
		Roles: []models.Role{
			{ID: "1", Name: "책임 간호사", Type: models.RoleNurse, Color: scenario.RoleColor(models.RoleNurse)},
			{ID: "2", Name: "응급의학과 의사", Type: models.RoleDoctor, Color: scenario.RoleColor(models.RoleDoctor)},
		},
		States: []models.ScenarioState{
			{
				ID:    "state-1",
				Title: "초기 평가",
				Events: []models.Event{
					{
						ID:          "evt-1",
						RoleID:      "1",
						Title:       "환자 도착",
						Description: "환자가 구급차 들것에 실려 도착함.",
						TriggerType: models.TriggerImmediate,
						TimeLimit:   180,
						// state-2 exists below, so this reference is not
						// dangling in the seed document.
						OnTimeLimitFail: "state-2",
						Todos: []models.Todo{
							{ID: "td-1", Content: "활력 징후 측정", Type: models.TaskTodo},
							{ID: "td-2", Content: "심전도 모니터 부착", Type: models.TaskTodo},
						},
					},
				},
			},
			{
				ID:     "state-2",
				Title:  "환자 상태 악화",
				Events: []models.Event{},
			},
		},
	}
}
