// internal/presets/presets.go

// Package presets holds the static quick-add catalogs the studio offers:
// roles, events, tasks, maps, placeable items and the initial supply
// database. They are read-only data; the editor copies fields out of them
// when creating document entries.
package presets

import "github.com/meditrain/simstudio/internal/models"

// PresetRole is a quick-add role entry.
type PresetRole struct {
	Name string          `json:"name"`
	Type models.RoleType `json:"type"`
}

var PresetRoles = []PresetRole{
	{Name: "응급의학과 의사", Type: models.RoleDoctor},
	{Name: "외상 외과의 (Trauma Surgeon)", Type: models.RoleDoctor},
	{Name: "마취과 의사", Type: models.RoleDoctor},
	{Name: "분류 간호사 (Triage Nurse)", Type: models.RoleNurse},
	{Name: "책임 간호사 (Charge Nurse)", Type: models.RoleNurse},
	{Name: "중환자 간호사 (ICU Nurse)", Type: models.RoleNurse},
	{Name: "응급구조사 (Paramedic)", Type: models.RoleTechnician},
	{Name: "호흡 치료사 (RT)", Type: models.RoleTechnician},
	{Name: "영상의학 기사", Type: models.RoleTechnician},
	{Name: "보호자", Type: models.RoleFamily},
	{Name: "표준화 환자", Type: models.RolePatient},
}

// PresetEvent is a quick-add event entry. RoleTypes suggests which roles the
// event usually belongs to; Category groups the list in the picker.
type PresetEvent struct {
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	TriggerType  models.TriggerType `json:"trigger_type"`
	TriggerValue string             `json:"trigger_value,omitempty"`
	RoleTypes    []models.RoleType  `json:"role_types"`
	Category     string             `json:"category"`
}

var PresetEvents = []PresetEvent{
	{Title: "중등도 고열", Description: "체온 38.0-39.0°C.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleNurse, models.RoleDoctor}, Category: "symptom"},
	{Title: "중등도 두통", Description: "통증 척도 4-6/10.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleNurse, models.RolePatient}, Category: "symptom"},
	{Title: "환자 입원", Description: "환자가 응급실/병동에 도착함.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleNurse, models.RoleTechnician}, Category: "admin"},
	{Title: "심정지", Description: "환자 반응 없고 맥박 없음.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleDoctor, models.RoleNurse, models.RoleTechnician}, Category: "critical"},
	{Title: "호흡 곤란", Description: "환자가 심한 호흡 곤란 증세를 보임.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleDoctor, models.RoleNurse, models.RoleTechnician}, Category: "symptom"},
	{Title: "발작", Description: "환자가 전신 강직 간대 발작을 시작함.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleNurse, models.RoleDoctor, models.RoleFamily}, Category: "critical"},
	{Title: "정맥로 확보됨", Description: "말초 정맥로 확보 성공.", TriggerType: models.TriggerEvent, RoleTypes: []models.RoleType{models.RoleNurse, models.RoleTechnician}, Category: "clinical"},
	{Title: "검사 결과 나옴", Description: "혈액 검사 결과가 검사실에서 도착함.", TriggerType: models.TriggerTime, TriggerValue: "300", RoleTypes: []models.RoleType{models.RoleTechnician, models.RoleNurse, models.RoleDoctor}, Category: "clinical"},
	{Title: "투약 오류", Description: "잘못된 용량 또는 약물이 투여됨.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleNurse, models.RoleDoctor}, Category: "critical"},
	{Title: "제세동", Description: "환자에게 전기 충격 전달됨.", TriggerType: models.TriggerEvent, RoleTypes: []models.RoleType{models.RoleDoctor, models.RoleNurse, models.RoleTechnician}, Category: "clinical"},
	{Title: "근무 교대 인계", Description: "다음 팀에게 환자 인계.", TriggerType: models.TriggerTime, TriggerValue: "600", RoleTypes: []models.RoleType{models.RoleNurse, models.RoleDoctor}, Category: "admin"},
	{Title: "보호자 불안 호소", Description: "보호자가 상태 설명을 요구하거나 불안해함.", TriggerType: models.TriggerImmediate, RoleTypes: []models.RoleType{models.RoleFamily, models.RoleNurse}, Category: "admin"},
}

// PresetTaskItem is one task template within a category.
type PresetTaskItem struct {
	Content string          `json:"content"`
	Type    models.TaskType `json:"type"`
}

// TaskCategory groups task templates in the picker.
type TaskCategory struct {
	ID    string           `json:"id"`
	Title string           `json:"title"`
	Items []PresetTaskItem `json:"items"`
}

var PresetTasks = []TaskCategory{
	{
		ID:    "assessment",
		Title: "평가 및 모니터링",
		Items: []PresetTaskItem{
			{Content: "활력 징후 확인", Type: models.TaskTodo},
			{Content: "폐음 청진", Type: models.TaskTodo},
			{Content: "심음 청진", Type: models.TaskTodo},
			{Content: "심전도(EKG) 모니터링 부착", Type: models.TaskTodo},
			{Content: "산소 포화도(SpO2) 측정", Type: models.TaskTodo},
			{Content: "의식 수준(GCS) 사정", Type: models.TaskTodo},
			{Content: "동공 반사 확인", Type: models.TaskTodo},
			{Content: "혈당(BST) 측정", Type: models.TaskTodo},
		},
	},
	{
		ID:    "airway",
		Title: "기도 및 호흡 (Airway/Breathing)",
		Items: []PresetTaskItem{
			{Content: "산소 투여 (비강 캐뉼라)", Type: models.TaskTodo},
			{Content: "산소 투여 (안면 마스크)", Type: models.TaskTodo},
			{Content: "백-밸브-마스크(BVM) 환기", Type: models.TaskTodo},
			{Content: "구인두 기도기(OPA) 삽입", Type: models.TaskTodo},
			{Content: "기관내 삽관 시행", Type: models.TaskDecision},
			{Content: "EtCO2 모니터링", Type: models.TaskTodo},
			{Content: "흡인(Suction) 시행", Type: models.TaskTodo},
		},
	},
	{
		ID:    "circulation",
		Title: "순환 (Circulation)",
		Items: []PresetTaskItem{
			{Content: "정맥로 확보 (IV Access)", Type: models.TaskTodo},
			{Content: "수액 투여 (NS 0.9%)", Type: models.TaskTodo},
			{Content: "수액 투여 (Hartmann Solution)", Type: models.TaskTodo},
			{Content: "심폐소생술 시행 (2분)", Type: models.TaskTodo},
			{Content: "제세동 패드 부착", Type: models.TaskTodo},
			{Content: "맥박 확인", Type: models.TaskTodo},
		},
	},
	{
		ID:    "medication",
		Title: "약물 투여 (Medication)",
		Items: []PresetTaskItem{
			{Content: "에피네프린 1mg 투여", Type: models.TaskDecision},
			{Content: "아미오다론 300mg 투여", Type: models.TaskDecision},
			{Content: "아트로핀 0.5mg 투여", Type: models.TaskDecision},
			{Content: "아데노신 6mg 투여", Type: models.TaskDecision},
			{Content: "진통제 투여", Type: models.TaskDecision},
		},
	},
	{
		ID:    "diagnostic",
		Title: "검사 (Diagnostic)",
		Items: []PresetTaskItem{
			{Content: "흉부 X-ray 처방", Type: models.TaskTodo},
			{Content: "12-lead EKG 촬영", Type: models.TaskTodo},
			{Content: "동맥혈 가스 분석(ABGA)", Type: models.TaskTodo},
			{Content: "혈액 검사(Lab) 시행", Type: models.TaskTodo},
			{Content: "Portable X-ray 요청", Type: models.TaskTodo},
		},
	},
	{
		ID:    "caution",
		Title: "주의사항 및 금기 (Penalty)",
		Items: []PresetTaskItem{
			{Content: "가슴 압박 중단하지 말 것", Type: models.TaskMustNot},
			{Content: "과환기 시키지 말 것", Type: models.TaskMustNot},
			{Content: "불필요한 환자 이송 지연 금지", Type: models.TaskMustNot},
			{Content: "기도 확보 전 억제대 사용 금지", Type: models.TaskMustNot},
		},
	},
}

// MapOption is a selectable simulation environment.
type MapOption struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

var MapOptions = []MapOption{
	{ID: "er_trauma", Name: "응급실 외상 처치실", Image: "/assets/images/Items/maps/er_empty.png"},
	{ID: "peds_ward", Name: "소아 병동", Image: "/assets/images/Items/maps/pediatrics_empty.png"},
	{ID: "single_room", Name: "1인실 병실", Image: "/assets/images/Items/maps/Single bed ward 1.png"},
	{ID: "delivery", Name: "분만실", Image: "/assets/images/Items/maps/delivery_empty.png"},
	{ID: "ambulance", Name: "구급차 내부"},
}

// ItemOption is a placeable environment item. IsStorage marks items that can
// carry storage sections.
type ItemOption struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsStorage bool   `json:"is_storage,omitempty"`
}

var ItemOptions = []ItemOption{
	{ID: "monitor", Name: "환자 감시 장치"},
	{ID: "ventilator", Name: "인공호흡기"},
	{ID: "defib", Name: "제세동기"},
	{ID: "crash_cart", Name: "응급 카트", IsStorage: true},
	{ID: "nursing_cart", Name: "간호 카트", IsStorage: true},
	{ID: "storage", Name: "비품 보관함", IsStorage: true},
	{ID: "iv_pump", Name: "수액 주입기"},
	{ID: "suction", Name: "흡인기"},
	{ID: "ultrasound", Name: "초음파"},
	{ID: "ecmo", Name: "ECMO"},
}

// InitialSupplyDatabase seeds the supply catalog.
var InitialSupplyDatabase = []models.StorageItem{
	{ID: "spinal_needle", Name: "척수 바늘 (Spinal Needle)", Category: models.CategorySupply, Width: 20, Height: 160, ImageURL: "https://placehold.co/20x160/cccccc/ffffff?text=Needle"},
	{ID: "iv_set", Name: "수액 세트", Category: models.CategorySupply, Width: 100, Height: 100, ImageURL: "https://placehold.co/100x100/e0e7ff/000000?text=IV+Set"},
	{ID: "sample_cup", Name: "검체 용기", Category: models.CategorySupply, Width: 60, Height: 70, ImageURL: "https://placehold.co/60x70/bfdbfe/000000?text=Cup"},
	{ID: "pain_tool", Name: "통증 사정 도구", Category: models.CategoryEquipment, Width: 120, Height: 160, ImageURL: "https://placehold.co/120x160/ffffff/000000?text=Chart"},
	{ID: "syringe_safety", Name: "안전 주사기", Category: models.CategorySupply, Width: 25, Height: 110, ImageURL: "https://placehold.co/25x110/fca5a5/000000?text=Syr"},
	{ID: "epi", Name: "에피네프린 1:1000 앰플", Category: models.CategoryMedication, Width: 20, Height: 50},
	{ID: "amio", Name: "아미오다론 150mg 바이알", Category: models.CategoryMedication, Width: 30, Height: 50},
	{ID: "adenosine", Name: "아데노신 6mg 바이알", Category: models.CategoryMedication, Width: 25, Height: 40},
	{ID: "saline", Name: "생리식염수 1000ml 백", Category: models.CategoryMedication, Width: 80, Height: 140},
	{ID: "aspirin", Name: "아스피린 81mg 정", Category: models.CategoryMedication, Width: 40, Height: 40},
	{ID: "nitro", Name: "니트로글리세린 스프레이", Category: models.CategoryMedication, Width: 30, Height: 70},
	{ID: "gloves_latex", Name: "라텍스 장갑 (박스)", Category: models.CategorySupply, Width: 120, Height: 80},
	{ID: "gloves_nitrile", Name: "니트릴 장갑 (박스)", Category: models.CategorySupply, Width: 120, Height: 80},
	{ID: "sanitizer", Name: "손 소독제", Category: models.CategorySupply, Width: 40, Height: 90},
	{ID: "iv_start", Name: "IV 시작 키트", Category: models.CategorySupply, Width: 80, Height: 120},
	{ID: "gauze", Name: "멸균 거즈 4x4", Category: models.CategorySupply, Width: 60, Height: 60},
	{ID: "tape", Name: "의료용 테이프", Category: models.CategorySupply, Width: 50, Height: 50},
	{ID: "syringe_10", Name: "10cc 주사기", Category: models.CategorySupply, Width: 30, Height: 100},
	{ID: "needle_18", Name: "18G 바늘", Category: models.CategorySupply, Width: 15, Height: 50},
	{ID: "tube_et", Name: "기관 튜브 7.5", Category: models.CategorySupply, Width: 180, Height: 30},
	{ID: "laryngoscope", Name: "후두경 블레이드 3", Category: models.CategoryEquipment, Width: 140, Height: 40},
}

// StorageLayouts is the default section layout per storage-capable item.
var StorageLayouts = map[string][]models.StorageSection{
	"nursing_cart": {
		{ID: "top", Name: "상단 선반", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=CartTop.png"},
		{ID: "d1", Name: "서랍 1 (약물)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "d2", Name: "서랍 2 (IV/검사)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "d3", Name: "서랍 3 (물품)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "side", Name: "측면 통", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/EmergencyCart_Side 2.png"},
	},
	"crash_cart": {
		{ID: "top", Name: "상단 (모니터/제세동기)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=CartTop.png"},
		{ID: "d1", Name: "서랍 1 (기도)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "d2", Name: "서랍 2 (호흡)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "d3", Name: "서랍 3 (순환)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
		{ID: "d4", Name: "서랍 4 (약물)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
	},
	"storage": {
		{ID: "shelf1", Name: "선반 A (수액)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Tray.png"},
		{ID: "shelf2", Name: "선반 B (린넨)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Tray.png"},
		{ID: "shelf3", Name: "선반 C (키트)", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Tray.png"},
		{ID: "cabinet", Name: "잠금 캐비닛", Items: []models.PlacedItem{}, BackgroundImageURL: "/assets/images/Items/storages/Type=Drawer.png"},
	},
}
