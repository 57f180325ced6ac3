package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"p9e.in/mapelec/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Building{}, &models.Equipment{}, &models.VisitTemplate{},
		&models.TemplateItem{}, &models.Visit{}, &models.VisitResponse{},
		&models.ServiceReport{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func panamaLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Panama")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}
	return loc
}

func TestLatestResponsesOrderIndependence(t *testing.T) {
	visitID := uuid.New()
	itemID := uuid.New()
	base := time.Date(2024, 6, 1, 14, 0, 0, 0, time.UTC)

	mk := func(minutes int, text string) models.VisitResponse {
		return models.VisitResponse{
			ID:        uuid.New(),
			VisitID:   visitID,
			ItemID:    itemID,
			ValueText: &text,
			CreatedAt: base.Add(time.Duration(minutes) * time.Minute),
		}
	}

	r1, r2, r3 := mk(1, "first"), mk(2, "second"), mk(3, "third")

	orders := [][]models.VisitResponse{
		{r1, r2, r3},
		{r3, r2, r1},
		{r2, r3, r1},
	}
	for i, responses := range orders {
		latest := LatestResponses(responses)
		got, ok := latest[ResponseKey{VisitID: visitID, ItemID: itemID}]
		if !ok {
			t.Fatalf("order %d: no entry for key", i)
		}
		if got.ID != r3.ID {
			t.Errorf("order %d: kept %v, expected the max-created_at response", i, *got.ValueText)
		}
	}
}

func TestLatestResponsesKeysAreIndependent(t *testing.T) {
	visitA, visitB := uuid.New(), uuid.New()
	item := uuid.New()
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	responses := []models.VisitResponse{
		{ID: uuid.New(), VisitID: visitA, ItemID: item, CreatedAt: base.Add(time.Hour)},
		{ID: uuid.New(), VisitID: visitB, ItemID: item, CreatedAt: base},
	}
	latest := LatestResponses(responses)
	if len(latest) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(latest))
	}
}

func TestLatestResponsesTieKeepsFirstEncountered(t *testing.T) {
	visitID, itemID := uuid.New(), uuid.New()
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	first := models.VisitResponse{ID: uuid.New(), VisitID: visitID, ItemID: itemID, CreatedAt: ts}
	second := models.VisitResponse{ID: uuid.New(), VisitID: visitID, ItemID: itemID, CreatedAt: ts}

	latest := LatestResponses([]models.VisitResponse{first, second})
	if got := latest[ResponseKey{VisitID: visitID, ItemID: itemID}]; got.ID != first.ID {
		t.Error("exact timestamp tie should keep the first entry encountered")
	}
}

func TestGetServiceReportDataInvalidDate(t *testing.T) {
	db := testDB(t)
	loc := panamaLocation(t)

	_, err := GetServiceReportData(db, loc, uuid.New().String(), "not-a-date", nil)
	if err != ErrInvalidDate {
		t.Errorf("err = %v, expected ErrInvalidDate", err)
	}
}

func TestGetServiceReportDataBuildingNotFound(t *testing.T) {
	db := testDB(t)
	loc := panamaLocation(t)

	_, err := GetServiceReportData(db, loc, uuid.New().String(), "2024-06-01", nil)
	if err != ErrBuildingNotFound {
		t.Errorf("err = %v, expected ErrBuildingNotFound", err)
	}
}

func TestGetServiceReportDataEmptyDay(t *testing.T) {
	db := testDB(t)
	loc := panamaLocation(t)

	building := models.Building{Name: "Torre Vacía"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("create building: %v", err)
	}

	data, err := GetServiceReportData(db, loc, building.ID.String(), "2024-06-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(data.Sections) != 0 {
		t.Errorf("sections = %d, expected 0 for an empty day", len(data.Sections))
	}
	if data.Report == nil || data.Report.Status != models.ReportDraft {
		t.Error("first view should lazily create a draft report row")
	}
}

func TestGetServiceReportDataIdempotentReportCreation(t *testing.T) {
	db := testDB(t)
	loc := panamaLocation(t)

	building := models.Building{Name: "Torre A"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("create building: %v", err)
	}
	userID := uuid.New()

	first, err := GetServiceReportData(db, loc, building.ID.String(), "2024-06-01", &userID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := GetServiceReportData(db, loc, building.ID.String(), "2024-06-01", &userID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	if first.Report.ID != second.Report.ID {
		t.Errorf("report ids differ: %s vs %s", first.Report.ID, second.Report.ID)
	}
	var count int64
	db.Model(&models.ServiceReport{}).
		Where("building_id = ? AND report_date = ?", building.ID, "2024-06-01").
		Count(&count)
	if count != 1 {
		t.Errorf("service report rows = %d, expected exactly 1", count)
	}
	if first.Report.CreatedBy == nil || *first.Report.CreatedBy != userID {
		t.Error("acting user should be stamped as creator")
	}
}

// End-to-end: one completed visit with a single checkbox response.
func TestGetServiceReportDataEndToEnd(t *testing.T) {
	db := testDB(t)
	loc := panamaLocation(t)

	building := models.Building{Name: "Tower A"}
	if err := db.Create(&building).Error; err != nil {
		t.Fatalf("create building: %v", err)
	}
	template := models.VisitTemplate{Name: "Pump inspection", Category: models.CategoryPump, IsActive: true}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("create template: %v", err)
	}
	item := models.TemplateItem{
		TemplateID: template.ID,
		Label:      "Pressure OK",
		ItemType:   models.ItemTypeCheckbox,
		ItemKind:   models.ItemKindStandard,
		Required:   true,
		SortOrder:  1,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}

	completedAt := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	visit := models.Visit{
		BuildingID:   building.ID,
		TemplateID:   template.ID,
		ScheduledFor: "2024-06-01",
		Status:       models.VisitCompleted,
		CompletedAt:  &completedAt,
	}
	if err := db.Create(&visit).Error; err != nil {
		t.Fatalf("create visit: %v", err)
	}

	// An earlier response gets superseded by a later correction.
	truthy := true
	falsy := false
	stale := models.VisitResponse{
		VisitID: visit.ID, ItemID: item.ID, ValueBool: &falsy,
		CreatedAt: completedAt.Add(30 * time.Second),
	}
	current := models.VisitResponse{
		VisitID: visit.ID, ItemID: item.ID, ValueBool: &truthy,
		CreatedAt: completedAt.Add(time.Minute),
	}
	if err := db.Create(&stale).Error; err != nil {
		t.Fatalf("create stale response: %v", err)
	}
	if err := db.Create(&current).Error; err != nil {
		t.Fatalf("create current response: %v", err)
	}

	data, err := GetServiceReportData(db, loc, building.ID.String(), "2024-06-01", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(data.Sections) != 1 {
		t.Fatalf("sections = %d, expected 1", len(data.Sections))
	}
	section := data.Sections[0]
	if section.TemplateName != "Pump inspection" {
		t.Errorf("template name = %q", section.TemplateName)
	}
	if len(section.Visits) != 1 {
		t.Fatalf("visits = %d, expected 1", len(section.Visits))
	}
	if len(section.Items) != 1 {
		t.Fatalf("items = %d, expected 1", len(section.Items))
	}

	response, ok := section.Visits[0].LatestByItem[item.ID]
	if !ok {
		t.Fatal("no latest response recorded for the item")
	}
	if got := FormatResponseValue(item.ItemType, &response); got != "Sí" {
		t.Errorf("formatted value = %q, expected Sí", got)
	}
}

func TestAssembleSectionsSortingAndEquipment(t *testing.T) {
	tplA := models.VisitTemplate{ID: uuid.New(), Name: "bombas"}
	tplB := models.VisitTemplate{ID: uuid.New(), Name: "Alarma"}

	t1 := time.Date(2024, 6, 1, 16, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	visitLate := models.Visit{ID: uuid.New(), TemplateID: tplA.ID, CompletedAt: &t1}
	visitEarly := models.Visit{ID: uuid.New(), TemplateID: tplA.ID, CompletedAt: &t2}
	visitOther := models.Visit{ID: uuid.New(), TemplateID: tplB.ID, CompletedAt: &t1}

	item := models.TemplateItem{ID: uuid.New(), TemplateID: tplA.ID, Label: "Pressure", ItemType: models.ItemTypeNumber}
	pump := models.Equipment{ID: uuid.New(), Name: "Bomba jockey"}
	pumpID := pump.ID

	responses := []models.VisitResponse{
		{ID: uuid.New(), VisitID: visitLate.ID, ItemID: item.ID, EquipmentID: &pumpID,
			ValueNumber: floatPtr(40), CreatedAt: t1},
	}

	sections := AssembleSections(
		[]models.Visit{visitLate, visitEarly, visitOther},
		[]models.VisitTemplate{tplA, tplB},
		[]models.TemplateItem{item},
		responses,
		[]models.Equipment{pump},
	)

	if len(sections) != 2 {
		t.Fatalf("sections = %d, expected 2", len(sections))
	}
	// Case-insensitive name sort: "Alarma" before "bombas".
	if sections[0].TemplateName != "Alarma" || sections[1].TemplateName != "bombas" {
		t.Errorf("section order = [%s, %s]", sections[0].TemplateName, sections[1].TemplateName)
	}

	bombas := sections[1]
	if len(bombas.Visits) != 2 {
		t.Fatalf("bombas visits = %d, expected 2", len(bombas.Visits))
	}
	if bombas.Visits[0].ID != visitEarly.ID {
		t.Error("visits inside a section should sort by completion time ascending")
	}
	if got := bombas.Visits[1].EquipmentLabels; len(got) != 1 || got[0] != "Bomba jockey" {
		t.Errorf("equipment labels = %v", got)
	}

	// Section for a template with no items carries an empty item list.
	if sections[0].Items == nil || len(sections[0].Items) != 0 {
		t.Errorf("itemless section should expose an empty slice, got %v", sections[0].Items)
	}
}
