package reports

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/mapelec/models"
	"p9e.in/mapelec/utils"
)

// Terminal aggregation errors. Anything else coming out of
// GetServiceReportData is a data-layer failure.
var (
	ErrInvalidDate      = errors.New("invalid report date")
	ErrBuildingNotFound = errors.New("building not found")
)

// BuildingRef is the slice of the building a report needs.
type BuildingRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// VisitEntry is one completed execution inside a section: its per-item
// current values plus the labels of any equipment touched.
type VisitEntry struct {
	ID              uuid.UUID                          `json:"id"`
	TemplateID      uuid.UUID                          `json:"template_id"`
	CompletedAt     *time.Time                         `json:"completed_at"`
	EquipmentLabels []string                           `json:"equipment_labels"`
	LatestByItem    map[uuid.UUID]models.VisitResponse `json:"latest_response_by_item_id"`
}

// Section groups a day's visits by template, carrying the template's
// ordered items.
type Section struct {
	TemplateID   uuid.UUID             `json:"template_id"`
	TemplateName string                `json:"template_name"`
	Items        []models.TemplateItem `json:"items"`
	Visits       []VisitEntry          `json:"visits"`
}

// ReportData is the aggregate served to every rendering target: the
// PDF, the Excel export and the interactive page.
type ReportData struct {
	Building   BuildingRef           `json:"building"`
	ReportDate string                `json:"report_date"`
	Report     *models.ServiceReport `json:"report"`
	Sections   []Section             `json:"sections"`
	TimeZone   string                `json:"time_zone"`
}

// ResponseKey identifies the (visit, item) slot a response fills.
type ResponseKey struct {
	VisitID uuid.UUID
	ItemID  uuid.UUID
}

// LatestResponses collapses response history to the current value per
// (visit, item): latest write wins, decided by CreatedAt rather than
// insertion order. On an exact timestamp tie the first entry
// encountered is kept; the aggregator feeds responses ordered by
// (created_at, id) so the outcome is deterministic.
func LatestResponses(responses []models.VisitResponse) map[ResponseKey]models.VisitResponse {
	latest := make(map[ResponseKey]models.VisitResponse, len(responses))
	for _, response := range responses {
		key := ResponseKey{VisitID: response.VisitID, ItemID: response.ItemID}
		existing, ok := latest[key]
		if !ok || response.CreatedAt.After(existing.CreatedAt) {
			latest[key] = response
		}
	}
	return latest
}

// GetServiceReportData assembles the report aggregate for one building
// and civil date. The ServiceReport row is created on first view
// (idempotently: a concurrent creator's duplicate-key failure is
// absorbed by re-reading). A day with zero completed visits yields an
// empty section list, not an error.
func GetServiceReportData(db *gorm.DB, loc *time.Location, buildingID, reportDate string, userID *uuid.UUID) (*ReportData, error) {
	dayRange := utils.ResolveDayRange(reportDate, loc)
	if dayRange == nil {
		return nil, ErrInvalidDate
	}

	var building models.Building
	if err := db.Where("id = ?", buildingID).First(&building).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("load building: %w", err)
	}

	report, err := ensureServiceReport(db, building.ID, reportDate, userID)
	if err != nil {
		return nil, err
	}

	var visits []models.Visit
	if err := db.
		Where("building_id = ? AND status = ? AND completed_at >= ? AND completed_at < ?",
			building.ID, models.VisitCompleted, dayRange.Start, dayRange.End).
		Order("completed_at ASC").
		Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("load visits: %w", err)
	}

	templateIDs := make([]uuid.UUID, 0, len(visits))
	seenTemplates := make(map[uuid.UUID]bool)
	visitIDs := make([]uuid.UUID, 0, len(visits))
	for _, visit := range visits {
		visitIDs = append(visitIDs, visit.ID)
		if !seenTemplates[visit.TemplateID] {
			seenTemplates[visit.TemplateID] = true
			templateIDs = append(templateIDs, visit.TemplateID)
		}
	}

	var templates []models.VisitTemplate
	var items []models.TemplateItem
	if len(templateIDs) > 0 {
		if err := db.Where("id IN ?", templateIDs).Find(&templates).Error; err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		if err := db.Where("template_id IN ?", templateIDs).
			Order("sort_order ASC").Find(&items).Error; err != nil {
			return nil, fmt.Errorf("load template items: %w", err)
		}
	}

	var responses []models.VisitResponse
	if len(visitIDs) > 0 {
		if err := db.Where("visit_id IN ?", visitIDs).
			Order("created_at ASC, id ASC").Find(&responses).Error; err != nil {
			return nil, fmt.Errorf("load responses: %w", err)
		}
	}

	equipmentIDs := make([]uuid.UUID, 0)
	seenEquipment := make(map[uuid.UUID]bool)
	for _, response := range responses {
		if response.EquipmentID != nil && !seenEquipment[*response.EquipmentID] {
			seenEquipment[*response.EquipmentID] = true
			equipmentIDs = append(equipmentIDs, *response.EquipmentID)
		}
	}
	var equipment []models.Equipment
	if len(equipmentIDs) > 0 {
		if err := db.Where("id IN ?", equipmentIDs).Find(&equipment).Error; err != nil {
			return nil, fmt.Errorf("load equipment: %w", err)
		}
	}

	sections := AssembleSections(visits, templates, items, responses, equipment)

	return &ReportData{
		Building:   BuildingRef{ID: building.ID, Name: building.Name},
		ReportDate: reportDate,
		Report:     report,
		Sections:   sections,
		TimeZone:   loc.String(),
	}, nil
}

// EnsureServiceReport resolves the editorial row for a (building, date)
// pair, creating a draft on first touch. Editorial endpoints use this
// directly so they don't pay for the full aggregation.
func EnsureServiceReport(db *gorm.DB, loc *time.Location, buildingID, reportDate string, userID *uuid.UUID) (*models.ServiceReport, error) {
	if utils.ResolveDayRange(reportDate, loc) == nil {
		return nil, ErrInvalidDate
	}

	var building models.Building
	if err := db.Where("id = ?", buildingID).First(&building).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBuildingNotFound
		}
		return nil, fmt.Errorf("load building: %w", err)
	}
	return ensureServiceReport(db, building.ID, reportDate, userID)
}

// ensureServiceReport is the fetch-or-create step. When the insert
// races with a concurrent first view, the unique constraint on
// (building_id, report_date) rejects the second writer; that failure
// is swallowed and resolved by re-reading.
func ensureServiceReport(db *gorm.DB, buildingID uuid.UUID, reportDate string, userID *uuid.UUID) (*models.ServiceReport, error) {
	var report models.ServiceReport
	err := db.Where("building_id = ? AND report_date = ?", buildingID, reportDate).First(&report).Error
	if err == nil {
		return &report, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load service report: %w", err)
	}

	fresh := models.ServiceReport{
		BuildingID: buildingID,
		ReportDate: reportDate,
		Status:     models.ReportDraft,
		CreatedBy:  userID,
		UpdatedBy:  userID,
	}
	if err := db.Create(&fresh).Error; err == nil {
		return &fresh, nil
	}

	if err := db.Where("building_id = ? AND report_date = ?", buildingID, reportDate).First(&report).Error; err != nil {
		return nil, fmt.Errorf("load service report after insert race: %w", err)
	}
	return &report, nil
}

// AssembleSections groups completed visits by template. Sections come
// out sorted by template name, visits inside a section by completion
// time ascending, and each section's items by (sort_order, id).
func AssembleSections(visits []models.Visit, templates []models.VisitTemplate,
	items []models.TemplateItem, responses []models.VisitResponse,
	equipment []models.Equipment) []Section {

	templateNames := make(map[uuid.UUID]string, len(templates))
	for _, tpl := range templates {
		templateNames[tpl.ID] = tpl.Name
	}

	itemsByTemplate := make(map[uuid.UUID][]models.TemplateItem)
	for _, item := range items {
		itemsByTemplate[item.TemplateID] = append(itemsByTemplate[item.TemplateID], item)
	}
	for id := range itemsByTemplate {
		models.SortTemplateItems(itemsByTemplate[id])
	}

	equipmentLabels := make(map[uuid.UUID]string, len(equipment))
	for i := range equipment {
		equipmentLabels[equipment[i].ID] = equipment[i].DisplayLabel()
	}

	latest := LatestResponses(responses)

	responsesByVisit := make(map[uuid.UUID][]models.VisitResponse)
	for _, response := range responses {
		responsesByVisit[response.VisitID] = append(responsesByVisit[response.VisitID], response)
	}

	sectionsByTemplate := make(map[uuid.UUID]*Section)
	order := make([]uuid.UUID, 0)
	for _, visit := range visits {
		section, ok := sectionsByTemplate[visit.TemplateID]
		if !ok {
			name := templateNames[visit.TemplateID]
			if name == "" {
				name = "Template"
			}
			section = &Section{
				TemplateID:   visit.TemplateID,
				TemplateName: name,
				Items:        itemsByTemplate[visit.TemplateID],
				Visits:       []VisitEntry{},
			}
			if section.Items == nil {
				section.Items = []models.TemplateItem{}
			}
			sectionsByTemplate[visit.TemplateID] = section
			order = append(order, visit.TemplateID)
		}

		latestByItem := make(map[uuid.UUID]models.VisitResponse)
		labels := make([]string, 0)
		seenLabels := make(map[string]bool)
		for _, response := range responsesByVisit[visit.ID] {
			key := ResponseKey{VisitID: visit.ID, ItemID: response.ItemID}
			if current, ok := latest[key]; ok {
				latestByItem[response.ItemID] = current
			}
			if response.EquipmentID != nil {
				if label, ok := equipmentLabels[*response.EquipmentID]; ok && !seenLabels[label] {
					seenLabels[label] = true
					labels = append(labels, label)
				}
			}
		}

		section.Visits = append(section.Visits, VisitEntry{
			ID:              visit.ID,
			TemplateID:      visit.TemplateID,
			CompletedAt:     visit.CompletedAt,
			EquipmentLabels: labels,
			LatestByItem:    latestByItem,
		})
	}

	sections := make([]Section, 0, len(order))
	for _, id := range order {
		sections = append(sections, *sectionsByTemplate[id])
	}

	sort.SliceStable(sections, func(a, b int) bool {
		return strings.ToLower(sections[a].TemplateName) < strings.ToLower(sections[b].TemplateName)
	})
	for i := range sections {
		visits := sections[i].Visits
		sort.SliceStable(visits, func(a, b int) bool {
			ta := timeOrZero(visits[a].CompletedAt)
			tb := timeOrZero(visits[b].CompletedAt)
			return ta.Before(tb)
		})
	}

	return sections
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
