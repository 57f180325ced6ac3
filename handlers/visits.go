package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/mapelec/config"
	"p9e.in/mapelec/middleware"
	"p9e.in/mapelec/models"
	"p9e.in/mapelec/reports"
	"p9e.in/mapelec/utils"
)

type createVisitReq struct {
	BuildingID         string  `json:"buildingId"`
	TemplateID         string  `json:"templateId"`
	ScheduledFor       string  `json:"scheduledFor"`
	AssignedCrewID     *string `json:"assignedCrewId"`
	AssignedTechUserID *string `json:"assignedTechUserId"`
}

func CreateVisit(w http.ResponseWriter, r *http.Request) {
	var req createVisitReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	buildingID, err := uuid.Parse(req.BuildingID)
	if err != nil {
		http.Error(w, "invalid buildingId", http.StatusBadRequest)
		return
	}
	templateID, err := uuid.Parse(req.TemplateID)
	if err != nil {
		http.Error(w, "invalid templateId", http.StatusBadRequest)
		return
	}
	if utils.ResolveDayRange(req.ScheduledFor, config.ReportLocation) == nil {
		http.Error(w, "scheduledFor must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	var building models.Building
	if err := config.DB.Where("id = ?", buildingID).First(&building).Error; err != nil {
		http.Error(w, "building not found", http.StatusNotFound)
		return
	}
	var template models.VisitTemplate
	if err := config.DB.Where("id = ? AND is_active = ?", templateID, true).First(&template).Error; err != nil {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	visit := models.Visit{
		BuildingID:   buildingID,
		TemplateID:   templateID,
		ScheduledFor: req.ScheduledFor,
		Status:       models.VisitPlanned,
	}
	if req.AssignedCrewID != nil {
		if crewID, err := uuid.Parse(*req.AssignedCrewID); err == nil {
			visit.AssignedCrewID = &crewID
		}
	}
	if req.AssignedTechUserID != nil {
		if techID, err := uuid.Parse(*req.AssignedTechUserID); err == nil {
			visit.AssignedTechUserID = &techID
		}
	}

	if err := config.DB.Create(&visit).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(visit)
}

// GetDayBoard lists the visits for one civil date; filters by building
// or crew are optional.
func GetDayBoard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if utils.ResolveDayRange(date, config.ReportLocation) == nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	query := config.DB.Preload("Building").Preload("Template").
		Where("scheduled_for = ?", date)
	if buildingID := r.URL.Query().Get("buildingId"); buildingID != "" {
		query = query.Where("building_id = ?", buildingID)
	}
	if crewID := r.URL.Query().Get("crewId"); crewID != "" {
		query = query.Where("assigned_crew_id = ?", crewID)
	}

	var visits []models.Visit
	if err := query.Order("created_at ASC").Find(&visits).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(visits)
}

func GetVisit(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var visit models.Visit
	if err := config.DB.Preload("Building").Preload("Template.Items").
		Where("id = ?", params["id"]).First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	models.SortTemplateItems(visit.Template.Items)

	var responses []models.VisitResponse
	if err := config.DB.Where("visit_id = ?", visit.ID).
		Order("created_at ASC, id ASC").Find(&responses).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	latest := reports.LatestResponses(responses)
	latestByItem := make(map[string]models.VisitResponse, len(latest))
	for key, response := range latest {
		latestByItem[key.ItemID.String()] = response
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"visit":                visit,
		"latestResponseByItem": latestByItem,
	})
}

// StartVisit moves a planned visit to in_progress and stamps StartedAt.
func StartVisit(w http.ResponseWriter, r *http.Request) {
	transitionVisit(w, r, models.VisitActionStart)
}

// MissVisit marks a visit that never happened. Allowed from planned and
// in_progress; completed visits stay completed.
func MissVisit(w http.ResponseWriter, r *http.Request) {
	transitionVisit(w, r, models.VisitActionMiss)
}

func transitionVisit(w http.ResponseWriter, r *http.Request, action string) {
	params := mux.Vars(r)

	var visit models.Visit
	if err := config.DB.Where("id = ?", params["id"]).First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if !canWorkVisit(r, visit) {
		http.Error(w, "visit is not assigned to you", http.StatusForbidden)
		return
	}

	next, ok := models.VisitTransition(visit.Status, action)
	if !ok {
		http.Error(w, fmt.Sprintf("cannot %s a %s visit", action, visit.Status), http.StatusConflict)
		return
	}

	now := time.Now()
	visit.Status = next
	if action == models.VisitActionStart {
		visit.StartedAt = &now
	}

	if err := config.DB.Save(&visit).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(visit)
}

type responseInput struct {
	ItemID      string   `json:"itemId"`
	EquipmentID *string  `json:"equipmentId"`
	ValueBool   *bool    `json:"valueBool"`
	ValueNumber *float64 `json:"valueNumber"`
	ValueText   *string  `json:"valueText"`
}

// SaveVisitResponses appends a batch of response rows for an
// in-progress visit. Rows are never updated in place: a correction is a
// new row and the aggregation keeps the newest per (visit, item).
func SaveVisitResponses(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var visit models.Visit
	if err := config.DB.Where("id = ?", params["id"]).First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if !canWorkVisit(r, visit) {
		http.Error(w, "visit is not assigned to you", http.StatusForbidden)
		return
	}
	if visit.Status != models.VisitInProgress {
		http.Error(w, "responses can only be saved on an in_progress visit", http.StatusConflict)
		return
	}

	var body struct {
		Responses []responseInput `json:"responses"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(body.Responses) == 0 {
		http.Error(w, "responses is empty", http.StatusBadRequest)
		return
	}

	itemIDs := make([]uuid.UUID, 0, len(body.Responses))
	for _, input := range body.Responses {
		itemID, err := uuid.Parse(input.ItemID)
		if err != nil {
			http.Error(w, "invalid itemId: "+input.ItemID, http.StatusBadRequest)
			return
		}
		itemIDs = append(itemIDs, itemID)
	}

	var items []models.TemplateItem
	if err := config.DB.Where("id IN ? AND template_id = ?", itemIDs, visit.TemplateID).
		Find(&items).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	itemsByID := make(map[uuid.UUID]models.TemplateItem, len(items))
	for _, item := range items {
		itemsByID[item.ID] = item
	}
	for _, id := range itemIDs {
		if _, ok := itemsByID[id]; !ok {
			http.Error(w, "one or more items do not belong to the visit's template", http.StatusBadRequest)
			return
		}
	}

	var userID *uuid.UUID
	if parsed, err := uuid.Parse(middleware.GetUserID(r)); err == nil {
		userID = &parsed
	}

	rows := make([]models.VisitResponse, 0, len(body.Responses))
	for i, input := range body.Responses {
		text := input.ValueText
		if text != nil {
			if item := itemsByID[itemIDs[i]]; reports.IsRecorridoItem(item) {
				// Canonicalize the floor table before storing: trimmed
				// strings, stable field order.
				if tableRows := reports.DecodeRecorridoRows(*text); tableRows != nil {
					if encoded, err := reports.EncodeRecorridoRows(tableRows); err == nil {
						text = &encoded
					}
				}
			}
		}
		row := models.VisitResponse{
			VisitID:     visit.ID,
			ItemID:      itemIDs[i],
			ValueBool:   input.ValueBool,
			ValueNumber: input.ValueNumber,
			ValueText:   text,
			CreatedBy:   userID,
		}
		if input.EquipmentID != nil {
			if equipmentID, err := uuid.Parse(*input.EquipmentID); err == nil {
				row.EquipmentID = &equipmentID
			}
		}
		rows = append(rows, row)
	}

	if err := config.DB.Create(&rows).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]int{"saved": len(rows)})
}

// CompleteVisit closes an in_progress visit. Every required item must
// have a current response with a usable value, otherwise the request is
// rejected with the list of missing labels.
func CompleteVisit(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	var visit models.Visit
	if err := config.DB.Where("id = ?", params["id"]).First(&visit).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if !canWorkVisit(r, visit) {
		http.Error(w, "visit is not assigned to you", http.StatusForbidden)
		return
	}

	next, ok := models.VisitTransition(visit.Status, models.VisitActionComplete)
	if !ok {
		http.Error(w, fmt.Sprintf("cannot complete a %s visit", visit.Status), http.StatusConflict)
		return
	}

	var required []models.TemplateItem
	if err := config.DB.Where("template_id = ? AND required = ?", visit.TemplateID, true).
		Find(&required).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	var responses []models.VisitResponse
	if err := config.DB.Where("visit_id = ?", visit.ID).
		Order("created_at ASC, id ASC").Find(&responses).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	latest := reports.LatestResponses(responses)

	missing := make([]string, 0)
	for _, item := range required {
		response, ok := latest[reports.ResponseKey{VisitID: visit.ID, ItemID: item.ID}]
		if !ok || !responseHasValue(item, response) {
			missing = append(missing, item.Label)
		}
	}
	if len(missing) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error":   "required items are missing responses",
			"missing": missing,
		})
		return
	}

	now := time.Now()
	visit.Status = next
	visit.CompletedAt = &now
	if userID, err := uuid.Parse(middleware.GetUserID(r)); err == nil {
		visit.CompletedBy = &userID
	}

	if err := config.DB.Save(&visit).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(visit)
}

// responseHasValue checks the column matching the item type. Checkbox
// items satisfy the requirement with either true or false, as long as a
// value was explicitly recorded.
func responseHasValue(item models.TemplateItem, response models.VisitResponse) bool {
	switch item.ItemType {
	case models.ItemTypeCheckbox:
		return response.ValueBool != nil
	case models.ItemTypeNumber:
		return response.ValueNumber != nil
	default:
		return response.ValueText != nil && *response.ValueText != ""
	}
}

// canWorkVisit gates field actions for techs: a tech may only touch a
// visit assigned to them directly or through one of their crews. Ops
// managers and directors touch any visit.
func canWorkVisit(r *http.Request, visit models.Visit) bool {
	if middleware.GetRole(r) != models.RoleTech {
		return true
	}
	userID, err := uuid.Parse(middleware.GetUserID(r))
	if err != nil {
		return false
	}
	if visit.AssignedTechUserID != nil && *visit.AssignedTechUserID == userID {
		return true
	}
	if visit.AssignedCrewID != nil {
		var membership int64
		config.DB.Model(&models.CrewMember{}).
			Where("crew_id = ? AND user_id = ?", *visit.AssignedCrewID, userID).
			Count(&membership)
		return membership > 0
	}
	return false
}
