package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/mapelec/config"
	"p9e.in/mapelec/models"
)

func GetAllTemplates(w http.ResponseWriter, r *http.Request) {
	var templates []models.VisitTemplate
	query := config.DB.Preload("Items").Order("name ASC")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if r.URL.Query().Get("includeInactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&templates).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for i := range templates {
		models.SortTemplateItems(templates[i].Items)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(templates)
}

func GetTemplate(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var template models.VisitTemplate
	if err := config.DB.Preload("Items").Where("id = ?", id).First(&template).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	models.SortTemplateItems(template.Items)
	json.NewEncoder(w).Encode(template)
}

func CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var template models.VisitTemplate
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if template.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if template.Category != models.CategoryPump && template.Category != models.CategoryFire {
		http.Error(w, "category must be pump or fire", http.StatusBadRequest)
		return
	}
	for i := range template.Items {
		if !models.ValidItemType(template.Items[i].ItemType) {
			http.Error(w, "invalid item type: "+template.Items[i].ItemType, http.StatusBadRequest)
			return
		}
		if template.Items[i].ItemKind == "" {
			template.Items[i].ItemKind = models.ItemKindStandard
		}
	}
	template.IsActive = true

	if err := config.DB.Create(&template).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(template)
}

func UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["id"]

	var template models.VisitTemplate
	if err := config.DB.Where("id = ?", id).First(&template).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var body struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.Name != nil {
		template.Name = *body.Name
	}
	if body.IsActive != nil {
		template.IsActive = *body.IsActive
	}
	if err := config.DB.Save(&template).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(template)
}

// AddTemplateItem appends one checklist field to a template. The item
// kind defaults to standard; floor_table has to be stated explicitly.
func AddTemplateItem(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	templateID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid template id", http.StatusBadRequest)
		return
	}

	var template models.VisitTemplate
	if err := config.DB.Where("id = ?", templateID).First(&template).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var item models.TemplateItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Label == "" {
		http.Error(w, "label is required", http.StatusBadRequest)
		return
	}
	if !models.ValidItemType(item.ItemType) {
		http.Error(w, "invalid item type", http.StatusBadRequest)
		return
	}
	switch item.ItemKind {
	case "":
		item.ItemKind = models.ItemKindStandard
	case models.ItemKindStandard, models.ItemKindFloorTable:
	default:
		http.Error(w, "invalid item kind", http.StatusBadRequest)
		return
	}
	item.TemplateID = templateID

	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func UpdateTemplateItem(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	itemID := params["itemId"]

	var item models.TemplateItem
	if err := config.DB.Where("id = ? AND template_id = ?", itemID, params["id"]).First(&item).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	var body struct {
		Label     *string `json:"label"`
		ItemType  *string `json:"itemType"`
		ItemKind  *string `json:"itemKind"`
		Required  *bool   `json:"required"`
		SortOrder *int    `json:"sortOrder"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.Label != nil {
		item.Label = *body.Label
	}
	if body.ItemType != nil {
		if !models.ValidItemType(*body.ItemType) {
			http.Error(w, "invalid item type", http.StatusBadRequest)
			return
		}
		item.ItemType = *body.ItemType
	}
	if body.ItemKind != nil {
		if *body.ItemKind != models.ItemKindStandard && *body.ItemKind != models.ItemKindFloorTable {
			http.Error(w, "invalid item kind", http.StatusBadRequest)
			return
		}
		item.ItemKind = *body.ItemKind
	}
	if body.Required != nil {
		item.Required = *body.Required
	}
	if body.SortOrder != nil {
		item.SortOrder = *body.SortOrder
	}

	if err := config.DB.Save(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func DeleteTemplateItem(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	if err := config.DB.Where("id = ? AND template_id = ?", params["itemId"], params["id"]).
		Delete(&models.TemplateItem{}).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
