package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/mapelec/config"
	"p9e.in/mapelec/models"
)

func GetBuildingEquipment(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	buildingID := params["id"]

	var equipment []models.Equipment
	query := config.DB.Where("building_id = ?", buildingID).Order("name ASC")
	if r.URL.Query().Get("includeInactive") != "true" {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Find(&equipment).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(equipment)
}

func CreateEquipment(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	buildingID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid building id", http.StatusBadRequest)
		return
	}

	var building models.Building
	if err := config.DB.Where("id = ?", buildingID).First(&building).Error; err != nil {
		http.Error(w, "building not found", http.StatusNotFound)
		return
	}

	var item models.Equipment
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if item.Name == "" || item.EquipmentType == "" {
		http.Error(w, "name and equipmentType are required", http.StatusBadRequest)
		return
	}
	item.BuildingID = buildingID
	item.IsActive = true

	if err := config.DB.Create(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func UpdateEquipment(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["equipmentId"]

	var item models.Equipment
	if err := config.DB.Where("id = ?", id).First(&item).Error; err != nil {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := config.DB.Save(&item).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(item)
}

func DeleteEquipment(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id := params["equipmentId"]

	// Retire rather than hard-delete so historic responses keep their label.
	if err := config.DB.Model(&models.Equipment{}).
		Where("id = ?", id).Update("is_active", false).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
