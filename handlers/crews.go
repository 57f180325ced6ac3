package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/mapelec/config"
	"p9e.in/mapelec/models"
)

func GetAllCrews(w http.ResponseWriter, r *http.Request) {
	var crews []models.Crew
	query := config.DB.Preload("Members.User").Order("name ASC")
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&crews).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(crews)
}

func CreateCrew(w http.ResponseWriter, r *http.Request) {
	var crew models.Crew
	if err := json.NewDecoder(r.Body).Decode(&crew); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if crew.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if crew.Category != models.CategoryPump && crew.Category != models.CategoryFire {
		http.Error(w, "category must be pump or fire", http.StatusBadRequest)
		return
	}
	if err := config.DB.Create(&crew).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(crew)
}

func AddCrewMember(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	crewID, err := uuid.Parse(params["id"])
	if err != nil {
		http.Error(w, "invalid crew id", http.StatusBadRequest)
		return
	}

	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		http.Error(w, "invalid userId", http.StatusBadRequest)
		return
	}

	var crew models.Crew
	if err := config.DB.Where("id = ?", crewID).First(&crew).Error; err != nil {
		http.Error(w, "crew not found", http.StatusNotFound)
		return
	}
	var user models.User
	if err := config.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}

	var existing int64
	config.DB.Model(&models.CrewMember{}).
		Where("crew_id = ? AND user_id = ?", crewID, userID).Count(&existing)
	if existing > 0 {
		http.Error(w, "user is already a member", http.StatusConflict)
		return
	}

	member := models.CrewMember{CrewID: crewID, UserID: userID}
	if err := config.DB.Create(&member).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(member)
}

func RemoveCrewMember(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	if err := config.DB.Where("crew_id = ? AND user_id = ?", params["id"], params["userId"]).
		Delete(&models.CrewMember{}).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
