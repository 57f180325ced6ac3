package routes

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/mapelec/handlers"
	"p9e.in/mapelec/middleware"
	"p9e.in/mapelec/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handleProfile).Methods("GET")
	api.HandleFunc("/me", handlers.GetCurrentUser).Methods("GET")

	registerBuildingRoutes(api)
	registerTemplateRoutes(api)
	registerVisitRoutes(api)
	registerServiceReportRoutes(api)
	registerCrewRoutes(api)

	// =====================================================
	// Admin Routes (ops managers and directors)
	// =====================================================
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Handle("/users", middleware.RequireRole([]string{models.RoleOpsManager},
		http.HandlerFunc(handlers.Register))).Methods("POST")

	return r
}

// handleProfile returns the authenticated user's profile
func handleProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	user := middleware.GetUser(r)

	response := map[string]interface{}{
		"userID":   claims.UserID,
		"fullName": user.FullName,
		"email":    user.Email,
		"role":     user.Role,
	}
	json.NewEncoder(w).Encode(response)
}

func registerBuildingRoutes(api *mux.Router) {
	manage := []string{models.RoleOpsManager}

	api.HandleFunc("/buildings", handlers.GetAllBuildings).Methods("GET")
	api.Handle("/buildings", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.CreateBuilding))).Methods("POST")
	api.HandleFunc("/buildings/{id}", handlers.GetBuilding).Methods("GET")
	api.Handle("/buildings/{id}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.UpdateBuilding))).Methods("PUT")
	api.Handle("/buildings/{id}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.DeleteBuilding))).Methods("DELETE")

	// Equipment is nested under its building
	api.HandleFunc("/buildings/{id}/equipment", handlers.GetBuildingEquipment).Methods("GET")
	api.Handle("/buildings/{id}/equipment", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.CreateEquipment))).Methods("POST")
	api.Handle("/buildings/{id}/equipment/{equipmentId}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.UpdateEquipment))).Methods("PUT")
	api.Handle("/buildings/{id}/equipment/{equipmentId}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.DeleteEquipment))).Methods("DELETE")
}

func registerTemplateRoutes(api *mux.Router) {
	manage := []string{models.RoleOpsManager}

	api.HandleFunc("/templates", handlers.GetAllTemplates).Methods("GET")
	api.HandleFunc("/templates/{id}", handlers.GetTemplate).Methods("GET")
	api.Handle("/templates", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.CreateTemplate))).Methods("POST")
	api.Handle("/templates/{id}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.UpdateTemplate))).Methods("PUT")
	api.Handle("/templates/{id}/items", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.AddTemplateItem))).Methods("POST")
	api.Handle("/templates/{id}/items/{itemId}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.UpdateTemplateItem))).Methods("PUT")
	api.Handle("/templates/{id}/items/{itemId}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.DeleteTemplateItem))).Methods("DELETE")
}

func registerVisitRoutes(api *mux.Router) {
	schedule := []string{models.RoleOpsManager}
	field := []string{models.RoleTech, models.RoleOpsManager}

	api.Handle("/visits", middleware.RequireRole(schedule,
		http.HandlerFunc(handlers.CreateVisit))).Methods("POST")
	api.HandleFunc("/visits", handlers.GetDayBoard).Methods("GET")
	api.HandleFunc("/visits/{id}", handlers.GetVisit).Methods("GET")
	api.Handle("/visits/{id}/start", middleware.RequireRole(field,
		http.HandlerFunc(handlers.StartVisit))).Methods("POST")
	api.Handle("/visits/{id}/responses", middleware.RequireRole(field,
		http.HandlerFunc(handlers.SaveVisitResponses))).Methods("POST")
	api.Handle("/visits/{id}/complete", middleware.RequireRole(field,
		http.HandlerFunc(handlers.CompleteVisit))).Methods("POST")
	api.Handle("/visits/{id}/miss", middleware.RequireRole(schedule,
		http.HandlerFunc(handlers.MissVisit))).Methods("POST")
}

func registerServiceReportRoutes(api *mux.Router) {
	editorial := []string{models.RoleOpsManager}

	api.HandleFunc("/service-report", handlers.GetServiceReport).Methods("GET")
	api.HandleFunc("/service-report/pdf", handlers.GetServiceReportPDF).Methods("GET")
	api.HandleFunc("/service-report/excel", handlers.GetServiceReportExcel).Methods("GET")
	api.Handle("/service-report/notes", middleware.RequireRole(editorial,
		http.HandlerFunc(handlers.UpdateServiceReportNotes))).Methods("PATCH")
	api.Handle("/service-report/mark-ready", middleware.RequireRole(editorial,
		http.HandlerFunc(handlers.MarkServiceReportReady))).Methods("POST")
	api.Handle("/service-report/send", middleware.RequireRole(editorial,
		http.HandlerFunc(handlers.SendServiceReport))).Methods("POST")
}

func registerCrewRoutes(api *mux.Router) {
	manage := []string{models.RoleOpsManager}

	api.HandleFunc("/crews", handlers.GetAllCrews).Methods("GET")
	api.Handle("/crews", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.CreateCrew))).Methods("POST")
	api.Handle("/crews/{id}/members", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.AddCrewMember))).Methods("POST")
	api.Handle("/crews/{id}/members/{userId}", middleware.RequireRole(manage,
		http.HandlerFunc(handlers.RemoveCrewMember))).Methods("DELETE")
}
