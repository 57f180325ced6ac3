package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"p9e.in/mapelec/config"
	"p9e.in/mapelec/middleware"
	"p9e.in/mapelec/models"
	"p9e.in/mapelec/reports"
)

// requestUserID resolves the authenticated user's id, or nil when the
// claim is missing or malformed.
func requestUserID(r *http.Request) *uuid.UUID {
	if parsed, err := uuid.Parse(middleware.GetUserID(r)); err == nil {
		return &parsed
	}
	return nil
}

// reportQueryParams resolves the (building, date) pair from the query
// string. The date parameter is `reportDate`; `date` is accepted as a
// legacy alias.
func reportQueryParams(r *http.Request) (buildingID, date string) {
	q := r.URL.Query()
	date = q.Get("reportDate")
	if date == "" {
		date = q.Get("date")
	}
	return q.Get("buildingId"), date
}

func loadReportData(w http.ResponseWriter, r *http.Request) (*reports.ReportData, bool) {
	buildingID, date := reportQueryParams(r)
	if buildingID == "" || date == "" {
		http.Error(w, "buildingId and reportDate are required", http.StatusBadRequest)
		return nil, false
	}

	data, err := reports.GetServiceReportData(config.DB, config.ReportLocation, buildingID, date, requestUserID(r))
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrInvalidDate):
			http.Error(w, "reportDate must be YYYY-MM-DD", http.StatusBadRequest)
		case errors.Is(err, reports.ErrBuildingNotFound):
			http.Error(w, "building not found", http.StatusNotFound)
		default:
			log.Println("service report aggregation failed:", err)
			http.Error(w, internalErrorDetail(err), http.StatusInternalServerError)
		}
		return nil, false
	}
	return data, true
}

// internalErrorDetail masks failure detail in production; development
// answers carry the underlying error to speed up debugging.
func internalErrorDetail(err error) string {
	if config.IsProduction() {
		return "failed to generate report"
	}
	return "failed to generate report: " + err.Error()
}

// GetServiceReport serves the aggregated day report as JSON. This is
// the same aggregate the PDF and Excel renderers consume.
func GetServiceReport(w http.ResponseWriter, r *http.Request) {
	data, ok := loadReportData(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// GetServiceReportPDF renders and streams the day's PDF.
func GetServiceReportPDF(w http.ResponseWriter, r *http.Request) {
	data, ok := loadReportData(w, r)
	if !ok {
		return
	}

	pdfBytes, err := reports.RenderPDF(data, reports.RenderConfig{
		LogoPath: config.LogoPath(),
		Location: config.ReportLocation,
	})
	if err != nil {
		log.Println("PDF rendering failed:", err)
		http.Error(w, internalErrorDetail(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="service-report-%s.pdf"`, data.ReportDate))
	w.Write(pdfBytes)
}

// GetServiceReportExcel streams the day's report as a spreadsheet, one
// sheet per template section plus a summary sheet.
func GetServiceReportExcel(w http.ResponseWriter, r *http.Request) {
	data, ok := loadReportData(w, r)
	if !ok {
		return
	}

	f, err := reports.RenderExcel(data, config.ReportLocation)
	if err != nil {
		log.Println("Excel rendering failed:", err)
		http.Error(w, internalErrorDetail(err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="service-report-%s.xlsx"`, data.ReportDate))
	if err := f.Write(w); err != nil {
		log.Println("Excel write failed:", err)
	}
}

type reportNotesReq struct {
	ClientSummary *string `json:"clientSummary"`
	InternalNotes *string `json:"internalNotes"`
}

// UpdateServiceReportNotes edits the editorial text of a report. Sent
// reports are frozen.
func UpdateServiceReportNotes(w http.ResponseWriter, r *http.Request) {
	report, ok := loadEditableReport(w, r)
	if !ok {
		return
	}
	if report.Status == models.ReportSent {
		http.Error(w, "a sent report can no longer be edited", http.StatusConflict)
		return
	}

	var req reportNotesReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if req.ClientSummary != nil {
		report.ClientSummary = req.ClientSummary
	}
	if req.InternalNotes != nil {
		report.InternalNotes = req.InternalNotes
	}
	report.UpdatedBy = requestUserID(r)

	if err := config.DB.Save(report).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(report)
}

// MarkServiceReportReady moves a draft report to ready.
func MarkServiceReportReady(w http.ResponseWriter, r *http.Request) {
	transitionServiceReport(w, r, models.ReportActionMarkReady)
}

// SendServiceReport marks a ready report as sent and stamps who sent it
// and when.
func SendServiceReport(w http.ResponseWriter, r *http.Request) {
	transitionServiceReport(w, r, models.ReportActionSend)
}

func transitionServiceReport(w http.ResponseWriter, r *http.Request, action string) {
	report, ok := loadEditableReport(w, r)
	if !ok {
		return
	}

	next, ok := models.ReportTransition(report.Status, action)
	if !ok {
		http.Error(w, fmt.Sprintf("cannot %s a %s report", action, report.Status), http.StatusConflict)
		return
	}

	userID := requestUserID(r)
	report.Status = next
	report.UpdatedBy = userID
	if action == models.ReportActionSend {
		now := time.Now()
		report.SentAt = &now
		report.SentBy = userID
	}

	if err := config.DB.Save(report).Error; err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(report)
}

// loadEditableReport resolves the (building, date) pair from the query
// string into the existing ServiceReport row, creating it on first
// touch the same way the aggregate view does.
func loadEditableReport(w http.ResponseWriter, r *http.Request) (*models.ServiceReport, bool) {
	buildingID, date := reportQueryParams(r)
	if buildingID == "" || date == "" {
		http.Error(w, "buildingId and reportDate are required", http.StatusBadRequest)
		return nil, false
	}

	report, err := reports.EnsureServiceReport(config.DB, config.ReportLocation, buildingID, date, requestUserID(r))
	if err != nil {
		switch {
		case errors.Is(err, reports.ErrInvalidDate):
			http.Error(w, "reportDate must be YYYY-MM-DD", http.StatusBadRequest)
		case errors.Is(err, reports.ErrBuildingNotFound):
			http.Error(w, "building not found", http.StatusNotFound)
		default:
			log.Println("service report lookup failed:", err)
			http.Error(w, internalErrorDetail(err), http.StatusInternalServerError)
		}
		return nil, false
	}
	return report, true
}
