package reports

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"

	"p9e.in/mapelec/models"
)

func writeTestLogo(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create logo: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode logo: %v", err)
	}
	return path
}

func sampleReportData() *ReportData {
	completedAt := time.Date(2024, 6, 1, 14, 30, 0, 0, time.UTC)
	summary := "Mantenimiento preventivo completado sin novedades mayores."
	notes := "Revisar válvula del piso 3 en la próxima visita."

	item := models.TemplateItem{
		ID: uuid.New(), Label: "Pressure OK",
		ItemType: models.ItemTypeCheckbox, ItemKind: models.ItemKindStandard,
	}
	tableItem := models.TemplateItem{
		ID: uuid.New(), Label: "Recorrido por pisos",
		ItemType: models.ItemTypeTextarea, ItemKind: models.ItemKindFloorTable,
	}

	truthy := true
	tableValue := `[{"piso":"PB","presion_entrada":25,"extintores":true},{"piso":"1"}]`

	return &ReportData{
		Building:   BuildingRef{ID: uuid.New(), Name: "Tower A"},
		ReportDate: "2024-06-01",
		Report: &models.ServiceReport{
			Status:        models.ReportDraft,
			ClientSummary: &summary,
			InternalNotes: &notes,
		},
		Sections: []Section{
			{
				TemplateID:   uuid.New(),
				TemplateName: "Fire system inspection",
				Items:        []models.TemplateItem{item, tableItem},
				Visits: []VisitEntry{
					{
						ID:          uuid.New(),
						CompletedAt: &completedAt,
						LatestByItem: map[uuid.UUID]models.VisitResponse{
							item.ID:      {ValueBool: &truthy},
							tableItem.ID: {ValueText: &tableValue},
						},
					},
				},
			},
		},
		TimeZone: "America/Panama",
	}
}

func TestRenderPDFSmoke(t *testing.T) {
	loc, _ := time.LoadLocation("America/Panama")
	out, err := RenderPDF(sampleReportData(), RenderConfig{
		LogoPath: writeTestLogo(t),
		Location: loc,
	})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output does not start with a PDF header")
	}
	if len(out) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(out))
	}
}

func TestRenderPDFMissingLogo(t *testing.T) {
	_, err := RenderPDF(sampleReportData(), RenderConfig{
		LogoPath: filepath.Join(t.TempDir(), "missing.png"),
	})
	if err == nil {
		t.Fatal("expected a terminal error for a missing logo asset")
	}
}

func TestSanitizePDFText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"check mark", "Bomba ✅", "Bomba SI"},
		{"cross mark", "Alarma ❌", "Alarma NO"},
		{"variant selector stripped", "ok️", "ok"},
		{"emoji stripped", "fuga 🚨 detectada", "fuga  detectada"},
		{"accents preserved", "Válvula · presión — Sí", "Válvula · presión — Sí"},
		{"plain ascii untouched", "Pressure OK", "Pressure OK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePDFText(tt.in); got != tt.want {
				t.Errorf("SanitizePDFText(%q) = %q, expected %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWrapTextGreedy(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.AddPage()
	r := &pdfRenderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.pageW, r.pageH = pdf.GetPageSize()

	lines := r.wrapText("uno dos tres cuatro cinco seis siete ocho nueve diez "+
		"once doce trece catorce quince dieciséis diecisiete dieciocho diecinueve veinte "+
		"veintiuno veintidós veintitrés veinticuatro veinticinco veintiséis veintisiete", "", bodyFontSize)
	if len(lines) < 2 {
		t.Errorf("long text should wrap onto multiple lines, got %d", len(lines))
	}
	for _, line := range lines {
		pdf.SetFont("Helvetica", "", bodyFontSize)
		if w := pdf.GetStringWidth(r.tr(line)); w > r.contentWidth() {
			t.Errorf("wrapped line wider than content width: %q (%.1fpt)", line, w)
		}
	}

	if lines := r.wrapText("   ", "", bodyFontSize); len(lines) != 1 || lines[0] != Placeholder {
		t.Errorf("empty text should wrap to the placeholder, got %v", lines)
	}
}
