package reports

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"p9e.in/mapelec/models"
)

// Page geometry and type sizes, in points on a Letter page.
const (
	pageMargin     = 48.0
	bodyFontSize   = 11.0
	headerFontSize = 16.0
	lineHeight     = 16.0
	noteFontSize   = 9.0
	noteLineHeight = 12.0
)

const checklistLegend = "SI = OK · NO = Falla · N/A: escríbelo en Observaciones"

// RenderConfig carries the static assets and locale the PDF needs.
type RenderConfig struct {
	LogoPath string
	Location *time.Location
}

// RenderPDF paints the aggregated report into a paginated document.
// A missing logo asset is a terminal error: there is no meaningful
// partial PDF to return.
func RenderPDF(data *ReportData, cfg RenderConfig) ([]byte, error) {
	if _, err := os.Stat(cfg.LogoPath); err != nil {
		return nil, fmt.Errorf("logo asset: %w", err)
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	r := &pdfRenderer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
	r.pageW, r.pageH = pdf.GetPageSize()
	pdf.AddPage()
	r.cursorY = pageMargin

	r.drawHeader(data, cfg.LogoPath)

	if data.Report != nil {
		r.drawTextBlock("Resumen para cliente:", data.Report.ClientSummary)
		r.drawTextBlock("Notas internas:", data.Report.InternalNotes)
	}

	for _, section := range data.Sections {
		r.drawSection(section, loc)
	}

	r.drawFooter()

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

type pdfRenderer struct {
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	pageW   float64
	pageH   float64
	cursorY float64
}

func (r *pdfRenderer) contentWidth() float64 {
	return r.pageW - pageMargin*2
}

// ensureSpace starts a new page when fewer than the given number of
// body lines fit above the bottom margin.
func (r *pdfRenderer) ensureSpace(lines int) {
	r.ensureRoom(float64(lines) * lineHeight)
}

func (r *pdfRenderer) ensureRoom(height float64) {
	if r.cursorY+height > r.pageH-pageMargin {
		r.pdf.AddPage()
		r.cursorY = pageMargin
	}
}

// drawLine paints one line at the cursor and advances it.
func (r *pdfRenderer) drawLine(text, style string, size, advance float64) {
	r.pdf.SetFont("Helvetica", style, size)
	r.pdf.Text(pageMargin, r.cursorY+size, r.tr(SanitizePDFText(text)))
	r.cursorY += advance
}

// drawWrapped word-wraps text to the content width, page-breaking per
// line.
func (r *pdfRenderer) drawWrapped(text, style string, size, advance float64) {
	for _, line := range r.wrapText(text, style, size) {
		r.ensureSpace(2)
		r.drawLine(line, style, size, advance)
	}
}

// wrapText is a greedy wrap: words accumulate while the measured width
// of "current line + next word" fits. Empty input wraps to the
// placeholder so a line is always painted.
func (r *pdfRenderer) wrapText(text, style string, size float64) []string {
	r.pdf.SetFont("Helvetica", style, size)
	maxWidth := r.contentWidth()

	words := strings.Fields(SanitizePDFText(text))
	var lines []string
	var current string
	for _, word := range words {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if r.pdf.GetStringWidth(r.tr(candidate)) <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	if len(lines) == 0 {
		return []string{Placeholder}
	}
	return lines
}

func (r *pdfRenderer) drawHeader(data *ReportData, logoPath string) {
	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	info := r.pdf.RegisterImageOptions(logoPath, opts)
	logoW, logoH := 0.0, 0.0
	if info != nil {
		scale := 0.25
		logoW = info.Width() * scale
		logoH = info.Height() * scale
		r.pdf.ImageOptions(logoPath, pageMargin, r.cursorY, logoW, logoH, false, opts, 0, "")
	}

	r.pdf.SetFont("Helvetica", "B", headerFontSize)
	r.pdf.Text(pageMargin+logoW+16, r.cursorY+headerFontSize, r.tr(SanitizePDFText("Service report del día")))

	headerH := headerFontSize + 4
	if logoH > headerH {
		headerH = logoH
	}
	r.cursorY += headerH + 16

	r.drawLine(fmt.Sprintf("Building: %s", data.Building.Name), "", bodyFontSize, lineHeight)
	r.drawLine(fmt.Sprintf("Fecha: %s", data.ReportDate), "", bodyFontSize, lineHeight+8)
}

// drawTextBlock paints a titled free-text block (client summary,
// internal notes); empty blocks are skipped entirely.
func (r *pdfRenderer) drawTextBlock(title string, body *string) {
	if body == nil {
		return
	}
	text := strings.TrimSpace(*body)
	if text == "" {
		return
	}
	r.ensureSpace(3)
	r.drawLine(title, "B", bodyFontSize, lineHeight)
	r.drawWrapped(text, "", bodyFontSize, lineHeight)
	r.cursorY += 8
}

func (r *pdfRenderer) drawSection(section Section, loc *time.Location) {
	// A section heading plus legend plus at least one execution line
	// should not start at the very bottom of a page.
	r.ensureRoom(120)

	r.drawLine(section.TemplateName, "B", bodyFontSize+1, lineHeight)

	r.pdf.SetTextColor(90, 90, 90)
	r.drawWrapped(checklistLegend, "", noteFontSize, noteLineHeight)
	r.pdf.SetTextColor(0, 0, 0)
	r.cursorY += 4

	for index, visit := range section.Visits {
		r.ensureSpace(2)
		title := fmt.Sprintf("Ejecución #%d · %s", index+1, FormatLocalDateTime(visit.CompletedAt, loc))
		r.drawLine(title, "", bodyFontSize, lineHeight)

		for _, item := range section.Items {
			var response *models.VisitResponse
			if current, ok := visit.LatestByItem[item.ID]; ok {
				response = &current
			}

			if IsRecorridoItem(item) && r.drawRecorrido(item.Label, response) {
				continue
			}

			value := FormatResponseValue(item.ItemType, response)
			r.drawWrapped(fmt.Sprintf("%s: %s", item.Label, value), "", bodyFontSize, lineHeight)
		}

		r.cursorY += 8
	}

	r.cursorY += 8
}

// drawRecorrido renders the floor-by-floor table as one line per row.
// It reports false when the value does not decode, in which case the
// caller falls back to the plain "label: value" line.
func (r *pdfRenderer) drawRecorrido(label string, response *models.VisitResponse) bool {
	if response == nil || response.ValueText == nil {
		return false
	}
	rows := DecodeRecorridoRows(*response.ValueText)
	if rows == nil {
		return false
	}

	r.drawWrapped(label+":", "", bodyFontSize, lineHeight)
	if len(rows) == 0 {
		r.drawWrapped("Sin filas.", "", bodyFontSize, lineHeight)
		return true
	}
	for index, row := range rows {
		r.drawWrapped(FormatRecorridoRow(row, index), "", bodyFontSize, lineHeight)
	}
	return true
}

func (r *pdfRenderer) drawFooter() {
	r.ensureRoom(80)
	r.drawLine("Firma del encargado (V2)", "", bodyFontSize, lineHeight*2)
	r.drawLine("Evidencia (V2)", "", bodyFontSize, lineHeight)
}

// cp1252Extras are the non-Latin-1 characters the core Helvetica
// encoding can still represent.
const cp1252Extras = "€‚ƒ„…†‡ˆ‰Š‹ŒŽ‘’“”•–—˜™š›œžŸ"

// SanitizePDFText substitutes glyphs the core font cannot encode:
// check/cross marks become their SI/NO equivalents, variant selectors
// and remaining pictographs are stripped.
func SanitizePDFText(value string) string {
	value = strings.ReplaceAll(value, "✅", "SI")
	value = strings.ReplaceAll(value, "✔", "SI")
	value = strings.ReplaceAll(value, "❌", "NO")
	value = strings.ReplaceAll(value, "✖", "NO")

	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= 0xFE00 && r <= 0xFE0F {
			continue
		}
		if r < 0x100 || strings.ContainsRune(cp1252Extras, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
