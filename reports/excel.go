package reports

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"p9e.in/mapelec/models"
)

// RenderExcel renders the same aggregate the PDF uses as a workbook:
// one sheet per template section, one row per item per execution, with
// the recorrido table expanded to one row per floor.
func RenderExcel(data *ReportData, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
	})

	summarySheet := "Resumen"
	f.SetSheetName("Sheet1", summarySheet)
	f.SetCellValue(summarySheet, "A1", fmt.Sprintf("Service report · %s", data.Building.Name))
	f.SetCellStyle(summarySheet, "A1", "A1", titleStyle)
	f.SetCellValue(summarySheet, "A2", fmt.Sprintf("Fecha: %s", data.ReportDate))
	if data.Report != nil {
		f.SetCellValue(summarySheet, "A3", fmt.Sprintf("Estado: %s", data.Report.Status))
		if data.Report.ClientSummary != nil {
			f.SetCellValue(summarySheet, "A5", "Resumen para cliente")
			f.SetCellValue(summarySheet, "B5", *data.Report.ClientSummary)
		}
		if data.Report.InternalNotes != nil {
			f.SetCellValue(summarySheet, "A6", "Notas internas")
			f.SetCellValue(summarySheet, "B6", *data.Report.InternalNotes)
		}
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 60)

	for idx, section := range data.Sections {
		sheet := sheetNameFor(section.TemplateName, idx)
		f.NewSheet(sheet)

		f.SetCellValue(sheet, "A1", section.TemplateName)
		f.SetCellStyle(sheet, "A1", "A1", titleStyle)

		headers := []string{"Ejecución", "Completada", "Item", "Valor"}
		for col, header := range headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 3)
			f.SetCellValue(sheet, cell, header)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}
		f.SetColWidth(sheet, "A", "B", 18)
		f.SetColWidth(sheet, "C", "C", 40)
		f.SetColWidth(sheet, "D", "D", 60)

		row := 4
		for visitIdx, visit := range section.Visits {
			execLabel := fmt.Sprintf("#%d", visitIdx+1)
			completed := FormatLocalDateTime(visit.CompletedAt, loc)

			for _, item := range section.Items {
				var response *models.VisitResponse
				if current, ok := visit.LatestByItem[item.ID]; ok {
					c := current
					response = &c
				}

				if IsRecorridoItem(item) && response != nil && response.ValueText != nil {
					if rows := DecodeRecorridoRows(*response.ValueText); rows != nil {
						setSectionRow(f, sheet, &row, execLabel, completed, item.Label, "")
						if len(rows) == 0 {
							setSectionRow(f, sheet, &row, "", "", "", "Sin filas.")
							continue
						}
						for rowIdx, tableRow := range rows {
							setSectionRow(f, sheet, &row, "", "", "", FormatRecorridoRow(tableRow, rowIdx))
						}
						continue
					}
				}

				setSectionRow(f, sheet, &row, execLabel, completed, item.Label,
					FormatResponseValue(item.ItemType, response))
			}
		}
	}

	return f, nil
}

func setSectionRow(f *excelize.File, sheet string, row *int, cols ...string) {
	for col, value := range cols {
		if value == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(col+1, *row)
		f.SetCellValue(sheet, cell, value)
	}
	*row++
}

// sheetNameFor trims a template name to Excel's 31-char sheet limit,
// replaces the characters Excel forbids in sheet names and keeps names
// unique per section index.
func sheetNameFor(name string, idx int) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '/', '\\', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, name)

	suffix := fmt.Sprintf(" (%d)", idx+1)
	max := 31 - len(suffix)
	runes := []rune(name)
	if len(runes) > max {
		runes = runes[:max]
	}
	return string(runes) + suffix
}
