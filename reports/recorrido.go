// Package reports assembles the per-day service report for a building:
// it collects the day's completed visits, collapses their response
// history to current values, and renders the result as PDF, Excel or a
// JSON payload for the interactive view.
package reports

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"p9e.in/mapelec/models"
)

// RecorridoRow is one row of the floor-by-floor inspection table that
// fire-system checklists embed as JSON text inside a single response.
type RecorridoRow struct {
	Piso                   string   `json:"piso"`
	PresionEntrada         *float64 `json:"presion_entrada"`
	PresionSalida          *float64 `json:"presion_salida"`
	EstacionControlAbierta bool     `json:"estacion_control_abierta"`
	EstacionControlCerrada bool     `json:"estacion_control_cerrada"`
	ValvulaReguladora      bool     `json:"valvula_reguladora"`
	EstadoManometro        bool     `json:"estado_manometro"`
	GabinetesManguera      bool     `json:"gabinetes_manguera"`
	Extintores             bool     `json:"extintores"`
	Observacion            string   `json:"observacion"`
}

// recorridoLabelPrefix is the legacy selector: items created before the
// item_kind column recognized the table purely by this label prefix.
const recorridoLabelPrefix = "recorrido por pisos"

// IsRecorridoItem reports whether an item carries the floor-by-floor
// table. The authoring-time kind tag is authoritative; the label-prefix
// match remains as a fallback for rows that predate the tag.
func IsRecorridoItem(item models.TemplateItem) bool {
	if item.ItemKind == models.ItemKindFloorTable {
		return true
	}
	return HasRecorridoLabel(item.Label)
}

// HasRecorridoLabel is the legacy case-insensitive prefix match.
func HasRecorridoLabel(label string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(label)), recorridoLabelPrefix)
}

// DecodeRecorridoRows parses the JSON-encoded table out of a response's
// text value. A nil result means "no structured rows" (empty input,
// not JSON, or not an array) and callers fall back to plain rendering;
// an empty non-nil slice is a valid table with zero rows. Each element
// is normalized independently: wrong-typed fields take type defaults,
// and non-object elements are dropped rather than failing the decode.
func DecodeRecorridoRows(value string) []RecorridoRow {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil
	}
	rows := make([]RecorridoRow, 0, len(raw))
	for _, elem := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil {
			continue
		}
		rows = append(rows, RecorridoRow{
			Piso:                   stringField(fields, "piso"),
			PresionEntrada:         numberField(fields, "presion_entrada"),
			PresionSalida:          numberField(fields, "presion_salida"),
			EstacionControlAbierta: boolField(fields, "estacion_control_abierta"),
			EstacionControlCerrada: boolField(fields, "estacion_control_cerrada"),
			ValvulaReguladora:      boolField(fields, "valvula_reguladora"),
			EstadoManometro:        boolField(fields, "estado_manometro"),
			GabinetesManguera:      boolField(fields, "gabinetes_manguera"),
			Extintores:             boolField(fields, "extintores"),
			Observacion:            stringField(fields, "observacion"),
		})
	}
	return rows
}

// EncodeRecorridoRows canonicalizes and serializes a table for storage
// in a response's text value: string fields trimmed, the row order
// preserved.
func EncodeRecorridoRows(rows []RecorridoRow) (string, error) {
	normalized := make([]RecorridoRow, len(rows))
	for i, row := range rows {
		row.Piso = strings.TrimSpace(row.Piso)
		row.Observacion = strings.TrimSpace(row.Observacion)
		normalized[i] = row
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// NumberOrNil coerces a numeric-looking string ("25", " 3.5 ") to a
// number; blank or non-numeric input becomes nil. Used when recorrido
// pressures arrive as free text from the capture form.
func NumberOrNil(s string) *float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// FormatRecorridoRow renders one row as a single report line. The
// index is 0-based and shown as "Fila N".
func FormatRecorridoRow(row RecorridoRow, index int) string {
	piso := strings.TrimSpace(row.Piso)
	if piso == "" {
		piso = Placeholder
	}
	obs := strings.TrimSpace(row.Observacion)
	if obs == "" {
		obs = Placeholder
	}
	return fmt.Sprintf(
		"Fila %d · Piso: %s · P. entrada: %s · P. salida: %s · "+
			"E.C. abierta: %s · E.C. cerrada: %s · Válvula reguladora: %s · "+
			"Estado manómetro: %s · Gabinetes/manguera: %s · Extintores: %s · Obs: %s",
		index+1, piso,
		formatOptionalNumber(row.PresionEntrada), formatOptionalNumber(row.PresionSalida),
		formatBool(row.EstacionControlAbierta), formatBool(row.EstacionControlCerrada),
		formatBool(row.ValvulaReguladora), formatBool(row.EstadoManometro),
		formatBool(row.GabinetesManguera), formatBool(row.Extintores), obs)
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func numberField(fields map[string]json.RawMessage, key string) *float64 {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}

func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false
	}
	return b
}
