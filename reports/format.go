package reports

import (
	"strconv"
	"strings"
	"time"

	"p9e.in/mapelec/models"
)

// Placeholder marks a value that was never answered or is empty.
const Placeholder = "—"

// FormatResponseValue maps a typed response to its display string for
// both the PDF and the interactive view. The value column matching the
// item type is the only one consulted; stray values in the other
// columns are ignored.
func FormatResponseValue(itemType string, response *models.VisitResponse) string {
	if response == nil {
		return Placeholder
	}

	switch itemType {
	case models.ItemTypeCheckbox:
		if response.ValueBool == nil {
			return Placeholder
		}
		return formatBool(*response.ValueBool)
	case models.ItemTypeNumber:
		if response.ValueNumber == nil {
			return Placeholder
		}
		return strconv.FormatFloat(*response.ValueNumber, 'f', -1, 64)
	default:
		if response.ValueText == nil {
			return Placeholder
		}
		trimmed := strings.TrimSpace(*response.ValueText)
		if trimmed == "" {
			return Placeholder
		}
		return trimmed
	}
}

// FormatLocalDateTime renders a timestamp in the report timezone as
// dd/mm/yyyy hh:mm, the es-PA convention.
func FormatLocalDateTime(t *time.Time, loc *time.Location) string {
	if t == nil {
		return Placeholder
	}
	return t.In(loc).Format("02/01/2006 15:04")
}

func formatBool(v bool) string {
	if v {
		return "Sí"
	}
	return "No"
}

func formatOptionalNumber(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
