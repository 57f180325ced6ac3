package reports

import (
	"strings"
	"testing"

	"p9e.in/mapelec/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestDecodeRecorridoRowsResilience(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		wantNil  bool
		wantRows int
	}{
		{"empty string", "", true, 0},
		{"whitespace", "   ", true, 0},
		{"not json", "not json", true, 0},
		{"object not array", "{}", true, 0},
		{"valid empty array", "[]", false, 0},
		{"wrong typed string field", `[{"piso": 5}]`, false, 1},
		{"non-object element dropped", `[42, {"piso": "PB"}]`, false, 1},
		{"wrong typed number field", `[{"presion_entrada": "high"}]`, false, 1},
		{"wrong typed bool field", `[{"extintores": "yes"}]`, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := DecodeRecorridoRows(tt.value)
			if tt.wantNil {
				if rows != nil {
					t.Fatalf("DecodeRecorridoRows(%q) = %v, expected nil", tt.value, rows)
				}
				return
			}
			if rows == nil {
				t.Fatalf("DecodeRecorridoRows(%q) = nil, expected %d rows", tt.value, tt.wantRows)
			}
			if len(rows) != tt.wantRows {
				t.Fatalf("len = %d, expected %d", len(rows), tt.wantRows)
			}
		})
	}
}

func TestDecodeRecorridoRowsDefaults(t *testing.T) {
	rows := DecodeRecorridoRows(`[{"piso": 5, "presion_entrada": "x", "extintores": "si"}]`)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Piso != "" {
		t.Errorf("piso = %q, expected empty string default", row.Piso)
	}
	if row.PresionEntrada != nil {
		t.Errorf("presion_entrada = %v, expected nil default", *row.PresionEntrada)
	}
	if row.Extintores {
		t.Error("extintores should default to false for wrong-typed input")
	}
}

func TestRecorridoRoundTrip(t *testing.T) {
	rows := []RecorridoRow{
		{
			Piso:                   "  PB ",
			PresionEntrada:         floatPtr(25.5),
			PresionSalida:          nil,
			EstacionControlAbierta: true,
			Extintores:             true,
			Observacion:            " fuga leve ",
		},
		{
			Piso:           "Piso 2",
			PresionEntrada: floatPtr(30),
			PresionSalida:  floatPtr(28),
		},
	}

	encoded, err := EncodeRecorridoRows(rows)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded := DecodeRecorridoRows(encoded)
	if decoded == nil {
		t.Fatal("decode returned nil for freshly encoded rows")
	}
	if len(decoded) != 2 {
		t.Fatalf("len = %d, expected 2", len(decoded))
	}
	if decoded[0].Piso != "PB" {
		t.Errorf("piso = %q, expected trimmed %q", decoded[0].Piso, "PB")
	}
	if decoded[0].Observacion != "fuga leve" {
		t.Errorf("observacion = %q, expected trimmed %q", decoded[0].Observacion, "fuga leve")
	}
	if decoded[0].PresionEntrada == nil || *decoded[0].PresionEntrada != 25.5 {
		t.Errorf("presion_entrada not preserved: %v", decoded[0].PresionEntrada)
	}
	if decoded[0].PresionSalida != nil {
		t.Error("nil pressure should stay nil")
	}
	if !decoded[0].EstacionControlAbierta || !decoded[0].Extintores {
		t.Error("booleans not preserved")
	}
	if decoded[1].PresionSalida == nil || *decoded[1].PresionSalida != 28 {
		t.Errorf("second row pressure not preserved: %v", decoded[1].PresionSalida)
	}
}

func TestIsRecorridoItem(t *testing.T) {
	tests := []struct {
		name string
		item models.TemplateItem
		want bool
	}{
		{"kind tag wins", models.TemplateItem{ItemKind: models.ItemKindFloorTable, Label: "Tabla de presiones"}, true},
		{"legacy prefix match", models.TemplateItem{ItemKind: models.ItemKindStandard, Label: "Recorrido por pisos (torre A)"}, true},
		{"prefix is case-insensitive", models.TemplateItem{Label: "  RECORRIDO POR PISOS"}, true},
		{"unrelated label", models.TemplateItem{ItemKind: models.ItemKindStandard, Label: "Presión de succión"}, false},
		{"prefix in the middle does not match", models.TemplateItem{Label: "Checklist recorrido por pisos"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecorridoItem(tt.item); got != tt.want {
				t.Errorf("IsRecorridoItem(%q/%q) = %v, expected %v",
					tt.item.ItemKind, tt.item.Label, got, tt.want)
			}
		})
	}
}

func TestNumberOrNil(t *testing.T) {
	if v := NumberOrNil(" 25.5 "); v == nil || *v != 25.5 {
		t.Errorf("NumberOrNil(\" 25.5 \") = %v, expected 25.5", v)
	}
	if v := NumberOrNil(""); v != nil {
		t.Errorf("NumberOrNil(\"\") = %v, expected nil", *v)
	}
	if v := NumberOrNil("alta"); v != nil {
		t.Errorf("NumberOrNil(\"alta\") = %v, expected nil", *v)
	}
}

func TestFormatRecorridoRow(t *testing.T) {
	row := RecorridoRow{Piso: "PB", PresionEntrada: floatPtr(25), Extintores: true}
	got := FormatRecorridoRow(row, 0)
	for _, fragment := range []string{"Fila 1", "Piso: PB", "P. entrada: 25", "P. salida: —", "Extintores: Sí", "Obs: —"} {
		if !strings.Contains(got, fragment) {
			t.Errorf("formatted row %q missing %q", got, fragment)
		}
	}
}
