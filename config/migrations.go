package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/mapelec/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20260115_create_core_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.Crew{}, &models.CrewMember{},
					&models.Building{}, &models.Equipment{},
					&models.VisitTemplate{}, &models.TemplateItem{},
					&models.Visit{}, &models.VisitResponse{})
			},
		},
		{
			ID: "20260115_create_service_reports",
			Migrate: func(tx *gorm.DB) error {
				// The unique (building_id, report_date) index is what
				// arbitrates concurrent first views of a day's report.
				return tx.AutoMigrate(&models.ServiceReport{})
			},
		},
		{
			ID: "20260210_add_item_kind",
			Migrate: func(tx *gorm.DB) error {
				// Items created before the kind tag existed relied on
				// the label-prefix heuristic; tag the known ones.
				if err := tx.Exec("UPDATE template_items SET item_kind = ? WHERE item_kind IS NULL OR item_kind = ''",
					models.ItemKindStandard).Error; err != nil {
					return err
				}
				return tx.Exec("UPDATE template_items SET item_kind = ? WHERE lower(label) LIKE 'recorrido por pisos%'",
					models.ItemKindFloorTable).Error
			},
		},
	})

	return m.Migrate()
}
