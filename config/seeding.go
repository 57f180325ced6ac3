package config

import (
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"p9e.in/mapelec/models"
)

// SeedCoreData creates the bootstrap director account and the two core
// checklist templates. Safe to run on every boot: existing rows are
// left alone.
func SeedCoreData() {
	seedDirector()
	seedCoreTemplates()
}

func seedDirector() {
	email := os.Getenv("SEED_DIRECTOR_EMAIL")
	password := os.Getenv("SEED_DIRECTOR_PASSWORD")
	if email == "" || password == "" {
		log.Println("SEED_DIRECTOR_EMAIL/PASSWORD not set, skipping director seeding")
		return
	}

	var existing models.User
	err := DB.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: director lookup failed: %v", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Warning: could not hash director password: %v", err)
		return
	}
	director := models.User{
		FullName:     "Director",
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleDirector,
		IsActive:     true,
	}
	if err := DB.Create(&director).Error; err != nil {
		log.Printf("Warning: director seeding failed: %v", err)
		return
	}
	log.Println("Seeded bootstrap director account")
}

// seedCoreTemplates creates the standard pump and fire checklists used
// by every building, including the floor-by-floor table item.
func seedCoreTemplates() {
	templates := []struct {
		name     string
		category string
		items    []models.TemplateItem
	}{
		{
			name:     "Inspección de bombas",
			category: models.CategoryPump,
			items: []models.TemplateItem{
				{Label: "Presión de succión (PSI)", ItemType: models.ItemTypeNumber, ItemKind: models.ItemKindStandard, Required: true, SortOrder: 1},
				{Label: "Presión de descarga (PSI)", ItemType: models.ItemTypeNumber, ItemKind: models.ItemKindStandard, Required: true, SortOrder: 2},
				{Label: "Arranque automático funciona", ItemType: models.ItemTypeCheckbox, ItemKind: models.ItemKindStandard, Required: true, SortOrder: 3},
				{Label: "Fugas visibles", ItemType: models.ItemTypeCheckbox, ItemKind: models.ItemKindStandard, SortOrder: 4},
				{Label: "Observaciones", ItemType: models.ItemTypeTextarea, ItemKind: models.ItemKindStandard, SortOrder: 5},
			},
		},
		{
			name:     "Inspección de sistema contra incendios",
			category: models.CategoryFire,
			items: []models.TemplateItem{
				{Label: "Panel de alarma sin fallas", ItemType: models.ItemTypeCheckbox, ItemKind: models.ItemKindStandard, Required: true, SortOrder: 1},
				{Label: "Recorrido por pisos", ItemType: models.ItemTypeTextarea, ItemKind: models.ItemKindFloorTable, SortOrder: 2},
				{Label: "Observaciones", ItemType: models.ItemTypeTextarea, ItemKind: models.ItemKindStandard, SortOrder: 3},
			},
		},
	}

	for _, tpl := range templates {
		var existing models.VisitTemplate
		err := DB.Where("name = ?", tpl.name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Warning: template lookup failed: %v", err)
			continue
		}

		record := models.VisitTemplate{Name: tpl.name, Category: tpl.category, IsActive: true}
		if err := DB.Create(&record).Error; err != nil {
			log.Printf("Warning: template seeding failed: %v", err)
			continue
		}
		for i := range tpl.items {
			tpl.items[i].TemplateID = record.ID
		}
		if err := DB.Create(&tpl.items).Error; err != nil {
			log.Printf("Warning: template item seeding failed: %v", err)
		}
		log.Printf("Seeded template %q with %d items", tpl.name, len(tpl.items))
	}
}
