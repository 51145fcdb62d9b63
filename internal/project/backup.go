package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// BackupVersion is written into every backup bundle.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version       string               `json:"version"`
	CreatedAt     string               `json:"created_at"`
	Config        model.AppConfig      `json:"config"`
	RackTemplates []model.RackTemplate `json:"rack_templates"`
	Products      []model.Product      `json:"products"`
}

// NewBackup bundles the config, the custom rack templates and the catalog.
func NewBackup(config model.AppConfig, templates model.TemplateStore, catalog model.Catalog) BackupData {
	custom := templates.Custom()
	if custom == nil {
		custom = []model.RackTemplate{}
	}
	return BackupData{
		Version:       BackupVersion,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
		Config:        config,
		RackTemplates: custom,
		Products:      catalog.Products(),
	}
}

// ExportAllData writes a backup of all application data to exportPath.
func ExportAllData(exportPath string, backup BackupData) error {
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying it.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	normalizeConfig(&backup.Config)
	if backup.RackTemplates == nil {
		backup.RackTemplates = []model.RackTemplate{}
	}
	if backup.Products == nil {
		backup.Products = []model.Product{}
	}
	return backup, nil
}

// Restore applies a backup on top of the current templates and catalog.
// Custom templates replace those with the same ID; products are merged,
// keeping existing IDs. The backup's config is returned for the caller to save.
func (b BackupData) Restore(templates *model.TemplateStore, catalog model.Catalog) model.AppConfig {
	for _, t := range b.RackTemplates {
		if existing := templates.FindByID(t.ID); existing != nil && existing.BuiltIn {
			continue
		}
		t.BuiltIn = false
		templates.Add(t)
	}
	catalog.Merge(b.Products)
	return b.Config
}
