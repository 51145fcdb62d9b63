package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultGap = 3.5
	cfg.Theme = "dark"
	cfg.DefaultTemplateID = "large-promo"
	cfg.RecentCatalogs = []string{"/tmp/spring.csv", "/tmp/summer.xlsx"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultGap != 3.5 {
		t.Errorf("expected DefaultGap=3.5, got %f", loaded.DefaultGap)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.DefaultTemplateID != "large-promo" {
		t.Errorf("expected DefaultTemplateID=large-promo, got %s", loaded.DefaultTemplateID)
	}
	if len(loaded.RecentCatalogs) != 2 {
		t.Errorf("expected 2 recent catalogs, got %d", len(loaded.RecentCatalogs))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DefaultEdgeMargin != model.DefaultEdgeMarginCm {
		t.Errorf("expected default edge margin, got %f", cfg.DefaultEdgeMargin)
	}
	if cfg.PixelsPerCm != model.PixelsPerCm {
		t.Errorf("expected default zoom, got %f", cfg.PixelsPerCm)
	}
}

func TestLoadAppConfigFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"theme":"light","recent_catalogs":null,"pixels_per_cm":0}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "light" {
		t.Errorf("expected Theme=light, got %s", cfg.Theme)
	}
	if cfg.RecentCatalogs == nil {
		t.Error("RecentCatalogs should not be nil")
	}
	if cfg.PixelsPerCm != model.PixelsPerCm {
		t.Errorf("expected zoom to fall back to %f, got %f", model.PixelsPerCm, cfg.PixelsPerCm)
	}
	if cfg.DefaultGap != model.DefaultInterProductGapCm {
		t.Errorf("expected absent gap to keep default, got %f", cfg.DefaultGap)
	}
	if cfg.DefaultTemplateID != model.DefaultTemplateID {
		t.Errorf("expected default template, got %q", cfg.DefaultTemplateID)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadAppConfig(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestSaveAppConfigCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "config.json")
	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestDefaultPaths(t *testing.T) {
	if filepath.Base(DefaultConfigDir()) != ".shelfplan" {
		t.Errorf("expected .shelfplan dir, got %s", DefaultConfigDir())
	}
	tests := map[string]string{
		DefaultConfigPath():       "config.json",
		DefaultRackTemplatePath(): "racks.json",
		DefaultCatalogPath():      "catalog.json",
	}
	for path, want := range tests {
		if filepath.Base(path) != want {
			t.Errorf("expected %s, got %s", want, path)
		}
		if filepath.Dir(path) != DefaultConfigDir() {
			t.Errorf("expected %s under %s", path, DefaultConfigDir())
		}
	}
}
