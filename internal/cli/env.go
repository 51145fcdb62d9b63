package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/ShelfPlan/internal/importer"
	"github.com/piwi3910/ShelfPlan/internal/model"
	"github.com/piwi3910/ShelfPlan/internal/project"
)

// env carries the persistent flags shared by every command.
type env struct {
	configDir   string
	catalogPath string
}

func (e *env) path(name string) string {
	return filepath.Join(e.configDir, name)
}

func (e *env) appConfig() (model.AppConfig, error) {
	return project.LoadAppConfig(e.path("config.json"))
}

func (e *env) templates() (model.TemplateStore, error) {
	store, err := project.LoadRackTemplates(e.path("racks.json"))
	if err != nil {
		return store, fmt.Errorf("load rack templates: %w", err)
	}
	return store, nil
}

func (e *env) saveTemplates(store model.TemplateStore) error {
	return project.SaveRackTemplates(e.path("racks.json"), store)
}

func (e *env) storedCatalogPath() string {
	return e.path("catalog.json")
}

// catalog resolves the catalog to work with: the --catalog flag wins over
// the plan's catalog, which wins over the stored catalog.
func (e *env) catalog(ctx context.Context, planCatalog string) (model.Catalog, error) {
	path := e.catalogPath
	if path == "" {
		path = planCatalog
	}
	if path == "" {
		catalog, err := project.LoadCatalog(e.storedCatalogPath())
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		return catalog, nil
	}
	return readCatalog(ctx, path)
}

// readCatalog reads a catalog JSON file or imports a CSV/XLSX product list.
// Row errors are logged as warnings unless no product could be read at all.
func readCatalog(ctx context.Context, path string) (model.Catalog, error) {
	logger := loggerFromContext(ctx)

	if strings.EqualFold(filepath.Ext(path), ".json") {
		catalog := model.NewCatalog()
		if _, err := project.ImportCatalog(path, catalog); err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		logger.Debug("catalog loaded", "path", path, "products", len(catalog))
		return catalog, nil
	}

	result := importer.Import(path)
	for _, w := range result.Warnings {
		logger.Debug(w, "path", path)
	}
	if len(result.Products) == 0 && len(result.Errors) > 0 {
		return nil, fmt.Errorf("import %s: %s", filepath.Base(path), strings.Join(result.Errors, "; "))
	}
	for _, msg := range result.Errors {
		logger.Warn(msg, "path", path)
	}
	logger.Debug("catalog imported", "path", path, "products", len(result.Products))
	return result.Catalog(), nil
}
