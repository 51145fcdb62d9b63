package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// catalogFile is the on-disk shape of a product catalog.
type catalogFile struct {
	Products []model.Product `json:"products"`
}

// DefaultCatalogPath returns the default file path for the product catalog.
// This is located at ~/.shelfplan/catalog.json.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.json")
}

// SaveCatalog writes the catalog to the specified JSON file, products sorted
// by name.
func SaveCatalog(path string, catalog model.Catalog) error {
	return writeJSON(path, catalogFile{Products: catalog.Products()})
}

func readCatalogFile(path string) ([]model.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", filepath.Base(path), err)
	}
	return file.Products, nil
}

// LoadCatalog reads the catalog from the specified JSON file.
// If the file does not exist, it returns the sample catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	products, err := readCatalogFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			catalog := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, catalog); saveErr != nil {
				return catalog, saveErr
			}
			return catalog, nil
		}
		return model.Catalog{}, err
	}
	return model.NewCatalog(products...), nil
}

// LoadOrCreateCatalog loads the catalog from the default path.
func LoadOrCreateCatalog() (model.Catalog, string, error) {
	path := DefaultCatalogPath()
	catalog, err := LoadCatalog(path)
	return catalog, path, err
}

// ImportCatalog merges the products of a catalog JSON file into existing.
// Products whose ID is already present are skipped. It returns the number of
// products added.
func ImportCatalog(path string, existing model.Catalog) (int, error) {
	products, err := readCatalogFile(path)
	if err != nil {
		return 0, err
	}
	return existing.Merge(products), nil
}
