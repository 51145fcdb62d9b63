package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

// DefaultRackTemplatePath returns the default file path for custom rack
// templates. This is located at ~/.shelfplan/racks.json.
func DefaultRackTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "racks.json")
}

// SaveRackTemplates writes the user-defined templates of store to a JSON file.
// Built-in templates are never written; they always come from the binary.
func SaveRackTemplates(path string, store model.TemplateStore) error {
	custom := store.Custom()
	if custom == nil {
		custom = []model.RackTemplate{}
	}
	return writeJSON(path, model.TemplateStore{Templates: custom})
}

// LoadRackTemplates returns a store with the built-in templates followed by
// the custom templates saved at path. A missing file yields only the
// built-ins. Saved templates that reuse a built-in ID are ignored.
func LoadRackTemplates(path string) (model.TemplateStore, error) {
	store := model.NewTemplateStore()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return store, err
	}

	var saved model.TemplateStore
	if err := json.Unmarshal(data, &saved); err != nil {
		return store, err
	}
	for _, t := range saved.Templates {
		if existing := store.FindByID(t.ID); existing != nil && existing.BuiltIn {
			continue
		}
		t.BuiltIn = false
		store.Add(t)
	}
	return store, nil
}
