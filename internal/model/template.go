package model

import (
	"time"

	"github.com/google/uuid"
)

// RackTemplate is a named, reusable rack configuration offered in the rack selector.
type RackTemplate struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	BuiltIn     bool       `json:"built_in,omitempty"`
	CreatedAt   string     `json:"created_at,omitempty"`
	Config      RackConfig `json:"config"`
}

// NewRackTemplate creates a custom template around the given config. The
// config takes the template's ID and name so layouts can be traced back to it.
func NewRackTemplate(name, description string, config RackConfig) RackTemplate {
	id := uuid.New().String()[:8]
	config.ID = id
	config.Name = name
	return RackTemplate{
		ID:          id,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      config,
	}
}

func builtInTemplate(id, name, description string, width, totalHeight float64, shelves int, shelfHeight, margin, gap float64) RackTemplate {
	return RackTemplate{
		ID:          id,
		Name:        name,
		Description: description,
		BuiltIn:     true,
		Config: RackConfig{
			ID:                id,
			Name:              name,
			WidthCm:           width,
			TotalHeightCm:     totalHeight,
			NumberOfShelves:   shelves,
			ShelfHeightCm:     shelfHeight,
			EdgeMarginCm:      margin,
			InterProductGapCm: gap,
		},
	}
}

// DefaultTemplateID names the template selected on first start.
const DefaultTemplateID = "standard-promo"

// DefaultRackTemplates returns the built-in promo rack templates.
func DefaultRackTemplates() []RackTemplate {
	return []RackTemplate{
		builtInTemplate("small-promo", "Small Promo Rack", "90cm wide, 4 shelves", 90, 150, 4, 37.5, 2, 1.5),
		builtInTemplate("standard-promo", "Standard Promo Rack", "120cm wide, 5 shelves", 120, 180, 5, 36, 2, 2),
		builtInTemplate("large-promo", "Large Promo Rack", "150cm wide, 5 shelves", 150, 200, 5, 40, 3, 2.5),
	}
}

// TemplateStore holds the built-in and user-defined rack templates.
type TemplateStore struct {
	Templates []RackTemplate `json:"templates"`
}

// NewTemplateStore creates a store seeded with the built-in templates.
func NewTemplateStore() TemplateStore {
	return TemplateStore{Templates: DefaultRackTemplates()}
}

// Add adds a template, replacing any existing template with the same ID.
func (ts *TemplateStore) Add(t RackTemplate) {
	for i := range ts.Templates {
		if ts.Templates[i].ID == t.ID {
			ts.Templates[i] = t
			return
		}
	}
	ts.Templates = append(ts.Templates, t)
}

// Remove removes a custom template by ID. Built-in templates are never
// removed. Returns true if found and removed.
func (ts *TemplateStore) Remove(id string) bool {
	for i, t := range ts.Templates {
		if t.ID == id && !t.BuiltIn {
			ts.Templates = append(ts.Templates[:i], ts.Templates[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the template with the given ID, or nil.
func (ts *TemplateStore) FindByID(id string) *RackTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].ID == id {
			return &ts.Templates[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first template with the given name, or nil.
func (ts *TemplateStore) FindByName(name string) *RackTemplate {
	for i := range ts.Templates {
		if ts.Templates[i].Name == name {
			return &ts.Templates[i]
		}
	}
	return nil
}

// Names returns a list of template names for UI dropdowns.
func (ts *TemplateStore) Names() []string {
	names := make([]string, len(ts.Templates))
	for i, t := range ts.Templates {
		names[i] = t.Name
	}
	return names
}

// Custom returns only the user-defined templates.
func (ts *TemplateStore) Custom() []RackTemplate {
	var out []RackTemplate
	for _, t := range ts.Templates {
		if !t.BuiltIn {
			out = append(out, t)
		}
	}
	return out
}
