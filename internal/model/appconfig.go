package model

// Default gap settings restored by the "Reset" button of the gap settings.
const (
	DefaultEdgeMarginCm      = 2.0
	DefaultInterProductGapCm = 2.0
)

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	DefaultTemplateID string  `json:"default_template_id"`
	DefaultEdgeMargin float64 `json:"default_edge_margin_cm"`
	DefaultGap        float64 `json:"default_gap_cm"`
	PixelsPerCm       float64 `json:"pixels_per_cm"` // canvas zoom

	// Application preferences
	RecentCatalogs []string `json:"recent_catalogs"`
	Theme          string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultTemplateID: DefaultTemplateID,
		DefaultEdgeMargin: DefaultEdgeMarginCm,
		DefaultGap:        DefaultInterProductGapCm,
		PixelsPerCm:       PixelsPerCm,
		RecentCatalogs:    []string{},
		Theme:             "system",
	}
}

// ApplyGaps returns a copy of rack with this config's default margin and gap.
func (c AppConfig) ApplyGaps(rack RackConfig) RackConfig {
	return rack.WithEdgeMargin(c.DefaultEdgeMargin).WithGap(c.DefaultGap)
}

// AddRecentCatalog records path as the most recently used catalog, keeping
// at most max entries and no duplicates.
func (c *AppConfig) AddRecentCatalog(path string, max int) {
	recent := []string{path}
	for _, p := range c.RecentCatalogs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if max > 0 && len(recent) > max {
		recent = recent[:max]
	}
	c.RecentCatalogs = recent
}
