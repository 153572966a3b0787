package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Placement defaults applied to new sessions
	DefaultPadding      float64 `json:"default_padding"`
	DefaultCenterItems  bool    `json:"default_center_items"`
	DefaultDiagonalStep float64 `json:"default_diagonal_step"`
	DefaultTrimWidth    float64 `json:"default_trim_width"`
	DefaultTemplate     string  `json:"default_template"`

	// Application preferences
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
	HistoryDepth   int      `json:"history_depth"`
	RecentProjects []string `json:"recent_projects"`
	CatalogPath    string   `json:"catalog_path,omitempty"` // custom catalog; empty = built-in
}

// DefaultAppConfig returns an AppConfig populated with defaults matching
// DefaultSettings().
func DefaultAppConfig() AppConfig {
	defaults := DefaultSettings()
	return AppConfig{
		DefaultPadding:      defaults.Padding,
		DefaultCenterItems:  defaults.CenterItems,
		DefaultDiagonalStep: defaults.DiagonalStep,
		DefaultTrimWidth:    defaults.TrimWidth,
		DefaultTemplate:     "10x12 Gable",
		LogLevel:            "info",
		HistoryDepth:        50,
		RecentProjects:      []string{},
	}
}

// ApplyToSettings copies the default values from AppConfig into PlacementSettings.
func (c AppConfig) ApplyToSettings(s *PlacementSettings) {
	s.Padding = c.DefaultPadding
	s.CenterItems = c.DefaultCenterItems
	s.DiagonalStep = c.DefaultDiagonalStep
	s.TrimWidth = c.DefaultTrimWidth
}
