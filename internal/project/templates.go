package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShedCraft/internal/model"
)

// DefaultTemplatePath returns the default file path for custom building
// templates: ~/.shedcraft/templates.json.
func DefaultTemplatePath() string {
	return filepath.Join(DefaultConfigDir(), "templates.json")
}

// SaveTemplates writes custom building templates to a JSON file.
func SaveTemplates(path string, templates []model.BuildingTemplate) error {
	for _, t := range templates {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadTemplates reads custom building templates from a JSON file.
// If the file does not exist, returns an empty list.
func LoadTemplates(path string) ([]model.BuildingTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.BuildingTemplate{}, nil
		}
		return nil, err
	}
	var templates []model.BuildingTemplate
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	if templates == nil {
		templates = []model.BuildingTemplate{}
	}
	return templates, nil
}

// ResolveTemplate finds a template by name among the custom templates
// first, then the built-in presets.
func ResolveTemplate(name string, custom []model.BuildingTemplate) (model.BuildingTemplate, error) {
	for _, t := range custom {
		if t.Name == name {
			return t, nil
		}
	}
	if p := model.FindPreset(name); p != nil {
		return *p, nil
	}
	return model.BuildingTemplate{}, fmt.Errorf("unknown building template %q", name)
}
