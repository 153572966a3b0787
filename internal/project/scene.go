package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/ShedCraft/internal/model"
)

const sceneVersion = "1.0.0"

// Scene is a saved building with its committed accessories. Wall cuts are
// not stored; they are re-applied from the structural objects on load.
type Scene struct {
	Version  string               `json:"version"`
	Building *model.Building      `json:"building"`
	Objects  []model.PlacedObject `json:"objects"`
}

// SaveScene writes a scene as indented JSON.
func SaveScene(path string, b *model.Building, objects []model.PlacedObject) error {
	if b == nil {
		return fmt.Errorf("failed to save scene: no building")
	}
	if objects == nil {
		objects = []model.PlacedObject{}
	}
	data, err := json.MarshalIndent(Scene{Version: sceneVersion, Building: b, Objects: objects}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scene: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create scene directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scene: %w", err)
	}
	return nil
}

// LoadScene reads a scene and gives every wall an empty clip stack.
func LoadScene(path string) (Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to read scene: %w", err)
	}
	var s Scene
	if err := json.Unmarshal(data, &s); err != nil {
		return Scene{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	if s.Version == "" {
		return Scene{}, fmt.Errorf("invalid scene file: missing version field")
	}
	if s.Building == nil || len(s.Building.Walls) == 0 {
		return Scene{}, fmt.Errorf("invalid scene file: no walls")
	}
	for _, w := range s.Building.Walls {
		w.EnsureClips()
	}
	for _, r := range s.Building.Roofs {
		r.EnsureClips()
	}
	return s, nil
}
