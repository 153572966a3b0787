package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/piwi3910/ShedCraft/internal/session"
)

func TestSceneRoundTripReappliesCuts(t *testing.T) {
	tmpl := model.FindPreset("12x16 Gable")
	b, err := tmpl.Build()
	if err != nil {
		t.Fatal(err)
	}
	p := session.NewPlanner(b, nil, model.DefaultSettings(), 0, nil)
	front := b.Walls[0]

	if _, err := p.BeginDrag("deck"); err != nil {
		t.Fatal(err)
	}
	x, z := front.ToWorld(0, front.Thickness/2)
	hit := model.Intersection{Point: mgl64.Vec3{x, 10, z}, SurfaceID: front.ID, SurfaceKind: model.SurfaceWall}
	if _, err := p.DragOver([]model.Intersection{hit}); err != nil {
		t.Fatal(err)
	}
	committed, err := p.Drop()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "scenes", "shed.json")
	if err := SaveScene(path, b, p.Objects()); err != nil {
		t.Fatalf("SaveScene failed: %v", err)
	}

	scene, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if len(scene.Building.Walls) != 4 || len(scene.Building.Roofs) != 2 {
		t.Fatalf("expected 4 walls and 2 roofs, got %d and %d", len(scene.Building.Walls), len(scene.Building.Roofs))
	}
	if len(scene.Building.Walls[1].Gable) != 3 {
		t.Errorf("expected the right wall's gable triangle to survive, got %d points", len(scene.Building.Walls[1].Gable))
	}
	if scene.Objects[0].Structure != model.StructureDeck {
		t.Errorf("expected a deck, got %s", scene.Objects[0].Structure)
	}

	loaded := session.NewPlanner(scene.Building, nil, model.DefaultSettings(), 0, nil)
	if err := loaded.Load(scene.Objects); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got := scene.Building.Wall(front.ID)
	if !got.Clips.Has(committed.Object.ID) {
		t.Fatal("deck cut was not re-applied")
	}
	if got.Boundary().Fingerprint() != front.Boundary().Fingerprint() {
		t.Error("reloaded wall boundary differs from the saved one")
	}
}

func TestLoadSceneErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadScene(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	noWalls := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(noWalls, []byte(`{"version":"1.0.0","building":{"walls":[]}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScene(noWalls); err == nil {
		t.Error("expected error for a building without walls")
	}

	if err := SaveScene(filepath.Join(dir, "x.json"), nil, nil); err == nil {
		t.Error("expected error when saving without a building")
	}
}
