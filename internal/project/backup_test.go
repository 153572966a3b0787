package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ShedCraft/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultCenterItems = true
	cfg.LogLevel = "debug"
	custom := []model.BuildingTemplate{{Name: "Coop", Width: 240, Depth: 180, WallHeight: 200, Pitch: 20}}

	if err := ExportAllData(path, cfg, custom); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if !backup.Config.DefaultCenterItems {
		t.Error("expected DefaultCenterItems=true")
	}
	if backup.Config.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", backup.Config.LogLevel)
	}
	if len(backup.Templates) != 1 || backup.Templates[0].Name != "Coop" {
		t.Errorf("expected the Coop template, got %+v", backup.Templates)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataRejectsBadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	data := []byte(`{"version":"1.0.0","templates":[{"name":"Flat","width":0,"depth":100,"wall_height":200}]}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for a zero-width template")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for missing version")
	}
}
