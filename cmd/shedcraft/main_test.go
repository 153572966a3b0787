package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/piwi3910/ShedCraft/internal/project"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRunPlacesAndExports(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "accessories.csv")
	writeFile(t, list, "type,wall,offset,elevation,length\n"+
		"window-24x36,Front,-120,,\n"+
		"workbench,Back,0,,4'\n"+
		"skylight,Front Roof,0,20,\n"+
		"double-door,Right,0,,\n")
	out := filepath.Join(dir, "out")
	scene := filepath.Join(dir, "scene.json")

	var stdout, stderr bytes.Buffer
	err := run([]string{
		"-config", filepath.Join(dir, "config.json"),
		"-templates", filepath.Join(dir, "templates.json"),
		"-template", "12x16 Gable",
		"-accessories", list,
		"-out", out,
		"-save", scene,
		"-export", "pdf, labels,xlsx,dxf",
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v\n%s", err, stderr.String())
	}

	for _, name := range []string{"12x16_Gable.pdf", "12x16_Gable_labels.pdf", "12x16_Gable_schedule.xlsx", "12x16_Gable_plan.dxf"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if !strings.Contains(stdout.String(), "Front Roof") {
		t.Errorf("wall summary missing roof planes:\n%s", stdout.String())
	}
	if !strings.Contains(stdout.String(), "Siding: ") {
		t.Errorf("siding estimate missing:\n%s", stdout.String())
	}
	if !strings.Contains(stderr.String(), "accessory not placed") {
		t.Errorf("expected the double door on a side wall to be reported:\n%s", stderr.String())
	}

	s, err := project.LoadScene(scene)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if len(s.Objects) != 3 {
		t.Fatalf("expected 3 placed objects, got %d", len(s.Objects))
	}
	for _, o := range s.Objects {
		if o.Type == "workbench" && (o.Width < 121.9 || o.Width > 122) {
			t.Errorf("workbench should be resized to 4', got %.2f", o.Width)
		}
	}

	// Reloading the scene with no further input keeps every object.
	stdout.Reset()
	err = run([]string{"-config", filepath.Join(dir, "config.json"), "-scene", scene, "-save", scene}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	s, err = project.LoadScene(scene)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if len(s.Objects) != 3 {
		t.Errorf("expected 3 objects after reload, got %d", len(s.Objects))
	}
}

func TestRunList(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", filepath.Join(t.TempDir(), "none.json"), "-list"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	for _, want := range []string{"12x16 Gable", "window-24x36", "gable-vent"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("listing missing %q", want)
		}
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"stray argument", []string{"-config", cfg, "extra"}},
		{"plan and scene", []string{"-config", cfg, "-plan", "a.dxf", "-scene", "b.json"}},
		{"unknown template", []string{"-config", cfg, "-template", "Castle"}},
		{"missing scene", []string{"-config", cfg, "-scene", filepath.Join(dir, "missing.json")}},
		{"unknown export", []string{"-config", cfg, "-out", dir, "-export", "svg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if err := run(tt.args, &stdout, &stderr); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestRunBackupAndRestore(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	tmplPath := filepath.Join(dir, "templates.json")
	backup := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultTemplate = "Coop"
	cfg.HistoryDepth = 12
	if err := project.SaveAppConfig(cfgPath, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	coop := model.BuildingTemplate{Name: "Coop", Width: 240, Depth: 180, WallHeight: 180, Pitch: 30}
	if err := project.SaveTemplates(tmplPath, []model.BuildingTemplate{coop}); err != nil {
		t.Fatalf("SaveTemplates failed: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", cfgPath, "-templates", tmplPath, "-backup", backup}, &stdout, &stderr); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	cfg2 := filepath.Join(dir, "restored", "config.json")
	tmpl2 := filepath.Join(dir, "restored", "templates.json")
	if err := run([]string{"-config", cfg2, "-templates", tmpl2, "-restore", backup}, &stdout, &stderr); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	got, err := project.LoadAppConfig(cfg2)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if got.DefaultTemplate != "Coop" || got.HistoryDepth != 12 {
		t.Errorf("config not restored: %+v", got)
	}

	// The restored default template is the custom one.
	stdout.Reset()
	if err := run([]string{"-config", cfg2, "-templates", tmpl2}, &stdout, &stderr); err != nil {
		t.Fatalf("run with restored data failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "Front") {
		t.Errorf("expected the Coop walls to be listed:\n%s", stdout.String())
	}
}
