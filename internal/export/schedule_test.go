package export

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/xuri/excelize/v2"
)

func TestCollectSchedule(t *testing.T) {
	b, catalog, objects := placedBuilding(t)
	loft := model.PlacedObject{ID: "loft", Type: "loft", Width: 243.84, Height: 10, IsPlanItem: true, CurrentWall: b.Walls[1].ID}
	rows := CollectSchedule(b, catalog, append(objects, loft))

	if len(rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(rows))
	}

	win := rows[0]
	if win.Label != `Window 24" x 36"` || win.Wall != "Front" {
		t.Errorf("unexpected window row %+v", win)
	}
	if math.Abs(win.Offset+120) > 1e-9 {
		t.Errorf("expected offset -120, got %f", win.Offset)
	}
	if math.Abs(win.Elevation-91.44) > 1e-9 {
		t.Errorf("expected catalog elevation 91.44, got %f", win.Elevation)
	}
	if win.Structure != "" {
		t.Errorf("window has no structure, got %q", win.Structure)
	}

	if rows[1].Structure != "deck" || rows[1].Wall != "Back" {
		t.Errorf("unexpected deck row %+v", rows[1])
	}

	sky := rows[2]
	if sky.Wall != "Front Roof" {
		t.Errorf("expected skylight on Front Roof, got %q", sky.Wall)
	}
	if math.Abs(sky.Offset) > 1e-6 || math.Abs(sky.Elevation-(100-91.44/2)) > 1e-6 {
		t.Errorf("unexpected skylight position %+v", sky)
	}

	if !rows[3].PlanItem || rows[3].Label != "Loft" || rows[3].Wall != "Right" {
		t.Errorf("unexpected loft row %+v", rows[3])
	}
}

func TestCollectTrim(t *testing.T) {
	b, _, _ := placedBuilding(t)
	trim := CollectTrim(b, model.DefaultSettings().TrimWidth)

	var pieces int
	for _, r := range trim {
		if r.Wall != "Back" {
			t.Errorf("only the back wall has an opening, got trim on %s", r.Wall)
		}
		pieces += r.Pieces
	}
	// Two jambs and a header around the deck opening
	if pieces != 3 {
		t.Errorf("expected 3 trim pieces, got %d", pieces)
	}
}

func TestExportSchedule(t *testing.T) {
	b, catalog, objects := placedBuilding(t)
	rows := CollectSchedule(b, catalog, objects)
	path := filepath.Join(t.TempDir(), "schedule.xlsx")

	if err := ExportSchedule(path, rows, CollectTrim(b, 8.89)); err != nil {
		t.Fatalf("ExportSchedule returned error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open schedule: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("Schedule")
	if err != nil {
		t.Fatalf("failed to read schedule: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(got))
	}
	if got[0][0] != "ID" || got[1][1] != "window-24x36" || got[1][3] != "Front" {
		t.Errorf("unexpected schedule contents: %v", got[:2])
	}
	if got[1][5] != "-120" {
		t.Errorf("expected offset -120, got %q", got[1][5])
	}

	trim, err := f.GetRows("Trim")
	if err != nil {
		t.Fatalf("failed to read trim sheet: %v", err)
	}
	if len(trim) < 2 {
		t.Errorf("expected trim rows, got %v", trim)
	}
}

func TestExportScheduleEmpty(t *testing.T) {
	if err := ExportSchedule(filepath.Join(t.TempDir(), "x.xlsx"), nil, nil); err == nil {
		t.Fatal("expected error for an empty schedule")
	}
}
