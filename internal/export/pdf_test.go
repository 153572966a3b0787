package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/piwi3910/ShedCraft/internal/session"
)

// placedBuilding builds a 12x16 gable shed with a window on the front wall,
// a deck cut into the back wall and a skylight on the front roof.
func placedBuilding(t *testing.T) (*model.Building, *model.Catalog, []model.PlacedObject) {
	t.Helper()
	b, err := model.FindPreset("12x16 Gable").Build()
	if err != nil {
		t.Fatal(err)
	}
	catalog := model.DefaultCatalog()
	p := session.NewPlanner(b, catalog, model.DefaultSettings(), 0, nil)

	front, back, roof := b.Walls[0], b.Walls[2], b.Roofs[0]
	drop(t, p, "window-24x36", wallHit(front, -120, 130))
	drop(t, p, "deck", wallHit(back, 0, 50))
	drop(t, p, "skylight", model.Intersection{
		Point:       roof.SlopePoint(0, 100),
		SurfaceID:   roof.ID,
		SurfaceKind: model.SurfaceRoof,
	})
	return b, catalog, p.Objects()
}

func wallHit(w *model.Wall, u, y float64) model.Intersection {
	x, z := w.ToWorld(u, w.Thickness/2)
	return model.Intersection{Point: mgl64.Vec3{x, y, z}, SurfaceID: w.ID, SurfaceKind: model.SurfaceWall}
}

func drop(t *testing.T, p *session.Planner, typ string, hit model.Intersection) {
	t.Helper()
	if _, err := p.BeginDrag(typ); err != nil {
		t.Fatalf("BeginDrag(%s): %v", typ, err)
	}
	res, err := p.DragOver([]model.Intersection{hit})
	if err != nil {
		t.Fatalf("DragOver(%s): %v", typ, err)
	}
	if !res.OK() {
		t.Fatalf("%s rejected: %s", typ, res.Rejection)
	}
	if _, err := p.Drop(); err != nil {
		t.Fatalf("Drop(%s): %v", typ, err)
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	b, catalog, objects := placedBuilding(t)
	path := filepath.Join(t.TempDir(), "elevations.pdf")

	if err := ExportPDF(path, b, catalog, objects, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	// 4 walls, 1 roof plane and the summary page
	if info.Size() < 2000 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_EmptyBuilding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")
	if err := ExportPDF(path, &model.Building{Name: "empty"}, nil, nil, model.DefaultSettings()); err == nil {
		t.Fatal("expected error for a building without walls, got nil")
	}
	if err := ExportPDF(path, nil, nil, nil, model.DefaultSettings()); err == nil {
		t.Fatal("expected error for nil building, got nil")
	}
}

func TestExportPDF_WithoutAccessories(t *testing.T) {
	b, err := model.FindPreset("12x16 Bay Corners").Build()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "bare.pdf")
	if err := ExportPDF(path, b, nil, nil, model.DefaultSettings()); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestLabelFontSize(t *testing.T) {
	if got := labelFontSize(50, 45); got != 8 {
		t.Errorf("expected 8, got %v", got)
	}
	if got := labelFontSize(50, 25); got != 7 {
		t.Errorf("expected 7, got %v", got)
	}
	if got := labelFontSize(10, 50); got != 6 {
		t.Errorf("expected 6, got %v", got)
	}
}
