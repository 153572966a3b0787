package model

import (
	"fmt"
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
)

// BuildingTemplate is the parametric description a Building is generated
// from. Dimensions are in centimetres, Pitch in degrees.
type BuildingTemplate struct {
	Name       string  `json:"name"`
	Width      float64 `json:"width"`       // along world X
	Depth      float64 `json:"depth"`       // along world Z
	WallHeight float64 `json:"wall_height"` // eave height
	Pitch      float64 `json:"pitch"`       // roof pitch, degrees; 0 = flat, no roof planes
	CornerCut  float64 `json:"corner_cut"`  // leg of the 45° corner segments; 0 = square corners
	Overhang   float64 `json:"overhang"`    // roof overhang past the side walls
}

// Presets are the templates offered by the CLI.
var Presets = []BuildingTemplate{
	{Name: "8x10 Gable", Width: geom.FeetToCM(10), Depth: geom.FeetToCM(8), WallHeight: geom.FeetToCM(7), Pitch: 26.57},
	{Name: "10x12 Gable", Width: geom.FeetToCM(12), Depth: geom.FeetToCM(10), WallHeight: geom.FeetToCM(8), Pitch: 26.57},
	{Name: "12x16 Gable", Width: geom.FeetToCM(16), Depth: geom.FeetToCM(12), WallHeight: geom.FeetToCM(8), Pitch: 33.69, Overhang: 15.24},
	{Name: "12x16 Bay Corners", Width: geom.FeetToCM(16), Depth: geom.FeetToCM(12), WallHeight: geom.FeetToCM(8), Pitch: 26.57, CornerCut: geom.FeetToCM(2)},
	{Name: "12x24 Barn", Width: geom.FeetToCM(24), Depth: geom.FeetToCM(12), WallHeight: geom.FeetToCM(9), Pitch: 33.69, Overhang: 30.48},
}

// FindPreset returns the preset with the given name, or nil.
func FindPreset(name string) *BuildingTemplate {
	for i := range Presets {
		if Presets[i].Name == name {
			return &Presets[i]
		}
	}
	return nil
}

// PresetNames returns the preset names in declaration order.
func PresetNames() []string {
	names := make([]string, len(Presets))
	for i, p := range Presets {
		names[i] = p.Name
	}
	return names
}

// Validate checks that the template describes a buildable footprint.
func (t BuildingTemplate) Validate() error {
	if t.Width <= 0 || t.Depth <= 0 || t.WallHeight <= 0 {
		return fmt.Errorf("template %q: width, depth and wall height must be positive", t.Name)
	}
	if t.Pitch < 0 || t.Pitch >= 80 {
		return fmt.Errorf("template %q: pitch %.1f° out of range", t.Name, t.Pitch)
	}
	if t.CornerCut < 0 || 2*t.CornerCut >= math.Min(t.Width, t.Depth) {
		return fmt.Errorf("template %q: corner cut %.1f too large for %.1fx%.1f footprint", t.Name, t.CornerCut, t.Width, t.Depth)
	}
	return nil
}

// Rise returns the ridge height above the eaves.
func (t BuildingTemplate) Rise() float64 {
	return t.Depth / 2 * math.Tan(geom.DegToRad(t.Pitch))
}

// Build generates the building. Walls run counter-clockwise seen from
// above, starting with the front wall at +Z; every wall's outward normal
// points away from the footprint. The ridge runs along X, so the side
// walls carry the gables.
func (t BuildingTemplate) Build() (*Building, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	hw, hd, c := t.Width/2, t.Depth/2, t.CornerCut
	h := t.WallHeight

	b := &Building{Name: t.Name}
	front := NewWall("Front", t.Width-2*c, h, 0, hd, 0)
	right := NewWall("Right", t.Depth-2*c, h, hw, 0, math.Pi/2)
	back := NewWall("Back", t.Width-2*c, h, 0, -hd, math.Pi)
	left := NewWall("Left", t.Depth-2*c, h, -hw, 0, -math.Pi/2)

	if c > 0 {
		diag := c * math.Sqrt2
		b.Walls = []*Wall{
			front,
			NewWall("Front Right Corner", diag, h, hw-c/2, hd-c/2, math.Pi/4),
			right,
			NewWall("Back Right Corner", diag, h, hw-c/2, -hd+c/2, 3*math.Pi/4),
			back,
			NewWall("Back Left Corner", diag, h, -hw+c/2, -hd+c/2, -3*math.Pi/4),
			left,
			NewWall("Front Left Corner", diag, h, -hw+c/2, hd-c/2, -math.Pi/4),
		}
	} else {
		b.Walls = []*Wall{front, right, back, left}
	}

	if t.Pitch > 0 {
		rise := t.Rise()
		for _, w := range []*Wall{left, right} {
			w.Gable = geom.GableOutline(w.Width, h, rise)
		}
		pitch := geom.DegToRad(t.Pitch)
		slope := hd / math.Cos(pitch)
		roofWidth := t.Width + 2*t.Overhang
		b.Roofs = []*Wall{
			NewRoofPlane("Front Roof", roofWidth, slope, 0, h, hd, 0, pitch),
			NewRoofPlane("Back Roof", roofWidth, slope, 0, h, -hd, math.Pi, pitch),
		}
	}
	return b, nil
}
