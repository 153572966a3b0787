package model

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Capabilities describes one accessory type: its footprint and the flags
// the placement solver consults.
type Capabilities struct {
	Type      string  `yaml:"type" json:"type"`
	Label     string  `yaml:"label" json:"label"`
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	Depth     float64 `yaml:"depth" json:"depth"`
	Elevation float64 `yaml:"elevation" json:"elevation"` // bottom edge above the wall base
	Chamfer   float64 `yaml:"chamfer" json:"chamfer"`     // stall opening corner cut

	CanVMove        bool `yaml:"can_v_move" json:"can_v_move"`
	CanRotate       bool `yaml:"can_rotate" json:"can_rotate"`
	CanFitSideWall  bool `yaml:"can_fit_side_wall" json:"can_fit_side_wall"`
	CanFitFrontWall bool `yaml:"can_fit_front_wall" json:"can_fit_front_wall"`
	IsDeck          bool `yaml:"is_deck" json:"is_deck"`
	IsPlanItem      bool `yaml:"is_plan_item" json:"is_plan_item"`
	IsGableObject   bool `yaml:"is_gable_object" json:"is_gable_object"`
	IsLinear        bool `yaml:"is_linear" json:"is_linear"`
	Roof            bool `yaml:"roof" json:"roof"`

	Structure StructureKind `yaml:"structure" json:"structure"`
}

// Catalog is the immutable capability table keyed by object type.
type Catalog struct {
	entries map[string]Capabilities
}

type catalogFile struct {
	Objects []Capabilities `yaml:"objects"`
}

// LoadCatalog parses a YAML capability table.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c := &Catalog{entries: make(map[string]Capabilities, len(f.Objects))}
	for i, caps := range f.Objects {
		if caps.Type == "" {
			return nil, fmt.Errorf("catalog entry %d has no type", i+1)
		}
		if caps.Width <= 0 || caps.Height <= 0 {
			return nil, fmt.Errorf("catalog entry %q has invalid dimensions %.2fx%.2f", caps.Type, caps.Width, caps.Height)
		}
		if _, dup := c.entries[caps.Type]; dup {
			return nil, fmt.Errorf("duplicate catalog entry %q", caps.Type)
		}
		if caps.Structure.CutsWall() {
			caps.IsDeck = true
		}
		if caps.Label == "" {
			caps.Label = caps.Type
		}
		c.entries[caps.Type] = caps
	}
	return c, nil
}

// DefaultCatalog returns the built-in capability table. It panics if the
// embedded table is malformed.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(defaultCatalogYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the capabilities for an object type.
func (c *Catalog) Lookup(typ string) (Capabilities, bool) {
	caps, ok := c.entries[typ]
	return caps, ok
}

// Types returns the catalog's object types in sorted order.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.entries))
	for t := range c.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func (c *Catalog) Len() int { return len(c.entries) }

// NewObject creates an unplaced object of the given type.
func (c *Catalog) NewObject(typ string) (PlacedObject, error) {
	caps, ok := c.entries[typ]
	if !ok {
		return PlacedObject{}, fmt.Errorf("unknown object type %q", typ)
	}
	return caps.NewObject(), nil
}

// NewObject creates an unplaced object with these capabilities.
func (caps Capabilities) NewObject() PlacedObject {
	return PlacedObject{
		ID:              uuid.New().String()[:8],
		Type:            caps.Type,
		Y:               caps.Elevation,
		HasY:            caps.CanVMove,
		Width:           caps.Width,
		Height:          caps.Height,
		Depth:           caps.Depth,
		IsDeck:          caps.IsDeck,
		IsPlanItem:      caps.IsPlanItem,
		IsGableObject:   caps.IsGableObject,
		IsLinear:        caps.IsLinear,
		IsRoofObject:    caps.Roof,
		CanFitSideWall:  caps.CanFitSideWall,
		CanFitFrontWall: caps.CanFitFrontWall,
		CanVMove:        caps.CanVMove,
		Structure:       caps.Structure,
	}
}
