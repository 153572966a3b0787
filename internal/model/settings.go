package model

import "github.com/piwi3910/ShedCraft/internal/geom"

// PlacementSettings holds the tunables of the placement engine.
type PlacementSettings struct {
	Padding         float64 `json:"padding"`           // clearance on each side of a footprint, cm
	CenterItems     bool    `json:"center_items"`      // snap non-deck objects to the wall centre
	DiagonalStep    float64 `json:"diagonal_step"`     // quantization step on 45° walls, cm
	MinLinearLength float64 `json:"min_linear_length"` // shorter linear accessories are removed, cm
	AreaEpsilon     float64 `json:"area_epsilon"`      // partition spans narrower than this are dropped
	TrimWidth       float64 `json:"trim_width"`        // opening trim width, cm
	FrameBudget     int     `json:"frame_budget"`      // frames requested per mutation
}

func DefaultSettings() PlacementSettings {
	return PlacementSettings{
		Padding:         0,
		CenterItems:     false,
		DiagonalStep:    geom.InchesToCM(6),
		MinLinearLength: geom.FeetToCM(1),
		AreaEpsilon:     0.1,
		TrimWidth:       geom.InchesToCM(3.5),
		FrameBudget:     3,
	}
}

// Normalized replaces unusable values with defaults.
func (s PlacementSettings) Normalized() PlacementSettings {
	d := DefaultSettings()
	if s.Padding < 0 {
		s.Padding = 0
	}
	if s.DiagonalStep <= 0 {
		s.DiagonalStep = d.DiagonalStep
	}
	if s.MinLinearLength <= 0 {
		s.MinLinearLength = d.MinLinearLength
	}
	if s.AreaEpsilon <= 0 {
		s.AreaEpsilon = d.AreaEpsilon
	}
	if s.TrimWidth <= 0 {
		s.TrimWidth = d.TrimWidth
	}
	if s.FrameBudget <= 0 {
		s.FrameBudget = d.FrameBudget
	}
	return s
}
