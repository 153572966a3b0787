package model

import "math"

// SidingEstimate holds the results of a siding purchase calculation.
type SidingEstimate struct {
	GrossArea       float64 `json:"gross_area"`        // wall faces plus gables (sq cm)
	CutArea         float64 `json:"cut_area"`          // removed by structural clip regions (sq cm)
	OpeningArea     float64 `json:"opening_area"`      // covered by windows and doors (sq cm)
	NetArea         float64 `json:"net_area"`          // area to cover (sq cm)
	NetSquareFeet   float64 `json:"net_square_feet"`   // NetArea in sq ft
	PanelArea       float64 `json:"panel_area"`        // one panel (sq cm)
	PanelsExact     float64 `json:"panels_exact"`      // fractional panel count
	PanelsMin       int     `json:"panels_min"`        // ceiling of PanelsExact
	PanelsWithWaste int     `json:"panels_with_waste"` // including waste factor
	WastePercent    float64 `json:"waste_percent"`
	EstimatedCost   float64 `json:"estimated_cost"`
}

// sqcmPerSquareFoot is 30.48².
const sqcmPerSquareFoot = 929.0304

// EstimateSiding computes how many siding panels cover the building's walls
// after clip regions and accessory openings. Roof planes are skipped, as
// are plan items and structures (their cut is already in the clip stack).
func EstimateSiding(walls []*Wall, objects []PlacedObject, panelWidth, panelHeight, wastePercent, pricePerPanel float64) SidingEstimate {
	var gross, cut, openings float64
	for _, w := range walls {
		if w.IsRoofPlane {
			continue
		}
		b := w.Boundary()
		face := w.Width * w.Height
		gable := gableArea(w)
		gross += face + gable
		cut += face - b.NetArea()
	}
	for _, o := range objects {
		if o.CurrentWall == "" || o.IsDeck || o.IsPlanItem || o.IsLinear || o.IsRoofObject {
			continue
		}
		openings += o.Width * o.Height
	}

	net := math.Max(0, gross-cut-openings)
	est := SidingEstimate{
		GrossArea:     gross,
		CutArea:       cut,
		OpeningArea:   openings,
		NetArea:       net,
		NetSquareFeet: net / sqcmPerSquareFoot,
		WastePercent:  wastePercent,
	}

	panelArea := panelWidth * panelHeight
	if panelArea <= 0 {
		return est
	}
	exact := net / panelArea
	minPanels := int(math.Ceil(exact))
	withWaste := int(math.Ceil(exact * (1.0 + wastePercent/100.0)))
	if withWaste < minPanels {
		withWaste = minPanels
	}

	est.PanelArea = panelArea
	est.PanelsExact = exact
	est.PanelsMin = minPanels
	est.PanelsWithWaste = withWaste
	est.EstimatedCost = float64(withWaste) * pricePerPanel
	return est
}

// gableArea is the part of the gable outline above the wall top.
func gableArea(w *Wall) float64 {
	if len(w.Gable) == 0 {
		return 0
	}
	return w.Gable.Area()
}
