package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/piwi3910/ShedCraft/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// WallImportResult holds the building generated from a DXF floor plan.
type WallImportResult struct {
	Building *model.Building
	Errors   []string
	Warnings []string
}

// segment represents a line segment between two plan points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start geom.Point2D
	end   geom.Point2D
}

// ImportWallsDXF reads a floor plan and turns the largest closed outline
// (an LWPOLYLINE or a chain of LINEs) into walls of the given height.
// Plan units are centimetres; plan +Y points toward the back of the
// building, so world z = -y. Edges off the 45° grid are skipped.
func ImportWallsDXF(path, name string, wallHeight float64) WallImportResult {
	result := WallImportResult{}
	if wallHeight <= 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid wall height %.2f", wallHeight))
		return result
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines []geom.Outline
	var segments []segment
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline := lwPolylineToOutline(e, &result)
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}
		case *entity.Line:
			segments = append(segments, segment{
				start: planPoint(e.Start[0], e.Start[1]),
				end:   planPoint(e.End[0], e.End[1]),
			})
		default:
			// Dimensions, text and the like carry no walls
		}
	}
	outlines = append(outlines, chainSegments(segments, 0.01)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed footprint found in DXF file")
		return result
	}
	sort.SliceStable(outlines, func(i, j int) bool {
		return math.Abs(outlines[i].Area()) > math.Abs(outlines[j].Area())
	})
	if len(outlines) > 1 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Found %d closed outlines, using the largest", len(outlines)))
	}

	walls := outlineToWalls(outlines[0], wallHeight, &result)
	if len(walls) < 3 {
		result.Errors = append(result.Errors, "Footprint has fewer than 3 usable walls")
		return result
	}
	result.Building = &model.Building{Name: name, Walls: walls}
	return result
}

func planPoint(x, y float64) geom.Point2D {
	return geom.Point2D{X: x, Y: -y}
}

// lwPolylineToOutline converts an LWPOLYLINE to a world (x, z) outline.
// Bulged vertices are straightened.
func lwPolylineToOutline(lw *entity.LwPolyline, result *WallImportResult) geom.Outline {
	outline := make(geom.Outline, 0, len(lw.Vertices))
	bulged := false
	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			bulged = true
		}
		outline = append(outline, planPoint(v[0], v[1]))
	}
	if bulged {
		result.Warnings = append(result.Warnings, "Curved LWPOLYLINE segments were straightened")
	}
	return outline
}

// outlineToWalls creates one wall per outline edge. Each wall's outward
// normal points away from the outline's centroid.
func outlineToWalls(o geom.Outline, height float64, result *WallImportResult) []*model.Wall {
	var cx, cz float64
	for _, p := range o {
		cx += p.X
		cz += p.Y
	}
	cx /= float64(len(o))
	cz /= float64(len(o))

	var walls []*model.Wall
	for i := range o {
		a, b := o[i], o[(i+1)%len(o)]
		dx, dz := b.X-a.X, b.Y-a.Y
		length := math.Hypot(dx, dz)
		if length < 1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped edge %d shorter than 1 cm", i+1))
			continue
		}

		angle := math.Atan2(-dz, dx)
		snapped := math.Round(angle/(math.Pi/4)) * (math.Pi / 4)
		if math.Abs(angle-snapped) > geom.DegToRad(1) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped edge %d at %.1f° (walls must run on a 45° grid)", i+1, geom.RadToDeg(angle)))
			continue
		}
		angle = geom.NormalizeAngle(snapped)

		mx, mz := (a.X+b.X)/2, (a.Y+b.Y)/2
		nx, nz := geom.NormalOf(angle)
		if nx*(mx-cx)+nz*(mz-cz) < 0 {
			angle = geom.NormalizeAngle(angle + math.Pi)
		}

		label := fmt.Sprintf("%s %d", geom.QuadrantOf(angle), len(walls)+1)
		if geom.IsDiagonal(angle) {
			label = fmt.Sprintf("Corner %d", len(walls)+1)
		}
		walls = append(walls, model.NewWall(label, length, height, mx, mz, angle))
	}
	return walls
}

// chainSegments connects individual segments into closed outlines.
// tolerance is the maximum distance between endpoints to consider them connected.
// Open chains are dropped.
func chainSegments(segs []segment, tolerance float64) []geom.Outline {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines []geom.Outline

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []geom.Point2D{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]

			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 4 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			outlines = append(outlines, geom.Outline(chain[:len(chain)-1]))
		}
	}

	return outlines
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b geom.Point2D, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
