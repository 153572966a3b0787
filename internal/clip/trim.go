package clip

import (
	"log/slog"
	"math"

	"github.com/piwi3910/ShedCraft/internal/geom"
)

// TrimKind identifies the role of a trim piece around an opening.
type TrimKind int

const (
	TrimJamb   TrimKind = iota // Vertical piece along an opening side
	TrimHeader                 // Horizontal piece over an opening
	TrimEdge                   // Piece following a polygon edge
)

func (k TrimKind) String() string {
	switch k {
	case TrimHeader:
		return "header"
	case TrimEdge:
		return "edge"
	default:
		return "jamb"
	}
}

// TrimPiece is a strip of trim centred on the segment From..To in
// wall-local (u, v) coordinates.
type TrimPiece struct {
	Kind  TrimKind     `json:"kind"`
	Key   string       `json:"key"`
	From  geom.Point2D `json:"from"`
	To    geom.Point2D `json:"to"`
	Width float64      `json:"width"`
}

func (p TrimPiece) Length() float64 {
	return math.Hypot(p.To.X-p.From.X, p.To.Y-p.From.Y)
}

// BuildTrim derives the trim around every opening of a boundary. Edges
// lying on the wall base get no trim.
func BuildTrim(b Boundary, width float64) []TrimPiece {
	var pieces []TrimPiece
	base := b.Base()
	for _, c := range b.Cuts {
		switch c.Kind {
		case RegionPolygon:
			n := len(c.Outline)
			for i := 0; i < n; i++ {
				a, z := c.Outline[i], c.Outline[(i+1)%n]
				if a.Y <= 0 && z.Y <= 0 {
					continue
				}
				pieces = append(pieces, TrimPiece{Kind: TrimEdge, Key: c.Key, From: a, To: z, Width: width})
			}
		default:
			span := c.Span().Intersect(base)
			if span.Empty() {
				continue
			}
			vert := c.VerticalSpan(b.Height)
			if span.Lo > base.Lo {
				pieces = append(pieces, TrimPiece{
					Kind: TrimJamb, Key: c.Key, Width: width,
					From: geom.Point2D{X: span.Lo, Y: vert.Lo},
					To:   geom.Point2D{X: span.Lo, Y: vert.Hi},
				})
			}
			if span.Hi < base.Hi {
				pieces = append(pieces, TrimPiece{
					Kind: TrimJamb, Key: c.Key, Width: width,
					From: geom.Point2D{X: span.Hi, Y: vert.Lo},
					To:   geom.Point2D{X: span.Hi, Y: vert.Hi},
				})
			}
			if vert.Hi < b.Height {
				pieces = append(pieces, TrimPiece{
					Kind: TrimHeader, Key: c.Key, Width: width,
					From: geom.Point2D{X: span.Lo, Y: vert.Hi},
					To:   geom.Point2D{X: span.Hi, Y: vert.Hi},
				})
			}
		}
	}
	return pieces
}

// TrimCache keeps the trim for one wall in step with its clip stack.
// Regeneration is skipped when the boundary fingerprint is unchanged.
type TrimCache struct {
	wallID        string
	width         float64
	fingerprint   uint64
	built         bool
	pieces        []TrimPiece
	regenerations int
	logger        *slog.Logger
}

func NewTrimCache(wallID string, width float64, logger *slog.Logger) *TrimCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrimCache{wallID: wallID, width: width, logger: logger}
}

// Attach builds the initial trim and subscribes to the stack.
func (c *TrimCache) Attach(s *Stack) {
	c.Update(s.CurrentBoundary())
	s.OnChange(func(b Boundary) { c.Update(b) })
}

// Update regenerates the trim if the boundary changed. Reports whether it did.
func (c *TrimCache) Update(b Boundary) bool {
	fp := b.Fingerprint()
	if c.built && fp == c.fingerprint {
		return false
	}
	c.pieces = BuildTrim(b, c.width)
	c.fingerprint = fp
	c.built = true
	c.regenerations++
	c.logger.Debug("trim regenerated",
		"wall", c.wallID,
		"cuts", len(b.Cuts),
		"pieces", len(c.pieces))
	return true
}

// Pieces returns the current trim pieces.
func (c *TrimCache) Pieces() []TrimPiece {
	out := make([]TrimPiece, len(c.pieces))
	copy(out, c.pieces)
	return out
}

// Regenerations counts how many times the trim was rebuilt.
func (c *TrimCache) Regenerations() int { return c.regenerations }
