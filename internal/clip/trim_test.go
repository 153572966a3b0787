package clip

import (
	"testing"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTrimForDoorway(t *testing.T) {
	b := Boundary{Width: 400, Height: 240, Cuts: []Region{RectWithHeight("deck", -50, 50, 0, 200)}}
	pieces := BuildTrim(b, 9)
	require.Len(t, pieces, 3)

	assert.Equal(t, TrimJamb, pieces[0].Kind)
	assert.Equal(t, -50.0, pieces[0].From.X)
	assert.InDelta(t, 200.0, pieces[0].Length(), 1e-9)
	assert.Equal(t, TrimHeader, pieces[2].Kind)
	assert.InDelta(t, 100.0, pieces[2].Length(), 1e-9)
}

func TestBuildTrimSkipsWallEdgesAndFullHeight(t *testing.T) {
	b := Boundary{Width: 400, Height: 240, Cuts: []Region{Rect("wrap", 100, 250)}}
	pieces := BuildTrim(b, 9)
	require.Len(t, pieces, 1, "only the inner jamb: cut reaches the wall end and full height")
	assert.Equal(t, 100.0, pieces[0].From.X)
}

func TestBuildTrimPolygonSkipsBaseEdge(t *testing.T) {
	b := Boundary{Width: 400, Height: 240, Cuts: []Region{
		Polygon("stall", geom.ChamferedOutline(0, 0, 100, 180, 20)),
	}}
	pieces := BuildTrim(b, 9)
	assert.Len(t, pieces, 5)
	for _, p := range pieces {
		assert.Equal(t, TrimEdge, p.Kind)
	}
}

func TestTrimCacheRegeneratesOnlyOnChange(t *testing.T) {
	s := NewStack(400, 240)
	c := NewTrimCache("front", 9, nil)
	c.Attach(s)
	assert.Equal(t, 1, c.Regenerations())
	assert.Empty(t, c.Pieces())

	s.Push(RectWithHeight("deck", -50, 50, 0, 200))
	assert.Equal(t, 2, c.Regenerations())
	assert.Len(t, c.Pieces(), 3)

	assert.False(t, c.Update(s.CurrentBoundary()), "same boundary does not rebuild")

	s.Pop()
	assert.Equal(t, 3, c.Regenerations())
	assert.Empty(t, c.Pieces())
}
