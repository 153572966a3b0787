package clip

import (
	"testing"

	"github.com/piwi3910/ShedCraft/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopRestoresBoundaryExactly(t *testing.T) {
	s := NewStack(400, 240)
	before := s.CurrentBoundary()

	s.Push(Rect("deck", -50, 50))
	cut := s.CurrentBoundary()
	require.Len(t, cut.Cuts, 1)
	assert.Equal(t, []geom.Interval{{Lo: -200, Hi: -50}, {Lo: 50, Hi: 200}}, cut.SolidSpans())

	r, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "deck", r.Key)

	after := s.CurrentBoundary()
	assert.Equal(t, before, after)
	assert.Equal(t, before.Fingerprint(), after.Fingerprint())
	assert.Equal(t, []geom.Interval{{Lo: -200, Hi: 200}}, after.SolidSpans())
	assert.Equal(t, 400.0, after.Base().Width())
}

func TestPopEmptyIsNoop(t *testing.T) {
	s := NewStack(300, 200)
	calls := 0
	s.OnChange(func(Boundary) { calls++ })

	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, calls, "no-op pops must not notify")
	assert.Equal(t, 0, s.Len())
}

func TestPopIsLIFO(t *testing.T) {
	s := NewStack(600, 240)
	s.Push(Rect("a", -250, -150))
	s.Push(Rect("b", 100, 200))

	r, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", r.Key)
	r, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", r.Key)
}

func TestRemoveByKeyReplaysRemaining(t *testing.T) {
	s := NewStack(600, 240)
	s.Push(Polygon("stall-1", geom.ChamferedOutline(-150, 0, 100, 180, 20)))
	afterFirst := s.CurrentBoundary()
	s.Push(Polygon("stall-2", geom.ChamferedOutline(150, 0, 100, 180, 20)))

	_, ok := s.Remove("stall-2")
	require.True(t, ok)
	assert.Equal(t, afterFirst, s.CurrentBoundary())

	_, ok = s.Remove("stall-2")
	assert.False(t, ok, "second removal is a no-op")
}

func TestRemoveMiddleKeepsOrder(t *testing.T) {
	s := NewStack(600, 240)
	s.Push(Rect("a", -250, -200))
	s.Push(Rect("b", -100, -50))
	s.Push(Rect("c", 100, 150))

	s.Remove("b")
	keys := []string{}
	for _, r := range s.Regions() {
		keys = append(keys, r.Key)
	}
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestPushSameKeyRelocates(t *testing.T) {
	s := NewStack(600, 240)
	s.Push(Rect("deck", -100, 0))
	s.Push(Rect("other", 200, 250))
	s.Push(Rect("deck", 0, 100))

	require.Equal(t, 2, s.Len())
	top, ok := s.Peek()
	require.True(t, ok)
	assert.Equal(t, "deck", top.Key)
	assert.Equal(t, 0.0, top.Start)
}

func TestPushGeneratesKeys(t *testing.T) {
	s := NewStack(600, 240)
	k1 := s.Push(Rect("", -10, 10))
	k2 := s.Push(Rect("", 20, 30))
	assert.NotEqual(t, k1, k2)
	assert.True(t, s.Has(k1))
}

func TestStoredPolygonIsIsolatedFromCaller(t *testing.T) {
	s := NewStack(600, 240)
	outline := geom.RectOutline(0, 50, 40, 40)
	s.Push(Polygon("vent", outline))
	outline[0].X = 999

	r, _ := s.Peek()
	assert.Equal(t, -20.0, r.Outline[0].X)
}

func TestListenerRunsBeforePushReturns(t *testing.T) {
	s := NewStack(400, 240)
	var seen []int
	s.OnChange(func(b Boundary) { seen = append(seen, len(b.Cuts)) })

	s.Push(Rect("a", -50, 50))
	assert.Equal(t, []int{1}, seen)
	s.Pop()
	assert.Equal(t, []int{1, 0}, seen)
}

func TestRepeatedCyclesDoNotDrift(t *testing.T) {
	s := NewStack(487.68, 243.84)
	original := s.CurrentBoundary().Fingerprint()
	for i := 0; i < 1000; i++ {
		start := -200 + float64(i%7)*0.1
		s.Push(Rect("deck", start, start+91.44))
		s.Push(Polygon("stall", geom.ChamferedOutline(100.3, 0, 60.96, 182.88, 15.24)))
		s.Remove("deck")
		s.Pop()
	}
	assert.Equal(t, original, s.CurrentBoundary().Fingerprint())
}

func TestBoundaryNetArea(t *testing.T) {
	b := Boundary{Width: 400, Height: 200, Cuts: []Region{
		RectWithHeight("door", -50, 50, 0, 150),
	}}
	assert.InDelta(t, 400*200-100*150, b.NetArea(), 1e-9)
}

func TestNetAreaCountsOverlapOnce(t *testing.T) {
	b := Boundary{Width: 400, Height: 200, Cuts: []Region{
		Rect("a", -100, 0),
		Rect("b", -50, 50),
	}}
	assert.InDelta(t, 400*200-150*200, b.NetArea(), 1e-9)

	b.Cuts[1] = RectWithHeight("b", -50, 50, 0, 100)
	assert.InDelta(t, 400*200-100*200-50*100, b.NetArea(), 1e-9)

	b.Cuts = append(b.Cuts, Rect("past the end", 150, 260))
	assert.InDelta(t, 400*200-100*200-50*100-50*200, b.NetArea(), 1e-9)
}

func TestNetAreaWithPolygonCuts(t *testing.T) {
	stall := geom.ChamferedOutline(120, 0, 60, 100, 10)
	b := Boundary{Width: 400, Height: 200, Cuts: []Region{Polygon("stall", stall)}}
	assert.InDelta(t, 400*200-stall.Area(), b.NetArea(), 1e-6)

	// A stall inside a full-height opening removes nothing more.
	b.Cuts = append(b.Cuts, Rect("door", 80, 160))
	assert.InDelta(t, 400*200-80*200, b.NetArea(), 1e-6)
}

func TestOpeningsMergeOverlaps(t *testing.T) {
	b := Boundary{Width: 400, Height: 200, Cuts: []Region{
		Rect("a", -100, 0),
		Rect("b", -20, 40),
		Rect("c", 150, 260),
	}}
	assert.Equal(t, []geom.Interval{{Lo: -100, Hi: 40}, {Lo: 150, Hi: 200}}, b.Openings())
}

func TestBoundarySolid(t *testing.T) {
	s := NewStack(400, 240)
	s.Push(RectWithHeight("door", -50, 50, 0, 200))
	s.Push(Polygon("stall", geom.ChamferedOutline(120, 0, 60, 100, 10)))
	b := s.CurrentBoundary()

	assert.True(t, b.Solid(0, 220), "above the door header")
	assert.False(t, b.Solid(0, 100))
	assert.False(t, b.Solid(120, 50))
	assert.True(t, b.Solid(-150, 50))
	assert.False(t, b.Solid(-250, 50), "past the wall end")
	assert.False(t, b.Solid(0, 241))
}
