package session

// FrameBudget counts the frames still owed to the renderer. Mutations
// request a short burst of frames instead of the scene redrawing on every
// animation tick.
type FrameBudget struct {
	pending  int
	rendered int
}

// Request makes sure at least n more frames are rendered.
func (f *FrameBudget) Request(n int) {
	if n > f.pending {
		f.pending = n
	}
}

// Next consumes one frame. It reports false when nothing is owed.
func (f *FrameBudget) Next() bool {
	if f.pending == 0 {
		return false
	}
	f.pending--
	f.rendered++
	return true
}

func (f *FrameBudget) Pending() int { return f.pending }

// Rendered counts the frames consumed so far.
func (f *FrameBudget) Rendered() int { return f.rendered }
