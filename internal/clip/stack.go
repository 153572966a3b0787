package clip

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Listener is notified synchronously after every mutation of a Stack with
// the wall's new boundary. Dependent geometry (trim, frames) regenerates
// here, before the mutating call returns.
type Listener func(b Boundary)

// Stack is the ordered history of cut regions applied to one wall.
// Entries are keyed by the attaching object's ID. Pop removes the most
// recent entry; Remove drops a keyed entry and the boundary is rebuilt by
// replaying the remaining entries in push order.
//
// A Stack is not safe for concurrent use.
type Stack struct {
	width     float64
	height    float64
	entries   *orderedmap.OrderedMap[string, Region]
	seq       int
	listeners []Listener
}

// NewStack creates an empty stack for a wall face of the given size.
func NewStack(width, height float64) *Stack {
	return &Stack{
		width:   width,
		height:  height,
		entries: orderedmap.NewOrderedMap[string, Region](),
	}
}

// OnChange registers a listener for boundary changes.
func (s *Stack) OnChange(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Push applies a region and returns its key. Regions without a key get a
// generated one. Pushing an existing key relocates that entry to the top.
func (s *Stack) Push(r Region) string {
	if r.Key == "" {
		s.seq++
		r.Key = fmt.Sprintf("clip-%d", s.seq)
	}
	s.entries.Delete(r.Key)
	s.entries.Set(r.Key, r.clone())
	s.notify()
	return r.Key
}

// Pop removes the most recently pushed region. Popping an empty stack is a
// no-op and reports false.
func (s *Stack) Pop() (Region, bool) {
	el := s.entries.Back()
	if el == nil {
		return Region{}, false
	}
	r := el.Value
	s.entries.Delete(el.Key)
	s.notify()
	return r, true
}

// Remove drops the region with the given key. Unknown keys are a no-op.
func (s *Stack) Remove(key string) (Region, bool) {
	r, ok := s.entries.Get(key)
	if !ok {
		return Region{}, false
	}
	s.entries.Delete(key)
	s.notify()
	return r, true
}

// Peek returns the most recently pushed region without removing it.
func (s *Stack) Peek() (Region, bool) {
	el := s.entries.Back()
	if el == nil {
		return Region{}, false
	}
	return el.Value.clone(), true
}

// Has reports whether a region with the key is applied.
func (s *Stack) Has(key string) bool {
	_, ok := s.entries.Get(key)
	return ok
}

func (s *Stack) Len() int { return s.entries.Len() }

// Regions returns copies of the applied regions in push order.
func (s *Stack) Regions() []Region {
	var out []Region
	for el := s.entries.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.clone())
	}
	return out
}

// Unclipped returns the wall's base boundary with no cuts.
func (s *Stack) Unclipped() Boundary {
	return Boundary{Width: s.width, Height: s.height}
}

// CurrentBoundary replays the stored regions onto the base boundary.
func (s *Stack) CurrentBoundary() Boundary {
	b := s.Unclipped()
	b.Cuts = s.Regions()
	return b
}

func (s *Stack) notify() {
	if len(s.listeners) == 0 {
		return
	}
	b := s.CurrentBoundary()
	for _, l := range s.listeners {
		l(b)
	}
}
