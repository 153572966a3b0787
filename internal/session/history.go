package session

import "github.com/piwi3910/ShedCraft/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the committed objects at a point in time.
type Snapshot struct {
	Objects []model.PlacedObject
	Label   string // Human-readable description (e.g. "Place deck")
}

// History manages undo/redo stacks of object snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History keeping at most depth snapshots. A
// non-positive depth uses the default of 50.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = defaultMaxDepth
	}
	return &History{maxDepth: depth}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot and pushes current onto the redo
// stack. Returns false if there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent redo snapshot and pushes current onto the
// undo stack. Returns false if there is nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

func (h *History) CanUndo() bool { return len(h.undoStack) > 0 }

func (h *History) CanRedo() bool { return len(h.redoStack) > 0 }

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

// MakeSnapshot copies objects into a labelled snapshot.
func MakeSnapshot(objects []model.PlacedObject, label string) Snapshot {
	var cp []model.PlacedObject
	if objects != nil {
		cp = make([]model.PlacedObject, len(objects))
		copy(cp, objects)
	}
	return Snapshot{Objects: cp, Label: label}
}
