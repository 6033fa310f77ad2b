package history

import (
	"errors"
	"sync"
	"time"

	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// DefaultMaxDepth is used when New is given a non-positive depth.
const DefaultMaxDepth = 100

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Result is the outcome of Undo or Redo.
type Result struct {
	// State is the state after the transaction was applied.
	State *state.EditorState

	// Transaction is the transaction that was applied: the inverse for
	// Undo, the original for Redo.
	Transaction *transaction.Transaction
}

type entry struct {
	tr        *transaction.Transaction
	name      string
	timestamp time.Time
}

// History manages undo/redo stacks of transactions.
type History struct {
	mu sync.Mutex

	undoStack []*entry
	redoStack []*entry

	grouping  bool
	groupName string
	groupTrs  []*transaction.Transaction

	maxDepth int
}

// New creates a history holding at most maxDepth undo entries.
func New(maxDepth int) *History {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &History{maxDepth: maxDepth}
}

// Push adds tr to the undo stack and clears the redo stack.
func (h *History) Push(tr *transaction.Transaction) {
	if tr == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		h.groupTrs = append(h.groupTrs, tr)
		return
	}
	h.pushLocked(&entry{tr: tr, timestamp: time.Now()})
}

func (h *History) pushLocked(e *entry) {
	h.undoStack = append(h.undoStack, e)
	h.redoStack = nil
	h.trimLocked()
}

func (h *History) trimLocked() {
	if excess := len(h.undoStack) - h.maxDepth; excess > 0 {
		h.undoStack = h.undoStack[excess:]
	}
}

// Undo applies the inverse of the newest transaction to s. If the inverse
// cannot be applied the entry stays on the undo stack.
func (h *History) Undo(s *state.EditorState) (*Result, error) {
	h.mu.Lock()
	if len(h.undoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToUndo
	}
	e := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.mu.Unlock()

	inv := transaction.Invert(e.tr)
	next, err := s.Apply(inv)
	if err != nil {
		h.mu.Lock()
		h.undoStack = append(h.undoStack, e)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.redoStack = append(h.redoStack, e)
	h.mu.Unlock()
	return &Result{State: next, Transaction: inv}, nil
}

// Redo applies the most recently undone transaction to s again.
func (h *History) Redo(s *state.EditorState) (*Result, error) {
	h.mu.Lock()
	if len(h.redoStack) == 0 {
		h.mu.Unlock()
		return nil, ErrNothingToRedo
	}
	e := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.mu.Unlock()

	next, err := s.Apply(e.tr)
	if err != nil {
		h.mu.Lock()
		h.redoStack = append(h.redoStack, e)
		h.mu.Unlock()
		return nil, err
	}

	h.mu.Lock()
	h.undoStack = append(h.undoStack, e)
	h.trimLocked()
	h.mu.Unlock()
	return &Result{State: next, Transaction: e.tr}, nil
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack) > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack) > 0
}

// UndoDepth returns the number of undo entries.
func (h *History) UndoDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoDepth returns the number of redo entries.
func (h *History) RedoDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// PeekUndo returns the transaction Undo would invert next.
func (h *History) PeekUndo() (*transaction.Transaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return nil, false
	}
	return h.undoStack[len(h.undoStack)-1].tr, true
}

// PeekRedo returns the transaction Redo would apply next.
func (h *History) PeekRedo() (*transaction.Transaction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.redoStack) == 0 {
		return nil, false
	}
	return h.redoStack[len(h.redoStack)-1].tr, true
}

// Clear removes all undo/redo history and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
	h.grouping = false
	h.groupTrs = nil
}

// SetMaxDepth changes the maximum number of undo entries. If the current
// stack is larger, the oldest entries are removed.
func (h *History) SetMaxDepth(max int) {
	if max <= 0 {
		max = DefaultMaxDepth
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxDepth = max
	h.trimLocked()
}

// MaxDepth returns the maximum number of undo entries.
func (h *History) MaxDepth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxDepth
}
