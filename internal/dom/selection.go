package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// Point is a DOM boundary point. In a text node Offset counts runes; in an
// element it counts children.
type Point struct {
	Node   *html.Node
	Offset int
}

// Selection mirrors the browser Selection: anchor is where it started, focus
// is where it ends.
type Selection struct {
	Anchor Point
	Focus  Point
}

// Collapsed reports whether anchor and focus coincide.
func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// SelectionAPI is the live selection of a document.
type SelectionAPI interface {
	// Selection returns the current selection and false when there is none.
	Selection() (Selection, bool)

	// SetBaseAndExtent replaces the selection.
	SetBaseAndExtent(anchor, focus Point)

	// RemoveAllRanges clears the selection.
	RemoveAllRanges()
}

// Headless is an in-memory SelectionAPI. Listeners registered with
// OnSelectionChange run synchronously on every change, the way a browser's
// selectionchange event can fire during a selection write.
type Headless struct {
	mu        sync.Mutex
	sel       Selection
	has       bool
	changes   int
	nextID    int
	listeners map[int]func()
}

// NewHeadless creates an empty headless selection.
func NewHeadless() *Headless {
	return &Headless{listeners: make(map[int]func())}
}

// Selection returns the current selection.
func (h *Headless) Selection() (Selection, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sel, h.has
}

// SetBaseAndExtent replaces the selection and notifies listeners.
func (h *Headless) SetBaseAndExtent(anchor, focus Point) {
	h.mu.Lock()
	h.sel = Selection{Anchor: anchor, Focus: focus}
	h.has = true
	h.changes++
	fns := h.snapshotLocked()
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// RemoveAllRanges clears the selection and notifies listeners.
func (h *Headless) RemoveAllRanges() {
	h.mu.Lock()
	h.sel = Selection{}
	h.has = false
	h.changes++
	fns := h.snapshotLocked()
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// OnSelectionChange registers fn and returns a function that removes it.
func (h *Headless) OnSelectionChange(fn func()) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Changes returns how many times the selection was written.
func (h *Headless) Changes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.changes
}

func (h *Headless) snapshotLocked() []func() {
	fns := make([]func(), 0, len(h.listeners))
	for i := 0; i < h.nextID; i++ {
		if fn, ok := h.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}
