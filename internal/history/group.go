package history

import (
	"time"

	"github.com/dshills/inkwell/internal/transaction"
)

// BeginGroup starts collecting pushed transactions into one entry.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupTrs = nil
}

// EndGroup closes the group and pushes its transactions as one entry.
// An empty group pushes nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.grouping {
		return
	}
	h.grouping = false
	trs := h.groupTrs
	h.groupTrs = nil
	if len(trs) == 0 {
		return
	}
	h.pushLocked(&entry{tr: transaction.Concat(trs...), name: h.groupName, timestamp: time.Now()})
}

// CancelGroup drops the open group without adding it to history. The
// transactions were already applied; only their undo entry is lost.
func (h *History) CancelGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupTrs = nil
}

// IsGrouping returns true if a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// Group runs fn inside a group. If fn returns an error the group is
// cancelled.
func (h *History) Group(name string, fn func() error) error {
	h.BeginGroup(name)
	if err := fn(); err != nil {
		h.CancelGroup()
		return err
	}
	h.EndGroup()
	return nil
}
