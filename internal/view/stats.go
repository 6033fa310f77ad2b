package view

import (
	"sync/atomic"

	"github.com/dshills/inkwell/internal/reconcile"
)

// Stats counts what a view has done since it was created.
type Stats struct {
	Dispatched uint64
	Dropped    uint64
	Failed     uint64
	Undone     uint64
	Redone     uint64
	Reconciled uint64
	// Last is the result of the most recent reconcile.
	Last reconcile.Result
}

type counters struct {
	dispatched atomic.Uint64
	dropped    atomic.Uint64
	failed     atomic.Uint64
	undone     atomic.Uint64
	redone     atomic.Uint64
	reconciled atomic.Uint64
}

// Stats returns a snapshot of the counters.
func (v *View) Stats() Stats {
	return Stats{
		Dispatched: v.stats.dispatched.Load(),
		Dropped:    v.stats.dropped.Load(),
		Failed:     v.stats.failed.Load(),
		Undone:     v.stats.undone.Load(),
		Redone:     v.stats.redone.Load(),
		Reconciled: v.stats.reconciled.Load(),
		Last:       v.last,
	}
}
