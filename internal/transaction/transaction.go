package transaction

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/selection"
	"github.com/dshills/inkwell/internal/step"
)

// Origin says where a transaction came from.
type Origin string

const (
	OriginInput   Origin = "input"
	OriginCommand Origin = "command"
	OriginPaste   Origin = "paste"
	OriginHistory Origin = "history"
)

// Well-known Meta.Extra keys.
const (
	// MetaInverts holds the ID of the transaction an inverse undoes.
	MetaInverts = "inverts"

	// MetaAddToHistory set to false keeps a transaction off the undo stack.
	MetaAddToHistory = "addToHistory"
)

// Meta describes a transaction.
type Meta struct {
	Origin    Origin
	Timestamp time.Time
	Extra     map[string]any
}

// Transaction is an ordered batch of steps.
type Transaction struct {
	ID                uuid.UUID
	Steps             []step.Step
	SelectionBefore   selection.Selection
	SelectionAfter    selection.Selection
	StoredMarksBefore []model.Mark
	StoredMarksAfter  []model.Mark
	Meta              Meta
}

// Origin returns tr's origin.
func (tr *Transaction) Origin() Origin {
	return tr.Meta.Origin
}

// Get returns an Extra value.
func (tr *Transaction) Get(key string) (any, bool) {
	v, ok := tr.Meta.Extra[key]
	return v, ok
}

// DocChanged reports whether any step can change the document.
func (tr *Transaction) DocChanged() bool {
	for _, s := range tr.Steps {
		if step.IsDocChange(s) {
			return true
		}
	}
	return false
}

// AddToHistory reports whether tr belongs on the undo stack. Transactions
// from history and transactions with addToHistory=false do not.
func (tr *Transaction) AddToHistory() bool {
	if tr.Meta.Origin == OriginHistory {
		return false
	}
	if v, ok := tr.Meta.Extra[MetaAddToHistory].(bool); ok && !v {
		return false
	}
	return true
}

// Apply folds the steps of tr over doc.
func (tr *Transaction) Apply(doc *model.Document) (*model.Document, error) {
	return step.ApplyAll(doc, tr.Steps)
}

// MapPosition maps p through every step of tr.
func (tr *Transaction) MapPosition(p selection.Position) selection.Position {
	for _, s := range tr.Steps {
		p = step.MapPosition(s, p)
	}
	return p
}

// MapSelection maps sel through every step of tr. A nil selection stays nil.
func (tr *Transaction) MapSelection(sel selection.Selection) selection.Selection {
	return mapSelection(nil, tr.Steps, sel)
}

// mapSelection maps sel through steps. With doc, the document before the
// first step, selections inside removed blocks move to a neighbour.
func mapSelection(doc *model.Document, steps []step.Step, sel selection.Selection) selection.Selection {
	for _, s := range steps {
		if sel == nil {
			return nil
		}
		if doc == nil {
			sel = step.MapSelection(s, sel)
			continue
		}
		sel = step.MapSelectionIn(doc, s, sel)
		next, err := step.Apply(doc, s)
		if err != nil {
			next = nil
		}
		doc = next
	}
	return sel
}

// Invert returns the transaction that undoes tr. Steps are inverted and
// reversed, selections and stored marks are swapped, and the origin is
// history.
func Invert(tr *Transaction) *Transaction {
	steps := make([]step.Step, len(tr.Steps))
	for i, s := range tr.Steps {
		steps[len(steps)-1-i] = step.Invert(s)
	}
	return &Transaction{
		ID:                uuid.New(),
		Steps:             steps,
		SelectionBefore:   tr.SelectionAfter,
		SelectionAfter:    tr.SelectionBefore,
		StoredMarksBefore: tr.StoredMarksAfter,
		StoredMarksAfter:  tr.StoredMarksBefore,
		Meta: Meta{
			Origin:    OriginHistory,
			Timestamp: time.Now(),
			Extra:     map[string]any{MetaInverts: tr.ID},
		},
	}
}

// Concat joins transactions into one, keeping the first selection and
// stored marks before and the last after. It returns nil for no input.
func Concat(trs ...*Transaction) *Transaction {
	if len(trs) == 0 {
		return nil
	}
	if len(trs) == 1 {
		return trs[0]
	}
	first, last := trs[0], trs[len(trs)-1]
	var steps []step.Step
	for _, tr := range trs {
		steps = append(steps, tr.Steps...)
	}
	extra := make(map[string]any, len(first.Meta.Extra))
	for k, v := range first.Meta.Extra {
		extra[k] = v
	}
	return &Transaction{
		ID:                uuid.New(),
		Steps:             steps,
		SelectionBefore:   first.SelectionBefore,
		SelectionAfter:    last.SelectionAfter,
		StoredMarksBefore: first.StoredMarksBefore,
		StoredMarksAfter:  last.StoredMarksAfter,
		Meta: Meta{
			Origin:    first.Meta.Origin,
			Timestamp: last.Meta.Timestamp,
			Extra:     extra,
		},
	}
}
