package reconcile

import (
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/dshills/inkwell/internal/model"
	"github.com/dshills/inkwell/internal/state"
	"github.com/dshills/inkwell/internal/transaction"
)

// DecorationKind selects how a decoration is drawn.
type DecorationKind int

const (
	// DecorationInline wraps text in [From, To) in a span.
	DecorationInline DecorationKind = iota
	// DecorationNode sets attributes on the block element.
	DecorationNode
)

// Decoration is view-only markup that is not part of the document.
type Decoration struct {
	Kind     DecorationKind
	BlockID  model.BlockID
	From, To int
	Attrs    map[string]string
}

// Inline creates an inline decoration.
func Inline(id model.BlockID, from, to int, attrs map[string]string) Decoration {
	return Decoration{Kind: DecorationInline, BlockID: id, From: from, To: to, Attrs: attrs}
}

// NodeDecoration creates a node decoration.
func NodeDecoration(id model.BlockID, attrs map[string]string) Decoration {
	return Decoration{Kind: DecorationNode, BlockID: id, Attrs: attrs}
}

// DecorationSource computes the decorations of a state. tr is the
// transaction that produced it, nil on mount.
type DecorationSource func(s *state.EditorState, tr *transaction.Transaction) []Decoration

// decorationSet groups decorations by block.
type decorationSet map[model.BlockID][]Decoration

func groupDecorations(decos []Decoration) decorationSet {
	set := make(decorationSet)
	for _, d := range decos {
		if d.Kind == DecorationInline && d.From >= d.To {
			continue
		}
		set[d.BlockID] = append(set[d.BlockID], d)
	}
	for id, ds := range set {
		sort.SliceStable(ds, func(i, j int) bool {
			if ds[i].Kind != ds[j].Kind {
				return ds[i].Kind < ds[j].Kind
			}
			if ds[i].From != ds[j].From {
				return ds[i].From < ds[j].From
			}
			return ds[i].To < ds[j].To
		})
		set[id] = ds
	}
	return set
}

// fingerprints hashes the decorations of every block. Blocks without
// decorations are absent.
func (s decorationSet) fingerprints() map[model.BlockID]uint64 {
	out := make(map[model.BlockID]uint64, len(s))
	for id, ds := range s {
		out[id] = fingerprint(ds)
	}
	return out
}

func fingerprint(ds []Decoration) uint64 {
	d := xxhash.New()
	for _, deco := range ds {
		_, _ = d.WriteString(strconv.Itoa(int(deco.Kind)))
		_, _ = d.WriteString(":")
		_, _ = d.WriteString(strconv.Itoa(deco.From))
		_, _ = d.WriteString("-")
		_, _ = d.WriteString(strconv.Itoa(deco.To))
		keys := make([]string, 0, len(deco.Attrs))
		for k := range deco.Attrs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = d.WriteString("|")
			_, _ = d.WriteString(k)
			_, _ = d.WriteString("=")
			_, _ = d.WriteString(deco.Attrs[k])
		}
		_, _ = d.WriteString(";")
	}
	return d.Sum64()
}

func (s decorationSet) inline(id model.BlockID) []Decoration {
	var out []Decoration
	for _, d := range s[id] {
		if d.Kind == DecorationInline {
			out = append(out, d)
		}
	}
	return out
}

func (s decorationSet) node(id model.BlockID) []Decoration {
	var out []Decoration
	for _, d := range s[id] {
		if d.Kind == DecorationNode {
			out = append(out, d)
		}
	}
	return out
}
