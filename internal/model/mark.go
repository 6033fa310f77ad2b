package model

import "sort"

// Mark is inline formatting attached to a span of text.
type Mark struct {
	Type  MarkType `json:"type" yaml:"type"`
	Attrs Attrs    `json:"attrs,omitempty" yaml:"attrs,omitempty"`
}

// NewMark creates a mark without attributes.
func NewMark(t MarkType) Mark {
	return Mark{Type: t}
}

// NewMarkWithAttrs creates a mark carrying attributes.
func NewMarkWithAttrs(t MarkType, attrs Attrs) Mark {
	if attrs == nil {
		attrs = Attrs{}
	}
	return Mark{Type: t, Attrs: attrs}
}

// Default mark ranks used when no schema registry supplies one.
// Lower ranks render as outer wrappers.
const (
	RankBold      = 0
	RankItalic    = 1
	RankUnderline = 2
	RankDefault   = 100
)

// RankFunc returns the nesting rank of a mark type.
type RankFunc func(MarkType) int

// DefaultMarkRank is the fallback rank table.
func DefaultMarkRank(t MarkType) int {
	switch t {
	case Bold:
		return RankBold
	case Italic:
		return RankItalic
	case Underline:
		return RankUnderline
	default:
		return RankDefault
	}
}

// MarksEqual reports whether a and b have the same type and attributes.
// A mark with Attrs{} is not equal to one with nil Attrs.
func MarksEqual(a, b Mark) bool {
	return a.Type == b.Type && AttrsEqual(a.Attrs, b.Attrs)
}

// MarkSetsEqual compares two mark sets ignoring order.
func MarkSetsEqual(a, b []Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for _, m := range a {
		found := false
		for _, o := range b {
			if MarksEqual(m, o) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// HasMark reports whether the set contains a mark of type t.
func HasMark(set []Mark, t MarkType) bool {
	for _, m := range set {
		if m.Type == t {
			return true
		}
	}
	return false
}

// FindMark returns the mark of type t in the set.
func FindMark(set []Mark, t MarkType) (Mark, bool) {
	for _, m := range set {
		if m.Type == t {
			return m, true
		}
	}
	return Mark{}, false
}

// AddMarkToSet returns a new set with m added. An existing mark of the same
// type is replaced, so a set never holds two marks of one type.
func AddMarkToSet(set []Mark, m Mark) []Mark {
	out := make([]Mark, 0, len(set)+1)
	for _, e := range set {
		if e.Type != m.Type {
			out = append(out, e)
		}
	}
	out = append(out, m)
	return SortMarks(out, DefaultMarkRank)
}

// RemoveMarkFromSet returns a new set without any mark of type t.
func RemoveMarkFromSet(set []Mark, t MarkType) []Mark {
	out := make([]Mark, 0, len(set))
	for _, e := range set {
		if e.Type != t {
			out = append(out, e)
		}
	}
	return out
}

// SortMarks returns a copy of marks in canonical order: ascending rank, then
// type name. A nil rank function uses DefaultMarkRank.
func SortMarks(marks []Mark, rank RankFunc) []Mark {
	if rank == nil {
		rank = DefaultMarkRank
	}
	out := make([]Mark, len(marks))
	copy(out, marks)
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := rank(out[i].Type), rank(out[j].Type)
		if ri != rj {
			return ri < rj
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// cloneMarks copies a mark set, keeping nil as nil.
func cloneMarks(marks []Mark) []Mark {
	if len(marks) == 0 {
		return nil
	}
	out := make([]Mark, len(marks))
	copy(out, marks)
	return out
}
