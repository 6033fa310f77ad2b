package schema

import (
	"fmt"
	"sync"

	"github.com/dshills/inkwell/internal/model"
)

// Registry holds the specs of one editor. Reads are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	nodes   map[model.NodeType]*NodeSpec
	marks   map[model.MarkType]*MarkSpec
	inlines map[model.InlineType]*InlineSpec
	ranks   map[model.MarkType]int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[model.NodeType]*NodeSpec),
		marks:   make(map[model.MarkType]*MarkSpec),
		inlines: make(map[model.InlineType]*InlineSpec),
		ranks:   make(map[model.MarkType]int),
	}
}

// RegisterNode adds or replaces a node spec.
func (r *Registry) RegisterNode(spec NodeSpec) error {
	if spec.Type == "" {
		return fmt.Errorf("register node: %w", ErrEmptyType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := spec
	r.nodes[spec.Type] = &s
	return nil
}

// RegisterMark adds or replaces a mark spec.
func (r *Registry) RegisterMark(spec MarkSpec) error {
	if spec.Type == "" {
		return fmt.Errorf("register mark: %w", ErrEmptyType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := spec
	r.marks[spec.Type] = &s
	return nil
}

// RegisterInline adds or replaces an inline spec.
func (r *Registry) RegisterInline(spec InlineSpec) error {
	if spec.Type == "" {
		return fmt.Errorf("register inline: %w", ErrEmptyType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s := spec
	r.inlines[spec.Type] = &s
	return nil
}

// SetMarkRank overrides the rank of a mark type, registered or not.
func (r *Registry) SetMarkRank(t model.MarkType, rank int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranks[t] = rank
}

// NodeSpec returns the spec of a block type.
func (r *Registry) NodeSpec(t model.NodeType) (NodeSpec, bool) {
	if r == nil {
		return NodeSpec{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.nodes[t]
	if !ok {
		return NodeSpec{}, false
	}
	return *s, true
}

// MarkSpec returns the spec of a mark type.
func (r *Registry) MarkSpec(t model.MarkType) (MarkSpec, bool) {
	if r == nil {
		return MarkSpec{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.marks[t]
	if !ok {
		return MarkSpec{}, false
	}
	return *s, true
}

// InlineSpec returns the spec of an inline type.
func (r *Registry) InlineSpec(t model.InlineType) (InlineSpec, bool) {
	if r == nil {
		return InlineSpec{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.inlines[t]
	if !ok {
		return InlineSpec{}, false
	}
	return *s, true
}

// MarkRank returns the nesting rank of t: an explicit override, then the
// registered spec's rank, then model.DefaultMarkRank. A nil registry uses
// the fallback table.
func (r *Registry) MarkRank(t model.MarkType) int {
	if r == nil {
		return model.DefaultMarkRank(t)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if rank, ok := r.ranks[t]; ok {
		return rank
	}
	if s, ok := r.marks[t]; ok && s.Rank != nil {
		return *s.Rank
	}
	return model.DefaultMarkRank(t)
}

// RankFunc adapts MarkRank for model.SortMarks.
func (r *Registry) RankFunc() model.RankFunc {
	return r.MarkRank
}

// IsVoid reports whether blocks of type t hold no editable content.
func (r *Registry) IsVoid(t model.NodeType) bool {
	s, ok := r.NodeSpec(t)
	return ok && s.IsVoid
}

// IsSelectable reports whether blocks of type t accept a NodeSelection.
func (r *Registry) IsSelectable(t model.NodeType) bool {
	s, ok := r.NodeSpec(t)
	return ok && (s.Selectable || s.IsVoid)
}

// ApplyDefaults returns b with missing attributes filled from its spec.
// Blocks of unknown type are returned unchanged.
func (r *Registry) ApplyDefaults(b *model.BlockNode) *model.BlockNode {
	s, ok := r.NodeSpec(b.Type)
	if !ok || len(s.Attrs) == 0 {
		return b
	}
	return b.WithAttrs(defaults(s.Attrs, b.Attrs))
}

// MarkWithDefaults returns m with missing attributes filled from its spec.
func (r *Registry) MarkWithDefaults(m model.Mark) model.Mark {
	s, ok := r.MarkSpec(m.Type)
	if !ok || len(s.Attrs) == 0 {
		return m
	}
	return model.Mark{Type: m.Type, Attrs: defaults(s.Attrs, m.Attrs)}
}

// InlineWithDefaults returns n with missing attributes filled from its spec.
func (r *Registry) InlineWithDefaults(n *model.InlineNode) *model.InlineNode {
	s, ok := r.InlineSpec(n.InlineType)
	if !ok || len(s.Attrs) == 0 {
		return n
	}
	return model.NewInlineNode(n.InlineType, defaults(s.Attrs, n.Attrs))
}

// NodeTypeForTag returns the node type whose ParseTags include tag.
func (r *Registry) NodeTypeForTag(tag string) (model.NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, s := range r.nodes {
		for _, pt := range s.ParseTags {
			if pt == tag {
				return t, true
			}
		}
	}
	return "", false
}

// MarkTypeForTag returns the mark type whose ParseTags include tag.
func (r *Registry) MarkTypeForTag(tag string) (model.MarkType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for t, s := range r.marks {
		for _, pt := range s.ParseTags {
			if pt == tag {
				return t, true
			}
		}
	}
	return "", false
}
