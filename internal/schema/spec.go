package schema

import (
	"golang.org/x/net/html"

	"github.com/dshills/inkwell/internal/model"
)

// AttrSpec describes one attribute of a node, mark or inline type.
type AttrSpec struct {
	// Default is used when the attribute is absent. A nil Default with
	// Required set means the attribute has no default.
	Default  any
	Required bool
}

// DOMOutput is the rendering of a block: its root element and, when the
// editable region is nested inside decorative markup, that region.
type DOMOutput struct {
	DOM        *html.Node
	ContentDOM *html.Node
}

// NodeSpec describes a block type.
type NodeSpec struct {
	Type model.NodeType

	// Tag is used when ToDOM is nil.
	Tag string

	// ToDOM renders the block's own element, without children. The
	// reconciler fills ContentDOM (or DOM) with the block's content.
	ToDOM func(b *model.BlockNode) DOMOutput

	Attrs map[string]AttrSpec

	// IsVoid blocks hold no editable content (images, rules).
	IsVoid bool

	// Selectable blocks can be the target of a NodeSelection.
	Selectable bool

	// ParseTags lists the HTML tags an importer maps to this type.
	ParseTags []string
}

// MarkSpec describes a mark type.
type MarkSpec struct {
	Type  model.MarkType
	Tag   string
	ToDOM func(m model.Mark) *html.Node
	Attrs map[string]AttrSpec

	// Rank orders nested mark elements: lower ranks wrap higher ones.
	// Nil falls back to model.DefaultMarkRank.
	Rank *int

	ParseTags []string
}

// InlineSpec describes an inline atom type.
type InlineSpec struct {
	Type      model.InlineType
	Tag       string
	ToDOM     func(n *model.InlineNode) *html.Node
	Attrs     map[string]AttrSpec
	ParseTags []string
}

// Rank is a helper for filling MarkSpec.Rank.
func Rank(r int) *int {
	return &r
}

// defaults builds the attribute map of a spec, overlaid with attrs.
func defaults(specs map[string]AttrSpec, attrs model.Attrs) model.Attrs {
	if len(specs) == 0 {
		return attrs.Clone()
	}
	out := make(model.Attrs, len(specs)+len(attrs))
	for k, s := range specs {
		if s.Default != nil || !s.Required {
			out[k] = s.Default
		}
	}
	for k, v := range attrs {
		out[k] = v
	}
	return out
}
